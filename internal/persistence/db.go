// Package persistence provides SQLite-based storage for simulation
// runs: final villager and family state plus the daily metrics and
// event history, keyed by a run ID.
package persistence

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/village-sim/internal/agents"
	"github.com/talgya/village-sim/internal/engine"
	"github.com/talgya/village-sim/internal/simlog"
	"github.com/talgya/village-sim/internal/social"
)

// DB wraps a SQLite connection for run persistence.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		seed INTEGER NOT NULL,
		population INTEGER NOT NULL,
		days INTEGER NOT NULL,
		started_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS villagers (
		run_id TEXT NOT NULL,
		id INTEGER NOT NULL,
		name TEXT NOT NULL,
		sex TEXT NOT NULL,
		age_days INTEGER NOT NULL,
		health REAL NOT NULL,
		sentiment REAL NOT NULL,
		alive INTEGER NOT NULL,
		death_cause TEXT,
		family_id INTEGER NOT NULL,
		spouse_id INTEGER,
		pos_x INTEGER NOT NULL,
		pos_y INTEGER NOT NULL,
		traits_json TEXT NOT NULL,
		needs_json TEXT NOT NULL,
		skills_json TEXT NOT NULL,
		PRIMARY KEY (run_id, id)
	);

	CREATE TABLE IF NOT EXISTS families (
		run_id TEXT NOT NULL,
		id INTEGER NOT NULL,
		head_id INTEGER NOT NULL,
		home_x INTEGER NOT NULL,
		home_y INTEGER NOT NULL,
		members_json TEXT NOT NULL,
		inventory_json TEXT NOT NULL,
		PRIMARY KEY (run_id, id)
	);

	CREATE TABLE IF NOT EXISTS daily_metrics (
		run_id TEXT NOT NULL,
		day INTEGER NOT NULL,
		snapshot_json TEXT NOT NULL,
		PRIMARY KEY (run_id, day)
	);

	CREATE TABLE IF NOT EXISTS sim_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		day INTEGER NOT NULL,
		category TEXT NOT NULL,
		message TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_sim_events_day ON sim_events(run_id, day);
	CREATE INDEX IF NOT EXISTS idx_villagers_alive ON villagers(run_id, alive);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// BeginRun registers a new run and returns its ID.
func (db *DB) BeginRun(seed int64, population, days int) (string, error) {
	runID := uuid.NewString()
	_, err := db.conn.Exec(
		"INSERT INTO runs (id, seed, population, days, started_at) VALUES (?, ?, ?, ?, ?)",
		runID, seed, population, days, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}
	return runID, nil
}

// SaveVillagers writes all villagers for a run (full replace).
func (db *DB) SaveVillagers(runID string, villagers []*agents.Villager) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM villagers WHERE run_id = ?", runID); err != nil {
		return err
	}

	stmt, err := tx.Preparex(`INSERT INTO villagers
		(run_id, id, name, sex, age_days, health, sentiment, alive, death_cause,
		 family_id, spouse_id, pos_x, pos_y, traits_json, needs_json, skills_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, v := range villagers {
		traitsJSON, _ := json.Marshal(v.Traits)
		needsJSON, _ := json.Marshal(v.Needs)
		skillsJSON, _ := json.Marshal(v.Memory.SkillXP)

		alive := 0
		if v.Alive {
			alive = 1
		}

		_, err := stmt.Exec(
			runID, v.ID, v.Name, v.Sex, v.AgeDays, v.Health, v.Sentiment,
			alive, v.DeathCause, v.FamilyID, v.SpouseID,
			v.Position.X, v.Position.Y,
			string(traitsJSON), string(needsJSON), string(skillsJSON),
		)
		if err != nil {
			return fmt.Errorf("insert villager %d: %w", v.ID, err)
		}
	}

	return tx.Commit()
}

// SaveFamilies writes all families for a run (full replace).
func (db *DB) SaveFamilies(runID string, families []*social.Family) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM families WHERE run_id = ?", runID); err != nil {
		return err
	}

	for _, f := range families {
		membersJSON, _ := json.Marshal(f.MemberIDs)
		invJSON, _ := json.Marshal(f.Inventory)

		_, err := tx.Exec(`INSERT INTO families
			(run_id, id, head_id, home_x, home_y, members_json, inventory_json)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			runID, f.ID, f.HeadOfHousehold,
			f.HomePosition.X, f.HomePosition.Y,
			string(membersJSON), string(invJSON),
		)
		if err != nil {
			return fmt.Errorf("insert family %d: %w", f.ID, err)
		}
	}

	return tx.Commit()
}

// SaveMetrics writes the daily snapshot series for a run.
func (db *DB) SaveMetrics(runID string, snapshots []engine.DailySnapshot) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Preparex(
		"INSERT OR REPLACE INTO daily_metrics (run_id, day, snapshot_json) VALUES (?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, s := range snapshots {
		data, err := json.Marshal(s)
		if err != nil {
			return fmt.Errorf("marshal snapshot day %d: %w", s.Day, err)
		}
		if _, err := stmt.Exec(runID, s.Day, string(data)); err != nil {
			return fmt.Errorf("insert snapshot day %d: %w", s.Day, err)
		}
	}

	return tx.Commit()
}

// SaveLog appends archived simulation log entries for a run.
func (db *DB) SaveLog(runID string, entries []simlog.Entry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Preparex(
		"INSERT INTO sim_events (run_id, day, category, message) VALUES (?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err := stmt.Exec(runID, e.Day, e.Category, e.Message); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// SaveRun performs a full save of the finished run.
func (db *DB) SaveRun(runID string, eng *engine.Engine) error {
	slog.Info("saving run",
		"run_id", runID,
		"villagers", len(eng.Villagers),
		"families", len(eng.Families.Families()))

	if err := db.SaveVillagers(runID, eng.Villagers); err != nil {
		return fmt.Errorf("save villagers: %w", err)
	}
	if err := db.SaveFamilies(runID, eng.Families.Families()); err != nil {
		return fmt.Errorf("save families: %w", err)
	}
	if err := db.SaveMetrics(runID, eng.Metrics.Snapshots); err != nil {
		return fmt.Errorf("save metrics: %w", err)
	}
	if err := db.SaveLog(runID, eng.Log.Entries()); err != nil {
		return fmt.Errorf("save log: %w", err)
	}

	slog.Info("run saved", "run_id", runID)
	return nil
}

// RecentEvents returns the most recent logged events for a run.
func (db *DB) RecentEvents(runID string, limit int) ([]simlog.Entry, error) {
	var entries []simlog.Entry
	err := db.conn.Select(&entries,
		`SELECT day, category, message FROM sim_events
		 WHERE run_id = ? ORDER BY id DESC LIMIT ?`,
		runID, limit,
	)
	return entries, err
}
