package engine

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/talgya/village-sim/internal/agents"
	"github.com/talgya/village-sim/internal/social"
	"github.com/talgya/village-sim/internal/world"
)

// DailySnapshot captures one day of aggregate simulation state.
type DailySnapshot struct {
	Day                 int                `json:"day"`
	Population          int                `json:"population"`
	Births              int                `json:"births"`
	Deaths              int                `json:"deaths"`
	AvgSentiment        float64            `json:"avg_sentiment"`
	AvgHunger           float64            `json:"avg_hunger"`
	AvgHealth           float64            `json:"avg_health"`
	TotalFood           float64            `json:"total_food"`
	FoodPerCapita       float64            `json:"food_per_capita"`
	Gini                float64            `json:"gini"`
	ActivityCounts      map[string]int     `json:"activity_counts"`
	AvgWellbeing        float64            `json:"avg_wellbeing"`
	Marriages           int                `json:"marriages"`
	Trades              int                `json:"trades"`
	TradeItemsExchanged float64            `json:"trade_items_exchanged"`
	AvgSkillLevels      map[string]float64 `json:"avg_skill_levels"`
	WorkParties         int                `json:"work_parties"`
}

// MetricsCollector accumulates per-day counters and builds the daily
// time series.
type MetricsCollector struct {
	Snapshots []DailySnapshot

	dailyBirths      int
	dailyDeaths      int
	dailyMarriages   int
	dailyTrades      int
	dailyTradeItems  float64
	dailyWorkParties int
}

// NewMetricsCollector returns an empty collector.
func NewMetricsCollector() *MetricsCollector { return &MetricsCollector{} }

// RecordBirth counts one birth today.
func (m *MetricsCollector) RecordBirth() { m.dailyBirths++ }

// RecordDeath counts one death today.
func (m *MetricsCollector) RecordDeath() { m.dailyDeaths++ }

// RecordMarriage counts one marriage today.
func (m *MetricsCollector) RecordMarriage() { m.dailyMarriages++ }

// RecordTrade counts one completed trade today.
func (m *MetricsCollector) RecordTrade(itemsExchanged float64) {
	m.dailyTrades++
	m.dailyTradeItems += itemsExchanged
}

// RecordWorkParty counts one formed work party today.
func (m *MetricsCollector) RecordWorkParty() { m.dailyWorkParties++ }

// CollectDaily builds today's snapshot and resets the daily counters.
func (m *MetricsCollector) CollectDaily(day int, villagers []*agents.Villager, families *social.FamilyManager, resources *world.ResourceManager) DailySnapshot {
	var alive []*agents.Villager
	for _, v := range villagers {
		if v.Alive {
			alive = append(alive, v)
		}
	}
	n := len(alive)
	denom := float64(n)
	if denom == 0 {
		denom = 1
	}

	var sentiment, hunger, health, wellbeing float64
	activityCounts := make(map[string]int)
	skillTotals := make(map[string]float64)
	skillCounts := make(map[string]int)
	for _, v := range alive {
		sentiment += v.Sentiment
		hunger += v.Needs.Get(agents.NeedHunger).Satisfaction
		health += v.Health
		wellbeing += v.Needs.OverallWellbeing()

		act := v.CurrentActivity
		if act == "" {
			act = "idle"
		}
		activityCounts[act]++

		for skillName := range v.Memory.SkillXP {
			skillTotals[skillName] += v.SkillLevel(skillName)
			skillCounts[skillName]++
		}
	}

	var totalFood float64
	var familyWealths []float64
	for _, fam := range families.Families() {
		totalFood += fam.TotalFood()
		if len(fam.MemberIDs) > 0 {
			familyWealths = append(familyWealths, fam.Inventory.TotalWeight())
		}
	}

	avgSkills := make(map[string]float64, len(skillTotals))
	for name, total := range skillTotals {
		avgSkills[name] = total / float64(skillCounts[name])
	}

	snapshot := DailySnapshot{
		Day:                 day,
		Population:          n,
		Births:              m.dailyBirths,
		Deaths:              m.dailyDeaths,
		AvgSentiment:        sentiment / denom,
		AvgHunger:           hunger / denom,
		AvgHealth:           health / denom,
		TotalFood:           totalFood,
		FoodPerCapita:       totalFood / denom,
		Gini:                GiniCoefficient(familyWealths),
		ActivityCounts:      activityCounts,
		AvgWellbeing:        wellbeing / denom,
		Marriages:           m.dailyMarriages,
		Trades:              m.dailyTrades,
		TradeItemsExchanged: m.dailyTradeItems,
		AvgSkillLevels:      avgSkills,
		WorkParties:         m.dailyWorkParties,
	}
	m.Snapshots = append(m.Snapshots, snapshot)

	m.dailyBirths = 0
	m.dailyDeaths = 0
	m.dailyMarriages = 0
	m.dailyTrades = 0
	m.dailyTradeItems = 0
	m.dailyWorkParties = 0

	return snapshot
}

// GiniCoefficient measures inequality over the values, 0 for empty or
// all-zero input.
func GiniCoefficient(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	n := float64(len(sorted))
	var total, weighted float64
	for i, v := range sorted {
		total += v
		weighted += float64(i+1) * v
	}
	if total == 0 {
		return 0
	}
	return 2*weighted/(n*total) - (n+1)/n
}

// ExportCSV writes the full time series to a CSV file.
func (m *MetricsCollector) ExportCSV(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create metrics dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{
		"day", "population", "births", "deaths", "avg_sentiment",
		"avg_hunger", "avg_health", "total_food", "food_per_capita",
		"gini", "avg_wellbeing", "marriages", "trades",
		"trade_items", "work_parties",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, s := range m.Snapshots {
		row := []string{
			strconv.Itoa(s.Day), strconv.Itoa(s.Population),
			strconv.Itoa(s.Births), strconv.Itoa(s.Deaths),
			fmt.Sprintf("%.2f", s.AvgSentiment),
			fmt.Sprintf("%.3f", s.AvgHunger),
			fmt.Sprintf("%.1f", s.AvgHealth),
			fmt.Sprintf("%.1f", s.TotalFood),
			fmt.Sprintf("%.2f", s.FoodPerCapita),
			fmt.Sprintf("%.3f", s.Gini),
			fmt.Sprintf("%.3f", s.AvgWellbeing),
			strconv.Itoa(s.Marriages), strconv.Itoa(s.Trades),
			fmt.Sprintf("%.1f", s.TradeItemsExchanged),
			strconv.Itoa(s.WorkParties),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// SummaryReport renders a human-readable summary of the whole run.
func (m *MetricsCollector) SummaryReport() string {
	if len(m.Snapshots) == 0 {
		return "No data collected."
	}
	first := m.Snapshots[0]
	last := m.Snapshots[len(m.Snapshots)-1]

	var births, deaths, marriages, trades int
	var tradeItems float64
	for _, s := range m.Snapshots {
		births += s.Births
		deaths += s.Deaths
		marriages += s.Marriages
		trades += s.Trades
		tradeItems += s.TradeItemsExchanged
	}

	days := last.Day - first.Day + 1
	var b strings.Builder
	fmt.Fprintf(&b, "=== Simulation Summary: Day %d to Day %d ===\n", first.Day, last.Day)
	fmt.Fprintf(&b, "Duration: %s days (%.1f years)\n\n", humanize.Comma(int64(days)), float64(days)/float64(world.DaysPerYear))
	fmt.Fprintf(&b, "Population: %d -> %d\n", first.Population, last.Population)
	fmt.Fprintf(&b, "  Total births: %d\n", births)
	fmt.Fprintf(&b, "  Total deaths: %d\n", deaths)
	fmt.Fprintf(&b, "  Total marriages: %d\n\n", marriages)
	fmt.Fprintf(&b, "Economy:\n")
	fmt.Fprintf(&b, "  Total trades: %s\n", humanize.Comma(int64(trades)))
	fmt.Fprintf(&b, "  Total items exchanged: %s\n", humanize.Commaf(float64(int64(tradeItems))))
	fmt.Fprintf(&b, "  Avg trades/day: %.1f\n\n", float64(trades)/float64(len(m.Snapshots)))
	fmt.Fprintf(&b, "Final Metrics:\n")
	fmt.Fprintf(&b, "  Avg sentiment: %.1f/100\n", last.AvgSentiment)
	fmt.Fprintf(&b, "  Avg hunger satisfaction: %.1f%%\n", last.AvgHunger*100)
	fmt.Fprintf(&b, "  Avg health: %.1f/100\n", last.AvgHealth)
	fmt.Fprintf(&b, "  Food per capita: %.2f\n", last.FoodPerCapita)
	fmt.Fprintf(&b, "  Wealth inequality (Gini): %.3f\n", last.Gini)
	fmt.Fprintf(&b, "  Avg wellbeing: %.1f%%\n", last.AvgWellbeing*100)

	if len(last.ActivityCounts) > 0 {
		fmt.Fprintf(&b, "\nActivity Distribution (final day):\n")
		type actCount struct {
			name  string
			count int
		}
		var acts []actCount
		total := 0
		for name, count := range last.ActivityCounts {
			acts = append(acts, actCount{name, count})
			total += count
		}
		sort.Slice(acts, func(i, j int) bool {
			if acts[i].count != acts[j].count {
				return acts[i].count > acts[j].count
			}
			return acts[i].name < acts[j].name
		})
		for _, a := range acts {
			fmt.Fprintf(&b, "  %s: %d (%.0f%%)\n", a.name, a.count, float64(a.count)/float64(total)*100)
		}
	}

	if len(last.AvgSkillLevels) > 0 {
		fmt.Fprintf(&b, "\nAverage Skill Levels (final day):\n")
		type skillLevel struct {
			name  string
			level float64
		}
		var skills []skillLevel
		for name, level := range last.AvgSkillLevels {
			skills = append(skills, skillLevel{name, level})
		}
		sort.Slice(skills, func(i, j int) bool {
			if skills[i].level != skills[j].level {
				return skills[i].level > skills[j].level
			}
			return skills[i].name < skills[j].name
		})
		for _, s := range skills {
			if s.level > 0.5 {
				fmt.Fprintf(&b, "  %s: %.1f\n", s.name, s.level)
			}
		}
	}

	return b.String()
}
