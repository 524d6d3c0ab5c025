// Command villagesim runs the village socioeconomic simulation.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/talgya/village-sim/internal/config"
	"github.com/talgya/village-sim/internal/engine"
	"github.com/talgya/village-sim/internal/persistence"
	"github.com/talgya/village-sim/internal/simlog"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	days := flag.Int("days", 0, "days to simulate (overrides config)")
	population := flag.Int("population", 0, "starting population (overrides config)")
	seed := flag.Int64("seed", 0, "random seed (overrides config)")
	verbosity := flag.Int("verbosity", -1, "narrative log verbosity 0-3 (overrides config)")
	outputDir := flag.String("output", "", "output directory (overrides config)")
	saveDB := flag.Bool("db", false, "save the run to SQLite")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if *days > 0 {
		cfg.Simulation.Days = *days
	}
	if *population > 0 {
		cfg.Simulation.Population = *population
	}
	if *seed != 0 {
		cfg.Simulation.Seed = *seed
	}
	if *verbosity >= 0 {
		cfg.Logging.Verbosity = *verbosity
	}
	if *outputDir != "" {
		cfg.Output.Dir = *outputDir
	}
	if *saveDB {
		cfg.Output.SaveToDB = true
	}

	slog.Info("village simulation",
		"seed", cfg.Simulation.Seed,
		"population", cfg.Simulation.Population,
		"days", cfg.Simulation.Days,
	)

	simLogger := simlog.New(cfg.Logging.Verbosity, logger)
	eng := engine.New(cfg.Simulation.Seed, cfg.Simulation.Population, simLogger)
	eng.Initialize()

	slog.Info("world generated",
		"resource_nodes", len(eng.Resources.Nodes()),
		"families", len(eng.Families.Families()),
		"shelters", len(eng.Infrastructure.Structures()),
	)

	// Stop cleanly at the next day boundary on SIGINT/SIGTERM.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("received signal, stopping after current day", "signal", sig)
		cancel()
	}()

	fmt.Printf("\nSimulating %d days for %d villagers... (Ctrl+C to stop)\n\n",
		cfg.Simulation.Days, cfg.Simulation.Population)

	if err := eng.Run(ctx, cfg.Simulation.Days); err != nil {
		slog.Info("simulation interrupted", "day", eng.Clock.Day)
	}

	metricsPath := filepath.Join(cfg.Output.Dir, cfg.Output.MetricsCSV)
	if err := eng.Metrics.ExportCSV(metricsPath); err != nil {
		slog.Error("failed to export metrics", "error", err)
		os.Exit(1)
	}
	slog.Info("metrics exported", "path", metricsPath)

	logPath := filepath.Join(cfg.Output.Dir, cfg.Output.EventLog)
	if err := eng.Log.ExportJSON(logPath); err != nil {
		slog.Error("failed to export event log", "error", err)
		os.Exit(1)
	}
	slog.Info("event log exported", "path", logPath)

	if cfg.Output.SaveToDB {
		dbPath := filepath.Join(cfg.Output.Dir, cfg.Output.DBPath)
		db, err := persistence.Open(dbPath)
		if err != nil {
			slog.Error("failed to open database", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		runID, err := db.BeginRun(cfg.Simulation.Seed, cfg.Simulation.Population, cfg.Simulation.Days)
		if err != nil {
			slog.Error("failed to register run", "error", err)
			os.Exit(1)
		}
		if err := db.SaveRun(runID, eng); err != nil {
			slog.Error("failed to save run", "error", err)
			os.Exit(1)
		}
		slog.Info("run saved", "path", dbPath, "run_id", runID)
	}

	if cfg.Output.PrintReport {
		fmt.Println()
		fmt.Println(eng.Metrics.SummaryReport())
	}
}
