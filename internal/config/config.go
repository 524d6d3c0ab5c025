// Package config loads run configuration from a YAML file. Every
// field has a default so an empty or missing file yields a usable
// configuration; command-line flags override whatever the file set.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the full run configuration.
type Config struct {
	Simulation SimulationConfig `yaml:"simulation"`
	Logging    LoggingConfig    `yaml:"logging"`
	Output     OutputConfig     `yaml:"output"`
}

// SimulationConfig controls the run itself.
type SimulationConfig struct {
	Days       int   `yaml:"days"`
	Population int   `yaml:"population"`
	Seed       int64 `yaml:"seed"`
}

// LoggingConfig controls narrative log verbosity.
type LoggingConfig struct {
	// Verbosity 0 shows lifecycle and events only, 3 shows everything.
	Verbosity int `yaml:"verbosity"`
}

// OutputConfig names the run artifacts.
type OutputConfig struct {
	Dir         string `yaml:"dir"`
	MetricsCSV  string `yaml:"metrics_csv"`
	EventLog    string `yaml:"event_log"`
	DBPath      string `yaml:"db_path"`
	SaveToDB    bool   `yaml:"save_to_db"`
	PrintReport bool   `yaml:"print_report"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Simulation: SimulationConfig{
			Days:       360,
			Population: 150,
			Seed:       42,
		},
		Logging: LoggingConfig{
			Verbosity: 0,
		},
		Output: OutputConfig{
			Dir:         "output",
			MetricsCSV:  "metrics.csv",
			EventLog:    "events.json",
			DBPath:      "village.db",
			SaveToDB:    false,
			PrintReport: true,
		},
	}
}

// Load reads a YAML config file over the defaults. A missing file is
// not an error; the defaults are returned unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Simulation.Days < 1 {
		return fmt.Errorf("simulation.days must be at least 1, got %d", c.Simulation.Days)
	}
	if c.Simulation.Population < 2 {
		return fmt.Errorf("simulation.population must be at least 2, got %d", c.Simulation.Population)
	}
	if c.Logging.Verbosity < 0 || c.Logging.Verbosity > 3 {
		return fmt.Errorf("logging.verbosity must be 0..3, got %d", c.Logging.Verbosity)
	}
	return nil
}
