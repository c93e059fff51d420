// Package config reads the optional YAML experiment file. Flags on the
// CLI always win over file values; file values win over defaults.
package config

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/convlift/convlift/internal/analyze"
	"github.com/convlift/convlift/internal/stats"
)

type Config struct {
	Alpha          float64  `yaml:"alpha"`
	ControlGroup   string   `yaml:"control_group"`
	TreatmentGroup string   `yaml:"treatment_group"`
	Metrics        []string `yaml:"metrics"`
	Segment        string   `yaml:"segment"`
	Bonferroni     bool     `yaml:"bonferroni"`

	Bayesian BayesianConfig `yaml:"bayesian"`
}

type BayesianConfig struct {
	Enabled bool   `yaml:"enabled"`
	Draws   int    `yaml:"draws"`
	Seed    uint64 `yaml:"seed"`
}

// Default matches the conventional experiment setup: groups A/B, alpha
// 0.05, conversion rate as the only metric.
func Default() Config {
	return Config{
		Alpha:          0.05,
		ControlGroup:   "A",
		TreatmentGroup: "B",
		Metrics:        []string{analyze.MetricConversionRate},
		Bayesian:       BayesianConfig{Draws: stats.DefaultBayesianDraws},
	}
}

// Load overlays the YAML file on the defaults. Unknown keys are rejected
// so a typo fails loudly instead of silently using a default.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if cfg.Alpha <= 0 || cfg.Alpha >= 1 {
		return Config{}, fmt.Errorf("alpha %v must be within (0,1)", cfg.Alpha)
	}
	if cfg.Bayesian.Draws <= 0 {
		return Config{}, fmt.Errorf("bayesian draws %d must be positive", cfg.Bayesian.Draws)
	}

	return cfg, nil
}

// Options converts the config into engine options.
func (c Config) Options() analyze.Options {
	return analyze.Options{
		ControlGroup:   c.ControlGroup,
		TreatmentGroup: c.TreatmentGroup,
		Alpha:          c.Alpha,
		Metrics:        c.Metrics,
		Bayesian:       c.Bayesian.Enabled,
		BayesianDraws:  c.Bayesian.Draws,
		Seed:           c.Bayesian.Seed,
		Bonferroni:     c.Bonferroni,
	}
}
