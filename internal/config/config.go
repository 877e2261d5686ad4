// Package config holds the explicit, immutable-for-the-solve Config every
// cmd/probplan subcommand builds and validates before constructing an
// engine.
//
// Grounded on AleutianLocal's Config/DefaultConfig/
// Validate pattern (services/trace/tdg/config.go): a plain struct with a
// defaults constructor and a Validate method that clamps out-of-range
// fields rather than erroring on most of them, reserving hard errors for
// values with no sane default (an unknown engine/picker/sampler/open-list
// name). Simplified from AleutianLocal's global-singleton-plus-YAML-file
// loading into one Config per solve: the task is bound immutably for the
// lifetime of that solve.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"probplan/internal/engine"
	"probplan/internal/openlist"
	"probplan/internal/picker"
	"probplan/internal/sampler"
	"probplan/internal/value"
)

// EngineKind names the outer algorithm a solve runs.
type EngineKind string

const (
	EngineExhaustiveAOStar EngineKind = "aostar"
	EngineLAOStar          EngineKind = "lao"
	EngineHDP              EngineKind = "hdp"
	EngineTVI              EngineKind = "tvi"
	EngineIVI              EngineKind = "ivi"
	EngineFRETV            EngineKind = "fret-v"
	EngineFRETPi           EngineKind = "fret-pi"
)

// HeuristicKind names the heuristic evaluator a solve uses.
type HeuristicKind string

const (
	HeuristicBlind          HeuristicKind = "blind"
	HeuristicDeadEndPruning HeuristicKind = "dead-end-pruning"
)

// Config is the full set of knobs one solve is bound to.
type Config struct {
	Regime    string `yaml:"regime"`    // "ssp" or "maxprob"
	Engine    string `yaml:"engine"`    // one of the EngineKind constants
	Heuristic string `yaml:"heuristic"` // one of the HeuristicKind constants
	Picker    string `yaml:"picker"`    // picker.Kind
	Sampler   string `yaml:"sampler"`   // sampler.Kind
	OpenList  string `yaml:"open_list"` // openlist.Kind

	Epsilon        float64       `yaml:"epsilon"`
	TimeLimit      time.Duration `yaml:"time_limit"`
	ReportInterval time.Duration `yaml:"report_interval"`
	MaxIterations  int           `yaml:"max_iterations"` // 0 == unbounded
	NonGoalCost    float64       `yaml:"non_goal_cost"`

	PolicyOutputPath string `yaml:"policy_output_path"`
	ChartOutputPath  string `yaml:"chart_output_path"`
	TrajectoryCount  int    `yaml:"trajectory_count"`
	TrajectoryLength int    `yaml:"trajectory_length"`
	Seed             int64  `yaml:"seed"`
}

// Default returns a Config with the same conservative defaults every
// subcommand falls back to absent an explicit flag or file value.
func Default() *Config {
	return &Config{
		Regime:           value.SSP.String(),
		Engine:           string(EngineLAOStar),
		Heuristic:        string(HeuristicBlind),
		Picker:           string(picker.KindStable),
		Sampler:          string(sampler.KindRandom),
		OpenList:         string(openlist.KindFIFO),
		Epsilon:          value.DefaultEpsilon,
		TimeLimit:        30 * time.Second,
		ReportInterval:   time.Second,
		MaxIterations:    0,
		NonGoalCost:      value.Inf,
		PolicyOutputPath: "policy.txt",
		ChartOutputPath:  "",
		TrajectoryCount:  0,
		TrajectoryLength: 100,
		Seed:             1,
	}
}

// Load reads a YAML file into a fresh Config seeded from Default, so a
// partial file only overrides the fields it mentions.
func Load(path string) (*Config, error) {
	cfg := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return cfg, nil
}

// Validate clamps out-of-range numeric fields to sane minimums and rejects
// unknown enum-valued fields outright, since those have no safe default to
// fall back to.
func (c *Config) Validate() error {
	if c.Epsilon <= 0 {
		c.Epsilon = value.DefaultEpsilon
	}
	if c.TimeLimit <= 0 {
		c.TimeLimit = 30 * time.Second
	}
	if c.ReportInterval <= 0 {
		c.ReportInterval = time.Second
	}
	if c.TrajectoryCount < 0 {
		c.TrajectoryCount = 0
	}
	if c.TrajectoryLength <= 0 {
		c.TrajectoryLength = 100
	}

	switch c.Regime {
	case "ssp", "maxprob":
	default:
		return fmt.Errorf("config: unknown regime %q", c.Regime)
	}
	switch EngineKind(c.Engine) {
	case EngineExhaustiveAOStar, EngineLAOStar, EngineHDP, EngineTVI, EngineIVI, EngineFRETV, EngineFRETPi:
	default:
		return fmt.Errorf("config: unknown engine %q", c.Engine)
	}
	switch HeuristicKind(c.Heuristic) {
	case HeuristicBlind, HeuristicDeadEndPruning:
	default:
		return fmt.Errorf("config: unknown heuristic %q", c.Heuristic)
	}
	switch picker.Kind(c.Picker) {
	case picker.KindArbitrary, picker.KindStable, picker.KindOperatorID, picker.KindValueGap:
	default:
		return fmt.Errorf("config: unknown picker %q", c.Picker)
	}
	switch sampler.Kind(c.Sampler) {
	case sampler.KindUniform, sampler.KindRandom, sampler.KindMostLikely, sampler.KindVBiased, sampler.KindVGap:
	default:
		return fmt.Errorf("config: unknown sampler %q", c.Sampler)
	}
	switch openlist.Kind(c.OpenList) {
	case openlist.KindFIFO, openlist.KindLIFO, openlist.KindPriority:
	default:
		return fmt.Errorf("config: unknown open list %q", c.OpenList)
	}
	return nil
}

// ValueRegime converts the validated Regime string into value.Regime.
func (c *Config) ValueRegime() value.Regime {
	if c.Regime == "maxprob" {
		return value.MaxProb
	}
	return value.SSP
}

// FRETVariant converts EngineFRETV/EngineFRETPi into engine.FRETVariant;
// callers must only call this when Engine is one of those two.
func (c *Config) FRETVariant() engine.FRETVariant {
	if EngineKind(c.Engine) == EngineFRETPi {
		return engine.FRETPi
	}
	return engine.FRETV
}
