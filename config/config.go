// Package config provides configuration loading and access for the game core.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all game configuration parameters.
type Config struct {
	Catalog    CatalogConfig    `yaml:"catalog"`
	Mutation   MutationConfig   `yaml:"mutation"`
	Similarity SimilarityConfig `yaml:"similarity"`
	Session    SessionConfig    `yaml:"session"`
	Decay      DecayConfig      `yaml:"decay"`
	Progress   ProgressConfig   `yaml:"progress"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// CatalogConfig lists the option pools for every feature category.
// Entries are opaque asset handles; the core only cares about their order.
type CatalogConfig struct {
	Heads       []string `yaml:"heads"`
	Skins       []string `yaml:"skins"`
	Ears        []string `yaml:"ears"`
	Eyes        []string `yaml:"eyes"`
	Noses       []string `yaml:"noses"`
	Mouths      []string `yaml:"mouths"`
	Shirts      []string `yaml:"shirts"`
	ShrinkScale float64  `yaml:"shrink_scale"` // Scale applied to a shrunk feature
}

// MutationConfig holds descendant generation parameters.
type MutationConfig struct {
	NumDifferences    int     `yaml:"num_differences"`     // Dimensions changed per child
	ShrinkChance      float64 `yaml:"shrink_chance"`       // Chance a picked shrinkable feature toggles instead of swapping
	FreshShrinkChance float64 `yaml:"fresh_shrink_chance"` // Chance each shrinkable feature starts shrunk
}

// SimilarityConfig selects what the resemblance score compares.
type SimilarityConfig struct {
	IncludeShrink bool `yaml:"include_shrink"` // false = feature choices only
}

// SessionConfig holds the play-through rules.
type SessionConfig struct {
	SimilarityThreshold  float64 `yaml:"similarity_threshold"`
	Epsilon              float64 `yaml:"epsilon"`
	StartingLineupCount  float64 `yaml:"starting_lineup_count"`
	MaxLineupCount       int     `yaml:"max_lineup_count"`
	LineupIncrementation float64 `yaml:"lineup_incrementation"`
	AutoRestart          bool    `yaml:"auto_restart"` // Start a new run as soon as one ends
}

// DecayConfig lists the photo decay display assets, least decayed first.
type DecayConfig struct {
	Stages []string `yaml:"stages"`
}

// ProgressConfig maps a score onto the progress bar fill position.
type ProgressConfig struct {
	Empty float64 `yaml:"empty"` // Fill position at score 0
	Full  float64 `yaml:"full"`  // Fill position at score 1
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	HallOfFameSize int `yaml:"hall_of_fame_size"`
	HiscoreSize    int `yaml:"hiscore_size"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	MaxDecayStage int // len(Decay.Stages) - 1
	MinPoolSize   int // smallest feature pool, shirts excluded
	NumShirts     int
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.computeDerived()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.MaxDecayStage = len(c.Decay.Stages) - 1
	c.Derived.NumShirts = len(c.Catalog.Shirts)

	c.Derived.MinPoolSize = -1
	for _, pool := range c.Catalog.featurePools() {
		if c.Derived.MinPoolSize < 0 || len(pool.options) < c.Derived.MinPoolSize {
			c.Derived.MinPoolSize = len(pool.options)
		}
	}
}

type namedPool struct {
	name    string
	options []string
}

// featurePools returns the per-category pools in category order.
func (c *CatalogConfig) featurePools() []namedPool {
	return []namedPool{
		{"heads", c.Heads},
		{"skins", c.Skins},
		{"ears", c.Ears},
		{"eyes", c.Eyes},
		{"noses", c.Noses},
		{"mouths", c.Mouths},
	}
}

// Validate reports every configuration problem that would make the core
// fail later: empty pools, pools too small to exclude a parent's option,
// probabilities outside [0,1], bad lineup sizing and missing decay stages.
func (c *Config) Validate() error {
	var errs []error

	for _, pool := range c.Catalog.featurePools() {
		if len(pool.options) < 2 {
			errs = append(errs, fmt.Errorf("catalog.%s: need at least 2 options, have %d", pool.name, len(pool.options)))
		}
	}
	if len(c.Catalog.Shirts) == 0 {
		errs = append(errs, errors.New("catalog.shirts: need at least 1 option"))
	}
	if c.Catalog.ShrinkScale <= 0 || c.Catalog.ShrinkScale > 1 {
		errs = append(errs, fmt.Errorf("catalog.shrink_scale: %v not in (0,1]", c.Catalog.ShrinkScale))
	}

	if c.Mutation.NumDifferences < 0 {
		errs = append(errs, fmt.Errorf("mutation.num_differences: %d is negative", c.Mutation.NumDifferences))
	}
	if !isProbability(c.Mutation.ShrinkChance) {
		errs = append(errs, fmt.Errorf("mutation.shrink_chance: %v not in [0,1]", c.Mutation.ShrinkChance))
	}
	if !isProbability(c.Mutation.FreshShrinkChance) {
		errs = append(errs, fmt.Errorf("mutation.fresh_shrink_chance: %v not in [0,1]", c.Mutation.FreshShrinkChance))
	}

	if !isProbability(c.Session.SimilarityThreshold) {
		errs = append(errs, fmt.Errorf("session.similarity_threshold: %v not in [0,1]", c.Session.SimilarityThreshold))
	}
	if c.Session.Epsilon < 0 {
		errs = append(errs, fmt.Errorf("session.epsilon: %v is negative", c.Session.Epsilon))
	}
	if c.Session.StartingLineupCount < 1 {
		errs = append(errs, fmt.Errorf("session.starting_lineup_count: %v is below 1", c.Session.StartingLineupCount))
	}
	if c.Session.MaxLineupCount < 1 {
		errs = append(errs, fmt.Errorf("session.max_lineup_count: %d is below 1", c.Session.MaxLineupCount))
	}
	if c.Session.LineupIncrementation < 0 {
		errs = append(errs, fmt.Errorf("session.lineup_incrementation: %v is negative", c.Session.LineupIncrementation))
	}

	if len(c.Decay.Stages) == 0 {
		errs = append(errs, errors.New("decay.stages: need at least 1 stage"))
	}

	return errors.Join(errs...)
}

func isProbability(p float64) bool {
	return p >= 0 && p <= 1
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
