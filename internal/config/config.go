// Package config provides unified configuration loading for engram.
// It supports YAML files and ENGRAM_* environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/engramdb/engram/internal/activation"
	"github.com/engramdb/engram/internal/plasticity"
)

// Config contains all engram configuration settings.
type Config struct {
	// Propagation tunes the spreading activation loop.
	Propagation PropagationConfig `yaml:"propagation"`

	// Learning tunes the Hebbian/Oja plasticity engine.
	Learning LearningConfig `yaml:"learning"`

	// Paths tunes the strongest-path ranker.
	Paths PathsConfig `yaml:"paths"`

	// Logging configures operational and trace logging.
	Logging LoggingConfig `yaml:"logging"`
}

// PropagationConfig mirrors activation.Config plus the default step count
// used by surfaces that do not take steps explicitly.
type PropagationConfig struct {
	Steps     int     `yaml:"steps"`
	Decay     float64 `yaml:"decay"`
	Diffusion float64 `yaml:"diffusion"`
	Threshold float64 `yaml:"threshold"`
	Strict    bool    `yaml:"strict"`
}

// LearningConfig mirrors plasticity.Config.
type LearningConfig struct {
	Rate          float64 `yaml:"rate"`
	UseOja        bool    `yaml:"use_oja"`
	NewEdgeWeight float64 `yaml:"new_edge_weight"`
}

// PathsConfig holds ranker defaults.
type PathsConfig struct {
	MaxDepth int `yaml:"max_depth"`
	TopK     int `yaml:"top_k"`
}

// LoggingConfig configures logging behavior. "debug" enables the JSONL trace
// stream; "trace" additionally includes full seed maps and per-edge deltas.
type LoggingConfig struct {
	Level string `yaml:"level"`
	Dir   string `yaml:"dir"`
}

// Default returns a Config with the engine defaults.
func Default() *Config {
	act := activation.DefaultConfig()
	pl := plasticity.DefaultConfig()
	return &Config{
		Propagation: PropagationConfig{
			Steps:     3,
			Decay:     act.Decay,
			Diffusion: act.Diffusion,
			Threshold: act.Threshold,
		},
		Learning: LearningConfig{
			Rate:          pl.LearningRate,
			UseOja:        pl.UseOja,
			NewEdgeWeight: pl.NewEdgeWeight,
		},
		Paths: PathsConfig{
			MaxDepth: 3,
			TopK:     5,
		},
		Logging: LoggingConfig{
			Level: "info",
			Dir:   ".engram",
		},
	}
}

// Load loads configuration from the default locations and environment.
// Order: defaults -> ~/.engram/config.yaml -> environment variables.
func Load() (*Config, error) {
	cfg := Default()

	homeDir, err := os.UserHomeDir()
	if err == nil {
		path := filepath.Join(homeDir, ".engram", "config.yaml")
		if _, statErr := os.Stat(path); statErr == nil {
			cfg, err = LoadFromFile(path)
			if err != nil {
				return nil, fmt.Errorf("loading config file: %w", err)
			}
		}
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

// LoadFromFile loads configuration from a specific YAML file, layered over
// the defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	return cfg, nil
}

// Validate checks that the configuration is inside documented ranges. The
// engine itself passes parameters through to the arithmetic unvalidated;
// surfacing bad config files here is the one place values are rejected
// rather than silently corrected.
func (c *Config) Validate() error {
	if c.Propagation.Decay < 0 || c.Propagation.Decay > 1 {
		return fmt.Errorf("propagation.decay must be in [0, 1], got %g", c.Propagation.Decay)
	}
	if c.Propagation.Diffusion < 0 {
		return fmt.Errorf("propagation.diffusion must be >= 0, got %g", c.Propagation.Diffusion)
	}
	if c.Propagation.Threshold < 0 {
		return fmt.Errorf("propagation.threshold must be >= 0, got %g", c.Propagation.Threshold)
	}
	if c.Propagation.Steps < 0 {
		return fmt.Errorf("propagation.steps must be >= 0, got %d", c.Propagation.Steps)
	}
	if c.Paths.MaxDepth < 1 || c.Paths.TopK < 1 {
		return fmt.Errorf("paths.max_depth and paths.top_k must be >= 1, got %d/%d",
			c.Paths.MaxDepth, c.Paths.TopK)
	}

	validLevels := map[string]bool{"": true, "info": true, "debug": true, "trace": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s (valid: info, debug, trace, or empty for default)", c.Logging.Level)
	}
	return nil
}

// Activation converts the propagation section into an engine config.
func (c *Config) Activation() activation.Config {
	return activation.Config{
		Decay:     c.Propagation.Decay,
		Diffusion: c.Propagation.Diffusion,
		Threshold: c.Propagation.Threshold,
		Strict:    c.Propagation.Strict,
	}
}

// Plasticity converts the learning section into an engine config.
func (c *Config) Plasticity() plasticity.Config {
	pl := plasticity.DefaultConfig()
	pl.LearningRate = c.Learning.Rate
	pl.UseOja = c.Learning.UseOja
	if c.Learning.NewEdgeWeight > 0 {
		pl.NewEdgeWeight = c.Learning.NewEdgeWeight
	}
	return pl
}

// applyEnvOverrides applies ENGRAM_* environment variable overrides.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("ENGRAM_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("ENGRAM_LOG_DIR"); v != "" {
		cfg.Logging.Dir = v
	}
	if v := os.Getenv("ENGRAM_STRICT"); v != "" {
		cfg.Propagation.Strict = v == "true" || v == "1"
	}
	if v := os.Getenv("ENGRAM_USE_OJA"); v != "" {
		cfg.Learning.UseOja = v == "true" || v == "1"
	}

	envFloat("ENGRAM_DECAY", &cfg.Propagation.Decay)
	envFloat("ENGRAM_DIFFUSION", &cfg.Propagation.Diffusion)
	envFloat("ENGRAM_THRESHOLD", &cfg.Propagation.Threshold)
	envFloat("ENGRAM_LEARNING_RATE", &cfg.Learning.Rate)
	envInt("ENGRAM_STEPS", &cfg.Propagation.Steps)
	envInt("ENGRAM_MAX_DEPTH", &cfg.Paths.MaxDepth)
	envInt("ENGRAM_TOP_K", &cfg.Paths.TopK)
}

func envFloat(name string, dst *float64) {
	if v := os.Getenv(name); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func envInt(name string, dst *int) {
	if v := os.Getenv(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
