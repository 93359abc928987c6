package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g.
// STACKPROBE_ANALYSIS_MAX_WORKERS.
const EnvPrefix = "STACKPROBE"

// FileBase is the config file name without extension, as viper looks it
// up; FileName is what init writes.
const (
	FileBase = ".stackprobe"
	FileName = FileBase + ".yaml"
)

const (
	defaultMaxWorkers       = 4
	defaultNamingSampleSize = 500
	defaultFormat           = "json"
)

// ValidFormats are the accepted output.format values. text is a styled
// summary meant for terminals.
var ValidFormats = map[string]bool{"json": true, "yaml": true, "text": true}

// Config represents the full stackprobe configuration
type Config struct {
	Analysis AnalysisConfig `mapstructure:"analysis" yaml:"analysis"`
	Output   OutputConfig   `mapstructure:"output" yaml:"output"`
	Verbose  bool           `mapstructure:"verbose" yaml:"verbose"`
}

// AnalysisConfig tunes the scanner
type AnalysisConfig struct {
	MaxWorkers       int      `mapstructure:"max_workers" yaml:"max_workers"`
	NamingSampleSize int      `mapstructure:"naming_sample_size" yaml:"naming_sample_size"`
	ExcludeDirs      []string `mapstructure:"exclude_dirs" yaml:"exclude_dirs"`
	SourceDirs       []string `mapstructure:"source_dirs" yaml:"source_dirs"`
}

// OutputConfig controls result encoding
type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format"`
}

// Configure registers defaults and environment binding on v. Defaults must
// be registered for AutomaticEnv to resolve nested keys during Unmarshal.
func Configure(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("analysis.max_workers", defaultMaxWorkers)
	v.SetDefault("analysis.naming_sample_size", defaultNamingSampleSize)
	v.SetDefault("analysis.exclude_dirs", []string{})
	v.SetDefault("analysis.source_dirs", []string{})
	v.SetDefault("output.format", defaultFormat)
	v.SetDefault("verbose", false)
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load loads configuration from the global viper instance
func Load() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom loads configuration from file, environment and flags bound to v
func LoadFrom(v *viper.Viper) (*Config, error) {
	cfg := &Config{}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyDefaults sets default values for unset fields
func applyDefaults(cfg *Config) {
	if cfg.Analysis.MaxWorkers == 0 {
		cfg.Analysis.MaxWorkers = defaultMaxWorkers
	}

	if cfg.Analysis.NamingSampleSize == 0 {
		cfg.Analysis.NamingSampleSize = defaultNamingSampleSize
	}

	if cfg.Analysis.ExcludeDirs == nil {
		cfg.Analysis.ExcludeDirs = []string{}
	}

	if cfg.Analysis.SourceDirs == nil {
		cfg.Analysis.SourceDirs = []string{}
	}

	cfg.Output.Format = strings.ToLower(strings.TrimSpace(cfg.Output.Format))
	if cfg.Output.Format == "" {
		cfg.Output.Format = defaultFormat
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Analysis.MaxWorkers < 1 {
		return fmt.Errorf("invalid analysis.max_workers: %d (must be at least 1)", c.Analysis.MaxWorkers)
	}

	if c.Analysis.NamingSampleSize < 1 {
		return fmt.Errorf("invalid analysis.naming_sample_size: %d (must be at least 1)", c.Analysis.NamingSampleSize)
	}

	if !ValidFormats[c.Output.Format] {
		return fmt.Errorf("invalid output format: %s (must be json, yaml or text)", c.Output.Format)
	}

	for _, dir := range c.Analysis.ExcludeDirs {
		if dir == "" || strings.ContainsAny(dir, `/\`) {
			return fmt.Errorf("invalid analysis.exclude_dirs entry %q: must be a bare directory name", dir)
		}
	}

	for _, dir := range c.Analysis.SourceDirs {
		if dir == "" || strings.HasPrefix(dir, "/") || strings.HasPrefix(dir, "..") {
			return fmt.Errorf("invalid analysis.source_dirs entry %q: must be relative to the project root", dir)
		}
	}

	return nil
}
