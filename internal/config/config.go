// Package config provides configuration management.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"price-tiers/internal/errors"
	"price-tiers/internal/logging"
)

// EnvPrefix is the prefix for environment overrides, e.g. PRICE_TIERS_OUTPUT_FORMAT
const EnvPrefix = "PRICE_TIERS"

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version" yaml:"version" envconfig:"VERSION"`

	// Tiers selects the price tier table
	Tiers TiersConfig `json:"tiers" yaml:"tiers" envconfig:"TIERS"`

	// Analysis contains aggregation settings
	Analysis AnalysisConfig `json:"analysis" yaml:"analysis" envconfig:"ANALYSIS"`

	// Output contains output configuration
	Output OutputConfig `json:"output" yaml:"output" envconfig:"OUTPUT"`

	// Chart contains chart rendering configuration
	Chart ChartConfig `json:"chart" yaml:"chart" envconfig:"CHART"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging" yaml:"logging" envconfig:"LOGGING"`
}

// TiersConfig selects the tier table
type TiersConfig struct {
	// File is an HCL tier table; empty means the built-in table
	File string `json:"file,omitempty" yaml:"file,omitempty" envconfig:"FILE"`
}

// AnalysisConfig contains aggregation settings
type AnalysisConfig struct {
	// Workers is the number of goroutines used to bin records
	Workers int `json:"workers" yaml:"workers" envconfig:"WORKERS"`

	// ParallelThreshold is the record count at which binning goes parallel
	ParallelThreshold int `json:"parallel_threshold" yaml:"parallel_threshold" envconfig:"PARALLEL_THRESHOLD"`
}

// OutputConfig contains output-related settings
type OutputConfig struct {
	// DefaultFormat is the default output format
	DefaultFormat string `json:"default_format" yaml:"default_format" envconfig:"FORMAT"`

	// Sort is the row order: profit, revenue or tier
	Sort string `json:"sort" yaml:"sort" envconfig:"SORT"`

	// NoColor disables ANSI colors in terminal output
	NoColor bool `json:"no_color" yaml:"no_color" envconfig:"NO_COLOR"`

	// XLSXSheet is the sheet name used for xlsx reports
	XLSXSheet string `json:"xlsx_sheet" yaml:"xlsx_sheet" envconfig:"XLSX_SHEET"`
}

// ChartConfig contains chart settings
type ChartConfig struct {
	// Directory receives rendered PNG charts; empty disables charts
	Directory string `json:"directory,omitempty" yaml:"directory,omitempty" envconfig:"DIRECTORY"`

	// Width in pixels
	Width int `json:"width" yaml:"width" envconfig:"WIDTH"`

	// Height in pixels
	Height int `json:"height" yaml:"height" envconfig:"HEIGHT"`
}

// Default returns a default configuration
func Default() *Config {
	return &Config{
		Version: "1.0",
		Analysis: AnalysisConfig{
			Workers:           4,
			ParallelThreshold: 50000,
		},
		Output: OutputConfig{
			DefaultFormat: "cli",
			Sort:          "profit",
			XLSXSheet:     "Price Segments",
		},
		Chart: ChartConfig{
			Width:  1280,
			Height: 640,
		},
		Logging: logging.DefaultConfig(),
	}
}

// DefaultPath returns $HOME/.price-tiers.json
func DefaultPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".price-tiers.json")
}

// Load loads configuration from a JSON or YAML file.
// A missing file yields the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, errors.Wrap(errors.TypeConfig, "failed to read config", err)
	}

	config := Default()
	if isYAML(path) {
		err = yaml.Unmarshal(data, config)
	} else {
		err = json.Unmarshal(data, config)
	}
	if err != nil {
		return nil, errors.Wrapf(errors.TypeConfig, err, "failed to parse config %s", path)
	}

	return config, nil
}

// ApplyEnv overrides fields from PRICE_TIERS_* environment variables
func (c *Config) ApplyEnv() error {
	if err := envconfig.Process(EnvPrefix, c); err != nil {
		return errors.Wrap(errors.TypeConfig, "failed to load config from env", err)
	}
	return nil
}

// Save saves configuration to a file
func (c *Config) Save(path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// Global configuration instance
var globalConfig = Default()

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// Set sets the global configuration
func Set(config *Config) {
	globalConfig = config
}
