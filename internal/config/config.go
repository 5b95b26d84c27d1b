package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	APIKey string `mapstructure:"api_key" yaml:"api_key"`
	Model  string `mapstructure:"model" yaml:"model"`

	// Data loading limits
	MaxRows    int   `mapstructure:"max_rows" yaml:"max_rows"`
	MaxColumns int   `mapstructure:"max_columns" yaml:"max_columns"`
	SampleSeed int64 `mapstructure:"sample_seed" yaml:"sample_seed"`

	// Schema detection
	CategoricalCardinality int `mapstructure:"categorical_cardinality" yaml:"categorical_cardinality"`

	// Plot planning
	MinCorrelation   float64 `mapstructure:"min_correlation" yaml:"min_correlation"`
	MaxBars          int     `mapstructure:"max_bars" yaml:"max_bars"`
	MaxUnivariate    int     `mapstructure:"max_univariate_plots" yaml:"max_univariate_plots"`
	MaxBivariate     int     `mapstructure:"max_bivariate_plots" yaml:"max_bivariate_plots"`
	NumericalSlots   int     `mapstructure:"numerical_slots" yaml:"numerical_slots"`
	CategoricalSlots int     `mapstructure:"categorical_slots" yaml:"categorical_slots"`

	// Output
	OutputDir string `mapstructure:"output_dir" yaml:"output_dir"`

	// HTTP/Retry configuration
	HTTPTimeoutSec   int `mapstructure:"http_timeout_sec" yaml:"http_timeout_sec"`
	RetryMaxAttempts int `mapstructure:"retry_max_attempts" yaml:"retry_max_attempts"`
	RetryBaseDelayMs int `mapstructure:"retry_base_delay_ms" yaml:"retry_base_delay_ms"`
	RetryMaxDelayMs  int `mapstructure:"retry_max_delay_ms" yaml:"retry_max_delay_ms"`
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.dashloom/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".dashloom")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("DASHLOOM")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("model", "gpt-4o-mini")
	v.SetDefault("max_rows", 10000)
	v.SetDefault("max_columns", 50)
	v.SetDefault("sample_seed", 42)
	v.SetDefault("categorical_cardinality", 20)
	v.SetDefault("min_correlation", 0.3)
	v.SetDefault("max_bars", 15)
	v.SetDefault("max_univariate_plots", 9)
	v.SetDefault("max_bivariate_plots", 9)
	v.SetDefault("numerical_slots", 5)
	v.SetDefault("categorical_slots", 4)
	// HTTP/retry defaults
	v.SetDefault("http_timeout_sec", 60)
	v.SetDefault("retry_max_attempts", 3)
	v.SetDefault("retry_base_delay_ms", 500)
	v.SetDefault("retry_max_delay_ms", 4000)

	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".dashloom")
		_ = os.MkdirAll(dir, 0o755)
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	// Resolve output_dir default: ./output
	if c.OutputDir == "" {
		c.OutputDir = "output"
	}
	return &c, nil
}
