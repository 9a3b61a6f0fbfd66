package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration options for the ACC3 listing scraper
type Config struct {
	// Target listing settings
	Target TargetConfig `yaml:"target" json:"target"`

	// Output and checkpoint paths
	Output OutputConfig `yaml:"output" json:"output"`

	// Browser navigation settings
	Navigation NavigationConfig `yaml:"navigation" json:"navigation"`

	// Pacing between page visits
	RateLimit RateLimitConfig `yaml:"rate_limit" json:"rate_limit"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// TargetConfig identifies the listing to scrape
type TargetConfig struct {
	URL string `yaml:"url" json:"url"`
}

// OutputConfig holds the CSV and checkpoint file locations
type OutputConfig struct {
	CSVPath        string `yaml:"csv_path" json:"csv_path"`
	CheckpointPath string `yaml:"checkpoint_path" json:"checkpoint_path"`
}

// NavigationConfig holds browser session settings
type NavigationConfig struct {
	// WaitTimeout bounds the wait for the next-page control or initial
	// listing render. A timeout on the next control is the end-of-listing
	// signal, not a transient error.
	WaitTimeout time.Duration `yaml:"wait_timeout" json:"wait_timeout"`
	// SettleDelay is the pause after a page transition for the listing to
	// re-render in place.
	SettleDelay time.Duration `yaml:"settle_delay" json:"settle_delay"`
	Headless    bool          `yaml:"headless" json:"headless"`
}

// RateLimitConfig holds the courtesy pacing toward the source service
type RateLimitConfig struct {
	// MinPageInterval is the minimum time between successive page visits.
	// Zero disables pacing.
	MinPageInterval time.Duration `yaml:"min_page_interval" json:"min_page_interval"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Target: TargetConfig{
			URL: "https://ksda.ec.europa.eu/public/acc3s?status=Valid",
		},
		Output: OutputConfig{
			CSVPath:        "acc3_data.csv",
			CheckpointPath: "acc3_checkpoint.txt",
		},
		Navigation: NavigationConfig{
			WaitTimeout: 10 * time.Second,
			SettleDelay: 5 * time.Second,
			Headless:    true,
		},
		RateLimit: RateLimitConfig{
			MinPageInterval: 5 * time.Second,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	if u := os.Getenv("ACC3_TARGET_URL"); u != "" {
		c.Target.URL = u
	}
	if p := os.Getenv("ACC3_CSV_PATH"); p != "" {
		c.Output.CSVPath = p
	}
	if p := os.Getenv("ACC3_CHECKPOINT_PATH"); p != "" {
		c.Output.CheckpointPath = p
	}
	if d := os.Getenv("ACC3_WAIT_TIMEOUT"); d != "" {
		if val, err := time.ParseDuration(d); err == nil && val > 0 {
			c.Navigation.WaitTimeout = val
		}
	}
	if d := os.Getenv("ACC3_SETTLE_DELAY"); d != "" {
		if val, err := time.ParseDuration(d); err == nil && val >= 0 {
			c.Navigation.SettleDelay = val
		}
	}
	if d := os.Getenv("ACC3_MIN_PAGE_INTERVAL"); d != "" {
		if val, err := time.ParseDuration(d); err == nil && val >= 0 {
			c.RateLimit.MinPageInterval = val
		}
	}
	if h := os.Getenv("ACC3_HEADLESS"); h != "" {
		c.Navigation.Headless = strings.ToLower(h) != "false"
	}
	if level := os.Getenv("ACC3_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	locations := []string{
		".acc3scraper.yaml",
		".acc3scraper.yml",
		filepath.Join(os.Getenv("HOME"), ".config", "acc3scraper", "config.yaml"),
		filepath.Join(os.Getenv("HOME"), ".acc3scraper.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if c.Target.URL == "" {
		errs = append(errs, errors.New("target URL is required"))
	} else if u, err := url.Parse(c.Target.URL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, errors.New("target URL must be absolute"))
	}

	if c.Output.CSVPath == "" {
		errs = append(errs, errors.New("CSV output path is required"))
	}
	if c.Output.CheckpointPath == "" {
		errs = append(errs, errors.New("checkpoint path is required"))
	}

	if c.Navigation.WaitTimeout <= 0 {
		errs = append(errs, errors.New("wait timeout must be positive"))
	}
	if c.Navigation.SettleDelay < 0 {
		errs = append(errs, errors.New("settle delay cannot be negative"))
	}
	if c.RateLimit.MinPageInterval < 0 {
		errs = append(errs, errors.New("minimum page interval cannot be negative"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if u, ok := flags["url"].(string); ok && u != "" {
		c.Target.URL = u
	}
	if p, ok := flags["output"].(string); ok && p != "" {
		c.Output.CSVPath = p
	}
	if p, ok := flags["checkpoint"].(string); ok && p != "" {
		c.Output.CheckpointPath = p
	}
	if d, ok := flags["wait-timeout"].(time.Duration); ok && d > 0 {
		c.Navigation.WaitTimeout = d
	}
	if d, ok := flags["settle-delay"].(time.Duration); ok && d >= 0 {
		c.Navigation.SettleDelay = d
	}
	if d, ok := flags["page-interval"].(time.Duration); ok && d >= 0 {
		c.RateLimit.MinPageInterval = d
	}
	if h, ok := flags["headless"].(bool); ok {
		c.Navigation.Headless = h
	}
	if level, ok := flags["log-level"].(string); ok && level != "" {
		c.Logging.Level = level
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// Try to load .env files (don't fail if they don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".acc3scraper.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
