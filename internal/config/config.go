package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/AaronXu9/plate-vs-client/internal/api"
)

// Config defines configuration for the platevs CLI.
type Config struct {
	BaseURL         string        `yaml:"base_url"`
	Bucket          string        `yaml:"bucket"`
	Thresholds      []float64     `yaml:"thresholds"`
	QcovLevels      []int         `yaml:"qcov_levels"`
	Workers         int           `yaml:"workers"`
	Timeout         time.Duration `yaml:"timeout"`
	MatrixInterval  time.Duration `yaml:"matrix_interval"`
	ArchiveInterval time.Duration `yaml:"archive_interval"`
	Progress        bool          `yaml:"progress"`
}

// Default returns a Config with sensible defaults. The threshold and
// coverage grids match the full published dataset.
func Default() Config {
	return Config{
		BaseURL:         api.DefaultBaseURL,
		Thresholds:      []float64{0.0, 0.1, 0.3, 0.5, 0.7, 0.9},
		QcovLevels:      []int{50, 70, 95, 100},
		Workers:         1,
		Timeout:         30 * time.Second,
		MatrixInterval:  500 * time.Millisecond,
		ArchiveInterval: time.Second,
	}
}

// yamlConfig is used for YAML unmarshaling with string durations.
type yamlConfig struct {
	BaseURL         string    `yaml:"base_url"`
	Bucket          string    `yaml:"bucket"`
	Thresholds      []float64 `yaml:"thresholds"`
	QcovLevels      []int     `yaml:"qcov_levels"`
	Workers         int       `yaml:"workers"`
	Timeout         string    `yaml:"timeout"`
	MatrixInterval  string    `yaml:"matrix_interval"`
	ArchiveInterval string    `yaml:"archive_interval"`
	Progress        bool      `yaml:"progress"`
}

// LoadFromFile loads configuration from a YAML file.
func LoadFromFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return Config{}, fmt.Errorf("parse config file: %w", err)
	}

	cfg := Default()

	if yc.BaseURL != "" {
		cfg.BaseURL = yc.BaseURL
	}
	if yc.Bucket != "" {
		cfg.Bucket = yc.Bucket
	}
	if len(yc.Thresholds) > 0 {
		cfg.Thresholds = yc.Thresholds
	}
	if len(yc.QcovLevels) > 0 {
		cfg.QcovLevels = yc.QcovLevels
	}
	if yc.Workers != 0 {
		cfg.Workers = yc.Workers
	}
	if yc.Timeout != "" {
		d, err := time.ParseDuration(yc.Timeout)
		if err != nil {
			return Config{}, fmt.Errorf("parse timeout: %w", err)
		}
		cfg.Timeout = d
	}
	if yc.MatrixInterval != "" {
		d, err := time.ParseDuration(yc.MatrixInterval)
		if err != nil {
			return Config{}, fmt.Errorf("parse matrix_interval: %w", err)
		}
		cfg.MatrixInterval = d
	}
	if yc.ArchiveInterval != "" {
		d, err := time.ParseDuration(yc.ArchiveInterval)
		if err != nil {
			return Config{}, fmt.Errorf("parse archive_interval: %w", err)
		}
		cfg.ArchiveInterval = d
	}
	cfg.Progress = yc.Progress

	return cfg, nil
}

// LoadFromEnv loads configuration from environment variables.
// Environment variables use the PLATEVS_ prefix.
func (c *Config) LoadFromEnv() error {
	if v := os.Getenv("PLATEVS_BASE_URL"); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv("PLATEVS_BUCKET"); v != "" {
		c.Bucket = v
	}
	if v := os.Getenv("PLATEVS_THRESHOLDS"); v != "" {
		thresholds, err := ParseFloats(v)
		if err != nil {
			return fmt.Errorf("parse PLATEVS_THRESHOLDS: %w", err)
		}
		c.Thresholds = thresholds
	}
	if v := os.Getenv("PLATEVS_QCOV_LEVELS"); v != "" {
		levels, err := ParseInts(v)
		if err != nil {
			return fmt.Errorf("parse PLATEVS_QCOV_LEVELS: %w", err)
		}
		c.QcovLevels = levels
	}
	if v := os.Getenv("PLATEVS_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse PLATEVS_WORKERS: %w", err)
		}
		c.Workers = n
	}
	if v := os.Getenv("PLATEVS_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse PLATEVS_TIMEOUT: %w", err)
		}
		c.Timeout = d
	}
	if v := os.Getenv("PLATEVS_MATRIX_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse PLATEVS_MATRIX_INTERVAL: %w", err)
		}
		c.MatrixInterval = d
	}
	if v := os.Getenv("PLATEVS_ARCHIVE_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse PLATEVS_ARCHIVE_INTERVAL: %w", err)
		}
		c.ArchiveInterval = d
	}
	if v := os.Getenv("PLATEVS_PROGRESS"); v != "" {
		c.Progress = v == "true" || v == "1"
	}

	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return errors.New("config: base_url is required")
	}
	if c.Bucket == "" {
		return errors.New("config: bucket is required")
	}
	if len(c.Thresholds) == 0 {
		return errors.New("config: at least one threshold is required")
	}
	for _, t := range c.Thresholds {
		if t < 0 || t > 1 {
			return fmt.Errorf("config: threshold %v out of range [0,1]", t)
		}
	}
	if len(c.QcovLevels) == 0 {
		return errors.New("config: at least one qcov level is required")
	}
	for _, q := range c.QcovLevels {
		if q <= 0 || q > 100 {
			return fmt.Errorf("config: qcov level %d out of range (0,100]", q)
		}
	}
	if c.Workers <= 0 {
		return errors.New("config: workers must be positive")
	}
	if c.Timeout <= 0 {
		return errors.New("config: timeout must be positive")
	}
	return nil
}

// Merge merges override values into c, returning a new Config.
// Zero values in override are ignored.
func (c Config) Merge(override Config) Config {
	if override.BaseURL != "" {
		c.BaseURL = override.BaseURL
	}
	if override.Bucket != "" {
		c.Bucket = override.Bucket
	}
	if len(override.Thresholds) > 0 {
		c.Thresholds = override.Thresholds
	}
	if len(override.QcovLevels) > 0 {
		c.QcovLevels = override.QcovLevels
	}
	if override.Workers != 0 {
		c.Workers = override.Workers
	}
	if override.Timeout != 0 {
		c.Timeout = override.Timeout
	}
	if override.MatrixInterval != 0 {
		c.MatrixInterval = override.MatrixInterval
	}
	if override.ArchiveInterval != 0 {
		c.ArchiveInterval = override.ArchiveInterval
	}
	if override.Progress {
		c.Progress = override.Progress
	}
	return c
}

// ParseFloats parses a comma-separated list of floats, e.g. "0.1,0.5,0.9".
func ParseFloats(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

// ParseInts parses a comma-separated list of integers, e.g. "50,70,95,100".
func ParseInts(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}
