package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/marco/cinelist/internal/catalog"
)

// TokenEnvVar is read when tmdb.access_token is left empty.
const TokenEnvVar = "TMDB_READ_ACCESS_TOKEN"


// Config represents the application configuration
type Config struct {
	TMDB    TMDBConfig    `yaml:"tmdb"`
	Options OptionsConfig `yaml:"options"`
	Cache   CacheConfig   `yaml:"cache"`
	Logging LoggingConfig `yaml:"logging"`
	Refresh RefreshConfig `yaml:"refresh"`
}

// TMDBConfig holds catalog API settings
type TMDBConfig struct {
	AccessToken    string `yaml:"access_token"`
	BaseURL        string `yaml:"base_url"`
	ImageBaseURL   string `yaml:"image_base_url"`
	Language       string `yaml:"language"`
	Region         string `yaml:"region"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// OptionsConfig holds request pacing and retry settings
type OptionsConfig struct {
	RateLimitDelay   int `yaml:"rate_limit_delay"`
	MaxAttempts      int `yaml:"max_attempts"`
	InitialBackoffMs int `yaml:"initial_backoff_ms"`
}

// CacheConfig selects and sizes the response cache
type CacheConfig struct {
	Backend       string `yaml:"backend"`
	TTLMinutes    int    `yaml:"ttl_minutes"`
	Size          int    `yaml:"size"`
	SQLitePath    string `yaml:"sqlite_path"`
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`
	Prefix        string `yaml:"prefix"`
}

// LoggingConfig holds log level and optional rotating file output
type LoggingConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// RefreshConfig controls the periodic category refresh
type RefreshConfig struct {
	IntervalMinutes int  `yaml:"interval_minutes"`
	OnStartup       bool `yaml:"on_startup"`
	Workers         int  `yaml:"workers"`
}

// Default returns a configuration with every default applied and no token.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads and parses the configuration file from disk.
func Load(path string) (*Config, error) {
	return LoadFs(afero.NewOsFs(), path)
}

// LoadFs reads and parses the configuration file from fs.
func LoadFs(fs afero.Fs, path string) (*Config, error) {
	path, err := ExpandPath(path)
	if err != nil {
		return nil, err
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

// Parse decodes YAML after expanding ${VAR} references, applies defaults
// and validates the result.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	c.TMDB.AccessToken = strings.TrimSpace(c.TMDB.AccessToken)
	if c.TMDB.AccessToken == "" {
		c.TMDB.AccessToken = strings.TrimSpace(os.Getenv(TokenEnvVar))
	}
	if c.TMDB.BaseURL == "" {
		c.TMDB.BaseURL = "https://api.themoviedb.org/3"
	}
	if c.TMDB.ImageBaseURL == "" {
		c.TMDB.ImageBaseURL = "https://image.tmdb.org/t/p"
	}
	if c.TMDB.Language == "" {
		c.TMDB.Language = "en-US"
	}
	if c.TMDB.Region == "" {
		c.TMDB.Region = "US"
	}
	if c.TMDB.TimeoutSeconds <= 0 {
		c.TMDB.TimeoutSeconds = 30
	}

	if c.Options.MaxAttempts <= 0 {
		c.Options.MaxAttempts = 3
	}
	if c.Options.InitialBackoffMs <= 0 {
		c.Options.InitialBackoffMs = 500
	}

	c.Cache.Backend = strings.ToLower(strings.TrimSpace(c.Cache.Backend))
	if c.Cache.Backend == "" {
		c.Cache.Backend = "memory"
	}
	if c.Cache.TTLMinutes <= 0 {
		c.Cache.TTLMinutes = 360
	}
	if c.Cache.Size <= 0 {
		c.Cache.Size = 512
	}
	if c.Cache.SQLitePath == "" {
		c.Cache.SQLitePath = "cinelist-cache.db"
	}
	if c.Cache.RedisAddr == "" {
		c.Cache.RedisAddr = "localhost:6379"
	}
	if c.Cache.Prefix == "" {
		c.Cache.Prefix = "cinelist"
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.MaxSizeMB <= 0 {
		c.Logging.MaxSizeMB = 10
	}
	if c.Logging.MaxBackups <= 0 {
		c.Logging.MaxBackups = 3
	}
	if c.Logging.MaxAgeDays <= 0 {
		c.Logging.MaxAgeDays = 28
	}

	if c.Refresh.Workers <= 0 {
		c.Refresh.Workers = 2
	}
}

// Validate checks values that have no sensible fallback. A missing access
// token is not an error here; requests report it individually.
func (c *Config) Validate() error {
	var errs []error

	if _, err := language.Parse(c.TMDB.Language); err != nil {
		errs = append(errs, fmt.Errorf("tmdb.language %q is not a valid language tag: %w", c.TMDB.Language, err))
	}
	if region, err := language.ParseRegion(c.TMDB.Region); err != nil || !region.IsCountry() {
		errs = append(errs, fmt.Errorf("tmdb.region %q is not a valid country code", c.TMDB.Region))
	}

	switch c.Cache.Backend {
	case "none", "memory", "sqlite", "redis":
	default:
		errs = append(errs, fmt.Errorf("cache.backend %q must be one of none, memory, sqlite, redis", c.Cache.Backend))
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("logging.level %q must be one of debug, info, warn, error", c.Logging.Level))
	}

	if c.Options.RateLimitDelay < 0 {
		errs = append(errs, errors.New("options.rate_limit_delay must not be negative"))
	}
	if c.Refresh.IntervalMinutes < 0 {
		errs = append(errs, errors.New("refresh.interval_minutes must not be negative"))
	}

	return errors.Join(errs...)
}

// HasCredential reports whether a usable access token was configured.
func (c *Config) HasCredential() bool {
	return catalog.ValidToken(c.TMDB.AccessToken)
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(home, path[1:])
	}
	return path, nil
}
