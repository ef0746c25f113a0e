// Package config loads and validates hunter configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/sorahunt/sorahunt/internal/hunt"
)

// Config captures all service configuration knobs loaded via Viper.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Hunt    HuntConfig    `mapstructure:"hunt"`
	HTTP    HTTPConfig    `mapstructure:"http"`
	Store   StoreConfig   `mapstructure:"store"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig controls HTTP server behavior.
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// HuntConfig governs the poll loop and the extraction pipeline inputs.
type HuntConfig struct {
	Query           string `mapstructure:"query"`
	IntervalSeconds int    `mapstructure:"interval_seconds"`
	MaxPosts        int    `mapstructure:"max_posts"`
	UserAgent       string `mapstructure:"user_agent"`
	GitHubToken     string `mapstructure:"github_token"`
}

// HTTPConfig configures outbound HTTP client behavior.
type HTTPConfig struct {
	TimeoutSeconds   int `mapstructure:"timeout_seconds"`
	MaxRetries       int `mapstructure:"max_retries"`
	BackoffInitialMs int `mapstructure:"backoff_initial_ms"`
	BackoffMaxMs     int `mapstructure:"backoff_max_ms"`
}

// StoreConfig bounds the in-memory rings.
type StoreConfig struct {
	MaxCandidates int `mapstructure:"max_candidates"`
	MaxLogEntries int `mapstructure:"max_log_entries"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from disk/environment. Environment variables use
// the SORAHUNT prefix, e.g. SORAHUNT_HUNT_GITHUB_TOKEN.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("SORAHUNT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 3000)
	v.SetDefault("hunt.query", `"sora invite" OR "sora code" OR "sora 2 invite"`)
	v.SetDefault("hunt.interval_seconds", 60)
	v.SetDefault("hunt.max_posts", 75)
	v.SetDefault("hunt.user_agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36")
	// Empty default so AutomaticEnv can bind SORAHUNT_HUNT_GITHUB_TOKEN.
	v.SetDefault("hunt.github_token", "")
	v.SetDefault("http.timeout_seconds", 30)
	v.SetDefault("http.max_retries", 3)
	v.SetDefault("http.backoff_initial_ms", 1000)
	v.SetDefault("http.backoff_max_ms", 8000)
	v.SetDefault("store.max_candidates", 1000)
	v.SetDefault("store.max_log_entries", 500)
	v.SetDefault("logging.development", true)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0")
	}
	if c.Hunt.Query == "" {
		return fmt.Errorf("hunt.query must not be empty")
	}
	if c.Hunt.IntervalSeconds <= 0 {
		return fmt.Errorf("hunt.interval_seconds must be > 0")
	}
	if c.Hunt.MaxPosts <= 0 {
		return fmt.Errorf("hunt.max_posts must be > 0")
	}
	if c.HTTP.TimeoutSeconds <= 0 {
		return fmt.Errorf("http.timeout_seconds must be > 0")
	}
	if c.HTTP.MaxRetries <= 0 {
		return fmt.Errorf("http.max_retries must be > 0")
	}
	if c.Store.MaxCandidates <= 0 {
		return fmt.Errorf("store.max_candidates must be > 0")
	}
	if c.Store.MaxLogEntries <= 0 {
		return fmt.Errorf("store.max_log_entries must be > 0")
	}
	return nil
}

// PollSettings converts the hunt section into the per-cycle view. The
// interval is floored at 10s and max_posts clamped to [1,100] so a bad
// override cannot hammer the providers.
func (c Config) PollSettings() hunt.PollConfig {
	interval := c.Hunt.IntervalSeconds
	if interval < 10 {
		interval = 10
	}
	posts := c.Hunt.MaxPosts
	if posts < 1 {
		posts = 1
	}
	if posts > 100 {
		posts = 100
	}
	return hunt.PollConfig{
		Query:       c.Hunt.Query,
		MaxPosts:    posts,
		UserAgent:   c.Hunt.UserAgent,
		GitHubToken: c.Hunt.GitHubToken,
		Interval:    time.Duration(interval) * time.Second,
	}
}

// HTTPTimeout converts the HTTP timeout config into a duration.
func (c Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTP.TimeoutSeconds) * time.Second
}

// BackoffInitial converts the initial backoff config into a duration.
func (c Config) BackoffInitial() time.Duration {
	return time.Duration(c.HTTP.BackoffInitialMs) * time.Millisecond
}

// BackoffMax converts the backoff ceiling config into a duration.
func (c Config) BackoffMax() time.Duration {
	return time.Duration(c.HTTP.BackoffMaxMs) * time.Millisecond
}
