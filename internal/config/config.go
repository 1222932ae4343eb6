/*
Package config maps environment variables onto the settings of the Jikan
proxy.

Every variable is optional; the defaults reproduce the public Jikan limits
(one request per 334ms, three attempts, 10s per attempt).

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}
*/
package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/Sternrassler/jikan-client/pkg/client"
	"github.com/Sternrassler/jikan-client/pkg/logging"
)

// Config holds all runtime configuration for the Jikan proxy.
type Config struct {

	// Server settings
	Port         string        `env:"PORT"          envDefault:"8080"`
	LogLevel     string        `env:"LOG_LEVEL"     envDefault:"info"`
	LogPretty    bool          `env:"LOG_PRETTY"    envDefault:"false"`
	RenderBudget time.Duration `env:"RENDER_BUDGET" envDefault:"2s"`

	// Upstream API
	BaseURL   string `env:"JIKAN_BASE_URL"   envDefault:"https://api.jikan.moe/v4"`
	UserAgent string `env:"JIKAN_USER_AGENT" envDefault:"jikan-client/1.0"`

	// Pacing and retries
	MinInterval         time.Duration `env:"JIKAN_MIN_INTERVAL"          envDefault:"334ms"`
	MaxAttempts         int           `env:"JIKAN_MAX_ATTEMPTS"          envDefault:"3"`
	RateLimitCooldown   time.Duration `env:"JIKAN_RATE_LIMIT_COOLDOWN"   envDefault:"2s"`
	ServerErrorCooldown time.Duration `env:"JIKAN_SERVER_ERROR_COOLDOWN" envDefault:"2s"`
	TimeoutCooldown     time.Duration `env:"JIKAN_TIMEOUT_COOLDOWN"      envDefault:"1s"`
	BackoffMultiplier   float64       `env:"JIKAN_BACKOFF_MULTIPLIER"    envDefault:"1.0"`
	AttemptTimeout      time.Duration `env:"JIKAN_ATTEMPT_TIMEOUT"       envDefault:"10s"`
	ServeStale          bool          `env:"JIKAN_SERVE_STALE"           envDefault:"true"`

	// Response cache. An empty RedisURL keeps the cache in memory.
	RedisURL         string        `env:"REDIS_URL"`
	CacheStaleWindow time.Duration `env:"CACHE_STALE_WINDOW" envDefault:"24h"`
	CacheMaxEntries  int           `env:"CACHE_MAX_ENTRIES"  envDefault:"10000"`

	// Only echoed to the front end for ad slots.
	AdClientID string `env:"AD_CLIENT_ID"`
}

// Load parses the process environment into a [Config].
func Load() (*Config, error) {
	return parse(env.Options{})
}

// LoadFrom parses the given variables instead of the process environment.
func LoadFrom(environ map[string]string) (*Config, error) {
	return parse(env.Options{Environment: environ})
}

func parse(opts env.Options) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// Validate rejects values the client cannot run with.
func (c *Config) Validate() error {
	if u, err := url.Parse(c.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("JIKAN_BASE_URL %q is not an absolute URL", c.BaseURL)
	}
	if c.UserAgent == "" {
		return fmt.Errorf("JIKAN_USER_AGENT must not be empty")
	}
	if c.MinInterval <= 0 {
		return fmt.Errorf("JIKAN_MIN_INTERVAL must be > 0 (got %s)", c.MinInterval)
	}
	if c.AttemptTimeout <= 0 {
		return fmt.Errorf("JIKAN_ATTEMPT_TIMEOUT must be > 0 (got %s)", c.AttemptTimeout)
	}
	if c.RenderBudget < 0 {
		return fmt.Errorf("RENDER_BUDGET must be >= 0 (got %s)", c.RenderBudget)
	}
	if _, err := logging.ParseLevel(logging.LogLevel(c.LogLevel)); err != nil {
		return fmt.Errorf("LOG_LEVEL: %w", err)
	}
	if c.CacheMaxEntries <= 0 {
		return fmt.Errorf("CACHE_MAX_ENTRIES must be > 0 (got %d)", c.CacheMaxEntries)
	}
	if c.CacheStaleWindow < 0 {
		return fmt.Errorf("CACHE_STALE_WINDOW must be >= 0 (got %s)", c.CacheStaleWindow)
	}
	if err := c.Retry().Validate(); err != nil {
		return fmt.Errorf("retry settings: %w", err)
	}
	return nil
}

// Retry returns the retry policy described by the JIKAN_* variables.
func (c *Config) Retry() client.RetryConfig {
	retry := client.DefaultRetryConfig()
	retry.MaxAttempts = c.MaxAttempts
	retry.RateLimitCooldown = c.RateLimitCooldown
	retry.ServerErrorCooldown = c.ServerErrorCooldown
	retry.TimeoutCooldown = c.TimeoutCooldown
	retry.BackoffMultiplier = c.BackoffMultiplier
	return retry
}

// Logging returns the logger settings.
func (c *Config) Logging() logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = logging.LogLevel(c.LogLevel)
	cfg.Pretty = c.LogPretty
	return cfg
}

// UsesRedis reports whether responses are cached in Redis.
func (c *Config) UsesRedis() bool {
	return c.RedisURL != ""
}
