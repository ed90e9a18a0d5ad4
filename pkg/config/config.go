// Package config loads application configuration from the environment,
// with an optional .env file for local development. Keys are read through
// viper with the PROPDASH_ prefix; the provider API keys keep their bare
// ACUMIDATA_* names.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/acumidata/propdash/pkg/acumidata"
	"github.com/acumidata/propdash/pkg/batch"
)

// Provider API key environment variables, one per environment.
const (
	EnvKeyProd = "ACUMIDATA_PROD_KEY"
	EnvKeyUAT  = "ACUMIDATA_UAT_KEY"
)

// Config is the full application configuration.
type Config struct {
	// Environment selects the provider deployment (prod or uat).
	Environment acumidata.Environment

	// APIKey is the provider bearer token for the selected environment.
	APIKey string

	// ServerAddr is the dashboard listen address.
	ServerAddr string

	// LogLevel is the minimum log level (debug, info, warn, error).
	LogLevel string

	// LogPretty enables human-readable console logs.
	LogPretty bool

	// RedisAddr, RedisPassword, and RedisDB configure the session and
	// usage store.
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// UsersFile is the path of the JSON credentials file.
	UsersFile string

	// SessionTTL bounds how long a login token stays valid.
	SessionTTL time.Duration

	// DefaultConcurrency is the batch worker count used when a submission
	// does not choose one.
	DefaultConcurrency int

	// UsageSoftCap is the daily provider request count past which the
	// usage tracker starts warning.
	UsageSoftCap int64

	// RequestTimeout bounds each outbound provider call.
	RequestTimeout time.Duration
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present; real environment variables win.
func Load() (*Config, error) {
	// Missing .env is the normal case in deployment.
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("PROPDASH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("environment", string(acumidata.EnvUAT))
	v.SetDefault("server_addr", ":8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_pretty", false)
	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)
	v.SetDefault("users_file", "users.json")
	v.SetDefault("session_ttl", "24h")
	v.SetDefault("default_concurrency", batch.DefaultConcurrency)
	v.SetDefault("usage_soft_cap", 1000)
	v.SetDefault("request_timeout", "30s")

	cfg := &Config{
		Environment:        acumidata.Environment(strings.ToLower(v.GetString("environment"))),
		ServerAddr:         v.GetString("server_addr"),
		LogLevel:           v.GetString("log_level"),
		LogPretty:          v.GetBool("log_pretty"),
		RedisAddr:          v.GetString("redis_addr"),
		RedisPassword:      v.GetString("redis_password"),
		RedisDB:            v.GetInt("redis_db"),
		UsersFile:          v.GetString("users_file"),
		SessionTTL:         v.GetDuration("session_ttl"),
		DefaultConcurrency: v.GetInt("default_concurrency"),
		UsageSoftCap:       v.GetInt64("usage_soft_cap"),
		RequestTimeout:     v.GetDuration("request_timeout"),
	}
	cfg.APIKey = apiKeyFor(cfg.Environment)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// apiKeyFor reads the provider key matching the environment.
func apiKeyFor(env acumidata.Environment) string {
	if env == acumidata.EnvProduction {
		return os.Getenv(EnvKeyProd)
	}
	return os.Getenv(EnvKeyUAT)
}

// Validate reports the first configuration problem found. Required keys are
// checked here so a misconfigured deployment fails at startup, not on the
// first user action.
func (c *Config) Validate() error {
	if c.Environment != acumidata.EnvProduction && c.Environment != acumidata.EnvUAT {
		return fmt.Errorf("unknown environment %q (want prod or uat)", c.Environment)
	}
	if c.APIKey == "" {
		keyVar := EnvKeyUAT
		if c.Environment == acumidata.EnvProduction {
			keyVar = EnvKeyProd
		}
		return fmt.Errorf("missing required environment variable %s", keyVar)
	}
	if c.ServerAddr == "" {
		return fmt.Errorf("server address is required")
	}
	if c.RedisAddr == "" {
		return fmt.Errorf("redis address is required")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("session ttl must be positive, got %v", c.SessionTTL)
	}
	if c.DefaultConcurrency < batch.MinConcurrency || c.DefaultConcurrency > batch.MaxConcurrency {
		return fmt.Errorf("default concurrency must be between %d and %d, got %d",
			batch.MinConcurrency, batch.MaxConcurrency, c.DefaultConcurrency)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got %v", c.RequestTimeout)
	}
	return nil
}
