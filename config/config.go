// Package config loads application configuration from the environment and an
// optional .env file using Viper.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	// Env is the application environment ("development", "production", ...).
	Env string `mapstructure:"APP_ENV"`
	// Port is the HTTP listen port.
	Port string `mapstructure:"PORT"`
	// DatabaseURL is the Postgres DSN for the credential store.
	DatabaseURL string `mapstructure:"DATABASE_URL"`

	// AccessTokenSecret signs access tokens (HS256).
	AccessTokenSecret string `mapstructure:"JWT_SECRET"`
	// RefreshTokenSecret signs refresh tokens; independent from the access secret.
	RefreshTokenSecret string `mapstructure:"JWT_REFRESH_SECRET"`
	// AccessTokenExpiry is the access token lifetime (e.g. "15m").
	AccessTokenExpiry time.Duration `mapstructure:"JWT_EXPIRES_IN"`
	// RefreshTokenExpiry is the refresh token lifetime (e.g. "168h").
	RefreshTokenExpiry time.Duration `mapstructure:"JWT_REFRESH_EXPIRES_IN"`
	// BcryptCost is the bcrypt cost factor used for passwords and refresh-token hashes.
	BcryptCost int `mapstructure:"BCRYPT_ROUNDS"`

	// UnleashURL is the full Unleash API URL (should end with /api/).
	UnleashURL string `mapstructure:"UNLEASH_URL"`
	// UnleashAppName identifies this service to the Unleash server.
	UnleashAppName string `mapstructure:"UNLEASH_APP_NAME"`
	// UnleashAPIToken is the server-side API token.
	UnleashAPIToken string `mapstructure:"UNLEASH_API_TOKEN"`
	// UnleashRefreshInterval is the flag polling interval in seconds.
	UnleashRefreshInterval int `mapstructure:"UNLEASH_REFRESH_INTERVAL"`
	// UnleashMetricsInterval is the metrics reporting interval in seconds.
	UnleashMetricsInterval int `mapstructure:"UNLEASH_METRICS_INTERVAL"`
	// UnleashMock forces the mock flag client (no network, everything enabled).
	UnleashMock bool `mapstructure:"UNLEASH_MOCK"`
}

// Load reads .env (if present), then builds and validates Config from the
// environment. Missing .env is ignored (e.g. in CI); env vars override .env.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore missing .env

	v.AutomaticEnv()

	v.SetDefault("APP_ENV", "development")
	v.SetDefault("PORT", "8080")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_REFRESH_SECRET", "")
	v.SetDefault("JWT_EXPIRES_IN", "15m")
	v.SetDefault("JWT_REFRESH_EXPIRES_IN", "168h") // 7d
	v.SetDefault("BCRYPT_ROUNDS", 12)
	v.SetDefault("UNLEASH_URL", "http://localhost:4242/api/")
	v.SetDefault("UNLEASH_APP_NAME", "meditrack-backend")
	v.SetDefault("UNLEASH_API_TOKEN", "")
	v.SetDefault("UNLEASH_REFRESH_INTERVAL", 15)
	v.SetDefault("UNLEASH_METRICS_INTERVAL", 60)
	v.SetDefault("UNLEASH_MOCK", false)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// Without an API token there is no real Unleash server to talk to, so
	// development defaults to the mock client.
	if cfg.Env == "development" && cfg.UnleashAPIToken == "" {
		cfg.UnleashMock = true
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required")
	}
	if c.AccessTokenSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.RefreshTokenSecret == "" {
		return errors.New("JWT_REFRESH_SECRET is required")
	}
	if c.AccessTokenExpiry <= 0 {
		return errors.New("JWT_EXPIRES_IN must be a positive duration")
	}
	if c.RefreshTokenExpiry <= 0 {
		return errors.New("JWT_REFRESH_EXPIRES_IN must be a positive duration")
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return fmt.Errorf("BCRYPT_ROUNDS must be between 4 and 31, got %d", c.BcryptCost)
	}
	if c.UnleashRefreshInterval <= 0 {
		return errors.New("UNLEASH_REFRESH_INTERVAL must be a positive number of seconds")
	}
	if c.UnleashMetricsInterval <= 0 {
		return errors.New("UNLEASH_METRICS_INTERVAL must be a positive number of seconds")
	}
	return nil
}
