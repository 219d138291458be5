package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config holds runtime settings for the Chepeat client.
type Config struct {
	BackendURL     string        `env:"CHEPEAT_BACKEND_URL" validate:"required,url"`
	RequestTimeout time.Duration `env:"CHEPEAT_REQUEST_TIMEOUT" validate:"gt=0"`

	StorePath       string `env:"CHEPEAT_STORE_PATH" validate:"required"`
	StorePassphrase string `env:"CHEPEAT_STORE_PASSPHRASE"`

	DiscoveryRadiusKm    float64 `env:"CHEPEAT_DISCOVERY_RADIUS_KM" validate:"gt=0"`
	DiscoveryLimit       int     `env:"CHEPEAT_DISCOVERY_LIMIT" validate:"gte=1"`
	DiscoveryConcurrency int     `env:"CHEPEAT_DISCOVERY_CONCURRENCY" validate:"gte=1"`

	RateLimitRPS   float64 `env:"CHEPEAT_RATE_LIMIT_RPS" validate:"gt=0"`
	RateLimitBurst int     `env:"CHEPEAT_RATE_LIMIT_BURST" validate:"gte=1"`

	LogLevel   string `env:"CHEPEAT_LOG_LEVEL" validate:"oneof=debug info warn error"`
	LogBackend string `env:"CHEPEAT_LOG_BACKEND" validate:"oneof=slog zap"`
}

// LoadDefaults populates c with defaults matching the production backend.
func (c *Config) LoadDefaults() {
	c.BackendURL = "https://backend-j959.onrender.com/api"
	c.RequestTimeout = 15 * time.Second
	c.StorePath = "chepeat.db"
	c.StorePassphrase = ""
	c.DiscoveryRadiusKm = 500
	c.DiscoveryLimit = 6
	c.DiscoveryConcurrency = 4
	c.RateLimitRPS = 10
	c.RateLimitBurst = 5
	c.LogLevel = "info"
	c.LogBackend = "slog"
}

var validate = validator.New()

// Validate checks field constraints declared in struct tags.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// LoadConfig builds a Config from os.Args and the process environment.
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:])
}

// Load applies defaults, then the JSON file, environment and flags found in
// args, and validates the result.
func Load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
