package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/chepeat/chepeat/internal/flagx"
	"github.com/chepeat/chepeat/internal/timex"
)

// JsonConfig is the on-disk DTO. Pointer fields distinguish "absent" from
// zero so a partial file only overrides what it names.
type JsonConfig struct {
	BackendURL           *string         `json:"backend_url"`
	RequestTimeout       *timex.Duration `json:"request_timeout"`
	StorePath            *string         `json:"store_path"`
	DiscoveryRadiusKm    *float64        `json:"discovery_radius_km"`
	DiscoveryLimit       *int            `json:"discovery_limit"`
	DiscoveryConcurrency *int            `json:"discovery_concurrency"`
	RateLimitRPS         *float64        `json:"rate_limit_rps"`
	RateLimitBurst       *int            `json:"rate_limit_burst"`
	LogLevel             *string         `json:"log_level"`
	LogBackend           *string         `json:"log_backend"`
}

// parseJson overlays cfg with the file named by -c/-config in args, if any.
func parseJson(cfg *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("decode config file %s: %w", path, err)
	}

	setIf(&cfg.BackendURL, jc.BackendURL)
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	setIf(&cfg.StorePath, jc.StorePath)
	setIf(&cfg.DiscoveryRadiusKm, jc.DiscoveryRadiusKm)
	setIf(&cfg.DiscoveryLimit, jc.DiscoveryLimit)
	setIf(&cfg.DiscoveryConcurrency, jc.DiscoveryConcurrency)
	setIf(&cfg.RateLimitRPS, jc.RateLimitRPS)
	setIf(&cfg.RateLimitBurst, jc.RateLimitBurst)
	setIf(&cfg.LogLevel, jc.LogLevel)
	setIf(&cfg.LogBackend, jc.LogBackend)
	return nil
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
