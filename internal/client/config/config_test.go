package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "https://backend-j959.onrender.com/api", c.BackendURL)
	assert.Equal(t, 15*time.Second, c.RequestTimeout)
	assert.Equal(t, 500.0, c.DiscoveryRadiusKm)
	assert.Equal(t, 6, c.DiscoveryLimit)
	require.NoError(t, c.Validate())
}

func TestLoad_NoSourcesUsesDefaults(t *testing.T) {
	cfg, err := Load(nil)
	require.NoError(t, err)

	var want Config
	want.LoadDefaults()
	assert.Equal(t, want, *cfg)
}

func TestLoad_EnvOverridesDefaults(t *testing.T) {
	t.Setenv("CHEPEAT_DISCOVERY_LIMIT", "3")
	t.Setenv("CHEPEAT_STORE_PASSPHRASE", "s3cret")
	t.Setenv("CHEPEAT_REQUEST_TIMEOUT", "2s")

	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.DiscoveryLimit)
	assert.Equal(t, "s3cret", cfg.StorePassphrase)
	assert.Equal(t, 2*time.Second, cfg.RequestTimeout)
}

func TestLoad_FlagsOverrideEnv(t *testing.T) {
	t.Setenv("CHEPEAT_DISCOVERY_LIMIT", "3")

	cfg, err := Load([]string{"-n", "6", "-r", "25"})
	require.NoError(t, err)

	assert.Equal(t, 6, cfg.DiscoveryLimit)
	assert.Equal(t, 25.0, cfg.DiscoveryRadiusKm)
}

func TestValidate_RejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{name: "empty backend", mutate: func(c *Config) { c.BackendURL = "" }},
		{name: "not a url", mutate: func(c *Config) { c.BackendURL = "backend" }},
		{name: "zero timeout", mutate: func(c *Config) { c.RequestTimeout = 0 }},
		{name: "zero limit", mutate: func(c *Config) { c.DiscoveryLimit = 0 }},
		{name: "negative radius", mutate: func(c *Config) { c.DiscoveryRadiusKm = -1 }},
		{name: "unknown backend", mutate: func(c *Config) { c.LogBackend = "logrus" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Config
			c.LoadDefaults()
			tt.mutate(&c)
			require.Error(t, c.Validate())
		})
	}
}
