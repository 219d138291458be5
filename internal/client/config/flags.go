package config

import (
	"flag"
	"fmt"
	"time"

	"github.com/chepeat/chepeat/internal/flagx"
)

// parseFlags overlays cfg with the short flags it owns. Flags belonging to
// other parsers (e.g. -c) are filtered out first.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-t", "-r", "-n", "-d"})

	fs := flag.NewFlagSet("chepeat", flag.ContinueOnError)

	fs.StringVar(&cfg.BackendURL, "a", cfg.BackendURL, "base URL of the backend API")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "gateway call timeout (in seconds)")
	fs.Float64Var(&cfg.DiscoveryRadiusKm, "r", cfg.DiscoveryRadiusKm, "nearby discovery radius (km)")
	fs.IntVar(&cfg.DiscoveryLimit, "n", cfg.DiscoveryLimit, "number of nearby products to keep")
	fs.StringVar(&cfg.StorePath, "d", cfg.StorePath, "local secure store path")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			cfg.RequestTimeout = time.Duration(*timeout) * time.Second
		}
	})
	return nil
}
