// Package config loads runtime configuration for the Chepeat client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config.
//  3. Environment variables prefixed with CHEPEAT_.
//  4. Command-line flags, which override everything above.
//
// The merged result is validated before it is returned.
//
// Supported flags
//
//	-a string   base URL of the backend REST API
//	-t int      per-call gateway timeout (seconds)
//	-r float    nearby discovery radius (km)
//	-n int      number of nearby products kept after discovery
//	-d string   path of the local secure store database
//
// # JSON schema
//
//	{
//	  "backend_url": "https://backend-j959.onrender.com/api",
//	  "request_timeout": "15s",
//	  "store_path": "chepeat.db",
//	  "discovery_radius_km": 500,
//	  "discovery_limit": 6,
//	  "discovery_concurrency": 4,
//	  "rate_limit_rps": 10,
//	  "rate_limit_burst": 5,
//	  "log_level": "info",
//	  "log_backend": "slog"
//	}
//
// The store passphrase is deliberately not part of the JSON schema; set it
// with CHEPEAT_STORE_PASSPHRASE.
package config
