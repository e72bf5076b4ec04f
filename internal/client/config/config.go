package config

import "time"

// Config holds runtime settings for the CRTR Studio CLI.
//
// Fields:
//   - ServerURL: base URL of the API server.
//   - SessionDBPath: SQLite file holding the current session token.
//   - RequestTimeout: upper bound for a single API call.
//   - OnlineCheckInterval: period of the server liveness check.
type Config struct {
	ServerURL           string
	SessionDBPath       string
	RequestTimeout      time.Duration
	OnlineCheckInterval time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:3001"
	c.SessionDBPath = "crtr_session.db"
	c.RequestTimeout = 10 * time.Second
	c.OnlineCheckInterval = 3 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), the environment and command-line flags (if present).
// Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
