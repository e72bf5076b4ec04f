// Package config handles configuration for the server component,
// including defaults, JSON overlay, environment variables and command-line
// flags.
package config

import (
	"strings"
	"time"

	"github.com/dmitrijs2005/crtrstudio/internal/common"
	"github.com/dmitrijs2005/crtrstudio/internal/cryptox"
	"github.com/dmitrijs2005/crtrstudio/internal/server/auth"
)

// Config holds runtime settings for the API server.
//
// Fields:
//   - Address: bind address of the HTTP listener.
//   - DatabaseDSN: PostgreSQL DSN (pgx). Empty selects the in-memory store.
//   - SecretKey: HMAC secret for signing session tokens (HS256). No default.
//   - TokenValidityDuration: session token lifetime.
//   - Environment: "development" exposes error stacks and enables debug logs.
//   - CORSOrigin: comma-separated list of allowed browser origins.
//   - BcryptCost: work factor of the password hasher.
//   - ShutdownTimeout: grace period for in-flight requests on shutdown.
type Config struct {
	Address               string
	DatabaseDSN           string
	SecretKey             string
	TokenValidityDuration time.Duration
	Environment           string
	CORSOrigin            string
	BcryptCost            int
	ShutdownTimeout       time.Duration
}

// LoadDefaults populates Config with development defaults. SecretKey is left
// empty on purpose and must be supplied.
func (c *Config) LoadDefaults() {
	c.Address = ":3001"
	c.DatabaseDSN = ""
	c.SecretKey = ""
	c.TokenValidityDuration = auth.DefaultTokenValidity
	c.Environment = "production"
	c.CORSOrigin = "http://localhost:5173"
	c.BcryptCost = cryptox.DefaultBcryptCost
	c.ShutdownTimeout = 10 * time.Second
}

// Validate reports settings the server cannot start with.
func (c *Config) Validate() error {
	if c.SecretKey == "" {
		return common.ErrMissingSecret
	}
	return nil
}

// IsDevelopment reports whether the server runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == common.EnvDevelopment
}

// CORSOrigins splits CORSOrigin into its non-empty entries.
func (c *Config) CORSOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSOrigin, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, the environment and finally command-line flags.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	parseFlags(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
