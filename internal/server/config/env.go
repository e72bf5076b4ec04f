package config

import (
	"fmt"

	"github.com/dmitrijs2005/crtrstudio/internal/flagx"
)

// Environment variables read by parseEnv.
const (
	EnvAddress       = "CRTR_ADDRESS"
	EnvPort          = "PORT"
	EnvDatabaseDSN   = "CRTR_DATABASE_DSN"
	EnvSecretKey     = "CRTR_SECRET_KEY"
	EnvTokenValidity = "CRTR_TOKEN_VALIDITY"
	EnvEnvironment   = "CRTR_ENV"
	EnvCORSOrigin    = "CRTR_CORS_ORIGIN"
	EnvBcryptCost    = "CRTR_BCRYPT_COST"
)

// parseEnv overlays Config with values from the environment. PORT is honoured
// for hosting platforms that only hand out a port; CRTR_ADDRESS wins over it.
func parseEnv(config *Config) error {
	var port string
	flagx.EnvString(&port, EnvPort)
	if port != "" {
		config.Address = ":" + port
	}

	flagx.EnvString(&config.Address, EnvAddress)
	flagx.EnvString(&config.DatabaseDSN, EnvDatabaseDSN)
	flagx.EnvString(&config.SecretKey, EnvSecretKey)
	flagx.EnvString(&config.Environment, EnvEnvironment)
	flagx.EnvString(&config.CORSOrigin, EnvCORSOrigin)

	if err := flagx.EnvDuration(&config.TokenValidityDuration, EnvTokenValidity); err != nil {
		return fmt.Errorf("%s: %w", EnvTokenValidity, err)
	}
	if err := flagx.EnvInt(&config.BcryptCost, EnvBcryptCost); err != nil {
		return fmt.Errorf("%s: %w", EnvBcryptCost, err)
	}

	return nil
}
