package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ConfigRequirements defines required configuration for each environment
type ConfigRequirements struct {
	RequirePostgres bool
	RequireSecret   bool
}

var requirements = map[Environment]ConfigRequirements{
	Development: {RequirePostgres: false, RequireSecret: true},
	Test:        {RequirePostgres: false, RequireSecret: true},
	CI:          {RequirePostgres: true, RequireSecret: true},
	Production:  {RequirePostgres: true, RequireSecret: true},
}

// ValidateConfig checks if the configuration meets the requirements for the current environment
func ValidateConfig(cfg *Config) error {
	env := GetEnvironment()
	reqs := requirements[env]

	var errs []string
	add := func(field, msg string) {
		errs = append(errs, ValidationError{Field: field, Message: msg}.Error())
	}

	switch cfg.DBDriver {
	case "postgres":
		if cfg.DBDSN == "" {
			if cfg.DBHost == "" {
				add("DB_HOST", "required for the postgres driver")
			}
			if cfg.DBName == "" {
				add("DB_NAME", "required for the postgres driver")
			}
			if cfg.DBUser == "" {
				add("DB_USER", "required for the postgres driver")
			}
		}
	case "sqlite":
		if reqs.RequirePostgres {
			add("DB_DRIVER", fmt.Sprintf("sqlite is not allowed in %s", env))
		}
		if cfg.DBDSN == "" {
			add("DATABASE_URL", "sqlite needs a file path")
		}
	default:
		add("DB_DRIVER", fmt.Sprintf("unsupported driver %q", cfg.DBDriver))
	}

	if reqs.RequireSecret && cfg.JWTSecret == "" {
		add("JWT_SECRET", "jwt secret is required")
	}
	if env == Production && len(cfg.JWTSecret) < 32 {
		add("JWT_SECRET", "must be at least 32 characters in production")
	}
	if cfg.LogFormat != "json" && cfg.LogFormat != "console" {
		add("LOG_FORMAT", "must be json or console")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errs, "\n"))
	}

	return nil
}
