package config

import (
	"fmt"
	"os"
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
	RequiredEnvVars []string
	RequiredSecrets []string
}

var requirements = map[Environment]ConfigRequirements{
	Development: {
		RequiredSecrets: []string{
			"db_user",
			"db_password",
			"jwt_secret",
			"redis_password",
		},
	},
	Test: {
		RequiredSecrets: []string{
			"db_user",
			"db_password",
			"jwt_secret",
			"redis_password",
		},
	},
	CI: {
		RequiredEnvVars: []string{
			"DB_HOST",
			"DB_PORT",
			"DB_USER",
			"DB_NAME",
			"REDIS_HOST",
			"REDIS_PORT",
		},
	},
	Production: {
		RequiredSecrets: []string{
			"db_user",
			"db_password",
			"jwt_secret",
			"redis_password",
		},
	},
}

// ValidateConfig checks if the configuration meets the requirements for the current environment
func ValidateConfig(cfg *Config) error {
	env := GetEnvironment()
	reqs := requirements[env]

	var errs []ValidationError

	for _, envVar := range reqs.RequiredEnvVars {
		if value := os.Getenv(envVar); value == "" {
			errs = append(errs, ValidationError{Field: envVar, Message: "required environment variable is not set"})
		}
	}

	if env != CI {
		for _, secret := range reqs.RequiredSecrets {
			if value := readSecret(secret); value == "" {
				errs = append(errs, ValidationError{Field: secret, Message: "required secret is not set"})
			}
		}
	}

	if cfg.DBPassword == "" {
		errs = append(errs, ValidationError{Field: "db_password", Message: "database password is required"})
	}
	if cfg.JWTSecret == "" {
		errs = append(errs, ValidationError{Field: "jwt_secret", Message: "jwt secret is required"})
	}

	// The USDA key is deliberately optional: without it search degrades to
	// local-catalog-only results.
	if cfg.USDA.BaseURL == "" {
		errs = append(errs, ValidationError{Field: "usda_base_url", Message: "USDA base URL must not be empty"})
	}

	if len(errs) > 0 {
		msgs := make([]string, 0, len(errs))
		for _, e := range errs {
			msgs = append(msgs, e.Error())
		}
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(msgs, "\n"))
	}

	return nil
}
