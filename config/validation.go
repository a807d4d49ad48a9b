package config

import (
	"fmt"
	"strings"
)

// requirement checks one aspect of a Config and returns a message when it fails.
type requirement func(cfg *Config) string

var (
	common = []requirement{
		func(cfg *Config) string {
			if cfg.ServerPort == "" {
				return "SERVER_PORT is required"
			}
			return ""
		},
		func(cfg *Config) string {
			switch cfg.DBDriver {
			case "postgres", "sqlite":
				return ""
			}
			return fmt.Sprintf("DB_DRIVER must be postgres or sqlite, got %q", cfg.DBDriver)
		},
		func(cfg *Config) string {
			if cfg.DBDriver == "postgres" && (cfg.DBHost == "" || cfg.DBName == "") {
				return "DB_HOST and DB_NAME are required for postgres"
			}
			return ""
		},
		func(cfg *Config) string {
			if cfg.JWTSecret == "" {
				return "jwt_secret secret or JWT_SECRET is required"
			}
			return ""
		},
		func(cfg *Config) string {
			if cfg.JWTTTL <= 0 {
				return "JWT_TTL must be positive"
			}
			return ""
		},
		func(cfg *Config) string {
			if cfg.RedisURL != "" && (cfg.RateLimitRequests <= 0 || cfg.RateLimitWindow <= 0) {
				return "RATE_LIMIT_REQUESTS and RATE_LIMIT_WINDOW must be positive when REDIS_URL is set"
			}
			return ""
		},
	}

	// Environment-specific requirements
	requirements = map[Environment][]requirement{
		Production: {
			func(cfg *Config) string {
				if cfg.DBDriver != "postgres" {
					return "production requires DB_DRIVER=postgres"
				}
				return ""
			},
			func(cfg *Config) string {
				if cfg.DBPassword == "" {
					return "db_password secret is required"
				}
				return ""
			},
			func(cfg *Config) string {
				if cfg.JWTSecret == DevJWTSecret {
					return "jwt_secret must not be the development secret"
				}
				return ""
			},
		},
		CI: {
			func(cfg *Config) string {
				if cfg.DBDriver == "postgres" && cfg.DBPassword == "" {
					return "DB_PASSWORD environment variable is required in CI environment"
				}
				return ""
			},
		},
	}
)

// ValidateConfig checks if the configuration meets the requirements for its environment
func ValidateConfig(cfg *Config) error {
	var errors []string
	checks := append(append([]requirement{}, common...), requirements[cfg.Environment]...)
	for _, check := range checks {
		if msg := check(cfg); msg != "" {
			errors = append(errors, msg)
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errors, "\n"))
	}
	return nil
}
