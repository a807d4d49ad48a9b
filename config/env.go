package config

import (
	"os"
)

// Environment represents the current runtime environment
type Environment string

const (
	Development Environment = "development"
	Test        Environment = "test"
	CI          Environment = "ci"
	Production  Environment = "production"
)

// GetEnvironment determines the current environment
func GetEnvironment() Environment {
	// CI environment is automatically detected
	if os.Getenv("CI") == "true" {
		return CI
	}

	switch os.Getenv("ENV") {
	case "production":
		return Production
	case "test":
		return Test
	default:
		return Development
	}
}

// IsProduction reports whether the config was loaded in production.
func (c *Config) IsProduction() bool {
	return c.Environment == Production
}

// IsLocal reports whether the config may fall back to development defaults.
func (c *Config) IsLocal() bool {
	return c.Environment == Development || c.Environment == Test
}
