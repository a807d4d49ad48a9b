package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// DevJWTSecret signs tokens in development and test when no secret is configured.
const DevJWTSecret = "development-only-jwt-secret"

// Config holds all configuration for the application
type Config struct {
	Environment Environment `ignored:"true"`

	// Server configuration
	ServerHost string `envconfig:"SERVER_HOST" default:"0.0.0.0"`
	ServerPort string `envconfig:"SERVER_PORT" default:"8080"`

	// Database configuration
	DBDriver      string `envconfig:"DB_DRIVER" default:"postgres"`
	DBHost        string `envconfig:"DB_HOST" default:"localhost"`
	DBPort        string `envconfig:"DB_PORT" default:"5432"`
	DBUser        string `envconfig:"DB_USER" default:"postgres"`
	DBPassword    string `envconfig:"DB_PASSWORD"`
	DBName        string `envconfig:"DB_NAME" default:"alchemorsel"`
	DBSSLMode     string `envconfig:"DB_SSL_MODE" default:"disable"`
	SQLitePath    string `envconfig:"SQLITE_PATH" default:"file::memory:?cache=shared"`
	MigrationsDir string `envconfig:"MIGRATIONS_DIR" default:"migrations"`

	// JWT configuration
	JWTSecret string        `envconfig:"JWT_SECRET"`
	JWTTTL    time.Duration `envconfig:"JWT_TTL" default:"24h"`

	// Redis configuration; rate limiting is disabled when RedisURL is empty
	RedisURL          string        `envconfig:"REDIS_URL"`
	RedisPassword     string        `envconfig:"REDIS_PASSWORD"`
	RateLimitRequests int           `envconfig:"RATE_LIMIT_REQUESTS" default:"120"`
	RateLimitWindow   time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"1m"`

	CORSOrigins []string `envconfig:"CORS_ORIGINS" default:"http://localhost:5173,http://frontend:5173"`
	LogLevel    string   `envconfig:"LOG_LEVEL" default:"info"`
}

// LoadConfig creates a new Config instance with values from environment variables or secrets
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	cfg.Environment = GetEnvironment()

	// CI injects secrets as environment variables; everywhere else they may
	// also come from Docker secrets.
	if cfg.Environment != CI {
		loadSecrets(cfg)
	}
	if cfg.JWTSecret == "" && cfg.IsLocal() {
		cfg.JWTSecret = DevJWTSecret
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// PostgresDSN builds the connection string for the postgres driver.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

// Addr is the listen address of the HTTP server.
func (c *Config) Addr() string {
	return c.ServerHost + ":" + c.ServerPort
}

func loadSecrets(cfg *Config) {
	fill := func(dst *string, name string) {
		if *dst == "" {
			*dst = readSecret(name)
		}
	}
	fill(&cfg.DBUser, "db_user")
	fill(&cfg.DBPassword, "db_password")
	fill(&cfg.JWTSecret, "jwt_secret")
	fill(&cfg.RedisPassword, "redis_password")
	fill(&cfg.RedisURL, "redis_url")
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}
