package config

import (
	"errors"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	HTTPPort    string `envconfig:"HTTP_PORT" default:"8080"`
	DatabaseDSN string `envconfig:"DATABASE_DSN" default:"host=localhost user=postgres password=postgres dbname=oficina port=5432 sslmode=disable"`
	RedisAddr   string `envconfig:"REDIS_ADDR" default:"127.0.0.1:6379"`
	JWTSecret   string `envconfig:"JWT_SECRET"`
	CORSOrigins string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:5173"`

	UploadDir     string `envconfig:"UPLOAD_DIR" default:"./uploads"`
	PublicBaseURL string `envconfig:"PUBLIC_BASE_URL" default:"http://localhost:8080/uploads"`
	GotenbergURL  string `envconfig:"GOTENBERG_URL" default:"http://127.0.0.1:3000"`

	LogLevel       string `envconfig:"LOG_LEVEL" default:"info"`
	LogDevelopment bool   `envconfig:"LOG_DEVELOPMENT" default:"false"`
}

const defaultDSN = "host=localhost user=postgres password=postgres dbname=oficina port=5432 sslmode=disable"

// Load reads .env (when present) and then the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("config: JWT_SECRET is required")
	}
	if len(c.JWTSecret) < 32 {
		return errors.New("config: JWT_SECRET must be at least 32 characters")
	}
	return nil
}

// Warnings lists settings still on their development defaults.
func (c *Config) Warnings() []string {
	var out []string
	if c.DatabaseDSN == defaultDSN {
		out = append(out, "DATABASE_DSN is using the default value, set your own Postgres connection for production")
	}
	if c.CORSOrigins == "http://localhost:5173" {
		out = append(out, "CORS_ALLOWED_ORIGINS is using the default value, set your own domain for production")
	}
	return out
}
