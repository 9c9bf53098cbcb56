// Package config loads application settings from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Supported DB_DRIVER values.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

const devJWTSecret = "dev_jwt_secret"

// Config holds every setting the application reads at startup.
type Config struct {
	AppEnv  string
	AppPort string

	DBDriver    string
	DatabaseDSN string

	JWTSecret    string
	AuthTokenTTL time.Duration
	CookieSecure bool

	RabbitMQURL      string
	RabbitMQExchange string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	ServiceName  string
	OTLPEndpoint string

	SeedAdmin *SeedUser
}

// SeedUser is an account created on startup when it does not exist yet.
type SeedUser struct {
	Username string
	Email    string
	Password string
}

// Load reads configuration from environment variables, falling back to an
// optional env-format file named by CONFIG_FILE.
func Load() (*Config, error) {
	v := viper.New()
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("DB_DRIVER", DriverSQLite)
	v.SetDefault("DATABASE_DSN", "file:inventory.db")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("AUTH_TOKEN_TTL", "24h")
	v.SetDefault("COOKIE_SECURE", false)
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("RABBITMQ_EXCHANGE", "inventory")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("OTEL_SERVICE_NAME", "product-inventory")
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	v.SetDefault("SEED_ADMIN_USERNAME", "")
	v.SetDefault("SEED_ADMIN_EMAIL", "")
	v.SetDefault("SEED_ADMIN_PASSWORD", "")
	v.AutomaticEnv()

	if file := v.GetString("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", file, err)
		}
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		AppEnv:           v.GetString("APP_ENV"),
		AppPort:          v.GetString("APP_PORT"),
		DBDriver:         v.GetString("DB_DRIVER"),
		DatabaseDSN:      v.GetString("DATABASE_DSN"),
		JWTSecret:        v.GetString("JWT_SECRET"),
		CookieSecure:     v.GetBool("COOKIE_SECURE"),
		RabbitMQURL:      v.GetString("RABBITMQ_URL"),
		RabbitMQExchange: v.GetString("RABBITMQ_EXCHANGE"),
		RedisAddr:        v.GetString("REDIS_ADDR"),
		RedisPassword:    v.GetString("REDIS_PASSWORD"),
		RedisDB:          v.GetInt("REDIS_DB"),
		ServiceName:      v.GetString("OTEL_SERVICE_NAME"),
		OTLPEndpoint:     v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}

	ttl, err := time.ParseDuration(v.GetString("AUTH_TOKEN_TTL"))
	if err != nil || ttl <= 0 {
		return nil, fmt.Errorf("invalid AUTH_TOKEN_TTL %q", v.GetString("AUTH_TOKEN_TTL"))
	}
	cfg.AuthTokenTTL = ttl

	switch cfg.DBDriver {
	case DriverPostgres, DriverSQLite, DriverMemory:
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	if cfg.JWTSecret == "" {
		if !cfg.IsDevelopment() {
			return nil, fmt.Errorf("JWT_SECRET is required when APP_ENV=%s", cfg.AppEnv)
		}
		cfg.JWTSecret = devJWTSecret
	}

	if username := v.GetString("SEED_ADMIN_USERNAME"); username != "" {
		cfg.SeedAdmin = &SeedUser{
			Username: username,
			Email:    v.GetString("SEED_ADMIN_EMAIL"),
			Password: v.GetString("SEED_ADMIN_PASSWORD"),
		}
	}

	return cfg, nil
}

// IsDevelopment reports whether the app runs with development defaults.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}
