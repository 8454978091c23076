package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv         string
	HTTPAddr       string
	MigrationsPath string

	// Hosted Postgres convenience:
	// - DATABASE_URL: runtime connection (often a pooler)
	// - DIRECT_URL: direct connection for migrations
	DatabaseURL string
	DirectURL   string

	DB DBConfig

	Backend BackendConfig

	Session SessionConfig

	// AllowedOrigins is a comma-separated allowlist for the browser shell. Example:
	//   https://frontdesk.example.com,http://localhost:5173
	AllowedOrigins []string

	// Timezone decides what "today" is for past-day checks. IANA name.
	Timezone string
}

type DBConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
}

// BackendConfig points at the hotel booking service.
type BackendConfig struct {
	BaseURL  string
	Database string
	Login    string
	APIKey   string
	Timeout  time.Duration
}

type SessionConfig struct {
	Secret   string
	Issuer   string
	Audience string
}

func Load() Config {
	// Convenience for local dev: load variables from .env if present.
	// In production, rely on real environment variables.
	_ = godotenv.Load()

	httpAddr := os.Getenv("HTTP_ADDR")
	if httpAddr == "" {
		if port := os.Getenv("PORT"); port != "" {
			httpAddr = ":" + port
		} else {
			httpAddr = ":8081"
		}
	}

	return Config{
		AppEnv:         env("APP_ENV", "dev"),
		HTTPAddr:       httpAddr,
		MigrationsPath: os.Getenv("MIGRATIONS_PATH"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		DirectURL:      os.Getenv("DIRECT_URL"),
		DB: DBConfig{
			Host:     os.Getenv("DB_HOST"),
			Port:     env("DB_PORT", "5432"),
			Name:     env("DB_NAME", "frontdesk"),
			User:     env("DB_USER", "frontdesk"),
			Password: env("DB_PASSWORD", "frontdesk"),
			SSLMode:  env("DB_SSLMODE", "disable"),
		},
		Backend: BackendConfig{
			BaseURL:  env("BACKEND_URL", "http://localhost:8069"),
			Database: os.Getenv("BACKEND_DB"),
			Login:    os.Getenv("BACKEND_LOGIN"),
			APIKey:   os.Getenv("BACKEND_API_KEY"),
			Timeout:  envDuration("BACKEND_TIMEOUT", 20*time.Second),
		},
		Session: SessionConfig{
			Secret:   os.Getenv("SESSION_SECRET"),
			Issuer:   env("SESSION_ISSUER", "frontdesk"),
			Audience: os.Getenv("SESSION_AUDIENCE"),
		},
		AllowedOrigins: envList("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:4173"),
		Timezone:       env("TIMEZONE", "UTC"),
	}
}

// HasDatabase reports whether any database connection was configured.
func (c Config) HasDatabase() bool {
	return c.DatabaseURL != "" || c.DB.Host != ""
}

// Location resolves Timezone, falling back to UTC.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func env(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func envList(key, fallbackCSV string) []string {
	v := os.Getenv(key)
	if v == "" {
		v = fallbackCSV
	}
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
