package config

import (
	"os"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Environment
	Env string // "development", "production", etc.

	// Server
	ServerAddr string
	BaseURL    string
	SiteTitle  string

	// Database
	DatabaseURL string

	// OIDC (bearer ID tokens from the SPA)
	OIDCIssuer   string
	OIDCClientID string

	// Object storage (S3-compatible)
	StorageEndpoint  string
	StorageAccessKey string
	StorageSecretKey string
	StorageBucket    string
	StorageUseSSL    bool

	// SMTP
	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
	SMTPFromName string
	SMTPTLS      string // "tls", "starttls", or "none"
	AdminMail    string // receives contact form notifications

	// Redis (rate limiter storage; empty = in-memory)
	RedisURL string

	// CORS
	CORSOrigins string // Comma-separated allowed origins

	// Category seed file (YAML), loaded at startup when set
	CategorySeedFile string

	// Ledger sweep interval, e.g. "10m". Empty disables the sweeper.
	SweepInterval string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Env:         getEnv("ENV", "development"),
		ServerAddr:  getEnv("SERVER_ADDR", ":3000"),
		BaseURL:     getEnv("BASE_URL", "http://localhost:3000"),
		SiteTitle:   getEnv("SITE_TITLE", "StudyHub"),
		DatabaseURL: getEnv("DATABASE_URL", "postgres://localhost:5432/studyhub?sslmode=disable"),

		OIDCIssuer:   getEnv("OIDC_ISSUER", ""),
		OIDCClientID: getEnv("OIDC_CLIENT_ID", ""),

		StorageEndpoint:  getEnv("STORAGE_ENDPOINT", "localhost:9000"),
		StorageAccessKey: getEnv("STORAGE_ACCESS_KEY", ""),
		StorageSecretKey: getEnv("STORAGE_SECRET_KEY", ""),
		StorageBucket:    getEnv("STORAGE_BUCKET", "studyhub"),
		StorageUseSSL:    getEnv("STORAGE_USE_SSL", "") != "",

		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getEnv("SMTP_PORT", "587"),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		SMTPFrom:     getEnv("SMTP_FROM", ""),
		SMTPFromName: getEnv("SMTP_FROM_NAME", "StudyHub"),
		SMTPTLS:      getEnv("SMTP_TLS", "starttls"),
		AdminMail:    getEnv("ADMIN_MAIL", ""),

		RedisURL: getEnv("REDIS_URL", ""),

		CORSOrigins: getEnv("CORS_ORIGINS", ""),

		CategorySeedFile: getEnv("CATEGORY_SEED_FILE", ""),

		SweepInterval: getEnv("SWEEP_INTERVAL", "10m"),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// IsDev returns true if the environment is set to development.
func (c *Config) IsDev() bool {
	return c.Env == "development" || c.Env == "dev"
}

// EmailEnabled reports whether outbound mail is configured.
func (c *Config) EmailEnabled() bool {
	return c.SMTPHost != "" && c.SMTPFrom != ""
}
