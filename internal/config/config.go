package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port               string
	StaticDir          string
	EditsFile          string
	EditorUsername     string
	EditorPassword     string
	EditorPasswordHash string // bcrypt hash; takes precedence over EditorPassword when set
	SessionSecret      string
	AllowedOrigins     string
	Environment        string // development, staging, production
	LogLevel           string
	LogFormat          string
}

// Load loads configuration from environment variables and validates for production
func Load() *Config {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Port:               getEnv("PORT", "3000"),
		StaticDir:          getEnv("STATIC_DIR", "./static"),
		EditsFile:          getEnv("EDITS_FILE", "./data/editor-edits.json"),
		EditorUsername:     getEnv("EDITOR_USERNAME", "Robbie"),
		EditorPassword:     getEnv("EDITOR_PASSWORD", "Password1234"),
		EditorPasswordHash: getEnv("EDITOR_PASSWORD_HASH", ""),
		SessionSecret:      getEnv("SESSION_SECRET", ""),
		AllowedOrigins:     getEnv("ALLOWED_ORIGINS", "http://localhost:3000"),
		Environment:        getEnv("ENVIRONMENT", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFormat:          getEnv("LOG_FORMAT", "json"),
	}

	// Validate production configuration
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	return cfg
}

// Validate checks configuration for security and correctness
func (c *Config) Validate() error {
	// Production environment requires strong secrets
	if c.IsProduction() {
		if c.SessionSecret == "" || c.SessionSecret == "change-this-in-production" {
			return fmt.Errorf("SESSION_SECRET must be set to a strong random value in production")
		}

		if len(c.SessionSecret) < 32 {
			return fmt.Errorf("SESSION_SECRET must be at least 32 characters in production (got %d)", len(c.SessionSecret))
		}

		if c.EditorPasswordHash == "" && c.EditorPassword == "Password1234" {
			return fmt.Errorf("EDITOR_PASSWORD must be changed from the default in production")
		}
	} else if c.SessionSecret == "" {
		// Development/staging: provide default if not set
		c.SessionSecret = "dev-secret-not-for-production"
		log.Println("Using default SESSION_SECRET for development")
	}

	return nil
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development" || c.Environment == "dev" || c.Environment == ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
