// Copyright (c) 2026 Bazaari. All rights reserved.
// Author: The Bazaari Authors

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct. A local '.env' file, when present, is loaded first with 'joho/godotenv'
so developers can run the server without exporting every variable.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}
*/
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// # Configuration Schema

// Config holds all runtime configuration for the Bazaari API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (backend PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Session change event bus (Redis pub/sub)
	RedisURL string `env:"REDIS_URL,required"`

	// Hosted auth provider
	BackendURL       string `env:"BACKEND_URL,required"`
	BackendAnonKey   string `env:"BACKEND_ANON_KEY,required"`
	BackendJWTSecret string `env:"BACKEND_JWT_SECRET,required"`

	// AdminEmail is the one address resolved to the Owner role.
	AdminEmail string `env:"ADMIN_EMAIL,required,notEmpty"`

	// How long a resolved principal answers requests before it is re-read.
	SessionFreshFor time.Duration `env:"SESSION_FRESH_FOR" envDefault:"1m"`

	// One-time code flow
	OTPLength         int           `env:"OTP_LENGTH"          envDefault:"8"`
	OTPResendCooldown time.Duration `env:"OTP_RESEND_COOLDOWN" envDefault:"60s"`

	// Wizards
	WizardIdleTTL        time.Duration `env:"WIZARD_IDLE_TTL"        envDefault:"30m"`
	BoostProcessingDelay time.Duration `env:"BOOST_PROCESSING_DELAY" envDefault:"2h"`

	// Optional description assistant
	AIAPIKey   string `env:"AI_API_KEY"`
	AIModel    string `env:"AI_MODEL"    envDefault:"gemini-3-flash-preview"`
	AIEndpoint string `env:"AI_ENDPOINT" envDefault:"https://generativelanguage.googleapis.com/v1beta"`

	// Cross-Origin Resource Sharing
	AllowedOriginSuffix string `env:"ALLOWED_ORIGIN_SUFFIX" envDefault:"bazaari.app"`
}

// # Configuration Loading

// Load reads an optional .env file and parses environment variables into a [Config].
func Load() (*Config, error) {

	// A missing .env is the normal case outside local development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: failed to read .env file: %w", err)
	}

	cfg := &Config{}

	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if cfg.OTPLength < 4 || cfg.OTPLength > 10 {
		return nil, fmt.Errorf("config: OTP_LENGTH must be between 4 and 10, got %d", cfg.OTPLength)
	}

	return cfg, nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// OriginSuffix returns the production CORS origin suffix.
func (c *Config) OriginSuffix() string {
	return c.AllowedOriginSuffix
}

// AssistantEnabled reports whether the AI description assistant is configured.
func (c *Config) AssistantEnabled() bool {
	return c.AIAPIKey != ""
}
