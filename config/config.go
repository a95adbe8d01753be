package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds every runtime setting of the API.
type Config struct {
	Port              string
	DatabaseURL       string
	FrontendURL       string
	JWTSecret         string
	TokenTTL          time.Duration
	DataEncryptionKey string
	Environment       string
	LogLevel          string
	RateLimit         int
	RateWindow        time.Duration
	BonusSweepEvery   time.Duration
	AllowedOrigins    []string
}

// Load reads .env (if present) then the process environment.
func Load() (*Config, error) {
	// A missing .env is normal in containers.
	_ = godotenv.Load()
	return FromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("PORT", "8080")
	v.SetDefault("FRONTEND_URL", "http://localhost:3000")
	v.SetDefault("TOKEN_TTL", "24h")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("RATE_LIMIT", 100)
	v.SetDefault("RATE_WINDOW", "1m")
	v.SetDefault("BONUS_SWEEP_INTERVAL", "24h")
	v.SetDefault("ALLOWED_ORIGINS", "")
	v.AutomaticEnv()
	return v
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Port:              v.GetString("PORT"),
		DatabaseURL:       v.GetString("DATABASE_URL"),
		FrontendURL:       v.GetString("FRONTEND_URL"),
		JWTSecret:         v.GetString("JWT_SECRET"),
		TokenTTL:          v.GetDuration("TOKEN_TTL"),
		DataEncryptionKey: v.GetString("DATA_ENCRYPTION_KEY"),
		Environment:       strings.ToLower(v.GetString("ENVIRONMENT")),
		LogLevel:          v.GetString("LOG_LEVEL"),
		RateLimit:         v.GetInt("RATE_LIMIT"),
		RateWindow:        v.GetDuration("RATE_WINDOW"),
		BonusSweepEvery:   v.GetDuration("BONUS_SWEEP_INTERVAL"),
	}

	cfg.AllowedOrigins = []string{cfg.FrontendURL}
	for _, origin := range strings.Split(v.GetString("ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" && origin != cfg.FrontendURL {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, origin)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings the server cannot start without.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET environment variable is required")
	}
	if c.DataEncryptionKey != "" && len(c.DataEncryptionKey) != 32 {
		return fmt.Errorf("DATA_ENCRYPTION_KEY must be exactly 32 characters")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive")
	}
	if c.RateLimit <= 0 || c.RateWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT and RATE_WINDOW must be positive")
	}
	return nil
}

// IsProduction reports whether sensitive values must be masked in logs.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
