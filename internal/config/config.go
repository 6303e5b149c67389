// Package config loads and validates the portal's environment configuration.
package config

import (
	"errors"
	"fmt"
	"time"
)

// Session store backends
const (
	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"
)

// Credential verifiers
const (
	VerifierAccounts = "accounts"
	VerifierStatic   = "static"
)

// Config holds the runtime configuration of the portal
type Config struct {
	Port         int
	AppEnv       string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	SessionStore          string
	SessionMaxAge         int // seconds
	SessionMemoryCapacity int

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	DatabaseURL   string
	AutoMigrate   bool
	AuthVerifier  string
	AuthUsers     []string // email:password pairs for the static verifier
	AuthTimeout   time.Duration
	AllowedOrigin []string

	LogLevel  string
	LogFormat string
}

// Load reads the configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		AppEnv:        GetEnvOrDefault("APP_ENV", "development"),
		SessionStore:  GetEnvOrDefault("SESSION_STORE", SessionStoreMemory),
		RedisAddr:     GetEnvOrDefault("REDIS_ADDR", ""),
		RedisPassword: GetEnvOrDefault("REDIS_PASSWORD", ""),
		DatabaseURL:   GetEnvOrDefault("DATABASE_URL", ""),
		AuthVerifier:  GetEnvOrDefault("AUTH_VERIFIER", VerifierAccounts),
		AuthUsers:     splitList(GetEnvOrDefault("AUTH_USERS", "")),
		AllowedOrigin: splitList(GetEnvOrDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173")),
		LogLevel:      GetEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:     GetEnvOrDefault("LOG_FORMAT", "json"),
	}

	var errs []error
	var err error

	if cfg.Port, err = getEnvInt("PORT", 8080); err != nil {
		errs = append(errs, err)
	}
	if cfg.SessionMaxAge, err = getEnvInt("SESSION_MAX_AGE", 3600); err != nil {
		errs = append(errs, err)
	}
	if cfg.SessionMemoryCapacity, err = getEnvInt("SESSION_MEMORY_CAPACITY", 10000); err != nil {
		errs = append(errs, err)
	}
	if cfg.RedisDB, err = getEnvInt("REDIS_DB", 0); err != nil {
		errs = append(errs, err)
	}
	if cfg.AutoMigrate, err = getEnvBool("DB_AUTO_MIGRATE", true); err != nil {
		errs = append(errs, err)
	}
	if cfg.ReadTimeout, err = getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second); err != nil {
		errs = append(errs, err)
	}
	if cfg.WriteTimeout, err = getEnvDuration("SERVER_WRITE_TIMEOUT", 30*time.Second); err != nil {
		errs = append(errs, err)
	}
	if cfg.IdleTimeout, err = getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second); err != nil {
		errs = append(errs, err)
	}
	if cfg.AuthTimeout, err = getEnvDuration("AUTH_TIMEOUT", 5*time.Second); err != nil {
		errs = append(errs, err)
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks enumerations and the variables each backend requires
func (c *Config) Validate() error {
	var errs []error

	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT out of range: %d", c.Port))
	}
	if c.SessionMaxAge <= 0 {
		errs = append(errs, fmt.Errorf("SESSION_MAX_AGE must be positive, got %d", c.SessionMaxAge))
	}
	if c.AuthTimeout <= 0 {
		errs = append(errs, fmt.Errorf("AUTH_TIMEOUT must be positive, got %s", c.AuthTimeout))
	}

	switch c.SessionStore {
	case SessionStoreMemory:
		if c.SessionMemoryCapacity <= 0 {
			errs = append(errs, fmt.Errorf("SESSION_MEMORY_CAPACITY must be positive, got %d", c.SessionMemoryCapacity))
		}
	case SessionStoreRedis:
		if err := ValidateEnv([]string{"REDIS_ADDR"}); err != nil {
			errs = append(errs, err)
		}
	default:
		errs = append(errs, fmt.Errorf("unknown SESSION_STORE %q", c.SessionStore))
	}

	switch c.AuthVerifier {
	case VerifierAccounts:
	case VerifierStatic:
		if len(c.AuthUsers) == 0 {
			errs = append(errs, errors.New("AUTH_USERS is required when AUTH_VERIFIER=static"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown AUTH_VERIFIER %q", c.AuthVerifier))
	}

	return errors.Join(errs...)
}

// IsProduction reports whether cookies should be marked Secure
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// SessionTTL returns SESSION_MAX_AGE as a duration
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionMaxAge) * time.Second
}

// Addr returns the HTTP listen address
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
