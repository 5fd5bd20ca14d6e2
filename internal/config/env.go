package config

import (
	"fmt"
	"os"
	"strings"
)

// EnvironmentType represents the application environment
type EnvironmentType string

const (
	EnvironmentDevelopment EnvironmentType = "development"
	EnvironmentProduction  EnvironmentType = "production"
)

// String returns the string representation of the environment type
func (e EnvironmentType) String() string {
	return string(e)
}

// IsValid checks if the environment type is valid
func (e EnvironmentType) IsValid() bool {
	switch e {
	case EnvironmentDevelopment, EnvironmentProduction:
		return true
	default:
		return false
	}
}

// minSecretLength is the minimum length for JWT signing secrets
const minSecretLength = 32

// Environment holds the environment variables
type Environment struct {
	Environment   EnvironmentType `env:"ENVIRONMENT"`
	ConfigPath    string          `env:"CONFIG_PATH"`
	AccessSecret  string          `env:"JWT_ACCESS_SECRET"`
	RefreshSecret string          `env:"JWT_REFRESH_SECRET"`
	AccessExpiry  string          `env:"JWT_ACCESS_EXPIRY"`
	RefreshExpiry string          `env:"JWT_REFRESH_EXPIRY"`
}

// LoadEnv loads the environment variables
func LoadEnv() *Environment {
	envStr := getEnv("ENVIRONMENT", string(EnvironmentDevelopment))
	envStr = strings.TrimSpace(envStr)
	envStr = strings.ToLower(envStr)
	envType := EnvironmentType(envStr)

	// Validate and default to development if invalid
	if !envType.IsValid() {
		envType = EnvironmentDevelopment
	}

	return &Environment{
		Environment:   envType,
		ConfigPath:    getEnv("CONFIG_PATH", "config.yaml"),
		AccessSecret:  getEnv("JWT_ACCESS_SECRET", ""),
		RefreshSecret: getEnv("JWT_REFRESH_SECRET", ""),
		AccessExpiry:  getEnv("JWT_ACCESS_EXPIRY", DefaultAccessExpiry),
		RefreshExpiry: getEnv("JWT_REFRESH_EXPIRY", DefaultRefreshExpiry),
	}
}

// Validate checks that both signing secrets are present and long enough.
// Expiry strings are not validated here; malformed values fall back to the
// default lifetime at parse time (see ParseExpiry).
func (e *Environment) Validate() error {
	if len(e.AccessSecret) < minSecretLength {
		return fmt.Errorf("JWT_ACCESS_SECRET must be at least %d characters", minSecretLength)
	}
	if len(e.RefreshSecret) < minSecretLength {
		return fmt.Errorf("JWT_REFRESH_SECRET must be at least %d characters", minSecretLength)
	}
	return nil
}

// getEnv gets the environment variable with a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return defaultValue
}
