package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all adapter configuration
type Config struct {
	Gateway   GatewayConfig
	Transport TransportConfig
	Logger    LoggerConfig
}

// GatewayConfig holds merchant gateway credentials and mode selection
type GatewayConfig struct {
	Login   string // Application login identifier
	Ticket  string // Connection ticket
	PEMFile string // Path to client certificate; empty for desktop signon
	Mode    string // Ambient mode: "test" or "live"
}

// TransportConfig holds HTTPS transport tuning
type TransportConfig struct {
	Timeout            time.Duration
	MaxRetries         int
	InsecureSkipVerify bool
}

// LoggerConfig holds logging configuration
type LoggerConfig struct {
	Level       string // debug, info, warn, error
	Development bool
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		Gateway: GatewayConfig{
			Login:   getEnv("QBMS_LOGIN", ""),
			Ticket:  getEnv("QBMS_TICKET", ""),
			PEMFile: getEnv("QBMS_PEM_FILE", ""),
			Mode:    getEnv("QBMS_MODE", "test"),
		},
		Transport: TransportConfig{
			Timeout:            time.Duration(getEnvAsInt("QBMS_TIMEOUT_SECONDS", 30)) * time.Second,
			MaxRetries:         getEnvAsInt("QBMS_MAX_RETRIES", 3),
			InsecureSkipVerify: getEnvAsBool("QBMS_INSECURE_SKIP_VERIFY", false),
		},
		Logger: LoggerConfig{
			Level:       getEnv("LOG_LEVEL", "info"),
			Development: getEnvAsBool("LOG_DEVELOPMENT", false),
		},
	}

	if cfg.Gateway.Login == "" {
		return nil, fmt.Errorf("QBMS_LOGIN is required")
	}
	if cfg.Gateway.Ticket == "" {
		return nil, fmt.Errorf("QBMS_TICKET is required")
	}
	if cfg.Gateway.Mode != "test" && cfg.Gateway.Mode != "live" {
		return nil, fmt.Errorf("QBMS_MODE must be 'test' or 'live', got %q", cfg.Gateway.Mode)
	}

	return cfg, nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
