/*
Package configs is responsible for loading and parsing the application's configuration settings.

It configures server parameters by reading operating system environment variables,
including the running environment, port, CORS allowed origins, the system sender name,
the static asset directory, and the banned-words list for the profanity filter.
*/
package configs

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// DefaultBannedWords seeds the profanity filter when BANNED_WORDS is not set.
// Deployments are expected to supply their own list.
var DefaultBannedWords = []string{"damn", "crap", "bastard"}

// AppConfig contains all configuration parameters required for the application to run.
// All configuration values are loaded from environment variables.
type AppConfig struct {
	// General Server Settings
	Environment string
	Port        int

	// Security Settings
	AllowedOrigins []string

	// Chat Settings
	SystemName  string
	StaticDir   string
	BannedWords []string
}

// LoadConfig reads and parses the application configuration from environment variables.
// It provides default values for each configuration item and performs necessary type
// conversions and validation.
func LoadConfig() (*AppConfig, error) {
	cfg := &AppConfig{}

	// --- General Server Settings ---
	// Environment
	cfg.Environment = os.Getenv("ENVIRONMENT")
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	// Port
	portStr := os.Getenv("PORT")
	if portStr == "" {
		portStr = "3000"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT environment variable: %w", err)
	}
	cfg.Port = port

	if cfg.Port < 1024 || cfg.Port > 65535 {
		return nil, fmt.Errorf("port number %d is outside the recommended range (%d-%d) to avoid privileged ports", cfg.Port, 1024, 65535)
	}

	// --- Security Settings ---
	// AllowedOrigins
	originsStr := os.Getenv("ALLOWED_ORIGINS")
	if originsStr != "" {
		origins := strings.Split(originsStr, ",")
		for _, origin := range origins {
			trimmed := strings.TrimSpace(origin)
			if trimmed != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, trimmed)
			}
		}
	} else {
		cfg.AllowedOrigins = []string{}
	}

	// --- Chat Settings ---
	// SystemName is the sender name attached to system notices (welcome, join, leave).
	cfg.SystemName = os.Getenv("SYSTEM_NAME")
	if cfg.SystemName == "" {
		cfg.SystemName = "Ichat-App"
	}

	// StaticDir is where the chat client assets are served from.
	cfg.StaticDir = os.Getenv("STATIC_DIR")
	if cfg.StaticDir == "" {
		cfg.StaticDir = "./public"
	}

	// BannedWords feeds the profanity filter; comma-separated.
	bannedStr := os.Getenv("BANNED_WORDS")
	if bannedStr != "" {
		for _, word := range strings.Split(bannedStr, ",") {
			trimmed := strings.TrimSpace(word)
			if trimmed != "" {
				cfg.BannedWords = append(cfg.BannedWords, trimmed)
			}
		}
	}
	if len(cfg.BannedWords) == 0 {
		cfg.BannedWords = DefaultBannedWords
	}

	return cfg, nil
}
