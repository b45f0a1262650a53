// Package config provides application configuration.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	graphconfig "github.com/monetalab/fincoach/pkg/graph/config"
)

// Config holds all application configuration.
type Config struct {
	Port           string
	FrontendURL    string
	CheckpointPath string
	ActivityDBPath string

	OpenAI OpenAIConfig

	ShutdownTimeout time.Duration
}

// OpenAIConfig holds model provider settings.
type OpenAIConfig struct {
	APIKey          string
	BaseURL         string
	ChatModel       string
	ExtractionModel string
}

// Load reads configuration from environment variables. A .env file in
// the working directory is loaded first if present. When CONFIG_FILE
// names a YAML or JSON file, its values serve as defaults under the
// lowercased variable names; environment variables still win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	fileValues := graphconfig.New(nil)
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		loaded, err := graphconfig.FromFile(path)
		if err != nil {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
		fileValues = loaded
	}

	get := func(key, fallback string) string {
		return getEnv(key, fileValues.String(strings.ToLower(key), fallback))
	}

	cfg := &Config{
		Port:           get("PORT", "8000"),
		FrontendURL:    get("FRONTEND_URL", ""),
		CheckpointPath: get("CHECKPOINT_DB_PATH", "./data/checkpoints.db"),
		ActivityDBPath: get("ACTIVITY_DB_PATH", "./data/activities.db"),
		OpenAI: OpenAIConfig{
			APIKey:          get("OPENAI_API_KEY", ""),
			BaseURL:         get("OPENAI_BASE_URL", ""),
			ChatModel:       get("CHAT_MODEL", "gpt-4o"),
			ExtractionModel: get("EXTRACTION_MODEL", "gpt-4o-mini"),
		},
		ShutdownTimeout: fileValues.Duration("shutdown_timeout", 15*time.Second),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if c.OpenAI.APIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required")
	}
	if c.OpenAI.ChatModel == "" {
		return fmt.Errorf("CHAT_MODEL cannot be empty")
	}
	if c.OpenAI.ExtractionModel == "" {
		return fmt.Errorf("EXTRACTION_MODEL cannot be empty")
	}
	if c.CheckpointPath == "" {
		return fmt.Errorf("CHECKPOINT_DB_PATH cannot be empty")
	}
	if c.ActivityDBPath == "" {
		return fmt.Errorf("ACTIVITY_DB_PATH cannot be empty")
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.FrontendURL == "" ||
		strings.Contains(c.FrontendURL, "localhost") ||
		strings.Contains(c.FrontendURL, "127.0.0.1")
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
