package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, "./data/checkpoints.db", cfg.CheckpointPath)
	assert.Equal(t, "./data/activities.db", cfg.ActivityDBPath)
	assert.Equal(t, "gpt-4o", cfg.OpenAI.ChatModel)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAI.ExtractionModel)
	assert.Equal(t, 15*time.Second, cfg.ShutdownTimeout)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("PORT", "9090")
	t.Setenv("CHAT_MODEL", "gpt-4.1")
	t.Setenv("OPENAI_BASE_URL", "http://localhost:11434/v1")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "gpt-4.1", cfg.OpenAI.ChatModel)
	assert.Equal(t, "http://localhost:11434/v1", cfg.OpenAI.BaseURL)
}

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoad_ConfigFileDefaults(t *testing.T) {
	path := writeConfigFile(t, "port: \"9100\"\nchat_model: gpt-4.1\nshutdown_timeout: 5s\n")

	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("CONFIG_FILE", path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9100", cfg.Port)
	assert.Equal(t, "gpt-4.1", cfg.OpenAI.ChatModel)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
	// Keys absent from the file keep their hardcoded defaults.
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAI.ExtractionModel)
}

func TestLoad_EnvBeatsConfigFile(t *testing.T) {
	path := writeConfigFile(t, "port: \"9100\"\n")

	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "9200")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9200", cfg.Port)
}

func TestLoad_ConfigFileMissing(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config file")
}

func TestLoad_RequiresAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")
}

func TestIsDevelopment(t *testing.T) {
	cfg := &Config{}
	assert.True(t, cfg.IsDevelopment())

	cfg.FrontendURL = "http://localhost:3000"
	assert.True(t, cfg.IsDevelopment())

	cfg.FrontendURL = "https://app.example.com"
	assert.False(t, cfg.IsDevelopment())
}
