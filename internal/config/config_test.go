package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every key LoadConfig reads; viper treats empty variables as unset.
func clearEnv(t *testing.T) {
	t.Helper()
	for key := range defaults {
		t.Setenv(strings.ToUpper(strings.ReplaceAll(key, ".", "_")), "")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "sk-test", cfg.OpenAI.APIKey)
	assert.Equal(t, "openai", cfg.OpenAI.Provider)
	assert.Equal(t, "gpt-5.2", cfg.OpenAI.Model)
	assert.Equal(t, "high", cfg.OpenAI.ReasoningEffort)
	assert.Equal(t, "https://api.openai.com/v1", cfg.OpenAI.APIEndpoint)
	assert.Zero(t, cfg.OpenAI.RequestTimeout)
	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, "http", cfg.Server.Transport)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 10*time.Minute, cfg.Server.WriteTimeout)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-env")
	t.Setenv("OPENAI_MODEL", "gpt-5")
	t.Setenv("OPENAI_REASONING_EFFORT", "medium")
	t.Setenv("OPENAI_REQUEST_TIMEOUT", "45s")
	t.Setenv("SERVER_TRANSPORT", "stdio")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "gpt-5", cfg.OpenAI.Model)
	assert.Equal(t, "medium", cfg.OpenAI.ReasoningEffort)
	assert.Equal(t, 45*time.Second, cfg.OpenAI.RequestTimeout)
	assert.Equal(t, "stdio", cfg.Server.Transport)
	assert.Equal(t, slog.LevelDebug, cfg.Log.SlogLevel())
}

func TestLoadConfigFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "server:\n  port: \"9090\"\nopenai:\n  model: gpt-5-mini\n  api_key: sk-file\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "gpt-5-mini", cfg.OpenAI.Model)
	assert.Equal(t, "sk-file", cfg.OpenAI.APIKey)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadConfigValidation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "bad transport", env: map[string]string{"SERVER_TRANSPORT": "grpc"}},
		{name: "bad reasoning effort", env: map[string]string{"OPENAI_REASONING_EFFORT": "extreme"}},
		{name: "negative timeout", env: map[string]string{"OPENAI_REQUEST_TIMEOUT": "-1s"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := LoadConfig("")
			assert.Error(t, err)
		})
	}
}

func TestSlogLevelFallback(t *testing.T) {
	assert.Equal(t, slog.LevelInfo, LogConfig{Level: "verbose"}.SlogLevel())
	assert.Equal(t, slog.LevelWarn, LogConfig{Level: "warn"}.SlogLevel())
}
