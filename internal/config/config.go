package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server ServerConfig `mapstructure:"server"`
	OpenAI OpenAIConfig `mapstructure:"openai"`
	Log    LogConfig    `mapstructure:"log"`
}

type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	Host         string        `mapstructure:"host"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	// Transport is "http" or "stdio"
	Transport string `mapstructure:"transport"`
}

type OpenAIConfig struct {
	Provider        string `mapstructure:"provider"`
	APIKey          string `mapstructure:"api_key"`
	APIEndpoint     string `mapstructure:"endpoint"`
	Model           string `mapstructure:"model"`
	ReasoningEffort string `mapstructure:"reasoning_effort"`
	APIVersion      string `mapstructure:"api_version"`
	// RequestTimeout of zero leaves the transport default in place
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

var defaults = map[string]any{
	"server.port":             "8000",
	"server.host":             "0.0.0.0",
	"server.read_timeout":     "30s",
	"server.write_timeout":    "10m",
	"server.transport":        "http",
	"openai.provider":         "openai",
	"openai.api_key":          "",
	"openai.endpoint":         "https://api.openai.com/v1",
	"openai.model":            "gpt-5.2",
	"openai.reasoning_effort": "high",
	"openai.api_version":      "2024-12-01-preview",
	"openai.request_timeout":  "0s",
	"log.level":               "info",
	"log.format":              "text",
}

// LoadConfig reads configuration from the environment and, when path is
// non-empty, from a config file. Environment variables take precedence;
// "openai.api_key" is read from OPENAI_API_KEY and so on.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	slog.Info("configuration loaded successfully", "provider", cfg.OpenAI.Provider, "model", cfg.OpenAI.Model)
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Server.Transport {
	case "http", "stdio":
	default:
		return fmt.Errorf("invalid server.transport %q: must be http or stdio", c.Server.Transport)
	}
	switch c.OpenAI.ReasoningEffort {
	case "minimal", "low", "medium", "high":
	default:
		return fmt.Errorf("invalid openai.reasoning_effort %q", c.OpenAI.ReasoningEffort)
	}
	if c.OpenAI.RequestTimeout < 0 {
		return fmt.Errorf("openai.request_timeout cannot be negative")
	}
	return nil
}

// SlogLevel maps the configured level name onto slog; unknown names fall back to info.
func (l LogConfig) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return slog.LevelInfo
	}
	return level
}
