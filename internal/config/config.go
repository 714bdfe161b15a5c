// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

// DatabaseConfig selects the durable session store. Empty URL keeps
// the in-memory store.
type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type RedisConfig struct {
	URL      string        `yaml:"url"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

type AIConfig struct {
	OpenAIKey    string `yaml:"openai_key"`
	OpenAIURL    string `yaml:"openai_url"`
	GeminiKey    string `yaml:"gemini_key"`
	GeminiURL    string `yaml:"gemini_url"`
	DefaultModel string `yaml:"default_model"`
	MaxTokens    int    `yaml:"max_tokens"`
}

type StorageConfig struct {
	UploadDir   string `yaml:"upload_dir"`
	MaxUploadMB int64  `yaml:"max_upload_mb"`
}

type EngineConfig struct {
	Mode    string        `yaml:"mode"` // local | remote
	BaseURL string        `yaml:"base_url"`
	APIKey  string        `yaml:"api_key"`
	Timeout time.Duration `yaml:"timeout"`
	Workers int           `yaml:"workers"`
}

type ChatConfig struct {
	MessageLimit  int           `yaml:"message_limit"` // per session per window
	MessageWindow time.Duration `yaml:"message_window"`
}

type SecurityConfig struct {
	DownloadSecret string        `yaml:"download_secret"`
	DownloadTTL    time.Duration `yaml:"download_ttl"`
}

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	AI       AIConfig       `yaml:"ai"`
	Storage  StorageConfig  `yaml:"storage"`
	Engine   EngineConfig   `yaml:"engine"`
	Chat     ChatConfig     `yaml:"chat"`
	Security SecurityConfig `yaml:"security"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// defaults
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8000
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.AI.DefaultModel == "" {
		cfg.AI.DefaultModel = "gpt-4o-mini"
	}
	if cfg.AI.MaxTokens <= 0 {
		cfg.AI.MaxTokens = 800
	}
	if cfg.Storage.UploadDir == "" {
		cfg.Storage.UploadDir = "uploads"
	}
	if cfg.Storage.MaxUploadMB <= 0 {
		cfg.Storage.MaxUploadMB = 50
	}
	if cfg.Engine.Mode == "" {
		cfg.Engine.Mode = "local"
	}
	if cfg.Engine.Workers <= 0 {
		cfg.Engine.Workers = 4
	}
	if cfg.Engine.Timeout <= 0 {
		cfg.Engine.Timeout = 2 * time.Minute
	}
	if cfg.Chat.MessageLimit <= 0 {
		cfg.Chat.MessageLimit = 20
	}
	if cfg.Chat.MessageWindow <= 0 {
		cfg.Chat.MessageWindow = time.Minute
	}
	if cfg.Security.DownloadTTL <= 0 {
		cfg.Security.DownloadTTL = time.Hour
	}
	cfg.Redis.TTL = normalizeTTL(cfg.Redis.TTL)

	// Minimal validation
	if cfg.Engine.Mode != "local" && cfg.Engine.Mode != "remote" {
		return nil, fmt.Errorf("engine.mode must be local or remote, got %q", cfg.Engine.Mode)
	}
	if cfg.Engine.Mode == "remote" && cfg.Engine.BaseURL == "" {
		return nil, errors.New("engine.base_url is required for remote mode")
	}
	if cfg.Security.DownloadSecret == "" && !dev {
		return nil, errors.New("security.download_secret is required")
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}

func normalizeTTL(d time.Duration) time.Duration {
	if d <= 0 {
		return time.Hour
	}
	return d
}
