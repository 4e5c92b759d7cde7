package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	StoreMemory = "memory"
	StoreRedis  = "redis"

	EnvDev = "dev"
	// DefaultSessionSecret is only good enough for local development.
	DefaultSessionSecret = "change-me-in-production"
)

type Config struct {
	App        AppConfig        `toml:"app"`
	Generation GenerationConfig `toml:"generation"`
	Workspace  WorkspaceConfig  `toml:"workspace"`
	Redis      RedisConfig      `toml:"redis"`
	Session    SessionConfig    `toml:"session"`
	Log        LogConfig        `toml:"log"`
}

type AppConfig struct {
	Name    string `toml:"name"`
	Env     string `toml:"env"`
	Host    string `toml:"host"`
	Port    int    `toml:"port"`
	GinMode string `toml:"gin_mode"`
	WebRoot string `toml:"web_root"`
}

// GenerationConfig describes the external text-generation endpoint. APIKey is
// only a server-side fallback; requests normally carry their own key.
type GenerationConfig struct {
	Endpoint       string  `toml:"endpoint"`
	APIVersion     string  `toml:"api_version"`
	APIKey         string  `toml:"api_key"`
	Model          string  `toml:"model"`
	MaxTokens      int     `toml:"max_tokens"`
	Temperature    float64 `toml:"temperature"`
	K              int     `toml:"k"`
	TimeoutSeconds int     `toml:"timeout_seconds"`
}

type WorkspaceConfig struct {
	Store      string `toml:"store"`
	TTLMinutes int    `toml:"ttl_minutes"`
}

type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

type SessionConfig struct {
	Secret       string `toml:"secret"`
	ExpireMinute int    `toml:"expire_minute"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

func Load() (*Config, error) {
	cfg := Default()

	configPath := getEnv("CONFIG_FILE", "configs/config.toml")
	if _, err := os.Stat(configPath); err == nil {
		if _, err := toml.DecodeFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("decode config file failed: %w", err)
		}
	}

	overrideByEnv(cfg)
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) HTTPAddr() string {
	return fmt.Sprintf("%s:%d", c.App.Host, c.App.Port)
}

func (c *Config) GenerationTimeout() time.Duration {
	return time.Duration(c.Generation.TimeoutSeconds) * time.Second
}

func (c *Config) WorkspaceTTL() time.Duration {
	return time.Duration(c.Workspace.TTLMinutes) * time.Minute
}

func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.Session.ExpireMinute) * time.Minute
}

func (c *Config) validate() error {
	switch c.Workspace.Store {
	case StoreMemory, StoreRedis:
	default:
		return fmt.Errorf("unknown workspace store %q", c.Workspace.Store)
	}
	if c.Session.Secret == "" {
		return fmt.Errorf("session secret is empty")
	}
	if c.App.Env != EnvDev && c.Session.Secret == DefaultSessionSecret {
		return fmt.Errorf("session secret must be changed when env is %q", c.App.Env)
	}
	return nil
}

// Default returns the compiled-in configuration before file and env overrides.
func Default() *Config {
	return &Config{
		App: AppConfig{
			Name:    "labsheet",
			Env:     EnvDev,
			Host:    "0.0.0.0",
			Port:    8080,
			GinMode: "debug",
			WebRoot: "web",
		},
		Generation: GenerationConfig{
			Endpoint:       "https://api.cohere.ai/v1/generate",
			APIVersion:     "2022-12-06",
			Model:          "command",
			MaxTokens:      2048,
			Temperature:    0.7,
			K:              0,
			TimeoutSeconds: 120,
		},
		Workspace: WorkspaceConfig{
			Store:      StoreMemory,
			TTLMinutes: 240,
		},
		Redis: RedisConfig{
			Addr: "127.0.0.1:6379",
		},
		Session: SessionConfig{
			Secret:       DefaultSessionSecret,
			ExpireMinute: 240,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

func overrideByEnv(cfg *Config) {
	cfg.App.Name = getEnv("APP_NAME", cfg.App.Name)
	cfg.App.Env = getEnv("APP_ENV", cfg.App.Env)
	cfg.App.Host = getEnv("APP_HOST", cfg.App.Host)
	cfg.App.Port = getEnvAsInt("APP_PORT", cfg.App.Port)
	cfg.App.GinMode = getEnv("GIN_MODE", cfg.App.GinMode)
	cfg.App.WebRoot = getEnv("APP_WEB_ROOT", cfg.App.WebRoot)

	cfg.Generation.Endpoint = getEnv("GENERATION_ENDPOINT", cfg.Generation.Endpoint)
	cfg.Generation.APIKey = getEnv("COHERE_API_KEY", cfg.Generation.APIKey)
	cfg.Generation.Model = getEnv("GENERATION_MODEL", cfg.Generation.Model)
	cfg.Generation.TimeoutSeconds = getEnvAsInt("GENERATION_TIMEOUT_SECONDS", cfg.Generation.TimeoutSeconds)

	cfg.Workspace.Store = getEnv("WORKSPACE_STORE", cfg.Workspace.Store)
	cfg.Workspace.TTLMinutes = getEnvAsInt("WORKSPACE_TTL_MINUTES", cfg.Workspace.TTLMinutes)

	cfg.Redis.Addr = getEnv("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.DB = getEnvAsInt("REDIS_DB", cfg.Redis.DB)

	cfg.Session.Secret = getEnv("SESSION_SECRET", cfg.Session.Secret)
	cfg.Session.ExpireMinute = getEnvAsInt("SESSION_EXPIRE_MINUTE", cfg.Session.ExpireMinute)

	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = getEnv("LOG_FORMAT", cfg.Log.Format)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return parsed
}
