// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type BotConfig struct {
	Token         string `yaml:"token"`
	SigningSecret string `yaml:"signing_secret"`
	APIURL        string `yaml:"api_url"`       // override for tests / proxies
	EventWorkers  int    `yaml:"event_workers"` // 0 = handle events inline
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type ServerConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	EventsPath      string        `yaml:"events_path"`
	InteractivePath string        `yaml:"interactive_path"`
	RequestTimeout  time.Duration `yaml:"request_timeout"`
}

type StoreConfig struct {
	Driver          string `yaml:"driver"` // file | redis | postgres
	PreferencesFile string `yaml:"preferences_file"`
}

type RedisConfig struct {
	URL      string `yaml:"url"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Key      string `yaml:"key"`
}

type DatabaseConfig struct {
	URL      string `yaml:"url"`
	MaxConns int32  `yaml:"max_conns"`
}

type AIConfig struct {
	Provider        string        `yaml:"provider"` // gemini | openai | noop
	GeminiKey       string        `yaml:"gemini_key"`
	GeminiURL       string        `yaml:"gemini_url"`
	OpenAIKey       string        `yaml:"openai_key"`
	OpenAIBaseURL   string        `yaml:"openai_base_url"`
	DefaultModel    string        `yaml:"default_model"`
	ConcurrentLimit int           `yaml:"concurrent_limit"` // max concurrent AI calls
	Timeout         time.Duration `yaml:"timeout"`
}

type TranslateConfig struct {
	ChannelMembersOnly bool `yaml:"channel_members_only"`
	DedupeByLanguage   bool `yaml:"dedupe_by_language"`
}

type I18nConfig struct {
	Locale string `yaml:"locale"`
}

type Config struct {
	Bot       BotConfig       `yaml:"bot"`
	Log       LogConfig       `yaml:"log"`
	Server    ServerConfig    `yaml:"server"`
	Store     StoreConfig     `yaml:"store"`
	Redis     RedisConfig     `yaml:"redis"`
	Database  DatabaseConfig  `yaml:"database"`
	AI        AIConfig        `yaml:"ai"`
	Translate TranslateConfig `yaml:"translate"`
	I18n      I18nConfig      `yaml:"i18n"`

	Runtime RuntimeConfig `yaml:"-"`
}

// envOverrides lists the process environment that wins over the YAML file.
// Unset variables leave the file value alone.
type envOverrides struct {
	SlackToken      string `envconfig:"SLACK_TOKEN"`
	SigningSecret   string `envconfig:"SIGNING_SECRET"`
	GoogleAPIKey    string `envconfig:"GOOGLE_API_KEY"`
	OpenAIKey       string `envconfig:"OPENAI_API_KEY"`
	Port            int    `envconfig:"PORT"`
	PreferencesFile string `envconfig:"PREFERENCES_FILE"`
	StoreDriver     string `envconfig:"STORE_DRIVER"`
	RedisURL        string `envconfig:"REDIS_URL"`
	DatabaseURL     string `envconfig:"DATABASE_URL"`
	LogLevel        string `envconfig:"LOG_LEVEL"`
}

// LoadConfig reads the YAML file at path (a missing file is not an error),
// overlays the environment, applies defaults and validates.
func LoadConfig(path string, dev bool) (*Config, error) {
	var cfg Config
	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(b, &cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var env envOverrides
	if err := envconfig.Process("", &env); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}
	applyEnv(&cfg, env, os.Getenv(legacyGoogleKeyEnv))
	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.Runtime.Dev = dev
	return &cfg, nil
}

// envconfig upper-cases keys, so the mixed-case legacy name is read directly.
const legacyGoogleKeyEnv = "Google_API_KEY"

func applyEnv(cfg *Config, env envOverrides, legacyGoogleKey string) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&cfg.Bot.Token, env.SlackToken)
	set(&cfg.Bot.SigningSecret, env.SigningSecret)
	set(&cfg.AI.GeminiKey, legacyGoogleKey)
	set(&cfg.AI.GeminiKey, env.GoogleAPIKey)
	set(&cfg.AI.OpenAIKey, env.OpenAIKey)
	set(&cfg.Store.PreferencesFile, env.PreferencesFile)
	set(&cfg.Store.Driver, env.StoreDriver)
	set(&cfg.Redis.URL, env.RedisURL)
	set(&cfg.Database.URL, env.DatabaseURL)
	set(&cfg.Log.Level, env.LogLevel)
	if env.Port > 0 {
		cfg.Server.Port = env.Port
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 1000
	}
	if cfg.Server.EventsPath == "" {
		cfg.Server.EventsPath = "/slack/events"
	}
	if cfg.Server.InteractivePath == "" {
		cfg.Server.InteractivePath = "/slack/interactive"
	}
	if cfg.Server.RequestTimeout <= 0 {
		cfg.Server.RequestTimeout = 2 * time.Minute
	}
	cfg.Store.Driver = strings.ToLower(strings.TrimSpace(cfg.Store.Driver))
	if cfg.Store.Driver == "" {
		cfg.Store.Driver = "file"
	}
	if cfg.Store.PreferencesFile == "" {
		cfg.Store.PreferencesFile = "user_preferences.json"
	}
	if cfg.Redis.Key == "" {
		cfg.Redis.Key = "user_preferences"
	}
	if cfg.Database.MaxConns <= 0 {
		cfg.Database.MaxConns = 4
	}
	cfg.AI.Provider = strings.ToLower(strings.TrimSpace(cfg.AI.Provider))
	if cfg.AI.Provider == "" {
		if cfg.AI.GeminiKey == "" && cfg.AI.OpenAIKey != "" {
			cfg.AI.Provider = "openai"
		} else {
			cfg.AI.Provider = "gemini"
		}
	}
	if cfg.AI.DefaultModel == "" {
		if cfg.AI.Provider == "openai" {
			cfg.AI.DefaultModel = "gpt-4o-mini"
		} else {
			cfg.AI.DefaultModel = "gemini-2.0-flash"
		}
	}
	if cfg.AI.ConcurrentLimit <= 0 {
		cfg.AI.ConcurrentLimit = 16
	}
	if cfg.AI.Timeout <= 0 {
		cfg.AI.Timeout = 30 * time.Second
	}
	if cfg.I18n.Locale == "" {
		cfg.I18n.Locale = "en"
	}
}

// Validate checks the secrets and driver settings needed to start.
func (c *Config) Validate() error {
	if c.Bot.Token == "" {
		return errors.New("bot.token (SLACK_TOKEN) is required")
	}
	if c.Bot.SigningSecret == "" {
		return errors.New("bot.signing_secret (SIGNING_SECRET) is required")
	}
	switch c.AI.Provider {
	case "gemini":
		if c.AI.GeminiKey == "" {
			return errors.New("ai.gemini_key (GOOGLE_API_KEY) is required")
		}
	case "openai":
		if c.AI.OpenAIKey == "" {
			return errors.New("ai.openai_key (OPENAI_API_KEY) is required")
		}
	case "noop":
	default:
		return fmt.Errorf("unknown ai.provider %q", c.AI.Provider)
	}
	switch c.Store.Driver {
	case "file":
	case "redis":
		if c.Redis.URL == "" {
			return errors.New("redis.url is required for store.driver=redis")
		}
	case "postgres":
		if c.Database.URL == "" {
			return errors.New("database.url is required for store.driver=postgres")
		}
	default:
		return fmt.Errorf("unknown store.driver %q", c.Store.Driver)
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
