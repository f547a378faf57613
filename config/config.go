package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

// Config holds all configuration for the bot
type Config struct {
	Telegram  TelegramConfig
	Server    ServerConfig
	Logging   LoggingConfig
	Translate TranslateConfig
	Session   SessionConfig
}

// TelegramConfig holds Telegram bot configuration
type TelegramConfig struct {
	BotToken string
}

// ServerConfig holds the health endpoint and keep-alive ping configuration
type ServerConfig struct {
	Port         string
	PingURL      string
	PingInterval time.Duration
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string
}

// TranslateConfig holds caption translation configuration
type TranslateConfig struct {
	TargetLang string
}

// SessionConfig holds interactive session cache configuration
type SessionConfig struct {
	TTL        time.Duration
	MaxEntries int
}

// Result provides config parts for fx dependency injection using fx.Out pattern
type Result struct {
	fx.Out

	Config    *Config
	Telegram  *TelegramConfig
	Server    *ServerConfig
	Logging   *LoggingConfig
	Translate *TranslateConfig
	Session   *SessionConfig
}

// Out loads configuration and returns Result for fx injection
func Out() (Result, error) {
	cfg, err := Load()
	if err != nil {
		return Result{}, err
	}

	return Result{
		Config:    cfg,
		Telegram:  &cfg.Telegram,
		Server:    &cfg.Server,
		Logging:   &cfg.Logging,
		Translate: &cfg.Translate,
		Session:   &cfg.Session,
	}, nil
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	cfg := &Config{
		Telegram: TelegramConfig{
			BotToken: getEnv("BOT_TOKEN", ""),
		},
		Server: ServerConfig{
			Port:         getEnv("PORT", "20000"),
			PingURL:      getEnv("PING_URL", ""),
			PingInterval: getEnvDuration("PING_INTERVAL", 10*time.Minute),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Translate: TranslateConfig{
			TargetLang: getEnv("TARGET_LANG", "uk"),
		},
		Session: SessionConfig{
			TTL:        getEnvDuration("SESSION_TTL", 3*time.Hour),
			MaxEntries: getEnvInt("SESSION_MAX_ENTRIES", 512),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("BOT_TOKEN is required")
	}

	if c.Session.MaxEntries <= 0 {
		return fmt.Errorf("SESSION_MAX_ENTRIES must be positive")
	}

	return nil
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvDuration gets a duration environment variable with default value
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}

// getEnvInt gets an integer environment variable with default value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}
