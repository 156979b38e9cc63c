package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

var (
	ErrEmptyBotToken = errors.New("telegram bot token is required")
	ErrBadPublicURL  = errors.New("public url must start with https://")
)

type Config struct {
	App     AppConfig     `yaml:"app"`
	Bot     BotConfig     `yaml:"bot"`
	Server  ServerConfig  `yaml:"server"`
	Sources SourcesConfig `yaml:"sources"`
	NATS    NATSConfig    `yaml:"nats"`
}

type AppConfig struct {
	Name        string `yaml:"name" env:"APP_NAME" env-default:"dadjoke-bot"`
	Environment string `yaml:"environment" env:"APP_ENVIRONMENT" env-default:"production"`
	LogLevel    string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
}

type BotConfig struct {
	Token              string        `yaml:"token" env:"TELEGRAM_BOT_TOKEN"`
	PublicURL          string        `yaml:"public_url" env:"PUBLIC_URL,RENDER_EXTERNAL_URL"`
	WebhookSecret      string        `yaml:"webhook_secret" env:"WEBHOOK_SECRET"`
	PollTimeout        time.Duration `yaml:"poll_timeout" env:"POLL_TIMEOUT" env-default:"10s"`
	InlineCacheSeconds int           `yaml:"inline_cache_seconds" env:"INLINE_CACHE_SECONDS" env-default:"1"`
}

// UseWebhook reports whether updates arrive by webhook instead of long polling.
func (b BotConfig) UseWebhook() bool {
	return b.PublicURL != ""
}

func (b BotConfig) WebhookURL() string {
	return strings.TrimRight(b.PublicURL, "/") + WebhookPath
}

const (
	WebhookPath = "/telegram"
	HealthPath  = "/healthcheck"
	MetricsPath = "/metrics"
)

type ServerConfig struct {
	Port            int           `yaml:"port" env:"PORT" env-default:"8000"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT" env-default:"10s"`
}

func (s ServerConfig) Addr() string {
	return fmt.Sprintf(":%d", s.Port)
}

type SourcesConfig struct {
	Timeout   time.Duration `yaml:"timeout" env:"FETCH_TIMEOUT" env-default:"10s"`
	UserAgent string        `yaml:"user_agent" env:"USER_AGENT" env-default:"Telegram Dad Joke Bot (https://t.me/dadjokezbot)"`
	JokeURL   string        `yaml:"joke_url" env:"JOKE_URL" env-default:"https://icanhazdadjoke.com/"`
	AdviceURL string        `yaml:"advice_url" env:"ADVICE_URL" env-default:"https://api.adviceslip.com/advice"`
	FactURL   string        `yaml:"fact_url" env:"FACT_URL" env-default:"https://uselessfacts.jsph.pl/api/v2/facts/random?language=en"`
}

type NATSConfig struct {
	Enabled    bool   `yaml:"enabled" env:"NATS_ENABLED" env-default:"false"`
	URL        string `yaml:"url" env:"NATS_URL" env-default:"nats://localhost:4222"`
	StreamName string `yaml:"stream_name" env:"NATS_STREAM" env-default:"DADJOKE"`
}

// Load reads an optional .env file, then the YAML file at CONFIG_PATH if set,
// and finally applies the process environment on top.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	var cfg Config

	if configPath := os.Getenv("CONFIG_PATH"); configPath != "" {
		if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config from %s: %w", configPath, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Bot.Token == "" {
		return ErrEmptyBotToken
	}
	if c.Bot.PublicURL != "" && !strings.HasPrefix(c.Bot.PublicURL, "https://") {
		return fmt.Errorf("%w: %q", ErrBadPublicURL, c.Bot.PublicURL)
	}
	return nil
}
