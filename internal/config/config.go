// Package config loads process configuration from the environment.
// A .env file is honored when present (godotenv in cmd/main.go); parsing
// into the struct is done with caarlos0/env.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds everything the bot needs at startup. BotToken,
// SourceChatID and TargetChatID have no sane defaults; missing any of
// them is a fatal startup error.
type Config struct {
	BotToken     string `env:"BOT_TOKEN"`
	SourceChatID int64  `env:"SOURCE_CHAT_ID"`
	TargetChatID int64  `env:"TARGET_CHAT_ID"`

	DBPath   string `env:"DB_PATH" envDefault:"./data/messages.db"`
	Language string `env:"BOT_LANGUAGE" envDefault:"zh"`

	// LocalePath optionally points at a directory of <lang>.json
	// translation files overriding the ones compiled into the binary.
	// Empty means the embedded translations are used, so the binary runs
	// from any working directory.
	LocalePath string `env:"LOCALE_PATH"`

	// HTTPAddr is the listen address for the health/stats endpoints.
	// Empty disables the HTTP server. No envDefault tag: caarlos0/env
	// applies defaults to empty-but-set variables too, which would make
	// HTTP_ADDR="" spring back to :8080; the default is applied in Load
	// only when the variable is absent.
	HTTPAddr string `env:"HTTP_ADDR"`

	// DedupeMessages makes the pipeline skip events whose (chat_id,
	// message_id) pair already has a record. Off by default: every
	// observed event is appended, duplicates included.
	DedupeMessages bool `env:"DEDUPE_MESSAGES" envDefault:"false"`

	// ForwardRetries is the number of forward attempts per message.
	// The default of 1 means a single attempt and no retry.
	ForwardRetries      int           `env:"FORWARD_RETRIES" envDefault:"1"`
	ForwardRetryBackoff time.Duration `env:"FORWARD_RETRY_BACKOFF" envDefault:"2s"`
}

// Load parses the environment into a Config and validates required fields.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if _, set := os.LookupEnv("HTTP_ADDR"); !set {
		cfg.HTTPAddr = ":8080"
	}

	if cfg.BotToken == "" {
		return nil, fmt.Errorf("BOT_TOKEN is required")
	}
	if cfg.SourceChatID == 0 || cfg.TargetChatID == 0 {
		return nil, fmt.Errorf("SOURCE_CHAT_ID and TARGET_CHAT_ID are required")
	}
	if cfg.ForwardRetries < 1 {
		cfg.ForwardRetries = 1
	}
	return cfg, nil
}
