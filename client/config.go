package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/samber/lo"
)

// Config is the client configuration. Environment values seed the flag
// defaults; flags win.
type Config struct {
	Host     string   `envconfig:"CHAT_HOST" default:"localhost" validate:"required"`
	ChatPort int      `envconfig:"CHAT_PORT" default:"3000" validate:"min=1,max=65535"`
	Path     string   `envconfig:"CHAT_PATH" default:"/chat" validate:"required,startswith=/"`
	Author   string   `envconfig:"CHAT_AUTHOR"`
	HTTPPort int      `envconfig:"CHAT_HTTP_PORT" default:"-1" validate:"max=65535"`
	Relays   []string `envconfig:"RELAY" validate:"dive,url"`
	CredKey  string   `envconfig:"CRED_KEY" validate:"omitempty,base64"`
	Name     string   `envconfig:"CHAT_NAME" default:"cbor-chat" validate:"required"`
	LogLevel string   `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=trace debug info warn error disabled"`
}

var validate = validator.New()

// loadEnv reads an optional .env file and the process environment.
func loadEnv() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return defaultConfig(), fmt.Errorf("load .env: %w", err)
	}
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return defaultConfig(), fmt.Errorf("process env: %w", err)
	}
	if cfg.Author == "" {
		cfg.Author = os.Getenv("USER")
	}
	return cfg, nil
}

func defaultConfig() Config {
	return Config{
		Host:     "localhost",
		ChatPort: 3000,
		Path:     "/chat",
		Author:   os.Getenv("USER"),
		HTTPPort: -1,
		Name:     "cbor-chat",
		LogLevel: "info",
	}
}

// Normalize drops blank relay entries and splits comma-joined ones.
func (c *Config) Normalize() {
	var relays []string
	for _, raw := range c.Relays {
		relays = append(relays, strings.Split(raw, ",")...)
	}
	c.Relays = lo.Compact(lo.Map(relays, func(s string, _ int) string { return strings.TrimSpace(s) }))
}

// Validate checks ranges and formats.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
