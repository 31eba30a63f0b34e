package main

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

// unsetEnv clears the config variables for the duration of the test.
func unsetEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"CHAT_HOST", "CHAT_PORT", "CHAT_PATH", "CHAT_AUTHOR", "CHAT_HTTP_PORT", "RELAY", "CRED_KEY", "CHAT_NAME", "LOG_LEVEL"} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoadEnv_Defaults(t *testing.T) {
	req := require.New(t)
	unsetEnv(t)
	t.Setenv("USER", "alice")

	cfg, err := loadEnv()

	req.NoError(err)
	req.Equal("localhost", cfg.Host)
	req.Equal(3000, cfg.ChatPort)
	req.Equal("/chat", cfg.Path)
	req.Equal("alice", cfg.Author)
	req.Equal(-1, cfg.HTTPPort)
	req.Equal("info", cfg.LogLevel)
	req.NoError(cfg.Validate())
}

func TestLoadEnv_Overrides(t *testing.T) {
	req := require.New(t)
	unsetEnv(t)
	t.Setenv("CHAT_HOST", "chat.example.org")
	t.Setenv("CHAT_PORT", "4000")
	t.Setenv("CHAT_AUTHOR", "bob")
	t.Setenv("RELAY", "wss://relay.one/relay, ,wss://relay.two/relay")

	cfg, err := loadEnv()
	req.NoError(err)
	cfg.Normalize()

	req.Equal("chat.example.org", cfg.Host)
	req.Equal(4000, cfg.ChatPort)
	req.Equal("bob", cfg.Author)
	req.Equal([]string{"wss://relay.one/relay", "wss://relay.two/relay"}, cfg.Relays)
	req.NoError(cfg.Validate())
}

func TestLoadEnv_Bad_Number_Falls_Back(t *testing.T) {
	req := require.New(t)
	unsetEnv(t)
	t.Setenv("CHAT_PORT", "not-a-port")

	cfg, err := loadEnv()

	req.Error(err)
	req.Equal(defaultConfig(), cfg)
}

func TestConfig_Validate(t *testing.T) {
	cases := map[string]func(*Config){
		"port zero":      func(c *Config) { c.ChatPort = 0 },
		"port too large": func(c *Config) { c.ChatPort = 70000 },
		"relative path":  func(c *Config) { c.Path = "chat" },
		"empty host":     func(c *Config) { c.Host = "" },
		"http port":      func(c *Config) { c.HTTPPort = 70000 },
		"cred key":       func(c *Config) { c.CredKey = "not base64!" },
		"log level":      func(c *Config) { c.LogLevel = "verbose" },
		"relay url":      func(c *Config) { c.Relays = []string{"not a url"} },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := defaultConfig()
			mutate(&cfg)
			require.Error(t, cfg.Validate())
		})
	}
}

func TestConfig_Validate_Any_Negative_Port_Disables(t *testing.T) {
	req := require.New(t)
	cfg := defaultConfig()

	for _, port := range []int{-1, -2, -100} {
		cfg.HTTPPort = port
		req.NoError(cfg.Validate())
	}
}
