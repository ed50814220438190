// Package config holds the demo binary's configuration: a YAML file with
// environment-variable overrides, so credentials never need to live on disk.
package config

import (
	"encoding/hex"
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config is everything the demo binary needs to drive a flow.
type Config struct {
	AppName  string         `yaml:"app_name"`
	Provider ProviderConfig `yaml:"provider"`
	Store    StoreConfig    `yaml:"store"`
}

// ProviderConfig selects and configures the OAuth provider.
type ProviderConfig struct {
	// Preset picks a ready-made provider: github, dribbble, spotify, meetup.
	// Leave empty to use the explicit endpoint fields.
	Preset       string   `yaml:"preset"`
	ClientID     string   `yaml:"client_id"`
	ClientSecret string   `yaml:"client_secret"`
	AuthorizeURL string   `yaml:"authorize_url"`
	TokenURL     string   `yaml:"token_url"`
	RedirectURL  string   `yaml:"redirect_url"`
	Scopes       []string `yaml:"scopes"`

	// CallbackAddr is where the loopback presenter listens. Must match the
	// host and port of RedirectURL.
	CallbackAddr string `yaml:"callback_addr"`
}

// StoreConfig selects the token store backend.
type StoreConfig struct {
	// Backend is one of: memory, file, redis, sqlite.
	Backend string `yaml:"backend"`

	// FilePath and FileKey configure the encrypted file store. FileKey is a
	// hex-encoded 32-byte key.
	FilePath string `yaml:"file_path"`
	FileKey  string `yaml:"file_key"`

	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`

	SQLitePath string `yaml:"sqlite_path"`
}

// Load reads the YAML file at path (skipped when path is empty) and applies
// environment overrides on top.
func Load(path string) (*Config, error) {
	c := &Config{
		AppName: "OAuth Demo",
		Provider: ProviderConfig{
			RedirectURL:  "http://127.0.0.1:8910/oauth/callback",
			CallbackAddr: "127.0.0.1:8910",
		},
		Store: StoreConfig{
			Backend:    "memory",
			SQLitePath: "./tokens.db",
			FilePath:   "./tokens.enc",
			RedisAddr:  "127.0.0.1:6379",
		},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(err, "[config.Load] read file")
		}
		if err := yaml.Unmarshal(data, c); err != nil {
			return nil, errors.Wrap(err, "[config.Load] parse yaml")
		}
	}

	c.applyEnv()
	return c, nil
}

func (c *Config) applyEnv() {
	c.AppName = GetEnv("APP_NAME", c.AppName)
	c.Provider.Preset = GetEnv("OAUTH_PRESET", c.Provider.Preset)
	c.Provider.ClientID = GetEnv("OAUTH_CLIENT_ID", c.Provider.ClientID)
	c.Provider.ClientSecret = GetEnv("OAUTH_CLIENT_SECRET", c.Provider.ClientSecret)
	c.Provider.AuthorizeURL = GetEnv("OAUTH_AUTHORIZE_URL", c.Provider.AuthorizeURL)
	c.Provider.TokenURL = GetEnv("OAUTH_TOKEN_URL", c.Provider.TokenURL)
	c.Provider.RedirectURL = GetEnv("OAUTH_REDIRECT_URL", c.Provider.RedirectURL)
	c.Provider.CallbackAddr = GetEnv("OAUTH_CALLBACK_ADDR", c.Provider.CallbackAddr)
	if scopes := GetEnv("OAUTH_SCOPES", ""); scopes != "" {
		c.Provider.Scopes = strings.Fields(scopes)
	}

	c.Store.Backend = GetEnv("TOKEN_STORE", c.Store.Backend)
	c.Store.FilePath = GetEnv("TOKEN_FILE_PATH", c.Store.FilePath)
	c.Store.FileKey = GetEnv("TOKEN_FILE_KEY", c.Store.FileKey)
	c.Store.RedisAddr = GetEnv("REDIS_ADDR", c.Store.RedisAddr)
	c.Store.RedisPassword = GetEnv("REDIS_PASSWORD", c.Store.RedisPassword)
	c.Store.SQLitePath = GetEnv("SQLITE_PATH", c.Store.SQLitePath)
}

// FileKeyBytes decodes the hex-encoded file store key.
func (s StoreConfig) FileKeyBytes() ([]byte, error) {
	key, err := hex.DecodeString(s.FileKey)
	if err != nil {
		return nil, errors.Wrap(err, "[StoreConfig.FileKeyBytes] decode hex")
	}
	return key, nil
}

// GetEnv returns the environment variable's value, or fallback when unset.
func GetEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
