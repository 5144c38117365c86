// Package config loads and exposes application configuration (TOML).
package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Default configuration values used when a field is missing in TOML.
const (
	DefaultConfigPath  = "config.toml"
	DefaultHTTPAddr    = ":8080"
	DefaultPGHost      = "127.0.0.1"
	DefaultPGPort      = 5432
	DefaultPGUser      = "postgres"
	DefaultPGDatabase  = "cobranza"
	DefaultPGSSLMode   = "disable"
	DefaultLinkBaseURL = "http://127.0.0.1:8080"
	DefaultLinkTTL     = "720h"
)

// Config is the root application configuration loaded from TOML.
type Config struct {
	Log      LogConfig      `toml:"log"`
	Server   ServerConfig   `toml:"server"`
	Auth     AuthConfig     `toml:"auth"`
	Postgres PostgresConfig `toml:"postgres"`
	Links    LinksConfig    `toml:"links"`
}

// LogConfig holds logging level and format (e.g. level=info, format=text).
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// ServerConfig holds the HTTP server listen address.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// AuthConfig holds the secret used to verify access tokens issued by the
// identity provider (Supabase signs access tokens with the project JWT
// secret, HS256).
type AuthConfig struct {
	JWTSecret string `toml:"jwt_secret"`
}

// PostgresConfig holds PostgreSQL connection parameters.
type PostgresConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	Database string `toml:"database"`
	SSLMode  string `toml:"sslmode"`
}

// LinksConfig holds personal-link issuance settings: the public base URL the
// link is built on and how long an issued token stays valid.
type LinksConfig struct {
	BaseURL string `toml:"base_url"`
	TTL     string `toml:"ttl"`
}

// TokenTTL parses the configured link TTL, falling back to the default when
// the value is missing or malformed.
func (c LinksConfig) TokenTTL() time.Duration {
	if d, err := time.ParseDuration(c.TTL); err == nil && d > 0 {
		return d
	}
	d, _ := time.ParseDuration(DefaultLinkTTL)
	return d
}

// Load reads and parses the TOML config file at path and applies default
// values for missing fields. A missing file is not an error; defaults apply.
func Load(path string) (Config, error) {
	cfg := Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Server: ServerConfig{
			Addr: DefaultHTTPAddr,
		},
		Postgres: PostgresConfig{
			Host:     DefaultPGHost,
			Port:     DefaultPGPort,
			User:     DefaultPGUser,
			Database: DefaultPGDatabase,
			SSLMode:  DefaultPGSSLMode,
		},
		Links: LinksConfig{
			BaseURL: DefaultLinkBaseURL,
			TTL:     DefaultLinkTTL,
		},
	}

	if path == "" {
		path = DefaultConfigPath
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}
