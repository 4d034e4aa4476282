// Package config loads the YAML configuration shared by the server and the
// desktop client.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	LogLevel string       `yaml:"log_level"`
	Server   ServerConfig `yaml:"server"`
	Client   ClientConfig `yaml:"client"`
}

type ServerConfig struct {
	Listen         string   `yaml:"listen"`
	DBPath         string   `yaml:"db_path"`
	JWTSecret      string   `yaml:"jwt_secret"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	MDNS           bool     `yaml:"mdns"`
	Outbox         int      `yaml:"outbox"`
}

type ClientConfig struct {
	Server string `yaml:"server"`
	Room   string `yaml:"room"`
	Token  string `yaml:"token"`
	// WheelScale converts one unit of UI scroll into wheel delta units.
	WheelScale float64       `yaml:"wheel_scale"`
	Discover   time.Duration `yaml:"discover_timeout"`
}

func Default() *Config {
	return &Config{
		LogLevel: "info",
		Server: ServerConfig{
			Listen: ":8080",
			DBPath: "data/roomboard.db",
			Outbox: 64,
		},
		Client: ClientConfig{
			Server:     "http://localhost:8080",
			WheelScale: 10,
			Discover:   3 * time.Second,
		},
	}
}

// Load reads path over the defaults, then applies ROOMBOARD_* environment
// overrides. An empty path uses defaults and environment only.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	set := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	set("ROOMBOARD_LOG_LEVEL", &c.LogLevel)
	set("ROOMBOARD_LISTEN", &c.Server.Listen)
	set("ROOMBOARD_DB", &c.Server.DBPath)
	set("ROOMBOARD_JWT_SECRET", &c.Server.JWTSecret)
	set("ROOMBOARD_SERVER", &c.Client.Server)
	set("ROOMBOARD_ROOM", &c.Client.Room)
	set("ROOMBOARD_TOKEN", &c.Client.Token)
}

// ValidateServer checks the settings `serve` needs.
func (c *Config) ValidateServer() error {
	var errs []error
	if c.Server.Listen == "" {
		errs = append(errs, errors.New("server.listen is required"))
	}
	if c.Server.DBPath == "" {
		errs = append(errs, errors.New("server.db_path is required"))
	}
	if len(c.Server.JWTSecret) < 16 {
		errs = append(errs, errors.New("server.jwt_secret must be at least 16 bytes"))
	}
	if c.Server.Outbox <= 0 {
		errs = append(errs, errors.New("server.outbox must be > 0"))
	}
	return errors.Join(errs...)
}

// ValidateClient checks the settings `client` needs.
func (c *Config) ValidateClient() error {
	var errs []error
	if c.Client.Room == "" {
		errs = append(errs, errors.New("client.room is required"))
	}
	if c.Client.Token == "" {
		errs = append(errs, errors.New("client.token is required"))
	}
	if c.Client.WheelScale <= 0 {
		errs = append(errs, errors.New("client.wheel_scale must be > 0"))
	}
	return errors.Join(errs...)
}

// Level maps log_level to a slog level, defaulting to info.
func (c *Config) Level() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// NewLogger builds the process logger: JSON for the server, text for the
// desktop client.
func NewLogger(w io.Writer, level slog.Level, json bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if json {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
