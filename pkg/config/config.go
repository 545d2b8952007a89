// Package config loads fontastic settings.
//
// Settings are layered, each layer overriding the previous one:
//
//  1. Built-in defaults ([Default])
//  2. A TOML file, by default $XDG_CONFIG_HOME/fontastic/config.toml
//  3. A .env file in the working directory, if present
//  4. Environment variables (FONTASTIC_*, plus GEMINI_API_KEY and
//     GOOGLE_API_KEY for the AI key)
//
// The result is checked with [Config.Validate].
//
// Example config.toml:
//
//	[ai]
//	model = "gemini-2.0-flash"
//	timeout = "30s"
//
//	[export]
//	rasterizer = "rsvg"
//
//	[cache]
//	backend = "file"
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/matzehuels/fontastic/pkg/errors"
)

// appName is the directory name used under the XDG base directories.
const appName = "fontastic"

// Backend names.
const (
	RasterizerCanvas = "canvas"
	RasterizerRSVG   = "rsvg"

	BackendNone   = "none"
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

// Config is the complete application configuration.
type Config struct {
	AI      AIConfig      `toml:"ai"`
	Export  ExportConfig  `toml:"export"`
	Server  ServerConfig  `toml:"server"`
	Cache   CacheConfig   `toml:"cache"`
	Session SessionConfig `toml:"session"`
	Log     LogConfig     `toml:"log"`

	// Path is the config file that was read, empty when none was.
	Path string `toml:"-"`
}

// AIConfig configures the suggestion backend.
type AIConfig struct {
	Model   string   `toml:"model"`
	BaseURL string   `toml:"base_url"`
	APIKey  string   `toml:"api_key"`
	Timeout Duration `toml:"timeout"`
}

// ExportConfig configures SVG synthesis and PNG rasterization.
type ExportConfig struct {
	Padding       float64  `toml:"padding"`
	MinWidth      float64  `toml:"min_width"`
	MinHeight     float64  `toml:"min_height"`
	Scale         float64  `toml:"scale"`
	Fill          string   `toml:"fill"`
	FontWeight    string   `toml:"font_weight"`
	FontPath      string   `toml:"font_path"`
	Rasterizer    string   `toml:"rasterizer"`
	RSVGCommand   string   `toml:"rsvg_command"`
	DecodeTimeout Duration `toml:"decode_timeout"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr         string `toml:"addr"`
	SecureCookie bool   `toml:"secure_cookie"`
}

// CacheConfig configures the suggestion cache.
type CacheConfig struct {
	Backend   string   `toml:"backend"`
	Dir       string   `toml:"dir"`
	RedisAddr string   `toml:"redis_addr"`
	Prefix    string   `toml:"prefix"`
	TTL       Duration `toml:"ttl"`
}

// SessionConfig configures design-state persistence.
type SessionConfig struct {
	Backend       string   `toml:"backend"`
	Dir           string   `toml:"dir"`
	RedisAddr     string   `toml:"redis_addr"`
	MongoURI      string   `toml:"mongo_uri"`
	MongoDatabase string   `toml:"mongo_database"`
	TTL           Duration `toml:"ttl"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level string `toml:"level"`
}

// Duration is a time.Duration written as a Go duration string ("30s").
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		AI: AIConfig{
			Model:   "gemini-2.0-flash",
			BaseURL: "https://generativelanguage.googleapis.com",
			Timeout: Duration{60 * time.Second},
		},
		Export: ExportConfig{
			Padding:     20,
			MinWidth:    100,
			MinHeight:   50,
			Scale:       2,
			Fill:        "rgb(10, 10, 10)",
			FontWeight:  "500",
			Rasterizer:  RasterizerCanvas,
			RSVGCommand: "rsvg-convert",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Cache: CacheConfig{
			Backend: BackendNone,
			Prefix:  "fontastic:",
			TTL:     Duration{24 * time.Hour},
		},
		Session: SessionConfig{
			Backend:       BackendFile,
			MongoDatabase: "fontastic",
			TTL:           Duration{30 * 24 * time.Hour},
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/fontastic/config.toml, falling back
// to ~/.config.
func DefaultPath() (string, error) {
	dir, err := configHome()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appName, "config.toml"), nil
}

// CacheDir returns the configured cache directory, or the XDG default
// (~/.cache/fontastic/).
func (c *Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

func configHome() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidConfig, err, "locate home directory")
	}
	return filepath.Join(home, ".config"), nil
}
