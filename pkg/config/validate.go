package config

import (
	"github.com/charmbracelet/log"

	"github.com/matzehuels/fontastic/pkg/errors"
)

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.AI.Model == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "ai.model is required")
	}
	if err := errors.ValidateURL(c.AI.BaseURL); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "ai.base_url")
	}
	if c.AI.Timeout.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "ai.timeout cannot be negative")
	}

	ex := c.Export
	if ex.Padding < 0 || ex.MinWidth < 0 || ex.MinHeight < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "export padding and minimum sizes cannot be negative")
	}
	if ex.Scale <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "export.scale must be positive")
	}
	if ex.DecodeTimeout.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "export.decode_timeout cannot be negative")
	}
	switch ex.Rasterizer {
	case RasterizerCanvas, RasterizerRSVG:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "export.rasterizer must be %q or %q, got %q", RasterizerCanvas, RasterizerRSVG, ex.Rasterizer)
	}

	if c.Server.Addr == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "server.addr is required")
	}

	switch c.Cache.Backend {
	case BackendNone, BackendFile:
	case BackendRedis:
		if c.Cache.RedisAddr == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache.redis_addr is required for the redis backend")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache.backend %q", c.Cache.Backend)
	}

	switch c.Session.Backend {
	case BackendFile, BackendMemory:
	case BackendRedis:
		if c.Session.RedisAddr == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "session.redis_addr is required for the redis backend")
		}
	case BackendMongo:
		if c.Session.MongoURI == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "session.mongo_uri is required for the mongo backend")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown session.backend %q", c.Session.Backend)
	}

	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "log.level")
	}
	return nil
}

// LogLevel returns the configured log level, info when unparsable.
func (c *Config) LogLevel() log.Level {
	lvl, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}
