package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/matzehuels/fontastic/pkg/errors"
)

// LoadOptions selects the files [Load] reads.
type LoadOptions struct {
	// Path is the TOML file. Empty means DefaultPath, which may be missing;
	// an explicit path must exist.
	Path string

	// EnvFile is the dotenv file. Empty means ".env"; a missing file is
	// ignored.
	EnvFile string
}

// Load builds the configuration from defaults, the TOML file, the dotenv
// file and the environment, then validates it.
func Load(opts LoadOptions) (*Config, error) {
	cfg := Default()

	path, explicit := opts.Path, opts.Path != ""
	if !explicit {
		p, err := DefaultPath()
		if err == nil {
			path = p
		}
	}
	if path != "" {
		if err := cfg.readFile(path, explicit); err != nil {
			return nil, err
		}
	}

	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	// Existing variables win over the dotenv file.
	if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", envFile)
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) readFile(path string, required bool) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) && !required {
			return nil
		}
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	md, err := toml.DecodeFile(path, c)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "unknown config key %q in %s", undecoded[0].String(), path)
	}
	c.Path = path
	return nil
}

// lookupFunc matches os.LookupEnv.
type lookupFunc func(key string) (string, bool)

// applyEnv overrides settings from environment variables.
func (c *Config) applyEnv(lookup lookupFunc) error {
	env := envReader{lookup: lookup}

	// The first key that is set wins.
	for _, key := range []string{"FONTASTIC_AI_API_KEY", "GEMINI_API_KEY", "GOOGLE_API_KEY"} {
		if v, ok := lookup(key); ok && v != "" {
			c.AI.APIKey = v
			break
		}
	}
	env.str("FONTASTIC_AI_MODEL", &c.AI.Model)
	env.str("FONTASTIC_AI_BASE_URL", &c.AI.BaseURL)
	env.duration("FONTASTIC_AI_TIMEOUT", &c.AI.Timeout)

	env.float("FONTASTIC_EXPORT_PADDING", &c.Export.Padding)
	env.float("FONTASTIC_EXPORT_SCALE", &c.Export.Scale)
	env.str("FONTASTIC_EXPORT_FILL", &c.Export.Fill)
	env.str("FONTASTIC_EXPORT_FONT_PATH", &c.Export.FontPath)
	env.str("FONTASTIC_EXPORT_RASTERIZER", &c.Export.Rasterizer)
	env.str("FONTASTIC_EXPORT_RSVG_COMMAND", &c.Export.RSVGCommand)
	env.duration("FONTASTIC_EXPORT_DECODE_TIMEOUT", &c.Export.DecodeTimeout)

	env.str("FONTASTIC_SERVER_ADDR", &c.Server.Addr)
	env.boolean("FONTASTIC_SERVER_SECURE_COOKIE", &c.Server.SecureCookie)

	env.str("FONTASTIC_CACHE_BACKEND", &c.Cache.Backend)
	env.str("FONTASTIC_CACHE_DIR", &c.Cache.Dir)
	env.str("FONTASTIC_CACHE_REDIS_ADDR", &c.Cache.RedisAddr)
	env.duration("FONTASTIC_CACHE_TTL", &c.Cache.TTL)

	env.str("FONTASTIC_SESSION_BACKEND", &c.Session.Backend)
	env.str("FONTASTIC_SESSION_DIR", &c.Session.Dir)
	env.str("FONTASTIC_SESSION_REDIS_ADDR", &c.Session.RedisAddr)
	env.str("FONTASTIC_SESSION_MONGO_URI", &c.Session.MongoURI)
	env.str("FONTASTIC_SESSION_MONGO_DATABASE", &c.Session.MongoDatabase)
	env.duration("FONTASTIC_SESSION_TTL", &c.Session.TTL)

	env.str("FONTASTIC_LOG_LEVEL", &c.Log.Level)

	return env.err
}

// envReader applies variables and keeps the first parse error.
type envReader struct {
	lookup lookupFunc
	err    error
}

func (r *envReader) get(key string) (string, bool) {
	v, ok := r.lookup(key)
	return v, ok && v != ""
}

func (r *envReader) fail(key, value string, err error) {
	if r.err == nil {
		r.err = errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid %s=%q", key, value)
	}
}

func (r *envReader) str(key string, dst *string) {
	if v, ok := r.get(key); ok {
		*dst = v
	}
}

func (r *envReader) float(key string, dst *float64) {
	if v, ok := r.get(key); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			r.fail(key, v, err)
			return
		}
		*dst = f
	}
}

func (r *envReader) boolean(key string, dst *bool) {
	if v, ok := r.get(key); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			r.fail(key, v, err)
			return
		}
		*dst = b
	}
}

func (r *envReader) duration(key string, dst *Duration) {
	if v, ok := r.get(key); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			r.fail(key, v, fmt.Errorf("want a duration such as 30s: %w", err))
			return
		}
		dst.Duration = d
	}
}
