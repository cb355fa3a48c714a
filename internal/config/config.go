package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// EnvPrefix is the prefix of environment variables read by Load.
// Nested keys are separated by a double underscore, e.g. USERPORTAL_DB__DSN.
const EnvPrefix = "USERPORTAL_"

// Config holds application level configuration.
type Config struct {
	Server  ServerConfig  `koanf:"server"`
	DB      DBConfig      `koanf:"db"`
	Redis   RedisConfig   `koanf:"redis"`
	Session SessionConfig `koanf:"session"`
	OAuth   OAuthConfig   `koanf:"oauth"`
	Log     LogConfig     `koanf:"log"`
}

// ServerConfig contains HTTP listener settings.
type ServerConfig struct {
	Port string `koanf:"port"`
}

// DBConfig selects the credential store driver.
type DBConfig struct {
	Driver string `koanf:"driver"` // mysql or sqlite
	DSN    string `koanf:"dsn"`
}

// RedisConfig contains the Redis connection used for sessions and caching.
type RedisConfig struct {
	Addr     string `koanf:"addr"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
}

// SessionConfig controls the session cookie and its backing store.
type SessionConfig struct {
	Store        string        `koanf:"store"` // redis or memory
	Secret       string        `koanf:"secret"`
	TTL          time.Duration `koanf:"ttl"`
	SecureCookie bool          `koanf:"secure_cookie"`
}

// OAuthConfig holds third-party identity provider credentials.
type OAuthConfig struct {
	Google GoogleConfig `koanf:"google"`
}

// GoogleConfig holds Google OAuth client credentials. Google login is
// disabled while ClientID is empty.
type GoogleConfig struct {
	ClientID     string `koanf:"client_id"`
	ClientSecret string `koanf:"client_secret"`
	RedirectURL  string `koanf:"redirect_url"`
}

// Enabled reports whether Google login is configured.
func (g GoogleConfig) Enabled() bool {
	return g.ClientID != ""
}

// LogConfig controls the process logger.
type LogConfig struct {
	Format string `koanf:"format"` // json or text
	Level  string `koanf:"level"`
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"server.port":               "8080",
		"db.driver":                 "mysql",
		"db.dsn":                    "user:password@tcp(localhost:3306)/app?charset=utf8mb4&parseTime=True&loc=Local",
		"redis.addr":                "localhost:6379",
		"redis.password":            "",
		"redis.db":                  0,
		"session.store":             "redis",
		"session.ttl":               "24h",
		"session.secure_cookie":     false,
		"oauth.google.redirect_url": "http://localhost:8080/auth/google/callback",
		"log.format":                "json",
		"log.level":                 "info",
	}
}

// Load builds Config from defaults, an optional YAML file, environment
// variables and command-line flags, later sources overriding earlier ones.
// flags may be nil.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, flagKey(flags)), nil); err != nil {
			return nil, fmt.Errorf("load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

// flagKey maps a flag such as --redis-addr to the key redis.addr. Flags that
// were not set on the command line do not override earlier sources.
func flagKey(fs *pflag.FlagSet) func(f *pflag.Flag) (string, interface{}) {
	return func(f *pflag.Flag) (string, interface{}) {
		if !f.Changed {
			return "", nil
		}
		return strings.Replace(f.Name, "-", ".", 1), posflag.FlagVal(fs, f)
	}
}

// ValidateDB checks the credential store settings.
func (c *Config) ValidateDB() error {
	switch c.DB.Driver {
	case "mysql", "sqlite":
		return nil
	default:
		return fmt.Errorf("unsupported db.driver %q", c.DB.Driver)
	}
}

// Validate checks settings the server cannot run without.
func (c *Config) Validate() error {
	if err := c.ValidateDB(); err != nil {
		return err
	}
	if c.Session.Secret == "" {
		return fmt.Errorf("session.secret is required (set %sSESSION__SECRET)", EnvPrefix)
	}
	switch c.Session.Store {
	case "redis", "memory":
	default:
		return fmt.Errorf("unsupported session.store %q", c.Session.Store)
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("session.ttl must be positive")
	}
	return nil
}
