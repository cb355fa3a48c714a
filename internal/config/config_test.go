package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "mysql", cfg.DB.Driver)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, "redis", cfg.Session.Store)
	assert.Equal(t, 24*time.Hour, cfg.Session.TTL)
	assert.False(t, cfg.OAuth.Google.Enabled())
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: "9000"
session:
  secret: from-file
  ttl: 1h
oauth:
  google:
    client_id: abc
`), 0o600))

	t.Setenv("USERPORTAL_SESSION__SECRET", "from-env")
	t.Setenv("USERPORTAL_DB__DRIVER", "sqlite")

	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "from-env", cfg.Session.Secret)
	assert.Equal(t, "sqlite", cfg.DB.Driver)
	assert.Equal(t, time.Hour, cfg.Session.TTL)
	assert.True(t, cfg.OAuth.Google.Enabled())
}

func TestLoad_FlagsOverrideEnv(t *testing.T) {
	t.Setenv("USERPORTAL_SERVER__PORT", "7000")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("server-port", "8080", "")
	flags.String("redis-addr", "localhost:6379", "")
	require.NoError(t, flags.Parse([]string{"--server-port=6000"}))

	cfg, err := Load("", flags)
	require.NoError(t, err)

	assert.Equal(t, "6000", cfg.Server.Port)
	// unchanged flags keep earlier sources
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			DB:      DBConfig{Driver: "sqlite"},
			Session: SessionConfig{Store: "memory", Secret: "s", TTL: time.Hour},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "missing secret", mutate: func(c *Config) { c.Session.Secret = "" }, wantErr: true},
		{name: "unknown driver", mutate: func(c *Config) { c.DB.Driver = "mongo" }, wantErr: true},
		{name: "unknown store", mutate: func(c *Config) { c.Session.Store = "file" }, wantErr: true},
		{name: "zero ttl", mutate: func(c *Config) { c.Session.TTL = 0 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
