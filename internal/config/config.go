// Package config wraps viper with typed accessors and the Washboard
// defaults. Components receive a Config (or a Sub-tree of it) at
// construction instead of reading ambient globals.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config provides typed access to configuration values.
type Config struct {
	v *viper.Viper
}

// New wraps an existing viper instance.
func New(v *viper.Viper) *Config {
	return &Config{v: v}
}

// Load reads configuration for the dashboard client. Resolution order:
// explicit path, $WASHBOARD_* environment, ~/.washboard/config.yaml,
// built-in defaults. A missing config file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("api.base_url", "http://localhost:8585")
	v.SetDefault("api.timeout", "15s")
	v.SetDefault("api.retry_count", 2)
	v.SetDefault("auth.token_file", defaultTokenFile())
	v.SetDefault("ui.page_size", 10)
	v.SetDefault("ui.debounce", "500ms")
	v.SetDefault("ratings.db_path", defaultDataFile("ratings.db"))
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8585)
	v.SetDefault("server.db_path", defaultDataFile("washboard.db"))
	v.SetDefault("server.access_ttl", "15m")
	v.SetDefault("server.refresh_ttl", "720h")
	v.SetDefault("server.secret", "")

	v.SetEnvPrefix("WASHBOARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %q: %w", path, err)
		}
		return New(v), nil
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".washboard"))
	}
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return New(v), nil
}

// GetString returns the string value for key.
func (c *Config) GetString(key string) string { return c.v.GetString(key) }

// GetInt returns the int value for key.
func (c *Config) GetInt(key string) int { return c.v.GetInt(key) }

// GetBool returns the bool value for key.
func (c *Config) GetBool(key string) bool { return c.v.GetBool(key) }

// GetDuration returns the duration value for key.
func (c *Config) GetDuration(key string) time.Duration { return c.v.GetDuration(key) }

// IsSet reports whether key has a value from any source.
func (c *Config) IsSet(key string) bool { return c.v.IsSet(key) }

// Set overrides a value programmatically (flag binding, tests).
func (c *Config) Set(key string, value any) { c.v.Set(key, value) }

// Sub returns the configuration subtree rooted at key, or nil if the
// subtree does not exist.
func (c *Config) Sub(key string) *Config {
	sub := c.v.Sub(key)
	if sub == nil {
		return nil
	}
	return New(sub)
}

func defaultTokenFile() string {
	return defaultDataFile("tokens.json")
}

func defaultDataFile(name string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return name
	}
	return filepath.Join(home, ".washboard", name)
}
