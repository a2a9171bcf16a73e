// Package config provides configuration management for the matchups service.
package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

const (
	// DefaultConfigPath is used when no path is supplied
	DefaultConfigPath = "config/config.yaml"
	// EnvPrefix prefixes every environment override, e.g. MATCHUPS_SERVER_PORT
	EnvPrefix = "MATCHUPS"
)

// Load reads the configuration file over the defaults and environment variables.
// The file must exist. ${VAR_NAME} placeholders in the YAML are expanded.
func Load(configPath string) (*Config, error) {
	return load(configPath, true)
}

// LoadWithDefaults loads configuration with default values for optional fields
// A missing file is not an error; defaults and environment variables apply.
func LoadWithDefaults(configPath string) (*Config, error) {
	return load(configPath, false)
}

func load(configPath string, requireFile bool) (*Config, error) {
	if configPath == "" {
		configPath = DefaultConfigPath
	}

	v := newViper()
	setDefaults(v)

	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if err := readExpanded(v, data); err != nil {
			return nil, err
		}
	case os.IsNotExist(err):
		if requireFile {
			return nil, fmt.Errorf("config file not found at %s: %w", configPath, err)
		}
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

// readExpanded expands ${VAR} placeholders before handing the YAML to viper
func readExpanded(v *viper.Viper, data []byte) error {
	expanded := os.ExpandEnv(string(data))
	if err := v.ReadConfig(bytes.NewBufferString(expanded)); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "matchups")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("server.host", "")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout_seconds", 5)
	v.SetDefault("server.write_timeout_seconds", 10)
	v.SetDefault("server.idle_timeout_seconds", 60)
	v.SetDefault("server.shutdown_timeout_seconds", 5)

	v.SetDefault("data.source", "file")
	v.SetDefault("data.path", "player_matchups.json")
	v.SetDefault("data.url", "")
	v.SetDefault("data.http.timeout_seconds", 10)
	v.SetDefault("data.http.max_retries", 3)
	v.SetDefault("data.http.rate_limit", 5.0)

	v.SetDefault("render.route", "/matchups")
	v.SetDefault("render.show_index_page", true)
	v.SetDefault("render.show_win_pct", true)
	v.SetDefault("render.wrap_document", true)
	v.SetDefault("render.legacy_escaping", false)
	v.SetDefault("render.not_found_status", 404)

	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.ttl_seconds", 60)
	v.SetDefault("cache.refresh_schedule", "")

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
}
