// Package config provides configuration management for the matchups service.
package config

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	App     AppConfig     `mapstructure:"app" validate:"required"`
	Server  ServerConfig  `mapstructure:"server" validate:"required"`
	Data    DataConfig    `mapstructure:"data" validate:"required"`
	Render  RenderConfig  `mapstructure:"render" validate:"required"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// ServerConfig represents the HTTP listener configuration
type ServerConfig struct {
	Host                   string `mapstructure:"host"`
	Port                   int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	ReadTimeoutSeconds     int    `mapstructure:"read_timeout_seconds" validate:"required,gt=0"`
	WriteTimeoutSeconds    int    `mapstructure:"write_timeout_seconds" validate:"required,gt=0"`
	IdleTimeoutSeconds     int    `mapstructure:"idle_timeout_seconds" validate:"required,gt=0"`
	ShutdownTimeoutSeconds int    `mapstructure:"shutdown_timeout_seconds" validate:"required,gt=0"`
}

// DataConfig describes where the matchup document is read from
type DataConfig struct {
	Source string         `mapstructure:"source" validate:"required,datasource"`
	Path   string         `mapstructure:"path"`
	URL    string         `mapstructure:"url" validate:"omitempty,url"`
	HTTP   HTTPDataConfig `mapstructure:"http"`
}

// HTTPDataConfig configures the remote data source client
type HTTPDataConfig struct {
	TimeoutSeconds int     `mapstructure:"timeout_seconds" validate:"gte=0"`
	MaxRetries     int     `mapstructure:"max_retries" validate:"gte=0"`
	RateLimit      float64 `mapstructure:"rate_limit" validate:"gte=0"`
}

// RenderConfig controls the HTML output
type RenderConfig struct {
	Route          string `mapstructure:"route" validate:"required,route"`
	ShowIndexPage  bool   `mapstructure:"show_index_page"`
	ShowWinPct     bool   `mapstructure:"show_win_pct"`
	WrapDocument   bool   `mapstructure:"wrap_document"`
	LegacyEscaping bool   `mapstructure:"legacy_escaping"`
	NotFoundStatus int    `mapstructure:"not_found_status" validate:"required,oneof=200 404"`
}

// CacheConfig represents the optional in-memory matchup cache
type CacheConfig struct {
	Enabled         bool   `mapstructure:"enabled"`
	TTLSeconds      int    `mapstructure:"ttl_seconds" validate:"gte=0"`
	RefreshSchedule string `mapstructure:"refresh_schedule"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path" validate:"omitempty,route"`
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetListenAddress returns the host:port the server binds to
func (c *Config) GetListenAddress() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// GetCacheTTL returns the cache entry lifetime
func (c *Config) GetCacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLSeconds) * time.Second
}

// GetShutdownTimeout returns the graceful shutdown deadline
func (c *Config) GetShutdownTimeout() time.Duration {
	return time.Duration(c.Server.ShutdownTimeoutSeconds) * time.Second
}

// DataLocation returns the path or URL the matchup document is read from
func (c *Config) DataLocation() string {
	if c.Data.Source == "http" {
		return c.Data.URL
	}
	return c.Data.Path
}

// String renders a short summary for startup logs
func (c *Config) String() string {
	return fmt.Sprintf("%s[%s] %s source=%s:%s", c.App.Name, c.App.Environment, c.GetListenAddress(), c.Data.Source, c.DataLocation())
}
