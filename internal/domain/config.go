package domain

import (
	"time"
)

// Config represents the main application configuration
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Catalog    CatalogConfig    `mapstructure:"catalog"`
	Classifier ClassifierConfig `mapstructure:"classifier"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	MCP        MCPConfig        `mapstructure:"mcp"`
}

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Host           string          `mapstructure:"host"`
	Port           int             `mapstructure:"port"`
	Mode           string          `mapstructure:"mode"` // gin mode: debug, release, test
	ReadTimeout    time.Duration   `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration   `mapstructure:"write_timeout"`
	IdleTimeout    time.Duration   `mapstructure:"idle_timeout"`
	RequestTimeout time.Duration   `mapstructure:"request_timeout"`
	AllowedOrigins []string        `mapstructure:"allowed_origins"`
	RateLimit      RateLimitConfig `mapstructure:"rate_limit"`
}

// RateLimitConfig represents per-client request limits
type RateLimitConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
	MaxClients        int     `mapstructure:"max_clients"`
}

// CatalogConfig selects where the vocabulary tables come from
type CatalogConfig struct {
	Source      string `mapstructure:"source"` // builtin, file, sqlite, postgres
	Path        string `mapstructure:"path"`
	DatabaseURL string `mapstructure:"database_url"`
	MaxConns    int32  `mapstructure:"max_conns"`
}

// ClassifierConfig represents classifier model parameters
type ClassifierConfig struct {
	Seed         uint64  `mapstructure:"seed"` // 0 seeds from the clock
	StdDev       float64 `mapstructure:"std_dev"`
	HiddenLayers []int   `mapstructure:"hidden_layers"`
	EagerInit    bool    `mapstructure:"eager_init"`
}

// CacheConfig represents result cache configuration
type CacheConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	MaxItems int           `mapstructure:"max_items"`
	TTL      time.Duration `mapstructure:"ttl"`
	RedisURL string        `mapstructure:"redis_url"`
	Breaker  BreakerConfig `mapstructure:"breaker"`
}

// BreakerConfig represents circuit breaker settings for the shared cache
type BreakerConfig struct {
	MaxRequests  uint32        `mapstructure:"max_requests"`
	Interval     time.Duration `mapstructure:"interval"`
	Timeout      time.Duration `mapstructure:"timeout"`
	FailureRatio float64       `mapstructure:"failure_ratio"`
	MinRequests  uint32        `mapstructure:"min_requests"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// MCPConfig represents MCP server configuration
type MCPConfig struct {
	ServerName    string `mapstructure:"server_name"`
	ServerVersion string `mapstructure:"server_version"`
	TransportType string `mapstructure:"transport_type"` // "stdio"
}
