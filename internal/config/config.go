package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/symptom-analyzer/internal/catalog"
	"github.com/symptom-analyzer/internal/domain"
)

// EnvPrefix is prepended to every environment override,
// e.g. SYMPTOM_ANALYZER_SERVER_PORT.
const EnvPrefix = "SYMPTOM_ANALYZER"

// Manager implements the ConfigManager interface using Viper
type Manager struct {
	v          *viper.Viper
	configFile string
	config     *domain.Config
}

// NewManager creates a new configuration manager. An empty configFile
// searches the default locations for config.yaml.
func NewManager(configFile string) (*Manager, error) {
	m := &Manager{configFile: configFile}
	if err := m.loadConfig(); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return m, nil
}

// Viper exposes the underlying instance for flag binding.
func (m *Manager) Viper() *viper.Viper {
	return m.v
}

// loadConfig loads configuration from various sources
func (m *Manager) loadConfig() error {
	v := m.v
	if v == nil {
		v = viper.New()
		m.v = v
	}

	if m.configFile != "" {
		v.SetConfigFile(m.configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/symptom-analyzer/")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional; defaults and environment variables apply
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	config := &domain.Config{}
	if err := v.Unmarshal(config); err != nil {
		return fmt.Errorf("error unmarshaling config: %w", err)
	}

	if config.Catalog.Source == catalog.SourceSQLite && config.Catalog.Path == "" {
		config.Catalog.Path = DefaultCatalogDBPath()
	}

	m.config = config
	return nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")

	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.request_timeout", "10s")
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.rate_limit.enabled", true)
	v.SetDefault("server.rate_limit.requests_per_second", 10.0)
	v.SetDefault("server.rate_limit.burst", 20)
	v.SetDefault("server.rate_limit.max_clients", 10000)

	// Catalog defaults
	v.SetDefault("catalog.source", catalog.SourceBuiltin)
	v.SetDefault("catalog.path", "")
	v.SetDefault("catalog.database_url", "")
	v.SetDefault("catalog.max_conns", 4)

	// Classifier defaults
	v.SetDefault("classifier.seed", 0)
	v.SetDefault("classifier.std_dev", 0.1)
	v.SetDefault("classifier.hidden_layers", []int{128, 64})
	v.SetDefault("classifier.eager_init", true)

	// Cache defaults
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.max_items", 1024)
	v.SetDefault("cache.ttl", "15m")
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.breaker.max_requests", 5)
	v.SetDefault("cache.breaker.interval", "30s")
	v.SetDefault("cache.breaker.timeout", "60s")
	v.SetDefault("cache.breaker.failure_ratio", 0.6)
	v.SetDefault("cache.breaker.min_requests", 3)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stderr")

	// MCP defaults
	v.SetDefault("mcp.server_name", "symptom-analyzer")
	v.SetDefault("mcp.server_version", "1.0.0")
	v.SetDefault("mcp.transport_type", "stdio")
}

// GetConfig returns the complete configuration
func (m *Manager) GetConfig() *domain.Config {
	return m.config
}

// GetServerConfig returns server configuration
func (m *Manager) GetServerConfig() *domain.ServerConfig {
	return &m.config.Server
}

// GetCatalogConfig returns catalog configuration
func (m *Manager) GetCatalogConfig() *domain.CatalogConfig {
	return &m.config.Catalog
}

// GetClassifierConfig returns classifier configuration
func (m *Manager) GetClassifierConfig() *domain.ClassifierConfig {
	return &m.config.Classifier
}

// GetCacheConfig returns cache configuration
func (m *Manager) GetCacheConfig() *domain.CacheConfig {
	return &m.config.Cache
}

// Reload reloads the configuration
func (m *Manager) Reload() error {
	return m.loadConfig()
}

// Validate validates the configuration
func (m *Manager) Validate() error {
	config := m.config

	// Server
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}
	if rl := config.Server.RateLimit; rl.Enabled {
		if rl.RequestsPerSecond <= 0 {
			return fmt.Errorf("rate limit requests_per_second must be positive: %v", rl.RequestsPerSecond)
		}
		if rl.Burst <= 0 {
			return fmt.Errorf("rate limit burst must be positive: %d", rl.Burst)
		}
	}

	// Catalog
	switch config.Catalog.Source {
	case "", catalog.SourceBuiltin:
	case catalog.SourceFile, catalog.SourceSQLite:
		if config.Catalog.Path == "" {
			return fmt.Errorf("catalog path is required for source %s", config.Catalog.Source)
		}
	case catalog.SourcePostgres:
		if config.Catalog.DatabaseURL == "" {
			return fmt.Errorf("catalog database_url is required for source postgres")
		}
	default:
		return fmt.Errorf("invalid catalog source: %s", config.Catalog.Source)
	}

	// Classifier
	if config.Classifier.StdDev <= 0 {
		return fmt.Errorf("classifier std_dev must be positive: %v", config.Classifier.StdDev)
	}
	for _, width := range config.Classifier.HiddenLayers {
		if width <= 0 {
			return fmt.Errorf("invalid classifier hidden layer width: %d", width)
		}
	}

	// Cache
	if config.Cache.MaxItems < 0 {
		return fmt.Errorf("cache max_items must not be negative: %d", config.Cache.MaxItems)
	}
	if r := config.Cache.Breaker.FailureRatio; r <= 0 || r > 1 {
		return fmt.Errorf("cache breaker failure_ratio must be in (0, 1]: %v", r)
	}

	// Logging
	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true, "fatal": true, "panic": true,
	}
	if !validLogLevels[strings.ToLower(config.Logging.Level)] {
		return fmt.Errorf("invalid log level: %s", config.Logging.Level)
	}
	if f := strings.ToLower(config.Logging.Format); f != "json" && f != "text" {
		return fmt.Errorf("invalid log format: %s", config.Logging.Format)
	}

	// MCP
	if config.MCP.TransportType != "stdio" {
		return fmt.Errorf("unsupported MCP transport: %s", config.MCP.TransportType)
	}

	return nil
}

// IsProduction returns true if running in production mode
func (m *Manager) IsProduction() bool {
	return strings.ToLower(m.v.GetString("environment")) == "production"
}

// IsDevelopment returns true if running in development mode
func (m *Manager) IsDevelopment() bool {
	env := strings.ToLower(m.v.GetString("environment"))
	return env == "development" || env == "dev" || env == ""
}

var _ domain.ConfigManager = (*Manager)(nil)
