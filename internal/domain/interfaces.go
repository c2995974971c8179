package domain

import (
	"context"
	"time"
)

// SymptomAnalyzer turns a free-text symptom description into a result
type SymptomAnalyzer interface {
	Analyze(ctx context.Context, text string) (*AnalysisResult, error)
}

// ResultCache stores analysis results by an opaque digest key
type ResultCache interface {
	Get(ctx context.Context, key string) (*AnalysisResult, bool)
	Set(ctx context.Context, key string, result *AnalysisResult, ttl time.Duration) error
	Close() error
}

// ConfigManager defines the interface for configuration management
type ConfigManager interface {
	GetConfig() *Config
	GetServerConfig() *ServerConfig
	GetCatalogConfig() *CatalogConfig
	GetClassifierConfig() *ClassifierConfig
	GetCacheConfig() *CacheConfig
	Reload() error
	Validate() error
	IsProduction() bool
	IsDevelopment() bool
}
