package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/symptom-analyzer/internal/catalog"
)

func TestNewManagerDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	m, err := NewManager("")
	require.NoError(t, err)
	require.NoError(t, m.Validate())

	cfg := m.GetConfig()
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.True(t, cfg.Server.RateLimit.Enabled)
	assert.Equal(t, catalog.SourceBuiltin, m.GetCatalogConfig().Source)
	assert.Equal(t, 0.1, m.GetClassifierConfig().StdDev)
	assert.Equal(t, []int{128, 64}, m.GetClassifierConfig().HiddenLayers)
	assert.Equal(t, 15*time.Minute, m.GetCacheConfig().TTL)
	assert.Equal(t, 0.6, m.GetCacheConfig().Breaker.FailureRatio)
	assert.Equal(t, "stderr", cfg.Logging.Output)
	assert.Equal(t, "stdio", cfg.MCP.TransportType)
	assert.True(t, m.IsDevelopment())
	assert.False(t, m.IsProduction())
}

func TestNewManagerFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  port: 9090
catalog:
  source: file
  path: /srv/catalog.yaml
classifier:
  seed: 42
  hidden_layers: [32]
cache:
  ttl: 1m
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	t.Setenv("SYMPTOM_ANALYZER_SERVER_PORT", "7070")
	t.Setenv("SYMPTOM_ANALYZER_LOGGING_LEVEL", "debug")
	t.Setenv("SYMPTOM_ANALYZER_ENVIRONMENT", "production")

	m, err := NewManager(path)
	require.NoError(t, err)
	require.NoError(t, m.Validate())

	cfg := m.GetConfig()
	assert.Equal(t, 7070, cfg.Server.Port, "environment wins over file")
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, catalog.SourceFile, cfg.Catalog.Source)
	assert.Equal(t, "/srv/catalog.yaml", cfg.Catalog.Path)
	assert.Equal(t, uint64(42), cfg.Classifier.Seed)
	assert.Equal(t, []int{32}, cfg.Classifier.HiddenLayers)
	assert.Equal(t, time.Minute, cfg.Cache.TTL)
	assert.True(t, m.IsProduction())

	t.Setenv("SYMPTOM_ANALYZER_SERVER_PORT", "6060")
	require.NoError(t, m.Reload())
	assert.Equal(t, 6060, m.GetServerConfig().Port)
}

func TestNewManagerMissingExplicitFile(t *testing.T) {
	_, err := NewManager(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestSQLiteSourceDefaultsPath(t *testing.T) {
	t.Chdir(t.TempDir())
	dataDir := t.TempDir()
	t.Setenv(DataDirEnv, dataDir)
	t.Setenv("SYMPTOM_ANALYZER_CATALOG_SOURCE", "sqlite")

	m, err := NewManager("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dataDir, "catalog.db"), m.GetCatalogConfig().Path)
	assert.NoError(t, m.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		env    map[string]string
		errMsg string
	}{
		{name: "port", env: map[string]string{"SYMPTOM_ANALYZER_SERVER_PORT": "0"}, errMsg: "invalid server port"},
		{name: "rate", env: map[string]string{"SYMPTOM_ANALYZER_SERVER_RATE_LIMIT_REQUESTS_PER_SECOND": "0"}, errMsg: "requests_per_second"},
		{name: "source", env: map[string]string{"SYMPTOM_ANALYZER_CATALOG_SOURCE": "mongo"}, errMsg: "invalid catalog source"},
		{name: "file path", env: map[string]string{"SYMPTOM_ANALYZER_CATALOG_SOURCE": "file"}, errMsg: "catalog path is required"},
		{name: "postgres url", env: map[string]string{"SYMPTOM_ANALYZER_CATALOG_SOURCE": "postgres"}, errMsg: "database_url is required"},
		{name: "std dev", env: map[string]string{"SYMPTOM_ANALYZER_CLASSIFIER_STD_DEV": "0"}, errMsg: "std_dev must be positive"},
		{name: "breaker", env: map[string]string{"SYMPTOM_ANALYZER_CACHE_BREAKER_FAILURE_RATIO": "1.5"}, errMsg: "failure_ratio"},
		{name: "log level", env: map[string]string{"SYMPTOM_ANALYZER_LOGGING_LEVEL": "verbose"}, errMsg: "invalid log level"},
		{name: "log format", env: map[string]string{"SYMPTOM_ANALYZER_LOGGING_FORMAT": "xml"}, errMsg: "invalid log format"},
		{name: "transport", env: map[string]string{"SYMPTOM_ANALYZER_MCP_TRANSPORT_TYPE": "http"}, errMsg: "unsupported MCP transport"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			m, err := NewManager("")
			require.NoError(t, err)
			assert.ErrorContains(t, m.Validate(), tt.errMsg)
		})
	}
}

func TestDataDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	t.Setenv(DataDirEnv, dir)

	assert.Equal(t, dir, DataDir())
	assert.Equal(t, filepath.Join(dir, "catalog.db"), DefaultCatalogDBPath())
	assert.Equal(t, filepath.Join(dir, "exports"), ExportDir())

	require.NoError(t, EnsureDataDir())
	_, err := os.Stat(ExportDir())
	assert.NoError(t, err)
}
