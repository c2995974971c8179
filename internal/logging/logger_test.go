package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/symptom-analyzer/internal/domain"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name      string
		cfg       domain.LoggingConfig
		level     logrus.Level
		formatter interface{}
		wantErr   bool
	}{
		{name: "defaults", cfg: domain.LoggingConfig{}, level: logrus.InfoLevel, formatter: &logrus.JSONFormatter{}},
		{name: "debug text", cfg: domain.LoggingConfig{Level: "debug", Format: "text"}, level: logrus.DebugLevel, formatter: &logrus.TextFormatter{}},
		{name: "warn json stdout", cfg: domain.LoggingConfig{Level: "warn", Format: "JSON", Output: "stdout"}, level: logrus.WarnLevel, formatter: &logrus.JSONFormatter{}},
		{name: "bad level", cfg: domain.LoggingConfig{Level: "loud"}, wantErr: true},
		{name: "bad format", cfg: domain.LoggingConfig{Format: "xml"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := NewLogger(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.level, logger.GetLevel())
			assert.IsType(t, tt.formatter, logger.Formatter)
		})
	}
}

func TestNewLoggerWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "analyzer.log")

	logger, err := NewLogger(domain.LoggingConfig{Output: path})
	require.NoError(t, err)
	logger.WithField("condition", "Flu").Info("Analysis completed")

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &entry))
	assert.Equal(t, "Analysis completed", entry["message"])
	assert.Equal(t, "Flu", entry["condition"])
	assert.Contains(t, entry, "timestamp")
}
