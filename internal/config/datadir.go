package config

import (
	"os"
	"path/filepath"
)

// DataDirEnv overrides the local data directory.
const DataDirEnv = EnvPrefix + "_DATA_DIR"

// DataDir returns the directory for local files such as the SQLite catalog
// and catalog exports.
func DataDir() string {
	if v := os.Getenv(DataDirEnv); v != "" {
		return v
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".symptom-analyzer"
	}
	return filepath.Join(homeDir, ".symptom-analyzer")
}

// DefaultCatalogDBPath returns the SQLite catalog path inside DataDir.
func DefaultCatalogDBPath() string {
	return filepath.Join(DataDir(), "catalog.db")
}

// ExportDir returns the directory for catalog exports.
func ExportDir() string {
	return filepath.Join(DataDir(), "exports")
}

// EnsureDataDir creates the data directory if it doesn't exist.
func EnsureDataDir() error {
	if err := os.MkdirAll(DataDir(), 0755); err != nil {
		return err
	}
	return os.MkdirAll(ExportDir(), 0755)
}
