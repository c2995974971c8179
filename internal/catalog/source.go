package catalog

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/symptom-analyzer/internal/database"
	"github.com/symptom-analyzer/internal/domain"
)

// Catalog sources
const (
	SourceBuiltin  = "builtin"
	SourceFile     = "file"
	SourceSQLite   = "sqlite"
	SourcePostgres = "postgres"
)

// Open loads the catalog selected by cfg. The result is static for the
// lifetime of the process; any database handle is released before return.
func Open(ctx context.Context, cfg domain.CatalogConfig, logger *logrus.Logger) (*Catalog, error) {
	var (
		c   *Catalog
		err error
	)

	switch cfg.Source {
	case "", SourceBuiltin:
		c, err = New(DefaultSpec())
	case SourceFile:
		c, err = LoadFile(cfg.Path)
	case SourceSQLite, SourcePostgres:
		var store Store
		store, err = OpenStore(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		defer store.Close()
		c, err = store.Load(ctx)
	default:
		return nil, fmt.Errorf("unknown catalog source %q", cfg.Source)
	}
	if err != nil {
		return nil, err
	}

	fields := logrus.Fields(c.LogFields())
	fields["source"] = cfg.Source
	logger.WithFields(fields).Info("Catalog loaded")
	return c, nil
}

// OpenStore opens the database store selected by cfg. Only the sqlite and
// postgres sources are backed by a store.
func OpenStore(ctx context.Context, cfg domain.CatalogConfig, logger *logrus.Logger) (Store, error) {
	switch cfg.Source {
	case SourceSQLite:
		return NewSQLiteStore(cfg.Path)
	case SourcePostgres:
		db, err := database.NewConnection(ctx, database.ConfigFromCatalog(cfg), logger)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to catalog database: %w", err)
		}
		return &PostgresStore{db: db, ownsPool: true}, nil
	default:
		return nil, fmt.Errorf("catalog source %q has no store", cfg.Source)
	}
}
