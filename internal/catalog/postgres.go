package catalog

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/symptom-analyzer/internal/database"
)

// PostgresStore keeps a catalog in PostgreSQL. The schema is created by the
// database migrations.
type PostgresStore struct {
	db       *database.DB
	ownsPool bool
}

// NewPostgresStore wraps an open connection pool.
func NewPostgresStore(db *database.DB) (*PostgresStore, error) {
	if db == nil || db.Pool == nil {
		return nil, fmt.Errorf("database connection is required")
	}
	return &PostgresStore{db: db}, nil
}

// Load reads the stored catalog.
func (s *PostgresStore) Load(ctx context.Context) (*Catalog, error) {
	b := newSpecBuilder()
	pool := s.db.Pool

	rows, err := pool.Query(ctx, "SELECT key, value FROM catalog_meta")
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog meta: %w", err)
	}
	var key, value string
	if _, err := pgx.ForEachRow(rows, []any{&key, &value}, func() error {
		b.meta(key, value)
		return nil
	}); err != nil {
		return nil, fmt.Errorf("failed to load catalog meta: %w", err)
	}

	rows, err = pool.Query(ctx, "SELECT key, severity_weight FROM symptoms ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("failed to load symptoms: %w", err)
	}
	var weight *float64
	if _, err := pgx.ForEachRow(rows, []any{&key, &weight}, func() error {
		if weight != nil {
			w := *weight
			b.symptom(key, &w)
		} else {
			b.symptom(key, nil)
		}
		return nil
	}); err != nil {
		return nil, fmt.Errorf("failed to load symptoms: %w", err)
	}

	rows, err = pool.Query(ctx, "SELECT name, initial_fee, follow_up_fee FROM conditions ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("failed to load conditions: %w", err)
	}
	var name string
	var initial, followUp float64
	if _, err := pgx.ForEachRow(rows, []any{&name, &initial, &followUp}, func() error {
		b.condition(name, initial, followUp)
		return nil
	}); err != nil {
		return nil, fmt.Errorf("failed to load conditions: %w", err)
	}

	rows, err = pool.Query(ctx, "SELECT condition_name, advice FROM medications ORDER BY condition_name, position")
	if err != nil {
		return nil, fmt.Errorf("failed to load medications: %w", err)
	}
	var advice string
	if _, err := pgx.ForEachRow(rows, []any{&name, &advice}, func() error {
		b.medication(name, advice)
		return nil
	}); err != nil {
		return nil, fmt.Errorf("failed to load medications: %w", err)
	}

	return b.build()
}

// Save replaces all stored rows with the given catalog in one transaction.
func (s *PostgresStore) Save(ctx context.Context, c *Catalog) error {
	return pgx.BeginFunc(ctx, s.db.Pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, "TRUNCATE medications, conditions, symptoms, catalog_meta"); err != nil {
			return fmt.Errorf("failed to clear catalog: %w", err)
		}

		batch := &pgx.Batch{}
		batch.Queue("INSERT INTO catalog_meta (key, value) VALUES ($1, $2)", metaCurrency, c.Currency())
		for i, key := range c.symptoms {
			batch.Queue("INSERT INTO symptoms (position, key, severity_weight) VALUES ($1, $2, $3)",
				i, key, weightPtr(c, key))
		}
		for i, name := range c.conditions {
			fee := c.fees[name]
			batch.Queue("INSERT INTO conditions (position, name, initial_fee, follow_up_fee) VALUES ($1, $2, $3, $4)",
				i, name, fee.Initial, fee.FollowUp)
		}
		for _, name := range c.conditions {
			for j, advice := range c.medications[name] {
				batch.Queue("INSERT INTO medications (condition_name, position, advice) VALUES ($1, $2, $3)",
					name, j, advice)
			}
		}

		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("failed to insert catalog rows: %w", err)
		}
		return nil
	})
}

// Close releases the pool only when the store opened it itself.
func (s *PostgresStore) Close() error {
	if s.ownsPool {
		s.db.Close()
	}
	return nil
}
