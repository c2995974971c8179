package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps a catalog in a local SQLite file.
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteStore opens (or creates) the database file and its schema.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	store, err := NewSQLiteStoreWithDB(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	store.dbPath = dbPath
	return store, nil
}

// NewSQLiteStoreWithDB wraps an already opened handle and ensures the schema.
func NewSQLiteStoreWithDB(db *sql.DB) (*SQLiteStore, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}
	if err := createSchema(db); err != nil {
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func createSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS catalog_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS symptoms (
		position INTEGER PRIMARY KEY,
		key TEXT NOT NULL UNIQUE,
		severity_weight REAL
	);

	CREATE TABLE IF NOT EXISTS conditions (
		position INTEGER PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		initial_fee REAL NOT NULL,
		follow_up_fee REAL NOT NULL
	);

	CREATE TABLE IF NOT EXISTS medications (
		condition_name TEXT NOT NULL REFERENCES conditions(name) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		advice TEXT NOT NULL,
		PRIMARY KEY (condition_name, position)
	);
	`

	_, err := db.Exec(schema)
	return err
}

// Load reads the stored catalog.
func (s *SQLiteStore) Load(ctx context.Context) (*Catalog, error) {
	b := newSpecBuilder()

	if err := queryEach(ctx, s.db, "SELECT key, value FROM catalog_meta", func(sc scanner) error {
		var key, value string
		if err := sc.Scan(&key, &value); err != nil {
			return err
		}
		b.meta(key, value)
		return nil
	}); err != nil {
		return nil, fmt.Errorf("failed to load catalog meta: %w", err)
	}

	if err := queryEach(ctx, s.db, "SELECT key, severity_weight FROM symptoms ORDER BY position", func(sc scanner) error {
		var key string
		var weight sql.NullFloat64
		if err := sc.Scan(&key, &weight); err != nil {
			return err
		}
		if weight.Valid {
			b.symptom(key, &weight.Float64)
		} else {
			b.symptom(key, nil)
		}
		return nil
	}); err != nil {
		return nil, fmt.Errorf("failed to load symptoms: %w", err)
	}

	if err := queryEach(ctx, s.db, "SELECT name, initial_fee, follow_up_fee FROM conditions ORDER BY position", func(sc scanner) error {
		var name string
		var initial, followUp float64
		if err := sc.Scan(&name, &initial, &followUp); err != nil {
			return err
		}
		b.condition(name, initial, followUp)
		return nil
	}); err != nil {
		return nil, fmt.Errorf("failed to load conditions: %w", err)
	}

	if err := queryEach(ctx, s.db, "SELECT condition_name, advice FROM medications ORDER BY condition_name, position", func(sc scanner) error {
		var condition, advice string
		if err := sc.Scan(&condition, &advice); err != nil {
			return err
		}
		b.medication(condition, advice)
		return nil
	}); err != nil {
		return nil, fmt.Errorf("failed to load medications: %w", err)
	}

	return b.build()
}

// Save replaces all stored rows with the given catalog in one transaction.
func (s *SQLiteStore) Save(ctx context.Context, c *Catalog) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{
		"DELETE FROM medications",
		"DELETE FROM conditions",
		"DELETE FROM symptoms",
		"DELETE FROM catalog_meta",
	} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to clear catalog: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO catalog_meta (key, value) VALUES (?, ?)", metaCurrency, c.Currency(),
	); err != nil {
		return fmt.Errorf("failed to insert catalog meta: %w", err)
	}

	for i, key := range c.symptoms {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO symptoms (position, key, severity_weight) VALUES (?, ?, ?)",
			i, key, weightPtr(c, key),
		); err != nil {
			return fmt.Errorf("failed to insert symptom %q: %w", key, err)
		}
	}

	for i, name := range c.conditions {
		fee := c.fees[name]
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO conditions (position, name, initial_fee, follow_up_fee) VALUES (?, ?, ?, ?)",
			i, name, fee.Initial, fee.FollowUp,
		); err != nil {
			return fmt.Errorf("failed to insert condition %q: %w", name, err)
		}
		for j, advice := range c.medications[name] {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO medications (condition_name, position, advice) VALUES (?, ?, ?)",
				name, j, advice,
			); err != nil {
				return fmt.Errorf("failed to insert medication for %q: %w", name, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit catalog: %w", err)
	}
	return nil
}

// Close closes the store and releases resources.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// scanner is an interface for sql.Row and sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

func queryEach(ctx context.Context, db *sql.DB, query string, fn func(scanner) error) error {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		if err := fn(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}
