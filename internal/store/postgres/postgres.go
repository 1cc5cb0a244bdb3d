// Package postgres implements the store.Store interface backed by PostgreSQL.
//
// Because the record payload is schema-free and the relational schema is
// fixed, data is degraded to a serialized text column: serialized on every
// write, parsed back to structured form on every read. That boundary lives
// entirely inside this package. Likewise the table's auto-incrementing
// integer key is translated to and from the opaque string identifier at this
// boundary only; the rest of the system never sees an integer ID.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"

	"github.com/avi-perl/posthole/internal/model"
	"github.com/avi-perl/posthole/internal/store"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Store implements store.Store backed by a PostgreSQL database.
type Store struct {
	db *sql.DB
}

// Compile-time check that Store implements store.Store.
var _ store.Store = (*Store)(nil)

// New opens a connection to the PostgreSQL database at the given URL,
// configures the connection pool, and runs any pending migrations.
func New(databaseURL string) (*Store, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

func runMigrations(db *sql.DB) error {
	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	dbDriver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migration db driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "postgres", dbDriver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Insert(ctx context.Context, item *model.Item) error {
	return queryInsertItem(ctx, s.db, item)
}

func (s *Store) Get(ctx context.Context, id string) (*model.Item, error) {
	rowID, ok := parseID(id)
	if !ok {
		return nil, store.ErrNotFound
	}
	return queryGetItem(ctx, s.db, rowID)
}

func (s *Store) ListAll(ctx context.Context) ([]*model.Item, error) {
	return queryListItems(ctx, s.db, "")
}

func (s *Store) ListByModel(ctx context.Context, modelName string) ([]*model.Item, error) {
	return queryListItems(ctx, s.db, modelName)
}

func (s *Store) Update(ctx context.Context, id string, item *model.Item) error {
	rowID, ok := parseID(id)
	if !ok {
		return store.ErrNotFound
	}
	return queryUpdateItem(ctx, s.db, rowID, item)
}

func (s *Store) Delete(ctx context.Context, id string) error {
	rowID, ok := parseID(id)
	if !ok {
		return store.ErrNotFound
	}
	return queryDeleteItem(ctx, s.db, rowID)
}

// Flush is a no-op: every mutation commits through the database directly.
func (s *Store) Flush(context.Context) error {
	return nil
}
