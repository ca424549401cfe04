// Package entdb is the optional Postgres-backed implementation of the
// fact.Store and knowledge.DocStore contracts, for deployments that want
// durable facts/knowledge across daemon restarts instead of the in-memory
// defaults (spec §4.10, §9).
package entdb

import (
	"context"
	stdsql "database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver, used only to drive migrations
)

//go:embed migrations
var migrationsFS embed.FS

// Client wraps a pgx connection pool shared by the Fact and Doc stores.
type Client struct {
	pool *pgxpool.Pool
}

// Pool returns the underlying pool for health checks and direct queries.
func (c *Client) Pool() *pgxpool.Pool {
	return c.pool
}

// Close releases all pooled connections.
func (c *Client) Close() {
	c.pool.Close()
}

// NewClient opens a pgx pool against cfg, applies any pending embedded
// migrations, and returns a ready Client.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	return NewClientFromDSN(ctx, cfg.DSN(), cfg.Database, cfg.MaxConns, cfg.MinConns, cfg.MaxConnLifetime, cfg.MaxConnIdleTime)
}

// NewClientFromDSN opens a pgx pool against an arbitrary connection string.
// Tests use this directly against a testcontainers-provisioned Postgres,
// bypassing the env-var-driven Config entirely.
func NewClientFromDSN(ctx context.Context, dsn, databaseName string, maxConns, minConns int32, maxConnLifetime, maxConnIdleTime time.Duration) (*Client, error) {
	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("entdb: failed to parse pool config: %w", err)
	}
	if maxConns > 0 {
		poolCfg.MaxConns = maxConns
	}
	if minConns > 0 {
		poolCfg.MinConns = minConns
	}
	poolCfg.MaxConnLifetime = maxConnLifetime
	poolCfg.MaxConnIdleTime = maxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("entdb: failed to create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("entdb: failed to ping database: %w", err)
	}

	if err := runMigrations(dsn, databaseName); err != nil {
		pool.Close()
		return nil, fmt.Errorf("entdb: failed to run migrations: %w", err)
	}

	return &Client{pool: pool}, nil
}

// runMigrations applies all pending embedded migrations using a short-lived
// database/sql connection driven by the stdlib pgx driver. golang-migrate
// needs a *sql.DB, not a pgx pool, so this is kept separate from the
// serving pool and closed immediately after use.
func runMigrations(dsn, databaseName string) error {
	hasMigrations, err := hasEmbeddedMigrations()
	if err != nil {
		return fmt.Errorf("failed to check embedded migrations: %w", err)
	}
	if !hasMigrations {
		return fmt.Errorf("no embedded migration files found, binary may be built incorrectly")
	}

	db, err := stdsql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("failed to open migration connection: %w", err)
	}
	defer db.Close()

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("failed to create postgres driver: %w", err)
	}

	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}
	defer sourceDriver.Close()

	m, err := migrate.NewWithInstance("iofs", sourceDriver, databaseName, driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

func hasEmbeddedMigrations() (bool, error) {
	entries, err := fs.ReadDir(migrationsFS, "migrations")
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read embedded migrations: %w", err)
	}
	for _, entry := range entries {
		if !entry.IsDir() && len(entry.Name()) > 4 && entry.Name()[len(entry.Name())-4:] == ".sql" {
			return true, nil
		}
	}
	return false, nil
}
