package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// ErrMissingURI means no database connection string was configured. This is a
// configuration problem, so no connection attempt is made at all.
var ErrMissingURI = errors.New("database URI is not configured (set GATHERLY_DB_URI)")

// OpenFunc opens and verifies a database connection.
type OpenFunc func(ctx context.Context, uri string) (*sql.DB, error)

// Connector hands out a shared database handle, connecting lazily on first
// use. Concurrent callers racing on the first Acquire all wait on the same
// in-flight connection attempt, so at most one connection is ever opened.
// A failed attempt is not cached: the next Acquire starts over.
//
// The Connector is built once in the composition root and passed by reference
// to every repository.
type Connector struct {
	uri  string
	open OpenFunc

	mu     sync.RWMutex
	db     *sql.DB
	flight singleflight.Group
}

func NewConnector(uri string) *Connector {
	return &Connector{uri: uri, open: openPgx}
}

// NewConnectorWithOpener is used by tests to substitute the connect call.
func NewConnectorWithOpener(uri string, open OpenFunc) *Connector {
	return &Connector{uri: uri, open: open}
}

func openPgx(ctx context.Context, uri string) (*sql.DB, error) {
	db, err := sql.Open("pgx", uri)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// Acquire returns the cached handle, or connects if there is none yet. Every
// caller that arrives while a connection attempt is in flight awaits that
// same attempt and observes its result.
func (c *Connector) Acquire(ctx context.Context) (*sql.DB, error) {
	if c.uri == "" {
		return nil, ErrMissingURI
	}

	c.mu.RLock()
	db := c.db
	c.mu.RUnlock()
	if db != nil {
		return db, nil
	}

	v, err, _ := c.flight.Do("connect", func() (any, error) {
		c.mu.RLock()
		cached := c.db
		c.mu.RUnlock()
		if cached != nil {
			return cached, nil
		}

		log.Debug("Opening database connection")
		opened, err := c.open(ctx, c.uri)
		if err != nil {
			log.Errorf("database connection failed: %v", err)
			return nil, err
		}

		c.mu.Lock()
		c.db = opened
		c.mu.Unlock()
		return opened, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*sql.DB), nil
}

// Shutdown closes the cached handle, if any.
func (c *Connector) Shutdown() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.db == nil {
		return nil
	}
	err := c.db.Close()
	c.db = nil
	return err
}

// Migrate runs database migrations using golang-migrate against the configured DB.
func Migrate(uri string) error {
	migrationsPath, err := findMigrationsPath()
	if err != nil {
		return fmt.Errorf("failed to locate migrations directory: %w", err)
	}

	m, err := migrate.New("file://"+migrationsPath, uri)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer m.Close()
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up failed: %w", err)
	}

	return nil
}

// findMigrationsPath searches upward from the current working directory for a "migrations" directory
// and returns its absolute path. This makes migrations resolution robust in tests where the working
// directory can be different from the project root.
func findMigrationsPath() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		candidate := filepath.Join(dir, "migrations")
		info, err := os.Stat(candidate)
		if err == nil && info.IsDir() {
			abs, err := filepath.Abs(candidate)
			if err != nil {
				return "", err
			}
			return abs, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("migrations directory not found")
}
