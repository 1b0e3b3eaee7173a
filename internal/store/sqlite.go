package store

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// Option configures NewSQLiteStore.
type Option func(*options)

type options struct {
	busyTimeout  time.Duration
	maxReadConns int
}

// WithBusyTimeout sets how long SQLite waits for a lock before failing.
func WithBusyTimeout(d time.Duration) Option {
	return func(o *options) {
		o.busyTimeout = d
	}
}

// WithMaxReadConns caps the connection pool of file databases. In-memory
// databases always use a single connection.
func WithMaxReadConns(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxReadConns = n
		}
	}
}

// SQLiteStore owns the database handle. Write transactions are serialized
// through writer; read transactions share the connection pool.
type SQLiteStore struct {
	db     *sqlx.DB
	path   string
	writer chan struct{}
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath,
// enables WAL mode and foreign keys, and runs any pending schema migrations.
func NewSQLiteStore(dbPath string, opts ...Option) (*SQLiteStore, error) {
	o := &options{busyTimeout: 5 * time.Second, maxReadConns: 4}
	for _, opt := range opts {
		opt(o)
	}

	memory := dbPath == MemoryPath
	if !memory {
		if err := ensureDir(dbPath); err != nil {
			return nil, err
		}
	}

	db, err := sqlx.Open("sqlite", dsn(dbPath, o.busyTimeout, memory))
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Every connection to :memory: is a separate database, so the pool must
	// never grow past one or drop it.
	if memory {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
	} else {
		db.SetMaxOpenConns(o.maxReadConns)
	}

	s := &SQLiteStore{
		db:     db,
		path:   dbPath,
		writer: make(chan struct{}, 1),
	}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// dsn renders the connection string. Pragmas go through the driver's
// _pragma parameter so that they apply to every pooled connection.
func dsn(dbPath string, busyTimeout time.Duration, memory bool) string {
	q := url.Values{}
	q.Add("_pragma", "foreign_keys(1)")
	q.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", busyTimeout.Milliseconds()))
	if !memory {
		q.Add("_pragma", "journal_mode(WAL)")
		q.Add("_pragma", "synchronous(NORMAL)")
	}
	q.Set("_time_format", "sqlite")
	return dbPath + "?" + q.Encode()
}

// ensureDir creates the parent directory of a database file.
func ensureDir(dbPath string) error {
	clean := strings.TrimPrefix(dbPath, "file:")
	dir := filepath.Dir(clean)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating db directory %q: %w", dir, err)
	}
	return nil
}

// Path returns the database location the store was opened with.
func (s *SQLiteStore) Path() string {
	return s.path
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order, each in its own transaction.
func (s *SQLiteStore) runMigrations() error {
	currentVersion := 0

	// Check if schema_version table exists.
	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		tx, err := s.db.Beginx()
		if err != nil {
			return fmt.Errorf("beginning migration v%d: %w", m.version, err)
		}
		if _, err := tx.Exec(m.sql); err != nil {
			tx.Rollback()
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// Transaction runs work inside a read-write transaction restricted to the
// given collections. Mutations become visible together when work returns
// nil and are discarded otherwise. Write transactions never overlap.
func (s *SQLiteStore) Transaction(
	ctx context.Context,
	collections []*Collection,
	work func(tx *Tx) error,
) error {
	return s.run(ctx, collections, false, work)
}

// ReadTransaction runs work inside a transaction that may only read the
// given collections.
func (s *SQLiteStore) ReadTransaction(
	ctx context.Context,
	collections []*Collection,
	work func(tx *Tx) error,
) error {
	return s.run(ctx, collections, true, work)
}

func (s *SQLiteStore) run(
	ctx context.Context,
	collections []*Collection,
	readOnly bool,
	work func(tx *Tx) error,
) error {
	if len(collections) == 0 {
		return invalid("transaction declares no collections")
	}
	if err := ctx.Err(); err != nil {
		return classify(err)
	}

	if !readOnly {
		select {
		case s.writer <- struct{}{}:
			defer func() { <-s.writer }()
		case <-ctx.Done():
			return fmt.Errorf("waiting for writer: %w", classify(ctx.Err()))
		}
	}

	sqlTx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", classify(err))
	}
	defer sqlTx.Rollback()

	tx := &Tx{
		ctx:      ctx,
		tx:       sqlTx,
		scope:    make(map[string]bool, len(collections)),
		readOnly: readOnly,
	}
	for _, c := range collections {
		tx.scope[c.Name] = true
	}

	if err := work(tx); err != nil {
		return err
	}

	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", classify(err))
	}
	return nil
}

// Stats returns the row count of every collection table.
func (s *SQLiteStore) Stats(ctx context.Context) (map[string]int, error) {
	stats := make(map[string]int, 4)
	for _, c := range []*Collection{Users, Tasks, Milestones, Sessions} {
		var n int
		if err := s.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM "+c.Name); err != nil {
			return nil, fmt.Errorf("counting %s: %w", c.Name, classify(err))
		}
		stats[c.Name] = n
	}
	return stats, nil
}
