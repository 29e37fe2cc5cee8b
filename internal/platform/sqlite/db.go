// Package sqlite provides the SQLite storage backend: connection setup,
// schema application and a transaction scope whose transaction travels in
// the context, mirroring the Spanner backend.
//
// The database runs in WAL mode with a single open connection. SQLite only
// ever has one writer, and holding the pool to one connection turns
// concurrent transactions into a queue instead of SQLITE_BUSY failures.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	// Register the pure-Go SQLite driver.
	_ "modernc.org/sqlite"
)

// Open opens (or creates) the SQLite database at path.
//
//	db, err := sqlite.Open("./data/bookstore.db")
func Open(path string) (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: ping %q: %w", path, err)
	}
	return db, nil
}

// ApplySchema runs each DDL script in order. Scripts must be idempotent
// (CREATE ... IF NOT EXISTS).
func ApplySchema(ctx context.Context, db *sql.DB, scripts ...string) error {
	for _, script := range scripts {
		if _, err := db.ExecContext(ctx, script); err != nil {
			return fmt.Errorf("sqlite: apply schema: %w", err)
		}
	}
	return nil
}
