package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"timekeeper/internal/repository/sqlite/migrations"

	_ "modernc.org/sqlite"
)

// DB wraps a SQLite connection and hands out repository implementations.
type DB struct {
	SqlDB *sql.DB
}

// New opens a SQLite database at the given path and configures it for use.
// It enables WAL mode and foreign key enforcement.
func New(dbPath string) (*DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// WAL for better concurrent read performance.
	if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	// Foreign keys drive the cascade deletes from users and projects to
	// time entries; they are off by default in SQLite.
	if _, err := db.ExecContext(context.Background(), "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	// SQLite allows a single writer; serialize through one connection.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &DB{SqlDB: db}, nil
}

// Migrate applies any unapplied schema migrations.
func (d *DB) Migrate(ctx context.Context) error {
	return migrations.Run(ctx, d.SqlDB)
}

// Close closes the underlying database connection.
func (d *DB) Close() error {
	return d.SqlDB.Close()
}

// Ping verifies the database connection is alive.
func (d *DB) Ping(ctx context.Context) error {
	return d.SqlDB.PingContext(ctx)
}

// Users returns the user repository.
func (d *DB) Users() *UserRepository {
	return NewUserRepository(d)
}

// Projects returns the project repository.
func (d *DB) Projects() *ProjectRepository {
	return NewProjectRepository(d)
}

// Entries returns the time entry repository.
func (d *DB) Entries() *TimeEntryRepository {
	return NewTimeEntryRepository(d)
}

// RevokedTokens returns the token blocklist repository.
func (d *DB) RevokedTokens() *RevokedTokenRepository {
	return NewRevokedTokenRepository(d)
}
