package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// RevokedTokenRepository implements domain.RevokedTokenRepository using
// SQLite. Keeping the blocklist in the database (rather than in process
// memory) survives restarts and is shared by every instance pointed at the
// same file.
type RevokedTokenRepository struct {
	db *sql.DB
}

// NewRevokedTokenRepository creates a new SQLite-backed RevokedTokenRepository.
func NewRevokedTokenRepository(db *DB) *RevokedTokenRepository {
	return &RevokedTokenRepository{db: db.SqlDB}
}

func (r *RevokedTokenRepository) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO revoked_tokens (jti, expires_at, revoked_at) VALUES (?, ?, ?)
		 ON CONFLICT (jti) DO NOTHING`,
		jti, expiresAt.UTC(), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert revoked token: %w", err)
	}
	return nil
}

func (r *RevokedTokenRepository) IsRevoked(ctx context.Context, jti string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM revoked_tokens WHERE jti = ?`, jti,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("query revoked token: %w", err)
	}
	return count > 0, nil
}

// PurgeExpired drops blocklist rows for tokens that have expired on their
// own; they can no longer validate, so there is nothing left to revoke.
func (r *RevokedTokenRepository) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM revoked_tokens WHERE expires_at < ?`, now.UTC())
	if err != nil {
		return 0, fmt.Errorf("purge revoked tokens: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("get rows affected: %w", err)
	}
	return affected, nil
}
