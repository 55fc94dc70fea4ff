package domain

import (
	"context"
	"time"
)

// RevokedTokenRepository is the shared blocklist of token identifiers that
// are no longer honored. Rows become purgeable once the token they name
// would have expired anyway.
type RevokedTokenRepository interface {
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}
