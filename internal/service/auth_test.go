package service_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timekeeper/internal/domain"
	"timekeeper/internal/repository/sqlite"
	"timekeeper/internal/service"
)

const testJWTSecret = "test-secret-key-for-unit-tests-0123456789"

func newTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := sqlite.New(dbPath)
	require.NoError(t, err)
	require.NoError(t, db.Migrate(context.Background()))
	t.Cleanup(func() { db.Close() })
	return db
}

// Bcrypt cost 4 keeps the tests fast.
func newTestAuthService(t *testing.T, db *sqlite.DB) *service.AuthService {
	t.Helper()
	return service.NewAuthService(db.Users(), db.RevokedTokens(),
		testJWTSecret, time.Hour, 30*24*time.Hour, 4)
}

func registerTestUser(t *testing.T, auth *service.AuthService, username string) *domain.User {
	t.Helper()
	user, err := auth.Register(context.Background(), service.RegisterInput{
		Username: username,
		Email:    username + "@example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	return user
}

func TestAuthService_Register(t *testing.T) {
	auth := newTestAuthService(t, newTestDB(t))
	ctx := context.Background()

	user, err := auth.Register(ctx, service.RegisterInput{
		Username:  "alice",
		Email:     "alice@example.com",
		Password:  "password123",
		FirstName: "Alice",
		LastName:  "Smith",
	})
	require.NoError(t, err)

	assert.NotZero(t, user.ID)
	assert.True(t, user.IsActive)
	assert.NotEqual(t, "password123", user.PasswordHash)
}

func TestAuthService_Register_MissingFields(t *testing.T) {
	auth := newTestAuthService(t, newTestDB(t))

	_, err := auth.Register(context.Background(), service.RegisterInput{Username: "noemail"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAuthService_Register_Duplicates(t *testing.T) {
	auth := newTestAuthService(t, newTestDB(t))
	ctx := context.Background()

	registerTestUser(t, auth, "dup")

	_, err := auth.Register(ctx, service.RegisterInput{
		Username: "dup", Email: "new@example.com", Password: "pw",
	})
	assert.ErrorIs(t, err, domain.ErrDuplicateUsername)

	_, err = auth.Register(ctx, service.RegisterInput{
		Username: "fresh", Email: "dup@example.com", Password: "pw",
	})
	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)
}

func TestAuthService_Login(t *testing.T) {
	auth := newTestAuthService(t, newTestDB(t))
	ctx := context.Background()

	registered := registerTestUser(t, auth, "bob")

	tokens, user, err := auth.Login(ctx, "bob", "password123")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)
	assert.NotEqual(t, tokens.AccessToken, tokens.RefreshToken)

	claims, err := auth.ValidateToken(ctx, tokens.AccessToken, service.TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, claims.UserID)
	assert.NotEmpty(t, claims.JTI)
}

func TestAuthService_Login_BadCredentials(t *testing.T) {
	auth := newTestAuthService(t, newTestDB(t))
	ctx := context.Background()

	registerTestUser(t, auth, "carol")

	_, _, err := auth.Login(ctx, "carol", "wrong")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, _, err = auth.Login(ctx, "nobody", "password123")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, _, err = auth.Login(ctx, "", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAuthService_Login_DisabledAccount(t *testing.T) {
	db := newTestDB(t)
	auth := newTestAuthService(t, db)
	ctx := context.Background()

	user := registerTestUser(t, auth, "dave")

	// Disable the account directly.
	_, err := db.SqlDB.ExecContext(ctx, "UPDATE users SET is_active = 0 WHERE id = ?", user.ID)
	require.NoError(t, err)

	_, _, err = auth.Login(ctx, "dave", "password123")
	assert.ErrorIs(t, err, domain.ErrAccountDisabled)
}

func TestAuthService_ValidateToken_WrongType(t *testing.T) {
	auth := newTestAuthService(t, newTestDB(t))
	ctx := context.Background()

	registerTestUser(t, auth, "erin")
	tokens, _, err := auth.Login(ctx, "erin", "password123")
	require.NoError(t, err)

	// A refresh token is not accepted where an access token is expected,
	// and vice versa.
	_, err = auth.ValidateToken(ctx, tokens.RefreshToken, service.TokenTypeAccess)
	assert.ErrorIs(t, err, domain.ErrTokenMalformed)

	_, err = auth.ValidateToken(ctx, tokens.AccessToken, service.TokenTypeRefresh)
	assert.ErrorIs(t, err, domain.ErrTokenMalformed)
}

func TestAuthService_ValidateToken_Garbage(t *testing.T) {
	auth := newTestAuthService(t, newTestDB(t))

	_, err := auth.ValidateToken(context.Background(), "not.a.token", service.TokenTypeAccess)
	assert.ErrorIs(t, err, domain.ErrTokenMalformed)
}

func TestAuthService_ValidateToken_Expired(t *testing.T) {
	db := newTestDB(t)
	// Negative TTL issues tokens that are already expired.
	auth := service.NewAuthService(db.Users(), db.RevokedTokens(),
		testJWTSecret, -time.Minute, -time.Minute, 4)
	ctx := context.Background()

	registerTestUser(t, auth, "frank")
	tokens, _, err := auth.Login(ctx, "frank", "password123")
	require.NoError(t, err)

	_, err = auth.ValidateToken(ctx, tokens.AccessToken, service.TokenTypeAccess)
	assert.ErrorIs(t, err, domain.ErrTokenExpired)
}

func TestAuthService_Logout_RevokesToken(t *testing.T) {
	auth := newTestAuthService(t, newTestDB(t))
	ctx := context.Background()

	registerTestUser(t, auth, "grace")
	tokens, _, err := auth.Login(ctx, "grace", "password123")
	require.NoError(t, err)

	claims, err := auth.ValidateToken(ctx, tokens.AccessToken, service.TokenTypeAccess)
	require.NoError(t, err)

	require.NoError(t, auth.Logout(ctx, claims))

	// The exact token is rejected even though it has not expired.
	_, err = auth.ValidateToken(ctx, tokens.AccessToken, service.TokenTypeAccess)
	assert.ErrorIs(t, err, domain.ErrTokenRevoked)

	// The refresh token carries a different jti and stays valid.
	_, err = auth.ValidateToken(ctx, tokens.RefreshToken, service.TokenTypeRefresh)
	assert.NoError(t, err)
}

func TestAuthService_Refresh(t *testing.T) {
	auth := newTestAuthService(t, newTestDB(t))
	ctx := context.Background()

	user := registerTestUser(t, auth, "heidi")
	tokens, _, err := auth.Login(ctx, "heidi", "password123")
	require.NoError(t, err)

	refreshClaims, err := auth.ValidateToken(ctx, tokens.RefreshToken, service.TokenTypeRefresh)
	require.NoError(t, err)

	access, err := auth.Refresh(ctx, refreshClaims)
	require.NoError(t, err)

	claims, err := auth.ValidateToken(ctx, access, service.TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)

	// Refresh does not rotate or revoke the refresh token.
	_, err = auth.ValidateToken(ctx, tokens.RefreshToken, service.TokenTypeRefresh)
	assert.NoError(t, err)
}
