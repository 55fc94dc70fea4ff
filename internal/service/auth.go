package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"timekeeper/internal/domain"
)

// Token types carried in the custom "type" claim. Access tokens authorize
// API calls; refresh tokens only mint new access tokens.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// TokenClaims is the validated identity extracted from a bearer token.
type TokenClaims struct {
	UserID    int64
	JTI       string
	Type      string
	ExpiresAt time.Time
}

type jwtClaims struct {
	Type string `json:"type"`
	jwt.RegisteredClaims
}

// TokenPair is the result of a successful login.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// AuthService handles registration, login, and JWT token lifecycle.
type AuthService struct {
	users      domain.UserRepository
	revoked    domain.RevokedTokenRepository
	jwtSecret  []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	bcryptCost int
}

// NewAuthService creates a new AuthService.
func NewAuthService(users domain.UserRepository, revoked domain.RevokedTokenRepository,
	jwtSecret string, accessTTL, refreshTTL time.Duration, bcryptCost int) *AuthService {
	return &AuthService{
		users:      users,
		revoked:    revoked,
		jwtSecret:  []byte(jwtSecret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		bcryptCost: bcryptCost,
	}
}

// RegisterInput carries the fields for creating a new account.
type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// Register creates a new active user account after validating inputs.
// The password is stored only as a bcrypt hash.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	if in.Username == "" || in.Email == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: username, email, and password are required", domain.ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		IsActive:     true,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Login verifies credentials and issues an access/refresh token pair.
func (s *AuthService) Login(ctx context.Context, username, password string) (*TokenPair, *domain.User, error) {
	if username == "" || password == "" {
		return nil, nil, fmt.Errorf("%w: missing username or password", domain.ErrInvalidInput)
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, domain.ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, domain.ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, nil, domain.ErrAccountDisabled
	}

	access, err := s.generateToken(user.ID, TokenTypeAccess, s.accessTTL)
	if err != nil {
		return nil, nil, fmt.Errorf("generate access token: %w", err)
	}
	refresh, err := s.generateToken(user.ID, TokenTypeRefresh, s.refreshTTL)
	if err != nil {
		return nil, nil, fmt.Errorf("generate refresh token: %w", err)
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, user, nil
}

// Logout revokes the presented token by recording its identifier in the
// blocklist until the token would have expired anyway.
func (s *AuthService) Logout(ctx context.Context, claims *TokenClaims) error {
	if err := s.revoked.Revoke(ctx, claims.JTI, claims.ExpiresAt); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}

	// Opportunistic cleanup; losing the purge is harmless.
	if n, err := s.revoked.PurgeExpired(ctx, time.Now()); err != nil {
		slog.Warn("purge expired revoked tokens", "error", err)
	} else if n > 0 {
		slog.Debug("purged expired revoked tokens", "count", n)
	}

	return nil
}

// Refresh mints a new access token for the subject of a validated refresh
// token. The refresh token itself is not rotated.
func (s *AuthService) Refresh(ctx context.Context, claims *TokenClaims) (string, error) {
	access, err := s.generateToken(claims.UserID, TokenTypeAccess, s.accessTTL)
	if err != nil {
		return "", fmt.Errorf("generate access token: %w", err)
	}
	return access, nil
}

// ValidateToken parses a token string, verifies signature and expiry,
// checks the blocklist, and requires the expected token type.
//
// Error mapping: ErrTokenExpired for expired, ErrTokenRevoked for
// blocklisted, ErrTokenMalformed for everything else invalid.
func (s *AuthService) ValidateToken(ctx context.Context, tokenString, expectedType string) (*TokenClaims, error) {
	claims := &jwtClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenMalformed
	}
	if !token.Valid {
		return nil, domain.ErrTokenMalformed
	}

	if claims.Type != expectedType {
		return nil, domain.ErrTokenMalformed
	}
	if claims.ID == "" || claims.ExpiresAt == nil {
		return nil, domain.ErrTokenMalformed
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return nil, domain.ErrTokenMalformed
	}

	revoked, err := s.revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return nil, domain.ErrTokenRevoked
	}

	return &TokenClaims{
		UserID:    userID,
		JTI:       claims.ID,
		Type:      claims.Type,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// GetUserByID retrieves a user by their ID.
func (s *AuthService) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *AuthService) generateToken(userID int64, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwtClaims{
		Type: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}
