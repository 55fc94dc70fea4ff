package domain

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrDuplicateUsername  = errors.New("username already exists")
	ErrDuplicateEmail     = errors.New("email already exists")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDisabled    = errors.New("account is disabled")
	ErrTokenMissing       = errors.New("authorization token is missing")
	ErrTokenExpired       = errors.New("token has expired")
	ErrTokenMalformed     = errors.New("invalid token")
	ErrTokenRevoked       = errors.New("token has been revoked")
)
