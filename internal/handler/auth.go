package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"timekeeper/internal/domain"
	"timekeeper/internal/service"
)

// AuthHandler handles authentication-related HTTP requests.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// HandleRegister processes a registration request.
// POST /auth/register
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username  string `json:"username"`
		Email     string `json:"email"`
		Password  string `json:"password"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.auth.Register(r.Context(), service.RegisterInput{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, "Missing required fields")
		case errors.Is(err, domain.ErrDuplicateUsername):
			writeError(w, http.StatusConflict, "Username already exists")
		case errors.Is(err, domain.ErrDuplicateEmail):
			writeError(w, http.StatusConflict, "Email already exists")
		default:
			slog.Error("register user", "error", err)
			writeError(w, http.StatusInternalServerError, "Registration failed")
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "User registered successfully",
		"user":    toUserDTO(user),
	})
}

// HandleLogin verifies credentials and issues an access/refresh token pair.
// POST /auth/login
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	tokens, user, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, "Missing username or password")
		case errors.Is(err, domain.ErrInvalidCredentials):
			writeError(w, http.StatusUnauthorized, "Invalid credentials")
		case errors.Is(err, domain.ErrAccountDisabled):
			writeError(w, http.StatusForbidden, "Account is disabled")
		default:
			slog.Error("login user", "error", err)
			writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":       "Login successful",
		"access_token":  tokens.AccessToken,
		"refresh_token": tokens.RefreshToken,
		"user":          toUserDTO(user),
	})
}

// HandleLogout revokes the presented access token.
// POST /auth/logout
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())

	if err := h.auth.Logout(r.Context(), claims); err != nil {
		slog.Error("logout user", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Logout successful"})
}

// HandleRefresh mints a new access token from a valid refresh token.
// POST /auth/refresh
func (h *AuthHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())

	access, err := h.auth.Refresh(r.Context(), claims)
	if err != nil {
		slog.Error("refresh access token", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"access_token": access})
}

// HandleMe returns the currently authenticated user.
// GET /auth/me
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())

	user, err := h.auth.GetUserByID(r.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		slog.Error("get current user", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	writeJSON(w, http.StatusOK, toUserDTO(user))
}
