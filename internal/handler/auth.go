package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/andy11223386/akashicConnect/internal/httputil"
	"github.com/andy11223386/akashicConnect/internal/model"
)

// AuthHandler groups auth-related HTTP endpoints and their dependencies.
type AuthHandler struct {
	accounts AccountService
	tokens   TokenService
}

// NewAuthHandler wires dependencies for authentication endpoints.
func NewAuthHandler(accounts AccountService, tokens TokenService) *AuthHandler {
	return &AuthHandler{
		accounts: accounts,
		tokens:   tokens,
	}
}

// Signup registers a user and logs them in.
// POST /api/auth/signup
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req model.SignupRequest
	if err := httputil.DecodeAndValidate(w, r, &req); err != nil {
		httputil.WriteServiceError(w, err)
		return
	}

	user, err := h.accounts.Signup(r.Context(), &req)
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}

	h.writeSession(w, r, http.StatusCreated, user)
}

// Login handles user login
// POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := httputil.DecodeAndValidate(w, r, &req); err != nil {
		httputil.WriteServiceError(w, err)
		return
	}

	user, err := h.accounts.Login(r.Context(), &req)
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}

	h.writeSession(w, r, http.StatusOK, user)
}

// Refresh rotates a refresh token into a new pair.
// POST /api/auth/refresh
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req model.RefreshRequest
	if err := httputil.DecodeAndValidate(w, r, &req); err != nil {
		httputil.WriteServiceError(w, err)
		return
	}

	tokenPair, _, err := h.tokens.RefreshTokens(r.Context(), req.RefreshToken, r.Header.Get("User-Agent"), clientIP(r))
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, tokenPair)
}

// Logout handles user logout
// POST /api/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req model.RefreshRequest
	if err := httputil.DecodeAndValidate(w, r, &req); err != nil {
		httputil.WriteServiceError(w, err)
		return
	}

	err := h.tokens.RevokeRefreshToken(r.Context(), req.RefreshToken)
	// Unknown tokens still log out successfully.
	if err != nil && !errors.Is(err, model.ErrRefreshTokenNotFound) {
		httputil.WriteServiceError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Logged out successfully",
	})
}

func (h *AuthHandler) writeSession(w http.ResponseWriter, r *http.Request, status int, user *model.User) {
	tokenPair, err := h.tokens.GenerateTokenPair(r.Context(), user, r.Header.Get("User-Agent"), clientIP(r))
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}

	httputil.WriteJSON(w, status, model.AuthResponse{
		Profile:   user.ToProfile(),
		TokenPair: *tokenPair,
	})
}

// clientIP extracts the client IP from the request
func clientIP(r *http.Request) string {
	// Check X-Forwarded-For header (for proxied requests)
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return strings.TrimSpace(strings.Split(xff, ",")[0])
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	// RemoteAddr is "IP:port"
	addr := r.RemoteAddr
	if idx := strings.LastIndex(addr, ":"); idx != -1 {
		return addr[:idx]
	}
	return addr
}
