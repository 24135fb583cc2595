package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret"

func signToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  "u1",
		"username": "alice",
		"exp":      exp.Unix(),
	}).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return token
}

// identityHandler echoes the username found in the context.
var identityHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	username, _ := GetUsernameFromContext(r.Context())
	userID, _ := GetUserIDFromContext(r.Context())
	w.Header().Set("X-User", username)
	w.Header().Set("X-User-ID", userID)
	w.WriteHeader(http.StatusOK)
})

func TestAuthMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		setup      func(r *http.Request)
		wantStatus int
		wantUser   string
	}{
		{
			name:       "bearer header",
			setup:      func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+signToken(t, time.Now().Add(time.Hour))) },
			wantStatus: http.StatusOK,
			wantUser:   "alice",
		},
		{
			name: "cookie",
			setup: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: "access_token", Value: signToken(t, time.Now().Add(time.Hour))})
			},
			wantStatus: http.StatusOK,
			wantUser:   "alice",
		},
		{
			name:       "missing",
			setup:      func(r *http.Request) {},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "expired",
			setup:      func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+signToken(t, time.Now().Add(-time.Hour))) },
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "garbage",
			setup:      func(r *http.Request) { r.Header.Set("Authorization", "Bearer nope") },
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			tt.setup(req)
			rec := httptest.NewRecorder()

			AuthMiddleware(testSecret)(identityHandler).ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if got := rec.Header().Get("X-User"); got != tt.wantUser {
				t.Errorf("user = %q, want %q", got, tt.wantUser)
			}
		})
	}
}

func TestAuthMiddleware_ExpiredCode(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, time.Now().Add(-time.Hour)))
	rec := httptest.NewRecorder()

	AuthMiddleware(testSecret)(identityHandler).ServeHTTP(rec, req)

	if body := rec.Body.String(); !strings.Contains(body, "TOKEN_EXPIRED") {
		t.Errorf("body = %s, want TOKEN_EXPIRED code", body)
	}
}

func TestOptionalAuthMiddleware(t *testing.T) {
	// No token: anonymous pass-through.
	rec := httptest.NewRecorder()
	OptionalAuthMiddleware(testSecret)(identityHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK || rec.Header().Get("X-User") != "" {
		t.Errorf("anonymous: status %d user %q", rec.Code, rec.Header().Get("X-User"))
	}

	// Invalid token: still anonymous, not rejected.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer nope")
	rec = httptest.NewRecorder()
	OptionalAuthMiddleware(testSecret)(identityHandler).ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || rec.Header().Get("X-User") != "" {
		t.Errorf("invalid token: status %d user %q", rec.Code, rec.Header().Get("X-User"))
	}

	// Valid token: identity attached.
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, time.Now().Add(time.Hour)))
	rec = httptest.NewRecorder()
	OptionalAuthMiddleware(testSecret)(identityHandler).ServeHTTP(rec, req)
	if rec.Header().Get("X-User") != "alice" || rec.Header().Get("X-User-ID") != "u1" {
		t.Errorf("valid token: user %q id %q", rec.Header().Get("X-User"), rec.Header().Get("X-User-ID"))
	}
}

func TestRequestLogger_PassesThrough(t *testing.T) {
	h := RequestLogger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/brew", nil))

	if rec.Code != http.StatusTeapot {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusTeapot)
	}
}
