package http

import (
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/andy11223386/akashicConnect/internal/handler"
)

const testSecret = "router-secret"

// newTestRouter builds the router with handlers whose services are never
// reached by the requests below.
func newTestRouter() stdhttp.Handler {
	return NewRouter(RouterConfig{
		AuthHandler:    handler.NewAuthHandler(nil, nil),
		UserHandler:    handler.NewUserHandler(nil, nil),
		TweetHandler:   handler.NewTweetHandler(nil),
		CommentHandler: handler.NewCommentHandler(nil),
		MediaHandler:   handler.NewMediaHandler(nil),
		JWTSecret:      testSecret,
	})
}

func bearer(t *testing.T) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  "u1",
		"username": "alice",
		"exp":      time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return "Bearer " + token
}

func TestRouter_Health(t *testing.T) {
	rec := httptest.NewRecorder()

	newTestRouter().ServeHTTP(rec, httptest.NewRequest(stdhttp.MethodGet, "/health", nil))

	if rec.Code != stdhttp.StatusOK || !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("status = %d body = %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_Metrics(t *testing.T) {
	rec := httptest.NewRecorder()

	newTestRouter().ServeHTTP(rec, httptest.NewRequest(stdhttp.MethodGet, "/metrics", nil))

	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "akashic_thread_dropped_comments_total") {
		t.Error("expected application metrics in exposition")
	}
}

func TestRouter_ProtectedRoutesRequireToken(t *testing.T) {
	routes := []struct {
		method string
		path   string
	}{
		{stdhttp.MethodPost, "/api/tweets"},
		{stdhttp.MethodPost, "/api/tweets/t1/like"},
		{stdhttp.MethodPost, "/api/tweets/t1/retweet"},
		{stdhttp.MethodPatch, "/api/users/alice"},
		{stdhttp.MethodPut, "/api/users/alice/avatar"},
		{stdhttp.MethodPost, "/api/media/tweets/presign"},
	}

	router := newTestRouter()
	for _, rt := range routes {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, httptest.NewRequest(rt.method, rt.path, nil))

			if rec.Code != stdhttp.StatusUnauthorized {
				t.Errorf("status = %d, want 401", rec.Code)
			}
		})
	}
}

func TestRouter_MediaDisabled(t *testing.T) {
	req := httptest.NewRequest(stdhttp.MethodPost, "/api/media/tweets/presign", strings.NewReader(`{"content_type":"image/png"}`))
	req.Header.Set("Authorization", bearer(t))
	rec := httptest.NewRecorder()

	newTestRouter().ServeHTTP(rec, req)

	if rec.Code != stdhttp.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}

func TestRouter_UnknownRoute(t *testing.T) {
	rec := httptest.NewRecorder()

	newTestRouter().ServeHTTP(rec, httptest.NewRequest(stdhttp.MethodGet, "/api/posts", nil))

	if rec.Code != stdhttp.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
