package handler

import (
	"context"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/andy11223386/akashicConnect/internal/feed"
	"github.com/andy11223386/akashicConnect/internal/model"
	"github.com/andy11223386/akashicConnect/internal/transport/http/middleware"
)

// =============================================================================
// MOCK SERVICES
// =============================================================================

type mockAccounts struct {
	signupFn func(ctx context.Context, req *model.SignupRequest) (*model.User, error)
	loginFn  func(ctx context.Context, req *model.LoginRequest) (*model.User, error)
}

func (m *mockAccounts) Signup(ctx context.Context, req *model.SignupRequest) (*model.User, error) {
	return m.signupFn(ctx, req)
}

func (m *mockAccounts) Login(ctx context.Context, req *model.LoginRequest) (*model.User, error) {
	return m.loginFn(ctx, req)
}

type mockTokens struct {
	refreshFn func(ctx context.Context, raw string) (*model.TokenPair, *model.User, error)
	revokeFn  func(ctx context.Context, raw string) error
}

func (m *mockTokens) GenerateTokenPair(ctx context.Context, user *model.User, deviceInfo, ipAddress string) (*model.TokenPair, error) {
	return &model.TokenPair{AccessToken: "access-" + user.Username, RefreshToken: "refresh", ExpiresIn: 3600}, nil
}

func (m *mockTokens) RefreshTokens(ctx context.Context, raw, deviceInfo, ipAddress string) (*model.TokenPair, *model.User, error) {
	return m.refreshFn(ctx, raw)
}

func (m *mockTokens) RevokeRefreshToken(ctx context.Context, raw string) error {
	return m.revokeFn(ctx, raw)
}

type mockProfiles struct {
	getFn    func(ctx context.Context, username string) (*model.Profile, error)
	updateFn func(ctx context.Context, actor, username string, req model.UpdateProfileRequest) (*model.Profile, error)
	setFn    func(ctx context.Context, actor, username string, upload *model.UploadResult) (*model.Profile, string, error)
}

func (m *mockProfiles) GetProfile(ctx context.Context, username string) (*model.Profile, error) {
	return m.getFn(ctx, username)
}

func (m *mockProfiles) CheckOwner(actor, username string) error {
	if actor != username {
		return model.ErrNotProfileOwner
	}
	return nil
}

func (m *mockProfiles) UpdateProfile(ctx context.Context, actor, username string, req model.UpdateProfileRequest) (*model.Profile, error) {
	return m.updateFn(ctx, actor, username, req)
}

func (m *mockProfiles) SetProfilePicture(ctx context.Context, actor, username string, upload *model.UploadResult) (*model.Profile, string, error) {
	return m.setFn(ctx, actor, username, upload)
}

type mockTweets struct {
	createFn     func(ctx context.Context, actor string, req model.CreateTweetRequest) (*model.Tweet, error)
	getFn        func(ctx context.Context, id, viewer string) (*model.EnrichedTweet, error)
	listFn       func(ctx context.Context) ([]model.EnrichedTweet, error)
	listByUserFn func(ctx context.Context, username string) ([]model.EnrichedTweet, error)
	historyFn    func(ctx context.Context, ids []string) ([]model.EnrichedTweet, error)
	threadFn     func(ctx context.Context, id string) ([]model.EnrichedComment, error)
	toggleFn     func(ctx context.Context, kind feed.Kind, tweetID, actor string) (*model.EngagementResult, error)
}

func (m *mockTweets) Create(ctx context.Context, actor string, req model.CreateTweetRequest) (*model.Tweet, error) {
	return m.createFn(ctx, actor, req)
}

func (m *mockTweets) Get(ctx context.Context, id, viewer string) (*model.EnrichedTweet, error) {
	return m.getFn(ctx, id, viewer)
}

func (m *mockTweets) List(ctx context.Context) ([]model.EnrichedTweet, error) {
	return m.listFn(ctx)
}

func (m *mockTweets) ListByUser(ctx context.Context, username string) ([]model.EnrichedTweet, error) {
	return m.listByUserFn(ctx, username)
}

func (m *mockTweets) History(ctx context.Context, ids []string) ([]model.EnrichedTweet, error) {
	return m.historyFn(ctx, ids)
}

func (m *mockTweets) Thread(ctx context.Context, id string) ([]model.EnrichedComment, error) {
	return m.threadFn(ctx, id)
}

func (m *mockTweets) ToggleEngagement(ctx context.Context, kind feed.Kind, tweetID, actor string) (*model.EngagementResult, error) {
	return m.toggleFn(ctx, kind, tweetID, actor)
}

type mockComments struct {
	createFn func(ctx context.Context, actor string, req model.CreateCommentRequest) (*model.Comment, error)
}

func (m *mockComments) Create(ctx context.Context, actor string, req model.CreateCommentRequest) (*model.Comment, error) {
	return m.createFn(ctx, actor, req)
}

type mockMedia struct {
	uploadFn  func(ctx context.Context, file io.Reader, header *multipart.FileHeader) (*model.UploadResult, error)
	presignFn func(ctx context.Context, actor string, req model.PresignTweetImageRequest) (*model.PresignTweetImageResponse, error)
	deleted   []string
}

func (m *mockMedia) UploadProfilePicture(ctx context.Context, file io.Reader, header *multipart.FileHeader) (*model.UploadResult, error) {
	return m.uploadFn(ctx, file, header)
}

func (m *mockMedia) PresignTweetImage(ctx context.Context, actor string, req model.PresignTweetImageRequest) (*model.PresignTweetImageResponse, error) {
	return m.presignFn(ctx, actor, req)
}

func (m *mockMedia) DeleteObject(ctx context.Context, key string) error {
	if key != "" {
		m.deleted = append(m.deleted, key)
	}
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

// asUser attaches an authenticated identity the way the auth middleware does.
func asUser(username string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), middleware.UserIDKey, "id-"+username)
			ctx = context.WithValue(ctx, middleware.UsernameKey, username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// route mounts h on a chi router so URL params resolve, optionally as actor.
func route(method, pattern string, h http.HandlerFunc, actor string) http.Handler {
	r := chi.NewRouter()
	if actor != "" {
		r.Use(asUser(actor))
	}
	r.Method(method, pattern, h)
	return r
}
