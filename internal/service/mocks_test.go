package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/andy11223386/akashicConnect/internal/feed"
	"github.com/andy11223386/akashicConnect/internal/model"
)

// =============================================================================
// MOCK REPOSITORIES
// =============================================================================
//
// Services depend on repository interfaces, so each test swaps in a mock whose
// behavior is set per test through function fields.

type mockUserRepository struct {
	createFn            func(ctx context.Context, user *model.User) error
	getByIDFn           func(ctx context.Context, id string) (*model.User, error)
	getByUsernameFn     func(ctx context.Context, username string) (*model.User, error)
	existsFn            func(ctx context.Context, username, email string) (bool, error)
	updateProfileFn     func(ctx context.Context, username string, req model.UpdateProfileRequest) (*model.User, error)
	setProfilePictureFn func(ctx context.Context, username, url, key string) (*model.User, error)

	createCalls []*model.User
	updateCalls []model.UpdateProfileRequest
}

func (m *mockUserRepository) Create(ctx context.Context, user *model.User) error {
	m.createCalls = append(m.createCalls, user)
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	user.ID = "64b000000000000000000001"
	return nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	if m.getByUsernameFn != nil {
		return m.getByUsernameFn(ctx, username)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, username, email)
	}
	return false, nil
}

func (m *mockUserRepository) UpdateProfile(ctx context.Context, username string, req model.UpdateProfileRequest) (*model.User, error) {
	m.updateCalls = append(m.updateCalls, req)
	if m.updateProfileFn != nil {
		return m.updateProfileFn(ctx, username, req)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepository) SetProfilePicture(ctx context.Context, username, url, key string) (*model.User, error) {
	if m.setProfilePictureFn != nil {
		return m.setProfilePictureFn(ctx, username, url, key)
	}
	return nil, model.ErrUserNotFound
}

type mutateCall struct {
	TweetID string
	Kind    feed.Kind
	Op      feed.SetOp
	Actor   string
}

type mockTweetRepository struct {
	createFn        func(ctx context.Context, tweet *model.Tweet) error
	getByIDFn       func(ctx context.Context, id string) (*model.Tweet, error)
	listFn          func(ctx context.Context) ([]model.Tweet, error)
	listByUserFn    func(ctx context.Context, username string) ([]model.Tweet, error)
	appendCommentFn func(ctx context.Context, tweetID, commentID string) error
	mutateSetFn     func(ctx context.Context, tweetID string, kind feed.Kind, op feed.SetOp, actor string) (*model.Tweet, error)

	createCalls []*model.Tweet
	appendCalls []string
	mutateCalls []mutateCall
}

func (m *mockTweetRepository) Create(ctx context.Context, tweet *model.Tweet) error {
	m.createCalls = append(m.createCalls, tweet)
	if m.createFn != nil {
		return m.createFn(ctx, tweet)
	}
	tweet.ID = "64c000000000000000000001"
	return nil
}

func (m *mockTweetRepository) GetByID(ctx context.Context, id string) (*model.Tweet, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, model.ErrTweetNotFound
}

func (m *mockTweetRepository) List(ctx context.Context) ([]model.Tweet, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func (m *mockTweetRepository) ListByUsername(ctx context.Context, username string) ([]model.Tweet, error) {
	if m.listByUserFn != nil {
		return m.listByUserFn(ctx, username)
	}
	return nil, nil
}

func (m *mockTweetRepository) AppendComment(ctx context.Context, tweetID, commentID string) error {
	m.appendCalls = append(m.appendCalls, commentID)
	if m.appendCommentFn != nil {
		return m.appendCommentFn(ctx, tweetID, commentID)
	}
	return nil
}

func (m *mockTweetRepository) MutateSet(ctx context.Context, tweetID string, kind feed.Kind, op feed.SetOp, actor string) (*model.Tweet, error) {
	m.mutateCalls = append(m.mutateCalls, mutateCall{TweetID: tweetID, Kind: kind, Op: op, Actor: actor})
	if m.mutateSetFn != nil {
		return m.mutateSetFn(ctx, tweetID, kind, op, actor)
	}
	return nil, model.ErrTweetNotFound
}

func (m *mockTweetRepository) IncrementViews(ctx context.Context, tweetID string, delta int64) error {
	return nil
}

type mockCommentRepository struct {
	createFn  func(ctx context.Context, comment *model.Comment) error
	getByIDFn func(ctx context.Context, id string) (*model.Comment, error)

	createCalls []*model.Comment
}

func (m *mockCommentRepository) Create(ctx context.Context, comment *model.Comment) error {
	m.createCalls = append(m.createCalls, comment)
	if m.createFn != nil {
		return m.createFn(ctx, comment)
	}
	comment.ID = "64d000000000000000000001"
	return nil
}

func (m *mockCommentRepository) GetByID(ctx context.Context, id string) (*model.Comment, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, model.ErrCommentNotFound
}

func (m *mockCommentRepository) IncrementReplies(ctx context.Context, id string, delta int64) error {
	return nil
}

// mockRefreshTokenRepository keeps tokens in memory keyed by hash.
type mockRefreshTokenRepository struct {
	mu          sync.Mutex
	byHash      map[string]*model.RefreshToken
	nextID      int
	revokeAll   []string
	findErr     error
	revokeCalls []string
}

func newMockRefreshTokenRepository() *mockRefreshTokenRepository {
	return &mockRefreshTokenRepository{byHash: make(map[string]*model.RefreshToken)}
}

func (m *mockRefreshTokenRepository) Create(ctx context.Context, token *model.RefreshToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	token.ID = fmt.Sprintf("tok-%d", m.nextID)
	token.CreatedAt = time.Now()
	m.byHash[token.TokenHash] = token
	return nil
}

func (m *mockRefreshTokenRepository) FindByTokenHash(ctx context.Context, tokenHash string) (*model.RefreshToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return nil, m.findErr
	}
	token, ok := m.byHash[tokenHash]
	if !ok {
		return nil, model.ErrRefreshTokenNotFound
	}
	copied := *token
	return &copied, nil
}

func (m *mockRefreshTokenRepository) Revoke(ctx context.Context, id string, replacedBy *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.revokeCalls = append(m.revokeCalls, id)
	now := time.Now()
	for _, token := range m.byHash {
		if token.ID == id {
			token.RevokedAt = &now
			token.ReplacedBy = replacedBy
		}
	}
	return nil
}

func (m *mockRefreshTokenRepository) RevokeAllForUser(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.revokeAll = append(m.revokeAll, userID)
	now := time.Now()
	for _, token := range m.byHash {
		if token.UserID == userID && token.RevokedAt == nil {
			token.RevokedAt = &now
		}
	}
	return nil
}

func (m *mockRefreshTokenRepository) DeleteExpired(ctx context.Context, olderThan time.Duration) (int64, error) {
	return 0, nil
}

// =============================================================================
// MOCK COLLABORATORS
// =============================================================================

type publishedEvent struct {
	Type     string
	TweetID  string
	Subject  string
	Kind     string
	WasAdded bool
	ParentID string
}

type mockPublisher struct {
	err    error
	events []publishedEvent
}

func (m *mockPublisher) PublishTweetViewed(ctx context.Context, tweetID, viewer string) (string, error) {
	m.events = append(m.events, publishedEvent{Type: "tweet_viewed", TweetID: tweetID, Subject: viewer})
	return "1-0", m.err
}

func (m *mockPublisher) PublishTweetEngaged(ctx context.Context, tweetID, actor, kind string, wasAdded bool) (string, error) {
	m.events = append(m.events, publishedEvent{Type: "tweet_engaged", TweetID: tweetID, Subject: actor, Kind: kind, WasAdded: wasAdded})
	return "1-0", m.err
}

func (m *mockPublisher) PublishCommentCreated(ctx context.Context, tweetID, commentID, parentID, author string) (string, error) {
	m.events = append(m.events, publishedEvent{Type: "comment_created", TweetID: tweetID, Subject: commentID, ParentID: parentID})
	return "1-0", m.err
}

type mockInvalidator struct {
	invalidated []string
}

func (m *mockInvalidator) Invalidate(ctx context.Context, username string) error {
	m.invalidated = append(m.invalidated, username)
	return nil
}

// mockAuthors resolves usernames from a fixed map.
type mockAuthors map[string]*model.User

func (m mockAuthors) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	if u, ok := m[username]; ok {
		return u, nil
	}
	return nil, model.ErrUserNotFound
}
