package feed

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/andy11223386/akashicConnect/internal/model"
)

// =============================================================================
// IN-MEMORY LOOKUPS
// =============================================================================

type fakeTweets struct {
	mu     sync.Mutex
	byID   map[string]*model.Tweet
	failOn map[string]error
	calls  []string
}

func (f *fakeTweets) GetByID(_ context.Context, id string) (*model.Tweet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, id)

	if err, ok := f.failOn[id]; ok {
		return nil, err
	}
	t, ok := f.byID[id]
	if !ok {
		return nil, model.ErrTweetNotFound
	}
	cp := *t
	return &cp, nil
}

type fakeComments struct {
	byID   map[string]*model.Comment
	failOn map[string]error
	// delay lets tests finish lookups out of order.
	delay func(id string) time.Duration
}

func (f *fakeComments) GetByID(ctx context.Context, id string) (*model.Comment, error) {
	if f.delay != nil {
		select {
		case <-time.After(f.delay(id)):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err, ok := f.failOn[id]; ok {
		return nil, err
	}
	c, ok := f.byID[id]
	if !ok {
		return nil, model.ErrCommentNotFound
	}
	cp := *c
	return &cp, nil
}

type fakeAuthors struct {
	byName map[string]*model.User
	failOn map[string]error
}

func (f *fakeAuthors) GetByUsername(_ context.Context, username string) (*model.User, error) {
	if err, ok := f.failOn[username]; ok {
		return nil, err
	}
	u, ok := f.byName[username]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

// =============================================================================
// FIXTURES
// =============================================================================

func newUsers(names ...string) map[string]*model.User {
	users := make(map[string]*model.User, len(names))
	for _, n := range names {
		users[n] = &model.User{
			ID:             "id-" + n,
			Username:       n,
			Nickname:       "Nick " + n,
			ProfilePicture: "https://cdn.example.com/" + n + ".jpg",
		}
	}
	return users
}

func commentOn(tweetID, id, author string) *model.Comment {
	return &model.Comment{
		ID:          id,
		ReplyPostID: tweetID,
		Username:    author,
		Content:     fmt.Sprintf("reply %s", id),
	}
}

var baseTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func tweetAt(id, author string, offset time.Duration, commentIDs ...string) *model.Tweet {
	return &model.Tweet{
		ID:        id,
		Username:  author,
		Content:   "tweet " + id,
		CreatedAt: baseTime.Add(offset),
		Comments:  commentIDs,
	}
}
