package repository

import (
	"context"
	"time"

	"github.com/andy11223386/akashicConnect/internal/feed"
	"github.com/andy11223386/akashicConnect/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	// ExistsByUsernameOrEmail reports whether either unique field is already taken.
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
	// UpdateProfile applies the non-nil fields of req and returns the updated user.
	UpdateProfile(ctx context.Context, username string, req model.UpdateProfileRequest) (*model.User, error)
	SetProfilePicture(ctx context.Context, username, url, key string) (*model.User, error)
}

type TweetRepository interface {
	Create(ctx context.Context, tweet *model.Tweet) error
	GetByID(ctx context.Context, id string) (*model.Tweet, error)
	List(ctx context.Context) ([]model.Tweet, error)
	ListByUsername(ctx context.Context, username string) ([]model.Tweet, error)
	// AppendComment pushes commentID onto the tweet's comment list.
	AppendComment(ctx context.Context, tweetID, commentID string) error
	// MutateSet atomically adds or removes actor from the kind's membership
	// set and returns the tweet as stored after the update.
	MutateSet(ctx context.Context, tweetID string, kind feed.Kind, op feed.SetOp, actor string) (*model.Tweet, error)
	IncrementViews(ctx context.Context, tweetID string, delta int64) error
}

type CommentRepository interface {
	Create(ctx context.Context, comment *model.Comment) error
	GetByID(ctx context.Context, id string) (*model.Comment, error)
	// IncrementReplies bumps the reply counter of a parent comment.
	IncrementReplies(ctx context.Context, id string, delta int64) error
}

type RefreshTokenRepository interface {
	Create(ctx context.Context, token *model.RefreshToken) error
	FindByTokenHash(ctx context.Context, tokenHash string) (*model.RefreshToken, error)
	Revoke(ctx context.Context, id string, replacedBy *string) error
	RevokeAllForUser(ctx context.Context, userID string) error
	DeleteExpired(ctx context.Context, olderThan time.Duration) (int64, error)
}
