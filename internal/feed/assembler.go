// Package feed assembles read views of tweets and comments and implements the
// like/retweet membership toggle. It depends only on the lookup interfaces
// below, so any record store can back it.
package feed

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/andy11223386/akashicConnect/internal/metrics"
	"github.com/andy11223386/akashicConnect/internal/model"
)

// DefaultConcurrency bounds parallel lookups per assembly step.
const DefaultConcurrency = 8

// TweetLookup resolves tweets by id. Absence is reported with an error
// wrapping model.ErrNotFound.
type TweetLookup interface {
	GetByID(ctx context.Context, id string) (*model.Tweet, error)
}

// CommentLookup resolves comments by id. Absence is reported with an error
// wrapping model.ErrNotFound.
type CommentLookup interface {
	GetByID(ctx context.Context, id string) (*model.Comment, error)
}

// AuthorLookup resolves users by username. Absence is reported with an error
// wrapping model.ErrNotFound.
type AuthorLookup interface {
	GetByUsername(ctx context.Context, username string) (*model.User, error)
}

// Options tunes an Assembler.
type Options struct {
	// Concurrency is the maximum number of in-flight lookups per fan-out.
	Concurrency int
}

// Assembler builds EnrichedTweet and EnrichedComment views. It holds no
// mutable state and is safe for concurrent use.
type Assembler struct {
	tweets      TweetLookup
	comments    CommentLookup
	authors     AuthorLookup
	concurrency int
}

// NewAssembler creates an Assembler over the given lookups.
func NewAssembler(tweets TweetLookup, comments CommentLookup, authors AuthorLookup, opts Options) *Assembler {
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	return &Assembler{
		tweets:      tweets,
		comments:    comments,
		authors:     authors,
		concurrency: opts.Concurrency,
	}
}

// AuthorMeta resolves the nickname and profile picture for username.
// A missing user yields an empty AuthorMeta (both fields nil), not an error.
func (a *Assembler) AuthorMeta(ctx context.Context, username string) (model.AuthorMeta, error) {
	user, err := a.authors.GetByUsername(ctx, username)
	if errors.Is(err, model.ErrNotFound) {
		metrics.OrphanedAuthors.Inc()
		log.Debug().Str("component", "Assembler").Str("username", username).Msg("author has no user record")
		return model.AuthorMeta{}, nil
	}
	if err != nil {
		return model.AuthorMeta{}, err
	}

	nickname := user.Nickname
	picture := user.ProfilePicture
	return model.AuthorMeta{
		Nickname:       &nickname,
		ProfilePicture: &picture,
	}, nil
}
