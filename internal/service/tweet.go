package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"github.com/andy11223386/akashicConnect/internal/feed"
	"github.com/andy11223386/akashicConnect/internal/model"
	"github.com/andy11223386/akashicConnect/internal/repository"
)

// TweetService creates tweets, serves assembled read views and applies
// like/retweet toggles.
type TweetService struct {
	tweets    repository.TweetRepository
	authors   feed.AuthorLookup
	assembler *feed.Assembler
	publisher EngagementPublisher
}

func NewTweetService(
	tweets repository.TweetRepository,
	authors feed.AuthorLookup,
	assembler *feed.Assembler,
	publisher EngagementPublisher,
) *TweetService {
	return &TweetService{
		tweets:    tweets,
		authors:   authors,
		assembler: assembler,
		publisher: publisher,
	}
}

// Create posts a tweet as actor.
func (s *TweetService) Create(ctx context.Context, actor string, req model.CreateTweetRequest) (*model.Tweet, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, model.NewValidationError("content", "is required")
	}
	if utf8.RuneCountInString(content) > model.MaxTweetLength {
		return nil, model.ErrTweetContentLength
	}

	tweet := &model.Tweet{
		CreatedAt: time.Now().UTC(),
		Username:  actor,
		Content:   content,
		ImageURL:  req.ImageURL,
	}
	if err := s.tweets.Create(ctx, tweet); err != nil {
		return nil, fmt.Errorf("create tweet: %w", err)
	}

	log.Info().Str("component", "TweetService").Str("tweet", tweet.ID).Str("username", actor).Msg("tweet created")
	return tweet, nil
}

// Get returns the assembled tweet and records a view. viewer may be empty.
func (s *TweetService) Get(ctx context.Context, id, viewer string) (*model.EnrichedTweet, error) {
	view, err := s.assembler.FetchTweet(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.publisher != nil {
		if _, err := s.publisher.PublishTweetViewed(ctx, id, viewer); err != nil {
			log.Warn().Str("component", "TweetService").Str("tweet", id).Err(err).Msg("view event not published")
		}
	}
	return view, nil
}

// List returns every tweet, assembled and newest first.
func (s *TweetService) List(ctx context.Context) ([]model.EnrichedTweet, error) {
	tweets, err := s.tweets.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tweets: %w", err)
	}
	return s.assembler.AssembleFeed(ctx, tweets, nil)
}

// ListByUser returns username's tweets, or model.ErrNoTweets when there are none.
func (s *TweetService) ListByUser(ctx context.Context, username string) ([]model.EnrichedTweet, error) {
	tweets, err := s.tweets.ListByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("list tweets of %s: %w", username, err)
	}

	views, err := s.assembler.AssembleFeed(ctx, tweets, nil)
	if err != nil {
		return nil, err
	}
	if len(views) == 0 {
		return nil, model.ErrNoTweets
	}
	return views, nil
}

// History resolves a batch of tweet ids, skipping unknown ones.
func (s *TweetService) History(ctx context.Context, ids []string) ([]model.EnrichedTweet, error) {
	return s.assembler.FetchHistory(ctx, ids)
}

// Thread returns the assembled comment thread of a tweet.
func (s *TweetService) Thread(ctx context.Context, id string) ([]model.EnrichedComment, error) {
	tweet, err := s.tweets.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.assembler.AssembleThread(ctx, tweet.ID, tweet.Comments)
}

// ToggleEngagement flips actor's like or retweet on a tweet. The tweet must
// exist and actor must be a registered user.
func (s *TweetService) ToggleEngagement(ctx context.Context, kind feed.Kind, tweetID, actor string) (*model.EngagementResult, error) {
	tweet, err := s.tweets.GetByID(ctx, tweetID)
	if err != nil {
		return nil, err
	}
	if _, err := s.authors.GetByUsername(ctx, actor); err != nil {
		return nil, fmt.Errorf("engagement actor: %w", err)
	}

	_, wasAdded := feed.Toggle(kind.Members(tweet), actor)

	updated, err := s.tweets.MutateSet(ctx, tweetID, kind, feed.OpFor(wasAdded), actor)
	if err != nil {
		return nil, fmt.Errorf("toggle %s: %w", kind, err)
	}
	members := kind.Members(updated)

	if s.publisher != nil {
		if _, err := s.publisher.PublishTweetEngaged(ctx, tweetID, actor, string(kind), wasAdded); err != nil {
			log.Warn().Str("component", "TweetService").Str("tweet", tweetID).Err(err).Msg("engagement event not published")
		}
	}

	log.Debug().Str("component", "TweetService").Str("tweet", tweetID).Str("kind", string(kind)).
		Str("actor", actor).Bool("added", wasAdded).Msg("engagement toggled")

	return &model.EngagementResult{
		TweetID:  tweetID,
		Kind:     string(kind),
		Members:  members,
		Count:    len(members),
		WasAdded: wasAdded,
	}, nil
}
