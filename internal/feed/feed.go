package feed

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/andy11223386/akashicConnect/internal/metrics"
	"github.com/andy11223386/akashicConnect/internal/model"
)

// Filter selects tweets before enrichment. A nil Filter keeps everything.
type Filter func(t model.Tweet) bool

// ByAuthor keeps tweets posted by username.
func ByAuthor(username string) Filter {
	return func(t model.Tweet) bool {
		return t.Username == username
	}
}

// SortByRecency orders tweets newest first. Tweets with equal CreatedAt keep
// their relative order.
func SortByRecency(tweets []model.Tweet) {
	slices.SortStableFunc(tweets, func(x, y model.Tweet) int {
		return y.CreatedAt.Compare(x.CreatedAt)
	})
}

// AssembleFeed filters tweets, orders them newest first and enriches each one
// with author metadata and its assembled thread. The caller's slice is not
// modified.
func (a *Assembler) AssembleFeed(ctx context.Context, tweets []model.Tweet, filter Filter) ([]model.EnrichedTweet, error) {
	start := time.Now()
	defer metrics.ObserveAssembly("feed", start)

	var selected []model.Tweet
	if filter == nil {
		selected = slices.Clone(tweets)
	} else {
		selected = lo.Filter(tweets, func(t model.Tweet, _ int) bool {
			return filter(t)
		})
	}
	SortByRecency(selected)

	views := make([]model.EnrichedTweet, len(selected))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)
	for i := range selected {
		g.Go(func() error {
			view, err := a.enrichTweet(gctx, selected[i])
			if err != nil {
				return err
			}
			views[i] = view
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("assemble feed: %w", err)
	}

	return views, nil
}

// FetchTweet returns the enriched view of a single tweet, or an error
// wrapping model.ErrNotFound when it does not exist.
func (a *Assembler) FetchTweet(ctx context.Context, id string) (*model.EnrichedTweet, error) {
	tweet, err := a.tweets.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	view, err := a.enrichTweet(ctx, *tweet)
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// FetchHistory resolves a batch of tweet ids into enriched views ordered by
// recency. Unknown ids are dropped; model.ErrNoTweets is returned only when
// none of the ids resolves. Repeated ids are fetched once.
func (a *Assembler) FetchHistory(ctx context.Context, ids []string) ([]model.EnrichedTweet, error) {
	start := time.Now()
	defer metrics.ObserveAssembly("history", start)

	ids = lo.Uniq(ids)
	slots := make([]*model.Tweet, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)
	for i, id := range ids {
		g.Go(func() error {
			tweet, err := a.tweets.GetByID(gctx, id)
			if errors.Is(err, model.ErrNotFound) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("get tweet %s: %w", id, err)
			}
			slots[i] = tweet
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("fetch history: %w", err)
	}

	found := make([]model.Tweet, 0, len(slots))
	for _, t := range slots {
		if t != nil {
			found = append(found, *t)
		}
	}
	if len(found) == 0 {
		return nil, model.ErrNoTweets
	}

	return a.AssembleFeed(ctx, found, nil)
}

func (a *Assembler) enrichTweet(ctx context.Context, tweet model.Tweet) (model.EnrichedTweet, error) {
	meta, err := a.AuthorMeta(ctx, tweet.Username)
	if err != nil {
		return model.EnrichedTweet{}, fmt.Errorf("get author %s: %w", tweet.Username, err)
	}

	thread, err := a.AssembleThread(ctx, tweet.ID, tweet.Comments)
	if err != nil {
		return model.EnrichedTweet{}, err
	}

	return model.EnrichedTweet{
		Tweet:      tweet,
		AuthorMeta: meta,
		Thread:     thread,
	}, nil
}
