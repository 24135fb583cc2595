package feed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/andy11223386/akashicConnect/internal/metrics"
	"github.com/andy11223386/akashicConnect/internal/model"
)

// AssembleThread resolves commentIDs (in reply order) into enriched comments.
//
// Ids whose comment record is missing, or whose record belongs to another
// tweet, are dropped without reordering the rest. Authors without a user
// record produce nil metadata. Lookups run concurrently; the output order is
// always the input order of the surviving comments. Any other lookup failure
// aborts the assembly.
func (a *Assembler) AssembleThread(ctx context.Context, tweetID string, commentIDs []string) ([]model.EnrichedComment, error) {
	start := time.Now()
	defer metrics.ObserveAssembly("thread", start)

	slots := make([]*model.EnrichedComment, len(commentIDs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)
	for i, id := range commentIDs {
		g.Go(func() error {
			enriched, err := a.resolveComment(gctx, tweetID, id)
			if err != nil {
				return err
			}
			slots[i] = enriched
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("assemble thread %s: %w", tweetID, err)
	}

	thread := make([]model.EnrichedComment, 0, len(slots))
	for _, s := range slots {
		if s != nil {
			thread = append(thread, *s)
		}
	}

	if dropped := len(commentIDs) - len(thread); dropped > 0 {
		metrics.DroppedComments.Add(float64(dropped))
		log.Debug().Str("component", "Assembler").Str("tweet", tweetID).Int("dropped", dropped).
			Msg("thread assembled with unresolved comments")
	}

	return thread, nil
}

// resolveComment returns nil, nil for a comment that should be dropped.
func (a *Assembler) resolveComment(ctx context.Context, tweetID, commentID string) (*model.EnrichedComment, error) {
	comment, err := a.comments.GetByID(ctx, commentID)
	if errors.Is(err, model.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get comment %s: %w", commentID, err)
	}
	if comment.ReplyPostID != tweetID {
		log.Warn().Str("component", "Assembler").Str("tweet", tweetID).Str("comment", commentID).
			Str("replyPostId", comment.ReplyPostID).Msg("comment id attached to the wrong tweet")
		return nil, nil
	}

	meta, err := a.AuthorMeta(ctx, comment.Username)
	if err != nil {
		return nil, fmt.Errorf("get author %s: %w", comment.Username, err)
	}

	return &model.EnrichedComment{
		Comment:    *comment,
		AuthorMeta: meta,
	}, nil
}
