package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/andy11223386/akashicConnect/internal/metrics"
	"github.com/andy11223386/akashicConnect/internal/model"
	"github.com/andy11223386/akashicConnect/internal/queue"
)

// ViewCounter applies deferred tweet view increments.
type ViewCounter interface {
	IncrementViews(ctx context.Context, tweetID string, delta int64) error
}

// ReplyCounter maintains the reply counter of parent comments.
type ReplyCounter interface {
	IncrementReplies(ctx context.Context, commentID string, delta int64) error
}

// Handler processes engagement events from the queue.
type Handler struct {
	views   ViewCounter
	replies ReplyCounter
}

// NewHandler creates a new event handler.
func NewHandler(views ViewCounter, replies ReplyCounter) *Handler {
	return &Handler{views: views, replies: replies}
}

// HandleEvent routes an event by type. Events that reference records which no
// longer exist are treated as handled.
func (h *Handler) HandleEvent(ctx context.Context, event queue.EngagementEvent) error {
	startTime := time.Now()
	var err error

	switch event.Type {
	case queue.EventTweetViewed:
		err = h.handleTweetViewed(ctx, event)
	case queue.EventTweetEngaged:
		h.handleTweetEngaged(event)
	case queue.EventCommentCreated:
		err = h.handleCommentCreated(ctx, event)
	default:
		metrics.EngagementEvents.WithLabelValues(event.Type, "unknown").Inc()
		return fmt.Errorf("unknown event type: %s", event.Type)
	}

	if errors.Is(err, model.ErrNotFound) {
		log.Debug().Str("component", "Worker").Str("type", event.Type).Str("tweet", event.TweetID).Err(err).
			Msg("event target no longer exists")
		err = nil
	}
	if err != nil {
		metrics.EngagementEvents.WithLabelValues(event.Type, "failed").Inc()
		return err
	}

	metrics.EngagementEvents.WithLabelValues(event.Type, "handled").Inc()
	log.Debug().Str("component", "Worker").Str("type", event.Type).Dur("duration", time.Since(startTime)).Msg("event handled")
	return nil
}

func (h *Handler) handleTweetViewed(ctx context.Context, event queue.EngagementEvent) error {
	if err := h.views.IncrementViews(ctx, event.TweetID, 1); err != nil {
		return fmt.Errorf("increment views: %w", err)
	}
	return nil
}

// handleTweetEngaged only records metrics; membership is already persisted
// synchronously by the toggle.
func (h *Handler) handleTweetEngaged(event queue.EngagementEvent) {
	metrics.IncToggle(event.Kind, event.WasAdded)
}

func (h *Handler) handleCommentCreated(ctx context.Context, event queue.EngagementEvent) error {
	if event.ParentID == "" {
		return nil
	}
	if err := h.replies.IncrementReplies(ctx, event.ParentID, 1); err != nil {
		return fmt.Errorf("increment replies of %s: %w", event.ParentID, err)
	}
	return nil
}
