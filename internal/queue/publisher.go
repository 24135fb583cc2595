package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/andy11223386/akashicConnect/internal/metrics"
)

// Publisher defines the interface for publishing events to a stream.
type Publisher interface {
	// Publish adds an event to the stream and returns the Redis message ID.
	Publish(ctx context.Context, stream string, event EngagementEvent) (messageID string, err error)
}

// RedisPublisher implements Publisher using Redis Streams.
type RedisPublisher struct {
	client *redis.Client
	maxLen int64
}

// DefaultStreamMaxLen caps the stream length (approximate trimming).
const DefaultStreamMaxLen = 100000

// NewPublisher creates a new Publisher backed by Redis Streams.
func NewPublisher(client *redis.Client) *RedisPublisher {
	return &RedisPublisher{client: client, maxLen: DefaultStreamMaxLen}
}

// Publish adds an event to the stream using XADD with an auto-generated ID.
func (p *RedisPublisher) Publish(ctx context.Context, stream string, event EngagementEvent) (string, error) {
	startTime := time.Now()

	values, err := event.ToMap()
	if err != nil {
		return "", fmt.Errorf("serialize event: %w", err)
	}

	messageID, err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		MaxLen: p.maxLen,
		Approx: true,
		Values: values,
	}).Result()
	if err != nil {
		metrics.EngagementEvents.WithLabelValues(event.Type, "publish_failed").Inc()
		log.Error().Str("component", "Publisher").Str("stream", stream).Str("type", event.Type).Err(err).Msg("publish failed")
		return "", fmt.Errorf("xadd to stream: %w", err)
	}

	metrics.EngagementEvents.WithLabelValues(event.Type, "published").Inc()
	log.Debug().Str("component", "Publisher").Str("stream", stream).Str("type", event.Type).
		Str("msgID", messageID).Str("tweet", event.TweetID).Dur("duration", time.Since(startTime)).Msg("published")
	return messageID, nil
}

// PublishTweetViewed publishes a view of tweetID on the engagement stream.
func (p *RedisPublisher) PublishTweetViewed(ctx context.Context, tweetID, viewer string) (string, error) {
	return p.Publish(ctx, StreamEngagement, NewTweetViewedEvent(tweetID, viewer))
}

func (p *RedisPublisher) PublishTweetEngaged(ctx context.Context, tweetID, actor, kind string, wasAdded bool) (string, error) {
	return p.Publish(ctx, StreamEngagement, NewTweetEngagedEvent(tweetID, actor, kind, wasAdded))
}

func (p *RedisPublisher) PublishCommentCreated(ctx context.Context, tweetID, commentID, parentID, author string) (string, error) {
	return p.Publish(ctx, StreamEngagement, NewCommentCreatedEvent(tweetID, commentID, parentID, author))
}
