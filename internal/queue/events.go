package queue

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event types for the engagement stream
const (
	EventTweetViewed    = "tweet_viewed"
	EventTweetEngaged   = "tweet_engaged"
	EventCommentCreated = "comment_created"
)

// Stream names
const (
	StreamEngagement = "stream:engagement"
)

// Consumer group name for engagement workers
const (
	ConsumerGroupEngagement = "engagement_workers"
)

// EngagementEvent is published after a read or write that has deferred side
// effects. Fields irrelevant to Type are left empty.
type EngagementEvent struct {
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"` // Unix seconds

	TweetID  string `json:"tweet_id"`
	Username string `json:"username,omitempty"`

	// TweetEngaged
	Kind     string `json:"kind,omitempty"`
	WasAdded bool   `json:"was_added,omitempty"`

	// CommentCreated
	CommentID string `json:"comment_id,omitempty"`
	ParentID  string `json:"parent_id,omitempty"`
}

// NewTweetViewedEvent records a read of a single tweet. The worker applies the
// view increment.
func NewTweetViewedEvent(tweetID, viewer string) EngagementEvent {
	return EngagementEvent{
		Type:      EventTweetViewed,
		Timestamp: time.Now().Unix(),
		TweetID:   tweetID,
		Username:  viewer,
	}
}

func NewTweetEngagedEvent(tweetID, actor, kind string, wasAdded bool) EngagementEvent {
	return EngagementEvent{
		Type:      EventTweetEngaged,
		Timestamp: time.Now().Unix(),
		TweetID:   tweetID,
		Username:  actor,
		Kind:      kind,
		WasAdded:  wasAdded,
	}
}

// NewCommentCreatedEvent records a new comment. When parentID is set the
// worker bumps the parent's reply counter.
func NewCommentCreatedEvent(tweetID, commentID, parentID, author string) EngagementEvent {
	return EngagementEvent{
		Type:      EventCommentCreated,
		Timestamp: time.Now().Unix(),
		TweetID:   tweetID,
		Username:  author,
		CommentID: commentID,
		ParentID:  parentID,
	}
}

// ToMap converts the event to XADD field-value pairs. The payload is JSON in
// the "data" field.
func (e EngagementEvent) ToMap() (map[string]interface{}, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return map[string]interface{}{
		"type": e.Type,
		"data": string(data),
	}, nil
}

// ParseEngagementEvent parses an event from Redis stream message values.
func ParseEngagementEvent(values map[string]interface{}) (EngagementEvent, error) {
	data, ok := values["data"].(string)
	if !ok {
		return EngagementEvent{}, fmt.Errorf("missing or invalid 'data' field")
	}

	var event EngagementEvent
	if err := json.Unmarshal([]byte(data), &event); err != nil {
		return EngagementEvent{}, fmt.Errorf("unmarshal event: %w", err)
	}
	return event, nil
}
