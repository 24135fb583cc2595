package model

import (
	"fmt"
	"time"
)

// Comment is a reply attached to exactly one Tweet, optionally nested under
// another Comment of the same Tweet.
type Comment struct {
	ID          string    `json:"id"`
	ReplyPostID string    `json:"replyPostId"`
	ReplyTo     *string   `json:"replyTo,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	Username    string    `json:"username"`
	Content     string    `json:"content"`
	Comments    int64     `json:"comments"`
	Retweets    int64     `json:"retweets"`
	Likes       int64     `json:"likes"`
	Views       int64     `json:"views"`
}

// EnrichedComment is a Comment with its author metadata resolved.
type EnrichedComment struct {
	Comment
	AuthorMeta
}

// CreateCommentRequest is the request body for creating a comment.
type CreateCommentRequest struct {
	ReplyPostID string  `json:"replyPostId" validate:"required"`
	ReplyTo     *string `json:"replyTo"`
	Content     string  `json:"content" validate:"required"`
}

// Comment constraints
const (
	MaxCommentLength = 280

	// AnonymousUsername is recorded as the author of comments posted without a session.
	AnonymousUsername = "anonymous"
)

// Comment errors
var (
	ErrCommentNotFound      = fmt.Errorf("comment %w", ErrNotFound)
	ErrReplyOutsideTweet    = NewValidationError("replyTo", "parent comment does not belong to this tweet")
	ErrCommentContentLength = NewValidationError("content", fmt.Sprintf("must be at most %d characters", MaxCommentLength))
)
