package model

import (
	"fmt"
	"time"
)

// Tweet is a root post. Comments holds comment ids in reply order; Likes and
// Retweets hold usernames and never contain duplicates.
type Tweet struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	Username  string    `json:"username"`
	Content   string    `json:"content"`
	ImageURL  *string   `json:"imageUrl,omitempty"`
	Comments  []string  `json:"comments"`
	Likes     []string  `json:"likes"`
	Retweets  []string  `json:"retweets"`
	Views     int64     `json:"views"`
}

// AuthorMeta is the denormalized author data attached to read views.
// Both fields are nil when the author has no User record.
type AuthorMeta struct {
	Nickname       *string `json:"nickname"`
	ProfilePicture *string `json:"profilePicture"`
}

// EnrichedTweet is a read projection of a Tweet with its author metadata and
// assembled comment thread. It is never persisted.
type EnrichedTweet struct {
	Tweet
	AuthorMeta
	Thread []EnrichedComment `json:"thread"`
}

// CreateTweetRequest is the request body for creating a tweet.
type CreateTweetRequest struct {
	Content  string  `json:"content" validate:"required"`
	ImageURL *string `json:"imageUrl" validate:"omitempty,url"`
}

// HistoryRequest is the request body for a batch fetch of tweets by id.
type HistoryRequest struct {
	IDs []string `json:"ids" validate:"max=100,dive,required"`
}

// EngagementResult reports the outcome of a like or retweet toggle.
type EngagementResult struct {
	TweetID  string   `json:"tweetId"`
	Kind     string   `json:"kind"`
	Members  []string `json:"members"`
	Count    int      `json:"count"`
	WasAdded bool     `json:"wasAdded"`
}

// Tweet constraints
const (
	MaxTweetLength = 280
)

// Tweet errors
var (
	ErrTweetNotFound      = fmt.Errorf("tweet %w", ErrNotFound)
	ErrNoTweets           = fmt.Errorf("no tweets found: %w", ErrEmptyResult)
	ErrTweetContentLength = NewValidationError("content", fmt.Sprintf("must be at most %d characters", MaxTweetLength))
)
