package service

import "context"

// EngagementPublisher publishes deferred engagement side effects. A nil
// publisher disables them; publish failures never fail the request.
type EngagementPublisher interface {
	PublishTweetViewed(ctx context.Context, tweetID, viewer string) (string, error)
	PublishTweetEngaged(ctx context.Context, tweetID, actor, kind string, wasAdded bool) (string, error)
	PublishCommentCreated(ctx context.Context, tweetID, commentID, parentID, author string) (string, error)
}

// AuthorInvalidator drops cached author metadata after a user record changes.
type AuthorInvalidator interface {
	Invalidate(ctx context.Context, username string) error
}
