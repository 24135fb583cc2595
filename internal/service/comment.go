package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"github.com/andy11223386/akashicConnect/internal/model"
	"github.com/andy11223386/akashicConnect/internal/repository"
)

type CommentService struct {
	commentRepo repository.CommentRepository
	tweetRepo   repository.TweetRepository
	publisher   EngagementPublisher
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	tweetRepo repository.TweetRepository,
	publisher EngagementPublisher,
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		tweetRepo:   tweetRepo,
		publisher:   publisher,
	}
}

// Create adds a comment to req.ReplyPostID. An empty actor posts as
// model.AnonymousUsername. The comment is inserted first and then appended to
// the tweet; the two writes are not atomic, and a comment whose append failed
// is simply never reachable from the tweet.
func (s *CommentService) Create(ctx context.Context, actor string, req model.CreateCommentRequest) (*model.Comment, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, model.NewValidationError("content", "is required")
	}
	if utf8.RuneCountInString(content) > model.MaxCommentLength {
		return nil, model.ErrCommentContentLength
	}
	if req.ReplyPostID == "" {
		return nil, model.NewValidationError("replyPostId", "is required")
	}
	if actor == "" {
		actor = model.AnonymousUsername
	}

	tweet, err := s.tweetRepo.GetByID(ctx, req.ReplyPostID)
	if err != nil {
		return nil, err
	}

	var replyTo *string
	if req.ReplyTo != nil && *req.ReplyTo != "" {
		parent, err := s.commentRepo.GetByID(ctx, *req.ReplyTo)
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.ErrReplyOutsideTweet
		}
		if err != nil {
			return nil, fmt.Errorf("get parent comment: %w", err)
		}
		if parent.ReplyPostID != tweet.ID {
			return nil, model.ErrReplyOutsideTweet
		}
		replyTo = &parent.ID
	}

	comment := &model.Comment{
		ReplyPostID: tweet.ID,
		ReplyTo:     replyTo,
		CreatedAt:   time.Now().UTC(),
		Username:    actor,
		Content:     content,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	if err := s.tweetRepo.AppendComment(ctx, tweet.ID, comment.ID); err != nil {
		return nil, fmt.Errorf("attach comment %s: %w", comment.ID, err)
	}

	log.Info().Str("component", "CommentService").Str("tweet", tweet.ID).Str("comment", comment.ID).
		Str("username", actor).Msg("comment created")

	if s.publisher != nil {
		parentID := ""
		if replyTo != nil {
			parentID = *replyTo
		}
		if _, err := s.publisher.PublishCommentCreated(ctx, tweet.ID, comment.ID, parentID, actor); err != nil {
			log.Warn().Str("component", "CommentService").Str("comment", comment.ID).Err(err).Msg("comment event not published")
		}
	}

	return comment, nil
}
