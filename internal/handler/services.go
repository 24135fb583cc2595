package handler

import (
	"context"
	"io"
	"mime/multipart"

	"github.com/andy11223386/akashicConnect/internal/feed"
	"github.com/andy11223386/akashicConnect/internal/model"
)

// The interfaces below are the service methods each handler calls. They are
// satisfied by the concrete types in internal/service.

type AccountService interface {
	Signup(ctx context.Context, req *model.SignupRequest) (*model.User, error)
	Login(ctx context.Context, req *model.LoginRequest) (*model.User, error)
}

type TokenService interface {
	GenerateTokenPair(ctx context.Context, user *model.User, deviceInfo, ipAddress string) (*model.TokenPair, error)
	RefreshTokens(ctx context.Context, refreshTokenRaw, deviceInfo, ipAddress string) (*model.TokenPair, *model.User, error)
	RevokeRefreshToken(ctx context.Context, refreshTokenRaw string) error
}

type ProfileService interface {
	GetProfile(ctx context.Context, username string) (*model.Profile, error)
	CheckOwner(actor, username string) error
	UpdateProfile(ctx context.Context, actor, username string, req model.UpdateProfileRequest) (*model.Profile, error)
	SetProfilePicture(ctx context.Context, actor, username string, upload *model.UploadResult) (*model.Profile, string, error)
}

type TweetService interface {
	Create(ctx context.Context, actor string, req model.CreateTweetRequest) (*model.Tweet, error)
	Get(ctx context.Context, id, viewer string) (*model.EnrichedTweet, error)
	List(ctx context.Context) ([]model.EnrichedTweet, error)
	ListByUser(ctx context.Context, username string) ([]model.EnrichedTweet, error)
	History(ctx context.Context, ids []string) ([]model.EnrichedTweet, error)
	Thread(ctx context.Context, id string) ([]model.EnrichedComment, error)
	ToggleEngagement(ctx context.Context, kind feed.Kind, tweetID, actor string) (*model.EngagementResult, error)
}

type CommentService interface {
	Create(ctx context.Context, actor string, req model.CreateCommentRequest) (*model.Comment, error)
}

// MediaService is nil when object storage is not configured.
type MediaService interface {
	UploadProfilePicture(ctx context.Context, file io.Reader, header *multipart.FileHeader) (*model.UploadResult, error)
	PresignTweetImage(ctx context.Context, actor string, req model.PresignTweetImageRequest) (*model.PresignTweetImageResponse, error)
	DeleteObject(ctx context.Context, key string) error
}
