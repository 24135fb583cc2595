package model

import (
	"fmt"
	"time"
)

const (
	MaxProfilePictureBytes = 5 * 1024 * 1024
	ProfilePictureWidth    = 200
	ProfilePictureHeight   = 200
	ProfilePictureFolder   = "avatars"
	ProfilePictureExt      = ".jpg"
	ProfilePictureCache    = "public, max-age=31536000" // 1 year

	MaxTweetImageBytes = 10 * 1024 * 1024
	TweetImageFolder   = "tweets"
	PresignExpiry      = 15 * time.Minute
)

// Supported image content types for upload validation
const (
	ContentTypeJPEG = "image/jpeg"
	ContentTypePNG  = "image/png"
	ContentTypeGIF  = "image/gif"
	ContentTypeWebP = "image/webp"
)

var imageExtensions = map[string]string{
	ContentTypeJPEG: ".jpg",
	ContentTypePNG:  ".png",
	ContentTypeGIF:  ".gif",
	ContentTypeWebP: ".webp",
}

// Error codes for HTTP responses
const (
	CodeFileTooLarge     = "FILE_TOO_LARGE"
	CodeInvalidImageType = "INVALID_IMAGE_TYPE"
)

var (
	ErrFileTooLarge     = NewValidationError("file", "file too large")
	ErrInvalidImageType = NewValidationError("content_type", "unsupported image type")
	ErrMediaDisabled    = fmt.Errorf("media storage is not configured: %w", ErrStoreUnavailable)
)

// UploadResult is the location of an uploaded object.
// Key is the bucket object key, kept for later deletes.
type UploadResult struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

// PresignTweetImageRequest requests a presigned URL for a direct tweet image upload.
// The client PUTs bytes to UploadURL, then sends PublicURL as imageUrl on POST /api/tweets.
type PresignTweetImageRequest struct {
	ContentType string `json:"content_type" validate:"required"`
	FileSize    int64  `json:"file_size" validate:"gte=0"`
}

// PresignTweetImageResponse returns upload details for a direct upload.
type PresignTweetImageResponse struct {
	UploadURL  string `json:"upload_url"`
	PublicURL  string `json:"public_url"`
	Key        string `json:"key"`
	ExpiresInS int    `json:"expires_in"`
}

// ImageExtension returns the file extension for a supported content type.
func ImageExtension(contentType string) (string, bool) {
	ext, ok := imageExtensions[contentType]
	return ext, ok
}
