package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/andy11223386/akashicConnect/internal/config"
	"github.com/andy11223386/akashicConnect/internal/model"
)

// objectStore is the subset of *s3.Client used for uploads.
type objectStore interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type putPresigner interface {
	PresignPutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// MediaService handles profile picture uploads and presigned tweet image
// uploads on Cloudflare R2.
type MediaService struct {
	store     objectStore
	presigner putPresigner
	bucket    string
	publicURL string
}

// NewMediaService constructs an S3-compatible client for Cloudflare R2.
// It returns model.ErrMediaDisabled when R2 is not configured.
func NewMediaService(ctx context.Context, cfg *config.Config) (*MediaService, error) {
	if !cfg.MediaEnabled() {
		return nil, model.ErrMediaDisabled
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(
		ctx,
		awsconfig.WithRegion("auto"),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.R2AccessKeyID, cfg.R2SecretAccessKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config for R2: %w", err)
	}

	endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.R2AccountID)
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	})

	return newMediaService(client, s3.NewPresignClient(client), cfg.R2BucketName, cfg.R2PublicURL), nil
}

func newMediaService(store objectStore, presigner putPresigner, bucket, publicURL string) *MediaService {
	return &MediaService{
		store:     store,
		presigner: presigner,
		bucket:    bucket,
		publicURL: strings.TrimSuffix(publicURL, "/"),
	}
}

// UploadProfilePicture enforces size and type, normalizes to a 200x200 JPEG
// and uploads it.
func (s *MediaService) UploadProfilePicture(ctx context.Context, file io.Reader, header *multipart.FileHeader) (*model.UploadResult, error) {
	data, err := readAndValidateImage(file, header, model.MaxProfilePictureBytes)
	if err != nil {
		return nil, err
	}

	jpegBytes, err := resizeToJPEG(data, model.ProfilePictureWidth, model.ProfilePictureHeight, 85)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("%s/%s%s", model.ProfilePictureFolder, uuid.NewString(), model.ProfilePictureExt)
	if err := s.putObject(ctx, key, jpegBytes, model.ContentTypeJPEG, model.ProfilePictureCache); err != nil {
		return nil, err
	}

	return &model.UploadResult{URL: s.objectURL(key), Key: key}, nil
}

// PresignTweetImage returns a presigned PUT for a direct tweet image upload.
// The client then sends PublicURL as imageUrl when creating the tweet.
func (s *MediaService) PresignTweetImage(ctx context.Context, actor string, req model.PresignTweetImageRequest) (*model.PresignTweetImageResponse, error) {
	ext, ok := model.ImageExtension(req.ContentType)
	if !ok {
		return nil, model.ErrInvalidImageType
	}
	if req.FileSize > model.MaxTweetImageBytes {
		return nil, model.ErrFileTooLarge
	}

	key := fmt.Sprintf("%s/%s/%s%s", model.TweetImageFolder, actor, uuid.NewString(), ext)
	presigned, err := s.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(req.ContentType),
	}, s3.WithPresignExpires(model.PresignExpiry))
	if err != nil {
		return nil, model.NewStoreError("presign tweet image", err)
	}

	return &model.PresignTweetImageResponse{
		UploadURL:  presigned.URL,
		PublicURL:  s.objectURL(key),
		Key:        key,
		ExpiresInS: int(model.PresignExpiry.Seconds()),
	}, nil
}

// DeleteObject removes an object by key. An empty key is a no-op.
func (s *MediaService) DeleteObject(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	_, err := s.store.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return model.NewStoreError("delete object", err)
	}
	log.Debug().Str("component", "MediaService").Str("key", key).Msg("object deleted")
	return nil
}

func (s *MediaService) objectURL(key string) string {
	return fmt.Sprintf("%s/%s", s.publicURL, key)
}

// readAndValidateImage loads the upload into memory with size and type checks.
func readAndValidateImage(file io.Reader, header *multipart.FileHeader, maxSize int64) ([]byte, error) {
	if header.Size > maxSize {
		return nil, model.ErrFileTooLarge
	}

	data, err := io.ReadAll(io.LimitReader(file, maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > maxSize {
		return nil, model.ErrFileTooLarge
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" && len(data) > 0 {
		contentType = http.DetectContentType(data[:min(len(data), 512)])
	}
	if idx := strings.Index(contentType, ";"); idx != -1 {
		contentType = strings.TrimSpace(contentType[:idx])
	}
	if _, ok := model.ImageExtension(contentType); !ok {
		return nil, model.ErrInvalidImageType
	}

	return data, nil
}

// resizeToJPEG center-crops to the target size and encodes as JPEG.
func resizeToJPEG(data []byte, width, height, quality int) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, model.NewValidationError("file", "not a decodable image")
	}

	resized := imaging.Fill(img, width, height, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("failed to encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *MediaService) putObject(ctx context.Context, key string, body []byte, contentType, cacheControl string) error {
	_, err := s.store.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(s.bucket),
		Key:          aws.String(key),
		Body:         bytes.NewReader(body),
		ContentType:  aws.String(contentType),
		CacheControl: aws.String(cacheControl),
	})
	if err != nil {
		return model.NewStoreError("upload to r2", err)
	}
	return nil
}
