package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/andy11223386/akashicConnect/internal/config"
	"github.com/andy11223386/akashicConnect/internal/model"
	"github.com/andy11223386/akashicConnect/internal/repository"
)

// Access token claim names
const (
	ClaimUserID   = "user_id"
	ClaimUsername = "username"
)

// AuthService issues access tokens and rotating refresh tokens with reuse
// detection.
type AuthService struct {
	refreshTokenRepo repository.RefreshTokenRepository
	userRepo         repository.UserRepository
	config           *config.Config
}

func NewAuthService(refreshTokenRepo repository.RefreshTokenRepository, userRepo repository.UserRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		refreshTokenRepo: refreshTokenRepo,
		userRepo:         userRepo,
		config:           cfg,
	}
}

// GenerateTokenPair issues a new access token and persists a refresh token.
func (s *AuthService) GenerateTokenPair(ctx context.Context, user *model.User, deviceInfo, ipAddress string) (*model.TokenPair, error) {
	pair, _, err := s.issue(ctx, user, deviceInfo, ipAddress)
	return pair, err
}

// RefreshTokens validates a refresh token and rotates it into a new pair.
// Presenting an already revoked token revokes every token of its owner.
func (s *AuthService) RefreshTokens(ctx context.Context, refreshTokenRaw, deviceInfo, ipAddress string) (*model.TokenPair, *model.User, error) {
	token, err := s.refreshTokenRepo.FindByTokenHash(ctx, hashToken(refreshTokenRaw))
	if err != nil {
		return nil, nil, err
	}

	if token.IsRevoked() {
		if err := s.refreshTokenRepo.RevokeAllForUser(ctx, token.UserID); err != nil {
			log.Error().Str("component", "AuthService").Str("user", token.UserID).Err(err).
				Msg("failed to revoke token family after reuse")
		} else {
			log.Warn().Str("component", "AuthService").Str("user", token.UserID).Msg("refresh token reuse, token family revoked")
		}
		return nil, nil, model.ErrRefreshTokenReused
	}
	if token.IsExpired() {
		return nil, nil, model.ErrRefreshTokenExpired
	}

	user, err := s.userRepo.GetByID(ctx, token.UserID)
	if errors.Is(err, model.ErrNotFound) {
		return nil, nil, model.ErrRefreshTokenNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("load token owner: %w", err)
	}

	pair, newToken, err := s.issue(ctx, user, deviceInfo, ipAddress)
	if err != nil {
		return nil, nil, err
	}

	if err := s.refreshTokenRepo.Revoke(ctx, token.ID, &newToken.ID); err != nil {
		log.Error().Str("component", "AuthService").Str("token", token.ID).Err(err).Msg("failed to revoke rotated refresh token")
	}

	return pair, user, nil
}

// RevokeRefreshToken is logout: the token is revoked without a replacement.
func (s *AuthService) RevokeRefreshToken(ctx context.Context, refreshTokenRaw string) error {
	token, err := s.refreshTokenRepo.FindByTokenHash(ctx, hashToken(refreshTokenRaw))
	if err != nil {
		return err
	}
	return s.refreshTokenRepo.Revoke(ctx, token.ID, nil)
}

// ParseAccessToken validates an HS256 access token and returns its subject.
func (s *AuthService) ParseAccessToken(tokenString string) (userID, username string, err error) {
	return ParseAccessToken(tokenString, s.config.JWTSecret)
}

// ParseAccessToken validates an HS256 access token signed with secret.
func ParseAccessToken(tokenString, secret string) (userID, username string, err error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", "", jwt.ErrTokenInvalidClaims
	}
	userID, _ = claims[ClaimUserID].(string)
	username, _ = claims[ClaimUsername].(string)
	if userID == "" || username == "" {
		return "", "", jwt.ErrTokenInvalidClaims
	}
	return userID, username, nil
}

func (s *AuthService) issue(ctx context.Context, user *model.User, deviceInfo, ipAddress string) (*model.TokenPair, *model.RefreshToken, error) {
	if s.config.JWTSecret == "" {
		return nil, nil, model.ErrMissingSecret
	}

	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshTokenRaw := uuid.New().String()
	refreshToken := &model.RefreshToken{
		UserID:    user.ID,
		TokenHash: hashToken(refreshTokenRaw),
		ExpiresAt: time.Now().Add(time.Duration(s.config.RefreshTokenMaxAge) * time.Second),
	}
	if deviceInfo != "" {
		refreshToken.DeviceInfo = &deviceInfo
	}
	if ipAddress != "" {
		refreshToken.IPAddress = &ipAddress
	}

	if err := s.refreshTokenRepo.Create(ctx, refreshToken); err != nil {
		return nil, nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &model.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshTokenRaw,
		ExpiresIn:    s.config.AccessTokenMaxAge,
	}, refreshToken, nil
}

func (s *AuthService) generateAccessToken(user *model.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		ClaimUserID:   user.ID,
		ClaimUsername: user.Username,
		"exp":         now.Add(time.Duration(s.config.AccessTokenMaxAge) * time.Second).Unix(),
		"iat":         now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}

func hashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}

// PruneExpired deletes refresh tokens that expired more than olderThan ago.
func (s *AuthService) PruneExpired(ctx context.Context, olderThan time.Duration) (int64, error) {
	n, err := s.refreshTokenRepo.DeleteExpired(ctx, olderThan)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		log.Info().Str("component", "AuthService").Int64("deleted", n).Msg("pruned expired refresh tokens")
	}
	return n, nil
}
