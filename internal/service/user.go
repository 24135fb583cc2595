package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/andy11223386/akashicConnect/internal/model"
	"github.com/andy11223386/akashicConnect/internal/repository"
)

// UserService handles business logic for user operations
type UserService struct {
	repo             repository.UserRepository
	authors          AuthorInvalidator
	defaultAvatarURL string
}

// NewUserService creates a UserService. authors may be nil when no author
// cache is in use.
func NewUserService(repo repository.UserRepository, authors AuthorInvalidator, defaultAvatarURL string) *UserService {
	return &UserService{
		repo:             repo,
		authors:          authors,
		defaultAvatarURL: defaultAvatarURL,
	}
}

// Signup creates a new account. Nickname and bio start empty.
func (s *UserService) Signup(ctx context.Context, req *model.SignupRequest) (*model.User, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if username == "" {
		return nil, model.NewValidationError("username", "is required")
	}
	// Comments posted without a session are attributed to this name.
	if strings.EqualFold(username, model.AnonymousUsername) {
		return nil, model.NewValidationError("username", "is reserved")
	}
	if req.Password != req.ConfirmPassword {
		return nil, model.ErrPasswordMismatch
	}

	exists, err := s.repo.ExistsByUsernameOrEmail(ctx, username, email)
	if err != nil {
		return nil, fmt.Errorf("check username or email: %w", err)
	}
	if exists {
		return nil, model.ErrUsernameOrEmailTaken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Username:       username,
		Email:          email,
		PasswordHash:   string(hashedPassword),
		ProfilePicture: s.defaultAvatarURL,
		CreatedAt:      time.Now().UTC(),
	}

	// The unique indexes still reject a concurrent signup that passed the check.
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	// The author cache may hold an "absent" entry for this username.
	s.invalidate(ctx, username)

	log.Info().Str("component", "UserService").Str("username", username).Msg("user signed up")
	return user, nil
}

// Login authenticates a user with username and password.
func (s *UserService) Login(ctx context.Context, req *model.LoginRequest) (*model.User, error) {
	user, err := s.repo.GetByUsername(ctx, req.Username)
	if errors.Is(err, model.ErrNotFound) {
		// Don't reveal whether the username exists
		return nil, model.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, model.ErrInvalidCredentials
	}
	return user, nil
}

// GetProfile returns the public profile of username.
func (s *UserService) GetProfile(ctx context.Context, username string) (*model.Profile, error) {
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	profile := user.ToProfile()
	return &profile, nil
}

// CheckOwner reports model.ErrNotProfileOwner unless actor is username.
func (s *UserService) CheckOwner(actor, username string) error {
	if actor == "" || actor != username {
		return model.ErrNotProfileOwner
	}
	return nil
}

// UpdateProfile changes nickname, bio or profile picture of the actor's own profile.
func (s *UserService) UpdateProfile(ctx context.Context, actor, username string, req model.UpdateProfileRequest) (*model.Profile, error) {
	if err := s.CheckOwner(actor, username); err != nil {
		return nil, err
	}
	if req.IsEmpty() {
		return nil, model.NewValidationError("", "nothing to update")
	}
	if req.Nickname != nil {
		trimmed := strings.TrimSpace(*req.Nickname)
		req.Nickname = &trimmed
	}

	user, err := s.repo.UpdateProfile(ctx, username, req)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	s.invalidate(ctx, username)

	profile := user.ToProfile()
	return &profile, nil
}

// SetProfilePicture stores an uploaded picture on the actor's profile and
// returns the new profile with the object key of the replaced picture, if
// any, so the caller can delete it.
func (s *UserService) SetProfilePicture(ctx context.Context, actor, username string, upload *model.UploadResult) (*model.Profile, string, error) {
	if err := s.CheckOwner(actor, username); err != nil {
		return nil, "", err
	}

	current, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, "", err
	}

	user, err := s.repo.SetProfilePicture(ctx, username, upload.URL, upload.Key)
	if err != nil {
		return nil, "", fmt.Errorf("set profile picture: %w", err)
	}
	s.invalidate(ctx, username)

	profile := user.ToProfile()
	return &profile, current.ProfileKey, nil
}

func (s *UserService) invalidate(ctx context.Context, username string) {
	if s.authors == nil {
		return
	}
	// Failure is logged by the cache; entries expire on their own.
	_ = s.authors.Invalidate(ctx, username)
}
