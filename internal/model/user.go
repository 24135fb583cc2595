package model

import (
	"fmt"
	"time"
)

// User is a registered account.
type User struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	PasswordHash   string    `json:"-"` // "-" hides from JSON output
	Nickname       string    `json:"nickname"`
	ProfilePicture string    `json:"profilePicture"`
	ProfileKey     string    `json:"-"`
	Bio            string    `json:"bio"`
	CreatedAt      time.Time `json:"createdAt"`
	Followings     []string  `json:"-"`
	Followers      []string  `json:"-"`
}

// Profile is the public projection of a User.
type Profile struct {
	Username        string    `json:"username"`
	Nickname        string    `json:"nickname"`
	Bio             string    `json:"bio"`
	ProfilePicture  string    `json:"profilePicture"`
	CreatedAt       time.Time `json:"createdAt"`
	FollowingsCount int       `json:"followingsCount"`
	FollowersCount  int       `json:"followersCount"`
}

// ToProfile projects the user into its public profile.
func (u *User) ToProfile() Profile {
	return Profile{
		Username:        u.Username,
		Nickname:        u.Nickname,
		Bio:             u.Bio,
		ProfilePicture:  u.ProfilePicture,
		CreatedAt:       u.CreatedAt,
		FollowingsCount: len(u.Followings),
		FollowersCount:  len(u.Followers),
	}
}

// SignupRequest represents the data needed to register a new user
type SignupRequest struct {
	Username        string `json:"username" validate:"required,max=32"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
}

// LoginRequest represents the data needed to log in
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest carries a partial profile update. Nil fields are left untouched.
type UpdateProfileRequest struct {
	Nickname       *string `json:"nickname" validate:"omitempty,max=50"`
	Bio            *string `json:"bio" validate:"omitempty,max=160"`
	ProfilePicture *string `json:"profilePicture" validate:"omitempty,url"`
}

// IsEmpty reports whether the request changes nothing.
func (r UpdateProfileRequest) IsEmpty() bool {
	return r.Nickname == nil && r.Bio == nil && r.ProfilePicture == nil
}

var (
	// ErrUserNotFound is returned when a user cannot be found
	ErrUserNotFound = fmt.Errorf("user %w", ErrNotFound)

	// ErrUsernameOrEmailTaken is returned at signup when either unique field is in use
	ErrUsernameOrEmailTaken = fmt.Errorf("username or email already exists: %w", ErrConflict)

	// ErrInvalidCredentials is returned when login credentials are incorrect
	ErrInvalidCredentials = fmt.Errorf("username or password: %w", ErrCredentials)

	// ErrNotProfileOwner is returned when a user edits someone else's profile
	ErrNotProfileOwner = fmt.Errorf("not the owner of this profile: %w", ErrForbidden)

	// ErrPasswordMismatch is returned when password and confirmation differ
	ErrPasswordMismatch = NewValidationError("confirmPassword", "passwords do not match")
)
