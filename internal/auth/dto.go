package auth

import (
	"github.com/google/uuid"
	"github.com/shadowgallery/shadowgallery-backend/pkg/db/models"
	"github.com/shadowgallery/shadowgallery-backend/pkg/enums"
)

// RegisterRequest is the storefront sign-up payload.
type RegisterRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required"`
	DisplayName string `json:"display_name"`
}

// LoginRequest carries sign-in credentials.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest rotates a session.
type RefreshRequest struct {
	AccessToken  string `json:"access_token" validate:"required"`
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// ResetRequest starts a password reset for the given email.
type ResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetConfirmRequest completes a password reset.
type ResetConfirmRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required"`
}

// UpdateProfileRequest edits the caller's display name and photo.
type UpdateProfileRequest struct {
	DisplayName string  `json:"display_name"`
	PhotoURL    *string `json:"photo_url"`
}

// UpdateEmailRequest changes the caller's sign-in email. The current password
// is required as reauthentication.
type UpdateEmailRequest struct {
	NewEmail string `json:"new_email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdatePasswordRequest rotates the caller's password.
type UpdatePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required"`
}

// UserSummary is the public shape of a user record.
type UserSummary struct {
	ID          uuid.UUID      `json:"id"`
	Email       string         `json:"email"`
	DisplayName string         `json:"display_name"`
	PhotoURL    *string        `json:"photo_url,omitempty"`
	Role        enums.UserRole `json:"role"`
}

// FromModel converts a persisted user into its public shape.
func FromModel(user *models.User) UserSummary {
	return UserSummary{
		ID:          user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		PhotoURL:    user.PhotoURL,
		Role:        user.Role,
	}
}

// AuthResponse is returned by every token-issuing operation.
type AuthResponse struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	User         UserSummary `json:"user"`
}
