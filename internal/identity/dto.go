package identity

import (
	"github.com/google/uuid"

	"github.com/kiranakart/kiranakart-backend/pkg/db/models"
)

// RegisterRequest carries a new account submission.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	FullName string `json:"full_name" validate:"required,max=120"`
}

// LoginRequest carries a credential check submission.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserSummary is the caller-safe projection of a user row.
type UserSummary struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	FullName string    `json:"full_name"`
}

// AuthResponse is returned by both register and login.
type AuthResponse struct {
	User         UserSummary `json:"user"`
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	ExpiresIn    int         `json:"expires_in"`
}

// RefreshResponse carries a rotated token pair.
type RefreshResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

func summarize(user *models.User) UserSummary {
	return UserSummary{
		ID:       user.ID,
		Email:    user.Email,
		FullName: user.FullName,
	}
}
