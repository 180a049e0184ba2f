package dto

import (
	"time"

	"github.com/spec-kit/magazine-service/internal/domain"
)

// RegisterRequest payload.
type RegisterRequest struct {
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Name     string      `json:"name"`
	Role     domain.Role `json:"role,omitempty"`
}

// LoginRequest payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest payload.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// ForgotPasswordRequest payload.
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest payload.
type ResetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// VerifyEmailRequest payload.
type VerifyEmailRequest struct {
	Token string `json:"token"`
}

// TokenPairResponse carries freshly issued credentials.
type TokenPairResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// UserResponse is the public view of a user. The password hash and the
// pending verification and reset tokens never leave the server.
type UserResponse struct {
	ID            string      `json:"id"`
	Email         string      `json:"email"`
	Name          string      `json:"name"`
	Role          domain.Role `json:"role"`
	EmailVerified bool        `json:"emailVerified"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

// LoginResponse bundles tokens with the authenticated user.
type LoginResponse struct {
	Tokens TokenPairResponse `json:"tokens"`
	User   UserResponse      `json:"user"`
}

// NewTokenPairResponse maps domain credentials.
func NewTokenPairResponse(pair domain.TokenPair) TokenPairResponse {
	return TokenPairResponse{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken}
}

// NewUserResponse maps a user to its public view.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:            user.ID,
		Email:         user.Email,
		Name:          user.Name,
		Role:          user.Role,
		EmailVerified: user.EmailVerified,
		CreatedAt:     user.CreatedAt,
		UpdatedAt:     user.UpdatedAt,
	}
}
