package handlers

import (
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/magazine-service/internal/api/dto"
	"github.com/spec-kit/magazine-service/internal/service"
	apperrors "github.com/spec-kit/magazine-service/pkg/util"
)

// AuthHandler manages registration, login and credential lifecycle endpoints.
type AuthHandler struct {
	service *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{service: authService}
}

// Register POST /auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	req.Name = strings.TrimSpace(req.Name)
	if req.Email == "" || req.Password == "" || req.Name == "" {
		return apperrors.NewValidationError("email, password, name required", nil)
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return apperrors.NewValidationError("email must be a valid address", nil)
	}
	if len(req.Password) < 8 {
		return apperrors.NewValidationError("password must be at least 8 characters", nil)
	}
	if utf8.RuneCountInString(req.Name) < 2 {
		return apperrors.NewValidationError("name must be at least 2 characters", nil)
	}

	user, err := h.service.Register(c.Context(), req.Email, req.Password, req.Name, req.Role)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, "registration successful", dto.NewUserResponse(user))
}

// Login POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email, password required", nil)
	}

	result, err := h.service.Login(c.Context(), strings.TrimSpace(strings.ToLower(req.Email)), req.Password)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "login successful", dto.LoginResponse{
		Tokens: dto.NewTokenPairResponse(result.Tokens),
		User:   dto.NewUserResponse(result.User),
	})
}

// Refresh POST /auth/refresh.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.RefreshToken == "" {
		return apperrors.NewValidationError("refreshToken required", nil)
	}

	pair, err := h.service.Refresh(c.Context(), req.RefreshToken)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "token refreshed", dto.NewTokenPairResponse(*pair))
}

// Logout POST /auth/logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	if err := h.service.Logout(c.Context(), principal.RawToken, principal.UserID); err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "logged out", nil)
}

// ForgotPassword POST /auth/forgot-password.
func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var req dto.ForgotPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" {
		return apperrors.NewValidationError("email required", nil)
	}
	if err := h.service.ForgotPassword(c.Context(), strings.TrimSpace(strings.ToLower(req.Email))); err != nil {
		return err
	}
	// Same response whether or not the address exists.
	return respond(c, fiber.StatusOK, "if the email exists, a reset link has been sent", nil)
}

// ResetPassword POST /auth/reset-password.
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req dto.ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Token == "" || req.Password == "" {
		return apperrors.NewValidationError("token, password required", nil)
	}
	if len(req.Password) < 8 {
		return apperrors.NewValidationError("password must be at least 8 characters", nil)
	}
	if err := h.service.ResetPassword(c.Context(), req.Token, req.Password); err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "password has been reset", nil)
}

// VerifyEmail POST /auth/verify-email.
func (h *AuthHandler) VerifyEmail(c *fiber.Ctx) error {
	var req dto.VerifyEmailRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Token == "" {
		req.Token = c.Query("token")
	}
	if req.Token == "" {
		return apperrors.NewValidationError("token required", nil)
	}
	if err := h.service.VerifyEmail(c.Context(), req.Token); err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "email verified", nil)
}
