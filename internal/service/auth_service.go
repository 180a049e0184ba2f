package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/magazine-service/internal/auth"
	"github.com/spec-kit/magazine-service/internal/config"
	"github.com/spec-kit/magazine-service/internal/domain"
	"github.com/spec-kit/magazine-service/internal/events"
	"github.com/spec-kit/magazine-service/internal/mail"
	"github.com/spec-kit/magazine-service/internal/repository"
	apperrors "github.com/spec-kit/magazine-service/pkg/util"
)

// AuthService coordinates registration, login and the token lifecycle.
type AuthService struct {
	users      repository.UserRepository
	refresh    repository.RefreshTokenRepository
	blacklist  repository.BlacklistRepository
	tokenMgr   *auth.TokenManager
	mailer     mail.Mailer
	dispatcher events.Dispatcher
	logger     *zap.Logger
	bcryptCost int
	refreshTTL time.Duration
	resetTTL   time.Duration
	baseURL    string
}

// AuthDependencies bundles requirements for the auth service.
type AuthDependencies struct {
	UserRepo         repository.UserRepository
	RefreshTokenRepo repository.RefreshTokenRepository
	BlacklistRepo    repository.BlacklistRepository
	Mailer           mail.Mailer
	Dispatcher       events.Dispatcher
	Logger           *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:      deps.UserRepo,
		refresh:    deps.RefreshTokenRepo,
		blacklist:  deps.BlacklistRepo,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL()),
		mailer:     deps.Mailer,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
		bcryptCost: cfg.Auth.BcryptCost,
		refreshTTL: cfg.Auth.RefreshTokenTTL(),
		resetTTL:   cfg.Auth.PasswordResetTTL(),
		baseURL:    cfg.App.BaseURL,
	}
}

// Register creates a new account and sends a verification email. The response
// never includes credentials; registration does not log the user in.
func (s *AuthService) Register(ctx context.Context, email, password, name string, role domain.Role) (*domain.User, error) {
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflict("email already registered", map[string]any{"field": "email"})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	if role == "" {
		role = domain.RoleSubscriber
	}
	if !role.Valid() {
		return nil, apperrors.NewValidationError("unknown role", map[string]any{"role": role})
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}
	verification, err := auth.NewOpaqueToken()
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:             email,
		Name:              name,
		PasswordHash:      hash,
		Role:              role,
		VerificationToken: &verification,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.sendMail(ctx, user.Email, "Verify your email", mail.RenderTemplate(
		"Email Verification",
		fmt.Sprintf("Please verify your email by clicking this link: %s/verify-email?token=%s", s.baseURL, verification),
	))
	s.publish(ctx, events.EventUserRegistered, &user.ID, map[string]any{"email": user.Email})

	return user, nil
}

// LoginResult carries the issued tokens and the authenticated user.
type LoginResult struct {
	Tokens domain.TokenPair
	User   *domain.User
}

// Login authenticates credentials and issues a token pair. Unknown emails and
// wrong passwords fail identically so account existence never leaks.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, err
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}

	pair, err := s.issueTokens(ctx, user.ID, user.Role)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventUserLoggedIn, &user.ID, nil)
	return &LoginResult{Tokens: *pair, User: user}, nil
}

// Refresh rotates a refresh token: the consumed token is atomically deleted
// and a fresh pair is minted for its owner. A second rotation attempt with
// the same token fails because the row is already gone.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	consumed, err := s.refresh.Consume(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthorized("invalid or expired refresh token")
		}
		return nil, err
	}

	user, err := s.users.GetByID(ctx, consumed.UserID)
	if err != nil {
		return nil, apperrors.NewUnauthorized("invalid or expired refresh token")
	}

	pair, err := s.issueTokens(ctx, user.ID, user.Role)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventTokenRefreshed, &user.ID, nil)
	return pair, nil
}

// Logout blacklists the caller's access token for the remainder of its
// natural lifetime. Repeated logouts with the same token are harmless.
func (s *AuthService) Logout(ctx context.Context, accessToken string, userID string) error {
	ttl := s.tokenMgr.AccessTokenTTL()
	if claims, err := s.tokenMgr.ParseToken(accessToken); err == nil && claims.ExpiresAt != nil {
		if remaining := time.Until(claims.ExpiresAt.Time); remaining > 0 {
			ttl = remaining
		}
	}
	if err := s.blacklist.Add(ctx, accessToken, ttl); err != nil {
		return err
	}
	s.publish(ctx, events.EventUserLoggedOut, &userID, nil)
	return nil
}

// ForgotPassword stores a reset token and emails a link. The outcome is the
// same whether or not the email exists.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		return err
	}

	reset, err := auth.NewOpaqueToken()
	if err != nil {
		return err
	}
	expires := time.Now().Add(s.resetTTL)
	user.ResetToken = &reset
	user.ResetExpires = &expires
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}

	s.sendMail(ctx, user.Email, "Password Reset", mail.RenderTemplate(
		"Password Reset",
		fmt.Sprintf("Reset your password: %s/reset-password?token=%s", s.baseURL, reset),
	))
	return nil
}

// ResetPassword validates the token, replaces the password and clears the token.
func (s *AuthService) ResetPassword(ctx context.Context, token, password string) error {
	user, err := s.users.GetByResetToken(ctx, token)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewValidationError("invalid or expired reset token", nil)
		}
		return err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	user.ResetToken = nil
	user.ResetExpires = nil
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}

	s.publish(ctx, events.EventPasswordReset, &user.ID, nil)
	return nil
}

// VerifyEmail flags the account verified and clears the verification token.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) error {
	user, err := s.users.GetByVerificationToken(ctx, token)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewValidationError("invalid verification token", nil)
		}
		return err
	}

	user.EmailVerified = true
	user.VerificationToken = nil
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}

	s.publish(ctx, events.EventEmailVerified, &user.ID, nil)
	return nil
}

// issueTokens signs an access JWT and persists one new refresh token row.
func (s *AuthService) issueTokens(ctx context.Context, userID string, role domain.Role) (*domain.TokenPair, error) {
	accessToken, _, err := s.tokenMgr.GenerateAccessToken(userID, role)
	if err != nil {
		return nil, err
	}

	refreshValue, err := auth.NewRefreshTokenValue()
	if err != nil {
		return nil, err
	}
	record := &domain.RefreshToken{
		Token:     refreshValue,
		UserID:    userID,
		ExpiresAt: time.Now().Add(s.refreshTTL),
	}
	if err := s.refresh.Create(ctx, record); err != nil {
		return nil, err
	}

	return &domain.TokenPair{AccessToken: accessToken, RefreshToken: refreshValue}, nil
}

func (s *AuthService) sendMail(ctx context.Context, to, subject, html string) {
	if s.mailer == nil {
		return
	}
	if err := s.mailer.Send(ctx, to, subject, html); err != nil {
		s.logger.Warn("failed to send email", zap.String("to", to), zap.Error(err))
	}
}

func (s *AuthService) publish(ctx context.Context, eventType events.EventType, actorID *string, meta map[string]any) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		ActorID:   actorID,
		Timestamp: time.Now(),
		Meta:      meta,
	})
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
