package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/magazine-service/internal/auth"
	"github.com/spec-kit/magazine-service/internal/config"
	"github.com/spec-kit/magazine-service/internal/domain"
	"github.com/spec-kit/magazine-service/internal/events"
	apperrors "github.com/spec-kit/magazine-service/pkg/util"
)

func testConfig() config.Config {
	return config.Config{
		App: config.AppConfig{BaseURL: "http://localhost:3000"},
		Auth: config.AuthConfig{
			JWTSecret:               "unit-test-secret-0123456789",
			AccessTokenTTLMinutes:   15,
			RefreshTokenTTLDays:     7,
			PasswordResetTTLMinutes: 60,
			BcryptCost:              4,
		},
	}
}

type authFixture struct {
	service   *AuthService
	users     *memUserRepo
	refresh   *memRefreshTokenRepo
	blacklist *memBlacklist
	mailer    *recordingMailer
	recorder  *eventRecorder
}

type eventRecorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *eventRecorder) handle(_ context.Context, event events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *eventRecorder) types() []events.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.EventType, 0, len(r.events))
	for _, event := range r.events {
		out = append(out, event.Type)
	}
	return out
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	users := newMemUserRepo()
	refresh := newMemRefreshTokenRepo()
	blacklist := newMemBlacklist()
	mailer := &recordingMailer{}
	recorder := &eventRecorder{}
	dispatcher := events.NewInMemoryDispatcher()
	for _, eventType := range events.AllEventTypes() {
		dispatcher.Subscribe(eventType, recorder.handle)
	}

	service := NewAuthService(testConfig(), AuthDependencies{
		UserRepo:         users,
		RefreshTokenRepo: refresh,
		BlacklistRepo:    blacklist,
		Mailer:           mailer,
		Dispatcher:       dispatcher,
		Logger:           zap.NewNop(),
	})
	return &authFixture{
		service:   service,
		users:     users,
		refresh:   refresh,
		blacklist: blacklist,
		mailer:    mailer,
		recorder:  recorder,
	}
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults role and hashes password", func(t *testing.T) {
		fx := newAuthFixture(t)

		user, err := fx.service.Register(ctx, "reader@example.com", "secret-pass", "Reader", "")
		require.NoError(t, err)

		assert.Equal(t, domain.RoleSubscriber, user.Role)
		assert.NotEqual(t, "secret-pass", user.PasswordHash)
		assert.NoError(t, auth.ComparePassword(user.PasswordHash, "secret-pass"))
		assert.False(t, user.EmailVerified)
		require.NotNil(t, user.VerificationToken)

		require.Len(t, fx.mailer.sent, 1)
		assert.Equal(t, "reader@example.com", fx.mailer.sent[0].To)
		assert.Contains(t, fx.mailer.sent[0].HTML, *user.VerificationToken)
		assert.Contains(t, fx.recorder.types(), events.EventUserRegistered)
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		fx := newAuthFixture(t)
		_, err := fx.service.Register(ctx, "reader@example.com", "secret-pass", "Reader", "")
		require.NoError(t, err)

		_, err = fx.service.Register(ctx, "reader@example.com", "other-pass", "Other", "")
		var domainErr *apperrors.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, 409, domainErr.HTTPStatus)
	})

	t.Run("rejects unknown role", func(t *testing.T) {
		fx := newAuthFixture(t)
		_, err := fx.service.Register(ctx, "reader@example.com", "secret-pass", "Reader", "OVERLORD")
		var domainErr *apperrors.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, 400, domainErr.HTTPStatus)
	})

	t.Run("mail failure does not fail registration", func(t *testing.T) {
		fx := newAuthFixture(t)
		fx.mailer.fail = assert.AnError

		_, err := fx.service.Register(ctx, "reader@example.com", "secret-pass", "Reader", "")
		assert.NoError(t, err)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	fx := newAuthFixture(t)
	_, err := fx.service.Register(ctx, "reader@example.com", "secret-pass", "Reader", "")
	require.NoError(t, err)

	t.Run("issues token pair", func(t *testing.T) {
		result, err := fx.service.Login(ctx, "reader@example.com", "secret-pass")
		require.NoError(t, err)
		assert.NotEmpty(t, result.Tokens.AccessToken)
		assert.NotEmpty(t, result.Tokens.RefreshToken)
		assert.Equal(t, "reader@example.com", result.User.Email)

		claims, err := fx.service.TokenManager().ParseToken(result.Tokens.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, result.User.ID, claims.Subject)
		assert.Equal(t, domain.RoleSubscriber, claims.Role)
		assert.Equal(t, domain.TokenTypeAccess, claims.TokenType)
	})

	t.Run("unknown email and wrong password fail identically", func(t *testing.T) {
		_, errUnknown := fx.service.Login(ctx, "nobody@example.com", "secret-pass")
		_, errWrong := fx.service.Login(ctx, "reader@example.com", "bad-pass")

		var unknownErr, wrongErr *apperrors.DomainError
		require.ErrorAs(t, errUnknown, &unknownErr)
		require.ErrorAs(t, errWrong, &wrongErr)
		assert.Equal(t, unknownErr.HTTPStatus, wrongErr.HTTPStatus)
		assert.Equal(t, unknownErr.Message, wrongErr.Message)
		assert.Equal(t, 401, wrongErr.HTTPStatus)
	})
}

func TestRefreshRotation(t *testing.T) {
	ctx := context.Background()
	fx := newAuthFixture(t)
	_, err := fx.service.Register(ctx, "reader@example.com", "secret-pass", "Reader", "")
	require.NoError(t, err)
	result, err := fx.service.Login(ctx, "reader@example.com", "secret-pass")
	require.NoError(t, err)

	pair, err := fx.service.Refresh(ctx, result.Tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, result.Tokens.RefreshToken, pair.RefreshToken)

	// The consumed token is gone; replaying it must fail.
	_, err = fx.service.Refresh(ctx, result.Tokens.RefreshToken)
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, 401, domainErr.HTTPStatus)

	// The replacement still works.
	_, err = fx.service.Refresh(ctx, pair.RefreshToken)
	assert.NoError(t, err)
}

func TestRefreshRejectsGarbage(t *testing.T) {
	fx := newAuthFixture(t)
	_, err := fx.service.Refresh(context.Background(), "no-such-token")
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, 401, domainErr.HTTPStatus)
}

func TestLogoutBlacklistsAccessToken(t *testing.T) {
	ctx := context.Background()
	fx := newAuthFixture(t)
	_, err := fx.service.Register(ctx, "reader@example.com", "secret-pass", "Reader", "")
	require.NoError(t, err)
	result, err := fx.service.Login(ctx, "reader@example.com", "secret-pass")
	require.NoError(t, err)

	require.NoError(t, fx.service.Logout(ctx, result.Tokens.AccessToken, result.User.ID))

	revoked, err := fx.blacklist.Contains(ctx, result.Tokens.AccessToken)
	require.NoError(t, err)
	assert.True(t, revoked)

	// Logging out twice with the same token is harmless.
	assert.NoError(t, fx.service.Logout(ctx, result.Tokens.AccessToken, result.User.ID))
}

func TestPasswordResetFlow(t *testing.T) {
	ctx := context.Background()
	fx := newAuthFixture(t)
	_, err := fx.service.Register(ctx, "reader@example.com", "secret-pass", "Reader", "")
	require.NoError(t, err)

	t.Run("unknown email is silent", func(t *testing.T) {
		before := len(fx.mailer.sent)
		require.NoError(t, fx.service.ForgotPassword(ctx, "nobody@example.com"))
		assert.Len(t, fx.mailer.sent, before)
	})

	t.Run("reset replaces password once", func(t *testing.T) {
		require.NoError(t, fx.service.ForgotPassword(ctx, "reader@example.com"))

		stored, err := fx.users.GetByEmail(ctx, "reader@example.com")
		require.NoError(t, err)
		require.NotNil(t, stored.ResetToken)
		token := *stored.ResetToken

		require.NoError(t, fx.service.ResetPassword(ctx, token, "new-password"))

		_, err = fx.service.Login(ctx, "reader@example.com", "secret-pass")
		assert.Error(t, err)
		_, err = fx.service.Login(ctx, "reader@example.com", "new-password")
		assert.NoError(t, err)

		// The token was cleared on use.
		err = fx.service.ResetPassword(ctx, token, "another-password")
		var domainErr *apperrors.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, 400, domainErr.HTTPStatus)
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		require.NoError(t, fx.service.ForgotPassword(ctx, "reader@example.com"))
		stored, err := fx.users.GetByEmail(ctx, "reader@example.com")
		require.NoError(t, err)
		require.NotNil(t, stored.ResetToken)

		past := time.Now().Add(-time.Minute)
		stored.ResetExpires = &past
		require.NoError(t, fx.users.Update(ctx, stored))

		err = fx.service.ResetPassword(ctx, *stored.ResetToken, "late-password")
		var domainErr *apperrors.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, 400, domainErr.HTTPStatus)
	})
}

func TestVerifyEmail(t *testing.T) {
	ctx := context.Background()
	fx := newAuthFixture(t)
	user, err := fx.service.Register(ctx, "reader@example.com", "secret-pass", "Reader", "")
	require.NoError(t, err)
	require.NotNil(t, user.VerificationToken)

	require.NoError(t, fx.service.VerifyEmail(ctx, *user.VerificationToken))

	stored, err := fx.users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, stored.EmailVerified)
	assert.Nil(t, stored.VerificationToken)

	err = fx.service.VerifyEmail(ctx, *user.VerificationToken)
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, 400, domainErr.HTTPStatus)
}
