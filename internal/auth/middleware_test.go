package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/magazine-service/internal/domain"
	apperrors "github.com/spec-kit/magazine-service/pkg/util"
)

type stubBlacklist struct {
	revoked map[string]bool
}

func (b *stubBlacklist) Contains(_ context.Context, token string) (bool, error) {
	return b.revoked[token], nil
}

func newTestApp(middleware *AuthMiddleware, guards ...fiber.Handler) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if err := c.Next(); err != nil {
			domainErr := apperrors.ToDomainError(err)
			return c.Status(domainErr.HTTPStatus).JSON(fiber.Map{"message": domainErr.Message})
		}
		return nil
	})

	chain := append([]fiber.Handler{middleware.Handle}, guards...)
	chain = append(chain, func(c *fiber.Ctx) error {
		principal, _ := PrincipalFromContext(c)
		return c.JSON(fiber.Map{"userId": principal.UserID, "role": principal.Role})
	})
	app.Get("/protected", chain...)
	return app
}

func doRequest(t *testing.T, app *fiber.App, authorization string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestAuthMiddleware(t *testing.T) {
	tm := NewTokenManager("unit-test-secret-0123456789", 15*time.Minute)
	blacklist := &stubBlacklist{revoked: map[string]bool{}}
	middleware := NewAuthMiddleware(tm, blacklist)
	app := newTestApp(middleware)

	validToken, _, err := tm.GenerateAccessToken("user-1", domain.RoleSubscriber)
	require.NoError(t, err)

	t.Run("missing header", func(t *testing.T) {
		resp := doRequest(t, app, "")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("malformed header", func(t *testing.T) {
		resp := doRequest(t, app, "Token "+validToken)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("invalid signature", func(t *testing.T) {
		other := NewTokenManager("a-different-secret-9876543210", time.Minute)
		forged, _, err := other.GenerateAccessToken("user-1", domain.RoleAdmin)
		require.NoError(t, err)

		resp := doRequest(t, app, "Bearer "+forged)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("refresh-type token rejected", func(t *testing.T) {
		claims := &Claims{
			Role:      domain.RoleSubscriber,
			TokenType: domain.TokenTypeRefresh,
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "user-1",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("unit-test-secret-0123456789"))
		require.NoError(t, err)

		resp := doRequest(t, app, "Bearer "+signed)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("valid token passes", func(t *testing.T) {
		resp := doRequest(t, app, "Bearer "+validToken)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("revoked token rejected", func(t *testing.T) {
		blacklist.revoked[validToken] = true
		defer delete(blacklist.revoked, validToken)

		resp := doRequest(t, app, "Bearer "+validToken)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestRequireRole(t *testing.T) {
	tm := NewTokenManager("unit-test-secret-0123456789", 15*time.Minute)
	middleware := NewAuthMiddleware(tm, &stubBlacklist{revoked: map[string]bool{}})

	subscriberToken, _, err := tm.GenerateAccessToken("user-1", domain.RoleSubscriber)
	require.NoError(t, err)
	adminToken, _, err := tm.GenerateAccessToken("admin-1", domain.RoleAdmin)
	require.NoError(t, err)

	t.Run("role outside the allowed set is forbidden", func(t *testing.T) {
		app := newTestApp(middleware, RequireRole(domain.RoleAdmin))

		resp := doRequest(t, app, "Bearer "+subscriberToken)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)

		resp = doRequest(t, app, "Bearer "+adminToken)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("authenticated-only guard admits any role", func(t *testing.T) {
		app := newTestApp(middleware, RequireAuthenticated())

		resp := doRequest(t, app, "Bearer "+subscriberToken)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}
