package auth

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/magazine-service/internal/domain"
	apperrors "github.com/spec-kit/magazine-service/pkg/util"
)

const principalKey = "auth_principal"

// Blacklist is the deny-list consulted for every bearer token.
type Blacklist interface {
	Contains(ctx context.Context, token string) (bool, error)
}

// Principal represents the authenticated caller.
type Principal struct {
	UserID   string
	Role     domain.Role
	RawToken string
}

// AuthMiddleware validates bearer tokens and loads principals.
type AuthMiddleware struct {
	tokens    *TokenManager
	blacklist Blacklist
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, blacklist Blacklist) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, blacklist: blacklist}
}

// Handle enforces authentication for protected routes. A token is rejected
// when the signature or expiry fails, when it is a refresh token, or when its
// raw value appears on the blacklist regardless of signature validity.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	raw, err := bearerToken(c)
	if err != nil {
		return err
	}

	claims, err := m.tokens.ParseToken(raw)
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}
	if claims.TokenType == domain.TokenTypeRefresh {
		return apperrors.NewUnauthorized("invalid token type")
	}

	revoked, err := m.blacklist.Contains(c.UserContext(), raw)
	if err != nil {
		return apperrors.MapError(err)
	}
	if revoked {
		return apperrors.NewUnauthorized("token has been revoked")
	}

	c.Locals(principalKey, &Principal{
		UserID:   claims.Subject,
		Role:     claims.Role,
		RawToken: raw,
	})
	return c.Next()
}

func bearerToken(c *fiber.Ctx) (string, error) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return "", apperrors.NewUnauthorized("missing authorization header")
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", apperrors.NewUnauthorized("invalid authorization header")
	}
	return parts[1], nil
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
