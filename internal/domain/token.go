package domain

import "time"

// TokenType distinguishes access JWTs from refresh tokens inside claims.
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// RefreshToken is a stored single-use credential for minting new token pairs.
type RefreshToken struct {
	Token     string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// TokenPair bundles the two credentials issued at login and rotation.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}
