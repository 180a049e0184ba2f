package service

import "github.com/spec-kit/magazine-service/internal/domain"

// Caller identifies the authenticated principal invoking a service method.
type Caller struct {
	ID   string
	Role domain.Role
}

// IsAdmin reports whether the caller holds the admin role.
func (c Caller) IsAdmin() bool {
	return c.Role == domain.RoleAdmin
}
