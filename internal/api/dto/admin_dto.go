package dto

import "github.com/spec-kit/magazine-service/internal/domain"

// RoleUpdateRequest payload for changing a user's role.
type RoleUpdateRequest struct {
	Role domain.Role `json:"role"`
}

// RoleCatalogEntry lists one role with its permissions.
type RoleCatalogEntry struct {
	Role        domain.Role         `json:"role"`
	Permissions []domain.Permission `json:"permissions"`
}

// NewRoleCatalog builds the full role and permission listing.
func NewRoleCatalog() []RoleCatalogEntry {
	roles := domain.Roles()
	catalog := make([]RoleCatalogEntry, 0, len(roles))
	for _, role := range roles {
		catalog = append(catalog, RoleCatalogEntry{
			Role:        role,
			Permissions: domain.PermissionsForRole(role),
		})
	}
	return catalog
}

// NewUserResponses maps a slice of users.
func NewUserResponses(users []domain.User) []UserResponse {
	items := make([]UserResponse, 0, len(users))
	for i := range users {
		items = append(items, NewUserResponse(&users[i]))
	}
	return items
}
