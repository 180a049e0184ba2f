package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/magazine-service/internal/api/dto"
	"github.com/spec-kit/magazine-service/internal/domain"
	"github.com/spec-kit/magazine-service/internal/service"
	apperrors "github.com/spec-kit/magazine-service/pkg/util"
)

// AdminHandler manages user administration, role catalog and audit endpoints.
type AdminHandler struct {
	service  *service.UserService
	activity *service.ActivityService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(userService *service.UserService, activityService *service.ActivityService) *AdminHandler {
	return &AdminHandler{service: userService, activity: activityService}
}

// ListUsers GET /admin/users.
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	query := parsePageQuery(c)
	users, total, err := h.service.List(c.Context(), query.PageSize, query.Offset())
	if err != nil {
		return err
	}
	return respondPage(c, "users retrieved", dto.NewUserResponses(users), query, total)
}

// UpdateUserRole PUT /admin/users/:id/role.
func (h *AdminHandler) UpdateUserRole(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.RoleUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Role == "" {
		return apperrors.NewValidationError("role required", nil)
	}

	user, err := h.service.UpdateRole(c.Context(), principal.UserID, c.Params("id"), req.Role)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "role updated", dto.NewUserResponse(user))
}

// ListActivities GET /admin/activities.
func (h *AdminHandler) ListActivities(c *fiber.Ctx) error {
	limit, err := strconv.Atoi(c.Query("limit", "50"))
	if err != nil {
		limit = 50
	}
	entries, err := h.activity.Recent(c.Context(), limit)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "activities retrieved", dto.NewActivityResponses(entries))
}

// ListRoles GET /admin/roles.
func (h *AdminHandler) ListRoles(c *fiber.Ctx) error {
	return respond(c, fiber.StatusOK, "roles retrieved", dto.NewRoleCatalog())
}

// MyPermissions GET /admin/me/permissions.
func (h *AdminHandler) MyPermissions(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "permissions retrieved", fiber.Map{
		"role":        principal.Role,
		"permissions": domain.PermissionsForRole(principal.Role),
	})
}
