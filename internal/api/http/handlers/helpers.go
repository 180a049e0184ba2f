package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/magazine-service/internal/api/dto"
	"github.com/spec-kit/magazine-service/internal/auth"
	"github.com/spec-kit/magazine-service/internal/service"
	apperrors "github.com/spec-kit/magazine-service/pkg/util"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// pageQuery holds the normalized page window from query parameters.
type pageQuery struct {
	Page     int
	PageSize int
}

func (q pageQuery) Offset() int { return (q.Page - 1) * q.PageSize }

// parsePageQuery reads page and pageSize, clamping out-of-range values
// instead of rejecting them.
func parsePageQuery(c *fiber.Ctx) pageQuery {
	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	pageSize, err := strconv.Atoi(c.Query("pageSize", strconv.Itoa(defaultPageSize)))
	if err != nil || pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return pageQuery{Page: page, PageSize: pageSize}
}

func respond(c *fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.NewEnvelope(statusCode, message, data))
}

func respondPage(c *fiber.Ctx, message string, items any, query pageQuery, total int) error {
	return respond(c, fiber.StatusOK, message, dto.Paginated{
		Items:      items,
		Pagination: dto.NewPagination(query.Page, query.PageSize, total),
	})
}

// requirePrincipal returns the authenticated caller or an unauthorized error.
func requirePrincipal(c *fiber.Ctx) (*auth.Principal, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	return principal, nil
}

func callerOf(principal *auth.Principal) service.Caller {
	return service.Caller{ID: principal.UserID, Role: principal.Role}
}
