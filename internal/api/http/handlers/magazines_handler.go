package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/magazine-service/internal/api/dto"
	"github.com/spec-kit/magazine-service/internal/service"
	apperrors "github.com/spec-kit/magazine-service/pkg/util"
)

// MagazinesHandler manages magazine endpoints.
type MagazinesHandler struct {
	service *service.MagazineService
}

// NewMagazinesHandler constructs handler.
func NewMagazinesHandler(magazineService *service.MagazineService) *MagazinesHandler {
	return &MagazinesHandler{service: magazineService}
}

// List GET /magazines.
func (h *MagazinesHandler) List(c *fiber.Ctx) error {
	query := parsePageQuery(c)
	magazines, total, err := h.service.List(c.Context(), query.PageSize, query.Offset())
	if err != nil {
		return err
	}
	return respondPage(c, "magazines retrieved", dto.NewMagazineResponses(magazines), query, total)
}

// Create POST /magazines.
func (h *MagazinesHandler) Create(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	req, err := parseMagazineUpsert(c)
	if err != nil {
		return err
	}

	magazine, err := h.service.Create(c.Context(), principal.UserID, service.MagazineInput{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, "magazine created", dto.NewMagazineResponse(magazine))
}

// Update PUT /magazines/:id.
func (h *MagazinesHandler) Update(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	req, err := parseMagazineUpsert(c)
	if err != nil {
		return err
	}

	magazine, err := h.service.Update(c.Context(), callerOf(principal), c.Params("id"), service.MagazineInput{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "magazine updated", dto.NewMagazineResponse(magazine))
}

// Delete DELETE /magazines/:id.
func (h *MagazinesHandler) Delete(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Context(), callerOf(principal), c.Params("id")); err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "magazine deleted", nil)
}

func parseMagazineUpsert(c *fiber.Ctx) (*dto.MagazineUpsertRequest, error) {
	var req dto.MagazineUpsertRequest
	if err := c.BodyParser(&req); err != nil {
		return nil, apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Title) == "" {
		return nil, apperrors.NewValidationError("title required", nil)
	}
	return &req, nil
}
