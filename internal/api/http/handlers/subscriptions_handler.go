package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/magazine-service/internal/api/dto"
	"github.com/spec-kit/magazine-service/internal/service"
	apperrors "github.com/spec-kit/magazine-service/pkg/util"
)

// SubscriptionsHandler manages subscription endpoints.
type SubscriptionsHandler struct {
	service *service.SubscriptionService
}

// NewSubscriptionsHandler constructs handler.
func NewSubscriptionsHandler(subscriptionService *service.SubscriptionService) *SubscriptionsHandler {
	return &SubscriptionsHandler{service: subscriptionService}
}

// List GET /subscriptions.
func (h *SubscriptionsHandler) List(c *fiber.Ctx) error {
	query := parsePageQuery(c)
	subs, total, err := h.service.List(c.Context(), query.PageSize, query.Offset())
	if err != nil {
		return err
	}
	return respondPage(c, "subscriptions retrieved", dto.NewSubscriptionResponses(subs), query, total)
}

// Subscribe POST /subscriptions.
func (h *SubscriptionsHandler) Subscribe(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.SubscribeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.MagazineID == "" {
		return apperrors.NewValidationError("magazineId required", nil)
	}

	sub, err := h.service.Subscribe(c.Context(), principal.UserID, req.MagazineID)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, "subscription created", dto.NewSubscriptionResponse(sub))
}

// Activate POST /subscriptions/:id/activate.
func (h *SubscriptionsHandler) Activate(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	sub, err := h.service.Activate(c.Context(), callerOf(principal), c.Params("id"))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "subscription activated", dto.NewSubscriptionResponse(sub))
}

// Cancel POST /subscriptions/:id/cancel.
func (h *SubscriptionsHandler) Cancel(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	sub, err := h.service.Cancel(c.Context(), callerOf(principal), c.Params("id"))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "subscription cancelled", dto.NewSubscriptionResponse(sub))
}
