package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/magazine-service/internal/api/dto"
	"github.com/spec-kit/magazine-service/internal/service"
	apperrors "github.com/spec-kit/magazine-service/pkg/util"
)

// CommentsHandler manages comment endpoints.
type CommentsHandler struct {
	service *service.CommentService
}

// NewCommentsHandler constructs handler.
func NewCommentsHandler(commentService *service.CommentService) *CommentsHandler {
	return &CommentsHandler{service: commentService}
}

// List GET /comments. Only approved comments are visible here.
func (h *CommentsHandler) List(c *fiber.Ctx) error {
	query := parsePageQuery(c)
	comments, total, err := h.service.ListApproved(c.Context(), query.PageSize, query.Offset())
	if err != nil {
		return err
	}
	return respondPage(c, "comments retrieved", dto.NewCommentResponses(comments), query, total)
}

// Create POST /comments.
func (h *CommentsHandler) Create(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.CommentCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.MagazineID == "" || strings.TrimSpace(req.Content) == "" {
		return apperrors.NewValidationError("magazineId, content required", nil)
	}

	comment, err := h.service.Create(c.Context(), principal.UserID, req.MagazineID, strings.TrimSpace(req.Content))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, "comment submitted for approval", dto.NewCommentResponse(comment))
}

// ListPending GET /comments/pending.
func (h *CommentsHandler) ListPending(c *fiber.Ctx) error {
	comments, err := h.service.ListPending(c.Context())
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "pending comments retrieved", dto.NewCommentResponses(comments))
}

// Approve POST /comments/:id/approve.
func (h *CommentsHandler) Approve(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	comment, err := h.service.Approve(c.Context(), principal.UserID, c.Params("id"))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "comment approved", dto.NewCommentResponse(comment))
}
