package handlers

import (
	"photoshare/internal/middleware"
	"photoshare/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CommentHandler handles HTTP requests for comments.
type CommentHandler struct {
	commentService *services.CommentService
	validate       *validator.Validate
}

// NewCommentHandler creates a new CommentHandler.
func NewCommentHandler(commentService *services.CommentService) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
		validate:       validator.New(),
	}
}

// RegisterRoutes registers the comment routes.
func (h *CommentHandler) RegisterRoutes(router fiber.Router) {
	commentRoutes := router.Group("/comments")
	commentRoutes.Post("/", h.HandleCreate)
	commentRoutes.Put("/:id", h.HandleUpdate)
	commentRoutes.Delete("/:id", h.HandleDelete)
	commentRoutes.Get("/photo/:photoId", h.HandleListForPhoto)
}

// CreateCommentRequest represents the request body for a new comment.
type CreateCommentRequest struct {
	PhotoID string `json:"photo_id" validate:"required"`
	Content string `json:"content" validate:"required,max=255"`
}

// HandleCreate attaches a comment to a photo.
func (h *CommentHandler) HandleCreate(c *fiber.Ctx) error {
	var req CreateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationJSON(c, err)
	}

	comment, err := h.commentService.Create(middleware.CurrentUser(c), req.PhotoID, req.Content)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// UpdateCommentRequest represents the request body for a comment edit.
type UpdateCommentRequest struct {
	Content string `json:"content" validate:"required,max=255"`
}

// HandleUpdate edits a comment's content. Author only.
func (h *CommentHandler) HandleUpdate(c *fiber.Ctx) error {
	var req UpdateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationJSON(c, err)
	}

	comment, err := h.commentService.Update(middleware.CurrentUser(c), c.Params("id"), req.Content)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(comment)
}

// HandleDelete removes a comment. Author or moderator/administrator.
func (h *CommentHandler) HandleDelete(c *fiber.Ctx) error {
	if err := h.commentService.Delete(middleware.CurrentUser(c), c.Params("id")); err != nil {
		return errorJSON(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleListForPhoto returns a photo's comments, oldest first.
func (h *CommentHandler) HandleListForPhoto(c *fiber.Ctx) error {
	comments, err := h.commentService.ListForPhoto(c.Params("photoId"))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(comments)
}
