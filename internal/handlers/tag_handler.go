package handlers

import (
	"photoshare/internal/middleware"
	"photoshare/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// TagHandler handles HTTP requests for the global tag catalog.
type TagHandler struct {
	tagService *services.TagService
	validate   *validator.Validate
}

// NewTagHandler creates a new TagHandler.
func NewTagHandler(tagService *services.TagService) *TagHandler {
	return &TagHandler{
		tagService: tagService,
		validate:   validator.New(),
	}
}

// RegisterRoutes registers the tag routes.
func (h *TagHandler) RegisterRoutes(router fiber.Router) {
	tagRoutes := router.Group("/tags")
	tagRoutes.Get("/", h.HandleGetAll)
	tagRoutes.Get("/:id", h.HandleGetByID)
	tagRoutes.Post("/", h.HandleCreate)
	tagRoutes.Put("/:id", h.HandleUpdate)
	tagRoutes.Delete("/:id", h.HandleDelete)
}

// HandleGetAll returns every tag.
func (h *TagHandler) HandleGetAll(c *fiber.Ctx) error {
	tags, err := h.tagService.All()
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(tags)
}

// HandleGetByID returns one tag.
func (h *TagHandler) HandleGetByID(c *fiber.Ctx) error {
	tag, err := h.tagService.GetByID(c.Params("id"))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(tag)
}

// CreateTagRequest represents the request body for a new tag.
type CreateTagRequest struct {
	Name string `json:"name" validate:"required,min=1,max=25"`
}

// HandleCreate gets or creates a tag by name. Creating an existing name is
// not an error; the shared row comes back.
func (h *TagHandler) HandleCreate(c *fiber.Ctx) error {
	var req CreateTagRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationJSON(c, err)
	}

	tag, err := h.tagService.GetOrCreate(req.Name)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(tag)
}

// UpdateTagRequest represents the request body for a tag rename.
type UpdateTagRequest struct {
	Name string `json:"name" validate:"required,min=1,max=25"`
}

// HandleUpdate renames a tag. Moderator or administrator.
func (h *TagHandler) HandleUpdate(c *fiber.Ctx) error {
	var req UpdateTagRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationJSON(c, err)
	}

	tag, err := h.tagService.Update(middleware.CurrentUser(c), c.Params("id"), req.Name)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(tag)
}

// HandleDelete removes a tag from the catalog. Moderator or administrator.
func (h *TagHandler) HandleDelete(c *fiber.Ctx) error {
	if err := h.tagService.Delete(middleware.CurrentUser(c), c.Params("id")); err != nil {
		return errorJSON(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
