package handlers

import (
	"photoshare/internal/middleware"
	"photoshare/internal/models"
	"photoshare/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// UserHandler handles HTTP requests for user directory operations.
type UserHandler struct {
	userService *services.UserService
	validate    *validator.Validate
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the user routes; all of them require identity.
func (h *UserHandler) RegisterRoutes(router fiber.Router) {
	userRoutes := router.Group("/users")
	userRoutes.Get("/me", h.HandleMe)
	userRoutes.Patch("/avatar", h.HandleUpdateAvatar)
	userRoutes.Patch("/:id/role", h.HandleChangeRole)
}

// HandleMe returns the acting user's record.
func (h *UserHandler) HandleMe(c *fiber.Ctx) error {
	return c.JSON(middleware.CurrentUser(c))
}

// HandleUpdateAvatar uploads a new avatar image and stores its URL.
func (h *UserHandler) HandleUpdateAvatar(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "An image file is required",
		})
	}
	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Could not read uploaded file",
		})
	}
	defer file.Close()

	url, err := h.userService.UpdateAvatar(c.UserContext(), middleware.CurrentUser(c), file)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(fiber.Map{
		"avatar": url,
	})
}

// ChangeRoleRequest represents the request body for a role change.
type ChangeRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=standard moderator administrator"`
}

// HandleChangeRole assigns a new role to the target user. Administrator
// only; the service enforces that.
func (h *UserHandler) HandleChangeRole(c *fiber.Ctx) error {
	var req ChangeRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationJSON(c, err)
	}

	updated, err := h.userService.ChangeRole(middleware.CurrentUser(c), c.Params("id"), models.Role(req.Role))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(updated)
}
