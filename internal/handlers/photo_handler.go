package handlers

import (
	"strconv"
	"strings"
	"time"

	"photoshare/internal/middleware"
	"photoshare/internal/repositories"
	"photoshare/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// PhotoHandler handles HTTP requests for photos.
type PhotoHandler struct {
	photoService *services.PhotoService
	validate     *validator.Validate
}

// NewPhotoHandler creates a new PhotoHandler.
func NewPhotoHandler(photoService *services.PhotoService) *PhotoHandler {
	return &PhotoHandler{
		photoService: photoService,
		validate:     validator.New(),
	}
}

// RegisterRoutes registers the photo routes.
func (h *PhotoHandler) RegisterRoutes(router fiber.Router) {
	photoRoutes := router.Group("/photos")
	photoRoutes.Post("/", h.HandleCreate)
	photoRoutes.Get("/", h.HandleSearch)
	photoRoutes.Get("/:id", h.HandleGetByID)
	photoRoutes.Put("/:id", h.HandleUpdate)
	photoRoutes.Post("/:id/transform", h.HandleTransform)
	photoRoutes.Delete("/:id", h.HandleDelete)
}

// HandleCreate uploads a new photo. Multipart form: file, description, tags
// (repeated field or one comma-separated value).
func (h *PhotoHandler) HandleCreate(c *fiber.Ctx) error {
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

	description := c.FormValue("description")
	tagNames := formTags(c)

	photo, err := h.photoService.Create(c.UserContext(), middleware.CurrentUser(c), description, tagNames, file)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(photo)
}

// HandleGetByID returns a photo with tags, comments and average rating.
func (h *PhotoHandler) HandleGetByID(c *fiber.Ctx) error {
	photo, err := h.photoService.GetByID(c.Params("id"))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(photo)
}

// HandleSearch lists photos matching the query filters. No match is an
// empty list with 200.
func (h *PhotoHandler) HandleSearch(c *fiber.Ctx) error {
	filter := repositories.PhotoFilter{
		Keyword: c.Query("keyword"),
		OwnerID: c.Query("owner_id"),
	}

	if v := c.Query("created_after"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "created_after must be RFC 3339",
			})
		}
		filter.CreatedAfter = &t
	}
	if v := c.Query("created_before"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "created_before must be RFC 3339",
			})
		}
		filter.CreatedBefore = &t
	}
	if v := c.Query("avg_rating_above"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "avg_rating_above must be a number",
			})
		}
		filter.AvgRatingAbove = &f
	}
	if v := c.Query("avg_rating_below"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "avg_rating_below must be a number",
			})
		}
		filter.AvgRatingBelow = &f
	}

	photos, err := h.photoService.Search(filter)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(photos)
}

// UpdatePhotoRequest represents the request body for a photo update.
type UpdatePhotoRequest struct {
	Description string   `json:"description" validate:"omitempty,max=500"`
	Tags        []string `json:"tags" validate:"omitempty,max=5,dive,min=1,max=25"`
}

// HandleUpdate overwrites description and tags of an owned photo.
func (h *PhotoHandler) HandleUpdate(c *fiber.Ctx) error {
	var req UpdatePhotoRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationJSON(c, err)
	}

	photo, err := h.photoService.Update(middleware.CurrentUser(c), c.Params("id"), req.Description, req.Tags)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(photo)
}

// HandleTransform requests a derived rendition from the image host and
// stores its URL on the photo.
func (h *PhotoHandler) HandleTransform(c *fiber.Ctx) error {
	var req services.Transformation
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationJSON(c, err)
	}

	photo, err := h.photoService.Transform(c.UserContext(), middleware.CurrentUser(c), c.Params("id"), req)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(photo)
}

// HandleDelete removes a photo and its remote asset.
func (h *PhotoHandler) HandleDelete(c *fiber.Ctx) error {
	err := h.photoService.Delete(c.UserContext(), middleware.CurrentUser(c), c.Params("id"))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// formTags reads the tags form field, accepting both repeated fields and a
// single comma-separated value.
func formTags(c *fiber.Ctx) []string {
	form, err := c.MultipartForm()
	if err != nil {
		return nil
	}
	values := form.Value["tags"]
	if len(values) == 1 && strings.Contains(values[0], ",") {
		values = strings.Split(values[0], ",")
	}
	return values
}
