package handlers

import (
	"photoshare/internal/middleware"
	"photoshare/internal/repositories"
	"photoshare/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// RatingHandler handles HTTP requests for ratings.
type RatingHandler struct {
	ratingService *services.RatingService
	validate      *validator.Validate
}

// NewRatingHandler creates a new RatingHandler.
func NewRatingHandler(ratingService *services.RatingService) *RatingHandler {
	return &RatingHandler{
		ratingService: ratingService,
		validate:      validator.New(),
	}
}

// RegisterRoutes registers the rating routes.
func (h *RatingHandler) RegisterRoutes(router fiber.Router) {
	ratingRoutes := router.Group("/ratings")
	ratingRoutes.Post("/", h.HandleCreate)
	ratingRoutes.Delete("/:id", h.HandleDelete)
	ratingRoutes.Get("/", h.HandleList)
	ratingRoutes.Get("/photo/:photoId/average", h.HandleAverage)
}

// CreateRatingRequest represents the request body for a new rating.
type CreateRatingRequest struct {
	PhotoID string `json:"photo_id" validate:"required"`
	Value   int    `json:"value" validate:"required,min=1,max=5"`
}

// HandleCreate records a rating for a photo.
func (h *RatingHandler) HandleCreate(c *fiber.Ctx) error {
	var req CreateRatingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationJSON(c, err)
	}

	rating, err := h.ratingService.Create(middleware.CurrentUser(c), req.PhotoID, req.Value)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(rating)
}

// HandleDelete removes a rating. Rater or moderator/administrator.
func (h *RatingHandler) HandleDelete(c *fiber.Ctx) error {
	if err := h.ratingService.Delete(middleware.CurrentUser(c), c.Params("id")); err != nil {
		return errorJSON(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleList returns ratings filtered by photo and/or rater. The unfiltered
// form is restricted to moderators and administrators.
func (h *RatingHandler) HandleList(c *fiber.Ctx) error {
	filter := repositories.RatingFilter{
		PhotoID: c.Query("photo_id"),
		UserID:  c.Query("user_id"),
	}
	ratings, err := h.ratingService.List(middleware.CurrentUser(c), filter)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(ratings)
}

// HandleAverage returns a photo's mean rating; null when it has none.
func (h *RatingHandler) HandleAverage(c *fiber.Ctx) error {
	photoID := c.Params("photoId")
	avg, err := h.ratingService.AverageForPhoto(photoID)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(fiber.Map{
		"photo_id":       photoID,
		"average_rating": avg,
	})
}
