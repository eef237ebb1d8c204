package handlers

import (
	"storerating/internal/middleware"
	"storerating/internal/repositories"
	"storerating/internal/services"

	"github.com/gofiber/fiber/v2"
)

// UserHandler serves the Normal user's store browsing and rating endpoints.
type UserHandler struct {
	storeService  *services.StoreService
	ratingService *services.RatingService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(storeService *services.StoreService, ratingService *services.RatingService) *UserHandler {
	return &UserHandler{storeService: storeService, ratingService: ratingService}
}

// RegisterRoutes registers the user routes behind guards.
func (h *UserHandler) RegisterRoutes(router fiber.Router, guards ...fiber.Handler) {
	userRoutes := router.Group("/users", guards...)
	userRoutes.Get("/stores", h.HandleListStores)
	userRoutes.Post("/ratings", h.HandleSubmitRating)
}

// HandleListStores lists stores with the overall and the caller's own rating.
func (h *UserHandler) HandleListStores(c *fiber.Ctx) error {
	id, _ := middleware.CurrentIdentity(c)

	var filter repositories.StoreFilter
	if err := parseQuery(c, &filter); err != nil {
		return respondError(c, err)
	}

	stores, err := h.storeService.ListStoresForUser(c.UserContext(), id.ID, filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(stores)
}

// HandleSubmitRating creates or replaces the caller's rating of a store.
func (h *UserHandler) HandleSubmitRating(c *fiber.Ctx) error {
	id, _ := middleware.CurrentIdentity(c)

	var in services.RatingInput
	if err := parseBody(c, &in); err != nil {
		return respondError(c, err)
	}

	if err := h.ratingService.Submit(c.UserContext(), id.ID, in); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Rating submitted successfully."})
}
