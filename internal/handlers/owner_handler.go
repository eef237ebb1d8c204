package handlers

import (
	"storerating/internal/middleware"
	"storerating/internal/services"

	"github.com/gofiber/fiber/v2"
)

// OwnerHandler serves the store owner's dashboard.
type OwnerHandler struct {
	storeService *services.StoreService
}

// NewOwnerHandler creates a new OwnerHandler.
func NewOwnerHandler(storeService *services.StoreService) *OwnerHandler {
	return &OwnerHandler{storeService: storeService}
}

// RegisterRoutes registers the store owner routes behind guards.
func (h *OwnerHandler) RegisterRoutes(router fiber.Router, guards ...fiber.Handler) {
	ownerRoutes := router.Group("/store-owner", guards...)
	ownerRoutes.Get("/dashboard", h.HandleDashboard)
}

// HandleDashboard returns the average rating and raters of the caller's store.
func (h *OwnerHandler) HandleDashboard(c *fiber.Ctx) error {
	id, _ := middleware.CurrentIdentity(c)

	dash, err := h.storeService.OwnerDashboard(c.UserContext(), id.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dash)
}
