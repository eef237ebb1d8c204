package handlers

import (
	"storerating/internal/repositories"
	"storerating/internal/services"

	"github.com/gofiber/fiber/v2"
)

// AdminHandler serves the administrator endpoints.
type AdminHandler struct {
	adminService *services.AdminService
	storeService *services.StoreService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(adminService *services.AdminService, storeService *services.StoreService) *AdminHandler {
	return &AdminHandler{adminService: adminService, storeService: storeService}
}

// RegisterRoutes registers the admin routes behind guards, which must
// authenticate the caller and admit only admins.
func (h *AdminHandler) RegisterRoutes(router fiber.Router, guards ...fiber.Handler) {
	adminRoutes := router.Group("/admin", guards...)
	adminRoutes.Get("/dashboard-stats", h.HandleDashboardStats)
	adminRoutes.Get("/users", h.HandleListUsers)
	adminRoutes.Post("/users", h.HandleCreateUser)
	adminRoutes.Delete("/users/:id", h.HandleDeleteUser)
	adminRoutes.Get("/stores", h.HandleListStores)
	adminRoutes.Post("/stores", h.HandleCreateStore)
	adminRoutes.Delete("/stores/:id", h.HandleDeleteStore)
}

// HandleDashboardStats returns the user, store and rating totals.
func (h *AdminHandler) HandleDashboardStats(c *fiber.Ctx) error {
	stats, err := h.adminService.DashboardStats(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(stats)
}

// HandleListUsers lists users filtered and sorted by query parameters.
func (h *AdminHandler) HandleListUsers(c *fiber.Ctx) error {
	var filter repositories.UserFilter
	if err := parseQuery(c, &filter); err != nil {
		return respondError(c, err)
	}

	users, err := h.adminService.ListUsers(c.UserContext(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(users)
}

// HandleCreateUser creates a user of any role.
func (h *AdminHandler) HandleCreateUser(c *fiber.Ctx) error {
	var in services.CreateUserInput
	if err := parseBody(c, &in); err != nil {
		return respondError(c, err)
	}

	user, err := h.adminService.CreateUser(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User created successfully!",
		"id":      user.ID,
	})
}

// HandleDeleteUser deletes a user by id.
func (h *AdminHandler) HandleDeleteUser(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, err)
	}
	if err := h.adminService.DeleteUser(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "User deleted successfully."})
}

// HandleListStores lists stores with their average rating.
func (h *AdminHandler) HandleListStores(c *fiber.Ctx) error {
	var filter repositories.StoreFilter
	if err := parseQuery(c, &filter); err != nil {
		return respondError(c, err)
	}

	stores, err := h.storeService.ListStores(c.UserContext(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(stores)
}

// HandleCreateStore adds a store, optionally owned by a StoreOwner.
func (h *AdminHandler) HandleCreateStore(c *fiber.Ctx) error {
	var in services.CreateStoreInput
	if err := parseBody(c, &in); err != nil {
		return respondError(c, err)
	}

	store, err := h.storeService.CreateStore(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Store created successfully!",
		"id":      store.ID,
	})
}

// HandleDeleteStore deletes a store and its ratings.
func (h *AdminHandler) HandleDeleteStore(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, err)
	}
	if err := h.storeService.DeleteStore(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Store deleted successfully."})
}
