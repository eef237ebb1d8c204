package handlers

import (
	"storerating/internal/middleware"
	"storerating/internal/services"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles HTTP requests for authentication and self-service
// account changes.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRoutes registers the authentication routes. auth guards the
// account-change routes.
func (h *AuthHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/signup", h.HandleSignup)
	authRoutes.Post("/login", h.HandleLogin)
	authRoutes.Put("/profile", auth, h.HandleUpdateProfile)
	authRoutes.Put("/update-password", auth, h.HandleUpdatePassword)
}

// HandleSignup registers a new Normal user.
func (h *AuthHandler) HandleSignup(c *fiber.Ctx) error {
	var in services.SignupInput
	if err := parseBody(c, &in); err != nil {
		return respondError(c, err)
	}

	if _, err := h.authService.Signup(c.UserContext(), in); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User registered successfully!",
	})
}

// HandleLogin handles user login and issues a JWT token.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var in services.LoginInput
	if err := parseBody(c, &in); err != nil {
		return respondError(c, err)
	}

	result, err := h.authService.Login(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}

// HandleUpdateProfile changes the caller's name and email and returns a
// replacement token.
func (h *AuthHandler) HandleUpdateProfile(c *fiber.Ctx) error {
	id, _ := middleware.CurrentIdentity(c)

	var in services.ProfileInput
	if err := parseBody(c, &in); err != nil {
		return respondError(c, err)
	}

	token, err := h.authService.UpdateProfile(c.UserContext(), id.ID, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Profile updated successfully.",
		"token":   token,
	})
}

// HandleUpdatePassword replaces the caller's password.
func (h *AuthHandler) HandleUpdatePassword(c *fiber.Ctx) error {
	id, _ := middleware.CurrentIdentity(c)

	var in services.PasswordInput
	if err := parseBody(c, &in); err != nil {
		return respondError(c, err)
	}

	if err := h.authService.UpdatePassword(c.UserContext(), id.ID, in); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Password updated successfully."})
}
