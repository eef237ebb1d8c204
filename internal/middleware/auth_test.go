package middleware_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"storerating/internal/middleware"
	"storerating/internal/models"
	"storerating/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp(creds *services.Credentials) *fiber.App {
	app := fiber.New()
	app.Get("/me", middleware.AuthRequired(creds), func(c *fiber.Ctx) error {
		id, ok := middleware.CurrentIdentity(c)
		if !ok {
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		return c.JSON(id)
	})
	app.Get("/admin", middleware.AuthRequired(creds), middleware.RequireRoles(models.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	app.Get("/no-auth", middleware.RequireRoles(models.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	return app
}

func do(t *testing.T, app *fiber.App, path, authHeader string) (*http.Response, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body map[string]any
	_ = json.Unmarshal(raw, &body)
	return resp, body
}

func TestAuthRequired(t *testing.T) {
	creds := services.NewCredentials("middleware-secret")
	app := newApp(creds)

	token, err := creds.IssueToken(services.Identity{ID: 12, Name: "Someone With A Long Name", Email: "s@x.com", Role: models.RoleNormal})
	require.NoError(t, err)
	foreign, err := services.NewCredentials("other-secret").IssueToken(services.Identity{ID: 12, Role: models.RoleAdmin})
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"no header", "", fiber.StatusUnauthorized},
		{"bearer without token", "Bearer ", fiber.StatusUnauthorized},
		{"wrong scheme", "Basic dXNlcjpwYXNz", fiber.StatusForbidden},
		{"bare token", token, fiber.StatusForbidden},
		{"garbage token", "Bearer not.a.jwt", fiber.StatusForbidden},
		{"foreign signature", "Bearer " + foreign, fiber.StatusForbidden},
		{"valid", "Bearer " + token, fiber.StatusOK},
		{"lowercase scheme", "bearer " + token, fiber.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := do(t, app, "/me", tt.header)
			assert.Equal(t, tt.status, resp.StatusCode)
			if tt.status != fiber.StatusOK {
				assert.NotEmpty(t, body["message"])
			}
		})
	}

	_, body := do(t, app, "/me", "Bearer "+token)
	assert.Equal(t, float64(12), body["id"])
	assert.Equal(t, "Normal", body["role"])
}

func TestRequireRoles(t *testing.T) {
	creds := services.NewCredentials("middleware-secret")
	app := newApp(creds)

	admin, err := creds.IssueToken(services.Identity{ID: 1, Role: models.RoleAdmin})
	require.NoError(t, err)
	normal, err := creds.IssueToken(services.Identity{ID: 2, Role: models.RoleNormal})
	require.NoError(t, err)

	resp, _ := do(t, app, "/admin", "Bearer "+admin)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, body := do(t, app, "/admin", "Bearer "+normal)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Contains(t, body["message"], "Forbidden")

	resp, _ = do(t, app, "/admin", "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, _ = do(t, app, "/no-auth", "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
