package middleware

import (
	"strings"

	"storerating/internal/apperr"
	"storerating/internal/models"
	"storerating/internal/services"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

const identityKey = "identity"

// AuthRequired is a Fiber middleware to check for a valid JWT token.
// A missing credential is 401; a malformed or unverifiable one is 403.
func AuthRequired(creds *services.Credentials) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
		if authHeader == "" {
			return deny(c, apperr.Unauthenticated("Unauthorized. No token provided."))
		}

		// Expected format: "Bearer <token>"
		scheme, tokenString, _ := strings.Cut(authHeader, " ")
		if !strings.EqualFold(scheme, "Bearer") {
			return deny(c, apperr.Forbidden("Forbidden. Authorization header must be 'Bearer <token>'.", nil))
		}
		tokenString = strings.TrimSpace(tokenString)
		if tokenString == "" {
			return deny(c, apperr.Unauthenticated("Unauthorized. No token provided."))
		}

		claims, err := creds.VerifyToken(tokenString)
		if err != nil {
			log.WithError(err).WithField("path", c.Path()).Debug("token verification failed")
			return deny(c, apperr.Forbidden("Forbidden. Invalid token.", err))
		}

		c.Locals(identityKey, claims.Identity())
		return c.Next()
	}
}

// RequireRoles admits only identities whose role is one of roles. It must
// run after AuthRequired.
func RequireRoles(roles ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := CurrentIdentity(c)
		if !ok {
			return deny(c, apperr.Unauthenticated("Unauthorized. No token provided."))
		}
		for _, r := range roles {
			if id.Role == r {
				return c.Next()
			}
		}
		return deny(c, apperr.Forbidden("Forbidden. You do not have permission to access this resource.", nil))
	}
}

// CurrentIdentity returns the identity AuthRequired attached to the request.
func CurrentIdentity(c *fiber.Ctx) (services.Identity, bool) {
	id, ok := c.Locals(identityKey).(services.Identity)
	return id, ok
}

func deny(c *fiber.Ctx, err *apperr.Error) error {
	return c.Status(apperr.HTTPStatus(err.Kind)).JSON(fiber.Map{"message": err.Message})
}
