package handlers

import (
	"errors"
	"strconv"

	"storerating/internal/apperr"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

// respondError writes err as a {message} body with the status its kind maps
// to. Internal failures are logged and never described to the client.
func respondError(c *fiber.Ctx, err error) error {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Kind == apperr.KindInternal {
		log.WithError(err).WithFields(log.Fields{
			"method": c.Method(),
			"path":   c.Path(),
		}).Error("request failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Internal server error.",
		})
	}

	body := fiber.Map{"message": appErr.Message}
	if len(appErr.Fields) > 0 {
		body["errors"] = appErr.Fields
	}
	return c.Status(apperr.HTTPStatus(appErr.Kind)).JSON(body)
}

func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		log.WithError(err).WithField("path", c.Path()).Debug("error parsing request body")
		return apperr.Validation("Invalid request body.", nil)
	}
	return nil
}

func parseQuery(c *fiber.Ctx, out any) error {
	if err := c.QueryParser(out); err != nil {
		return apperr.Validation("Invalid query parameters.", nil)
	}
	return nil
}

func parseID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.Validation("Invalid id.", map[string]string{"id": "id must be a positive integer."})
	}
	return uint(id), nil
}
