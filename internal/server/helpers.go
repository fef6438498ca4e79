package server

import (
	"devshelf/internal/models"
	"devshelf/internal/service"

	"github.com/gofiber/fiber/v2"
)

// identityID returns the authenticated identity stored by the auth
// middleware. An empty string means the route was reached without it.
func identityID(c *fiber.Ctx) string {
	if id, ok := c.Locals("identityID").(string); ok {
		return id
	}
	return ""
}

func identityName(c *fiber.Ctx) string {
	if name, ok := c.Locals("identityName").(string); ok {
		return name
	}
	return ""
}

// parseListInput extracts the catalog query tuple from query parameters.
// Clamping happens in the service so every caller shares the same bounds.
func parseListInput(c *fiber.Ctx) service.ListInput {
	return service.ListInput{
		Tag:    c.Query("tag", "all"),
		Search: c.Query("search"),
		SortBy: c.Query("sortBy", "newest"),
		Page:   c.QueryInt("page", 1),
		Limit:  c.QueryInt("limit", service.DefaultPageLimit),
	}
}

// statusForError maps an application error to its HTTP status.
func statusForError(err error) int {
	if appErr, ok := err.(*models.AppError); ok {
		switch appErr.Code {
		case models.CodeValidation:
			return fiber.StatusBadRequest
		case models.CodeUnauthorized:
			return fiber.StatusUnauthorized
		case models.CodeForbidden:
			return fiber.StatusForbidden
		case models.CodeNotFound:
			return fiber.StatusNotFound
		case models.CodeConflict:
			return fiber.StatusConflict
		}
	}
	return fiber.StatusInternalServerError
}

// respondServiceError writes the JSON error body with the mapped status.
func respondServiceError(c *fiber.Ctx, err error) error {
	return models.RespondWithError(c, statusForError(err), err)
}
