package server

import (
	"encoding/json"

	"devshelf/internal/models"
	"devshelf/internal/service"

	"github.com/gofiber/fiber/v2"
)

// resourcePayload is the wire form of a create or update request. Tag stays
// raw because clients send either a string or an array.
type resourcePayload struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	ImageURL    string          `json:"imageUrl"`
	Link        string          `json:"link"`
	Tag         json.RawMessage `json:"tag"`
}

// ListResources handles GET /api/resources. The response always carries the
// page plus pagination metadata computed from the same filter predicate.
func (s *Server) ListResources(c *fiber.Ctx) error {
	result, err := s.catalog.ListResources(c.UserContext(), parseListInput(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(result)
}

// UserResources handles GET /api/resources/me.
func (s *Server) UserResources(c *fiber.Ctx) error {
	resources, err := s.catalog.UserResources(c.UserContext(), identityID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"resources": resources})
}

// CreateResource handles POST /api/resources.
func (s *Server) CreateResource(c *fiber.Ctx) error {
	var payload resourcePayload
	if err := c.BodyParser(&payload); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	tags, err := models.ParseTagPayload(payload.Tag)
	if err != nil {
		return respondServiceError(c, err)
	}

	resource, err := s.catalog.CreateResource(c.UserContext(), service.CreateInput{
		ExternalID:   identityID(c),
		IdentityName: identityName(c),
		Title:        payload.Title,
		Description:  payload.Description,
		ImageURL:     payload.ImageURL,
		Link:         payload.Link,
		Tags:         tags,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resource)
}

// UpdateResource handles PUT /api/resources. The target id travels in the
// request body alongside the replacement fields.
func (s *Server) UpdateResource(c *fiber.Ctx) error {
	var payload resourcePayload
	if err := c.BodyParser(&payload); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if payload.ID == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Resource id is required"))
	}

	tags, err := models.ParseTagPayload(payload.Tag)
	if err != nil {
		return respondServiceError(c, err)
	}

	resource, err := s.catalog.UpdateResource(c.UserContext(), service.UpdateInput{
		ExternalID:  identityID(c),
		ID:          payload.ID,
		Title:       payload.Title,
		Description: payload.Description,
		ImageURL:    payload.ImageURL,
		Link:        payload.Link,
		Tags:        tags,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(resource)
}

// DeleteResource handles DELETE /api/resources with the id in the body.
func (s *Server) DeleteResource(c *fiber.Ctx) error {
	var payload struct {
		ID string `json:"id"`
	}
	if err := c.BodyParser(&payload); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if payload.ID == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Resource id is required"))
	}

	if err := s.catalog.DeleteResource(c.UserContext(), identityID(c), payload.ID); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Resource deleted successfully"})
}
