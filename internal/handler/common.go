package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// User info placed in the request context by the auth middleware.

func actorID(c *fiber.Ctx) string {
	if v := c.Locals("user_id"); v != nil {
		return v.(string)
	}
	return "system"
}

func actorName(c *fiber.Ctx) string {
	if v := c.Locals("user_name"); v != nil {
		return v.(string)
	}
	return "Unknown"
}

func parseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	return uuid.Parse(c.Params(name))
}
