package handler

import (
	"encoding/json"

	"sigmavie-commerce/internal/service"

	"github.com/gofiber/fiber/v2"
)

type SettingsHandler struct {
	service service.SettingsService
}

func NewSettingsHandler(s service.SettingsService) *SettingsHandler {
	return &SettingsHandler{service: s}
}

func (h *SettingsHandler) Get(c *fiber.Ctx) error {
	value, err := h.service.Get(c.Params("key"))
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Setting not found"})
	}
	c.Set("Content-Type", "application/json")
	return c.Send(value)
}

func (h *SettingsHandler) Put(c *fiber.Ctx) error {
	value := json.RawMessage(c.Body())
	if err := h.service.Put(c.Params("key"), value, actorID(c)); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Setting saved"})
}
