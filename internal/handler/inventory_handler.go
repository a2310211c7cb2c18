package handler

import (
	"errors"
	"time"

	"sigmavie-commerce/internal/model"
	"sigmavie-commerce/internal/repository"
	"sigmavie-commerce/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type InventoryHandler struct {
	service    service.InventoryService
	ledgerRepo repository.StockEntryRepository
}

func NewInventoryHandler(s service.InventoryService, ledgerRepo repository.StockEntryRepository) *InventoryHandler {
	return &InventoryHandler{service: s, ledgerRepo: ledgerRepo}
}

type adjustStockRequest struct {
	ProductID uuid.UUID            `json:"product_id"`
	Type      model.StockEntryType `json:"type"`
	Quantity  int                  `json:"quantity"`
	Size      string               `json:"size"`
	Color     string               `json:"color"`
	Note      string               `json:"note"`
}

func (h *InventoryHandler) AdjustStock(c *fiber.Ctx) error {
	var req adjustStockRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if req.Type != model.StockImport && req.Type != model.StockExport {
		return c.Status(400).JSON(fiber.Map{"error": "type must be IMPORT or EXPORT"})
	}

	err := h.service.AdjustStock(req.ProductID, req.Type, req.Quantity, req.Size, req.Color, req.Note, actorID(c))
	switch {
	case err == nil:
		return c.Status(201).JSON(fiber.Map{"message": "Stock adjusted"})
	case errors.Is(err, service.ErrInsufficientStock):
		return c.Status(409).JSON(fiber.Map{"error": "Insufficient stock for export"})
	case errors.Is(err, service.ErrUnknownVariant):
		return c.Status(400).JSON(fiber.Map{"error": "Unknown size/color combination"})
	case errors.Is(err, service.ErrProductNotFound):
		return c.Status(404).JSON(fiber.Map{"error": "Product not found"})
	default:
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
}

func (h *InventoryHandler) GetLedger(c *fiber.Ctx) error {
	entries, err := h.service.GetLedger()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(entries)
}

func (h *InventoryHandler) GetLedgerByProduct(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}
	entries, err := h.service.GetLedgerByProduct(id)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(entries)
}

func (h *InventoryHandler) Reconcile(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}
	drift, err := h.service.ReconcileLedger(id)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(drift)
}

func (h *InventoryHandler) GetDashboardStats(c *fiber.Ctx) error {
	stats, err := h.ledgerRepo.DashboardStats()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch dashboard stats"})
	}
	return c.JSON(stats)
}

// GetStockMovement returns per-day import/export aggregates for charts.
// Query params: days (default 7).
func (h *InventoryHandler) GetStockMovement(c *fiber.Ctx) error {
	days := c.QueryInt("days", 7)
	if days <= 0 {
		days = 7
	}

	endDate := time.Now()
	startDate := endDate.AddDate(0, 0, -days)
	data, err := h.ledgerRepo.StockMovement(startDate, endDate)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch stock movement"})
	}
	return c.JSON(fiber.Map{"period": days, "data": data})
}
