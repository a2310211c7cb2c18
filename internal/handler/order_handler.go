package handler

import (
	"errors"

	"sigmavie-commerce/internal/model"
	"sigmavie-commerce/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type OrderHandler struct {
	service service.OrderService
}

func NewOrderHandler(s service.OrderService) *OrderHandler {
	return &OrderHandler{service: s}
}

// orderFailure maps domain errors onto the storefront's user-facing
// messages. Domain failures are results, not exceptions: the client reads
// success=false plus a message it can show directly.
func orderFailure(c *fiber.Ctx, err error) error {
	var illegal *model.ErrIllegalTransition
	switch {
	case errors.Is(err, service.ErrInsufficientStock):
		return c.Status(409).JSON(fiber.Map{"success": false, "message": "Sản phẩm không đủ hàng"})
	case errors.Is(err, service.ErrUnknownVariant):
		return c.Status(400).JSON(fiber.Map{"success": false, "message": "Sản phẩm không có phân loại này"})
	case errors.Is(err, service.ErrProductNotFound):
		return c.Status(404).JSON(fiber.Map{"success": false, "message": "Không tìm thấy sản phẩm"})
	case errors.Is(err, service.ErrCustomerNotFound):
		return c.Status(404).JSON(fiber.Map{"success": false, "message": "Không tìm thấy khách hàng"})
	case errors.Is(err, service.ErrOrderNotFound):
		return c.Status(404).JSON(fiber.Map{"success": false, "message": "Không tìm thấy đơn hàng"})
	case errors.Is(err, service.ErrNotOrderOwner):
		return c.Status(403).JSON(fiber.Map{"success": false, "message": "Đơn hàng không thuộc về bạn"})
	case errors.Is(err, service.ErrInvalidQuantity), errors.Is(err, service.ErrEmptyCheckout):
		return c.Status(400).JSON(fiber.Map{"success": false, "message": "Số lượng không hợp lệ"})
	case errors.As(err, &illegal):
		return c.Status(409).JSON(fiber.Map{"success": false, "message": err.Error()})
	default:
		return c.Status(500).JSON(fiber.Map{"success": false, "message": "Lỗi hệ thống, vui lòng thử lại"})
	}
}

func (h *OrderHandler) PlaceOrder(c *fiber.Ctx) error {
	var req service.PlaceOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "message": "Invalid JSON"})
	}

	order, err := h.service.PlaceOrder(req)
	if err != nil {
		return orderFailure(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"success": true, "order": order})
}

func (h *OrderHandler) Checkout(c *fiber.Ctx) error {
	var req struct {
		Lines []service.PlaceOrderRequest `json:"lines"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "message": "Invalid JSON"})
	}

	orders, err := h.service.Checkout(req.Lines)
	if err != nil {
		return orderFailure(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"success": true, "orders": orders})
}

func (h *OrderHandler) CancelByCustomer(c *fiber.Ctx) error {
	orderID, err := parseUUIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "message": "Invalid order ID"})
	}
	var req struct {
		CustomerID uuid.UUID `json:"customer_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "message": "Invalid JSON"})
	}

	order, err := h.service.CancelByCustomer(orderID, req.CustomerID)
	if err != nil {
		return orderFailure(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "order": order})
}

func (h *OrderHandler) GetOrders(c *fiber.Ctx) error {
	if customerID := c.Query("customer_id"); customerID != "" {
		id, err := uuid.Parse(customerID)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid customer ID"})
		}
		orders, err := h.service.GetByCustomer(id)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
		}
		return c.JSON(orders)
	}

	orders, err := h.service.GetAll()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(orders)
}

func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid order ID"})
	}
	order, err := h.service.GetByID(id)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Order not found"})
	}
	return c.JSON(order)
}

func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid order ID"})
	}
	var req struct {
		Status model.OrderStatus `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	order, err := h.service.UpdateStatus(id, req.Status, actorID(c))
	if err != nil {
		return orderFailure(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "order": order})
}
