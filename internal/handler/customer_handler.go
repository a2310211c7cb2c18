package handler

import (
	"errors"

	"sigmavie-commerce/internal/model"
	"sigmavie-commerce/internal/service"

	"github.com/gofiber/fiber/v2"
)

type CustomerHandler struct {
	service  service.CustomerService
	notifier service.Notifier
}

func NewCustomerHandler(s service.CustomerService, n service.Notifier) *CustomerHandler {
	return &CustomerHandler{service: s, notifier: n}
}

func (h *CustomerHandler) Register(c *fiber.Ctx) error {
	var req service.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "message": "Invalid JSON"})
	}

	customer, err := h.service.Register(req)
	switch {
	case err == nil:
		return c.Status(201).JSON(fiber.Map{"success": true, "customer": customer})
	case errors.Is(err, service.ErrEmailTaken):
		return c.Status(409).JSON(fiber.Map{"success": false, "message": "Email đã được đăng ký"})
	case errors.Is(err, service.ErrPhoneTaken):
		return c.Status(409).JSON(fiber.Map{"success": false, "message": "Số điện thoại đã được đăng ký"})
	case errors.Is(err, service.ErrCCCDTaken):
		return c.Status(409).JSON(fiber.Map{"success": false, "message": "Số CCCD đã được đăng ký"})
	case errors.Is(err, service.ErrPasswordMismatch):
		return c.Status(400).JSON(fiber.Map{"success": false, "message": "Mật khẩu xác nhận không khớp"})
	default:
		return c.Status(400).JSON(fiber.Map{"success": false, "message": err.Error()})
	}
}

func (h *CustomerHandler) Login(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "message": "Invalid JSON"})
	}

	customer, err := h.service.Authenticate(req.Email, req.Password)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "message": "Email hoặc mật khẩu không đúng"})
	}
	return c.JSON(fiber.Map{"success": true, "customer": customer})
}

func (h *CustomerHandler) GetCustomers(c *fiber.Ctx) error {
	customers, err := h.service.GetAll()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(customers)
}

func (h *CustomerHandler) GetCustomer(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid customer ID"})
	}
	customer, err := h.service.GetByID(id)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Customer not found"})
	}
	return c.JSON(customer)
}

func (h *CustomerHandler) UpdateCustomer(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid customer ID"})
	}
	var update model.Customer
	if err := c.BodyParser(&update); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	customer, err := h.service.Update(id, &update, actorID(c))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Customer updated", "data": customer})
}

func (h *CustomerHandler) DeleteCustomer(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid customer ID"})
	}
	if err := h.service.Delete(id); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Customer deleted"})
}

// Recover rebuilds customer records referenced by orders but missing from
// the customer table.
func (h *CustomerHandler) Recover(c *fiber.Ctx) error {
	recovered, err := h.service.RecoverFromOrders()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Recovery complete", "recovered": recovered})
}

// SendOTP fans the code out over SMS and email, best-effort.
func (h *CustomerHandler) SendOTP(c *fiber.Ctx) error {
	var req struct {
		Phone string `json:"phone"`
		Email string `json:"email"`
		Code  string `json:"code"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if req.Code == "" || (req.Phone == "" && req.Email == "") {
		return c.Status(400).JSON(fiber.Map{"error": "code and at least one of phone/email are required"})
	}

	h.notifier.SendOTP(c.Context(), req.Phone, req.Email, req.Code)
	return c.JSON(fiber.Map{"message": "OTP dispatched"})
}
