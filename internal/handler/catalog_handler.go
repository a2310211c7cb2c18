package handler

import (
	"time"

	"sigmavie-commerce/internal/model"
	"sigmavie-commerce/internal/service"
	"sigmavie-commerce/pkg/money"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CatalogHandler struct {
	service service.CatalogService
}

func NewCatalogHandler(s service.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: s}
}

// productPayload accepts prices either as integer VND or as the legacy
// formatted strings old admin exports still contain.
type productPayload struct {
	SKU            string          `json:"sku"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	ImageURL       string          `json:"image_url"`
	CategoryID     *uuid.UUID      `json:"category_id"`
	Price          int64           `json:"price"`
	PriceText      string          `json:"price_text"`
	SalePrice      *int64          `json:"sale_price"`
	SalePriceText  string          `json:"sale_price_text"`
	IsFlashSale    bool            `json:"is_flash_sale"`
	FlashSaleStart *time.Time      `json:"flash_sale_start"`
	FlashSaleEnd   *time.Time      `json:"flash_sale_end"`
	Stock          int             `json:"stock"`
	Variants       []model.Variant `json:"variants"`
}

func (p *productPayload) toModel() (*model.Product, error) {
	product := &model.Product{
		SKU:            p.SKU,
		Name:           p.Name,
		Description:    p.Description,
		ImageURL:       p.ImageURL,
		CategoryID:     p.CategoryID,
		Price:          p.Price,
		SalePrice:      p.SalePrice,
		IsFlashSale:    p.IsFlashSale,
		FlashSaleStart: p.FlashSaleStart,
		FlashSaleEnd:   p.FlashSaleEnd,
		Stock:          p.Stock,
		Variants:       p.Variants,
	}
	if p.PriceText != "" {
		v, err := money.ParseVND(p.PriceText)
		if err != nil {
			return nil, err
		}
		product.Price = v
	}
	if p.SalePriceText != "" {
		v, err := money.ParseVND(p.SalePriceText)
		if err != nil {
			return nil, err
		}
		product.SalePrice = &v
	}
	return product, nil
}

func (h *CatalogHandler) GetProducts(c *fiber.Ctx) error {
	products, err := h.service.GetProducts()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(products)
}

func (h *CatalogHandler) GetProduct(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}
	product, err := h.service.GetProduct(id)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Product not found"})
	}
	return c.JSON(product)
}

func (h *CatalogHandler) CreateProduct(c *fiber.Ctx) error {
	var payload productPayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	product, err := payload.toModel()
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid price format"})
	}

	if err := h.service.CreateProduct(product, actorID(c)); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(201).JSON(fiber.Map{"message": "Product created", "data": product})
}

func (h *CatalogHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	var payload productPayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	product, err := payload.toModel()
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid price format"})
	}

	updated, err := h.service.UpdateProduct(id, product, actorID(c))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Product updated", "data": updated})
}

func (h *CatalogHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}
	if err := h.service.DeleteProduct(id, actorID(c)); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Product deleted"})
}

func (h *CatalogHandler) GetCategories(c *fiber.Ctx) error {
	categories, err := h.service.GetCategories()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(categories)
}

func (h *CatalogHandler) CreateCategory(c *fiber.Ctx) error {
	var category model.Category
	if err := c.BodyParser(&category); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if err := h.service.CreateCategory(&category, actorID(c)); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(201).JSON(fiber.Map{"message": "Category created", "data": category})
}

func (h *CatalogHandler) DeleteCategory(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid category ID"})
	}
	if err := h.service.DeleteCategory(id, actorID(c)); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Category deleted"})
}
