package service

import (
	"errors"
	"fmt"

	"sigmavie-commerce/internal/model"
	"sigmavie-commerce/internal/repository"
	"sigmavie-commerce/internal/ws"
	"sigmavie-commerce/pkg/validator"

	"github.com/google/uuid"
)

var (
	ErrSKUExists       = errors.New("SKU already exists")
	ErrCategoryExists  = errors.New("category slug already exists")
	ErrCategoryMissing = errors.New("category not found")
)

type CatalogService interface {
	CreateProduct(product *model.Product, actor string) error
	UpdateProduct(id uuid.UUID, product *model.Product, actor string) (*model.Product, error)
	DeleteProduct(id uuid.UUID, actor string) error
	GetProducts() ([]model.Product, error)
	GetProduct(id uuid.UUID) (*model.Product, error)

	CreateCategory(category *model.Category, actor string) error
	GetCategories() ([]model.Category, error)
	DeleteCategory(id uuid.UUID, actor string) error
}

type catalogService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	hub          *ws.Hub
}

func NewCatalogService(pRepo repository.ProductRepository, cRepo repository.CategoryRepository, hub *ws.Hub) CatalogService {
	return &catalogService{
		productRepo:  pRepo,
		categoryRepo: cRepo,
		hub:          hub,
	}
}

func (s *catalogService) publish(topic string, payload interface{}) {
	if s.hub == nil {
		return
	}
	go s.hub.Publish(topic, payload)
}

func (s *catalogService) CreateProduct(product *model.Product, actor string) error {
	if errs := validator.ValidateStruct(product); len(errs) > 0 {
		first := errs[0]
		return fmt.Errorf("validation failed: field '%s' failed on tag '%s'", first.FailedField, first.Tag)
	}

	existing, _ := s.productRepo.FindBySKU(product.SKU)
	if existing != nil && existing.ID != uuid.Nil {
		return ErrSKUExists
	}

	product.CreatedBy = actor
	product.UpdatedBy = actor

	if err := s.productRepo.Create(product); err != nil {
		return err
	}

	s.publish(ws.TopicProducts, product)
	return nil
}

func (s *catalogService) UpdateProduct(id uuid.UUID, product *model.Product, actor string) (*model.Product, error) {
	existing, err := s.productRepo.FindByID(id)
	if err != nil {
		return nil, ErrProductNotFound
	}

	existing.Name = product.Name
	existing.SKU = product.SKU
	existing.Description = product.Description
	existing.ImageURL = product.ImageURL
	existing.CategoryID = product.CategoryID
	existing.Price = product.Price
	existing.SalePrice = product.SalePrice
	existing.IsFlashSale = product.IsFlashSale
	existing.FlashSaleStart = product.FlashSaleStart
	existing.FlashSaleEnd = product.FlashSaleEnd
	existing.UpdatedBy = actor
	if product.Variants != nil {
		existing.Variants = product.Variants
	}
	if len(existing.Variants) == 0 {
		existing.Stock = product.Stock
	}

	if err := s.productRepo.Update(existing); err != nil {
		return nil, err
	}

	s.publish(ws.TopicProducts, existing)
	return existing, nil
}

func (s *catalogService) DeleteProduct(id uuid.UUID, actor string) error {
	// Soft delete: catalog removal only. Ledger entries survive, so the
	// audit trail is never orphaned.
	if err := s.productRepo.Delete(id); err != nil {
		return err
	}
	s.publish(ws.TopicProducts, map[string]interface{}{"deleted": id, "by": actor})
	return nil
}

func (s *catalogService) GetProducts() ([]model.Product, error) {
	return s.productRepo.FindAll()
}

func (s *catalogService) GetProduct(id uuid.UUID) (*model.Product, error) {
	return s.productRepo.FindByID(id)
}

func (s *catalogService) CreateCategory(category *model.Category, actor string) error {
	if errs := validator.ValidateStruct(category); len(errs) > 0 {
		first := errs[0]
		return fmt.Errorf("validation failed: field '%s' failed on tag '%s'", first.FailedField, first.Tag)
	}

	existing, _ := s.categoryRepo.FindBySlug(category.Slug)
	if existing != nil && existing.ID != uuid.Nil {
		return ErrCategoryExists
	}

	category.CreatedBy = actor
	category.UpdatedBy = actor
	if err := s.categoryRepo.Create(category); err != nil {
		return err
	}

	s.publish(ws.TopicCategories, category)
	return nil
}

func (s *catalogService) GetCategories() ([]model.Category, error) {
	return s.categoryRepo.FindAll()
}

func (s *catalogService) DeleteCategory(id uuid.UUID, actor string) error {
	if err := s.categoryRepo.Delete(id); err != nil {
		return err
	}
	s.publish(ws.TopicCategories, map[string]interface{}{"deleted": id, "by": actor})
	return nil
}
