package repository

import (
	"sigmavie-commerce/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductRepository interface {
	Create(product *model.Product) error
	FindAll() ([]model.Product, error)
	FindByID(id uuid.UUID) (*model.Product, error)
	FindBySKU(sku string) (*model.Product, error)
	Update(product *model.Product) error
	Delete(id uuid.UUID) error

	// Stock mutations take a tx so callers can bundle the counter change,
	// the ledger append and any order row into one transaction. The
	// decrements are conditional on sufficient stock and report whether a
	// row actually changed; a false return means the guard rejected it.
	DecrementVariantStock(tx *gorm.DB, productID uuid.UUID, size, color string, qty int) (bool, error)
	IncrementVariantStock(tx *gorm.DB, productID uuid.UUID, size, color string, qty int) (bool, error)
	DecrementProductStock(tx *gorm.DB, productID uuid.UUID, qty int) (bool, error)
	IncrementProductStock(tx *gorm.DB, productID uuid.UUID, qty int) (bool, error)
	FindVariant(tx *gorm.DB, productID uuid.UUID, size, color string) (*model.Variant, error)
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) Create(product *model.Product) error {
	return r.db.Create(product).Error
}

func (r *productRepo) FindAll() ([]model.Product, error) {
	var products []model.Product
	err := r.db.Preload("Variants").Preload("Category").Order("created_at DESC").Find(&products).Error
	return products, err
}

func (r *productRepo) FindByID(id uuid.UUID) (*model.Product, error) {
	var product model.Product
	err := r.db.Preload("Variants").Preload("Category").First(&product, "id = ?", id).Error
	return &product, err
}

func (r *productRepo) FindBySKU(sku string) (*model.Product, error) {
	var product model.Product
	err := r.db.First(&product, "sku = ?", sku).Error
	return &product, err
}

func (r *productRepo) Update(product *model.Product) error {
	return r.db.Session(&gorm.Session{FullSaveAssociations: true}).Save(product).Error
}

func (r *productRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&model.Product{}, "id = ?", id).Error
}

func (r *productRepo) FindVariant(tx *gorm.DB, productID uuid.UUID, size, color string) (*model.Variant, error) {
	if tx == nil {
		tx = r.db
	}
	var v model.Variant
	err := tx.First(&v, "product_id = ? AND size = ? AND color = ?", productID, size, color).Error
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// DecrementVariantStock is the single place overselling is prevented: the
// stock >= qty guard makes concurrent buyers serialize on the database row
// instead of trusting whatever stale count a client cached.
func (r *productRepo) DecrementVariantStock(tx *gorm.DB, productID uuid.UUID, size, color string, qty int) (bool, error) {
	res := tx.Model(&model.Variant{}).
		Where("product_id = ? AND size = ? AND color = ? AND stock >= ?", productID, size, color, qty).
		UpdateColumn("stock", gorm.Expr("stock - ?", qty))
	return res.RowsAffected > 0, res.Error
}

// The increments are the cancellation path. They run unscoped: an order for
// a since-removed catalog row still has to hand its stock back.
func (r *productRepo) IncrementVariantStock(tx *gorm.DB, productID uuid.UUID, size, color string, qty int) (bool, error) {
	res := tx.Unscoped().Model(&model.Variant{}).
		Where("product_id = ? AND size = ? AND color = ?", productID, size, color).
		UpdateColumn("stock", gorm.Expr("stock + ?", qty))
	return res.RowsAffected > 0, res.Error
}

func (r *productRepo) DecrementProductStock(tx *gorm.DB, productID uuid.UUID, qty int) (bool, error) {
	res := tx.Model(&model.Product{}).
		Where("id = ? AND stock >= ?", productID, qty).
		UpdateColumn("stock", gorm.Expr("stock - ?", qty))
	return res.RowsAffected > 0, res.Error
}

func (r *productRepo) IncrementProductStock(tx *gorm.DB, productID uuid.UUID, qty int) (bool, error) {
	res := tx.Unscoped().Model(&model.Product{}).
		Where("id = ?", productID).
		UpdateColumn("stock", gorm.Expr("stock + ?", qty))
	return res.RowsAffected > 0, res.Error
}
