package model

import (
	"time"

	"github.com/google/uuid"
)

// Product is a catalog item. When Variants is non-empty the variants own the
// inventory truth; the product-level Stock is only the counter for products
// sold without a size/color dimension.
type Product struct {
	BaseModel
	SKU         string `gorm:"type:varchar(50);uniqueIndex;not null" json:"sku" validate:"required"`
	Name        string `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Description string `gorm:"type:text" json:"description"`
	ImageURL    string `gorm:"type:text" json:"image_url"`

	CategoryID *uuid.UUID `gorm:"type:uuid;index" json:"category_id,omitempty"`
	Category   *Category  `gorm:"foreignKey:CategoryID" json:"category,omitempty" validate:"-"`

	// Prices are integer VND. Formatted strings never reach storage.
	Price     int64  `gorm:"not null;default:0" json:"price"`
	SalePrice *int64 `json:"sale_price,omitempty"`

	IsFlashSale    bool       `gorm:"default:false" json:"is_flash_sale"`
	FlashSaleStart *time.Time `json:"flash_sale_start,omitempty"`
	FlashSaleEnd   *time.Time `json:"flash_sale_end,omitempty"`

	Stock    int       `gorm:"default:0" json:"stock"`
	Variants []Variant `gorm:"constraint:OnDelete:CASCADE" json:"variants,omitempty" validate:"-"`
}

// Variant is one size×color combination with its own stock counter.
type Variant struct {
	BaseModel
	ProductID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_variant_combo" json:"product_id"`
	Size      string    `gorm:"type:varchar(20);uniqueIndex:idx_variant_combo" json:"size"`
	Color     string    `gorm:"type:varchar(50);uniqueIndex:idx_variant_combo" json:"color"`
	Stock     int       `gorm:"not null;default:0" json:"stock"`
}

// EffectivePrice resolves the unit price at the given instant. The sale
// price applies only while the flash window is open; an absent bound leaves
// that side of the window unbounded. Window ends are inclusive.
func (p *Product) EffectivePrice(now time.Time) int64 {
	if !p.IsFlashSale || p.SalePrice == nil {
		return p.Price
	}
	if p.FlashSaleStart != nil && now.Before(*p.FlashSaleStart) {
		return p.Price
	}
	if p.FlashSaleEnd != nil && now.After(*p.FlashSaleEnd) {
		return p.Price
	}
	return *p.SalePrice
}

// FindVariant returns the variant matching size and color exactly. A product
// carrying only a dimensionless variant (empty size and color) matches any
// request against that variant, mirroring how single-size items are sold.
func (p *Product) FindVariant(size, color string) *Variant {
	for i := range p.Variants {
		if p.Variants[i].Size == size && p.Variants[i].Color == color {
			return &p.Variants[i]
		}
	}
	if len(p.Variants) == 1 && p.Variants[0].Size == "" && p.Variants[0].Color == "" {
		return &p.Variants[0]
	}
	return nil
}

// TotalStock sums variant stock, or returns the aggregate counter for
// variant-less products.
func (p *Product) TotalStock() int {
	if len(p.Variants) == 0 {
		return p.Stock
	}
	total := 0
	for i := range p.Variants {
		total += p.Variants[i].Stock
	}
	return total
}
