package model

import "github.com/google/uuid"

type StockEntryType string

const (
	StockImport StockEntryType = "IMPORT"
	StockExport StockEntryType = "EXPORT"
)

// StockEntry is one row of the append-only inventory ledger. Entries are
// written in the same database transaction as the counter mutation they
// describe and are never updated afterwards.
type StockEntry struct {
	BaseModel
	ProductID uuid.UUID  `gorm:"type:uuid;not null;index" json:"product_id" validate:"uuid_required"`
	Product   *Product   `json:"product,omitempty" validate:"-"`
	VariantID *uuid.UUID `gorm:"type:uuid;index" json:"variant_id,omitempty"`

	Type     StockEntryType `gorm:"type:varchar(10);not null" json:"type" validate:"required,oneof=IMPORT EXPORT"`
	Quantity int            `gorm:"not null" json:"quantity" validate:"required,gt=0"`
	Size     string         `gorm:"type:varchar(20)" json:"size"`
	Color    string         `gorm:"type:varchar(50)" json:"color"`
	Note     string         `gorm:"type:text" json:"note"`
}
