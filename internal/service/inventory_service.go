package service

import (
	"sigmavie-commerce/internal/metrics"
	"sigmavie-commerce/internal/model"
	"sigmavie-commerce/internal/repository"
	"sigmavie-commerce/internal/ws"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LedgerDrift reports a mismatch between a product's denormalized stock
// counters and the balance recomputed from the ledger.
type LedgerDrift struct {
	ProductID     uuid.UUID `json:"product_id"`
	CounterStock  int       `json:"counter_stock"`
	LedgerBalance int       `json:"ledger_balance"`
	InSync        bool      `json:"in_sync"`
}

type InventoryService interface {
	// AdjustStock applies an admin IMPORT/EXPORT and appends the matching
	// ledger entry in the same transaction. Exports that would drive stock
	// negative are rejected; unknown size/color combinations fail closed
	// rather than creating a variant.
	AdjustStock(productID uuid.UUID, entryType model.StockEntryType, qty int, size, color, note, actor string) error
	GetLedger() ([]model.StockEntry, error)
	GetLedgerByProduct(productID uuid.UUID) ([]model.StockEntry, error)
	ReconcileLedger(productID uuid.UUID) (*LedgerDrift, error)
}

type inventoryService struct {
	productRepo repository.ProductRepository
	ledgerRepo  repository.StockEntryRepository
	db          TxRunner
	hub         *ws.Hub
}

func NewInventoryService(pRepo repository.ProductRepository, lRepo repository.StockEntryRepository, db TxRunner, hub *ws.Hub) InventoryService {
	return &inventoryService{
		productRepo: pRepo,
		ledgerRepo:  lRepo,
		db:          db,
		hub:         hub,
	}
}

func (s *inventoryService) publish(topic string, payload interface{}) {
	if s.hub == nil {
		return
	}
	go s.hub.Publish(topic, payload)
}

func (s *inventoryService) AdjustStock(productID uuid.UUID, entryType model.StockEntryType, qty int, size, color, note, actor string) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}

	product, err := s.productRepo.FindByID(productID)
	if err != nil {
		return ErrProductNotFound
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		entry := &model.StockEntry{
			ProductID: productID,
			Type:      entryType,
			Quantity:  qty,
			Size:      size,
			Color:     color,
			Note:      note,
		}
		entry.CreatedBy = actor
		entry.UpdatedBy = actor

		if len(product.Variants) == 0 {
			var ok bool
			var err error
			if entryType == model.StockExport {
				ok, err = s.productRepo.DecrementProductStock(tx, productID, qty)
			} else {
				ok, err = s.productRepo.IncrementProductStock(tx, productID, qty)
			}
			if err != nil {
				return err
			}
			if !ok {
				metrics.StockRejections.WithLabelValues("insufficient").Inc()
				return ErrInsufficientStock
			}
		} else {
			variant := product.FindVariant(size, color)
			if variant == nil {
				metrics.StockRejections.WithLabelValues("unknown_variant").Inc()
				return ErrUnknownVariant
			}
			entry.VariantID = &variant.ID
			entry.Size = variant.Size
			entry.Color = variant.Color

			var ok bool
			var err error
			if entryType == model.StockExport {
				ok, err = s.productRepo.DecrementVariantStock(tx, productID, variant.Size, variant.Color, qty)
			} else {
				ok, err = s.productRepo.IncrementVariantStock(tx, productID, variant.Size, variant.Color, qty)
			}
			if err != nil {
				return err
			}
			if !ok {
				metrics.StockRejections.WithLabelValues("insufficient").Inc()
				return ErrInsufficientStock
			}
		}

		return s.ledgerRepo.Append(tx, entry)
	})
	if err != nil {
		return err
	}

	metrics.StockAdjustments.WithLabelValues(string(entryType)).Inc()
	s.publish(ws.TopicProducts, map[string]interface{}{"product_id": productID})
	s.publish(ws.TopicStockEntries, map[string]interface{}{"product_id": productID, "type": entryType, "quantity": qty})
	return nil
}

func (s *inventoryService) GetLedger() ([]model.StockEntry, error) {
	return s.ledgerRepo.FindAll()
}

func (s *inventoryService) GetLedgerByProduct(productID uuid.UUID) ([]model.StockEntry, error) {
	return s.ledgerRepo.FindByProduct(productID)
}

func (s *inventoryService) ReconcileLedger(productID uuid.UUID) (*LedgerDrift, error) {
	product, err := s.productRepo.FindByID(productID)
	if err != nil {
		return nil, ErrProductNotFound
	}
	balance, err := s.ledgerRepo.LedgerBalance(productID)
	if err != nil {
		return nil, err
	}
	counter := product.TotalStock()
	return &LedgerDrift{
		ProductID:     productID,
		CounterStock:  counter,
		LedgerBalance: balance,
		InSync:        counter == balance,
	}, nil
}
