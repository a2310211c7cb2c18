package repository

import (
	"time"

	"sigmavie-commerce/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StockEntryRepository interface {
	Append(tx *gorm.DB, entry *model.StockEntry) error
	FindAll() ([]model.StockEntry, error)
	FindByProduct(productID uuid.UUID) ([]model.StockEntry, error)
	StockMovement(startDate, endDate time.Time) ([]StockMovementData, error)
	// LedgerBalance recomputes a product's stock from the ledger alone
	// (sum of imports minus exports), for reconciliation against the
	// denormalized counters.
	LedgerBalance(productID uuid.UUID) (int, error)
	DashboardStats() (*DashboardStats, error)
}

// StockMovementData is a per-day aggregate for the back-office chart.
type StockMovementData struct {
	Date     string `json:"date"`
	Imported int    `json:"imported"`
	Exported int    `json:"exported"`
}

// DashboardStats is the back-office overview block.
type DashboardStats struct {
	TotalProducts  int64 `json:"total_products"`
	TotalOrders    int64 `json:"total_orders"`
	PendingOrders  int64 `json:"pending_orders"`
	LowStockCount  int64 `json:"low_stock_count"`
	TotalValuation int64 `json:"total_valuation"`
}

type stockEntryRepo struct {
	db *gorm.DB
}

func NewStockEntryRepo(db *gorm.DB) StockEntryRepository {
	return &stockEntryRepo{db}
}

func (r *stockEntryRepo) Append(tx *gorm.DB, entry *model.StockEntry) error {
	if tx == nil {
		tx = r.db
	}
	return tx.Create(entry).Error
}

func (r *stockEntryRepo) FindAll() ([]model.StockEntry, error) {
	var entries []model.StockEntry
	err := r.db.Preload("Product").Order("created_at DESC").Find(&entries).Error
	return entries, err
}

func (r *stockEntryRepo) FindByProduct(productID uuid.UUID) ([]model.StockEntry, error) {
	var entries []model.StockEntry
	err := r.db.Where("product_id = ?", productID).Order("created_at DESC").Find(&entries).Error
	return entries, err
}

func (r *stockEntryRepo) StockMovement(startDate, endDate time.Time) ([]StockMovementData, error) {
	var results []StockMovementData

	rows, err := r.db.Model(&model.StockEntry{}).
		Select(`
			DATE(created_at) as date,
			COALESCE(SUM(CASE WHEN type = 'IMPORT' THEN quantity ELSE 0 END), 0) as imported,
			COALESCE(SUM(CASE WHEN type = 'EXPORT' THEN quantity ELSE 0 END), 0) as exported
		`).
		Where("created_at BETWEEN ? AND ?", startDate, endDate).
		Group("DATE(created_at)").
		Order("date ASC").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var data StockMovementData
		if err := rows.Scan(&data.Date, &data.Imported, &data.Exported); err != nil {
			return nil, err
		}
		results = append(results, data)
	}

	return results, nil
}

func (r *stockEntryRepo) LedgerBalance(productID uuid.UUID) (int, error) {
	var balance int
	err := r.db.Model(&model.StockEntry{}).
		Where("product_id = ?", productID).
		Select("COALESCE(SUM(CASE WHEN type = 'IMPORT' THEN quantity ELSE -quantity END), 0)").
		Scan(&balance).Error
	return balance, err
}

func (r *stockEntryRepo) DashboardStats() (*DashboardStats, error) {
	var stats DashboardStats

	r.db.Model(&model.Product{}).Count(&stats.TotalProducts)
	r.db.Model(&model.Order{}).Count(&stats.TotalOrders)
	r.db.Model(&model.Order{}).Where("status = ?", model.OrderPending).Count(&stats.PendingOrders)
	r.db.Model(&model.Variant{}).Where("stock < ?", 5).Count(&stats.LowStockCount)
	r.db.Model(&model.Product{}).Select("COALESCE(SUM(stock * price), 0)").Scan(&stats.TotalValuation)

	return &stats, nil
}
