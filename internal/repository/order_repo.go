package repository

import (
	"sigmavie-commerce/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderRepository interface {
	Create(tx *gorm.DB, order *model.Order) error
	FindAll() ([]model.Order, error)
	FindByID(id uuid.UUID) (*model.Order, error)
	FindByCustomer(customerID uuid.UUID) ([]model.Order, error)
	// UpdateStatus flips the status only when the row still holds the
	// expected current one and reports whether a row changed, so racing
	// updaters serialize on the database the same way the stock
	// decrement does.
	UpdateStatus(tx *gorm.DB, id uuid.UUID, from, to model.OrderStatus, updatedBy string) (bool, error)
	// DistinctCustomerRefs returns every customer id referenced by an order,
	// for the recover-from-orders repair pass.
	DistinctCustomerRefs() ([]uuid.UUID, error)
}

type orderRepo struct {
	db *gorm.DB
}

func NewOrderRepo(db *gorm.DB) OrderRepository {
	return &orderRepo{db}
}

func (r *orderRepo) Create(tx *gorm.DB, order *model.Order) error {
	if tx == nil {
		tx = r.db
	}
	return tx.Create(order).Error
}

func (r *orderRepo) FindAll() ([]model.Order, error) {
	var orders []model.Order
	err := r.db.Order("created_at DESC").Find(&orders).Error
	return orders, err
}

func (r *orderRepo) FindByID(id uuid.UUID) (*model.Order, error) {
	var order model.Order
	err := r.db.First(&order, "id = ?", id).Error
	return &order, err
}

func (r *orderRepo) FindByCustomer(customerID uuid.UUID) ([]model.Order, error) {
	var orders []model.Order
	err := r.db.Where("customer_id = ?", customerID).Order("created_at DESC").Find(&orders).Error
	return orders, err
}

func (r *orderRepo) UpdateStatus(tx *gorm.DB, id uuid.UUID, from, to model.OrderStatus, updatedBy string) (bool, error) {
	if tx == nil {
		tx = r.db
	}
	res := tx.Model(&model.Order{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{
			"status":     to,
			"updated_by": updatedBy,
		})
	return res.RowsAffected > 0, res.Error
}

func (r *orderRepo) DistinctCustomerRefs() ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.Model(&model.Order{}).Distinct("customer_id").Pluck("customer_id", &ids).Error
	return ids, err
}
