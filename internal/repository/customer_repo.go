package repository

import (
	"sigmavie-commerce/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CustomerRepository interface {
	Create(customer *model.Customer) error
	FindAll() ([]model.Customer, error)
	FindByID(id uuid.UUID) (*model.Customer, error)
	FindByEmail(email string) (*model.Customer, error)
	Update(customer *model.Customer) error
	Delete(id uuid.UUID) error
	ExistsByEmail(email string) (bool, error)
	ExistsByPhone(phone string) (bool, error)
	ExistsByCCCD(cccd string) (bool, error)
}

type customerRepo struct {
	db *gorm.DB
}

func NewCustomerRepo(db *gorm.DB) CustomerRepository {
	return &customerRepo{db}
}

func (r *customerRepo) Create(customer *model.Customer) error {
	return r.db.Create(customer).Error
}

func (r *customerRepo) FindAll() ([]model.Customer, error) {
	var customers []model.Customer
	err := r.db.Order("created_at DESC").Find(&customers).Error
	return customers, err
}

func (r *customerRepo) FindByID(id uuid.UUID) (*model.Customer, error) {
	var customer model.Customer
	err := r.db.First(&customer, "id = ?", id).Error
	return &customer, err
}

func (r *customerRepo) FindByEmail(email string) (*model.Customer, error) {
	var customer model.Customer
	err := r.db.First(&customer, "email = ?", email).Error
	return &customer, err
}

func (r *customerRepo) Update(customer *model.Customer) error {
	return r.db.Save(customer).Error
}

func (r *customerRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&model.Customer{}, "id = ?", id).Error
}

func (r *customerRepo) ExistsByEmail(email string) (bool, error) {
	var count int64
	err := r.db.Model(&model.Customer{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

func (r *customerRepo) ExistsByPhone(phone string) (bool, error) {
	var count int64
	err := r.db.Model(&model.Customer{}).Where("phone_number = ?", phone).Count(&count).Error
	return count > 0, err
}

func (r *customerRepo) ExistsByCCCD(cccd string) (bool, error) {
	if cccd == "" {
		return false, nil
	}
	var count int64
	err := r.db.Model(&model.Customer{}).Where("cccd_number = ?", cccd).Count(&count).Error
	return count > 0, err
}
