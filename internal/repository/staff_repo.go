package repository

import (
	"sigmavie-commerce/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StaffRepository interface {
	FindByEmail(email string) (*model.StaffUser, error)
	FindByID(id uuid.UUID) (*model.StaffUser, error)
	FindAll() ([]model.StaffUser, error)
	Create(user *model.StaffUser) error
	Update(user *model.StaffUser) error
	UpdateTokenVersion(userID uuid.UUID, version string) error
	UpdateLastSeen(userID uuid.UUID) error
}

type staffRepo struct {
	db *gorm.DB
}

func NewStaffRepo(db *gorm.DB) StaffRepository {
	return &staffRepo{db}
}

func (r *staffRepo) FindByEmail(email string) (*model.StaffUser, error) {
	var user model.StaffUser
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *staffRepo) FindByID(id uuid.UUID) (*model.StaffUser, error) {
	var user model.StaffUser
	if err := r.db.First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *staffRepo) FindAll() ([]model.StaffUser, error) {
	var users []model.StaffUser
	err := r.db.Order("created_at ASC").Find(&users).Error
	return users, err
}

func (r *staffRepo) Create(user *model.StaffUser) error {
	return r.db.Create(user).Error
}

func (r *staffRepo) Update(user *model.StaffUser) error {
	return r.db.Save(user).Error
}

func (r *staffRepo) UpdateTokenVersion(userID uuid.UUID, version string) error {
	return r.db.Model(&model.StaffUser{}).Where("id = ?", userID).Update("token_version", version).Error
}

func (r *staffRepo) UpdateLastSeen(userID uuid.UUID) error {
	return r.db.Model(&model.StaffUser{}).Where("id = ?", userID).Update("last_seen_at", gorm.Expr("NOW()")).Error
}
