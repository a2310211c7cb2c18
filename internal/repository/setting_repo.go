package repository

import (
	"encoding/json"

	"sigmavie-commerce/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SettingRepository interface {
	Get(key string) (*model.Setting, error)
	Upsert(key string, value json.RawMessage, updatedBy string) error
	SeedDefaults() error
}

type settingRepo struct {
	db *gorm.DB
}

func NewSettingRepo(db *gorm.DB) SettingRepository {
	return &settingRepo{db}
}

func (r *settingRepo) Get(key string) (*model.Setting, error) {
	var setting model.Setting
	err := r.db.First(&setting, "key = ?", key).Error
	return &setting, err
}

// Upsert is last-write-wins by design: settings blobs have no versioning.
func (r *settingRepo) Upsert(key string, value json.RawMessage, updatedBy string) error {
	setting := model.Setting{Key: key, Value: value, UpdatedBy: updatedBy}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at", "updated_by"}),
	}).Create(&setting).Error
}

func (r *settingRepo) SeedDefaults() error {
	for _, key := range model.DefaultSettingKeys {
		setting := model.Setting{Key: key, Value: json.RawMessage(`{}`), UpdatedBy: "system"}
		if err := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&setting).Error; err != nil {
			return err
		}
	}
	return nil
}
