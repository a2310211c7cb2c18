package service

import (
	"encoding/json"
	"errors"

	"sigmavie-commerce/internal/repository"
	"sigmavie-commerce/internal/ws"
)

var ErrSettingNotFound = errors.New("setting not found")

type SettingsService interface {
	Get(key string) (json.RawMessage, error)
	Put(key string, value json.RawMessage, actor string) error
}

type settingsService struct {
	settingRepo repository.SettingRepository
	hub         *ws.Hub
}

func NewSettingsService(repo repository.SettingRepository, hub *ws.Hub) SettingsService {
	return &settingsService{settingRepo: repo, hub: hub}
}

func (s *settingsService) Get(key string) (json.RawMessage, error) {
	setting, err := s.settingRepo.Get(key)
	if err != nil {
		return nil, ErrSettingNotFound
	}
	return setting.Value, nil
}

func (s *settingsService) Put(key string, value json.RawMessage, actor string) error {
	if !json.Valid(value) {
		return errors.New("value is not valid JSON")
	}
	if err := s.settingRepo.Upsert(key, value, actor); err != nil {
		return err
	}
	if s.hub != nil {
		go s.hub.Publish(ws.TopicSettings, map[string]interface{}{"key": key})
	}
	return nil
}
