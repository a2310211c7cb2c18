package model

import (
	"encoding/json"
	"time"
)

// Setting is a key→JSON blob used for every piece of editable site content
// (bank details, shipping fees, header/home/about copy, live chat, socials).
// Last write wins; there are no relationships.
type Setting struct {
	Key       string          `gorm:"type:varchar(100);primaryKey" json:"key"`
	Value     json.RawMessage `gorm:"type:jsonb" json:"value"`
	UpdatedAt time.Time       `json:"updated_at"`
	UpdatedBy string          `gorm:"type:varchar(255)" json:"updated_by"`
}

// Well-known setting keys seeded at boot.
const (
	SettingBank     = "bank"
	SettingShipping = "shipping"
	SettingHeader   = "header"
	SettingHome     = "home"
	SettingAbout    = "about"
	SettingLiveChat = "livechat"
	SettingSocial   = "social"
	SettingStore    = "store"
)

var DefaultSettingKeys = []string{
	SettingBank, SettingShipping, SettingHeader, SettingHome,
	SettingAbout, SettingLiveChat, SettingSocial, SettingStore,
}

// Category groups catalog products.
type Category struct {
	BaseModel
	Name string `gorm:"type:varchar(100);not null" json:"name" validate:"required"`
	Slug string `gorm:"type:varchar(100);uniqueIndex;not null" json:"slug" validate:"required"`
}
