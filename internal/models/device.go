package models

import (
	"time"
)

// FCMDevice represents a push-notification device token
// DB: fcm_devices
type FCMDevice struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"column:user_id;index;not null" json:"user_id"`
	Token     string    `gorm:"column:token;size:500;not null;uniqueIndex:fcm_devices_token_key" json:"token"`
	Platform  string    `gorm:"column:platform;size:20;not null" json:"platform"`
	IsActive  bool      `gorm:"column:is_active;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"column:created_at;not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null;autoUpdateTime" json:"updated_at"`

	// Relations
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (FCMDevice) TableName() string {
	return "fcm_devices"
}
