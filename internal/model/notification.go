package model

import (
	"time"
)

// 通知类型
const (
	NotificationTypeAddress = "address"
	NotificationTypeSystem  = "system"
	NotificationTypeOrder   = "order"
)

type Notification struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Type      string    `gorm:"size:20;default:system;index" json:"type"` // address, system, order
	IsRead    bool      `gorm:"default:false;index" json:"is_read"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Notification) TableName() string {
	return "notifications"
}
