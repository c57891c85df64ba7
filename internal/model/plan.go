package model

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// StringArray 用于 JSON 数组字段
type StringArray []string

func (s StringArray) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	return json.Marshal(s)
}

func (s *StringArray) Scan(value interface{}) error {
	if value == nil {
		*s = []string{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		if str, ok := value.(string); ok {
			bytes = []byte(str)
		} else {
			return nil
		}
	}
	return json.Unmarshal(bytes, s)
}

type Plan struct {
	ID           int64       `gorm:"primaryKey" json:"id"`
	Name         string      `gorm:"size:100;not null" json:"name"`
	Price        float64     `gorm:"type:decimal(10,2);not null" json:"price"`
	Description  string      `gorm:"type:text;not null" json:"description"`
	Features     StringArray `gorm:"type:json" json:"features"` // 如 "4 Roti", "Dal"
	DurationDays int         `gorm:"default:30" json:"duration_days"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

func (Plan) TableName() string {
	return "plans"
}
