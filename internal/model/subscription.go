package model

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// 订阅状态
const (
	StatusActive          = "active"
	StatusPendingApproval = "pending_approval"
	StatusExpired         = "expired"
	StatusCancelled       = "cancelled"
)

// 餐别
const (
	MealLunch  = "lunch"
	MealDinner = "dinner"
	MealBoth   = "both"
)

// DateArray 用于 JSON 日期数组字段
type DateArray []time.Time

func (d DateArray) Value() (driver.Value, error) {
	if d == nil {
		return "[]", nil
	}
	return json.Marshal(d)
}

func (d *DateArray) Scan(value interface{}) error {
	if value == nil {
		*d = []time.Time{}
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
	return json.Unmarshal(bytes, d)
}

type Subscription struct {
	ID           int64         `gorm:"primaryKey" json:"id"`
	UserID       int64         `gorm:"not null;index" json:"user_id"`
	PlanID       int64         `gorm:"not null" json:"plan_id"`
	Status       string        `gorm:"size:20;default:active;index" json:"status"` // active, pending_approval, expired, cancelled
	StartDate    time.Time     `gorm:"not null;index" json:"start_date"`
	EndDate      time.Time     `gorm:"not null;index" json:"end_date"`
	SkippedMeals []SkippedMeal `gorm:"foreignKey:SubscriptionID" json:"skipped_meals"`
	SkipBalance  float64       `gorm:"default:0" json:"skip_balance"`
	PausedDates  DateArray     `gorm:"type:json" json:"paused_dates"` // 旧版字段，保留兼容
	Version      int64         `gorm:"default:0" json:"version"`      // 乐观锁版本号
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Plan *Plan `gorm:"foreignKey:PlanID" json:"plan,omitempty"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}

type SkippedMeal struct {
	ID             int64     `gorm:"primaryKey" json:"id"`
	SubscriptionID int64     `gorm:"not null;index" json:"subscription_id"`
	Date           time.Time `gorm:"not null" json:"date"`
	Meal           string    `gorm:"size:10;not null" json:"meal"` // lunch, dinner, both
	Timestamp      time.Time `gorm:"autoCreateTime" json:"timestamp"`
}

func (SkippedMeal) TableName() string {
	return "skipped_meals"
}

// MealSlots 返回该条记录占用的餐位数
func (s SkippedMeal) MealSlots() int {
	if s.Meal == MealBoth {
		return 2
	}
	return 1
}
