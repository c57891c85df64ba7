package model

import (
	"time"
)

type Menu struct {
	ID        int64       `gorm:"primaryKey" json:"id"`
	Date      time.Time   `gorm:"not null;uniqueIndex:idx_menu_date_plan" json:"date"`
	PlanName  string      `gorm:"size:100;not null;uniqueIndex:idx_menu_date_plan;default:Focus Start Plan" json:"plan_name"`
	Lunch     StringArray `gorm:"type:json" json:"lunch"`
	Dinner    StringArray `gorm:"type:json" json:"dinner"`
	Image     string      `gorm:"size:500" json:"image"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

func (Menu) TableName() string {
	return "menus"
}
