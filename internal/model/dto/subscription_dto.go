package dto

import (
	"github.com/tiffinbox/tiffin_go_server/internal/model"
)

// CreateSubscriptionRequest 购买订阅请求
type CreateSubscriptionRequest struct {
	PlanID    int64  `json:"plan_id" binding:"required"`
	StartDate string `json:"start_date" binding:"omitempty"` // YYYY-MM-DD，缺省为今天
}

// SkipMealRequest 跳餐/撤销跳餐请求
type SkipMealRequest struct {
	Date string `json:"date" binding:"required"` // YYYY-MM-DD
	Meal string `json:"meal" binding:"required"` // lunch, dinner, both
}

// SkipMealResponse 跳餐/撤销跳餐响应
type SkipMealResponse struct {
	Message      string              `json:"message"`
	Subscription *model.Subscription `json:"subscription"`
}
