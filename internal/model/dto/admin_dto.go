package dto

import "time"

// DashboardStats 后台看板统计
type DashboardStats struct {
	TotalUsers         int64 `json:"total_users"`
	ActiveSubscription int64 `json:"active_subscription"`
	DeliveriesToday    int   `json:"deliveries_today"`
	SkippedToday       int   `json:"skipped_today"`
}

// DeliveryItem 当日配送单条目
type DeliveryItem struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Plan    string `json:"plan"`
	Status  string `json:"status"` // Pending, Paused, Skipped (All|Lunch|Dinner)
}

// UserWithPlan 用户及其当前套餐
type UserWithPlan struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Phone       string    `json:"phone"`
	Address     string    `json:"address"`
	CreatedAt   time.Time `json:"created_at"`
	CurrentPlan string    `json:"current_plan"`
}

// UpdateMenuRequest 更新/创建菜单请求
type UpdateMenuRequest struct {
	Date     string   `json:"date" binding:"required"` // YYYY-MM-DD
	PlanName string   `json:"plan_name" binding:"omitempty,max=100"`
	Lunch    []string `json:"lunch"`
	Dinner   []string `json:"dinner"`
	Image    string   `json:"image" binding:"omitempty,max=500"`
}

// AddVideoRequest 添加宣传视频请求
type AddVideoRequest struct {
	Title       string `json:"title" binding:"required,max=200"`
	URL         string `json:"url" binding:"required,max=500"`
	Description string `json:"description" binding:"omitempty"`
}
