package testutil

import (
	"fmt"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/tiffinbox/tiffin_go_server/internal/model"
)

// TestUser 创建测试用户
func TestUser(t *testing.T, db *gorm.DB, opts ...func(*model.User)) *model.User {
	t.Helper()

	nano := time.Now().UnixNano()
	user := &model.User{
		Name:         fmt.Sprintf("Test User %d", nano%10000),
		Phone:        fmt.Sprintf("98%09d", nano%1000000000),
		Email:        fmt.Sprintf("test_%d@example.com", nano),
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuvwxyz123456", // bcrypt hash placeholder
		Role:         "customer",
		Address:      "12 MG Road, Pune",
	}

	for _, opt := range opts {
		opt(user)
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return user
}

// WithName 设置姓名
func WithName(name string) func(*model.User) {
	return func(u *model.User) {
		u.Name = name
	}
}

// WithPhone 设置手机号
func WithPhone(phone string) func(*model.User) {
	return func(u *model.User) {
		u.Phone = phone
	}
}

// WithRole 设置角色
func WithRole(role string) func(*model.User) {
	return func(u *model.User) {
		u.Role = role
	}
}

// WithAddress 设置地址
func WithAddress(address string) func(*model.User) {
	return func(u *model.User) {
		u.Address = address
	}
}

// TestPlan 创建测试套餐
func TestPlan(t *testing.T, db *gorm.DB, opts ...func(*model.Plan)) *model.Plan {
	t.Helper()

	plan := &model.Plan{
		Name:         fmt.Sprintf("Test Plan %d", time.Now().UnixNano()%10000),
		Price:        2999,
		Description:  "Lunch and dinner, Monday to Sunday",
		Features:     model.StringArray{"4 Roti", "Dal", "Sabzi", "Rice"},
		DurationDays: 30,
	}

	for _, opt := range opts {
		opt(plan)
	}

	if err := db.Create(plan).Error; err != nil {
		t.Fatalf("Failed to create test plan: %v", err)
	}

	return plan
}

// WithDuration 设置套餐天数
func WithDuration(days int) func(*model.Plan) {
	return func(p *model.Plan) {
		p.DurationDays = days
	}
}

// TestSubscription 创建测试订阅
func TestSubscription(t *testing.T, db *gorm.DB, userID, planID int64, opts ...func(*model.Subscription)) *model.Subscription {
	t.Helper()

	start := time.Now().AddDate(0, 0, -3)
	sub := &model.Subscription{
		UserID:    userID,
		PlanID:    planID,
		Status:    model.StatusActive,
		StartDate: start,
		EndDate:   start.AddDate(0, 0, 30),
	}

	for _, opt := range opts {
		opt(sub)
	}

	if err := db.Create(sub).Error; err != nil {
		t.Fatalf("Failed to create test subscription: %v", err)
	}

	return sub
}

// WithStatus 设置订阅状态
func WithStatus(status string) func(*model.Subscription) {
	return func(s *model.Subscription) {
		s.Status = status
	}
}

// WithWindow 设置订阅窗口
func WithWindow(start, end time.Time) func(*model.Subscription) {
	return func(s *model.Subscription) {
		s.StartDate = start
		s.EndDate = end
	}
}

// WithSkipBalance 设置跳餐余额
func WithSkipBalance(balance float64) func(*model.Subscription) {
	return func(s *model.Subscription) {
		s.SkipBalance = balance
	}
}

// WithSkippedMeal 追加一条跳餐记录
func WithSkippedMeal(date time.Time, meal string) func(*model.Subscription) {
	return func(s *model.Subscription) {
		s.SkippedMeals = append(s.SkippedMeals, model.SkippedMeal{
			Date: date,
			Meal: meal,
		})
	}
}

// TestFeedback 创建测试评价
func TestFeedback(t *testing.T, db *gorm.DB, userID int64, rating int, comment string) *model.Feedback {
	t.Helper()

	fb := &model.Feedback{
		UserID:   userID,
		Rating:   rating,
		Comment:  comment,
		IsPublic: true,
	}

	if err := db.Create(fb).Error; err != nil {
		t.Fatalf("Failed to create test feedback: %v", err)
	}

	return fb
}
