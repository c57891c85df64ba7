package service

import (
	"time"

	"github.com/tiffinbox/tiffin_go_server/internal/model"
	"github.com/tiffinbox/tiffin_go_server/internal/model/dto"
	"github.com/tiffinbox/tiffin_go_server/internal/repository"
)

// 配送单状态
const (
	DeliveryPending       = "Pending"
	DeliveryPaused        = "Paused"
	DeliverySkippedAll    = "Skipped (All)"
	DeliverySkippedLunch  = "Skipped (Lunch)"
	DeliverySkippedDinner = "Skipped (Dinner)"
)

type AdminService struct {
	userRepo         *repository.UserRepository
	subRepo          *repository.SubscriptionRepository
	notificationRepo *repository.NotificationRepository
}

func NewAdminService(
	userRepo *repository.UserRepository,
	subRepo *repository.SubscriptionRepository,
	notificationRepo *repository.NotificationRepository,
) *AdminService {
	return &AdminService{
		userRepo:         userRepo,
		subRepo:          subRepo,
		notificationRepo: notificationRepo,
	}
}

// GetDashboardStats 看板统计：用户数、生效订阅数、今日配送与跳餐数。
// 部分跳餐（单餐）既计一次跳餐事件，也计一次配送（另一餐照送）。
func (s *AdminService) GetDashboardStats() (*dto.DashboardStats, error) {
	totalUsers, err := s.userRepo.CountAll()
	if err != nil {
		return nil, err
	}

	activeCount, err := s.subRepo.CountByStatus(model.StatusActive)
	if err != nil {
		return nil, err
	}

	today := normalizeDay(time.Now())
	subs, err := s.subRepo.ListActiveInWindow(today)
	if err != nil {
		return nil, err
	}

	deliveriesToday := 0
	skippedToday := 0

	for _, sub := range subs {
		if isPausedOn(&sub, today) {
			continue
		}

		entry := skippedEntryOn(&sub, today)
		switch {
		case entry == nil:
			deliveriesToday++
		case entry.Meal == model.MealBoth:
			skippedToday++
		default:
			skippedToday++
			deliveriesToday++
		}
	}

	return &dto.DashboardStats{
		TotalUsers:         totalUsers,
		ActiveSubscription: activeCount,
		DeliveriesToday:    deliveriesToday,
		SkippedToday:       skippedToday,
	}, nil
}

// GetDailyDeliveries 今日配送单。跳餐/暂停的订单也列出来并标注状态，
// 配送端需要看到才能避免浪费。
func (s *AdminService) GetDailyDeliveries() ([]dto.DeliveryItem, error) {
	today := normalizeDay(time.Now())
	subs, err := s.subRepo.ListActiveInWindow(today)
	if err != nil {
		return nil, err
	}

	deliveries := make([]dto.DeliveryItem, 0, len(subs))
	for _, sub := range subs {
		status := DeliveryPending

		if isPausedOn(&sub, today) {
			status = DeliveryPaused
		} else if entry := skippedEntryOn(&sub, today); entry != nil {
			switch entry.Meal {
			case model.MealBoth:
				status = DeliverySkippedAll
			case model.MealLunch:
				status = DeliverySkippedLunch
			case model.MealDinner:
				status = DeliverySkippedDinner
			}
		}

		item := dto.DeliveryItem{
			ID:     sub.ID,
			Status: status,
		}
		if sub.User != nil {
			item.Name = sub.User.Name
			item.Address = sub.User.Address
			item.Phone = sub.User.Phone
		}
		if sub.Plan != nil {
			item.Plan = sub.Plan.Name
		}

		deliveries = append(deliveries, item)
	}

	return deliveries, nil
}

// GetUsersWithPlans 用户列表并附带当前套餐名
func (s *AdminService) GetUsersWithPlans() ([]dto.UserWithPlan, error) {
	users, err := s.userRepo.ListCustomers()
	if err != nil {
		return nil, err
	}

	subs, err := s.subRepo.ListActiveWithPlan()
	if err != nil {
		return nil, err
	}

	planByUser := make(map[int64]string, len(subs))
	for _, sub := range subs {
		if sub.Plan != nil {
			planByUser[sub.UserID] = sub.Plan.Name
		}
	}

	result := make([]dto.UserWithPlan, 0, len(users))
	for _, u := range users {
		planName, ok := planByUser[u.ID]
		if !ok {
			planName = "No Active Plan"
		}
		result = append(result, dto.UserWithPlan{
			ID:          u.ID,
			Name:        u.Name,
			Phone:       u.Phone,
			Address:     u.Address,
			CreatedAt:   u.CreatedAt,
			CurrentPlan: planName,
		})
	}

	return result, nil
}

// GetNotifications 最新 20 条后台通知
func (s *AdminService) GetNotifications() ([]model.Notification, error) {
	return s.notificationRepo.ListRecent(20)
}

func isPausedOn(sub *model.Subscription, day time.Time) bool {
	for _, pd := range sub.PausedDates {
		if sameDay(pd, day) {
			return true
		}
	}
	return false
}

func skippedEntryOn(sub *model.Subscription, day time.Time) *model.SkippedMeal {
	for i := range sub.SkippedMeals {
		if sameDay(sub.SkippedMeals[i].Date, day) {
			return &sub.SkippedMeals[i]
		}
	}
	return nil
}
