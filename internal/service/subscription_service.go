package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/tiffinbox/tiffin_go_server/config"
	"github.com/tiffinbox/tiffin_go_server/internal/model"
	"github.com/tiffinbox/tiffin_go_server/internal/model/dto"
	"github.com/tiffinbox/tiffin_go_server/internal/pkg/pubsub"
	"github.com/tiffinbox/tiffin_go_server/internal/pkg/queue"
	"github.com/tiffinbox/tiffin_go_server/internal/repository"
)

var (
	ErrPlanRequired     = errors.New("Please select a plan")
	ErrPlanNotFound     = errors.New("Plan not found")
	ErrWriteConflict    = errors.New("Subscription was updated concurrently, please retry")
	ErrSubNotFound      = errors.New("Subscription not found")
	ErrNotPendingReview = errors.New("Subscription is not awaiting verification")
)

// 订阅窗口固定 30 天。历史上一直不读 Plan.DurationDays，
// 管理端统计依赖这个口径，调整前需要先确认产品意图。
const subscriptionDays = 30

// 乐观锁冲突时的重试上限
const maxSaveAttempts = 3

type SubscriptionService struct {
	subRepo          *repository.SubscriptionRepository
	planRepo         *repository.PlanRepository
	userRepo         *repository.UserRepository
	notificationRepo *repository.NotificationRepository
	publisher        *pubsub.Publisher
	emailQueue       *queue.Queue
	cfg              *config.Config
}

func NewSubscriptionService(
	subRepo *repository.SubscriptionRepository,
	planRepo *repository.PlanRepository,
	userRepo *repository.UserRepository,
	notificationRepo *repository.NotificationRepository,
	publisher *pubsub.Publisher,
	emailQueue *queue.Queue,
	cfg *config.Config,
) *SubscriptionService {
	return &SubscriptionService{
		subRepo:          subRepo,
		planRepo:         planRepo,
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
		publisher:        publisher,
		emailQueue:       emailQueue,
		cfg:              cfg,
	}
}

func (s *SubscriptionService) policy() skipPolicy {
	return skipPolicy{
		CutoffHour: s.cfg.Skip.CutoffHour,
		MaxMeals:   s.cfg.Skip.MaxMeals,
	}
}

// Create 购买订阅
func (s *SubscriptionService) Create(ctx context.Context, userID, planID int64, startDate *time.Time) (*model.Subscription, error) {
	if planID == 0 {
		return nil, ErrPlanRequired
	}

	plan, err := s.planRepo.GetByID(planID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}

	start := time.Now()
	if startDate != nil {
		start = *startDate
	}

	sub := &model.Subscription{
		UserID:      userID,
		PlanID:      plan.ID,
		Status:      model.StatusActive,
		StartDate:   start,
		EndDate:     start.AddDate(0, 0, subscriptionDays),
		SkipBalance: 0,
	}

	if err := s.subRepo.Create(sub); err != nil {
		return nil, err
	}

	s.enqueueConfirmationEmail(ctx, userID, plan.Name, sub.EndDate)

	return sub, nil
}

// GetMine 获取当前用户的生效订阅
func (s *SubscriptionService) GetMine(userID int64) (*model.Subscription, error) {
	sub, err := s.subRepo.GetActiveByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoActiveSubscription
		}
		return nil, err
	}
	return sub, nil
}

// Skip 跳过指定日期的餐食并累计积分
func (s *SubscriptionService) Skip(ctx context.Context, userID int64, date time.Time, meal string) (*dto.SkipMealResponse, error) {
	if !validMeal(meal) {
		return nil, ErrInvalidMeal
	}

	policy := s.policy()

	var sub *model.Subscription
	var outcome *skipOutcome

	// 版本冲突时整体重做 load-validate-save
	for attempt := 0; ; attempt++ {
		var err error
		sub, err = s.subRepo.GetActiveByUserID(userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNoActiveSubscription
			}
			return nil, err
		}

		outcome, err = applySkip(sub, date, meal, time.Now(), policy)
		if err != nil {
			return nil, err
		}

		err = s.subRepo.SaveWithVersion(sub)
		if err == nil {
			break
		}
		if !errors.Is(err, repository.ErrStaleSubscription) {
			return nil, err
		}
		if attempt >= maxSaveAttempts-1 {
			return nil, ErrWriteConflict
		}
	}

	s.notifySkip(ctx, sub, userID, meal, normalizeDay(date))

	message := fmt.Sprintf("Skipped %s. Balance: %v. Extended by %d days.",
		meal, sub.SkipBalance, outcome.DaysExtended)

	return &dto.SkipMealResponse{
		Message:      message,
		Subscription: sub,
	}, nil
}

// Unskip 撤销一次跳餐
func (s *SubscriptionService) Unskip(ctx context.Context, userID int64, date time.Time, meal string) (*dto.SkipMealResponse, error) {
	policy := s.policy()

	var sub *model.Subscription

	for attempt := 0; ; attempt++ {
		var err error
		sub, err = s.subRepo.GetActiveByUserID(userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNoActiveSubscription
			}
			return nil, err
		}

		if _, err = applyUnskip(sub, date, meal, time.Now(), policy); err != nil {
			return nil, err
		}

		err = s.subRepo.SaveWithVersion(sub)
		if err == nil {
			break
		}
		if !errors.Is(err, repository.ErrStaleSubscription) {
			return nil, err
		}
		if attempt >= maxSaveAttempts-1 {
			return nil, ErrWriteConflict
		}
	}

	// 撤销不产生后台通知（与跳餐不对称，保持现状）
	message := fmt.Sprintf("Unskipped %s. Subscription updated.", meal)

	return &dto.SkipMealResponse{
		Message:      message,
		Subscription: sub,
	}, nil
}

// ListAll 管理端列出全部订阅
func (s *SubscriptionService) ListAll() ([]model.Subscription, error) {
	return s.subRepo.ListAll()
}

// Verify 管理员核销待审核订阅（线下收款确认后生效）
func (s *SubscriptionService) Verify(ctx context.Context, id int64) (*model.Subscription, error) {
	sub, err := s.subRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubNotFound
		}
		return nil, err
	}

	if sub.Status != model.StatusPendingApproval {
		return nil, ErrNotPendingReview
	}

	if err := s.subRepo.UpdateStatus(id, model.StatusActive); err != nil {
		return nil, err
	}
	sub.Status = model.StatusActive

	if plan, err := s.planRepo.GetByID(sub.PlanID); err == nil {
		s.enqueueConfirmationEmail(ctx, sub.UserID, plan.Name, sub.EndDate)
	}

	return sub, nil
}

// ExpireEnded 将窗口已结束的订阅置为过期，返回处理条数
func (s *SubscriptionService) ExpireEnded() (int64, error) {
	return s.subRepo.MarkExpired(normalizeDay(time.Now()))
}

// notifySkip 落库一条后台通知并推送实时事件；两者都是尽力而为
func (s *SubscriptionService) notifySkip(ctx context.Context, sub *model.Subscription, userID int64, meal string, checkDate time.Time) {
	userName := "User"
	user, err := s.userRepo.GetByID(userID)
	if err == nil {
		userName = user.Name
	}

	message := fmt.Sprintf("%s skipped %s for %s", userName, meal, checkDate.Format("Mon Jan 2 2006"))

	if err := s.notificationRepo.Create(&model.Notification{
		Message: message,
		Type:    model.NotificationTypeOrder,
	}); err != nil {
		log.Printf("Failed to create skip notification: %v", err)
	}

	if s.publisher != nil {
		ev := &pubsub.OrderEvent{
			Type:           "skip",
			SubscriptionID: sub.ID,
			UserID:         userID,
			UserName:       userName,
			Meal:           meal,
			Date:           checkDate.Format("2006-01-02"),
			Message:        message,
		}
		if err := s.publisher.PublishOrderEvent(ctx, ev); err != nil {
			log.Printf("Failed to publish skip event: %v", err)
		}
	}
}

func (s *SubscriptionService) enqueueConfirmationEmail(ctx context.Context, userID int64, planName string, endDate time.Time) {
	if s.emailQueue == nil {
		return
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return
	}

	job := &queue.EmailJob{
		Type:     queue.EmailTypeSubscription,
		To:       user.Email,
		UserName: user.Name,
		PlanName: planName,
		EndDate:  endDate.Format("2006-01-02"),
	}
	if err := s.emailQueue.Push(ctx, job); err != nil {
		log.Printf("Failed to enqueue confirmation email: %v", err)
	}
}
