package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/tiffinbox/tiffin_go_server/internal/model"
)

// ErrStaleSubscription 版本号不匹配，记录已被并发修改
var ErrStaleSubscription = errors.New("subscription was modified concurrently")

type SubscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

func (r *SubscriptionRepository) Create(sub *model.Subscription) error {
	return r.db.Create(sub).Error
}

func (r *SubscriptionRepository) GetByID(id int64) (*model.Subscription, error) {
	var sub model.Subscription
	err := r.db.Preload("SkippedMeals").Where("id = ?", id).First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// GetActiveByUserID 获取用户当前生效的订阅（含跳餐记录和套餐信息）
func (r *SubscriptionRepository) GetActiveByUserID(userID int64) (*model.Subscription, error) {
	var sub model.Subscription
	err := r.db.Preload("SkippedMeals").Preload("Plan").
		Where("user_id = ? AND status = ?", userID, model.StatusActive).
		First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// SaveWithVersion 以乐观锁方式保存订阅：版本号匹配才提交，
// 同一事务内重写 skipped_meals 子表，保证要么全部落库要么全部回滚。
func (r *SubscriptionRepository) SaveWithVersion(sub *model.Subscription) error {
	currentVersion := sub.Version

	return r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.Subscription{}).
			Where("id = ? AND version = ?", sub.ID, currentVersion).
			Updates(map[string]interface{}{
				"status":       sub.Status,
				"start_date":   sub.StartDate,
				"end_date":     sub.EndDate,
				"skip_balance": sub.SkipBalance,
				"paused_dates": sub.PausedDates,
				"version":      currentVersion + 1,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrStaleSubscription
		}

		if err := tx.Where("subscription_id = ?", sub.ID).
			Delete(&model.SkippedMeal{}).Error; err != nil {
			return err
		}

		for i := range sub.SkippedMeals {
			entry := sub.SkippedMeals[i]
			entry.ID = 0
			entry.SubscriptionID = sub.ID
			if err := tx.Create(&entry).Error; err != nil {
				return err
			}
			sub.SkippedMeals[i] = entry
		}

		sub.Version = currentVersion + 1
		return nil
	})
}

// ListActiveInWindow 当前配送窗口内的生效订阅（含用户和套餐）
func (r *SubscriptionRepository) ListActiveInWindow(today time.Time) ([]model.Subscription, error) {
	var subs []model.Subscription
	err := r.db.Preload("SkippedMeals").Preload("User").Preload("Plan").
		Where("status = ? AND start_date <= ? AND end_date >= ?",
			model.StatusActive, today.AddDate(0, 0, 1), today).
		Find(&subs).Error
	return subs, err
}

// ListActiveWithPlan 所有生效订阅（仅套餐）
func (r *SubscriptionRepository) ListActiveWithPlan() ([]model.Subscription, error) {
	var subs []model.Subscription
	err := r.db.Preload("Plan").
		Where("status = ?", model.StatusActive).
		Find(&subs).Error
	return subs, err
}

// ListAll 管理端列出全部订阅
func (r *SubscriptionRepository) ListAll() ([]model.Subscription, error) {
	var subs []model.Subscription
	err := r.db.Preload("SkippedMeals").Preload("User").Preload("Plan").
		Order("created_at DESC").
		Find(&subs).Error
	return subs, err
}

func (r *SubscriptionRepository) CountByStatus(status string) (int64, error) {
	var count int64
	err := r.db.Model(&model.Subscription{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}

func (r *SubscriptionRepository) UpdateStatus(id int64, status string) error {
	return r.db.Model(&model.Subscription{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// MarkExpired 将窗口已结束的生效订阅批量置为过期
func (r *SubscriptionRepository) MarkExpired(today time.Time) (int64, error) {
	result := r.db.Model(&model.Subscription{}).
		Where("status = ? AND end_date < ?", model.StatusActive, today).
		Update("status", model.StatusExpired)
	return result.RowsAffected, result.Error
}
