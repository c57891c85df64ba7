package repository

import (
	"gorm.io/gorm"

	"github.com/tiffinbox/tiffin_go_server/internal/model"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(n *model.Notification) error {
	return r.db.Create(n).Error
}

// ListRecent 最新 N 条通知，按创建时间倒序
func (r *NotificationRepository) ListRecent(limit int) ([]model.Notification, error) {
	var notifications []model.Notification
	err := r.db.Order("created_at DESC").Limit(limit).Find(&notifications).Error
	return notifications, err
}

func (r *NotificationRepository) MarkRead(id int64) error {
	return r.db.Model(&model.Notification{}).
		Where("id = ?", id).
		Update("is_read", true).Error
}

// PruneRead 清理超出保留条数的已读通知
func (r *NotificationRepository) PruneRead(keep int) (int64, error) {
	var ids []int64
	err := r.db.Model(&model.Notification{}).
		Where("is_read = ?", true).
		Order("created_at DESC").
		Offset(keep).
		Pluck("id", &ids).Error
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}

	result := r.db.Delete(&model.Notification{}, ids)
	return result.RowsAffected, result.Error
}
