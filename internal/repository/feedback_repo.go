package repository

import (
	"gorm.io/gorm"

	"github.com/tiffinbox/tiffin_go_server/internal/model"
)

type FeedbackRepository struct {
	db *gorm.DB
}

func NewFeedbackRepository(db *gorm.DB) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

func (r *FeedbackRepository) Create(fb *model.Feedback) error {
	return r.db.Create(fb).Error
}

// ListPublic 公开评价（落地页用），按创建时间倒序
func (r *FeedbackRepository) ListPublic(limit int) ([]model.Feedback, error) {
	var feedbacks []model.Feedback
	err := r.db.Preload("User").
		Where("is_public = ?", true).
		Order("created_at DESC").
		Limit(limit).
		Find(&feedbacks).Error
	return feedbacks, err
}

// ListAll 管理端列出全部评价
func (r *FeedbackRepository) ListAll() ([]model.Feedback, error) {
	var feedbacks []model.Feedback
	err := r.db.Preload("User").
		Order("created_at DESC").
		Find(&feedbacks).Error
	return feedbacks, err
}

func (r *FeedbackRepository) UpdateVisibility(id int64, isPublic bool) error {
	return r.db.Model(&model.Feedback{}).
		Where("id = ?", id).
		Update("is_public", isPublic).Error
}
