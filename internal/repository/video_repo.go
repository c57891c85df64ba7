package repository

import (
	"gorm.io/gorm"

	"github.com/tiffinbox/tiffin_go_server/internal/model"
)

type VideoRepository struct {
	db *gorm.DB
}

func NewVideoRepository(db *gorm.DB) *VideoRepository {
	return &VideoRepository{db: db}
}

func (r *VideoRepository) Create(video *model.Video) error {
	return r.db.Create(video).Error
}

// ListActive 列出上架中的视频，按创建时间倒序
func (r *VideoRepository) ListActive() ([]model.Video, error) {
	var videos []model.Video
	err := r.db.Where("active = ?", true).
		Order("created_at DESC").
		Find(&videos).Error
	return videos, err
}

func (r *VideoRepository) Delete(id int64) error {
	return r.db.Delete(&model.Video{}, id).Error
}
