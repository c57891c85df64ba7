package service

import (
	"errors"

	"github.com/tiffinbox/tiffin_go_server/internal/model"
	"github.com/tiffinbox/tiffin_go_server/internal/model/dto"
	"github.com/tiffinbox/tiffin_go_server/internal/repository"
)

var ErrVideoFieldsRequired = errors.New("Title and URL are required")

type VideoService struct {
	videoRepo *repository.VideoRepository
}

func NewVideoService(videoRepo *repository.VideoRepository) *VideoService {
	return &VideoService{videoRepo: videoRepo}
}

// List 上架中的宣传视频
func (s *VideoService) List() ([]model.Video, error) {
	return s.videoRepo.ListActive()
}

// Add 添加视频
func (s *VideoService) Add(req *dto.AddVideoRequest) (*model.Video, error) {
	if req.Title == "" || req.URL == "" {
		return nil, ErrVideoFieldsRequired
	}

	video := &model.Video{
		Title:       req.Title,
		URL:         req.URL,
		Description: req.Description,
		Active:      true,
	}

	if err := s.videoRepo.Create(video); err != nil {
		return nil, err
	}

	return video, nil
}

// Delete 删除视频
func (s *VideoService) Delete(id int64) error {
	return s.videoRepo.Delete(id)
}
