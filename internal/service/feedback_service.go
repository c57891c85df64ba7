package service

import (
	"github.com/tiffinbox/tiffin_go_server/internal/model"
	"github.com/tiffinbox/tiffin_go_server/internal/model/dto"
	"github.com/tiffinbox/tiffin_go_server/internal/repository"
)

type FeedbackService struct {
	feedbackRepo *repository.FeedbackRepository
}

func NewFeedbackService(feedbackRepo *repository.FeedbackRepository) *FeedbackService {
	return &FeedbackService{feedbackRepo: feedbackRepo}
}

// Submit 提交评价
func (s *FeedbackService) Submit(userID int64, req *dto.SubmitFeedbackRequest) (*model.Feedback, error) {
	fb := &model.Feedback{
		UserID:   userID,
		Rating:   req.Rating,
		Comment:  req.Comment,
		IsPublic: true,
	}

	if err := s.feedbackRepo.Create(fb); err != nil {
		return nil, err
	}

	return fb, nil
}

// ListPublic 落地页展示的公开评价（最新 10 条）
func (s *FeedbackService) ListPublic() ([]dto.FeedbackItem, error) {
	feedbacks, err := s.feedbackRepo.ListPublic(10)
	if err != nil {
		return nil, err
	}
	return buildFeedbackItems(feedbacks), nil
}

// ListAll 管理端列出全部评价
func (s *FeedbackService) ListAll() ([]dto.FeedbackItem, error) {
	feedbacks, err := s.feedbackRepo.ListAll()
	if err != nil {
		return nil, err
	}
	return buildFeedbackItems(feedbacks), nil
}

// UpdateVisibility 管理端切换评价可见性
func (s *FeedbackService) UpdateVisibility(id int64, isPublic bool) error {
	return s.feedbackRepo.UpdateVisibility(id, isPublic)
}

func buildFeedbackItems(feedbacks []model.Feedback) []dto.FeedbackItem {
	items := make([]dto.FeedbackItem, 0, len(feedbacks))
	for _, fb := range feedbacks {
		item := dto.FeedbackItem{
			ID:        fb.ID,
			Rating:    fb.Rating,
			Comment:   fb.Comment,
			IsPublic:  fb.IsPublic,
			CreatedAt: fb.CreatedAt,
		}
		if fb.User != nil {
			item.UserName = fb.User.Name
		}
		items = append(items, item)
	}
	return items
}
