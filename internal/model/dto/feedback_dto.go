package dto

import "time"

// SubmitFeedbackRequest 提交评价请求
type SubmitFeedbackRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"required"`
}

// UpdateFeedbackStatusRequest 管理端修改评价可见性
type UpdateFeedbackStatusRequest struct {
	IsPublic bool `json:"is_public"`
}

// FeedbackItem 评价展示条目
type FeedbackItem struct {
	ID        int64     `json:"id"`
	UserName  string    `json:"user_name"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	IsPublic  bool      `json:"is_public"`
	CreatedAt time.Time `json:"created_at"`
}
