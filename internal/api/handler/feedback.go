package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/tiffinbox/tiffin_go_server/internal/api/middleware"
	"github.com/tiffinbox/tiffin_go_server/internal/model/dto"
	"github.com/tiffinbox/tiffin_go_server/internal/pkg/response"
	"github.com/tiffinbox/tiffin_go_server/internal/service"
)

type FeedbackHandler struct {
	feedbackService *service.FeedbackService
}

func NewFeedbackHandler(feedbackService *service.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{
		feedbackService: feedbackService,
	}
}

// Submit 提交评价
// POST /api/v1/feedback
func (h *FeedbackHandler) Submit(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.SubmitFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	fb, err := h.feedbackService.Submit(userID, &req)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, fb)
}

// ListPublic 公开评价列表
// GET /api/v1/feedback/public
func (h *FeedbackHandler) ListPublic(c *gin.Context) {
	items, err := h.feedbackService.ListPublic()
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, items)
}
