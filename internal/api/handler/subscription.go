package handler

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tiffinbox/tiffin_go_server/internal/api/middleware"
	"github.com/tiffinbox/tiffin_go_server/internal/model/dto"
	"github.com/tiffinbox/tiffin_go_server/internal/pkg/response"
	"github.com/tiffinbox/tiffin_go_server/internal/service"
)

const dateLayout = "2006-01-02"

type SubscriptionHandler struct {
	subService *service.SubscriptionService
}

func NewSubscriptionHandler(subService *service.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{
		subService: subService,
	}
}

// Create 购买订阅
// POST /api/v1/subscriptions
func (h *SubscriptionHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.CreateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	var startDate *time.Time
	if req.StartDate != "" {
		d, err := time.ParseInLocation(dateLayout, req.StartDate, time.Local)
		if err != nil {
			response.ParamError(c, "Invalid start_date format, expected YYYY-MM-DD")
			return
		}
		startDate = &d
	}

	sub, err := h.subService.Create(c.Request.Context(), userID, req.PlanID, startDate)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPlanRequired):
			response.ParamError(c, err.Error())
		case errors.Is(err, service.ErrPlanNotFound):
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, sub)
}

// GetMine 查询当前用户的活跃订阅
// GET /api/v1/subscriptions/me
func (h *SubscriptionHandler) GetMine(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	sub, err := h.subService.GetMine(userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoActiveSubscription):
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, sub)
}

// Skip 跳过指定日期的餐食
// POST /api/v1/subscriptions/skip
func (h *SubscriptionHandler) Skip(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	req, date, ok := h.bindSkipRequest(c)
	if !ok {
		return
	}

	resp, err := h.subService.Skip(c.Request.Context(), userID, date, req.Meal)
	if err != nil {
		h.writeSkipError(c, err)
		return
	}

	response.Success(c, resp)
}

// Unskip 撤销跳餐
// POST /api/v1/subscriptions/unskip
func (h *SubscriptionHandler) Unskip(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	req, date, ok := h.bindSkipRequest(c)
	if !ok {
		return
	}

	resp, err := h.subService.Unskip(c.Request.Context(), userID, date, req.Meal)
	if err != nil {
		h.writeSkipError(c, err)
		return
	}

	response.Success(c, resp)
}

func (h *SubscriptionHandler) bindSkipRequest(c *gin.Context) (*dto.SkipMealRequest, time.Time, bool) {
	var req dto.SkipMealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return nil, time.Time{}, false
	}

	date, err := time.ParseInLocation(dateLayout, req.Date, time.Local)
	if err != nil {
		response.ParamError(c, "Invalid date format, expected YYYY-MM-DD")
		return nil, time.Time{}, false
	}

	return &req, date, true
}

// writeSkipError 把跳餐领域错误映射为统一响应码
func (h *SubscriptionHandler) writeSkipError(c *gin.Context, err error) {
	var mismatch *service.UndoMismatchError
	switch {
	case errors.Is(err, service.ErrInvalidMeal):
		response.ParamError(c, err.Error())
	case errors.Is(err, service.ErrNoActiveSubscription):
		response.NotFoundError(c, err.Error())
	case errors.Is(err, service.ErrSkipLimitReached):
		response.LimitError(c, err.Error())
	case errors.Is(err, service.ErrAlreadySkipped):
		response.DuplicateError(c, err.Error())
	case errors.Is(err, service.ErrSkipPastDay),
		errors.Is(err, service.ErrSkipCutoffPassed),
		errors.Is(err, service.ErrUndoPastDay),
		errors.Is(err, service.ErrUndoCutoffPassed),
		errors.Is(err, service.ErrNotSkipped):
		response.PolicyError(c, err.Error())
	case errors.As(err, &mismatch):
		response.PolicyError(c, err.Error())
	case errors.Is(err, service.ErrWriteConflict):
		response.ConflictError(c, err.Error())
	default:
		response.ServerError(c, "")
	}
}
