package handler

import (
	"errors"
	"io"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tiffinbox/tiffin_go_server/internal/model/dto"
	"github.com/tiffinbox/tiffin_go_server/internal/pkg/response"
	"github.com/tiffinbox/tiffin_go_server/internal/service"
)

// maxImageSize 菜单图片上传上限 5MB
const maxImageSize = 5 << 20

type AdminHandler struct {
	adminService    *service.AdminService
	subService      *service.SubscriptionService
	menuService     *service.MenuService
	videoService    *service.VideoService
	feedbackService *service.FeedbackService
}

func NewAdminHandler(
	adminService *service.AdminService,
	subService *service.SubscriptionService,
	menuService *service.MenuService,
	videoService *service.VideoService,
	feedbackService *service.FeedbackService,
) *AdminHandler {
	return &AdminHandler{
		adminService:    adminService,
		subService:      subService,
		menuService:     menuService,
		videoService:    videoService,
		feedbackService: feedbackService,
	}
}

// GetStats 看板统计
// GET /api/v1/admin/stats
func (h *AdminHandler) GetStats(c *gin.Context) {
	stats, err := h.adminService.GetDashboardStats()
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, stats)
}

// GetDeliveries 今日配送单
// GET /api/v1/admin/deliveries
func (h *AdminHandler) GetDeliveries(c *gin.Context) {
	items, err := h.adminService.GetDailyDeliveries()
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, items)
}

// GetUsers 用户列表（含当前套餐）
// GET /api/v1/admin/users
func (h *AdminHandler) GetUsers(c *gin.Context) {
	users, err := h.adminService.GetUsersWithPlans()
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, users)
}

// GetNotifications 最近通知
// GET /api/v1/admin/notifications
func (h *AdminHandler) GetNotifications(c *gin.Context) {
	items, err := h.adminService.GetNotifications()
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, items)
}

// ListSubscriptions 全部订阅
// GET /api/v1/admin/subscriptions
func (h *AdminHandler) ListSubscriptions(c *gin.Context) {
	subs, err := h.subService.ListAll()
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, subs)
}

// VerifySubscription 审核通过待审订阅
// POST /api/v1/admin/subscriptions/:id/verify
func (h *AdminHandler) VerifySubscription(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "Invalid subscription id")
		return
	}

	sub, err := h.subService.Verify(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSubNotFound):
			response.NotFoundError(c, err.Error())
		case errors.Is(err, service.ErrNotPendingReview):
			response.PolicyError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, sub)
}

// UpdateMenu 创建/更新某日菜单
// PUT /api/v1/admin/menu
func (h *AdminHandler) UpdateMenu(c *gin.Context) {
	var req dto.UpdateMenuRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	menu, err := h.menuService.Upsert(&req)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, menu)
}

// UploadMenuImage 上传菜单图片到 OSS
// POST /api/v1/admin/menu/:id/image
func (h *AdminHandler) UploadMenuImage(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "Invalid menu id")
		return
	}

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		response.ParamError(c, "Image file is required")
		return
	}
	defer file.Close()

	if header.Size > maxImageSize {
		response.ParamError(c, "Image exceeds 5MB limit")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	url, err := h.menuService.UploadImage(id, data, filepath.Ext(header.Filename))
	if err != nil {
		if errors.Is(err, service.ErrMenuNotFound) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.Success(c, gin.H{"url": url})
}

// AddVideo 添加宣传视频
// POST /api/v1/admin/videos
func (h *AdminHandler) AddVideo(c *gin.Context) {
	var req dto.AddVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	video, err := h.videoService.Add(&req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrVideoFieldsRequired):
			response.ParamError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, video)
}

// DeleteVideo 删除宣传视频
// DELETE /api/v1/admin/videos/:id
func (h *AdminHandler) DeleteVideo(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "Invalid video id")
		return
	}

	if err := h.videoService.Delete(id); err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, nil)
}

// ListFeedback 全部用户反馈
// GET /api/v1/admin/feedback
func (h *AdminHandler) ListFeedback(c *gin.Context) {
	items, err := h.feedbackService.ListAll()
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, items)
}

// UpdateFeedbackVisibility 设置反馈是否公开展示
// PUT /api/v1/admin/feedback/:id/visibility
func (h *AdminHandler) UpdateFeedbackVisibility(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "Invalid feedback id")
		return
	}

	var req dto.UpdateFeedbackStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	if err := h.feedbackService.UpdateVisibility(id, req.IsPublic); err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, nil)
}

// GetMenuByDate 查询某日菜单（公开）
// GET /api/v1/menu?date=YYYY-MM-DD
func (h *AdminHandler) GetMenuByDate(c *gin.Context) {
	dateStr := c.DefaultQuery("date", time.Now().Format(dateLayout))
	date, err := time.ParseInLocation(dateLayout, dateStr, time.Local)
	if err != nil {
		response.ParamError(c, "Invalid date format, expected YYYY-MM-DD")
		return
	}

	menu, err := h.menuService.GetByDate(date)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, menu)
}

// ListVideos 宣传视频列表（公开）
// GET /api/v1/videos
func (h *AdminHandler) ListVideos(c *gin.Context) {
	videos, err := h.videoService.List()
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, videos)
}
