package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/tiffinbox/tiffin_go_server/internal/pkg/response"
	"github.com/tiffinbox/tiffin_go_server/internal/service"
)

type PlanHandler struct {
	planService *service.PlanService
}

func NewPlanHandler(planService *service.PlanService) *PlanHandler {
	return &PlanHandler{
		planService: planService,
	}
}

// List 套餐列表
// GET /api/v1/plans
func (h *PlanHandler) List(c *gin.Context) {
	plans, err := h.planService.List()
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, plans)
}
