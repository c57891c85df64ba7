package service

import (
	"github.com/tiffinbox/tiffin_go_server/internal/model"
	"github.com/tiffinbox/tiffin_go_server/internal/repository"
)

type PlanService struct {
	planRepo *repository.PlanRepository
}

func NewPlanService(planRepo *repository.PlanRepository) *PlanService {
	return &PlanService{planRepo: planRepo}
}

// List 套餐目录（对核心逻辑只读）
func (s *PlanService) List() ([]model.Plan, error) {
	return s.planRepo.ListAll()
}
