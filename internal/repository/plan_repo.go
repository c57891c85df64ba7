package repository

import (
	"gorm.io/gorm"

	"github.com/tiffinbox/tiffin_go_server/internal/model"
)

type PlanRepository struct {
	db *gorm.DB
}

func NewPlanRepository(db *gorm.DB) *PlanRepository {
	return &PlanRepository{db: db}
}

func (r *PlanRepository) Create(plan *model.Plan) error {
	return r.db.Create(plan).Error
}

func (r *PlanRepository) GetByID(id int64) (*model.Plan, error) {
	var plan model.Plan
	err := r.db.Where("id = ?", id).First(&plan).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *PlanRepository) ListAll() ([]model.Plan, error) {
	var plans []model.Plan
	err := r.db.Order("price ASC").Find(&plans).Error
	return plans, err
}

func (r *PlanRepository) ExistsByName(name string) (bool, error) {
	var count int64
	err := r.db.Model(&model.Plan{}).Where("name = ?", name).Count(&count).Error
	return count > 0, err
}
