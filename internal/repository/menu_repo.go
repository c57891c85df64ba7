package repository

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tiffinbox/tiffin_go_server/internal/model"
)

type MenuRepository struct {
	db *gorm.DB
}

func NewMenuRepository(db *gorm.DB) *MenuRepository {
	return &MenuRepository{db: db}
}

// GetByDate 取指定日期的菜单（按天范围查询）
func (r *MenuRepository) GetByDate(date time.Time) (*model.Menu, error) {
	nextDay := date.AddDate(0, 0, 1)

	var menu model.Menu
	err := r.db.Where("date >= ? AND date < ?", date, nextDay).First(&menu).Error
	if err != nil {
		return nil, err
	}
	return &menu, nil
}

// ListRecent 最近 N 天的菜单，按日期倒序
func (r *MenuRepository) ListRecent(limit int) ([]model.Menu, error) {
	var menus []model.Menu
	err := r.db.Order("date DESC").Limit(limit).Find(&menus).Error
	return menus, err
}

// Upsert 按日期+套餐名创建或更新菜单
func (r *MenuRepository) Upsert(menu *model.Menu) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "date"}, {Name: "plan_name"}},
		DoUpdates: clause.AssignmentColumns([]string{"lunch", "dinner", "image", "updated_at"}),
	}).Create(menu).Error
}

func (r *MenuRepository) GetByID(id int64) (*model.Menu, error) {
	var menu model.Menu
	err := r.db.Where("id = ?", id).First(&menu).Error
	if err != nil {
		return nil, err
	}
	return &menu, nil
}

func (r *MenuRepository) UpdateImage(id int64, imageURL string) error {
	return r.db.Model(&model.Menu{}).
		Where("id = ?", id).
		Update("image", imageURL).Error
}
