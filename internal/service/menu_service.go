package service

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/tiffinbox/tiffin_go_server/internal/model"
	"github.com/tiffinbox/tiffin_go_server/internal/model/dto"
	"github.com/tiffinbox/tiffin_go_server/internal/pkg/oss"
	"github.com/tiffinbox/tiffin_go_server/internal/repository"
)

var ErrMenuNotFound = errors.New("Menu not found")

type MenuService struct {
	menuRepo  *repository.MenuRepository
	ossClient *oss.Client
}

func NewMenuService(menuRepo *repository.MenuRepository, ossClient *oss.Client) *MenuService {
	return &MenuService{
		menuRepo:  menuRepo,
		ossClient: ossClient,
	}
}

// GetByDate 查指定日期的菜单；没有则返回空菜单（前端直接渲染）
func (s *MenuService) GetByDate(date time.Time) (*model.Menu, error) {
	menu, err := s.menuRepo.GetByDate(normalizeDay(date))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &model.Menu{
				Date:   normalizeDay(date),
				Lunch:  model.StringArray{},
				Dinner: model.StringArray{},
			}, nil
		}
		return nil, err
	}
	return menu, nil
}

// ListRecent 最近 7 天菜单
func (s *MenuService) ListRecent() ([]model.Menu, error) {
	return s.menuRepo.ListRecent(7)
}

// Upsert 按日期创建或更新菜单
func (s *MenuService) Upsert(req *dto.UpdateMenuRequest) (*model.Menu, error) {
	date, err := time.ParseInLocation("2006-01-02", req.Date, time.Local)
	if err != nil {
		return nil, err
	}

	planName := req.PlanName
	if planName == "" {
		planName = "Focus Start Plan"
	}

	menu := &model.Menu{
		Date:     normalizeDay(date),
		PlanName: planName,
		Lunch:    req.Lunch,
		Dinner:   req.Dinner,
		Image:    req.Image,
	}

	if err := s.menuRepo.Upsert(menu); err != nil {
		return nil, err
	}

	return s.menuRepo.GetByDate(menu.Date)
}

// UploadImage 上传菜单配图到 OSS 并回写 URL
func (s *MenuService) UploadImage(menuID int64, data []byte, ext string) (string, error) {
	if _, err := s.menuRepo.GetByID(menuID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrMenuNotFound
		}
		return "", err
	}

	url, err := s.ossClient.UploadMenuImage(menuID, data, ext)
	if err != nil {
		return "", err
	}

	if err := s.menuRepo.UpdateImage(menuID, url); err != nil {
		return "", err
	}

	return url, nil
}
