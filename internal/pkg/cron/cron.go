package cron

import (
	"log"
	"time"

	"github.com/tiffinbox/tiffin_go_server/internal/repository"
	"github.com/tiffinbox/tiffin_go_server/internal/service"
)

type Service struct {
	subService       *service.SubscriptionService
	notificationRepo *repository.NotificationRepository
	notificationKeep int
	stopChan         chan struct{}
}

func NewService(
	subService *service.SubscriptionService,
	notificationRepo *repository.NotificationRepository,
	notificationKeep int,
) *Service {
	return &Service{
		subService:       subService,
		notificationRepo: notificationRepo,
		notificationKeep: notificationKeep,
		stopChan:         make(chan struct{}),
	}
}

// Start 启动定时任务
func (s *Service) Start() {
	go s.runDailyExpirySweep()
	go s.runNotificationPrune()
	log.Println("Cron service started (expiry sweep + notification prune)")
}

// Stop 停止定时任务
func (s *Service) Stop() {
	close(s.stopChan)
	log.Println("Cron service stopped")
}

// runDailyExpirySweep 每日零点将窗口结束的订阅置为过期
func (s *Service) runDailyExpirySweep() {
	now := time.Now()
	nextMidnight := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, now.Location())
	timer := time.NewTimer(nextMidnight.Sub(now))

	for {
		select {
		case <-s.stopChan:
			timer.Stop()
			return
		case <-timer.C:
			s.expireEnded()
			timer.Reset(24 * time.Hour)
		}
	}
}

func (s *Service) expireEnded() {
	log.Println("Starting subscription expiry sweep...")
	count, err := s.subService.ExpireEnded()
	if err != nil {
		log.Printf("Failed to expire subscriptions: %v", err)
		return
	}
	if count > 0 {
		log.Printf("Expiry sweep completed: %d subscriptions expired", count)
	}
}

// runNotificationPrune 每小时清理一次超出保留条数的已读通知
func (s *Service) runNotificationPrune() {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.pruneNotifications()
		}
	}
}

func (s *Service) pruneNotifications() {
	keep := s.notificationKeep
	if keep <= 0 {
		keep = 200
	}

	count, err := s.notificationRepo.PruneRead(keep)
	if err != nil {
		log.Printf("Failed to prune notifications: %v", err)
		return
	}
	if count > 0 {
		log.Printf("Notification prune completed: %d removed", count)
	}
}

// RunNow 立即执行过期清理（用于测试或手动触发）
func (s *Service) RunNow() error {
	log.Println("Manual expiry sweep triggered...")
	_, err := s.subService.ExpireEnded()
	return err
}
