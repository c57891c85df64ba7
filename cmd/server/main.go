package main

import (
	"context"
	"fmt"
	"log"

	"github.com/tiffinbox/tiffin_go_server/config"
	"github.com/tiffinbox/tiffin_go_server/internal/api"
	"github.com/tiffinbox/tiffin_go_server/internal/api/handler"
	"github.com/tiffinbox/tiffin_go_server/internal/pkg/cron"
	"github.com/tiffinbox/tiffin_go_server/internal/pkg/database"
	"github.com/tiffinbox/tiffin_go_server/internal/pkg/oss"
	"github.com/tiffinbox/tiffin_go_server/internal/pkg/pubsub"
	"github.com/tiffinbox/tiffin_go_server/internal/pkg/queue"
	"github.com/tiffinbox/tiffin_go_server/internal/pkg/ws"
	"github.com/tiffinbox/tiffin_go_server/internal/repository"
	"github.com/tiffinbox/tiffin_go_server/internal/service"
)

func main() {
	// 加载配置
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化数据库
	db, err := database.NewMySQL(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}
	log.Println("Database connected")

	// 初始化 Redis
	rdb, err := database.NewRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect redis: %v", err)
	}
	log.Println("Redis connected")

	// 初始化 OSS
	ossClient, err := oss.NewClient(&cfg.OSS)
	if err != nil {
		log.Fatalf("Failed to init OSS client: %v", err)
	}

	// 初始化邮件任务队列与订单事件发布器
	emailQueue := queue.NewQueue(rdb, cfg.Queue.EmailQueue)
	publisher := pubsub.NewPublisher(rdb)

	// 初始化 WebSocket Hub
	wsHub := ws.NewHub()

	// 初始化 Repository
	userRepo := repository.NewUserRepository(db)
	planRepo := repository.NewPlanRepository(db)
	subRepo := repository.NewSubscriptionRepository(db)
	menuRepo := repository.NewMenuRepository(db)
	videoRepo := repository.NewVideoRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	feedbackRepo := repository.NewFeedbackRepository(db)

	// 初始化 Service
	authService := service.NewAuthService(userRepo, notificationRepo, emailQueue, cfg)
	planService := service.NewPlanService(planRepo)
	subService := service.NewSubscriptionService(subRepo, planRepo, userRepo, notificationRepo, publisher, emailQueue, cfg)
	adminService := service.NewAdminService(userRepo, subRepo, notificationRepo)
	menuService := service.NewMenuService(menuRepo, ossClient)
	videoService := service.NewVideoService(videoRepo)
	feedbackService := service.NewFeedbackService(feedbackRepo)

	// 初始化 Handler
	authHandler := handler.NewAuthHandler(authService)
	planHandler := handler.NewPlanHandler(planService)
	subHandler := handler.NewSubscriptionHandler(subService)
	feedbackHandler := handler.NewFeedbackHandler(feedbackService)
	adminHandler := handler.NewAdminHandler(adminService, subService, menuService, videoService, feedbackService)
	wsHandler := handler.NewWSHandler(wsHub, userRepo, cfg.JWT.Secret)

	// 订阅订单事件，推送给在线管理员
	subscriber := pubsub.NewSubscriber(rdb)
	go func() {
		err := subscriber.Subscribe(context.Background(), func(ev *pubsub.OrderEvent) {
			if err := wsHub.BroadcastToAdmins(&ws.Message{Type: ev.Type, Data: ev}); err != nil {
				log.Printf("Failed to broadcast order event: %v", err)
			}
		})
		if err != nil {
			log.Printf("Order event subscriber stopped: %v", err)
		}
	}()
	log.Println("Order event subscriber started")

	// 启动定时任务
	cronService := cron.NewService(subService, notificationRepo, cfg.Cron.NotificationKeep)
	cronService.Start()
	defer cronService.Stop()

	// 初始化 Router
	router := api.NewRouter(
		authHandler,
		planHandler,
		subHandler,
		feedbackHandler,
		adminHandler,
		wsHandler,
		userRepo,
		cfg,
	)
	engine := router.Setup()

	// 启动服务器
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Server starting on %s", addr)
	if err := engine.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
