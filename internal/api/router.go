package api

import (
	"github.com/gin-gonic/gin"

	"github.com/tiffinbox/tiffin_go_server/config"
	"github.com/tiffinbox/tiffin_go_server/internal/api/handler"
	"github.com/tiffinbox/tiffin_go_server/internal/api/middleware"
	"github.com/tiffinbox/tiffin_go_server/internal/repository"
)

type Router struct {
	authHandler     *handler.AuthHandler
	planHandler     *handler.PlanHandler
	subHandler      *handler.SubscriptionHandler
	feedbackHandler *handler.FeedbackHandler
	adminHandler    *handler.AdminHandler
	wsHandler       *handler.WSHandler
	userRepo        *repository.UserRepository
	cfg             *config.Config
}

func NewRouter(
	authHandler *handler.AuthHandler,
	planHandler *handler.PlanHandler,
	subHandler *handler.SubscriptionHandler,
	feedbackHandler *handler.FeedbackHandler,
	adminHandler *handler.AdminHandler,
	wsHandler *handler.WSHandler,
	userRepo *repository.UserRepository,
	cfg *config.Config,
) *Router {
	return &Router{
		authHandler:     authHandler,
		planHandler:     planHandler,
		subHandler:      subHandler,
		feedbackHandler: feedbackHandler,
		adminHandler:    adminHandler,
		wsHandler:       wsHandler,
		userRepo:        userRepo,
		cfg:             cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	if r.cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.CORS(r.cfg.CORS))

	api := engine.Group("/api/v1")
	{
		// WebSocket
		api.GET("/ws", r.wsHandler.Serve)

		// 公开接口 - 认证
		auth := api.Group("/auth")
		{
			auth.POST("/register", r.authHandler.Register)
			auth.POST("/login", r.authHandler.Login)
			auth.POST("/otp-login", r.authHandler.OTPLogin)
		}

		// 公开接口 - 套餐/菜单/视频/公开评价
		api.GET("/plans", r.planHandler.List)
		api.GET("/menu", r.adminHandler.GetMenuByDate)
		api.GET("/videos", r.adminHandler.ListVideos)
		api.GET("/feedback/public", r.feedbackHandler.ListPublic)

		// 需要认证的接口
		authenticated := api.Group("")
		authenticated.Use(middleware.Auth(r.cfg.JWT.Secret))
		{
			authenticated.PUT("/auth/profile", r.authHandler.UpdateProfile)

			subs := authenticated.Group("/subscriptions")
			{
				subs.POST("", r.subHandler.Create)
				subs.GET("/me", r.subHandler.GetMine)
				subs.POST("/skip", r.subHandler.Skip)
				subs.POST("/unskip", r.subHandler.Unskip)
			}

			authenticated.POST("/feedback", r.feedbackHandler.Submit)
		}

		// 管理端接口
		admin := api.Group("/admin")
		admin.Use(middleware.Auth(r.cfg.JWT.Secret))
		admin.Use(middleware.AdminOnly(r.userRepo))
		{
			admin.GET("/stats", r.adminHandler.GetStats)
			admin.GET("/deliveries", r.adminHandler.GetDeliveries)
			admin.GET("/users", r.adminHandler.GetUsers)
			admin.GET("/notifications", r.adminHandler.GetNotifications)

			admin.GET("/subscriptions", r.adminHandler.ListSubscriptions)
			admin.POST("/subscriptions/:id/verify", r.adminHandler.VerifySubscription)

			admin.PUT("/menu", r.adminHandler.UpdateMenu)
			admin.POST("/menu/:id/image", r.adminHandler.UploadMenuImage)

			admin.POST("/videos", r.adminHandler.AddVideo)
			admin.DELETE("/videos/:id", r.adminHandler.DeleteVideo)

			admin.GET("/feedback", r.adminHandler.ListFeedback)
			admin.PUT("/feedback/:id/visibility", r.adminHandler.UpdateFeedbackVisibility)
		}
	}

	return engine
}
