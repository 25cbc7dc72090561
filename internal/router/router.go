package router

import (
	"eduvault/internal/handlers"
	"eduvault/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine) {
	// Handlers
	authHandler := handlers.NewAuthHandler()
	postHandler := handlers.NewPostHandler()
	commentHandler := handlers.NewCommentHandler()
	classHandler := handlers.NewClassHandler()
	userHandler := handlers.NewUserHandler()
	notificationHandler := handlers.NewNotificationHandler()
	imageHandler := handlers.NewImageHandler()
	reportHandler := handlers.NewReportHandler()
	adminHandler := handlers.NewAdminHandler()

	// 图片反代
	r.GET("/img/:id", imageHandler.Proxy)

	api := r.Group("/api")

	// 公共路由 (Public Routes)
	api.GET("/posts", postHandler.List)          // 帖子列表
	api.GET("/posts/search", postHandler.Search) // 搜索
	api.GET("/posts/:pid", postHandler.Detail)   // 帖子详情
	api.GET("/classes", classHandler.List)       // 课程列表
	api.GET("/classes/:id", classHandler.Detail) // 课程详情
	api.GET("/users/:id", userHandler.Profile)   // 用户主页

	api.GET("/auth/captcha", authHandler.Captcha)
	api.POST("/auth/signup", authHandler.Register)
	api.POST("/auth/activate", authHandler.Activate)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/logout", authHandler.Logout)
	api.POST("/auth/forgot-password", authHandler.ForgotPassword)
	api.POST("/auth/reset-password", authHandler.ResetPassword)
	api.GET("/auth/google", authHandler.GoogleLogin)
	api.GET("/auth/google/callback", authHandler.GoogleCallback)

	// 受保护路由 (Protected Routes)
	authorized := api.Group("/")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.POST("/posts", postHandler.Create)
		authorized.DELETE("/posts/:pid", postHandler.Delete)
		authorized.POST("/posts/:pid/like", postHandler.ToggleLike)
		authorized.POST("/posts/:pid/comments", commentHandler.Create)
		authorized.POST("/comments/:cid/like", commentHandler.ToggleLike)
		authorized.DELETE("/comments/:cid", commentHandler.Delete)

		authorized.POST("/classes", classHandler.Create)
		authorized.POST("/classes/:id/interest", classHandler.ToggleInterest)
		authorized.POST("/classes/:id/rate", classHandler.Rate)

		authorized.GET("/me", userHandler.Me)
		authorized.PUT("/me", userHandler.UpdateProfile)
		authorized.GET("/me/dashboard", userHandler.Dashboard)
		authorized.GET("/me/teaching", userHandler.TeachingHistory)

		authorized.GET("/notifications", notificationHandler.List)
		authorized.POST("/notifications/:id/read", notificationHandler.Read)
		authorized.POST("/notifications/read-all", notificationHandler.ReadAll)
		authorized.DELETE("/notifications/:id", notificationHandler.Delete)

		authorized.POST("/upload", imageHandler.Upload)
		authorized.POST("/reports", reportHandler.Create)

		authorized.GET("/auth/google/bind", authHandler.BindGoogle)
		authorized.GET("/auth/google/bind/callback", authHandler.GoogleBindCallback)
		authorized.POST("/auth/google/unbind", authHandler.UnbindGoogle)
	}

	// 管理路由 (Admin Routes)
	admin := api.Group("/admin")
	admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
	{
		admin.GET("/users", adminHandler.ListUsers)
		admin.POST("/users/:id/punish", adminHandler.PunishUser)
		admin.GET("/reports", adminHandler.ListReports)
		admin.POST("/reports/:id/resolve", adminHandler.ResolveReport)
	}
}
