package api

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"resumecraft/internal/api/middleware"
	"resumecraft/internal/auth"
	"resumecraft/internal/storage"
)

// 单用户可保存的简历上限。
const maxResumesPerUser = 20

// RegisterRoutes 注册 API 路由，不包含 /api 前缀。
func RegisterRoutes(
	router *gin.Engine,
	db *gorm.DB,
	asynqClient *asynq.Client,
	authService *auth.AuthService,
	redisClient *redis.Client,
	logger *slog.Logger,
	storageClient *storage.Client,
	allowedOrigins []string,
) {
	resumeHandler := NewResumeHandler(db, asynqClient, storageClient, maxResumesPerUser)
	authHandler := NewAuthHandler(db, authService, redisClient, logger)
	wsHandler := NewWsHandler(redisClient, authService, logger, allowedOrigins)
	authMiddleware := middleware.AuthMiddleware(authService)

	v1 := router.Group("/v1")
	{
		v1.GET("/ws", wsHandler.HandleConnection)

		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh", authHandler.Refresh)
			authGroup.POST("/logout", authMiddleware, authHandler.Logout)
		}

		resumeGroup := v1.Group("/resume")
		resumeGroup.Use(authMiddleware)
		{
			resumeGroup.GET("", resumeHandler.ListResumes)
			resumeGroup.POST("", resumeHandler.CreateResume)
			resumeGroup.GET("/latest", resumeHandler.GetLatestResume)
			resumeGroup.GET("/:id", resumeHandler.GetResume)
			resumeGroup.PUT("/:id", resumeHandler.UpdateResume)
			resumeGroup.DELETE("/:id", resumeHandler.DeleteResume)

			resumeGroup.POST("/:id/sections", resumeHandler.AddSection)
			resumeGroup.PUT("/:id/sections/:sectionId", resumeHandler.UpdateSection)
			resumeGroup.DELETE("/:id/sections/:sectionId", resumeHandler.RemoveSection)
			resumeGroup.POST("/:id/sections/reorder", resumeHandler.ReorderSections)
			resumeGroup.PUT("/:id/theme", resumeHandler.UpdateTheme)

			resumeGroup.POST("/:id/export", resumeHandler.ExportResume)
			resumeGroup.GET("/:id/download-link", resumeHandler.GetDownloadLink)
			resumeGroup.GET("/:id/preview-link", resumeHandler.GetPreviewLink)
		}
	}
}
