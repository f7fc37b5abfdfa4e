package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"autopost/domain/repository"
	httpHandler "autopost/interfaces/http"
	"autopost/interfaces/middleware"
)

func InitiateRouter(
	userHandler httpHandler.IUserHandler,
	postHandler httpHandler.IPostHandler,
	schedulerHandler httpHandler.ISchedulerHandler,
	googleAuthHandler httpHandler.IGoogleAuthHandler,
	driveHandler httpHandler.IDriveHandler,
	settingsHandler httpHandler.ISettingsHandler,
	userRepository repository.IUser,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:4200", "http://localhost:5173", "https://localhost:4200"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := router.Group("api")
	api.Use(middleware.Auth(userRepository))

	router.POST("/login", userHandler.Login)
	router.POST("/register", userHandler.Register)
	router.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/google/configured", googleAuthHandler.IsConfigured)

	google := api.Group("/google")
	{
		google.GET("/auth-url", googleAuthHandler.GetAuthURL)
		google.POST("/callback", googleAuthHandler.HandleCallback)
		google.DELETE("/:provider", googleAuthHandler.Disconnect)
		google.GET("/status", googleAuthHandler.ConnectionStatus)
		google.GET("/channel", googleAuthHandler.GetChannelInfo)
	}

	drive := api.Group("/drive")
	{
		drive.GET("/files", driveHandler.ListFiles)
		drive.GET("/folders/:folderId", driveHandler.GetFolderInfo)
		drive.GET("/find", driveHandler.FindFile)
	}

	posts := api.Group("/posts")
	{
		posts.POST("/upload-excel", postHandler.UploadExcel)
		posts.GET("", postHandler.List)
		posts.GET("/dashboard", postHandler.Dashboard)
		posts.GET("/upcoming", postHandler.Upcoming)
		posts.GET("/published-today", postHandler.PublishedToday)
		posts.GET("/recent-failed", postHandler.RecentFailed)
		posts.GET("/:id", postHandler.GetByID)
		posts.POST("/:id/retry", postHandler.Retry)
		posts.POST("/:id/publish-now", postHandler.PublishNow)
	}

	api.GET("/settings", settingsHandler.Get)
	api.PUT("/settings", settingsHandler.Update)

	scheduler := api.Group("/scheduler")
	{
		scheduler.GET("/status", schedulerHandler.Status)
		scheduler.POST("/run", schedulerHandler.Run)
	}

	api.GET("/logs", postHandler.Logs)

	return router
}
