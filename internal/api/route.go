package api

import (
	"Ripple/internal/api/middleware"
	"Ripple/internal/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRouter(group *HandlersGroup) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	// TraceId & Logger & CORS
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.AuditMiddleware())
	r.Use(middleware.CORSMiddleware())
	logger.SetupGin(r)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"Code":    200,
				"Message": "pong",
				"Data":    nil,
			})
		})

		userGroup := apiGroup.Group("/user")
		{
			// 无需登录即可访问的接口
			userGroup.POST("/register", group.UserHandler.Register)
			userGroup.POST("/login", group.UserHandler.Login)

			authOptGroup := userGroup.Group("")
			authOptGroup.Use(middleware.AuthOptionalMiddleware())
			{
				authOptGroup.GET("/:username", group.UserHandler.GetProfile)
			}

			authGroup := userGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.POST("/logout", group.UserHandler.Logout)
				authGroup.DELETE("", group.UserHandler.Cancel)
				authGroup.POST("/:username/follow", group.UserFollowHandler.ToggleFollow)
			}
		}

		postGroup := apiGroup.Group("/posts")
		{
			authOptGroup := postGroup.Group("")
			authOptGroup.Use(middleware.AuthOptionalMiddleware())
			{
				authOptGroup.GET("/search", group.PostHandler.Search)
				authOptGroup.GET("/:id", group.PostHandler.GetThread)
				authOptGroup.GET("/:id/comments", group.PostHandler.GetComments)
			}

			authGroup := postGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.POST("", group.PostHandler.Create)
				authGroup.DELETE("/:id", group.PostHandler.Delete)
				authGroup.GET("/feed", group.PostHandler.GetFeed)

				authGroup.POST("/:id/like", group.InteractionHandler.ToggleLike)
				authGroup.POST("/:id/repost", group.InteractionHandler.ToggleRepost)
				authGroup.POST("/:id/comments", group.InteractionHandler.CreateComment)
			}
		}

		metricsGroup := apiGroup.Group("/metrics")
		{
			metricsGroup.Use(middleware.AuthMiddleware())
			{
				metricsGroup.GET("/post/7d/:id", group.MetricHandler.GetMetrics7Days)
				metricsGroup.GET("/post/30d/:id", group.MetricHandler.GetMetrics30Days)
			}
		}

		notifyGroup := apiGroup.Group("/notifications")
		{
			// 通知读路径未登录也可访问，降级为空结果
			authOptGroup := notifyGroup.Group("")
			authOptGroup.Use(middleware.AuthOptionalMiddleware())
			{
				authOptGroup.GET("", group.NotificationHandler.GetNotificationList)
				authOptGroup.GET("/unread", group.NotificationHandler.GetUnreadCount)
			}

			notifyGroup.GET("/ws", group.WSHandler.Connect)

			authGroup := notifyGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.POST("", group.NotificationHandler.Create)
				authGroup.PUT("/read", group.NotificationHandler.MarkAllRead)
				authGroup.PUT("/:id/read", group.NotificationHandler.MarkRead)
				authGroup.DELETE("", group.NotificationHandler.ClearAll)
			}
		}

		imGroup := apiGroup.Group("/im")
		{
			imGroup.Use(middleware.AuthMiddleware())
			imGroup.POST("/token", group.IMHandler.GetChatToken)
		}

		mediaGroup := apiGroup.Group("/media")
		{
			mediaGroup.Use(middleware.AuthMiddleware())
			mediaGroup.POST("/upload", group.MediaHandler.Upload)
		}
	}

	return r
}
