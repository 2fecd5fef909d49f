package router

import (
	"huddle_social_server/internal/handler"
	"huddle_social_server/internal/infrastructure/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterNotificationRoutes 注册通知相关路由（需要认证）
func RegisterNotificationRoutes(r *gin.Engine) {
	notification := r.Group("/notification", middleware.JWTAuth())
	{
		notification.POST("/create", handler.CreateNotificationHandler)
		notification.GET("/list", handler.GetNotificationListHandler)
		notification.POST("/markRead", handler.MarkNotificationReadHandler)
		notification.POST("/markAllRead", handler.MarkAllNotificationsReadHandler)
		notification.POST("/delete", handler.DeleteNotificationHandler)
		notification.POST("/clearAll", handler.ClearAllNotificationsHandler)
	}
}
