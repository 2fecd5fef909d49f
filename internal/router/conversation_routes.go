package router

import (
	"huddle_social_server/internal/handler"
	"huddle_social_server/internal/infrastructure/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterConversationRoutes 注册会话相关路由（需要认证）
func RegisterConversationRoutes(r *gin.Engine) {
	conversation := r.Group("/conversation", middleware.JWTAuth())
	{
		conversation.POST("/open", handler.OpenConversationHandler)
		conversation.POST("/sendMessage", handler.SendMessageHandler)
		conversation.GET("/messages", handler.GetMessageListHandler)
		conversation.POST("/markAsRead", handler.MarkAsReadHandler)
		conversation.POST("/delete", handler.DeleteConversationHandler)
		conversation.GET("/list", handler.GetConversationListHandler)
	}
}
