package router

import (
	"huddle_social_server/internal/handler"
	"huddle_social_server/internal/infrastructure/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterUserRoutes 注册用户相关路由（需要认证）
func RegisterUserRoutes(r *gin.Engine) {
	user := r.Group("/user", middleware.JWTAuth())
	{
		user.GET("/profile", handler.GetUserProfileHandler)
		user.GET("/onlineUsers", handler.GetOnlineUsersHandler)
	}
}
