// Package router 提供 HTTP 路由注册
// 本文件是路由注册的入口，聚合所有子模块的路由
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes 注册所有路由
// 在 httpserver.Init() 中调用
// 按模块分别注册各个路由组
func RegisterRoutes(r *gin.Engine) {
	RegisterUserRoutes(r)         // 用户路由
	RegisterFriendRoutes(r)       // 好友路由
	RegisterConversationRoutes(r) // 会话路由
	RegisterNotificationRoutes(r) // 通知路由
	RegisterWebSocketRoutes(r)    // WebSocket 路由
}
