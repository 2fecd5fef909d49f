// Package router 提供 HTTP 路由注册
// 本文件定义 WebSocket 相关的路由
package router

import (
	"huddle_social_server/internal/handler"

	"github.com/gin-gonic/gin"
)

// RegisterWebSocketRoutes 注册 WebSocket 相关路由
// 身份由连接时的 client_id 查询参数提供（传输层契约）
// 请求示例: ws://host:port/ws/connect?client_id=U123456789
func RegisterWebSocketRoutes(r *gin.Engine) {
	r.GET("/ws/connect", handler.WsConnectHandler)
}
