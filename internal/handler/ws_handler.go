// Package handler 提供 HTTP 请求处理器
// 本文件处理 WebSocket 连接相关的 API 请求
package handler

import (
	"net/http"

	"huddle_social_server/internal/gateway/websocket"
	"huddle_social_server/internal/service"
	"huddle_social_server/pkg/errorx"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// WsConnectHandler WebSocket 连接（升级 HTTP 连接为 WebSocket）
// GET /ws/connect?client_id=xxx
// 查询参数: client_id - 用户 UUID
// 功能:
//   - 将 HTTP 连接升级为 WebSocket 连接
//   - 注册到在线注册表（同一用户的旧连接被替换）并广播在线列表
//   - 入站瞬时信号帧转交 live 服务
func WsConnectHandler(c *gin.Context) {
	clientId := c.Query("client_id")
	if clientId == "" {
		zap.L().Error("clientId获取失败")
		c.JSON(http.StatusOK, gin.H{
			"code": errorx.CodeInvalidParam,
			"msg":  "clientId获取失败",
		})
		return
	}
	websocket.NewClientInit(c, clientId, service.Svc.Registry, service.Svc.Live)
}
