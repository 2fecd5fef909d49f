// Package handler 提供 HTTP 请求处理器
// 本文件处理用户资料与在线状态相关的 API 请求
package handler

import (
	"huddle_social_server/internal/infrastructure/middleware"
	"huddle_social_server/internal/service"

	"github.com/gin-gonic/gin"
)

// GetUserProfileHandler 获取用户资料投影
// GET /user/profile?user_id=xxx
// user_id 缺省时返回当前登录用户自己的资料
// 响应: respond.GetUserInfoRespond
func GetUserProfileHandler(c *gin.Context) {
	userId := c.Query("user_id")
	if userId == "" {
		userId = c.GetString(middleware.CtxUserIdKey)
	}
	data, err := service.Svc.Friend.GetUserProfile(userId)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// GetOnlineUsersHandler 获取当前在线用户 ID 列表
// GET /user/onlineUsers
// 响应: []string
func GetOnlineUsersHandler(c *gin.Context) {
	HandleSuccess(c, service.Svc.Registry.OnlineIDs())
}
