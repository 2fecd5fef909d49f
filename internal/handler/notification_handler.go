// Package handler 提供 HTTP 请求处理器
// 本文件处理通知相关的 API 请求
package handler

import (
	"huddle_social_server/internal/dto/request"
	"huddle_social_server/internal/infrastructure/middleware"
	"huddle_social_server/internal/service"
	"huddle_social_server/internal/service/notification"

	"github.com/gin-gonic/gin"
)

// CreateNotificationHandler 创建通知
// POST /notification/create
// 供帖子/评论协作方触发 post_like、post_comment 类通知；
// 触发者即当前登录用户
// 请求体: request.CreateNotificationRequest
// 响应: respond.NotificationRespond（被去重/自触发跳过时为 null）
func CreateNotificationHandler(c *gin.Context) {
	var req request.CreateNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	userId := c.GetString(middleware.CtxUserIdKey)
	data, err := service.Svc.Notification.Create(notification.CreateParams{
		RecipientId:    req.RecipientId,
		SenderId:       userId,
		Type:           req.Type,
		Message:        req.Message,
		RelatedPost:    req.RelatedPost,
		RelatedComment: req.RelatedComment,
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// GetNotificationListHandler 分页获取通知列表
// GET /notification/list?page=1
// 查询参数: request.NotificationPageRequest
// 响应: respond.NotificationListRespond
func GetNotificationListHandler(c *gin.Context) {
	var req request.NotificationPageRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	userId := c.GetString(middleware.CtxUserIdKey)
	data, err := service.Svc.Notification.GetNotificationList(userId, req.Page, req.Limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// MarkNotificationReadHandler 单条通知置为已读
// POST /notification/markRead
// 请求体: request.NotificationActionRequest
// 响应: nil
func MarkNotificationReadHandler(c *gin.Context) {
	var req request.NotificationActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	userId := c.GetString(middleware.CtxUserIdKey)
	if err := service.Svc.Notification.MarkRead(userId, req.NotificationId); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// MarkAllNotificationsReadHandler 全部通知置为已读
// POST /notification/markAllRead
// 响应: nil
func MarkAllNotificationsReadHandler(c *gin.Context) {
	userId := c.GetString(middleware.CtxUserIdKey)
	if err := service.Svc.Notification.MarkAllRead(userId); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// DeleteNotificationHandler 删除单条通知
// POST /notification/delete
// 请求体: request.NotificationActionRequest
// 响应: nil
func DeleteNotificationHandler(c *gin.Context) {
	var req request.NotificationActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	userId := c.GetString(middleware.CtxUserIdKey)
	if err := service.Svc.Notification.Delete(userId, req.NotificationId); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// ClearAllNotificationsHandler 清空全部通知
// POST /notification/clearAll
// 响应: nil
func ClearAllNotificationsHandler(c *gin.Context) {
	userId := c.GetString(middleware.CtxUserIdKey)
	if err := service.Svc.Notification.ClearAll(userId); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}
