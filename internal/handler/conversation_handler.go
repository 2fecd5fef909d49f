// Package handler 提供 HTTP 请求处理器
// 本文件处理会话与消息相关的 API 请求
package handler

import (
	"huddle_social_server/internal/dto/request"
	"huddle_social_server/internal/infrastructure/middleware"
	"huddle_social_server/internal/service"

	"github.com/gin-gonic/gin"
)

// OpenConversationHandler 打开（获取或创建）会话
// POST /conversation/open
// 请求体: request.OpenConversationRequest
// 响应: respond.OpenConversationRespond
func OpenConversationHandler(c *gin.Context) {
	var req request.OpenConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	userId := c.GetString(middleware.CtxUserIdKey)
	data, err := service.Svc.Conversation.OpenConversation(userId, req.OtherId)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// SendMessageHandler 发送消息
// POST /conversation/sendMessage
// 请求体: request.SendMessageRequest
// 响应: respond.GetMessageListRespond
func SendMessageHandler(c *gin.Context) {
	var req request.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	userId := c.GetString(middleware.CtxUserIdKey)
	data, err := service.Svc.Conversation.SendMessage(userId, req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// GetMessageListHandler 获取消息列表
// GET /conversation/messages?other_id=xxx&page=1
// 查询参数: request.GetMessageListRequest
// 响应: []respond.GetMessageListRespond
func GetMessageListHandler(c *gin.Context) {
	var req request.GetMessageListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	userId := c.GetString(middleware.CtxUserIdKey)
	data, err := service.Svc.Conversation.GetMessageList(userId, req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// MarkAsReadHandler 会话内消息全部置为已读
// POST /conversation/markAsRead
// 请求体: request.ConversationActionRequest
// 响应: nil
func MarkAsReadHandler(c *gin.Context) {
	var req request.ConversationActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	userId := c.GetString(middleware.CtxUserIdKey)
	if err := service.Svc.Conversation.MarkAsRead(userId, req.ConversationId); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// DeleteConversationHandler 删除（隐藏并清空）会话
// POST /conversation/delete
// 请求体: request.DeleteConversationRequest
// 响应: nil
func DeleteConversationHandler(c *gin.Context) {
	var req request.DeleteConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	userId := c.GetString(middleware.CtxUserIdKey)
	if err := service.Svc.Conversation.DeleteConversation(userId, req.OtherId); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// GetConversationListHandler 获取会话列表
// GET /conversation/list
// 响应: []respond.ConversationListRespond
func GetConversationListHandler(c *gin.Context) {
	userId := c.GetString(middleware.CtxUserIdKey)
	data, err := service.Svc.Conversation.GetConversationList(userId)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}
