// Package handler 提供 HTTP 请求处理器
// 本文件处理好友关系相关的 API 请求
// 操作者身份一律取自 JWT 中间件注入的 user_id，不信任请求体
package handler

import (
	"huddle_social_server/internal/dto/request"
	"huddle_social_server/internal/infrastructure/middleware"
	"huddle_social_server/internal/service"

	"github.com/gin-gonic/gin"
)

// SendFriendRequestHandler 发送好友申请
// POST /friend/sendRequest
// 请求体: request.SendFriendRequestRequest
// 响应: respond.FriendRequestRespond
func SendFriendRequestHandler(c *gin.Context) {
	var req request.SendFriendRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	userId := c.GetString(middleware.CtxUserIdKey)
	data, err := service.Svc.Friend.SendFriendRequest(userId, req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// AcceptFriendRequestHandler 接受好友申请
// POST /friend/acceptRequest
// 请求体: request.HandleFriendRequestRequest
// 响应: nil
func AcceptFriendRequestHandler(c *gin.Context) {
	var req request.HandleFriendRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	userId := c.GetString(middleware.CtxUserIdKey)
	if err := service.Svc.Friend.AcceptFriendRequest(userId, req.RequestId); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// RejectFriendRequestHandler 拒绝好友申请
// POST /friend/rejectRequest
// 请求体: request.HandleFriendRequestRequest
// 响应: nil
func RejectFriendRequestHandler(c *gin.Context) {
	var req request.HandleFriendRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	userId := c.GetString(middleware.CtxUserIdKey)
	if err := service.Svc.Friend.RejectFriendRequest(userId, req.RequestId); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// CancelFriendRequestHandler 撤回好友申请
// POST /friend/cancelRequest
// 请求体: request.HandleFriendRequestRequest
// 响应: nil
func CancelFriendRequestHandler(c *gin.Context) {
	var req request.HandleFriendRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	userId := c.GetString(middleware.CtxUserIdKey)
	if err := service.Svc.Friend.CancelFriendRequest(userId, req.RequestId); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// GetPendingRequestsHandler 获取发给我的待处理申请列表
// GET /friend/pendingRequests
// 响应: []respond.FriendRequestRespond
func GetPendingRequestsHandler(c *gin.Context) {
	userId := c.GetString(middleware.CtxUserIdKey)
	data, err := service.Svc.Friend.GetPendingRequests(userId)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// GetSentRequestsHandler 获取我发出的待处理申请列表
// GET /friend/sentRequests
// 响应: []respond.FriendRequestRespond
func GetSentRequestsHandler(c *gin.Context) {
	userId := c.GetString(middleware.CtxUserIdKey)
	data, err := service.Svc.Friend.GetSentRequests(userId)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// GetRelationshipStatusHandler 查询与另一用户的关系状态
// GET /friend/status?other_id=xxx
// 查询参数: request.RelationshipStatusRequest
// 响应: respond.RelationshipStatusRespond
func GetRelationshipStatusHandler(c *gin.Context) {
	var req request.RelationshipStatusRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	userId := c.GetString(middleware.CtxUserIdKey)
	data, err := service.Svc.Friend.GetRelationshipStatus(userId, req.OtherId)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// GetMutualFriendsHandler 查询共同好友
// GET /friend/mutualFriends?other_id=xxx
// 查询参数: request.RelationshipStatusRequest
// 响应: []respond.UserSummaryRespond
func GetMutualFriendsHandler(c *gin.Context) {
	var req request.RelationshipStatusRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	userId := c.GetString(middleware.CtxUserIdKey)
	data, err := service.Svc.Friend.GetMutualFriends(userId, req.OtherId)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// GetFriendListHandler 获取好友列表
// GET /friend/list
// 响应: []respond.UserSummaryRespond
func GetFriendListHandler(c *gin.Context) {
	userId := c.GetString(middleware.CtxUserIdKey)
	data, err := service.Svc.Friend.GetFriendList(userId)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}
