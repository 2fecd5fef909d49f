package router

import (
	"huddle_social_server/internal/handler"
	"huddle_social_server/internal/infrastructure/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterFriendRoutes 注册好友相关路由（需要认证）
func RegisterFriendRoutes(r *gin.Engine) {
	friend := r.Group("/friend", middleware.JWTAuth())
	{
		friend.POST("/sendRequest", handler.SendFriendRequestHandler)
		friend.POST("/acceptRequest", handler.AcceptFriendRequestHandler)
		friend.POST("/rejectRequest", handler.RejectFriendRequestHandler)
		friend.POST("/cancelRequest", handler.CancelFriendRequestHandler)
		friend.GET("/pendingRequests", handler.GetPendingRequestsHandler)
		friend.GET("/sentRequests", handler.GetSentRequestsHandler)
		friend.GET("/status", handler.GetRelationshipStatusHandler)
		friend.GET("/mutualFriends", handler.GetMutualFriendsHandler)
		friend.GET("/list", handler.GetFriendListHandler)
	}
}
