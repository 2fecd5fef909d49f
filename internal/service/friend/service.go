// Package friend 实现好友关系引擎
// 无序对 {A,B} 上的状态机：
//
//	no-relation --sendRequest(A→B)--> pending(A→B)
//	pending --accept(B)--> accepted（终态，对称写入好友关系）
//	pending --reject(B)--> rejected（终态）
//	pending --cancel(A)--> no-relation（记录删除）
//
// 检查-写入序列经 pairlock 按无序对串行化，消除并发重复申请的竞态窗口
package friend

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"huddle_social_server/internal/dao/mysql/repository"
	myredis "huddle_social_server/internal/dao/redis"
	"huddle_social_server/internal/dto/request"
	"huddle_social_server/internal/dto/respond"
	"huddle_social_server/internal/model"
	"huddle_social_server/internal/service/notification"
	"huddle_social_server/internal/service/presence"
	"huddle_social_server/internal/service/push"
	"huddle_social_server/pkg/enum/friend_request_status_enum"
	"huddle_social_server/pkg/enum/notification_type_enum"
	"huddle_social_server/pkg/errorx"
	"huddle_social_server/pkg/pairlock"
	"huddle_social_server/pkg/util/random"
)

// friendRelationCachePrefix 好友ID集合的缓存键前缀
const friendRelationCachePrefix = "friend_relation:user:"

// Notifier 通知创建入口
// 好友引擎只负责触发，去重和推送由通知引擎处理
type Notifier interface {
	Create(p notification.CreateParams) (*respond.NotificationRespond, error)
}

// friendService 好友业务逻辑实现
type friendService struct {
	repos    *repository.Repositories
	cache    myredis.AsyncCacheService
	bus      push.EventBus
	notifier Notifier
	registry *presence.Registry
	locks    *pairlock.PairLock
}

// NewFriendService 构造函数
// cache/bus/registry 允许为 nil（测试场景），相关旁路会被跳过
func NewFriendService(
	repos *repository.Repositories,
	cache myredis.AsyncCacheService,
	bus push.EventBus,
	notifier Notifier,
	registry *presence.Registry,
) *friendService {
	return &friendService{
		repos:    repos,
		cache:    cache,
		bus:      bus,
		notifier: notifier,
		registry: registry,
		locks:    pairlock.New(),
	}
}

// SendFriendRequest 发送好友申请
// 失败语义：自己加自己 -> 参数错误；已是好友 / 任一方向已有待处理申请 -> 冲突
func (f *friendService) SendFriendRequest(userId string, req request.SendFriendRequestRequest) (*respond.FriendRequestRespond, error) {
	toId := req.ToId
	if userId == toId {
		return nil, errorx.New(errorx.CodeInvalidParam, "不能添加自己为好友")
	}

	toUser, err := f.repos.User.FindByUuid(toId)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.New(errorx.CodeUserNotExist, "用户不存在")
		}
		zap.L().Error("查询用户失败", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	// 串行化同一无序对上的检查-插入序列
	f.locks.Lock(userId, toId)
	defer f.locks.Unlock(userId, toId)

	alreadyFriends, err := f.repos.Friendship.Exists(userId, toId)
	if err != nil {
		zap.L().Error("查询好友关系失败", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	if alreadyFriends {
		return nil, errorx.New(errorx.CodeConflict, "对方已是你的好友")
	}

	pairKey := pairlock.Key(userId, toId)
	if _, err := f.repos.FriendRequest.FindPendingByPair(pairKey); err == nil {
		// 任一方向已存在待处理申请
		return nil, errorx.New(errorx.CodeConflict, "已存在待处理的好友申请")
	} else if !errorx.IsNotFound(err) {
		zap.L().Error("查询待处理申请失败", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	friendRequest := &model.FriendRequest{
		Uuid:    fmt.Sprintf("F%s", random.GetNowAndLenRandomString(11)),
		FromId:  userId,
		ToId:    toId,
		PairKey: pairKey,
		Status:  friend_request_status_enum.PENDING,
	}
	if err := f.repos.FriendRequest.Create(friendRequest); err != nil {
		zap.L().Error("创建好友申请失败", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	fromUser, err := f.repos.User.FindByUuid(userId)
	if err != nil {
		zap.L().Error("查询申请人失败", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	// 持久化通知（friend_request），推送由通知引擎完成
	if f.notifier != nil {
		if _, err := f.notifier.Create(notification.CreateParams{
			RecipientId:    toId,
			SenderId:       userId,
			Type:           notification_type_enum.FriendRequest,
			Message:        fmt.Sprintf("%s 请求添加你为好友", fromUser.Nickname),
			RelatedRequest: friendRequest.Uuid,
		}); err != nil {
			zap.L().Warn("创建好友申请通知失败", zap.Error(err))
		}
	}

	// 实时推送申请记录（附申请人投影）给被申请人
	received := f.toRespond(friendRequest, fromUser)
	f.publish(push.EventFriendRequestReceived, toId, received)

	// 返回给申请人的记录里投影的是对端（被申请人）
	return f.toRespond(friendRequest, toUser), nil
}

// AcceptFriendRequest 接受好友申请
// 对称好友行、双方好友计数、申请状态在一个事务中原子完成
func (f *friendService) AcceptFriendRequest(userId, requestId string) error {
	friendRequest, err := f.findPendingForActor(userId, requestId)
	if err != nil {
		return err
	}

	f.locks.Lock(friendRequest.FromId, friendRequest.ToId)
	defer f.locks.Unlock(friendRequest.FromId, friendRequest.ToId)

	err = f.repos.Transaction(func(tx *repository.Repositories) error {
		// 条件状态转移放在最前，申请已被并发处理时后续写入都不发生
		if err := tx.FriendRequest.UpdateStatus(friendRequest.Uuid, friend_request_status_enum.ACCEPTED); err != nil {
			return err
		}
		if err := tx.Friendship.Create(&model.Friendship{UserId: friendRequest.FromId, FriendId: friendRequest.ToId}); err != nil {
			return err
		}
		if err := tx.Friendship.Create(&model.Friendship{UserId: friendRequest.ToId, FriendId: friendRequest.FromId}); err != nil {
			return err
		}
		if err := tx.User.IncrementFriendCount(friendRequest.FromId, 1); err != nil {
			return err
		}
		return tx.User.IncrementFriendCount(friendRequest.ToId, 1)
	})
	if err != nil {
		if errorx.GetCode(err) == errorx.CodeInvalidState {
			return errorx.New(errorx.CodeInvalidState, "申请已被处理")
		}
		zap.L().Error("接受好友申请事务失败", zap.Error(err))
		return errorx.ErrServerBusy
	}

	// 双方好友列表缓存失效
	f.invalidateFriendCache(friendRequest.FromId, friendRequest.ToId)

	accepter, err := f.repos.User.FindByUuid(userId)
	if err != nil {
		zap.L().Warn("查询接受人失败", zap.Error(err))
		return nil
	}

	// 向原申请人持久化 friend_accept 通知
	if f.notifier != nil {
		if _, err := f.notifier.Create(notification.CreateParams{
			RecipientId:    friendRequest.FromId,
			SenderId:       userId,
			Type:           notification_type_enum.FriendAccept,
			Message:        fmt.Sprintf("%s 接受了你的好友申请", accepter.Nickname),
			RelatedRequest: friendRequest.Uuid,
		}); err != nil {
			zap.L().Warn("创建接受通知失败", zap.Error(err))
		}
	}

	friendRequest.Status = friend_request_status_enum.ACCEPTED
	f.publish(push.EventFriendRequestAccepted, friendRequest.FromId, f.toRespond(friendRequest, accepter))
	return nil
}

// RejectFriendRequest 拒绝好友申请
// 与 accept 相同的前置校验；只推送实时事件，不持久化通知
func (f *friendService) RejectFriendRequest(userId, requestId string) error {
	friendRequest, err := f.findPendingForActor(userId, requestId)
	if err != nil {
		return err
	}

	if err := f.repos.FriendRequest.UpdateStatus(friendRequest.Uuid, friend_request_status_enum.REJECTED); err != nil {
		// 条件更新未命中说明申请刚被并发接受或拒绝，终态不可覆盖
		if errorx.GetCode(err) == errorx.CodeInvalidState {
			return errorx.New(errorx.CodeInvalidState, "申请已被处理")
		}
		zap.L().Error("更新申请状态失败", zap.Error(err))
		return errorx.ErrServerBusy
	}

	rejecter, err := f.repos.User.FindByUuid(userId)
	if err != nil {
		zap.L().Warn("查询拒绝人失败", zap.Error(err))
		return nil
	}
	friendRequest.Status = friend_request_status_enum.REJECTED
	f.publish(push.EventFriendRequestRejected, friendRequest.FromId, f.toRespond(friendRequest, rejecter))
	return nil
}

// CancelFriendRequest 撤回好友申请
// 只允许申请人撤回自己发出的 pending 申请，申请记录直接删除
func (f *friendService) CancelFriendRequest(userId, requestId string) error {
	friendRequest, err := f.repos.FriendRequest.FindByUuid(requestId)
	if err != nil {
		if errorx.IsNotFound(err) {
			return errorx.New(errorx.CodeNotFound, "好友申请不存在")
		}
		zap.L().Error("查询好友申请失败", zap.Error(err))
		return errorx.ErrServerBusy
	}
	if friendRequest.FromId != userId {
		return errorx.New(errorx.CodeForbidden, "只能撤回自己发出的申请")
	}
	if friendRequest.Status != friend_request_status_enum.PENDING {
		return errorx.New(errorx.CodeNotFound, "待处理的申请不存在")
	}

	if err := f.repos.FriendRequest.Delete(friendRequest.Uuid); err != nil {
		if errorx.GetCode(err) == errorx.CodeNotFound {
			return errorx.New(errorx.CodeNotFound, "待处理的申请不存在")
		}
		zap.L().Error("删除申请失败", zap.Error(err))
		return errorx.ErrServerBusy
	}
	return nil
}

// GetPendingRequests 获取发给我的待处理申请列表（附申请人投影）
func (f *friendService) GetPendingRequests(userId string) ([]respond.FriendRequestRespond, error) {
	requests, err := f.repos.FriendRequest.FindPendingByTo(userId)
	if err != nil {
		zap.L().Error("查询待处理申请失败", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	return f.attachCounterparts(requests, true)
}

// GetSentRequests 获取我发出的待处理申请列表（附被申请人投影）
func (f *friendService) GetSentRequests(userId string) ([]respond.FriendRequestRespond, error) {
	requests, err := f.repos.FriendRequest.FindPendingByFrom(userId)
	if err != nil {
		zap.L().Error("查询发出的申请失败", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	return f.attachCounterparts(requests, false)
}

// GetRelationshipStatus 查询与另一用户的关系状态
// friends: 已是好友; requested: 我方已发出待处理申请;
// accept: 对方发来待处理申请; follow: 无任何关系
func (f *friendService) GetRelationshipStatus(userId, otherId string) (*respond.RelationshipStatusRespond, error) {
	isFriend, err := f.repos.Friendship.Exists(userId, otherId)
	if err != nil {
		zap.L().Error("查询好友关系失败", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	if isFriend {
		return &respond.RelationshipStatusRespond{Status: respond.RelationshipFriends}, nil
	}

	pending, err := f.repos.FriendRequest.FindPendingByPair(pairlock.Key(userId, otherId))
	if err != nil {
		if errorx.IsNotFound(err) {
			return &respond.RelationshipStatusRespond{Status: respond.RelationshipFollow}, nil
		}
		zap.L().Error("查询待处理申请失败", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	if pending.FromId == userId {
		return &respond.RelationshipStatusRespond{Status: respond.RelationshipRequested}, nil
	}
	return &respond.RelationshipStatusRespond{Status: respond.RelationshipAccept}, nil
}

// GetMutualFriends 求两个用户好友集合的交集，返回轻量投影
func (f *friendService) GetMutualFriends(userId, otherId string) ([]respond.UserSummaryRespond, error) {
	mine, err := f.friendIds(userId)
	if err != nil {
		return nil, err
	}
	theirs, err := f.friendIds(otherId)
	if err != nil {
		return nil, err
	}

	mineSet := make(map[string]struct{}, len(mine))
	for _, id := range mine {
		mineSet[id] = struct{}{}
	}
	mutualIds := make([]string, 0)
	for _, id := range theirs {
		if _, ok := mineSet[id]; ok {
			mutualIds = append(mutualIds, id)
		}
	}

	return f.summaries(mutualIds)
}

// GetFriendList 获取好友列表
// 好友 ID 集合优先读 Redis Set，未命中回源数据库并回填
func (f *friendService) GetFriendList(userId string) ([]respond.UserSummaryRespond, error) {
	friendIds, err := f.friendIds(userId)
	if err != nil {
		return nil, err
	}
	return f.summaries(friendIds)
}

// GetUserProfile 获取用户资料投影，附在线状态
func (f *friendService) GetUserProfile(userId string) (*respond.GetUserInfoRespond, error) {
	user, err := f.repos.User.FindByUuid(userId)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.New(errorx.CodeUserNotExist, "用户不存在")
		}
		zap.L().Error("查询用户失败", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	online := false
	if f.registry != nil {
		online = f.registry.IsOnline(userId)
	}
	return &respond.GetUserInfoRespond{
		UserId:      user.Uuid,
		UserName:    user.Nickname,
		Email:       user.Email,
		Avatar:      user.Avatar,
		Signature:   user.Signature,
		FriendCount: user.FriendCount,
		Online:      online,
	}, nil
}

// findPendingForActor accept/reject 共用的前置校验
// NotFound: 申请不存在; Forbidden: 操作者不是被申请人; InvalidState: 非 pending 状态
func (f *friendService) findPendingForActor(userId, requestId string) (*model.FriendRequest, error) {
	friendRequest, err := f.repos.FriendRequest.FindByUuid(requestId)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.New(errorx.CodeNotFound, "好友申请不存在")
		}
		zap.L().Error("查询好友申请失败", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	if friendRequest.ToId != userId {
		return nil, errorx.New(errorx.CodeForbidden, "无权处理该申请")
	}
	if friendRequest.Status != friend_request_status_enum.PENDING {
		return nil, errorx.New(errorx.CodeInvalidState, "申请已被处理")
	}
	return friendRequest, nil
}

// friendIds 获取用户好友 ID 集合，Redis Set 缓存优先
func (f *friendService) friendIds(userId string) ([]string, error) {
	cacheKey := friendRelationCachePrefix + userId

	if f.cache != nil {
		if cached, err := f.cache.GetSetMembers(context.Background(), cacheKey); err == nil && len(cached) > 0 {
			return cached, nil
		}
	}

	friendIds, err := f.repos.Friendship.FindFriendIds(userId)
	if err != nil {
		zap.L().Error("查询好友列表失败", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	if f.cache != nil && len(friendIds) > 0 {
		members := make([]interface{}, len(friendIds))
		for i, id := range friendIds {
			members[i] = id
		}
		f.cache.SubmitTask(func() {
			if err := f.cache.AddToSet(context.Background(), cacheKey, members...); err != nil {
				zap.L().Warn("回填好友缓存失败", zap.Error(err))
			}
		})
	}
	return friendIds, nil
}

// invalidateFriendCache 异步删除双方的好友集合缓存
func (f *friendService) invalidateFriendCache(userIds ...string) {
	if f.cache == nil {
		return
	}
	keys := make([]string, 0, len(userIds))
	for _, id := range userIds {
		keys = append(keys, friendRelationCachePrefix+id)
	}
	f.cache.SubmitTask(func() {
		for _, key := range keys {
			if err := f.cache.Delete(context.Background(), key); err != nil {
				zap.L().Warn("删除好友缓存失败", zap.String("key", key), zap.Error(err))
			}
		}
	})
}

// summaries 批量组装用户轻量投影
func (f *friendService) summaries(userIds []string) ([]respond.UserSummaryRespond, error) {
	users, err := f.repos.User.FindByUuids(userIds)
	if err != nil {
		zap.L().Error("批量查询用户失败", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	list := make([]respond.UserSummaryRespond, 0, len(users))
	for _, user := range users {
		list = append(list, respond.UserSummaryRespond{
			UserId:   user.Uuid,
			UserName: user.Nickname,
			Avatar:   user.Avatar,
		})
	}
	return list, nil
}

// attachCounterparts 为申请列表批量附带对端用户投影
// counterpartIsFrom 为 true 时对端是申请人，否则是被申请人
func (f *friendService) attachCounterparts(requests []model.FriendRequest, counterpartIsFrom bool) ([]respond.FriendRequestRespond, error) {
	ids := make([]string, 0, len(requests))
	for _, r := range requests {
		if counterpartIsFrom {
			ids = append(ids, r.FromId)
		} else {
			ids = append(ids, r.ToId)
		}
	}
	users, err := f.repos.User.FindByUuids(ids)
	if err != nil {
		zap.L().Error("批量查询用户失败", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	userMap := make(map[string]*model.UserInfo, len(users))
	for i := range users {
		userMap[users[i].Uuid] = &users[i]
	}

	list := make([]respond.FriendRequestRespond, 0, len(requests))
	for i := range requests {
		counterpartId := requests[i].ToId
		if counterpartIsFrom {
			counterpartId = requests[i].FromId
		}
		list = append(list, *f.toRespond(&requests[i], userMap[counterpartId]))
	}
	return list, nil
}

// toRespond 组装申请响应，user 为附带的对端投影
func (f *friendService) toRespond(friendRequest *model.FriendRequest, user *model.UserInfo) *respond.FriendRequestRespond {
	rsp := &respond.FriendRequestRespond{
		RequestId: friendRequest.Uuid,
		FromId:    friendRequest.FromId,
		ToId:      friendRequest.ToId,
		CreatedAt: friendRequest.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if user != nil {
		rsp.UserId = user.Uuid
		rsp.UserName = user.Nickname
		rsp.Avatar = user.Avatar
	}
	return rsp
}

// publish 发布推送事件，失败只记日志
func (f *friendService) publish(name, to string, payload interface{}) {
	if f.bus == nil {
		return
	}
	event := &push.Event{Name: name, To: to, Payload: payload}
	if err := f.bus.Publish(context.Background(), event); err != nil {
		zap.L().Warn("发布推送事件失败", zap.String("event", name), zap.String("to", to), zap.Error(err))
	}
}
