// Package conversation 实现会话存储服务
// 一对用户最多一个会话（pair_key 唯一索引 + pairlock 双重保障）；
// 每个参与者一条可见性记录 {hidden, visible_since, unread_count}，
// "发消息解除隐藏""清空聊天"都是对该记录的单条原子更新
package conversation

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"huddle_social_server/internal/dao/mysql/repository"
	myredis "huddle_social_server/internal/dao/redis"
	"huddle_social_server/internal/dto/request"
	"huddle_social_server/internal/dto/respond"
	"huddle_social_server/internal/model"
	"huddle_social_server/internal/service/presence"
	"huddle_social_server/internal/service/push"
	"huddle_social_server/pkg/constants"
	"huddle_social_server/pkg/errorx"
	"huddle_social_server/pkg/pairlock"
	"huddle_social_server/pkg/util/random"
	"huddle_social_server/pkg/util/snowflake"
)

// 缓存键前缀
// 会话列表按用户缓存，消息页按 (会话, 用户, 页码) 缓存
const (
	conversationListCachePrefix = "conversation_list_"
	messageListCachePrefix      = "message_list_"
)

// conversationService 会话业务逻辑实现
type conversationService struct {
	repos    *repository.Repositories
	cache    myredis.AsyncCacheService
	bus      push.EventBus
	registry *presence.Registry
	locks    *pairlock.PairLock
}

// NewConversationService 构造函数
// cache/bus/registry 允许为 nil（测试场景），相关旁路会被跳过
func NewConversationService(
	repos *repository.Repositories,
	cache myredis.AsyncCacheService,
	bus push.EventBus,
	registry *presence.Registry,
) *conversationService {
	return &conversationService{
		repos:    repos,
		cache:    cache,
		bus:      bus,
		registry: registry,
		locks:    pairlock.New(),
	}
}

// OpenConversation 打开（获取或创建）与另一用户的会话
func (s *conversationService) OpenConversation(userId, otherId string) (*respond.OpenConversationRespond, error) {
	if userId == otherId {
		return nil, errorx.New(errorx.CodeInvalidParam, "不能与自己建立会话")
	}
	if _, err := s.repos.User.FindByUuid(otherId); err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.New(errorx.CodeUserNotExist, "用户不存在")
		}
		zap.L().Error("查询用户失败", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	conversation, created, err := s.getOrCreate(userId, otherId)
	if err != nil {
		return nil, err
	}

	// 打开会话即解除自己一侧的隐藏
	if err := s.repos.Conversation.UnhideMember(conversation.Uuid, userId); err != nil {
		zap.L().Warn("解除会话隐藏失败", zap.Error(err))
	}
	s.invalidateConversationListCache(userId, otherId)

	return &respond.OpenConversationRespond{ConversationId: conversation.Uuid, Created: created}, nil
}

// getOrCreate 按无序对查找会话，不存在则创建
// pairlock 串行化检查-创建；pair_key 唯一索引兜底并发穿透：
// 插入冲突时重查并复用已有会话
func (s *conversationService) getOrCreate(userA, userB string) (*model.Conversation, bool, error) {
	pairKey := pairlock.Key(userA, userB)

	conversation, err := s.repos.Conversation.FindByPairKey(pairKey)
	if err == nil {
		return conversation, false, nil
	}
	if !errorx.IsNotFound(err) {
		zap.L().Error("查询会话失败", zap.Error(err))
		return nil, false, errorx.ErrServerBusy
	}

	s.locks.Lock(userA, userB)
	defer s.locks.Unlock(userA, userB)

	// 持锁后二次检查
	conversation, err = s.repos.Conversation.FindByPairKey(pairKey)
	if err == nil {
		return conversation, false, nil
	}
	if !errorx.IsNotFound(err) {
		zap.L().Error("查询会话失败", zap.Error(err))
		return nil, false, errorx.ErrServerBusy
	}

	smaller, larger := userA, userB
	if smaller > larger {
		smaller, larger = larger, smaller
	}
	conversation = &model.Conversation{
		Uuid:    fmt.Sprintf("C%s", random.GetNowAndLenRandomString(11)),
		PairKey: pairKey,
		UserAId: smaller,
		UserBId: larger,
	}

	err = s.repos.Transaction(func(tx *repository.Repositories) error {
		if err := tx.Conversation.Create(conversation); err != nil {
			return err
		}
		if err := tx.Conversation.CreateMember(&model.ConversationMember{ConversationUuid: conversation.Uuid, UserId: smaller}); err != nil {
			return err
		}
		return tx.Conversation.CreateMember(&model.ConversationMember{ConversationUuid: conversation.Uuid, UserId: larger})
	})
	if err != nil {
		// 唯一索引冲突说明另一实例刚创建了同一对的会话，重查复用
		if existing, findErr := s.repos.Conversation.FindByPairKey(pairKey); findErr == nil {
			return existing, false, nil
		}
		zap.L().Error("创建会话失败", zap.Error(err))
		return nil, false, errorx.ErrServerBusy
	}
	return conversation, true, nil
}

// SendMessage 发送消息
// 1. 去除首尾空白后非空校验
// 2. 获取/创建会话；双方的隐藏标记都解除（会话在双方列表中重新浮现）
// 3. 插入消息，接收者未读 +1，更新会话最新消息摘要
// 4. 落库成功后向双方推送 newMessage（发送者也推，保证多标签页一致）
func (s *conversationService) SendMessage(userId string, req request.SendMessageRequest) (*respond.GetMessageListRespond, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, errorx.New(errorx.CodeInvalidParam, "消息内容不能为空")
	}
	receiverId := req.ReceiverId
	if userId == receiverId {
		return nil, errorx.New(errorx.CodeInvalidParam, "不能给自己发消息")
	}
	if _, err := s.repos.User.FindByUuid(receiverId); err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.New(errorx.CodeUserNotExist, "接收者不存在")
		}
		zap.L().Error("查询接收者失败", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	conversation, _, err := s.getOrCreate(userId, receiverId)
	if err != nil {
		return nil, err
	}

	message := &model.Message{
		Uuid:             snowflake.GenerateID(),
		ConversationUuid: conversation.Uuid,
		SendId:           userId,
		ReceiveId:        receiverId,
		Content:          content,
		Seen:             false,
	}

	now := time.Now()
	err = s.repos.Transaction(func(tx *repository.Repositories) error {
		// 双方隐藏都解除，visible_since 不动（清空历史不因新消息恢复）
		if err := tx.Conversation.UnhideMember(conversation.Uuid, userId); err != nil {
			return err
		}
		if err := tx.Conversation.UnhideMember(conversation.Uuid, receiverId); err != nil {
			return err
		}
		if err := tx.Message.Create(message); err != nil {
			return err
		}
		if err := tx.Conversation.IncrementUnread(conversation.Uuid, receiverId); err != nil {
			return err
		}
		return tx.Conversation.UpdateLastMessage(conversation.Uuid, content, now)
	})
	if err != nil {
		zap.L().Error("发送消息事务失败", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	s.invalidateMessageCache(conversation.Uuid)
	s.invalidateConversationListCache(userId, receiverId)

	rsp := s.toMessageRespond(message)
	payload := map[string]interface{}{
		"conversationId": conversation.Uuid,
		"message":        rsp,
	}
	s.publish(push.EventNewMessage, receiverId, payload)
	s.publish(push.EventNewMessage, userId, payload)

	return rsp, nil
}

// GetMessageList 获取与某用户会话的消息列表
// 访问会话隐式解除请求者的隐藏；未读只在显式 markAsRead 时归零，拉取不动它。
// 只返回 visible_since 之后的消息（清空过历史的一方看不到清空前的内容），
// 按 (created_at, id) 升序、每页固定 50 条
func (s *conversationService) GetMessageList(userId string, req request.GetMessageListRequest) ([]respond.GetMessageListRespond, error) {
	conversation, err := s.repos.Conversation.FindByPairKey(pairlock.Key(userId, req.OtherId))
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.New(errorx.CodeNotFound, "会话不存在")
		}
		zap.L().Error("查询会话失败", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	if !conversation.HasParticipant(userId) {
		return nil, errorx.New(errorx.CodeForbidden, "无权访问该会话")
	}

	member, err := s.repos.Conversation.FindMember(conversation.Uuid, userId)
	if err != nil {
		zap.L().Error("查询会话成员失败", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	if member.Hidden {
		// 访问即恢复
		if err := s.repos.Conversation.UnhideMember(conversation.Uuid, userId); err != nil {
			zap.L().Warn("解除会话隐藏失败", zap.Error(err))
		}
		s.invalidateConversationListCache(userId)
	}

	page := req.Page
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * constants.MESSAGE_PAGE_SIZE

	// 消息页缓存按 (会话, 用户, 页码) 区分，历史可见起点因人而异
	cacheKey := fmt.Sprintf("%s%s_%s_%d", messageListCachePrefix, conversation.Uuid, userId, page)
	if s.cache != nil {
		if cached, err := s.cache.Get(context.Background(), cacheKey); err == nil && cached != "" {
			var list []respond.GetMessageListRespond
			if err := json.Unmarshal([]byte(cached), &list); err == nil {
				return list, nil
			}
			zap.L().Error("消息页缓存解析失败", zap.Error(err))
		}
	}

	var visibleSince *time.Time
	if member.VisibleSince.Valid {
		visibleSince = &member.VisibleSince.Time
	}

	messages, err := s.repos.Message.FindPageByConversation(conversation.Uuid, visibleSince, offset, constants.MESSAGE_PAGE_SIZE)
	if err != nil {
		zap.L().Error("查询消息失败", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	list := make([]respond.GetMessageListRespond, 0, len(messages))
	for i := range messages {
		list = append(list, *s.toMessageRespond(&messages[i]))
	}

	if s.cache != nil {
		if data, err := json.Marshal(list); err == nil {
			s.cache.SubmitTask(func() {
				_ = s.cache.Set(context.Background(), cacheKey, string(data), time.Minute*constants.REDIS_TIMEOUT)
			})
		}
	}
	return list, nil
}

// MarkAsRead 将会话内发给自己的消息全部置为已读并清零未读计数
// 幂等：重复调用不报错也不产生额外变更
func (s *conversationService) MarkAsRead(userId, conversationId string) error {
	conversation, err := s.findForParticipant(userId, conversationId)
	if err != nil {
		return err
	}

	err = s.repos.Transaction(func(tx *repository.Repositories) error {
		if err := tx.Message.MarkSeenByReceiver(conversation.Uuid, userId); err != nil {
			return err
		}
		return tx.Conversation.ResetUnread(conversation.Uuid, userId)
	})
	if err != nil {
		zap.L().Error("消息置已读事务失败", zap.Error(err))
		return errorx.ErrServerBusy
	}

	// seen 标记与未读数都变了
	s.invalidateMessageCache(conversation.Uuid)
	s.invalidateConversationListCache(userId)
	return nil
}

// DeleteConversation 删除（隐藏并清空）与某用户的会话
// 只影响请求者一侧：隐藏 + 历史可见起点推进到现在 + 未读归零，单条 UPDATE 原子完成
// 对端的记录与消息不受影响
func (s *conversationService) DeleteConversation(userId, otherId string) error {
	conversation, err := s.repos.Conversation.FindByPairKey(pairlock.Key(userId, otherId))
	if err != nil {
		if errorx.IsNotFound(err) {
			return errorx.New(errorx.CodeNotFound, "会话不存在")
		}
		zap.L().Error("查询会话失败", zap.Error(err))
		return errorx.ErrServerBusy
	}

	if err := s.repos.Conversation.HideAndClearMember(conversation.Uuid, userId, time.Now()); err != nil {
		zap.L().Error("隐藏会话失败", zap.Error(err))
		return errorx.ErrServerBusy
	}

	s.invalidateMessageCache(conversation.Uuid)
	s.invalidateConversationListCache(userId)
	return nil
}

// GetConversationList 获取会话列表
// 只包含未隐藏的会话，按最近活跃倒序，附对端投影、最新消息摘要、未读数、在线状态
// 列表走缓存读穿透，在线状态不缓存、每次从注册表现算
func (s *conversationService) GetConversationList(userId string) ([]respond.ConversationListRespond, error) {
	cacheKey := conversationListCachePrefix + userId
	if s.cache != nil {
		if cached, err := s.cache.Get(context.Background(), cacheKey); err == nil && cached != "" {
			var list []respond.ConversationListRespond
			if err := json.Unmarshal([]byte(cached), &list); err == nil {
				s.applyOnlineStatus(list)
				return list, nil
			}
			zap.L().Error("会话列表缓存解析失败", zap.Error(err))
		}
	}

	members, err := s.repos.Conversation.FindVisibleMembersByUser(userId)
	if err != nil {
		zap.L().Error("查询会话成员失败", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	if len(members) == 0 {
		return []respond.ConversationListRespond{}, nil
	}

	convUuids := make([]string, 0, len(members))
	memberMap := make(map[string]*model.ConversationMember, len(members))
	for i := range members {
		convUuids = append(convUuids, members[i].ConversationUuid)
		memberMap[members[i].ConversationUuid] = &members[i]
	}

	conversations, err := s.repos.Conversation.FindByUuids(convUuids)
	if err != nil {
		zap.L().Error("批量查询会话失败", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	otherIds := make([]string, 0, len(conversations))
	for i := range conversations {
		otherIds = append(otherIds, conversations[i].OtherParticipant(userId))
	}
	users, err := s.repos.User.FindByUuids(otherIds)
	if err != nil {
		zap.L().Error("批量查询用户失败", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	userMap := make(map[string]*model.UserInfo, len(users))
	for i := range users {
		userMap[users[i].Uuid] = &users[i]
	}

	list := make([]respond.ConversationListRespond, 0, len(conversations))
	for i := range conversations {
		conversation := &conversations[i]
		otherId := conversation.OtherParticipant(userId)
		item := respond.ConversationListRespond{
			ConversationId: conversation.Uuid,
			UserId:         otherId,
			LastMessage:    conversation.LastMessage,
		}
		if conversation.LastMessageAt.Valid {
			item.LastMessageAt = conversation.LastMessageAt.Time.Format("2006-01-02 15:04:05")
		}
		if user := userMap[otherId]; user != nil {
			item.UserName = user.Nickname
			item.Avatar = user.Avatar
		}
		if member := memberMap[conversation.Uuid]; member != nil {
			item.UnreadCount = member.UnreadCount
		}
		list = append(list, item)
	}

	// 按最近活跃倒序；无消息的新会话排在最后
	sortConversationList(list)

	// 在线状态不进缓存
	if s.cache != nil {
		if data, err := json.Marshal(list); err == nil {
			s.cache.SubmitTask(func() {
				_ = s.cache.Set(context.Background(), cacheKey, string(data), time.Minute*constants.REDIS_TIMEOUT)
			})
		}
	}
	s.applyOnlineStatus(list)
	return list, nil
}

// applyOnlineStatus 为列表项补充对端在线状态
func (s *conversationService) applyOnlineStatus(list []respond.ConversationListRespond) {
	if s.registry == nil {
		return
	}
	for i := range list {
		list[i].Online = s.registry.IsOnline(list[i].UserId)
	}
}

// findForParticipant 查找会话并校验请求者是参与者
func (s *conversationService) findForParticipant(userId, conversationId string) (*model.Conversation, error) {
	conversation, err := s.repos.Conversation.FindByUuid(conversationId)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.New(errorx.CodeNotFound, "会话不存在")
		}
		zap.L().Error("查询会话失败", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	if !conversation.HasParticipant(userId) {
		return nil, errorx.New(errorx.CodeForbidden, "无权访问该会话")
	}
	return conversation, nil
}

// sortConversationList 按 last_message_at 字符串倒序（格式固定，字典序即时间序）
func sortConversationList(list []respond.ConversationListRespond) {
	sort.Slice(list, func(i, j int) bool {
		return list[i].LastMessageAt > list[j].LastMessageAt
	})
}

// toMessageRespond 组装消息响应
func (s *conversationService) toMessageRespond(message *model.Message) *respond.GetMessageListRespond {
	return &respond.GetMessageListRespond{
		MessageId:      strconv.FormatInt(message.Uuid, 10),
		ConversationId: message.ConversationUuid,
		SendId:         message.SendId,
		ReceiveId:      message.ReceiveId,
		Content:        message.Content,
		Seen:           message.Seen,
		CreatedAt:      message.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// invalidateMessageCache 异步失效会话下所有用户、所有页的消息页缓存
func (s *conversationService) invalidateMessageCache(conversationUuid string) {
	if s.cache == nil {
		return
	}
	s.cache.SubmitTask(func() {
		if err := s.cache.DeleteByPattern(context.Background(), messageListCachePrefix+conversationUuid+"*"); err != nil {
			zap.L().Warn("删除消息页缓存失败", zap.Error(err))
		}
	})
}

// invalidateConversationListCache 异步失效指定用户的会话列表缓存
func (s *conversationService) invalidateConversationListCache(userIds ...string) {
	if s.cache == nil {
		return
	}
	keys := make([]string, 0, len(userIds))
	for _, id := range userIds {
		keys = append(keys, conversationListCachePrefix+id)
	}
	s.cache.SubmitTask(func() {
		for _, key := range keys {
			if err := s.cache.Delete(context.Background(), key); err != nil {
				zap.L().Warn("删除会话列表缓存失败", zap.String("key", key), zap.Error(err))
			}
		}
	})
}

// publish 发布推送事件，失败只记日志
func (s *conversationService) publish(name, to string, payload interface{}) {
	if s.bus == nil {
		return
	}
	event := &push.Event{Name: name, To: to, Payload: payload}
	if err := s.bus.Publish(context.Background(), event); err != nil {
		zap.L().Warn("发布推送事件失败", zap.String("event", name), zap.String("to", to), zap.Error(err))
	}
}
