// Package notification 实现通知扇出引擎
// 先落库（事实来源），再经事件总线尽力推送；推送失败只记日志
package notification

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"huddle_social_server/internal/dao/mysql/repository"
	"huddle_social_server/internal/dto/respond"
	"huddle_social_server/internal/model"
	"huddle_social_server/internal/service/push"
	"huddle_social_server/pkg/constants"
	"huddle_social_server/pkg/errorx"
	"huddle_social_server/pkg/util/random"
)

// CreateParams 创建通知的参数
// 好友引擎与帖子/评论协作方都经由这一个入口
type CreateParams struct {
	RecipientId    string // 接收者
	SenderId       string // 触发者
	Type           string // 通知类型
	Message        string // 通知文案
	RelatedPost    string // 关联帖子（参与去重键，可空）
	RelatedComment string // 关联评论（可空）
	RelatedRequest string // 关联好友申请（可空）
}

// notificationService 通知业务逻辑实现
type notificationService struct {
	repos *repository.Repositories
	bus   push.EventBus
}

// NewNotificationService 构造函数
func NewNotificationService(repos *repository.Repositories, bus push.EventBus) *notificationService {
	return &notificationService{repos: repos, bus: bus}
}

// Create 创建通知
// 1. recipient == sender 时静默跳过（自己触发的事件不通知自己），返回 (nil, nil)
// 2. 5 分钟窗口内已有相同 (recipient, sender, type, related_post) 的记录时，
//    返回已有记录，不插入也不推送
// 3. 否则落库，附带触发者投影，经总线推送 notification 事件
func (n *notificationService) Create(p CreateParams) (*respond.NotificationRespond, error) {
	if p.RecipientId == p.SenderId {
		return nil, nil
	}

	// 接收者必须存在
	if _, err := n.repos.User.FindByUuid(p.RecipientId); err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.New(errorx.CodeUserNotExist, "接收者不存在")
		}
		zap.L().Error("查询通知接收者失败", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	sender, err := n.repos.User.FindByUuid(p.SenderId)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.New(errorx.CodeUserNotExist, "触发者不存在")
		}
		zap.L().Error("查询通知触发者失败", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	// 去重窗口内的重复创建返回已有记录
	since := time.Now().Add(-constants.DEDUP_WINDOW)
	existing, err := n.repos.Notification.FindRecentDuplicate(p.RecipientId, p.SenderId, p.Type, p.RelatedPost, since)
	if err != nil {
		zap.L().Error("查询重复通知失败", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	if existing != nil {
		return n.toRespond(existing, sender), nil
	}

	notification := &model.Notification{
		Uuid:           fmt.Sprintf("N%s", random.GetNowAndLenRandomString(11)),
		RecipientId:    p.RecipientId,
		SenderId:       p.SenderId,
		Type:           p.Type,
		Message:        p.Message,
		RelatedPost:    p.RelatedPost,
		RelatedComment: p.RelatedComment,
		RelatedRequest: p.RelatedRequest,
		IsRead:         false,
	}
	if err := n.repos.Notification.Create(notification); err != nil {
		zap.L().Error("创建通知失败", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	rsp := n.toRespond(notification, sender)

	// 落库成功后尽力推送，失败不影响返回
	n.publish(push.EventNotification, p.RecipientId, rsp)

	return rsp, nil
}

// GetNotificationList 分页获取通知列表，最新的在前
// limit 缺省（<=0）取默认页大小，超过上限时截断
func (n *notificationService) GetNotificationList(userId string, page, limit int) (*respond.NotificationListRespond, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = constants.NOTIFICATION_PAGE_SIZE
	}
	if limit > constants.NOTIFICATION_MAX_PAGE_SIZE {
		limit = constants.NOTIFICATION_MAX_PAGE_SIZE
	}
	offset := (page - 1) * limit

	notifications, total, err := n.repos.Notification.FindPageByRecipient(userId, offset, limit)
	if err != nil {
		zap.L().Error("查询通知列表失败", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	// 批量拉取触发者投影
	senderIds := make([]string, 0, len(notifications))
	for _, item := range notifications {
		senderIds = append(senderIds, item.SenderId)
	}
	senders, err := n.repos.User.FindByUuids(senderIds)
	if err != nil {
		zap.L().Error("批量查询通知触发者失败", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	senderMap := make(map[string]*model.UserInfo, len(senders))
	for i := range senders {
		senderMap[senders[i].Uuid] = &senders[i]
	}

	list := make([]respond.NotificationRespond, 0, len(notifications))
	for i := range notifications {
		list = append(list, *n.toRespond(&notifications[i], senderMap[notifications[i].SenderId]))
	}

	return &respond.NotificationListRespond{Total: total, Notifications: list}, nil
}

// MarkRead 单条通知置为已读，只能操作属于自己的通知
func (n *notificationService) MarkRead(userId, notificationId string) error {
	notification, err := n.findOwned(userId, notificationId)
	if err != nil {
		return err
	}
	if err := n.repos.Notification.MarkRead(notification.Uuid); err != nil {
		zap.L().Error("通知置已读失败", zap.Error(err))
		return errorx.ErrServerBusy
	}
	return nil
}

// MarkAllRead 将自己的全部通知置为已读
func (n *notificationService) MarkAllRead(userId string) error {
	if err := n.repos.Notification.MarkAllRead(userId); err != nil {
		zap.L().Error("通知全部置已读失败", zap.Error(err))
		return errorx.ErrServerBusy
	}
	return nil
}

// Delete 删除单条通知，只能操作属于自己的通知
func (n *notificationService) Delete(userId, notificationId string) error {
	notification, err := n.findOwned(userId, notificationId)
	if err != nil {
		return err
	}
	if err := n.repos.Notification.Delete(notification.Uuid); err != nil {
		zap.L().Error("删除通知失败", zap.Error(err))
		return errorx.ErrServerBusy
	}
	return nil
}

// ClearAll 清空自己的全部通知
func (n *notificationService) ClearAll(userId string) error {
	if err := n.repos.Notification.DeleteAllByRecipient(userId); err != nil {
		zap.L().Error("清空通知失败", zap.Error(err))
		return errorx.ErrServerBusy
	}
	return nil
}

// findOwned 查找通知并校验归属
func (n *notificationService) findOwned(userId, notificationId string) (*model.Notification, error) {
	notification, err := n.repos.Notification.FindByUuid(notificationId)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.New(errorx.CodeNotFound, "通知不存在")
		}
		zap.L().Error("查询通知失败", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	if notification.RecipientId != userId {
		return nil, errorx.New(errorx.CodeForbidden, "无权操作该通知")
	}
	return notification, nil
}

// toRespond 组装通知响应，附带触发者投影
func (n *notificationService) toRespond(notification *model.Notification, sender *model.UserInfo) *respond.NotificationRespond {
	rsp := &respond.NotificationRespond{
		NotificationId: notification.Uuid,
		Type:           notification.Type,
		Message:        notification.Message,
		SenderId:       notification.SenderId,
		RelatedPost:    notification.RelatedPost,
		RelatedComment: notification.RelatedComment,
		RelatedRequest: notification.RelatedRequest,
		IsRead:         notification.IsRead,
		CreatedAt:      notification.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if sender != nil {
		rsp.SenderName = sender.Nickname
		rsp.SenderAvatar = sender.Avatar
	}
	return rsp
}

// publish 发布推送事件，失败只记日志
func (n *notificationService) publish(name, to string, payload interface{}) {
	if n.bus == nil {
		return
	}
	event := &push.Event{Name: name, To: to, Payload: payload}
	if err := n.bus.Publish(context.Background(), event); err != nil {
		zap.L().Warn("发布推送事件失败", zap.String("event", name), zap.String("to", to), zap.Error(err))
	}
}
