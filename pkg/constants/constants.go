package constants

import "time"

const (
	CHANNEL_SIZE           = 100             // 事件通道缓冲大小
	MESSAGE_PAGE_SIZE      = 50              // 聊天记录每页条数
	NOTIFICATION_PAGE_SIZE     = 50          // 通知列表每页默认条数
	NOTIFICATION_MAX_PAGE_SIZE = 100         // 通知列表每页条数上限
	DEDUP_WINDOW           = 5 * time.Minute // 通知去重时间窗口
	REDIS_TIMEOUT          = 1               // redis timeout (分钟)
)
