package types

import "time"

// NotificationKind 通知类型(封闭枚举)
type NotificationKind string

const (
	NotificationNewPost      NotificationKind = "new_post"
	NotificationNewReply     NotificationKind = "new_reply"
	NotificationThreadPinned NotificationKind = "thread_pinned"
	NotificationThreadLocked NotificationKind = "thread_locked"
	NotificationMention      NotificationKind = "mention"
	NotificationVoteReceived NotificationKind = "vote_received"
	NotificationSystem       NotificationKind = "system"
)

func (k NotificationKind) Valid() bool {
	switch k {
	case NotificationNewPost, NotificationNewReply, NotificationThreadPinned,
		NotificationThreadLocked, NotificationMention, NotificationVoteReceived,
		NotificationSystem:
		return true
	}
	return false
}

// 关联实体类型
const (
	RelatedKindThread = "thread"
	RelatedKindPost   = "post"
)

// websocket 推送事件名
const (
	EventNotification = "notification"
	EventUnreadCount  = "unread_count"
	EventPing         = "ping"
	EventPong         = "pong"
)

// 通知推送/列表载荷
type NotificationResponse struct {
	ID          int64     `json:"id,string"`
	Kind        string    `json:"kind"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	RelatedID   int64     `json:"related_id,string,omitempty"`
	RelatedKind string    `json:"related_kind,omitempty"`
	IsRead      bool      `json:"is_read"`
	CreatedAt   time.Time `json:"created_at"`
}

type NotificationListResponse struct {
	Notifications []*NotificationResponse `json:"notifications"`
	Total         int64                   `json:"total"`
}

// 未读数推送载荷
type UnreadCountResponse struct {
	Count int64 `json:"count"`
}

// 查询通知列表请求
type ListNotificationsRequest struct {
	Page   int   `form:"page"`
	Limit  int   `form:"limit"`
	IsRead *bool `form:"is_read"`
}
