package service

import (
	"Voz/models"
	"Voz/pkg/log"
	"Voz/pkg/snowflake"
	"Voz/types"
	"context"
	"fmt"

	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

// 单次派发的推送并发上限
const dispatchMaxFanout = 32

var _ INotificationService = (*NotificationService)(nil)

type INotificationService interface {
	NotifyNewPost(ctx context.Context, actorID, threadID int64, threadTitle string)
	NotifyNewReply(ctx context.Context, actorID, postID int64)
	NotifyVoteReceived(ctx context.Context, actorID, recipientID, targetID int64, kind types.VoteKind, value int8)
	NotifyMention(ctx context.Context, actorID, recipientID, postID int64)
	NotifyThreadPinned(ctx context.Context, actorID, threadID int64)
	NotifyThreadLocked(ctx context.Context, actorID, threadID int64)
	NotifySystem(ctx context.Context, userID int64, title, content string)
	List(ctx context.Context, userID int64, req *types.ListNotificationsRequest) (*types.NotificationListResponse, error)
	UnreadCount(ctx context.Context, userID int64) (int64, error)
	MarkRead(ctx context.Context, userID, id int64) error
	MarkAllRead(ctx context.Context, userID int64) error
	Delete(ctx context.Context, userID, id int64) error
}

// INotificationStore 通知表访问能力(dao.NotificationDAO 实现)
type INotificationStore interface {
	Create(ctx context.Context, item *models.Notification) error
	FindById(ctx context.Context, id int64) (*models.Notification, error)
	ListByUser(ctx context.Context, userID int64, page, limit int, isRead *bool) ([]*models.Notification, int64, error)
	CountUnread(ctx context.Context, userID int64) (int64, error)
	MarkRead(ctx context.Context, id int64) error
	MarkAllRead(ctx context.Context, userID int64) (int64, error)
	DeleteByID(ctx context.Context, id int64) error
}

// IAudienceStore 受众解析所需的只读访问(ForumStore 实现)
type IAudienceStore interface {
	ThreadAuthors(ctx context.Context, threadID, exclude int64) ([]int64, error)
	PostByID(ctx context.Context, id int64) (*models.Post, error)
	ThreadByID(ctx context.Context, id int64) (*models.Thread, error)
	Username(ctx context.Context, id int64) (string, error)
}

// IUnreadCache 未读数缓存(cache.UnreadStorage 实现)
type IUnreadCache interface {
	Get(ctx context.Context, uid int64) (int64, bool)
	Set(ctx context.Context, uid int64, count int64)
	Del(ctx context.Context, uid int64)
}

// IPusher 在线连接推送能力(socket.Registry 实现)
// 返回实际送达的连接数,0 表示该用户当前无在线连接
type IPusher interface {
	Push(userID int64, event string, payload any) int
}

type NotificationService struct {
	NotificationDAO INotificationStore
	Audience        IAudienceStore
	Unread          IUnreadCache
	Pusher          IPusher
}

// NotifyNewPost 主题有新帖:通知该主题下发过帖的所有用户(排除发帖人)
func (s *NotificationService) NotifyNewPost(ctx context.Context, actorID, threadID int64, threadTitle string) {
	recipients, err := s.Audience.ThreadAuthors(ctx, threadID, actorID)
	if err != nil {
		log.L.Error("resolve new post audience error",
			zap.Int64("thread_id", threadID), zap.Error(err))
		return
	}

	s.dispatch(recipients, func(uid int64) *models.Notification {
		return newNotification(uid, types.NotificationNewPost,
			"有新的回帖",
			fmt.Sprintf("主题《%s》有新的回帖", threadTitle),
			threadID, types.RelatedKindThread)
	})
}

// NotifyNewReply 回帖被回复:只通知原帖作者,自己回自己不通知
func (s *NotificationService) NotifyNewReply(ctx context.Context, actorID, postID int64) {
	post, err := s.Audience.PostByID(ctx, postID)
	if err != nil {
		log.L.Error("resolve replied post error", zap.Int64("post_id", postID), zap.Error(err))
		return
	}
	if post == nil || post.AuthorID == actorID {
		return
	}

	title := "收到新的回复"
	content := "有人回复了你的帖子"
	if username, err := s.Audience.Username(ctx, actorID); err == nil && username != "" {
		if thread, err := s.Audience.ThreadByID(ctx, post.ThreadID); err == nil && thread != nil {
			content = fmt.Sprintf("%s 在《%s》回复了你", username, thread.Title)
		} else {
			content = fmt.Sprintf("%s 回复了你的帖子", username)
		}
	}

	s.dispatch([]int64{post.AuthorID}, func(uid int64) *models.Notification {
		return newNotification(uid, types.NotificationNewReply, title, content,
			postID, types.RelatedKindPost)
	})
}

// NotifyVoteReceived 被投票:通知目标作者,自己投自己不通知
func (s *NotificationService) NotifyVoteReceived(ctx context.Context, actorID, recipientID, targetID int64, kind types.VoteKind, value int8) {
	if recipientID == 0 || recipientID == actorID {
		return
	}

	noun := "帖子"
	relatedKind := types.RelatedKindPost
	if kind == types.VoteKindThread {
		noun = "主题"
		relatedKind = types.RelatedKindThread
	}
	verb := "顶"
	if value < 0 {
		verb = "踩"
	}

	s.dispatch([]int64{recipientID}, func(uid int64) *models.Notification {
		return newNotification(uid, types.NotificationVoteReceived,
			"收到新的投票",
			fmt.Sprintf("你的%s收到一个%s", noun, verb),
			targetID, relatedKind)
	})
}

// NotifyMention 被@:通知被提及的用户,自己@自己不通知
func (s *NotificationService) NotifyMention(ctx context.Context, actorID, recipientID, postID int64) {
	if recipientID == 0 || recipientID == actorID {
		return
	}

	content := "有人在帖子里提到了你"
	if username, err := s.Audience.Username(ctx, actorID); err == nil && username != "" {
		content = fmt.Sprintf("%s 在帖子里提到了你", username)
	}

	s.dispatch([]int64{recipientID}, func(uid int64) *models.Notification {
		return newNotification(uid, types.NotificationMention, "有人提到了你", content,
			postID, types.RelatedKindPost)
	})
}

// NotifyThreadPinned 主题被置顶:通知主题作者
func (s *NotificationService) NotifyThreadPinned(ctx context.Context, actorID, threadID int64) {
	s.notifyThreadState(ctx, actorID, threadID, types.NotificationThreadPinned,
		"主题被置顶", "你的主题《%s》被置顶了")
}

// NotifyThreadLocked 主题被锁定:通知主题作者
func (s *NotificationService) NotifyThreadLocked(ctx context.Context, actorID, threadID int64) {
	s.notifyThreadState(ctx, actorID, threadID, types.NotificationThreadLocked,
		"主题被锁定", "你的主题《%s》被锁定了")
}

func (s *NotificationService) notifyThreadState(ctx context.Context, actorID, threadID int64, kind types.NotificationKind, title, format string) {
	thread, err := s.Audience.ThreadByID(ctx, threadID)
	if err != nil {
		log.L.Error("resolve thread error", zap.Int64("thread_id", threadID), zap.Error(err))
		return
	}
	if thread == nil || thread.AuthorID == actorID {
		return
	}

	s.dispatch([]int64{thread.AuthorID}, func(uid int64) *models.Notification {
		return newNotification(uid, kind, title,
			fmt.Sprintf(format, thread.Title),
			threadID, types.RelatedKindThread)
	})
}

// NotifySystem 定向系统通知
func (s *NotificationService) NotifySystem(ctx context.Context, userID int64, title, content string) {
	s.dispatch([]int64{userID}, func(uid int64) *models.Notification {
		return newNotification(uid, types.NotificationSystem, title, content, 0, "")
	})
}

// dispatch 按接收人扇出
// 单个接收人的落库或推送失败只记日志,不影响其他接收人
func (s *NotificationService) dispatch(recipients []int64, build func(uid int64) *models.Notification) {
	if len(recipients) == 0 {
		return
	}

	// 推送不受请求取消影响
	ctx := context.Background()

	p := pool.New().WithMaxGoroutines(dispatchMaxFanout)
	for _, uid := range recipients {
		p.Go(func() {
			s.deliver(ctx, build(uid))
		})
	}
	p.Wait()
}

// deliver 先落库,落库成功后才推送(write-then-notify)
func (s *NotificationService) deliver(ctx context.Context, item *models.Notification) {
	if err := s.NotificationDAO.Create(ctx, item); err != nil {
		log.L.Error("create notification error",
			zap.Int64("user_id", item.UserID), zap.String("kind", item.Kind), zap.Error(err))
		return
	}

	// 自增感知不到缓存过期,过期后会从 1 重新起算
	// 这里直接作废,由 pushUnreadCount 回源重算并回填
	s.Unread.Del(ctx, item.UserID)
	s.Pusher.Push(item.UserID, types.EventNotification, toNotificationResponse(item))
	s.pushUnreadCount(ctx, item.UserID)
}

// List 通知列表,创建时间倒序
func (s *NotificationService) List(ctx context.Context, userID int64, req *types.ListNotificationsRequest) (*types.NotificationListResponse, error) {
	page := req.Page
	if page <= 0 {
		page = 1
	}
	limit := req.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	items, total, err := s.NotificationDAO.ListByUser(ctx, userID, page, limit, req.IsRead)
	if err != nil {
		return nil, err
	}

	result := make([]*types.NotificationResponse, 0, len(items))
	for _, item := range items {
		result = append(result, toNotificationResponse(item))
	}
	return &types.NotificationListResponse{Notifications: result, Total: total}, nil
}

// UnreadCount 未读数,优先读缓存,未命中回源并回填
func (s *NotificationService) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	if count, ok := s.Unread.Get(ctx, userID); ok {
		return count, nil
	}

	count, err := s.NotificationDAO.CountUnread(ctx, userID)
	if err != nil {
		return 0, err
	}
	s.Unread.Set(ctx, userID, count)
	return count, nil
}

// MarkRead 标记已读,只允许本人操作
func (s *NotificationService) MarkRead(ctx context.Context, userID, id int64) error {
	item, err := s.NotificationDAO.FindById(ctx, id)
	if err != nil {
		return err
	}
	if item == nil {
		return ErrNotificationNotFound
	}
	if item.UserID != userID {
		return ErrForbidden
	}
	if item.IsRead {
		return nil
	}

	if err := s.NotificationDAO.MarkRead(ctx, id); err != nil {
		return err
	}
	s.Unread.Del(ctx, userID)
	s.pushUnreadCount(ctx, userID)
	return nil
}

// MarkAllRead 全部标记已读,本来就没有未读时是空操作
func (s *NotificationService) MarkAllRead(ctx context.Context, userID int64) error {
	n, err := s.NotificationDAO.MarkAllRead(ctx, userID)
	if err != nil {
		return err
	}
	if n == 0 {
		return nil
	}
	s.Unread.Del(ctx, userID)
	s.pushUnreadCount(ctx, userID)
	return nil
}

// Delete 删除通知,只允许本人操作
func (s *NotificationService) Delete(ctx context.Context, userID, id int64) error {
	item, err := s.NotificationDAO.FindById(ctx, id)
	if err != nil {
		return err
	}
	if item == nil {
		return ErrNotificationNotFound
	}
	if item.UserID != userID {
		return ErrForbidden
	}

	if err := s.NotificationDAO.DeleteByID(ctx, id); err != nil {
		return err
	}
	if !item.IsRead {
		s.Unread.Del(ctx, userID)
		s.pushUnreadCount(ctx, userID)
	}
	return nil
}

// pushUnreadCount 向用户所有在线连接推送最新未读数
func (s *NotificationService) pushUnreadCount(ctx context.Context, userID int64) {
	count, err := s.UnreadCount(ctx, userID)
	if err != nil {
		log.L.Warn("count unread error", zap.Int64("user_id", userID), zap.Error(err))
		return
	}
	s.Pusher.Push(userID, types.EventUnreadCount, &types.UnreadCountResponse{Count: count})
}

func newNotification(userID int64, kind types.NotificationKind, title, content string, relatedID int64, relatedKind string) *models.Notification {
	return &models.Notification{
		ID:          snowflake.GenID(),
		UserID:      userID,
		Kind:        string(kind),
		Title:       title,
		Content:     content,
		RelatedID:   relatedID,
		RelatedKind: relatedKind,
	}
}

func toNotificationResponse(item *models.Notification) *types.NotificationResponse {
	return &types.NotificationResponse{
		ID:          item.ID,
		Kind:        item.Kind,
		Title:       item.Title,
		Content:     item.Content,
		RelatedID:   item.RelatedID,
		RelatedKind: item.RelatedKind,
		IsRead:      item.IsRead,
		CreatedAt:   item.CreatedAt,
	}
}
