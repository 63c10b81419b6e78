package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// 未读通知数过期时间 - 14天
const unreadExpireAt = 14 * 24 * time.Hour

type UnreadStorage struct {
	redis *redis.Client
}

func NewUnreadStorage(rds *redis.Client) *UnreadStorage {
	return &UnreadStorage{rds}
}

// Get 获取未读通知数,缓存未命中时 ok=false,由调用方回源数据库
func (u *UnreadStorage) Get(ctx context.Context, uid int64) (int64, bool) {
	n, err := u.redis.Get(ctx, u.name(uid)).Int64()
	if err != nil {
		return 0, false
	}
	return n, true
}

// Set 回填未读通知数
func (u *UnreadStorage) Set(ctx context.Context, uid int64, count int64) {
	u.redis.Set(ctx, u.name(uid), count, unreadExpireAt)
}

// Del 失效未读通知数(新通知落库或已读状态变化后调用)
func (u *UnreadStorage) Del(ctx context.Context, uid int64) {
	u.redis.Del(ctx, u.name(uid))
}

// 未读数缓存
// voz:notify:unread:uid
func (u *UnreadStorage) name(uid int64) string {
	return fmt.Sprintf("voz:notify:unread:%d", uid)
}
