package socket

import (
	"Voz/pkg/log"
	"Voz/types"
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	cmap "github.com/orcaman/concurrent-map/v2"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	heartbeatInterval = 10 // 心跳检测间隔时间
	heartbeatTimeout  = 35 // 心跳检测超时时间(超时时间是间隔检测时间的2.5倍以上)
)

// Registry 本进程的在线连接表
// cid -> 连接,uid -> 该用户的全部连接
// 只维护本进程状态,跨进程扇出不在这里做
type Registry struct {
	clients cmap.ConcurrentMap[string, *Client]
	users   cmap.ConcurrentMap[string, []*Client]
}

func NewRegistry() *Registry {
	return &Registry{
		clients: cmap.New[*Client](),
		users:   cmap.New[[]*Client](),
	}
}

// Register 连接上线
func (r *Registry) Register(c *Client) {
	r.clients.Set(c.Cid(), c)
	key := strconv.FormatInt(c.Uid(), 10)
	r.users.Upsert(key, nil, func(exist bool, valueInMap, _ []*Client) []*Client {
		return append(valueInMap, c)
	})

	log.L.Info("client registered",
		zap.String("cid", c.Cid()), zap.Int64("uid", c.Uid()))
}

// Unregister 连接下线,重复调用是空操作
func (r *Registry) Unregister(c *Client) {
	if _, ok := r.clients.Pop(c.Cid()); !ok {
		return
	}

	key := strconv.FormatInt(c.Uid(), 10)
	r.users.Upsert(key, nil, func(exist bool, valueInMap, _ []*Client) []*Client {
		// Push 拿到的切片在锁外遍历,这里必须新建切片而不是原地截断
		remain := make([]*Client, 0, len(valueInMap))
		for _, item := range valueInMap {
			if item.Cid() != c.Cid() {
				remain = append(remain, item)
			}
		}
		return remain
	})
	r.users.RemoveCb(key, func(key string, v []*Client, exists bool) bool {
		return exists && len(v) == 0
	})

	log.L.Info("client unregistered",
		zap.String("cid", c.Cid()), zap.Int64("uid", c.Uid()))
}

// Push 推送给用户当前的全部在线连接,返回实际送达的连接数
// 无在线连接时直接丢弃:通知行才是持久记录,推送只是尽力而为
func (r *Registry) Push(userID int64, event string, payload any) int {
	conns, ok := r.users.Get(strconv.FormatInt(userID, 10))
	if !ok || len(conns) == 0 {
		return 0
	}

	data, err := json.Marshal(&ClientResponse{Event: event, Payload: payload})
	if err != nil {
		log.L.Error("marshal push payload error", zap.String("event", event), zap.Error(err))
		return 0
	}

	delivered := 0
	for _, c := range conns {
		if c.Closed() {
			continue
		}
		if err := c.WriteRaw(data); err != nil {
			log.L.Warn("push to client error",
				zap.String("cid", c.Cid()), zap.Int64("uid", userID), zap.Error(err))
			continue
		}
		delivered++
	}
	return delivered
}

// OnlineCount 当前在线连接数
func (r *Registry) OnlineCount() int {
	return r.clients.Count()
}

// StartSweeper 心跳巡检:超时的连接踢下线,空闲的连接发 ping
func (r *Registry) StartSweeper(ctx context.Context) error {
	ticker := time.NewTicker(heartbeatInterval * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return errors.New("heartbeat exit")
		case <-ticker.C:
			r.sweep()
		}
	}
}

func (r *Registry) sweep() {
	now := time.Now().Unix()
	for item := range r.clients.IterBuffered() {
		c := item.Val
		if c.Closed() {
			r.Unregister(c)
			continue
		}

		interval := now - c.LastActive()
		if interval > heartbeatTimeout {
			c.Close(websocket.ClosePolicyViolation, "心跳检测超时")
			r.Unregister(c)
			continue
		}
		if interval >= heartbeatInterval {
			_ = c.Write(&ClientResponse{Event: types.EventPing})
		}
	}
}
