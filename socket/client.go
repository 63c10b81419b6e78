package socket

import (
	"Voz/pkg/log"
	"Voz/types"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

const (
	// 发送缓冲区大小,写满说明连接已经背压,直接丢弃本次推送
	sendBufferSize = 64
	writeWait      = 10 * time.Second
)

// ClientResponse 下行消息统一信封
type ClientResponse struct {
	Event   string `json:"event"`
	Payload any    `json:"payload,omitempty"`
}

// Client 一条已认证的 websocket 连接
// 同一用户可以同时持有多条连接(多标签页/多设备)
type Client struct {
	cid      string
	uid      int64
	conn     *websocket.Conn
	send     chan []byte
	done     chan struct{}
	closed   atomic.Bool
	lastTime int64 // 最近一次收到心跳的 Unix 秒
	once     sync.Once
}

func NewClient(uid int64, conn *websocket.Conn) *Client {
	return &Client{
		cid:      uuid.NewString(),
		uid:      uid,
		conn:     conn,
		send:     make(chan []byte, sendBufferSize),
		done:     make(chan struct{}),
		lastTime: time.Now().Unix(),
	}
}

func (c *Client) Cid() string { return c.cid }

func (c *Client) Uid() int64 { return c.uid }

func (c *Client) Closed() bool { return c.closed.Load() }

// LastActive 最近一次心跳时间
func (c *Client) LastActive() int64 {
	return atomic.LoadInt64(&c.lastTime)
}

// Close 关闭连接,幂等
func (c *Client) Close(code int, reason string) {
	c.once.Do(func() {
		c.closed.Store(true)
		close(c.done)
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(code, reason), time.Now().Add(writeWait))
		_ = c.conn.Close()
	})
}

// Write 序列化后写入发送队列
func (c *Client) Write(resp *ClientResponse) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return c.WriteRaw(data)
}

// WriteRaw 非阻塞写入,缓冲区满或连接已关闭则丢弃
func (c *Client) WriteRaw(data []byte) error {
	if c.Closed() {
		return errors.New("连接已关闭")
	}
	select {
	case c.send <- data:
		return nil
	default:
		return errors.New("发送缓冲区已满")
	}
}

// WritePump 发送队列消费协程,每个连接一个
func (c *Client) WritePump() {
	for {
		select {
		case data := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				c.Close(websocket.CloseAbnormalClosure, "write error")
				return
			}
		case <-c.done:
			return
		}
	}
}

// ReadLoop 阻塞读取上行消息,连接断开时调用 onClose
// 上行只处理心跳,通知系统没有其他客户端指令
func (c *Client) ReadLoop(onClose func(*Client)) {
	defer func() {
		c.Close(websocket.CloseNormalClosure, "")
		if onClose != nil {
			onClose(c)
		}
	}()

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			// 客户端断开是正常行为
			return
		}

		switch gjson.GetBytes(data, "type").String() {
		case types.EventPing:
			atomic.StoreInt64(&c.lastTime, time.Now().Unix())
			if err := c.Write(&ClientResponse{Event: types.EventPong}); err != nil {
				log.L.Debug("write pong error", zap.String("cid", c.cid), zap.Error(err))
			}
		}
	}
}
