package socket

import (
	"Voz/types"
	"encoding/json"
	"sync/atomic"
	"testing"
	"time"
)

func TestRegisterAndPush(t *testing.T) {
	r := NewRegistry()
	a1 := NewClient(42, nil)
	a2 := NewClient(42, nil) // 同一用户第二条连接
	b := NewClient(99, nil)
	r.Register(a1)
	r.Register(a2)
	r.Register(b)

	if n := r.OnlineCount(); n != 3 {
		t.Fatalf("online = %d", n)
	}

	delivered := r.Push(42, "notification", map[string]string{"title": "hi"})
	if delivered != 2 {
		t.Fatalf("delivered = %d", delivered)
	}

	for _, c := range []*Client{a1, a2} {
		select {
		case data := <-c.send:
			var resp ClientResponse
			if err := json.Unmarshal(data, &resp); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if resp.Event != types.EventNotification {
				t.Fatalf("event = %s", resp.Event)
			}
		default:
			t.Fatalf("client %s got nothing", c.Cid())
		}
	}
	select {
	case <-b.send:
		t.Fatalf("other user should not receive")
	default:
	}
}

func TestPushNoConnection(t *testing.T) {
	r := NewRegistry()
	if delivered := r.Push(42, "notification", nil); delivered != 0 {
		t.Fatalf("delivered = %d", delivered)
	}
}

func TestUnregister(t *testing.T) {
	r := NewRegistry()
	a1 := NewClient(42, nil)
	a2 := NewClient(42, nil)
	r.Register(a1)
	r.Register(a2)

	r.Unregister(a1)
	if delivered := r.Push(42, "notification", nil); delivered != 1 {
		t.Fatalf("delivered after first unregister = %d", delivered)
	}

	// 重复下线是空操作
	r.Unregister(a1)
	r.Unregister(a2)
	if delivered := r.Push(42, "notification", nil); delivered != 0 {
		t.Fatalf("delivered after all unregistered = %d", delivered)
	}
	if n := r.OnlineCount(); n != 0 {
		t.Fatalf("online = %d", n)
	}
}

// 发送缓冲区满时丢弃本次推送,不计入送达数
func TestPushBufferFull(t *testing.T) {
	r := NewRegistry()
	c := NewClient(42, nil)
	r.Register(c)

	for i := 0; i < sendBufferSize; i++ {
		if err := c.WriteRaw([]byte("{}")); err != nil {
			t.Fatalf("fill buffer: %v", err)
		}
	}

	if delivered := r.Push(42, "notification", nil); delivered != 0 {
		t.Fatalf("delivered = %d", delivered)
	}
}

// 巡检对空闲未超时的连接发 ping,事件名要和客户端心跳约定一致
func TestSweepPingsIdle(t *testing.T) {
	r := NewRegistry()
	c := NewClient(42, nil)
	r.Register(c)
	atomic.StoreInt64(&c.lastTime, time.Now().Unix()-(heartbeatInterval+5))

	r.sweep()

	select {
	case data := <-c.send:
		var resp ClientResponse
		if err := json.Unmarshal(data, &resp); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if resp.Event != types.EventPing {
			t.Fatalf("event = %s", resp.Event)
		}
	default:
		t.Fatalf("idle client should be pinged")
	}
	if n := r.OnlineCount(); n != 1 {
		t.Fatalf("idle client should stay online, online = %d", n)
	}
}

func TestConcurrentRegisterUnregister(t *testing.T) {
	r := NewRegistry()
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			c := NewClient(42, nil)
			r.Register(c)
			r.Unregister(c)
		}
	}()
	for i := 0; i < 100; i++ {
		r.Push(42, "notification", nil)
	}
	<-done

	if n := r.OnlineCount(); n != 0 {
		t.Fatalf("online = %d", n)
	}
}
