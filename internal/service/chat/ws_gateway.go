package chat

import (
	"context"
	"net/http"
	"sync"
	"time"

	"relay_chat_server/pkg/constants"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// UserConn 一个 WebSocket 客户端连接，实现 Session
// 读协程把上行帧交给 MessageBroker，写协程把 SendBack 中的事件写回前端
type UserConn struct {
	Conn     *websocket.Conn
	handle   string
	userId   string
	SendBack chan Envelope // 给前端

	done      chan struct{}
	closeOnce sync.Once
}

func newUserConn(conn *websocket.Conn, handle, userId string) *UserConn {
	return &UserConn{
		Conn:     conn,
		handle:   handle,
		userId:   userId,
		SendBack: make(chan Envelope, constants.CHANNEL_SIZE),
		done:     make(chan struct{}),
	}
}

// Handle 连接句柄
func (c *UserConn) Handle() string { return c.handle }

// UserId 握手时经 Token 校验的用户
func (c *UserConn) UserId() string { return c.userId }

// Push 非阻塞写入发送缓冲，满了直接丢弃
func (c *UserConn) Push(evt Envelope) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.SendBack <- evt:
		return true
	case <-c.done:
		return false
	default:
		zap.L().Warn("ws send buffer full, event dropped",
			zap.String("handle", c.handle), zap.String("event", string(evt.Event)))
		return false
	}
}

// Close 关闭底层连接，可重复调用
func (c *UserConn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)
		err = c.Conn.Close()
	})
	return err
}

// Read 读取上行帧并发布，连接出错时通知服务端拆除
func (c *UserConn) Read(s *ChatServer) {
	defer s.disconnect(c)

	c.Conn.SetReadLimit(constants.WS_READ_LIMIT)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, payload, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				zap.L().Warn("ws read failed", zap.String("handle", c.handle), zap.Error(err))
			}
			return
		}
		frame := InboundFrame{Handle: c.handle, UserId: c.userId, Payload: payload}
		if err := s.broker.Publish(context.Background(), frame); err != nil {
			zap.L().Warn("publish frame failed", zap.String("handle", c.handle), zap.Error(err))
			c.Push(errorEnvelope(err))
		}
	}
}

// Write 从 SendBack 取事件写回前端，并定时发送 ping
func (c *UserConn) Write() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case evt := <-c.SendBack:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteJSON(evt); err != nil {
				zap.L().Warn("ws write failed", zap.String("handle", c.handle), zap.Error(err))
				_ = c.Close()
				return
			}
		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				_ = c.Close()
				return
			}
		case <-c.done:
			return
		}
	}
}

// newUpgrader allowOrigins 为空时接受任意来源
func newUpgrader(allowOrigins []string) websocket.Upgrader {
	allowed := make(map[string]struct{}, len(allowOrigins))
	for _, o := range allowOrigins {
		allowed[o] = struct{}{}
	}
	return websocket.Upgrader{
		ReadBufferSize:  2048,
		WriteBufferSize: 2048,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowed) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}
			_, ok := allowed[origin]
			return ok
		},
	}
}
