package chat

import (
	"context"
	"errors"
	"sync"

	"relay_chat_server/internal/dao/mysql/repository"
	myredis "relay_chat_server/internal/dao/redis"
	"relay_chat_server/internal/dto/request"
	"relay_chat_server/pkg/constants"
	"relay_chat_server/pkg/errorx"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// ChatServer 聊天服务器聚合结构
// 持有注册表、房间、在线状态广播和消息路由，并运行唯一的上行帧分发循环
type ChatServer struct {
	Registry *ConnRegistry
	Rooms    *RoomManager
	Presence *PresenceBroadcaster
	Router   *MessageRouter

	// broker 上行帧通道，根据配置可能是 ChannelBroker 或 KafkaBroker
	broker MessageBroker

	// conns 本节点的连接，handle -> *UserConn
	conns sync.Map

	// logout 连接断开时写入，由分发循环统一拆除
	logout chan *UserConn

	upgrader websocket.Upgrader
	quit     chan struct{}
	quitOnce sync.Once
}

// ChatServerConfig 聊天服务器依赖
type ChatServerConfig struct {
	MessageRepo  repository.MessageRepository
	ContactRepo  repository.ContactRepository
	Cache        myredis.CacheService // 可为空
	Broker       MessageBroker
	AllowOrigins []string
}

// NewChatServer 创建聊天服务器，Broker 为空时使用 ChannelBroker
func NewChatServer(cfg ChatServerConfig) *ChatServer {
	broker := cfg.Broker
	if broker == nil {
		broker = NewChannelBroker(constants.CHANNEL_SIZE)
	}
	registry := NewConnRegistry()
	rooms := NewRoomManager()
	return &ChatServer{
		Registry: registry,
		Rooms:    rooms,
		Presence: NewPresenceBroadcaster(cfg.ContactRepo, registry),
		Router:   NewMessageRouter(cfg.MessageRepo, registry, rooms, cfg.Cache),
		broker:   broker,
		logout:   make(chan *UserConn, constants.CHANNEL_SIZE),
		upgrader: newUpgrader(cfg.AllowOrigins),
		quit:     make(chan struct{}),
	}
}

// Start 分发循环，直到 ctx 取消
// 同一连接的帧按读取顺序依次处理
func (s *ChatServer) Start(ctx context.Context) {
	defer s.shutdown()
	frames := s.broker.Consume(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case conn := <-s.logout:
			s.teardown(ctx, conn)
		case frame, ok := <-frames:
			if !ok {
				return
			}
			s.dispatch(ctx, frame)
		}
	}
}

// Close 关闭消息代理
func (s *ChatServer) Close() error {
	return s.broker.Close()
}

// shutdown 关闭本节点所有连接
func (s *ChatServer) shutdown() {
	s.quitOnce.Do(func() { close(s.quit) })
	s.conns.Range(func(_, v any) bool {
		_ = v.(*UserConn).Close()
		return true
	})
}

func (s *ChatServer) dispatch(ctx context.Context, frame InboundFrame) {
	v, ok := s.conns.Load(frame.Handle)
	if !ok {
		// 连接已断开或不属于本节点
		zap.L().Debug("frame for unknown handle", zap.String("handle", frame.Handle))
		return
	}
	conn := v.(*UserConn)

	f, err := DecodeFrame(frame.Payload)
	if err != nil {
		conn.Push(errorEnvelope(err))
		return
	}
	if err := s.handleFrame(ctx, conn, f); err != nil {
		zap.L().Info("frame rejected",
			zap.String("event", string(f.Event)),
			zap.String("user_id", conn.UserId()),
			zap.Error(err))
		conn.Push(errorEnvelope(err))
		if errors.Is(err, errorx.ErrAlreadyActive) {
			// 重复登录：拒绝本次连接，保留原连接
			s.teardown(ctx, conn)
		}
	}
}

func (s *ChatServer) handleFrame(ctx context.Context, conn *UserConn, f *Frame) error {
	switch f.Event {
	case EventRegister:
		if f.Register.UserId != conn.UserId() {
			return errorx.Newf(errorx.CodeInvalidParam, "不能以其他用户身份注册")
		}
		return s.register(ctx, conn)
	case EventPollStatus:
		if f.PollStatus.UserId != conn.UserId() {
			return errorx.Newf(errorx.CodeInvalidParam, "只能查询自己的在线状态")
		}
		_, _, err := s.Presence.PollStatus(ctx, conn.UserId())
		return err
	case EventDirectMessageOut:
		if f.DirectOut.SendId != conn.UserId() {
			return errorx.New(errorx.CodeUnauthorized, "发送者与当前用户不一致")
		}
		return s.Router.SendDirect(ctx, f.DirectOut)
	case EventGroupMessageOut:
		if f.GroupOut.SendId != conn.UserId() {
			return errorx.New(errorx.CodeUnauthorized, "发送者与当前用户不一致")
		}
		_, err := s.Router.SendGroup(ctx, f.GroupOut, conn.Handle())
		return err
	case EventJoinRoom:
		s.Rooms.JoinRoom(conn, f.JoinRoom.GroupId)
		return nil
	}
	return errorx.Newf(errorx.CodeInvalidParam, "未知事件 %q", f.Event)
}

func (s *ChatServer) register(ctx context.Context, conn *UserConn) error {
	if existing, ok := s.Registry.Resolve(conn.UserId()); ok && existing.Handle() == conn.Handle() {
		return nil
	}
	if err := s.Registry.Register(conn.UserId(), conn); err != nil {
		return err
	}
	zap.L().Info("user online", zap.String("user_id", conn.UserId()), zap.String("handle", conn.Handle()))
	_, _ = s.Presence.Announce(ctx, conn.UserId(), StatusOnline)
	return nil
}

// teardown 连接断开：退出房间、解除注册、通知好友下线，可重复调用
func (s *ChatServer) teardown(ctx context.Context, conn *UserConn) {
	s.conns.Delete(conn.Handle())
	s.Rooms.LeaveAll(conn.Handle())
	userId, registered := s.Registry.UnregisterByHandle(conn.Handle())
	_ = conn.Close()
	if registered {
		zap.L().Info("user offline", zap.String("user_id", userId), zap.String("handle", conn.Handle()))
		_, _ = s.Presence.Announce(ctx, userId, StatusOffline)
	}
}

// disconnect 由读协程调用，分发循环已退出时直接关闭连接
func (s *ChatServer) disconnect(conn *UserConn) {
	select {
	case s.logout <- conn:
	case <-s.quit:
		_ = conn.Close()
	}
}

// ServeWs 升级 WebSocket 并启动读写协程
// 用户已有活跃连接时在升级前返回 ErrAlreadyActive
func (s *ChatServer) ServeWs(c *gin.Context, userId string) error {
	if s.Registry.IsActive(userId) {
		return errorx.ErrAlreadyActive
	}
	ws, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade 已经写回了 HTTP 错误
		zap.L().Warn("ws upgrade failed", zap.String("user_id", userId), zap.Error(err))
		return nil
	}
	conn := newUserConn(ws, uuid.NewString(), userId)
	s.conns.Store(conn.Handle(), conn)
	go conn.Read(s)
	go conn.Write()
	zap.L().Info("ws连接成功", zap.String("user_id", userId), zap.String("handle", conn.Handle()))
	return nil
}

// ==================== 供 HTTP 层调用 ====================

// SendDirect 发送单聊消息
func (s *ChatServer) SendDirect(ctx context.Context, req *request.SendDirectRequest) error {
	return s.Router.SendDirect(ctx, req)
}

// SendGroup 发送群聊消息，排除发送者自己的连接
func (s *ChatServer) SendGroup(ctx context.Context, req *request.SendGroupRequest) (int, error) {
	return s.Router.SendGroup(ctx, req, "")
}

// JoinRoom 把用户当前连接加入群聊房间，用户没有活跃连接时返回 false
func (s *ChatServer) JoinRoom(userId, groupId string) bool {
	session, ok := s.Registry.Resolve(userId)
	if !ok {
		return false
	}
	s.Rooms.JoinRoom(session, groupId)
	return true
}

// PollStatus 重新广播用户自己的在线状态
func (s *ChatServer) PollStatus(ctx context.Context, userId string) (string, error) {
	status, _, err := s.Presence.PollStatus(ctx, userId)
	return string(status), err
}

// IsOnline 用户是否在线
func (s *ChatServer) IsOnline(userId string) bool {
	return s.Registry.IsActive(userId)
}

// OnlineCount 在线用户数
func (s *ChatServer) OnlineCount() int {
	return s.Registry.Count()
}

// Logout 主动下线，关闭用户当前连接
func (s *ChatServer) Logout(ctx context.Context, userId string) error {
	session, ok := s.Registry.Resolve(userId)
	if !ok {
		return nil
	}
	v, ok := s.conns.Load(session.Handle())
	if !ok {
		// 连接正在拆除
		return nil
	}
	s.teardown(ctx, v.(*UserConn))
	return nil
}
