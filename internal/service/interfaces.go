// Package service 定义业务层接口
// 本文件定义所有 Service 接口，供 Handler 层调用
package service

import (
	"context"

	"relay_chat_server/internal/dto/request"
	"relay_chat_server/internal/dto/respond"

	"github.com/gin-gonic/gin"
)

// RelayService 实时中转接口
// 处理长连接接入、在线状态、消息投递和群聊房间
type RelayService interface {
	// ServeWs 升级为 WebSocket 连接，用户已在线时返回 ErrAlreadyActive
	ServeWs(c *gin.Context, userId string) error
	// Logout 主动下线
	Logout(ctx context.Context, userId string) error
	// SendDirect 持久化并投递单聊消息
	SendDirect(ctx context.Context, req *request.SendDirectRequest) error
	// SendGroup 持久化并广播群聊消息，返回实时送达的连接数
	SendGroup(ctx context.Context, req *request.SendGroupRequest) (int, error)
	// JoinRoom 把用户当前连接加入房间
	JoinRoom(userId, groupId string) bool
	// PollStatus 向好友重新广播自己的在线状态
	PollStatus(ctx context.Context, userId string) (string, error)
	IsOnline(userId string) bool
	OnlineCount() int
}

// HistoryService 历史消息接口
type HistoryService interface {
	// InitialHistory 会话最新一页
	InitialHistory(ctx context.Context, conversationId string) ([]respond.HistoryMessageRespond, error)
	// PageBefore send_time 早于 cursor 的一页
	PageBefore(ctx context.Context, conversationId string, cursor int64) ([]respond.HistoryMessageRespond, error)
	// DirectInitialHistory 按单聊双方查询首页
	DirectInitialHistory(ctx context.Context, userOneId, userTwoId string) ([]respond.HistoryMessageRespond, error)
	// DirectPageBefore 按单聊双方向前翻页
	DirectPageBefore(ctx context.Context, userOneId, userTwoId string, cursor int64) ([]respond.HistoryMessageRespond, error)
}
