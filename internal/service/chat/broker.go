// Package chat 实现聊天核心：连接注册表、在线状态广播、消息路由、群聊房间，
// 以及承载它们的 WebSocket 网关和上行帧分发循环
package chat

import (
	"context"
	"encoding/json"
)

// InboundFrame 从连接读到的一帧原始数据
// 读协程只负责发布，解码和业务处理都在 ChatServer 的分发循环里完成
type InboundFrame struct {
	Handle  string          `json:"handle"`
	UserId  string          `json:"user_id"`
	Payload json.RawMessage `json:"payload"`
}

// MessageBroker 上行帧的传输通道
// 支持两种实现：ChannelBroker (单机内存通道), KafkaBroker (经 Kafka 中转)
type MessageBroker interface {
	// Publish 发布一帧，通道已满或已关闭时返回错误
	Publish(ctx context.Context, frame InboundFrame) error
	// Consume 返回只读帧通道，只应被分发循环调用一次
	Consume(ctx context.Context) <-chan InboundFrame
	// Close 关闭代理资源
	Close() error
}
