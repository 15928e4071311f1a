package chat

import (
	"context"
	"sync"

	"relay_chat_server/pkg/errorx"
)

// ChannelBroker 单机模式，上行帧经带缓冲的内存通道交给分发循环
type ChannelBroker struct {
	frames    chan InboundFrame
	done      chan struct{}
	closeOnce sync.Once
}

// NewChannelBroker 创建内存通道代理
func NewChannelBroker(size int) *ChannelBroker {
	return &ChannelBroker{
		frames: make(chan InboundFrame, size),
		done:   make(chan struct{}),
	}
}

// Publish 通道满时立即返回 ErrServerBusy，不阻塞读协程
func (b *ChannelBroker) Publish(ctx context.Context, frame InboundFrame) error {
	select {
	case <-b.done:
		return errorx.New(errorx.CodeServerBusy, "消息通道已关闭")
	default:
	}
	select {
	case b.frames <- frame:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return errorx.New(errorx.CodeServerBusy, "当前发送消息的用户过多，请稍后重试")
	}
}

// Consume 返回帧通道
func (b *ChannelBroker) Consume(_ context.Context) <-chan InboundFrame {
	return b.frames
}

// Close 之后的 Publish 均返回错误
func (b *ChannelBroker) Close() error {
	b.closeOnce.Do(func() { close(b.done) })
	return nil
}
