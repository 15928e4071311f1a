package chat

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	myconfig "relay_chat_server/internal/config"
	"relay_chat_server/pkg/constants"
	"relay_chat_server/pkg/errorx"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const (
	headerHandle = "handle"
	headerUserId = "user_id"
)

// KafkaBroker Kafka 模式，上行帧先写入 chatTopic 再由本节点消费
// 消息 key 为用户 ID，同一用户的帧落在同一分区，保证发送顺序
// 连接只存在于接入它的节点，多节点部署时每个节点应使用独立的 groupId
type KafkaBroker struct {
	producer *kafka.Writer // 生产者：负责写入消息
	consumer *kafka.Reader // 消费者：负责读取消息

	out       chan InboundFrame
	startOnce sync.Once
}

// NewKafkaBroker 根据配置创建 Kafka 读写端
func NewKafkaBroker(cfg myconfig.KafkaConfig) *KafkaBroker {
	timeout := cfg.Timeout * time.Second
	if timeout <= 0 {
		timeout = time.Second
	}
	return &KafkaBroker{
		producer: &kafka.Writer{
			Addr:                   kafka.TCP(cfg.HostPort),
			Topic:                  cfg.ChatTopic,
			Balancer:               &kafka.Hash{},
			WriteTimeout:           timeout,
			RequiredAcks:           kafka.RequireOne,
			AllowAutoTopicCreation: false,
		},
		consumer: kafka.NewReader(kafka.ReaderConfig{
			Brokers:        []string{cfg.HostPort},
			Topic:          cfg.ChatTopic,
			GroupID:        cfg.GroupID,
			CommitInterval: timeout,
			StartOffset:    kafka.LastOffset,
		}),
		out: make(chan InboundFrame, constants.CHANNEL_SIZE),
	}
}

// Publish 写入 Kafka
func (b *KafkaBroker) Publish(ctx context.Context, frame InboundFrame) error {
	if err := b.producer.WriteMessages(ctx, toKafkaMessage(frame)); err != nil {
		return errorx.Wrap(err, errorx.CodeServerBusy, "写入 kafka 失败")
	}
	return nil
}

// Consume 启动消费协程，ctx 取消或 Reader 关闭后关闭返回的通道
func (b *KafkaBroker) Consume(ctx context.Context) <-chan InboundFrame {
	b.startOnce.Do(func() {
		go b.consumeLoop(ctx)
	})
	return b.out
}

func (b *KafkaBroker) consumeLoop(ctx context.Context) {
	defer close(b.out)
	for {
		m, err := b.consumer.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, io.EOF) {
				return
			}
			zap.L().Error("kafka read failed", zap.Error(err))
			continue
		}
		zap.L().Debug("kafka frame",
			zap.String("topic", m.Topic),
			zap.Int("partition", m.Partition),
			zap.Int64("offset", m.Offset),
			zap.ByteString("key", m.Key))

		select {
		case b.out <- fromKafkaMessage(m):
		case <-ctx.Done():
			return
		}
	}
}

// Close 关闭 Writer 和 Reader
func (b *KafkaBroker) Close() error {
	return errors.Join(b.producer.Close(), b.consumer.Close())
}

func toKafkaMessage(frame InboundFrame) kafka.Message {
	return kafka.Message{
		Key:   []byte(frame.UserId),
		Value: frame.Payload,
		Headers: []kafka.Header{
			{Key: headerHandle, Value: []byte(frame.Handle)},
			{Key: headerUserId, Value: []byte(frame.UserId)},
		},
	}
}

func fromKafkaMessage(m kafka.Message) InboundFrame {
	frame := InboundFrame{Payload: m.Value}
	for _, h := range m.Headers {
		switch h.Key {
		case headerHandle:
			frame.Handle = string(h.Value)
		case headerUserId:
			frame.UserId = string(h.Value)
		}
	}
	if frame.UserId == "" {
		frame.UserId = string(m.Key)
	}
	return frame
}
