package chat

import (
	"context"

	"relay_chat_server/internal/dao/mysql/repository"
	"relay_chat_server/internal/dto/respond"

	"go.uber.org/zap"
)

// Status 在线状态
type Status string

const (
	StatusOnline  Status = "online"
	StatusOffline Status = "offline"
)

// PresenceBroadcaster 把用户的上下线状态推送给在线好友
// 不排队不重试，好友离线则丢弃，对方下次连接或轮询时会得到正确状态
type PresenceBroadcaster struct {
	contacts repository.ContactRepository
	registry *ConnRegistry
}

// NewPresenceBroadcaster 创建在线状态广播器
func NewPresenceBroadcaster(contacts repository.ContactRepository, registry *ConnRegistry) *PresenceBroadcaster {
	return &PresenceBroadcaster{contacts: contacts, registry: registry}
}

// Announce 读取一次好友列表，向其中在线的好友推送 presence-change
// 返回实际推送的好友数
func (p *PresenceBroadcaster) Announce(ctx context.Context, userId string, status Status) (int, error) {
	friends, err := p.contacts.FindFriends(ctx, userId)
	if err != nil {
		zap.L().Warn("presence: load friends failed", zap.String("user_id", userId), zap.Error(err))
		return 0, err
	}

	evt := Envelope{
		Event: EventPresenceChange,
		Data:  respond.PresenceChangeRespond{UserId: userId, Status: string(status)},
	}
	seen := make(map[string]struct{}, len(friends))
	notified := 0
	for _, f := range friends {
		if f.ContactId == userId {
			continue
		}
		if _, dup := seen[f.ContactId]; dup {
			continue
		}
		seen[f.ContactId] = struct{}{}
		if s, ok := p.registry.Resolve(f.ContactId); ok && s.Push(evt) {
			notified++
		}
	}
	zap.L().Debug("presence announced",
		zap.String("user_id", userId),
		zap.String("status", string(status)),
		zap.Int("notified", notified))
	return notified, nil
}

// PollStatus 按注册表重新计算 userId 自己的状态并推送给好友
func (p *PresenceBroadcaster) PollStatus(ctx context.Context, userId string) (Status, int, error) {
	status := StatusOffline
	if p.registry.IsActive(userId) {
		status = StatusOnline
	}
	notified, err := p.Announce(ctx, userId, status)
	return status, notified, err
}
