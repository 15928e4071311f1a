// Package repository 定义数据访问层接口和聚合结构
// 聊天核心只需要两类数据：消息的追加/分页读取，以及好友列表的只读查询
package repository

import (
	"context"

	"relay_chat_server/internal/model"

	"gorm.io/gorm"
)

// MessageRepository 消息数据访问接口
type MessageRepository interface {
	// Create 追加一条消息
	Create(ctx context.Context, message *model.Message) error
	// FindLatest 会话最新的 limit 条消息，按 send_time 倒序
	FindLatest(ctx context.Context, conversationId string, limit int) ([]model.Message, error)
	// FindBefore send_time 严格小于 cursor 的 limit 条消息，按 send_time 倒序
	FindBefore(ctx context.Context, conversationId string, cursor int64, limit int) ([]model.Message, error)
}

// ContactRepository 好友关系只读接口
type ContactRepository interface {
	// FindFriends 用户的好友列表（正常状态的用户类联系人）
	FindFriends(ctx context.Context, userId string) ([]model.UserContact, error)
}

// Repositories 聚合所有 Repository，供 Service 层依赖注入
type Repositories struct {
	Message MessageRepository
	Contact ContactRepository
}

// NewRepositories 创建 Repository 集合
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Message: NewMessageRepository(db),
		Contact: NewContactRepository(db),
	}
}
