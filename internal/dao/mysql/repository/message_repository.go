package repository

import (
	"context"

	"relay_chat_server/internal/model"

	"gorm.io/gorm"
)

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository 创建消息 Repository
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

// Create 创建消息
func (r *messageRepository) Create(ctx context.Context, message *model.Message) error {
	if err := r.db.WithContext(ctx).Create(message).Error; err != nil {
		return wrapDBErrorf(err, "写入消息 conversation_id=%s", message.ConversationId)
	}
	return nil
}

// FindLatest 查询会话首页消息
func (r *messageRepository) FindLatest(ctx context.Context, conversationId string, limit int) ([]model.Message, error) {
	messages := make([]model.Message, 0, limit)
	if err := latestScope(r.db.WithContext(ctx), conversationId, limit).Find(&messages).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询消息 conversation_id=%s", conversationId)
	}
	return messages, nil
}

// FindBefore 按时间游标向前翻页
func (r *messageRepository) FindBefore(ctx context.Context, conversationId string, cursor int64, limit int) ([]model.Message, error) {
	messages := make([]model.Message, 0, limit)
	if err := beforeScope(r.db.WithContext(ctx), conversationId, cursor, limit).Find(&messages).Error; err != nil {
		return nil, wrapDBErrorf(err, "翻页查询消息 conversation_id=%s cursor=%d", conversationId, cursor)
	}
	return messages, nil
}

func latestScope(tx *gorm.DB, conversationId string, limit int) *gorm.DB {
	return tx.Where("conversation_id = ?", conversationId).
		Order("send_time DESC").Order("id DESC").
		Limit(limit)
}

// beforeScope 与游标时间相同的消息不会出现在下一页
func beforeScope(tx *gorm.DB, conversationId string, cursor int64, limit int) *gorm.DB {
	return tx.Where("conversation_id = ? AND send_time < ?", conversationId, cursor).
		Order("send_time DESC").Order("id DESC").
		Limit(limit)
}
