package repository

import (
	"context"

	"relay_chat_server/internal/model"

	"gorm.io/gorm"
)

type contactRepository struct {
	db *gorm.DB
}

// NewContactRepository 创建联系人 Repository
func NewContactRepository(db *gorm.DB) ContactRepository {
	return &contactRepository{db: db}
}

// FindFriends 按用户ID查找好友
func (r *contactRepository) FindFriends(ctx context.Context, userId string) ([]model.UserContact, error) {
	var contacts []model.UserContact
	if err := friendsScope(r.db.WithContext(ctx), userId).Find(&contacts).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询好友列表 user_id=%s", userId)
	}
	return contacts, nil
}

func friendsScope(tx *gorm.DB, userId string) *gorm.DB {
	return tx.Where("user_id = ? AND contact_type = ? AND status = ?",
		userId, model.ContactTypeUser, model.ContactStatusNormal)
}
