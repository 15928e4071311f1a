package model

import (
	"gorm.io/gorm"
)

// 联系人类型与状态，仅列出在线状态推送关心的取值
const (
	ContactTypeUser     int8 = 0
	ContactTypeGroup    int8 = 1
	ContactStatusNormal int8 = 0
)

// UserContact 好友关系（有向），由账号/好友子系统维护，聊天核心只读
type UserContact struct {
	gorm.Model
	UserId      string `gorm:"column:user_id;index;type:varchar(64);not null;comment:用户唯一id"`
	ContactId   string `gorm:"column:contact_id;index;type:varchar(64);not null;comment:联系人ID"`
	ContactName string `gorm:"column:contact_name;type:varchar(64);comment:联系人昵称"`
	ContactType int8   `gorm:"column:contact_type;not null;default:0;comment:联系类型，0.用户，1.群聊"`
	Status      int8   `gorm:"column:status;not null;default:0;comment:联系状态，0.正常，1.拉黑，2.被拉黑，3.删除好友"`
}

func (UserContact) TableName() string {
	return "user_contact"
}
