// Package model 定义数据库实体模型
// 本文件定义消息模型，单聊和群聊消息共用一张表
package model

import (
	"gorm.io/gorm"
)

// 消息类别
const (
	MessageKindDirect int8 = 0 // 单聊
	MessageKindGroup  int8 = 1 // 群聊
)

// Message 消息模型，对应 message 表
// 写入后不再修改，分页排序键为 send_time，相同时间按 id 倒序
type Message struct {
	gorm.Model

	// Uuid 雪花算法生成的消息 ID
	Uuid int64 `gorm:"column:uuid;uniqueIndex;type:bigint;not null;comment:消息雪花ID"`

	// ConversationId 会话 ID
	// 单聊为两个用户 ID 排序后以 "_" 连接，群聊为群 ID
	ConversationId string `gorm:"column:conversation_id;type:varchar(128);not null;index:idx_conversation_time,priority:1;comment:会话id"`

	SendId   string `gorm:"column:send_id;index;type:varchar(64);not null;comment:发送者id"`
	SendName string `gorm:"column:send_name;type:varchar(64);comment:发送者昵称"`

	// ReceiveId 单聊时为接收者 ID，群聊时为空
	ReceiveId string `gorm:"column:receive_id;type:varchar(64);comment:接收者id"`

	Content string `gorm:"column:content;type:TEXT;comment:消息内容"`

	// SendTime 客户端提供的毫秒时间戳
	SendTime int64 `gorm:"column:send_time;not null;index:idx_conversation_time,priority:2;comment:发送时间(ms)"`

	// 附件引用，内容由外部存储负责，这里只原样保存
	Url      string `gorm:"column:url;type:varchar(255);comment:附件url"`
	FileType string `gorm:"column:file_type;type:varchar(50);comment:文件类型"`
	FileName string `gorm:"column:file_name;type:varchar(255);comment:文件名"`

	Kind int8 `gorm:"column:kind;not null;default:0;comment:类别，0.单聊，1.群聊"`
}

// TableName 指定表名
func (Message) TableName() string {
	return "message"
}
