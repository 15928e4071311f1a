// Package service 提供业务逻辑层
// 本文件实现 Service 层的依赖注入和聚合
package service

import (
	"time"

	"relay_chat_server/internal/config"
	"relay_chat_server/internal/dao/mysql/repository"
	myredis "relay_chat_server/internal/dao/redis"
	"relay_chat_server/internal/service/chat"
	"relay_chat_server/internal/service/history"
)

// Services 聚合所有 Service 实例
// Handler 层通过构造函数拿到具体接口
type Services struct {
	Relay   RelayService   // 实时中转
	History HistoryService // 历史消息
}

// NewServices 创建并注入所有 Service 实例
// relay: 已启动分发循环的聊天服务器
// cache: 可为空，为空时历史消息不走缓存
func NewServices(repos *repository.Repositories, relay *chat.ChatServer, cache myredis.AsyncCacheService, cfg config.HistoryConfig) *Services {
	ttl := time.Duration(cfg.CacheMinutes) * time.Minute
	return &Services{
		Relay:   relay,
		History: history.NewHistoryService(repos.Message, cache, cfg.PageSize, ttl),
	}
}
