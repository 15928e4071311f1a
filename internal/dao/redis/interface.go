// Package redis 定义缓存服务接口及其 Redis 实现
// Service 层依赖此接口而非具体 Redis 客户端
package redis

import (
	"context"
	"time"
)

// CacheService 缓存服务接口
type CacheService interface {
	// Set 设置键值对并指定过期时间
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	// Get 获取键对应的值（键不存在返回空字符串和 nil）
	Get(ctx context.Context, key string) (string, error)
	// Delete 删除键（不存在时为空操作）
	Delete(ctx context.Context, key string) error
	// Incr 计数加一并刷新过期时间，返回新值
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

// AsyncCacheService 在 CacheService 基础上提供异步任务提交
// 用于回填缓存这类不应阻塞请求的写操作
type AsyncCacheService interface {
	CacheService
	// SubmitTask 提交异步缓存任务，队列满时同步执行
	SubmitTask(action func())
}

// HistoryPageKey 会话首页历史消息的缓存键
func HistoryPageKey(conversationId string) string {
	return "message_page_" + conversationId
}

// HistoryVersionKey 会话写入版本号，每条新消息落库后加一
// 首页缓存只在版本号一致时命中
func HistoryVersionKey(conversationId string) string {
	return "message_page_version_" + conversationId
}
