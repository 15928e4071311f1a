// Package history 提供按会话倒序、以时间游标向前翻页的历史消息查询
package history

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"relay_chat_server/internal/dao/mysql/repository"
	myredis "relay_chat_server/internal/dao/redis"
	"relay_chat_server/internal/dto/respond"
	"relay_chat_server/internal/model"
	"relay_chat_server/internal/service/chat"
	"relay_chat_server/pkg/constants"
	"relay_chat_server/pkg/errorx"

	"go.uber.org/zap"
)

// historyService 历史消息业务实现
// 首页结果走 Redis 读穿缓存，翻页直接查库
type historyService struct {
	messages repository.MessageRepository
	cache    myredis.AsyncCacheService // 可为空
	pageSize int
	cacheTTL time.Duration
}

// NewHistoryService 构造函数，pageSize <= 0 时使用默认 15 条
func NewHistoryService(messages repository.MessageRepository, cache myredis.AsyncCacheService, pageSize int, cacheTTL time.Duration) *historyService {
	if pageSize <= 0 {
		pageSize = constants.HISTORY_PAGE_SIZE
	}
	if cacheTTL <= 0 {
		cacheTTL = constants.REDIS_TIMEOUT * time.Minute
	}
	return &historyService{
		messages: messages,
		cache:    cache,
		pageSize: pageSize,
		cacheTTL: cacheTTL,
	}
}

// InitialHistory 会话最新一页消息，新消息在前
// 会话不存在时返回空列表
func (h *historyService) InitialHistory(ctx context.Context, conversationId string) ([]respond.HistoryMessageRespond, error) {
	if conversationId == "" {
		return nil, errorx.New(errorx.CodeInvalidParam, "会话ID不能为空")
	}

	// 版本号必须在查库之前读取
	version, cacheable := h.currentVersion(ctx, conversationId)
	cacheKey := myredis.HistoryPageKey(conversationId)
	if cacheable {
		if cached, ok := h.loadCache(ctx, cacheKey, version); ok {
			return cached, nil
		}
	}

	messages, err := h.messages.FindLatest(ctx, conversationId, h.pageSize)
	if err != nil {
		zap.L().Error("find latest messages error", zap.String("conversation_id", conversationId), zap.Error(err))
		return nil, errorx.Wrap(err, errorx.CodePersistenceUnavailable, "查询历史消息失败")
	}
	rsp := toRespond(messages)
	if cacheable {
		h.storeCache(cacheKey, version, rsp)
	}
	return rsp, nil
}

// PageBefore send_time 严格小于 cursor 的一页消息，新消息在前
// cursor <= 0 时返回空列表
func (h *historyService) PageBefore(ctx context.Context, conversationId string, cursor int64) ([]respond.HistoryMessageRespond, error) {
	if conversationId == "" {
		return nil, errorx.New(errorx.CodeInvalidParam, "会话ID不能为空")
	}
	if cursor <= 0 {
		// 没有比它更早的消息
		return []respond.HistoryMessageRespond{}, nil
	}

	messages, err := h.messages.FindBefore(ctx, conversationId, cursor, h.pageSize)
	if err != nil {
		zap.L().Error("find messages before cursor error",
			zap.String("conversation_id", conversationId), zap.Int64("cursor", cursor), zap.Error(err))
		return nil, errorx.Wrap(err, errorx.CodePersistenceUnavailable, "查询历史消息失败")
	}
	return toRespond(messages), nil
}

// DirectInitialHistory 以单聊双方 ID 查询首页
func (h *historyService) DirectInitialHistory(ctx context.Context, userOneId, userTwoId string) ([]respond.HistoryMessageRespond, error) {
	if userOneId == "" || userTwoId == "" {
		return nil, errorx.New(errorx.CodeInvalidParam, "用户ID不能为空")
	}
	return h.InitialHistory(ctx, chat.ConversationId(userOneId, userTwoId))
}

// DirectPageBefore 以单聊双方 ID 向前翻页
func (h *historyService) DirectPageBefore(ctx context.Context, userOneId, userTwoId string, cursor int64) ([]respond.HistoryMessageRespond, error) {
	if userOneId == "" || userTwoId == "" {
		return nil, errorx.New(errorx.CodeInvalidParam, "用户ID不能为空")
	}
	return h.PageBefore(ctx, chat.ConversationId(userOneId, userTwoId), cursor)
}

// cachedPage 首页缓存内容，Version 为回填前读到的会话版本号
type cachedPage struct {
	Version  int64                           `json:"version"`
	Messages []respond.HistoryMessageRespond `json:"messages"`
}

// currentVersion 读取会话版本号，键不存在时为 0
// 读取失败时本次请求不使用缓存
func (h *historyService) currentVersion(ctx context.Context, conversationId string) (int64, bool) {
	if h.cache == nil {
		return 0, false
	}
	key := myredis.HistoryVersionKey(conversationId)
	raw, err := h.cache.Get(ctx, key)
	if err != nil {
		zap.L().Warn("redis get history version error", zap.String("key", key), zap.Error(err))
		return 0, false
	}
	if raw == "" {
		return 0, true
	}
	version, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		zap.L().Error("parse history version error", zap.String("key", key), zap.String("value", raw), zap.Error(err))
		return 0, false
	}
	return version, true
}

// loadCache 缓存出错、解析失败或版本不一致都视为未命中
func (h *historyService) loadCache(ctx context.Context, key string, version int64) ([]respond.HistoryMessageRespond, bool) {
	rspString, err := h.cache.Get(ctx, key)
	if err != nil {
		zap.L().Warn("redis get key error", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	if rspString == "" {
		return nil, false
	}
	var page cachedPage
	if err := json.Unmarshal([]byte(rspString), &page); err != nil {
		zap.L().Error("json unmarshal cache error", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	if page.Version != version {
		zap.L().Debug("stale history page", zap.String("key", key),
			zap.Int64("cached", page.Version), zap.Int64("current", version))
		return nil, false
	}
	return page.Messages, true
}

// storeCache 异步回填缓存
// 空列表不缓存，避免第一条消息写入前后读到旧结果
func (h *historyService) storeCache(key string, version int64, rsp []respond.HistoryMessageRespond) {
	if len(rsp) == 0 {
		return
	}
	data, err := json.Marshal(cachedPage{Version: version, Messages: rsp})
	if err != nil {
		zap.L().Error("json marshal history error", zap.Error(err))
		return
	}
	ttl := h.cacheTTL
	h.cache.SubmitTask(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := h.cache.Set(ctx, key, string(data), ttl); err != nil {
			zap.L().Warn("redis set history page error", zap.String("key", key), zap.Error(err))
		}
	})
}

func toRespond(messages []model.Message) []respond.HistoryMessageRespond {
	rsp := make([]respond.HistoryMessageRespond, 0, len(messages))
	for _, m := range messages {
		rsp = append(rsp, respond.HistoryMessageRespond{
			Uuid:           m.Uuid,
			ConversationId: m.ConversationId,
			SendId:         m.SendId,
			SendName:       m.SendName,
			ReceiveId:      m.ReceiveId,
			Content:        m.Content,
			SendTime:       m.SendTime,
			Url:            m.Url,
			FileType:       m.FileType,
			FileName:       m.FileName,
		})
	}
	return rsp
}
