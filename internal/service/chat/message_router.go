package chat

import (
	"context"
	"time"

	"relay_chat_server/internal/dao/mysql/repository"
	myredis "relay_chat_server/internal/dao/redis"
	"relay_chat_server/internal/dto/request"
	"relay_chat_server/internal/dto/respond"
	"relay_chat_server/internal/model"
	"relay_chat_server/pkg/constants"
	"relay_chat_server/pkg/errorx"
	"relay_chat_server/pkg/util/snowflake"

	"go.uber.org/zap"
)

// MessageRouter 先持久化再实时投递
// 持久化失败直接返回错误且不投递；投递失败只记录日志，消息可通过历史记录取回
type MessageRouter struct {
	messages repository.MessageRepository
	registry *ConnRegistry
	rooms    *RoomManager
	cache    myredis.CacheService // 可为空
}

// NewMessageRouter 创建消息路由
func NewMessageRouter(messages repository.MessageRepository, registry *ConnRegistry, rooms *RoomManager, cache myredis.CacheService) *MessageRouter {
	return &MessageRouter{
		messages: messages,
		registry: registry,
		rooms:    rooms,
		cache:    cache,
	}
}

// SendDirect 发送单聊消息
func (r *MessageRouter) SendDirect(ctx context.Context, req *request.SendDirectRequest) error {
	if req == nil {
		return errorx.ErrInvalidParam
	}
	if err := validate(req); err != nil {
		return errorx.Wrap(err, errorx.CodeInvalidParam, "单聊消息参数错误")
	}

	conversationId := ConversationId(req.SendId, req.ReceiveId)
	message := model.Message{
		Uuid:           snowflake.GenerateID(),
		ConversationId: conversationId,
		SendId:         req.SendId,
		ReceiveId:      req.ReceiveId,
		Content:        req.Content,
		SendTime:       req.SendTime,
		Url:            req.Url,
		FileType:       req.FileType,
		FileName:       req.FileName,
		Kind:           model.MessageKindDirect,
	}
	if err := r.persist(ctx, &message); err != nil {
		return err
	}

	session, ok := r.registry.Resolve(req.ReceiveId)
	if !ok {
		zap.L().Debug("direct message stored, receiver offline",
			zap.String("conversation_id", conversationId), zap.Int64("uuid", message.Uuid))
		return nil
	}
	evt := Envelope{
		Event: EventDirectMessage,
		Data: respond.DirectMessageRespond{
			SendId:    req.SendId,
			ReceiveId: req.ReceiveId,
			Content:   req.Content,
			SendTime:  req.SendTime,
			Url:       req.Url,
			FileType:  req.FileType,
			FileName:  req.FileName,
		},
	}
	if !session.Push(evt) {
		zap.L().Warn("direct message live delivery dropped",
			zap.String("receive_id", req.ReceiveId), zap.Int64("uuid", message.Uuid))
	}
	return nil
}

// SendGroup 发送群聊消息，返回实时投递的连接数
// excludeHandle 为空时按注册表查找发送者自己的连接并排除
func (r *MessageRouter) SendGroup(ctx context.Context, req *request.SendGroupRequest, excludeHandle string) (int, error) {
	if req == nil {
		return 0, errorx.ErrInvalidParam
	}
	if err := validate(req); err != nil {
		return 0, errorx.Wrap(err, errorx.CodeInvalidParam, "群聊消息参数错误")
	}

	message := model.Message{
		Uuid:           snowflake.GenerateID(),
		ConversationId: req.GroupId,
		SendId:         req.SendId,
		SendName:       req.SendName,
		Content:        req.Content,
		SendTime:       req.SendTime,
		Url:            req.Url,
		FileType:       req.FileType,
		FileName:       req.FileName,
		Kind:           model.MessageKindGroup,
	}
	if err := r.persist(ctx, &message); err != nil {
		return 0, err
	}

	if excludeHandle == "" {
		if s, ok := r.registry.Resolve(req.SendId); ok {
			excludeHandle = s.Handle()
		}
	}
	evt := Envelope{
		Event: EventGroupMessageIn,
		Data: respond.GroupMessageRespond{
			SendId:   req.SendId,
			SendName: req.SendName,
			Content:  req.Content,
			SendTime: req.SendTime,
			GroupId:  req.GroupId,
			Url:      req.Url,
			FileType: req.FileType,
			FileName: req.FileName,
		},
	}
	delivered := r.rooms.Broadcast(req.GroupId, evt, excludeHandle)
	zap.L().Debug("group message relayed",
		zap.String("group_id", req.GroupId), zap.Int64("uuid", message.Uuid), zap.Int("delivered", delivered))
	return delivered, nil
}

// persist 写库成功后递增会话版本号并删除首页缓存
// 版本号必须在写库之后递增，正在回填的旧首页因版本不一致不会再被命中
func (r *MessageRouter) persist(ctx context.Context, message *model.Message) error {
	if err := r.messages.Create(ctx, message); err != nil {
		zap.L().Error("persist message failed",
			zap.String("conversation_id", message.ConversationId), zap.Error(err))
		return errorx.Wrap(err, errorx.CodePersistenceUnavailable, "消息持久化失败")
	}
	if r.cache != nil {
		versionKey := myredis.HistoryVersionKey(message.ConversationId)
		if _, err := r.cache.Incr(ctx, versionKey, constants.HISTORY_VERSION_TTL*time.Hour); err != nil {
			zap.L().Warn("bump history version failed",
				zap.String("conversation_id", message.ConversationId), zap.Error(err))
		}
		if err := r.cache.Delete(ctx, myredis.HistoryPageKey(message.ConversationId)); err != nil {
			zap.L().Warn("invalidate history cache failed",
				zap.String("conversation_id", message.ConversationId), zap.Error(err))
		}
	}
	return nil
}
