// Package handler 提供 HTTP 请求处理器
// 本文件处理消息发送和历史消息查询
package handler

import (
	"relay_chat_server/internal/dto/request"
	"relay_chat_server/internal/dto/respond"
	"relay_chat_server/internal/service"
	"relay_chat_server/pkg/errorx"

	"github.com/gin-gonic/gin"
)

// MessageHandler 消息请求处理器
type MessageHandler struct {
	relaySvc   service.RelayService
	historySvc service.HistoryService
}

// NewMessageHandler 创建消息处理器实例
func NewMessageHandler(relaySvc service.RelayService, historySvc service.HistoryService) *MessageHandler {
	return &MessageHandler{relaySvc: relaySvc, historySvc: historySvc}
}

// SendDirect 发送单聊消息
// POST /message/sendDirect
// 请求体: request.SendDirectRequest，send_id 必须是当前登录用户
func (h *MessageHandler) SendDirect(c *gin.Context) {
	var req request.SendDirectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if req.SendId != currentUser(c) {
		HandleError(c, errorx.ErrUnauthorized)
		return
	}
	if err := h.relaySvc.SendDirect(c.Request.Context(), &req); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// SendGroup 发送群聊消息
// POST /message/sendGroup
// 响应: respond.SendGroupRespond，delivered 为实时送达的房间连接数
func (h *MessageHandler) SendGroup(c *gin.Context) {
	var req request.SendGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if req.SendId != currentUser(c) {
		HandleError(c, errorx.ErrUnauthorized)
		return
	}
	n, err := h.relaySvc.SendGroup(c.Request.Context(), &req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, respond.SendGroupRespond{Delivered: n})
}

// GetInitialHistory 获取会话最新一页消息
// GET /message/getInitialHistory?conversation_id=g1
// GET /message/getInitialHistory?user_one_id=u1&user_two_id=u2
// 响应: []respond.HistoryMessageRespond
func (h *MessageHandler) GetInitialHistory(c *gin.Context) {
	var req request.HistoryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	var (
		data []respond.HistoryMessageRespond
		err  error
	)
	if req.ConversationId != "" {
		data, err = h.historySvc.InitialHistory(c.Request.Context(), req.ConversationId)
	} else {
		data, err = h.historySvc.DirectInitialHistory(c.Request.Context(), req.UserOneId, req.UserTwoId)
	}
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// GetHistoryBefore 以 cursor 向前翻页
// GET /message/getHistoryBefore?conversation_id=g1&cursor=1700000000000
func (h *MessageHandler) GetHistoryBefore(c *gin.Context) {
	var req request.HistoryBeforeRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	var (
		data []respond.HistoryMessageRespond
		err  error
	)
	if req.ConversationId != "" {
		data, err = h.historySvc.PageBefore(c.Request.Context(), req.ConversationId, req.Cursor)
	} else {
		data, err = h.historySvc.DirectPageBefore(c.Request.Context(), req.UserOneId, req.UserTwoId, req.Cursor)
	}
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}
