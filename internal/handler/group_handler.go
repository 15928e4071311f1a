// Package handler 提供 HTTP 请求处理器
// 本文件处理群聊房间相关的 API 请求
package handler

import (
	"relay_chat_server/internal/dto/request"
	"relay_chat_server/internal/dto/respond"
	"relay_chat_server/internal/service"

	"github.com/gin-gonic/gin"
)

// GroupHandler 群聊房间请求处理器
type GroupHandler struct {
	relaySvc   service.RelayService
	historySvc service.HistoryService
}

// NewGroupHandler 创建群聊房间处理器实例
func NewGroupHandler(relaySvc service.RelayService, historySvc service.HistoryService) *GroupHandler {
	return &GroupHandler{relaySvc: relaySvc, historySvc: historySvc}
}

// JoinRoom 把当前用户的长连接加入房间，并返回该群最新一页历史
// POST /group/joinRoom
// 请求体: request.JoinRoomRequest
// 响应: respond.JoinRoomRespond
func (h *GroupHandler) JoinRoom(c *gin.Context) {
	var req request.JoinRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	attached := h.relaySvc.JoinRoom(currentUser(c), req.GroupId)
	history, err := h.historySvc.InitialHistory(c.Request.Context(), req.GroupId)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, respond.JoinRoomRespond{
		GroupId:  req.GroupId,
		Attached: attached,
		History:  history,
	})
}
