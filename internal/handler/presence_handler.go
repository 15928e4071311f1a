package handler

import (
	"relay_chat_server/internal/dto/respond"
	"relay_chat_server/internal/service"

	"github.com/gin-gonic/gin"
)

// PresenceHandler 在线状态请求处理器
type PresenceHandler struct {
	relaySvc service.RelayService
}

func NewPresenceHandler(relaySvc service.RelayService) *PresenceHandler {
	return &PresenceHandler{relaySvc: relaySvc}
}

// Poll 向好友重新广播当前用户的在线状态
// POST /presence/poll
// 响应: respond.PresenceChangeRespond
func (h *PresenceHandler) Poll(c *gin.Context) {
	userId := currentUser(c)
	status, err := h.relaySvc.PollStatus(c.Request.Context(), userId)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, respond.PresenceChangeRespond{UserId: userId, Status: status})
}
