// Package handler 提供 HTTP 请求处理器
// 本文件处理 WebSocket 连接相关的 API 请求
package handler

import (
	"relay_chat_server/internal/dto/respond"
	"relay_chat_server/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// WsHandler WebSocket 请求处理器
type WsHandler struct {
	relaySvc service.RelayService
}

// NewWsHandler 创建 WebSocket 处理器实例
func NewWsHandler(relaySvc service.RelayService) *WsHandler {
	return &WsHandler{relaySvc: relaySvc}
}

// WsLogin 升级为 WebSocket 连接
// GET /wss?token=xxx
// 功能:
//   - 用户已有活跃连接时不升级，直接返回 1012
//   - 升级成功后客户端需发送 register 帧完成注册
func (h *WsHandler) WsLogin(c *gin.Context) {
	userId := currentUser(c)
	if err := h.relaySvc.ServeWs(c, userId); err != nil {
		zap.L().Info("ws login rejected", zap.String("user_id", userId), zap.Error(err))
		HandleError(c, err)
	}
}

// WsLogout 主动下线
// POST /ws/logout
// 功能:
//   - 关闭当前用户的连接，退出所有房间并通知好友下线
func (h *WsHandler) WsLogout(c *gin.Context) {
	if err := h.relaySvc.Logout(c.Request.Context(), currentUser(c)); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// Ping 存活检查
// GET /ping
func (h *WsHandler) Ping(c *gin.Context) {
	HandleSuccess(c, respond.PingRespond{Message: "pong", Online: h.relaySvc.OnlineCount()})
}
