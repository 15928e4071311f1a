// Package router 提供 HTTP 路由注册
// 本文件定义 WebSocket 和在线状态相关的路由
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterWebSocketRoutes 注册 WebSocket 相关路由（需要认证）
func (rt *Router) RegisterWebSocketRoutes(rg *gin.RouterGroup) {
	// 请求示例: ws://host:port/wss?token=xxx
	rg.GET("/wss", rt.handlers.Ws.WsLogin)
	rg.POST("/ws/logout", rt.handlers.Ws.WsLogout)
}

// RegisterPresenceRoutes 注册在线状态路由（需要认证）
func (rt *Router) RegisterPresenceRoutes(rg *gin.RouterGroup) {
	rg.POST("/presence/poll", rt.handlers.Presence.Poll) // 向好友重新广播自己的状态
}
