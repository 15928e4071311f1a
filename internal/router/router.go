// Package router 提供 HTTP 路由注册
// 本文件是路由注册的入口，聚合所有子模块的路由
package router

import (
	"relay_chat_server/internal/handler"
	"relay_chat_server/internal/infrastructure/middleware"

	"github.com/gin-gonic/gin"
)

// Router 路由管理器，持有 Handler 聚合
type Router struct {
	handlers *handler.Handlers
}

// NewRouter 创建路由管理器
func NewRouter(handlers *handler.Handlers) *Router {
	return &Router{handlers: handlers}
}

// RegisterRoutes 注册所有路由
// 在 https_server.Init() 中调用
func (rt *Router) RegisterRoutes(r *gin.Engine) {
	// 公开路由
	r.GET("/ping", rt.handlers.Ws.Ping)

	// 以下路由需要 JWT 认证，WebSocket 通过 ?token= 传递
	authed := r.Group("/", middleware.JWTAuth())
	rt.RegisterWebSocketRoutes(authed)
	rt.RegisterMessageRoutes(authed)
	rt.RegisterGroupRoutes(authed)
	rt.RegisterPresenceRoutes(authed)
}
