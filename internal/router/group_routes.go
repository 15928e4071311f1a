// Package router 提供 HTTP 路由注册
// 本文件定义群聊房间相关的路由
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterGroupRoutes 注册群聊房间路由（需要认证）
func (rt *Router) RegisterGroupRoutes(rg *gin.RouterGroup) {
	groupGroup := rg.Group("/group")
	{
		groupGroup.POST("/joinRoom", rt.handlers.Group.JoinRoom) // 加入房间并返回最新历史
	}
}
