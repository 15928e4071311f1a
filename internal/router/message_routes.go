// Package router 提供 HTTP 路由注册
// 本文件定义消息相关的路由
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterMessageRoutes 注册消息相关路由（需要认证）
// 包括消息发送和历史消息分页
func (rt *Router) RegisterMessageRoutes(rg *gin.RouterGroup) {
	messageGroup := rg.Group("/message")
	{
		messageGroup.POST("/sendDirect", rt.handlers.Message.SendDirect)              // 发送单聊消息
		messageGroup.POST("/sendGroup", rt.handlers.Message.SendGroup)                // 发送群聊消息
		messageGroup.GET("/getInitialHistory", rt.handlers.Message.GetInitialHistory) // 会话最新一页
		messageGroup.GET("/getHistoryBefore", rt.handlers.Message.GetHistoryBefore)   // 按 cursor 向前翻页
	}
}
