// Package https_server 提供 HTTP/HTTPS 服务器的初始化和配置
// 负责创建 Gin 引擎实例并配置中间件和路由
package https_server

import (
	"relay_chat_server/internal/config"
	"relay_chat_server/internal/handler"
	"relay_chat_server/internal/infrastructure/logger"
	"relay_chat_server/internal/infrastructure/middleware"
	"relay_chat_server/internal/router"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Init 创建 Gin 引擎
// 配置顺序：日志和恢复中间件、CORS、可选的 TLS 重定向、业务路由
func Init(cfg *config.Config, handlers *handler.Handlers) *gin.Engine {
	if cfg.MainConfig.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()

	engine.Use(logger.GinLogger())
	engine.Use(logger.GinRecovery(true))

	corsConfig := cors.DefaultConfig()
	if len(cfg.SecurityConfig.AllowOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.SecurityConfig.AllowOrigins
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	engine.Use(cors.New(corsConfig))

	// 由 Nginx 处理 SSL 时在配置中关闭
	if cfg.SecurityConfig.TLSRedirect {
		engine.Use(middleware.TlsHandler(cfg.MainConfig.Host, cfg.MainConfig.Port))
	}

	router.NewRouter(handlers).RegisterRoutes(engine)
	return engine
}
