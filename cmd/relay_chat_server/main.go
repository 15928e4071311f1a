package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"relay_chat_server/internal/config"
	dao "relay_chat_server/internal/dao/mysql"
	myredis "relay_chat_server/internal/dao/redis"
	"relay_chat_server/internal/handler"
	"relay_chat_server/internal/https_server"
	"relay_chat_server/internal/infrastructure/logger"
	"relay_chat_server/internal/service"
	"relay_chat_server/internal/service/chat"
	"relay_chat_server/pkg/util/jwt"
	"relay_chat_server/pkg/util/snowflake"

	"go.uber.org/zap"
)

func main() {
	// 1. 加载配置
	conf := config.GetConfig()

	// 2. 初始化日志
	if err := logger.Init(&conf.LogConfig, conf.MainConfig.Mode); err != nil {
		log.Fatalf("init logger failed: %v", err)
	}
	defer func() { _ = zap.L().Sync() }()
	zap.L().Info("日志初始化成功")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3. 初始化 JWT、雪花 ID、参数校验翻译
	jwt.Init(conf.JWTConfig.Secret, conf.JWTConfig.AccessTokenExpiry)
	snowflake.Init(conf.SnowflakeConfig.MachineID)
	if err := handler.InitTrans("zh"); err != nil {
		zap.L().Fatal("init validator translator failed", zap.Error(err))
	}

	// 4. 初始化数据库
	repos, err := dao.Init(&conf.DatabaseConfig, conf.MainConfig.Mode)
	if err != nil {
		zap.L().Fatal("数据库初始化失败", zap.Error(err))
	}
	zap.L().Info("数据库初始化成功", zap.String("driver", conf.DatabaseConfig.Driver))

	// 5. 初始化 Redis（可选）
	var cache myredis.AsyncCacheService
	redisCache, err := myredis.Init(ctx, &conf.RedisConfig)
	if err != nil {
		zap.L().Fatal("Redis 初始化失败", zap.Error(err))
	}
	if redisCache != nil {
		cache = redisCache
		defer func() { _ = redisCache.Close() }()
		zap.L().Info("Redis 初始化成功")
	}

	// 6. 初始化 ChatServer
	var broker chat.MessageBroker
	if conf.KafkaConfig.MessageMode == "kafka" {
		broker = chat.NewKafkaBroker(conf.KafkaConfig)
		zap.L().Info("使用 Kafka 转发上行帧", zap.String("topic", conf.KafkaConfig.ChatTopic))
	}
	chatServer := chat.NewChatServer(chat.ChatServerConfig{
		MessageRepo:  repos.Message,
		ContactRepo:  repos.Contact,
		Cache:        cache,
		Broker:       broker,
		AllowOrigins: conf.SecurityConfig.AllowOrigins,
	})
	go chatServer.Start(ctx)
	zap.L().Info("ChatServer 初始化成功")

	// 7. 初始化 Service、Handler 和 HTTP 服务器
	services := service.NewServices(repos, chatServer, cache, conf.HistoryConfig)
	engine := https_server.Init(conf, handler.NewHandlers(services))
	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", conf.MainConfig.Host, conf.MainConfig.Port),
		Handler: engine,
	}

	go func() {
		zap.L().Info("服务启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Fatal("server running fault", zap.Error(err))
		}
	}()

	// 等待信号
	<-ctx.Done()
	zap.L().Info("关闭服务器...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.L().Error("server shutdown error", zap.Error(err))
	}
	if err := chatServer.Close(); err != nil {
		zap.L().Error("close message broker error", zap.Error(err))
	}
	zap.L().Info("服务器已关闭")
}
