package redis

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"relay_chat_server/internal/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	workerNum    = 15
	taskChanSize = 3000
)

// Init 创建 Redis 客户端和缓存服务
// redisConfig.enabled 为 false 时返回 nil，历史消息直接查库
func Init(ctx context.Context, cfg *config.RedisConfig) (*RedisCache, error) {
	if !cfg.Enabled {
		zap.L().Info("Redis cache disabled")
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:         net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Password:     cfg.Password,
		DB:           cfg.Db,
		PoolSize:     50,
		MinIdleConns: workerNum,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", client.Options().Addr, err)
	}

	return NewRedisCache(client, workerNum, taskChanSize), nil
}
