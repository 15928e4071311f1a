package redis

import (
	"context"
	"errors"
	"sync"
	"time"

	"relay_chat_server/pkg/errorx"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisCache 同时实现 CacheService 和 AsyncCacheService
// 历史服务只需要同步读写，写入回填交给 worker pool
type RedisCache struct {
	client    *redis.Client
	taskChan  chan func()
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// NewRedisCache 创建 Redis 缓存实例并启动 workerNum 个 Worker
func NewRedisCache(client *redis.Client, workerNum, taskChanSize int) *RedisCache {
	rc := &RedisCache{
		client:   client,
		taskChan: make(chan func(), taskChanSize),
	}
	for i := 0; i < workerNum; i++ {
		rc.wg.Add(1)
		go rc.startWorker()
	}
	zap.L().Info("Redis Cache Workers started", zap.Int("workers", workerNum), zap.Int("buffer", taskChanSize))
	return rc
}

func (r *RedisCache) startWorker() {
	defer r.wg.Done()
	for task := range r.taskChan {
		r.runTask(task)
	}
}

// runTask 单个任务 panic 不影响 Worker 继续消费
func (r *RedisCache) runTask(task func()) {
	defer func() {
		if rec := recover(); rec != nil {
			zap.L().Error("Redis Worker panic", zap.Any("recover", rec))
		}
	}()
	if task != nil {
		task()
	}
}

// SubmitTask 提交异步缓存任务
func (r *RedisCache) SubmitTask(action func()) {
	select {
	case r.taskChan <- action:
	default:
		// 降级：同步执行
		zap.L().Warn("Redis cache task channel full, executing synchronously")
		r.runTask(action)
	}
}

// Set 设置键值对并指定过期时间
func (r *RedisCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return errorx.Wrapf(err, errorx.CodeCacheError, "redis set key %s", key)
	}
	return nil
}

// Get 获取键对应的值
func (r *RedisCache) Get(ctx context.Context, key string) (string, error) {
	value, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", errorx.Wrapf(err, errorx.CodeCacheError, "redis get key %s", key)
	}
	return value, nil
}

// Delete 删除键
func (r *RedisCache) Delete(ctx context.Context, key string) error {
	if err := r.client.Unlink(ctx, key).Err(); err != nil {
		return errorx.Wrapf(err, errorx.CodeCacheError, "redis unlink key %s", key)
	}
	return nil
}

// Incr 在同一个 pipeline 里执行 INCR 和 EXPIRE
func (r *RedisCache) Incr(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	var incr *redis.IntCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, ttl)
		return nil
	})
	if err != nil {
		return 0, errorx.Wrapf(err, errorx.CodeCacheError, "redis incr key %s", key)
	}
	return incr.Val(), nil
}

// Close 等待队列中的任务执行完后关闭客户端
func (r *RedisCache) Close() error {
	var err error
	r.closeOnce.Do(func() {
		close(r.taskChan)
		r.wg.Wait()
		err = r.client.Close()
	})
	return err
}
