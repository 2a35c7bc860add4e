// Package ratelimit 基于 Redis 的限流，用于登录等敏感接口的防爆破
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis_rate/v10"
	"github.com/redis/go-redis/v9"
)

// Limiter 限流接口
type Limiter interface {
	// Allow 判断该 key 在给定规则下是否放行
	Allow(ctx context.Context, key string, limit Limit) (*Result, error)
}

// Limit 限流规则
type Limit struct {
	// 周期内允许的请求数
	Rate int
	// 统计周期
	Period time.Duration
	// 突发上限
	Burst int
}

// PerMinute 每分钟 n 次，突发等于速率
func PerMinute(n int) Limit {
	return Limit{Rate: n, Period: time.Minute, Burst: n}
}

// Result 限流判定结果
type Result struct {
	Allowed    bool
	Remaining  int
	ResetAfter time.Duration
	RetryAfter time.Duration
}

// RedisLimiter 基于 redis_rate（GCRA 算法）的实现
type RedisLimiter struct {
	limiter *redis_rate.Limiter
}

// NewRedisLimiter 创建 Redis 限流器
func NewRedisLimiter(rdb *redis.Client) *RedisLimiter {
	return &RedisLimiter{limiter: redis_rate.NewLimiter(rdb)}
}

// Allow 判断是否放行
func (r *RedisLimiter) Allow(ctx context.Context, key string, limit Limit) (*Result, error) {
	res, err := r.limiter.Allow(ctx, key, redis_rate.Limit{
		Rate:   limit.Rate,
		Period: limit.Period,
		Burst:  limit.Burst,
	})
	if err != nil {
		return nil, fmt.Errorf("rate limit check failed: %w", err)
	}

	return &Result{
		Allowed:    res.Allowed > 0,
		Remaining:  res.Remaining,
		ResetAfter: res.ResetAfter,
		RetryAfter: res.RetryAfter,
	}, nil
}
