// Package cache 提供项目详情的 Redis 读缓存
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fangzhou-tech/flipops/internal/project/application"
	pkgcache "github.com/fangzhou-tech/flipops/pkg/cache"
	"github.com/fangzhou-tech/flipops/pkg/logger"
)

// 缓存 TTL 较短，写操作后还会整体失效
const detailTTL = 5 * time.Minute

type redisProjectCache struct {
	cache *pkgcache.RedisCache
}

// NewRedisProjectCache 创建项目详情缓存
func NewRedisProjectCache(cache *pkgcache.RedisCache) application.ProjectCache {
	return &redisProjectCache{cache: cache}
}

func detailKey(projectID uint) string {
	return fmt.Sprintf("project:detail:%d", projectID)
}

func (c *redisProjectCache) Get(ctx context.Context, projectID uint) (*application.ProjectDetailDTO, bool) {
	var detail application.ProjectDetailDTO
	err := c.cache.GetJSON(ctx, detailKey(projectID), &detail)
	if errors.Is(err, pkgcache.ErrMiss) {
		return nil, false
	}
	if err != nil {
		logger.Warn(ctx, "Project cache read failed", "project_id", projectID, "error", err)
		return nil, false
	}
	return &detail, true
}

func (c *redisProjectCache) Set(ctx context.Context, projectID uint, detail *application.ProjectDetailDTO) {
	if err := c.cache.SetJSON(ctx, detailKey(projectID), detail, detailTTL); err != nil {
		logger.Warn(ctx, "Project cache write failed", "project_id", projectID, "error", err)
	}
}

func (c *redisProjectCache) Invalidate(ctx context.Context, projectID uint) {
	if err := c.cache.Delete(ctx, detailKey(projectID)); err != nil {
		logger.Warn(ctx, "Project cache invalidation failed", "project_id", projectID, "error", err)
	}
}
