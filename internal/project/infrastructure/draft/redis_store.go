// Package draft 提供录入表单草稿的 Redis 存储实现
package draft

import (
	"context"
	"errors"
	"time"

	"github.com/fangzhou-tech/flipops/internal/project/domain"
	"github.com/fangzhou-tech/flipops/pkg/errs"
	"github.com/redis/go-redis/v9"
)

type redisDraftStore struct {
	client *redis.Client
}

// NewRedisDraftStore 创建 Redis 草稿存储
func NewRedisDraftStore(client *redis.Client) domain.DraftStore {
	return &redisDraftStore{client: client}
}

func (s *redisDraftStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, errs.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (s *redisDraftStore) Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	return s.client.Set(ctx, key, payload, ttl).Err()
}

func (s *redisDraftStore) Clear(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}
