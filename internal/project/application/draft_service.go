package application

import (
	"context"
	"time"

	"github.com/fangzhou-tech/flipops/internal/project/domain"
	"github.com/fangzhou-tech/flipops/pkg/errs"
)

// 录入表单草稿的保留时长与键名
const (
	draftForm = "project_create"
	draftTTL  = 7 * 24 * time.Hour
)

// DraftService 项目录入表单的草稿服务，
// 存储实现可替换，领域逻辑不感知持久化细节
type DraftService struct {
	store domain.DraftStore
}

// NewDraftService 创建草稿服务实例
func NewDraftService(store domain.DraftStore) *DraftService {
	return &DraftService{store: store}
}

// Get 读取当前用户的草稿，不存在返回 errs.ErrNotFound
func (s *DraftService) Get(ctx context.Context, userID uint) ([]byte, error) {
	if s.store == nil {
		return nil, errs.ErrNotFound
	}
	return s.store.Get(ctx, domain.DraftKey(userID, draftForm))
}

// Save 保存当前用户的草稿
func (s *DraftService) Save(ctx context.Context, userID uint, payload []byte) error {
	if len(payload) == 0 {
		return errs.Validation("draft", "draft payload is required")
	}
	return s.store.Set(ctx, domain.DraftKey(userID, draftForm), payload, draftTTL)
}

// Clear 清除当前用户的草稿
func (s *DraftService) Clear(ctx context.Context, userID uint) error {
	return s.store.Clear(ctx, domain.DraftKey(userID, draftForm))
}
