package domain

import (
	"context"
	"fmt"
	"time"
)

// EventPublisher 领域事件发布接口
type EventPublisher interface {
	// Publish 发布一个事件到指定 topic
	Publish(ctx context.Context, topic string, key string, event any) error
}

// ProjectFilter 项目列表过滤条件
type ProjectFilter struct {
	Stage     Stage
	Community string
	Manager   string
	Limit     int
	Offset    int
}

// ProjectRepository 项目仓储接口
type ProjectRepository interface {
	// 保存项目
	Save(ctx context.Context, project *Project) error
	// 获取项目
	Get(ctx context.Context, id uint) (*Project, error)
	// 获取项目及全部子记录
	GetFull(ctx context.Context, id uint) (*Project, error)
	// 项目列表
	List(ctx context.Context, filter ProjectFilter) ([]*Project, int64, error)
	// 指定阶段的项目列表，用于到期扫描
	ListByStage(ctx context.Context, stage Stage) ([]*Project, error)
	// 写入阶段变更历史
	SaveHistory(ctx context.Context, history *StatusHistory) error
	// 阶段变更历史，按时间倒序
	ListHistory(ctx context.Context, projectID uint) ([]*StatusHistory, error)
	// 在事务中执行 fn，fn 内拿到绑定事务的仓储
	WithTx(ctx context.Context, fn func(txRepo ProjectRepository) error) error
}

// AttachmentRepository 附件仓储接口
type AttachmentRepository interface {
	Save(ctx context.Context, attachment *Attachment) error
	ListByProject(ctx context.Context, projectID uint) ([]*Attachment, error)
}

// PhotoRepository 装修照片仓储接口
type PhotoRepository interface {
	Save(ctx context.Context, photo *RenovationPhoto) error
	ListByProject(ctx context.Context, projectID uint) ([]*RenovationPhoto, error)
	CountBySubStage(ctx context.Context, projectID uint, subStage SubStage) (int64, error)
}

// SalesRecordRepository 销售动态仓储接口
type SalesRecordRepository interface {
	Save(ctx context.Context, record *SalesRecord) error
	ListByProject(ctx context.Context, projectID uint) ([]*SalesRecord, error)
}

// DraftStore 项目录入表单草稿的可注入存储，
// 把草稿持久化挡在领域逻辑之外（可替换的适配器）
type DraftStore interface {
	// Get 读取草稿，不存在返回 errs.ErrNotFound
	Get(ctx context.Context, key string) ([]byte, error)
	// Set 写入草稿
	Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error
	// Clear 清除草稿
	Clear(ctx context.Context, key string) error
}

// DraftKey 草稿键：按用户与表单隔离
func DraftKey(userID uint, form string) string {
	return fmt.Sprintf("draft:%s:%d", form, userID)
}
