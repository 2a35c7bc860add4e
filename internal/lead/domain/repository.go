package domain

import "context"

// LeadFilter 线索列表过滤条件
type LeadFilter struct {
	Status   Status
	District string
	Creator  uint
	Limit    int
	Offset   int
}

// LeadRepository 线索仓储接口
type LeadRepository interface {
	Save(ctx context.Context, lead *Lead) error
	GetByID(ctx context.Context, id uint) (*Lead, error)
	List(ctx context.Context, filter LeadFilter) ([]*Lead, int64, error)
	Delete(ctx context.Context, id uint) error
	SaveHistory(ctx context.Context, h *StatusHistory) error
	ListHistory(ctx context.Context, leadID uint) ([]*StatusHistory, error)
	// WithTx 在单个事务中执行 fn，fn 收到绑定事务的仓储
	WithTx(ctx context.Context, fn func(txRepo LeadRepository) error) error
}

// FollowUpRepository 跟进记录仓储接口
type FollowUpRepository interface {
	Save(ctx context.Context, f *FollowUp) error
	ListByLead(ctx context.Context, leadID uint) ([]*FollowUp, error)
}
