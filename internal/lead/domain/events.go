package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// EventPublisher 领域事件发布接口
type EventPublisher interface {
	Publish(ctx context.Context, topic string, key string, event any) error
}

// LeadCreatedEvent 线索创建事件
type LeadCreatedEvent struct {
	LeadID     uint            `json:"lead_id"`
	Community  string          `json:"community"`
	District   string          `json:"district"`
	TotalPrice decimal.Decimal `json:"total_price"`
	Area       decimal.Decimal `json:"area"`
	CreatorID  uint            `json:"creator_id"`
	Timestamp  time.Time       `json:"timestamp"`
}

// LeadStatusChangedEvent 线索状态变更事件
type LeadStatusChangedEvent struct {
	LeadID     uint      `json:"lead_id"`
	FromStatus Status    `json:"from_status"`
	ToStatus   Status    `json:"to_status"`
	Reason     string    `json:"reason,omitempty"`
	ChangedBy  uint      `json:"changed_by"`
	Timestamp  time.Time `json:"timestamp"`
}

// FollowUpAddedEvent 跟进添加事件
type FollowUpAddedEvent struct {
	LeadID     uint           `json:"lead_id"`
	FollowUpID uint           `json:"follow_up_id"`
	Method     FollowUpMethod `json:"method"`
	AuthorID   uint           `json:"author_id"`
	Timestamp  time.Time      `json:"timestamp"`
}
