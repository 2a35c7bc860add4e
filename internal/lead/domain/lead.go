// Package domain 定义线索上下文的实体与业务规则
package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fangzhou-tech/flipops/pkg/errs"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// StringList 字符串列表，存为 JSON 列
type StringList []string

// Value 实现 driver.Valuer
func (s StringList) Value() (driver.Value, error) {
	if len(s) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan 实现 sql.Scanner
func (s *StringList) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported string list column type %T", value)
	}
	if len(data) == 0 {
		*s = nil
		return nil
	}
	return json.Unmarshal(data, s)
}

// Lead 收房线索
type Lead struct {
	gorm.Model
	Community    string          `gorm:"size:128;index" json:"community"`
	Layout       string          `gorm:"size:32" json:"layout"`
	Orientation  string          `gorm:"size:16" json:"orientation"`
	Floor        string          `gorm:"size:32" json:"floor"`
	Area         decimal.Decimal `gorm:"type:decimal(10,2)" json:"area"`
	TotalPrice   decimal.Decimal `gorm:"type:decimal(12,2)" json:"total_price"`
	UnitPrice    decimal.Decimal `gorm:"type:decimal(12,2)" json:"unit_price"`
	District     string          `gorm:"size:64;index" json:"district"`
	BusinessArea string          `gorm:"size:64" json:"business_area"`
	Remarks      string          `gorm:"type:text" json:"remarks"`
	Images       StringList      `gorm:"type:json" json:"images"`
	CreatorID    uint            `gorm:"index" json:"creator_id"`
	CreatorName  string          `gorm:"size:64" json:"creator_name"`

	Status          Status     `gorm:"size:32;index" json:"status"`
	StatusChangedAt time.Time  `json:"status_changed_at"`
	VisitDate       *time.Time `json:"visit_date,omitempty"`

	EvalPrice   *decimal.Decimal `gorm:"type:decimal(12,2)" json:"eval_price,omitempty"`
	AuditReason string           `gorm:"size:255" json:"audit_reason,omitempty"`
	AuditorID   *uint            `json:"auditor_id,omitempty"`
	AuditTime   *time.Time       `json:"audit_time,omitempty"`
}

// TableName 指定表名
func (Lead) TableName() string {
	return "leads"
}

// NewLead 创建新线索，单价未显式给出时按总价/面积推导
func NewLead(l *Lead) (*Lead, error) {
	if l.Community == "" {
		return nil, errs.Validation("community", "community is required")
	}
	if l.Area.Sign() <= 0 {
		return nil, errs.Validation("area", "area must be positive")
	}
	if l.TotalPrice.Sign() <= 0 {
		return nil, errs.Validation("total_price", "total price must be positive")
	}
	if l.Layout != "" {
		if _, ok := ParseLayout(l.Layout); !ok {
			return nil, errs.Validation("layout", "layout must match N室N厅N卫")
		}
	}
	if l.Floor != "" {
		if _, ok := ParseFloor(l.Floor); !ok {
			return nil, errs.Validation("floor", "floor must match current/total层")
		}
	}
	if !ValidOrientation(l.Orientation) {
		return nil, errs.Validation("orientation", "unknown orientation")
	}
	if l.UnitPrice.IsZero() {
		l.UnitPrice = LeadUnitPrice(l.TotalPrice, l.Area)
	}
	l.Status = StatusPendingAssessment
	l.StatusChangedAt = time.Now()
	return l, nil
}

// transition 执行状态迁移，非法迁移返回前置条件错误
func (l *Lead) transition(to Status) error {
	if !CanTransition(l.Status, to) {
		return errs.Precondition("lead %d cannot move from %s to %s", l.ID, l.Status, to)
	}
	l.Status = to
	l.StatusChangedAt = time.Now()
	return nil
}

// Assess 评估通过，进入待看房
func (l *Lead) Assess(auditorID uint, evalPrice decimal.Decimal, reason string) error {
	if evalPrice.Sign() <= 0 {
		return errs.Validation("eval_price", "eval price must be positive")
	}
	if err := l.transition(StatusPendingVisit); err != nil {
		return err
	}
	now := time.Now()
	l.EvalPrice = &evalPrice
	l.AuditReason = reason
	l.AuditorID = &auditorID
	l.AuditTime = &now
	return nil
}

// Reject 评估拒绝，终态
func (l *Lead) Reject(auditorID uint, reason string) error {
	if reason == "" {
		return errs.Validation("reason", "reject reason is required")
	}
	if err := l.transition(StatusRejected); err != nil {
		return err
	}
	now := time.Now()
	l.AuditReason = reason
	l.AuditorID = &auditorID
	l.AuditTime = &now
	return nil
}

// ScheduleVisit 记录看房安排（不改状态，日期可先于看房完成录入）
func (l *Lead) ScheduleVisit(date time.Time) error {
	if l.Status != StatusPendingVisit {
		return errs.Precondition("lead %d is not pending visit", l.ID)
	}
	l.VisitDate = &date
	return nil
}

// MarkVisited 完成看房
func (l *Lead) MarkVisited() error {
	return l.transition(StatusVisited)
}

// Sign 签约，线索流程终点
func (l *Lead) Sign() error {
	return l.transition(StatusSigned)
}

// FollowUp 跟进记录，只追加
type FollowUp struct {
	gorm.Model
	LeadID     uint           `gorm:"index;not null" json:"lead_id"`
	Method     FollowUpMethod `gorm:"size:16" json:"method"`
	Content    string         `gorm:"type:text" json:"content"`
	AuthorID   uint           `json:"author_id"`
	AuthorName string         `gorm:"size:64" json:"author_name"`
	OccurredAt time.Time      `json:"occurred_at"`
}

// TableName 指定表名
func (FollowUp) TableName() string {
	return "lead_follow_ups"
}

// StatusHistory 线索状态变更历史
type StatusHistory struct {
	gorm.Model
	LeadID     uint   `gorm:"index;not null" json:"lead_id"`
	FromStatus Status `gorm:"size:32" json:"from_status"`
	ToStatus   Status `gorm:"size:32" json:"to_status"`
	Reason     string `gorm:"size:255" json:"reason,omitempty"`
	ChangedBy  uint   `json:"changed_by"`
}

// TableName 指定表名
func (StatusHistory) TableName() string {
	return "lead_status_histories"
}
