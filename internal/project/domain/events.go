package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProjectCreatedEvent 项目创建事件
type ProjectCreatedEvent struct {
	ProjectID uint      `json:"project_id"`
	Name      string    `json:"name"`
	Community string    `json:"community"`
	FromLead  *uint     `json:"from_lead_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// StageAdvancedEvent 项目阶段流转事件
type StageAdvancedEvent struct {
	ProjectID uint      `json:"project_id"`
	OldStage  Stage     `json:"old_stage"`
	NewStage  Stage     `json:"new_stage"`
	UserID    uint      `json:"user_id"`
	Timestamp time.Time `json:"timestamp"`
}

// SubStageCompletedEvent 装修子阶段完成事件
type SubStageCompletedEvent struct {
	ProjectID  uint      `json:"project_id"`
	SubStage   SubStage  `json:"sub_stage"`
	PhotoCount int       `json:"photo_count"`
	UserID     uint      `json:"user_id"`
	Timestamp  time.Time `json:"timestamp"`
}

// ProjectSoldEvent 项目售出事件
type ProjectSoldEvent struct {
	ProjectID   uint            `json:"project_id"`
	SoldPrice   decimal.Decimal `json:"sold_price"`
	SoldDate    time.Time       `json:"sold_date"`
	NetCashFlow decimal.Decimal `json:"net_cash_flow"`
	ROI         decimal.Decimal `json:"roi"`
	UserID      uint            `json:"user_id"`
	Timestamp   time.Time       `json:"timestamp"`
}

// DeadlineApproachingEvent 签约处置期临近事件
type DeadlineApproachingEvent struct {
	ProjectID     uint      `json:"project_id"`
	Name          string    `json:"name"`
	RemainingDays int       `json:"remaining_days"`
	Timestamp     time.Time `json:"timestamp"`
}
