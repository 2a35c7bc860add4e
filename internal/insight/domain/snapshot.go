// Package domain 定义市场洞察数据抽象
package domain

import (
	"context"
	"time"
)

// SentimentRow 市场情绪指标行
type SentimentRow struct {
	Indicator string `json:"indicator"`
	Value     string `json:"value"`
	Trend     string `json:"trend"`
}

// CompetitorRow 同小区竞品行
type CompetitorRow struct {
	Community string `json:"community"`
	Layout    string `json:"layout"`
	AreaSqm   string `json:"area_sqm"`
	ListPrice string `json:"list_price"`
	DaysOn    int    `json:"days_on_market"`
}

// MarketSnapshot 市场快照
type MarketSnapshot struct {
	GeneratedAt time.Time       `json:"generated_at"`
	Sentiment   []SentimentRow  `json:"sentiment"`
	Competitors []CompetitorRow `json:"competitors"`
}

// SnapshotProvider 快照数据源接口，可替换为真实行情接入
type SnapshotProvider interface {
	Snapshot(ctx context.Context, district string) (*MarketSnapshot, error)
}
