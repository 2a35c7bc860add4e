// Package static 内置市场快照数据源，真实行情接入前的占位实现
package static

import (
	"context"
	"time"

	"github.com/fangzhou-tech/flipops/internal/insight/domain"
)

type provider struct{}

// NewProvider 创建内置数据源
func NewProvider() domain.SnapshotProvider {
	return &provider{}
}

func (p *provider) Snapshot(_ context.Context, _ string) (*domain.MarketSnapshot, error) {
	snapshot := &domain.MarketSnapshot{
		GeneratedAt: time.Now(),
		Sentiment: []domain.SentimentRow{
			{Indicator: "挂牌量", Value: "12,430 套", Trend: "up"},
			{Indicator: "成交周期", Value: "87 天", Trend: "up"},
			{Indicator: "议价空间", Value: "5.2%", Trend: "flat"},
			{Indicator: "带看热度", Value: "中", Trend: "down"},
		},
		Competitors: []domain.CompetitorRow{
			{Community: "阳光花园", Layout: "2室1厅1卫", AreaSqm: "55.0", ListPrice: "215万", DaysOn: 45},
			{Community: "翠湖天地", Layout: "3室2厅1卫", AreaSqm: "89.5", ListPrice: "356万", DaysOn: 62},
			{Community: "金桂苑", Layout: "2室2厅1卫", AreaSqm: "68.2", ListPrice: "248万", DaysOn: 31},
		},
	}
	return snapshot, nil
}
