package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestUnitPriceYuan(t *testing.T) {
	// 210 万 / 55 平 = 38182 元/平
	got := UnitPriceYuan(decimal.NewFromInt(210), decimal.NewFromInt(55))
	assert.Equal(t, int64(38182), got)

	assert.Equal(t, int64(0), UnitPriceYuan(decimal.NewFromInt(210), decimal.Zero))
	assert.Equal(t, int64(0), UnitPriceYuan(decimal.NewFromInt(210), decimal.NewFromInt(-1)))
}

func TestTimeProgress(t *testing.T) {
	signing := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	now := signing.AddDate(0, 0, 90)

	got := TimeProgress(&signing, 180, now)
	assert.Equal(t, 90, got.ConsumedDays)
	assert.Equal(t, 90, got.RemainingDays)
	assert.InDelta(t, 50.0, got.ProgressPct, 0.001)
}

func TestTimeProgressClamped(t *testing.T) {
	signing := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	// 已超期：剩余归零，进度封顶 100
	got := TimeProgress(&signing, 30, signing.AddDate(0, 0, 45))
	assert.Equal(t, 0, got.RemainingDays)
	assert.InDelta(t, 100.0, got.ProgressPct, 0.001)

	// 签约日期在未来：全部归零
	got = TimeProgress(&signing, 30, signing.AddDate(0, 0, -10))
	assert.Equal(t, 0, got.ConsumedDays)
	assert.Equal(t, 30, got.RemainingDays)
	assert.InDelta(t, 0.0, got.ProgressPct, 0.001)
}

func TestTimeProgressMissingInputs(t *testing.T) {
	assert.Equal(t, TimeProgressResult{}, TimeProgress(nil, 180, time.Now()))

	signing := time.Now()
	assert.Equal(t, TimeProgressResult{}, TimeProgress(&signing, 0, time.Now()))
}

func TestDailyLoss(t *testing.T) {
	assert.Equal(t, int64(100), DailyLoss(decimal.NewFromInt(3000)))
	assert.Equal(t, int64(117), DailyLoss(decimal.NewFromInt(3500)))
	assert.Equal(t, int64(0), DailyLoss(decimal.Zero))
}

func TestDeadline(t *testing.T) {
	handover := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	// 180 天周期 + 2 个月延期 = 240 天
	got := Deadline(handover, 180, 2)
	assert.Equal(t, handover.AddDate(0, 0, 240), got)

	assert.Equal(t, handover.AddDate(0, 0, 180), Deadline(handover, 180, 0))
}

func TestOccupationDays(t *testing.T) {
	signing := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 120, OccupationDays(signing, signing.AddDate(0, 0, 120)))
	assert.Equal(t, 0, OccupationDays(signing, signing.AddDate(0, 0, -5)))
}

func TestAnnualizedReturn(t *testing.T) {
	// roi 12%，占用 120 天：12/120*365 = 36.5
	got := AnnualizedReturn(decimal.NewFromInt(12), 120)
	assert.True(t, got.Equal(decimal.NewFromFloat(36.5)), "got %s", got)

	assert.True(t, AnnualizedReturn(decimal.NewFromInt(12), 0).IsZero())
}
