package domain

import (
	"testing"
	"time"

	"github.com/fangzhou-tech/flipops/pkg/errs"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedProject() *Project {
	p := NewProject("阳光花园 3-201", "阳光花园")
	p.ID = 7
	p.SigningPrice = decimal.NewFromInt(180)
	p.CostAssumption = decimal.NewFromInt(15)
	return p
}

func renovatingProject(t *testing.T) *Project {
	t.Helper()
	p := signedProject()
	require.NoError(t, p.BeginRenovation(time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)))
	return p
}

func sellingProject(t *testing.T) *Project {
	t.Helper()
	p := renovatingProject(t)
	day := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)
	for _, info := range SubStages {
		_, err := p.CompleteSubStage(info.Key, day)
		require.NoError(t, err)
		day = day.AddDate(0, 0, 7)
	}
	return p
}

func TestBeginRenovation(t *testing.T) {
	p := signedProject()
	handover := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, p.BeginRenovation(handover))
	assert.Equal(t, StageRenovating, p.Stage)
	assert.Equal(t, SubStageDemolition, p.SubStage)
	require.NotNil(t, p.HandoverDate)
	assert.Equal(t, handover, *p.HandoverDate)

	// 非签约阶段不可重复流转
	err := p.BeginRenovation(handover)
	assert.True(t, errs.IsPrecondition(err))
}

func TestCompleteSubStageAdvancesCursor(t *testing.T) {
	p := renovatingProject(t)
	date := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)

	entered, err := p.CompleteSubStage(SubStageDemolition, date)
	require.NoError(t, err)
	assert.False(t, entered)
	assert.Equal(t, SubStageDesign, p.SubStage)
	assert.Equal(t, date, p.SubStageDates[SubStageDemolition])
}

func TestCompleteSubStageRejectsSkipping(t *testing.T) {
	p := renovatingProject(t)

	_, err := p.CompleteSubStage(SubStagePaint, time.Now())
	assert.True(t, errs.IsPrecondition(err))
	assert.Equal(t, SubStageDemolition, p.SubStage, "state must be unchanged on error")

	_, err = p.CompleteSubStage("nonsense", time.Now())
	assert.True(t, errs.IsValidation(err))
}

func TestCompleteSubStageOutsideRenovation(t *testing.T) {
	p := signedProject()
	_, err := p.CompleteSubStage(SubStageDemolition, time.Now())
	assert.True(t, errs.IsPrecondition(err))
}

func TestLastSubStageEntersSelling(t *testing.T) {
	p := sellingProject(t)

	assert.Equal(t, StageSelling, p.Stage)
	assert.Equal(t, SubStageDone, p.SubStage)
	require.NotNil(t, p.ListingDate)
	assert.Equal(t, p.SubStageDates[SubStageDelivery], *p.ListingDate)
	assert.True(t, p.Position().PastRenovation)
}

func TestMarkSoldComputesFinancials(t *testing.T) {
	p := sellingProject(t)
	soldDate := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, p.MarkSold(decimal.NewFromInt(234), soldDate))
	assert.Equal(t, StageSold, p.Stage)

	// 收入 234，支出 180+15=195，净现金流 39，ROI 20%
	assert.True(t, p.TotalIncome.Equal(decimal.NewFromInt(234)))
	assert.True(t, p.TotalExpense.Equal(decimal.NewFromInt(195)))
	assert.True(t, p.NetCashFlow.Equal(decimal.NewFromInt(39)))
	assert.True(t, p.ROI.Equal(decimal.NewFromInt(20)), "got %s", p.ROI)
}

func TestMarkSoldTwiceRejected(t *testing.T) {
	p := sellingProject(t)
	require.NoError(t, p.MarkSold(decimal.NewFromInt(234), time.Now()))

	err := p.MarkSold(decimal.NewFromInt(250), time.Now())
	assert.True(t, errs.IsPrecondition(err))
	assert.True(t, p.SoldPrice.Equal(decimal.NewFromInt(234)), "first sale must stand")
}

func TestMarkSoldRequiresSellingStage(t *testing.T) {
	p := renovatingProject(t)
	err := p.MarkSold(decimal.NewFromInt(234), time.Now())
	assert.True(t, errs.IsPrecondition(err))
	assert.Equal(t, StageRenovating, p.Stage)
}
