package domain

import (
	"testing"
	"time"

	"github.com/fangzhou-tech/flipops/pkg/errs"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLead(t *testing.T) *Lead {
	t.Helper()
	lead, err := NewLead(&Lead{
		Community:  "阳光花园",
		Layout:     "2室1厅1卫",
		Floor:      "3/6层",
		Area:       decimal.NewFromInt(55),
		TotalPrice: decimal.NewFromInt(210),
	})
	require.NoError(t, err)
	lead.ID = 3
	return lead
}

func TestNewLeadDerivesUnitPrice(t *testing.T) {
	lead := newTestLead(t)
	assert.Equal(t, StatusPendingAssessment, lead.Status)
	assert.True(t, lead.UnitPrice.Equal(decimal.NewFromFloat(3.82)), "got %s", lead.UnitPrice)
}

func TestNewLeadKeepsExplicitUnitPrice(t *testing.T) {
	lead, err := NewLead(&Lead{
		Community:  "阳光花园",
		Area:       decimal.NewFromInt(55),
		TotalPrice: decimal.NewFromInt(210),
		UnitPrice:  decimal.NewFromFloat(3.90),
	})
	require.NoError(t, err)
	assert.True(t, lead.UnitPrice.Equal(decimal.NewFromFloat(3.90)))
}

func TestNewLeadValidation(t *testing.T) {
	_, err := NewLead(&Lead{Area: decimal.NewFromInt(55), TotalPrice: decimal.NewFromInt(210)})
	assert.True(t, errs.IsValidation(err), "missing community")

	_, err = NewLead(&Lead{Community: "x", TotalPrice: decimal.NewFromInt(210)})
	assert.True(t, errs.IsValidation(err), "missing area")

	_, err = NewLead(&Lead{
		Community: "x", Area: decimal.NewFromInt(55),
		TotalPrice: decimal.NewFromInt(210), Layout: "豪华复式",
	})
	assert.True(t, errs.IsValidation(err), "bad layout")

	_, err = NewLead(&Lead{
		Community: "x", Area: decimal.NewFromInt(55),
		TotalPrice: decimal.NewFromInt(210), Orientation: "朝天",
	})
	assert.True(t, errs.IsValidation(err), "bad orientation")
}

func TestTransitionTable(t *testing.T) {
	assert.True(t, CanTransition(StatusPendingAssessment, StatusPendingVisit))
	assert.True(t, CanTransition(StatusPendingAssessment, StatusRejected))
	assert.True(t, CanTransition(StatusPendingVisit, StatusVisited))
	assert.True(t, CanTransition(StatusVisited, StatusSigned))

	// 拒绝分支只能从待评估出发
	assert.False(t, CanTransition(StatusPendingVisit, StatusRejected))
	assert.False(t, CanTransition(StatusVisited, StatusRejected))

	// 不可回退、不可跳步
	assert.False(t, CanTransition(StatusVisited, StatusPendingVisit))
	assert.False(t, CanTransition(StatusPendingAssessment, StatusSigned))
	assert.False(t, CanTransition(StatusSigned, StatusPendingAssessment))
	assert.False(t, CanTransition(StatusRejected, StatusPendingVisit))
}

func TestAssessLead(t *testing.T) {
	lead := newTestLead(t)

	require.NoError(t, lead.Assess(9, decimal.NewFromInt(205), "价格合理"))
	assert.Equal(t, StatusPendingVisit, lead.Status)
	require.NotNil(t, lead.EvalPrice)
	assert.True(t, lead.EvalPrice.Equal(decimal.NewFromInt(205)))
	require.NotNil(t, lead.AuditorID)
	assert.Equal(t, uint(9), *lead.AuditorID)
	assert.NotNil(t, lead.AuditTime)

	// 重复评估是非法迁移
	err := lead.Assess(9, decimal.NewFromInt(200), "")
	assert.True(t, errs.IsPrecondition(err))
}

func TestAssessRequiresPositivePrice(t *testing.T) {
	lead := newTestLead(t)
	err := lead.Assess(9, decimal.Zero, "")
	assert.True(t, errs.IsValidation(err))
	assert.Equal(t, StatusPendingAssessment, lead.Status)
}

func TestRejectLead(t *testing.T) {
	lead := newTestLead(t)

	err := lead.Reject(9, "")
	assert.True(t, errs.IsValidation(err), "reason required")

	require.NoError(t, lead.Reject(9, "单价过高"))
	assert.Equal(t, StatusRejected, lead.Status)
	assert.True(t, lead.Status.Terminal())
}

func TestFullLifecycle(t *testing.T) {
	lead := newTestLead(t)

	require.NoError(t, lead.Assess(9, decimal.NewFromInt(205), "ok"))
	require.NoError(t, lead.ScheduleVisit(time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, lead.MarkVisited())
	require.NoError(t, lead.Sign())
	assert.Equal(t, StatusSigned, lead.Status)

	// 签约后不可再看房
	err := lead.MarkVisited()
	assert.True(t, errs.IsPrecondition(err))
}

func TestScheduleVisitRequiresPendingVisit(t *testing.T) {
	lead := newTestLead(t)
	err := lead.ScheduleVisit(time.Now())
	assert.True(t, errs.IsPrecondition(err))
}

func TestParseStatus(t *testing.T) {
	cases := []struct {
		raw  string
		want Status
		ok   bool
	}{
		{"pending_visit", StatusPendingVisit, true},
		{" Signed ", StatusSigned, true},
		{"待评估", StatusPendingAssessment, true},
		{"已拒绝", StatusRejected, true},
		{"pending", StatusPendingAssessment, true},
		{"garbage", StatusPendingAssessment, false},
	}
	for _, tc := range cases {
		got, ok := ParseStatus(tc.raw)
		assert.Equal(t, tc.want, got, tc.raw)
		assert.Equal(t, tc.ok, ok, tc.raw)
	}
}
