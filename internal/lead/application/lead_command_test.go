package application

import (
	"context"
	"testing"
	"time"

	"github.com/fangzhou-tech/flipops/internal/lead/domain"
	"github.com/fangzhou-tech/flipops/pkg/errs"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLeadRepo struct {
	leads   map[uint]*domain.Lead
	history []*domain.StatusHistory
	nextID  uint
}

func newFakeLeadRepo() *fakeLeadRepo {
	return &fakeLeadRepo{leads: map[uint]*domain.Lead{}, nextID: 1}
}

func (r *fakeLeadRepo) Save(_ context.Context, lead *domain.Lead) error {
	if lead.ID == 0 {
		lead.ID = r.nextID
		r.nextID++
	}
	stored := *lead
	r.leads[lead.ID] = &stored
	return nil
}

func (r *fakeLeadRepo) GetByID(_ context.Context, id uint) (*domain.Lead, error) {
	lead, ok := r.leads[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	clone := *lead
	return &clone, nil
}

func (r *fakeLeadRepo) List(_ context.Context, _ domain.LeadFilter) ([]*domain.Lead, int64, error) {
	out := make([]*domain.Lead, 0, len(r.leads))
	for _, lead := range r.leads {
		out = append(out, lead)
	}
	return out, int64(len(out)), nil
}

func (r *fakeLeadRepo) Delete(_ context.Context, id uint) error {
	if _, ok := r.leads[id]; !ok {
		return errs.ErrNotFound
	}
	delete(r.leads, id)
	return nil
}

func (r *fakeLeadRepo) SaveHistory(_ context.Context, h *domain.StatusHistory) error {
	r.history = append(r.history, h)
	return nil
}

func (r *fakeLeadRepo) ListHistory(_ context.Context, leadID uint) ([]*domain.StatusHistory, error) {
	var out []*domain.StatusHistory
	for _, h := range r.history {
		if h.LeadID == leadID {
			out = append(out, h)
		}
	}
	return out, nil
}

func (r *fakeLeadRepo) WithTx(_ context.Context, fn func(domain.LeadRepository) error) error {
	return fn(r)
}

type fakeFollowUpRepo struct {
	items []*domain.FollowUp
}

func (r *fakeFollowUpRepo) Save(_ context.Context, f *domain.FollowUp) error {
	f.ID = uint(len(r.items) + 1)
	r.items = append(r.items, f)
	return nil
}

func (r *fakeFollowUpRepo) ListByLead(_ context.Context, leadID uint) ([]*domain.FollowUp, error) {
	var out []*domain.FollowUp
	for _, f := range r.items {
		if f.LeadID == leadID {
			out = append(out, f)
		}
	}
	return out, nil
}

type leadFixture struct {
	svc       *LeadCommandService
	repo      *fakeLeadRepo
	followUps *fakeFollowUpRepo
}

func newLeadFixture() *leadFixture {
	repo := newFakeLeadRepo()
	followUps := &fakeFollowUpRepo{}
	return &leadFixture{
		svc:       NewLeadCommandService(repo, followUps, nil),
		repo:      repo,
		followUps: followUps,
	}
}

func (f *leadFixture) seedLead(t *testing.T) uint {
	t.Helper()
	id, err := f.svc.CreateLead(context.Background(), CreateLeadCommand{
		Community:  "阳光花园",
		Layout:     "2室1厅1卫",
		Floor:      "3/6层",
		Area:       decimal.NewFromInt(55),
		TotalPrice: decimal.NewFromInt(210),
		District:   "徐汇",
		CreatorID:  1,
	})
	require.NoError(t, err)
	return id
}

func TestCreateLead(t *testing.T) {
	f := newLeadFixture()
	id := f.seedLead(t)

	lead, err := f.repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPendingAssessment, lead.Status)
	assert.True(t, lead.UnitPrice.Equal(decimal.NewFromFloat(3.82)))
}

func TestCreateLeadValidation(t *testing.T) {
	f := newLeadFixture()

	_, err := f.svc.CreateLead(context.Background(), CreateLeadCommand{
		Community:  "阳光花园",
		Layout:     "乱七八糟",
		Area:       decimal.NewFromInt(55),
		TotalPrice: decimal.NewFromInt(210),
	})
	assert.True(t, errs.IsValidation(err))
	assert.Empty(t, f.repo.leads)
}

func TestAssessWritesHistory(t *testing.T) {
	f := newLeadFixture()
	id := f.seedLead(t)

	require.NoError(t, f.svc.AssessLead(context.Background(), AssessLeadCommand{
		LeadID:    id,
		AuditorID: 9,
		EvalPrice: decimal.NewFromInt(205),
		Reason:    "价格合理",
	}))

	lead, _ := f.repo.GetByID(context.Background(), id)
	assert.Equal(t, domain.StatusPendingVisit, lead.Status)

	require.Len(t, f.repo.history, 1)
	assert.Equal(t, domain.StatusPendingAssessment, f.repo.history[0].FromStatus)
	assert.Equal(t, domain.StatusPendingVisit, f.repo.history[0].ToStatus)
	assert.Equal(t, uint(9), f.repo.history[0].ChangedBy)
}

func TestRejectOnlyFromPendingAssessment(t *testing.T) {
	f := newLeadFixture()
	id := f.seedLead(t)
	ctx := context.Background()

	require.NoError(t, f.svc.AssessLead(ctx, AssessLeadCommand{
		LeadID: id, AuditorID: 9, EvalPrice: decimal.NewFromInt(205),
	}))

	err := f.svc.RejectLead(ctx, RejectLeadCommand{LeadID: id, AuditorID: 9, Reason: "反悔"})
	assert.True(t, errs.IsPrecondition(err))
}

func TestSignLeadFullFlow(t *testing.T) {
	f := newLeadFixture()
	id := f.seedLead(t)
	ctx := context.Background()

	require.NoError(t, f.svc.AssessLead(ctx, AssessLeadCommand{
		LeadID: id, AuditorID: 9, EvalPrice: decimal.NewFromInt(205),
	}))
	require.NoError(t, f.svc.ScheduleVisit(ctx, ScheduleVisitCommand{
		LeadID: id, UserID: 2, VisitDate: time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC),
	}))
	require.NoError(t, f.svc.MarkVisited(ctx, id, 2))

	signedID, err := f.svc.SignLead(ctx, id, 2)
	require.NoError(t, err)
	assert.Equal(t, id, signedID)

	lead, _ := f.repo.GetByID(ctx, id)
	assert.Equal(t, domain.StatusSigned, lead.Status)
	assert.Len(t, f.repo.history, 3, "assess, visited, signed")
}

func TestSignWithoutVisitRejected(t *testing.T) {
	f := newLeadFixture()
	id := f.seedLead(t)

	_, err := f.svc.SignLead(context.Background(), id, 2)
	assert.True(t, errs.IsPrecondition(err))
}

func TestAddFollowUp(t *testing.T) {
	f := newLeadFixture()
	id := f.seedLead(t)

	followUpID, err := f.svc.AddFollowUp(context.Background(), AddFollowUpCommand{
		LeadID:   id,
		Method:   "phone",
		Content:  "业主表示可小幅议价",
		AuthorID: 2,
	})
	require.NoError(t, err)
	assert.NotZero(t, followUpID)
	assert.Len(t, f.followUps.items, 1)
}

func TestAddFollowUpValidation(t *testing.T) {
	f := newLeadFixture()
	id := f.seedLead(t)
	ctx := context.Background()

	_, err := f.svc.AddFollowUp(ctx, AddFollowUpCommand{LeadID: id, Method: "fax", Content: "x"})
	assert.True(t, errs.IsValidation(err), "unknown method")

	_, err = f.svc.AddFollowUp(ctx, AddFollowUpCommand{LeadID: id, Method: "phone"})
	assert.True(t, errs.IsValidation(err), "missing content")

	require.NoError(t, f.svc.RejectLead(ctx, RejectLeadCommand{LeadID: id, AuditorID: 9, Reason: "不合适"}))
	_, err = f.svc.AddFollowUp(ctx, AddFollowUpCommand{LeadID: id, Method: "phone", Content: "x"})
	assert.True(t, errs.IsPrecondition(err), "rejected lead is closed")
}
