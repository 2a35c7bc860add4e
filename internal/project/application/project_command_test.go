package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fangzhou-tech/flipops/internal/project/domain"
	"github.com/fangzhou-tech/flipops/pkg/errs"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProjectRepo 内存仓储，saveErr 用于模拟持久化失败
type fakeProjectRepo struct {
	projects map[uint]*domain.Project
	history  []*domain.StatusHistory
	nextID   uint
	saveErr  error
}

func newFakeProjectRepo() *fakeProjectRepo {
	return &fakeProjectRepo{projects: map[uint]*domain.Project{}, nextID: 1}
}

func (r *fakeProjectRepo) Save(_ context.Context, p *domain.Project) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	if p.ID == 0 {
		p.ID = r.nextID
		r.nextID++
	}
	stored := *p
	r.projects[p.ID] = &stored
	return nil
}

func (r *fakeProjectRepo) Get(_ context.Context, id uint) (*domain.Project, error) {
	p, ok := r.projects[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *fakeProjectRepo) GetFull(ctx context.Context, id uint) (*domain.Project, error) {
	return r.Get(ctx, id)
}

func (r *fakeProjectRepo) List(_ context.Context, _ domain.ProjectFilter) ([]*domain.Project, int64, error) {
	out := make([]*domain.Project, 0, len(r.projects))
	for _, p := range r.projects {
		out = append(out, p)
	}
	return out, int64(len(out)), nil
}

func (r *fakeProjectRepo) ListByStage(_ context.Context, stage domain.Stage) ([]*domain.Project, error) {
	var out []*domain.Project
	for _, p := range r.projects {
		if p.Stage == stage {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeProjectRepo) SaveHistory(_ context.Context, h *domain.StatusHistory) error {
	r.history = append(r.history, h)
	return nil
}

func (r *fakeProjectRepo) ListHistory(_ context.Context, projectID uint) ([]*domain.StatusHistory, error) {
	var out []*domain.StatusHistory
	for _, h := range r.history {
		if h.ProjectID == projectID {
			out = append(out, h)
		}
	}
	return out, nil
}

func (r *fakeProjectRepo) WithTx(_ context.Context, fn func(domain.ProjectRepository) error) error {
	return fn(r)
}

type fakePhotoRepo struct {
	photos []*domain.RenovationPhoto
}

func (r *fakePhotoRepo) Save(_ context.Context, p *domain.RenovationPhoto) error {
	p.ID = uint(len(r.photos) + 1)
	r.photos = append(r.photos, p)
	return nil
}

func (r *fakePhotoRepo) ListByProject(_ context.Context, projectID uint) ([]*domain.RenovationPhoto, error) {
	var out []*domain.RenovationPhoto
	for _, p := range r.photos {
		if p.ProjectID == projectID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakePhotoRepo) CountBySubStage(_ context.Context, projectID uint, subStage domain.SubStage) (int64, error) {
	var n int64
	for _, p := range r.photos {
		if p.ProjectID == projectID && p.SubStage == subStage {
			n++
		}
	}
	return n, nil
}

type fakeAttachmentRepo struct {
	items []*domain.Attachment
}

func (r *fakeAttachmentRepo) Save(_ context.Context, a *domain.Attachment) error {
	a.ID = uint(len(r.items) + 1)
	r.items = append(r.items, a)
	return nil
}

func (r *fakeAttachmentRepo) ListByProject(_ context.Context, projectID uint) ([]*domain.Attachment, error) {
	var out []*domain.Attachment
	for _, a := range r.items {
		if a.ProjectID == projectID {
			out = append(out, a)
		}
	}
	return out, nil
}

type fakeSalesRepo struct {
	items []*domain.SalesRecord
}

func (r *fakeSalesRepo) Save(_ context.Context, rec *domain.SalesRecord) error {
	rec.ID = uint(len(r.items) + 1)
	r.items = append(r.items, rec)
	return nil
}

func (r *fakeSalesRepo) ListByProject(_ context.Context, projectID uint) ([]*domain.SalesRecord, error) {
	var out []*domain.SalesRecord
	for _, rec := range r.items {
		if rec.ProjectID == projectID {
			out = append(out, rec)
		}
	}
	return out, nil
}

type publishedEvent struct {
	topic string
	event any
}

type fakePublisher struct {
	events []publishedEvent
}

func (p *fakePublisher) Publish(_ context.Context, topic string, _ string, event any) error {
	p.events = append(p.events, publishedEvent{topic: topic, event: event})
	return nil
}

func (p *fakePublisher) topics() []string {
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.topic)
	}
	return out
}

type fakeCache struct {
	invalidated []uint
}

func (c *fakeCache) Get(_ context.Context, _ uint) (*ProjectDetailDTO, bool) { return nil, false }
func (c *fakeCache) Set(_ context.Context, _ uint, _ *ProjectDetailDTO)      {}
func (c *fakeCache) Invalidate(_ context.Context, id uint) {
	c.invalidated = append(c.invalidated, id)
}

type commandFixture struct {
	svc       *ProjectCommandService
	repo      *fakeProjectRepo
	photos    *fakePhotoRepo
	publisher *fakePublisher
	cache     *fakeCache
}

func newCommandFixture() *commandFixture {
	repo := newFakeProjectRepo()
	photos := &fakePhotoRepo{}
	publisher := &fakePublisher{}
	cache := &fakeCache{}
	svc := NewProjectCommandService(repo, &fakeAttachmentRepo{}, photos, &fakeSalesRepo{}, publisher, cache)
	return &commandFixture{svc: svc, repo: repo, photos: photos, publisher: publisher, cache: cache}
}

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func (f *commandFixture) seedRenovating(t *testing.T) uint {
	t.Helper()
	ctx := context.Background()

	id, err := f.svc.CreateProject(ctx, CreateProjectCommand{
		Name:              "阳光花园 3-201",
		Community:         "阳光花园",
		SigningPrice:      decimal.NewFromInt(180),
		SigningDate:       date(2026, 1, 10),
		Area:              decimal.NewFromInt(55),
		SigningPeriodDays: 180,
		CostAssumption:    decimal.NewFromInt(15),
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.AdvanceFromSigning(ctx, AdvanceFromSigningCommand{
		ProjectID:    id,
		UserID:       1,
		HandoverDate: date(2026, 2, 1),
	}))
	return id
}

func TestCreateProjectValidation(t *testing.T) {
	f := newCommandFixture()

	_, err := f.svc.CreateProject(context.Background(), CreateProjectCommand{})
	assert.True(t, errs.IsValidation(err))
	assert.Empty(t, f.repo.projects, "nothing may be persisted on validation failure")
	assert.Empty(t, f.publisher.events)
}

func TestAdvanceFromSigningRequiresHandoverDate(t *testing.T) {
	f := newCommandFixture()

	err := f.svc.AdvanceFromSigning(context.Background(), AdvanceFromSigningCommand{ProjectID: 1})
	assert.True(t, errs.IsValidation(err))
}

func TestAdvanceFromSigningWritesHistory(t *testing.T) {
	f := newCommandFixture()
	id := f.seedRenovating(t)

	p, err := f.repo.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, domain.StageRenovating, p.Stage)

	require.Len(t, f.repo.history, 1)
	assert.Equal(t, domain.StageSigning, f.repo.history[0].OldStage)
	assert.Equal(t, domain.StageRenovating, f.repo.history[0].NewStage)
	assert.Contains(t, f.cache.invalidated, id)
}

func TestSaveFailureLeavesStateUnchanged(t *testing.T) {
	f := newCommandFixture()
	id := f.seedRenovating(t)
	f.repo.saveErr = errors.New("db gone")

	_, err := f.svc.CompleteSubStage(context.Background(), CompleteSubStageCommand{
		ProjectID:      id,
		SubStage:       string(domain.SubStageDemolition),
		CompletionDate: date(2026, 2, 10),
	})
	require.Error(t, err)

	f.repo.saveErr = nil
	p, err := f.repo.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, domain.SubStageDemolition, p.SubStage, "cursor must not advance when save fails")
	assert.Empty(t, p.SubStageDates)
}

func TestCompleteSubStageFlagsMissingPhotos(t *testing.T) {
	f := newCommandFixture()
	id := f.seedRenovating(t)

	result, err := f.svc.CompleteSubStage(context.Background(), CompleteSubStageCommand{
		ProjectID:      id,
		SubStage:       string(domain.SubStageDemolition),
		CompletionDate: date(2026, 2, 10),
	})
	require.NoError(t, err)
	assert.True(t, result.PhotoMissing, "no photos uploaded yet")
	assert.Equal(t, domain.SubStageDesign, result.SubStage)
	assert.False(t, result.EnteredSelling)
}

func TestCompleteSubStageWithPhotos(t *testing.T) {
	f := newCommandFixture()
	id := f.seedRenovating(t)

	_, err := f.svc.AddPhoto(context.Background(), AddPhotoCommand{
		ProjectID: id,
		SubStage:  string(domain.SubStageDemolition),
		URL:       "https://img/1.jpg",
	})
	require.NoError(t, err)

	result, err := f.svc.CompleteSubStage(context.Background(), CompleteSubStageCommand{
		ProjectID:      id,
		SubStage:       string(domain.SubStageDemolition),
		CompletionDate: date(2026, 2, 10),
	})
	require.NoError(t, err)
	assert.False(t, result.PhotoMissing)
}

func TestLastSubStageEntersSellingAndPublishes(t *testing.T) {
	f := newCommandFixture()
	id := f.seedRenovating(t)
	ctx := context.Background()

	var last *SubStageResultDTO
	day := date(2026, 2, 10)
	for _, info := range domain.SubStages {
		result, err := f.svc.CompleteSubStage(ctx, CompleteSubStageCommand{
			ProjectID:      id,
			SubStage:       string(info.Key),
			CompletionDate: day,
		})
		require.NoError(t, err)
		last = result
	}

	require.NotNil(t, last)
	assert.True(t, last.EnteredSelling)

	p, err := f.repo.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.StageSelling, p.Stage)
	assert.NotNil(t, p.ListingDate)

	assert.Contains(t, f.publisher.topics(), topicStageAdvanced)
	assert.Contains(t, f.publisher.topics(), topicSubStageCompleted)
}

func TestAdvanceToSold(t *testing.T) {
	f := newCommandFixture()
	id := f.seedRenovating(t)
	ctx := context.Background()

	for _, info := range domain.SubStages {
		_, err := f.svc.CompleteSubStage(ctx, CompleteSubStageCommand{
			ProjectID:      id,
			SubStage:       string(info.Key),
			CompletionDate: date(2026, 2, 10),
		})
		require.NoError(t, err)
	}

	cmd := AdvanceToSoldCommand{
		ProjectID: id,
		UserID:    1,
		SoldPrice: decimal.NewFromInt(234),
		SoldDate:  date(2026, 6, 1),
	}
	require.NoError(t, f.svc.AdvanceToSold(ctx, cmd))

	p, err := f.repo.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.StageSold, p.Stage)
	assert.True(t, p.NetCashFlow.Equal(decimal.NewFromInt(39)))
	assert.True(t, p.ROI.Equal(decimal.NewFromInt(20)))

	// 重复售出是前置条件冲突，状态保持不变
	err = f.svc.AdvanceToSold(ctx, cmd)
	assert.True(t, errs.IsPrecondition(err))
	assert.Contains(t, f.publisher.topics(), topicProjectSold)
}

func TestAdvanceToSoldValidation(t *testing.T) {
	f := newCommandFixture()

	err := f.svc.AdvanceToSold(context.Background(), AdvanceToSoldCommand{ProjectID: 1, SoldPrice: decimal.NewFromInt(100)})
	assert.True(t, errs.IsValidation(err), "missing date")

	err = f.svc.AdvanceToSold(context.Background(), AdvanceToSoldCommand{ProjectID: 1, SoldDate: date(2026, 6, 1)})
	assert.True(t, errs.IsValidation(err), "non-positive price")
}

func TestAddSalesRecordRequiresSellingStage(t *testing.T) {
	f := newCommandFixture()
	id := f.seedRenovating(t)

	_, err := f.svc.AddSalesRecord(context.Background(), AddSalesRecordCommand{
		ProjectID: id,
		Kind:      string(domain.SalesKindViewing),
		Date:      date(2026, 3, 1),
	})
	assert.True(t, errs.IsPrecondition(err))
}
