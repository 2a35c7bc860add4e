package mysql

import (
	"context"
	"errors"

	"github.com/fangzhou-tech/flipops/internal/project/domain"
	"github.com/fangzhou-tech/flipops/pkg/errs"
	"gorm.io/gorm"
)

type projectRepository struct {
	db *gorm.DB
}

// NewProjectRepository 创建项目仓储实例
func NewProjectRepository(db *gorm.DB) domain.ProjectRepository {
	return &projectRepository{db: db}
}

func (r *projectRepository) Save(ctx context.Context, project *domain.Project) error {
	return r.db.WithContext(ctx).Save(project).Error
}

func (r *projectRepository) Get(ctx context.Context, id uint) (*domain.Project, error) {
	var project domain.Project
	err := r.db.WithContext(ctx).First(&project, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *projectRepository) GetFull(ctx context.Context, id uint) (*domain.Project, error) {
	var project domain.Project
	err := r.db.WithContext(ctx).
		Preload("Attachments").
		Preload("RenovationPhotos").
		Preload("SalesRecords").
		First(&project, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *projectRepository) List(ctx context.Context, filter domain.ProjectFilter) ([]*domain.Project, int64, error) {
	query := r.db.WithContext(ctx).Model(&domain.Project{})
	if filter.Stage != "" {
		query = query.Where("stage = ?", filter.Stage)
	}
	if filter.Community != "" {
		query = query.Where("community LIKE ?", "%"+filter.Community+"%")
	}
	if filter.Manager != "" {
		query = query.Where("manager = ?", filter.Manager)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var projects []*domain.Project
	err := query.Order("stage_changed_at DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&projects).Error
	if err != nil {
		return nil, 0, err
	}
	return projects, total, nil
}

func (r *projectRepository) ListByStage(ctx context.Context, stage domain.Stage) ([]*domain.Project, error) {
	var projects []*domain.Project
	err := r.db.WithContext(ctx).
		Where("stage = ?", stage).
		Order("stage_changed_at ASC").
		Find(&projects).Error
	return projects, err
}

func (r *projectRepository) SaveHistory(ctx context.Context, history *domain.StatusHistory) error {
	return r.db.WithContext(ctx).Create(history).Error
}

func (r *projectRepository) ListHistory(ctx context.Context, projectID uint) ([]*domain.StatusHistory, error) {
	var histories []*domain.StatusHistory
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Find(&histories).Error
	return histories, err
}

func (r *projectRepository) WithTx(ctx context.Context, fn func(txRepo domain.ProjectRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&projectRepository{db: tx})
	})
}
