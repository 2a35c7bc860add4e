// Package mysql 线索上下文的 GORM 仓储实现
package mysql

import (
	"context"
	"errors"

	"github.com/fangzhou-tech/flipops/internal/lead/domain"
	"github.com/fangzhou-tech/flipops/pkg/errs"
	"gorm.io/gorm"
)

type leadRepository struct {
	db *gorm.DB
}

// NewLeadRepository 创建线索仓储
func NewLeadRepository(db *gorm.DB) domain.LeadRepository {
	return &leadRepository{db: db}
}

func (r *leadRepository) Save(ctx context.Context, lead *domain.Lead) error {
	return r.db.WithContext(ctx).Save(lead).Error
}

func (r *leadRepository) GetByID(ctx context.Context, id uint) (*domain.Lead, error) {
	var lead domain.Lead
	if err := r.db.WithContext(ctx).First(&lead, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &lead, nil
}

func (r *leadRepository) List(ctx context.Context, filter domain.LeadFilter) ([]*domain.Lead, int64, error) {
	query := r.db.WithContext(ctx).Model(&domain.Lead{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.District != "" {
		query = query.Where("district = ?", filter.District)
	}
	if filter.Creator != 0 {
		query = query.Where("creator_id = ?", filter.Creator)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var leads []*domain.Lead
	if err := query.Order("status_changed_at DESC").
		Limit(filter.Limit).Offset(filter.Offset).
		Find(&leads).Error; err != nil {
		return nil, 0, err
	}
	return leads, total, nil
}

func (r *leadRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&domain.Lead{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (r *leadRepository) SaveHistory(ctx context.Context, h *domain.StatusHistory) error {
	return r.db.WithContext(ctx).Create(h).Error
}

func (r *leadRepository) ListHistory(ctx context.Context, leadID uint) ([]*domain.StatusHistory, error) {
	var history []*domain.StatusHistory
	if err := r.db.WithContext(ctx).
		Where("lead_id = ?", leadID).
		Order("created_at DESC").
		Find(&history).Error; err != nil {
		return nil, err
	}
	return history, nil
}

func (r *leadRepository) WithTx(ctx context.Context, fn func(txRepo domain.LeadRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&leadRepository{db: tx})
	})
}

type followUpRepository struct {
	db *gorm.DB
}

// NewFollowUpRepository 创建跟进记录仓储
func NewFollowUpRepository(db *gorm.DB) domain.FollowUpRepository {
	return &followUpRepository{db: db}
}

func (r *followUpRepository) Save(ctx context.Context, f *domain.FollowUp) error {
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *followUpRepository) ListByLead(ctx context.Context, leadID uint) ([]*domain.FollowUp, error) {
	var followUps []*domain.FollowUp
	if err := r.db.WithContext(ctx).
		Where("lead_id = ?", leadID).
		Order("occurred_at DESC").
		Find(&followUps).Error; err != nil {
		return nil, err
	}
	return followUps, nil
}
