package mysql

import (
	"context"

	"github.com/fangzhou-tech/flipops/internal/project/domain"
	"gorm.io/gorm"
)

// Attachment Repository
type attachmentRepository struct {
	db *gorm.DB
}

// NewAttachmentRepository 创建附件仓储实例
func NewAttachmentRepository(db *gorm.DB) domain.AttachmentRepository {
	return &attachmentRepository{db: db}
}

func (r *attachmentRepository) Save(ctx context.Context, attachment *domain.Attachment) error {
	return r.db.WithContext(ctx).Save(attachment).Error
}

func (r *attachmentRepository) ListByProject(ctx context.Context, projectID uint) ([]*domain.Attachment, error) {
	var attachments []*domain.Attachment
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at ASC").
		Find(&attachments).Error
	return attachments, err
}

// Photo Repository
type photoRepository struct {
	db *gorm.DB
}

// NewPhotoRepository 创建装修照片仓储实例
func NewPhotoRepository(db *gorm.DB) domain.PhotoRepository {
	return &photoRepository{db: db}
}

func (r *photoRepository) Save(ctx context.Context, photo *domain.RenovationPhoto) error {
	return r.db.WithContext(ctx).Save(photo).Error
}

func (r *photoRepository) ListByProject(ctx context.Context, projectID uint) ([]*domain.RenovationPhoto, error) {
	var photos []*domain.RenovationPhoto
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at ASC").
		Find(&photos).Error
	return photos, err
}

func (r *photoRepository) CountBySubStage(ctx context.Context, projectID uint, subStage domain.SubStage) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.RenovationPhoto{}).
		Where("project_id = ? AND sub_stage = ?", projectID, subStage).
		Count(&count).Error
	return count, err
}

// SalesRecord Repository
type salesRecordRepository struct {
	db *gorm.DB
}

// NewSalesRecordRepository 创建销售动态仓储实例
func NewSalesRecordRepository(db *gorm.DB) domain.SalesRecordRepository {
	return &salesRecordRepository{db: db}
}

func (r *salesRecordRepository) Save(ctx context.Context, record *domain.SalesRecord) error {
	return r.db.WithContext(ctx).Save(record).Error
}

func (r *salesRecordRepository) ListByProject(ctx context.Context, projectID uint) ([]*domain.SalesRecord, error) {
	var records []*domain.SalesRecord
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("date DESC").
		Find(&records).Error
	return records, err
}
