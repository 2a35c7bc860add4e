package application

import (
	"context"
	"time"

	"github.com/fangzhou-tech/flipops/internal/project/domain"
)

// ProjectQueryService 项目查询服务，详情读取走缓存，
// full 查询总是直连仓储以拿到最新子记录
type ProjectQueryService struct {
	repo      domain.ProjectRepository
	attRepo   domain.AttachmentRepository
	photoRepo domain.PhotoRepository
	salesRepo domain.SalesRecordRepository
	cache     ProjectCache
}

// NewProjectQueryService 创建项目查询服务实例
func NewProjectQueryService(
	repo domain.ProjectRepository,
	attRepo domain.AttachmentRepository,
	photoRepo domain.PhotoRepository,
	salesRepo domain.SalesRecordRepository,
	cache ProjectCache,
) *ProjectQueryService {
	return &ProjectQueryService{
		repo:      repo,
		attRepo:   attRepo,
		photoRepo: photoRepo,
		salesRepo: salesRepo,
		cache:     cache,
	}
}

// GetProject 获取项目详情；full 时附带分组后的子记录与变更历史
func (s *ProjectQueryService) GetProject(ctx context.Context, id uint, full bool) (*ProjectDetailDTO, error) {
	if !full && s.cache != nil {
		if cached, ok := s.cache.Get(ctx, id); ok {
			return cached, nil
		}
	}

	project, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &ProjectDetailDTO{
		Project:  project,
		Position: project.Position(),
		Metrics:  computeMetrics(project, time.Now()),
	}

	if !full {
		if s.cache != nil {
			s.cache.Set(ctx, id, detail)
		}
		return detail, nil
	}

	photos, err := s.photoRepo.ListByProject(ctx, id)
	if err != nil {
		return nil, err
	}
	attachments, err := s.attRepo.ListByProject(ctx, id)
	if err != nil {
		return nil, err
	}
	sales, err := s.salesRepo.ListByProject(ctx, id)
	if err != nil {
		return nil, err
	}
	history, err := s.repo.ListHistory(ctx, id)
	if err != nil {
		return nil, err
	}

	detail.Photos = domain.GroupPhotosBySubStage(photos)
	detail.Attachments = domain.GroupAttachmentsByCategory(attachments)
	detail.Sales = domain.GroupSalesByKind(sales)
	detail.History = history
	return detail, nil
}

// ListProjects 项目列表
func (s *ProjectQueryService) ListProjects(ctx context.Context, filter domain.ProjectFilter) (*ProjectListDTO, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &ProjectListDTO{Items: items, Total: total}, nil
}

// GetMetrics 获取项目派生指标
func (s *ProjectQueryService) GetMetrics(ctx context.Context, id uint) (*ProjectMetricsDTO, error) {
	project, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	m := computeMetrics(project, time.Now())
	return &m, nil
}

// GetHistory 阶段变更历史，按时间倒序
func (s *ProjectQueryService) GetHistory(ctx context.Context, id uint) ([]*domain.StatusHistory, error) {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.ListHistory(ctx, id)
}
