package application

import (
	"context"

	"github.com/fangzhou-tech/flipops/internal/lead/domain"
)

// LeadDetailDTO 线索详情视图
type LeadDetailDTO struct {
	Lead          *domain.Lead            `json:"lead"`
	FloorCategory string                  `json:"floor_category"`
	RoomBucket    string                  `json:"room_bucket"`
	FollowUps     []*domain.FollowUp      `json:"follow_ups,omitempty"`
	History       []*domain.StatusHistory `json:"history,omitempty"`
}

// LeadListDTO 线索分页列表
type LeadListDTO struct {
	Items []*domain.Lead `json:"items"`
	Total int64          `json:"total"`
}

// LeadQueryService 线索查询服务
type LeadQueryService struct {
	repo         domain.LeadRepository
	followUpRepo domain.FollowUpRepository
}

// NewLeadQueryService 创建线索查询服务
func NewLeadQueryService(repo domain.LeadRepository, followUpRepo domain.FollowUpRepository) *LeadQueryService {
	return &LeadQueryService{repo: repo, followUpRepo: followUpRepo}
}

// GetLead 线索详情，full 时附带跟进与历史
func (s *LeadQueryService) GetLead(ctx context.Context, id uint, full bool) (*LeadDetailDTO, error) {
	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &LeadDetailDTO{
		Lead:          lead,
		FloorCategory: domain.FloorCategory(lead.Floor),
		RoomBucket:    domain.RoomBucket(lead.Layout),
	}
	if !full {
		return detail, nil
	}

	if detail.FollowUps, err = s.followUpRepo.ListByLead(ctx, id); err != nil {
		return nil, err
	}
	if detail.History, err = s.repo.ListHistory(ctx, id); err != nil {
		return nil, err
	}
	return detail, nil
}

// ListLeads 线索分页列表
func (s *LeadQueryService) ListLeads(ctx context.Context, filter domain.LeadFilter) (*LeadListDTO, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &LeadListDTO{Items: items, Total: total}, nil
}

// ListFollowUps 线索跟进记录，按时间倒序
func (s *LeadQueryService) ListFollowUps(ctx context.Context, leadID uint) ([]*domain.FollowUp, error) {
	if _, err := s.repo.GetByID(ctx, leadID); err != nil {
		return nil, err
	}
	return s.followUpRepo.ListByLead(ctx, leadID)
}
