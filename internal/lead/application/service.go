package application

import (
	"context"

	"github.com/fangzhou-tech/flipops/internal/lead/domain"
)

// LeadService 线索应用服务门面
type LeadService struct {
	command *LeadCommandService
	query   *LeadQueryService
}

// NewLeadService 创建线索应用服务
func NewLeadService(repo domain.LeadRepository, followUpRepo domain.FollowUpRepository, publisher domain.EventPublisher) *LeadService {
	return &LeadService{
		command: NewLeadCommandService(repo, followUpRepo, publisher),
		query:   NewLeadQueryService(repo, followUpRepo),
	}
}

// CreateLead 录入线索
func (s *LeadService) CreateLead(ctx context.Context, cmd CreateLeadCommand) (uint, error) {
	return s.command.CreateLead(ctx, cmd)
}

// AssessLead 评估通过
func (s *LeadService) AssessLead(ctx context.Context, cmd AssessLeadCommand) error {
	return s.command.AssessLead(ctx, cmd)
}

// RejectLead 评估拒绝
func (s *LeadService) RejectLead(ctx context.Context, cmd RejectLeadCommand) error {
	return s.command.RejectLead(ctx, cmd)
}

// ScheduleVisit 安排看房
func (s *LeadService) ScheduleVisit(ctx context.Context, cmd ScheduleVisitCommand) error {
	return s.command.ScheduleVisit(ctx, cmd)
}

// MarkVisited 完成看房
func (s *LeadService) MarkVisited(ctx context.Context, leadID, userID uint) error {
	return s.command.MarkVisited(ctx, leadID, userID)
}

// SignLead 签约
func (s *LeadService) SignLead(ctx context.Context, leadID, userID uint) (uint, error) {
	return s.command.SignLead(ctx, leadID, userID)
}

// AddFollowUp 添加跟进
func (s *LeadService) AddFollowUp(ctx context.Context, cmd AddFollowUpCommand) (uint, error) {
	return s.command.AddFollowUp(ctx, cmd)
}

// DeleteLead 软删除线索
func (s *LeadService) DeleteLead(ctx context.Context, id uint) error {
	return s.command.DeleteLead(ctx, id)
}

// GetLead 线索详情
func (s *LeadService) GetLead(ctx context.Context, id uint, full bool) (*LeadDetailDTO, error) {
	return s.query.GetLead(ctx, id, full)
}

// ListLeads 线索列表
func (s *LeadService) ListLeads(ctx context.Context, filter domain.LeadFilter) (*LeadListDTO, error) {
	return s.query.ListLeads(ctx, filter)
}

// ListFollowUps 跟进记录列表
func (s *LeadService) ListFollowUps(ctx context.Context, leadID uint) ([]*domain.FollowUp, error) {
	return s.query.ListFollowUps(ctx, leadID)
}
