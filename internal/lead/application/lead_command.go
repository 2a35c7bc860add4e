// Package application 线索上下文应用服务
package application

import (
	"context"
	"fmt"
	"time"

	"github.com/fangzhou-tech/flipops/internal/lead/domain"
	"github.com/fangzhou-tech/flipops/pkg/errs"
	"github.com/fangzhou-tech/flipops/pkg/logger"
	"github.com/shopspring/decimal"
)

// Kafka 主题
const (
	TopicLeadCreated       = "lead.created"
	TopicLeadStatusChanged = "lead.status_changed"
	TopicFollowUpAdded     = "lead.followup_added"
)

// CreateLeadCommand 线索录入命令
type CreateLeadCommand struct {
	Community    string
	Layout       string
	Orientation  string
	Floor        string
	Area         decimal.Decimal
	TotalPrice   decimal.Decimal
	UnitPrice    decimal.Decimal
	District     string
	BusinessArea string
	Remarks      string
	Images       []string
	CreatorID    uint
	CreatorName  string
}

// AssessLeadCommand 评估命令
type AssessLeadCommand struct {
	LeadID    uint
	AuditorID uint
	EvalPrice decimal.Decimal
	Reason    string
}

// RejectLeadCommand 拒绝命令
type RejectLeadCommand struct {
	LeadID    uint
	AuditorID uint
	Reason    string
}

// ScheduleVisitCommand 安排看房命令
type ScheduleVisitCommand struct {
	LeadID    uint
	UserID    uint
	VisitDate time.Time
}

// AddFollowUpCommand 添加跟进命令
type AddFollowUpCommand struct {
	LeadID     uint
	Method     string
	Content    string
	AuthorID   uint
	AuthorName string
	OccurredAt *time.Time
}

// LeadCommandService 线索命令服务，
// 状态迁移与历史记录在同一事务内落库
type LeadCommandService struct {
	repo         domain.LeadRepository
	followUpRepo domain.FollowUpRepository
	publisher    domain.EventPublisher
}

// NewLeadCommandService 创建线索命令服务
func NewLeadCommandService(repo domain.LeadRepository, followUpRepo domain.FollowUpRepository, publisher domain.EventPublisher) *LeadCommandService {
	return &LeadCommandService{repo: repo, followUpRepo: followUpRepo, publisher: publisher}
}

// CreateLead 录入线索
func (s *LeadCommandService) CreateLead(ctx context.Context, cmd CreateLeadCommand) (uint, error) {
	lead, err := domain.NewLead(&domain.Lead{
		Community:    cmd.Community,
		Layout:       cmd.Layout,
		Orientation:  cmd.Orientation,
		Floor:        cmd.Floor,
		Area:         cmd.Area,
		TotalPrice:   cmd.TotalPrice,
		UnitPrice:    cmd.UnitPrice,
		District:     cmd.District,
		BusinessArea: cmd.BusinessArea,
		Remarks:      cmd.Remarks,
		Images:       cmd.Images,
		CreatorID:    cmd.CreatorID,
		CreatorName:  cmd.CreatorName,
	})
	if err != nil {
		return 0, err
	}

	if err := s.repo.Save(ctx, lead); err != nil {
		return 0, err
	}

	s.publish(ctx, TopicLeadCreated, lead.ID, domain.LeadCreatedEvent{
		LeadID:     lead.ID,
		Community:  lead.Community,
		District:   lead.District,
		TotalPrice: lead.TotalPrice,
		Area:       lead.Area,
		CreatorID:  lead.CreatorID,
		Timestamp:  time.Now(),
	})
	return lead.ID, nil
}

// AssessLead 评估通过，待评估转待看房
func (s *LeadCommandService) AssessLead(ctx context.Context, cmd AssessLeadCommand) error {
	return s.mutate(ctx, cmd.LeadID, cmd.AuditorID, cmd.Reason, func(lead *domain.Lead) error {
		return lead.Assess(cmd.AuditorID, cmd.EvalPrice, cmd.Reason)
	})
}

// RejectLead 评估拒绝
func (s *LeadCommandService) RejectLead(ctx context.Context, cmd RejectLeadCommand) error {
	return s.mutate(ctx, cmd.LeadID, cmd.AuditorID, cmd.Reason, func(lead *domain.Lead) error {
		return lead.Reject(cmd.AuditorID, cmd.Reason)
	})
}

// ScheduleVisit 安排看房日期
func (s *LeadCommandService) ScheduleVisit(ctx context.Context, cmd ScheduleVisitCommand) error {
	lead, err := s.repo.GetByID(ctx, cmd.LeadID)
	if err != nil {
		return err
	}
	if err := lead.ScheduleVisit(cmd.VisitDate); err != nil {
		return err
	}
	return s.repo.Save(ctx, lead)
}

// MarkVisited 完成看房
func (s *LeadCommandService) MarkVisited(ctx context.Context, leadID, userID uint) error {
	return s.mutate(ctx, leadID, userID, "", func(lead *domain.Lead) error {
		return lead.MarkVisited()
	})
}

// SignLead 签约，返回线索 id 供项目录入关联
func (s *LeadCommandService) SignLead(ctx context.Context, leadID, userID uint) (uint, error) {
	if err := s.mutate(ctx, leadID, userID, "", func(lead *domain.Lead) error {
		return lead.Sign()
	}); err != nil {
		return 0, err
	}
	return leadID, nil
}

// AddFollowUp 添加跟进记录
func (s *LeadCommandService) AddFollowUp(ctx context.Context, cmd AddFollowUpCommand) (uint, error) {
	method := domain.FollowUpMethod(cmd.Method)
	if !method.Valid() {
		return 0, errs.Validation("method", "unknown follow-up method")
	}
	if cmd.Content == "" {
		return 0, errs.Validation("content", "follow-up content is required")
	}

	lead, err := s.repo.GetByID(ctx, cmd.LeadID)
	if err != nil {
		return 0, err
	}
	if lead.Status == domain.StatusRejected {
		return 0, errs.Precondition("lead %d is rejected", lead.ID)
	}

	occurredAt := time.Now()
	if cmd.OccurredAt != nil {
		occurredAt = *cmd.OccurredAt
	}
	followUp := &domain.FollowUp{
		LeadID:     cmd.LeadID,
		Method:     method,
		Content:    cmd.Content,
		AuthorID:   cmd.AuthorID,
		AuthorName: cmd.AuthorName,
		OccurredAt: occurredAt,
	}
	if err := s.followUpRepo.Save(ctx, followUp); err != nil {
		return 0, err
	}

	s.publish(ctx, TopicFollowUpAdded, cmd.LeadID, domain.FollowUpAddedEvent{
		LeadID:     cmd.LeadID,
		FollowUpID: followUp.ID,
		Method:     method,
		AuthorID:   cmd.AuthorID,
		Timestamp:  time.Now(),
	})
	return followUp.ID, nil
}

// DeleteLead 软删除线索
func (s *LeadCommandService) DeleteLead(ctx context.Context, id uint) error {
	return s.repo.Delete(ctx, id)
}

// mutate 读取线索、应用变更、在事务中保存并记录状态历史
func (s *LeadCommandService) mutate(ctx context.Context, leadID, userID uint, reason string, apply func(*domain.Lead) error) error {
	lead, err := s.repo.GetByID(ctx, leadID)
	if err != nil {
		return err
	}

	from := lead.Status
	if err := apply(lead); err != nil {
		return err
	}

	if err := s.repo.WithTx(ctx, func(txRepo domain.LeadRepository) error {
		if err := txRepo.Save(ctx, lead); err != nil {
			return err
		}
		return txRepo.SaveHistory(ctx, &domain.StatusHistory{
			LeadID:     lead.ID,
			FromStatus: from,
			ToStatus:   lead.Status,
			Reason:     reason,
			ChangedBy:  userID,
		})
	}); err != nil {
		return err
	}

	s.publish(ctx, TopicLeadStatusChanged, lead.ID, domain.LeadStatusChangedEvent{
		LeadID:     lead.ID,
		FromStatus: from,
		ToStatus:   lead.Status,
		Reason:     reason,
		ChangedBy:  userID,
		Timestamp:  time.Now(),
	})
	return nil
}

func (s *LeadCommandService) publish(ctx context.Context, topic string, leadID uint, event any) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, topic, leadKey(leadID), event); err != nil {
		logger.Warn(ctx, "failed to publish lead event", "topic", topic, "error", err)
	}
}

func leadKey(id uint) string {
	return fmt.Sprintf("lead-%d", id)
}
