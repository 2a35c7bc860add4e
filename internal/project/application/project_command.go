package application

import (
	"context"
	"fmt"
	"time"

	"github.com/fangzhou-tech/flipops/internal/project/domain"
	"github.com/fangzhou-tech/flipops/pkg/errs"
	"github.com/fangzhou-tech/flipops/pkg/logger"
	"github.com/shopspring/decimal"
)

// 事件 topic
const (
	topicProjectCreated      = "project.created"
	topicStageAdvanced       = "project.stage_advanced"
	topicSubStageCompleted   = "project.substage_completed"
	topicProjectSold         = "project.sold"
	topicDeadlineApproaching = "project.deadline_approaching"
)

// ProjectCache 项目详情读缓存，写操作后整体失效，
// 刷新靠重新拉取完整记录而不是本地增量合并
type ProjectCache interface {
	Get(ctx context.Context, projectID uint) (*ProjectDetailDTO, bool)
	Set(ctx context.Context, projectID uint, detail *ProjectDetailDTO)
	Invalidate(ctx context.Context, projectID uint)
}

// CreateProjectCommand 项目录入命令
type CreateProjectCommand struct {
	Name              string
	Community         string
	Address           string
	Manager           string
	Tags              string
	OwnerName         string
	OwnerPhone        string
	FromLeadID        *uint
	SigningPrice      decimal.Decimal
	SigningDate       *time.Time
	Area              decimal.Decimal
	SigningPeriodDays int
	ExtensionMonths   int
	ExtensionRent     decimal.Decimal
	ListPrice         decimal.Decimal
	CostAssumption    decimal.Decimal
	OtherAgreements   string
	Remarks           string
}

// AdvanceFromSigningCommand 签约转装修命令
type AdvanceFromSigningCommand struct {
	ProjectID    uint
	UserID       uint
	HandoverDate *time.Time
}

// CompleteSubStageCommand 完成装修子阶段命令
type CompleteSubStageCommand struct {
	ProjectID      uint
	UserID         uint
	SubStage       string
	CompletionDate *time.Time
}

// AdvanceToSoldCommand 出售转已售命令
type AdvanceToSoldCommand struct {
	ProjectID uint
	UserID    uint
	SoldPrice decimal.Decimal
	SoldDate  *time.Time
}

// AddAttachmentCommand 添加附件命令
type AddAttachmentCommand struct {
	ProjectID uint
	Category  string
	Name      string
	URL       string
	Uploader  string
}

// AddPhotoCommand 添加装修照片命令
type AddPhotoCommand struct {
	ProjectID uint
	SubStage  string
	URL       string
	Note      string
	Uploader  string
}

// AddSalesRecordCommand 添加销售动态命令
type AddSalesRecordCommand struct {
	ProjectID uint
	Kind      string
	Date      *time.Time
	Customer  string
	Price     *decimal.Decimal
	Notes     string
}

// ProjectCommandService 项目命令服务，
// 生命周期流转在本地校验前置条件后才触发持久化，
// 持久化失败时不应用任何本地状态变更
type ProjectCommandService struct {
	repo      domain.ProjectRepository
	attRepo   domain.AttachmentRepository
	photoRepo domain.PhotoRepository
	salesRepo domain.SalesRecordRepository
	publisher domain.EventPublisher
	cache     ProjectCache
}

// NewProjectCommandService 创建项目命令服务实例
func NewProjectCommandService(
	repo domain.ProjectRepository,
	attRepo domain.AttachmentRepository,
	photoRepo domain.PhotoRepository,
	salesRepo domain.SalesRecordRepository,
	publisher domain.EventPublisher,
	cache ProjectCache,
) *ProjectCommandService {
	return &ProjectCommandService{
		repo:      repo,
		attRepo:   attRepo,
		photoRepo: photoRepo,
		salesRepo: salesRepo,
		publisher: publisher,
		cache:     cache,
	}
}

// CreateProject 录入新项目
func (s *ProjectCommandService) CreateProject(ctx context.Context, cmd CreateProjectCommand) (uint, error) {
	if cmd.Name == "" {
		return 0, errs.Validation("name", "project name is required")
	}
	if cmd.SigningPrice.IsNegative() {
		return 0, errs.Validation("signing_price", "signing price cannot be negative")
	}

	project := domain.NewProject(cmd.Name, cmd.Community)
	project.Address = cmd.Address
	project.Manager = cmd.Manager
	project.Tags = cmd.Tags
	project.OwnerName = cmd.OwnerName
	project.OwnerPhone = cmd.OwnerPhone
	project.FromLeadID = cmd.FromLeadID
	project.SigningPrice = cmd.SigningPrice
	project.SigningDate = cmd.SigningDate
	project.Area = cmd.Area
	project.SigningPeriodDays = cmd.SigningPeriodDays
	project.ExtensionMonths = cmd.ExtensionMonths
	project.ExtensionRent = cmd.ExtensionRent
	project.ListPrice = cmd.ListPrice
	project.CostAssumption = cmd.CostAssumption
	project.OtherAgreements = cmd.OtherAgreements
	project.Remarks = cmd.Remarks

	if err := s.repo.Save(ctx, project); err != nil {
		return 0, err
	}

	s.publish(ctx, topicProjectCreated, project.Name, domain.ProjectCreatedEvent{
		ProjectID: project.ID,
		Name:      project.Name,
		Community: project.Community,
		FromLead:  project.FromLeadID,
		Timestamp: time.Now(),
	})

	return project.ID, nil
}

// AdvanceFromSigning 签约转装修：要求交房日期非空
func (s *ProjectCommandService) AdvanceFromSigning(ctx context.Context, cmd AdvanceFromSigningCommand) error {
	if cmd.HandoverDate == nil {
		return errs.Validation("handover_date", "handover date is required")
	}

	var oldStage domain.Stage
	err := s.repo.WithTx(ctx, func(txRepo domain.ProjectRepository) error {
		project, err := txRepo.Get(ctx, cmd.ProjectID)
		if err != nil {
			return err
		}

		oldStage = project.Stage
		if err := project.BeginRenovation(*cmd.HandoverDate); err != nil {
			return err
		}
		if err := txRepo.Save(ctx, project); err != nil {
			return err
		}
		return txRepo.SaveHistory(ctx, &domain.StatusHistory{
			ProjectID: project.ID,
			UserID:    cmd.UserID,
			OldStage:  oldStage,
			NewStage:  project.Stage,
		})
	})
	if err != nil {
		return err
	}

	s.invalidate(ctx, cmd.ProjectID)
	s.publish(ctx, topicStageAdvanced, projectKey(cmd.ProjectID), domain.StageAdvancedEvent{
		ProjectID: cmd.ProjectID,
		OldStage:  oldStage,
		NewStage:  domain.StageRenovating,
		UserID:    cmd.UserID,
		Timestamp: time.Now(),
	})
	return nil
}

// CompleteSubStage 完成当前装修子阶段。
// 照片缺失只在结果里提示，不拦截提交。
func (s *ProjectCommandService) CompleteSubStage(ctx context.Context, cmd CompleteSubStageCommand) (*SubStageResultDTO, error) {
	if cmd.CompletionDate == nil {
		return nil, errs.Validation("completion_date", "completion date is required")
	}

	subStage := domain.SubStage(cmd.SubStage)

	photoCount, err := s.photoRepo.CountBySubStage(ctx, cmd.ProjectID, subStage)
	if err != nil {
		return nil, err
	}
	if photoCount == 0 {
		logger.Warn(ctx, "Completing sub stage without photos",
			"project_id", cmd.ProjectID,
			"sub_stage", cmd.SubStage,
		)
	}

	result := &SubStageResultDTO{PhotoMissing: photoCount == 0}
	err = s.repo.WithTx(ctx, func(txRepo domain.ProjectRepository) error {
		project, err := txRepo.Get(ctx, cmd.ProjectID)
		if err != nil {
			return err
		}

		enteredSelling, err := project.CompleteSubStage(subStage, *cmd.CompletionDate)
		if err != nil {
			return err
		}
		result.SubStage = project.SubStage
		result.EnteredSelling = enteredSelling

		if err := txRepo.Save(ctx, project); err != nil {
			return err
		}

		history := &domain.StatusHistory{
			ProjectID: project.ID,
			UserID:    cmd.UserID,
			OldStage:  domain.StageRenovating,
			NewStage:  project.Stage,
			SubStage:  subStage,
		}
		return txRepo.SaveHistory(ctx, history)
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, cmd.ProjectID)
	s.publish(ctx, topicSubStageCompleted, projectKey(cmd.ProjectID), domain.SubStageCompletedEvent{
		ProjectID:  cmd.ProjectID,
		SubStage:   subStage,
		PhotoCount: int(photoCount),
		UserID:     cmd.UserID,
		Timestamp:  time.Now(),
	})
	if result.EnteredSelling {
		s.publish(ctx, topicStageAdvanced, projectKey(cmd.ProjectID), domain.StageAdvancedEvent{
			ProjectID: cmd.ProjectID,
			OldStage:  domain.StageRenovating,
			NewStage:  domain.StageSelling,
			UserID:    cmd.UserID,
			Timestamp: time.Now(),
		})
	}
	return result, nil
}

// AdvanceToSold 出售转已售：要求成交价为正且成交日期非空
func (s *ProjectCommandService) AdvanceToSold(ctx context.Context, cmd AdvanceToSoldCommand) error {
	if cmd.SoldDate == nil {
		return errs.Validation("sold_date", "sold date is required")
	}
	if !cmd.SoldPrice.IsPositive() {
		return errs.Validation("sold_price", "sold price must be positive")
	}

	var event domain.ProjectSoldEvent
	err := s.repo.WithTx(ctx, func(txRepo domain.ProjectRepository) error {
		project, err := txRepo.Get(ctx, cmd.ProjectID)
		if err != nil {
			return err
		}

		oldStage := project.Stage
		if err := project.MarkSold(cmd.SoldPrice, *cmd.SoldDate); err != nil {
			return err
		}
		if err := txRepo.Save(ctx, project); err != nil {
			return err
		}

		event = domain.ProjectSoldEvent{
			ProjectID:   project.ID,
			SoldPrice:   project.SoldPrice,
			SoldDate:    *project.SoldDate,
			NetCashFlow: project.NetCashFlow,
			ROI:         project.ROI,
			UserID:      cmd.UserID,
			Timestamp:   time.Now(),
		}
		return txRepo.SaveHistory(ctx, &domain.StatusHistory{
			ProjectID: project.ID,
			UserID:    cmd.UserID,
			OldStage:  oldStage,
			NewStage:  domain.StageSold,
		})
	})
	if err != nil {
		return err
	}

	s.invalidate(ctx, cmd.ProjectID)
	s.publish(ctx, topicProjectSold, projectKey(cmd.ProjectID), event)
	return nil
}

// AddAttachment 添加附件
func (s *ProjectCommandService) AddAttachment(ctx context.Context, cmd AddAttachmentCommand) (uint, error) {
	if cmd.URL == "" {
		return 0, errs.Validation("url", "attachment url is required")
	}
	category := domain.AttachmentCategory(cmd.Category)
	if !validAttachmentCategory(category) {
		category = domain.AttachmentOther
	}

	if _, err := s.repo.Get(ctx, cmd.ProjectID); err != nil {
		return 0, err
	}

	att := &domain.Attachment{
		ProjectID: cmd.ProjectID,
		Category:  category,
		Name:      cmd.Name,
		URL:       cmd.URL,
		Uploader:  cmd.Uploader,
	}
	if err := s.attRepo.Save(ctx, att); err != nil {
		return 0, err
	}

	s.invalidate(ctx, cmd.ProjectID)
	return att.ID, nil
}

// AddPhoto 添加装修照片，子阶段必须在注册表内
func (s *ProjectCommandService) AddPhoto(ctx context.Context, cmd AddPhotoCommand) (uint, error) {
	if cmd.URL == "" {
		return 0, errs.Validation("url", "photo url is required")
	}
	subStage := domain.SubStage(cmd.SubStage)
	if domain.SubStageIndex(subStage) < 0 {
		return 0, errs.Validation("sub_stage", "unknown renovation sub stage")
	}

	if _, err := s.repo.Get(ctx, cmd.ProjectID); err != nil {
		return 0, err
	}

	photo := &domain.RenovationPhoto{
		ProjectID: cmd.ProjectID,
		SubStage:  subStage,
		URL:       cmd.URL,
		Note:      cmd.Note,
		Uploader:  cmd.Uploader,
	}
	if err := s.photoRepo.Save(ctx, photo); err != nil {
		return 0, err
	}

	s.invalidate(ctx, cmd.ProjectID)
	return photo.ID, nil
}

// AddSalesRecord 添加销售动态
func (s *ProjectCommandService) AddSalesRecord(ctx context.Context, cmd AddSalesRecordCommand) (uint, error) {
	if cmd.Date == nil {
		return 0, errs.Validation("date", "record date is required")
	}
	kind := domain.SalesRecordKind(cmd.Kind)
	if !validSalesKind(kind) {
		return 0, errs.Validation("kind", "unknown sales record kind")
	}

	project, err := s.repo.Get(ctx, cmd.ProjectID)
	if err != nil {
		return 0, err
	}
	if project.Stage != domain.StageSelling && project.Stage != domain.StageSold {
		return 0, errs.Precondition("project %d is %s, sales records only apply to selling projects", project.ID, project.Stage)
	}

	record := &domain.SalesRecord{
		ProjectID: cmd.ProjectID,
		Kind:      kind,
		Date:      *cmd.Date,
		Customer:  cmd.Customer,
		Price:     cmd.Price,
		Notes:     cmd.Notes,
	}
	if err := s.salesRepo.Save(ctx, record); err != nil {
		return 0, err
	}

	s.invalidate(ctx, cmd.ProjectID)
	return record.ID, nil
}

func (s *ProjectCommandService) publish(ctx context.Context, topic, key string, event any) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, topic, key, event); err != nil {
		logger.Error(ctx, "Failed to publish project event", "topic", topic, "error", err)
	}
}

func (s *ProjectCommandService) invalidate(ctx context.Context, projectID uint) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, projectID)
	}
}

func validAttachmentCategory(c domain.AttachmentCategory) bool {
	for _, cat := range domain.AttachmentCategories {
		if c == cat {
			return true
		}
	}
	return false
}

func validSalesKind(k domain.SalesRecordKind) bool {
	for _, kind := range domain.SalesRecordKinds {
		if k == kind {
			return true
		}
	}
	return false
}

func projectKey(id uint) string {
	return fmt.Sprintf("project-%d", id)
}
