package application

import (
	"context"

	"github.com/fangzhou-tech/flipops/internal/project/domain"
)

// ProjectService 项目服务门面，整合命令服务、查询服务与草稿服务
type ProjectService struct {
	commandService *ProjectCommandService
	queryService   *ProjectQueryService
	draftService   *DraftService
}

// NewProjectService 创建项目服务门面实例
func NewProjectService(
	repo domain.ProjectRepository,
	attRepo domain.AttachmentRepository,
	photoRepo domain.PhotoRepository,
	salesRepo domain.SalesRecordRepository,
	publisher domain.EventPublisher,
	cache ProjectCache,
	drafts domain.DraftStore,
) *ProjectService {
	return &ProjectService{
		commandService: NewProjectCommandService(repo, attRepo, photoRepo, salesRepo, publisher, cache),
		queryService:   NewProjectQueryService(repo, attRepo, photoRepo, salesRepo, cache),
		draftService:   NewDraftService(drafts),
	}
}

// CreateProject 录入新项目
func (s *ProjectService) CreateProject(ctx context.Context, cmd CreateProjectCommand) (uint, error) {
	return s.commandService.CreateProject(ctx, cmd)
}

// AdvanceFromSigning 签约转装修
func (s *ProjectService) AdvanceFromSigning(ctx context.Context, cmd AdvanceFromSigningCommand) error {
	return s.commandService.AdvanceFromSigning(ctx, cmd)
}

// CompleteSubStage 完成装修子阶段
func (s *ProjectService) CompleteSubStage(ctx context.Context, cmd CompleteSubStageCommand) (*SubStageResultDTO, error) {
	return s.commandService.CompleteSubStage(ctx, cmd)
}

// AdvanceToSold 出售转已售
func (s *ProjectService) AdvanceToSold(ctx context.Context, cmd AdvanceToSoldCommand) error {
	return s.commandService.AdvanceToSold(ctx, cmd)
}

// AddAttachment 添加附件
func (s *ProjectService) AddAttachment(ctx context.Context, cmd AddAttachmentCommand) (uint, error) {
	return s.commandService.AddAttachment(ctx, cmd)
}

// AddPhoto 添加装修照片
func (s *ProjectService) AddPhoto(ctx context.Context, cmd AddPhotoCommand) (uint, error) {
	return s.commandService.AddPhoto(ctx, cmd)
}

// AddSalesRecord 添加销售动态
func (s *ProjectService) AddSalesRecord(ctx context.Context, cmd AddSalesRecordCommand) (uint, error) {
	return s.commandService.AddSalesRecord(ctx, cmd)
}

// GetProject 获取项目详情
func (s *ProjectService) GetProject(ctx context.Context, id uint, full bool) (*ProjectDetailDTO, error) {
	return s.queryService.GetProject(ctx, id, full)
}

// ListProjects 项目列表
func (s *ProjectService) ListProjects(ctx context.Context, filter domain.ProjectFilter) (*ProjectListDTO, error) {
	return s.queryService.ListProjects(ctx, filter)
}

// GetMetrics 获取项目派生指标
func (s *ProjectService) GetMetrics(ctx context.Context, id uint) (*ProjectMetricsDTO, error) {
	return s.queryService.GetMetrics(ctx, id)
}

// GetHistory 阶段变更历史
func (s *ProjectService) GetHistory(ctx context.Context, id uint) ([]*domain.StatusHistory, error) {
	return s.queryService.GetHistory(ctx, id)
}

// GetDraft 读取录入表单草稿
func (s *ProjectService) GetDraft(ctx context.Context, userID uint) ([]byte, error) {
	return s.draftService.Get(ctx, userID)
}

// SaveDraft 保存录入表单草稿
func (s *ProjectService) SaveDraft(ctx context.Context, userID uint, payload []byte) error {
	return s.draftService.Save(ctx, userID, payload)
}

// ClearDraft 清除录入表单草稿
func (s *ProjectService) ClearDraft(ctx context.Context, userID uint) error {
	return s.draftService.Clear(ctx, userID)
}
