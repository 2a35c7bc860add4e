package application

import (
	"context"
	"time"

	"github.com/fangzhou-tech/flipops/internal/project/domain"
	"github.com/fangzhou-tech/flipops/pkg/logger"
)

// DeadlineScanner 定时扫描签约阶段项目，处置期剩余天数低于阈值时
// 发出提醒事件，由 cron 驱动
type DeadlineScanner struct {
	repo      domain.ProjectRepository
	publisher domain.EventPublisher
	warnDays  int
}

// NewDeadlineScanner 创建到期扫描器
func NewDeadlineScanner(repo domain.ProjectRepository, publisher domain.EventPublisher, warnDays int) *DeadlineScanner {
	if warnDays <= 0 {
		warnDays = 15
	}
	return &DeadlineScanner{repo: repo, publisher: publisher, warnDays: warnDays}
}

// Scan 执行一轮扫描
func (s *DeadlineScanner) Scan(ctx context.Context) error {
	projects, err := s.repo.ListByStage(ctx, domain.StageSigning)
	if err != nil {
		return err
	}

	now := time.Now()
	warned := 0
	for _, p := range projects {
		progress := domain.TimeProgress(p.SigningDate, p.SigningPeriodDays, now)
		if p.SigningDate == nil || p.SigningPeriodDays <= 0 {
			continue
		}
		if progress.RemainingDays > s.warnDays {
			continue
		}

		warned++
		logger.Warn(ctx, "Project signing deadline approaching",
			"project_id", p.ID,
			"name", p.Name,
			"remaining_days", progress.RemainingDays,
		)
		if s.publisher != nil {
			event := domain.DeadlineApproachingEvent{
				ProjectID:     p.ID,
				Name:          p.Name,
				RemainingDays: progress.RemainingDays,
				Timestamp:     now,
			}
			if err := s.publisher.Publish(ctx, topicDeadlineApproaching, projectKey(p.ID), event); err != nil {
				logger.Error(ctx, "Failed to publish deadline event", "project_id", p.ID, "error", err)
			}
		}
	}

	logger.Info(ctx, "Deadline scan completed", "scanned", len(projects), "warned", warned)
	return nil
}
