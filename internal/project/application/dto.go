package application

import (
	"time"

	"github.com/fangzhou-tech/flipops/internal/project/domain"
	"github.com/shopspring/decimal"
)

// ProjectMetricsDTO 项目派生指标，读取时重算，不落库
type ProjectMetricsDTO struct {
	// 单价（元/平方米）
	UnitPriceYuan int64 `json:"unit_price_yuan"`
	// 签约周期进度
	TimeProgress domain.TimeProgressResult `json:"time_progress"`
	// 延期日损失（元/天）
	DailyLoss int64 `json:"daily_loss"`
	// 占用天数
	OccupationDays int `json:"occupation_days"`
	// 年化回报（%）
	AnnualizedReturn decimal.Decimal `json:"annualized_return"`
	// 处置截止日
	Deadline *time.Time `json:"deadline,omitempty"`
}

// ProjectDetailDTO 项目详情
type ProjectDetailDTO struct {
	Project  *domain.Project      `json:"project"`
	Position domain.StagePosition `json:"position"`
	Metrics  ProjectMetricsDTO    `json:"metrics"`

	// full 查询时附带的分组子记录
	Photos      map[domain.SubStage][]*domain.RenovationPhoto       `json:"photos,omitempty"`
	Attachments map[domain.AttachmentCategory][]*domain.Attachment  `json:"attachments,omitempty"`
	Sales       map[domain.SalesRecordKind][]*domain.SalesRecord    `json:"sales,omitempty"`
	History     []*domain.StatusHistory                             `json:"history,omitempty"`
}

// ProjectListDTO 项目列表页
type ProjectListDTO struct {
	Items []*domain.Project `json:"items"`
	Total int64             `json:"total"`
}

// SubStageResultDTO 子阶段完成结果
type SubStageResultDTO struct {
	// 推进后的子阶段游标
	SubStage domain.SubStage `json:"sub_stage"`
	// 是否因此进入出售阶段
	EnteredSelling bool `json:"entered_selling"`
	// 该子阶段没有任何照片时为 true，仅作提示不拦截
	PhotoMissing bool `json:"photo_missing"`
}

// computeMetrics 从项目实体重算派生指标
func computeMetrics(p *domain.Project, now time.Time) ProjectMetricsDTO {
	m := ProjectMetricsDTO{
		UnitPriceYuan: domain.UnitPriceYuan(p.SigningPrice, p.Area),
		TimeProgress:  domain.TimeProgress(p.SigningDate, p.SigningPeriodDays, now),
		DailyLoss:     domain.DailyLoss(p.ExtensionRent),
	}

	if p.SigningDate != nil {
		end := now
		if p.SoldDate != nil {
			end = *p.SoldDate
		}
		m.OccupationDays = domain.OccupationDays(*p.SigningDate, end)
	}
	m.AnnualizedReturn = domain.AnnualizedReturn(p.ROI, m.OccupationDays)

	if p.HandoverDate != nil {
		deadline := domain.Deadline(*p.HandoverDate, p.SigningPeriodDays, p.ExtensionMonths)
		m.Deadline = &deadline
	}

	return m
}
