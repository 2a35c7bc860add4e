package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// 派生指标均为纯函数：输入缺失或非法时返回显式的零值默认，
// 从不返回错误，因为这些只是展示数据。

// UnitPriceYuan 单价（元/平方米）：总价（万元）×10000/面积，四舍五入取整。
// 面积非正时返回 0。
func UnitPriceYuan(totalPrice, area decimal.Decimal) int64 {
	if !area.IsPositive() {
		return 0
	}
	return totalPrice.Mul(decimal.NewFromInt(10000)).Div(area).Round(0).IntPart()
}

// TimeProgressResult 签约周期进度
type TimeProgressResult struct {
	// 已消耗天数
	ConsumedDays int `json:"consumed_days"`
	// 剩余天数，不为负
	RemainingDays int `json:"remaining_days"`
	// 进度百分比，0~100
	ProgressPct float64 `json:"progress_pct"`
}

// TimeProgress 计算签约周期进度。签约日期或周期缺失时全部为 0。
func TimeProgress(signingDate *time.Time, periodDays int, now time.Time) TimeProgressResult {
	if signingDate == nil || periodDays <= 0 {
		return TimeProgressResult{}
	}

	consumed := int(now.Sub(*signingDate).Hours() / 24)
	if consumed < 0 {
		consumed = 0
	}

	remaining := periodDays - consumed
	if remaining < 0 {
		remaining = 0
	}

	pct := float64(consumed) / float64(periodDays) * 100
	if pct > 100 {
		pct = 100
	}
	if pct < 0 {
		pct = 0
	}

	return TimeProgressResult{
		ConsumedDays:  consumed,
		RemainingDays: remaining,
		ProgressPct:   pct,
	}
}

// DailyLoss 延期日损失（元/天）：月租按 30 天平摊，四舍五入取整
func DailyLoss(extensionRent decimal.Decimal) int64 {
	if !extensionRent.IsPositive() {
		return 0
	}
	return extensionRent.Div(decimal.NewFromInt(30)).Round(0).IntPart()
}

// OccupationDays 占用天数：签约到结束（或当前）之间的天数，不为负
func OccupationDays(signingDate time.Time, end time.Time) int {
	days := int(end.Sub(signingDate).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// AnnualizedReturn 年化回报（%）：roi/占用天数×365。
// 占用天数非正时返回 0。这是近似值，不是时间加权 IRR。
func AnnualizedReturn(roi decimal.Decimal, occupationDays int) decimal.Decimal {
	if occupationDays <= 0 {
		return decimal.Zero
	}
	return roi.Div(decimal.NewFromInt(int64(occupationDays))).Mul(decimal.NewFromInt(365)).Round(2)
}

// Deadline 处置截止日：交房日期 + 签约周期天数 + 延期月数×30 天
func Deadline(handoverDate time.Time, periodDays, extensionMonths int) time.Time {
	return handoverDate.AddDate(0, 0, periodDays+extensionMonths*30)
}
