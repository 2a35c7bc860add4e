// Package domain 包含翻售项目的领域模型
package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fangzhou-tech/flipops/pkg/errs"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SubStageDates 各子阶段完成时间，JSON 列存储
type SubStageDates map[SubStage]time.Time

// Value 实现 driver.Valuer
func (d SubStageDates) Value() (driver.Value, error) {
	if d == nil {
		return "{}", nil
	}
	data, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan 实现 sql.Scanner
func (d *SubStageDates) Scan(value any) error {
	if value == nil {
		*d = SubStageDates{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported sub stage dates type %T", value)
	}
	if len(data) == 0 {
		*d = SubStageDates{}
		return nil
	}
	return json.Unmarshal(data, d)
}

// Project 翻售项目实体。
// 价格与成本统一以万元计，租金以元计。
type Project struct {
	gorm.Model
	// 项目名称
	Name string `gorm:"column:name;type:varchar(100);not null" json:"name"`
	// 小区名称
	Community string `gorm:"column:community;type:varchar(100);index" json:"community"`
	// 详细地址
	Address string `gorm:"column:address;type:varchar(255)" json:"address"`
	// 项目负责人
	Manager string `gorm:"column:manager;type:varchar(50)" json:"manager"`
	// 标签，逗号分隔
	Tags string `gorm:"column:tags;type:varchar(255)" json:"tags"`
	// 业主姓名
	OwnerName string `gorm:"column:owner_name;type:varchar(50)" json:"owner_name"`
	// 业主电话
	OwnerPhone string `gorm:"column:owner_phone;type:varchar(20)" json:"owner_phone"`
	// 来源线索 ID，直接录入时为空
	FromLeadID *uint `gorm:"column:from_lead_id;index" json:"from_lead_id,omitempty"`

	// 签约价（万元）
	SigningPrice decimal.Decimal `gorm:"column:signing_price;type:decimal(12,2)" json:"signing_price"`
	// 签约日期
	SigningDate *time.Time `gorm:"column:signing_date" json:"signing_date,omitempty"`
	// 建筑面积（平方米）
	Area decimal.Decimal `gorm:"column:area;type:decimal(10,2)" json:"area"`
	// 签约周期（天）
	SigningPeriodDays int `gorm:"column:signing_period_days" json:"signing_period_days"`
	// 延期期限（月）
	ExtensionMonths int `gorm:"column:extension_months" json:"extension_months"`
	// 延期月租（元）
	ExtensionRent decimal.Decimal `gorm:"column:extension_rent;type:decimal(12,2)" json:"extension_rent"`
	// 计划交房日期
	HandoverDate *time.Time `gorm:"column:handover_date" json:"handover_date,omitempty"`
	// 挂牌日期，进入出售阶段时写入
	ListingDate *time.Time `gorm:"column:listing_date" json:"listing_date,omitempty"`
	// 挂牌价（万元）
	ListPrice decimal.Decimal `gorm:"column:list_price;type:decimal(12,2)" json:"list_price"`
	// 成交价（万元）
	SoldPrice decimal.Decimal `gorm:"column:sold_price;type:decimal(12,2)" json:"sold_price"`
	// 成交日期
	SoldDate *time.Time `gorm:"column:sold_date" json:"sold_date,omitempty"`
	// 成本假设（万元）
	CostAssumption decimal.Decimal `gorm:"column:cost_assumption;type:decimal(12,2)" json:"cost_assumption"`
	// 其他约定
	OtherAgreements string `gorm:"column:other_agreements;type:text" json:"other_agreements"`
	// 备注
	Remarks string `gorm:"column:remarks;type:text" json:"remarks"`

	// 当前阶段
	Stage Stage `gorm:"column:stage;type:varchar(20);index;not null" json:"stage"`
	// 装修子阶段游标，仅装修期间有意义
	SubStage SubStage `gorm:"column:sub_stage;type:varchar(20)" json:"sub_stage"`
	// 各子阶段完成时间
	SubStageDates SubStageDates `gorm:"column:sub_stage_dates;type:json" json:"sub_stage_dates"`
	// 阶段变更时间
	StageChangedAt time.Time `gorm:"column:stage_changed_at" json:"stage_changed_at"`

	// 以下为售出后回写的财务缓存
	// 总收入（万元）
	TotalIncome decimal.Decimal `gorm:"column:total_income;type:decimal(12,2)" json:"total_income"`
	// 总支出（万元）
	TotalExpense decimal.Decimal `gorm:"column:total_expense;type:decimal(12,2)" json:"total_expense"`
	// 净现金流（万元）
	NetCashFlow decimal.Decimal `gorm:"column:net_cash_flow;type:decimal(12,2)" json:"net_cash_flow"`
	// 投资回报率（%）
	ROI decimal.Decimal `gorm:"column:roi;type:decimal(8,2)" json:"roi"`

	// 关联子记录
	Attachments      []Attachment      `gorm:"foreignKey:ProjectID" json:"attachments,omitempty"`
	RenovationPhotos []RenovationPhoto `gorm:"foreignKey:ProjectID" json:"renovation_photos,omitempty"`
	SalesRecords     []SalesRecord     `gorm:"foreignKey:ProjectID" json:"sales_records,omitempty"`
}

// TableName 指定表名
func (Project) TableName() string {
	return "projects"
}

// NewProject 创建签约阶段的新项目
func NewProject(name, community string) *Project {
	return &Project{
		Name:           name,
		Community:      community,
		Stage:          StageSigning,
		SubStageDates:  SubStageDates{},
		StageChangedAt: time.Now(),
	}
}

// BeginRenovation 签约转装修：要求处于签约阶段且提供交房日期，
// 子阶段游标重置到第一个子阶段
func (p *Project) BeginRenovation(handoverDate time.Time) error {
	if p.Stage != StageSigning {
		return errs.Precondition("project %d is %s, only a signing project can begin renovation", p.ID, p.Stage)
	}
	p.Stage = StageRenovating
	p.HandoverDate = &handoverDate
	p.SubStage = SubStages[0].Key
	p.StageChangedAt = time.Now()
	return nil
}

// CompleteSubStage 完成当前子阶段并推进游标。
// key 必须等于当前游标；最后一个子阶段完成时项目转入出售阶段并记录挂牌日期。
// 返回是否因此进入出售阶段。
func (p *Project) CompleteSubStage(key SubStage, completionDate time.Time) (bool, error) {
	if p.Stage != StageRenovating {
		return false, errs.Precondition("project %d is %s, sub stages only advance while renovating", p.ID, p.Stage)
	}
	if SubStageIndex(key) < 0 {
		return false, errs.Validation("sub_stage", fmt.Sprintf("unknown sub stage %q", key))
	}
	if key != p.SubStage {
		return false, errs.Precondition("current sub stage is %s, cannot complete %s", p.SubStage, key)
	}

	if p.SubStageDates == nil {
		p.SubStageDates = SubStageDates{}
	}
	p.SubStageDates[key] = completionDate

	next, ok := NextSubStage(key)
	if !ok {
		// 最后一个子阶段完成，直接进入出售阶段而不是越界的子阶段下标
		p.SubStage = SubStageDone
		p.Stage = StageSelling
		listing := completionDate
		p.ListingDate = &listing
		p.StageChangedAt = time.Now()
		return true, nil
	}

	p.SubStage = next
	return false, nil
}

// MarkSold 出售转已售。成交价与日期的字段校验由应用层完成。
// 对已售项目重复调用返回前置条件错误而不是静默重放。
func (p *Project) MarkSold(soldPrice decimal.Decimal, soldDate time.Time) error {
	if p.Stage == StageSold {
		return errs.Precondition("project %d is already sold", p.ID)
	}
	if p.Stage != StageSelling {
		return errs.Precondition("project %d is %s, only a selling project can be sold", p.ID, p.Stage)
	}
	p.Stage = StageSold
	p.SoldPrice = soldPrice
	p.SoldDate = &soldDate
	p.StageChangedAt = time.Now()
	p.recomputeFinancials()
	return nil
}

// recomputeFinancials 售出后回写财务缓存
func (p *Project) recomputeFinancials() {
	p.TotalIncome = p.SoldPrice
	p.TotalExpense = p.SigningPrice.Add(p.CostAssumption)
	p.NetCashFlow = p.TotalIncome.Sub(p.TotalExpense)
	if p.TotalExpense.IsPositive() {
		p.ROI = p.NetCashFlow.Div(p.TotalExpense).Mul(decimal.NewFromInt(100)).Round(2)
	} else {
		p.ROI = decimal.Zero
	}
}

// Position 解析当前生命周期位置
func (p *Project) Position() StagePosition {
	return ResolvePosition(p.Stage, p.SubStage, p.SubStageDates)
}

// AttachmentCategory 附件分类
type AttachmentCategory string

const (
	AttachmentContract    AttachmentCategory = "contract"
	AttachmentCertificate AttachmentCategory = "certificate"
	AttachmentInvoice     AttachmentCategory = "invoice"
	AttachmentOther       AttachmentCategory = "other"
)

// AttachmentCategories 有序的附件分类注册表
var AttachmentCategories = []AttachmentCategory{
	AttachmentContract,
	AttachmentCertificate,
	AttachmentInvoice,
	AttachmentOther,
}

// Attachment 项目附件
type Attachment struct {
	gorm.Model
	ProjectID uint               `gorm:"column:project_id;index;not null" json:"project_id"`
	Category  AttachmentCategory `gorm:"column:category;type:varchar(20);not null" json:"category"`
	Name      string             `gorm:"column:name;type:varchar(255);not null" json:"name"`
	URL       string             `gorm:"column:url;type:varchar(500);not null" json:"url"`
	Uploader  string             `gorm:"column:uploader;type:varchar(50)" json:"uploader"`
}

// TableName 指定表名
func (Attachment) TableName() string {
	return "project_attachments"
}

// RenovationPhoto 装修阶段照片
type RenovationPhoto struct {
	gorm.Model
	ProjectID uint     `gorm:"column:project_id;index;not null" json:"project_id"`
	SubStage  SubStage `gorm:"column:sub_stage;type:varchar(20);index;not null" json:"sub_stage"`
	URL       string   `gorm:"column:url;type:varchar(500);not null" json:"url"`
	Note      string   `gorm:"column:note;type:varchar(255)" json:"note"`
	Uploader  string   `gorm:"column:uploader;type:varchar(50)" json:"uploader"`
}

// TableName 指定表名
func (RenovationPhoto) TableName() string {
	return "project_renovation_photos"
}

// SalesRecordKind 销售动态类型
type SalesRecordKind string

const (
	SalesKindViewing     SalesRecordKind = "viewing"
	SalesKindOffer       SalesRecordKind = "offer"
	SalesKindNegotiation SalesRecordKind = "negotiation"
)

// SalesRecordKinds 有序的销售动态类型注册表
var SalesRecordKinds = []SalesRecordKind{
	SalesKindViewing,
	SalesKindOffer,
	SalesKindNegotiation,
}

// SalesRecord 出售阶段的带看/出价/谈判记录
type SalesRecord struct {
	gorm.Model
	ProjectID uint            `gorm:"column:project_id;index;not null" json:"project_id"`
	Kind      SalesRecordKind `gorm:"column:kind;type:varchar(20);not null" json:"kind"`
	Date      time.Time       `gorm:"column:date;not null" json:"date"`
	Customer  string          `gorm:"column:customer;type:varchar(50)" json:"customer"`
	// 出价（万元），带看记录可为空
	Price *decimal.Decimal `gorm:"column:price;type:decimal(12,2)" json:"price,omitempty"`
	Notes string           `gorm:"column:notes;type:varchar(500)" json:"notes"`
}

// TableName 指定表名
func (SalesRecord) TableName() string {
	return "project_sales_records"
}

// StatusHistory 项目阶段变更历史
type StatusHistory struct {
	gorm.Model
	ProjectID uint   `gorm:"column:project_id;index;not null" json:"project_id"`
	UserID    uint   `gorm:"column:user_id" json:"user_id"`
	OldStage  Stage  `gorm:"column:old_stage;type:varchar(20)" json:"old_stage"`
	NewStage  Stage  `gorm:"column:new_stage;type:varchar(20);not null" json:"new_stage"`
	// 子阶段流转时记录对应子阶段
	SubStage SubStage `gorm:"column:sub_stage;type:varchar(20)" json:"sub_stage,omitempty"`
	Remark   string   `gorm:"column:remark;type:varchar(255)" json:"remark"`
}

// TableName 指定表名
func (StatusHistory) TableName() string {
	return "project_status_histories"
}
