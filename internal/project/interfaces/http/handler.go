// Package http 提供项目上下文的 REST 接口
package http

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/fangzhou-tech/flipops/internal/project/application"
	"github.com/fangzhou-tech/flipops/internal/project/domain"
	"github.com/fangzhou-tech/flipops/pkg/errs"
	"github.com/fangzhou-tech/flipops/pkg/metrics"
	"github.com/fangzhou-tech/flipops/pkg/middleware"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// Handler 项目 HTTP 处理器
type Handler struct {
	app     *application.ProjectService
	metrics *metrics.Metrics
}

// NewHandler 注册项目路由
func NewHandler(g *gin.RouterGroup, app *application.ProjectService, m *metrics.Metrics) {
	h := &Handler{app: app, metrics: m}

	projects := g.Group("/projects")
	{
		projects.POST("", h.Create)
		projects.GET("", h.List)
		projects.GET("/stages", h.StageRegistry)
		projects.GET("/draft", h.GetDraft)
		projects.PUT("/draft", h.SaveDraft)
		projects.DELETE("/draft", h.ClearDraft)
		projects.GET("/:id", h.Get)
		projects.GET("/:id/metrics", h.Metrics)
		projects.GET("/:id/history", h.History)
		projects.POST("/:id/handover", h.AdvanceFromSigning)
		projects.POST("/:id/substage", h.CompleteSubStage)
		projects.POST("/:id/sold", h.AdvanceToSold)
		projects.POST("/:id/attachments", h.AddAttachment)
		projects.POST("/:id/photos", h.AddPhoto)
		projects.POST("/:id/sales", h.AddSalesRecord)
	}
}

type createProjectRequest struct {
	Name              string          `json:"name" binding:"required"`
	Community         string          `json:"community"`
	Address           string          `json:"address"`
	Manager           string          `json:"manager"`
	Tags              string          `json:"tags"`
	OwnerName         string          `json:"owner_name"`
	OwnerPhone        string          `json:"owner_phone"`
	FromLeadID        *uint           `json:"from_lead_id"`
	SigningPrice      decimal.Decimal `json:"signing_price"`
	SigningDate       string          `json:"signing_date"`
	Area              decimal.Decimal `json:"area"`
	SigningPeriodDays int             `json:"signing_period_days"`
	ExtensionMonths   int             `json:"extension_months"`
	ExtensionRent     decimal.Decimal `json:"extension_rent"`
	ListPrice         decimal.Decimal `json:"list_price"`
	CostAssumption    decimal.Decimal `json:"cost_assumption"`
	OtherAgreements   string          `json:"other_agreements"`
	Remarks           string          `json:"remarks"`
}

// Create 录入新项目
func (h *Handler) Create(c *gin.Context) {
	var req createProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cmd := application.CreateProjectCommand{
		Name:              req.Name,
		Community:         req.Community,
		Address:           req.Address,
		Manager:           req.Manager,
		Tags:              req.Tags,
		OwnerName:         req.OwnerName,
		OwnerPhone:        req.OwnerPhone,
		FromLeadID:        req.FromLeadID,
		SigningPrice:      req.SigningPrice,
		SigningDate:       parseDate(req.SigningDate),
		Area:              req.Area,
		SigningPeriodDays: req.SigningPeriodDays,
		ExtensionMonths:   req.ExtensionMonths,
		ExtensionRent:     req.ExtensionRent,
		ListPrice:         req.ListPrice,
		CostAssumption:    req.CostAssumption,
		OtherAgreements:   req.OtherAgreements,
		Remarks:           req.Remarks,
	}

	id, err := h.app.CreateProject(c.Request.Context(), cmd)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// List 项目列表，支持 stage/community/manager 过滤
func (h *Handler) List(c *gin.Context) {
	filter := domain.ProjectFilter{
		Community: c.Query("community"),
		Manager:   c.Query("manager"),
	}
	if raw := c.Query("stage"); raw != "" {
		stage, _ := domain.ParseStage(raw)
		filter.Stage = stage
	}
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	filter.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))

	list, err := h.app.ListProjects(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// StageRegistry 阶段注册表，供前端渲染步骤条
func (h *Handler) StageRegistry(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"stages":     domain.Stages,
		"sub_stages": domain.SubStages,
	})
}

// Get 项目详情，?full=1 时附带子记录
func (h *Handler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	full := c.Query("full") == "1" || c.Query("full") == "true"

	detail, err := h.app.GetProject(c.Request.Context(), id, full)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// Metrics 项目派生指标
func (h *Handler) Metrics(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	m, err := h.app.GetMetrics(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

// History 阶段变更历史
func (h *Handler) History(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	history, err := h.app.GetHistory(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": history})
}

// AdvanceFromSigning 签约转装修
func (h *Handler) AdvanceFromSigning(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req struct {
		HandoverDate string `json:"handover_date"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cmd := application.AdvanceFromSigningCommand{
		ProjectID:    id,
		UserID:       middleware.CurrentUserID(c),
		HandoverDate: parseDate(req.HandoverDate),
	}
	if err := h.app.AdvanceFromSigning(c.Request.Context(), cmd); err != nil {
		respondError(c, err)
		return
	}

	h.countTransition(domain.StageRenovating)
	c.JSON(http.StatusOK, gin.H{"stage": domain.StageRenovating})
}

// CompleteSubStage 完成装修子阶段
func (h *Handler) CompleteSubStage(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req struct {
		SubStage       string `json:"sub_stage"`
		CompletionDate string `json:"completion_date"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cmd := application.CompleteSubStageCommand{
		ProjectID:      id,
		UserID:         middleware.CurrentUserID(c),
		SubStage:       req.SubStage,
		CompletionDate: parseDate(req.CompletionDate),
	}
	result, err := h.app.CompleteSubStage(c.Request.Context(), cmd)
	if err != nil {
		respondError(c, err)
		return
	}

	if result.EnteredSelling {
		h.countTransition(domain.StageSelling)
	}
	c.JSON(http.StatusOK, result)
}

// AdvanceToSold 出售转已售
func (h *Handler) AdvanceToSold(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req struct {
		SoldPrice decimal.Decimal `json:"sold_price"`
		SoldDate  string          `json:"sold_date"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cmd := application.AdvanceToSoldCommand{
		ProjectID: id,
		UserID:    middleware.CurrentUserID(c),
		SoldPrice: req.SoldPrice,
		SoldDate:  parseDate(req.SoldDate),
	}
	if err := h.app.AdvanceToSold(c.Request.Context(), cmd); err != nil {
		respondError(c, err)
		return
	}

	h.countTransition(domain.StageSold)
	c.JSON(http.StatusOK, gin.H{"stage": domain.StageSold})
}

// AddAttachment 添加附件
func (h *Handler) AddAttachment(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req struct {
		Category string `json:"category"`
		Name     string `json:"name"`
		URL      string `json:"url" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	attID, err := h.app.AddAttachment(c.Request.Context(), application.AddAttachmentCommand{
		ProjectID: id,
		Category:  req.Category,
		Name:      req.Name,
		URL:       req.URL,
		Uploader:  middleware.CurrentUsername(c),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": attID})
}

// AddPhoto 添加装修照片
func (h *Handler) AddPhoto(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req struct {
		SubStage string `json:"sub_stage" binding:"required"`
		URL      string `json:"url" binding:"required"`
		Note     string `json:"note"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	photoID, err := h.app.AddPhoto(c.Request.Context(), application.AddPhotoCommand{
		ProjectID: id,
		SubStage:  req.SubStage,
		URL:       req.URL,
		Note:      req.Note,
		Uploader:  middleware.CurrentUsername(c),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": photoID})
}

// AddSalesRecord 添加销售动态
func (h *Handler) AddSalesRecord(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req struct {
		Kind     string           `json:"kind" binding:"required"`
		Date     string           `json:"date" binding:"required"`
		Customer string           `json:"customer"`
		Price    *decimal.Decimal `json:"price"`
		Notes    string           `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	recordID, err := h.app.AddSalesRecord(c.Request.Context(), application.AddSalesRecordCommand{
		ProjectID: id,
		Kind:      req.Kind,
		Date:      parseDate(req.Date),
		Customer:  req.Customer,
		Price:     req.Price,
		Notes:     req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": recordID})
}

// GetDraft 读取录入表单草稿
func (h *Handler) GetDraft(c *gin.Context) {
	payload, err := h.app.GetDraft(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json", payload)
}

// SaveDraft 保存录入表单草稿，原样存请求体
func (h *Handler) SaveDraft(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read draft payload"})
		return
	}

	if err := h.app.SaveDraft(c.Request.Context(), middleware.CurrentUserID(c), payload); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"saved": true})
}

// ClearDraft 清除录入表单草稿
func (h *Handler) ClearDraft(c *gin.Context) {
	if err := h.app.ClearDraft(c.Request.Context(), middleware.CurrentUserID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cleared": true})
}

func (h *Handler) countTransition(to domain.Stage) {
	if h.metrics != nil {
		h.metrics.ProjectTransitionsTotal.WithLabelValues(string(to)).Inc()
	}
}

func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
		return 0, false
	}
	return uint(id), true
}

func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil
	}
	return &t
}

// respondError 把领域错误映射到 HTTP 状态码：
// 校验 400、前置条件 409、未找到 404，其余 500
func respondError(c *gin.Context, err error) {
	switch {
	case errs.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errs.IsPrecondition(err):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, errs.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
