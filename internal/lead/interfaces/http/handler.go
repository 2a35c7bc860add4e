// Package http 提供线索上下文的 REST 接口
package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/fangzhou-tech/flipops/internal/lead/application"
	"github.com/fangzhou-tech/flipops/internal/lead/domain"
	"github.com/fangzhou-tech/flipops/pkg/errs"
	"github.com/fangzhou-tech/flipops/pkg/metrics"
	"github.com/fangzhou-tech/flipops/pkg/middleware"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// Handler 线索 HTTP 处理器
type Handler struct {
	app     *application.LeadService
	metrics *metrics.Metrics
}

// NewHandler 注册线索路由
func NewHandler(g *gin.RouterGroup, app *application.LeadService, m *metrics.Metrics) {
	h := &Handler{app: app, metrics: m}

	leads := g.Group("/leads")
	{
		leads.POST("", h.Create)
		leads.GET("", h.List)
		leads.GET("/:id", h.Get)
		leads.DELETE("/:id", h.Delete)
		leads.POST("/:id/assess", h.Assess)
		leads.POST("/:id/reject", h.Reject)
		leads.POST("/:id/visit", h.ScheduleVisit)
		leads.POST("/:id/visited", h.MarkVisited)
		leads.POST("/:id/sign", h.Sign)
		leads.GET("/:id/followups", h.ListFollowUps)
		leads.POST("/:id/followups", h.AddFollowUp)
	}
}

type createLeadRequest struct {
	Community    string          `json:"community" binding:"required"`
	Layout       string          `json:"layout"`
	Orientation  string          `json:"orientation"`
	Floor        string          `json:"floor"`
	Area         decimal.Decimal `json:"area"`
	TotalPrice   decimal.Decimal `json:"total_price"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	District     string          `json:"district"`
	BusinessArea string          `json:"business_area"`
	Remarks      string          `json:"remarks"`
	Images       []string        `json:"images"`
}

// Create 录入线索
func (h *Handler) Create(c *gin.Context) {
	var req createLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id, err := h.app.CreateLead(c.Request.Context(), application.CreateLeadCommand{
		Community:    req.Community,
		Layout:       req.Layout,
		Orientation:  req.Orientation,
		Floor:        req.Floor,
		Area:         req.Area,
		TotalPrice:   req.TotalPrice,
		UnitPrice:    req.UnitPrice,
		District:     req.District,
		BusinessArea: req.BusinessArea,
		Remarks:      req.Remarks,
		Images:       req.Images,
		CreatorID:    middleware.CurrentUserID(c),
		CreatorName:  middleware.CurrentUsername(c),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	if h.metrics != nil {
		h.metrics.LeadsCreatedTotal.Inc()
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// List 线索列表，支持 status/district 过滤
func (h *Handler) List(c *gin.Context) {
	filter := domain.LeadFilter{District: c.Query("district")}
	if raw := c.Query("status"); raw != "" {
		status, ok := domain.ParseStatus(raw)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status: " + raw})
			return
		}
		filter.Status = status
	}
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	filter.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))

	list, err := h.app.ListLeads(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// Get 线索详情，?full=1 时附带跟进与历史
func (h *Handler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	full := c.Query("full") == "1" || c.Query("full") == "true"

	detail, err := h.app.GetLead(c.Request.Context(), id, full)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// Delete 软删除线索
func (h *Handler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.app.DeleteLead(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// Assess 评估通过，待评估转待看房
func (h *Handler) Assess(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req struct {
		EvalPrice decimal.Decimal `json:"eval_price"`
		Reason    string          `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.app.AssessLead(c.Request.Context(), application.AssessLeadCommand{
		LeadID:    id,
		AuditorID: middleware.CurrentUserID(c),
		EvalPrice: req.EvalPrice,
		Reason:    req.Reason,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	h.countTransition(domain.StatusPendingVisit)
	c.JSON(http.StatusOK, gin.H{"status": domain.StatusPendingVisit})
}

// Reject 评估拒绝
func (h *Handler) Reject(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req struct {
		Reason string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.app.RejectLead(c.Request.Context(), application.RejectLeadCommand{
		LeadID:    id,
		AuditorID: middleware.CurrentUserID(c),
		Reason:    req.Reason,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	h.countTransition(domain.StatusRejected)
	c.JSON(http.StatusOK, gin.H{"status": domain.StatusRejected})
}

// ScheduleVisit 安排看房日期
func (h *Handler) ScheduleVisit(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req struct {
		VisitDate string `json:"visit_date" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	visitDate, err := time.Parse(dateLayout, req.VisitDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "visit_date must be YYYY-MM-DD"})
		return
	}

	if err := h.app.ScheduleVisit(c.Request.Context(), application.ScheduleVisitCommand{
		LeadID:    id,
		UserID:    middleware.CurrentUserID(c),
		VisitDate: visitDate,
	}); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"visit_date": req.VisitDate})
}

// MarkVisited 完成看房
func (h *Handler) MarkVisited(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.app.MarkVisited(c.Request.Context(), id, middleware.CurrentUserID(c)); err != nil {
		respondError(c, err)
		return
	}

	h.countTransition(domain.StatusVisited)
	c.JSON(http.StatusOK, gin.H{"status": domain.StatusVisited})
}

// Sign 签约，返回可作为项目 from_lead_id 的线索 id
func (h *Handler) Sign(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	leadID, err := h.app.SignLead(c.Request.Context(), id, middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	h.countTransition(domain.StatusSigned)
	c.JSON(http.StatusOK, gin.H{"status": domain.StatusSigned, "lead_id": leadID})
}

// ListFollowUps 跟进记录列表，按时间倒序
func (h *Handler) ListFollowUps(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	followUps, err := h.app.ListFollowUps(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": followUps})
}

// AddFollowUp 添加跟进记录
func (h *Handler) AddFollowUp(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req struct {
		Method     string `json:"method" binding:"required"`
		Content    string `json:"content" binding:"required"`
		OccurredAt string `json:"occurred_at"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cmd := application.AddFollowUpCommand{
		LeadID:     id,
		Method:     req.Method,
		Content:    req.Content,
		AuthorID:   middleware.CurrentUserID(c),
		AuthorName: middleware.CurrentUsername(c),
	}
	if req.OccurredAt != "" {
		if t, err := time.Parse(dateLayout, req.OccurredAt); err == nil {
			cmd.OccurredAt = &t
		}
	}

	followUpID, err := h.app.AddFollowUp(c.Request.Context(), cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": followUpID})
}

func (h *Handler) countTransition(to domain.Status) {
	if h.metrics != nil {
		h.metrics.LeadTransitionsTotal.WithLabelValues(string(to)).Inc()
	}
}

func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid lead id"})
		return 0, false
	}
	return uint(id), true
}

func respondError(c *gin.Context, err error) {
	switch {
	case errs.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errs.IsPrecondition(err):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, errs.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "lead not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
