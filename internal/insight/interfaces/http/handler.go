// Package http 提供市场洞察的 REST 接口
package http

import (
	"net/http"

	"github.com/fangzhou-tech/flipops/internal/insight/domain"
	"github.com/gin-gonic/gin"
)

// Handler 市场洞察 HTTP 处理器
type Handler struct {
	provider domain.SnapshotProvider
}

// NewHandler 注册市场洞察路由
func NewHandler(g *gin.RouterGroup, provider domain.SnapshotProvider) {
	h := &Handler{provider: provider}
	g.GET("/insights/market", h.Market)
}

// Market 市场快照，?district= 指定行政区
func (h *Handler) Market(c *gin.Context) {
	snapshot, err := h.provider.Snapshot(c.Request.Context(), c.Query("district"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, snapshot)
}
