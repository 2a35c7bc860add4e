// Package http 提供文件上传的 REST 接口
package http

import (
	"net/http"

	"github.com/fangzhou-tech/flipops/internal/storage/domain"
	"github.com/fangzhou-tech/flipops/pkg/metrics"
	"github.com/gin-gonic/gin"
)

// Handler 文件上传 HTTP 处理器
type Handler struct {
	uploader domain.Uploader
	maxSize  int64
	metrics  *metrics.Metrics
}

// NewHandler 注册文件上传路由
func NewHandler(g *gin.RouterGroup, uploader domain.Uploader, maxFileSizeMB int, m *metrics.Metrics) {
	if maxFileSizeMB <= 0 {
		maxFileSizeMB = 20
	}
	h := &Handler{uploader: uploader, maxSize: int64(maxFileSizeMB) << 20, metrics: m}

	g.POST("/files", h.Upload)
}

// Upload 接收 multipart 表单字段 file，上传后返回可引用的 URL
func (h *Handler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file field is required"})
		return
	}
	if fileHeader.Size > h.maxSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to open upload"})
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	result, err := h.uploader.Upload(c.Request.Context(), fileHeader.Filename, contentType, fileHeader.Size, file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if h.metrics != nil {
		h.metrics.UploadsTotal.Inc()
	}
	c.JSON(http.StatusCreated, result)
}
