// Package http 提供控制台用户的 REST 接口
package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/fangzhou-tech/flipops/internal/admin/application"
	"github.com/fangzhou-tech/flipops/pkg/errs"
	"github.com/fangzhou-tech/flipops/pkg/middleware"
	"github.com/gin-gonic/gin"
)

// Handler 用户管理 HTTP 处理器
type Handler struct {
	app *application.AdminService
}

// NewHandler 注册用户管理路由；登录在公开组，其余在鉴权组
func NewHandler(public, authed *gin.RouterGroup, app *application.AdminService) {
	h := &Handler{app: app}

	public.POST("/admin/login", h.Login)

	admin := authed.Group("/admin")
	{
		admin.POST("/users", h.CreateUser)
		admin.GET("/users", h.ListUsers)
		admin.POST("/roles", h.CreateRole)
		admin.GET("/roles", h.ListRoles)
	}
}

// Login 用户名密码登录
func (h *Handler) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.app.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errs.IsValidation(err) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// CreateUser 创建用户
func (h *Handler) CreateUser(c *gin.Context) {
	var req struct {
		Username    string `json:"username" binding:"required"`
		Password    string `json:"password" binding:"required"`
		DisplayName string `json:"display_name"`
		Phone       string `json:"phone"`
		Role        string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	role, _ := c.Get(middleware.AuthRoleKey)
	operatorRole, _ := role.(string)

	id, err := h.app.CreateUser(c.Request.Context(), operatorRole, application.CreateUserCommand{
		Username:    req.Username,
		Password:    req.Password,
		DisplayName: req.DisplayName,
		Phone:       req.Phone,
		Role:        req.Role,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// CreateRole 创建角色
func (h *Handler) CreateRole(c *gin.Context) {
	var req struct {
		Name        string   `json:"name" binding:"required"`
		Description string   `json:"description"`
		Permissions []string `json:"permissions"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	role, _ := c.Get(middleware.AuthRoleKey)
	operatorRole, _ := role.(string)

	id, err := h.app.CreateRole(c.Request.Context(), operatorRole, application.CreateRoleCommand{
		Name:        req.Name,
		Description: req.Description,
		Permissions: req.Permissions,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// ListRoles 角色列表
func (h *Handler) ListRoles(c *gin.Context) {
	roles, err := h.app.ListRoles(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": roles})
}

// ListUsers 用户列表
func (h *Handler) ListUsers(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	list, err := h.app.ListUsers(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func respondError(c *gin.Context, err error) {
	switch {
	case errs.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errs.IsPrecondition(err):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, errs.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
