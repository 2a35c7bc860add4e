// Package application 控制台用户应用服务
package application

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/fangzhou-tech/flipops/internal/admin/domain"
	"github.com/fangzhou-tech/flipops/pkg/errs"
	"github.com/fangzhou-tech/flipops/pkg/logger"
	"github.com/fangzhou-tech/flipops/pkg/middleware"
)

// LoginResult 登录结果
type LoginResult struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *domain.User `json:"user"`
}

// CreateUserCommand 创建用户命令
type CreateUserCommand struct {
	Username    string
	Password    string
	DisplayName string
	Phone       string
	Role        string
}

// UserListDTO 用户分页列表
type UserListDTO struct {
	Items []*domain.User `json:"items"`
	Total int64          `json:"total"`
}

// CreateRoleCommand 创建角色命令
type CreateRoleCommand struct {
	Name        string
	Description string
	Permissions []string
}

// AdminService 控制台用户与角色服务
type AdminService struct {
	repo     domain.UserRepository
	roleRepo domain.RoleRepository
	jwt      middleware.JWTConfig
}

// NewAdminService 创建控制台用户服务
func NewAdminService(repo domain.UserRepository, roleRepo domain.RoleRepository, jwt middleware.JWTConfig) *AdminService {
	return &AdminService{repo: repo, roleRepo: roleRepo, jwt: jwt}
}

// Login 用户名密码登录，签发 JWT
func (s *AdminService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, errs.Validation("username", "invalid username or password")
		}
		return nil, err
	}
	if !user.Active {
		return nil, errs.Precondition("user %s is disabled", username)
	}
	if !user.CheckPassword(password) {
		return nil, errs.Validation("password", "invalid username or password")
	}

	token, expiresAt, err := middleware.IssueToken(s.jwt, user.ID, user.Username, user.Role)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := s.repo.Save(ctx, user); err != nil {
		logger.Warn(ctx, "failed to record last login", "user", username, "error", err)
	}

	return &LoginResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// CreateUser 创建用户，仅超级管理员可用
func (s *AdminService) CreateUser(ctx context.Context, operatorRole string, cmd CreateUserCommand) (uint, error) {
	if operatorRole != domain.RoleSuperAdmin {
		return 0, errs.Precondition("only super admin can create users")
	}
	if _, err := s.repo.GetByUsername(ctx, cmd.Username); err == nil {
		return 0, errs.Validation("username", "username already taken")
	} else if !errors.Is(err, errs.ErrNotFound) {
		return 0, err
	}
	if err := s.ensureRole(ctx, cmd.Role); err != nil {
		return 0, err
	}

	user, err := domain.NewUser(cmd.Username, cmd.Password, cmd.DisplayName, cmd.Role)
	if err != nil {
		return 0, err
	}
	user.Phone = cmd.Phone

	if err := s.repo.Save(ctx, user); err != nil {
		return 0, err
	}
	return user.ID, nil
}

// ListUsers 用户列表
func (s *AdminService) ListUsers(ctx context.Context, limit, offset int) (*UserListDTO, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	items, total, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	return &UserListDTO{Items: items, Total: total}, nil
}

// ensureRole 校验角色是内置角色或已登记的自定义角色
func (s *AdminService) ensureRole(ctx context.Context, role string) error {
	switch role {
	case domain.RoleSuperAdmin, domain.RoleOperator, domain.RoleViewer:
		return nil
	}
	if s.roleRepo == nil {
		return errs.Validation("role", "unknown role")
	}
	if _, err := s.roleRepo.GetByName(ctx, role); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return errs.Validation("role", "unknown role")
		}
		return err
	}
	return nil
}

// CreateRole 创建角色，仅超级管理员可用
func (s *AdminService) CreateRole(ctx context.Context, operatorRole string, cmd CreateRoleCommand) (uint, error) {
	if operatorRole != domain.RoleSuperAdmin {
		return 0, errs.Precondition("only super admin can create roles")
	}
	if _, err := s.roleRepo.GetByName(ctx, cmd.Name); err == nil {
		return 0, errs.Validation("name", "role name already taken")
	} else if !errors.Is(err, errs.ErrNotFound) {
		return 0, err
	}

	perms := ""
	if len(cmd.Permissions) > 0 {
		raw, err := json.Marshal(cmd.Permissions)
		if err != nil {
			return 0, errs.Validation("permissions", "invalid permissions")
		}
		perms = string(raw)
	}
	role, err := domain.NewRole(cmd.Name, cmd.Description, perms)
	if err != nil {
		return 0, err
	}
	if err := s.roleRepo.Save(ctx, role); err != nil {
		return 0, err
	}
	return role.ID, nil
}

// ListRoles 角色列表
func (s *AdminService) ListRoles(ctx context.Context) ([]*domain.Role, error) {
	return s.roleRepo.List(ctx)
}

// SeedSuperAdmin 初始超级管理员角色与账号不存在时创建，幂等
func (s *AdminService) SeedSuperAdmin(ctx context.Context, username, password string) error {
	if s.roleRepo != nil {
		if _, err := s.roleRepo.GetByName(ctx, domain.RoleSuperAdmin); errors.Is(err, errs.ErrNotFound) {
			role, err := domain.NewRole(domain.RoleSuperAdmin, "超级管理员", `["*"]`)
			if err != nil {
				return err
			}
			if err := s.roleRepo.Save(ctx, role); err != nil {
				return err
			}
		} else if err != nil {
			return err
		}
	}

	if _, err := s.repo.GetByUsername(ctx, username); err == nil {
		return nil
	} else if !errors.Is(err, errs.ErrNotFound) {
		return err
	}

	user, err := domain.NewUser(username, password, "系统管理员", domain.RoleSuperAdmin)
	if err != nil {
		return err
	}
	if err := s.repo.Save(ctx, user); err != nil {
		return err
	}
	logger.Info(ctx, "seeded super admin account", "username", username)
	return nil
}
