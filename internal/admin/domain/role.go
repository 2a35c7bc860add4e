package domain

import (
	"context"
	"encoding/json"

	"github.com/fangzhou-tech/flipops/pkg/errs"
	"gorm.io/gorm"
)

// Role 角色，权限为 JSON 数组，"*" 表示全部
type Role struct {
	gorm.Model
	Name        string `gorm:"size:32;uniqueIndex;not null" json:"name"`
	Description string `gorm:"size:255" json:"description"`
	Permissions string `gorm:"type:json" json:"permissions"`
}

// TableName 指定表名
func (Role) TableName() string {
	return "roles"
}

// NewRole 创建角色，权限串必须是合法 JSON 数组
func NewRole(name, description, permissions string) (*Role, error) {
	if name == "" {
		return nil, errs.Validation("name", "role name is required")
	}
	if permissions == "" {
		permissions = "[]"
	}
	var perms []string
	if err := json.Unmarshal([]byte(permissions), &perms); err != nil {
		return nil, errs.Validation("permissions", "permissions must be a JSON string array")
	}
	return &Role{Name: name, Description: description, Permissions: permissions}, nil
}

// RoleRepository 角色仓储接口
type RoleRepository interface {
	Save(ctx context.Context, role *Role) error
	GetByName(ctx context.Context, name string) (*Role, error)
	List(ctx context.Context) ([]*Role, error)
}
