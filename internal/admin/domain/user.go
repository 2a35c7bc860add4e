// Package domain 定义控制台用户与角色
package domain

import (
	"context"
	"time"

	"github.com/fangzhou-tech/flipops/pkg/errs"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// 内置角色
const (
	RoleSuperAdmin = "super_admin"
	RoleOperator   = "operator"
	RoleViewer     = "viewer"
)

// User 控制台用户
type User struct {
	gorm.Model
	Username     string     `gorm:"size:64;uniqueIndex;not null" json:"username"`
	PasswordHash string     `gorm:"size:128;not null" json:"-"`
	DisplayName  string     `gorm:"size:64" json:"display_name"`
	Phone        string     `gorm:"size:32" json:"phone,omitempty"`
	Role         string     `gorm:"size:32;index" json:"role"`
	Active       bool       `gorm:"default:true" json:"active"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}

// NewUser 创建用户，密码经 bcrypt 散列后保存
func NewUser(username, password, displayName, role string) (*User, error) {
	if username == "" {
		return nil, errs.Validation("username", "username is required")
	}
	if len(password) < 6 {
		return nil, errs.Validation("password", "password must be at least 6 characters")
	}
	if role == "" {
		return nil, errs.Validation("role", "role is required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &User{
		Username:     username,
		PasswordHash: string(hash),
		DisplayName:  displayName,
		Role:         role,
		Active:       true,
	}, nil
}

// CheckPassword 校验明文密码
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// ResetPassword 重置密码
func (u *User) ResetPassword(password string) error {
	if len(password) < 6 {
		return errs.Validation("password", "password must be at least 6 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// UserRepository 用户仓储接口
type UserRepository interface {
	Save(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id uint) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	List(ctx context.Context, limit, offset int) ([]*User, int64, error)
}
