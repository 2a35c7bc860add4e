// Package errs 定义领域错误分类：校验错误、前置条件错误与未找到
package errs

import (
	"errors"
	"fmt"
)

// ErrNotFound 记录不存在
var ErrNotFound = errors.New("record not found")

// ValidationError 请求字段缺失或超出范围，不触发任何持久化调用
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validation 创建校验错误
func Validation(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// IsValidation 判断是否为校验错误
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// PreconditionError 当前状态不允许该操作
type PreconditionError struct {
	Message string
}

func (e *PreconditionError) Error() string {
	return e.Message
}

// Precondition 创建前置条件错误
func Precondition(format string, args ...any) error {
	return &PreconditionError{Message: fmt.Sprintf(format, args...)}
}

// IsPrecondition 判断是否为前置条件错误
func IsPrecondition(err error) bool {
	var pe *PreconditionError
	return errors.As(err, &pe)
}
