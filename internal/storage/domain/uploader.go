// Package domain 定义文件存储抽象
package domain

import (
	"context"
	"io"
)

// UploadResult 上传结果
type UploadResult struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// Uploader 文件上传接口
type Uploader interface {
	Upload(ctx context.Context, filename, contentType string, size int64, body io.Reader) (*UploadResult, error)
}
