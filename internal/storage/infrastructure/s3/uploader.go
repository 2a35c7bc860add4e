// Package s3 基于 AWS S3（兼容 MinIO）的文件上传实现
package s3

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/fangzhou-tech/flipops/internal/storage/domain"
	appconfig "github.com/fangzhou-tech/flipops/pkg/config"
)

type s3Uploader struct {
	client  *s3.Client
	bucket  string
	baseURL string
}

// NewUploader 创建 S3 上传器
func NewUploader(ctx context.Context, cfg appconfig.StorageConfig) (domain.Uploader, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = &cfg.Endpoint
			o.UsePathStyle = true
		}
	})

	return &s3Uploader{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
	}, nil
}

func (u *s3Uploader) Upload(ctx context.Context, filename, contentType string, size int64, body io.Reader) (*domain.UploadResult, error) {
	key := "uploads/" + uuid.NewString() + strings.ToLower(filepath.Ext(filename))

	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        &u.bucket,
		Key:           &key,
		Body:          body,
		ContentType:   &contentType,
		ContentLength: &size,
	})
	if err != nil {
		return nil, fmt.Errorf("put object %s: %w", key, err)
	}

	return &domain.UploadResult{
		Key: key,
		URL: u.baseURL + "/" + key,
	}, nil
}
