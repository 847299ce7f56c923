package assets

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"wedding-planner/internal/config"
)

// MinIO 对象存储后端，对象键与公开路径去掉 /uploads/ 前缀后一致
type MinIO struct {
	mc     *minio.Client
	bucket string
}

var _ Store = (*MinIO)(nil)

// NewMinIO 创建 MinIO 后端
func NewMinIO(cfg config.MinIOConfig) (*MinIO, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio endpoint is required")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("minio access_key and secret_key are required")
	}

	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	bucket := cfg.Bucket
	if bucket == "" {
		bucket = "wedding-planner"
	}
	return &MinIO{mc: mc, bucket: bucket}, nil
}

// EnsureBucket 确保 bucket 存在
func (m *MinIO) EnsureBucket(ctx context.Context) error {
	exists, err := m.mc.BucketExists(ctx, m.bucket)
	if err != nil {
		return fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := m.mc.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("create bucket: %w", err)
		}
		log.Printf("[assets] Created bucket: %s", m.bucket)
	}
	return nil
}

func (m *MinIO) Save(ctx context.Context, dir string, upload *Upload) (Stored, error) {
	filename := GenerateFilename(upload.Name)
	publicPath := PublicPath(dir, filename)
	key, err := KeyFromPublicPath(publicPath)
	if err != nil {
		return Stored{}, err
	}

	contentType := upload.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	size := upload.Size
	if size <= 0 {
		size = -1
	}
	if _, err := m.mc.PutObject(ctx, m.bucket, key, upload.Body, size, minio.PutObjectOptions{
		ContentType: contentType,
	}); err != nil {
		return Stored{}, fmt.Errorf("upload %s: %w", key, err)
	}
	return Stored{Filename: filename, Path: publicPath}, nil
}

func (m *MinIO) Open(ctx context.Context, publicPath string) (io.ReadCloser, error) {
	key, err := KeyFromPublicPath(publicPath)
	if err != nil {
		return nil, err
	}
	obj, err := m.mc.GetObject(ctx, m.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", key, err)
	}
	// GetObject 不会立即返回错误，Stat 确认对象存在
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		if isNoSuchKey(err) {
			return nil, ErrNotExist
		}
		return nil, fmt.Errorf("stat %s: %w", key, err)
	}
	return obj, nil
}

func (m *MinIO) Exists(ctx context.Context, publicPath string) (bool, error) {
	key, err := KeyFromPublicPath(publicPath)
	if err != nil {
		return false, err
	}
	if _, err := m.mc.StatObject(ctx, m.bucket, key, minio.StatObjectOptions{}); err != nil {
		if isNoSuchKey(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Remove RemoveObject 对不存在的键同样返回 nil
func (m *MinIO) Remove(ctx context.Context, publicPath string) error {
	key, err := KeyFromPublicPath(publicPath)
	if err != nil {
		return err
	}
	return m.mc.RemoveObject(ctx, m.bucket, key, minio.RemoveObjectOptions{})
}

func isNoSuchKey(err error) bool {
	return minio.ToErrorResponse(err).Code == "NoSuchKey"
}
