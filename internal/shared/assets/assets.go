// Package assets 上传文件存储
//
// 所有资源以公开路径（/uploads/...）记录在业务数据中，由 Store 负责
// 公开路径与后端存储键之间的映射。后端可为本地磁盘或 MinIO。
package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// PublicPrefix 资源公开访问前缀
const PublicPrefix = "/uploads"

// MediaDir 媒体文件子目录
const MediaDir = "media"

var (
	// ErrNotExist 资源不存在
	ErrNotExist = errors.New("asset does not exist")

	// ErrInvalidPath 公开路径不在 PublicPrefix 下或包含非法片段
	ErrInvalidPath = errors.New("invalid asset path")
)

// Upload 待保存的上传文件
type Upload struct {
	Name        string // 客户端原始文件名
	Size        int64
	ContentType string
	Body        io.Reader
}

// Close 关闭底层 Body（如果可关闭）
func (u *Upload) Close() error {
	if u == nil {
		return nil
	}
	if c, ok := u.Body.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Stored 已保存文件
type Stored struct {
	Filename string // 存储文件名
	Path     string // 公开路径
}

// Store 资源存储后端
type Store interface {
	// Save 保存到 dir 子目录（"" 为根目录），返回随机化文件名与公开路径
	Save(ctx context.Context, dir string, upload *Upload) (Stored, error)
	// Open 按公开路径读取，不存在时返回 ErrNotExist
	Open(ctx context.Context, publicPath string) (io.ReadCloser, error)
	// Exists 按公开路径检查是否存在
	Exists(ctx context.Context, publicPath string) (bool, error)
	// Remove 按公开路径删除；不存在不视为错误
	Remove(ctx context.Context, publicPath string) error
}

// GenerateFilename 生成 <unix-ms>-<uuid>-<base> 形式的文件名
func GenerateFilename(original string) string {
	base := sanitizeBase(original)
	return fmt.Sprintf("%d-%s-%s", time.Now().UnixMilli(), uuid.NewString(), base)
}

// sanitizeBase 只保留原始文件名的最后一段，并替换空白与分隔符
func sanitizeBase(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	base := path.Base(name)
	if base == "." || base == "/" || base == ".." || base == "" {
		return "file"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r == ' ' || r == '\t':
			return '_'
		case r < 0x20 || r == '/' || r == ':':
			return -1
		}
		return r
	}, base)
}

// PublicPath 由子目录与文件名构造公开路径
func PublicPath(dir, filename string) string {
	if dir == "" {
		return PublicPrefix + "/" + filename
	}
	return PublicPrefix + "/" + dir + "/" + filename
}

// KeyFromPublicPath 把公开路径映射为相对存储键（如 media/x.png）
func KeyFromPublicPath(publicPath string) (string, error) {
	if !strings.HasPrefix(publicPath, PublicPrefix+"/") {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, publicPath)
	}
	key := strings.TrimPrefix(publicPath, PublicPrefix+"/")
	for _, seg := range strings.Split(key, "/") {
		if seg == "" || seg == "." || seg == ".." {
			return "", fmt.Errorf("%w: %q", ErrInvalidPath, publicPath)
		}
	}
	return key, nil
}

// Extension 返回小写、无点的扩展名
func Extension(name string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
}
