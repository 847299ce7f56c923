package assets

import (
	"fmt"
	"slices"
	"strings"

	"wedding-planner/internal/shared/apperr"
)

var (
	imageExtensions = []string{"jpeg", "jpg", "png", "gif"}
	mediaExtensions = []string{"jpeg", "jpg", "png", "gif", "mp4", "mov", "avi", "mkv"}
)

// Policy 上传文件限制
type Policy struct {
	MaxBytes   int64
	Extensions []string
	AllowVideo bool   // 接受任意 video/* 内容类型
	Message    string // 类型不符时返回给客户端的消息
}

// ImagePolicy 图片上传策略
func ImagePolicy(maxBytes int64) Policy {
	return Policy{
		MaxBytes:   maxBytes,
		Extensions: imageExtensions,
		Message:    "Only images are allowed (jpeg, jpg, png, gif)",
	}
}

// MediaPolicy 媒体（图片+视频）上传策略
func MediaPolicy(maxBytes int64) Policy {
	return Policy{
		MaxBytes:   maxBytes,
		Extensions: mediaExtensions,
		AllowVideo: true,
		Message:    "Only images and videos are allowed",
	}
}

var (
	DefaultImagePolicy = ImagePolicy(5 << 20)
	DefaultMediaPolicy = MediaPolicy(50 << 20)
)

// Check 校验扩展名、内容类型与大小
func (p Policy) Check(u *Upload) error {
	if p.MaxBytes > 0 && u.Size > p.MaxBytes {
		return apperr.Validation(fmt.Sprintf("File too large (max %d MB)", p.MaxBytes>>20))
	}
	if !slices.Contains(p.Extensions, Extension(u.Name)) || !p.contentTypeAllowed(u.ContentType) {
		return apperr.Validation(p.Message)
	}
	return nil
}

func (p Policy) contentTypeAllowed(ct string) bool {
	ct = strings.ToLower(strings.TrimSpace(ct))
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	if ct == "" || ct == "application/octet-stream" {
		return true
	}
	if p.AllowVideo && strings.HasPrefix(ct, "video/") {
		return true
	}
	for _, ext := range p.Extensions {
		if strings.Contains(ct, ext) {
			return true
		}
	}
	return false
}
