package server

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"path"
	"time"

	"wedding-planner/internal/apiserver/httpx"
	"wedding-planner/internal/shared/assets"
)

// Health 健康检查接口
//
// 路由: GET /health
//
// 用于负载均衡器和监控系统检查服务状态。
// 返回 {"status": "ok"} 表示服务正常运行。
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ServeUpload 读取已上传文件
//
// 路由: GET /uploads/{path...}
//
// 路径由资源存储后端解析，磁盘与 MinIO 行为一致；
// 不存在或非法路径均返回 404。
func (h *Handler) ServeUpload(w http.ResponseWriter, r *http.Request) {
	publicPath := assets.PublicPrefix + "/" + r.PathValue("path")
	body, err := h.assets.Open(r.Context(), publicPath)
	if errors.Is(err, assets.ErrNotExist) || errors.Is(err, assets.ErrInvalidPath) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		h.logger.WithContext(r.Context()).WithError(err).Error("Open upload failed", "path", publicPath)
		httpx.WriteMessage(w, http.StatusInternalServerError, "Server error")
		return
	}
	defer body.Close()

	name := path.Base(publicPath)
	if rs, ok := body.(io.ReadSeeker); ok {
		http.ServeContent(w, r, name, time.Time{}, rs)
		return
	}
	if ct := mime.TypeByExtension(path.Ext(name)); ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	io.Copy(w, body)
}
