package media

import (
	"net/http"

	"wedding-planner/internal/apiserver/httpx"
	"wedding-planner/internal/shared/assets"
)

// Handler 媒体 HTTP 处理器
type Handler struct {
	svc    *Service
	gate   httpx.Gate
	policy assets.Policy
}

// NewHandler 创建媒体处理器
func NewHandler(svc *Service, gate httpx.Gate, policy assets.Policy) *Handler {
	return &Handler{svc: svc, gate: gate, policy: policy}
}

// RegisterRoutes 注册媒体路由
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/media", h.gate.Authenticated(h.Upload))
	mux.HandleFunc("GET /api/media/element/{elementId}", h.List)
	mux.HandleFunc("DELETE /api/media/{id}", h.gate.Authenticated(h.Delete))
}

// Upload 上传附件（elementId、type、media 文件）
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	form, err := httpx.ReadForm(w, r, h.policy.MaxBytes+1<<20)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	file, err := form.File("media", h.policy)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	defer file.Close()

	m, err := h.svc.Upload(r.Context(), form.Get("elementId"), form.Get("type"), file)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, m)
}

// List 条目的全部附件
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.ListByElement(r.Context(), r.PathValue("elementId"))
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, list)
}

// Delete 删除附件
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), r.PathValue("id")); err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteMessage(w, http.StatusOK, "Media deleted successfully")
}
