package schedule

import (
	"net/http"

	"wedding-planner/internal/apiserver/httpx"
)

// errorField schedule 路由的错误响应字段
const errorField = "error"

// Handler 日期标记 HTTP 处理器
type Handler struct {
	svc  *Service
	gate httpx.Gate
}

// NewHandler 创建日期标记处理器
func NewHandler(svc *Service, gate httpx.Gate) *Handler {
	return &Handler{svc: svc, gate: gate}
}

// RegisterRoutes 注册日期标记路由（均需登录）
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/schedules", h.gate.Authenticated(h.Toggle))
	mux.HandleFunc("POST /api/schedules/unmark", h.gate.Authenticated(h.Unmark))
	mux.HandleFunc("GET /api/schedules/{elementId}", h.gate.Authenticated(h.List))
}

// Toggle 切换日期标记；新增返回 201，取消返回 200
func (h *Handler) Toggle(w http.ResponseWriter, r *http.Request) {
	form, err := httpx.ReadForm(w, r, 1<<20)
	if err != nil {
		httpx.WriteErrorField(w, errorField, err)
		return
	}
	result, err := h.svc.Toggle(r.Context(), form.Get("elementId"), form.Get("date"))
	if err != nil {
		httpx.WriteErrorField(w, errorField, err)
		return
	}

	status := http.StatusOK
	if result.Action == ActionAdded {
		status = http.StatusCreated
	}
	httpx.WriteJSON(w, status, result)
}

// List 已标记日期
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	dates, err := h.svc.ListMarks(r.Context(), r.PathValue("elementId"))
	if err != nil {
		httpx.WriteErrorField(w, errorField, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string][]string{"markedDates": dates})
}

// Unmark 取消指定日期
func (h *Handler) Unmark(w http.ResponseWriter, r *http.Request) {
	form, err := httpx.ReadForm(w, r, 1<<20)
	if err != nil {
		httpx.WriteErrorField(w, errorField, err)
		return
	}
	if err := h.svc.Unmark(r.Context(), form.Get("elementId"), form.Get("date")); err != nil {
		httpx.WriteErrorField(w, errorField, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": "Date unmarked successfully"})
}
