package catalog

import (
	"net/http"

	"wedding-planner/internal/apiserver/httpx"
	"wedding-planner/internal/shared/assets"
	"wedding-planner/internal/shared/model"
)

// formOverhead multipart 请求中文件之外字段的余量
const formOverhead = 1 << 20

// Handler 分类、条目与推荐的 HTTP 处理器
type Handler struct {
	svc         *Service
	gate        httpx.Gate
	imagePolicy assets.Policy
}

// NewHandler 创建目录处理器
func NewHandler(svc *Service, gate httpx.Gate, imagePolicy assets.Policy) *Handler {
	return &Handler{svc: svc, gate: gate, imagePolicy: imagePolicy}
}

// RegisterRoutes 注册目录相关路由：读公开，分类写操作仅管理员，条目写操作需登录
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/categories", h.ListCategories)
	mux.HandleFunc("POST /api/categories", h.gate.AdminOnly(h.CreateCategory))
	mux.HandleFunc("PUT /api/categories/{id}", h.gate.AdminOnly(h.UpdateCategory))
	mux.HandleFunc("DELETE /api/categories/{id}", h.gate.AdminOnly(h.DeleteCategory))

	mux.HandleFunc("GET /api/elements/category/{categoryId}", h.ListElements)
	mux.HandleFunc("GET /api/elements/recommended", h.ListRecommended)
	mux.HandleFunc("POST /api/elements", h.gate.Authenticated(h.CreateElement))
	mux.HandleFunc("PUT /api/elements/{id}", h.gate.Authenticated(h.UpdateElement))
	mux.HandleFunc("DELETE /api/elements/{id}", h.gate.Authenticated(h.DeleteElement))
	mux.HandleFunc("PATCH /api/elements/{id}/toggle-recommendation", h.gate.Authenticated(h.ToggleRecommendation))

	mux.HandleFunc("GET /api/recommendations", h.ListRecommended)
	mux.HandleFunc("PATCH /api/recommendations/{id}/toggle", h.gate.AdminOnly(h.ToggleRecommendation))
}

type categoryRef struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

// recommendedElement 覆盖 Element 的 category 字段
type recommendedElement struct {
	*model.Element
	Category categoryRef `json:"category"`
}

type toggleResponse struct {
	ID            string `json:"_id"`
	Name          string `json:"name"`
	IsRecommended bool   `json:"isRecommended"`
}

// readImageForm 解析表单并取出可选的 image 文件
func (h *Handler) readImageForm(w http.ResponseWriter, r *http.Request) (*httpx.Form, *assets.Upload, bool) {
	form, err := httpx.ReadForm(w, r, h.imagePolicy.MaxBytes+formOverhead)
	if err != nil {
		httpx.WriteError(w, err)
		return nil, nil, false
	}
	upload, err := form.File("image", h.imagePolicy)
	if err != nil {
		httpx.WriteError(w, err)
		return nil, nil, false
	}
	return form, upload, true
}

// ============================================================================
// Category handlers
// ============================================================================

// ListCategories 全部分类
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.ListCategories(r.Context())
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, list)
}

// CreateCategory 创建分类（name + image）
func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	form, upload, ok := h.readImageForm(w, r)
	if !ok {
		return
	}
	defer upload.Close()

	category, err := h.svc.CreateCategory(r.Context(), form.Get("name"), upload)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, category)
}

// UpdateCategory 更新分类名称和/或图片
func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	form, upload, ok := h.readImageForm(w, r)
	if !ok {
		return
	}
	defer upload.Close()

	category, err := h.svc.UpdateCategory(r.Context(), r.PathValue("id"), form.Get("name"), upload)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, category)
}

// DeleteCategory 级联删除分类
func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	if _, err := h.svc.DeleteCategory(r.Context(), r.PathValue("id")); err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteMessage(w, http.StatusOK, "Category and its elements deleted successfully")
}

// ============================================================================
// Element handlers
// ============================================================================

func elementInput(form *httpx.Form, upload *assets.Upload) ElementInput {
	return ElementInput{
		Name:          form.Get("name"),
		Address:       form.Get("address"),
		Price:         form.Get("price"),
		Description:   form.Get("description"),
		CategoryID:    form.Get("category"),
		IsRecommended: form.Get("isRecommended"),
		Image:         upload,
	}
}

// ListElements 分类下的条目
func (h *Handler) ListElements(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.ListElementsByCategory(r.Context(), r.PathValue("categoryId"))
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, list)
}

// CreateElement 创建条目（全部字段 + image）
func (h *Handler) CreateElement(w http.ResponseWriter, r *http.Request) {
	form, upload, ok := h.readImageForm(w, r)
	if !ok {
		return
	}
	defer upload.Close()

	element, err := h.svc.CreateElement(r.Context(), elementInput(form, upload))
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, element)
}

// UpdateElement 更新条目
func (h *Handler) UpdateElement(w http.ResponseWriter, r *http.Request) {
	form, upload, ok := h.readImageForm(w, r)
	if !ok {
		return
	}
	defer upload.Close()

	element, err := h.svc.UpdateElement(r.Context(), r.PathValue("id"), elementInput(form, upload))
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, element)
}

// DeleteElement 删除条目
func (h *Handler) DeleteElement(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteElement(r.Context(), r.PathValue("id")); err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteMessage(w, http.StatusOK, "Element deleted successfully")
}

// ToggleRecommendation 翻转推荐标记
func (h *Handler) ToggleRecommendation(w http.ResponseWriter, r *http.Request) {
	element, err := h.svc.ToggleRecommendation(r.Context(), r.PathValue("id"))
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toggleResponse{
		ID:            element.ID,
		Name:          element.Name,
		IsRecommended: element.IsRecommended,
	})
}

// ListRecommended 推荐条目，category 展开为 {_id, name}
func (h *Handler) ListRecommended(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.ListRecommended(r.Context())
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	out := make([]recommendedElement, 0, len(list))
	for _, e := range list {
		out = append(out, recommendedElement{
			Element:  e,
			Category: categoryRef{ID: e.CategoryID, Name: e.CategoryName},
		})
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}
