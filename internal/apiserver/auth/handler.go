package auth

import (
	"context"
	"net/http"

	"wedding-planner/internal/apiserver/httpx"
	"wedding-planner/internal/shared/assets"
	"wedding-planner/internal/shared/model"
)

// formOverhead multipart 请求中文件之外字段的余量
const formOverhead = 1 << 20

// Handler 认证 HTTP 处理器
type Handler struct {
	accounts    *Accounts
	resolver    *Resolver
	gate        httpx.Gate
	imagePolicy assets.Policy
}

// NewHandler 创建认证处理器
func NewHandler(accounts *Accounts, resolver *Resolver, gate httpx.Gate, imagePolicy assets.Policy) *Handler {
	return &Handler{accounts: accounts, resolver: resolver, gate: gate, imagePolicy: imagePolicy}
}

// RegisterRoutes 注册认证相关路由
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/auth/register", h.Register)
	mux.HandleFunc("POST /api/auth/login", h.Login)
	mux.HandleFunc("POST /api/auth/admin-login", h.AdminLogin)
	mux.HandleFunc("PATCH /api/auth/update-profile-image", h.gate.Authenticated(h.UpdateProfileImage))
	mux.HandleFunc("GET /api/auth/user", h.gate.Authenticated(h.Me))
	mux.HandleFunc("PATCH /api/auth/change-password", h.gate.Authenticated(h.ChangePassword))
	mux.HandleFunc("GET /api/auth/user-stats", h.gate.Authenticated(h.UserStats))
}

// ============================================================================
// 响应类型
// ============================================================================

type registerResponse struct {
	ID           string `json:"_id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	ProfileImage string `json:"profileImage"`
	Token        string `json:"token"`
}

type loginResponse struct {
	ID      string     `json:"_id"`
	Name    string     `json:"name"`
	Email   string     `json:"email"`
	Role    model.Role `json:"role"`
	IsAdmin bool       `json:"isAdmin"`
	Token   string     `json:"token"`
}

type profileImageResponse struct {
	ProfileImage string `json:"profileImage"`
	Msg          string `json:"msg"`
}

// ============================================================================
// Handlers
// ============================================================================

// Register 用户注册，可附带 profileImage 文件
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	form, err := httpx.ReadForm(w, r, h.imagePolicy.MaxBytes+formOverhead)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	upload, err := form.File("profileImage", h.imagePolicy)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	defer upload.Close()

	user, err := h.accounts.Register(r.Context(), Registration{
		Name:         form.Get("name"),
		Email:        form.Get("email"),
		Password:     form.Get("password"),
		Phone:        form.Get("phone"),
		ProfileImage: upload,
	})
	if err != nil {
		httpx.WriteError(w, err)
		return
	}

	token, err := h.resolver.IssueToken(user.ID)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, registerResponse{
		ID:           user.ID,
		Name:         user.Name,
		Email:        user.Email,
		ProfileImage: user.ProfileImage,
		Token:        token,
	})
}

// Login 先查 users 再查 admins
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, h.resolver.ResolveByCredentials)
}

// AdminLogin 只查 admins
func (h *Handler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, h.resolver.ResolveAdminByCredentials)
}

type resolveFunc func(ctx context.Context, email, password string) (*model.Principal, error)

func (h *Handler) login(w http.ResponseWriter, r *http.Request, resolve resolveFunc) {
	form, err := httpx.ReadForm(w, r, formOverhead)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}

	p, err := resolve(r.Context(), form.Get("email"), form.Get("password"))
	if err != nil {
		httpx.WriteError(w, err)
		return
	}

	token, err := h.resolver.IssueToken(p.ID)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, loginResponse{
		ID:      p.ID,
		Name:    p.Name,
		Email:   p.Email,
		Role:    p.Role,
		IsAdmin: p.Kind == model.PrincipalAdmin,
		Token:   token,
	})
}

// UpdateProfileImage 替换当前主体头像
func (h *Handler) UpdateProfileImage(w http.ResponseWriter, r *http.Request) {
	form, err := httpx.ReadForm(w, r, h.imagePolicy.MaxBytes+formOverhead)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	upload, err := form.File("profileImage", h.imagePolicy)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	defer upload.Close()

	path, err := h.accounts.UpdateProfileImage(r.Context(), GetPrincipal(r.Context()), upload)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, profileImageResponse{
		ProfileImage: path,
		Msg:          "Profile image updated successfully",
	})
}

// Me 当前主体（不含密码哈希）
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, GetPrincipal(r.Context()))
}

// ChangePassword 设置新密码，字段 newPassword
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	form, err := httpx.ReadForm(w, r, formOverhead)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	if err := h.accounts.ChangePassword(r.Context(), GetPrincipal(r.Context()), form.Get("newPassword")); err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteMessage(w, http.StatusOK, "Password updated successfully")
}

// UserStats 最近 12 个月注册统计
func (h *Handler) UserStats(w http.ResponseWriter, r *http.Request) {
	months, err := h.accounts.UserStats(r.Context())
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, months)
}
