package auth

import (
	"net/http"
	"strings"

	"wedding-planner/internal/apiserver/httpx"
	"wedding-planner/internal/shared/apperr"
	"wedding-planner/internal/shared/model"
)

// ErrAdminRequired 已认证但不是管理员
var ErrAdminRequired = apperr.Forbidden("Admin access required")

// RequireAuthenticated 主体必须已解析
func RequireAuthenticated(p *model.Principal) error {
	if p == nil {
		return ErrNotAuthenticated
	}
	return nil
}

// RequireAdmin 主体角色必须为 admin
func RequireAdmin(p *model.Principal) error {
	if err := RequireAuthenticated(p); err != nil {
		return err
	}
	if !p.IsAdmin() {
		return ErrAdminRequired
	}
	return nil
}

// Middleware 按路由包装鉴权：每个请求只解析一次主体
type Middleware struct {
	resolver *Resolver
}

var _ httpx.Gate = (*Middleware)(nil)

// NewMiddleware 创建鉴权中间件
func NewMiddleware(resolver *Resolver) *Middleware {
	return &Middleware{resolver: resolver}
}

// Authenticated 要求有效令牌
func (m *Middleware) Authenticated(next http.HandlerFunc) http.HandlerFunc {
	return m.guard(RequireAuthenticated, next)
}

// AdminOnly 要求管理员
func (m *Middleware) AdminOnly(next http.HandlerFunc) http.HandlerFunc {
	return m.guard(RequireAdmin, next)
}

func (m *Middleware) guard(check func(*model.Principal) error, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := GetPrincipal(r.Context())
		if p == nil {
			var err error
			p, err = m.resolver.ResolveByToken(r.Context(), bearerToken(r))
			if err != nil {
				httpx.WriteError(w, err)
				return
			}
		}
		if err := check(p); err != nil {
			httpx.WriteError(w, err)
			return
		}
		next(w, r.WithContext(WithPrincipal(r.Context(), p)))
	}
}

// bearerToken 提取 Authorization: Bearer <token>
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
