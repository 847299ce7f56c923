// Package httpxtest 处理器测试辅助
package httpxtest

import (
	"net/http"
	"strings"

	"wedding-planner/internal/apiserver/httpx"
	"wedding-planner/internal/shared/apperr"
)

// 测试令牌
const (
	AdminToken  = "admin"
	ClientToken = "client"
)

// Gate 按固定令牌放行的鉴权桩：AdminToken 为管理员，ClientToken 为普通用户
type Gate struct{}

var _ httpx.Gate = Gate{}

func (Gate) Authenticated(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch token(r) {
		case AdminToken, ClientToken:
			next(w, r)
		default:
			httpx.WriteError(w, apperr.Unauthenticated("Please authenticate"))
		}
	}
}

func (Gate) AdminOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch token(r) {
		case AdminToken:
			next(w, r)
		case ClientToken:
			httpx.WriteError(w, apperr.Forbidden("Admin access required"))
		default:
			httpx.WriteError(w, apperr.Unauthenticated("Please authenticate"))
		}
	}
}

func token(r *http.Request) string {
	return strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
}
