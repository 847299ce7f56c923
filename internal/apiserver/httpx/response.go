// Package httpx HTTP 处理器共用的响应、请求解析与鉴权接口
package httpx

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"wedding-planner/internal/shared/apperr"
)

// Gate 路由鉴权包装（由 auth.Middleware 实现）
type Gate interface {
	Authenticated(next http.HandlerFunc) http.HandlerFunc
	AdminOnly(next http.HandlerFunc) http.HandlerFunc
}

// WriteJSON 写 JSON 响应
func WriteJSON(w http.ResponseWriter, status int, data any) {
	body, err := json.Marshal(data)
	if err != nil {
		log.Printf("[http] ERROR: encode response: %v", err)
		http.Error(w, `{"msg":"Server error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
}

// WriteMessage 写 {"msg": ...}
func WriteMessage(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, map[string]string{"msg": msg})
}

// WriteError 按错误分类写 {"msg": ...}
func WriteError(w http.ResponseWriter, err error) {
	writeError(w, "msg", err)
}

// WriteErrorField 同 WriteError，但使用指定字段名（schedule 路由使用 "error"）
func WriteErrorField(w http.ResponseWriter, field string, err error) {
	writeError(w, field, err)
}

func writeError(w http.ResponseWriter, field string, err error) {
	status := StatusOf(err)
	if status >= http.StatusInternalServerError {
		log.Printf("[http] ERROR: %v", err)
	}
	WriteJSON(w, status, map[string]string{field: apperr.Message(err)})
}

// StatusOf 错误分类对应的 HTTP 状态码
func StatusOf(err error) int {
	switch {
	case errors.Is(err, apperr.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperr.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, apperr.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, apperr.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
