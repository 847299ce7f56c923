package server

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	gorillaHandlers "github.com/gorilla/handlers"

	"wedding-planner/pkg/logging"
)

const requestIDHeader = "X-Request-ID"

// requestLogMiddleware 分配请求 ID，每个请求一条结构化日志
func (h *Handler) requestLogMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := r.Header.Get(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, requestID)
		r = r.WithContext(context.WithValue(r.Context(), logging.RequestIDKey, requestID))

		wrapped := wrapResponseWriter(w)
		next.ServeHTTP(wrapped, r)
		h.logger.WithContext(r.Context()).HTTPRequestLog(r.Method, r.URL.Path, wrapped.statusCode, time.Since(start), clientIP(r))
	})
}

// corsMiddleware 跨域支持；未配置来源时允许任意来源
func (h *Handler) corsMiddleware(next http.Handler) http.Handler {
	origins := h.corsOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return gorillaHandlers.CORS(
		gorillaHandlers.AllowedOrigins(origins),
		gorillaHandlers.AllowedMethods([]string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}),
		gorillaHandlers.AllowedHeaders([]string{"Content-Type", "Authorization", requestIDHeader}),
		gorillaHandlers.ExposedHeaders([]string{requestIDHeader}),
	)(next)
}

// clientIP RemoteAddr 去掉端口（ProxyHeaders 已按 X-Forwarded-For 改写）
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
