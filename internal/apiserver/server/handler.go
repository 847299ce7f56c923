// Package server 路由配置与核心基础设施
//
// 本文件定义 HTTP API 路由，将请求分发到各领域独立包：
//   - auth: 注册、登录、个人资料、用户统计
//   - catalog: 分类、条目、推荐
//   - media: 条目媒体附件
//   - schedule: 条目日期标记
//
// 本包自身只保留健康检查、指标、上传文件访问与全局中间件。
package server

import (
	"net/http"

	gorillaHandlers "github.com/gorilla/handlers"
	"github.com/prometheus/client_golang/prometheus"

	"wedding-planner/internal/apiserver/auth"
	"wedding-planner/internal/apiserver/catalog"
	"wedding-planner/internal/apiserver/media"
	"wedding-planner/internal/apiserver/schedule"
	"wedding-planner/internal/config"
	"wedding-planner/internal/shared/assets"
	"wedding-planner/internal/shared/model"
	"wedding-planner/internal/shared/storage"
	"wedding-planner/pkg/logging"
)

// Deps Handler 依赖
type Deps struct {
	Store       storage.PersistentStore
	Assets      assets.Store
	Auth        auth.Config
	Upload      config.UploadConfig
	CORSOrigins []string             // 为空时允许任意来源
	Logger      *logging.Logger      // 为空时使用默认日志器
	Registry    *prometheus.Registry // 为空时新建
}

// Handler API 处理器
//
// Handler 是所有 HTTP API 的入口，持有各领域服务并负责组装路由。
type Handler struct {
	store       storage.PersistentStore
	assets      assets.Store
	corsOrigins []string
	logger      *logging.Logger
	metrics     *Metrics

	resolver *auth.Resolver
	gate     *auth.Middleware
	accounts *auth.Accounts
	catalog  *catalog.Service
	media    *media.Service
	schedule *schedule.Service

	imagePolicy assets.Policy
	mediaPolicy assets.Policy
}

// NewHandler 创建 Handler 实例
func NewHandler(deps Deps) *Handler {
	logger := deps.Logger
	if logger == nil {
		logger = logging.Default("api-server")
	}
	h := &Handler{
		store:       deps.Store,
		assets:      deps.Assets,
		corsOrigins: deps.CORSOrigins,
		logger:      logger,
		metrics:     NewMetrics("wedding", deps.Registry),
		imagePolicy: assets.DefaultImagePolicy,
		mediaPolicy: assets.DefaultMediaPolicy,
	}
	if deps.Upload.MaxImageBytes > 0 {
		h.imagePolicy = assets.ImagePolicy(deps.Upload.MaxImageBytes)
	}
	if deps.Upload.MaxMediaBytes > 0 {
		h.mediaPolicy = assets.MediaPolicy(deps.Upload.MaxMediaBytes)
	}

	// 默认头像为所有账号共享，永不删除
	cleaner := assets.NewCleaner(deps.Assets, model.DefaultAvatarPath, model.DefaultAdminAvatarPath)
	cleaner.OnFailure(func(path string, err error) {
		h.metrics.RecordAssetCleanupFailure(path)
		h.logger.AssetCleanupLog(path, err)
	})

	h.resolver = auth.NewResolver(deps.Store, deps.Auth)
	h.gate = auth.NewMiddleware(h.resolver)
	h.accounts = auth.NewAccounts(deps.Store, cleaner)
	h.catalog = catalog.NewService(deps.Store, cleaner)
	h.media = media.NewService(deps.Store, cleaner)
	h.schedule = schedule.NewService(deps.Store)
	return h
}

// Accounts 账号服务（启动时初始化管理员）
func (h *Handler) Accounts() *auth.Accounts {
	return h.accounts
}

// GetMetrics 返回指标实例
func (h *Handler) GetMetrics() *Metrics {
	return h.metrics
}

// Router 返回配置好的 HTTP 路由
//
// 路由规则：
//
// 基础:
//   - GET /health              - 服务健康检查
//   - GET /metrics             - Prometheus 指标
//   - GET /uploads/{path...}   - 已上传文件
//
// 认证 (auth):
//   - POST /api/auth/register, /api/auth/login, /api/auth/admin-login
//   - GET  /api/auth/user, /api/auth/user-stats
//   - PATCH /api/auth/update-profile-image, /api/auth/change-password
//
// 目录 (catalog):
//   - /api/categories, /api/elements, /api/recommendations
//
// 媒体 (media):
//   - /api/media
//
// 日期标记 (schedule):
//   - /api/schedules
func (h *Handler) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", h.Health)
	mux.Handle("GET /metrics", h.metrics.Handler())
	mux.HandleFunc("GET /uploads/{path...}", h.ServeUpload)

	auth.NewHandler(h.accounts, h.resolver, h.gate, h.imagePolicy).RegisterRoutes(mux)
	catalog.NewHandler(h.catalog, h.gate, h.imagePolicy).RegisterRoutes(mux)
	media.NewHandler(h.media, h.gate, h.mediaPolicy).RegisterRoutes(mux)
	schedule.NewHandler(h.schedule, h.gate).RegisterRoutes(mux)

	// 由内到外：指标 → 请求日志 → 代理头 → CORS
	var handler http.Handler = h.metrics.MetricsMiddleware(mux)
	handler = h.requestLogMiddleware(handler)
	handler = gorillaHandlers.ProxyHeaders(handler)
	handler = h.corsMiddleware(handler)
	return handler
}
