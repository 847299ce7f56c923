// Package main API Server 入口
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"wedding-planner/internal/apiserver/auth"
	"wedding-planner/internal/apiserver/server"
	"wedding-planner/internal/config"
	"wedding-planner/internal/shared/assets"
	"wedding-planner/internal/shared/storage"
	"wedding-planner/internal/shared/storage/memstore"
	"wedding-planner/internal/shared/storage/mongostore"
	"wedding-planner/pkg/logging"
)

// uploadTimeout 按 2 Mbit/s 传完 50MB 估算
const uploadTimeout = 5 * time.Minute

func main() {
	// 加载配置（自动加载 .env.{env}，再叠加 YAML 与环境变量）
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	logger := logging.New(logging.Config{
		Level:     cfg.Log.Level,
		Format:    cfg.Log.Format,
		Output:    "stdout",
		Component: "api-server",
	})
	log.Printf("Starting API Server... [env=%s]", cfg.Env)
	log.Printf("Config: %s", cfg.String())

	store, err := openStore(cfg)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer store.Close()

	assetStore, err := openAssets(cfg)
	if err != nil {
		log.Fatalf("Failed to open asset storage: %v", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	h := server.NewHandler(server.Deps{
		Store:       store,
		Assets:      assetStore,
		Auth:        auth.Config{JWTSecret: cfg.Auth.JWTSecret, AccessTokenTTL: cfg.Auth.AccessTokenTTL},
		Upload:      cfg.Upload,
		CORSOrigins: cfg.APIServer.CORSOrigins,
		Logger:      logger,
		Registry:    reg,
	})

	// 确保唯一管理员存在
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	_, err = h.Accounts().EnsureAdmin(ctx, auth.AdminSeed{
		Name:     cfg.Auth.AdminName,
		Email:    cfg.Auth.AdminEmail,
		Phone:    cfg.Auth.AdminPhone,
		Password: cfg.Auth.AdminPassword,
	})
	cancel()
	if err != nil {
		log.Fatalf("Failed to ensure admin: %v", err)
	}

	srv := newHTTPServer(cfg.APIServer.Port, h.Router())

	// 优雅关闭
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down server...")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	log.Printf("API Server listening on :%s", cfg.APIServer.Port)
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}

	fmt.Println("Server stopped")
}

// newHTTPServer 请求头限时 15s；请求体与响应共用上传时限，慢速链路也能传完 50MB 媒体
func newHTTPServer(port string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + port,
		Handler:           handler,
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       uploadTimeout,
		WriteTimeout:      uploadTimeout,
		IdleTimeout:       60 * time.Second,
	}
}

// openStore 按配置选择 MongoDB 或内存存储
func openStore(cfg *config.Config) (storage.PersistentStore, error) {
	switch cfg.DatabaseDriver {
	case config.DriverMemory:
		log.Println("Using in-memory store (data is lost on restart)")
		return memstore.New(), nil
	default:
		store, err := mongostore.NewStore(cfg.DatabaseURL, cfg.DatabaseDBName)
		if err != nil {
			return nil, err
		}
		log.Printf("Connected to MongoDB [db=%s]", cfg.DatabaseDBName)
		return store, nil
	}
}

// openAssets 按配置选择本地磁盘或 MinIO
func openAssets(cfg *config.Config) (assets.Store, error) {
	switch cfg.Storage.Backend {
	case config.BackendMinIO:
		m, err := assets.NewMinIO(cfg.MinIO)
		if err != nil {
			return nil, err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := m.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		log.Printf("Using MinIO asset storage [endpoint=%s bucket=%s]", cfg.MinIO.Endpoint, cfg.MinIO.Bucket)
		return m, nil
	default:
		d, err := assets.NewDisk(cfg.Storage.UploadDir)
		if err != nil {
			return nil, err
		}
		log.Printf("Using disk asset storage [dir=%s]", d.Root())
		return d, nil
	}
}
