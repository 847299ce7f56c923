package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultPort          = "5000"
	defaultMongoURI      = "mongodb://localhost:27017"
	defaultDBName        = "wedding_planner"
	defaultUploadDir     = "uploads"
	defaultBucket        = "wedding-planner"
	defaultTokenTTL      = 30 * 24 * time.Hour
	defaultAdminName     = "Admin"
	defaultAdminEmail    = "admin@gmail.com"
	defaultAdminPhone    = "71852963"
	devAdminPassword     = "admin1"
	devJWTSecret         = "dev-insecure-jwt-secret"
	defaultMaxImageBytes = 5 << 20
	defaultMaxMediaBytes = 50 << 20
	defaultLogLevel      = "info"
	defaultLogFormat     = "text"
)

// Load 加载配置
// 1. 解析 APP_ENV，加载 .env.{env}
// 2. 加载 common.yaml 与 {env}.yaml
// 3. 环境变量覆盖
func Load() *Config {
	env := parseEnv(getEnv("APP_ENV", "dev"))
	loadEnvFiles(env)

	yamlCfg := loadYAMLConfig(env)
	db := yamlCfg.Database
	db.Password = os.Getenv("MONGO_PASSWORD")

	cfg := &Config{
		Env:            env,
		DatabaseDriver: detectDatabaseDriver(getEnv("DB_DRIVER", db.Driver)),
		DatabaseURL:    getEnv("MONGO_URI", buildMongoURI(db)),
		DatabaseDBName: getEnv("MONGO_DB", db.Name),
		APIServer:      yamlCfg.APIServer,
		Storage:        yamlCfg.Storage,
		MinIO:          yamlCfg.MinIO,
		Auth:           yamlCfg.Auth,
		Upload:         yamlCfg.Upload,
		Log:            yamlCfg.Log,
		ConfigFilePath: yamlCfg.loadedFrom,
	}

	cfg.APIServer.Port = getEnv("PORT", cfg.APIServer.Port)
	cfg.Storage.UploadDir = getEnv("UPLOAD_DIR", cfg.Storage.UploadDir)
	cfg.Storage.Backend = getEnv("ASSET_BACKEND", cfg.Storage.Backend)
	cfg.MinIO.AccessKey = os.Getenv("MINIO_ROOT_USER")
	cfg.MinIO.SecretKey = os.Getenv("MINIO_ROOT_PASSWORD")
	cfg.Auth.JWTSecret = os.Getenv("JWT_SECRET")
	cfg.Auth.AdminEmail = getEnv("ADMIN_EMAIL", cfg.Auth.AdminEmail)
	cfg.Auth.AdminPassword = os.Getenv("ADMIN_PASSWORD")
	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = getEnv("LOG_FORMAT", cfg.Log.Format)
	if v := os.Getenv("ACCESS_TOKEN_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Auth.AccessTokenTTL = d
		}
	}
	cfg.Upload.MaxImageBytes = getEnvInt64("MAX_IMAGE_BYTES", cfg.Upload.MaxImageBytes)
	cfg.Upload.MaxMediaBytes = getEnvInt64("MAX_MEDIA_BYTES", cfg.Upload.MaxMediaBytes)

	cfg.applyDefaults()
	return cfg
}

// defaultYAMLConfig 硬编码默认值
func defaultYAMLConfig() YAMLConfig {
	return YAMLConfig{
		APIServer: APIServerConfig{Port: defaultPort},
		Database:  DatabaseConfig{Driver: DriverMongoDB, Host: "localhost", Port: 27017, Name: defaultDBName},
		Storage:   StorageConfig{Backend: BackendDisk, UploadDir: defaultUploadDir},
		MinIO:     MinIOConfig{Endpoint: "localhost:9000", Bucket: defaultBucket},
		Auth: AuthConfig{
			AccessTokenTTL: defaultTokenTTL,
			AdminName:      defaultAdminName,
			AdminEmail:     defaultAdminEmail,
			AdminPhone:     defaultAdminPhone,
		},
		Upload: UploadConfig{MaxImageBytes: defaultMaxImageBytes, MaxMediaBytes: defaultMaxMediaBytes},
		Log:    LogConfig{Level: defaultLogLevel, Format: defaultLogFormat},
	}
}

// loadYAMLConfig 加载 YAML 配置文件
// 加载顺序：默认值 → common.yaml → {env}.yaml
func loadYAMLConfig(env Environment) *yamlConfigInternal {
	cfg := &yamlConfigInternal{YAMLConfig: defaultYAMLConfig()}

	paths := effectiveConfigPaths(env)
	for _, name := range []string{"common.yaml", fmt.Sprintf("%s.yaml", env)} {
		for _, base := range paths {
			path := filepath.Join(base, name)
			data, err := os.ReadFile(path)
			if err != nil {
				continue
			}
			if err := yaml.Unmarshal(data, &cfg.YAMLConfig); err != nil {
				log.Printf("[config] WARNING: failed to parse %s: %v", path, err)
				break
			}
			if name != "common.yaml" {
				cfg.loadedFrom = path
			}
			break
		}
	}

	return cfg
}

// applyDefaults 补齐被 YAML 或环境变量清空的字段；开发环境填充不安全的占位凭据
func (c *Config) applyDefaults() {
	if c.APIServer.Port == "" {
		c.APIServer.Port = defaultPort
	}
	if c.DatabaseDBName == "" {
		c.DatabaseDBName = defaultDBName
	}
	if c.Storage.Backend == "" {
		c.Storage.Backend = BackendDisk
	}
	if c.Storage.UploadDir == "" {
		c.Storage.UploadDir = defaultUploadDir
	}
	if c.MinIO.Bucket == "" {
		c.MinIO.Bucket = defaultBucket
	}
	if c.Auth.AccessTokenTTL <= 0 {
		c.Auth.AccessTokenTTL = defaultTokenTTL
	}
	if c.Auth.AdminName == "" {
		c.Auth.AdminName = defaultAdminName
	}
	if c.Auth.AdminEmail == "" {
		c.Auth.AdminEmail = defaultAdminEmail
	}
	if c.Auth.AdminPhone == "" {
		c.Auth.AdminPhone = defaultAdminPhone
	}
	if c.Upload.MaxImageBytes <= 0 {
		c.Upload.MaxImageBytes = defaultMaxImageBytes
	}
	if c.Upload.MaxMediaBytes <= 0 {
		c.Upload.MaxMediaBytes = defaultMaxMediaBytes
	}

	if c.Env == EnvProduction {
		return
	}
	if c.Auth.JWTSecret == "" {
		log.Printf("[config] WARNING: JWT_SECRET not set, using development secret")
		c.Auth.JWTSecret = devJWTSecret
	}
	if c.Auth.AdminPassword == "" {
		c.Auth.AdminPassword = devAdminPassword
	}
}

// Validate 校验最终配置
func (c *Config) Validate() error {
	var errs []error
	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.Auth.AdminPassword == "" {
		errs = append(errs, errors.New("ADMIN_PASSWORD is required"))
	}
	switch c.DatabaseDriver {
	case DriverMongoDB:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("MONGO_URI is required"))
		}
	case DriverMemory:
		if c.Env == EnvProduction {
			errs = append(errs, errors.New("memory database driver is not allowed in production"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown database driver %q", c.DatabaseDriver))
	}
	switch c.Storage.Backend {
	case BackendDisk:
	case BackendMinIO:
		if c.MinIO.Endpoint == "" {
			errs = append(errs, errors.New("minio endpoint is required"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown asset backend %q", c.Storage.Backend))
	}
	return errors.Join(errs...)
}
