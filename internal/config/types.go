// Package config 统一配置管理
//
// 配置加载优先级（高→低）：
//  1. 环境变量（通过 .env.{env} 文件或 shell/systemd 注入）
//  2. YAML 配置文件（{env}.yaml，覆盖 common.yaml）
//  3. 代码硬编码默认值
//
// 凭据单一数据源：
//
//	密码/密钥只存在环境变量中（JWT_SECRET、ADMIN_PASSWORD、MONGO_PASSWORD、
//	MINIO_ROOT_USER、MINIO_ROOT_PASSWORD），YAML 中不存储任何密码。
//
// 配置路径确定策略：
//  1. CONFIG_DIR 环境变量
//  2. 按 APP_ENV 选择默认路径：
//     - prod → /etc/wedding-planner/
//     - dev/test → ./configs/
package config

import "time"

// Environment 环境类型
type Environment string

const (
	EnvProduction  Environment = "prod"
	EnvTest        Environment = "test"
	EnvDevelopment Environment = "dev"
)

// 数据库驱动
const (
	DriverMongoDB = "mongodb"
	DriverMemory  = "memory"
)

// 资源存储后端
const (
	BackendDisk  = "disk"
	BackendMinIO = "minio"
)

// YAMLConfig YAML 配置文件结构
type YAMLConfig struct {
	APIServer APIServerConfig `yaml:"api_server"`
	Database  DatabaseConfig  `yaml:"database"`
	Storage   StorageConfig   `yaml:"storage"`
	MinIO     MinIOConfig     `yaml:"minio"`
	Auth      AuthConfig      `yaml:"auth"`
	Upload    UploadConfig    `yaml:"upload"`
	Log       LogConfig       `yaml:"log"`
}

// APIServerConfig API Server 配置
type APIServerConfig struct {
	Port        string   `yaml:"port"`
	CORSOrigins []string `yaml:"cors_origins"` // 为空时允许任意来源
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Driver   string `yaml:"driver"` // "mongodb"（默认）或 "memory"
	URI      string `yaml:"uri"`    // 优先于 host/port
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"-"` // 只从 MONGO_PASSWORD 环境变量读取
	Name     string `yaml:"name"`
}

// StorageConfig 上传文件存储配置
type StorageConfig struct {
	Backend   string `yaml:"asset_backend"` // "disk"（默认）或 "minio"
	UploadDir string `yaml:"upload_dir"`    // disk 后端根目录
}

// MinIOConfig MinIO 对象存储配置
type MinIOConfig struct {
	Endpoint  string `yaml:"endpoint"` // 例如 localhost:9000
	AccessKey string `yaml:"-"`        // 只从 MINIO_ROOT_USER 环境变量读取
	SecretKey string `yaml:"-"`        // 只从 MINIO_ROOT_PASSWORD 环境变量读取
	UseSSL    bool   `yaml:"use_ssl"`
	Bucket    string `yaml:"bucket"`
}

// AuthConfig 认证配置
// 注意：JWTSecret/AdminPassword 只从环境变量读取
type AuthConfig struct {
	JWTSecret      string        `yaml:"-"`
	AccessTokenTTL time.Duration `yaml:"access_token_ttl"`
	AdminName      string        `yaml:"admin_name"`
	AdminEmail     string        `yaml:"admin_email"`
	AdminPhone     string        `yaml:"admin_phone"`
	AdminPassword  string        `yaml:"-"`
}

// UploadConfig 上传限制
type UploadConfig struct {
	MaxImageBytes int64 `yaml:"max_image_bytes"`
	MaxMediaBytes int64 `yaml:"max_media_bytes"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text | json
}

// Config 应用配置（最终使用的配置）
type Config struct {
	Env            Environment
	DatabaseDriver string
	DatabaseURL    string
	DatabaseDBName string
	APIServer      APIServerConfig
	Storage        StorageConfig
	MinIO          MinIOConfig
	Auth           AuthConfig
	Upload         UploadConfig
	Log            LogConfig
	ConfigFilePath string // 实际加载的 {env}.yaml 路径，未找到为空
}

// yamlConfigInternal 内部包装，记录配置文件来源
type yamlConfigInternal struct {
	YAMLConfig `yaml:",inline"`
	loadedFrom string
}
