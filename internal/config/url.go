package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// buildMongoURI 构建 MongoDB 连接字符串；URI 字段优先
func buildMongoURI(db DatabaseConfig) string {
	if db.URI != "" {
		return db.URI
	}
	host := db.Host
	if host == "" {
		return defaultMongoURI
	}
	port := db.Port
	if port == 0 {
		port = 27017
	}
	if db.User != "" && db.Password != "" {
		return fmt.Sprintf("mongodb://%s:%s@%s:%d", db.User, db.Password, host, port)
	}
	return fmt.Sprintf("mongodb://%s:%d", host, port)
}

// detectDatabaseDriver 规范化驱动名，未知值回退 mongodb
func detectDatabaseDriver(driver string) string {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case DriverMemory, "mem", "inmemory":
		return DriverMemory
	default:
		return DriverMongoDB
	}
}

var credentialPattern = regexp.MustCompile(`(://[^:/@]+:)([^@]+)(@)`)

// maskPassword 隐藏密码
func maskPassword(url string) string {
	return credentialPattern.ReplaceAllString(url, "${1}***${3}")
}

// parseEnv 解析环境字符串
func parseEnv(env string) Environment {
	switch strings.ToLower(env) {
	case "test":
		return EnvTest
	case "prod", "production":
		return EnvProduction
	default:
		return EnvDevelopment
	}
}

// getEnv 获取环境变量，支持默认值
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt64 无法解析时保留默认值
func getEnvInt64(key string, defaultValue int64) int64 {
	if n, err := strconv.ParseInt(os.Getenv(key), 10, 64); err == nil {
		return n
	}
	return defaultValue
}

// IsTest 是否为测试环境
func (c *Config) IsTest() bool {
	return c.Env == EnvTest
}

// IsProduction 是否为生产环境
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// String 返回配置摘要（隐藏密码）
func (c *Config) String() string {
	return fmt.Sprintf("Config{Env: %s, Driver: %s, DB: %s/%s, Assets: %s, Port: %s}",
		c.Env, c.DatabaseDriver, maskPassword(c.DatabaseURL), c.DatabaseDBName, c.Storage.Backend, c.APIServer.Port)
}
