// Package config 提供应用程序的配置加载和管理功能
// 使用 TOML 格式的配置文件，支持多路径查找，敏感字段可由 .env / 环境变量覆盖
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml" // TOML 配置文件解析库
	"github.com/joho/godotenv"   // .env 文件加载
)

// MainConfig 主配置，包含应用基本信息
type MainConfig struct {
	AppName string `toml:"appName"` // 应用名称，用于日志标识等
	Host    string `toml:"host"`    // 服务器监听地址，如 "0.0.0.0"
	Port    int    `toml:"port"`    // 服务器监听端口，如 8000
	Mode    string `toml:"mode"`    // 运行模式：dev 或 release
}

// DatabaseConfig 持久化存储连接配置
type DatabaseConfig struct {
	Driver       string `toml:"driver"`       // 数据库类型："mysql" 或 "postgres"
	Host         string `toml:"host"`         // 数据库地址
	Port         int    `toml:"port"`         // 端口
	User         string `toml:"user"`         // 用户名
	Password     string `toml:"password"`     // 密码
	DatabaseName string `toml:"databaseName"` // 数据库名称
	SSLMode      string `toml:"sslMode"`      // 仅 postgres 使用
}

// RedisConfig Redis 连接配置
type RedisConfig struct {
	Enabled  bool   `toml:"enabled"`  // 关闭时历史消息不走缓存
	Host     string `toml:"host"`     // Redis 服务器地址
	Port     int    `toml:"port"`     // Redis 端口，默认 6379
	Password string `toml:"password"` // Redis 密码，无密码留空
	Db       int    `toml:"db"`       // Redis 数据库编号，默认 0
}

// LogConfig 日志配置，使用 lumberjack 进行日志轮转
type LogConfig struct {
	LogPath    string `toml:"logPath"`    // 日志文件存储目录
	FileName   string `toml:"fileName"`   // 日志文件名
	MaxSize    int    `toml:"maxSize"`    // 单个日志文件最大大小（MB）
	MaxBackups int    `toml:"maxBackups"` // 保留旧日志文件的最大个数
	MaxAge     int    `toml:"maxAge"`     // 保留旧日志文件的最大天数
	Level      string `toml:"level"`      // 日志级别：debug, info, warn, error
}

// KafkaConfig Kafka 消息队列配置
type KafkaConfig struct {
	MessageMode string        `toml:"messageMode"` // 消息模式："channel" 或 "kafka"
	HostPort    string        `toml:"hostPort"`    // Kafka 服务器地址，如 "localhost:9092"
	ChatTopic   string        `toml:"chatTopic"`   // 客户端上行帧主题
	GroupID     string        `toml:"groupId"`     // 消费者组
	Timeout     time.Duration `toml:"timeout"`     // 超时时间（秒）
}

// JWTConfig JWT 认证配置
type JWTConfig struct {
	Secret            string `toml:"secret"`            // JWT 签名密钥，建议 32 字符以上
	AccessTokenExpiry int    `toml:"accessTokenExpiry"` // Access Token 有效期（分钟）
}

// SecurityConfig HTTP 安全相关配置
type SecurityConfig struct {
	TLSRedirect  bool     `toml:"tlsRedirect"`  // 是否将 HTTP 重定向到 HTTPS（由 Nginx 处理 SSL 时关闭）
	AllowOrigins []string `toml:"allowOrigins"` // CORS 允许的来源
}

// SnowflakeConfig 雪花算法配置
type SnowflakeConfig struct {
	MachineID int64 `toml:"machineId"` // 雪花算法节点 ID，范围 0-1023
}

// HistoryConfig 历史消息配置
type HistoryConfig struct {
	PageSize     int `toml:"pageSize"`     // 每页条数，默认 15
	CacheMinutes int `toml:"cacheMinutes"` // 首屏缓存有效期（分钟）
}

// Config 应用程序总配置，聚合所有子配置
type Config struct {
	MainConfig      `toml:"mainConfig"`      // 主配置
	DatabaseConfig  `toml:"databaseConfig"`  // 数据库配置
	RedisConfig     `toml:"redisConfig"`     // Redis 配置
	LogConfig       `toml:"logConfig"`       // 日志配置
	KafkaConfig     `toml:"kafkaConfig"`     // Kafka 配置
	JWTConfig       `toml:"jwtConfig"`       // JWT 配置
	SecurityConfig  `toml:"securityConfig"`  // 安全配置
	SnowflakeConfig `toml:"snowflakeConfig"` // 雪花算法配置
	HistoryConfig   `toml:"historyConfig"`   // 历史消息配置
}

// config 全局配置单例，延迟加载
var config *Config

// 可覆盖配置文件的环境变量
const (
	envJWTSecret     = "RELAY_JWT_SECRET"
	envDBPassword    = "RELAY_DB_PASSWORD"
	envRedisPassword = "RELAY_REDIS_PASSWORD"
	envKafkaHostPort = "RELAY_KAFKA_HOSTPORT"
	envPort          = "RELAY_PORT"
)

// Default 返回带默认值的配置
func Default() *Config {
	return &Config{
		MainConfig: MainConfig{
			AppName: "relay_chat_server",
			Host:    "0.0.0.0",
			Port:    8000,
			Mode:    "dev",
		},
		DatabaseConfig: DatabaseConfig{
			Driver: "mysql",
			Host:   "127.0.0.1",
			Port:   3306,
		},
		RedisConfig: RedisConfig{
			Host: "127.0.0.1",
			Port: 6379,
		},
		LogConfig: LogConfig{
			LogPath: "./logs",
			Level:   "info",
		},
		KafkaConfig: KafkaConfig{
			MessageMode: "channel",
			ChatTopic:   "relay_chat_frames",
			GroupID:     "relay_chat",
			Timeout:     1,
		},
		JWTConfig: JWTConfig{
			AccessTokenExpiry: 60,
		},
		SnowflakeConfig: SnowflakeConfig{MachineID: 1},
		HistoryConfig: HistoryConfig{
			PageSize:     15,
			CacheMinutes: 1,
		},
	}
}

// LoadConfig 从多个候选路径加载配置文件
// 按顺序尝试加载，找到第一个可用的配置文件即停止
func LoadConfig(cfg *Config, paths ...string) error {
	if len(paths) == 0 {
		// 候选配置文件路径（优先加载本地配置）
		paths = []string{
			"configs/config_local.toml",
			"configs/config.toml",
			"../../configs/config_local.toml", // 从子目录运行时的路径
			"../../configs/config.toml",
		}
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return fmt.Errorf("decode config %s: %w", path, err)
		}
		return nil
	}

	return fmt.Errorf("could not find configuration file in any of the search paths")
}

// ApplyEnv 使用环境变量覆盖敏感字段
func ApplyEnv(cfg *Config) {
	if v := os.Getenv(envJWTSecret); v != "" {
		cfg.JWTConfig.Secret = v
	}
	if v := os.Getenv(envDBPassword); v != "" {
		cfg.DatabaseConfig.Password = v
	}
	if v := os.Getenv(envRedisPassword); v != "" {
		cfg.RedisConfig.Password = v
	}
	if v := os.Getenv(envKafkaHostPort); v != "" {
		cfg.KafkaConfig.HostPort = v
	}
	if v := os.Getenv(envPort); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.MainConfig.Port = port
		}
	}
}

// GetConfig 获取全局配置实例（单例模式）
// 首次调用时会自动加载 .env 和配置文件，找不到文件时使用默认值
func GetConfig() *Config {
	if config == nil {
		_ = godotenv.Load() // .env 可选
		cfg := Default()
		_ = LoadConfig(cfg)
		ApplyEnv(cfg)
		config = cfg
	}
	return config
}
