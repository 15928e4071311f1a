// Package mysql 负责建立数据库连接、自动迁移表结构并初始化 Repository 层
// 默认使用 MySQL，databaseConfig.driver = "postgres" 时切换为 PostgreSQL
package mysql

import (
	"fmt"

	"relay_chat_server/internal/config"
	"relay_chat_server/internal/dao/mysql/repository"
	"relay_chat_server/internal/model"

	mysqldriver "gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Init 连接数据库并返回 Repository 集合
func Init(cfg *config.DatabaseConfig, mode string) (*repository.Repositories, error) {
	db, err := Open(cfg, mode)
	if err != nil {
		return nil, err
	}
	return repository.NewRepositories(db), nil
}

// Open 建立连接并迁移表结构
func Open(cfg *config.DatabaseConfig, mode string) (*gorm.DB, error) {
	dialector, err := newDialector(cfg)
	if err != nil {
		return nil, err
	}

	logLevel := gormlogger.Warn
	if mode == "dev" {
		logLevel = gormlogger.Info
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Driver, err)
	}

	// 不会删除已有字段或数据
	if err = db.AutoMigrate(
		&model.Message{},     // 消息表
		&model.UserContact{}, // 好友关系表（由好友子系统写入）
	); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	return db, nil
}

func newDialector(cfg *config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "", "mysql":
		return mysqldriver.Open(mysqlDSN(cfg)), nil
	case "postgres":
		return postgres.Open(postgresDSN(cfg)), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// mysqlDSN user:password@tcp(host:port)/database?params
func mysqlDSN(cfg *config.DatabaseConfig) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.DatabaseName)
}

func postgresDSN(cfg *config.DatabaseConfig) string {
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s TimeZone=Asia/Shanghai",
		cfg.Host, cfg.User, cfg.Password, cfg.DatabaseName, cfg.Port, sslMode)
}
