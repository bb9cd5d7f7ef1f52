package main

import (
	"os"

	"github.com/careerbase/internal/config"
	"github.com/careerbase/internal/logger"
	"github.com/careerbase/internal/models"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 内置权限、角色与菜单
	if err := models.InitDefaults(); err != nil {
		stdLog.Fatalf("Failed to seed defaults: %v", err)
	}
	stdLog.Printf("Seeded default permissions, roles and menus")

	// 默认管理员
	adminEmail := os.Getenv("CB_DEFAULT_ADMIN_EMAIL")
	adminPass := os.Getenv("CB_DEFAULT_ADMIN_PASSWORD")
	if err := models.InitDefaultAdmin(adminEmail, adminPass); err != nil {
		stdLog.Fatalf("Failed to seed default admin: %v", err)
	}
	stdLog.Printf("Seed completed")
}
