// @title Classroom 后端 API
// @version 1.0
// @description 课程测验评分与性格测评服务。

// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization

package main

import (
	"classroom_backend/internal/app"
	"classroom_backend/internal/config"
	"classroom_backend/pkg/configwatcher"
	"classroom_backend/pkg/database"
	"classroom_backend/pkg/logger"
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

func main() {
	// 命令行参数
	configDir := pflag.String("config", "configs", "配置文件目录")
	migrateOnly := pflag.Bool("migrate-only", false, "只执行数据库迁移，完成后退出")
	pflag.String("port", "", "监听端口，覆盖配置文件")
	pflag.Parse()

	config.BindFlags(pflag.CommandLine)
	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	cfg.MigrateOnly = *migrateOnly

	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	// 迁移完成后直接退出
	if cfg.MigrateOnly {
		if _, err := database.InitDB(&cfg.Database); err != nil {
			logger.Log.Fatal("Database migration failed", zap.Error(err))
		}
		logger.Log.Info("数据库迁移完成，退出程序")
		return
	}

	application := app.NewApp(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		if err := configwatcher.Watch(ctx, *configDir, application.ApplyConfig); err != nil {
			logger.Log.Error("Config watcher stopped", zap.Error(err))
		}
	}()

	application.Run()
}
