// Package testutil 提供测试用的 sqlite 内存数据库
package testutil

import (
	"classroom_backend/internal/config"
	"classroom_backend/pkg/database"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DB 每次调用返回一个独立的、已迁移的内存数据库
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()

	cfg := &config.DatabaseConfig{
		Driver:   "sqlite",
		DSN:      fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
		LogLevel: "silent",
	}
	db, err := database.InitDB(cfg)
	if err != nil {
		tb.Fatalf("failed to init test db: %v", err)
	}

	tb.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}
