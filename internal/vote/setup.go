package vote

import (
	"fmt"

	"github.com/SlpAus/dj-request-backend/internal/platform/database"
)

// migrateDB 负责自动迁移votos表及其唯一索引
func migrateDB() error {
	if err := database.DB.AutoMigrate(&Vote{}); err != nil {
		return fmt.Errorf("无法迁移votos表: %w", err)
	}
	return nil
}

// PrimeCachedDB 是vote模块的初始化总入口：迁移表结构并预热去重缓存
func PrimeCachedDB() error {
	if err := migrateDB(); err != nil {
		return err
	}
	return WarmupCache()
}
