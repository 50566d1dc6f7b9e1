package event

import (
	"fmt"

	"github.com/SlpAus/dj-request-backend/internal/platform/database"
)

// migrateDB 负责自动迁移数据库表结构
func migrateDB() error {
	if err := database.DB.AutoMigrate(&Event{}); err != nil {
		return fmt.Errorf("无法迁移eventos表: %w", err)
	}
	return nil
}

// ensureActiveEvent 在首次启动（表为空）时创建一个默认活动。
// 活动从不被核心逻辑删除。
func ensureActiveEvent() error {
	var count int64
	if err := database.DB.Model(&Event{}).Count(&count).Error; err != nil {
		return fmt.Errorf("无法统计活动数量: %w", err)
	}
	if count > 0 {
		return nil
	}

	demo := Event{Nombre: "Mi Evento", Activo: true}
	if err := database.DB.Create(&demo).Error; err != nil {
		return fmt.Errorf("无法创建默认活动: %w", err)
	}
	fmt.Printf("已创建默认活动 '%s' (id=%d)。\n", demo.Nombre, demo.ID)
	return nil
}

// PrimeDB 是event模块的初始化总入口
func PrimeDB() error {
	if err := migrateDB(); err != nil {
		return err
	}
	return ensureActiveEvent()
}
