package settings

import (
	"fmt"

	"github.com/SlpAus/dj-request-backend/internal/event"
	"github.com/SlpAus/dj-request-backend/internal/platform/database"
)

// PrimeDB 迁移configuracion表，并确保激活活动有一条配置记录
func PrimeDB() error {
	if err := database.DB.AutoMigrate(&Config{}); err != nil {
		return fmt.Errorf("无法迁移configuracion表: %w", err)
	}

	ev, err := event.GetActive()
	if err != nil {
		// 没有激活活动时跳过，配置会在首次访问时懒创建
		return nil
	}
	if _, err := GetForEvent(ev.ID); err != nil {
		return err
	}
	return nil
}
