package settings

import (
	"errors"
	"fmt"

	"github.com/SlpAus/dj-request-backend/internal/platform/database"
	"gorm.io/gorm"
)

// GetForEvent 返回一个活动的配置，不存在时创建一条带缺省值的记录。
func GetForEvent(eventoID uint) (*Config, error) {
	var cfg Config
	err := database.DB.Where("evento_id = ?", eventoID).First(&cfg).Error
	if err == nil {
		return &cfg, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("查询配置失败: %w", err)
	}

	cfg = Config{EventoID: eventoID}
	if err := database.DB.Create(&cfg).Error; err != nil {
		// 并发创建时唯一索引可能触发冲突，重新读取即可
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if err := database.DB.Where("evento_id = ?", eventoID).First(&cfg).Error; err != nil {
				return nil, fmt.Errorf("读取配置失败: %w", err)
			}
			return &cfg, nil
		}
		return nil, fmt.Errorf("无法创建默认配置: %w", err)
	}
	return &cfg, nil
}

// Update 以整体覆盖的方式保存一个活动的配置。
func Update(cfg *Config) error {
	existing, err := GetForEvent(cfg.EventoID)
	if err != nil {
		return err
	}
	cfg.ID = existing.ID
	if err := database.DB.Save(cfg).Error; err != nil {
		return fmt.Errorf("无法保存配置: %w", err)
	}
	return nil
}
