package event

import (
	"errors"
	"fmt"

	"github.com/SlpAus/dj-request-backend/internal/platform/database"
	"gorm.io/gorm"
)

// ErrNoActiveEvent 表示当前没有处于激活状态的活动
var ErrNoActiveEvent = errors.New("没有激活的活动")

// GetActive 返回当前激活的活动。
func GetActive() (*Event, error) {
	var ev Event
	err := database.DB.Where("activo = ?", true).Order("id ASC").First(&ev).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoActiveEvent
		}
		return nil, fmt.Errorf("查询激活活动失败: %w", err)
	}
	return &ev, nil
}

// Exists 检查给定ID的活动是否存在。
func Exists(id uint) (bool, error) {
	var count int64
	if err := database.DB.Model(&Event{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
