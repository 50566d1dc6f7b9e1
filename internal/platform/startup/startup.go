package startup

import (
	"fmt"

	"github.com/SlpAus/dj-request-backend/internal/event"
	"github.com/SlpAus/dj-request-backend/internal/request"
	"github.com/SlpAus/dj-request-backend/internal/settings"
	"github.com/SlpAus/dj-request-backend/internal/vote"
)

// InitializeApplication 是应用首次启动时执行的总入口。
// 按依赖顺序迁移各模块的表结构、创建默认活动并预热缓存。
func InitializeApplication() error {
	fmt.Println("开始应用首次初始化...")

	if err := event.PrimeDB(); err != nil {
		return err
	}
	if err := request.PrimeDB(); err != nil {
		return err
	}
	if err := vote.PrimeCachedDB(); err != nil {
		return err
	}
	if err := settings.PrimeDB(); err != nil {
		return err
	}

	fmt.Println("应用初始化完成！")
	return nil
}

// RebuildCache 在Redis恢复后热重建投票去重缓存。
func RebuildCache() error {
	fmt.Println("开始缓存热重建...")
	if err := vote.WarmupCache(); err != nil {
		return err
	}
	fmt.Println("缓存热重建完成。")
	return nil
}
