package vote

import (
	"errors"
	"fmt"

	"github.com/SlpAus/dj-request-backend/internal/platform/database"
	"github.com/SlpAus/dj-request-backend/internal/request"
	"gorm.io/gorm"
)

// ErrDuplicateVote 表示同一身份对同一请求重复投票
var ErrDuplicateVote = errors.New("ya votaste por esta canción")

// Cast 原子地记录一次投票并递增票数，返回最新的总票数。
//
// 检查与递增在同一个SQLite事务中完成：唯一索引拦截重复票，
// 计数更新用 votos = votos + 1 避免读改写竞态。
// 重复投票返回ErrDuplicateVote且不改变计数；
// 请求不存在返回request.ErrNotFound。
func Cast(solicitudID uint, ip string) (int, error) {
	if ip == "" {
		return 0, errors.New("投票缺少IP")
	}

	// Redis快路径：已知的重复票直接拒绝，不进数据库。
	// 缓存不可用或未命中时落到SQLite，唯一索引仍是最终裁判。
	if cached, err := isCachedVoter(solicitudID, ip); err == nil && cached {
		return 0, ErrDuplicateVote
	}

	var votos int
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var sol request.Request
		if err := tx.First(&sol, solicitudID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return request.ErrNotFound
			}
			return fmt.Errorf("查询点歌请求失败: %w", err)
		}

		if err := tx.Create(&Vote{SolicitudID: solicitudID, IPVotante: ip}).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateVote
			}
			return fmt.Errorf("无法写入投票记录: %w", err)
		}

		if err := tx.Model(&request.Request{}).Where("id = ?", solicitudID).
			UpdateColumn("votos", gorm.Expr("votos + 1")).Error; err != nil {
			return fmt.Errorf("无法递增票数: %w", err)
		}

		// 在同一事务内读回最新计数，保证返回值与提交的状态一致
		if err := tx.Model(&request.Request{}).Select("votos").
			Where("id = ?", solicitudID).Scan(&votos).Error; err != nil {
			return fmt.Errorf("无法读取最新票数: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	// 事务提交后才写缓存；缓存写失败只影响快路径，无须回滚
	cacheVoter(solicitudID, ip)

	return votos, nil
}
