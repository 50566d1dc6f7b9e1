package vote

import (
	"context"
	"fmt"

	"github.com/SlpAus/dj-request-backend/internal/platform/database"
	"github.com/SlpAus/dj-request-backend/internal/platform/logging"
	"github.com/redis/go-redis/v9"
)

// voterCacheKeyPrefix 是Redis中每条点歌请求的投票者集合的键名前缀。
// 成员是已成功投票的IP。集合只是快路径预检，
// SQLite的唯一索引才是去重的最终依据。
const voterCacheKeyPrefix = "votos:solicitud:"

func voterCacheKey(solicitudID uint) string {
	return fmt.Sprintf("%s%d", voterCacheKeyPrefix, solicitudID)
}

// isCachedVoter 检查一个IP是否已经给某条请求投过票。
// Redis不健康时返回未命中，由调用方落到SQLite判断。
func isCachedVoter(solicitudID uint, ip string) (bool, error) {
	if !database.IsRedisHealthy() {
		return false, nil
	}
	exists, err := database.RDB.SIsMember(database.Ctx, voterCacheKey(solicitudID), ip).Result()
	if err != nil {
		return false, fmt.Errorf("检查投票者缓存时出错: %w", err)
	}
	return exists, nil
}

// cacheVoter 在投票成功落库后，把IP写入对应的缓存集合。
// 失败只记录日志：缓存缺项是安全的，重复票仍会被唯一索引拦截。
func cacheVoter(solicitudID uint, ip string) {
	if !database.IsRedisHealthy() {
		return
	}
	if err := database.RDB.SAdd(database.Ctx, voterCacheKey(solicitudID), ip).Err(); err != nil {
		logging.Logger.WithError(err).WithField("solicitud_id", solicitudID).
			Warn("无法更新投票者缓存")
	}
}

// deleteKeysByPrefix 是一个辅助函数，用于安全地删除一批key
func deleteKeysByPrefix(ctx context.Context, rdb *redis.Client, prefix string) error {
	var cursor uint64
	matchPattern := prefix + "*"
	const batchSize = 500

	for {
		keys, nextCursor, err := rdb.Scan(ctx, cursor, matchPattern, batchSize).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	return nil
}

// WarmupCache 从SQLite重建全部投票者集合。
// 用于应用启动和Redis重启后的缓存恢复。
func WarmupCache() error {
	if !database.IsRedisHealthy() {
		fmt.Println("Redis不可用，跳过投票者缓存预热。")
		return nil
	}

	var votes []Vote
	if err := database.DB.Select("solicitud_id", "ip_votante").Find(&votes).Error; err != nil {
		return fmt.Errorf("无法从SQLite读取投票记录: %w", err)
	}

	// 1. 先清掉旧的集合，确保数据一致性
	if err := deleteKeysByPrefix(database.Ctx, database.RDB, voterCacheKeyPrefix); err != nil {
		return fmt.Errorf("删除旧的投票者缓存失败: %w", err)
	}

	if len(votes) == 0 {
		fmt.Println("无现有投票数据，无需预热投票者缓存。")
		return nil
	}

	// 2. 按请求分组后用Pipeline批量写回
	grouped := make(map[uint][]interface{})
	for _, v := range votes {
		grouped[v.SolicitudID] = append(grouped[v.SolicitudID], v.IPVotante)
	}

	pipe := database.RDB.Pipeline()
	for id, members := range grouped {
		pipe.SAdd(database.Ctx, voterCacheKey(id), members...)
	}
	if _, err := pipe.Exec(database.Ctx); err != nil {
		return fmt.Errorf("预热投票者缓存到Redis失败: %w", err)
	}

	fmt.Printf("成功预热 %d 条点歌请求的投票者缓存。\n", len(grouped))
	return nil
}
