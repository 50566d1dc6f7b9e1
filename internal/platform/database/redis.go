package database

import (
	"context"
	"fmt"

	"github.com/SlpAus/dj-request-backend/internal/platform/config"
	"github.com/redis/go-redis/v9"
)

// RDB 是一个全局的Redis客户端实例，供项目其他部分使用
var RDB *redis.Client

// Ctx 是一个全局的上下文，用于Redis操作
var Ctx = context.Background()

// InitRedis 初始化与Redis数据库的连接
func InitRedis(cfg config.RedisConfig) {
	// 使用从配置文件加载的参数创建客户端
	RDB = redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// 使用Ping命令来测试连接是否成功
	_, err := RDB.Ping(Ctx).Result()
	if err != nil {
		// Redis只承载投票去重的快路径缓存，连接失败不致命，
		// 健康检查器会在它恢复后重建缓存
		fmt.Println("无法连接到Redis，去重缓存暂不可用: " + err.Error())
		UpdateStatus(false, "")
		return
	}

	UpdateStatus(true, "")
	fmt.Println("Redis 连接成功！")
}
