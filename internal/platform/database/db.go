package database

import (
	"fmt"
	"log"
	"os"

	"github.com/SlpAus/dj-request-backend/internal/platform/config"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB 是一个全局的GORM实例，供项目其他部分使用
var DB *gorm.DB

// InitDB 初始化SQLite数据库连接
func InitDB(cfg config.SqliteConfig) {
	var err error

	// GORM日志配置
	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: 0,
			LogLevel:      logger.Silent,
			Colorful:      true,
		},
	)

	DB, err = gorm.Open(sqlite.Open(cfg.Path), &gorm.Config{
		Logger: newLogger,
		// 把底层驱动的唯一约束错误翻译成gorm.ErrDuplicatedKey，
		// 投票去重依赖这个判断
		TranslateError: true,
	})
	if err != nil {
		fmt.Println("连接数据库失败", err)
		panic(err)
	}

	// 单写入者：所有写操作串行通过同一个连接，
	// 保证投票的检查-递增在存储层是原子的
	sqlDB, err := DB.DB()
	if err != nil {
		panic(err)
	}
	sqlDB.SetMaxOpenConns(1)

	fmt.Println("数据库连接成功！")
}
