package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Logger 是全局的结构化日志实例
var Logger = logrus.New()

// Init 初始化日志格式和级别
func Init() {
	Logger.SetOutput(os.Stdout)
	Logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	Logger.SetLevel(logrus.InfoLevel)
}
