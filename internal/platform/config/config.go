package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Cfg 是一个全局变量，用于存储所有应用程序的配置
var Cfg *Config

// Config 结构体定义了应用程序的所有配置项
// 它与 config.yaml 文件的结构完全对应
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	DJ       DJConfig       `mapstructure:"dj"`
	Request  RequestConfig  `mapstructure:"request"`
	Catalog  CatalogConfig  `mapstructure:"catalog"`
}

// ServerConfig 定义了服务器相关的配置
type ServerConfig struct {
	Address string     `mapstructure:"address"`
	BaseURL string     `mapstructure:"baseUrl"`
	Cors    CorsConfig `mapstructure:"cors"`
}

// CorsConfig 定义了CORS相关的配置
type CorsConfig struct {
	AllowedOrigins []string `mapstructure:"allowedOrigins"`
}

// DatabaseConfig 定义了数据库和缓存相关的配置
type DatabaseConfig struct {
	Redis  RedisConfig  `mapstructure:"redis"`
	Sqlite SqliteConfig `mapstructure:"sqlite"`
}

// RedisConfig 定义了Redis的配置
type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// SqliteConfig 定义了SQLite数据库文件的配置
type SqliteConfig struct {
	Path string `mapstructure:"path"`
}

// DJConfig 定义了DJ控制台的共享密码
// 可以通过环境变量 DJ_PASSWORD 覆盖
type DJConfig struct {
	Password string `mapstructure:"password"`
}

// RequestConfig 定义了点歌相关的策略参数
type RequestConfig struct {
	// MaxPending 是同一IP在同一活动中允许的最大待审核数量
	MaxPending int `mapstructure:"maxPending"`
	// MaxDedication 是献词的最大字符数，超出部分会被截断
	MaxDedication int `mapstructure:"maxDedication"`
}

// CatalogConfig 定义了外部歌曲目录（iTunes Search API）的配置
type CatalogConfig struct {
	BaseURL string        `mapstructure:"baseUrl"`
	Country string        `mapstructure:"country"`
	Limit   int           `mapstructure:"limit"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// LoadConfig 函数负责查找、加载和解析配置文件
// 它会在指定的路径中查找名为 config.yaml 的文件
func LoadConfig() (*Config, error) {
	v := viper.New()

	// 1. 设置配置文件名和类型
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// 2. 添加配置文件搜索路径
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	// 3. 缺省值，保证没有配置文件时也能启动
	v.SetDefault("server.address", ":8000")
	v.SetDefault("server.baseUrl", "http://localhost:8000")
	v.SetDefault("server.cors.allowedOrigins", []string{"http://localhost:3000"})
	v.SetDefault("database.sqlite.path", "dj_request.db")
	v.SetDefault("database.redis.address", "localhost:6379")
	v.SetDefault("database.redis.db", 0)
	v.SetDefault("dj.password", "dj1234")
	v.SetDefault("request.maxPending", 3)
	v.SetDefault("request.maxDedication", 200)
	v.SetDefault("catalog.baseUrl", "https://itunes.apple.com/search")
	v.SetDefault("catalog.country", "US")
	v.SetDefault("catalog.limit", 8)
	v.SetDefault("catalog.timeout", 5*time.Second)

	// 4. 设置环境变量支持
	// 允许通过环境变量覆盖配置，例如 DJ_PASSWORD=secret
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 5. 读取配置文件（不存在时回退到缺省值）
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	// 6. 将配置反序列化到结构体中
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// 7. 将加载的配置赋值给全局变量
	Cfg = &cfg

	return Cfg, nil
}
