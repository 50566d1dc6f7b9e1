package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/SlpAus/dj-request-backend/api"
	"github.com/SlpAus/dj-request-backend/internal/notify"
	"github.com/SlpAus/dj-request-backend/internal/platform/config"
	"github.com/SlpAus/dj-request-backend/internal/platform/database"
	"github.com/SlpAus/dj-request-backend/internal/platform/health"
	"github.com/SlpAus/dj-request-backend/internal/platform/logging"
	"github.com/SlpAus/dj-request-backend/internal/platform/shutdown"
	"github.com/SlpAus/dj-request-backend/internal/platform/startup"
	"github.com/SlpAus/dj-request-backend/pkg/lifecycle"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// .env 用于本地开发时覆盖 DJ_PASSWORD / BASE_URL 等
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(fmt.Sprintf("加载配置失败: %v", err))
	}

	logging.Init()
	database.InitDB(cfg.Database.Sqlite)
	database.InitRedis(cfg.Database.Redis)
	health.InitializeRunID()

	// 执行应用首次启动初始化流程
	if err := startup.InitializeApplication(); err != nil {
		panic(fmt.Sprintf("应用初始化失败，无法启动: %v", err))
	}

	// 启动后台的持续健康巡检
	gracefulMgr := lifecycle.NewManager()
	healthHandle, err := gracefulMgr.NewServiceHandle("redis-health")
	if err != nil {
		panic(err)
	}
	go health.StartRedisHealthCheck(healthHandle)

	// 通知中心：三类注册表都归它所有
	hub := notify.NewHub()

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.Cors.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.LoadHTMLGlob("templates/*")
	r.Static("/static", "./static")

	api.SetupRoutes(r, cfg, hub)

	server := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: r,
	}

	go func() {
		fmt.Printf("服务器已准备就绪，开始监听 %s\n", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			panic("Failed to start server: " + err.Error())
		}
	}()

	shutdown.NewCoordinator(gracefulMgr).ListenForSignalsAndShutdown(server, hub)
}
