package api

import (
	"github.com/SlpAus/dj-request-backend/internal/catalog"
	"github.com/SlpAus/dj-request-backend/internal/dj"
	"github.com/SlpAus/dj-request-backend/internal/notify"
	"github.com/SlpAus/dj-request-backend/internal/page"
	"github.com/SlpAus/dj-request-backend/internal/platform/config"
	"github.com/SlpAus/dj-request-backend/internal/request"
	"github.com/SlpAus/dj-request-backend/internal/settings"
	"github.com/SlpAus/dj-request-backend/internal/vote"
	"github.com/gin-gonic/gin"
)

// SetupRoutes 注册项目的所有HTTP与WebSocket路由
func SetupRoutes(router *gin.Engine, cfg *config.Config, hub *notify.Hub) {
	pageHandler := page.NewHandler(cfg.Server)
	catalogHandler := catalog.NewHandler(catalog.NewClient(cfg.Catalog))
	requestHandler := request.NewHandler(hub)
	voteHandler := vote.NewHandler(hub)
	djHandler := dj.NewHandler(hub)
	settingsHandler := settings.NewHandler(hub)
	wsHandler := notify.NewHandler(hub)

	// 面向浏览器的页面
	router.GET("/", pageHandler.Home)
	router.GET("/dj", pageHandler.DJPanel)
	router.GET("/display", pageHandler.Display)
	router.GET("/qr", pageHandler.QR)
	router.GET("/qr/page", pageHandler.QRPage)

	api := router.Group("/api")
	{
		// 点歌与投票
		api.GET("/buscar", catalogHandler.Buscar)
		api.POST("/solicitar", requestHandler.Solicitar)
		api.POST("/votar/:solicitudID", voteHandler.Votar)
		api.GET("/cola/:eventoID", requestHandler.Cola)

		// 公开配置
		api.GET("/config/publica", settingsHandler.GetPublic)

		// DJ控制台（共享密码保护）
		djRoutes := api.Group("/dj")
		{
			djRoutes.GET("/solicitudes", djHandler.Solicitudes)
			djRoutes.POST("/estado/:solicitudID", djHandler.Estado)
			djRoutes.POST("/next/:solicitudID", djHandler.Next)
			djRoutes.POST("/message", djHandler.Message)
			djRoutes.GET("/config", settingsHandler.GetConfig)
			djRoutes.POST("/config", settingsHandler.UpdateConfig)
		}
	}

	// 长连接
	ws := router.Group("/ws")
	{
		ws.GET("/dj", wsHandler.ServeDJ)
		ws.GET("/display", wsHandler.ServeDisplay)
		ws.GET("/usuario/:solicitudID", wsHandler.ServeUsuario)
	}
}
