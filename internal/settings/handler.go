package settings

import (
	"net/http"
	"strconv"

	"github.com/SlpAus/dj-request-backend/internal/dj"
	"github.com/SlpAus/dj-request-backend/internal/event"
	"github.com/SlpAus/dj-request-backend/internal/notify"
	"github.com/SlpAus/dj-request-backend/internal/platform/logging"
	"github.com/gin-gonic/gin"
)

// Handler 提供品牌配置的读写端点。
type Handler struct {
	hub *notify.Hub
}

func NewHandler(hub *notify.Hub) *Handler {
	return &Handler{hub: hub}
}

// resolveEventoID 解析evento_id查询参数，缺省时退回当前激活的活动
func resolveEventoID(c *gin.Context) (uint, bool) {
	raw := c.Query("evento_id")
	if raw == "" {
		ev, err := event.GetActive()
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "No hay evento activo"})
			return 0, false
		}
		return ev.ID, true
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de evento inválido"})
		return 0, false
	}
	return uint(id), true
}

// GetConfig 处理GET /api/dj/config：DJ查看配置
func (h *Handler) GetConfig(c *gin.Context) {
	if !dj.Authorized(c.Query("password")) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Contraseña incorrecta"})
		return
	}
	eventoID, ok := resolveEventoID(c)
	if !ok {
		return
	}

	cfg, err := GetForEvent(eventoID)
	if err != nil {
		logging.Logger.WithError(err).Error("读取配置失败")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "获取配置失败"})
		return
	}
	c.JSON(http.StatusOK, cfg)
}

// updateBody 定义了POST /api/dj/config请求体的JSON结构
type updateBody struct {
	Password string `json:"password"`
	EventoID uint   `json:"evento_id"`

	EventName string `json:"event_name"`
	Subtitle  string `json:"subtitle"`
	LogoURL   string `json:"logo_url"`
	Cashapp   string `json:"cashapp"`
	Venmo     string `json:"venmo"`
	Applepay  string `json:"applepay"`
	LoveText  string `json:"love_text"`
	Instagram string `json:"instagram"`
	Tiktok    string `json:"tiktok"`
	Facebook  string `json:"facebook"`
	SpotifyDJ string `json:"spotify_dj"`
	Website   string `json:"website"`
}

// mensajeConfig 是配置更新后推送给DJ和大屏的事件
type mensajeConfig struct {
	Tipo   string  `json:"tipo"`
	Config *Config `json:"config"`
}

// UpdateConfig 处理POST /api/dj/config：DJ更新配置并广播
func (h *Handler) UpdateConfig(c *gin.Context) {
	var body updateBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误: " + err.Error()})
		return
	}
	if !dj.Authorized(body.Password) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Contraseña incorrecta"})
		return
	}

	eventoID := body.EventoID
	if eventoID == 0 {
		ev, err := event.GetActive()
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "No hay evento activo"})
			return
		}
		eventoID = ev.ID
	}

	cfg := Config{
		EventoID:  eventoID,
		EventName: body.EventName,
		Subtitle:  body.Subtitle,
		LogoURL:   body.LogoURL,
		Cashapp:   body.Cashapp,
		Venmo:     body.Venmo,
		Applepay:  body.Applepay,
		LoveText:  body.LoveText,
		Instagram: body.Instagram,
		Tiktok:    body.Tiktok,
		Facebook:  body.Facebook,
		SpotifyDJ: body.SpotifyDJ,
		Website:   body.Website,
	}
	if err := Update(&cfg); err != nil {
		logging.Logger.WithError(err).Error("保存配置失败")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "保存配置失败"})
		return
	}

	// 配置已落库后广播给DJ和大屏
	h.hub.BroadcastDJ(mensajeConfig{Tipo: "config_actualizada", Config: &cfg})

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// GetPublic 处理GET /api/config/publica：无需密码的公开配置
func (h *Handler) GetPublic(c *gin.Context) {
	eventoID, ok := resolveEventoID(c)
	if !ok {
		return
	}

	cfg, err := GetForEvent(eventoID)
	if err != nil {
		logging.Logger.WithError(err).Error("读取公开配置失败")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "获取配置失败"})
		return
	}
	c.JSON(http.StatusOK, cfg)
}
