package request

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/SlpAus/dj-request-backend/internal/notify"
	"github.com/SlpAus/dj-request-backend/internal/platform/config"
	"github.com/SlpAus/dj-request-backend/internal/platform/logging"
	"github.com/gin-gonic/gin"
)

// Handler 持有通知中心，提供点歌提交和公开队列两个端点。
type Handler struct {
	hub *notify.Hub
}

func NewHandler(hub *notify.Hub) *Handler {
	return &Handler{hub: hub}
}

// solicitarBody 定义了POST /api/solicitar请求体的JSON结构
type solicitarBody struct {
	EventoID    uint   `json:"evento_id" binding:"required"`
	Cancion     string `json:"cancion"`
	Artista     string `json:"artista"`
	SpotifyID   string `json:"spotify_id"`
	PortadaURL  string `json:"portada_url"`
	Dedicatoria string `json:"dedicatoria"`
}

// mensajeNuevaSolicitud 是推送给DJ和大屏的新点歌事件
type mensajeNuevaSolicitud struct {
	Tipo      string   `json:"tipo"`
	Solicitud *Request `json:"solicitud"`
}

// Solicitar 处理新的点歌提交
func (h *Handler) Solicitar(c *gin.Context) {
	var body solicitarBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误: " + err.Error()})
		return
	}

	nueva, err := Submit(SubmitInput{
		EventoID:    body.EventoID,
		Cancion:     body.Cancion,
		Artista:     body.Artista,
		SpotifyID:   body.SpotifyID,
		PortadaURL:  body.PortadaURL,
		Dedicatoria: body.Dedicatoria,
		IP:          c.ClientIP(),
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Canción y artista son requeridos"})
		case errors.Is(err, ErrRateLimited):
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": fmt.Sprintf("Ya tienes %d solicitudes pendientes. Espera a que el DJ las revise.", config.Cfg.Request.MaxPending),
			})
		default:
			logging.Logger.WithError(err).Error("点歌提交失败")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "处理点歌请求失败"})
		}
		return
	}

	// 记录落库之后才广播，保证客户端不会先于可查询状态收到通知
	h.hub.BroadcastDJ(mensajeNuevaSolicitud{Tipo: "nueva_solicitud", Solicitud: nueva})

	c.JSON(http.StatusOK, gin.H{"ok": true, "id": nueva.ID})
}

// Cola 返回一个活动的公开队列视图
func (h *Handler) Cola(c *gin.Context) {
	eventoID, err := strconv.ParseUint(c.Param("eventoID"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de evento inválido"})
		return
	}

	rows, err := ListQueue(uint(eventoID))
	if err != nil {
		logging.Logger.WithError(err).Error("查询队列失败")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "获取队列数据失败"})
		return
	}
	c.JSON(http.StatusOK, rows)
}
