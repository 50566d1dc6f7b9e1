package vote

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/SlpAus/dj-request-backend/internal/notify"
	"github.com/SlpAus/dj-request-backend/internal/platform/logging"
	"github.com/SlpAus/dj-request-backend/internal/request"
	"github.com/gin-gonic/gin"
)

// Handler 持有通知中心，提供投票端点。
type Handler struct {
	hub *notify.Hub
}

func NewHandler(hub *notify.Hub) *Handler {
	return &Handler{hub: hub}
}

// mensajeVoto 是推送给DJ和大屏的票数变更事件
type mensajeVoto struct {
	Tipo        string `json:"tipo"`
	SolicitudID uint   `json:"solicitud_id"`
	Votos       int    `json:"votos"`
}

// Votar 处理POST /api/votar/:solicitudID
func (h *Handler) Votar(c *gin.Context) {
	solicitudID, err := strconv.ParseUint(c.Param("solicitudID"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de solicitud inválido"})
		return
	}

	votos, err := Cast(uint(solicitudID), c.ClientIP())
	if err != nil {
		switch {
		case errors.Is(err, ErrDuplicateVote):
			c.JSON(http.StatusConflict, gin.H{"error": "Ya votaste por esta canción"})
		case errors.Is(err, request.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Solicitud no encontrada"})
		default:
			logging.Logger.WithError(err).Error("处理投票失败")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "处理投票失败"})
		}
		return
	}

	// 计数已提交后才广播
	h.hub.BroadcastDJ(mensajeVoto{Tipo: "voto", SolicitudID: uint(solicitudID), Votos: votos})

	c.JSON(http.StatusOK, gin.H{"ok": true, "votos": votos})
}
