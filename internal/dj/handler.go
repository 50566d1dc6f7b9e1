package dj

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strconv"

	"github.com/SlpAus/dj-request-backend/internal/notify"
	"github.com/SlpAus/dj-request-backend/internal/platform/config"
	"github.com/SlpAus/dj-request-backend/internal/platform/logging"
	"github.com/SlpAus/dj-request-backend/internal/request"
	"github.com/gin-gonic/gin"
)

// Handler 提供DJ控制台的HTTP端点，全部由共享密码保护。
type Handler struct {
	hub     *notify.Hub
	service *Service
}

func NewHandler(hub *notify.Hub) *Handler {
	return &Handler{hub: hub, service: NewService(hub)}
}

// Authorized 以常数时间比较DJ共享密码。
// settings等其他受密码保护的模块也复用这个检查。
func Authorized(password string) bool {
	secret := config.Cfg.DJ.Password
	return subtle.ConstantTimeCompare([]byte(password), []byte(secret)) == 1
}

// parseSolicitudID 解析路径参数中的请求ID
func parseSolicitudID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("solicitudID"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de solicitud inválido"})
		return 0, false
	}
	return uint(id), true
}

// Solicitudes 处理GET /api/dj/solicitudes：完整历史视图（含rejected/played）
func (h *Handler) Solicitudes(c *gin.Context) {
	if !Authorized(c.Query("password")) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Contraseña incorrecta"})
		return
	}

	eventoID, err := strconv.ParseUint(c.Query("evento_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de evento inválido"})
		return
	}

	rows, err := request.ListHistory(uint(eventoID))
	if err != nil {
		logging.Logger.WithError(err).Error("查询DJ历史视图失败")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "获取数据失败"})
		return
	}
	c.JSON(http.StatusOK, rows)
}

// estadoBody 定义了POST /api/dj/estado请求体的JSON结构
type estadoBody struct {
	Password string `json:"password"`
	Estado   string `json:"estado" binding:"required"`
}

// Estado 处理POST /api/dj/estado/:solicitudID：状态转换
func (h *Handler) Estado(c *gin.Context) {
	solicitudID, ok := parseSolicitudID(c)
	if !ok {
		return
	}

	var body estadoBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误: " + err.Error()})
		return
	}
	if !Authorized(body.Password) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Contraseña incorrecta"})
		return
	}

	err := h.service.Transition(solicitudID, request.Estado(body.Estado))
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidState):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Estado inválido"})
		case errors.Is(err, request.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Solicitud no encontrada"})
		default:
			logging.Logger.WithError(err).Error("状态转换失败")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "处理状态转换失败"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// nextBody 定义了POST /api/dj/next请求体的JSON结构
type nextBody struct {
	Password string `json:"password"`
}

// Next 处理POST /api/dj/next/:solicitudID：通知提交者“下一首就是你”
func (h *Handler) Next(c *gin.Context) {
	solicitudID, ok := parseSolicitudID(c)
	if !ok {
		return
	}

	var body nextBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误: " + err.Error()})
		return
	}
	if !Authorized(body.Password) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Contraseña incorrecta"})
		return
	}

	if err := h.service.SignalNext(solicitudID); err != nil {
		if errors.Is(err, request.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Solicitud no encontrada"})
			return
		}
		logging.Logger.WithError(err).Error("发送next信号失败")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "处理请求失败"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// messageBody 定义了POST /api/dj/message请求体的JSON结构
type messageBody struct {
	Password string `json:"password"`
	Texto    string `json:"texto" binding:"required"`
	Color    string `json:"color"`
}

// mensajeDisplay 是推送给大屏的公告消息
type mensajeDisplay struct {
	Tipo  string `json:"tipo"`
	Texto string `json:"texto"`
	Color string `json:"color"`
}

// Message 处理POST /api/dj/message：向大屏广播一条任意公告
func (h *Handler) Message(c *gin.Context) {
	var body messageBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误: " + err.Error()})
		return
	}
	if !Authorized(body.Password) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Contraseña incorrecta"})
		return
	}

	h.hub.BroadcastDisplay(mensajeDisplay{Tipo: "dj_message", Texto: body.Texto, Color: body.Color})
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
