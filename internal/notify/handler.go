package notify

import (
	"net/http"
	"strconv"

	"github.com/SlpAus/dj-request-backend/internal/platform/logging"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// 点歌页和大屏运行在任意来源的浏览器里，握手不做Origin限制
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handler 持有Hub并提供三个WebSocket端点。
type Handler struct {
	hub *Hub
}

func NewHandler(hub *Hub) *Handler {
	return &Handler{hub: hub}
}

// ServeDJ 处理 /ws/dj：注册到DJ注册表并阻塞读取直到连接断开。
func (h *Handler) ServeDJ(c *gin.Context) {
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logging.Logger.WithError(err).Warn("DJ WebSocket升级失败")
		return
	}
	conn := newConn(ws)
	h.hub.RegisterDJ(conn)
	// 连接的异常关闭是唯一的取消路径：读循环报错即注销
	h.readLoop(conn, func() { h.hub.UnregisterDJ(conn) })
}

// ServeDisplay 处理 /ws/display：大屏连接。
func (h *Handler) ServeDisplay(c *gin.Context) {
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logging.Logger.WithError(err).Warn("大屏WebSocket升级失败")
		return
	}
	conn := newConn(ws)
	h.hub.RegisterDisplay(conn)
	h.readLoop(conn, func() { h.hub.UnregisterDisplay(conn) })
}

// ServeUsuario 处理 /ws/usuario/:solicitudID：
// 提交者为自己的点歌请求打开的状态连接。
func (h *Handler) ServeUsuario(c *gin.Context) {
	solicitudID, err := strconv.ParseUint(c.Param("solicitudID"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de solicitud inválido"})
		return
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logging.Logger.WithError(err).Warn("提交者WebSocket升级失败")
		return
	}
	conn := newConn(ws)
	h.hub.RegisterSubmitter(uint(solicitudID), conn)
	h.readLoop(conn, func() { h.hub.UnregisterSubmitter(uint(solicitudID), conn) })
}

// readLoop 丢弃客户端发来的所有数据，只用读取来感知断开。
// 当前设计不设置空闲超时，完全依赖传输层的断开检测。
func (h *Handler) readLoop(conn *Conn, cleanup func()) {
	defer func() {
		cleanup()
		conn.close()
	}()
	for {
		if _, _, err := conn.ws.ReadMessage(); err != nil {
			return
		}
	}
}
