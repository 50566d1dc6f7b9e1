package page

import (
	"net/http"

	"github.com/SlpAus/dj-request-backend/internal/event"
	"github.com/SlpAus/dj-request-backend/internal/platform/config"
	"github.com/gin-gonic/gin"
	qrcode "github.com/skip2/go-qrcode"
)

// Handler 提供面向浏览器的页面和二维码端点。
// 页面只是外围胶水：真实的交互都走 /api 和 /ws。
type Handler struct {
	baseURL string
}

func NewHandler(cfg config.ServerConfig) *Handler {
	return &Handler{baseURL: cfg.BaseURL}
}

// Home 渲染移动端点歌落地页
func (h *Handler) Home(c *gin.Context) {
	data := gin.H{"evento": nil}
	if ev, err := event.GetActive(); err == nil {
		data["evento"] = ev
	}
	c.HTML(http.StatusOK, "request.html", data)
}

// DJPanel 渲染DJ控制台页面
func (h *Handler) DJPanel(c *gin.Context) {
	c.HTML(http.StatusOK, "dj.html", nil)
}

// Display 渲染公开大屏页面
func (h *Handler) Display(c *gin.Context) {
	c.HTML(http.StatusOK, "display.html", nil)
}

// QR 生成指向点歌页的二维码PNG。
// 可以用url查询参数覆盖目标地址。
func (h *Handler) QR(c *gin.Context) {
	target := c.Query("url")
	if target == "" {
		target = h.baseURL
	}

	png, err := qrcode.Encode(target, qrcode.Medium, 512)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "生成二维码失败"})
		return
	}

	c.Header("Content-Disposition", `inline; filename=qr_dj.png`)
	c.Data(http.StatusOK, "image/png", png)
}

// QRPage 渲染用于投屏展示二维码的页面
func (h *Handler) QRPage(c *gin.Context) {
	c.HTML(http.StatusOK, "qr.html", gin.H{"base_url": h.baseURL})
}
