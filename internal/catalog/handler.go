package catalog

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Handler 提供歌曲搜索端点。
type Handler struct {
	client *Client
}

func NewHandler(client *Client) *Handler {
	return &Handler{client: client}
}

// Buscar 处理GET /api/buscar?q=：始终返回200和一个（可能为空的）结果数组
func (h *Handler) Buscar(c *gin.Context) {
	tracks := h.client.Buscar(c.Request.Context(), c.Query("q"))
	c.JSON(http.StatusOK, tracks)
}
