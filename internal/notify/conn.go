package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// writeWait 是单次推送允许的最长写入时间，
// 超时视为连接已断开并触发剪除
const writeWait = 10 * time.Second

// Conn 包装一条到客户端的WebSocket连接。
// gorilla/websocket要求同一时刻只有一个写入者，所以写操作由内部互斥锁串行化。
type Conn struct {
	id string
	ws *websocket.Conn
	mu sync.Mutex
}

func newConn(ws *websocket.Conn) *Conn {
	return &Conn{id: uuid.NewString(), ws: ws}
}

// ID 返回连接的唯一标识，用于日志
func (c *Conn) ID() string {
	return c.id
}

// send 以JSON格式向客户端推送一条消息。
// 返回错误说明连接已不可用，调用方应将其从注册表中剪除。
func (c *Conn) send(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	return c.ws.WriteJSON(v)
}

// close 关闭底层连接；重复关闭是无害的
func (c *Conn) close() {
	_ = c.ws.Close()
}
