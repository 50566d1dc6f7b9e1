package notify

import (
	"sync"

	"github.com/SlpAus/dj-request-backend/internal/platform/logging"
)

// Hub 维护三类独立的活动连接注册表：
// DJ控制台、公开大屏、以及按点歌请求ID分组的提交者连接。
// 所有注册表都由Hub实例持有并用互斥锁保护，不存在包级全局状态。
//
// 投递语义是尽力而为的at-most-once：推送失败的连接会被剪除，
// 不做重试，也从不把失败上抛给触发广播的HTTP调用方。
type Hub struct {
	mu         sync.Mutex
	dj         map[*Conn]struct{}
	display    map[*Conn]struct{}
	submitters map[uint]map[*Conn]struct{}
}

// NewHub 创建一个空的通知中心。
func NewHub() *Hub {
	return &Hub{
		dj:         make(map[*Conn]struct{}),
		display:    make(map[*Conn]struct{}),
		submitters: make(map[uint]map[*Conn]struct{}),
	}
}

// --- 注册与注销（注销是幂等的） ---

func (h *Hub) RegisterDJ(c *Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.dj[c] = struct{}{}
}

func (h *Hub) UnregisterDJ(c *Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.dj, c)
}

func (h *Hub) RegisterDisplay(c *Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.display[c] = struct{}{}
}

func (h *Hub) UnregisterDisplay(c *Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.display, c)
}

func (h *Hub) RegisterSubmitter(solicitudID uint, c *Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	conns, ok := h.submitters[solicitudID]
	if !ok {
		conns = make(map[*Conn]struct{})
		h.submitters[solicitudID] = conns
	}
	conns[c] = struct{}{}
}

func (h *Hub) UnregisterSubmitter(solicitudID uint, c *Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	conns, ok := h.submitters[solicitudID]
	if !ok {
		return
	}
	delete(conns, c)
	if len(conns) == 0 {
		delete(h.submitters, solicitudID)
	}
}

// --- 广播 ---

// BroadcastDJ 把一条事件推送给所有DJ连接以及所有大屏连接。
// 大屏镜像DJ事件是有意的设计：大屏展示同样的实时队列动态。
func (h *Hub) BroadcastDJ(msg interface{}) {
	h.mu.Lock()
	targets := make([]*Conn, 0, len(h.dj)+len(h.display))
	for c := range h.dj {
		targets = append(targets, c)
	}
	for c := range h.display {
		targets = append(targets, c)
	}
	h.mu.Unlock()

	h.deliver(targets, msg)
}

// BroadcastDisplay 只向大屏连接推送，例如DJ的公告消息。
func (h *Hub) BroadcastDisplay(msg interface{}) {
	h.mu.Lock()
	targets := make([]*Conn, 0, len(h.display))
	for c := range h.display {
		targets = append(targets, c)
	}
	h.mu.Unlock()

	h.deliver(targets, msg)
}

// NotifySubmitter 只向某条点歌请求的提交者连接推送。
// 没有任何连接注册时静默返回（提交者可能没在看状态页）。
func (h *Hub) NotifySubmitter(solicitudID uint, msg interface{}) {
	h.mu.Lock()
	conns, ok := h.submitters[solicitudID]
	if !ok {
		h.mu.Unlock()
		return
	}
	targets := make([]*Conn, 0, len(conns))
	for c := range conns {
		targets = append(targets, c)
	}
	h.mu.Unlock()

	h.deliver(targets, msg)
}

// deliver 在锁外逐个推送，写失败的连接作为副作用被剪除，不重试。
func (h *Hub) deliver(targets []*Conn, msg interface{}) {
	var broken []*Conn
	for _, c := range targets {
		if err := c.send(msg); err != nil {
			broken = append(broken, c)
		}
	}
	if len(broken) > 0 {
		h.prune(broken)
	}
}

// prune 把失效连接从所有注册表中移除并关闭。
func (h *Hub) prune(broken []*Conn) {
	h.mu.Lock()
	for _, c := range broken {
		delete(h.dj, c)
		delete(h.display, c)
		for id, conns := range h.submitters {
			delete(conns, c)
			if len(conns) == 0 {
				delete(h.submitters, id)
			}
		}
	}
	h.mu.Unlock()

	for _, c := range broken {
		c.close()
		logging.Logger.WithField("conn", c.ID()).Debug("已剪除失效的WebSocket连接")
	}
}

// CloseAll 在停机时关闭所有注册的连接并清空注册表。
func (h *Hub) CloseAll() {
	h.mu.Lock()
	all := make([]*Conn, 0)
	for c := range h.dj {
		all = append(all, c)
	}
	for c := range h.display {
		all = append(all, c)
	}
	for _, conns := range h.submitters {
		for c := range conns {
			all = append(all, c)
		}
	}
	h.dj = make(map[*Conn]struct{})
	h.display = make(map[*Conn]struct{})
	h.submitters = make(map[uint]map[*Conn]struct{})
	h.mu.Unlock()

	for _, c := range all {
		c.close()
	}
}
