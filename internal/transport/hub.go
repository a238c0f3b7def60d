package transport

import (
	"sync"

	"github.com/ThakurMayank5/LastSnack-Server/internal/engine"
	"github.com/ThakurMayank5/LastSnack-Server/internal/models"
)

// Hub tracks live sockets and delivers room events to them.
type Hub struct {
	mu    sync.RWMutex
	conns map[string]*Conn
}

var _ engine.Broadcaster = (*Hub)(nil)

func NewHub() *Hub {
	return &Hub{conns: make(map[string]*Conn)}
}

func (h *Hub) Register(c *Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[c.id] = c
}

func (h *Hub) Unregister(c *Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns, c.id)
}

func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

func (h *Hub) get(id string) *Conn {
	if id == "" {
		return nil
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.conns[id]
}

// ToRoom projects the payload separately for every connected player.
func (h *Hub) ToRoom(room *models.Room, event string, project engine.Projector) {
	for _, p := range room.Players {
		c := h.get(p.ConnID)
		if c == nil {
			continue
		}
		c.SendEvent(event, project(p.ID))
	}
}

func (h *Hub) ToPlayer(room *models.Room, playerID, event string, payload any) {
	p := room.Player(playerID)
	if p == nil {
		return
	}
	if c := h.get(p.ConnID); c != nil {
		c.SendEvent(event, payload)
	}
}
