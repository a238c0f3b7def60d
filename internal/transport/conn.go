package transport

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/ThakurMayank5/LastSnack-Server/internal/engine"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 30 * time.Second
	maxMessageSize = 8 * 1024
	sendBuffer     = 256
)

// Conn is one client socket. roomCode and playerID are bound by a successful
// join and only touched from the read goroutine.
type Conn struct {
	id      string
	ws      *websocket.Conn
	send    chan []byte
	done    chan struct{}
	once    sync.Once
	limiter *rate.Limiter

	roomCode string
	playerID string
}

func newConn(ws *websocket.Conn, perSec int) *Conn {
	return &Conn{
		id:      uuid.NewString(),
		ws:      ws,
		send:    make(chan []byte, sendBuffer),
		done:    make(chan struct{}),
		limiter: rate.NewLimiter(rate.Limit(perSec), perSec),
	}
}

// SendEvent queues an event without blocking. A slow or dead socket loses
// the message rather than stalling the room.
func (c *Conn) SendEvent(event string, payload any) {
	data, err := json.Marshal(outbound{Type: event, Payload: payload})
	if err != nil {
		log.Error().Err(err).Str("event", event).Msg("failed to marshal event")
		return
	}
	select {
	case <-c.done:
	case c.send <- data:
	default:
		log.Warn().Str("conn", c.id).Str("event", event).Msg("send buffer full, dropping event")
	}
}

func (c *Conn) sendError(code, message string) {
	c.SendEvent(engine.EventError, engine.ErrorPayload{Code: code, Message: message})
}

func (c *Conn) close() {
	c.once.Do(func() { close(c.done) })
}

func (c *Conn) readPump(h *Handler) {
	defer func() {
		h.HandleClose(c)
		c.close()
	}()

	c.ws.SetReadLimit(maxMessageSize)
	c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Debug().Err(err).Str("conn", c.id).Msg("read error")
			}
			return
		}
		h.HandleMessage(c, data)
	}
}

func (c *Conn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.ws.Close()
	}()

	for {
		select {
		case data := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			c.ws.WriteControl(
				websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait),
			)
			return
		}
	}
}
