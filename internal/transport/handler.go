// Package transport speaks the websocket and HTTP protocol and routes client
// messages into the room manager and game engine.
package transport

import (
	"encoding/json"
	"errors"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/ThakurMayank5/LastSnack-Server/internal/engine"
	"github.com/ThakurMayank5/LastSnack-Server/internal/rooms"
)

// Error codes sent in error events.
const (
	CodeRateLimit      = "RATE_LIMIT"
	CodeInvalidJSON    = "INVALID_JSON"
	CodeInvalidMessage = "INVALID_MESSAGE"
	CodeValidation     = "VALIDATION_ERROR"
	CodeUnknownType    = "UNKNOWN_TYPE"
	CodeJoinFailed     = "JOIN_FAILED"
	CodeNotInRoom      = "NOT_IN_ROOM"
	CodeRoomGone       = "ROOM_GONE"
	CodePlayerGone     = "PLAYER_GONE"
	CodeInvalidState   = "INVALID_STATE"
	CodeInvalidAvatar  = "INVALID_AVATAR"
	CodeStartFailed    = "START_FAILED"
	CodeDrawFailed     = "DRAW_FAILED"
	CodePlayFailed     = "PLAY_FAILED"
	CodeEndTurnFailed  = "END_TURN_FAILED"
	CodeAddBotFailed   = "ADD_BOT_FAILED"
	CodeRestartFailed  = "RESTART_FAILED"
	CodeLeaveFailed    = "LEAVE_FAILED"
)

type Options struct {
	RateLimitPerSec int
	AllowedOrigins  []string
}

type Handler struct {
	engine   *engine.Engine
	rooms    *rooms.Manager
	hub      *Hub
	opts     Options
	upgrader websocket.Upgrader
}

func NewHandler(eng *engine.Engine, rm *rooms.Manager, hub *Hub, opts Options) *Handler {
	if opts.RateLimitPerSec <= 0 {
		opts.RateLimitPerSec = 10
	}
	return &Handler{
		engine: eng,
		rooms:  rm,
		hub:    hub,
		opts:   opts,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(opts.AllowedOrigins),
		},
	}
}

// Serve runs a socket until it closes.
func (h *Handler) Serve(ws *websocket.Conn) {
	c := newConn(ws, h.opts.RateLimitPerSec)
	h.hub.Register(c)
	log.Debug().Str("conn", c.id).Int("connections", h.hub.Len()).Msg("🔌 Socket opened")

	go c.writePump()
	c.readPump(h)
}

// HandleMessage processes one inbound frame. Every rejection produces exactly
// one error event to this connection and nothing else.
func (h *Handler) HandleMessage(c *Conn, data []byte) {
	if !c.limiter.Allow() {
		c.sendError(CodeRateLimit, "Too many messages")
		return
	}

	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		c.sendError(CodeInvalidJSON, "Invalid JSON")
		return
	}
	if env.Type == "" || len(env.Payload) == 0 || string(env.Payload) == "null" {
		c.sendError(CodeInvalidMessage, "Missing type or payload")
		return
	}

	msg, err := parseMessage(env)
	if errors.Is(err, errUnknownType) {
		c.sendError(CodeUnknownType, "Unknown type: "+env.Type)
		return
	}
	if err != nil {
		c.sendError(CodeValidation, describe(err))
		return
	}

	if p, ok := msg.(JoinPayload); ok {
		h.join(c, p)
		return
	}

	if c.playerID == "" {
		c.sendError(CodeNotInRoom, "Join a room first")
		return
	}
	if err := h.rooms.Lookup(c.roomCode, c.playerID); err != nil {
		if errors.Is(err, rooms.ErrRoomNotFound) {
			c.sendError(CodeRoomGone, "Room no longer exists")
		} else {
			c.sendError(CodePlayerGone, "Player not in room")
		}
		return
	}

	h.dispatch(c, env.Type, msg)
}

func (h *Handler) dispatch(c *Conn, msgType string, msg any) {
	code, playerID := c.roomCode, c.playerID

	switch p := msg.(type) {
	case SetNamePayload:
		h.lobbyChange(c, CodeInvalidState, h.rooms.SetPlayerDisplayName(code, playerID, p.DisplayName))

	case SetAvatarPayload:
		h.lobbyChange(c, CodeInvalidAvatar, h.rooms.SetPlayerAvatar(code, playerID, p.AvatarID))

	case LobbySettingsPayload:
		h.lobbyChange(c, CodeInvalidState, h.rooms.SetLobbySettings(code, playerID, p.SpeedMode, p.SuspicionMeter))

	case StartGamePayload:
		h.reply(c, CodeStartFailed, h.engine.StartGame(code, playerID, p.SpeedMode))

	case PlayCardPayload:
		_, err := h.engine.PlayCard(code, playerID, p.CardID, p.TargetID, p.DiscardedCardIDs)
		h.reply(c, CodePlayFailed, err)

	case ChatPayload:
		h.reply(c, CodeInvalidState, h.engine.Chat(code, playerID, p.Text))

	case emptyPayload:
		switch msgType {
		case MsgDrawCard:
			h.reply(c, CodeDrawFailed, h.engine.DrawCard(code, playerID))
		case MsgEndTurn:
			h.reply(c, CodeEndTurnFailed, h.engine.EndTurn(code, playerID))
		case MsgAddBot:
			_, err := h.rooms.AddBot(code, playerID)
			h.lobbyChange(c, CodeAddBotFailed, err)
		case MsgRestart:
			h.reply(c, CodeRestartFailed, h.engine.RestartGame(code, playerID))
		case MsgLeave:
			if err := h.engine.LeaveRoom(code, playerID); err != nil {
				c.sendError(CodeLeaveFailed, err.Error())
				return
			}
			c.roomCode, c.playerID = "", ""
		case MsgSync:
			h.reply(c, CodeInvalidState, h.engine.SyncState(code, playerID))
		}
	}
}

// lobbyChange reports a failed lobby mutation, or tells the room about a successful one.
func (h *Handler) lobbyChange(c *Conn, failCode string, err error) {
	if err != nil {
		c.sendError(failCode, err.Error())
		return
	}
	if err := h.engine.BroadcastRoomUpdated(c.roomCode); err != nil {
		log.Warn().Err(err).Str("room", c.roomCode).Msg("room update after lobby change failed")
	}
}

func (h *Handler) reply(c *Conn, failCode string, err error) {
	if err != nil {
		c.sendError(failCode, err.Error())
	}
}

func (h *Handler) join(c *Conn, p JoinPayload) {
	res, err := h.rooms.JoinRoom(rooms.JoinRequest{
		RoomCode:       p.RoomCode,
		DisplayName:    p.DisplayName,
		ReconnectToken: p.ReconnectToken,
		ConnID:         c.id,
	})
	if err != nil {
		c.sendError(CodeJoinFailed, err.Error())
		return
	}

	// A socket holds one seat at a time.
	if c.playerID != "" && (c.roomCode != res.Room.Code || c.playerID != res.PlayerID) {
		h.release(c)
	}
	c.roomCode, c.playerID = res.Room.Code, res.PlayerID

	if err := h.engine.SendJoined(res.Room.Code, res.PlayerID, res.Token, res.Reconnected); err != nil {
		log.Warn().Err(err).Str("room", res.Room.Code).Msg("joined reply failed")
		return
	}
	if !res.Reconnected {
		if err := h.engine.BroadcastRoomUpdated(res.Room.Code); err != nil {
			log.Warn().Err(err).Str("room", res.Room.Code).Msg("room update after join failed")
		}
	}
}

// HandleClose runs once when the socket goes away.
func (h *Handler) HandleClose(c *Conn) {
	h.hub.Unregister(c)
	h.release(c)
	log.Debug().Str("conn", c.id).Int("connections", h.hub.Len()).Msg("❌ Socket closed")
}

func (h *Handler) release(c *Conn) {
	if c.playerID == "" {
		return
	}
	code := c.roomCode
	if h.rooms.ClearConnection(code, c.playerID, c.id) {
		if err := h.engine.BroadcastRoomUpdated(code); err != nil && !errors.Is(err, rooms.ErrRoomNotFound) {
			log.Warn().Err(err).Str("room", code).Msg("room update after disconnect failed")
		}
	}
	c.roomCode, c.playerID = "", ""
}
