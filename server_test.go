package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ThakurMayank5/LastSnack-Server/internal/clock"
	"github.com/ThakurMayank5/LastSnack-Server/internal/config"
	"github.com/ThakurMayank5/LastSnack-Server/internal/engine"
	"github.com/ThakurMayank5/LastSnack-Server/internal/random"
	"github.com/ThakurMayank5/LastSnack-Server/internal/transport"
)

func testConfig() config.Config {
	return config.Config{
		AllowedOrigins:  []string{"*"},
		SpeedTurnSec:    20,
		NormalTurnSec:   60,
		RateLimitPerSec: 50,
		ReconnectTTL:    time.Hour,
		AvatarBaseURL:   "/avatars",
	}
}

type wsMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { ws.Close() })
	return ws
}

func write(t *testing.T, ws *websocket.Conn, msgType string, payload any) {
	t.Helper()
	require.NoError(t, ws.WriteJSON(map[string]any{"type": msgType, "payload": payload}))
}

// expect reads until an event of the given type arrives.
func expect(t *testing.T, ws *websocket.Conn, event string) wsMessage {
	t.Helper()
	require.NoError(t, ws.SetReadDeadline(time.Now().Add(2*time.Second)))
	for {
		var msg wsMessage
		require.NoError(t, ws.ReadJSON(&msg))
		if msg.Type == event {
			return msg
		}
	}
}

func TestServer_CreateJoinAndChat(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := newServer(testConfig(), clock.System(), random.New(3))
	ts := httptest.NewServer(srv.router)
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/rooms", "application/json", strings.NewReader(`{"displayName":"Alice"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var created transport.CreateRoomResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))

	alice := dial(t, ts)
	write(t, alice, transport.MsgJoin, map[string]any{
		"roomCode":       created.RoomCode,
		"reconnectToken": created.ReconnectToken,
	})
	var joined engine.JoinedPayload
	require.NoError(t, json.Unmarshal(expect(t, alice, engine.EventJoined).Payload, &joined))
	assert.Equal(t, created.PlayerID, joined.PlayerID)
	assert.True(t, joined.IsHost)
	assert.True(t, joined.Reconnected)

	bob := dial(t, ts)
	write(t, bob, transport.MsgJoin, map[string]any{"roomCode": created.RoomCode, "displayName": "Bob"})
	expect(t, bob, engine.EventJoined)

	var update engine.RoomUpdatedPayload
	require.NoError(t, json.Unmarshal(expect(t, alice, engine.EventRoomUpdated).Payload, &update))
	assert.Len(t, update.Players, 2)

	write(t, bob, transport.MsgChat, map[string]any{"text": "hi all"})
	var chat engine.ChatPayload
	require.NoError(t, json.Unmarshal(expect(t, alice, engine.EventChat).Payload, &chat))
	assert.Equal(t, "Bob", chat.DisplayName)
	assert.Equal(t, "hi all", chat.Text)

	write(t, bob, transport.MsgDrawCard, map[string]any{})
	var failure engine.ErrorPayload
	require.NoError(t, json.Unmarshal(expect(t, bob, engine.EventError).Payload, &failure))
	assert.Equal(t, transport.CodeDrawFailed, failure.Code)
}

func TestServer_Health(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := newServer(testConfig(), clock.System(), random.New(3))

	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestServer_CORSPreflight(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := newServer(testConfig(), clock.System(), random.New(3))

	req := httptest.NewRequest(http.MethodOptions, "/rooms", nil)
	req.Header.Set("Origin", "https://play.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.NotEmpty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
