package transport

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (hs *harness) router() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	hs.h.RegisterRoutes(r)
	return r
}

func TestCreateRoomEndpoint(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		status   int
		hostName string
	}{
		{name: "named host", body: `{"displayName":"  Alice "}`, status: http.StatusOK, hostName: "Alice"},
		{name: "empty body", body: "", status: http.StatusOK, hostName: "Player"},
		{name: "empty object", body: `{}`, status: http.StatusOK, hostName: "Player"},
		{name: "reserved name", body: `{"displayName":"TheHost"}`, status: http.StatusBadRequest},
		{name: "malformed", body: `{"displayName":`, status: http.StatusBadRequest},
		{name: "too long", body: `{"displayName":"` + strings.Repeat("x", 65) + `"}`, status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hs := newHarness(t)
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/rooms", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")

			hs.router().ServeHTTP(w, req)

			require.Equal(t, tt.status, w.Code, w.Body.String())
			if tt.status != http.StatusOK {
				assert.Zero(t, hs.m.RoomCount())
				return
			}

			var resp CreateRoomResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Len(t, resp.RoomCode, 8)
			assert.NotEmpty(t, resp.ReconnectToken)

			room, ok := hs.m.Get(resp.RoomCode)
			require.True(t, ok)
			host := room.Player(resp.PlayerID)
			require.NotNil(t, host)
			assert.True(t, host.IsHost)
			assert.Equal(t, tt.hostName, host.DisplayName)
		})
	}
}

func TestHealthEndpoint(t *testing.T) {
	hs := newHarness(t)
	_, err := hs.m.CreateRoom("Alice")
	require.NoError(t, err)
	hs.conn()

	w := httptest.NewRecorder()
	hs.router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","rooms":1,"connections":1}`, w.Body.String())
}

func TestWebsocketRouteRejectsPlainRequests(t *testing.T) {
	hs := newHarness(t)
	w := httptest.NewRecorder()

	hs.router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ws", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, hs.hub.Len())
}

func TestOriginChecker(t *testing.T) {
	tests := []struct {
		name    string
		allowed []string
		origin  string
		want    bool
	}{
		{name: "no list", allowed: nil, origin: "https://evil.example", want: true},
		{name: "wildcard", allowed: []string{"*"}, origin: "https://evil.example", want: true},
		{name: "listed", allowed: []string{"https://play.example/"}, origin: "https://play.example", want: true},
		{name: "case", allowed: []string{"https://Play.Example"}, origin: "https://play.example", want: true},
		{name: "unlisted", allowed: []string{"https://play.example"}, origin: "https://evil.example", want: false},
		{name: "scheme", allowed: []string{"https://play.example"}, origin: "http://play.example", want: false},
		{name: "no origin header", allowed: []string{"https://play.example"}, origin: "", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/ws", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			assert.Equal(t, tt.want, originChecker(tt.allowed)(req))
		})
	}
}
