package engine

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ThakurMayank5/LastSnack-Server/internal/clock"
	"github.com/ThakurMayank5/LastSnack-Server/internal/models"
	"github.com/ThakurMayank5/LastSnack-Server/internal/random"
	"github.com/ThakurMayank5/LastSnack-Server/internal/rooms"
)

// newPlayingRoom seats n players p0..pn-1 in turn order with distinct
// non-last-snack roles. p0 holds the turn and has drawn.
func newPlayingRoom(n int) *models.Room {
	room := &models.Room{Code: "TESTROOM", Game: models.NewGameState()}
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("p%d", i)
		role := models.Roles[i+1]
		room.Players = append(room.Players, &models.Player{
			ID:          id,
			DisplayName: "Player " + id,
			Status:      models.StatusActive,
			Role:        &role,
			AvatarID:    fmt.Sprintf("avatar_%d", i),
		})
		room.Game.TurnOrder = append(room.Game.TurnOrder, id)
	}
	room.Game.Phase = models.PhasePlaying
	room.Game.CurrentTurnDrawn = true
	room.Game.Deck = BuildDeck(n)
	return room
}

func setRole(room *models.Room, playerID, roleID string) {
	role, ok := models.RoleByID(roleID)
	if !ok {
		panic("unknown role " + roleID)
	}
	room.Player(playerID).Role = &role
}

func giveCard(room *models.Room, playerID string, t models.CardType) models.Card {
	p := room.Player(playerID)
	c := models.Card{ID: fmt.Sprintf("%s-%s-%d", playerID, t, len(p.Hand)), Type: t}
	p.Hand = append(p.Hand, c)
	return c
}

func setTurn(room *models.Room, playerID string) {
	for i, id := range room.Game.TurnOrder {
		if id == playerID {
			room.Game.CurrentTurnIndex = i
		}
	}
	room.Game.CurrentTurnDrawn = true
}

type sent struct {
	event   string
	to      string
	payload any
}

// recorder stands in for the websocket hub. Every human receives every event.
type recorder struct {
	mu   sync.Mutex
	msgs []sent
}

func (r *recorder) ToRoom(room *models.Room, event string, project Projector) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range room.Players {
		if p.IsBot {
			continue
		}
		r.msgs = append(r.msgs, sent{event: event, to: p.ID, payload: project(p.ID)})
	}
}

func (r *recorder) ToPlayer(room *models.Room, playerID, event string, payload any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, sent{event: event, to: playerID, payload: payload})
}

func (r *recorder) received(to, event string) []any {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []any
	for _, m := range r.msgs {
		if m.to == to && m.event == event {
			out = append(out, m.payload)
		}
	}
	return out
}

func (r *recorder) count(event string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, m := range r.msgs {
		if m.event == event {
			n++
		}
	}
	return n
}

func (r *recorder) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = nil
}

type fixture struct {
	e      *Engine
	m      *rooms.Manager
	clock  *clock.Fake
	timers *Timers
	rec    *recorder
	room   *models.Room
	host   string
	ids    []string
}

// newFixture builds a lobby with the host, extra humans and bots, in that seat order.
func newFixture(t *testing.T, humans, bots int) *fixture {
	t.Helper()
	c := clock.NewFake(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	rng := random.New(99)
	timers := NewTimers(c)
	m := rooms.NewManager(rooms.NewStore(), rooms.NewTokens(24*time.Hour, c), timers, rng, c, rooms.Settings{
		SpeedTurnSec:  20,
		NormalTurnSec: 60,
	})
	rec := &recorder{}
	e := New(m, timers, rec, rng, c, DefaultOptions())

	created, err := m.CreateRoom("Alice")
	require.NoError(t, err)
	f := &fixture{e: e, m: m, clock: c, timers: timers, rec: rec, room: created.Room, host: created.PlayerID}
	f.ids = append(f.ids, created.PlayerID)
	created.Room.Players[0].ConnID = "conn-0"

	for i := 1; i < humans; i++ {
		res, err := m.JoinRoom(rooms.JoinRequest{
			RoomCode:    created.Room.Code,
			DisplayName: fmt.Sprintf("Human %d", i),
			ConnID:      fmt.Sprintf("conn-%d", i),
		})
		require.NoError(t, err)
		f.ids = append(f.ids, res.PlayerID)
	}
	for i := 0; i < bots; i++ {
		id, err := m.AddBot(created.Room.Code, created.PlayerID)
		require.NoError(t, err)
		f.ids = append(f.ids, id)
	}
	return f
}

func (f *fixture) start(t *testing.T, speed bool) {
	t.Helper()
	require.NoError(t, f.e.StartGame(f.room.Code, f.host, &speed))
}

func (f *fixture) current() string {
	f.room.Lock()
	defer f.room.Unlock()
	return CurrentPlayerID(f.room.Game)
}
