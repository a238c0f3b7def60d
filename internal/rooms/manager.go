// Package rooms owns room lifecycle: creation, seats, lobby settings and
// reconnect tokens.
package rooms

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/ThakurMayank5/LastSnack-Server/internal/clock"
	"github.com/ThakurMayank5/LastSnack-Server/internal/models"
	"github.com/ThakurMayank5/LastSnack-Server/internal/random"
)

const roomCodeChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// TimerCanceler drops every pending timer of a room.
type TimerCanceler interface {
	CancelAll(roomCode string)
}

type Settings struct {
	SpeedMode     bool
	SpeedTurnSec  int
	NormalTurnSec int
}

type Manager struct {
	store    *Store
	tokens   *Tokens
	timers   TimerCanceler
	rng      random.Source
	clock    clock.Clock
	settings Settings
}

func NewManager(store *Store, tokens *Tokens, timers TimerCanceler, rng random.Source, c clock.Clock, settings Settings) *Manager {
	return &Manager{
		store:    store,
		tokens:   tokens,
		timers:   timers,
		rng:      rng,
		clock:    c,
		settings: settings,
	}
}

type CreateResult struct {
	Room     *models.Room
	PlayerID string
	Token    string
}

type JoinRequest struct {
	RoomCode       string
	DisplayName    string
	ReconnectToken string
	ConnID         string
}

type JoinResult struct {
	Room        *models.Room
	PlayerID    string
	Token       string
	Reconnected bool
}

type LeaveResult struct {
	RoomDeleted bool
	NewHostID   string
}

func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func (m *Manager) Get(code string) (*models.Room, bool) {
	return m.store.Get(NormalizeCode(code))
}

// Lookup reports whether the room exists and still seats the player.
func (m *Manager) Lookup(code, playerID string) error {
	room, ok := m.Get(code)
	if !ok {
		return ErrRoomNotFound
	}
	room.Lock()
	defer room.Unlock()
	if room.Player(playerID) == nil {
		return ErrPlayerNotFound
	}
	return nil
}

func (m *Manager) RoomCount() int {
	return m.store.Len()
}

func (m *Manager) CreateRoom(displayName string) (CreateResult, error) {
	name, err := normalizeName(displayName, "Player")
	if err != nil {
		return CreateResult{}, err
	}

	now := m.clock.Now()
	host := &models.Player{
		ID:          uuid.NewString(),
		DisplayName: name,
		Status:      models.StatusActive,
		IsHost:      true,
		JoinedAt:    now,
	}
	room := &models.Room{
		HostID:     host.ID,
		Players:    []*models.Player{host},
		Game:       models.NewGameState(),
		CreatedAt:  now,
		LastActive: now,
	}
	m.ApplySpeedMode(room, m.settings.SpeedMode)
	host.AvatarID = m.unusedAvatar(room)

	for {
		room.Code = m.generateCode()
		if m.store.Insert(room) {
			break
		}
	}
	host.ReconnectToken = m.tokens.Issue(host.ID, room.Code)

	log.Info().Str("room", room.Code).Str("host", name).Msg("🏠 Room created")
	return CreateResult{Room: room, PlayerID: host.ID, Token: host.ReconnectToken}, nil
}

// JoinRoom seats a new player, or re-attaches an existing one when the
// request carries a valid token for this room. Reconnection works in any phase.
func (m *Manager) JoinRoom(req JoinRequest) (JoinResult, error) {
	code := NormalizeCode(req.RoomCode)
	room, ok := m.store.Get(code)
	if !ok {
		return JoinResult{}, ErrRoomNotFound
	}
	room.Lock()
	defer room.Unlock()

	now := m.clock.Now()
	if req.ReconnectToken != "" {
		if claim, ok := m.tokens.Validate(req.ReconnectToken); ok && claim.RoomCode == code {
			if p := room.Player(claim.PlayerID); p != nil {
				p.ReconnectToken = m.tokens.Issue(p.ID, code)
				p.ConnID = req.ConnID
				if p.Status == models.StatusDisconnected {
					p.Status = models.StatusActive
				}
				room.LastActive = now

				log.Info().Str("room", code).Str("player", p.DisplayName).Msg("🔁 Player reconnected")
				return JoinResult{Room: room, PlayerID: p.ID, Token: p.ReconnectToken, Reconnected: true}, nil
			}
		}
	}

	if room.Game.Phase != models.PhaseLobby {
		return JoinResult{}, ErrGameInProgress
	}
	if len(room.Players) >= models.MaxPlayers {
		return JoinResult{}, ErrRoomFull
	}
	name, err := normalizeName(req.DisplayName, "Player")
	if err != nil {
		return JoinResult{}, err
	}
	if !nameFree(room, name, "") {
		return JoinResult{}, ErrNameTaken
	}

	p := &models.Player{
		ID:          uuid.NewString(),
		DisplayName: name,
		ConnID:      req.ConnID,
		Status:      models.StatusActive,
		JoinedAt:    now,
		AvatarID:    m.unusedAvatar(room),
	}
	p.ReconnectToken = m.tokens.Issue(p.ID, code)
	room.Players = append(room.Players, p)
	room.LastActive = now

	log.Info().Str("room", code).Str("player", name).Int("players", len(room.Players)).Msg("🔌 Player joined")
	return JoinResult{Room: room, PlayerID: p.ID, Token: p.ReconnectToken}, nil
}

// RemovePlayerLocked drops the seat, hands the host role on if needed and
// tears the room down once no human is left. The caller holds the room lock.
func (m *Manager) RemovePlayerLocked(room *models.Room, playerID string) LeaveResult {
	i := slices.IndexFunc(room.Players, func(p *models.Player) bool { return p.ID == playerID })
	if i < 0 {
		return LeaveResult{}
	}
	left := room.Players[i]
	room.Players = slices.Delete(room.Players, i, i+1)

	log.Info().Str("room", room.Code).Str("player", left.DisplayName).Int("players", len(room.Players)).Msg("❌ Player left")

	if room.HumanCount() == 0 {
		m.teardown(room)
		return LeaveResult{RoomDeleted: true}
	}

	var res LeaveResult
	if room.HostID == playerID {
		res.NewHostID = m.promoteHost(room)
	}
	return res
}

// promoteHost hands the host role to the earliest-joined human.
func (m *Manager) promoteHost(room *models.Room) string {
	var next *models.Player
	for _, p := range room.Players {
		if p.IsBot {
			continue
		}
		if next == nil || p.JoinedAt.Before(next.JoinedAt) {
			next = p
		}
	}
	for _, p := range room.Players {
		p.IsHost = p == next
	}
	room.HostID = next.ID
	log.Info().Str("room", room.Code).Str("host", next.DisplayName).Msg("👑 Host promoted")
	return next.ID
}

func (m *Manager) teardown(room *models.Room) {
	m.store.Delete(room.Code)
	m.timers.CancelAll(room.Code)
	log.Info().Str("room", room.Code).Msg("🧹 Room deleted")
}

// lobbyPlayer locks the room and runs fn for a player while the room is in the lobby.
func (m *Manager) lobbyPlayer(code, playerID string, fn func(room *models.Room, p *models.Player) error) error {
	room, ok := m.Get(code)
	if !ok {
		return ErrRoomNotFound
	}
	room.Lock()
	defer room.Unlock()

	p := room.Player(playerID)
	if p == nil {
		return ErrPlayerNotFound
	}
	if room.Game.Phase != models.PhaseLobby {
		return ErrNotInLobby
	}
	return fn(room, p)
}

func (m *Manager) SetPlayerDisplayName(code, playerID, displayName string) error {
	return m.lobbyPlayer(code, playerID, func(room *models.Room, p *models.Player) error {
		name, err := normalizeName(displayName, "")
		if err != nil {
			return err
		}
		if !nameFree(room, name, p.ID) {
			return ErrNameTaken
		}
		p.DisplayName = name
		return nil
	})
}

func (m *Manager) SetPlayerAvatar(code, playerID, avatarID string) error {
	return m.lobbyPlayer(code, playerID, func(room *models.Room, p *models.Player) error {
		if !models.IsKnownAvatar(avatarID) {
			return ErrUnknownAvatar
		}
		for _, other := range room.Players {
			if other.ID != p.ID && other.AvatarID == avatarID {
				return ErrAvatarTaken
			}
		}
		p.AvatarID = avatarID
		return nil
	})
}

func (m *Manager) SetLobbySettings(code, playerID string, speedMode, suspicionMeter *bool) error {
	return m.lobbyPlayer(code, playerID, func(room *models.Room, p *models.Player) error {
		if room.HostID != p.ID {
			return ErrNotHost
		}
		if speedMode != nil {
			m.ApplySpeedMode(room, *speedMode)
		}
		if suspicionMeter != nil {
			room.Settings.SuspicionMeter = *suspicionMeter
		}
		return nil
	})
}

// ApplySpeedMode sets the mode and the turn length derived from it.
func (m *Manager) ApplySpeedMode(room *models.Room, speed bool) {
	room.Settings.SpeedMode = speed
	if speed {
		room.Settings.TurnTimeoutSec = m.settings.SpeedTurnSec
		return
	}
	room.Settings.TurnTimeoutSec = m.settings.NormalTurnSec
}

func (m *Manager) AddBot(code, playerID string) (string, error) {
	var botID string
	err := m.lobbyPlayer(code, playerID, func(room *models.Room, p *models.Player) error {
		if room.HostID != p.ID {
			return ErrNotHost
		}
		if len(room.Players) >= models.MaxPlayers {
			return ErrRoomFull
		}
		bot := &models.Player{
			ID:          uuid.NewString(),
			DisplayName: m.botName(room),
			Status:      models.StatusActive,
			JoinedAt:    m.clock.Now(),
			AvatarID:    m.unusedAvatar(room),
			IsBot:       true,
		}
		room.Players = append(room.Players, bot)
		botID = bot.ID

		log.Info().Str("room", room.Code).Str("bot", bot.DisplayName).Msg("🤖 Bot added")
		return nil
	})
	return botID, err
}

// ClearConnection detaches connID from the player's seat. It is a no-op when
// the seat has since been taken over by a newer connection.
func (m *Manager) ClearConnection(code, playerID, connID string) bool {
	room, ok := m.Get(code)
	if !ok {
		return false
	}
	room.Lock()
	defer room.Unlock()

	p := room.Player(playerID)
	if p == nil || p.ConnID != connID {
		return false
	}
	p.ConnID = ""
	if room.Game.Phase != models.PhaseLobby && p.Status == models.StatusActive {
		p.Status = models.StatusDisconnected
	}
	room.LastActive = m.clock.Now()
	return true
}

// SweepIdle deletes rooms that have had no live connection for longer than maxIdle.
func (m *Manager) SweepIdle(maxIdle time.Duration) []string {
	now := m.clock.Now()
	var swept []string
	for _, room := range m.store.Snapshot() {
		room.Lock()
		if !room.HasLiveConnection() && now.Sub(room.LastActive) > maxIdle {
			m.teardown(room)
			swept = append(swept, room.Code)
		}
		room.Unlock()
	}
	if n := m.tokens.Purge(); n > 0 {
		log.Debug().Int("tokens", n).Msg("expired reconnect tokens purged")
	}
	return swept
}

// RunSweeper sweeps idle rooms every interval until ctx is done.
func (m *Manager) RunSweeper(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := m.clock.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C():
			if swept := m.SweepIdle(maxIdle); len(swept) > 0 {
				log.Info().Strs("rooms", swept).Msg("🧹 Idle rooms swept")
			}
		}
	}
}

func (m *Manager) generateCode() string {
	code := make([]byte, models.RoomCodeLength)
	for i := range code {
		code[i] = roomCodeChars[m.rng.IntN(len(roomCodeChars))]
	}
	return string(code)
}

func (m *Manager) unusedAvatar(room *models.Room) string {
	used := map[string]bool{}
	for _, p := range room.Players {
		used[p.AvatarID] = true
	}
	var free []string
	for _, id := range models.AvatarIDs {
		if !used[id] {
			free = append(free, id)
		}
	}
	if len(free) == 0 {
		return ""
	}
	return random.Pick(m.rng, free)
}
