// Package engine runs the card game inside a room: dealing, turns, card
// effects, wins and the events every player sees.
package engine

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ThakurMayank5/LastSnack-Server/internal/clock"
	"github.com/ThakurMayank5/LastSnack-Server/internal/models"
	"github.com/ThakurMayank5/LastSnack-Server/internal/random"
	"github.com/ThakurMayank5/LastSnack-Server/internal/rooms"
)

type Options struct {
	AvatarBaseURL string
	BotDrawDelay  time.Duration
	BotThinkDelay time.Duration
	BotPlayChance float64
}

func DefaultOptions() Options {
	return Options{
		AvatarBaseURL: "/avatars",
		BotDrawDelay:  800 * time.Millisecond,
		BotThinkDelay: 3 * time.Second,
		BotPlayChance: 0.7,
	}
}

// Engine serializes every mutation of a room behind that room's lock. Timer
// callbacks take the same lock, so a turn is never advanced twice.
type Engine struct {
	rooms  *rooms.Manager
	timers *Timers
	out    Broadcaster
	rng    random.Source
	clock  clock.Clock
	opts   Options
}

func New(rm *rooms.Manager, timers *Timers, out Broadcaster, rng random.Source, clk clock.Clock, opts Options) *Engine {
	return &Engine{
		rooms:  rm,
		timers: timers,
		out:    out,
		rng:    rng,
		clock:  clk,
		opts:   opts,
	}
}

func (e *Engine) withRoom(code string, fn func(room *models.Room) error) error {
	room, ok := e.rooms.Get(code)
	if !ok {
		return rooms.ErrRoomNotFound
	}
	room.Lock()
	defer room.Unlock()
	return fn(room)
}

func (e *Engine) view(room *models.Room, viewerID string) GameStateView {
	return BuildView(room, viewerID, e.opts.AvatarBaseURL)
}

func (e *Engine) turnTimeout(room *models.Room) time.Duration {
	return time.Duration(room.Settings.TurnTimeoutSec) * time.Second
}

func (e *Engine) StartGame(code, hostID string, speedMode *bool) error {
	return e.withRoom(code, func(room *models.Room) error {
		g := room.Game
		if g.Phase != models.PhaseLobby {
			return ErrGameStarted
		}
		if room.HostID != hostID {
			return ErrNotHost
		}
		n := len(room.Players)
		if n < models.MinPlayers {
			return ErrNotEnoughPlayers
		}
		if n > models.MaxPlayers {
			return ErrTooManyPlayers
		}
		if speedMode != nil {
			e.rooms.ApplySpeedMode(room, *speedMode)
		}

		g.Phase = models.PhaseAssigning
		AssignRoles(room.Players, e.rng)
		hands, deck := DealHands(BuildShuffledDeck(n, e.rng), n)
		for i, p := range room.Players {
			p.Hand = hands[i]
		}
		g.Deck = deck
		InitTurnOrder(room, e.rng)
		g.Phase = models.PhasePlaying
		e.beginTurn(room)

		log.Info().Str("room", code).Int("players", n).Int("deck", len(deck)).Msg("🎮 Game started")

		e.out.ToRoom(room, EventGameStarted, func(viewerID string) any {
			return GameStartedPayload{GameState: e.view(room, viewerID)}
		})
		e.scheduleBot(room)
		return nil
	})
}

func (e *Engine) DrawCard(code, playerID string) error {
	return e.withRoom(code, func(room *models.Room) error {
		return e.drawCard(room, playerID)
	})
}

func (e *Engine) drawCard(room *models.Room, playerID string) error {
	g := room.Game
	if g.Phase != models.PhasePlaying {
		return ErrNotPlaying
	}
	if CurrentPlayerID(g) != playerID {
		return ErrNotYourTurn
	}
	if g.CurrentTurnDrawn {
		return ErrAlreadyDrawn
	}
	card, rest, ok := DrawOne(g.Deck)
	if !ok {
		return ErrDeckEmpty
	}
	p := room.Player(playerID)
	if p == nil {
		return ErrPlayerNotFound
	}
	g.Deck = rest
	p.Hand = append(p.Hand, card)
	g.CurrentTurnDrawn = true
	g.LastAction = &models.LastAction{Type: "card_drawn", PlayerID: playerID}

	e.out.ToRoom(room, EventCardDrawn, func(viewerID string) any {
		return CardDrawnPayload{PlayerID: playerID, GameState: e.view(room, viewerID)}
	})
	e.scheduleBot(room)
	return nil
}

func (e *Engine) PlayCard(code, playerID, cardID, targetID string, discards []string) (Outcome, error) {
	var out Outcome
	err := e.withRoom(code, func(room *models.Room) error {
		var err error
		out, err = e.playCard(room, playerID, cardID, targetID, discards)
		return err
	})
	return out, err
}

func (e *Engine) playCard(room *models.Room, playerID, cardID, targetID string, discards []string) (Outcome, error) {
	out, err := Resolve(room, playerID, cardID, targetID, discards)
	if err != nil {
		return out, err
	}
	e.timers.Cancel(room.Code, playerID)

	log.Info().
		Str("room", room.Code).
		Str("player", playerID).
		Str("card", string(out.Card.Type)).
		Str("outcome", out.Outcome).
		Msg("🃏 Card played")

	e.out.ToRoom(room, EventCardPlayed, func(viewerID string) any {
		p := CardPlayedPayload{
			PlayerID:        playerID,
			CardID:          out.Card.ID,
			CardType:        out.Card.Type,
			TargetID:        targetID,
			Outcome:         out.Outcome,
			BlockedPlayerID: out.Blocked,
			GameState:       e.view(room, viewerID),
		}
		if viewerID == playerID {
			p.RevealNotification = out.Reveal
		}
		return p
	})
	for _, id := range out.Eliminated {
		e.broadcastEliminated(room, id)
	}
	if out.Revealed != "" {
		e.broadcastRoomUpdated(room)
	}

	if e.finishIfWon(room) {
		return out, nil
	}
	e.advanceTurn(room)
	return out, nil
}

func (e *Engine) EndTurn(code, playerID string) error {
	return e.withRoom(code, func(room *models.Room) error {
		return e.endTurn(room, playerID)
	})
}

func (e *Engine) endTurn(room *models.Room, playerID string) error {
	g := room.Game
	if g.Phase != models.PhasePlaying {
		return ErrNotPlaying
	}
	if CurrentPlayerID(g) != playerID {
		return ErrNotYourTurn
	}
	if !g.CurrentTurnDrawn && len(g.Deck) > 0 {
		return ErrMustDrawFirst
	}
	g.LastAction = &models.LastAction{Type: "turn_advanced", PlayerID: playerID}
	e.advanceTurn(room)
	return nil
}

func (e *Engine) onTurnTimeout(code, playerID string, turnID int) {
	room, ok := e.rooms.Get(code)
	if !ok {
		return
	}
	room.Lock()
	defer room.Unlock()

	g := room.Game
	if g.Phase != models.PhasePlaying || g.TurnID != turnID || CurrentPlayerID(g) != playerID {
		return
	}
	log.Info().Str("room", code).Str("player", playerID).Msg("⏰ Turn timed out")
	g.LastAction = &models.LastAction{Type: "turn_advanced", PlayerID: playerID}
	e.advanceTurn(room)
}

func (e *Engine) RestartGame(code, hostID string) error {
	return e.withRoom(code, func(room *models.Room) error {
		if room.HostID != hostID {
			return ErrNotHost
		}
		if room.Game.Phase != models.PhaseEnded {
			return ErrGameNotEnded
		}
		e.timers.CancelAll(room.Code)
		room.Game = models.NewGameState()
		for _, p := range room.Players {
			p.Role = nil
			p.Hand = nil
			p.Status = models.StatusActive
		}
		log.Info().Str("room", code).Msg("🔄 Game restarted")
		e.broadcastRoomUpdated(room)
		return nil
	})
}

// LeaveRoom removes the player for good. Mid-game they forfeit their seat and
// the game carries on without them.
func (e *Engine) LeaveRoom(code, playerID string) error {
	return e.withRoom(code, func(room *models.Room) error {
		p := room.Player(playerID)
		if p == nil {
			return ErrPlayerNotFound
		}
		g := room.Game
		playing := g.Phase == models.PhasePlaying
		wasCurrent := playing && CurrentPlayerID(g) == playerID
		if playing && !g.IsEliminated(playerID) {
			g.EliminatedPlayerIDs = append(g.EliminatedPlayerIDs, playerID)
			if p.Role != nil {
				g.RevealedRoles[playerID] = *p.Role
			}
		}
		e.timers.Cancel(room.Code, playerID)

		res := e.rooms.RemovePlayerLocked(room, playerID)
		if res.RoomDeleted {
			return nil
		}
		e.broadcastRoomUpdated(room)
		if !playing {
			return nil
		}
		if e.finishIfWon(room) {
			return nil
		}
		if wasCurrent {
			g.LastAction = &models.LastAction{Type: "turn_advanced", PlayerID: playerID}
			e.advanceTurn(room)
		}
		return nil
	})
}

func (e *Engine) Chat(code, playerID, text string) error {
	return e.withRoom(code, func(room *models.Room) error {
		p := room.Player(playerID)
		if p == nil {
			return ErrPlayerNotFound
		}
		msg := ChatPayload{PlayerID: p.ID, DisplayName: p.DisplayName, Text: text}
		e.out.ToRoom(room, EventChat, func(string) any { return msg })
		return nil
	})
}

// SendJoined confirms a join to the player's own connection.
func (e *Engine) SendJoined(code, playerID, token string, reconnected bool) error {
	return e.withRoom(code, func(room *models.Room) error {
		p := room.Player(playerID)
		if p == nil {
			return ErrPlayerNotFound
		}
		e.out.ToPlayer(room, playerID, EventJoined, JoinedPayload{
			PlayerID:       p.ID,
			RoomCode:       room.Code,
			IsHost:         p.IsHost,
			ReconnectToken: token,
			Reconnected:    reconnected,
			GameState:      e.view(room, playerID),
			LobbySettings:  LobbySettings(room),
		})
		return nil
	})
}

func (e *Engine) SyncState(code, playerID string) error {
	return e.withRoom(code, func(room *models.Room) error {
		if room.Player(playerID) == nil {
			return ErrPlayerNotFound
		}
		e.out.ToPlayer(room, playerID, EventStateSync, StateSyncPayload{GameState: e.view(room, playerID)})
		return nil
	})
}

func (e *Engine) BroadcastRoomUpdated(code string) error {
	return e.withRoom(code, func(room *models.Room) error {
		e.broadcastRoomUpdated(room)
		return nil
	})
}

func (e *Engine) broadcastRoomUpdated(room *models.Room) {
	settings := LobbySettings(room)
	e.out.ToRoom(room, EventRoomUpdated, func(viewerID string) any {
		v := e.view(room, viewerID)
		return RoomUpdatedPayload{Players: v.Players, GameState: v, LobbySettings: settings}
	})
}

func (e *Engine) broadcastEliminated(room *models.Room, playerID string) {
	var revealed *models.Role
	if role, ok := room.Game.RevealedRoles[playerID]; ok {
		revealed = &role
	}
	log.Info().Str("room", room.Code).Str("player", playerID).Msg("💀 Player eliminated")
	e.out.ToRoom(room, EventPlayerEliminated, func(viewerID string) any {
		return PlayerEliminatedPayload{PlayerID: playerID, RevealedRole: revealed, GameState: e.view(room, viewerID)}
	})
}

func (e *Engine) finishIfWon(room *models.Room) bool {
	winner := CheckWinCondition(room)
	if winner == "" {
		return false
	}
	g := room.Game
	g.Phase = models.PhaseEnded
	g.WinnerID = winner
	g.LastAction = &models.LastAction{Type: "game_ended", PlayerID: winner}
	e.timers.CancelAll(room.Code)

	log.Info().Str("room", room.Code).Str("winner", winner).Msg("🏆 Game over")

	e.out.ToRoom(room, EventGameEnded, func(viewerID string) any {
		return GameEndedPayload{WinnerID: &winner, GameState: e.view(room, viewerID)}
	})
	return true
}

// beginTurn stamps a fresh turn. Only humans get a timeout, and it covers the
// whole turn: a draw leaves it running, play, end turn and leave cancel it.
func (e *Engine) beginTurn(room *models.Room) {
	g := room.Game
	g.TurnID++
	g.TurnStartedAt = e.clock.Now()
	g.CurrentTurnDrawn = false

	current := CurrentPlayerID(g)
	p := room.Player(current)
	if p == nil || p.IsBot {
		return
	}
	code, turnID := room.Code, g.TurnID
	e.timers.Start(code, current, e.turnTimeout(room), func() {
		e.onTurnTimeout(code, current, turnID)
	})
}

func (e *Engine) advanceTurn(room *models.Room) {
	g := room.Game
	e.timers.Cancel(room.Code, CurrentPlayerID(g))
	AdvanceTurn(g)
	e.beginTurn(room)

	current := CurrentPlayerID(g)
	var expiresAt int64
	if p := room.Player(current); p != nil && !p.IsBot {
		expiresAt = g.TurnStartedAt.Add(e.turnTimeout(room)).UnixMilli()
	}
	e.out.ToRoom(room, EventTurnStarted, func(viewerID string) any {
		return TurnStartedPayload{CurrentPlayerID: current, ExpiresAt: expiresAt, GameState: e.view(room, viewerID)}
	})
	e.scheduleBot(room)
}
