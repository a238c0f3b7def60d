package models

import (
	"slices"
	"sync"
	"time"
)

type Phase string

const (
	PhaseLobby     Phase = "lobby"
	PhaseAssigning Phase = "assigning"
	PhasePlaying   Phase = "playing"
	PhaseEnded     Phase = "ended"
)

type PlayerStatus string

const (
	StatusActive       PlayerStatus = "active"
	StatusEliminated   PlayerStatus = "eliminated"
	StatusSpectator    PlayerStatus = "spectator"
	StatusDisconnected PlayerStatus = "disconnected"
)

const (
	MinPlayers     = 4
	MaxPlayers     = 8
	HandSize       = 3
	RoomCodeLength = 8
	MaxNameLength  = 32
)

// Card is an immutable action card. It lives in exactly one of the deck,
// a hand or the discard pile.
type Card struct {
	ID   string   `json:"id"`
	Type CardType `json:"type"`
}

// Role is a hidden snack identity.
type Role struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	IsLastSnack  bool   `json:"isLastSnack"`
	Category     string `json:"category,omitempty"`
	Weakness     string `json:"weakness,omitempty"`
	EliminatedBy string `json:"eliminatedBy,omitempty"`
}

type Settings struct {
	TurnTimeoutSec int  `json:"turnTimeoutSec"`
	SpeedMode      bool `json:"speedMode"`
	SuspicionMeter bool `json:"suspicionMeter"`
}

type LastAction struct {
	Type     string `json:"type"`
	PlayerID string `json:"playerId,omitempty"`
	CardID   string `json:"cardId,omitempty"`
	TargetID string `json:"targetId,omitempty"`
}

type Player struct {
	ID             string
	DisplayName    string
	ConnID         string // empty while no socket is attached
	Role           *Role
	Hand           []Card
	Status         PlayerStatus
	IsHost         bool
	JoinedAt       time.Time
	AvatarID       string
	IsBot          bool
	ReconnectToken string
}

// RemoveCard takes the card out of the hand, preserving order.
func (p *Player) RemoveCard(cardID string) (Card, bool) {
	i := p.HandIndex(cardID)
	if i < 0 {
		return Card{}, false
	}
	c := p.Hand[i]
	p.Hand = slices.Delete(p.Hand, i, i+1)
	return c, true
}

func (p *Player) HandIndex(cardID string) int {
	return slices.IndexFunc(p.Hand, func(c Card) bool { return c.ID == cardID })
}

// GameState is the per-room game record. Maps are never nil after NewGameState.
type GameState struct {
	Phase               Phase
	TurnOrder           []string
	CurrentTurnIndex    int
	TurnID              int // bumped on every turn change, guards stale timer callbacks
	Deck                []Card
	DiscardPile         []Card
	EliminatedPlayerIDs []string
	WinnerID            string
	TurnStartedAt       time.Time
	CurrentTurnDrawn    bool
	RevealedRoles       map[string]Role
	RevealedCategories  map[string]string
	PeekedRoles         map[string]map[string]Role
	ShieldedPlayerIDs   []string
	LastAction          *LastAction
}

func NewGameState() *GameState {
	return &GameState{
		Phase:              PhaseLobby,
		TurnOrder:          []string{},
		Deck:               []Card{},
		DiscardPile:        []Card{},
		RevealedRoles:      map[string]Role{},
		RevealedCategories: map[string]string{},
		PeekedRoles:        map[string]map[string]Role{},
	}
}

func (g *GameState) IsEliminated(playerID string) bool {
	return slices.Contains(g.EliminatedPlayerIDs, playerID)
}

func (g *GameState) ShieldCount(playerID string) int {
	n := 0
	for _, id := range g.ShieldedPlayerIDs {
		if id == playerID {
			n++
		}
	}
	return n
}

func (g *GameState) AddShield(playerID string) {
	g.ShieldedPlayerIDs = append(g.ShieldedPlayerIDs, playerID)
}

// ConsumeShield removes one shield charge for the player, if any.
func (g *GameState) ConsumeShield(playerID string) bool {
	i := slices.Index(g.ShieldedPlayerIDs, playerID)
	if i < 0 {
		return false
	}
	g.ShieldedPlayerIDs = slices.Delete(g.ShieldedPlayerIDs, i, i+1)
	return true
}

func (g *GameState) SetPeeked(viewerID, targetID string, role Role) {
	if g.PeekedRoles[viewerID] == nil {
		g.PeekedRoles[viewerID] = map[string]Role{}
	}
	g.PeekedRoles[viewerID][targetID] = role
}

// Room is one isolated game session. All reads and writes of Players and
// Game happen with the room lock held.
type Room struct {
	Code      string
	HostID    string
	Players   []*Player
	Game      *GameState
	CreatedAt time.Time
	Settings  Settings
	// LastActive is refreshed whenever a live connection touches the room.
	LastActive time.Time

	mu sync.Mutex
}

func (r *Room) Lock() {
	r.mu.Lock()
}

func (r *Room) Unlock() {
	r.mu.Unlock()
}

func (r *Room) Player(id string) *Player {
	for _, p := range r.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// IsActive reports whether the player can be targeted and counts for the win
// check. Disconnected players keep their place in the turn order but are not
// active until they reconnect.
func (r *Room) IsActive(id string) bool {
	p := r.Player(id)
	return p != nil && p.Status == StatusActive && !r.Game.IsEliminated(id)
}

// ActivePlayers returns connected players still in the running, in seat order.
func (r *Room) ActivePlayers() []*Player {
	out := make([]*Player, 0, len(r.Players))
	for _, p := range r.Players {
		if p.Status == StatusActive && !r.Game.IsEliminated(p.ID) {
			out = append(out, p)
		}
	}
	return out
}

func (r *Room) HasLiveConnection() bool {
	for _, p := range r.Players {
		if p.ConnID != "" {
			return true
		}
	}
	return false
}

func (r *Room) HumanCount() int {
	n := 0
	for _, p := range r.Players {
		if !p.IsBot {
			n++
		}
	}
	return n
}
