package engine

import (
	"maps"
	"slices"

	"github.com/ThakurMayank5/LastSnack-Server/internal/models"
)

type PlayerView struct {
	ID          string              `json:"id"`
	DisplayName string              `json:"displayName"`
	Status      models.PlayerStatus `json:"status"`
	IsHost      bool                `json:"isHost"`
	JoinedAt    int64               `json:"joinedAt"`
	IsBot       bool                `json:"isBot"`
	Connected   bool                `json:"connected"`
	Role        *models.Role        `json:"role,omitempty"`
	Hand        []models.Card       `json:"hand,omitempty"`
	AvatarID    string              `json:"avatarId,omitempty"`
	AvatarURL   string              `json:"avatarUrl,omitempty"`
}

type GameStateView struct {
	Phase               models.Phase           `json:"phase"`
	TurnOrder           []string               `json:"turnOrder"`
	CurrentTurnIndex    int                    `json:"currentTurnIndex"`
	CurrentPlayerID     string                 `json:"currentPlayerId,omitempty"`
	DeckCount           int                    `json:"deckCount"`
	DiscardPile         []models.Card          `json:"discardPile"`
	EliminatedPlayerIDs []string               `json:"eliminatedPlayerIds"`
	WinnerID            *string                `json:"winnerId"`
	LastAction          *models.LastAction     `json:"lastAction,omitempty"`
	TurnStartedAt       int64                  `json:"turnStartedAt,omitempty"`
	TurnTimeoutSec      int                    `json:"turnTimeoutSec"`
	CurrentTurnDrawn    bool                   `json:"currentTurnDrawn"`
	RevealedRoles       map[string]models.Role `json:"revealedRoles"`
	RevealedCategories  map[string]string      `json:"revealedCategories"`
	PeekedRoles         map[string]models.Role `json:"peekedRoles"`
	ShieldedPlayerIDs   []string               `json:"shieldedPlayerIds"`
	Players             []PlayerView           `json:"players"`
}

type LobbySettingsView struct {
	SpeedMode      bool `json:"speedMode"`
	SuspicionMeter bool `json:"suspicionMeter"`
	TurnTimeoutSec int  `json:"turnTimeoutSec"`
}

// BuildView projects the room for one viewer. Hands and roles of other
// players never leave the server unless revealed or peeked by this viewer.
// The caller must hold the room lock.
func BuildView(room *models.Room, viewerID, avatarBase string) GameStateView {
	g := room.Game
	peeked := map[string]models.Role{}
	if mine, ok := g.PeekedRoles[viewerID]; ok {
		peeked = maps.Clone(mine)
	}

	v := GameStateView{
		Phase:               g.Phase,
		TurnOrder:           slices.Clone(g.TurnOrder),
		CurrentTurnIndex:    g.CurrentTurnIndex,
		DeckCount:           len(g.Deck),
		DiscardPile:         slices.Clone(g.DiscardPile),
		EliminatedPlayerIDs: slices.Clone(g.EliminatedPlayerIDs),
		LastAction:          g.LastAction,
		TurnTimeoutSec:      room.Settings.TurnTimeoutSec,
		CurrentTurnDrawn:    g.CurrentTurnDrawn,
		RevealedRoles:       maps.Clone(g.RevealedRoles),
		RevealedCategories:  maps.Clone(g.RevealedCategories),
		PeekedRoles:         peeked,
		ShieldedPlayerIDs:   slices.Clone(g.ShieldedPlayerIDs),
		Players:             make([]PlayerView, 0, len(room.Players)),
	}
	if v.TurnOrder == nil {
		v.TurnOrder = []string{}
	}
	if v.DiscardPile == nil {
		v.DiscardPile = []models.Card{}
	}
	if v.EliminatedPlayerIDs == nil {
		v.EliminatedPlayerIDs = []string{}
	}
	if v.ShieldedPlayerIDs == nil {
		v.ShieldedPlayerIDs = []string{}
	}
	if g.WinnerID != "" {
		winner := g.WinnerID
		v.WinnerID = &winner
	}
	if g.Phase == models.PhasePlaying {
		v.CurrentPlayerID = CurrentPlayerID(g)
		v.TurnStartedAt = g.TurnStartedAt.UnixMilli()
	}

	for _, p := range room.Players {
		v.Players = append(v.Players, playerView(room, p, viewerID, peeked, avatarBase))
	}
	return v
}

func playerView(room *models.Room, p *models.Player, viewerID string, peeked map[string]models.Role, avatarBase string) PlayerView {
	g := room.Game
	pv := PlayerView{
		ID:          p.ID,
		DisplayName: p.DisplayName,
		Status:      p.Status,
		IsHost:      p.IsHost,
		JoinedAt:    p.JoinedAt.UnixMilli(),
		IsBot:       p.IsBot,
		Connected:   p.IsBot || p.ConnID != "",
	}

	self := p.ID == viewerID
	if self {
		if p.Role != nil {
			role := *p.Role
			pv.Role = &role
		}
		pv.Hand = slices.Clone(p.Hand)
		if pv.Hand == nil {
			pv.Hand = []models.Card{}
		}
	}

	_, revealed := g.RevealedRoles[p.ID]
	_, peek := peeked[p.ID]
	cosmetic := g.Phase == models.PhaseLobby || g.Phase == models.PhaseEnded
	if cosmetic {
		pv.AvatarID = p.AvatarID
	}
	if p.AvatarID != "" && (self || revealed || peek || cosmetic) {
		pv.AvatarURL = AvatarURL(avatarBase, p.AvatarID)
	}
	return pv
}

func AvatarURL(base, avatarID string) string {
	return base + "/" + avatarID + ".png"
}

func LobbySettings(room *models.Room) LobbySettingsView {
	return LobbySettingsView{
		SpeedMode:      room.Settings.SpeedMode,
		SuspicionMeter: room.Settings.SuspicionMeter,
		TurnTimeoutSec: room.Settings.TurnTimeoutSec,
	}
}
