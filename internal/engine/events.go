package engine

import "github.com/ThakurMayank5/LastSnack-Server/internal/models"

const (
	EventJoined           = "joined"
	EventRoomUpdated      = "room_updated"
	EventGameStarted      = "game_started"
	EventTurnStarted      = "turn_started"
	EventCardDrawn        = "card_drawn"
	EventCardPlayed       = "card_played"
	EventPlayerEliminated = "player_eliminated"
	EventGameEnded        = "game_ended"
	EventChat             = "chat"
	EventStateSync        = "state_sync"
	EventError            = "error"
)

// Projector builds the payload for one recipient. It is called once per
// connected player, so every gameState is computed fresh for its viewer.
type Projector func(viewerID string) any

// Broadcaster fans events out to the players of a room. Implementations must
// not block and must not take the room lock; callers already hold it.
type Broadcaster interface {
	ToRoom(room *models.Room, event string, project Projector)
	ToPlayer(room *models.Room, playerID, event string, payload any)
}

type JoinedPayload struct {
	PlayerID       string            `json:"playerId"`
	RoomCode       string            `json:"roomCode"`
	IsHost         bool              `json:"isHost"`
	ReconnectToken string            `json:"reconnectToken"`
	Reconnected    bool              `json:"reconnected"`
	GameState      GameStateView     `json:"gameState"`
	LobbySettings  LobbySettingsView `json:"lobbySettings"`
}

type RoomUpdatedPayload struct {
	Players       []PlayerView      `json:"players"`
	GameState     GameStateView     `json:"gameState"`
	LobbySettings LobbySettingsView `json:"lobbySettings"`
}

type GameStartedPayload struct {
	GameState GameStateView `json:"gameState"`
}

type TurnStartedPayload struct {
	CurrentPlayerID string        `json:"currentPlayerId"`
	ExpiresAt       int64         `json:"expiresAt,omitempty"`
	GameState       GameStateView `json:"gameState"`
}

type CardDrawnPayload struct {
	PlayerID  string        `json:"playerId"`
	GameState GameStateView `json:"gameState"`
}

type CardPlayedPayload struct {
	PlayerID           string              `json:"playerId"`
	CardID             string              `json:"cardId"`
	CardType           models.CardType     `json:"cardType"`
	TargetID           string              `json:"targetId,omitempty"`
	Outcome            string              `json:"outcome"`
	BlockedPlayerID    string              `json:"blockedPlayerId,omitempty"`
	RevealNotification *RevealNotification `json:"revealNotification,omitempty"`
	GameState          GameStateView       `json:"gameState"`
}

type PlayerEliminatedPayload struct {
	PlayerID     string        `json:"playerId"`
	RevealedRole *models.Role  `json:"revealedRole,omitempty"`
	GameState    GameStateView `json:"gameState"`
}

type GameEndedPayload struct {
	WinnerID  *string       `json:"winnerId"`
	GameState GameStateView `json:"gameState"`
}

type ChatPayload struct {
	PlayerID    string `json:"playerId"`
	DisplayName string `json:"displayName"`
	Text        string `json:"text"`
}

type StateSyncPayload struct {
	GameState GameStateView `json:"gameState"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
