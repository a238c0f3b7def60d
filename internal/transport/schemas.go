package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	MsgJoin             = "join"
	MsgSetName          = "set_name"
	MsgSetAvatar        = "set_avatar"
	MsgSetLobbySettings = "set_lobby_settings"
	MsgStartGame        = "start_game"
	MsgDrawCard         = "draw_card"
	MsgPlayCard         = "play_card"
	MsgEndTurn          = "end_turn"
	MsgAddBot           = "add_bot"
	MsgChat             = "chat"
	MsgRestart          = "restart"
	MsgLeave            = "leave"
	MsgSync             = "sync"
)

// Envelope is the wire frame in both directions.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type outbound struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

type JoinPayload struct {
	RoomCode       string `json:"roomCode" validate:"required,len=8,alphanum"`
	DisplayName    string `json:"displayName" validate:"max=32"`
	ReconnectToken string `json:"reconnectToken" validate:"omitempty,uuid"`
}

func (p *JoinPayload) normalize() {
	p.RoomCode = strings.ToUpper(strings.TrimSpace(p.RoomCode))
	p.DisplayName = strings.TrimSpace(p.DisplayName)
}

type SetNamePayload struct {
	DisplayName string `json:"displayName" validate:"required,max=32"`
}

func (p *SetNamePayload) normalize() {
	p.DisplayName = strings.TrimSpace(p.DisplayName)
}

type SetAvatarPayload struct {
	AvatarID string `json:"avatarId" validate:"required,max=64"`
}

type LobbySettingsPayload struct {
	SpeedMode      *bool `json:"speedMode"`
	SuspicionMeter *bool `json:"suspicionMeter"`
}

type StartGamePayload struct {
	SpeedMode *bool `json:"speedMode"`
}

type PlayCardPayload struct {
	CardID           string   `json:"cardId" validate:"required,max=64"`
	TargetID         string   `json:"targetId" validate:"omitempty,max=64"`
	DiscardedCardIDs []string `json:"discardedCardIds" validate:"omitempty,max=2,dive,required,max=64"`
}

type ChatPayload struct {
	Text string `json:"text" validate:"required,max=500"`
}

func (p *ChatPayload) normalize() {
	p.Text = strings.TrimSpace(p.Text)
}

type emptyPayload struct{}

type normalizer interface {
	normalize()
}

var errUnknownType = errors.New("unknown message type")

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

var decoders = map[string]func(json.RawMessage) (any, error){
	MsgJoin:             decodeAs[JoinPayload],
	MsgSetName:          decodeAs[SetNamePayload],
	MsgSetAvatar:        decodeAs[SetAvatarPayload],
	MsgSetLobbySettings: decodeAs[LobbySettingsPayload],
	MsgStartGame:        decodeAs[StartGamePayload],
	MsgDrawCard:         decodeAs[emptyPayload],
	MsgPlayCard:         decodeAs[PlayCardPayload],
	MsgEndTurn:          decodeAs[emptyPayload],
	MsgAddBot:           decodeAs[emptyPayload],
	MsgChat:             decodeAs[ChatPayload],
	MsgRestart:          decodeAs[emptyPayload],
	MsgLeave:            decodeAs[emptyPayload],
	MsgSync:             decodeAs[emptyPayload],
}

// parseMessage decodes and validates the payload for its message type.
func parseMessage(env Envelope) (any, error) {
	decode, ok := decoders[env.Type]
	if !ok {
		return nil, errUnknownType
	}
	return decode(env.Payload)
}

func decodeAs[T any](raw json.RawMessage) (any, error) {
	var p T
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, err
	}
	if n, ok := any(&p).(normalizer); ok {
		n.normalize()
	}
	if err := validate.Struct(&p); err != nil {
		return nil, err
	}
	return p, nil
}

// describe turns a decode or validation failure into a client-facing message.
func describe(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Sprintf("%s failed %q validation", fe.Field(), fe.Tag())
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return fmt.Sprintf("%s has the wrong type", typeErr.Field)
	}
	return "invalid payload"
}
