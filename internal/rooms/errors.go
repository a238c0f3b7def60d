package rooms

import "errors"

var (
	ErrRoomNotFound   = errors.New("room not found")
	ErrGameInProgress = errors.New("game already in progress")
	ErrRoomFull       = errors.New("room is full")
	ErrNameRequired   = errors.New("display name is required")
	ErrNameReserved   = errors.New("display name cannot contain \"host\"")
	ErrNameTaken      = errors.New("display name is already taken")
	ErrUnknownAvatar  = errors.New("unknown avatar")
	ErrAvatarTaken    = errors.New("avatar is already taken")
	ErrNotHost        = errors.New("only the host can do that")
	ErrNotInLobby     = errors.New("only allowed in the lobby")
	ErrPlayerNotFound = errors.New("player not in room")
)
