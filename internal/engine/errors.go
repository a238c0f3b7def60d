package engine

import "errors"

// Precondition failures. Returned before any state is touched.
var (
	ErrNotPlaying       = errors.New("game is not in progress")
	ErrNotYourTurn      = errors.New("it is not your turn")
	ErrAlreadyDrawn     = errors.New("you have already drawn this turn")
	ErrMustDrawFirst    = errors.New("you must draw a card first")
	ErrDeckEmpty        = errors.New("the deck is empty")
	ErrCardNotInHand    = errors.New("card is not in your hand")
	ErrUnknownCard      = errors.New("unknown card type")
	ErrTargetRequired   = errors.New("this card needs a target")
	ErrSelfTarget       = errors.New("you cannot target yourself")
	ErrInvalidTarget    = errors.New("target is not an active player")
	ErrDiscardCount     = errors.New("trash needs exactly 2 other cards")
	ErrDiscardNotOwned  = errors.New("discarded cards must be other cards in your hand")
	ErrNotHost          = errors.New("only the host can do that")
	ErrGameStarted      = errors.New("game has already started")
	ErrNotEnoughPlayers = errors.New("need at least 4 players to start")
	ErrTooManyPlayers   = errors.New("at most 8 players can play")
	ErrGameNotEnded     = errors.New("game has not ended")
	ErrPlayerNotFound   = errors.New("player not in room")
)
