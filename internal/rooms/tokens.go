package rooms

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ThakurMayank5/LastSnack-Server/internal/clock"
)

type Claim struct {
	PlayerID  string
	RoomCode  string
	ExpiresAt time.Time
}

// Tokens issues opaque reconnect tokens. A token is valid until it expires;
// issuing a new one for the same seat does not revoke the old one.
type Tokens struct {
	ttl   time.Duration
	clock clock.Clock

	mu     sync.Mutex
	claims map[string]Claim
}

func NewTokens(ttl time.Duration, c clock.Clock) *Tokens {
	return &Tokens{ttl: ttl, clock: c, claims: make(map[string]Claim)}
}

func (t *Tokens) Issue(playerID, roomCode string) string {
	token := uuid.NewString()

	t.mu.Lock()
	defer t.mu.Unlock()
	t.claims[token] = Claim{
		PlayerID:  playerID,
		RoomCode:  roomCode,
		ExpiresAt: t.clock.Now().Add(t.ttl),
	}
	return token
}

func (t *Tokens) Validate(token string) (Claim, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	c, ok := t.claims[token]
	if !ok || !t.clock.Now().Before(c.ExpiresAt) {
		return Claim{}, false
	}
	return c, true
}

// Purge forgets expired tokens and returns how many were dropped.
func (t *Tokens) Purge() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.clock.Now()
	n := 0
	for token, c := range t.claims {
		if !now.Before(c.ExpiresAt) {
			delete(t.claims, token)
			n++
		}
	}
	return n
}
