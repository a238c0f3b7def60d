package engine

import (
	"sync"
	"time"

	"github.com/ThakurMayank5/LastSnack-Server/internal/clock"
)

type timerKey struct {
	room   string
	player string
}

type timerEntry struct {
	gen   uint64
	timer clock.Timer
}

// Timers holds at most one pending single-shot callback per (room, player).
type Timers struct {
	clock clock.Clock

	mu     sync.Mutex
	gen    uint64
	active map[timerKey]timerEntry
}

func NewTimers(c clock.Clock) *Timers {
	return &Timers{clock: c, active: make(map[timerKey]timerEntry)}
}

// Start replaces any pending timer for the key.
func (t *Timers) Start(roomCode, playerID string, d time.Duration, onExpire func()) {
	key := timerKey{roomCode, playerID}

	t.mu.Lock()
	defer t.mu.Unlock()

	if old, ok := t.active[key]; ok {
		old.timer.Stop()
	}
	t.gen++
	gen := t.gen
	timer := t.clock.AfterFunc(d, func() {
		t.mu.Lock()
		cur, ok := t.active[key]
		if !ok || cur.gen != gen {
			t.mu.Unlock()
			return
		}
		delete(t.active, key)
		t.mu.Unlock()

		onExpire()
	})
	t.active[key] = timerEntry{gen: gen, timer: timer}
}

func (t *Timers) Cancel(roomCode, playerID string) {
	key := timerKey{roomCode, playerID}

	t.mu.Lock()
	defer t.mu.Unlock()

	if e, ok := t.active[key]; ok {
		e.timer.Stop()
		delete(t.active, key)
	}
}

// CancelAll drops every pending timer for the room.
func (t *Timers) CancelAll(roomCode string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for key, e := range t.active {
		if key.room == roomCode {
			e.timer.Stop()
			delete(t.active, key)
		}
	}
}
