package rooms

import (
	"sync"

	"github.com/ThakurMayank5/LastSnack-Server/internal/models"
)

// Store is the process-wide registry of live rooms.
type Store struct {
	rooms map[string]*models.Room
	mu    sync.RWMutex
}

func NewStore() *Store {
	return &Store{
		rooms: make(map[string]*models.Room),
	}
}

func (s *Store) Get(code string) (*models.Room, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	room, exists := s.rooms[code]
	return room, exists
}

// Insert adds the room unless its code is already taken.
func (s *Store) Insert(room *models.Room) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.rooms[room.Code]; exists {
		return false
	}
	s.rooms[room.Code] = room
	return true
}

func (s *Store) Delete(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, code)
}

// Snapshot returns the rooms live at the time of the call.
func (s *Store) Snapshot() []*models.Room {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Room, 0, len(s.rooms))
	for _, r := range s.rooms {
		out = append(out, r)
	}
	return out
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rooms)
}
