package rooms

import (
	"strings"
	"unicode/utf8"

	"github.com/ThakurMayank5/LastSnack-Server/internal/models"
)

const reservedName = "host"

// normalizeName trims and truncates a display name. An empty result takes
// fallback, or fails when fallback is empty too.
func normalizeName(raw, fallback string) (string, error) {
	name := strings.TrimSpace(raw)
	if utf8.RuneCountInString(name) > models.MaxNameLength {
		name = strings.TrimSpace(string([]rune(name)[:models.MaxNameLength]))
	}
	if name == "" {
		name = fallback
	}
	if name == "" {
		return "", ErrNameRequired
	}
	if strings.Contains(strings.ToLower(name), reservedName) {
		return "", ErrNameReserved
	}
	return name, nil
}

// nameFree reports whether no other player in the room uses name, ignoring case.
func nameFree(room *models.Room, name, exceptID string) bool {
	for _, p := range room.Players {
		if p.ID != exceptID && strings.EqualFold(p.DisplayName, name) {
			return false
		}
	}
	return true
}
