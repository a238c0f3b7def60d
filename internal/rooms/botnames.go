package rooms

import (
	"fmt"
	"slices"

	"github.com/ThakurMayank5/LastSnack-Server/internal/models"
	"github.com/ThakurMayank5/LastSnack-Server/internal/random"
)

var BotNames = []string{
	"Crumbs",
	"Nibbles",
	"Pretzel",
	"Waffles",
	"Biscuit",
	"Nacho",
	"Muffin",
	"Popcorn",
	"Toffee",
	"Cracker",
	"Jellybean",
	"Dumpling",
}

func (m *Manager) botName(room *models.Room) string {
	shuffled := slices.Clone(BotNames)
	random.Shuffle(m.rng, shuffled)

	for _, n := range shuffled {
		name := n + " Bot"
		if nameFree(room, name, "") {
			return name
		}
	}
	for i := 1; ; i++ {
		name := fmt.Sprintf("Bot %d", i)
		if nameFree(room, name, "") {
			return name
		}
	}
}
