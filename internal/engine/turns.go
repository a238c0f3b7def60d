package engine

import (
	"github.com/ThakurMayank5/LastSnack-Server/internal/models"
	"github.com/ThakurMayank5/LastSnack-Server/internal/random"
)

// InitTurnOrder fixes a random seating order for the whole game.
func InitTurnOrder(room *models.Room, rng random.Source) {
	order := make([]string, 0, len(room.Players))
	for _, p := range room.Players {
		order = append(order, p.ID)
	}
	random.Shuffle(rng, order)
	room.Game.TurnOrder = order
	room.Game.CurrentTurnIndex = 0
}

// CurrentPlayerID scans forward from the current index, skipping eliminated
// players. It returns "" when everyone is eliminated.
func CurrentPlayerID(g *models.GameState) string {
	i, ok := nextLiveIndex(g, g.CurrentTurnIndex)
	if !ok {
		return ""
	}
	return g.TurnOrder[i]
}

// AdvanceTurn moves to the next non-eliminated seat. With nobody left the
// index still moves forward by one.
func AdvanceTurn(g *models.GameState) {
	n := len(g.TurnOrder)
	if n == 0 {
		return
	}
	from := (g.CurrentTurnIndex + 1) % n
	if i, ok := nextLiveIndex(g, from); ok {
		g.CurrentTurnIndex = i
		return
	}
	g.CurrentTurnIndex = from
}

func nextLiveIndex(g *models.GameState, from int) (int, bool) {
	n := len(g.TurnOrder)
	for step := 0; step < n; step++ {
		i := (from + step) % n
		if !g.IsEliminated(g.TurnOrder[i]) {
			return i, true
		}
	}
	return 0, false
}
