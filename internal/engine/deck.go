package engine

import (
	"fmt"
	"math"

	"github.com/ThakurMayank5/LastSnack-Server/internal/models"
	"github.com/ThakurMayank5/LastSnack-Server/internal/random"
)

// DeckComposition scales the 4-player table by playerCount/4. Every type keeps at least one copy.
func DeckComposition(playerCount int) []models.DeckEntry {
	scale := float64(playerCount) / 4
	out := make([]models.DeckEntry, 0, len(models.BaseDeck))
	for _, e := range models.BaseDeck {
		n := int(math.Round(float64(e.Count) * scale))
		if n < 1 {
			n = 1
		}
		out = append(out, models.DeckEntry{Type: e.Type, Count: n})
	}
	return out
}

// BuildDeck lays out the unshuffled deck in composition order.
func BuildDeck(playerCount int) []models.Card {
	var deck []models.Card
	for _, e := range DeckComposition(playerCount) {
		for i := 0; i < e.Count; i++ {
			deck = append(deck, models.Card{
				ID:   fmt.Sprintf("%s_%d", e.Type, i),
				Type: e.Type,
			})
		}
	}
	return deck
}

func BuildShuffledDeck(playerCount int, rng random.Source) []models.Card {
	deck := BuildDeck(playerCount)
	random.Shuffle(rng, deck)
	return deck
}

// DealHands gives each seat HandSize cards off the front of the deck.
func DealHands(deck []models.Card, playerCount int) ([][]models.Card, []models.Card) {
	hands := make([][]models.Card, playerCount)
	pos := 0
	for seat := 0; seat < playerCount; seat++ {
		hand := make([]models.Card, 0, models.HandSize)
		for i := 0; i < models.HandSize && pos < len(deck); i++ {
			hand = append(hand, deck[pos])
			pos++
		}
		hands[seat] = hand
	}
	return hands, deck[pos:]
}

// DrawOne pops the front card. ok is false when the deck is empty.
func DrawOne(deck []models.Card) (card models.Card, rest []models.Card, ok bool) {
	if len(deck) == 0 {
		return models.Card{}, deck, false
	}
	return deck[0], deck[1:], true
}
