package engine

import (
	"slices"
	"strings"

	"github.com/ThakurMayank5/LastSnack-Server/internal/models"
)

const (
	OutcomePlayed     = "played"
	OutcomeBlocked    = "blocked"
	OutcomeEliminated = "eliminated"
	OutcomeRevealed   = "revealed"
	OutcomeBuffet     = "buffet"
	OutcomeTrashed    = "trashed"
	OutcomeSwapped    = "swapped"
	OutcomeShielded   = "shielded"
	OutcomePeeked     = "peeked"
)

// RevealNotification is private to the player who played salt or peek.
type RevealNotification struct {
	Type              string `json:"type"`
	TargetDisplayName string `json:"targetDisplayName"`
	Category          string `json:"category,omitempty"`
	SnackName         string `json:"snackName,omitempty"`
}

type Outcome struct {
	Outcome    string
	Card       models.Card
	Eliminated []string
	Revealed   string
	Blocked    string
	Reveal     *RevealNotification
}

// Resolve validates and applies one card play. On error nothing has changed.
// The caller must hold the room lock.
func Resolve(room *models.Room, actorID, cardID, targetID string, discards []string) (Outcome, error) {
	g := room.Game
	if g.Phase != models.PhasePlaying {
		return Outcome{}, ErrNotPlaying
	}
	if CurrentPlayerID(g) != actorID {
		return Outcome{}, ErrNotYourTurn
	}
	if !g.CurrentTurnDrawn && len(g.Deck) > 0 {
		return Outcome{}, ErrMustDrawFirst
	}
	actor := room.Player(actorID)
	if actor == nil {
		return Outcome{}, ErrPlayerNotFound
	}
	idx := actor.HandIndex(cardID)
	if idx < 0 {
		return Outcome{}, ErrCardNotInHand
	}
	card := actor.Hand[idx]
	meta, ok := models.MetaFor(card.Type)
	if !ok {
		return Outcome{}, ErrUnknownCard
	}

	var target *models.Player
	if meta.RequiresTarget {
		switch {
		case targetID == "":
			return Outcome{}, ErrTargetRequired
		case targetID == actorID:
			return Outcome{}, ErrSelfTarget
		case !room.IsActive(targetID):
			return Outcome{}, ErrInvalidTarget
		}
		target = room.Player(targetID)
	}
	if meta.RequiresDiscards > 0 {
		if err := checkDiscards(actor, cardID, discards, meta.RequiresDiscards); err != nil {
			return Outcome{}, err
		}
	}

	actor.RemoveCard(cardID)
	g.DiscardPile = append(g.DiscardPile, card)
	g.LastAction = &models.LastAction{Type: "card_played", PlayerID: actorID, CardID: cardID, TargetID: targetID}

	out := Outcome{Outcome: OutcomePlayed, Card: card}

	switch card.Type {
	case models.CardMicrowave:
		weakAttack(room, target, "heat", &out)
	case models.CardFreeze:
		weakAttack(room, target, "cold", &out)
	case models.CardDoubleSalt:
		if holder := activeHolder(room, models.RoleDonut); holder != nil {
			eliminate(room, holder, &out)
		}
	case models.CardShake:
		roleAttack(room, models.RoleTaco, &out)
	case models.CardSpoil:
		roleAttack(room, models.RoleBurger, &out)
	case models.CardSalt:
		category := "Unknown"
		if target.Role != nil && target.Role.Category != "" {
			category = target.Role.Category
		}
		g.RevealedCategories[target.ID] = category
		out.Outcome = OutcomeRevealed
		out.Revealed = target.ID
		out.Reveal = &RevealNotification{Type: "salt", TargetDisplayName: target.DisplayName, Category: category}
	case models.CardBuffet:
		for _, p := range room.ActivePlayers() {
			drawn, rest, ok := DrawOne(g.Deck)
			if !ok {
				break
			}
			g.Deck = rest
			p.Hand = append(p.Hand, drawn)
		}
		out.Outcome = OutcomeBuffet
	case models.CardTrash:
		for _, id := range discards {
			c, _ := actor.RemoveCard(id)
			g.DiscardPile = append(g.DiscardPile, c)
		}
		out.Outcome = OutcomeTrashed
	case models.CardTradeSeats:
		actor.Role, target.Role = target.Role, actor.Role
		actor.AvatarID, target.AvatarID = target.AvatarID, actor.AvatarID
		swapKnowledge(g, actor.ID, target.ID)
		out.Outcome = OutcomeSwapped
	case models.CardFoilWrap:
		g.AddShield(actorID)
		out.Outcome = OutcomeShielded
	case models.CardPeek:
		out.Outcome = OutcomePeeked
		if target.Role != nil {
			g.SetPeeked(actorID, target.ID, *target.Role)
			out.Reveal = &RevealNotification{Type: "peek", TargetDisplayName: target.DisplayName, SnackName: target.Role.Name}
		}
	}
	return out, nil
}

func checkDiscards(actor *models.Player, cardID string, discards []string, want int) error {
	if len(discards) != want {
		return ErrDiscardCount
	}
	seen := map[string]bool{}
	for _, id := range discards {
		if id == cardID || seen[id] || actor.HandIndex(id) < 0 {
			return ErrDiscardNotOwned
		}
		seen[id] = true
	}
	return nil
}

// weakAttack is a blockable targeted attack. A shield always wins over a matching weakness.
func weakAttack(room *models.Room, target *models.Player, weakness string, out *Outcome) {
	if room.Game.ConsumeShield(target.ID) {
		out.Outcome = OutcomeBlocked
		out.Blocked = target.ID
		return
	}
	if target.Role != nil && strings.EqualFold(target.Role.Weakness, weakness) && room.IsActive(target.ID) {
		eliminate(room, target, out)
	}
}

func roleAttack(room *models.Room, roleID string, out *Outcome) {
	holder := activeHolder(room, roleID)
	if holder == nil {
		return
	}
	if room.Game.ConsumeShield(holder.ID) {
		out.Outcome = OutcomeBlocked
		out.Blocked = holder.ID
		return
	}
	eliminate(room, holder, out)
}

// swapKnowledge moves revealed categories and peeks so they follow the swapped
// roles. A viewer's peek at their own seat is dropped.
func swapKnowledge(g *models.GameState, a, b string) {
	swapEntries(g.RevealedCategories, a, b)
	for viewer, peeks := range g.PeekedRoles {
		swapEntries(peeks, a, b)
		delete(peeks, viewer)
	}
}

func swapEntries[V any](m map[string]V, a, b string) {
	va, okA := m[a]
	vb, okB := m[b]
	delete(m, a)
	delete(m, b)
	if okA {
		m[b] = va
	}
	if okB {
		m[a] = vb
	}
}

func activeHolder(room *models.Room, roleID string) *models.Player {
	for _, p := range room.ActivePlayers() {
		if p.Role != nil && p.Role.ID == roleID {
			return p
		}
	}
	return nil
}

// eliminate takes the player out of the turn rotation and makes their role public.
func eliminate(room *models.Room, p *models.Player, out *Outcome) {
	g := room.Game
	if !slices.Contains(g.EliminatedPlayerIDs, p.ID) {
		g.EliminatedPlayerIDs = append(g.EliminatedPlayerIDs, p.ID)
	}
	p.Status = models.StatusEliminated
	if p.Role != nil {
		g.RevealedRoles[p.ID] = *p.Role
	}
	out.Outcome = OutcomeEliminated
	out.Eliminated = append(out.Eliminated, p.ID)
}
