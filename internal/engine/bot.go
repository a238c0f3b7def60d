package engine

import (
	"github.com/rs/zerolog/log"

	"github.com/ThakurMayank5/LastSnack-Server/internal/models"
	"github.com/ThakurMayank5/LastSnack-Server/internal/random"
)

type botMove struct {
	cardID   string
	targetID string
	discards []string
}

// scheduleBot queues the next step for a bot holding the turn. Bot delays
// share the timer registry so restart and teardown clear them too.
// The caller must hold the room lock.
func (e *Engine) scheduleBot(room *models.Room) {
	g := room.Game
	if g.Phase != models.PhasePlaying {
		return
	}
	botID := CurrentPlayerID(g)
	bot := room.Player(botID)
	if bot == nil || !bot.IsBot {
		return
	}
	code, turnID := room.Code, g.TurnID

	if !g.CurrentTurnDrawn && len(g.Deck) > 0 {
		e.timers.Start(code, botID, e.opts.BotDrawDelay, func() {
			e.botStep(code, botID, turnID, func(room *models.Room) {
				if err := e.drawCard(room, botID); err != nil {
					log.Warn().Err(err).Str("room", code).Str("bot", botID).Msg("bot draw failed")
				}
			})
		})
		return
	}

	move, play := e.planBotMove(room, bot)
	e.timers.Start(code, botID, e.opts.BotThinkDelay, func() {
		e.botStep(code, botID, turnID, func(room *models.Room) {
			if play {
				_, err := e.playCard(room, botID, move.cardID, move.targetID, move.discards)
				if err == nil {
					return
				}
				log.Debug().Err(err).Str("room", code).Str("bot", botID).Msg("bot play rejected, ending turn")
			}
			if err := e.endTurn(room, botID); err != nil {
				log.Warn().Err(err).Str("room", code).Str("bot", botID).Msg("bot end turn failed")
			}
		})
	})
}

func (e *Engine) botStep(code, botID string, turnID int, act func(room *models.Room)) {
	room, ok := e.rooms.Get(code)
	if !ok {
		return
	}
	room.Lock()
	defer room.Unlock()

	g := room.Game
	if g.Phase != models.PhasePlaying || g.TurnID != turnID || CurrentPlayerID(g) != botID {
		return
	}
	act(room)
}

// planBotMove picks a card using only public state and the bot's own hand.
func (e *Engine) planBotMove(room *models.Room, bot *models.Player) (botMove, bool) {
	var targets []string
	for _, p := range room.ActivePlayers() {
		if p.ID != bot.ID {
			targets = append(targets, p.ID)
		}
	}

	var playable []models.Card
	for _, c := range bot.Hand {
		meta, ok := models.MetaFor(c.Type)
		if !ok {
			continue
		}
		if meta.RequiresTarget && len(targets) == 0 {
			continue
		}
		if meta.RequiresDiscards > len(bot.Hand)-1 {
			continue
		}
		playable = append(playable, c)
	}
	if len(playable) == 0 || e.rng.Float64() >= e.opts.BotPlayChance {
		return botMove{}, false
	}

	card := random.Pick(e.rng, playable)
	move := botMove{cardID: card.ID}
	meta, _ := models.MetaFor(card.Type)
	if meta.RequiresTarget {
		move.targetID = random.Pick(e.rng, targets)
	}
	if meta.RequiresDiscards > 0 {
		others := make([]string, 0, len(bot.Hand)-1)
		for _, c := range bot.Hand {
			if c.ID != card.ID {
				others = append(others, c.ID)
			}
		}
		random.Shuffle(e.rng, others)
		move.discards = others[:meta.RequiresDiscards]
	}
	return move, true
}
