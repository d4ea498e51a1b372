package gamemaster

import (
	"maps"
	"slices"

	"hexarena/communication"
	"hexarena/game"
	"hexarena/utils"
)

func (g *Game) spellName(id game.SpellID) (string, bool) {
	name, ok := g.spellNames[id]
	return name, ok
}

func (g *Game) cards(ids []game.SpellID) []game.SpellCard {
	out := make([]game.SpellCard, 0, len(ids))
	for _, id := range ids {
		out = append(out, game.SpellCard{ID: id, Name: g.spellNames[id]})
	}
	return out
}

// newSpell deals the next card of side's deck under a fresh id. An empty
// deck is refilled with every catalog spell in shuffled order.
func (g *Game) newSpell(side game.Side) game.SpellID {
	if len(g.decks[side]) == 0 {
		names := slices.Sorted(maps.Keys(g.Spells))
		g.rng.Shuffle(len(names), func(i, j int) { names[i], names[j] = names[j], names[i] })
		g.decks[side] = names
	}
	id := g.nextSpell
	g.nextSpell++
	g.spellNames[id] = g.decks[side][0]
	g.decks[side] = g.decks[side][1:]
	return id
}

// refill tops up side's queue so a full draw still leaves the revealed
// window covered.
func (g *Game) refill(side game.Side) {
	for len(g.queues[side]) < len(g.Boards)+g.cfg.RevealAhead {
		g.queues[side] = append(g.queues[side], g.newSpell(side))
	}
}

// draw moves n spells from side's queue into the unchosen pool.
func (g *Game) draw(side game.Side, n int) []game.SpellID {
	for len(g.queues[side]) < n {
		g.queues[side] = append(g.queues[side], g.newSpell(side))
	}
	drawn := slices.Clone(g.queues[side][:n])
	g.queues[side] = g.queues[side][n:]
	g.Available = append(g.Available, drawn...)
	g.refill(side)
	return drawn
}

// upcoming is the part of side's queue it is allowed to see.
func (g *Game) upcoming(side game.Side) []game.SpellID {
	n := min(g.cfg.RevealAhead, len(g.queues[side]))
	return slices.Clone(g.queues[side][:n])
}

// showUpcoming tells side the names of its upcoming and drawn spells it has
// not seen yet.
func (g *Game) showUpcoming(side game.Side) {
	ids := g.upcoming(side)
	if side == g.Side {
		ids = append(ids, g.Available...)
	}
	fresh := g.markRevealed(side, ids)
	if len(fresh) == 0 {
		return
	}
	a := game.AddUpcomingSpells{Side: side, Spells: g.cards(fresh)}
	// never a resignation, cannot fail
	_ = g.reportGameAction(communication.To(side), side, a)
}

func (g *Game) markRevealed(side game.Side, ids []game.SpellID) []game.SpellID {
	var fresh []game.SpellID
	for _, id := range ids {
		if !g.revealed[side][id] {
			g.revealed[side][id] = true
			fresh = append(fresh, id)
		}
	}
	return fresh
}

// reveal discloses spell names to a side that may not know them yet.
func (g *Game) reveal(to game.Side, ids []game.SpellID) {
	fresh := g.markRevealed(to, ids)
	if len(fresh) == 0 {
		return
	}
	a := game.RevealSpells{To: to, Spells: g.cards(fresh)}
	g.emit(communication.To(to), func(seq int) communication.Report {
		return communication.ReportRevealSpells{Seq: seq, To: a.To, Spells: a.Spells}
	})
}

// takeAvailable removes a spell from the unchosen pool.
func (g *Game) takeAvailable(id game.SpellID) bool {
	var ok bool
	g.Available, ok = utils.Remove(g.Available, id)
	return ok
}

// returnAvailable puts the unchosen pool back on top of side's queue.
func (g *Game) returnAvailable(side game.Side) {
	g.queues[side] = utils.Prepend(g.queues[side], g.Available...)
	g.Available = nil
}

func (g *Game) chooseSpell(idx int, side game.Side, id game.SpellID) error {
	return g.reportGameAction(communication.Everyone, side, game.ChooseSpell{Board: idx, Spell: id})
}

// autoChoose grants a spell to every board where side gained none this
// turn, while the pool lasts.
func (g *Game) autoChoose(side game.Side) error {
	for idx, b := range g.Boards {
		if b.Gained > 0 || len(g.Available) == 0 {
			continue
		}
		id := g.Available[0]
		g.takeAvailable(id)
		b.Grant(side, id)
		g.commitBoard(idx, side, game.GainSpell{Spell: id})
		if err := g.chooseSpell(idx, side, id); err != nil {
			return err
		}
	}
	return nil
}

// autoDiscard drops the most recent spells above each board's ceiling and
// shows them to the opponent.
func (g *Game) autoDiscard(side game.Side) {
	var discarded []game.SpellID
	for idx, b := range g.Boards {
		ceiling := b.SpellCeiling(g.Catalog, side)
		for len(b.Hands[side]) > ceiling {
			id := b.Hands[side][len(b.Hands[side])-1]
			b.Discard(side, id, g.spellNames[id])
			g.commitBoard(idx, side, game.DiscardSpell{Spell: id})
			discarded = append(discarded, id)
		}
	}
	if len(discarded) > 0 {
		g.logger.Debug().Msgf("%s discarded %d spells over the ceiling", side, len(discarded))
		g.reveal(side.Other(), discarded)
	}
}
