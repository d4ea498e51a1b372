package gamemaster

import (
	"slices"

	"hexarena/communication"
	"hexarena/game"
	"hexarena/utils"
)

// reinforcementCost checks that side can pay for one piece.
func (g *Game) reinforcementCost(side game.Side, name string) (int, error) {
	s, ok := g.Catalog[name]
	if !ok {
		return 0, game.Illegalf("unknown piece %q", name)
	}
	if g.Mana[side] < s.Cost {
		return 0, game.Illegalf("insufficient mana: %s costs %d, have %d", name, s.Cost, g.Mana[side])
	}
	return s.Cost, nil
}

func (g *Game) payForReinforcement(idx int, side game.Side, name string, cost int) error {
	g.Mana[side] -= cost
	g.bought[name]++
	return g.reportGameAction(communication.Everyone, side,
		game.PayForReinforcement{Board: idx, Name: name, Amount: cost})
}

func (g *Game) unpayForReinforcement(idx int, side game.Side, name string) error {
	cost := g.Catalog[name].Cost
	g.Mana[side] += cost
	if g.bought[name]--; g.bought[name] <= 0 {
		delete(g.bought, name)
	}
	return g.reportGameAction(communication.Everyone, side,
		game.UnpayForReinforcement{Board: idx, Name: name, Amount: cost})
}

func (g *Game) buyExtraTechAndSpell(side game.Side) error {
	cost := g.cfg.ExtraTechCost
	if g.Mana[side] < cost {
		return game.Illegalf("insufficient mana: an extra tech costs %d, have %d", cost, g.Mana[side])
	}
	g.Mana[side] -= cost
	g.ExtraTechs++
	drawn := g.draw(side, 1)
	g.extraSpells = append(g.extraSpells, drawn[0])
	if err := g.reportGameAction(communication.Everyone, side, game.BuyExtraTechAndSpell{}); err != nil {
		return err
	}
	g.showUpcoming(side)
	return nil
}

// undoBuyExtraTechAndSpell is legal while the extra tech is unused and the
// spell it drew is still in the pool.
func (g *Game) undoBuyExtraTechAndSpell(side game.Side) error {
	n := len(g.extraSpells)
	if n == 0 {
		return game.Illegalf("no extra tech was bought this turn")
	}
	if g.freeTechs > g.ExtraTechs {
		return game.Illegalf("the extra tech is already used")
	}
	id := g.extraSpells[n-1]
	if !slices.Contains(g.Available, id) {
		return game.Illegalf("spell %d drawn with the extra tech was already chosen", id)
	}

	g.Mana[side] += g.cfg.ExtraTechCost
	g.ExtraTechs--
	g.extraSpells = g.extraSpells[:n-1]
	g.takeAvailable(id)
	g.queues[side] = utils.Prepend(g.queues[side], id)
	return g.reportGameAction(communication.Everyone, side, game.UndoBuyExtraTechAndSpell{})
}
