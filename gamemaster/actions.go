package gamemaster

import (
	"slices"

	"hexarena/communication"
	"hexarena/game"
)

// DoBoardAction applies a board action for side on board idx together with
// its economic side effects. On error nothing changes.
func (g *Game) DoBoardAction(side game.Side, idx int, a game.Action) error {
	if err := g.checkActive(side); err != nil {
		return err
	}
	b, err := g.board(idx)
	if err != nil {
		return err
	}

	cost := 0
	switch a := a.(type) {
	case game.BuyReinforcement:
		if cost, err = g.reinforcementCost(side, a.Name); err != nil {
			return err
		}
	case game.GainSpell:
		if !slices.Contains(g.Available, a.Spell) {
			return game.Stalef("spell %d is not available", a.Spell)
		}
	}

	out, err := b.Apply(g.applyContext(), side, a)
	if err != nil {
		return err
	}
	g.commitBoard(idx, side, a)

	switch a := a.(type) {
	case game.BuyReinforcement:
		if err := g.payForReinforcement(idx, side, a.Name, cost); err != nil {
			return err
		}
	case game.GainSpell:
		g.takeAvailable(a.Spell)
		if err := g.chooseSpell(idx, side, a.Spell); err != nil {
			return err
		}
	}

	switch u := out.Undone.(type) {
	case game.BuyReinforcement:
		if err := g.unpayForReinforcement(idx, side, u.Name); err != nil {
			return err
		}
	case game.GainSpell:
		g.Available = append(g.Available, u.Spell)
		if err := g.reportGameAction(communication.Everyone, side, game.UnchooseSpell{Board: idx, Spell: u.Spell}); err != nil {
			return err
		}
	}

	if len(out.Revealed) > 0 {
		g.reveal(side.Other(), out.Revealed)
	}
	return nil
}

// DoGameAction applies a client game action for side. Server-only actions
// are rejected. On error nothing changes.
func (g *Game) DoGameAction(side game.Side, a game.GameAction) error {
	if a == nil {
		return game.Illegalf("missing action")
	}
	if game.IsServerOnly(a) {
		return game.Illegalf("%s can only be issued by the server", a.Kind())
	}
	if r, ok := a.(game.ResignBoard); ok {
		return g.resign(side, r.Board)
	}
	if err := g.checkActive(side); err != nil {
		return err
	}

	switch a := a.(type) {
	case game.PerformTech:
		return g.performTech(side, a.Index)
	case game.UndoTech:
		return g.undoTech(side, a.Index)
	case game.SetBoardDone:
		return g.setBoardDone(side, a)
	case game.BuyExtraTechAndSpell:
		return g.buyExtraTechAndSpell(side)
	case game.UndoBuyExtraTechAndSpell:
		return g.undoBuyExtraTechAndSpell(side)
	}
	return game.Invariantf("unhandled game action %T", a)
}
