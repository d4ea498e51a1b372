package gamemaster

import (
	"slices"

	"hexarena/communication"
	"hexarena/game"
)

type TechKind int

const (
	// PieceTech unlocks a piece for reinforcement purchase.
	PieceTech TechKind = iota
)

// Tech is one slot of the tech line.
type Tech struct {
	Kind  TechKind `json:"kind"`
	Piece string   `json:"piece"`
}

// TechState is the progress of one side on one slot. It only moves
// forward, except through UndoTech in the same turn.
type TechState int

const (
	Locked TechState = iota
	// Unlocked slots are visible because the opponent acquired them.
	Unlocked
	Acquired
)

var techStateNames = []string{"locked", "unlocked", "acquired"}

func (s TechState) String() string {
	if int(s) < len(techStateNames) {
		return techStateNames[s]
	}
	return "unknown"
}

func techView(t Tech, st TechState) communication.TechView {
	return communication.TechView{Piece: t.Piece, State: st.String()}
}

// techRecord remembers a tech performed this turn so it can be undone.
type techRecord struct {
	index         int
	paid          int
	free          bool
	prev          TechState
	unlockedOther bool
}

// Unlocked reports whether side may buy reinforcements of the named piece.
func (g *Game) Unlocked(side game.Side, name string) bool {
	if _, ok := g.cfg.StarterUnits[name]; ok {
		return true
	}
	for i, t := range g.Techs {
		if t.Kind == PieceTech && t.Piece == name && g.TechStates[side][i] == Acquired {
			return true
		}
	}
	return false
}

// techCost is the mana price of the next tech this turn. Every turn has one
// free tech plus one per extra tech bought.
func (g *Game) techCost() int {
	if g.freeTechs < 1+g.ExtraTechs {
		return 0
	}
	return g.cfg.TechCostPerBoard * len(g.Boards)
}

func (g *Game) performTech(side game.Side, idx int) error {
	if idx < 0 || idx >= len(g.Techs) {
		return game.Illegalf("no tech slot %d", idx)
	}
	prev := g.TechStates[side][idx]
	if prev == Acquired {
		return game.Illegalf("tech %d (%s) is already acquired", idx, g.Techs[idx].Piece)
	}
	cost := g.techCost()
	if g.Mana[side] < cost {
		return game.Illegalf("insufficient mana: tech costs %d, have %d", cost, g.Mana[side])
	}

	g.Mana[side] -= cost
	g.TechStates[side][idx] = Acquired
	rec := techRecord{index: idx, paid: cost, free: g.freeTechs < 1+g.ExtraTechs, prev: prev}
	if other := side.Other(); g.TechStates[other][idx] == Locked {
		g.TechStates[other][idx] = Unlocked
		rec.unlockedOther = true
	}
	g.TechsThisTurn++
	if rec.free {
		g.freeTechs++
	}
	g.performed = append(g.performed, rec)
	g.logger.Debug().Msgf("%s acquired %s for %d mana", side, g.Techs[idx].Piece, cost)
	return g.reportGameAction(communication.Everyone, side, game.PerformTech{Index: idx})
}

func (g *Game) undoTech(side game.Side, idx int) error {
	i := slices.IndexFunc(g.performed, func(r techRecord) bool { return r.index == idx })
	if i < 0 {
		return game.Illegalf("tech %d was not performed this turn", idx)
	}
	piece := g.Techs[idx].Piece
	if g.bought[piece] > 0 {
		return game.Illegalf("cannot undo %s: %d bought this turn", piece, g.bought[piece])
	}

	rec := g.performed[i]
	g.Mana[side] += rec.paid
	g.TechStates[side][idx] = rec.prev
	if rec.unlockedOther {
		g.TechStates[side.Other()][idx] = Locked
	}
	g.TechsThisTurn--
	if rec.free {
		g.freeTechs--
	}
	g.performed = slices.Delete(g.performed, i, i+1)
	return g.reportGameAction(communication.Everyone, side, game.UndoTech{Index: idx})
}

// autoTech spends the free techs side left unused, in tech line order.
func (g *Game) autoTech(side game.Side) {
	for g.freeTechs < 1+g.ExtraTechs {
		idx := slices.IndexFunc(g.TechStates[side], func(st TechState) bool { return st != Acquired })
		if idx < 0 {
			return
		}
		if err := g.performTech(side, idx); err != nil {
			g.logger.Warn().Err(err).Msgf("automatic tech %d for %s failed", idx, side)
			return
		}
	}
}
