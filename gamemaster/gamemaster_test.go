package gamemaster

import (
	"errors"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"

	"hexarena/communication"
	"hexarena/game"
	"hexarena/hex"
	"hexarena/meta"
)

func newTestGame(t *testing.T, edit ...func(*meta.Config)) *Game {
	t.Helper()
	cfg := meta.Default()
	cfg.Seed = 7
	for _, f := range edit {
		f(cfg)
	}
	g, err := NewGame(cfg)
	require.NoError(t, err)
	return g
}

// gameState is every observable field a rejected action must leave alone.
type gameState struct {
	Mana          [2]int
	TechStates    [2][]TechState
	TechsThisTurn int
	FreeTechs     int
	ExtraTechs    int
	Available     []game.SpellID
	Boards        []game.BoardSummary
	Seqs          []int
	Turn          int
	Side          game.Side
	Phase         Phase
	Wins          [2]int
}

func stateOf(g *Game) gameState {
	s := gameState{
		Mana:          g.Mana,
		TechsThisTurn: g.TechsThisTurn,
		FreeTechs:     g.freeTechs,
		ExtraTechs:    g.ExtraTechs,
		Available:     slices.Clone(g.Available),
		Turn:          g.Turn,
		Side:          g.Side,
		Phase:         g.Phase,
		Wins:          g.Wins,
	}
	for _, side := range game.Sides {
		s.TechStates[side] = slices.Clone(g.TechStates[side])
	}
	for i, b := range g.Boards {
		s.Boards = append(s.Boards, b.Summary())
		s.Seqs = append(s.Seqs, g.Logs[i].Seq())
	}
	return s
}

func requireRejected(t *testing.T, g *Game, kind error, do func() error) {
	t.Helper()
	g.TakeReports()
	before := stateOf(g)
	err := do()
	require.Error(t, err)
	require.True(t, errors.Is(err, kind), "want %v, got %v", kind, err)
	require.Equal(t, before, stateOf(g))
	require.Empty(t, g.TakeReports())
}

func finishTurn(t *testing.T, g *Game) {
	t.Helper()
	side := g.Side
	for i := range g.Boards {
		require.NoError(t, g.DoGameAction(side, game.SetBoardDone{Board: i, Done: true}))
	}
}

func gameActions(out []Outgoing, aud communication.Audience) []game.GameAction {
	var actions []game.GameAction
	for _, o := range out {
		if r, ok := o.Report.(communication.ReportGameAction); ok && o.Audience == aud {
			actions = append(actions, r.Action)
		}
	}
	return actions
}

func countReports[T communication.Report](out []Outgoing) int {
	n := 0
	for _, o := range out {
		if _, ok := o.Report.(T); ok {
			n++
		}
	}
	return n
}

func hasNecromancer(g *Game, b *game.Board, side game.Side) bool {
	for _, p := range b.PiecesOf(side) {
		if g.Catalog[p.Name].IsNecromancer {
			return true
		}
	}
	return false
}

func removeNecromancer(g *Game, b *game.Board, side game.Side) {
	for _, p := range b.PiecesOf(side) {
		if g.Catalog[p.Name].IsNecromancer {
			delete(b.Pieces, p.Loc)
		}
	}
}

func TestNewGame(t *testing.T) {
	g := newTestGame(t)

	require.Len(t, g.Boards, 2)
	require.Equal(t, [2]int{3, 3}, g.Mana)
	require.Equal(t, 1, g.Turn)
	require.Equal(t, game.S0, g.Side)
	require.Equal(t, Side0Turn, g.Phase)
	require.Len(t, g.Available, 2)
	require.Empty(t, g.TakeReports())

	for i, b := range g.Boards {
		require.Equal(t, 1, g.Logs[i].Seq())
		require.NotNil(t, g.Logs[i].Entries()[0].Reset)
		for _, side := range game.Sides {
			require.True(t, hasNecromancer(g, b, side))
			require.Equal(t, 2, b.Reinforcements[side]["zombie"])
		}
	}

	s0 := g.Snapshot(game.S0)
	require.Equal(t, "side0_turn", s0.Phase)
	require.Len(t, s0.Upcoming, g.cfg.RevealAhead)
	require.Len(t, s0.Known, len(g.Available)+g.cfg.RevealAhead)
	for _, c := range s0.Upcoming {
		require.NotEmpty(t, c.Name)
	}
	s1 := g.Snapshot(game.S1)
	require.Len(t, s1.Known, g.cfg.RevealAhead)
	for _, c := range s1.Known {
		require.NotContains(t, g.Available, c.ID)
	}

	msg := g.Initialize(game.S1)
	require.Equal(t, []int{1, 1}, msg.BoardSeqs)
	require.Len(t, msg.Boards, 2)
}

func TestNewGameRules(t *testing.T) {
	g := newTestGame(t, func(c *meta.Config) { c.ManaPerGraveyard = 3 })

	for _, b := range g.Boards {
		require.Equal(t, 3, b.Rules.ManaPerGraveyard())
		require.Equal(t, 1, b.Rules.SpellCeiling(0))
	}
}

func TestNewGameConfigErrors(t *testing.T) {
	cfg := meta.Default()
	cfg.Boards = 5
	_, err := NewGame(cfg)
	require.ErrorIs(t, err, game.ErrConfig)

	cfg = meta.Default()
	cfg.TechLine = append(cfg.TechLine, "dragon")
	_, err = NewGame(cfg)
	require.ErrorIs(t, err, game.ErrConfig)
}

func TestPerformTech(t *testing.T) {
	g := newTestGame(t)

	require.NoError(t, g.DoGameAction(game.S0, game.PerformTech{Index: 0}))
	require.Equal(t, Acquired, g.TechStates[game.S0][0])
	require.Equal(t, Unlocked, g.TechStates[game.S1][0])
	require.Equal(t, 3, g.Mana[game.S0], "the first tech of a turn is free")
	require.True(t, g.Unlocked(game.S0, "initiate"))
	require.False(t, g.Unlocked(game.S1, "initiate"))

	t.Run("acquired slot", func(t *testing.T) {
		requireRejected(t, g, game.ErrIllegal, func() error {
			return g.DoGameAction(game.S0, game.PerformTech{Index: 0})
		})
	})
	t.Run("insufficient mana", func(t *testing.T) {
		requireRejected(t, g, game.ErrIllegal, func() error {
			return g.DoGameAction(game.S0, game.PerformTech{Index: 1})
		})
	})
	t.Run("no such slot", func(t *testing.T) {
		requireRejected(t, g, game.ErrIllegal, func() error {
			return g.DoGameAction(game.S0, game.PerformTech{Index: len(g.Techs)})
		})
	})
	t.Run("out of turn", func(t *testing.T) {
		requireRejected(t, g, game.ErrOutOfTurn, func() error {
			return g.DoGameAction(game.S1, game.PerformTech{Index: 1})
		})
	})

	// the second tech is paid per board
	g.Mana[game.S0] = 10
	require.NoError(t, g.DoGameAction(game.S0, game.PerformTech{Index: 1}))
	require.Equal(t, 10-2*g.cfg.TechCostPerBoard, g.Mana[game.S0])

	require.NoError(t, g.DoGameAction(game.S0, game.UndoTech{Index: 1}))
	require.Equal(t, 10, g.Mana[game.S0])
	require.Equal(t, Locked, g.TechStates[game.S0][1])
	require.Equal(t, Locked, g.TechStates[game.S1][1])

	requireRejected(t, g, game.ErrIllegal, func() error {
		return g.DoGameAction(game.S0, game.UndoTech{Index: 1})
	})

	require.NoError(t, g.DoGameAction(game.S0, game.UndoTech{Index: 0}))
	require.Equal(t, Locked, g.TechStates[game.S0][0])
	require.Equal(t, Locked, g.TechStates[game.S1][0])
	require.Equal(t, 0, g.TechsThisTurn)
}

func TestBuyReinforcement(t *testing.T) {
	g := newTestGame(t)
	b := g.Boards[0]

	require.NoError(t, g.DoBoardAction(game.S0, 0, game.BuyReinforcement{Name: "zombie"}))
	require.Equal(t, 1, g.Mana[game.S0])
	require.Equal(t, 3, b.Reinforcements[game.S0]["zombie"])
	out := g.TakeReports()
	require.Equal(t, 1, countReports[communication.ReportBoardAction](out))
	require.Contains(t, gameActions(out, communication.OnlyS1),
		game.GameAction(game.PayForReinforcement{Board: 0, Name: "zombie", Amount: 2}))

	require.NoError(t, g.DoBoardAction(game.S0, 0, game.UndoBuyReinforcement{Name: "zombie"}))
	require.Equal(t, 3, g.Mana[game.S0])
	require.Equal(t, 2, b.Reinforcements[game.S0]["zombie"])
	require.Contains(t, gameActions(g.TakeReports(), communication.OnlyS0),
		game.GameAction(game.UnpayForReinforcement{Board: 0, Name: "zombie", Amount: 2}))

	// LocalUndo refunds the same way
	require.NoError(t, g.DoBoardAction(game.S0, 1, game.BuyReinforcement{Name: "zombie"}))
	require.NoError(t, g.DoBoardAction(game.S0, 1, game.LocalUndo{}))
	require.Equal(t, 3, g.Mana[game.S0])
	require.Equal(t, 2, g.Boards[1].Reinforcements[game.S0]["zombie"])

	t.Run("locked piece", func(t *testing.T) {
		requireRejected(t, g, game.ErrIllegal, func() error {
			return g.DoBoardAction(game.S0, 0, game.BuyReinforcement{Name: "initiate"})
		})
	})
	t.Run("insufficient mana", func(t *testing.T) {
		require.NoError(t, g.DoGameAction(game.S0, game.PerformTech{Index: 0}))
		requireRejected(t, g, game.ErrIllegal, func() error {
			return g.DoBoardAction(game.S0, 0, game.BuyReinforcement{Name: "initiate"})
		})
	})
	t.Run("tech in use cannot be undone", func(t *testing.T) {
		g.Mana[game.S0] = 10
		require.NoError(t, g.DoBoardAction(game.S0, 0, game.BuyReinforcement{Name: "initiate"}))
		requireRejected(t, g, game.ErrIllegal, func() error {
			return g.DoGameAction(game.S0, game.UndoTech{Index: 0})
		})
		require.NoError(t, g.DoBoardAction(game.S0, 0, game.LocalUndo{}))
		require.NoError(t, g.DoGameAction(game.S0, game.UndoTech{Index: 0}))
		require.Equal(t, 10, g.Mana[game.S0])
	})
	t.Run("wrong board", func(t *testing.T) {
		requireRejected(t, g, game.ErrIllegal, func() error {
			return g.DoBoardAction(game.S0, 2, game.BuyReinforcement{Name: "zombie"})
		})
	})
	t.Run("out of turn", func(t *testing.T) {
		requireRejected(t, g, game.ErrOutOfTurn, func() error {
			return g.DoBoardAction(game.S1, 0, game.BuyReinforcement{Name: "zombie"})
		})
	})
}

func TestGainSpell(t *testing.T) {
	g := newTestGame(t)
	id := g.Available[0]

	require.NoError(t, g.DoBoardAction(game.S0, 0, game.GainSpell{Spell: id}))
	require.NotContains(t, g.Available, id)
	require.Equal(t, []game.SpellID{id}, g.Boards[0].Hands[game.S0])
	require.Contains(t, gameActions(g.TakeReports(), communication.OnlyS1),
		game.GameAction(game.ChooseSpell{Board: 0, Spell: id}))

	requireRejected(t, g, game.ErrStale, func() error {
		return g.DoBoardAction(game.S0, 1, game.GainSpell{Spell: id})
	})

	require.NoError(t, g.DoBoardAction(game.S0, 0, game.UndoGainSpell{Spell: id}))
	require.Contains(t, g.Available, id)
	require.Empty(t, g.Boards[0].Hands[game.S0])
}

func TestExtraTechAndSpell(t *testing.T) {
	g := newTestGame(t)
	g.Mana[game.S0] = 10

	require.NoError(t, g.DoGameAction(game.S0, game.BuyExtraTechAndSpell{}))
	require.Equal(t, 10-g.cfg.ExtraTechCost, g.Mana[game.S0])
	require.Equal(t, 1, g.ExtraTechs)
	require.Len(t, g.Available, 3)

	require.NoError(t, g.DoGameAction(game.S0, game.UndoBuyExtraTechAndSpell{}))
	require.Equal(t, 10, g.Mana[game.S0])
	require.Equal(t, 0, g.ExtraTechs)
	require.Len(t, g.Available, 2)

	requireRejected(t, g, game.ErrIllegal, func() error {
		return g.DoGameAction(game.S0, game.UndoBuyExtraTechAndSpell{})
	})

	// two free techs now, using both locks the purchase in
	require.NoError(t, g.DoGameAction(game.S0, game.BuyExtraTechAndSpell{}))
	require.NoError(t, g.DoGameAction(game.S0, game.PerformTech{Index: 0}))
	require.NoError(t, g.DoGameAction(game.S0, game.PerformTech{Index: 1}))
	require.Equal(t, 10-g.cfg.ExtraTechCost, g.Mana[game.S0])
	requireRejected(t, g, game.ErrIllegal, func() error {
		return g.DoGameAction(game.S0, game.UndoBuyExtraTechAndSpell{})
	})
}

func TestExtraTechAfterPaidTech(t *testing.T) {
	g := newTestGame(t)
	g.Mana[game.S0] = 20
	paid := 2 * g.cfg.TechCostPerBoard

	require.NoError(t, g.DoGameAction(game.S0, game.PerformTech{Index: 0}))
	require.NoError(t, g.DoGameAction(game.S0, game.PerformTech{Index: 1}))
	require.Equal(t, 20-paid, g.Mana[game.S0])

	// the purchase still grants a free tech after a paid one
	require.NoError(t, g.DoGameAction(game.S0, game.BuyExtraTechAndSpell{}))
	require.Equal(t, 20-paid-g.cfg.ExtraTechCost, g.Mana[game.S0])
	require.Equal(t, 0, g.techCost())

	require.NoError(t, g.DoGameAction(game.S0, game.UndoBuyExtraTechAndSpell{}))
	require.Equal(t, 20-paid, g.Mana[game.S0])
	require.Equal(t, paid, g.techCost())

	require.NoError(t, g.DoGameAction(game.S0, game.BuyExtraTechAndSpell{}))
	require.NoError(t, g.DoGameAction(game.S0, game.PerformTech{Index: 2}))
	require.Equal(t, 20-paid-g.cfg.ExtraTechCost, g.Mana[game.S0])
	requireRejected(t, g, game.ErrIllegal, func() error {
		return g.DoGameAction(game.S0, game.UndoBuyExtraTechAndSpell{})
	})
}

func TestUndoFreeTechBeforePaidTech(t *testing.T) {
	g := newTestGame(t)
	g.Mana[game.S0] = 10
	paid := 2 * g.cfg.TechCostPerBoard

	require.NoError(t, g.DoGameAction(game.S0, game.PerformTech{Index: 0}))
	require.NoError(t, g.DoGameAction(game.S0, game.PerformTech{Index: 1}))
	require.Equal(t, 10-paid, g.Mana[game.S0])

	// undoing the free tech frees the slot again, so redoing it costs nothing
	require.NoError(t, g.DoGameAction(game.S0, game.UndoTech{Index: 0}))
	require.Equal(t, 10-paid, g.Mana[game.S0])
	require.NoError(t, g.DoGameAction(game.S0, game.PerformTech{Index: 0}))
	require.Equal(t, 10-paid, g.Mana[game.S0])
	require.Equal(t, 2, g.TechsThisTurn)

	require.NoError(t, g.DoGameAction(game.S0, game.UndoTech{Index: 1}))
	require.Equal(t, 10, g.Mana[game.S0])
	require.NoError(t, g.DoGameAction(game.S0, game.UndoTech{Index: 0}))
	require.Equal(t, 10, g.Mana[game.S0])
	require.Equal(t, 0, g.freeTechs)
}

func TestEndTurn(t *testing.T) {
	g := newTestGame(t)

	// an S1 zombie on a graveyard earns S1 mana
	b := g.Boards[0]
	grave := hex.Loc{X: 1, Y: 1}
	require.Equal(t, game.Graveyard, b.Tiles[grave])
	b.Pieces[grave] = []*game.Piece{{Spec: b.NextSpec, Name: "zombie", Side: game.S1, Loc: grave}}
	b.NextSpec++

	want := g.Mana[game.S1]
	for _, b := range g.Boards {
		want += b.ComputeIncome(g.Catalog, game.S1)
	}
	require.Greater(t, want, g.Mana[game.S1])
	g.TakeReports()

	require.NoError(t, g.DoGameAction(game.S0, game.SetBoardDone{Board: 0, Done: true}))
	require.Equal(t, 1, g.Turn, "one board left to finish")
	require.NoError(t, g.DoGameAction(game.S0, game.SetBoardDone{Board: 0, Done: false}))
	require.NoError(t, g.DoGameAction(game.S0, game.SetBoardDone{Board: 0, Done: true}))
	require.NoError(t, g.DoGameAction(game.S0, game.SetBoardDone{Board: 1, Done: true}))

	require.Equal(t, 2, g.Turn)
	require.Equal(t, game.S1, g.Side)
	require.Equal(t, Side1Turn, g.Phase)
	require.Equal(t, want, g.Mana[game.S1])
	require.Equal(t, 3, g.Mana[game.S0])

	// the unused free tech and the unchosen spells were spent automatically
	require.Equal(t, Acquired, g.TechStates[game.S0][0])
	for _, b := range g.Boards {
		require.Len(t, b.Hands[game.S0], 1)
		require.Equal(t, game.S1, b.Side)
		require.False(t, b.Done)
	}
	require.Len(t, g.Available, 2)

	out := g.TakeReports()
	require.Equal(t, 2, countReports[communication.ReportNewTurn](out), "one copy per side")
	for _, a := range gameActions(out, communication.OnlyS0) {
		if up, ok := a.(game.AddUpcomingSpells); ok {
			require.Equal(t, game.S0, up.Side, "upcoming spells go to their owner only")
		}
	}
	require.NotEmpty(t, gameActions(out, communication.OnlyS1))

	t.Run("runs once", func(t *testing.T) {
		requireRejected(t, g, game.ErrOutOfTurn, func() error {
			return g.DoGameAction(game.S0, game.SetBoardDone{Board: 0, Done: true})
		})
		require.NoError(t, g.Timeout(1))
		require.Equal(t, 2, g.Turn)
		require.Empty(t, g.TakeReports())
	})
}

func TestTimeout(t *testing.T) {
	g := newTestGame(t)

	require.NoError(t, g.Timeout(1))
	require.Equal(t, 2, g.Turn)
	require.NoError(t, g.Timeout(1))
	require.Equal(t, 2, g.Turn)
	require.NoError(t, g.Timeout(2))
	require.Equal(t, 3, g.Turn)
	require.Equal(t, game.S0, g.Side)
}

func TestAutoDiscard(t *testing.T) {
	g := newTestGame(t)
	b := g.Boards[0]
	// ceiling is 1 + the necromancer's sorcery
	ceiling := b.SpellCeiling(g.Catalog, game.S0)
	for range ceiling + 1 {
		id := g.newSpell(game.S0)
		b.Hands[game.S0] = append(b.Hands[game.S0], id)
	}
	extra := b.Hands[game.S0][ceiling]
	g.TakeReports()

	finishTurn(t, g)
	require.Len(t, b.Hands[game.S0], ceiling)
	require.Contains(t, b.Spells, extra)

	var revealed []game.SpellCard
	for _, o := range g.TakeReports() {
		if r, ok := o.Report.(communication.ReportRevealSpells); ok {
			require.Equal(t, communication.OnlyS1, o.Audience)
			revealed = append(revealed, r.Spells...)
		}
	}
	require.Contains(t, revealed, game.SpellCard{ID: extra, Name: g.spellNames[extra]})
}

func TestWinAndReset(t *testing.T) {
	g := newTestGame(t)
	removeNecromancer(g, g.Boards[0], game.S1)
	before := g.Logs[0].Seq()

	finishTurn(t, g)
	require.Equal(t, [2]int{1, 0}, g.Wins)
	require.Equal(t, Side1Turn, g.Phase)

	entries := g.Logs[0].Since(before)
	last := entries[len(entries)-1]
	require.NotNil(t, last.Reset)
	for _, side := range game.Sides {
		require.True(t, hasNecromancer(g, g.Boards[0], side))
	}
	// S0 had teched its first slot automatically
	require.Equal(t, 1, g.Boards[0].Reinforcements[game.S0]["initiate"])
	require.Zero(t, g.Boards[0].Reinforcements[game.S1]["initiate"])
}

func TestResign(t *testing.T) {
	g := newTestGame(t)

	// resigning is allowed out of turn
	require.NoError(t, g.DoGameAction(game.S1, game.ResignBoard{Board: 1}))
	require.Equal(t, [2]int{1, 0}, g.Wins)
	out := g.TakeReports()
	require.Equal(t, 1, countReports[communication.ReportResetBoard](out))
	for _, o := range out {
		if r, ok := o.Report.(communication.ReportGameAction); ok {
			require.NotEqual(t, game.KindResignBoard, r.Action.Kind())
		}
	}

	require.ErrorIs(t, g.reportGameAction(communication.Everyone, game.S1, game.ResignBoard{Board: 1}), game.ErrInvariant)

	requireRejected(t, g, game.ErrIllegal, func() error {
		return g.DoGameAction(game.S1, game.ResignBoard{Board: 9})
	})
}

func TestGameOver(t *testing.T) {
	g := newTestGame(t, func(cfg *meta.Config) { cfg.TargetWins = 1 })

	require.NoError(t, g.DoGameAction(game.S0, game.ResignBoard{Board: 0}))
	require.Equal(t, GameOver, g.Phase)
	require.NotNil(t, g.Winner)
	require.Equal(t, game.S1, *g.Winner)
	require.Equal(t, 1, countReports[communication.ReportGameOver](g.TakeReports())/2)

	requireRejected(t, g, game.ErrIllegal, func() error {
		return g.DoGameAction(game.S0, game.PerformTech{Index: 0})
	})
	requireRejected(t, g, game.ErrIllegal, func() error {
		return g.DoBoardAction(game.S0, 0, game.BuyReinforcement{Name: "zombie"})
	})
	require.NoError(t, g.Timeout(g.Turn))
	require.Equal(t, GameOver, g.Phase)
}

func TestServerOnlyActions(t *testing.T) {
	g := newTestGame(t)
	for _, a := range []game.GameAction{
		game.PayForReinforcement{Board: 0, Name: "zombie", Amount: 0},
		game.UnpayForReinforcement{Board: 0, Name: "zombie", Amount: 2},
		game.AddWin{Board: 0, Side: game.S0},
		game.AddUpcomingSpells{Side: game.S0},
		game.ChooseSpell{Board: 0, Spell: g.Available[0]},
		game.UnchooseSpell{Board: 0},
		game.RevealSpells{To: game.S1},
	} {
		t.Run(a.Kind(), func(t *testing.T) {
			requireRejected(t, g, game.ErrIllegal, func() error {
				return g.DoGameAction(game.S0, a)
			})
		})
	}
}

func TestBoardHistory(t *testing.T) {
	g := newTestGame(t)
	require.NoError(t, g.DoBoardAction(game.S0, 0, game.BuyReinforcement{Name: "zombie"}))

	h, err := g.BoardHistory(0)
	require.NoError(t, err)
	require.Equal(t, 2, h.Seq)
	require.Len(t, h.Entries, 2)
	require.Equal(t, game.Action(game.BuyReinforcement{Name: "zombie"}), h.Entries[1].Action)

	_, err = g.BoardHistory(-1)
	require.ErrorIs(t, err, game.ErrIllegal)
}
