package gamemaster

import (
	"time"

	"github.com/dustin/go-humanize"

	"hexarena/communication"
	"hexarena/game"
)

func (g *Game) setBoardDone(side game.Side, a game.SetBoardDone) error {
	b, err := g.board(a.Board)
	if err != nil {
		return err
	}
	if b.Side != side {
		return game.OutOfTurnf("board %d is not yours to finish", a.Board)
	}
	if b.Done == a.Done {
		return nil
	}
	b.Done = a.Done
	if a.Done {
		b.ClearUndo()
	}
	if err := g.reportGameAction(communication.Everyone, side, a); err != nil {
		return err
	}
	for _, b := range g.Boards {
		if !b.Done {
			return nil
		}
	}
	return g.endTurn()
}

// resign concedes a board: the opponent scores it and the board is reset.
// The resignation itself is never reported.
func (g *Game) resign(side game.Side, idx int) error {
	if g.Phase == GameOver {
		return game.Illegalf("the game is over")
	}
	if !side.Valid() {
		return game.Illegalf("invalid side %d", side)
	}
	if _, err := g.board(idx); err != nil {
		return err
	}
	g.logger.Info().Msgf("%s resigned board %d", side, idx)
	if err := g.addWin(idx, side.Other()); err != nil {
		return err
	}
	if g.checkGameOver() {
		return nil
	}
	return g.resetBoard(idx)
}

// Timeout ends the turn when the timer for turn fires. A timer of an
// earlier turn is ignored.
func (g *Game) Timeout(turn int) error {
	if g.Phase == GameOver || turn != g.Turn {
		g.logger.Debug().Msgf("ignoring stale timeout of the %s turn", humanize.Ordinal(turn))
		return nil
	}
	g.logger.Info().Msgf("the %s turn timed out", humanize.Ordinal(turn))
	return g.endTurn()
}

// TimeLeft reports the remaining time of the current turn.
func (g *Game) TimeLeft(remaining time.Duration) {
	turn := g.Turn
	g.emit(communication.Everyone, func(seq int) communication.Report {
		return communication.ReportTimeLeft{Seq: seq, Turn: turn, Remaining: remaining}
	})
}

func (g *Game) addWin(idx int, side game.Side) error {
	g.Wins[side]++
	g.logger.Info().Msgf("%s won board %d (%d/%d)", side, idx, g.Wins[side], g.cfg.TargetWins)
	return g.reportGameAction(communication.Everyone, side, game.AddWin{Board: idx, Side: side})
}

func (g *Game) checkGameOver() bool {
	for _, side := range game.Sides {
		if g.Wins[side] >= g.cfg.TargetWins {
			winner := side
			g.Winner = &winner
			g.Phase = GameOver
			wins := g.Wins
			g.emit(communication.Everyone, func(seq int) communication.Report {
				return communication.ReportGameOver{Seq: seq, Winner: winner, Wins: wins}
			})
			g.logger.Info().Msgf("%s wins the game %d to %d", winner, g.Wins[winner], g.Wins[winner.Other()])
			return true
		}
	}
	return false
}

// nextNecromancer deals from side's shuffled pool, reshuffling it when
// empty.
func (g *Game) nextNecromancer(side game.Side) string {
	if len(g.necromancers[side]) == 0 {
		pool := append([]string(nil), g.cfg.Necromancers...)
		g.rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
		g.necromancers[side] = pool
	}
	name := g.necromancers[side][0]
	g.necromancers[side] = g.necromancers[side][1:]
	return name
}

// startingReinforcements are the starter units plus one of every piece
// side has teched.
func (g *Game) startingReinforcements(side game.Side) map[string]int {
	reinf := make(map[string]int)
	for name, n := range g.cfg.StarterUnits {
		if n > 0 {
			reinf[name] = n
		}
	}
	for i, t := range g.Techs {
		if t.Kind == PieceTech && g.TechStates[side][i] == Acquired {
			reinf[t.Piece]++
		}
	}
	return reinf
}

func (g *Game) resetBoard(idx int) error {
	b := g.Boards[idx]
	var necros [2]string
	var reinf [2]map[string]int
	for _, side := range game.Sides {
		necros[side] = g.nextNecromancer(side)
		reinf[side] = g.startingReinforcements(side)
	}
	if err := b.Reset(g.Catalog, necros, reinf); err != nil {
		return err
	}
	summary := b.Summary()
	e := g.Logs[idx].AppendReset(g.Turn, game.ResetInfo{Necromancers: necros, Summary: summary})
	g.push(communication.Everyone, communication.ReportResetBoard{Board: idx, Seq: e.Seq, Summary: summary})
	g.logger.Debug().Msgf("board %d reset on %s: %s vs %s", idx, b.Layout.Name, necros[game.S0], necros[game.S1])
	return nil
}

// endTurn closes the turn of g.Side on every board and hands the game to
// the other side. It runs once per turn.
func (g *Game) endTurn() error {
	ending := g.Side
	incoming := ending.Other()
	won := make(map[int]bool)

	for idx, b := range g.Boards {
		if w, ok := b.Winner(g.Catalog); ok && w == ending {
			won[idx] = true
			if err := g.addWin(idx, w); err != nil {
				return err
			}
		}
	}

	for _, b := range g.Boards {
		income := b.ComputeIncome(g.Catalog, incoming)
		b.Income[incoming] = income
		g.Mana[incoming] += income
	}

	g.autoTech(ending)
	if err := g.autoChoose(ending); err != nil {
		return err
	}
	g.autoDiscard(ending)

	for _, b := range g.Boards {
		b.EndTurn(g.Catalog)
	}
	finished := g.Turn
	g.Turn++
	g.Side = incoming
	g.Phase = phaseOf(incoming)

	g.returnAvailable(ending)
	g.TechsThisTurn = 0
	g.freeTechs = 0
	g.ExtraTechs = 0
	g.performed = nil
	g.extraSpells = nil
	g.bought = make(map[string]int)
	for _, side := range game.Sides {
		g.refill(side)
	}
	g.draw(incoming, len(g.Boards))
	for _, side := range game.Sides {
		g.showUpcoming(side)
	}

	for idx, b := range g.Boards {
		if won[idx] {
			continue
		}
		if w, ok := b.Winner(g.Catalog); ok {
			won[idx] = true
			if err := g.addWin(idx, w); err != nil {
				return err
			}
		}
	}
	if g.checkGameOver() {
		return nil
	}
	for idx := range g.Boards {
		if !won[idx] {
			continue
		}
		if err := g.resetBoard(idx); err != nil {
			return err
		}
	}

	turn, side, mana := g.Turn, g.Side, g.Mana
	g.emit(communication.Everyone, func(seq int) communication.Report {
		return communication.ReportNewTurn{Seq: seq, Turn: turn, Side: side, Mana: mana}
	})
	g.logger.Info().Msgf("%s turn over, %s turn for %s with mana %v and wins %v",
		humanize.Ordinal(finished), humanize.Ordinal(g.Turn), side, g.Mana, g.Wins)
	for idx, b := range g.Boards {
		g.logger.Debug().Msgf("board %d score for %s: %.2f", idx, side, b.Score(g.Catalog, side))
	}
	return nil
}
