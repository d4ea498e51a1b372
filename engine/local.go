package engine

import (
	"context"
	"slices"

	"hexarena/communication"
	"hexarena/game"
	"hexarena/gamemaster"
)

type subscriber struct {
	side game.Side
	init communication.Initialize
	ch   chan communication.Report
}

// Run processes commands until ctx is cancelled or the game hits a fatal
// error, which is returned.
func (s *Session) Run(ctx context.Context) error {
	s.timer = newTurnTimer(s)
	defer s.shutdown()

	s.log.Info().Msg("session started")
	s.timer.start(s.game.Turn)
	for {
		select {
		case <-ctx.Done():
			s.err = ctx.Err()
			return s.err
		case c := <-s.inbox:
			if err := s.handle(c); err != nil {
				s.log.Error().Err(err).Msg("session stopped")
				s.err = err
				return err
			}
		}
	}
}

func (s *Session) shutdown() {
	s.timer.stop()
	close(s.done)
	for _, sub := range s.subs {
		close(sub.ch)
	}
	s.subs = nil
}

// handle runs one command. Only fatal errors are returned; every other
// error goes back to the caller.
func (s *Session) handle(c *command) error {
	switch c.act {
	case doBoard:
		return s.apply(c, func() error {
			return s.game.DoBoardAction(c.side, c.board, c.boardAction)
		})
	case doGame:
		return s.apply(c, func() error {
			return s.game.DoGameAction(c.side, c.gameAction)
		})
	case history:
		h, err := s.game.BoardHistory(c.board)
		c.rez <- reply{val: h, err: err}
	case subscribe:
		if !c.side.Valid() {
			c.rez <- reply{err: game.Illegalf("invalid side %d", c.side)}
			return nil
		}
		sub := &subscriber{
			side: c.side,
			init: s.game.Initialize(c.side),
			ch:   make(chan communication.Report, s.subBuffer),
		}
		s.subs = append(s.subs, sub)
		s.log.Debug().Msgf("%s subscribed", c.side)
		c.rez <- reply{val: sub}
	case snapshot:
		if !c.side.Valid() {
			c.rez <- reply{err: game.Illegalf("invalid side %d", c.side)}
			return nil
		}
		c.rez <- reply{val: s.game.Initialize(c.side)}
	case timeout:
		return s.commit(s.game.Timeout(c.turn))
	case timeLeft:
		if c.turn == s.game.Turn && s.game.Phase != gamemaster.GameOver {
			s.game.TimeLeft(s.timer.remaining())
			s.flush()
		}
	default:
		err := game.Invariantf("unknown session command %d", c.act)
		if c.rez != nil {
			c.rez <- reply{err: err}
		}
		return err
	}
	return nil
}

// apply runs an idempotency-tagged intent, answering repeats from cache.
func (s *Session) apply(c *command, do func() error) error {
	key := resultKey{side: c.side, id: c.id}
	if c.id != "" {
		if err, ok := s.results[key]; ok {
			s.log.Debug().Msgf("answering repeated action %s of %s from cache", c.id, c.side)
			c.rez <- reply{err: err}
			return nil
		}
	}
	err := do()
	if c.id != "" {
		s.results[key] = err
	}
	if err != nil && !game.IsFatal(err) {
		s.log.Debug().Err(err).Msgf("rejected action of %s", c.side)
	}
	fatal := s.commit(err)
	c.rez <- reply{err: err}
	return fatal
}

// commit broadcasts what the game committed and follows the turn with the
// timer.
func (s *Session) commit(err error) error {
	s.flush()
	if game.IsFatal(err) {
		return err
	}
	switch {
	case s.game.Phase == gamemaster.GameOver:
		s.timer.stop()
	case s.game.Turn != s.timer.turn:
		s.timer.start(s.game.Turn)
	}
	return nil
}

// flush delivers committed reports in order. A subscriber whose buffer is
// full is dropped.
func (s *Session) flush() {
	for _, o := range s.game.TakeReports() {
		s.subs = slices.DeleteFunc(s.subs, func(sub *subscriber) bool {
			if !o.Audience.Includes(sub.side) {
				return false
			}
			select {
			case sub.ch <- o.Report:
				return false
			default:
				s.log.Warn().Msgf("dropping slow subscriber of %s", sub.side)
				close(sub.ch)
				return true
			}
		})
	}
}
