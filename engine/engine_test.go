package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"hexarena/communication"
	"hexarena/game"
	"hexarena/meta"
)

const wait = 5 * time.Second

func newSession(t *testing.T) *Session {
	t.Helper()
	cfg := meta.Default()
	cfg.Seed = 3
	cfg.TurnSeconds = 0
	cfg.TimeReportSeconds = 0
	s, err := NewSession(cfg)
	require.NoError(t, err)
	return s
}

// run starts the loop and returns the channel its result arrives on.
func run(t *testing.T, s *Session) <-chan error {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- s.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-s.Done()
	})
	return errc
}

func next(t *testing.T, ch <-chan communication.Report) communication.Report {
	t.Helper()
	select {
	case r, ok := <-ch:
		require.True(t, ok, "subscription closed")
		return r
	case <-time.After(wait):
		require.FailNow(t, "no report")
		return nil
	}
}

func buy(side game.Side, id string) communication.DoBoardAction {
	return communication.DoBoardAction{
		ActionID: id,
		Side:     side,
		Board:    0,
		Action:   game.BuyReinforcement{Name: "zombie"},
	}
}

func TestNewSessionConfigError(t *testing.T) {
	cfg := meta.Default()
	cfg.TargetWins = 0
	_, err := NewSession(cfg)
	require.ErrorIs(t, err, game.ErrConfig)
}

func TestSubscribeAndBroadcast(t *testing.T) {
	s := newSession(t)
	run(t, s)
	ctx := context.Background()

	init0, ch0, err := s.Subscribe(ctx, game.S0)
	require.NoError(t, err)
	require.Equal(t, game.S0, init0.Game.Viewer)
	require.Equal(t, 1, init0.Game.Turn)
	require.Len(t, init0.Boards, 2)
	_, ch1, err := s.Subscribe(ctx, game.S1)
	require.NoError(t, err)

	require.NoError(t, s.DoBoardAction(ctx, buy(game.S0, "a1")))

	for _, ch := range []<-chan communication.Report{ch0, ch1} {
		r, ok := next(t, ch).(communication.ReportBoardAction)
		require.True(t, ok)
		require.Equal(t, 2, r.Seq)
		require.Equal(t, game.Action(game.BuyReinforcement{Name: "zombie"}), r.Action)

		g, ok := next(t, ch).(communication.ReportGameAction)
		require.True(t, ok)
		require.Equal(t, game.GameAction(game.PayForReinforcement{Board: 0, Name: "zombie", Amount: 2}), g.Action)
	}

	_, _, err = s.Subscribe(ctx, game.Side(5))
	require.ErrorIs(t, err, game.ErrIllegal)
}

func TestRepeatedActionID(t *testing.T) {
	s := newSession(t)
	run(t, s)
	ctx := context.Background()

	require.NoError(t, s.DoBoardAction(ctx, buy(game.S0, "a1")))
	require.NoError(t, s.DoBoardAction(ctx, buy(game.S0, "a1")))

	snap, _, err := s.Subscribe(ctx, game.S1)
	require.NoError(t, err)
	require.Equal(t, 1, snap.Game.Mana[game.S0], "the retry was not applied again")
	require.Equal(t, 3, snap.Boards[0].Reinforcements[game.S0]["zombie"])

	// a rejection is cached the same way
	err = s.DoBoardAction(ctx, buy(game.S0, "a2"))
	require.ErrorIs(t, err, game.ErrIllegal)
	err = s.DoBoardAction(ctx, buy(game.S0, "a2"))
	require.ErrorIs(t, err, game.ErrIllegal)

	// ids are per side
	err = s.DoBoardAction(ctx, buy(game.S1, "a1"))
	require.ErrorIs(t, err, game.ErrOutOfTurn)
}

func TestServerOnlyIntent(t *testing.T) {
	s := newSession(t)
	run(t, s)

	err := s.DoGameAction(context.Background(), communication.DoGameAction{
		ActionID: "w",
		Side:     game.S0,
		Action:   game.AddWin{Board: 0, Side: game.S0},
	})
	require.ErrorIs(t, err, game.ErrIllegal)
}

func TestSessionBoardHistory(t *testing.T) {
	s := newSession(t)
	run(t, s)
	ctx := context.Background()

	require.NoError(t, s.DoBoardAction(ctx, buy(game.S0, "")))
	h, err := s.BoardHistory(ctx, 0)
	require.NoError(t, err)
	require.Equal(t, 2, h.Seq)
	require.NotNil(t, h.Entries[0].Reset)

	_, err = s.BoardHistory(ctx, 7)
	require.ErrorIs(t, err, game.ErrIllegal)
}

func TestTurnTimer(t *testing.T) {
	s := newSession(t)
	s.turnLength = 100 * time.Millisecond
	s.reportRate = 10 * time.Millisecond
	run(t, s)

	_, ch, err := s.Subscribe(context.Background(), game.S1)
	require.NoError(t, err)

	ticks := 0
	deadline := time.After(wait)
	for {
		select {
		case r, ok := <-ch:
			require.True(t, ok)
			switch r := r.(type) {
			case communication.ReportTimeLeft:
				require.Equal(t, 1, r.Turn)
				ticks++
			case communication.ReportNewTurn:
				require.Equal(t, 2, r.Turn)
				require.Equal(t, game.S1, r.Side)
				require.Positive(t, ticks)
				return
			}
		case <-deadline:
			require.FailNow(t, "turn never timed out")
		}
	}
}

func TestFatalErrorStopsSession(t *testing.T) {
	s := newSession(t)
	errc := run(t, s)
	ctx := context.Background()

	_, ch, err := s.Subscribe(ctx, game.S0)
	require.NoError(t, err)

	s.inbox <- &command{act: action(99)}
	select {
	case err := <-errc:
		require.ErrorIs(t, err, game.ErrInvariant)
	case <-time.After(wait):
		require.FailNow(t, "session kept running")
	}

	err = s.DoBoardAction(ctx, buy(game.S0, "late"))
	require.ErrorIs(t, err, ErrSessionClosed)
	require.ErrorIs(t, err, game.ErrInvariant)

	_, ok := <-ch
	require.False(t, ok)
}

func TestSlowSubscriberDropped(t *testing.T) {
	s := newSession(t)
	s.subBuffer = 1
	run(t, s)
	ctx := context.Background()

	_, ch, err := s.Subscribe(ctx, game.S1)
	require.NoError(t, err)
	require.NoError(t, s.DoBoardAction(ctx, buy(game.S0, "")))

	received := 0
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				require.Equal(t, 1, received)
				return
			}
			received++
		case <-time.After(wait):
			require.FailNow(t, "slow subscriber was kept")
		}
	}
}

func TestCancelledContext(t *testing.T) {
	s := newSession(t)
	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- s.Run(ctx) }()
	cancel()

	require.True(t, errors.Is(<-errc, context.Canceled))
	err := s.DoGameAction(context.Background(), communication.DoGameAction{Side: game.S0, Action: game.PerformTech{Index: 0}})
	require.ErrorIs(t, err, ErrSessionClosed)
}
