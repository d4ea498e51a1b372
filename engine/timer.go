package engine

import (
	"time"

	"github.com/dustin/go-humanize"
)

// turnTimer ends the turn when it runs out and reports the remaining time
// on a fixed interval. It never touches the game: both only enqueue
// commands for the session loop.
type turnTimer struct {
	s        *Session
	turn     int
	deadline time.Time
	after    *time.Timer
	quit     chan struct{}
}

func newTurnTimer(s *Session) *turnTimer {
	return &turnTimer{s: s}
}

// start arms the timer for turn, replacing any earlier turn.
func (t *turnTimer) start(turn int) {
	t.stop()
	t.turn = turn
	if t.s.turnLength <= 0 {
		return
	}
	t.deadline = time.Now().Add(t.s.turnLength)
	t.after = time.AfterFunc(t.s.turnLength, func() {
		t.s.enqueue(&command{act: timeout, turn: turn})
	})
	if t.s.reportRate > 0 {
		quit := make(chan struct{})
		t.quit = quit
		go t.tick(turn, quit)
	}
	t.s.log.Debug().Msgf("%s turn ends in %s", humanize.Ordinal(turn), t.s.turnLength)
}

func (t *turnTimer) tick(turn int, quit <-chan struct{}) {
	ticker := time.NewTicker(t.s.reportRate)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if !t.s.enqueue(&command{act: timeLeft, turn: turn}) {
				return
			}
		case <-quit:
			return
		}
	}
}

func (t *turnTimer) stop() {
	if t.after != nil {
		t.after.Stop()
		t.after = nil
	}
	if t.quit != nil {
		close(t.quit)
		t.quit = nil
	}
}

func (t *turnTimer) remaining() time.Duration {
	if t.deadline.IsZero() {
		return 0
	}
	return max(time.Until(t.deadline), 0)
}
