package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"hexarena/communication"
	"hexarena/game"
	"hexarena/gamemaster"
	"hexarena/meta"
)

// ErrSessionClosed is returned by every call made after the session loop
// stopped. The cause is wrapped along with it.
var ErrSessionClosed = errors.New("session closed")

// action is a type with the command values of a Session.
type action int

const (
	doBoard   action = iota // apply a board action
	doGame                  // apply a game action
	history                 // read a board log
	subscribe               // add a report subscriber
	snapshot                // read the game as one side sees it
	timeout                 // the turn timer fired
	timeLeft                // report the remaining turn time
)

// command is one request to the session loop.
type command struct {
	act         action
	id          string
	side        game.Side
	board       int
	boardAction game.Action
	gameAction  game.GameAction
	turn        int
	rez         chan<- reply
}

type reply struct {
	val any
	err error
}

type resultKey struct {
	side game.Side
	id   string
}

// Session serializes every intent of one game onto a single goroutine. All
// game state is owned by that goroutine; the exported methods only exchange
// commands with it.
type Session struct {
	id    string
	log   zerolog.Logger
	game  *gamemaster.Game
	inbox chan *command
	done  chan struct{}
	err   error

	results    map[resultKey]error
	subs       []*subscriber
	subBuffer  int
	turnLength time.Duration
	reportRate time.Duration
	timer      *turnTimer
}

// NewSession creates the game described by cfg. A bad config yields a
// ConfigurationError.
func NewSession(cfg *meta.Config) (*Session, error) {
	g, err := gamemaster.NewGame(cfg)
	if err != nil {
		return nil, err
	}
	id := uuid.NewString()
	s := &Session{
		id:         id,
		log:        log.With().Str("session", id).Logger(),
		game:       g,
		inbox:      make(chan *command, meta.INBOX_SIZE),
		done:       make(chan struct{}),
		results:    make(map[resultKey]error),
		subBuffer:  meta.SUBSCRIBER_BUFFER,
		turnLength: cfg.TurnDuration(),
		reportRate: cfg.TimeReportInterval(),
	}
	g.SetLogger(s.log)
	s.log.Info().Msgf("new session with %d boards, first to %d wins", cfg.Boards, cfg.TargetWins)
	return s, nil
}

func (s *Session) ID() string {
	return s.id
}

// Done is closed once the session loop has stopped.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

func (s *Session) closedErr() error {
	return fmt.Errorf("%w: %w", ErrSessionClosed, s.err)
}

// enqueue hands a command to the loop without blocking past its end.
func (s *Session) enqueue(c *command) bool {
	select {
	case s.inbox <- c:
		return true
	case <-s.done:
		return false
	}
}

func (s *Session) call(ctx context.Context, c *command) (any, error) {
	rez := make(chan reply, 1)
	c.rez = rez
	select {
	case s.inbox <- c:
	case <-s.done:
		return nil, s.closedErr()
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	select {
	case r := <-rez:
		return r.val, r.err
	case <-s.done:
		// the command that stopped the loop still gets its answer
		select {
		case r := <-rez:
			return r.val, r.err
		default:
			return nil, s.closedErr()
		}
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// DoBoardAction applies one board action. A repeated (Side, ActionID)
// returns the first result.
func (s *Session) DoBoardAction(ctx context.Context, m communication.DoBoardAction) error {
	_, err := s.call(ctx, &command{act: doBoard, id: m.ActionID, side: m.Side, board: m.Board, boardAction: m.Action})
	return err
}

// DoGameAction applies one client game action. A repeated (Side, ActionID)
// returns the first result.
func (s *Session) DoGameAction(ctx context.Context, m communication.DoGameAction) error {
	_, err := s.call(ctx, &command{act: doGame, id: m.ActionID, side: m.Side, gameAction: m.Action})
	return err
}

// BoardHistory returns the committed log of one board.
func (s *Session) BoardHistory(ctx context.Context, board int) (communication.BoardHistory, error) {
	val, err := s.call(ctx, &command{act: history, board: board})
	if err != nil {
		return communication.BoardHistory{}, err
	}
	return val.(communication.BoardHistory), nil
}

// Subscribe returns the game as side sees it now and the channel its later
// reports arrive on, in commit order. The channel is closed when the
// session ends or the subscriber falls too far behind.
func (s *Session) Subscribe(ctx context.Context, side game.Side) (communication.Initialize, <-chan communication.Report, error) {
	val, err := s.call(ctx, &command{act: subscribe, side: side})
	if err != nil {
		return communication.Initialize{}, nil, err
	}
	sub := val.(*subscriber)
	return sub.init, sub.ch, nil
}

// Snapshot returns the game as side sees it now, without subscribing.
func (s *Session) Snapshot(ctx context.Context, side game.Side) (communication.Initialize, error) {
	val, err := s.call(ctx, &command{act: snapshot, side: side})
	if err != nil {
		return communication.Initialize{}, err
	}
	return val.(communication.Initialize), nil
}
