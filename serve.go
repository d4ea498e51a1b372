package main

import (
	"context"
	"errors"
	"io"

	"github.com/rs/zerolog/log"

	"hexarena/communication"
	"hexarena/engine"
	"hexarena/game"
)

type session interface {
	DoBoardAction(ctx context.Context, m communication.DoBoardAction) error
	DoGameAction(ctx context.Context, m communication.DoGameAction) error
	BoardHistory(ctx context.Context, board int) (communication.BoardHistory, error)
	Subscribe(ctx context.Context, side game.Side) (communication.Initialize, <-chan communication.Report, error)
}

// serve answers intents from t until the client hangs up or the session
// closes. Every intent gets exactly one answer.
func serve(ctx context.Context, s session, t communication.Transport) error {
	for {
		msg, err := t.Receive(ctx)
		switch {
		case errors.Is(err, io.EOF):
			log.Info().Msg("client gone")
			return nil
		case errors.Is(err, communication.ErrMalformed):
			log.Warn().Err(err).Msg("skipping message")
			if err := t.Send(communication.ResultOf("", err)); err != nil {
				return err
			}
			continue
		case err != nil:
			return err
		}
		if err := dispatch(ctx, s, t, msg); err != nil {
			return err
		}
	}
}

func dispatch(ctx context.Context, s session, t communication.Transport, msg any) error {
	switch m := msg.(type) {
	case communication.DoBoardAction:
		err := s.DoBoardAction(ctx, m)
		if closed(err) {
			return err
		}
		return t.Send(communication.ResultOf(m.ActionID, err))
	case communication.DoGameAction:
		err := s.DoGameAction(ctx, m)
		if closed(err) {
			return err
		}
		return t.Send(communication.ResultOf(m.ActionID, err))
	case communication.RequestBoardHistory:
		h, err := s.BoardHistory(ctx, m.Board)
		if err != nil {
			if closed(err) {
				return err
			}
			return t.Send(communication.ResultOf("", err))
		}
		return t.Send(h)
	case communication.Subscribe:
		state, ch, err := s.Subscribe(ctx, m.Side)
		if err != nil {
			if closed(err) {
				return err
			}
			return t.Send(communication.ResultOf("", err))
		}
		if err := t.Send(state); err != nil {
			return err
		}
		go forward(t, ch)
		return nil
	}
	return t.Send(communication.ResultOf("", game.Invariantf("unhandled intent %T", msg)))
}

func closed(err error) bool {
	return errors.Is(err, engine.ErrSessionClosed) || errors.Is(err, context.Canceled)
}

// forward relays a subscription until it closes.
func forward(t communication.Transport, ch <-chan communication.Report) {
	for r := range ch {
		if err := t.Send(r); err != nil {
			log.Warn().Err(err).Msg("stop forwarding reports")
			return
		}
	}
}
