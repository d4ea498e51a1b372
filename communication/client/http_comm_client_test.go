package client

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"hexarena/communication"
	"hexarena/communication/server"
	"hexarena/engine"
	"hexarena/game"
	"hexarena/meta"
)

func newClient(t *testing.T) *ClientCommunicator {
	t.Helper()
	cfg := meta.Default()
	cfg.Seed = 11
	cfg.TurnSeconds = 0
	cfg.TimeReportSeconds = 0
	s, err := engine.NewSession(cfg)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	go s.Run(ctx)
	srv := httptest.NewServer(server.NewServerCommunicator(s).Handler())
	t.Cleanup(func() {
		srv.Close()
		cancel()
		<-s.Done()
	})
	return NewClientCommunicator(srv.URL)
}

func TestGetGameState(t *testing.T) {
	cc := newClient(t)
	ctx := context.Background()

	state, err := cc.GetGameState(ctx, game.S1)
	require.NoError(t, err)
	require.Equal(t, game.S1, state.Game.Viewer)
	require.Equal(t, game.S0, state.Game.Side)
	require.Equal(t, 1, state.Game.Turn)
	require.Len(t, state.Boards, 2)

	_, err = cc.GetGameState(ctx, game.Side(4))
	require.ErrorContains(t, err, "illegal_action")
}

func TestSendIntent(t *testing.T) {
	cc := newClient(t)
	ctx := context.Background()

	res, err := cc.SendIntent(ctx, communication.DoBoardAction{
		ActionID: "b1",
		Side:     game.S0,
		Board:    0,
		Action:   game.BuyReinforcement{Name: "zombie"},
	})
	require.NoError(t, err)
	require.True(t, res.OK)
	require.Equal(t, "b1", res.ActionID)

	res, err = cc.SendIntent(ctx, communication.DoBoardAction{
		ActionID: "b2",
		Side:     game.S1,
		Board:    0,
		Action:   game.BuyReinforcement{Name: "zombie"},
	})
	require.NoError(t, err)
	require.False(t, res.OK)
	require.Equal(t, "out_of_turn", res.Error.Kind)

	state, err := cc.GetGameState(ctx, game.S0)
	require.NoError(t, err)
	require.Equal(t, 1, state.Game.Mana[game.S0])

	h, err := cc.GetBoardHistory(ctx, 0)
	require.NoError(t, err)
	require.Equal(t, 0, h.Board)
	require.Equal(t, 2, h.Seq)

	_, err = cc.GetBoardHistory(ctx, 5)
	require.ErrorContains(t, err, "illegal_action")
}

func TestSubscribeNotServed(t *testing.T) {
	cc := newClient(t)

	res, err := cc.SendIntent(context.Background(), communication.Subscribe{Side: game.S0})
	require.NoError(t, err)
	require.False(t, res.OK)
	require.NotNil(t, res.Error)
}
