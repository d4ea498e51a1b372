package communication

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"hexarena/game"
	"hexarena/hex"
)

func TestAudience(t *testing.T) {
	require.True(t, Everyone.Includes(game.S0))
	require.True(t, Everyone.Includes(game.S1))
	require.True(t, To(game.S0).Includes(game.S0))
	require.False(t, To(game.S0).Includes(game.S1))
	require.True(t, To(game.S1).Includes(game.S1))
	require.False(t, OnlyS1.Includes(game.S0))
}

func TestIntentRoundTrip(t *testing.T) {
	board := DoBoardAction{
		ActionID: "m1",
		Side:     game.S1,
		Board:    2,
		Action: game.Movements{Moves: []game.Movement{
			{Piece: 4, Path: []hex.Loc{{X: 1, Y: 2}, {X: 2, Y: 2}}},
		}},
	}
	data, err := EncodeIntent(board)
	require.NoError(t, err)
	got, err := DecodeIntent(data)
	require.NoError(t, err)
	require.Equal(t, board, got)

	tech := DoGameAction{ActionID: "t", Side: game.S0, Action: game.PerformTech{Index: 3}}
	data, err = EncodeIntent(tech)
	require.NoError(t, err)
	got, err = DecodeIntent(data)
	require.NoError(t, err)
	require.Equal(t, tech, got)
}

func TestDecodeIntentWire(t *testing.T) {
	got, err := DecodeIntent([]byte(`{"type":"do_board_action","action_id":"x","side":0,"board":1,"action":{"kind":"spawn","loc":{"x":3,"y":4},"name":"zombie"}}`))
	require.NoError(t, err)
	require.Equal(t, DoBoardAction{
		ActionID: "x",
		Side:     game.S0,
		Board:    1,
		Action:   game.Spawn{Loc: hex.Loc{X: 3, Y: 4}, Name: "zombie"},
	}, got)

	got, err = DecodeIntent([]byte(`{"type":"subscribe","side":1}`))
	require.NoError(t, err)
	require.Equal(t, Subscribe{Side: game.S1}, got)
}

func TestDecodeIntentErrors(t *testing.T) {
	_, err := DecodeIntent([]byte(`{"type":"shout"}`))
	require.ErrorIs(t, err, ErrUnknownType)

	_, err = DecodeIntent([]byte(`{"type":"do_board_action","action":{"kind":"fly"}}`))
	require.ErrorIs(t, err, ErrUnknownType)

	_, err = DecodeIntent([]byte(`{"type":`))
	require.Error(t, err)
	require.False(t, errors.Is(err, ErrUnknownType))
}

func TestEncodeReport(t *testing.T) {
	data, err := EncodeReport(ReportGameAction{Seq: 3, Action: game.PayForReinforcement{Board: 1, Name: "bat", Amount: 4}})
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(data, &fields))
	require.Equal(t, "report_game_action", fields["type"])
	action := fields["action"].(map[string]any)
	require.Equal(t, "pay_for_reinforcement", action["kind"])
	require.Equal(t, "bat", action["name"])
}

func TestResultOf(t *testing.T) {
	require.Equal(t, Result{ActionID: "a", OK: true}, ResultOf("a", nil))

	res := ResultOf("b", game.Illegalf("no mana"))
	require.False(t, res.OK)
	require.Equal(t, "illegal_action", res.Error.Kind)
	require.Equal(t, "b", res.ActionID)

	res = ResultOf("", io.ErrUnexpectedEOF)
	require.Equal(t, "error", res.Error.Kind)
}

func TestStream(t *testing.T) {
	in := strings.NewReader(`{"type":"request_board_history","board":1}

not json
{"type":"subscribe","side":0}
`)
	var out bytes.Buffer
	s := NewStream(in, &out)
	ctx := context.Background()

	msg, err := s.Receive(ctx)
	require.NoError(t, err)
	require.Equal(t, RequestBoardHistory{Board: 1}, msg)

	_, err = s.Receive(ctx)
	require.ErrorIs(t, err, ErrMalformed)

	msg, err = s.Receive(ctx)
	require.NoError(t, err)
	require.Equal(t, Subscribe{Side: game.S0}, msg)

	_, err = s.Receive(ctx)
	require.ErrorIs(t, err, io.EOF)

	require.NoError(t, s.Send(ResultOf("z", nil)))
	require.Equal(t, "{\"action_id\":\"z\",\"ok\":true,\"type\":\"result\"}\n", out.String())
}

func TestStreamCancelled(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()
	s := NewStream(r, io.Discard)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.Receive(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
