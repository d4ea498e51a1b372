package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"hexarena/communication"
	"hexarena/game"
)

// ClientCommunicator talks to a ServerCommunicator.
type ClientCommunicator struct {
	serverURL string
	http      *http.Client
}

// NewClientCommunicator initializes and returns a new ClientCommunicator.
func NewClientCommunicator(serverURL string) *ClientCommunicator {
	return &ClientCommunicator{serverURL: serverURL, http: http.DefaultClient}
}

// SendIntent posts a board or game action and returns the server's answer.
// A rejected action is a Result with OK unset, not an error.
func (cc *ClientCommunicator) SendIntent(ctx context.Context, intent any) (communication.Result, error) {
	var res communication.Result
	err := cc.post(ctx, intent, &res)
	return res, err
}

// GetBoardHistory fetches the committed log of one board. Entries are not
// decoded; Seq tells how far the log reaches.
func (cc *ClientCommunicator) GetBoardHistory(ctx context.Context, board int) (communication.BoardHistory, error) {
	var h communication.BoardHistory
	err := cc.post(ctx, communication.RequestBoardHistory{Board: board}, &h)
	return h, err
}

// GetGameState fetches the game as side sees it.
func (cc *ClientCommunicator) GetGameState(ctx context.Context, side game.Side) (communication.Initialize, error) {
	var state communication.Initialize
	url := fmt.Sprintf("%s/getGameState?side=%d", cc.serverURL, side)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return state, err
	}
	err = cc.do(req, &state)
	return state, err
}

func (cc *ClientCommunicator) post(ctx context.Context, intent any, into any) error {
	data, err := communication.EncodeIntent(intent)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cc.serverURL+"/sendIntent", bytes.NewBuffer(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return cc.do(req, into)
}

// do sends req and decodes the body into into. Errors the server answered
// with a Result come back as an error carrying its kind and reason.
func (cc *ClientCommunicator) do(req *http.Request, into any) error {
	resp, err := cc.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var raw json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	var head struct {
		Type  string                   `json:"type"`
		Error *communication.ErrorInfo `json:"error"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if _, wantResult := into.(*communication.Result); !wantResult && head.Type == "result" {
		if head.Error != nil {
			return fmt.Errorf("server: %s: %s", head.Error.Kind, head.Error.Reason)
		}
		return fmt.Errorf("server answered with an empty result")
	}
	if resp.StatusCode != http.StatusOK && head.Type != "result" {
		return fmt.Errorf("server: %s", resp.Status)
	}
	return json.Unmarshal(raw, into)
}
