package communication

import (
	"encoding/json"
	"errors"
	"fmt"

	"hexarena/game"
)

// ErrUnknownType is returned for messages and actions with an unknown tag.
var ErrUnknownType = errors.New("unknown message type")

// Intent tags.
const (
	TypeDoBoardAction       = "do_board_action"
	TypeDoGameAction        = "do_game_action"
	TypeRequestBoardHistory = "request_board_history"
	TypeSubscribe           = "subscribe"
)

type kinded interface {
	Kind() string
}

// tagged marshals v as a JSON object and adds extra fields to it.
func tagged(v any, extra map[string]any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	for k, x := range extra {
		b, err := json.Marshal(x)
		if err != nil {
			return nil, err
		}
		fields[k] = b
	}
	return json.Marshal(fields)
}

// EncodeAction encodes a board or game action with its "kind" tag.
func EncodeAction(a kinded) (json.RawMessage, error) {
	if a == nil {
		return json.RawMessage("null"), nil
	}
	return tagged(a, map[string]any{"kind": a.Kind()})
}

func actionKind(raw json.RawMessage) (string, error) {
	var head struct {
		Kind string `json:"kind"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return "", fmt.Errorf("decode action: %w", err)
	}
	return head.Kind, nil
}

func decodeAs[T any](raw json.RawMessage) (T, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, fmt.Errorf("decode action: %w", err)
	}
	return v, nil
}

// DecodeBoardAction decodes a tagged board action.
func DecodeBoardAction(raw json.RawMessage) (game.Action, error) {
	kind, err := actionKind(raw)
	if err != nil {
		return nil, err
	}
	switch kind {
	case game.KindMovements:
		return decodeAs[game.Movements](raw)
	case game.KindAttack:
		return decodeAs[game.Attack](raw)
	case game.KindSpawn:
		return decodeAs[game.Spawn](raw)
	case game.KindActivateAbility:
		return decodeAs[game.ActivateAbility](raw)
	case game.KindBlink:
		return decodeAs[game.Blink](raw)
	case game.KindActivateTile:
		return decodeAs[game.ActivateTile](raw)
	case game.KindPlaySpell:
		return decodeAs[game.PlaySpell](raw)
	case game.KindDiscardSpell:
		return decodeAs[game.DiscardSpell](raw)
	case game.KindBuyReinforcement:
		return decodeAs[game.BuyReinforcement](raw)
	case game.KindUndoBuyReinforcement:
		return decodeAs[game.UndoBuyReinforcement](raw)
	case game.KindGainSpell:
		return decodeAs[game.GainSpell](raw)
	case game.KindUndoGainSpell:
		return decodeAs[game.UndoGainSpell](raw)
	case game.KindLocalUndo:
		return game.LocalUndo{}, nil
	}
	return nil, fmt.Errorf("board action %q: %w", kind, ErrUnknownType)
}

// DecodeGameAction decodes a tagged game action. Server-only kinds decode
// too; rejecting them is up to the game.
func DecodeGameAction(raw json.RawMessage) (game.GameAction, error) {
	kind, err := actionKind(raw)
	if err != nil {
		return nil, err
	}
	switch kind {
	case game.KindPerformTech:
		return decodeAs[game.PerformTech](raw)
	case game.KindUndoTech:
		return decodeAs[game.UndoTech](raw)
	case game.KindSetBoardDone:
		return decodeAs[game.SetBoardDone](raw)
	case game.KindResignBoard:
		return decodeAs[game.ResignBoard](raw)
	case game.KindBuyExtraTechAndSpell:
		return game.BuyExtraTechAndSpell{}, nil
	case game.KindUndoBuyExtraTechAndSpell:
		return game.UndoBuyExtraTechAndSpell{}, nil
	case game.KindPayForReinforcement:
		return decodeAs[game.PayForReinforcement](raw)
	case game.KindUnpayForReinforcement:
		return decodeAs[game.UnpayForReinforcement](raw)
	case game.KindAddWin:
		return decodeAs[game.AddWin](raw)
	case game.KindAddUpcomingSpells:
		return decodeAs[game.AddUpcomingSpells](raw)
	case game.KindChooseSpell:
		return decodeAs[game.ChooseSpell](raw)
	case game.KindUnchooseSpell:
		return decodeAs[game.UnchooseSpell](raw)
	case game.KindRevealSpells:
		return decodeAs[game.RevealSpells](raw)
	}
	return nil, fmt.Errorf("game action %q: %w", kind, ErrUnknownType)
}

// DecodeIntent decodes one client message.
func DecodeIntent(data []byte) (any, error) {
	var head struct {
		Type   string          `json:"type"`
		Action json.RawMessage `json:"action"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("decode intent: %w", err)
	}
	switch head.Type {
	case TypeDoBoardAction:
		var m DoBoardAction
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("decode intent: %w", err)
		}
		a, err := DecodeBoardAction(head.Action)
		if err != nil {
			return nil, err
		}
		m.Action = a
		return m, nil
	case TypeDoGameAction:
		var m DoGameAction
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("decode intent: %w", err)
		}
		a, err := DecodeGameAction(head.Action)
		if err != nil {
			return nil, err
		}
		m.Action = a
		return m, nil
	case TypeRequestBoardHistory:
		return decodeIntentAs[RequestBoardHistory](data)
	case TypeSubscribe:
		return decodeIntentAs[Subscribe](data)
	}
	return nil, fmt.Errorf("intent %q: %w", head.Type, ErrUnknownType)
}

func decodeIntentAs[T any](data []byte) (T, error) {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return v, fmt.Errorf("decode intent: %w", err)
	}
	return v, nil
}

// EncodeIntent is the client-side counterpart of DecodeIntent.
func EncodeIntent(intent any) ([]byte, error) {
	switch m := intent.(type) {
	case DoBoardAction:
		action, err := EncodeAction(m.Action)
		if err != nil {
			return nil, err
		}
		return tagged(m, map[string]any{"type": TypeDoBoardAction, "action": action})
	case DoGameAction:
		action, err := EncodeAction(m.Action)
		if err != nil {
			return nil, err
		}
		return tagged(m, map[string]any{"type": TypeDoGameAction, "action": action})
	case RequestBoardHistory:
		return tagged(m, map[string]any{"type": TypeRequestBoardHistory})
	case Subscribe:
		return tagged(m, map[string]any{"type": TypeSubscribe})
	}
	return nil, fmt.Errorf("intent %T: %w", intent, ErrUnknownType)
}

type historyEntry struct {
	Seq    int             `json:"seq"`
	Turn   int             `json:"turn"`
	Side   game.Side       `json:"side"`
	Action json.RawMessage `json:"action,omitempty"`
	Reset  *game.ResetInfo `json:"reset,omitempty"`
}

// EncodeReport encodes a report as one JSON object tagged with "type".
func EncodeReport(r Report) ([]byte, error) {
	extra := map[string]any{"type": r.ReportType()}
	switch m := r.(type) {
	case ReportBoardAction:
		action, err := EncodeAction(m.Action)
		if err != nil {
			return nil, err
		}
		extra["action"] = action
	case ReportGameAction:
		action, err := EncodeAction(m.Action)
		if err != nil {
			return nil, err
		}
		extra["action"] = action
	case BoardHistory:
		entries := make([]historyEntry, 0, len(m.Entries))
		for _, e := range m.Entries {
			he := historyEntry{Seq: e.Seq, Turn: e.Turn, Side: e.Side, Reset: e.Reset}
			if e.Action != nil {
				action, err := EncodeAction(e.Action)
				if err != nil {
					return nil, err
				}
				he.Action = action
			}
			entries = append(entries, he)
		}
		extra["entries"] = entries
	}
	return tagged(r, extra)
}
