package communication

import (
	"time"

	"hexarena/game"
)

// Audience selects the subscribers a report is delivered to.
type Audience int

const (
	Everyone Audience = iota
	OnlyS0
	OnlyS1
)

// To addresses a single side.
func To(side game.Side) Audience {
	if side == game.S1 {
		return OnlyS1
	}
	return OnlyS0
}

// Includes reports whether side is part of the audience.
func (a Audience) Includes(side game.Side) bool {
	return a == Everyone || a == To(side)
}

// Intents, sent by clients.

// DoBoardAction asks for one board action. ActionID is chosen by the client;
// a repeated (Side, ActionID) is answered from cache.
type DoBoardAction struct {
	ActionID string      `json:"action_id"`
	Side     game.Side   `json:"side"`
	Board    int         `json:"board"`
	Action   game.Action `json:"-"`
}

// DoGameAction asks for one client game action.
type DoGameAction struct {
	ActionID string          `json:"action_id"`
	Side     game.Side       `json:"side"`
	Action   game.GameAction `json:"-"`
}

type RequestBoardHistory struct {
	Board int `json:"board"`
}

// Subscribe starts the report stream of one side.
type Subscribe struct {
	Side game.Side `json:"side"`
}

// Reports, sent by the game. Board reports carry the board's sequence
// number; the others carry the receiving side's game sequence number.

type Report interface {
	ReportType() string
}

type ReportBoardAction struct {
	Board  int         `json:"board"`
	Seq    int         `json:"seq"`
	Turn   int         `json:"turn"`
	Side   game.Side   `json:"side"`
	Action game.Action `json:"-"`
}

type ReportGameAction struct {
	Seq    int             `json:"seq"`
	Side   game.Side       `json:"side"`
	Action game.GameAction `json:"-"`
}

type ReportResetBoard struct {
	Board   int               `json:"board"`
	Seq     int               `json:"seq"`
	Summary game.BoardSummary `json:"summary"`
}

type ReportNewTurn struct {
	Seq  int       `json:"seq"`
	Turn int       `json:"turn"`
	Side game.Side `json:"side"`
	Mana [2]int    `json:"mana"`
}

type ReportRevealSpells struct {
	Seq    int              `json:"seq"`
	To     game.Side        `json:"to"`
	Spells []game.SpellCard `json:"spells"`
}

type ReportTimeLeft struct {
	Seq       int           `json:"seq"`
	Turn      int           `json:"turn"`
	Remaining time.Duration `json:"remaining"`
}

// ReportGameOver is sent once when a side reaches the target wins.
type ReportGameOver struct {
	Seq    int       `json:"seq"`
	Winner game.Side `json:"winner"`
	Wins   [2]int    `json:"wins"`
}

func (ReportBoardAction) ReportType() string  { return "report_board_action" }
func (ReportGameAction) ReportType() string   { return "report_game_action" }
func (ReportResetBoard) ReportType() string   { return "report_reset_board" }
func (ReportNewTurn) ReportType() string      { return "report_new_turn" }
func (ReportRevealSpells) ReportType() string { return "report_reveal_spells" }
func (ReportTimeLeft) ReportType() string     { return "report_time_left" }
func (ReportGameOver) ReportType() string     { return "report_game_over" }

// Replies, sent to the one client that asked.

// TechView is one tech slot as seen by a side.
type TechView struct {
	Piece string `json:"piece"`
	State string `json:"state"`
}

// GameSummary is the game-level part of Initialize, as seen by one side.
type GameSummary struct {
	Viewer     game.Side        `json:"viewer"`
	Turn       int              `json:"turn"`
	Side       game.Side        `json:"side"`
	Phase      string           `json:"phase"`
	Mana       [2]int           `json:"mana"`
	Wins       [2]int           `json:"wins"`
	TargetWins int              `json:"target_wins"`
	Winner     *game.Side       `json:"winner,omitempty"`
	Techs      [2][]TechView    `json:"techs"`
	TechsUsed  int              `json:"techs_used"`
	ExtraTechs int              `json:"extra_techs"`
	Available  []game.SpellID   `json:"available"`
	Upcoming   []game.SpellCard `json:"upcoming"`
	Known      []game.SpellCard `json:"known"`
}

// Initialize is the first message of every subscription.
type Initialize struct {
	Game      GameSummary         `json:"game"`
	Boards    []game.BoardSummary `json:"boards"`
	BoardSeqs []int               `json:"board_seqs"`
	GameSeq   int                 `json:"game_seq"`
}

func (Initialize) ReportType() string { return "initialize" }

type BoardHistory struct {
	Board   int             `json:"board"`
	Seq     int             `json:"seq"`
	Entries []game.LogEntry `json:"-"`
}

func (BoardHistory) ReportType() string { return "board_history" }

// ErrorInfo describes a rejected intent.
type ErrorInfo struct {
	Kind   string `json:"kind"`
	Reason string `json:"reason"`
}

// Result answers one intent.
type Result struct {
	ActionID string     `json:"action_id,omitempty"`
	OK       bool       `json:"ok"`
	Error    *ErrorInfo `json:"error,omitempty"`
}

func (Result) ReportType() string { return "result" }

// ResultOf builds the reply for an intent that ended with err.
func ResultOf(actionID string, err error) Result {
	if err == nil {
		return Result{ActionID: actionID, OK: true}
	}
	info := &ErrorInfo{Kind: "error", Reason: err.Error()}
	if kind, ok := game.KindOf(err); ok {
		info.Kind = kind.String()
	}
	return Result{ActionID: actionID, Error: info}
}
