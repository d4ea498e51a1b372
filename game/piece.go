package game

import (
	"fmt"
	"slices"

	"hexarena/hex"
)

// PieceSpec identifies a piece for its whole lifetime. Specs are never
// reused within a board.
type PieceSpec int

// ActKind is the per-turn action state of a piece.
type ActKind int

const (
	Spawning ActKind = iota
	Moving
	Attacking
	DoneActing
)

var actNames = []string{"spawning", "moving", "attacking", "done_acting"}

func (k ActKind) String() string               { return enumName(actNames, int(k)) }
func (k ActKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }
func (k *ActKind) UnmarshalText(text []byte) error {
	v, err := parseEnum(actNames, text, "action state")
	*k = ActKind(v)
	return err
}

// ActState tracks what a piece did this turn. Steps is the movement consumed
// and Attacks the attacks used; both only grow until the turn resets. From
// is where the first step of the turn started and is set once Steps > 0.
type ActState struct {
	Kind    ActKind `json:"kind"`
	Steps   int     `json:"steps,omitempty"`
	Attacks int     `json:"attacks,omitempty"`
	From    hex.Loc `json:"from"`
}

// TurnStart is the state every surviving piece resets to.
var TurnStart = ActState{Kind: Moving}

// Piece is a piece on a board. It is owned by the board holding it.
type Piece struct {
	Spec      PieceSpec  `json:"spec"`
	Name      string     `json:"name"`
	Side      Side       `json:"side"`
	Loc       hex.Loc    `json:"loc"`
	Act       ActState   `json:"act"`
	Modifiers []Modifier `json:"modifiers,omitempty"`
	Damage    int        `json:"damage,omitempty"`
}

func (p *Piece) Copy() *Piece {
	cp := *p
	cp.Modifiers = slices.Clone(p.Modifiers)
	return &cp
}

// HasMoved reports whether the piece spent any movement this turn.
func (p *Piece) HasMoved() bool {
	return p.Act.Steps > 0
}

// MovedAway reports whether the piece ends up off the hex it started moving
// from. Stepping out and back does not count.
func (p *Piece) MovedAway() bool {
	return p.HasMoved() && p.Loc != p.Act.From
}

// spendSteps records n steps of movement taken from the piece's current hex.
func (p *Piece) spendSteps(n int) {
	if p.Act.Steps == 0 {
		p.Act.From = p.Loc
	}
	p.Act.Steps += n
}

// CurrentStats folds the active modifiers over the piece's base stats.
// The result is a fresh value; it must not be kept across turns.
func (p *Piece) CurrentStats(cat Catalog) PieceStats {
	base, ok := cat[p.Name]
	if !ok {
		return PieceStats{Name: p.Name}
	}
	stats := *base
	for _, m := range p.Modifiers {
		m.apply(&stats)
	}
	return stats
}

// RemainingDefense is current defense minus damage taken this turn.
func (p *Piece) RemainingDefense(cat Catalog) int {
	s := p.CurrentStats(cat)
	return s.Defense - p.Damage
}

func (p *Piece) String() string {
	return fmt.Sprintf("%s#%d[%s@%s]", p.Name, p.Spec, p.Side, p.Loc)
}
