package game

import "hexarena/hex"

// Action is a board action. The set of implementations is closed; Kind is
// the tag used on the wire.
type Action interface {
	Kind() string
	boardAction()
}

// GameAction is an action on the cross-board game state.
type GameAction interface {
	Kind() string
	gameAction()
}

// Board action kinds.
const (
	KindMovements            = "movements"
	KindAttack               = "attack"
	KindSpawn                = "spawn"
	KindActivateAbility      = "activate_ability"
	KindBlink                = "blink"
	KindActivateTile         = "activate_tile"
	KindPlaySpell            = "play_spell"
	KindDiscardSpell         = "discard_spell"
	KindBuyReinforcement     = "buy_reinforcement"
	KindUndoBuyReinforcement = "undo_buy_reinforcement"
	KindGainSpell            = "gain_spell"
	KindUndoGainSpell        = "undo_gain_spell"
	KindLocalUndo            = "local_undo"
)

// Movement moves one piece along Path, which excludes its starting hex.
type Movement struct {
	Piece PieceSpec `json:"piece"`
	Path  []hex.Loc `json:"path"`
}

// Movements is an ordered batch of single-piece moves, applied all or none.
type Movements struct {
	Moves []Movement `json:"moves"`
}

type Attack struct {
	Attacker PieceSpec `json:"attacker"`
	Defender PieceSpec `json:"defender"`
}

// Spawn places a reinforcement.
type Spawn struct {
	Loc  hex.Loc `json:"loc"`
	Name string  `json:"name"`
}

type ActivateAbility struct {
	Piece   PieceSpec `json:"piece"`
	Ability string    `json:"ability"`
	Targets []hex.Loc `json:"targets,omitempty"`
}

// Blink teleports a piece that has not moved, spending its whole move.
type Blink struct {
	Piece PieceSpec `json:"piece"`
	Dest  hex.Loc   `json:"dest"`
}

// ActivateTile triggers the terrain under a friendly stack.
type ActivateTile struct {
	Loc hex.Loc `json:"loc"`
}

type PlaySpell struct {
	Spell   SpellID   `json:"spell"`
	Targets []hex.Loc `json:"targets,omitempty"`
}

type DiscardSpell struct {
	Spell SpellID `json:"spell"`
}

type BuyReinforcement struct {
	Name string `json:"name"`
}

type UndoBuyReinforcement struct {
	Name string `json:"name"`
}

type GainSpell struct {
	Spell SpellID `json:"spell"`
}

type UndoGainSpell struct {
	Spell SpellID `json:"spell"`
}

// LocalUndo reverts the last undoable action on the board.
type LocalUndo struct{}

func (Movements) Kind() string            { return KindMovements }
func (Attack) Kind() string               { return KindAttack }
func (Spawn) Kind() string                { return KindSpawn }
func (ActivateAbility) Kind() string      { return KindActivateAbility }
func (Blink) Kind() string                { return KindBlink }
func (ActivateTile) Kind() string         { return KindActivateTile }
func (PlaySpell) Kind() string            { return KindPlaySpell }
func (DiscardSpell) Kind() string         { return KindDiscardSpell }
func (BuyReinforcement) Kind() string     { return KindBuyReinforcement }
func (UndoBuyReinforcement) Kind() string { return KindUndoBuyReinforcement }
func (GainSpell) Kind() string            { return KindGainSpell }
func (UndoGainSpell) Kind() string        { return KindUndoGainSpell }
func (LocalUndo) Kind() string            { return KindLocalUndo }

func (Movements) boardAction()            {}
func (Attack) boardAction()               {}
func (Spawn) boardAction()                {}
func (ActivateAbility) boardAction()      {}
func (Blink) boardAction()                {}
func (ActivateTile) boardAction()         {}
func (PlaySpell) boardAction()            {}
func (DiscardSpell) boardAction()         {}
func (BuyReinforcement) boardAction()     {}
func (UndoBuyReinforcement) boardAction() {}
func (GainSpell) boardAction()            {}
func (UndoGainSpell) boardAction()        {}
func (LocalUndo) boardAction()            {}

// Game action kinds.
const (
	KindPerformTech              = "perform_tech"
	KindUndoTech                 = "undo_tech"
	KindSetBoardDone             = "set_board_done"
	KindResignBoard              = "resign_board"
	KindBuyExtraTechAndSpell     = "buy_extra_tech_and_spell"
	KindUndoBuyExtraTechAndSpell = "undo_buy_extra_tech_and_spell"

	KindPayForReinforcement   = "pay_for_reinforcement"
	KindUnpayForReinforcement = "unpay_for_reinforcement"
	KindAddWin                = "add_win"
	KindAddUpcomingSpells     = "add_upcoming_spells"
	KindChooseSpell           = "choose_spell"
	KindUnchooseSpell         = "unchoose_spell"
	KindRevealSpells          = "reveal_spells"
)

type PerformTech struct {
	Index int `json:"index"`
}

type UndoTech struct {
	Index int `json:"index"`
}

type SetBoardDone struct {
	Board int  `json:"board"`
	Done  bool `json:"done"`
}

// ResignBoard concedes one board. It is never broadcast; it becomes an
// AddWin for the opponent.
type ResignBoard struct {
	Board int `json:"board"`
}

type BuyExtraTechAndSpell struct{}

type UndoBuyExtraTechAndSpell struct{}

// PayForReinforcement debits the mana for a BuyReinforcement on Board.
type PayForReinforcement struct {
	Board  int    `json:"board"`
	Name   string `json:"name"`
	Amount int    `json:"amount"`
}

// UnpayForReinforcement refunds a PayForReinforcement.
type UnpayForReinforcement struct {
	Board  int    `json:"board"`
	Name   string `json:"name"`
	Amount int    `json:"amount"`
}

type AddWin struct {
	Board int  `json:"board"`
	Side  Side `json:"side"`
}

// SpellCard is a spell id together with its name.
type SpellCard struct {
	ID   SpellID `json:"id"`
	Name string  `json:"name"`
}

// AddUpcomingSpells shows a side the next spells of its queue.
type AddUpcomingSpells struct {
	Side   Side        `json:"side"`
	Spells []SpellCard `json:"spells"`
}

// ChooseSpell is the automatic GainSpell for a board that gained nothing.
type ChooseSpell struct {
	Board int     `json:"board"`
	Spell SpellID `json:"spell"`
}

type UnchooseSpell struct {
	Board int     `json:"board"`
	Spell SpellID `json:"spell"`
}

// RevealSpells discloses spell names to To.
type RevealSpells struct {
	To     Side        `json:"to"`
	Spells []SpellCard `json:"spells"`
}

func (PerformTech) Kind() string              { return KindPerformTech }
func (UndoTech) Kind() string                 { return KindUndoTech }
func (SetBoardDone) Kind() string             { return KindSetBoardDone }
func (ResignBoard) Kind() string              { return KindResignBoard }
func (BuyExtraTechAndSpell) Kind() string     { return KindBuyExtraTechAndSpell }
func (UndoBuyExtraTechAndSpell) Kind() string { return KindUndoBuyExtraTechAndSpell }
func (PayForReinforcement) Kind() string      { return KindPayForReinforcement }
func (UnpayForReinforcement) Kind() string    { return KindUnpayForReinforcement }
func (AddWin) Kind() string                   { return KindAddWin }
func (AddUpcomingSpells) Kind() string        { return KindAddUpcomingSpells }
func (ChooseSpell) Kind() string              { return KindChooseSpell }
func (UnchooseSpell) Kind() string            { return KindUnchooseSpell }
func (RevealSpells) Kind() string             { return KindRevealSpells }

func (PerformTech) gameAction()              {}
func (UndoTech) gameAction()                 {}
func (SetBoardDone) gameAction()             {}
func (ResignBoard) gameAction()              {}
func (BuyExtraTechAndSpell) gameAction()     {}
func (UndoBuyExtraTechAndSpell) gameAction() {}
func (PayForReinforcement) gameAction()      {}
func (UnpayForReinforcement) gameAction()    {}
func (AddWin) gameAction()                   {}
func (AddUpcomingSpells) gameAction()        {}
func (ChooseSpell) gameAction()              {}
func (UnchooseSpell) gameAction()            {}
func (RevealSpells) gameAction()             {}

// IsServerOnly reports whether a game action may only be produced by the
// game itself.
func IsServerOnly(a GameAction) bool {
	switch a.(type) {
	case PayForReinforcement, UnpayForReinforcement, AddWin, AddUpcomingSpells,
		ChooseSpell, UnchooseSpell, RevealSpells:
		return true
	}
	return false
}

// IsUndoable reports whether a board action can be reverted by LocalUndo.
func IsUndoable(a Action) bool {
	switch a.(type) {
	case Movements, Spawn, Blink, BuyReinforcement, GainSpell:
		return true
	}
	return false
}
