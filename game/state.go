package game

import (
	"maps"
	"slices"
	"sort"

	"hexarena/hex"
	"hexarena/utils"
)

// Board is the authoritative state of one board. It is mutated only through
// Apply, EndTurn and Reset.
type Board struct {
	Layout *Layout
	Rules  Rules

	Tiles          map[hex.Loc]Tile
	Pieces         map[hex.Loc][]*Piece
	Reinforcements [2]map[string]int
	Sorcery        [2]int // sorcery power left this round
	Income         [2]int // last mana credited from this board

	Side  Side
	Done  bool
	Hands [2][]SpellID
	// Gained counts the spells gained on this board this turn.
	Gained   int
	NextSpec PieceSpec
	// Spells maps every spell played or discarded here to its name.
	Spells map[SpellID]string

	undo []undoEntry
}

type undoEntry struct {
	action   Action
	snapshot *Board
}

// NewBoard creates an empty board on the given layout. Use Reset to place
// the necromancers.
func NewBoard(layout *Layout, rules Rules) *Board {
	return &Board{
		Layout: layout,
		Rules:  rules,
		Tiles:  maps.Clone(layout.Tiles),
		Pieces: make(map[hex.Loc][]*Piece),
		Reinforcements: [2]map[string]int{
			make(map[string]int),
			make(map[string]int),
		},
		Spells: make(map[SpellID]string),
	}
}

// Copy returns a deep copy of the board. Layout and Rules are shared since
// they are immutable.
func (b *Board) Copy() *Board {
	// Deep copy the pieces, one stack at a time
	pieces := make(map[hex.Loc][]*Piece, len(b.Pieces))
	for loc, stack := range b.Pieces {
		cp := make([]*Piece, len(stack))
		for i, p := range stack {
			cp[i] = p.Copy()
		}
		pieces[loc] = cp
	}

	nb := *b
	nb.Tiles = maps.Clone(b.Tiles)
	nb.Pieces = pieces
	nb.Reinforcements = [2]map[string]int{
		maps.Clone(b.Reinforcements[S0]),
		maps.Clone(b.Reinforcements[S1]),
	}
	nb.Hands = [2][]SpellID{
		slices.Clone(b.Hands[S0]),
		slices.Clone(b.Hands[S1]),
	}
	nb.Spells = maps.Clone(b.Spells)
	// snapshots are never mutated once stored
	nb.undo = slices.Clone(b.undo)
	return &nb
}

// PiecesAt returns the stack at loc. The slice must not be modified.
func (b *Board) PiecesAt(loc hex.Loc) []*Piece {
	return b.Pieces[loc]
}

// Find returns the piece with the given spec, or nil.
func (b *Board) Find(spec PieceSpec) *Piece {
	for _, stack := range b.Pieces {
		for _, p := range stack {
			if p.Spec == spec {
				return p
			}
		}
	}
	return nil
}

// All returns every piece on the board ordered by spec.
func (b *Board) All() []*Piece {
	var all []*Piece
	for _, stack := range b.Pieces {
		all = append(all, stack...)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Spec < all[j].Spec })
	return all
}

// PiecesOf returns the pieces of one side ordered by spec.
func (b *Board) PiecesOf(side Side) []*Piece {
	var out []*Piece
	for _, p := range b.All() {
		if p.Side == side {
			out = append(out, p)
		}
	}
	return out
}

func (b *Board) distance(a, c hex.Loc) int {
	return b.Layout.Topology.Distance(a, c)
}

// passable checks terrain and enemy occupation for one step of a piece.
func (b *Board) passable(stats *PieceStats, side Side, loc hex.Loc) error {
	if !b.Layout.Topology.InBounds(loc) {
		return Illegalf("%s is off the board", loc)
	}
	if tile := b.Tiles[loc]; tile.Blocks(stats.Flying) {
		return Illegalf("%s cannot enter %s at %s", stats.Name, tile, loc)
	}
	for _, other := range b.Pieces[loc] {
		if other.Side != side {
			return Illegalf("%s is occupied by an enemy", loc)
		}
	}
	return nil
}

// canOccupy checks whether n pieces of p's kind can end at loc. Pieces whose
// spec is in leaving are ignored, as they vacate their hex.
func (b *Board) canOccupy(cat Catalog, p *Piece, loc hex.Loc, n int, leaving ...PieceSpec) error {
	stats := p.CurrentStats(cat)
	if err := b.passable(&stats, p.Side, loc); err != nil {
		return err
	}
	count := n
	for _, other := range b.Pieces[loc] {
		if slices.Contains(leaving, other.Spec) {
			continue
		}
		if other.Name != p.Name {
			return Illegalf("%s already holds a %s", loc, other.Name)
		}
		count++
	}
	if count > stats.SwarmMax {
		return Illegalf("%s would hold %d %s, swarm max is %d", loc, count, p.Name, stats.SwarmMax)
	}
	return nil
}

func (b *Board) addPiece(p *Piece) {
	b.Pieces[p.Loc] = append(b.Pieces[p.Loc], p)
}

func (b *Board) removePiece(p *Piece) {
	stack := b.Pieces[p.Loc]
	i := slices.Index(stack, p)
	if i < 0 {
		return
	}
	stack = slices.Delete(stack, i, i+1)
	if len(stack) == 0 {
		delete(b.Pieces, p.Loc)
		return
	}
	b.Pieces[p.Loc] = stack
}

func (b *Board) movePiece(p *Piece, to hex.Loc) {
	b.removePiece(p)
	p.Loc = to
	b.addPiece(p)
}

func (b *Board) spawnPiece(name string, side Side, loc hex.Loc, act ActState) *Piece {
	p := &Piece{Spec: b.NextSpec, Name: name, Side: side, Loc: loc, Act: act}
	b.NextSpec++
	b.addPiece(p)
	return p
}

func (b *Board) addReinforcement(side Side, name string, n int) {
	if b.Reinforcements[side] == nil {
		b.Reinforcements[side] = make(map[string]int)
	}
	b.Reinforcements[side][name] += n
	if b.Reinforcements[side][name] <= 0 {
		delete(b.Reinforcements[side], name)
	}
}

// kill removes p from the board and credits its death spawn.
func (b *Board) kill(cat Catalog, p *Piece) {
	b.removePiece(p)
	stats := p.CurrentStats(cat)
	if stats.DeathSpawn != "" {
		b.addReinforcement(p.Side, stats.DeathSpawn, 1)
	}
}

// PieceSorcery is the sum of the sorcery stats of a side's pieces.
func (b *Board) PieceSorcery(cat Catalog, side Side) int {
	total := 0
	for _, p := range b.PiecesOf(side) {
		s := p.CurrentStats(cat)
		total += s.Sorcery
	}
	return total
}

// ComputeSorcery is the sorcery power a side starts its turn with.
func (b *Board) ComputeSorcery(cat Catalog, side Side) int {
	return b.Rules.BaseSorcery() + b.PieceSorcery(cat, side)
}

// SpellCeiling is the number of spells a side may hold on this board.
func (b *Board) SpellCeiling(cat Catalog, side Side) int {
	return b.Rules.SpellCeiling(b.PieceSorcery(cat, side))
}

func (b *Board) hasNecromancer(cat Catalog, side Side) bool {
	for _, p := range b.PiecesOf(side) {
		if s, ok := cat[p.Name]; ok && s.IsNecromancer {
			return true
		}
	}
	return false
}

// Winner reports the side whose opponent has no necromancer left.
func (b *Board) Winner(cat Catalog) (Side, bool) {
	alive := [2]bool{b.hasNecromancer(cat, S0), b.hasNecromancer(cat, S1)}
	switch {
	case alive[S0] && !alive[S1]:
		return S0, true
	case alive[S1] && !alive[S0]:
		return S1, true
	}
	return 0, false
}

// EndTurn closes the turn of b.Side: modifiers tick, every piece is reset to
// TurnStart with its damage healed, and the board passes to the other side.
func (b *Board) EndTurn(cat Catalog) {
	for _, p := range b.All() {
		p.Modifiers = tickModifiers(p.Modifiers)
		p.Act = TurnStart
		p.Damage = 0
	}
	b.Done = false
	b.undo = nil
	b.Gained = 0
	b.Side = b.Side.Other()
	b.Sorcery[b.Side] = b.ComputeSorcery(cat, b.Side)
}

// Reset restores the layout's tiles, removes every piece and places one
// necromancer per side on its spawn hex. Hands are kept.
func (b *Board) Reset(cat Catalog, necromancers [2]string, reinforcements [2]map[string]int) error {
	for _, side := range Sides {
		s, ok := cat[necromancers[side]]
		if !ok || !s.IsNecromancer {
			return Configf("%q is not a necromancer", necromancers[side])
		}
	}
	b.Tiles = maps.Clone(b.Layout.Tiles)
	b.Pieces = make(map[hex.Loc][]*Piece)
	for _, side := range Sides {
		b.spawnPiece(necromancers[side], side, b.Layout.Spawns[side], TurnStart)
		b.Reinforcements[side] = make(map[string]int)
		for name, n := range reinforcements[side] {
			if _, ok := cat[name]; !ok {
				return Configf("unknown reinforcement %q", name)
			}
			b.addReinforcement(side, name, n)
		}
		b.Sorcery[side] = b.ComputeSorcery(cat, side)
	}
	b.Done = false
	b.undo = nil
	return nil
}

// ComputeIncome is the mana a side earns from this board: the graveyard
// bonus for every graveyard it occupies plus the mana stats of its pieces.
func (b *Board) ComputeIncome(cat Catalog, side Side) int {
	income := 0
	for loc, stack := range b.Pieces {
		if len(stack) > 0 && stack[0].Side == side && b.Tiles[loc] == Graveyard {
			income += b.Rules.ManaPerGraveyard()
		}
	}
	for _, p := range b.PiecesOf(side) {
		s := p.CurrentStats(cat)
		income += s.Mana
	}
	return income
}

// HandIndex returns the position of a spell in a side's hand, or -1.
func (b *Board) HandIndex(side Side, id SpellID) int {
	return slices.Index(b.Hands[side], id)
}

// RemoveFromHand drops a spell from a side's hand.
func (b *Board) RemoveFromHand(side Side, id SpellID) bool {
	var ok bool
	b.Hands[side], ok = utils.Remove(b.Hands[side], id)
	return ok
}

// ClearUndo drops every pending undo step.
func (b *Board) ClearUndo() {
	b.undo = nil
}

// LastUndoable returns the action a LocalUndo would revert.
func (b *Board) LastUndoable() (Action, bool) {
	if len(b.undo) == 0 {
		return nil, false
	}
	return b.undo[len(b.undo)-1].action, true
}

// Grant puts a spell into a side's hand outside of Apply, for spells the
// game chooses on the side's behalf.
func (b *Board) Grant(side Side, id SpellID) {
	b.Hands[side] = append(b.Hands[side], id)
	b.Gained++
}

// Discard drops a spell from a side's hand outside of Apply and records its
// name as public on this board.
func (b *Board) Discard(side Side, id SpellID, name string) bool {
	if !b.RemoveFromHand(side, id) {
		return false
	}
	if b.Spells == nil {
		b.Spells = make(map[SpellID]string)
	}
	b.Spells[id] = name
	return true
}
