package game

// SpellID identifies one spell card for the whole session. The name behind
// an id is hidden from a side until the card is revealed to it.
type SpellID int

// SpellKind selects how a spell card resolves.
type SpellKind int

const (
	SpellStrike     SpellKind = iota // effect on one enemy piece
	SpellEnchant                     // modifier on one friendly piece
	SpellSummon                      // adds a reinforcement
	SpellConsecrate                  // turns a plain hex into a graveyard
)

var spellKindNames = []string{"strike", "enchant", "summon", "consecrate"}

func (k SpellKind) String() string               { return enumName(spellKindNames, int(k)) }
func (k SpellKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }
func (k *SpellKind) UnmarshalText(text []byte) error {
	v, err := parseEnum(spellKindNames, text, "spell kind")
	*k = SpellKind(v)
	return err
}

// SpellDef is an immutable spell catalog entry.
type SpellDef struct {
	Name     string    `json:"name" yaml:"name"`
	Kind     SpellKind `json:"kind" yaml:"kind"`
	Cost     int       `json:"cost" yaml:"cost"`
	Effect   Effect    `json:"effect,omitempty" yaml:"effect,omitempty"`
	Modifier *Modifier `json:"modifier,omitempty" yaml:"modifier,omitempty"`
	Piece    string    `json:"piece,omitempty" yaml:"piece,omitempty"`
	// HurtsNecromancer lets a strike affect necromancers.
	HurtsNecromancer bool `json:"hurts_necromancer,omitempty" yaml:"hurts_necromancer,omitempty"`
}

// SpellCatalog maps spell names to their definitions.
type SpellCatalog map[string]*SpellDef

// Validate checks the spell table against the piece catalog.
func (sc SpellCatalog) Validate(cat Catalog) error {
	for name, s := range sc {
		if name != s.Name {
			return Configf("spell entry %q is named %q", name, s.Name)
		}
		switch s.Kind {
		case SpellStrike:
			if s.Effect.Kind == NoEffect {
				return Configf("strike spell %q has no effect", name)
			}
		case SpellEnchant:
			if s.Modifier == nil {
				return Configf("enchant spell %q has no modifier", name)
			}
		case SpellSummon:
			if _, ok := cat[s.Piece]; !ok {
				return Configf("summon spell %q names unknown piece %q", name, s.Piece)
			}
		}
	}
	return nil
}

// DefaultSpells returns the built-in spell table.
func DefaultSpells() SpellCatalog {
	defs := []SpellDef{
		{Name: "lightning", Kind: SpellStrike, Cost: 1, Effect: Effect{Kind: Damage, Amount: 2}},
		{Name: "doom", Kind: SpellStrike, Cost: 3, Effect: Effect{Kind: Kill}},
		{Name: "banish", Kind: SpellStrike, Cost: 2, Effect: Effect{Kind: Unsummon}},
		{Name: "ward", Kind: SpellEnchant, Cost: 0, Modifier: &Modifier{Kind: Shielded, TurnsLeft: 2}},
		{Name: "haste", Kind: SpellEnchant, Cost: 1, Modifier: &Modifier{Kind: Hasted, TurnsLeft: 1}},
		{Name: "frenzy", Kind: SpellEnchant, Cost: 1, Modifier: &Modifier{Kind: Frenzied, TurnsLeft: 1}},
		{Name: "raise_dead", Kind: SpellSummon, Cost: 1, Piece: "zombie"},
		{Name: "consecrate", Kind: SpellConsecrate, Cost: 2},
	}
	sc := make(SpellCatalog, len(defs))
	for i := range defs {
		sc[defs[i].Name] = &defs[i]
	}
	return sc
}
