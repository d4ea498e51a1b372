package game

type StandardRules struct {
	GraveyardMana int
	SorceryBase   int
	HandBase      int
}

// NewStandardRules returns the standard rules with the given graveyard
// income.
func NewStandardRules(graveyardMana int) *StandardRules {
	return &StandardRules{
		GraveyardMana: graveyardMana,
		SorceryBase:   0,
		HandBase:      1,
	}
}

func (sr *StandardRules) ManaPerGraveyard() int {
	return sr.GraveyardMana
}

func (sr *StandardRules) BaseSorcery() int {
	return sr.SorceryBase
}

func (sr *StandardRules) SpellCeiling(pieceSorcery int) int {
	return sr.HandBase + pieceSorcery
}
