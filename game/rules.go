package game

// Rules are the board-level constants a game is played with.
type Rules interface {
	// ManaPerGraveyard is the income for each graveyard a side occupies.
	ManaPerGraveyard() int
	// BaseSorcery is the sorcery power every side starts its turn with.
	BaseSorcery() int
	// SpellCeiling is how many spells a side may keep in hand on a board
	// whose pieces yield the given sorcery.
	SpellCeiling(pieceSorcery int) int
}
