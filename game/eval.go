package game

import "hexarena/hex"

// BoardSummary is the public view of a board sent to a fresh connection.
// Spell ids in hands reveal nothing about the spells themselves.
type BoardSummary struct {
	Layout         string             `json:"layout"`
	Rows           []string           `json:"rows,omitempty"`
	Tiles          []TileAt           `json:"tiles"`
	Pieces         []Piece            `json:"pieces"`
	Reinforcements [2]map[string]int  `json:"reinforcements"`
	Sorcery        [2]int             `json:"sorcery"`
	Income         [2]int             `json:"income"`
	Side           Side               `json:"side"`
	Done           bool               `json:"done"`
	Hands          [2][]SpellID       `json:"hands"`
	Spells         map[SpellID]string `json:"spells,omitempty"`
	NextSpec       PieceSpec          `json:"next_spec"`
}

// TileAt is one non-plain tile of a summary.
type TileAt struct {
	Loc  hex.Loc `json:"loc"`
	Tile Tile    `json:"tile"`
}

// Summary snapshots the board. The result shares nothing with b.
func (b *Board) Summary() BoardSummary {
	cp := b.Copy()
	s := BoardSummary{
		Layout:         b.Layout.Name,
		Rows:           b.Layout.Rows(cp.Tiles),
		Reinforcements: cp.Reinforcements,
		Sorcery:        b.Sorcery,
		Income:         b.Income,
		Side:           b.Side,
		Done:           b.Done,
		Hands:          cp.Hands,
		Spells:         cp.Spells,
		NextSpec:       b.NextSpec,
	}
	for _, loc := range b.Layout.Topology.Locs() {
		if t := cp.Tiles[loc]; t != Plain {
			s.Tiles = append(s.Tiles, TileAt{Loc: loc, Tile: t})
		}
	}
	for _, p := range cp.All() {
		s.Pieces = append(s.Pieces, *p)
	}
	return s
}

// Score is a rough material balance in [-1, 1] from side's point of view,
// used in logs to show how a board is going.
func (b *Board) Score(cat Catalog, side Side) float64 {
	var material [2]float64
	for _, p := range b.All() {
		s := p.CurrentStats(cat)
		material[p.Side] += float64(s.Cost + s.Defense - p.Damage)
	}
	return normalize(material[side], material[side.Other()])
}

// normalize normalizes value relative to otherValue to a score between -1 and 1
func normalize(value float64, otherValue float64) float64 {
	total := value + otherValue
	if total == 0 {
		return 0
	}
	return (value - otherValue) / total
}
