package game

import (
	"strings"

	"github.com/ojrac/opensimplex-go"

	"hexarena/hex"
)

// Tile is the terrain at a location.
type Tile int

const (
	Plain Tile = iota
	Graveyard
	Water
	Wall
	Teleporter
	SpawnTile
)

var tileNames = []string{"plain", "graveyard", "water", "wall", "teleporter", "spawn"}

func (t Tile) String() string               { return enumName(tileNames, int(t)) }
func (t Tile) MarshalText() ([]byte, error) { return []byte(t.String()), nil }
func (t *Tile) UnmarshalText(text []byte) error {
	v, err := parseEnum(tileNames, text, "tile")
	*t = Tile(v)
	return err
}

// Blocks reports whether a piece of the given traversal class may not enter.
func (t Tile) Blocks(flying bool) bool {
	switch t {
	case Wall:
		return true
	case Water:
		return !flying
	default:
		return false
	}
}

// Layout is a static board description: its shape, its terrain and where
// each side's necromancer starts.
type Layout struct {
	Name     string
	Topology hex.Topology
	Tiles    map[hex.Loc]Tile
	Spawns   [2]hex.Loc
}

// layout characters, one per hex
var tileRunes = map[rune]Tile{
	'.': Plain,
	'g': Graveyard,
	'~': Water,
	'#': Wall,
	't': Teleporter,
	'0': SpawnTile,
	'1': SpawnTile,
}

// ParseLayout builds a Layout from rows of tile characters. Row i is Y = i,
// column j is X = j, on a hex.Rect. '0' and '1' mark the spawn hexes of S0
// and S1.
func ParseLayout(name string, rows []string) (*Layout, error) {
	if len(rows) == 0 {
		return nil, Configf("map %q has no rows", name)
	}
	width := len([]rune(strings.TrimSpace(rows[0])))
	l := &Layout{
		Name:     name,
		Topology: hex.Rect{Width: width, Height: len(rows)},
		Tiles:    make(map[hex.Loc]Tile, width*len(rows)),
	}
	seen := [2]bool{}
	for y, row := range rows {
		runes := []rune(strings.TrimSpace(row))
		if len(runes) != width {
			return nil, Configf("map %q row %d has %d tiles, want %d", name, y, len(runes), width)
		}
		for x, r := range runes {
			tile, ok := tileRunes[r]
			if !ok {
				return nil, Configf("map %q has unknown tile %q at (%d,%d)", name, r, x, y)
			}
			loc := hex.Loc{X: x, Y: y}
			l.Tiles[loc] = tile
			if r == '0' || r == '1' {
				side := int(r - '0')
				if seen[side] {
					return nil, Configf("map %q has two spawns for S%d", name, side)
				}
				seen[side] = true
				l.Spawns[side] = loc
			}
		}
	}
	if !seen[0] || !seen[1] {
		return nil, Configf("map %q needs a spawn for both sides", name)
	}
	return l, nil
}

// GenerateLayout builds a width x height layout from simplex noise. Low
// noise becomes water, high noise becomes graveyards, and the spawns sit on
// opposite edges. Generation is deterministic for a seed.
func GenerateLayout(name string, width, height int, seed int64) *Layout {
	noise := opensimplex.New(seed)
	l := &Layout{
		Name:     name,
		Topology: hex.Rect{Width: width, Height: height},
		Tiles:    make(map[hex.Loc]Tile, width*height),
	}
	l.Spawns[S0] = hex.Loc{X: width / 2, Y: 0}
	l.Spawns[S1] = hex.Loc{X: width / 2, Y: height - 1}

	for _, loc := range l.Topology.Locs() {
		v := noise.Eval2(float64(loc.X)*0.35, float64(loc.Y)*0.35)
		switch {
		case v < -0.55:
			l.Tiles[loc] = Water
		case v > 0.5:
			l.Tiles[loc] = Graveyard
		default:
			l.Tiles[loc] = Plain
		}
	}
	// keep the spawns and their surroundings open
	for _, s := range l.Spawns {
		l.Tiles[s] = SpawnTile
		for _, n := range l.Topology.Neighbors(s) {
			if l.Tiles[n] == Water {
				l.Tiles[n] = Plain
			}
		}
	}
	return l
}

// PairedTeleporter returns the teleporter a piece on from is sent to: the
// next teleporter in layout order, wrapping around.
func (l *Layout) PairedTeleporter(from hex.Loc) (hex.Loc, bool) {
	var ports []hex.Loc
	for _, loc := range l.Topology.Locs() {
		if l.Tiles[loc] == Teleporter {
			ports = append(ports, loc)
		}
	}
	for i, loc := range ports {
		if loc == from && len(ports) > 1 {
			return ports[(i+1)%len(ports)], true
		}
	}
	return hex.Loc{}, false
}

// Rows renders the layout back to tile characters, spawns included.
func (l *Layout) Rows(tiles map[hex.Loc]Tile) []string {
	r, ok := l.Topology.(hex.Rect)
	if !ok {
		return nil
	}
	chars := map[Tile]byte{Plain: '.', Graveyard: 'g', Water: '~', Wall: '#', Teleporter: 't', SpawnTile: '.'}
	rows := make([]string, r.Height)
	for y := 0; y < r.Height; y++ {
		var sb strings.Builder
		for x := 0; x < r.Width; x++ {
			loc := hex.Loc{X: x, Y: y}
			switch loc {
			case l.Spawns[S0]:
				sb.WriteByte('0')
			case l.Spawns[S1]:
				sb.WriteByte('1')
			default:
				sb.WriteByte(chars[tiles[loc]])
			}
		}
		rows[y] = sb.String()
	}
	return rows
}
