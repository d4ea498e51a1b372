// Package hex provides the board coordinate system: axial hex locations,
// adjacency and distance.
package hex

import "fmt"

// Loc is a position on a hex grid in axial coordinates (X = q, Y = r).
// The third cube coordinate is derived: s = -X - Y.
type Loc struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// S returns the implicit third cube coordinate.
func (l Loc) S() int {
	return -l.X - l.Y
}

func (l Loc) Add(o Loc) Loc {
	return Loc{X: l.X + o.X, Y: l.Y + o.Y}
}

func (l Loc) String() string {
	return fmt.Sprintf("(%d,%d)", l.X, l.Y)
}

// Directions are the six neighbor offsets, counter-clockwise starting east.
var Directions = [6]Loc{
	{X: 1, Y: 0},
	{X: 1, Y: -1},
	{X: 0, Y: -1},
	{X: -1, Y: 0},
	{X: -1, Y: 1},
	{X: 0, Y: 1},
}

// Adjacent returns the six locations around l, ignoring any board bounds.
func (l Loc) Adjacent() [6]Loc {
	var result [6]Loc
	for i, dir := range Directions {
		result[i] = l.Add(dir)
	}
	return result
}

// Distance returns the hex distance between two locations.
func Distance(a, b Loc) int {
	dq := abs(a.X - b.X)
	dr := abs(a.Y - b.Y)
	ds := abs(a.S() - b.S())
	return max(dq, dr, ds)
}

// IsAdjacent reports whether a and b are distinct neighbours.
func IsAdjacent(a, b Loc) bool {
	return Distance(a, b) == 1
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
