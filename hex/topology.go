package hex

import "fmt"

// Topology is a fixed board shape. Implementations are stateless and may be
// shared between boards.
type Topology interface {
	InBounds(l Loc) bool
	Neighbors(l Loc) []Loc
	Distance(a, b Loc) int
	// Locs lists every in-bounds location in a stable order.
	Locs() []Loc
}

// Rect is a parallelogram of axial coordinates with 0 <= X < Width and
// 0 <= Y < Height.
type Rect struct {
	Width  int
	Height int
}

func (r Rect) InBounds(l Loc) bool {
	return l.X >= 0 && l.Y >= 0 && l.X < r.Width && l.Y < r.Height
}

func (r Rect) Neighbors(l Loc) []Loc {
	return neighbors(r, l)
}

func (r Rect) Distance(a, b Loc) int {
	return Distance(a, b)
}

func (r Rect) Locs() []Loc {
	locs := make([]Loc, 0, r.Width*r.Height)
	for y := 0; y < r.Height; y++ {
		for x := 0; x < r.Width; x++ {
			locs = append(locs, Loc{X: x, Y: y})
		}
	}
	return locs
}

func (r Rect) String() string {
	return fmt.Sprintf("Rect(%dx%d)", r.Width, r.Height)
}

// Hexagon is a hex-shaped grid centered on the origin. It contains every
// location where max(|q|, |r|, |s|) <= Radius.
type Hexagon struct {
	Radius int
}

func (h Hexagon) InBounds(l Loc) bool {
	return Distance(l, Loc{}) <= h.Radius
}

func (h Hexagon) Neighbors(l Loc) []Loc {
	return neighbors(h, l)
}

func (h Hexagon) Distance(a, b Loc) int {
	return Distance(a, b)
}

func (h Hexagon) Locs() []Loc {
	var locs []Loc
	for y := -h.Radius; y <= h.Radius; y++ {
		for x := -h.Radius; x <= h.Radius; x++ {
			l := Loc{X: x, Y: y}
			if h.InBounds(l) {
				locs = append(locs, l)
			}
		}
	}
	return locs
}

func (h Hexagon) String() string {
	return fmt.Sprintf("Hexagon(radius=%d)", h.Radius)
}

func neighbors(t Topology, l Loc) []Loc {
	result := make([]Loc, 0, 6)
	for _, n := range l.Adjacent() {
		if t.InBounds(n) {
			result = append(result, n)
		}
	}
	return result
}
