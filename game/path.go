package game

import "hexarena/hex"

// moveBudget is how many more steps p may take this turn, or an error when
// it may not move at all.
func (b *Board) moveBudget(cat Catalog, p *Piece) (int, error) {
	stats := p.CurrentStats(cat)
	switch {
	case stats.Frozen:
		return 0, Illegalf("%s is frozen", p)
	case p.Act.Kind == Spawning:
		return 0, Illegalf("%s has just spawned", p)
	case p.Act.Kind == DoneActing:
		return 0, Illegalf("%s has finished acting", p)
	case p.Act.Kind == Attacking && (!stats.CanMoveAfterAttack || stats.Lumbering):
		return 0, Illegalf("%s cannot move after attacking", p)
	}
	budget := stats.MoveRange - p.Act.Steps
	if budget <= 0 {
		return 0, Illegalf("%s has no movement left", p)
	}
	return budget, nil
}

// checkPath validates a move of p along path, which excludes p's own hex.
func (b *Board) checkPath(cat Catalog, p *Piece, path []hex.Loc) error {
	budget, err := b.moveBudget(cat, p)
	if err != nil {
		return err
	}
	if len(path) == 0 {
		return Illegalf("empty path for %s", p)
	}
	if len(path) > budget {
		return Illegalf("path of %d steps exceeds the %d left for %s", len(path), budget, p)
	}
	stats := p.CurrentStats(cat)
	prev := p.Loc
	for _, loc := range path {
		if b.distance(prev, loc) != 1 {
			return Illegalf("path for %s is not contiguous at %s", p, loc)
		}
		if err := b.passable(&stats, p.Side, loc); err != nil {
			return err
		}
		prev = loc
	}
	return b.canOccupy(cat, p, prev, 1, p.Spec)
}

// reach runs a breadth first search of legal steps from start. It returns
// the step count and predecessor of every hex reached within budget.
func (b *Board) reach(stats *PieceStats, side Side, start hex.Loc, budget int) (map[hex.Loc]int, map[hex.Loc]hex.Loc) {
	dist := map[hex.Loc]int{start: 0}
	prev := map[hex.Loc]hex.Loc{}
	queue := []hex.Loc{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if dist[cur] == budget {
			continue
		}
		for _, n := range b.Layout.Topology.Neighbors(cur) {
			if _, seen := dist[n]; seen {
				continue
			}
			if b.passable(stats, side, n) != nil {
				continue
			}
			dist[n] = dist[cur] + 1
			prev[n] = cur
			queue = append(queue, n)
		}
	}
	return dist, prev
}

func walkBack(prev map[hex.Loc]hex.Loc, from, to hex.Loc) []hex.Loc {
	var rev []hex.Loc
	for cur := to; cur != from; cur = prev[cur] {
		rev = append(rev, cur)
	}
	path := make([]hex.Loc, len(rev))
	for i, loc := range rev {
		path[len(rev)-1-i] = loc
	}
	return path
}

// LegalPath finds the shortest legal path for a piece to any hex accepted by
// target. Among shortest paths it returns the one sharing the longest prefix
// with bias. The piece's own hex is never a destination.
func (b *Board) LegalPath(cat Catalog, spec PieceSpec, target func(hex.Loc) bool, bias []hex.Loc) ([]hex.Loc, bool) {
	p := b.Find(spec)
	if p == nil {
		return nil, false
	}
	budget, err := b.moveBudget(cat, p)
	if err != nil {
		return nil, false
	}
	stats := p.CurrentStats(cat)
	accept := func(loc hex.Loc) bool {
		return loc != p.Loc && target(loc) && b.canOccupy(cat, p, loc, 1, p.Spec) == nil
	}

	dist, _ := b.reach(&stats, p.Side, p.Loc, budget)
	shortest := -1
	for loc, d := range dist {
		if accept(loc) && (shortest < 0 || d < shortest) {
			shortest = d
		}
	}
	if shortest < 0 {
		return nil, false
	}

	// longest usable bias prefix first
	valid := 0
	prevLoc := p.Loc
	for _, loc := range bias {
		if valid == shortest || b.distance(prevLoc, loc) != 1 || b.passable(&stats, p.Side, loc) != nil {
			break
		}
		valid++
		prevLoc = loc
	}
	for k := valid; k >= 0; k-- {
		from := p.Loc
		if k > 0 {
			from = bias[k-1]
		}
		rest := shortest - k
		d, prev := b.reach(&stats, p.Side, from, rest)
		best, found := hex.Loc{}, false
		for _, loc := range b.Layout.Topology.Locs() {
			if n, ok := d[loc]; ok && n == rest && accept(loc) {
				best, found = loc, true
				break
			}
		}
		if !found {
			continue
		}
		path := append([]hex.Loc{}, bias[:k]...)
		return append(path, walkBack(prev, from, best)...), true
	}
	return nil, false
}
