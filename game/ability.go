package game

import "hexarena/hex"

func (b *Board) applyAbility(cat Catalog, side Side, a ActivateAbility) error {
	caster, err := b.ownPiece(side, a.Piece)
	if err != nil {
		return err
	}
	stats := caster.CurrentStats(cat)
	ab, ok := stats.Abilities[a.Ability]
	if !ok {
		return Illegalf("%s has no ability %q", caster, a.Ability)
	}
	if stats.Frozen {
		return Illegalf("cannot use %s: %s is frozen", ab.Name, caster)
	}
	if err := ab.UsableIn(caster.Act); err != nil {
		return err
	}
	if b.Sorcery[side] < ab.SorceryCost {
		return Illegalf("cannot use %s: needs %d sorcery, have %d", ab.Name, ab.SorceryCost, b.Sorcery[side])
	}

	switch ab.Kind {
	case AbilitySuicide:
		if len(a.Targets) != 0 {
			return Illegalf("%s takes no target", ab.Name)
		}
		b.kill(cat, caster)
	case AbilityBlink:
		dest, err := oneTarget(ab.Name, a.Targets)
		if err != nil {
			return err
		}
		if dest == caster.Loc || b.distance(caster.Loc, dest) > ab.Range {
			return Illegalf("cannot use %s: %s is out of range", ab.Name, dest)
		}
		if err := b.canOccupy(cat, caster, dest, 1, caster.Spec); err != nil {
			return err
		}
		b.movePiece(caster, dest)
	case AbilitySelfEnchant:
		if len(a.Targets) != 0 {
			return Illegalf("%s takes no target", ab.Name)
		}
		caster.Modifiers = append(caster.Modifiers, *ab.Modifier)
	case AbilityTargeted:
		loc, err := oneTarget(ab.Name, a.Targets)
		if err != nil {
			return err
		}
		if b.distance(caster.Loc, loc) > ab.Range {
			return Illegalf("cannot use %s: %s is out of range", ab.Name, loc)
		}
		if ab.Effect.Kind != NoEffect {
			target, err := b.targetPiece(loc, side.Other(), "enemy")
			if err != nil {
				return err
			}
			b.resolveEffect(cat, ab.Effect, stats.CanHurtNecromancer, target)
		} else {
			target, err := b.targetPiece(loc, side, "friendly")
			if err != nil {
				return err
			}
			target.Modifiers = append(target.Modifiers, *ab.Modifier)
		}
	default:
		return Invariantf("unknown ability kind %d", ab.Kind)
	}

	b.Sorcery[side] -= ab.SorceryCost
	if ab.Kind != AbilitySelfEnchant && ab.Kind != AbilitySuicide {
		caster.Act.Kind = DoneActing
	}
	return nil
}

func oneTarget(what string, targets []hex.Loc) (hex.Loc, error) {
	if len(targets) != 1 {
		return hex.Loc{}, Illegalf("%s needs exactly one target, got %d", what, len(targets))
	}
	return targets[0], nil
}

// targetPiece returns the first piece at loc, which must belong to side.
func (b *Board) targetPiece(loc hex.Loc, side Side, want string) (*Piece, error) {
	stack := b.Pieces[loc]
	if len(stack) == 0 || stack[0].Side != side {
		return nil, Illegalf("no %s piece at %s", want, loc)
	}
	return stack[0], nil
}

func (b *Board) applyBlink(cat Catalog, side Side, a Blink) error {
	p, err := b.ownPiece(side, a.Piece)
	if err != nil {
		return err
	}
	stats := p.CurrentStats(cat)
	if !stats.CanBlink {
		return Illegalf("%s cannot blink", p)
	}
	if _, err := b.moveBudget(cat, p); err != nil {
		return err
	}
	if p.Act.Kind != Moving || p.HasMoved() {
		return Illegalf("%s can only blink before moving", p)
	}
	if a.Dest == p.Loc || b.distance(p.Loc, a.Dest) > stats.MoveRange {
		return Illegalf("%s is out of blink range of %s", a.Dest, p)
	}
	if err := b.canOccupy(cat, p, a.Dest, 1, p.Spec); err != nil {
		return err
	}
	p.spendSteps(stats.MoveRange)
	b.movePiece(p, a.Dest)
	return nil
}

func (b *Board) applyTile(cat Catalog, side Side, a ActivateTile) error {
	if b.Tiles[a.Loc] != Teleporter {
		return Illegalf("%s is not a teleporter", a.Loc)
	}
	stack := b.Pieces[a.Loc]
	if len(stack) == 0 {
		return Illegalf("no piece on the teleporter at %s", a.Loc)
	}
	if stack[0].Side != side {
		return Illegalf("the teleporter at %s holds an enemy piece", a.Loc)
	}
	dest, ok := b.Layout.PairedTeleporter(a.Loc)
	if !ok {
		return Illegalf("the teleporter at %s has no pair", a.Loc)
	}
	specs := make([]PieceSpec, 0, len(stack))
	for _, p := range stack {
		stats := p.CurrentStats(cat)
		if p.Act.Kind == Spawning || p.Act.Kind == DoneActing || stats.Frozen {
			return Illegalf("%s cannot use the teleporter now", p)
		}
		specs = append(specs, p.Spec)
	}
	if err := b.canOccupy(cat, stack[0], dest, len(stack), specs...); err != nil {
		return err
	}
	for _, p := range append([]*Piece{}, stack...) {
		b.movePiece(p, dest)
		p.Act.Kind = DoneActing
	}
	return nil
}

func (b *Board) applySpawn(cat Catalog, side Side, a Spawn) error {
	if b.Reinforcements[side][a.Name] <= 0 {
		return Illegalf("no %s in reinforcements", a.Name)
	}
	if _, ok := cat[a.Name]; !ok {
		return Illegalf("unknown piece %q", a.Name)
	}
	spawner := false
	for _, p := range b.PiecesOf(side) {
		stats := p.CurrentStats(cat)
		if stats.SpawnRange > 0 && p.Act.Kind != Spawning && b.distance(p.Loc, a.Loc) <= stats.SpawnRange {
			spawner = true
			break
		}
	}
	if !spawner {
		return Illegalf("%s is not within range of a spawner", a.Loc)
	}
	probe := &Piece{Spec: -1, Name: a.Name, Side: side}
	if err := b.canOccupy(cat, probe, a.Loc, 1); err != nil {
		return err
	}
	b.addReinforcement(side, a.Name, -1)
	b.spawnPiece(a.Name, side, a.Loc, ActState{Kind: Spawning})
	return nil
}
