package game

// CanAttack checks whether an attacker in the given state can attack a
// defender dist hexes away. movedAway is true when the attacker ended its
// movement off its starting hex.
func CanAttack(att *PieceStats, movedAway bool, st ActState, def *PieceStats, dist int) error {
	switch {
	case st.Kind == Spawning:
		return Illegalf("cannot attack: %s has just spawned", att.Name)
	case st.Kind == DoneActing:
		return Illegalf("cannot attack: %s has finished acting", att.Name)
	case att.Frozen:
		return Illegalf("cannot attack: %s is frozen", att.Name)
	case st.Attacks >= att.Attacks:
		return Illegalf("cannot attack: %s has no attacks left", att.Name)
	case att.Lumbering && movedAway:
		return Illegalf("cannot attack: %s is lumbering and has moved", att.Name)
	case att.Effect.Kind == NoEffect:
		return Illegalf("cannot attack: %s has no attack", att.Name)
	}
	if r := att.RangeAgainst(def); dist < 1 || dist > r {
		return Illegalf("cannot attack: %s is %d hexes away, range is %d", def.Name, dist, r)
	}
	return nil
}

// resolveEffect applies e to def. hurtsNecromancer is false for sources
// that cannot affect necromancers.
func (b *Board) resolveEffect(cat Catalog, e Effect, hurtsNecromancer bool, def *Piece) {
	stats := def.CurrentStats(cat)
	if stats.IsNecromancer && !hurtsNecromancer {
		return
	}
	switch e.Kind {
	case Damage:
		def.Damage += e.Amount
		if stats.Defense-def.Damage <= 0 {
			b.kill(cat, def)
		}
	case Kill:
		if !stats.KillImmune {
			b.kill(cat, def)
		}
	case Unsummon:
		if !stats.Persistent {
			b.removePiece(def)
			b.addReinforcement(def.Side, def.Name, 1)
		}
	}
}

func (b *Board) applyAttack(cat Catalog, side Side, a Attack) error {
	att, err := b.ownPiece(side, a.Attacker)
	if err != nil {
		return err
	}
	def := b.Find(a.Defender)
	if def == nil {
		return Stalef("piece %d is no longer on the board", a.Defender)
	}
	if def.Side == side {
		return Illegalf("cannot attack your own %s", def)
	}
	attStats := att.CurrentStats(cat)
	defStats := def.CurrentStats(cat)
	if err := CanAttack(&attStats, att.MovedAway(), att.Act, &defStats, b.distance(att.Loc, def.Loc)); err != nil {
		return err
	}

	b.resolveEffect(cat, attStats.Effect, attStats.CanHurtNecromancer, def)

	att.Act.Kind = Attacking
	att.Act.Attacks++
	if att.Act.Attacks >= attStats.Attacks && !attStats.CanMoveAfterAttack {
		att.Act.Kind = DoneActing
	}
	return nil
}

// ownPiece looks up a piece that side is about to act with.
func (b *Board) ownPiece(side Side, spec PieceSpec) (*Piece, error) {
	p := b.Find(spec)
	if p == nil {
		return nil, Stalef("piece %d is no longer on the board", spec)
	}
	if p.Side != side {
		return nil, Illegalf("%s does not belong to %s", p, side)
	}
	return p, nil
}
