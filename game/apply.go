package game

// ApplyContext carries the game-level facts a board needs to judge an
// action.
type ApplyContext struct {
	Catalog Catalog
	Spells  SpellCatalog
	// SpellName resolves a spell id to its catalog name.
	SpellName func(SpellID) (string, bool)
	// Unlocked reports whether side may buy the named piece.
	Unlocked func(Side, string) bool
}

// Outcome reports the side effects of an applied action that the game has
// to follow up on.
type Outcome struct {
	// Undone is the action reverted by LocalUndo or an explicit undo.
	Undone Action
	// Revealed lists spells that became public on this board.
	Revealed []SpellID
}

// Apply validates a and applies it for side. On error the board is left
// exactly as it was.
func (b *Board) Apply(ctx ApplyContext, side Side, a Action) (Outcome, error) {
	if !side.Valid() {
		return Outcome{}, Illegalf("invalid side %d", side)
	}
	if side != b.Side {
		return Outcome{}, OutOfTurnf("not your turn: %s is to move on this board", b.Side)
	}
	if b.Done {
		return Outcome{}, Illegalf("board is marked done")
	}

	nb := b.Copy()
	out, err := nb.apply(ctx, side, a)
	if err != nil {
		return Outcome{}, err
	}

	switch {
	case out.Undone != nil:
		// apply already restored the snapshot and popped the stack
	case IsUndoable(a):
		snapshot := b.Copy()
		snapshot.undo = nil
		nb.undo = append(nb.undo, undoEntry{action: a, snapshot: snapshot})
	default:
		nb.undo = nil
	}
	*b = *nb
	return out, nil
}

func (b *Board) apply(ctx ApplyContext, side Side, a Action) (Outcome, error) {
	cat := ctx.Catalog
	switch a := a.(type) {
	case Movements:
		return Outcome{}, b.applyMovements(cat, side, a)
	case Attack:
		return Outcome{}, b.applyAttack(cat, side, a)
	case Spawn:
		return Outcome{}, b.applySpawn(cat, side, a)
	case ActivateAbility:
		return Outcome{}, b.applyAbility(cat, side, a)
	case Blink:
		return Outcome{}, b.applyBlink(cat, side, a)
	case ActivateTile:
		return Outcome{}, b.applyTile(cat, side, a)
	case PlaySpell:
		return b.applySpell(ctx, side, a)
	case DiscardSpell:
		if !b.RemoveFromHand(side, a.Spell) {
			return Outcome{}, Stalef("spell %d is not in your hand", a.Spell)
		}
		if err := b.recordSpell(ctx, a.Spell); err != nil {
			return Outcome{}, err
		}
		return Outcome{Revealed: []SpellID{a.Spell}}, nil
	case BuyReinforcement:
		if _, ok := cat[a.Name]; !ok {
			return Outcome{}, Illegalf("unknown piece %q", a.Name)
		}
		if ctx.Unlocked == nil || !ctx.Unlocked(side, a.Name) {
			return Outcome{}, Illegalf("%s is not unlocked", a.Name)
		}
		b.addReinforcement(side, a.Name, 1)
		return Outcome{}, nil
	case UndoBuyReinforcement:
		last, _ := b.LastUndoable()
		if buy, ok := last.(BuyReinforcement); !ok || buy.Name != a.Name {
			return Outcome{}, Illegalf("the last action on this board is not a purchase of %s", a.Name)
		}
		return b.popUndo()
	case GainSpell:
		if b.HandIndex(side, a.Spell) >= 0 {
			return Outcome{}, Stalef("spell %d is already in your hand", a.Spell)
		}
		b.Hands[side] = append(b.Hands[side], a.Spell)
		b.Gained++
		return Outcome{}, nil
	case UndoGainSpell:
		last, _ := b.LastUndoable()
		if gain, ok := last.(GainSpell); !ok || gain.Spell != a.Spell {
			return Outcome{}, Illegalf("the last action on this board is not gaining spell %d", a.Spell)
		}
		return b.popUndo()
	case LocalUndo:
		return b.popUndo()
	case nil:
		return Outcome{}, Illegalf("missing action")
	default:
		return Outcome{}, Invariantf("unknown board action %T", a)
	}
}

func (b *Board) popUndo() (Outcome, error) {
	if len(b.undo) == 0 {
		return Outcome{}, Illegalf("nothing to undo")
	}
	top := b.undo[len(b.undo)-1]
	rest := b.undo[:len(b.undo)-1]
	*b = *top.snapshot.Copy()
	if len(rest) > 0 {
		b.undo = rest
	}
	return Outcome{Undone: top.action}, nil
}

func (b *Board) applyMovements(cat Catalog, side Side, a Movements) error {
	if len(a.Moves) == 0 {
		return Illegalf("no moves")
	}
	for _, m := range a.Moves {
		p, err := b.ownPiece(side, m.Piece)
		if err != nil {
			return err
		}
		if err := b.checkPath(cat, p, m.Path); err != nil {
			return err
		}
		p.spendSteps(len(m.Path))
		b.movePiece(p, m.Path[len(m.Path)-1])
	}
	return nil
}

func (b *Board) recordSpell(ctx ApplyContext, id SpellID) error {
	if ctx.SpellName == nil {
		return Invariantf("no spell names available")
	}
	name, ok := ctx.SpellName(id)
	if !ok {
		return Invariantf("spell %d has no name", id)
	}
	if b.Spells == nil {
		b.Spells = make(map[SpellID]string)
	}
	b.Spells[id] = name
	return nil
}

func (b *Board) applySpell(ctx ApplyContext, side Side, a PlaySpell) (Outcome, error) {
	if b.HandIndex(side, a.Spell) < 0 {
		return Outcome{}, Stalef("spell %d is not in your hand", a.Spell)
	}
	if err := b.recordSpell(ctx, a.Spell); err != nil {
		return Outcome{}, err
	}
	name := b.Spells[a.Spell]
	def, ok := ctx.Spells[name]
	if !ok {
		return Outcome{}, Invariantf("spell %q is not in the catalog", name)
	}
	if b.Sorcery[side] < def.Cost {
		return Outcome{}, Illegalf("cannot cast %s: needs %d sorcery, have %d", name, def.Cost, b.Sorcery[side])
	}

	switch def.Kind {
	case SpellStrike:
		loc, err := oneTarget(name, a.Targets)
		if err != nil {
			return Outcome{}, err
		}
		target, err := b.targetPiece(loc, side.Other(), "enemy")
		if err != nil {
			return Outcome{}, err
		}
		b.resolveEffect(ctx.Catalog, def.Effect, def.HurtsNecromancer, target)
	case SpellEnchant:
		loc, err := oneTarget(name, a.Targets)
		if err != nil {
			return Outcome{}, err
		}
		target, err := b.targetPiece(loc, side, "friendly")
		if err != nil {
			return Outcome{}, err
		}
		target.Modifiers = append(target.Modifiers, *def.Modifier)
	case SpellSummon:
		if len(a.Targets) != 0 {
			return Outcome{}, Illegalf("%s takes no target", name)
		}
		b.addReinforcement(side, def.Piece, 1)
	case SpellConsecrate:
		loc, err := oneTarget(name, a.Targets)
		if err != nil {
			return Outcome{}, err
		}
		if !b.Layout.Topology.InBounds(loc) || b.Tiles[loc] != Plain {
			return Outcome{}, Illegalf("cannot consecrate %s: not a plain hex", loc)
		}
		b.Tiles[loc] = Graveyard
	default:
		return Outcome{}, Invariantf("unknown spell kind %d", def.Kind)
	}

	b.RemoveFromHand(side, a.Spell)
	b.Sorcery[side] -= def.Cost
	return Outcome{Revealed: []SpellID{a.Spell}}, nil
}
