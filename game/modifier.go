package game

import "fmt"

// ModifierKind names a transformation of a piece's base stats.
type ModifierKind int

const (
	Shielded ModifierKind = iota
	Hasted
	Frenzied
	FarSighted
	Unstoppable
	Frozen
)

var modifierNames = []string{"shielded", "hasted", "frenzied", "far_sighted", "unstoppable", "frozen"}

func (k ModifierKind) String() string               { return enumName(modifierNames, int(k)) }
func (k ModifierKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }
func (k *ModifierKind) UnmarshalText(text []byte) error {
	v, err := parseEnum(modifierNames, text, "modifier")
	*k = ModifierKind(v)
	return err
}

// Modifier is a timed modifier on a piece. TurnsLeft < 0 never expires.
type Modifier struct {
	Kind      ModifierKind `json:"kind" yaml:"kind"`
	TurnsLeft int          `json:"turns_left" yaml:"turns"`
}

func (m Modifier) String() string {
	if m.TurnsLeft < 0 {
		return m.Kind.String()
	}
	return fmt.Sprintf("%s(%d)", m.Kind, m.TurnsLeft)
}

func (m Modifier) apply(s *PieceStats) {
	switch m.Kind {
	case Shielded:
		s.Defense++
	case Hasted:
		s.MoveRange++
	case Frenzied:
		s.Attacks++
	case FarSighted:
		s.AttackRange++
		if s.AttackRangeVsFlying > 0 {
			s.AttackRangeVsFlying++
		}
	case Unstoppable:
		s.CanMoveAfterAttack = true
	case Frozen:
		s.Frozen = true
	}
}

// tickModifiers decrements every timed modifier once and drops the expired
// ones.
func tickModifiers(mods []Modifier) []Modifier {
	var kept []Modifier
	for _, m := range mods {
		if m.TurnsLeft < 0 {
			kept = append(kept, m)
			continue
		}
		m.TurnsLeft--
		if m.TurnsLeft > 0 {
			kept = append(kept, m)
		}
	}
	return kept
}
