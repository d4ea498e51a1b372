package game

import "fmt"

// EffectKind is what a successful attack does to its target.
type EffectKind int

const (
	NoEffect EffectKind = iota
	Damage
	Kill
	Unsummon
)

var effectNames = []string{"none", "damage", "kill", "unsummon"}

func (k EffectKind) String() string               { return enumName(effectNames, int(k)) }
func (k EffectKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }
func (k *EffectKind) UnmarshalText(text []byte) error {
	v, err := parseEnum(effectNames, text, "effect")
	*k = EffectKind(v)
	return err
}

// Effect is an attack effect. Amount is only meaningful for Damage.
type Effect struct {
	Kind   EffectKind `json:"kind" yaml:"kind"`
	Amount int        `json:"amount,omitempty" yaml:"amount,omitempty"`
}

func (e Effect) String() string {
	if e.Kind == Damage {
		return fmt.Sprintf("damage(%d)", e.Amount)
	}
	return e.Kind.String()
}

// PieceStats is an immutable catalog entry. Boards never mutate it; current
// stats are folded from a copy.
type PieceStats struct {
	Name        string `json:"name" yaml:"name"`
	DisplayName string `json:"display_name" yaml:"display_name"`

	Attacks             int    `json:"attacks" yaml:"attacks"`
	Defense             int    `json:"defense" yaml:"defense"`
	MoveRange           int    `json:"move_range" yaml:"move_range"`
	AttackRange         int    `json:"attack_range" yaml:"attack_range"`
	AttackRangeVsFlying int    `json:"attack_range_vs_flying" yaml:"attack_range_vs_flying"`
	Effect              Effect `json:"effect" yaml:"effect"`

	Flying             bool `json:"flying,omitempty" yaml:"flying,omitempty"`
	Lumbering          bool `json:"lumbering,omitempty" yaml:"lumbering,omitempty"`
	Persistent         bool `json:"persistent,omitempty" yaml:"persistent,omitempty"`
	CanBlink           bool `json:"can_blink,omitempty" yaml:"can_blink,omitempty"`
	CanHurtNecromancer bool `json:"can_hurt_necromancer,omitempty" yaml:"can_hurt_necromancer,omitempty"`
	IsNecromancer      bool `json:"is_necromancer,omitempty" yaml:"is_necromancer,omitempty"`
	KillImmune         bool `json:"kill_immune,omitempty" yaml:"kill_immune,omitempty"`
	CanMoveAfterAttack bool `json:"can_move_after_attack,omitempty" yaml:"can_move_after_attack,omitempty"`
	// Frozen is only ever set by a modifier.
	Frozen bool `json:"-" yaml:"-"`

	SwarmMax   int    `json:"swarm_max" yaml:"swarm_max"`
	SpawnRange int    `json:"spawn_range,omitempty" yaml:"spawn_range,omitempty"`
	Mana       int    `json:"mana,omitempty" yaml:"mana,omitempty"`
	Sorcery    int    `json:"sorcery,omitempty" yaml:"sorcery,omitempty"`
	DeathSpawn string `json:"death_spawn,omitempty" yaml:"death_spawn,omitempty"`
	Cost       int    `json:"cost" yaml:"cost"`

	Abilities map[string]Ability `json:"abilities,omitempty" yaml:"abilities,omitempty"`
}

// RangeAgainst is the attack range that applies to the given defender.
func (s *PieceStats) RangeAgainst(def *PieceStats) int {
	if def.Flying {
		return s.AttackRangeVsFlying
	}
	return s.AttackRange
}

// AbilityKind selects how an ability resolves.
type AbilityKind int

const (
	AbilitySuicide AbilityKind = iota
	AbilityBlink
	AbilitySelfEnchant
	AbilityTargeted
)

var abilityNames = []string{"suicide", "blink", "self_enchant", "targeted"}

func (k AbilityKind) String() string               { return enumName(abilityNames, int(k)) }
func (k AbilityKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }
func (k *AbilityKind) UnmarshalText(text []byte) error {
	v, err := parseEnum(abilityNames, text, "ability kind")
	*k = AbilityKind(v)
	return err
}

// Usable is the action-state window in which an ability may be activated.
type Usable int

const (
	// BeforeMoving: the caster has not moved or attacked this turn.
	BeforeMoving Usable = iota
	// BeforeAttacking: the caster may have moved but has not attacked.
	BeforeAttacking
	// BeforeDone: the caster has not finished acting.
	BeforeDone
)

var usableNames = []string{"before_moving", "before_attacking", "before_done"}

func (u Usable) String() string               { return enumName(usableNames, int(u)) }
func (u Usable) MarshalText() ([]byte, error) { return []byte(u.String()), nil }
func (u *Usable) UnmarshalText(text []byte) error {
	v, err := parseEnum(usableNames, text, "usable window")
	*u = Usable(v)
	return err
}

// Ability is an activated power of a piece.
type Ability struct {
	Name        string      `json:"name" yaml:"name"`
	Kind        AbilityKind `json:"kind" yaml:"kind"`
	Range       int         `json:"range,omitempty" yaml:"range,omitempty"`
	SorceryCost int         `json:"sorcery_cost,omitempty" yaml:"sorcery_cost,omitempty"`
	Usable      Usable      `json:"usable" yaml:"usable"`
	// Effect is applied to an enemy target by Targeted abilities.
	Effect Effect `json:"effect,omitempty" yaml:"effect,omitempty"`
	// Modifier is applied by SelfEnchant, and by Targeted abilities without
	// an effect to a friendly target.
	Modifier *Modifier `json:"modifier,omitempty" yaml:"modifier,omitempty"`
}

// UsableIn checks the ability's activation window against the caster's
// action state.
func (a Ability) UsableIn(st ActState) error {
	switch st.Kind {
	case Spawning:
		return Illegalf("cannot use %s: piece has just spawned", a.Name)
	case DoneActing:
		return Illegalf("cannot use %s: piece has finished acting", a.Name)
	}
	switch a.Usable {
	case BeforeMoving:
		if st.Kind != Moving || st.Steps > 0 {
			return Illegalf("cannot use %s: piece has already moved or attacked", a.Name)
		}
	case BeforeAttacking:
		if st.Kind != Moving {
			return Illegalf("cannot use %s: piece has already attacked", a.Name)
		}
	}
	return nil
}
