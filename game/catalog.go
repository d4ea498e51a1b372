package game

import "maps"

// Catalog maps piece names to their immutable stats.
type Catalog map[string]*PieceStats

// Stats looks up a piece by name.
func (c Catalog) Stats(name string) (*PieceStats, bool) {
	s, ok := c[name]
	return s, ok
}

// With returns a new catalog with the given entries added or replaced.
// The receiver is left untouched.
func (c Catalog) With(overrides ...PieceStats) Catalog {
	out := maps.Clone(c)
	if out == nil {
		out = Catalog{}
	}
	for _, s := range overrides {
		entry := s
		if entry.DisplayName == "" {
			entry.DisplayName = entry.Name
		}
		out[entry.Name] = &entry
	}
	return out
}

// Validate checks the cross references inside the catalog.
func (c Catalog) Validate() error {
	for name, s := range c {
		if name != s.Name {
			return Configf("catalog entry %q is named %q", name, s.Name)
		}
		if s.SwarmMax < 1 {
			return Configf("piece %q has swarm max %d, need at least 1", name, s.SwarmMax)
		}
		if s.DeathSpawn != "" {
			if _, ok := c[s.DeathSpawn]; !ok {
				return Configf("piece %q spawns unknown piece %q on death", name, s.DeathSpawn)
			}
		}
		for key, a := range s.Abilities {
			if key != a.Name {
				return Configf("piece %q ability %q is named %q", name, key, a.Name)
			}
			if a.Kind == AbilitySelfEnchant && a.Modifier == nil {
				return Configf("piece %q ability %q enchants without a modifier", name, key)
			}
			if a.Kind == AbilityTargeted && a.Effect.Kind == NoEffect && a.Modifier == nil {
				return Configf("piece %q ability %q has neither effect nor modifier", name, key)
			}
		}
	}
	return nil
}

func melee(name string, defense, move int, effect Effect) PieceStats {
	return PieceStats{
		Name:               name,
		DisplayName:        name,
		Attacks:            1,
		Defense:            defense,
		MoveRange:          move,
		AttackRange:        1,
		Effect:             effect,
		SwarmMax:           1,
		CanHurtNecromancer: true,
	}
}

func necromancer(name string) PieceStats {
	s := melee(name, 7, 1, Effect{Kind: Damage, Amount: 1})
	s.IsNecromancer = true
	s.Persistent = true
	s.SpawnRange = 1
	s.Sorcery = 1
	s.CanHurtNecromancer = false
	return s
}

// DefaultCatalog returns the built-in piece table.
func DefaultCatalog() Catalog {
	zombie := melee("zombie", 1, 1, Effect{Kind: Damage, Amount: 1})
	zombie.SwarmMax = 3
	zombie.Cost = 2

	initiate := melee("initiate", 2, 1, Effect{Kind: Damage, Amount: 1})
	initiate.Sorcery = 1
	initiate.Cost = 4

	skeleton := melee("skeleton", 1, 2, Effect{Kind: Damage, Amount: 1})
	skeleton.AttackRangeVsFlying = 1
	skeleton.Cost = 3

	serpent := melee("serpent", 3, 1, Effect{Kind: Damage, Amount: 2})
	serpent.Lumbering = true
	serpent.Cost = 5

	ghost := melee("ghost", 1, 2, Effect{Kind: Damage, Amount: 1})
	ghost.Flying = true
	ghost.Persistent = true
	ghost.AttackRangeVsFlying = 1
	ghost.CanHurtNecromancer = false
	ghost.Cost = 3

	bat := melee("bat", 1, 3, Effect{Kind: Damage, Amount: 1})
	bat.Flying = true
	bat.AttackRangeVsFlying = 1
	bat.SwarmMax = 3
	bat.Cost = 2

	wight := melee("wight", 2, 1, Effect{Kind: Kill})
	wight.DeathSpawn = "zombie"
	wight.Cost = 6

	banshee := melee("banshee", 1, 1, Effect{Kind: Unsummon})
	banshee.AttackRange = 2
	banshee.AttackRangeVsFlying = 2
	banshee.Cost = 5

	vampire := melee("vampire", 2, 2, Effect{Kind: Damage, Amount: 1})
	vampire.Flying = true
	vampire.AttackRangeVsFlying = 1
	vampire.Mana = 1
	vampire.Cost = 5

	haunt := melee("haunt", 2, 1, Effect{Kind: Damage, Amount: 1})
	haunt.CanBlink = true
	haunt.Cost = 4
	haunt.Abilities = map[string]Ability{
		"phase": {Name: "phase", Kind: AbilityBlink, Range: 3, Usable: BeforeMoving},
	}

	shrieker := melee("shrieker", 1, 1, Effect{Kind: Damage, Amount: 1})
	shrieker.DeathSpawn = "bat"
	shrieker.Cost = 3
	shrieker.Abilities = map[string]Ability{
		"burst": {Name: "burst", Kind: AbilitySuicide, Usable: BeforeDone},
	}

	lich := melee("lich", 2, 1, Effect{Kind: Damage, Amount: 1})
	lich.AttackRange = 3
	lich.AttackRangeVsFlying = 3
	lich.Sorcery = 2
	lich.Persistent = true
	lich.Cost = 7
	lich.Abilities = map[string]Ability{
		"curse": {Name: "curse", Kind: AbilityTargeted, Range: 2, SorceryCost: 2, Usable: BeforeAttacking, Effect: Effect{Kind: Kill}},
		"ward": {Name: "ward", Kind: AbilityTargeted, Range: 2, SorceryCost: 1, Usable: BeforeDone,
			Modifier: &Modifier{Kind: Shielded, TurnsLeft: 2}},
	}

	basic := necromancer("basic_necromancer")
	swarm := necromancer("swarm_necromancer")
	swarm.SpawnRange = 2
	arcane := necromancer("arcane_necromancer")
	arcane.Sorcery = 2
	arcane.Abilities = map[string]Ability{
		"bulwark": {Name: "bulwark", Kind: AbilitySelfEnchant, SorceryCost: 1, Usable: BeforeDone,
			Modifier: &Modifier{Kind: Shielded, TurnsLeft: 2}},
	}
	mounted := necromancer("mounted_necromancer")
	mounted.MoveRange = 2
	mounted.CanBlink = true

	return Catalog{}.With(
		zombie, initiate, skeleton, serpent, ghost, bat, wight, banshee, vampire,
		haunt, shrieker, lich, basic, swarm, arcane, mounted,
	)
}
