package meta

import (
	"fmt"
	"os"
	"slices"
	"time"

	"gopkg.in/yaml.v3"

	"hexarena/game"
)

// MapRows is a named map given as rows of tile characters.
type MapRows struct {
	Name string   `yaml:"name"`
	Rows []string `yaml:"rows"`
}

// Config holds the settings of one game session.
type Config struct {
	Boards            int   `yaml:"boards"`
	TargetWins        int   `yaml:"target_wins"`
	TurnSeconds       int   `yaml:"turn_seconds"`
	TimeReportSeconds int   `yaml:"time_report_seconds"`
	Seed              int64 `yaml:"seed"`

	ManaPerGraveyard int `yaml:"mana_per_graveyard"`
	StartingMana     int `yaml:"starting_mana"`
	TechCostPerBoard int `yaml:"tech_cost_per_board"`
	ExtraTechCost    int `yaml:"extra_tech_cost"`
	RevealAhead      int `yaml:"reveal_ahead"`

	StarterUnits map[string]int `yaml:"starter_units"`
	TechLine     []string       `yaml:"tech_line"`
	Necromancers []string       `yaml:"necromancers"`

	Maps          []MapRows `yaml:"maps"`
	GeneratedMaps int       `yaml:"generated_maps"`

	// Pieces adds to or replaces entries of the default piece catalog.
	Pieces []game.PieceStats `yaml:"pieces"`

	LogLevel string `yaml:"log_level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Boards:            BOARDS,
		TargetWins:        TARGET_WINS,
		TurnSeconds:       TURN_SECONDS,
		TimeReportSeconds: TIME_REPORT_SECONDS,
		Seed:              1,
		ManaPerGraveyard:  MANA_PER_GRAVEYARD,
		StartingMana:      STARTING_MANA,
		TechCostPerBoard:  TECH_COST_PER_BOARD,
		ExtraTechCost:     EXTRA_TECH_COST,
		RevealAhead:       REVEAL_AHEAD,
		StarterUnits:      map[string]int{"zombie": 2},
		TechLine: []string{
			"initiate", "skeleton", "bat", "serpent", "ghost", "shrieker",
			"banshee", "wight", "haunt", "vampire", "lich",
		},
		Necromancers: []string{"basic_necromancer", "swarm_necromancer", "arcane_necromancer", "mounted_necromancer"},
		Maps: []MapRows{
			{Name: "crossing", Rows: []string{
				"...0.....",
				".g.....g.",
				"...~~~...",
				"t..#.#..t",
				"...~~~...",
				".g.....g.",
				".....1...",
			}},
			{Name: "barrows", Rows: []string{
				"..g.0.g..",
				".........",
				"..#...#..",
				"g...g...g",
				"..#...#..",
				".........",
				"..g.1.g..",
			}},
		},
		LogLevel: "info",
	}
}

// Load reads a YAML config file. Fields missing from the file keep their
// defaults. The result is validated.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates YAML config data.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, game.Configf("malformed config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) TurnDuration() time.Duration {
	return time.Duration(c.TurnSeconds) * time.Second
}

func (c *Config) TimeReportInterval() time.Duration {
	return time.Duration(c.TimeReportSeconds) * time.Second
}

// Catalog returns the piece catalog with the configured overrides applied.
func (c *Config) Catalog() (game.Catalog, error) {
	cat := game.DefaultCatalog().With(c.Pieces...)
	if err := cat.Validate(); err != nil {
		return nil, err
	}
	return cat, nil
}

// Layouts parses the configured maps and appends the generated ones.
func (c *Config) Layouts() ([]*game.Layout, error) {
	var layouts []*game.Layout
	for _, m := range c.Maps {
		l, err := game.ParseLayout(m.Name, m.Rows)
		if err != nil {
			return nil, err
		}
		layouts = append(layouts, l)
	}
	for i := range c.GeneratedMaps {
		name := fmt.Sprintf("generated-%d", i+1)
		layouts = append(layouts, game.GenerateLayout(name, MAP_WIDTH, MAP_HEIGHT, c.Seed+int64(i)))
	}
	return layouts, nil
}

// Validate checks the config for values no game can be played with.
func (c *Config) Validate() error {
	switch {
	case c.Boards < 1:
		return game.Configf("boards must be at least 1, got %d", c.Boards)
	case c.TargetWins < 1:
		return game.Configf("target_wins must be at least 1, got %d", c.TargetWins)
	case c.TurnSeconds < 0 || c.TimeReportSeconds < 0:
		return game.Configf("timer settings cannot be negative")
	case c.ManaPerGraveyard < 0 || c.StartingMana < 0 || c.TechCostPerBoard < 0 || c.ExtraTechCost < 0:
		return game.Configf("mana settings cannot be negative")
	case c.RevealAhead < 0:
		return game.Configf("reveal_ahead cannot be negative")
	case len(c.Maps)+c.GeneratedMaps < c.Boards:
		return game.Configf("%d boards need at least as many maps, have %d", c.Boards, len(c.Maps)+c.GeneratedMaps)
	case len(c.Necromancers) == 0:
		return game.Configf("no necromancers configured")
	}

	cat, err := c.Catalog()
	if err != nil {
		return err
	}
	if _, err := c.Layouts(); err != nil {
		return err
	}
	for _, name := range c.Necromancers {
		if s, ok := cat[name]; !ok || !s.IsNecromancer {
			return game.Configf("%q is not a necromancer", name)
		}
	}
	for name, n := range c.StarterUnits {
		if _, ok := cat[name]; !ok || n < 0 {
			return game.Configf("bad starter unit %q x%d", name, n)
		}
	}
	for i, name := range c.TechLine {
		if _, ok := cat[name]; !ok {
			return game.Configf("tech line slot %d names unknown piece %q", i, name)
		}
		if slices.Index(c.TechLine, name) != i {
			return game.Configf("tech line lists %q twice", name)
		}
	}
	return nil
}
