package gamemaster

import (
	"maps"
	"slices"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	"hexarena/communication"
	"hexarena/game"
	"hexarena/meta"
)

// Phase is the turn state machine of a game.
type Phase int

const (
	Side0Turn Phase = iota
	Side1Turn
	GameOver
)

var phaseNames = map[Phase]string{
	Side0Turn: "side0_turn",
	Side1Turn: "side1_turn",
	GameOver:  "game_over",
}

func (p Phase) String() string {
	return phaseNames[p]
}

func phaseOf(side game.Side) Phase {
	if side == game.S1 {
		return Side1Turn
	}
	return Side0Turn
}

// Outgoing is a committed report together with the sides it is meant for.
type Outgoing struct {
	Audience communication.Audience
	Report   communication.Report
}

// Game owns every board of a session together with the cross-board
// economy. It is not safe for concurrent use; engine.Session serializes
// access to it.
type Game struct {
	cfg     *meta.Config
	Catalog game.Catalog
	Spells  game.SpellCatalog
	Boards  []*game.Board
	Logs    []*game.Log

	Mana          [2]int
	Techs         []Tech
	TechStates    [2][]TechState
	TechsThisTurn int
	ExtraTechs    int
	freeTechs     int
	performed     []techRecord
	extraSpells   []game.SpellID
	bought        map[string]int

	spellNames map[game.SpellID]string
	nextSpell  game.SpellID
	decks      [2][]string
	queues     [2][]game.SpellID
	revealed   [2]map[game.SpellID]bool
	Available  []game.SpellID

	Side   game.Side
	Turn   int
	Phase  Phase
	Wins   [2]int
	Winner *game.Side

	necromancers [2][]string
	rng          *rand.Rand

	outbox  []Outgoing
	gameSeq [2]int
	logger  zerolog.Logger
}

// NewGame builds a game from a validated config: every board is reset, both
// sides get their starting mana and S0 is to move with its spells drawn.
func NewGame(cfg *meta.Config) (*Game, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cat, err := cfg.Catalog()
	if err != nil {
		return nil, err
	}
	spells := game.DefaultSpells()
	if err := spells.Validate(cat); err != nil {
		return nil, err
	}
	layouts, err := cfg.Layouts()
	if err != nil {
		return nil, err
	}

	g := &Game{
		cfg:        cfg,
		Catalog:    cat,
		Spells:     spells,
		bought:     make(map[string]int),
		spellNames: make(map[game.SpellID]string),
		nextSpell:  1,
		revealed:   [2]map[game.SpellID]bool{{}, {}},
		Turn:       1,
		Side:       game.S0,
		Phase:      Side0Turn,
		rng:        rand.New(rand.NewSource(uint64(cfg.Seed))),
		logger:     log.Logger,
	}
	for _, name := range cfg.TechLine {
		g.Techs = append(g.Techs, Tech{Kind: PieceTech, Piece: name})
	}
	for _, side := range game.Sides {
		g.TechStates[side] = make([]TechState, len(g.Techs))
		g.Mana[side] = cfg.StartingMana
	}

	rules := game.NewStandardRules(cfg.ManaPerGraveyard)
	for i := range cfg.Boards {
		g.Boards = append(g.Boards, game.NewBoard(layouts[i], rules))
		g.Logs = append(g.Logs, &game.Log{})
		if err := g.resetBoard(i); err != nil {
			return nil, err
		}
	}

	for _, side := range game.Sides {
		g.refill(side)
	}
	g.draw(game.S0, len(g.Boards))
	for _, side := range game.Sides {
		g.showUpcoming(side)
	}
	// subscribers start from Initialize, nothing before it is sent
	g.outbox = nil
	return g, nil
}

// SetLogger replaces the logger used for turn and board events.
func (g *Game) SetLogger(l zerolog.Logger) {
	g.logger = l
}

func (g *Game) Config() *meta.Config {
	return g.cfg
}

// TakeReports returns the reports committed since the last call.
func (g *Game) TakeReports() []Outgoing {
	out := g.outbox
	g.outbox = nil
	return out
}

func (g *Game) push(aud communication.Audience, r communication.Report) {
	g.outbox = append(g.outbox, Outgoing{Audience: aud, Report: r})
}

// emit queues a report carrying a game sequence number. A copy is built for
// every side in aud since each side has its own sequence.
func (g *Game) emit(aud communication.Audience, build func(seq int) communication.Report) {
	for _, side := range game.Sides {
		if aud.Includes(side) {
			g.gameSeq[side]++
			g.push(communication.To(side), build(g.gameSeq[side]))
		}
	}
}

func (g *Game) reportGameAction(aud communication.Audience, side game.Side, a game.GameAction) error {
	if r, ok := a.(game.ResignBoard); ok {
		return game.Invariantf("resignation of board %d reached the broadcast path", r.Board)
	}
	g.emit(aud, func(seq int) communication.Report {
		return communication.ReportGameAction{Seq: seq, Side: side, Action: a}
	})
	return nil
}

// commitBoard logs a board action and reports it to everyone.
func (g *Game) commitBoard(idx int, side game.Side, a game.Action) {
	e := g.Logs[idx].Append(g.Turn, side, a)
	g.push(communication.Everyone, communication.ReportBoardAction{
		Board:  idx,
		Seq:    e.Seq,
		Turn:   e.Turn,
		Side:   side,
		Action: a,
	})
}

func (g *Game) applyContext() game.ApplyContext {
	return game.ApplyContext{
		Catalog:   g.Catalog,
		Spells:    g.Spells,
		SpellName: g.spellName,
		Unlocked:  g.Unlocked,
	}
}

func (g *Game) board(idx int) (*game.Board, error) {
	if idx < 0 || idx >= len(g.Boards) {
		return nil, game.Illegalf("no board %d", idx)
	}
	return g.Boards[idx], nil
}

// checkActive rejects intents of a side that may not act now.
func (g *Game) checkActive(side game.Side) error {
	if g.Phase == GameOver {
		return game.Illegalf("the game is over")
	}
	if !side.Valid() {
		return game.Illegalf("invalid side %d", side)
	}
	if side != g.Side {
		return game.OutOfTurnf("not your turn: %s is to move", g.Side)
	}
	return nil
}

// Snapshot is the game state as seen by viewer. Spell names the viewer has
// not been shown are left out.
func (g *Game) Snapshot(viewer game.Side) communication.GameSummary {
	s := communication.GameSummary{
		Viewer:     viewer,
		Turn:       g.Turn,
		Side:       g.Side,
		Phase:      g.Phase.String(),
		Mana:       g.Mana,
		Wins:       g.Wins,
		TargetWins: g.cfg.TargetWins,
		TechsUsed:  g.TechsThisTurn,
		ExtraTechs: g.ExtraTechs,
		Available:  slices.Clone(g.Available),
		Upcoming:   g.cards(g.upcoming(viewer)),
	}
	if g.Winner != nil {
		w := *g.Winner
		s.Winner = &w
	}
	for _, side := range game.Sides {
		for i, t := range g.Techs {
			s.Techs[side] = append(s.Techs[side], techView(t, g.TechStates[side][i]))
		}
	}
	known := slices.Sorted(maps.Keys(g.revealed[viewer]))
	s.Known = g.cards(known)
	return s
}

// Initialize is the first message of a subscription for viewer.
func (g *Game) Initialize(viewer game.Side) communication.Initialize {
	msg := communication.Initialize{
		Game:    g.Snapshot(viewer),
		GameSeq: g.gameSeq[viewer],
	}
	for i, b := range g.Boards {
		msg.Boards = append(msg.Boards, b.Summary())
		msg.BoardSeqs = append(msg.BoardSeqs, g.Logs[i].Seq())
	}
	return msg
}

// BoardHistory returns the full committed log of one board.
func (g *Game) BoardHistory(idx int) (communication.BoardHistory, error) {
	if _, err := g.board(idx); err != nil {
		return communication.BoardHistory{}, err
	}
	l := g.Logs[idx]
	return communication.BoardHistory{Board: idx, Seq: l.Seq(), Entries: l.Entries()}, nil
}
