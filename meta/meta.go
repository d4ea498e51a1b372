// meta/meta.go
package meta

// BOARDS defines the number of boards played at the same time.
const BOARDS = 2

// TARGET_WINS defines the board wins a side needs to win the game.
const TARGET_WINS = 3

// TURN_SECONDS defines the turn timer. Zero disables it.
const TURN_SECONDS = 120

// TIME_REPORT_SECONDS defines how often the remaining turn time is reported.
const TIME_REPORT_SECONDS = 10

// MANA_PER_GRAVEYARD defines the income of one occupied graveyard.
const MANA_PER_GRAVEYARD = 1

// STARTING_MANA defines each side's mana at the start of the game.
const STARTING_MANA = 3

// TECH_COST_PER_BOARD defines the mana cost of a paid tech, per board.
const TECH_COST_PER_BOARD = 2

// EXTRA_TECH_COST defines the price of BuyExtraTechAndSpell.
const EXTRA_TECH_COST = 3

// REVEAL_AHEAD defines how many queued spells a side can see.
const REVEAL_AHEAD = 2

// INBOX_SIZE defines the buffer of a session's command queue.
const INBOX_SIZE = 64

// SUBSCRIBER_BUFFER defines the report buffer of one subscriber. A
// subscriber that falls this far behind is dropped.
const SUBSCRIBER_BUFFER = 256

// MAP_WIDTH and MAP_HEIGHT define the size of generated maps.
const MAP_WIDTH = 9
const MAP_HEIGHT = 7
