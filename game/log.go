package game

// ResetInfo records a board reset in the log.
type ResetInfo struct {
	Necromancers [2]string    `json:"necromancers"`
	Summary      BoardSummary `json:"summary"`
}

// LogEntry is one committed change to a board. Exactly one of Action and
// Reset is set.
type LogEntry struct {
	Seq    int        `json:"seq"`
	Turn   int        `json:"turn"`
	Side   Side       `json:"side"`
	Action Action     `json:"-"`
	Reset  *ResetInfo `json:"reset,omitempty"`
}

// Log is the authoritative history of one board. Sequence numbers start at
// 1 and have no gaps.
type Log struct {
	entries []LogEntry
}

func (l *Log) Seq() int {
	return len(l.entries)
}

// Append records an applied action and returns its entry.
func (l *Log) Append(turn int, side Side, a Action) LogEntry {
	e := LogEntry{Seq: len(l.entries) + 1, Turn: turn, Side: side, Action: a}
	l.entries = append(l.entries, e)
	return e
}

// AppendReset records a board reset.
func (l *Log) AppendReset(turn int, info ResetInfo) LogEntry {
	e := LogEntry{Seq: len(l.entries) + 1, Turn: turn, Reset: &info}
	l.entries = append(l.entries, e)
	return e
}

// Since returns the entries after seq.
func (l *Log) Since(seq int) []LogEntry {
	if seq < 0 {
		seq = 0
	}
	if seq >= len(l.entries) {
		return nil
	}
	return append([]LogEntry(nil), l.entries[seq:]...)
}

// Entries returns the whole history.
func (l *Log) Entries() []LogEntry {
	return l.Since(0)
}
