package game

import "fmt"

// Side is one of the two teams.
type Side int

const (
	S0 Side = 0
	S1 Side = 1
)

// Sides lists both teams in order, for loops over per-side arrays.
var Sides = [2]Side{S0, S1}

// Other returns the opposing side.
func (s Side) Other() Side {
	return 1 - s
}

func (s Side) Valid() bool {
	return s == S0 || s == S1
}

func (s Side) String() string {
	return fmt.Sprintf("S%d", int(s))
}

// enum text helpers shared by the catalog enums so they read as names in
// YAML and JSON.

func enumName(names []string, v int) string {
	if v >= 0 && v < len(names) {
		return names[v]
	}
	return fmt.Sprintf("%d", v)
}

func parseEnum(names []string, text []byte, what string) (int, error) {
	s := string(text)
	for i, name := range names {
		if name == s {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown %s %q", what, s)
}
