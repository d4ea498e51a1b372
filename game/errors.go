package game

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why an intent was rejected.
type ErrorKind int

const (
	IllegalAction ErrorKind = iota
	OutOfTurn
	StaleIntent
	ConfigurationError
	InternalInvariantViolation
)

// Sentinels matched with errors.Is against an *ActionError of the same kind.
var (
	ErrIllegal   = errors.New("illegal action")
	ErrOutOfTurn = errors.New("not your turn")
	ErrStale     = errors.New("stale intent")
	ErrConfig    = errors.New("configuration error")
	ErrInvariant = errors.New("internal invariant violation")
)

var kindNames = map[ErrorKind]string{
	IllegalAction:              "illegal_action",
	OutOfTurn:                  "out_of_turn",
	StaleIntent:                "stale_intent",
	ConfigurationError:         "configuration_error",
	InternalInvariantViolation: "internal_invariant_violation",
}

func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

func (k ErrorKind) sentinel() error {
	switch k {
	case OutOfTurn:
		return ErrOutOfTurn
	case StaleIntent:
		return ErrStale
	case ConfigurationError:
		return ErrConfig
	case InternalInvariantViolation:
		return ErrInvariant
	default:
		return ErrIllegal
	}
}

// ActionError is the structured rejection returned to the caller of a
// rejected intent. Reason is human readable.
type ActionError struct {
	Kind   ErrorKind
	Reason string
}

func (e *ActionError) Error() string {
	return e.Reason
}

func (e *ActionError) Unwrap() error {
	return e.Kind.sentinel()
}

// Fatal reports whether the error must abort the game session.
func (e *ActionError) Fatal() bool {
	return e.Kind == ConfigurationError || e.Kind == InternalInvariantViolation
}

func Illegalf(format string, args ...any) error {
	return &ActionError{Kind: IllegalAction, Reason: fmt.Sprintf(format, args...)}
}

func OutOfTurnf(format string, args ...any) error {
	return &ActionError{Kind: OutOfTurn, Reason: fmt.Sprintf(format, args...)}
}

func Stalef(format string, args ...any) error {
	return &ActionError{Kind: StaleIntent, Reason: fmt.Sprintf(format, args...)}
}

func Configf(format string, args ...any) error {
	return &ActionError{Kind: ConfigurationError, Reason: fmt.Sprintf(format, args...)}
}

func Invariantf(format string, args ...any) error {
	return &ActionError{Kind: InternalInvariantViolation, Reason: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of an *ActionError anywhere in err's chain, and
// false for any other error.
func KindOf(err error) (ErrorKind, bool) {
	var ae *ActionError
	if errors.As(err, &ae) {
		return ae.Kind, true
	}
	return 0, false
}

// IsFatal reports whether err carries a kind that must abort the session.
func IsFatal(err error) bool {
	var ae *ActionError
	return errors.As(err, &ae) && ae.Fatal()
}
