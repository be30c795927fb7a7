package engine

import "strings"

// Snapshot is a read-only copy of the engine state for renderers.
type Snapshot struct {
	Current   string
	Previous  string
	Operation Op
	Kind      Kind
}

// Snapshot captures the current state.
func (e *Engine) Snapshot() Snapshot {
	return Snapshot{
		Current:   e.current.Text(),
		Previous:  e.Previous(),
		Operation: e.op,
		Kind:      e.current.Kind(),
	}
}

// Pending reports whether a binary operation is waiting for its right
// operand.
func (s Snapshot) Pending() bool { return s.Operation != "" }

// Display returns the two display lines. The current line is the formatted
// current operand, or "Error". The previous line is the formatted operand
// portion of Previous followed by the operator, or "" when nothing is
// pending.
func (s Snapshot) Display() (current, previous string) {
	if s.Kind == KindError {
		current = ErrorText
	} else {
		current = FormatNumeral(s.Current)
	}
	if s.Pending() {
		operand, _, _ := strings.Cut(s.Previous, " ")
		previous = FormatNumeral(operand) + " " + string(s.Operation)
	}
	return current, previous
}
