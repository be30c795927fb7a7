package engine

import (
	"fmt"
	"math"
	"strings"
)

// Engine is the two-operand calculator state machine. The zero value is
// not ready for use; construct one with New.
type Engine struct {
	current  Value
	previous Value
	op       Op
}

// New returns an engine in the cleared state.
func New() *Engine {
	e := &Engine{}
	e.Clear()
	return e
}

// Clear resets the engine to current "0", no previous operand and no
// pending operation.
func (e *Engine) Clear() {
	e.current = Numeral("0")
	e.resetPending()
}

func (e *Engine) resetPending() {
	e.previous = Value{}
	e.op = ""
}

func (e *Engine) fail() {
	e.current = ErrorValue()
	e.resetPending()
}

// Current returns the value in the current operand slot.
func (e *Engine) Current() Value { return e.current }

// Operation returns the pending operator and whether one is pending.
func (e *Engine) Operation() (Op, bool) { return e.op, e.op != "" }

// Previous returns the "<operand> <op>" snapshot taken when the pending
// operation was chosen, or "" when nothing is pending.
func (e *Engine) Previous() string {
	if e.op == "" {
		return ""
	}
	return e.previous.Text() + " " + string(e.op)
}

// AppendDigit appends a digit or decimal point to the current operand and
// reports whether the token was accepted. A second "." is rejected, and a
// digit typed over "0" replaces it. Typing over Error starts a new numeral.
func (e *Engine) AppendDigit(token string) bool {
	if !isDigitToken(token) {
		return false
	}
	if e.current.IsError() {
		e.current = Numeral("0")
	}

	text := e.current.Text()
	if token == "." && strings.Contains(text, ".") {
		return false
	}
	if text == "0" && token != "." {
		e.current = Numeral(token)
		return true
	}
	e.current = Numeral(text + token)
	return true
}

func isDigitToken(token string) bool {
	if len(token) != 1 {
		return false
	}
	c := token[0]
	return c == '.' || (c >= '0' && c <= '9')
}

// ChooseOperation makes op the pending operation. When another operation is
// already pending it is folded first, and the returned Outcome is that of
// the fold; otherwise the Outcome is a no-op. A fold that fails leaves the
// engine in Error and op is not recorded.
func (e *Engine) ChooseOperation(op Op) Outcome {
	if !op.Valid() || e.current.IsError() || e.current.Text() == "" {
		return noop
	}

	folded := noop
	if e.op != "" {
		folded = e.Compute()
		if e.current.IsError() {
			return folded
		}
	}

	e.op = op
	e.previous = e.current
	e.current = Numeral("0")
	return folded
}

// Compute folds the previous operand into the current one under the pending
// operation. On success the result becomes the current operand and the
// pending operation is cleared. Division by exactly zero and non-finite
// results leave the engine in Error with nothing pending.
func (e *Engine) Compute() Outcome {
	if e.op == "" || e.current.IsError() {
		return noop
	}
	left, ok := e.previous.Float()
	if !ok {
		return noop
	}
	right, ok := e.current.Float()
	if !ok {
		return noop
	}

	var result float64
	switch e.op {
	case OpAdd:
		result = left + right
	case OpSubtract:
		result = left - right
	case OpMultiply:
		result = left * right
	case OpDivide:
		if right == 0 {
			e.fail()
			return Outcome{Status: StatusDivideByZero}
		}
		result = left / right
	default:
		return noop
	}

	if !isFinite(result) {
		e.fail()
		return Outcome{Status: StatusOverflow}
	}

	// Build the record from the operands before they are replaced.
	out := succeeded(result, fmt.Sprintf("%s %s %s", FormatResult(left), e.op, FormatResult(right)))
	e.current = Result(result)
	e.resetPending()
	return out
}

// Delete removes the last character of the current operand, falling back to
// "0" when nothing meaningful is left. Delete on Error clears the engine.
func (e *Engine) Delete() {
	if e.current.IsError() {
		e.Clear()
		return
	}
	text := e.current.Text()
	if text != "" {
		text = text[:len(text)-1]
	}
	if text == "" || text == "-" {
		text = "0"
	}
	e.current = Numeral(text)
}

// Recall puts v into the current operand slot and keeps any pending
// operation, so a recalled value can serve as the right operand.
func (e *Engine) Recall(v float64) {
	if !isFinite(v) {
		e.fail()
		return
	}
	e.current = Result(v)
}

// Reuse puts v into the current operand slot and drops any pending
// operation, as when a past result is picked from history.
func (e *Engine) Reuse(v float64) {
	e.Recall(v)
	e.resetPending()
}

func isFinite(v float64) bool {
	return !math.IsInf(v, 0) && !math.IsNaN(v)
}
