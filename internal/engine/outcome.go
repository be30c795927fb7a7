package engine

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for failed computations. Engine methods never return
// them directly; Status.Err maps a failed Outcome onto one of these.
var (
	ErrDivideByZero = errors.New("divide by zero")
	ErrOverflow     = errors.New("result is not finite")
	ErrDomain       = errors.New("operand outside function domain")
)

// Op is a binary operator.
type Op string

const (
	OpAdd      Op = "+"
	OpSubtract Op = "-"
	OpMultiply Op = "×"
	OpDivide   Op = "÷"
)

// Valid reports whether op is one of the four supported operators.
func (op Op) Valid() bool {
	switch op {
	case OpAdd, OpSubtract, OpMultiply, OpDivide:
		return true
	}
	return false
}

// ParseOp maps an operator symbol, including the ASCII aliases used by
// keyboards and shells, to an Op.
func ParseOp(s string) (Op, error) {
	switch strings.TrimSpace(s) {
	case "+":
		return OpAdd, nil
	case "-", "−":
		return OpSubtract, nil
	case "×", "*", "x", "X":
		return OpMultiply, nil
	case "÷", "/":
		return OpDivide, nil
	}
	return "", fmt.Errorf("unknown operator %q", s)
}

// UnaryAction is an operation applied to the current operand alone.
type UnaryAction string

const (
	ActionNegate     UnaryAction = "negate"
	ActionPercent    UnaryAction = "percent"
	ActionSqrt       UnaryAction = "sqrt"
	ActionSquare     UnaryAction = "square"
	ActionReciprocal UnaryAction = "reciprocal"
)

// ParseUnaryAction accepts the canonical action names and a few short
// aliases.
func ParseUnaryAction(s string) (UnaryAction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "negate", "neg", "+/-", "±":
		return ActionNegate, nil
	case "percent", "%":
		return ActionPercent, nil
	case "sqrt", "√":
		return ActionSqrt, nil
	case "square", "sqr", "sq", "x²":
		return ActionSquare, nil
	case "reciprocal", "inv", "1/x":
		return ActionReciprocal, nil
	}
	return "", fmt.Errorf("unknown action %q", s)
}

// Status classifies the result of a computing operation.
type Status int

const (
	// StatusNoOp means the engine state was left untouched: nothing was
	// pending, the operand did not parse, or the engine holds Error.
	StatusNoOp Status = iota
	StatusOK
	StatusDivideByZero
	StatusOverflow
	StatusDomainError
)

// String returns a human-readable name for the status.
func (s Status) String() string {
	switch s {
	case StatusNoOp:
		return "noop"
	case StatusOK:
		return "ok"
	case StatusDivideByZero:
		return "divide_by_zero"
	case StatusOverflow:
		return "overflow"
	case StatusDomainError:
		return "domain_error"
	default:
		return "unknown"
	}
}

// Err returns the sentinel error for failed statuses and nil otherwise.
func (s Status) Err() error {
	switch s {
	case StatusDivideByZero:
		return ErrDivideByZero
	case StatusOverflow:
		return ErrOverflow
	case StatusDomainError:
		return ErrDomain
	}
	return nil
}

// HistoryRecord is the {expression, result} pair emitted by a successful
// computation.
type HistoryRecord struct {
	Expr   string  `json:"expr"`
	Result float64 `json:"result"`
}

// Outcome reports what a computing operation did. Record is set exactly
// when Status is StatusOK.
type Outcome struct {
	Status Status
	Result float64
	Record *HistoryRecord
}

// OK reports whether the operation produced a new value.
func (o Outcome) OK() bool { return o.Status == StatusOK }

// Failed reports whether the operation left the engine in the Error state.
func (o Outcome) Failed() bool { return o.Status.Err() != nil }

// Err returns the sentinel error for a failed outcome.
func (o Outcome) Err() error { return o.Status.Err() }

var noop = Outcome{Status: StatusNoOp}

func succeeded(result float64, expr string) Outcome {
	return Outcome{
		Status: StatusOK,
		Result: result,
		Record: &HistoryRecord{Expr: expr, Result: result},
	}
}
