package engine

import (
	"fmt"
	"math"
)

// ApplyUnary applies action to the current operand. Percent with a pending
// operation takes that percentage of the previous operand. Square root of a
// negative number, the reciprocal of zero and any non-finite result put the
// engine in Error and drop the pending operation. Successful actions keep
// the pending operation.
func (e *Engine) ApplyUnary(action UnaryAction) Outcome {
	if e.current.IsError() {
		return noop
	}
	cur, ok := e.current.Float()
	if !ok {
		return noop
	}

	var (
		result float64
		expr   string
	)
	switch action {
	case ActionNegate:
		result = -cur
		expr = fmt.Sprintf("negate(%s)", FormatResult(cur))
	case ActionPercent:
		prev, hasPrev := e.previous.Float()
		if e.op != "" && hasPrev {
			result = prev * (cur / 100)
			expr = fmt.Sprintf("%s %s (%s%%)", FormatResult(prev), e.op, FormatResult(cur))
		} else {
			result = cur / 100
			expr = FormatResult(cur) + "%"
		}
	case ActionSqrt:
		if cur < 0 {
			return e.domainError()
		}
		result = math.Sqrt(cur)
		expr = fmt.Sprintf("√(%s)", FormatResult(cur))
	case ActionSquare:
		result = cur * cur
		expr = fmt.Sprintf("sqr(%s)", FormatResult(cur))
	case ActionReciprocal:
		if cur == 0 {
			return e.domainError()
		}
		result = 1 / cur
		expr = fmt.Sprintf("1/(%s)", FormatResult(cur))
	default:
		return noop
	}

	if !isFinite(result) {
		e.fail()
		return Outcome{Status: StatusOverflow}
	}

	out := succeeded(result, expr)
	e.current = Result(result)
	return out
}

func (e *Engine) domainError() Outcome {
	e.fail()
	return Outcome{Status: StatusDomainError}
}
