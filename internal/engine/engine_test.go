package engine

import (
	"math"
	"math/rand"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var clearedSnapshot = Snapshot{Current: "0", Kind: KindNumeral}

func typeDigits(t *testing.T, e *Engine, digits string) {
	t.Helper()
	for _, r := range digits {
		e.AppendDigit(string(r))
	}
}

func TestNewIsCleared(t *testing.T) {
	e := New()
	if diff := cmp.Diff(clearedSnapshot, e.Snapshot()); diff != "" {
		t.Fatalf("fresh engine mismatch (-want +got):\n%s", diff)
	}
	_, pending := e.Operation()
	assert.False(t, pending)
	assert.Equal(t, "", e.Previous())
}

func TestAppendDigit(t *testing.T) {
	tests := []struct {
		name   string
		tokens []string
		want   string
	}{
		{name: "digit replaces zero", tokens: []string{"5"}, want: "5"},
		{name: "zero over zero stays zero", tokens: []string{"0", "0"}, want: "0"},
		{name: "point after zero", tokens: []string{"."}, want: "0."},
		{name: "second point rejected", tokens: []string{"1", ".", "2", ".", "3"}, want: "1.23"},
		{name: "concatenates", tokens: []string{"1", "2", "3"}, want: "123"},
		{name: "invalid tokens ignored", tokens: []string{"a", "12", "", "7"}, want: "7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New()
			for _, tok := range tt.tokens {
				e.AppendDigit(tok)
			}
			assert.Equal(t, tt.want, e.Current().Text())
			assert.Equal(t, KindNumeral, e.Current().Kind())
		})
	}
}

func TestAppendDigitReportsAcceptance(t *testing.T) {
	e := New()
	assert.True(t, e.AppendDigit("1"))
	assert.True(t, e.AppendDigit("."))
	assert.False(t, e.AppendDigit("."))
	assert.False(t, e.AppendDigit("x"))
}

func TestAppendDigitNeverProducesTwoPoints(t *testing.T) {
	tokens := []string{"0", "1", "2", "3", "4", "5", "6", "7", "8", "9", "."}
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 500; i++ {
		e := New()
		for j := 0; j < rng.Intn(20); j++ {
			e.AppendDigit(tokens[rng.Intn(len(tokens))])
			require.LessOrEqual(t, strings.Count(e.Current().Text(), "."), 1, "operand %q", e.Current().Text())
		}
	}
}

func TestDivideByZero(t *testing.T) {
	e := New()
	e.AppendDigit("8")
	e.ChooseOperation(OpDivide)
	e.AppendDigit("0")
	out := e.Compute()

	assert.Equal(t, StatusDivideByZero, out.Status)
	assert.ErrorIs(t, out.Err(), ErrDivideByZero)
	assert.True(t, out.Failed())
	assert.Nil(t, out.Record)

	want := Snapshot{Current: ErrorText, Kind: KindError}
	if diff := cmp.Diff(want, e.Snapshot()); diff != "" {
		t.Fatalf("state after divide by zero (-want +got):\n%s", diff)
	}
}

func TestChainedOperationsFold(t *testing.T) {
	e := New()
	e.AppendDigit("3")
	assert.Equal(t, StatusNoOp, e.ChooseOperation(OpAdd).Status)
	e.AppendDigit("4")

	folded := e.ChooseOperation(OpMultiply)
	require.True(t, folded.OK())
	require.NotNil(t, folded.Record)
	assert.Equal(t, HistoryRecord{Expr: "3 + 4", Result: 7}, *folded.Record)
	assert.Equal(t, "7 ×", e.Previous())
	assert.Equal(t, "0", e.Current().Text())

	e.AppendDigit("2")
	out := e.Compute()
	require.True(t, out.OK())
	assert.Equal(t, 14.0, out.Result)
	assert.Equal(t, HistoryRecord{Expr: "7 × 2", Result: 14}, *out.Record)

	want := Snapshot{Current: "14", Kind: KindResult}
	if diff := cmp.Diff(want, e.Snapshot()); diff != "" {
		t.Fatalf("state after chain (-want +got):\n%s", diff)
	}
}

func TestComputeArithmetic(t *testing.T) {
	tests := []struct {
		left, right string
		op          Op
		want        string
		expr        string
	}{
		{"12", "30", OpAdd, "42", "12 + 30"},
		{"5", "8", OpSubtract, "-3", "5 - 8"},
		{"1.5", "4", OpMultiply, "6", "1.5 × 4"},
		{"1", "4", OpDivide, "0.25", "1 ÷ 4"},
		{"0.1", "0.2", OpAdd, "0.30000000000000004", "0.1 + 0.2"},
		{"1234", "1000", OpAdd, "2234", "1,234 + 1,000"},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			e := New()
			typeDigits(t, e, tt.left)
			e.ChooseOperation(tt.op)
			typeDigits(t, e, tt.right)
			out := e.Compute()

			require.True(t, out.OK())
			assert.Equal(t, tt.want, e.Current().Text())
			assert.Equal(t, tt.expr, out.Record.Expr)
			_, pending := e.Operation()
			assert.False(t, pending)
			assert.Equal(t, "", e.Previous())
		})
	}
}

func TestComputeOverflow(t *testing.T) {
	e := New()
	e.Recall(1e308)
	e.ChooseOperation(OpMultiply)
	e.Recall(10)
	out := e.Compute()

	assert.Equal(t, StatusOverflow, out.Status)
	assert.ErrorIs(t, out.Err(), ErrOverflow)
	assert.Nil(t, out.Record)
	assert.True(t, e.Current().IsError())
	_, pending := e.Operation()
	assert.False(t, pending)
}

func TestComputeWithoutPendingIsNoOp(t *testing.T) {
	e := New()
	e.AppendDigit("9")
	out := e.Compute()
	assert.Equal(t, StatusNoOp, out.Status)
	assert.Nil(t, out.Record)
	assert.Equal(t, "9", e.Current().Text())
}

func TestComputeUnparseableOperandIsNoOp(t *testing.T) {
	e := New()
	e.AppendDigit("4")
	e.ChooseOperation(OpAdd)
	e.current = Numeral(".")

	before := e.Snapshot()
	out := e.Compute()
	assert.Equal(t, StatusNoOp, out.Status)
	if diff := cmp.Diff(before, e.Snapshot()); diff != "" {
		t.Fatalf("state changed on malformed operand (-before +after):\n%s", diff)
	}
}

func TestChooseOperationSnapshotsOperand(t *testing.T) {
	e := New()
	typeDigits(t, e, "5.")
	e.ChooseOperation(OpSubtract)
	assert.Equal(t, "5. -", e.Previous())
	assert.Equal(t, "0", e.Current().Text())

	op, pending := e.Operation()
	assert.True(t, pending)
	assert.Equal(t, OpSubtract, op)
}

func TestChooseOperationRejectsInvalidOperator(t *testing.T) {
	e := New()
	e.AppendDigit("5")
	out := e.ChooseOperation(Op("^"))
	assert.Equal(t, StatusNoOp, out.Status)
	_, pending := e.Operation()
	assert.False(t, pending)
}

func TestErrorShortCircuitsArithmetic(t *testing.T) {
	e := New()
	e.AppendDigit("8")
	e.ChooseOperation(OpDivide)
	e.Compute()
	require.True(t, e.Current().IsError())

	assert.Equal(t, StatusNoOp, e.ChooseOperation(OpAdd).Status)
	assert.Equal(t, StatusNoOp, e.Compute().Status)
	assert.Equal(t, StatusNoOp, e.ApplyUnary(ActionSquare).Status)
	assert.True(t, e.Current().IsError())
	_, pending := e.Operation()
	assert.False(t, pending)
}

func TestChainedFoldErrorStopsOperator(t *testing.T) {
	e := New()
	e.AppendDigit("8")
	e.ChooseOperation(OpDivide)
	e.AppendDigit("0")
	out := e.ChooseOperation(OpAdd)

	assert.Equal(t, StatusDivideByZero, out.Status)
	assert.True(t, e.Current().IsError())
	assert.Equal(t, "", e.Previous())
}

func TestTypingAfterErrorStartsFresh(t *testing.T) {
	e := New()
	e.ApplyUnary(ActionReciprocal)
	require.True(t, e.Current().IsError())

	e.AppendDigit("7")
	assert.Equal(t, "7", e.Current().Text())

	e.Clear()
	e.ApplyUnary(ActionReciprocal)
	require.True(t, e.Current().IsError())
	e.AppendDigit(".")
	assert.Equal(t, "0.", e.Current().Text())
}

func TestDelete(t *testing.T) {
	e := New()
	typeDigits(t, e, "123")
	e.Delete()
	assert.Equal(t, "12", e.Current().Text())
	e.Delete()
	e.Delete()
	assert.Equal(t, "0", e.Current().Text())

	for i := 0; i < 5; i++ {
		e.Delete()
		require.Equal(t, "0", e.Current().Text())
	}
}

func TestDeleteNegativeSingleDigit(t *testing.T) {
	e := New()
	e.AppendDigit("5")
	e.ApplyUnary(ActionNegate)
	require.Equal(t, "-5", e.Current().Text())

	e.Delete()
	assert.Equal(t, "0", e.Current().Text())
}

func TestDeleteOnResultEditsCanonicalText(t *testing.T) {
	e := New()
	e.Recall(7.5)
	e.Delete()
	assert.Equal(t, "7.", e.Current().Text())
	assert.Equal(t, KindNumeral, e.Current().Kind())
}

func TestDeleteOnErrorClears(t *testing.T) {
	e := New()
	e.AppendDigit("4")
	e.ChooseOperation(OpDivide)
	e.Compute()
	require.True(t, e.Current().IsError())

	e.Delete()
	if diff := cmp.Diff(clearedSnapshot, e.Snapshot()); diff != "" {
		t.Fatalf("delete on error (-want +got):\n%s", diff)
	}
}

func TestClearRestoresDefaults(t *testing.T) {
	setups := map[string]func(e *Engine){
		"pending":  func(e *Engine) { e.AppendDigit("3"); e.ChooseOperation(OpAdd); e.AppendDigit("9") },
		"error":    func(e *Engine) { e.ApplyUnary(ActionReciprocal) },
		"result":   func(e *Engine) { e.Recall(12.5) },
		"fraction": func(e *Engine) { e.AppendDigit("."); e.AppendDigit("5") },
	}

	for name, setup := range setups {
		t.Run(name, func(t *testing.T) {
			e := New()
			setup(e)
			e.Clear()
			if diff := cmp.Diff(clearedSnapshot, e.Snapshot()); diff != "" {
				t.Fatalf("clear (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRecallKeepsPendingReuseDropsIt(t *testing.T) {
	e := New()
	e.AppendDigit("3")
	e.ChooseOperation(OpAdd)
	e.Recall(4)
	_, pending := e.Operation()
	require.True(t, pending)

	out := e.Compute()
	require.True(t, out.OK())
	assert.Equal(t, 7.0, out.Result)

	e.AppendDigit("3")
	e.ChooseOperation(OpAdd)
	e.Reuse(2.5)
	_, pending = e.Operation()
	assert.False(t, pending)
	assert.Equal(t, "2.5", e.Current().Text())

	e.Recall(math.Inf(1))
	assert.True(t, e.Current().IsError())
}

func TestParseOp(t *testing.T) {
	for in, want := range map[string]Op{"+": OpAdd, "-": OpSubtract, "*": OpMultiply, "x": OpMultiply, "×": OpMultiply, "/": OpDivide, "÷": OpDivide} {
		got, err := ParseOp(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseOp("^")
	assert.Error(t, err)
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "divide_by_zero", StatusDivideByZero.String())
	assert.Equal(t, "unknown", Status(99).String())
	assert.NoError(t, StatusOK.Err())
	assert.NoError(t, StatusNoOp.Err())
}
