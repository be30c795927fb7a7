package history_test

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"

	"calcnerd/internal/engine"
	"calcnerd/internal/history"
	"calcnerd/internal/store"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordAndList(t *testing.T) {
	ctx := context.Background()
	r := history.NewRecorder(store.NewMemStore(), 0)
	assert.Equal(t, history.DefaultLimit, r.Limit())

	e, err := r.Record(ctx, engine.HistoryRecord{Expr: "3 + 4", Result: 7})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, e.ID)
	assert.False(t, e.CreatedAt.IsZero())

	got, err := r.Get(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, "3 + 4 = 7", got.Line())
}

func TestRecorderEvictsOldest(t *testing.T) {
	ctx := context.Background()
	r := history.NewRecorder(store.NewMemStore(), history.DefaultLimit)

	for i := 1; i <= 51; i++ {
		_, err := r.Record(ctx, engine.HistoryRecord{Expr: fmt.Sprintf("%d + 0", i), Result: float64(i)})
		require.NoError(t, err)
	}

	entries, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 50)
	assert.Equal(t, "2 + 0", entries[0].Expr)
	assert.Equal(t, "51 + 0", entries[49].Expr)
}

func TestRecorderWithLocalStore(t *testing.T) {
	ctx := context.Background()
	s, err := store.NewLocalStore(":memory:", store.DriverModernc)
	require.NoError(t, err)
	defer s.Close()

	r := history.NewRecorder(s, 2)
	for _, expr := range []string{"a", "b", "c"} {
		_, err := r.Record(ctx, engine.HistoryRecord{Expr: expr, Result: 1})
		require.NoError(t, err)
	}

	entries, err := r.List(ctx)
	require.NoError(t, err)
	var exprs []string
	for _, e := range entries {
		exprs = append(exprs, e.Expr)
	}
	if diff := cmp.Diff([]string{"b", "c"}, exprs); diff != "" {
		t.Errorf("retained entries mismatch (-want +got):\n%s", diff)
	}
}

func TestApply(t *testing.T) {
	ctx := context.Background()
	r := history.NewRecorder(store.NewMemStore(), 10)

	eng := engine.New()
	eng.AppendDigit("6")
	eng.ChooseOperation(engine.OpMultiply)
	eng.AppendDigit("7")

	entry, err := r.Apply(ctx, eng.Compute())
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "6 × 7 = 42", entry.Line())

	entry, err = r.Apply(ctx, eng.Compute())
	require.NoError(t, err)
	assert.Nil(t, entry, "no-op outcomes record nothing")

	entries, err := r.List(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	r := history.NewRecorder(store.NewMemStore(), 10)
	_, err := r.Record(ctx, engine.HistoryRecord{Expr: "1 + 1", Result: 2})
	require.NoError(t, err)

	require.NoError(t, r.Clear(ctx))
	entries, err := r.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestGetUnknown(t *testing.T) {
	r := history.NewRecorder(store.NewMemStore(), 10)
	_, err := r.Get(context.Background(), uuid.New())
	assert.True(t, errors.Is(err, history.ErrNotFound))
}

func TestExport(t *testing.T) {
	entries := []history.Entry{
		{Expr: "1,234 + 1,000", Result: 2234},
		{Expr: "1/(3)", Result: 1.0 / 3.0},
		{Expr: "sqr(1e200)", Result: math.Inf(1)},
	}

	var b strings.Builder
	require.NoError(t, history.Export(&b, entries))
	assert.Equal(t, "1,234 + 1,000 = 2,234\n1/(3) = 0.333333333333\nsqr(1e200) = ∞", b.String())
}

func TestExportEmpty(t *testing.T) {
	var b strings.Builder
	require.NoError(t, history.Export(&b, nil))
	assert.Empty(t, b.String())
}
