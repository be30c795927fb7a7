// Package history records successful calculations in a bounded, persisted
// list and renders it for display and export.
package history

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"calcnerd/internal/engine"
	"calcnerd/internal/logging"

	"github.com/google/uuid"
)

// DefaultLimit is the number of entries kept when no limit is configured.
const DefaultLimit = 50

// ErrNotFound is returned when an entry ID is unknown.
var ErrNotFound = errors.New("history entry not found")

// Entry is one persisted calculation.
type Entry struct {
	ID        uuid.UUID `json:"id"`
	Expr      string    `json:"expr"`
	Result    float64   `json:"result"`
	CreatedAt time.Time `json:"created_at"`
}

// Line renders the entry the way exports show it: "<expr> = <result>".
func (e Entry) Line() string {
	return e.Expr + " = " + engine.FormatResult(e.Result)
}

// Store persists entries in insertion order.
type Store interface {
	AppendHistory(ctx context.Context, e Entry) error
	ListHistory(ctx context.Context) ([]Entry, error)
	GetHistory(ctx context.Context, id uuid.UUID) (Entry, error)
	TrimHistory(ctx context.Context, limit int) (int, error)
	ClearHistory(ctx context.Context) error
}

// Recorder appends records to a Store and keeps it within Limit entries,
// evicting the oldest first.
type Recorder struct {
	store Store
	limit int
	now   func() time.Time
}

// NewRecorder creates a recorder. A non-positive limit means DefaultLimit.
func NewRecorder(store Store, limit int) *Recorder {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Recorder{store: store, limit: limit, now: time.Now}
}

// Limit returns the maximum number of retained entries.
func (r *Recorder) Limit() int { return r.limit }

// Record persists rec and evicts anything beyond the limit.
func (r *Recorder) Record(ctx context.Context, rec engine.HistoryRecord) (Entry, error) {
	entry := Entry{
		ID:        uuid.New(),
		Expr:      rec.Expr,
		Result:    rec.Result,
		CreatedAt: r.now().UTC(),
	}
	if err := r.store.AppendHistory(ctx, entry); err != nil {
		return Entry{}, fmt.Errorf("failed to append history: %w", err)
	}

	removed, err := r.store.TrimHistory(ctx, r.limit)
	if err != nil {
		return entry, fmt.Errorf("failed to trim history: %w", err)
	}
	if removed > 0 {
		logging.HistoryDebug("Evicted %d entries (limit %d)", removed, r.limit)
	}
	logging.History("Recorded %s", entry.Line())
	return entry, nil
}

// Apply records the outcome's history record, if any. It returns nil for
// outcomes that carry no record.
func (r *Recorder) Apply(ctx context.Context, out engine.Outcome) (*Entry, error) {
	if out.Record == nil {
		return nil, nil
	}
	entry, err := r.Record(ctx, *out.Record)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// List returns all retained entries, oldest first.
func (r *Recorder) List(ctx context.Context) ([]Entry, error) {
	entries, err := r.store.ListHistory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	return entries, nil
}

// Get returns one entry by ID.
func (r *Recorder) Get(ctx context.Context, id uuid.UUID) (Entry, error) {
	return r.store.GetHistory(ctx, id)
}

// Clear removes every entry.
func (r *Recorder) Clear(ctx context.Context) error {
	if err := r.store.ClearHistory(ctx); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	logging.History("History cleared")
	return nil
}

// Export writes one line per entry, newline separated, with no trailing
// newline.
func Export(w io.Writer, entries []Entry) error {
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, e.Line())
	}
	_, err := io.WriteString(w, strings.Join(lines, "\n"))
	return err
}
