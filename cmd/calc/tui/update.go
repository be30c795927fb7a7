package tui

import (
	"fmt"

	"calcnerd/internal/engine"
	"calcnerd/internal/logging"
	"calcnerd/internal/metrics"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return m, nil

	case ConfigReloadedMsg:
		if msg.Config != nil {
			if msg.Config.UI.Theme != m.cfg.UI.Theme {
				logging.UI("Theme changed on disk: %s", msg.Config.UI.Theme)
			}
			m.cfg = msg.Config
			m.applyTheme(msg.Config.UI.Theme)
		}
		return m, nil

	case exportDoneMsg:
		if msg.err != nil {
			m.metrics.Count(metrics.KindExport, "history", "error")
			m.setError(fmt.Errorf("export failed: %w", msg.err))
			return m, nil
		}
		m.metrics.Count(metrics.KindExport, "history", "ok")
		m.setStatus("Exported to %s", msg.location)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.history, cmd = m.history.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}
	if key.Matches(msg, m.keys.Help) {
		m.showHelp = !m.showHelp
		return m, nil
	}
	if m.showHelp {
		if msg.Type == tea.KeyEsc {
			m.showHelp = false
		}
		return m, nil
	}
	if key.Matches(msg, m.keys.Focus) {
		m.toggleFocus()
		return m, nil
	}
	if m.focus == focusHistory {
		return m.handleHistoryKey(msg)
	}

	s := msg.String()
	switch {
	case isDigitKey(s):
		m.engine.AppendDigit(s)
		return m, nil

	case key.Matches(msg, m.keys.Operators):
		op, err := engine.ParseOp(s)
		if err != nil {
			return m, nil
		}
		m.apply(metrics.KindBinary, string(op), m.engine.ChooseOperation(op))

	case key.Matches(msg, m.keys.Compute):
		op, _ := m.engine.Operation()
		m.apply(metrics.KindBinary, string(op), m.engine.Compute())

	case key.Matches(msg, m.keys.Delete):
		m.engine.Delete()

	case key.Matches(msg, m.keys.Clear):
		m.engine.Clear()
		m.status = ""

	case key.Matches(msg, m.keys.Negate):
		m.unary(engine.ActionNegate)
	case key.Matches(msg, m.keys.Percent):
		m.unary(engine.ActionPercent)
	case key.Matches(msg, m.keys.Sqrt):
		m.unary(engine.ActionSqrt)
	case key.Matches(msg, m.keys.Square):
		m.unary(engine.ActionSquare)
	case key.Matches(msg, m.keys.Reciprocal):
		m.unary(engine.ActionReciprocal)

	case key.Matches(msg, m.keys.MemoryAdd):
		m.memoryAdjust("add")
	case key.Matches(msg, m.keys.MemorySubtract):
		m.memoryAdjust("sub")
	case key.Matches(msg, m.keys.MemoryRecall):
		m.engine.Recall(m.memory.Recall())
		m.metrics.Count(metrics.KindMemory, "recall", "ok")
	case key.Matches(msg, m.keys.MemoryClear):
		if err := m.memory.Clear(m.ctx); err != nil {
			m.setError(err)
		} else {
			m.metrics.Count(metrics.KindMemory, "clear", "ok")
			m.setStatus("Memory cleared")
		}

	case key.Matches(msg, m.keys.Copy):
		m.copyCurrent()

	case key.Matches(msg, m.keys.Export):
		return m, m.exportCmd()

	case key.Matches(msg, m.keys.ClearHistory):
		if err := m.recorder.Clear(m.ctx); err != nil {
			m.setError(err)
		} else if err := m.reloadHistory(); err != nil {
			m.setError(err)
		} else {
			m.setStatus("History cleared")
		}

	case key.Matches(msg, m.keys.Theme):
		m.toggleTheme()
	}
	return m, nil
}

func (m Model) handleHistoryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.history.MoveUp()
	case key.Matches(msg, m.keys.Down):
		m.history.MoveDown()
	case key.Matches(msg, m.keys.Compute):
		if e, ok := m.history.Selected(); ok {
			m.engine.Reuse(e.Result)
			m.setStatus("Reused %s", e.Line())
			m.toggleFocus()
		}
	case key.Matches(msg, m.keys.Clear):
		m.toggleFocus()
	}
	return m, nil
}

func isDigitKey(s string) bool {
	if s == "." {
		return true
	}
	return len(s) == 1 && s[0] >= '0' && s[0] <= '9'
}

func (m *Model) toggleFocus() {
	if m.focus == focusKeypad && m.history.Len() > 0 {
		m.focus = focusHistory
		m.history.Focus()
		return
	}
	m.focus = focusKeypad
	m.history.Blur()
}

func (m *Model) unary(action engine.UnaryAction) {
	m.apply(metrics.KindUnary, string(action), m.engine.ApplyUnary(action))
}

// apply handles an engine outcome: metrics, history and the status line.
func (m *Model) apply(kind, op string, out engine.Outcome) {
	m.metrics.Observe(kind, op, out)
	if out.Failed() {
		logging.Engine("%s %s failed: %s", kind, op, out.Status)
		m.setError(out.Err())
		return
	}
	entry, err := m.recorder.Apply(m.ctx, out)
	if err != nil {
		m.setError(err)
		return
	}
	if entry != nil {
		m.status = ""
		if err := m.reloadHistory(); err != nil {
			m.setError(err)
		}
	}
}

func (m *Model) memoryAdjust(op string) {
	var (
		ok  bool
		err error
	)
	if op == "add" {
		ok, err = m.memory.Add(m.ctx, m.engine.Current())
	} else {
		ok, err = m.memory.Subtract(m.ctx, m.engine.Current())
	}
	switch {
	case err != nil:
		m.metrics.Count(metrics.KindMemory, op, "error")
		m.setError(err)
	case ok:
		m.metrics.Count(metrics.KindMemory, op, "ok")
	}
}

// copyCurrent copies the current operand as typed or computed, without
// display grouping, so it pastes back as a number.
func (m *Model) copyCurrent() {
	current := m.engine.Current().Text()
	if err := clipboardWriteAll(current); err != nil {
		m.setError(fmt.Errorf("copy failed: %w", err))
		return
	}
	m.setStatus("Copied %s", current)
}

func (m *Model) toggleTheme() {
	next := m.cfg.ToggleTheme()
	m.applyTheme(next)
	if m.configPath == "" {
		m.setStatus("Theme: %s", next)
		return
	}
	if err := m.cfg.Save(m.configPath); err != nil {
		m.setError(fmt.Errorf("failed to save theme: %w", err))
		return
	}
	m.setStatus("Theme: %s", next)
}

func (m *Model) exportCmd() tea.Cmd {
	if m.exportFn == nil {
		m.setStatus("Export not configured")
		return nil
	}
	ctx := m.ctx
	fn := m.exportFn
	rec := m.recorder
	m.setStatus("Exporting…")
	return func() tea.Msg {
		entries, err := rec.List(ctx)
		if err != nil {
			return exportDoneMsg{err: err}
		}
		loc, err := fn(ctx, entries)
		return exportDoneMsg{location: loc, err: err}
	}
}
