// Package tui implements the interactive calculator on bubbletea.
package tui

import (
	"context"
	"fmt"

	"calcnerd/cmd/calc/ui"
	"calcnerd/internal/config"
	"calcnerd/internal/engine"
	"calcnerd/internal/export"
	"calcnerd/internal/history"
	"calcnerd/internal/logging"
	"calcnerd/internal/memory"
	"calcnerd/internal/metrics"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
)

// clipboardWriteAll is a package-level variable to allow mocking in tests.
var clipboardWriteAll = clipboard.WriteAll

// ExportFunc writes entries somewhere and returns the location.
type ExportFunc func(ctx context.Context, entries []history.Entry) (string, error)

// ExportWith returns an ExportFunc that writes to the configured export
// destination: the S3 bucket when one is set, the export directory
// otherwise.
func ExportWith(cfg config.ExportConfig) ExportFunc {
	return func(ctx context.Context, entries []history.Entry) (string, error) {
		sink, name, err := export.Resolve(ctx, "", cfg)
		if err != nil {
			return "", err
		}
		return export.History(ctx, sink, name, entries)
	}
}

// Options wires the model to its collaborators.
type Options struct {
	Context    context.Context
	Config     *config.Config
	ConfigPath string // theme toggles are saved here; empty disables saving
	Recorder   *history.Recorder
	Memory     *memory.Register
	Metrics    *metrics.Recorder
	Export     ExportFunc
}

// ConfigReloadedMsg carries a config picked up by the file watcher.
type ConfigReloadedMsg struct {
	Config *config.Config
}

type exportDoneMsg struct {
	location string
	err      error
}

type focus int

const (
	focusKeypad focus = iota
	focusHistory
)

// Model is the calculator screen.
type Model struct {
	ctx context.Context

	engine   *engine.Engine
	recorder *history.Recorder
	memory   *memory.Register
	metrics  *metrics.Recorder
	exportFn ExportFunc

	cfg        *config.Config
	configPath string

	styles  ui.Styles
	keys    keyMap
	help    help.Model
	history ui.HistoryPageModel

	focus    focus
	showHelp bool
	status   string
	isError  bool
	width    int
	height   int
}

// New builds the model and loads the current history list.
func New(opts Options) (Model, error) {
	if opts.Recorder == nil || opts.Memory == nil {
		return Model{}, fmt.Errorf("tui: recorder and memory are required")
	}
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	rec := opts.Metrics
	if rec == nil {
		rec = metrics.New()
	}

	styles := ui.StylesFor(cfg.UI.Theme)
	m := Model{
		ctx:        ctx,
		engine:     engine.New(),
		recorder:   opts.Recorder,
		memory:     opts.Memory,
		metrics:    rec,
		exportFn:   opts.Export,
		cfg:        cfg,
		configPath: opts.ConfigPath,
		styles:     styles,
		keys:       defaultKeyMap(),
		help:       help.New(),
		history:    ui.NewHistoryPageModel(styles),
	}
	if err := m.reloadHistory(); err != nil {
		return Model{}, err
	}
	return m, nil
}

// Engine exposes the engine, mainly for tests.
func (m Model) Engine() *engine.Engine { return m.engine }

// Status returns the last status line.
func (m Model) Status() string { return m.status }

// Theme returns the active theme name.
func (m Model) Theme() string { return m.cfg.UI.Theme }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	logging.UI("Calculator started (theme %s, history limit %d)", m.cfg.UI.Theme, m.recorder.Limit())
	return nil
}

func (m *Model) reloadHistory() error {
	entries, err := m.recorder.List(m.ctx)
	if err != nil {
		return err
	}
	m.history.SetEntries(entries)
	m.metrics.SetHistoryEntries(len(entries))
	return nil
}

func (m *Model) setStatus(format string, args ...interface{}) {
	m.status = fmt.Sprintf(format, args...)
	m.isError = false
}

func (m *Model) setError(err error) {
	m.status = err.Error()
	m.isError = true
	logging.Get(logging.CategoryUI).Warn("%v", err)
}

func (m *Model) applyTheme(name string) {
	m.cfg.UI.Theme = name
	m.styles = ui.StylesFor(name)
	m.history.SetStyles(m.styles)
}

func (m *Model) layout() {
	if m.width == 0 {
		return
	}
	if ui.SideBySide(m.width) {
		m.history.SetSize(m.width-ui.DisplayWidth-8, m.height-6)
	} else {
		m.history.SetSize(m.width-4, m.height/3)
	}
	m.help.Width = m.width
}
