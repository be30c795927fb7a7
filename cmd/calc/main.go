// Package main implements the calc CLI.
//
// calc is a four-function calculator with unary keys, a memory register,
// persistent history and history export. Running it without a subcommand
// opens the interactive terminal UI; the subcommands drive the same engine
// and stores from scripts.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"calcnerd/cmd/calc/tui"
	"calcnerd/internal/config"
	"calcnerd/internal/history"
	"calcnerd/internal/logging"
	"calcnerd/internal/memory"
	"calcnerd/internal/metrics"
	"calcnerd/internal/store"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	verbose    bool
	workspace  string
	configPath string
	ephemeral  bool

	// Set up in PersistentPreRunE
	logger *zap.Logger
	cfg    *config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "calc",
	Short: "calc - a terminal calculator with memory and history",
	Long: `calc is a four-function calculator for the terminal.

It keeps a memory register and the last results in a local SQLite database,
can export its history to a file or an S3 bucket, and follows a YAML config
that is watched for changes while the UI is open.

Run without arguments for the interactive UI, or use "calc eval" from scripts.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zapCfg := zap.NewProductionConfig()
		if verbose {
			zapCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		} else {
			zapCfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		}
		var err error
		logger, err = zapCfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return loadConfig()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.CloseAll()
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runInteractive,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", "", "Workspace directory (default: current)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: <workspace>/.calcnerd/config.yaml or ~/.calcnerd/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&ephemeral, "ephemeral", false, "Keep history and memory in memory only")

	rootCmd.AddCommand(evalCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(memoryCmd)
	rootCmd.AddCommand(themeCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig resolves the workspace and config path, loads the config and
// starts the category loggers.
func loadConfig() error {
	if workspace == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to resolve workspace: %w", err)
		}
		workspace = wd
	}
	if configPath == "" {
		configPath = config.DefaultPath(workspace)
	}

	loaded, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if verbose {
		loaded.Logging.DebugMode = true
		loaded.Logging.Level = "debug"
	}
	if err := loaded.Validate(); err != nil {
		return err
	}
	cfg = loaded

	logOpts := cfg.Logging.Options()
	logOpts.Dir = filepath.Join(filepath.Dir(configPath), "logs")
	if err := logging.Initialize(workspace, logOpts); err != nil {
		logger.Warn("Category logging disabled", zap.Error(err))
	}
	logging.Boot("calc %s starting (workspace %s, config %s)", cfg.Version, workspace, configPath)
	return nil
}

// session holds the stores shared by every command.
type session struct {
	backend  store.Backend
	recorder *history.Recorder
	memory   *memory.Register
	metrics  *metrics.Recorder
}

func databasePath() string {
	return config.ResolvePath(filepath.Dir(configPath), cfg.Storage.DatabasePath)
}

func openSession(ctx context.Context) (*session, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	path := databasePath()
	backend, err := store.Open(path, cfg.Storage.Driver, ephemeral)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	logger.Debug("Store opened", zap.String("path", path), zap.Bool("ephemeral", ephemeral))

	reg, err := memory.Open(ctx, backend)
	if err != nil {
		_ = backend.Close()
		return nil, err
	}
	return &session{
		backend:  backend,
		recorder: history.NewRecorder(backend, cfg.History.Limit),
		memory:   reg,
		metrics:  metrics.New(),
	}, nil
}

// close flushes metrics and closes the store.
func (s *session) close() {
	if err := s.metrics.Flush(cfg.Metrics.Textfile); err != nil {
		logger.Warn("Failed to flush metrics", zap.Error(err))
	}
	if err := s.backend.Close(); err != nil {
		logger.Warn("Failed to close store", zap.Error(err))
	}
}

// runInteractive opens the calculator UI.
func runInteractive(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sess, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer sess.close()

	m, err := tui.New(tui.Options{
		Context:    ctx,
		Config:     cfg,
		ConfigPath: configPath,
		Recorder:   sess.recorder,
		Memory:     sess.memory,
		Metrics:    sess.metrics,
		Export:     tui.ExportWith(cfg.Export),
	})
	if err != nil {
		return err
	}

	watcher, err := config.NewWatcher(configPath, config.DefaultDebounce)
	if err != nil {
		logger.Warn("Config watcher disabled", zap.Error(err))
		watcher = nil
	}
	return tui.Run(ctx, m, watcher)
}
