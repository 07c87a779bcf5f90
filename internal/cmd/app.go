// Package cmd implements the remindctl command tree.
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"remindkit/internal/config"
	"remindkit/internal/engine"
	"remindkit/internal/storage"
	"remindkit/internal/storage/file"
	"remindkit/internal/storage/memory"
	"remindkit/internal/storage/sqlite"
)

// App carries the shared state every subcommand needs: the loaded
// configuration, the opened store, and the expansion engine. It is
// initialized once by the root command's PersistentPreRunE.
type App struct {
	ConfigPath string
	StorePath  string

	cfg    *config.Config
	store  storage.Store
	engine *engine.Engine
	logger *slog.Logger
}

func (a *App) init() error {
	cfg, err := config.Load(a.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config %s: %w", a.ConfigPath, err)
	}
	a.cfg = cfg

	a.logger = newLogger(cfg.LogLevel)

	path := cfg.Store
	if a.StorePath != "" {
		path = a.StorePath
	}
	st, err := openStore(path)
	if err != nil {
		return fmt.Errorf("open store %s: %w", path, err)
	}
	a.store = st

	a.engine = engine.New(
		engine.WithLogger(a.logger),
		engine.WithSearchConfig(cfg.SearchConfig()),
	)
	return nil
}

// Close releases the store. Safe to call before init succeeded.
func (a *App) Close() error {
	if a.store == nil {
		return nil
	}
	return a.store.Close()
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

// openStore picks the backend from the path: "memory" for the in-memory
// store, ".db"/".sqlite" for SQLite, anything else for the JSON file store.
func openStore(path string) (storage.Store, error) {
	switch {
	case path == "memory":
		return memory.New(), nil
	case strings.HasSuffix(path, ".db"), strings.HasSuffix(path, ".sqlite"):
		return sqlite.Open(path)
	default:
		return file.New(path)
	}
}
