package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/vk/spawnwind/internal/ctxlog"
	"github.com/vk/spawnwind/internal/variantstore"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW       io.Writer
	logger     *slog.Logger
	config     *Config
	ctx        context.Context
	httpServer *http.Server

	store *variantstore.Store
	total atomic.Int64
}

// NewApp is the constructor for the main application. It returns an App with
// its own isolated logger.
func NewApp(outW io.Writer, cfg *Config) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	logger.Debug("Logger configured successfully.")

	return &App{
		outW:   outW,
		logger: logger,
		config: cfg,
		ctx:    ctxlog.WithLogger(context.Background(), logger),
		store:  variantstore.New(),
	}
}

// Results returns the outcome of every variant written or skipped by the
// last run, keyed by variant name.
func (a *App) Results() map[string]variantstore.Result {
	return a.store.Results()
}

// Store returns the variant store of the last run. This is primarily for testing.
func (a *App) Store() *variantstore.Store {
	return a.store
}
