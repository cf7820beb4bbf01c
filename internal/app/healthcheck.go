package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/vk/spawnwind/internal/ctxlog"
	"github.com/vk/spawnwind/internal/variantstore"
)

// healthHandler answers health checks with the progress of the current run.
func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	logger := ctxlog.FromContext(a.ctx)
	logger.Debug("Health check endpoint hit.", "remote_addr", r.RemoteAddr, "path", r.URL.Path)

	counts := a.store.Counts()
	done := counts[variantstore.StatusWritten] + counts[variantstore.StatusSkipped] + counts[variantstore.StatusFailed]

	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
	fmt.Fprintf(w, "variants: %d/%d\n", done, a.total.Load())
	for _, status := range []variantstore.Status{
		variantstore.StatusPending,
		variantstore.StatusRunning,
		variantstore.StatusWritten,
		variantstore.StatusSkipped,
		variantstore.StatusFailed,
	} {
		fmt.Fprintf(w, "%s: %d\n", status, counts[status])
	}
	for _, name := range a.store.Names() {
		if err := a.store.GetError(name); err != nil {
			fmt.Fprintf(w, "error %s: %v\n", name, err)
		}
	}
}

// startHealthCheckServer runs the health check HTTP server in the background.
func (a *App) startHealthCheckServer() {
	logger := ctxlog.FromContext(a.ctx)
	logger.Debug("Configuring health check server.")
	if a.config.HealthcheckPort <= 0 {
		logger.Debug("Health check server not started: disabled")
		return
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", a.healthHandler)

	addr := fmt.Sprintf(":%d", a.config.HealthcheckPort)
	a.httpServer = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("🩺 Health check server starting", "address", fmt.Sprintf("http://localhost%s/health", addr))
		// ListenAndServe returns ErrServerClosed on graceful shutdown.
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Health check server failed unexpectedly", "error", err)
		}
	}()
}

// shutdownContext bounds server shutdown. It outlives the run context, which
// is already cancelled when a signal ends the run.
func (a *App) shutdownContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(a.ctx), 5*time.Second)
}

func (a *App) closeHealthCheckServer() error {
	logger := ctxlog.FromContext(a.ctx)
	if a.httpServer == nil {
		logger.Debug("Health check server was not running.")
		return nil
	}

	ctx, cancel := a.shutdownContext()
	defer cancel()

	logger.Debug("Shutting down health check server...")
	if err := a.httpServer.Shutdown(ctx); err != nil {
		logger.Error("Health check server shutdown failed", "error", err)
		return err
	}
	a.httpServer = nil
	logger.Debug("Health check server shut down gracefully.")
	return nil
}
