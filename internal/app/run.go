package app

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/vk/spawnwind/internal/ctxlog"
	"github.com/vk/spawnwind/internal/variantstore"
)

// Run loads the plan and writes every variant it declares. Variants are
// handled concurrently, up to WorkerCount at a time. The first failure
// cancels the remaining variants and is returned.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.ctx = ctx
	a.logger.Debug("App.Run method started.")
	a.store = variantstore.New()
	a.total.Store(0)

	a.startHealthCheckServer()
	defer func() {
		if err := a.closeHealthCheckServer(); err != nil {
			a.logger.Warn("Health check server did not close cleanly.", "error", err)
		}
	}()

	p, err := a.loadPlan(ctx)
	if err != nil {
		return err
	}
	if len(p.Variants) == 0 {
		a.logger.Warn("No variants found in plan, nothing to write.")
		return nil
	}

	inputs, err := a.loadInputs(ctx, p)
	if err != nil {
		return err
	}

	a.total.Store(int64(len(p.Variants)))
	for _, v := range p.Variants {
		a.store.SetStatus(v.Name, variantstore.StatusPending)
	}

	a.logger.Info("🚀 Writing variants...", "count", len(p.Variants), "workers", a.config.WorkerCount, "dry_run", a.config.DryRun)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.config.WorkerCount)
	for _, v := range p.Variants {
		base := inputs[v.Input]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			a.store.SetStatus(v.Name, variantstore.StatusRunning)
			res, err := a.writeVariant(gctx, v, base.Clone())
			if err != nil {
				a.store.SetError(v.Name, err)
				return fmt.Errorf("variant %q: %w", v.Name, err)
			}
			a.store.SetResult(res)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		for _, name := range a.store.Names() {
			if verr := a.store.GetError(name); verr != nil {
				a.logger.Error("Variant failed.", "variant", name, "error", verr)
			}
		}
		return fmt.Errorf("execution failed: %w", err)
	}

	counts := a.store.Counts()
	a.logger.Info("🏁 Variants finished.",
		"written", counts[variantstore.StatusWritten],
		"skipped", counts[variantstore.StatusSkipped],
	)
	a.logger.Debug("App.Run method finished.")
	return nil
}
