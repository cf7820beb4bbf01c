package app

import (
	"context"
	"fmt"

	"github.com/vk/spawnwind/internal/ctxlog"
	"github.com/vk/spawnwind/internal/document"
	"github.com/vk/spawnwind/internal/plan"
)

// loadPlan reads and validates the plan named in the configuration.
func (a *App) loadPlan(ctx context.Context) (*plan.Plan, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading plan...", "plan_path", a.config.PlanPath)

	p, err := plan.Load(ctx, a.config.PlanPath, a.config.Vars)
	if err != nil {
		return nil, fmt.Errorf("failed to load plan: %w", err)
	}
	logger.Info("Plan loaded successfully.", "inputs", len(p.Inputs), "variants", len(p.Variants))
	return p, nil
}

// loadInputs opens every input used by at least one variant. Each input is
// read once; variants work on clones of it.
func (a *App) loadInputs(ctx context.Context, p *plan.Plan) (map[string]*document.Document, error) {
	logger := ctxlog.FromContext(ctx)

	used := make(map[string]bool, len(p.Inputs))
	for _, v := range p.Variants {
		used[v.Input] = true
	}

	docs := make(map[string]*document.Document, len(used))
	for _, in := range p.Inputs {
		if !used[in.Name] {
			logger.Warn("Input is not used by any variant, skipping.", "input", in.Name)
			continue
		}

		kind, err := document.KindByName(in.Kind)
		if err != nil {
			return nil, fmt.Errorf("input %q: %w", in.Name, err)
		}
		var opts []document.Option
		if in.Separator != "" {
			opts = append(opts, document.WithSeparator(in.Separator))
		}

		doc, err := document.FromFile(in.Source, kind, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to load input %q: %w", in.Name, err)
		}
		logger.Debug("Input loaded.", "input", in.Name, "kind", kind.Name, "source", in.Source, "lines", doc.Len())
		docs[in.Name] = doc
	}
	return docs, nil
}
