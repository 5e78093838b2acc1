// Package engine is the pipeline facade: normalize → assign ids (once, at
// template load) → resolve → cleanup. Every rendering surface goes through
// here with a mode instead of re-deriving the logic.
package engine

import (
	"log/slog"

	"github.com/leadlaw/contractengine/internal/docmodel"
	"github.com/leadlaw/contractengine/internal/normalize"
	"github.com/leadlaw/contractengine/internal/placeholder"
	"github.com/leadlaw/contractengine/internal/pricing"
	"github.com/leadlaw/contractengine/internal/resolve"
	"github.com/leadlaw/contractengine/internal/tiermatch"
)

// Engine renders contract documents and recomputes pricing state. It holds
// no per-contract state; callers re-run the pipeline on every input change.
type Engine struct {
	log   *slog.Logger
	rules *tiermatch.RuleSet
}

// New creates an engine. A nil rule set selects the built-in tier rules.
func New(log *slog.Logger, rules *tiermatch.RuleSet) *Engine {
	if rules == nil {
		rules = tiermatch.DefaultRules()
	}
	return &Engine{log: log, rules: rules}
}

// LoadTemplate normalizes stored template content and assigns addressable
// field ids. ID assignment only matches bare tokens, so re-loading already
// addressed content is a no-op.
func (e *Engine) LoadTemplate(raw any) (*docmodel.Node, []string) {
	doc, warnings := normalize.Normalize(raw)
	doc = placeholder.AssignIDs(doc)
	for _, w := range warnings {
		e.log.Warn("template normalization", "warning", w)
	}
	return doc, warnings
}

// Render runs one full resolution pass over a loaded template: resolve,
// cleanup, root-shape guard. The input tree is not mutated.
func (e *Engine) Render(in resolve.Input) resolve.Result {
	if in.Rules == nil {
		in.Rules = e.rules
	}
	res := resolve.Resolve(in)
	res.Doc = resolve.Cleanup(res.Doc)
	res.Doc = docmodel.EnsureDoc(res.Doc)
	if len(res.Warnings) > 0 {
		e.log.Info("render completed with warnings", "mode", in.Mode, "warnings", res.Warnings)
	}
	return res
}

// Recompute re-derives the dependent pricing fields and payment plan.
func (e *Engine) Recompute(st *pricing.State) []string {
	warnings := st.Recompute()
	if len(warnings) > 0 {
		e.log.Info("pricing recomputed with warnings", "warnings", warnings)
	}
	return warnings
}
