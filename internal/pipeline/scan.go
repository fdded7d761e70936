package pipeline

import (
	"context"
	"log/slog"
	"time"
)

// Scan runs the full pipeline: learn, discover, curate, then prune the
// seen ledger of entries past retention.
func (p *Pipeline) Scan(ctx context.Context) error {
	slog.Info("running full scan")
	start := time.Now()

	if err := p.Learn(ctx); err != nil {
		return err
	}
	articles, err := p.Discover(ctx)
	if err != nil {
		return err
	}
	if err := p.Curate(ctx, articles); err != nil {
		return err
	}

	pruned, err := p.store.PruneSeen()
	if err != nil {
		slog.Warn("could not prune seen ledger", "error", err)
	} else if pruned > 0 {
		slog.Info("pruned old seen entries", "count", pruned)
	}

	slog.Info("scan complete", "elapsed", time.Since(start).Round(100*time.Millisecond))
	return nil
}
