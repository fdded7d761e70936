package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hoanghai1803/newsbot/internal/ai"
	"github.com/hoanghai1803/newsbot/internal/browser"
	"github.com/hoanghai1803/newsbot/internal/state"
)

// Learn reads recent browser history, extracts weighted interests via the
// oracle, and merges them into the stored profile with decay. Missing
// history or an empty extraction leaves the profile untouched.
func (p *Pipeline) Learn(ctx context.Context) error {
	slog.Info("learning from browser history")

	config := p.store.LoadConfig()
	entries := p.history.Read(ctx, config.HistoryDays)
	if len(entries) == 0 {
		slog.Info("no browser history found; make sure Chrome or Brave is installed")
		return nil
	}
	slog.Info("collected history entries", "count", len(entries), "days", config.HistoryDays)

	for _, dc := range browser.TopDomains(entries, 10) {
		slog.Debug("top domain", "domain", dc.Domain, "visits", dc.Visits)
	}

	extracted, err := ai.ExtractInterests(ctx, p.provider, entries)
	if err != nil {
		return err
	}
	if len(extracted) == 0 {
		slog.Warn("could not extract interests from history")
		return nil
	}
	slog.Info("extracted interests", "count", len(extracted))

	existing := p.store.LoadInterests()
	merged := state.MergeInterests(existing, extracted, state.DefaultDecay)
	if err := p.store.SaveInterests(merged); err != nil {
		return fmt.Errorf("saving interests: %w", err)
	}

	slog.Info("updated interest profile",
		"high", len(merged.High),
		"moderate", len(merged.Moderate))
	return nil
}
