package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hoanghai1803/newsbot/internal/ai"
	"github.com/hoanghai1803/newsbot/internal/digest"
	"github.com/hoanghai1803/newsbot/internal/models"
)

// CurateStored renders the digest from the discovery artifact written by
// the last Discover run. A missing artifact is not an error, just a hint
// to run discover first.
func (p *Pipeline) CurateStored(ctx context.Context) error {
	articles, err := p.store.LoadArticles()
	if err != nil {
		slog.Info("no articles found; run 'newsbot discover' first")
		return nil
	}
	return p.Curate(ctx, articles)
}

// Curate renders the digest from ranked articles. Yesterday's digest is
// archived under its date before being overwritten; an existing archive
// for the same date is left alone.
func (p *Pipeline) Curate(ctx context.Context, articles []models.ScoredArticle) error {
	slog.Info("generating digest")

	if len(articles) == 0 {
		slog.Info("no articles to include in digest")
		return nil
	}

	p.backfillDescriptions(articles)

	slog.Info("enhancing summaries", "articles", len(articles))
	enhanced := ai.EnhanceSummaries(ctx, p.provider, articles)

	sources := p.store.LoadSources()
	meta := models.DigestMetadata{
		GeneratedAt:    time.Now(),
		ArticleCount:   len(enhanced),
		SourcesScanned: len(sources.AllFeeds()) + len(sources.NewsSites),
		TopTopics:      digest.TopTopics(enhanced, 8),
	}

	html, err := digest.Render(enhanced, meta)
	if err != nil {
		return err
	}

	if err := p.store.ArchiveDigest(); err != nil {
		slog.Warn("could not archive previous digest", "error", err)
	}
	if err := p.store.WriteDigest(html); err != nil {
		return fmt.Errorf("writing digest: %w", err)
	}

	slog.Info("digest written",
		"path", p.store.DigestPath(),
		"articles", len(enhanced),
		"topics", len(meta.TopTopics))
	return nil
}

// backfillDescriptions fetches readable article text for items that need a
// generated summary but carry no feed description, so the summarizer has
// something to work with. Extraction failures are ignored.
func (p *Pipeline) backfillDescriptions(articles []models.ScoredArticle) {
	if p.extractor == nil {
		return
	}
	for i := range articles {
		if articles[i].Description != "" || !ai.NeedsSummary(articles[i]) {
			continue
		}
		text, err := p.extractor.ExtractArticle(articles[i].URL)
		if err != nil {
			slog.Debug("could not extract article text", "url", articles[i].URL, "error", err)
			continue
		}
		articles[i].Description = text
	}
}
