package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"

	"github.com/hoanghai1803/newsbot/internal/models"
)

// summaryBatchSize caps how many articles go into one summarizing prompt.
const summaryBatchSize = 10

// minUsefulSummary is the length below which an existing summary is
// considered too thin to keep.
const minUsefulSummary = 20

// NeedsSummary reports whether an article's summary is absent or too short
// to be useful in a digest.
func NeedsSummary(a models.ScoredArticle) bool {
	return len(a.Summary) < minUsefulSummary
}

// EnhanceSummaries fills in missing or too-short summaries via the oracle,
// in sequential batches. The input order is preserved; articles whose
// batch failed keep their existing summary. Only Summary is ever replaced.
func EnhanceSummaries(ctx context.Context, provider Provider, articles []models.ScoredArticle) []models.ScoredArticle {
	var needy []models.ScoredArticle
	for _, a := range articles {
		if NeedsSummary(a) {
			needy = append(needy, a)
		}
	}
	if len(needy) == 0 {
		return articles
	}

	summaries := make(map[string]string)
	for batch := range slices.Chunk(needy, summaryBatchSize) {
		if err := summarizeBatch(ctx, provider, batch, summaries); err != nil {
			slog.Warn("skipping summary batch", "articles", len(batch), "error", err)
		}
	}

	enhanced := slices.Clone(articles)
	for i, a := range enhanced {
		if summary, ok := summaries[a.URL]; ok && summary != "" {
			enhanced[i].Summary = summary
		}
	}
	return enhanced
}

// summarizeBatch sends one batch to the oracle and records the returned
// summaries by article URL.
func summarizeBatch(ctx context.Context, provider Provider, batch []models.ScoredArticle, summaries map[string]string) error {
	plain := make([]models.Article, len(batch))
	for i, a := range batch {
		plain[i] = a.Article
	}
	userMessage := fmt.Sprintf("Summarize these articles:\n\n%s", formatArticleBatch(plain))

	response, err := provider.Complete(ctx, summarizeSystemPrompt, userMessage)
	if err != nil {
		return err
	}

	var records []struct {
		Index   int    `json:"index"`
		Summary string `json:"summary"`
	}
	if err := json.Unmarshal([]byte(extractJSON(response)), &records); err != nil {
		return fmt.Errorf("parsing summary response: %w", err)
	}

	for _, rec := range records {
		if rec.Index < 0 || rec.Index >= len(batch) {
			continue
		}
		summaries[batch[rec.Index].URL] = rec.Summary
	}
	return nil
}
