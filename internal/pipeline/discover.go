package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hoanghai1803/newsbot/internal/ai"
	"github.com/hoanghai1803/newsbot/internal/models"
)

// Discover fetches all configured sources, filters out previously-seen
// URLs, ranks the remainder against the interest profile, and persists the
// winners as the discovery artifact for the digest stage. Every fetched
// URL is marked seen, including articles that fell below the score
// threshold, so they never resurface in a later run.
func (p *Pipeline) Discover(ctx context.Context) ([]models.ScoredArticle, error) {
	slog.Info("discovering articles")

	sources := p.store.LoadSources()
	if len(sources.AllFeeds()) == 0 && len(sources.NewsSites) == 0 {
		slog.Info("no sources configured; run 'newsbot add-source <url>' to add one")
		return nil, nil
	}

	articles := p.fetcher.FetchAll(ctx, sources)
	slog.Info("fetched articles", "count", len(articles))
	if len(articles) == 0 {
		return nil, nil
	}

	seen := p.store.LoadSeen()
	var fresh []models.Article
	for _, a := range articles {
		if _, ok := seen[a.URL]; !ok {
			fresh = append(fresh, a)
		}
	}
	slog.Info("filtered seen articles", "fresh", len(fresh), "seen", len(articles)-len(fresh))
	if len(fresh) == 0 {
		return nil, nil
	}

	profile := p.store.LoadInterests()
	var scored []models.ScoredArticle
	if profile.IsEmpty() {
		slog.Info("no interest profile yet; including all articles unscored, run 'newsbot learn' first")
		scored = flatScore(fresh)
	} else {
		slog.Info("scoring articles against interest profile")
		result := ai.ScoreArticles(ctx, p.provider, fresh, profile)
		if result.SkippedBatches > 0 {
			slog.Warn("some scoring batches were skipped", "batches", result.SkippedBatches)
		}
		scored = result.Articles
	}

	config := p.store.LoadConfig()
	var top []models.ScoredArticle
	for _, a := range scored {
		if a.Score >= config.MinScore {
			top = append(top, a)
		}
	}
	if len(top) > config.MaxArticles {
		top = top[:config.MaxArticles]
	}
	slog.Info("selected articles above threshold", "count", len(top), "minScore", config.MinScore)

	for _, a := range articles {
		seen[a.URL] = struct{}{}
	}
	if err := p.store.SaveSeen(seen); err != nil {
		return nil, fmt.Errorf("saving seen ledger: %w", err)
	}
	if err := p.store.SaveArticles(top); err != nil {
		return nil, fmt.Errorf("saving discovery artifact: %w", err)
	}

	for i, a := range top {
		if i == 10 {
			break
		}
		slog.Info("top article", "score", fmt.Sprintf("%.2f", a.Score), "title", a.Title, "source", a.Source)
	}
	return top, nil
}

// flatScore wraps articles with a neutral 0.5 score when there is no
// profile to rank against. The feed description stands in for a summary.
func flatScore(articles []models.Article) []models.ScoredArticle {
	scored := make([]models.ScoredArticle, len(articles))
	for i, a := range articles {
		scored[i] = models.ScoredArticle{
			Article: a,
			Score:   0.5,
			Summary: a.Description,
		}
	}
	return scored
}
