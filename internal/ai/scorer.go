package ai

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"

	"github.com/hoanghai1803/newsbot/internal/models"
)

// scoringBatchSize caps how many articles go into one scoring prompt, to
// respect the oracle's input-size limits.
const scoringBatchSize = 20

// ScoreResult is the outcome of a scoring pass. SkippedBatches counts
// batches whose oracle call failed or whose response did not parse; their
// articles are simply absent from Articles.
type ScoreResult struct {
	Articles       []models.ScoredArticle
	SkippedBatches int
}

// scoredRecord is one oracle scoring record. Index addresses the article's
// position within its batch, not the global list.
type scoredRecord struct {
	Index   int      `json:"index"`
	Score   float64  `json:"score"`
	Topics  []string `json:"topics"`
	Summary string   `json:"summary"`
}

// ScoreArticles ranks articles against the interest profile. Articles are
// scored in sequential batches; a batch that fails in any way is dropped
// whole, so scoring degrades to fewer results rather than an error. Scores
// are clamped to [0, 1], then pinned and blocked topics are re-asserted
// locally: the prompt instructs the oracle to honor them, but the oracle is
// not trusted to comply. The result is sorted by score, descending.
func ScoreArticles(ctx context.Context, provider Provider, articles []models.Article, profile models.InterestProfile) ScoreResult {
	if len(articles) == 0 {
		return ScoreResult{}
	}

	profileText := formatProfile(profile)
	pinned := topicSet(profile.Pinned)
	blocked := topicSet(profile.Blocked)

	var result ScoreResult
	for batch := range slices.Chunk(articles, scoringBatchSize) {
		scored, err := scoreBatch(ctx, provider, profileText, batch)
		if err != nil {
			slog.Warn("skipping scoring batch", "articles", len(batch), "error", err)
			result.SkippedBatches++
			continue
		}
		result.Articles = append(result.Articles, scored...)
	}

	for i := range result.Articles {
		enforceTopicPolicy(&result.Articles[i], pinned, blocked)
	}

	slices.SortFunc(result.Articles, func(a, b models.ScoredArticle) int {
		return cmp.Compare(b.Score, a.Score)
	})
	return result
}

// scoreBatch sends one batch to the oracle and maps its records back onto
// the batch's articles. Records with out-of-range indices are discarded.
func scoreBatch(ctx context.Context, provider Provider, profileText string, batch []models.Article) ([]models.ScoredArticle, error) {
	userMessage := fmt.Sprintf("Interest Profile:\n%s\n\nArticles:\n%s", profileText, formatArticleBatch(batch))

	response, err := provider.Complete(ctx, scoreArticlesSystemPrompt, userMessage)
	if err != nil {
		return nil, err
	}

	var records []scoredRecord
	if err := json.Unmarshal([]byte(extractJSON(response)), &records); err != nil {
		return nil, fmt.Errorf("parsing scoring response: %w", err)
	}

	var scored []models.ScoredArticle
	for _, rec := range records {
		if rec.Index < 0 || rec.Index >= len(batch) {
			continue
		}
		scored = append(scored, models.ScoredArticle{
			Article: batch[rec.Index],
			Score:   clampScore(rec.Score),
			Topics:  rec.Topics,
			Summary: rec.Summary,
		})
	}
	return scored, nil
}

// enforceTopicPolicy re-asserts the pinned/blocked contract on a scored
// article: any blocked topic tag forces the score to 0, otherwise any
// pinned topic tag forces it to 1. Blocked wins over pinned.
func enforceTopicPolicy(a *models.ScoredArticle, pinned, blocked map[string]bool) {
	for _, topic := range a.Topics {
		if blocked[models.NormalizeTopic(topic)] {
			a.Score = 0
			return
		}
	}
	for _, topic := range a.Topics {
		if pinned[models.NormalizeTopic(topic)] {
			a.Score = 1
			return
		}
	}
}

func topicSet(interests []models.Interest) map[string]bool {
	set := make(map[string]bool, len(interests))
	for _, i := range interests {
		set[i.Key()] = true
	}
	return set
}
