package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hoanghai1803/newsbot/internal/models"
)

// historyBatchSize caps how many history entries go into one extraction
// prompt.
const historyBatchSize = 100

// ExtractInterests asks the oracle to infer weighted interest topics from
// browser history. Only the first 100 entries (newest first) are sent.
// Provider failures propagate to the caller; an unparseable response yields
// zero interests.
func ExtractInterests(ctx context.Context, provider Provider, entries []models.HistoryEntry) ([]models.Interest, error) {
	if len(entries) == 0 {
		return nil, nil
	}

	batch := entries
	if len(batch) > historyBatchSize {
		batch = batch[:historyBatchSize]
	}

	userMessage := fmt.Sprintf("Extract interests from this browser history:\n\n%s", formatHistoryEntries(batch))
	response, err := provider.Complete(ctx, extractInterestsSystemPrompt, userMessage)
	if err != nil {
		return nil, fmt.Errorf("extracting interests: %w", err)
	}

	var parsed []struct {
		Topic  string  `json:"topic"`
		Weight float64 `json:"weight"`
	}
	if err := json.Unmarshal([]byte(extractJSON(response)), &parsed); err != nil {
		slog.Warn("could not parse interest extraction response", "error", err)
		return nil, nil
	}

	interests := make([]models.Interest, 0, len(parsed))
	for _, item := range parsed {
		if item.Topic == "" {
			continue
		}
		interests = append(interests, models.Interest{
			Topic:  item.Topic,
			Weight: clampScore(item.Weight),
		})
	}
	return interests, nil
}
