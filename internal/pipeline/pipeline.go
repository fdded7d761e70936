// Package pipeline sequences the three newsbot stages: learning interests
// from browser history, discovering and ranking fresh articles, and
// curating the digest. Each stage degrades gracefully on empty input so a
// scheduled scan never fails just because there was nothing to do.
package pipeline

import (
	"context"

	"github.com/hoanghai1803/newsbot/internal/ai"
	"github.com/hoanghai1803/newsbot/internal/models"
	"github.com/hoanghai1803/newsbot/internal/state"
)

// HistorySource produces recent browser-history entries, newest first.
type HistorySource interface {
	Read(ctx context.Context, daysBack int) []models.HistoryEntry
}

// ArticleSource fetches candidate articles from the configured sources.
type ArticleSource interface {
	FetchAll(ctx context.Context, sources models.SourceList) []models.Article
}

// TextExtractor pulls readable article text from a URL, used to give the
// summarizer material when a feed item carries no description.
type TextExtractor interface {
	ExtractArticle(url string) (string, error)
}

// Pipeline wires the stages to their collaborators.
type Pipeline struct {
	store     *state.Store
	provider  ai.Provider
	history   HistorySource
	fetcher   ArticleSource
	extractor TextExtractor // optional
}

// New creates a Pipeline. extractor may be nil, in which case articles
// without descriptions go to the summarizer as-is.
func New(store *state.Store, provider ai.Provider, history HistorySource, fetcher ArticleSource, extractor TextExtractor) *Pipeline {
	return &Pipeline{
		store:     store,
		provider:  provider,
		history:   history,
		fetcher:   fetcher,
		extractor: extractor,
	}
}
