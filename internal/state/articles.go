package state

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/hoanghai1803/newsbot/internal/models"
)

// LoadArticles reads the discovery artifact: the filtered top-N scored
// articles handed from the discover stage to the digest stage. Unlike the
// other state files this one is required by its consumer, so absence is an
// error the caller reports.
func (s *Store) LoadArticles() ([]models.ScoredArticle, error) {
	raw, err := os.ReadFile(s.articlesPath())
	if err != nil {
		return nil, fmt.Errorf("reading discovery artifact: %w", err)
	}
	var articles []models.ScoredArticle
	if err := json.Unmarshal(raw, &articles); err != nil {
		return nil, fmt.Errorf("parsing discovery artifact: %w", err)
	}
	return articles, nil
}

// SaveArticles atomically persists the discovery artifact.
func (s *Store) SaveArticles(articles []models.ScoredArticle) error {
	if articles == nil {
		articles = []models.ScoredArticle{}
	}
	data, err := json.MarshalIndent(articles, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding discovery artifact: %w", err)
	}
	return s.atomicWrite(s.articlesPath(), data)
}
