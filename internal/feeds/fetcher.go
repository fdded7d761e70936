// Package feeds fetches candidate articles from the configured content
// sources: RSS/Atom feeds, scraped news-site headlines, and full-text
// extraction for articles that need summarizing.
package feeds

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/mmcdole/gofeed"
	"golang.org/x/sync/errgroup"

	"github.com/hoanghai1803/newsbot/internal/models"
)

const (
	httpTimeout   = 15 * time.Second
	maxConcurrent = 10
)

// Fetcher retrieves articles from feeds and news sites with bounded
// concurrency. A source that fails contributes zero articles and never
// fails the batch.
type Fetcher struct {
	client *http.Client
}

// NewFetcher creates a Fetcher with a 15-second timeout HTTP client that
// identifies itself as newsbot.
func NewFetcher() *Fetcher {
	return &Fetcher{
		client: &http.Client{
			Timeout: httpTimeout,
			Transport: &userAgentTransport{
				base: http.DefaultTransport,
			},
		},
	}
}

// userAgentTransport wraps an http.RoundTripper to inject the newsbot
// User-Agent header on every request.
type userAgentTransport struct {
	base http.RoundTripper
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", "Newsbot/1.0 (+https://github.com/hoanghai1803/newsbot)")
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, text/html;q=0.9, */*;q=0.8")
	return t.base.RoundTrip(req)
}

// FetchAll fetches every configured source concurrently, at most 10 at a
// time, and returns the combined articles. All requests are issued and
// settled before returning; individual failures are logged and skipped.
func (f *Fetcher) FetchAll(ctx context.Context, sources models.SourceList) []models.Article {
	var (
		mu  sync.Mutex
		all []models.Article
	)
	collect := func(articles []models.Article) {
		mu.Lock()
		all = append(all, articles...)
		mu.Unlock()
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrent)

	for _, src := range sources.AllFeeds() {
		g.Go(func() error {
			articles, err := f.fetchFeed(ctx, src)
			if err != nil {
				slog.Warn("failed to fetch feed", "url", src.URL, "error", err)
				return nil // tolerated, the feed contributes nothing
			}
			slog.Info("fetched feed", "url", src.URL, "items", len(articles))
			collect(articles)
			return nil
		})
	}

	for _, site := range sources.NewsSites {
		g.Go(func() error {
			articles, err := f.fetchHeadlines(ctx, site)
			if err != nil {
				slog.Warn("failed to scrape news site", "site", site, "error", err)
				return nil
			}
			slog.Info("scraped news site", "site", site, "headlines", len(articles))
			collect(articles)
			return nil
		})
	}

	// Workers only ever return nil; Wait is for settlement, not errors.
	_ = g.Wait()
	return all
}

// fetchFeed retrieves and parses a single RSS/Atom feed.
func (f *Fetcher) fetchFeed(ctx context.Context, src models.FeedSource) ([]models.Article, error) {
	fp := gofeed.NewParser()
	fp.Client = f.client

	feed, err := fp.ParseURLWithContext(src.URL, ctx)
	if err != nil {
		return nil, err
	}
	return feedArticles(src, feed), nil
}
