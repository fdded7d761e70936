package feeds

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hoanghai1803/newsbot/internal/models"
)

const testRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Test Feed</title>
    <link>https://example.com</link>
    <item>
      <title>First article</title>
      <link>https://example.com/first</link>
      <description>About the first thing</description>
    </item>
    <item>
      <title>Second article</title>
      <link>https://example.com/second</link>
      <description>About the second thing</description>
    </item>
  </channel>
</rss>`

func TestFetchAll_CombinesFeedsAndToleratesFailures(t *testing.T) {
	feedServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprint(w, testRSS)
	}))
	defer feedServer.Close()

	brokenServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer brokenServer.Close()

	siteServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><h1><a href="/story">A headline long enough to keep</a></h1></body></html>`)
	}))
	defer siteServer.Close()

	sources := models.SourceList{
		RSSFeeds: []models.FeedSource{
			{URL: feedServer.URL},
			{URL: brokenServer.URL},
		},
		NewsSites: []string{siteServer.URL},
	}

	articles := NewFetcher().FetchAll(context.Background(), sources)

	// Two feed items plus one headline; the broken feed contributes nothing.
	if len(articles) != 3 {
		t.Fatalf("FetchAll returned %d articles, want 3: %+v", len(articles), articles)
	}

	bySource := make(map[string]int)
	for _, a := range articles {
		bySource[a.Source]++
	}
	if bySource["Test Feed"] != 2 {
		t.Errorf("feed articles = %d, want 2 (by source: %v)", bySource["Test Feed"], bySource)
	}
}

func TestFetchAll_NoSources(t *testing.T) {
	articles := NewFetcher().FetchAll(context.Background(), models.SourceList{})
	if len(articles) != 0 {
		t.Errorf("FetchAll with no sources returned %d articles", len(articles))
	}
}
