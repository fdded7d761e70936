package state

import (
	"fmt"
	"os"
	"strings"

	"github.com/hoanghai1803/newsbot/internal/markdown"
	"github.com/hoanghai1803/newsbot/internal/models"
)

// LoadSources reads the configured source list. A missing or unreadable
// file yields an empty list.
func (s *Store) LoadSources() models.SourceList {
	raw, err := os.ReadFile(s.sourcesPath())
	if err != nil {
		return models.SourceList{}
	}
	return ParseSources(string(raw))
}

// ParseSources parses the markdown source list. Feed entries must be
// http(s) URLs; news-site entries are kept as bare strings. An
// "(added YYYY-MM-DD, ...)" annotation records when a feed was added, and
// annotations mentioning auto-discovery mark the feed as such.
func ParseSources(raw string) models.SourceList {
	var sources models.SourceList

	for _, section := range markdown.ParseSections(raw) {
		switch {
		case section.HeadingContains("rss"):
			for _, item := range section.Items {
				if src, ok := parseFeedItem(item); ok {
					sources.RSSFeeds = append(sources.RSSFeeds, src)
				}
			}
		case section.HeadingContains("news"):
			for _, item := range section.Items {
				sources.NewsSites = append(sources.NewsSites, item.Text)
			}
		case section.HeadingContains("auto"):
			for _, item := range section.Items {
				if src, ok := parseFeedItem(item); ok {
					src.AutoDiscovered = true
					sources.AutoDiscovered = append(sources.AutoDiscovered, src)
				}
			}
		}
	}
	return sources
}

// parseFeedItem converts a source list item into a FeedSource. Entries that
// are not http(s) URLs are skipped.
func parseFeedItem(item markdown.Item) (models.FeedSource, bool) {
	url := item.Text
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return models.FeedSource{}, false
	}

	src := models.FeedSource{URL: url}
	for part := range strings.SplitSeq(item.Annotation, ",") {
		part = strings.TrimSpace(part)
		if date, ok := strings.CutPrefix(part, "added "); ok {
			src.AddedDate = strings.TrimSpace(date)
		}
		if strings.Contains(part, "browser history") || strings.Contains(part, "auto") {
			src.AutoDiscovered = true
		}
	}
	return src, true
}

// SaveSources atomically persists the source list.
func (s *Store) SaveSources(sources models.SourceList) error {
	return s.atomicWrite(s.sourcesPath(), []byte(FormatSources(sources)))
}

// FormatSources renders the source list in the markdown source format.
func FormatSources(sources models.SourceList) string {
	var doc markdown.Builder
	doc.Title("News Sources")

	doc.Section("RSS Feeds")
	for _, src := range sources.RSSFeeds {
		if src.AddedDate != "" {
			doc.Item(fmt.Sprintf("%s (added %s)", src.URL, src.AddedDate))
		} else {
			doc.Item(src.URL)
		}
	}
	doc.Blank()

	doc.Section("News Sites (scraped via headlines)")
	for _, site := range sources.NewsSites {
		doc.Item(site)
	}
	doc.Blank()

	doc.Section("Auto-Discovered")
	for _, src := range sources.AutoDiscovered {
		if src.AddedDate != "" {
			doc.Item(fmt.Sprintf("%s (added %s, from browser history)", src.URL, src.AddedDate))
		} else {
			doc.Item(src.URL)
		}
	}
	doc.Blank()

	return doc.String()
}

// AddSource appends a feed URL to the configured RSS feeds, stamped with
// today's date. Adding a URL that is already configured is a no-op.
func (s *Store) AddSource(url string) error {
	sources := s.LoadSources()
	for _, src := range sources.AllFeeds() {
		if src.URL == url {
			return nil
		}
	}
	sources.RSSFeeds = append(sources.RSSFeeds, models.FeedSource{
		URL:       url,
		AddedDate: s.now().Format("2006-01-02"),
	})
	return s.SaveSources(sources)
}

// DefaultSources returns the source list seeded by init: a handful of
// general tech feeds plus wire-service news sites.
func DefaultSources() models.SourceList {
	return models.SourceList{
		RSSFeeds: []models.FeedSource{
			{URL: "https://feeds.arstechnica.com/arstechnica/index"},
			{URL: "https://hnrss.org/frontpage"},
			{URL: "https://www.theverge.com/rss/index.xml"},
			{URL: "https://techcrunch.com/feed/"},
			{URL: "https://rss.slashdot.org/Slashdot/slashdotMain"},
			{URL: "https://lobste.rs/rss"},
		},
		NewsSites: []string{
			"reuters.com",
			"apnews.com",
			"bbc.com/news",
		},
	}
}
