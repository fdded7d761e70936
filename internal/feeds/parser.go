package feeds

import (
	"html"
	"regexp"
	"strings"

	"github.com/mmcdole/gofeed"

	"github.com/hoanghai1803/newsbot/internal/models"
)

var htmlTagPattern = regexp.MustCompile("<[^>]*>")

// feedArticles converts gofeed items into Articles. Items without a title
// or link are skipped. The article source is the feed's own title when it
// has one, otherwise the configured feed's domain.
func feedArticles(src models.FeedSource, feed *gofeed.Feed) []models.Article {
	sourceName := feed.Title
	if sourceName == "" {
		sourceName = feedDomain(src.URL)
	}

	var articles []models.Article
	for _, item := range feed.Items {
		if item.Title == "" || item.Link == "" {
			continue
		}

		description := item.Description
		if description == "" {
			description = item.Content
		}

		articles = append(articles, models.Article{
			Title:       item.Title,
			URL:         item.Link,
			Source:      sourceName,
			PublishedAt: item.PublishedParsed,
			Description: stripHTML(description),
		})
	}
	return articles
}

// feedDomain returns the host part of a feed URL without a leading "www.".
func feedDomain(feedURL string) string {
	s := feedURL
	if i := strings.Index(s, "://"); i >= 0 {
		s = s[i+3:]
	}
	if i := strings.IndexByte(s, '/'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimPrefix(s, "www.")
}

// stripHTML removes HTML tags from s, unescapes entities, and collapses
// surrounding whitespace.
func stripHTML(s string) string {
	clean := htmlTagPattern.ReplaceAllString(s, "")
	return strings.TrimSpace(html.UnescapeString(clean))
}
