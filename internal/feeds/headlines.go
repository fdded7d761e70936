package feeds

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/hoanghai1803/newsbot/internal/models"
)

// maxHeadlinesPerSite caps how many headlines one news site contributes to
// a discovery pass.
const maxHeadlinesPerSite = 20

// fetchHeadlines scrapes the front page of a news site (a bare host string
// like "reuters.com" or "bbc.com/news") and returns its linked headlines
// as articles. Headlines have no description; ranking scores them on the
// title alone.
func (f *Fetcher) fetchHeadlines(ctx context.Context, site string) ([]models.Article, error) {
	pageURL := site
	if !strings.HasPrefix(pageURL, "http://") && !strings.HasPrefix(pageURL, "https://") {
		pageURL = "https://" + pageURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %q: %w", pageURL, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %q: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %q: HTTP %d", pageURL, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML from %q: %w", pageURL, err)
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL %q: %w", pageURL, err)
	}

	return extractHeadlines(doc, base, site), nil
}

// extractHeadlines pulls linked headline texts out of a front page. It
// looks at anchors inside h1-h3 elements first (the usual headline markup),
// then anchors that themselves contain a heading. Duplicate URLs and short
// link texts like "Live" or "More" are skipped.
func extractHeadlines(doc *goquery.Document, base *url.URL, site string) []models.Article {
	var articles []models.Article
	seen := make(map[string]struct{})

	add := func(sel *goquery.Selection) {
		if len(articles) >= maxHeadlinesPerSite {
			return
		}
		href, ok := sel.Attr("href")
		if !ok {
			return
		}
		title := strings.Join(strings.Fields(sel.Text()), " ")
		if len(title) < 15 {
			return
		}

		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		abs := base.ResolveReference(ref)
		if abs.Scheme != "http" && abs.Scheme != "https" {
			return
		}
		abs.Fragment = ""

		link := abs.String()
		if _, ok := seen[link]; ok {
			return
		}
		seen[link] = struct{}{}

		articles = append(articles, models.Article{
			Title:  title,
			URL:    link,
			Source: site,
		})
	}

	doc.Find("h1 a, h2 a, h3 a").Each(func(_ int, sel *goquery.Selection) {
		add(sel)
	})
	doc.Find("a:has(h1), a:has(h2), a:has(h3)").Each(func(_ int, sel *goquery.Selection) {
		add(sel)
	})

	return articles
}
