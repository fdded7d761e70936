package feeds

import (
	"fmt"
	"net/http"
	"strings"

	readability "github.com/go-shiori/go-readability"
)

// maxExtractedWords caps extracted article text so oracle prompts stay
// within input-size limits.
const maxExtractedWords = 2000

// ExtractArticle fetches the page at articleURL and returns its main
// readable text, truncated to 2000 words. Used to give the summarizer
// something to work with when a feed item carried no description.
func (f *Fetcher) ExtractArticle(articleURL string) (string, error) {
	article, err := readability.FromURL(articleURL, httpTimeout, browserHeaders)
	if err != nil {
		return "", fmt.Errorf("extracting article from %q: %w", articleURL, err)
	}
	return truncateWords(article.TextContent, maxExtractedWords), nil
}

// browserHeaders sets browser-like request headers so sites that check
// Accept or User-Agent don't reject the request.
func browserHeaders(r *http.Request) {
	r.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	r.Header.Set("User-Agent", "Newsbot/1.0 (+https://github.com/hoanghai1803/newsbot)")
}

// truncateWords returns the first maxWords whitespace-delimited words of s.
func truncateWords(s string, maxWords int) string {
	words := strings.Fields(s)
	if len(words) <= maxWords {
		return s
	}
	return strings.Join(words[:maxWords], " ")
}
