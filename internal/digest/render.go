package digest

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/hoanghai1803/newsbot/internal/models"
)

// Render produces the digest HTML document from ranked articles and run
// metadata. Articles are composed into topic sections first; the input
// order does not matter.
func Render(articles []models.ScoredArticle, meta models.DigestMetadata) (string, error) {
	data := struct {
		Groups []Group
		Meta   models.DigestMetadata
	}{
		Groups: Compose(articles),
		Meta:   meta,
	}

	var b strings.Builder
	if err := digestTemplate.Execute(&b, data); err != nil {
		return "", fmt.Errorf("rendering digest: %w", err)
	}
	return b.String(), nil
}

var digestTemplate = template.Must(template.New("digest").Funcs(template.FuncMap{
	"percent": func(score float64) string {
		return fmt.Sprintf("%.0f%%", score*100)
	},
}).Parse(digestHTML))

const digestHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>News Digest: {{.Meta.GeneratedAt.Format "January 2, 2006"}}</title>
<style>
  :root { color-scheme: light dark; }
  body {
    font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
    max-width: 720px;
    margin: 0 auto;
    padding: 2rem 1rem 4rem;
    line-height: 1.55;
  }
  header { border-bottom: 2px solid #888; padding-bottom: 1rem; margin-bottom: 1.5rem; }
  header h1 { margin: 0 0 0.25rem; font-size: 1.6rem; }
  .meta { color: #777; font-size: 0.85rem; }
  .topics { margin-top: 0.5rem; }
  .topic-chip {
    display: inline-block;
    background: rgba(100, 140, 220, 0.15);
    border-radius: 999px;
    padding: 0.1rem 0.6rem;
    margin: 0 0.3rem 0.3rem 0;
    font-size: 0.8rem;
  }
  section h2 {
    font-size: 1.1rem;
    margin: 2rem 0 0.75rem;
    padding-bottom: 0.25rem;
    border-bottom: 1px solid #ccc;
  }
  article { margin-bottom: 1.25rem; }
  article h3 { margin: 0 0 0.2rem; font-size: 1rem; }
  article h3 a { text-decoration: none; }
  article h3 a:hover { text-decoration: underline; }
  .byline { color: #777; font-size: 0.8rem; margin-bottom: 0.2rem; }
  .score {
    font-variant-numeric: tabular-nums;
    background: rgba(90, 180, 90, 0.18);
    border-radius: 4px;
    padding: 0 0.3rem;
  }
  .summary { margin: 0; font-size: 0.92rem; }
  .empty { color: #777; font-style: italic; margin-top: 2rem; }
</style>
</head>
<body>
<header>
  <h1>News Digest</h1>
  <div class="meta">
    {{.Meta.GeneratedAt.Format "Monday, January 2, 2006 15:04"}} ·
    {{.Meta.ArticleCount}} articles · {{.Meta.SourcesScanned}} sources scanned
  </div>
  {{- if .Meta.TopTopics}}
  <div class="topics">
    {{- range .Meta.TopTopics}}
    <span class="topic-chip">{{.}}</span>
    {{- end}}
  </div>
  {{- end}}
</header>
{{- range .Groups}}
<section>
  <h2>{{.Topic}}</h2>
  {{- range .Articles}}
  <article>
    <h3><a href="{{.URL}}">{{.Title}}</a></h3>
    <div class="byline">
      <span class="score">{{percent .Score}}</span> ·
      {{.Source}}{{if .PublishedAt}} · {{.PublishedAt.Format "Jan 2"}}{{end}}
    </div>
    {{- if .Summary}}
    <p class="summary">{{.Summary}}</p>
    {{- end}}
  </article>
  {{- end}}
</section>
{{- else}}
<p class="empty">No articles made the cut this time.</p>
{{- end}}
</body>
</html>
`
