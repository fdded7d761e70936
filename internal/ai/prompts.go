package ai

import (
	"fmt"
	"strings"

	"github.com/hoanghai1803/newsbot/internal/models"
)

const extractInterestsSystemPrompt = `You are an interest extraction assistant. Given a list of browser history entries (URLs and page titles), extract a list of topics the user is interested in.

Return ONLY a JSON array of objects, each with "topic" (string) and "weight" (number 0-1).
- Weight should reflect how strong the interest appears based on frequency and recency
- Combine related topics (e.g., "TypeScript" and "Node.js" can be one entry "TypeScript / Node.js")
- Ignore generic browsing (Google searches, social media homepages, email, banking)
- Focus on specific subjects, technologies, hobbies, industries
- Return 5-20 interests, sorted by weight descending

Example output:
[
  {"topic": "AI / machine learning", "weight": 0.95},
  {"topic": "TypeScript / Node.js", "weight": 0.82},
  {"topic": "Chess", "weight": 0.65}
]`

const scoreArticlesSystemPrompt = `You are an article relevance scorer. Given a user's interest profile and a batch of articles, score each article's relevance.

Return ONLY a JSON array of objects, each with:
- "index" (number): the article's position in the input list (0-based)
- "score" (number 0-1): relevance to the user's interests
- "topics" (string[]): which interests this article matches
- "summary" (string): 1-2 sentence summary of the article

Score guidelines:
- 0.9-1.0: Directly matches high-priority interests
- 0.7-0.89: Strong match to interests
- 0.5-0.69: Moderate relevance
- 0.3-0.49: Tangential relevance
- 0.0-0.29: Not relevant

Always include pinned topics at high scores. Always score blocked topics at 0.`

const summarizeSystemPrompt = `You are a news summarizer. Given a batch of articles, generate a brief, informative summary for each.

Return ONLY a JSON array of objects, each with:
- "index" (number): the article's position in the input list (0-based)
- "summary" (string): 2-3 sentence summary that captures the key information

Be concise and informative. Focus on what happened and why it matters.`

// formatHistoryEntries renders history entries for the extraction prompt,
// one "domain | title | visits" line per entry.
func formatHistoryEntries(entries []models.HistoryEntry) string {
	var b strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&b, "%s | %s | visits: %d\n", e.Domain, e.Title, e.VisitCount)
	}
	return strings.TrimRight(b.String(), "\n")
}

// formatProfile renders the interest profile for the scoring prompt:
// weighted high/moderate entries, then the pinned and blocked topic lists.
func formatProfile(profile models.InterestProfile) string {
	var lines []string
	if len(profile.High) > 0 {
		lines = append(lines, "High interest: "+joinWeighted(profile.High))
	}
	if len(profile.Moderate) > 0 {
		lines = append(lines, "Moderate interest: "+joinWeighted(profile.Moderate))
	}
	if len(profile.Pinned) > 0 {
		lines = append(lines, "Always include: "+joinTopics(profile.Pinned))
	}
	if len(profile.Blocked) > 0 {
		lines = append(lines, "Never include: "+joinTopics(profile.Blocked))
	}
	return strings.Join(lines, "\n")
}

func joinWeighted(interests []models.Interest) string {
	parts := make([]string, len(interests))
	for i, in := range interests {
		parts[i] = fmt.Sprintf("%s (%.2f)", in.Topic, in.Weight)
	}
	return strings.Join(parts, ", ")
}

func joinTopics(interests []models.Interest) string {
	parts := make([]string, len(interests))
	for i, in := range interests {
		parts[i] = in.Topic
	}
	return strings.Join(parts, ", ")
}

// formatArticleBatch renders an indexed article batch for the scoring and
// summarizing prompts.
func formatArticleBatch(articles []models.Article) string {
	var b strings.Builder
	for i, a := range articles {
		if i > 0 {
			b.WriteString("\n\n")
		}
		description := a.Description
		if description == "" {
			description = "(no description)"
		}
		fmt.Fprintf(&b, "[%d] %s\n    Source: %s\n    %s", i, a.Title, a.Source, description)
	}
	return b.String()
}
