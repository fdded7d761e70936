// Package digest turns ranked articles into the rendered digest document:
// grouping by primary topic, ordering groups and members by score, and
// generating the HTML.
package digest

import (
	"cmp"
	"slices"

	"github.com/hoanghai1803/newsbot/internal/models"
)

// Group is one topic section of the digest.
type Group struct {
	Topic    string
	Articles []models.ScoredArticle
	MaxScore float64
}

// Compose groups articles by primary topic and orders the result for
// display: groups descending by their maximum member score, members
// descending by score within each group. Sections lead with the strongest
// topic cluster rather than the largest one. Ties preserve arrival order.
func Compose(articles []models.ScoredArticle) []Group {
	var groups []Group
	index := make(map[string]int)

	for _, a := range articles {
		topic := a.PrimaryTopic()
		i, ok := index[topic]
		if !ok {
			i = len(groups)
			index[topic] = i
			groups = append(groups, Group{Topic: topic})
		}
		groups[i].Articles = append(groups[i].Articles, a)
		groups[i].MaxScore = max(groups[i].MaxScore, a.Score)
	}

	for i := range groups {
		slices.SortStableFunc(groups[i].Articles, func(a, b models.ScoredArticle) int {
			return cmp.Compare(b.Score, a.Score)
		})
	}
	slices.SortStableFunc(groups, func(a, b Group) int {
		return cmp.Compare(b.MaxScore, a.MaxScore)
	})
	return groups
}

// Flatten returns the composed groups as one ordered article sequence.
func Flatten(groups []Group) []models.ScoredArticle {
	var out []models.ScoredArticle
	for _, g := range groups {
		out = append(out, g.Articles...)
	}
	return out
}

// TopTopics collects up to n distinct topic tags across all articles, in
// the order they first appear.
func TopTopics(articles []models.ScoredArticle, n int) []string {
	seen := make(map[string]bool)
	var topics []string
	for _, a := range articles {
		for _, t := range a.Topics {
			if t == "" || seen[t] {
				continue
			}
			seen[t] = true
			topics = append(topics, t)
			if len(topics) == n {
				return topics
			}
		}
	}
	return topics
}
