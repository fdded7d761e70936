// Package models defines the domain types shared across the newsbot
// pipeline: interests, history entries, articles, sources, and the
// pipeline configuration.
package models

import (
	"strings"
	"time"
)

// Interest is a single weighted topic in the user's profile. Two interests
// with the same lowercase-normalized topic are the same entity.
type Interest struct {
	Topic   string  `json:"topic"`
	Weight  float64 `json:"weight"`
	Pinned  bool    `json:"pinned,omitempty"`
	Blocked bool    `json:"blocked,omitempty"`
}

// Key returns the normalized identity of the interest's topic.
func (i Interest) Key() string {
	return NormalizeTopic(i.Topic)
}

// NormalizeTopic lowercases a topic string for identity comparison.
func NormalizeTopic(topic string) string {
	return strings.ToLower(strings.TrimSpace(topic))
}

// InterestProfile is the user's weighted topic profile, split into four
// disjoint tiers. High holds interests with weight >= 0.65, Moderate holds
// weights in [0.3, 0.65). Pinned and Blocked are explicit allow/deny lists;
// a topic present in either never appears in High or Moderate.
type InterestProfile struct {
	High     []Interest `json:"high"`
	Moderate []Interest `json:"moderate"`
	Pinned   []Interest `json:"pinned"`
	Blocked  []Interest `json:"blocked"`
}

// IsEmpty reports whether the profile has no scorable interests. Blocked
// entries alone do not make a profile scorable.
func (p InterestProfile) IsEmpty() bool {
	return len(p.High) == 0 && len(p.Moderate) == 0 && len(p.Pinned) == 0
}

// HistoryEntry is one deduplicated browser-history visit. Entries are
// ephemeral: consumed by a single learning pass and never persisted.
type HistoryEntry struct {
	URL        string
	Title      string
	VisitTime  time.Time
	VisitCount int
	Domain     string
}

// Article is a candidate item fetched from a feed. Identity is URL.
type Article struct {
	Title       string     `json:"title"`
	URL         string     `json:"url"`
	Source      string     `json:"source"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
	Description string     `json:"description,omitempty"`
}

// ScoredArticle is an Article after relevance ranking: scored against the
// interest profile, tagged with matching topics, and summarized. Immutable
// once produced except for later summary enhancement.
type ScoredArticle struct {
	Article
	Score   float64  `json:"score"`
	Summary string   `json:"summary"`
	Topics  []string `json:"topics"`
}

// PrimaryTopic returns the first topic tag, or "General" when the article
// has none. Used for digest grouping.
func (a ScoredArticle) PrimaryTopic() string {
	if len(a.Topics) == 0 || a.Topics[0] == "" {
		return "General"
	}
	return a.Topics[0]
}

// FeedSource is a configured RSS/Atom feed.
type FeedSource struct {
	URL            string
	Name           string
	AddedDate      string
	AutoDiscovered bool
}

// SourceList holds every configured content source. NewsSites entries are
// bare host strings scraped for headlines, not feed URLs.
type SourceList struct {
	RSSFeeds       []FeedSource
	NewsSites      []string
	AutoDiscovered []FeedSource
}

// AllFeeds returns the configured and auto-discovered feeds as one list.
func (s SourceList) AllFeeds() []FeedSource {
	feeds := make([]FeedSource, 0, len(s.RSSFeeds)+len(s.AutoDiscovered))
	feeds = append(feeds, s.RSSFeeds...)
	feeds = append(feeds, s.AutoDiscovered...)
	return feeds
}

// Config holds the pipeline knobs persisted in the markdown config file.
type Config struct {
	Model        string
	MaxArticles  int
	ScanInterval string
	HistoryDays  int
	MinScore     float64
}

// DigestMetadata is the read-only summary attached to a rendered digest.
type DigestMetadata struct {
	GeneratedAt    time.Time
	ArticleCount   int
	SourcesScanned int
	TopTopics      []string
}
