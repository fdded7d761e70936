package state

import (
	"os"
	"strconv"

	"github.com/hoanghai1803/newsbot/internal/markdown"
	"github.com/hoanghai1803/newsbot/internal/models"
)

// Pipeline configuration defaults, used both for the initial config file
// and as fallbacks for missing or malformed values.
const (
	DefaultModel        = "claude-haiku-4-5-20251001"
	DefaultMaxArticles  = 25
	DefaultScanInterval = "4 hours"
	DefaultHistoryDays  = 7
	DefaultMinScore     = 0.4
)

// DefaultConfig returns the pipeline configuration defaults.
func DefaultConfig() models.Config {
	return models.Config{
		Model:        DefaultModel,
		MaxArticles:  DefaultMaxArticles,
		ScanInterval: DefaultScanInterval,
		HistoryDays:  DefaultHistoryDays,
		MinScore:     DefaultMinScore,
	}
}

// LoadConfig reads the markdown pipeline config. A missing file or
// malformed value falls back to the defaults; this never fails the caller.
func (s *Store) LoadConfig() models.Config {
	raw, err := os.ReadFile(s.configPath())
	if err != nil {
		return DefaultConfig()
	}
	return ParseConfig(string(raw))
}

// ParseConfig parses "- **key**: value" property lines into a Config.
// Unknown keys are ignored; unparseable numeric values keep their default.
func ParseConfig(raw string) models.Config {
	config := DefaultConfig()
	for _, prop := range markdown.ParseProperties(raw) {
		switch prop.Key {
		case "model":
			config.Model = prop.Value
		case "maxArticles":
			if n, err := strconv.Atoi(prop.Value); err == nil && n > 0 {
				config.MaxArticles = n
			}
		case "scanInterval":
			config.ScanInterval = prop.Value
		case "historyDays":
			if n, err := strconv.Atoi(prop.Value); err == nil && n > 0 {
				config.HistoryDays = n
			}
		case "minScore":
			if f, err := strconv.ParseFloat(prop.Value, 64); err == nil && f > 0 {
				config.MinScore = f
			}
		}
	}
	return config
}

// SaveConfig atomically persists the pipeline config.
func (s *Store) SaveConfig(config models.Config) error {
	return s.atomicWrite(s.configPath(), []byte(FormatConfig(config)))
}

// FormatConfig renders the config in the markdown property format. The
// rendering round-trips: ParseConfig(FormatConfig(c)) == c for any valid c.
func FormatConfig(config models.Config) string {
	var doc markdown.Builder
	doc.Title("Newsbot Configuration")
	doc.Property("model", config.Model)
	doc.Property("maxArticles", strconv.Itoa(config.MaxArticles))
	doc.Property("scanInterval", config.ScanInterval)
	doc.Property("historyDays", strconv.Itoa(config.HistoryDays))
	doc.Property("minScore", strconv.FormatFloat(config.MinScore, 'g', -1, 64))
	return doc.String()
}
