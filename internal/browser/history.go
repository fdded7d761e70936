// Package browser reads recent visit records out of Chromium-family
// browser history databases.
//
// The browser keeps its History file locked while running, so each profile
// database is copied aside before being opened with the pure-Go SQLite
// driver. A profile that cannot be read contributes zero entries and never
// fails the caller.
package browser

import (
	"cmp"
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"slices"
	"strings"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver.

	"github.com/hoanghai1803/newsbot/internal/models"
)

// chromeEpochOffset is the number of seconds between the Windows epoch
// (1601-01-01, which Chromium timestamps count from, in microseconds) and
// the Unix epoch.
const chromeEpochOffset = 11644473600

// Reader extracts history entries from the browser profiles found on this
// machine.
type Reader struct {
	findProfiles func() []Profile
	now          func() time.Time
}

// NewReader creates a Reader over the platform's Chrome and Brave profiles.
func NewReader() *Reader {
	return &Reader{findProfiles: FindProfiles, now: time.Now}
}

// Read returns deduplicated history entries from the last daysBack days
// across all browser profiles, newest first. Profiles that cannot be read
// are logged and skipped.
func (r *Reader) Read(ctx context.Context, daysBack int) []models.HistoryEntry {
	profiles := r.findProfiles()
	if len(profiles) == 0 {
		slog.Warn("no Chrome or Brave browser profiles found")
		return nil
	}

	var all []models.HistoryEntry
	seen := make(map[string]struct{})

	for _, profile := range profiles {
		slog.Info("reading browser history", "browser", profile.Browser, "profile", profile.Name)
		entries, err := r.queryHistory(ctx, profile.HistoryPath, daysBack)
		if err != nil {
			slog.Warn("skipping browser profile",
				"browser", profile.Browser,
				"profile", profile.Name,
				"error", err,
			)
			continue
		}
		for _, entry := range entries {
			if _, ok := seen[entry.URL]; ok {
				continue
			}
			seen[entry.URL] = struct{}{}
			all = append(all, entry)
		}
	}

	// Per-profile results are newest-first; restore the global ordering
	// across profiles.
	slices.SortStableFunc(all, func(a, b models.HistoryEntry) int {
		return b.VisitTime.Compare(a.VisitTime)
	})
	return all
}

// queryHistory copies the locked History database aside, then queries
// visits newer than the cutoff. Each URL is reported once with its most
// recent visit time.
func (r *Reader) queryHistory(ctx context.Context, dbPath string, daysBack int) ([]models.HistoryEntry, error) {
	tmp, err := copyToTemp(dbPath)
	if err != nil {
		return nil, fmt.Errorf("copying history database: %w", err)
	}
	defer os.Remove(tmp)

	db, err := sql.Open("sqlite", tmp+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(1)

	cutoff := (r.now().Unix() - int64(daysBack)*86400 + chromeEpochOffset) * 1_000_000

	rows, err := db.QueryContext(ctx, `
		SELECT u.url, u.title, v.visit_time, u.visit_count
		FROM urls u
		JOIN visits v ON u.id = v.url
		WHERE v.visit_time > ?
		ORDER BY v.visit_time DESC`, cutoff)
	if err != nil {
		return nil, fmt.Errorf("querying visits: %w", err)
	}
	defer rows.Close()

	var entries []models.HistoryEntry
	seen := make(map[string]struct{})

	for rows.Next() {
		var (
			rawURL     string
			title      sql.NullString
			visitTime  int64
			visitCount int
		)
		if err := rows.Scan(&rawURL, &title, &visitTime, &visitCount); err != nil {
			return nil, fmt.Errorf("scanning visit row: %w", err)
		}
		if _, ok := seen[rawURL]; ok {
			continue
		}
		seen[rawURL] = struct{}{}

		domain := extractDomain(rawURL)
		if domain == "" {
			continue
		}

		entries = append(entries, models.HistoryEntry{
			URL:        rawURL,
			Title:      title.String,
			VisitTime:  chromeTimeToTime(visitTime),
			VisitCount: visitCount,
			Domain:     domain,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating visit rows: %w", err)
	}
	return entries, nil
}

// chromeTimeToTime converts a Chromium timestamp (microseconds since
// 1601-01-01) to a time.Time.
func chromeTimeToTime(chromeTime int64) time.Time {
	micros := chromeTime - chromeEpochOffset*1_000_000
	return time.UnixMicro(micros)
}

// copyToTemp copies the file at src to a fresh temp file and returns its
// path. The caller removes it when done.
func copyToTemp(src string) (string, error) {
	in, err := os.Open(src)
	if err != nil {
		return "", err
	}
	defer in.Close()

	out, err := os.CreateTemp("", "newsbot-history-*.db")
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(out.Name())
		return "", err
	}
	if err := out.Close(); err != nil {
		os.Remove(out.Name())
		return "", err
	}
	return out.Name(), nil
}

// extractDomain returns the hostname of rawURL without a leading "www.",
// or "" when the URL does not parse.
func extractDomain(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(u.Hostname(), "www.")
}

// TopDomains tallies entries per domain and returns the n most visited
// domains with their counts, for the learn stage's log output.
func TopDomains(entries []models.HistoryEntry, n int) []DomainCount {
	counts := make(map[string]int)
	var order []string
	for _, e := range entries {
		if counts[e.Domain] == 0 {
			order = append(order, e.Domain)
		}
		counts[e.Domain]++
	}

	result := make([]DomainCount, 0, len(order))
	for _, d := range order {
		result = append(result, DomainCount{Domain: d, Visits: counts[d]})
	}
	slices.SortStableFunc(result, func(a, b DomainCount) int {
		return cmp.Compare(b.Visits, a.Visits)
	})
	if len(result) > n {
		result = result[:n]
	}
	return result
}

// DomainCount is a domain with its visit-entry count.
type DomainCount struct {
	Domain string
	Visits int
}
