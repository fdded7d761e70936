package state

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// SeenMaxAge is the retention window for seen-ledger entries. Entries whose
// first-seen timestamp is older than this are eligible for pruning.
const SeenMaxAge = 90 * 24 * time.Hour

// seenEntry is one ledger record. SeenAt is the first time the url was
// observed and never changes afterwards.
type seenEntry struct {
	URL    string    `json:"url"`
	SeenAt time.Time `json:"seenAt"`
}

type seenLedger struct {
	Entries []seenEntry `json:"entries"`
}

// LoadSeen returns the set of urls recorded in the seen ledger. A missing
// or corrupt ledger yields the empty set.
func (s *Store) LoadSeen() map[string]struct{} {
	urls := make(map[string]struct{})
	for _, e := range s.loadSeenEntries() {
		urls[e.URL] = struct{}{}
	}
	return urls
}

func (s *Store) loadSeenEntries() []seenEntry {
	raw, err := os.ReadFile(s.seenPath())
	if err != nil {
		return nil
	}
	var ledger seenLedger
	if err := json.Unmarshal(raw, &ledger); err != nil {
		return nil
	}
	return ledger.Entries
}

// SaveSeen merges the given urls into the ledger. Urls already present keep
// their original first-seen timestamp; only new urls are stamped with the
// current time. Saving the same set twice therefore produces the same
// ledger as saving it once.
func (s *Store) SaveSeen(urls map[string]struct{}) error {
	existing := s.loadSeenEntries()
	known := make(map[string]bool, len(existing))
	for _, e := range existing {
		known[e.URL] = true
	}

	now := s.now().UTC()
	entries := existing
	for url := range urls {
		if !known[url] {
			entries = append(entries, seenEntry{URL: url, SeenAt: now})
		}
	}

	return s.writeSeenEntries(entries)
}

// PruneSeen removes ledger entries first seen longer than SeenMaxAge ago
// and returns how many were removed. The ledger is only rewritten when at
// least one entry was removed.
func (s *Store) PruneSeen() (int, error) {
	existing := s.loadSeenEntries()
	if len(existing) == 0 {
		return 0, nil
	}

	cutoff := s.now().Add(-SeenMaxAge)
	kept := existing[:0]
	for _, e := range existing {
		if !e.SeenAt.Before(cutoff) {
			kept = append(kept, e)
		}
	}

	removed := len(existing) - len(kept)
	if removed == 0 {
		return 0, nil
	}
	if err := s.writeSeenEntries(kept); err != nil {
		return 0, err
	}
	return removed, nil
}

func (s *Store) writeSeenEntries(entries []seenEntry) error {
	if entries == nil {
		entries = []seenEntry{}
	}
	data, err := json.MarshalIndent(seenLedger{Entries: entries}, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding seen ledger: %w", err)
	}
	return s.atomicWrite(s.seenPath(), data)
}
