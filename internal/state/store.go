// Package state is the flat-file state repository for newsbot.
//
// All durable state lives under a single data directory: the pipeline
// config, the interest profile, the source list, the seen ledger, the
// discovery artifact, and the rendered digest with its per-day archive.
// Every write replaces the target file atomically (temp-file-then-rename)
// so no reader ever observes a partial write. There is no cross-process
// locking; concurrent pipeline runs are not supported.
package state

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

const (
	configFile    = "config.md"
	interestsFile = "interests.md"
	sourcesFile   = "sources.md"
	seenFile      = "seen.json"
	articlesFile  = ".articles.json"
	digestFile    = "news.html"
	archiveDir    = "history"
)

// Store provides typed load/merge/save operations over the state files in
// one data directory.
type Store struct {
	dir string

	// now is the clock used for seen-ledger timestamps and pruning.
	// Overridable in tests.
	now func() time.Time
}

// NewStore creates a Store rooted at the given data directory. The
// directory is created lazily on first write.
func NewStore(dir string) *Store {
	return &Store{dir: dir, now: time.Now}
}

// Dir returns the data directory the store is rooted at.
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) configPath() string    { return filepath.Join(s.dir, configFile) }
func (s *Store) interestsPath() string { return filepath.Join(s.dir, interestsFile) }
func (s *Store) sourcesPath() string   { return filepath.Join(s.dir, sourcesFile) }
func (s *Store) seenPath() string      { return filepath.Join(s.dir, seenFile) }
func (s *Store) articlesPath() string  { return filepath.Join(s.dir, articlesFile) }

// DigestPath returns the path of the live digest document.
func (s *Store) DigestPath() string {
	return filepath.Join(s.dir, digestFile)
}

// ArchiveDir returns the directory holding archived digests.
func (s *Store) ArchiveDir() string {
	return filepath.Join(s.dir, archiveDir)
}

// atomicWrite replaces the file at path with data. The temp file is created
// in the same directory so the rename never crosses filesystems.
func (s *Store) atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating state directory %q: %w", dir, err)
	}

	suffix := make([]byte, 6)
	if _, err := rand.Read(suffix); err != nil {
		return fmt.Errorf("generating temp file suffix: %w", err)
	}
	tmp := filepath.Join(dir, ".tmp-"+hex.EncodeToString(suffix))

	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replacing %q: %w", path, err)
	}
	return nil
}

// Init creates the data directory and any missing default state files.
// Existing files are left untouched. It returns the number of files created.
func (s *Store) Init() (int, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return 0, fmt.Errorf("creating data directory: %w", err)
	}
	if err := os.MkdirAll(s.ArchiveDir(), 0o755); err != nil {
		return 0, fmt.Errorf("creating archive directory: %w", err)
	}

	defaults := []struct {
		path    string
		content string
	}{
		{s.configPath(), FormatConfig(DefaultConfig())},
		{s.interestsPath(), defaultInterestsContent},
		{s.sourcesPath(), FormatSources(DefaultSources())},
		{s.seenPath(), "{\n  \"entries\": []\n}\n"},
	}

	created := 0
	for _, d := range defaults {
		if _, err := os.Stat(d.path); err == nil {
			continue
		}
		if err := os.WriteFile(d.path, []byte(d.content), 0o644); err != nil {
			return created, fmt.Errorf("creating %q: %w", d.path, err)
		}
		slog.Info("created state file", "path", d.path)
		created++
	}
	return created, nil
}
