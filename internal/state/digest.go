package state

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// WriteDigest atomically replaces the live digest document.
func (s *Store) WriteDigest(html string) error {
	return s.atomicWrite(s.DigestPath(), []byte(html))
}

// ArchiveDigest copies the current digest into the archive under today's
// date before it gets overwritten. The first archive written for a given
// day wins; later calls on the same day are no-ops. A missing digest is
// also a no-op.
func (s *Store) ArchiveDigest() error {
	if _, err := os.Stat(s.DigestPath()); err != nil {
		return nil
	}

	name := s.now().Format("2006-01-02") + ".html"
	dst := filepath.Join(s.ArchiveDir(), name)
	if _, err := os.Stat(dst); err == nil {
		return nil
	}

	if err := os.MkdirAll(s.ArchiveDir(), 0o755); err != nil {
		return fmt.Errorf("creating archive directory: %w", err)
	}
	if err := copyFile(s.DigestPath(), dst); err != nil {
		return fmt.Errorf("archiving digest: %w", err)
	}
	slog.Info("archived previous digest", "path", dst)
	return nil
}

// ListArchives returns the dates of archived digests, newest first.
func (s *Store) ListArchives() []string {
	entries, err := os.ReadDir(s.ArchiveDir())
	if err != nil {
		return nil
	}
	var dates []string
	for _, e := range entries {
		if name, ok := strings.CutSuffix(e.Name(), ".html"); ok && !e.IsDir() {
			dates = append(dates, name)
		}
	}
	slices.Sort(dates)
	slices.Reverse(dates)
	return dates
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
