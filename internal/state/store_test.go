package state

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hoanghai1803/newsbot/internal/models"
)

func TestInit_CreatesDefaultFiles(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "news-bot"))

	created, err := store.Init()
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if created != 4 {
		t.Errorf("Init created %d files, want 4", created)
	}

	for _, name := range []string{"config.md", "interests.md", "sources.md", "seen.json"} {
		if _, err := os.Stat(filepath.Join(store.Dir(), name)); err != nil {
			t.Errorf("expected %s to exist: %v", name, err)
		}
	}
	if _, err := os.Stat(store.ArchiveDir()); err != nil {
		t.Errorf("expected archive dir to exist: %v", err)
	}

	// A second init leaves existing files alone.
	created, err = store.Init()
	if err != nil {
		t.Fatalf("Init (second): %v", err)
	}
	if created != 0 {
		t.Errorf("second Init created %d files, want 0", created)
	}
}

func TestInit_DefaultsParse(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "news-bot"))
	if _, err := store.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}

	if got := store.LoadConfig(); got != DefaultConfig() {
		t.Errorf("default config round trip = %+v", got)
	}
	if got := store.LoadSources(); len(got.RSSFeeds) == 0 {
		t.Errorf("default sources did not parse: %+v", got)
	}
	if got := store.LoadInterests(); !got.IsEmpty() {
		t.Errorf("default interests = %+v, want empty profile", got)
	}
	if got := store.LoadSeen(); len(got) != 0 {
		t.Errorf("default seen ledger = %v, want empty", got)
	}
}

func TestSaveLoadArticles(t *testing.T) {
	store := NewStore(t.TempDir())
	published := time.Date(2026, 8, 27, 9, 0, 0, 0, time.UTC)
	articles := []models.ScoredArticle{
		{
			Article: models.Article{
				Title:       "Go 1.26 released",
				URL:         "https://example.com/go126",
				Source:      "Example Blog",
				PublishedAt: &published,
				Description: "The latest Go release.",
			},
			Score:   0.92,
			Summary: "Go 1.26 ships with faster maps.",
			Topics:  []string{"Go", "programming languages"},
		},
	}

	if err := store.SaveArticles(articles); err != nil {
		t.Fatalf("SaveArticles: %v", err)
	}
	loaded, err := store.LoadArticles()
	if err != nil {
		t.Fatalf("LoadArticles: %v", err)
	}
	if len(loaded) != 1 {
		t.Fatalf("loaded %d articles, want 1", len(loaded))
	}
	got := loaded[0]
	if got.URL != articles[0].URL || got.Score != 0.92 || len(got.Topics) != 2 {
		t.Errorf("loaded article = %+v", got)
	}
}

func TestLoadArticles_MissingArtifactIsAnError(t *testing.T) {
	store := NewStore(t.TempDir())
	if _, err := store.LoadArticles(); err == nil {
		t.Error("LoadArticles on missing artifact succeeded, want error")
	}
}

func TestDigestArchive_FirstWritePerDayWins(t *testing.T) {
	day := time.Date(2026, 8, 28, 8, 0, 0, 0, time.UTC)
	store := testStoreAt(t, day)

	if err := store.WriteDigest("<html>morning</html>"); err != nil {
		t.Fatalf("WriteDigest: %v", err)
	}
	if err := store.ArchiveDigest(); err != nil {
		t.Fatalf("ArchiveDigest: %v", err)
	}

	archive := filepath.Join(store.ArchiveDir(), "2026-08-28.html")
	first, err := os.ReadFile(archive)
	if err != nil {
		t.Fatalf("archive not written: %v", err)
	}
	if string(first) != "<html>morning</html>" {
		t.Errorf("archive content = %q", first)
	}

	// Overwrite the digest and archive again the same day: the morning
	// archive must survive.
	if err := store.WriteDigest("<html>evening</html>"); err != nil {
		t.Fatalf("WriteDigest (second): %v", err)
	}
	store.now = func() time.Time { return day.Add(10 * time.Hour) }
	if err := store.ArchiveDigest(); err != nil {
		t.Fatalf("ArchiveDigest (second): %v", err)
	}

	second, err := os.ReadFile(archive)
	if err != nil {
		t.Fatal(err)
	}
	if string(second) != "<html>morning</html>" {
		t.Errorf("same-day archive was overwritten: %q", second)
	}
}

func TestArchiveDigest_NoDigestIsNoop(t *testing.T) {
	store := testStoreAt(t, time.Now())
	if err := store.ArchiveDigest(); err != nil {
		t.Fatalf("ArchiveDigest with no digest: %v", err)
	}
	if got := store.ListArchives(); len(got) != 0 {
		t.Errorf("ListArchives = %v, want empty", got)
	}
}

func TestListArchives_NewestFirst(t *testing.T) {
	store := NewStore(t.TempDir())
	if err := os.MkdirAll(store.ArchiveDir(), 0o755); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"2026-08-26.html", "2026-08-28.html", "2026-08-27.html", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(store.ArchiveDir(), name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	got := store.ListArchives()
	want := []string{"2026-08-28", "2026-08-27", "2026-08-26"}
	if len(got) != len(want) {
		t.Fatalf("ListArchives = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ListArchives[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestAtomicWrite_ReplacesContent(t *testing.T) {
	store := NewStore(t.TempDir())
	path := filepath.Join(store.Dir(), "file.txt")

	if err := store.atomicWrite(path, []byte("one")); err != nil {
		t.Fatalf("atomicWrite: %v", err)
	}
	if err := store.atomicWrite(path, []byte("two")); err != nil {
		t.Fatalf("atomicWrite (replace): %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "two" {
		t.Errorf("content = %q, want %q", data, "two")
	}

	// No temp files left behind.
	entries, err := os.ReadDir(store.Dir())
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if e.Name() != "file.txt" {
			t.Errorf("leftover file %q in state dir", e.Name())
		}
	}
}
