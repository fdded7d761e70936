package browser

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// Profile identifies one browser profile's History database.
type Profile struct {
	Browser     string
	Name        string
	HistoryPath string
}

// FindProfiles locates Chrome and Brave profile directories containing a
// History database for the current platform. Inaccessible directories are
// skipped silently.
func FindProfiles() []Profile {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}

	type browserRoot struct {
		name string
		base string
	}
	var roots []browserRoot
	switch runtime.GOOS {
	case "darwin":
		roots = []browserRoot{
			{"Chrome", filepath.Join(home, "Library", "Application Support", "Google", "Chrome")},
			{"Brave", filepath.Join(home, "Library", "Application Support", "BraveSoftware", "Brave-Browser")},
		}
	default:
		roots = []browserRoot{
			{"Chrome", filepath.Join(home, ".config", "google-chrome")},
			{"Brave", filepath.Join(home, ".config", "BraveSoftware", "Brave-Browser")},
		}
	}

	var profiles []Profile
	for _, root := range roots {
		entries, err := os.ReadDir(root.base)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			name := entry.Name()
			if !strings.HasPrefix(name, "Default") && !strings.HasPrefix(name, "Profile") {
				continue
			}
			historyPath := filepath.Join(root.base, name, "History")
			if _, err := os.Stat(historyPath); err != nil {
				continue
			}
			profiles = append(profiles, Profile{
				Browser:     root.name,
				Name:        name,
				HistoryPath: historyPath,
			})
		}
	}
	return profiles
}
