// Package server exposes the rendered digest over HTTP: the live digest at
// the root, archived digests under /history, and the current interest
// profile for quick inspection.
package server

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/hoanghai1803/newsbot/internal/state"
)

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// NewRouter creates the HTTP router over the given state store.
func NewRouter(store *state.Store) *chi.Mux {
	r := chi.NewRouter()

	r.Use(RequestLogger)
	r.Use(Recovery)

	r.Get("/", serveDigest(store))
	r.Get("/history", serveArchiveList(store))
	r.Get("/history/{date}", serveArchive(store))
	r.Get("/interests", serveInterests(store))

	return r
}

// serveDigest serves the live digest, or a placeholder page when no scan
// has run yet.
func serveDigest(store *state.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		html, err := os.ReadFile(store.DigestPath())
		if err != nil {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			fmt.Fprint(w, "<!DOCTYPE html><html><body><p>No digest yet. Run <code>newsbot scan</code> to generate one.</p></body></html>")
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(html)
	}
}

// serveArchiveList serves a plain index of archived digests, newest first.
func serveArchiveList(store *state.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dates := store.ListArchives()

		var b strings.Builder
		b.WriteString("<!DOCTYPE html><html><head><title>Past digests</title></head><body><h1>Past digests</h1>")
		if len(dates) == 0 {
			b.WriteString("<p>No past digests found.</p>")
		} else {
			b.WriteString("<ul>")
			for _, date := range dates {
				fmt.Fprintf(&b, `<li><a href="/history/%s">%s</a></li>`, date, date)
			}
			b.WriteString("</ul>")
		}
		b.WriteString("</body></html>")

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, b.String())
	}
}

// serveArchive serves one archived digest by date. The date is validated
// against a strict pattern so the path parameter can never escape the
// archive directory.
func serveArchive(store *state.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		date := chi.URLParam(r, "date")
		if !datePattern.MatchString(date) {
			http.Error(w, "invalid date", http.StatusBadRequest)
			return
		}

		html, err := os.ReadFile(filepath.Join(store.ArchiveDir(), date+".html"))
		if err != nil {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(html)
	}
}

// serveInterests serves the current interest profile as plain text, in the
// same markdown format it is stored in.
func serveInterests(store *state.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profile := store.LoadInterests()
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprint(w, state.FormatInterests(profile))
	}
}
