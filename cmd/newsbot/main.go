package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/exec"
	"runtime"

	"github.com/spf13/pflag"

	"github.com/hoanghai1803/newsbot/internal/ai"
	"github.com/hoanghai1803/newsbot/internal/browser"
	"github.com/hoanghai1803/newsbot/internal/config"
	"github.com/hoanghai1803/newsbot/internal/feeds"
	"github.com/hoanghai1803/newsbot/internal/pipeline"
	"github.com/hoanghai1803/newsbot/internal/server"
	"github.com/hoanghai1803/newsbot/internal/state"
)

const usage = `newsbot - personal news digest that learns from your browser history

Usage:
  newsbot <command> [flags]

Commands:
  init         Set up the data directory with default config files
  learn        Update interest profile from browser history
  discover     Scan sources for new articles and score them
  digest       Generate HTML digest from already-discovered articles
  scan         Full pipeline: learn, discover, digest
  interests    Show current interest profile
  sources      List configured news sources
  add-source   Add an RSS feed or site URL
  history      List past digests
  open         Open current digest in default browser
  serve        Serve the digest and archives over HTTP

Flags:
      --config string     path to config file (default ~/.config/newsbot/config.toml)
      --data-dir string   override the data directory
  -v, --verbose           enable debug logging
`

func main() {
	flags := pflag.NewFlagSet("newsbot", pflag.ExitOnError)
	flags.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	configPath := flags.String("config", config.DefaultPath(), "path to config file")
	dataDir := flags.String("data-dir", "", "override the data directory")
	verbose := flags.BoolP("verbose", "v", false, "enable debug logging")
	flags.Parse(os.Args[1:])

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	args := flags.Args()
	if len(args) == 0 {
		flags.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fail(err)
	}
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}

	store := state.NewStore(cfg.DataDir)
	ctx := context.Background()

	switch cmd := args[0]; cmd {
	case "init":
		cmdInit(store)
	case "learn":
		run(pipelineFor(cfg, store).Learn(ctx))
	case "discover":
		_, err := pipelineFor(cfg, store).Discover(ctx)
		run(err)
	case "digest":
		run(pipelineFor(cfg, store).CurateStored(ctx))
	case "scan":
		run(pipelineFor(cfg, store).Scan(ctx))
	case "interests":
		cmdInterests(store)
	case "sources":
		cmdSources(store)
	case "add-source":
		if len(args) < 2 {
			fail(errors.New("usage: newsbot add-source <url>"))
		}
		cmdAddSource(store, args[1])
	case "history":
		cmdHistory(store)
	case "open":
		cmdOpen(store)
	case "serve":
		cmdServe(store, cfg.Server.Port)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", cmd)
		flags.Usage()
		os.Exit(2)
	}
}

// pipelineFor wires the full pipeline: provider, browser-history reader,
// and feed fetcher (which doubles as article-text extractor).
func pipelineFor(cfg *config.Config, store *state.Store) *pipeline.Pipeline {
	model := cfg.AI.Model
	if model == "" {
		model = store.LoadConfig().Model
	}

	provider, err := ai.NewProvider(ai.ProviderConfig{
		Provider: cfg.AI.Provider,
		APIKey:   cfg.AI.APIKey,
		Model:    model,
	})
	if err != nil {
		fail(err)
	}

	fetcher := feeds.NewFetcher()
	return pipeline.New(store, provider, browser.NewReader(), fetcher, fetcher)
}

// run reports a pipeline error and exits non-zero. Client errors carry a
// remediation hint printed alongside the message.
func run(err error) {
	if err != nil {
		fail(err)
	}
}

func fail(err error) {
	slog.Error(err.Error())
	var clientErr *ai.ClientError
	if errors.As(err, &clientErr) && clientErr.Hint != "" {
		fmt.Fprintln(os.Stderr, "hint:", clientErr.Hint)
	}
	os.Exit(1)
}

func cmdInit(store *state.Store) {
	created, err := store.Init()
	if err != nil {
		fail(err)
	}
	if created == 0 {
		fmt.Printf("Already initialized at %s\n", store.Dir())
		return
	}
	fmt.Printf("Initialized %s (%d files created)\n", store.Dir(), created)
}

func cmdInterests(store *state.Store) {
	profile := store.LoadInterests()
	if profile.IsEmpty() && len(profile.Blocked) == 0 {
		fmt.Println("No interests found. Run 'newsbot learn' to build your interest profile.")
		return
	}
	fmt.Print(state.FormatInterests(profile))
}

func cmdSources(store *state.Store) {
	sources := store.LoadSources()

	fmt.Println("RSS Feeds:")
	for _, s := range sources.RSSFeeds {
		fmt.Println(" ", s.URL)
	}
	if len(sources.AutoDiscovered) > 0 {
		fmt.Println("Auto-Discovered:")
		for _, s := range sources.AutoDiscovered {
			if s.AddedDate != "" {
				fmt.Printf("  %s (added %s)\n", s.URL, s.AddedDate)
			} else {
				fmt.Println(" ", s.URL)
			}
		}
	}
	if len(sources.NewsSites) > 0 {
		fmt.Println("News Sites:")
		for _, s := range sources.NewsSites {
			fmt.Println(" ", s)
		}
	}
	fmt.Printf("\n%d feed(s), %d site(s).\n", len(sources.AllFeeds()), len(sources.NewsSites))
}

func cmdAddSource(store *state.Store, url string) {
	if err := store.AddSource(url); err != nil {
		fail(err)
	}
	fmt.Println("Added source:", url)
}

func cmdHistory(store *state.Store) {
	dates := store.ListArchives()
	if len(dates) == 0 {
		fmt.Println("No past digests found. Run 'newsbot scan' to generate your first digest.")
		return
	}
	fmt.Println("Past digests:")
	for _, date := range dates {
		fmt.Println(" ", date)
	}
}

func cmdOpen(store *state.Store) {
	path := store.DigestPath()
	if _, err := os.Stat(path); err != nil {
		fmt.Println("No digest found. Run 'newsbot scan' first.")
		return
	}
	openBrowser("file://" + path)
	fmt.Println("Opened", path)
}

func cmdServe(store *state.Store, port int) {
	addr := fmt.Sprintf("localhost:%d", port)
	slog.Info("starting server", "addr", "http://"+addr)
	if err := http.ListenAndServe(addr, server.NewRouter(store)); err != nil {
		fail(err)
	}
}

// openBrowser opens the given URL in the user's default browser.
// It is a fire-and-forget operation; errors are silently ignored.
func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	}
	if cmd != nil {
		_ = cmd.Start()
	}
}
