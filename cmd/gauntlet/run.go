package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/warbound-games/gauntlet/internal/battle"
	"github.com/warbound-games/gauntlet/internal/carddata"
	"github.com/warbound-games/gauntlet/internal/charts"
	"github.com/warbound-games/gauntlet/internal/config"
	"github.com/warbound-games/gauntlet/internal/events"
	"github.com/warbound-games/gauntlet/internal/export"
	"github.com/warbound-games/gauntlet/internal/report"
	"github.com/warbound-games/gauntlet/internal/sim"
	"github.com/warbound-games/gauntlet/internal/stats"
	"github.com/warbound-games/gauntlet/internal/storage"
	"github.com/warbound-games/gauntlet/internal/watch"
)

// runSessionCommand handles the run command and its flags.
func runSessionCommand() {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	matches := fs.Int("matches", 0, "Number of matches to run")
	seed := fs.Int64("seed", 0, "Base seed for the session (0 = draw a fresh seed)")
	p1 := fs.String("p1", "", "Oracle profile for player 1 (random, easy, medium, hard)")
	p2 := fs.String("p2", "", "Oracle profile for player 2 (random, easy, medium, hard)")
	rosterA := fs.String("roster-a", "", "Pin player 1's champions, e.g. \"Brute+Ranger\"")
	rosterB := fs.String("roster-b", "", "Pin player 2's champions, e.g. \"Beast+Shaman\"")
	allCombos := fs.Bool("all-combinations", false, "Cycle through every disjoint champion pairing")
	output := fs.String("output", "", "Report output directory")
	jsonOnly := fs.Bool("json-only", false, "Write report.json only, no summary or extra artifacts")
	chartsOn := fs.Bool("charts", false, "Render HTML chart dashboards alongside the report")
	verbose := fs.Bool("verbose", false, "Log every session event")
	watchMode := fs.Bool("watch", false, "Re-run the session whenever the card data file changes")
	cardsPath := fs.String("cards", "", "External card set file (default: built-in set)")
	configPath := fs.String("config", "", "Config file path (default: ~/.warbound-gauntlet/config.toml)")
	noDB := fs.Bool("no-db", false, "Skip persisting results to the database")
	dbPath := fs.String("db-path", "", "Database path (default: GAUNTLET_DB_PATH)")

	if err := fs.Parse(os.Args[2:]); err != nil {
		log.Fatalf("Error parsing flags: %v", err)
	}

	cfg := loadConfig(*configPath)

	// Only flags the user actually set override the config file.
	setFlags := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { setFlags[f.Name] = true })
	if setFlags["matches"] {
		cfg.Session.Matches = *matches
	}
	if setFlags["seed"] {
		cfg.Session.BaseSeed = *seed
	}
	if setFlags["p1"] {
		cfg.Session.DifficultyP1 = *p1
	}
	if setFlags["p2"] {
		cfg.Session.DifficultyP2 = *p2
	}
	if setFlags["all-combinations"] {
		cfg.Session.AllCombinations = *allCombos
	}
	if setFlags["output"] {
		cfg.Output.Dir = *output
	}
	if setFlags["json-only"] {
		cfg.Output.JSONOnly = *jsonOnly
	}
	if setFlags["charts"] {
		cfg.Output.Charts = *chartsOn
	}
	if setFlags["verbose"] {
		cfg.App.Verbose = *verbose
	}
	if setFlags["cards"] {
		cfg.Data.Path = *cardsPath
	}
	if setFlags["no-db"] {
		cfg.Storage.Disabled = *noDB
	}
	if setFlags["db-path"] {
		cfg.Storage.DBPath = *dbPath
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	matchups, err := fixedMatchups(*rosterA, *rosterB)
	if err != nil {
		log.Fatalf("Invalid roster flags: %v", err)
	}

	dispatcher := events.NewDispatcher()
	if !cfg.Output.JSONOnly {
		dispatcher.Register(newProgressObserver(os.Stdout))
	}
	if cfg.App.Verbose {
		dispatcher.Register(events.NewLoggingObserver(true))
	}

	var service *storage.Service
	if !cfg.Storage.Disabled {
		db := openDatabase(cfg.Storage.DBPath)
		defer func() { _ = db.Close() }()
		service = storage.NewService(db)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Println("Interrupt received, finishing the current match...")
		cancel()
	}()

	if *watchMode {
		if cfg.Data.Path == "" {
			log.Fatal("Watch mode needs an external card data file (-cards or data.path in the config)")
		}
		debounce, err := cfg.GetWatchDebounce()
		if err != nil {
			log.Fatalf("Invalid watch debounce: %v", err)
		}
		watcher, err := watch.New(watch.Config{
			Path:       cfg.Data.Path,
			Debounce:   debounce,
			Dispatcher: dispatcher,
		})
		if err != nil {
			log.Fatalf("Error setting up watch mode: %v", err)
		}

		if _, err := runSession(ctx, cfg, matchups, dispatcher, service); err != nil {
			log.Printf("Session failed: %v", err)
		}
		fmt.Printf("\nWatching %s for changes. Press Ctrl+C to stop.\n", watcher.Path())

		err = watcher.Run(ctx, func(ctx context.Context) error {
			_, err := runSession(ctx, cfg, matchups, dispatcher, service)
			return err
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Fatalf("Watch mode failed: %v", err)
		}
		fmt.Println("Watch stopped.")
		return
	}

	failed, err := runSession(ctx, cfg, matchups, dispatcher, service)
	if err != nil {
		log.Fatalf("Session failed: %v", err)
	}
	if failed > 0 {
		os.Exit(1)
	}
}

// runSession plays one full session: load card data, run every match,
// compile the report, write artifacts, and persist the outcome. The
// card store is loaded fresh on every call so watch-mode re-runs pick
// up the edited file. Returns the number of failed matches.
func runSession(ctx context.Context, cfg *config.Config, matchups []sim.MatchupSpec, dispatcher *events.Dispatcher, service *storage.Service) (int, error) {
	store, err := loadStoreAt(cfg.Data.Path)
	if err != nil {
		return 0, err
	}

	pacing, err := cfg.GetPacingDelay()
	if err != nil {
		return 0, fmt.Errorf("invalid pacing delay: %w", err)
	}

	sessionCfg := sim.SessionConfig{
		Matches:         cfg.Session.Matches,
		BaseSeed:        cfg.Session.BaseSeed,
		DifficultyP1:    cfg.Session.DifficultyP1,
		DifficultyP2:    cfg.Session.DifficultyP2,
		Matchups:        matchups,
		AllCombinations: cfg.Session.AllCombinations,
		Limits:          sessionLimits(cfg),
		PacingDelay:     pacing,
	}

	agg := stats.NewAggregator()
	factory := func() sim.Engine { return battle.NewEngine(store) }
	orch := sim.NewOrchestrator(sessionCfg, store, factory, agg, dispatcher)

	outcome, err := orch.Run(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to run session: %w", err)
	}

	rep := report.Compile(outcome, agg.Snapshot())

	sessionDir := filepath.Join(cfg.Output.Dir, outcome.SessionID)
	written, err := export.WriteSessionArtifacts(rep, sessionDir, cfg.Output.JSONOnly)
	if err != nil {
		return outcome.ErrorCount(), fmt.Errorf("failed to write session artifacts: %w", err)
	}
	if _, err := export.WriteMatchResults(outcome.Results, sessionDir); err != nil {
		return outcome.ErrorCount(), fmt.Errorf("failed to write match records: %w", err)
	}
	dispatcher.Dispatch(events.New(events.TypeReportWritten, events.ReportWrittenEvent{
		Path:   written[0],
		Format: "json",
	}, ctx))

	if cfg.Output.Charts {
		rendered, err := charts.RenderSessionDashboards(rep, outcome.Results, sessionDir)
		if err != nil {
			log.Printf("Chart rendering failed: %v", err)
		} else {
			for _, p := range rendered {
				fmt.Printf("Chart written: %s\n", p)
			}
		}
	}

	if service != nil {
		if err := service.SaveSession(ctx, outcome, rep); err != nil {
			return outcome.ErrorCount(), fmt.Errorf("failed to persist session: %w", err)
		}
	}

	if !cfg.Output.JSONOnly {
		fmt.Println()
		fmt.Println(rep.HumanSummary())
	}
	fmt.Printf("Report written to %s\n", sessionDir)
	if service != nil {
		fmt.Printf("Session stored as %s\n", outcome.SessionID)
	}

	return outcome.ErrorCount(), nil
}

// loadConfig reads the config file, falling back to defaults when no
// file exists yet.
func loadConfig(path string) *config.Config {
	var (
		cfg *config.Config
		err error
	)
	if path != "" {
		cfg, err = config.LoadFrom(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}
	return cfg
}

// loadStoreAt loads a card set file, or the built-in set when path is
// empty.
func loadStoreAt(path string) (*carddata.Store, error) {
	if path != "" {
		store, err := carddata.LoadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load card data from %s: %w", path, err)
		}
		return store, nil
	}
	store, err := carddata.Default()
	if err != nil {
		return nil, fmt.Errorf("failed to load built-in card data: %w", err)
	}
	return store, nil
}

// openDatabase opens (and migrates) the results database. An empty
// path falls back to GAUNTLET_DB_PATH and then the default location.
func openDatabase(path string) *storage.DB {
	if path == "" {
		path = getDBPath()
	}
	dbConfig := storage.DefaultConfig(path)
	dbConfig.AutoMigrate = true
	db, err := storage.Open(dbConfig)
	if err != nil {
		log.Fatalf("Error opening database: %v", err)
	}
	return db
}

// sessionLimits maps the configured safety bounds onto the executor's.
func sessionLimits(cfg *config.Config) sim.Limits {
	return sim.Limits{
		MaxRounds:            cfg.Limits.MaxRounds,
		MaxActionsPerTurn:    cfg.Limits.MaxActionsPerTurn,
		MaxConsecutivePasses: cfg.Limits.MaxConsecutivePass,
		MaxIterations:        cfg.Limits.MaxIterations,
		MaxResponsePasses:    cfg.Limits.MaxResponsePasses,
	}
}

// fixedMatchups builds the pinned pairing from the roster flags. Both
// flags must be given together; with neither, rosters are drawn per the
// session config.
func fixedMatchups(rosterA, rosterB string) ([]sim.MatchupSpec, error) {
	if rosterA == "" && rosterB == "" {
		return nil, nil
	}
	if rosterA == "" || rosterB == "" {
		return nil, errors.New("-roster-a and -roster-b must be given together")
	}
	a, err := parseRoster(rosterA)
	if err != nil {
		return nil, err
	}
	b, err := parseRoster(rosterB)
	if err != nil {
		return nil, err
	}
	return []sim.MatchupSpec{{RosterA: a, RosterB: b}}, nil
}

// parseRoster splits "Brute+Ranger" into its two champion names.
func parseRoster(s string) ([2]string, error) {
	parts := strings.Split(s, "+")
	if len(parts) != 2 || strings.TrimSpace(parts[0]) == "" || strings.TrimSpace(parts[1]) == "" {
		return [2]string{}, fmt.Errorf("roster %q must name exactly two champions joined with \"+\"", s)
	}
	return [2]string{strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])}, nil
}
