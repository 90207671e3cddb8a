package main

import (
	"context"
	"flag"
	"io"
	"log"
	"log/slog"
	"os"

	"github.com/tailored-agentic-units/state/observability"
	"github.com/tailored-agentic-units/state/store"
)

// verboseObserver is the registry name for a configured observer combined
// with -verbose logging.
const verboseObserver = "cli-verbose"

func main() {
	var (
		configFile = flag.String("config", "", "Path to store config JSON file")
		verbose    = flag.Bool("verbose", false, "Log store events to stderr")
	)
	flag.Parse()

	cfg := store.DefaultConfig()
	if *configFile != "" {
		loaded, err := store.LoadConfig(*configFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = *loaded
	}

	logger, err := setupLogging(&cfg, *verbose, os.Stderr)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}

	if err := store.Configure(&cfg); err != nil {
		log.Fatalf("Failed to configure store: %v", err)
	}

	sh := newShell(store.Default(), os.Stdout, logger)
	if err := sh.run(context.Background(), os.Stdin); err != nil {
		log.Fatalf("Shell failed: %v", err)
	}
}

// setupLogging builds the CLI logger and points cfg.Observer at the observer
// the store should use. Store events are verbose, so the logger runs at debug
// level whenever they are meant to reach it: with -verbose, or when the config
// selects "slog". With -verbose, a configured observer other than "noop" or
// "slog" keeps receiving events alongside the log.
func setupLogging(cfg *store.Config, verbose bool, w io.Writer) (*slog.Logger, error) {
	level := slog.LevelInfo
	if verbose || cfg.Observer == "slog" {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	}))

	logObserver := observability.NewSlogObserver(logger)
	observability.RegisterObserver("slog", logObserver)

	if !verbose {
		return logger, nil
	}

	switch cfg.Observer {
	case "", "noop", "slog":
		cfg.Observer = "slog"
	default:
		configured, err := observability.GetObserver(cfg.Observer)
		if err != nil {
			return nil, err
		}
		observability.RegisterObserver(verboseObserver, observability.NewMultiObserver(configured, logObserver))
		cfg.Observer = verboseObserver
	}
	return logger, nil
}
