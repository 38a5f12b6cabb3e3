// Command forager runs the exploratory shell agent: it loads (or
// seeds) its vocabulary, then keeps a pool of workers synthesizing,
// executing, and learning from shell commands until interrupted, and
// saves everything it learned on the way out.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/danielpatrickdp/forager/internal/config"
	"github.com/danielpatrickdp/forager/internal/executor"
	"github.com/danielpatrickdp/forager/internal/learner"
	"github.com/danielpatrickdp/forager/internal/logging"
	"github.com/danielpatrickdp/forager/internal/obs"
	"github.com/danielpatrickdp/forager/internal/persist"
	"github.com/danielpatrickdp/forager/internal/pool"
	"github.com/danielpatrickdp/forager/internal/seed"
	"github.com/danielpatrickdp/forager/internal/synth"
	"github.com/danielpatrickdp/forager/internal/trend"
	"github.com/danielpatrickdp/forager/internal/vocab"
)

// #region main

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("forager", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var (
		dbPath     = fs.String("db", "", "SQLite database file (default from config)")
		configPath = fs.String("config", "", "optional YAML config file")
		workers    = fs.Int("workers", 0, fmt.Sprintf("worker count (1..%d)", config.MaxWorkers))
		length     = fs.Int("length", 0, fmt.Sprintf("initial command length (%d..%d)", config.CmdMin, config.CmdMax))
		scope      = fs.Int("scope", 0, fmt.Sprintf("initial sampling scope, percent (%d..%d)", config.ScopeMin, config.ScopeMax))
		debug      = fs.Bool("debug", false, "verbose development logging")
	)

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 1
	}

	cfg := config.Default()
	if *configPath != "" {
		if err := cfg.LoadFile(*configPath); err != nil {
			fmt.Fprintf(os.Stderr, "forager: %v\n", err)
			return 1
		}
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}
	if *workers != 0 {
		cfg.Workers = *workers
	}
	if *length != 0 {
		cfg.InitialLength = *length
	}
	if *scope != 0 {
		cfg.InitialScope = *scope
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "forager: %v\n", err)
		fs.Usage()
		return 1
	}

	logger, err := logging.New(*debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "forager: build logger: %v\n", err)
		return 1
	}
	defer logger.Sync()

	// SIGINT/SIGTERM cancel the run context — the process-wide, sticky
	// termination flag. SIGPIPE carries no semantics here.
	signal.Ignore(syscall.SIGPIPE)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := persist.Open(cfg.DBPath)
	if err != nil {
		logger.Error("open store", zap.Error(err))
		return 1
	}
	defer store.Close()

	words := vocab.New()
	observations := obs.New()
	if err := store.Load(words, observations); err != nil {
		logger.Warn("load failed, starting with empty state", zap.Error(err))
	}

	if words.Len() == 0 {
		seeder := seed.New(cfg.SeedPerDirCap, cfg.SeedDirTimeout, cfg.SeedSkipSymlinks, logger)
		added := seeder.Seed(words, "")
		logger.Info("seeded vocabulary from PATH", zap.Int("added", added))
	}
	logger.Info("vocabulary ready",
		zap.Int("words", words.Len()),
		zap.Int("observations", observations.Len()))

	settings := synth.NewSettings(cfg.InitialLength, cfg.InitialScope)
	tracker := trend.NewTracker(cfg.TrendWindow)
	journal := persist.NewJournal(store)

	p := &pool.Pool{
		Vocab:    words,
		Obs:      observations,
		Settings: settings,
		Tracker:  tracker,
		Synth:    synth.New(words, settings),
		Learner: learner.New(words, observations, learner.Config{
			Reward:              cfg.Reward,
			Penalty:             cfg.Penalty,
			RedundancyThreshold: cfg.RedundancyThreshold,
			StoreRedundant:      cfg.StoreRedundant,
			LineBuffer:          cfg.LineBuffer,
		}),
		Exec:          executor.New(cfg.Runtime, cfg.KillAttempts),
		Journal:       journal,
		Workers:       cfg.Workers,
		TunerInterval: cfg.TunerInterval,
		OutputPreview: cfg.OutputPreview,
		Logger:        logger,
	}

	logger.Info("launching workers",
		zap.Int("workers", cfg.Workers),
		zap.Int("length", cfg.InitialLength),
		zap.Int("scope", cfg.InitialScope),
		zap.String("run_id", journal.RunID()))

	if err := p.Run(ctx); err != nil {
		logger.Error("pool", zap.Error(err))
	}

	if ctx.Err() != nil {
		logger.Info("received signal, shutting down")
	}

	if err := store.Save(words, observations); err != nil {
		logger.Warn("save failed", zap.Error(err))
	} else {
		logger.Info("state saved",
			zap.Int("words", words.Len()),
			zap.Int("assoc", words.AssocLen()),
			zap.Int("observations", observations.Len()))
	}

	verdict := "flat"
	switch tracker.Verdict() {
	case 1:
		verdict = "up"
	case -1:
		verdict = "down"
	}
	logger.Info("learning summary",
		zap.Float64("moving_average", tracker.Mean()),
		zap.String("trend", verdict))

	return 0
}

// #endregion main
