// Command bootstrap seeds a forager database's vocabulary from the
// executable search path without starting the learning loop.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/danielpatrickdp/forager/internal/config"
	"github.com/danielpatrickdp/forager/internal/logging"
	"github.com/danielpatrickdp/forager/internal/obs"
	"github.com/danielpatrickdp/forager/internal/persist"
	"github.com/danielpatrickdp/forager/internal/seed"
	"github.com/danielpatrickdp/forager/internal/vocab"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to forager.db")
	pathOverride := flag.String("path", "", "colon-separated directories to scan instead of $PATH")
	debug := flag.Bool("debug", false, "verbose logging")
	flag.Parse()

	if *dbPath == "" {
		fmt.Fprintln(os.Stderr, "usage: bootstrap --db path/to/forager.db [--path dirs] [--debug]")
		os.Exit(2)
	}

	logger, err := logging.New(*debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	store, err := persist.Open(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	v := vocab.New()
	o := obs.New()
	if err := store.Load(v, o); err != nil {
		fmt.Fprintf(os.Stderr, "load: %v\n", err)
		os.Exit(1)
	}
	before := v.Len()

	cfg := config.Default()
	seeder := seed.New(cfg.SeedPerDirCap, cfg.SeedDirTimeout, cfg.SeedSkipSymlinks, logger)
	added := seeder.Seed(v, *pathOverride)

	if err := store.Save(v, o); err != nil {
		fmt.Fprintf(os.Stderr, "save: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("seeded %d new words (%d -> %d)\n", added, before, v.Len())
}

// #endregion main
