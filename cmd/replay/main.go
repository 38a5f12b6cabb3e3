// Command replay re-judges every stored observation against the lines
// that preceded it, under a configurable redundancy threshold. It shows
// how the observation log would have been filtered at that threshold —
// a way to sanity-check the default before changing it.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/danielpatrickdp/forager/internal/obs"
	"github.com/danielpatrickdp/forager/internal/persist"
	"github.com/danielpatrickdp/forager/internal/similarity"
	"github.com/danielpatrickdp/forager/internal/vocab"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to forager.db")
	threshold := flag.Float64("threshold", 75.0, "redundancy threshold to replay at, percent")
	verbose := flag.Bool("v", false, "print a verdict per line")
	flag.Parse()

	if *dbPath == "" {
		fmt.Fprintln(os.Stderr, "usage: replay --db path/to/forager.db [--threshold P] [-v]")
		os.Exit(2)
	}
	if *threshold < 0 || *threshold > 100 {
		fmt.Fprintf(os.Stderr, "threshold %.1f out of range 0..100\n", *threshold)
		os.Exit(2)
	}

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

	redundant := replay(o, *threshold, *verbose)
	total := o.Len()
	fmt.Printf("threshold %.1f%%: %d/%d lines redundant (%d kept)\n",
		*threshold, redundant, total, total-redundant)
}

// #endregion main

// #region replay

// replay walks the log in stored order, judging each line only against
// the lines that came before it — the order the agent saw them.
func replay(o *obs.Log, threshold float64, verbose bool) int {
	var prior [][]int
	redundant := 0
	for i := 0; i < o.Len(); i++ {
		line := o.Line(i)
		isRedundant, bestIdx, bestScore := similarity.Judge(line, prior, threshold)
		if isRedundant {
			redundant++
		}
		if verbose {
			mark := "novel"
			if isRedundant {
				mark = fmt.Sprintf("redundant vs %d (%.1f%%)", bestIdx, bestScore)
			}
			fmt.Printf("  %4d  %v  %s\n", i, line, mark)
		}
		prior = append(prior, line)
	}
	return redundant
}

// #endregion replay
