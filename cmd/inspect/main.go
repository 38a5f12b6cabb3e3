// Command inspect reads a forager database and reports what the agent
// has learned: the strongest associations, the vocabulary, stored
// observations, and recent journaled iterations.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/danielpatrickdp/forager/internal/assoc"
	"github.com/danielpatrickdp/forager/internal/obs"
	"github.com/danielpatrickdp/forager/internal/persist"
	"github.com/danielpatrickdp/forager/internal/vocab"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to forager.db")
	top := flag.Int("top", 20, "show N strongest associations")
	words := flag.Int("words", 0, "show first N vocabulary words")
	observations := flag.Int("obs", 0, "show first N observation lines")
	runs := flag.Int("runs", 0, "show N most recent journaled iterations")
	jsonOut := flag.Bool("json", false, "output as JSON instead of text")
	flag.Parse()

	if *dbPath == "" {
		fmt.Fprintln(os.Stderr, "usage: inspect --db path/to/forager.db [--top N] [--words N] [--obs N] [--runs N] [--json]")
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

	if err := report(store, v, o, *top, *words, *observations, *runs, *jsonOut); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region report

type assocRow struct {
	WordI string `json:"word_i"`
	PosI  int    `json:"pos_i"`
	WordK string `json:"word_k"`
	PosK  int    `json:"pos_k"`
	Value int    `json:"value"`
}

type summary struct {
	Words        int                    `json:"words"`
	Associations int                    `json:"associations"`
	Observations int                    `json:"observations"`
	Top          []assocRow             `json:"top,omitempty"`
	Vocabulary   []string               `json:"vocabulary,omitempty"`
	Lines        []string               `json:"lines,omitempty"`
	Iterations   []persist.IterationRow `json:"iterations,omitempty"`
}

func report(store *persist.Store, v *vocab.Vocabulary, o *obs.Log, top, words, observations, runs int, jsonOut bool) error {
	s := summary{
		Words:        v.Len(),
		Associations: v.AssocLen(),
		Observations: o.Len(),
	}

	if top > 0 {
		s.Top = strongest(v, top)
	}
	if words > 0 {
		all := v.Words()
		if words < len(all) {
			all = all[:words]
		}
		s.Vocabulary = all
	}
	if observations > 0 {
		for i := 0; i < observations && i < o.Len(); i++ {
			s.Lines = append(s.Lines, renderLine(v, o.Line(i)))
		}
	}
	if runs > 0 {
		rows, err := store.RecentIterations(runs)
		if err != nil {
			return err
		}
		s.Iterations = rows
	}

	if jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	}

	fmt.Printf("words: %d  associations: %d  observations: %d\n", s.Words, s.Associations, s.Observations)
	if len(s.Top) > 0 {
		fmt.Println("\nstrongest associations:")
		for _, row := range s.Top {
			fmt.Printf("  %-20s @%d  <->  %-20s @%d  %6d\n", row.WordI, row.PosI, row.WordK, row.PosK, row.Value)
		}
	}
	if len(s.Vocabulary) > 0 {
		fmt.Println("\nvocabulary:")
		for i, w := range s.Vocabulary {
			fmt.Printf("  %4d  %s\n", i, w)
		}
	}
	if len(s.Lines) > 0 {
		fmt.Println("\nobservations:")
		for i, line := range s.Lines {
			fmt.Printf("  %4d  %s\n", i, line)
		}
	}
	if len(s.Iterations) > 0 {
		fmt.Println("\nrecent iterations:")
		for _, it := range s.Iterations {
			mark := " "
			if it.Redundant {
				mark = "R"
			}
			fmt.Printf("  [%s #%d] %s reward=%+d best=%.1f%%  $ %s\n",
				shortID(it.RunID), it.Seq, mark, it.Reward, it.BestScore, it.Command)
		}
	}
	return nil
}

// strongest returns the top-N associations by absolute value, resolved
// to words.
func strongest(v *vocab.Vocabulary, n int) []assocRow {
	type entry struct {
		key assoc.Key
		val int
	}
	var all []entry
	v.RangeAssoc(func(k assoc.Key, val int) bool {
		all = append(all, entry{key: k, val: val})
		return true
	})
	sort.Slice(all, func(a, b int) bool {
		return abs(all[a].val) > abs(all[b].val)
	})
	if n < len(all) {
		all = all[:n]
	}
	rows := make([]assocRow, 0, len(all))
	for _, e := range all {
		rows = append(rows, assocRow{
			WordI: v.Word(e.key.I),
			PosI:  e.key.Pi,
			WordK: v.Word(e.key.K),
			PosK:  e.key.Pk,
			Value: e.val,
		})
	}
	return rows
}

func renderLine(v *vocab.Vocabulary, line []int) string {
	parts := make([]string, 0, len(line))
	for _, idx := range line {
		parts = append(parts, v.Word(idx))
	}
	return strings.Join(parts, " ")
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// #endregion report
