// Package pool drives the learning loop: a bounded set of workers each
// cycling synthesize → execute → learn → track, plus a tuner that
// adapts the synthesis length to the learning trend. Everything stops
// when the run context is cancelled.
package pool

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/danielpatrickdp/forager/internal/executor"
	"github.com/danielpatrickdp/forager/internal/learner"
	"github.com/danielpatrickdp/forager/internal/logging"
	"github.com/danielpatrickdp/forager/internal/obs"
	"github.com/danielpatrickdp/forager/internal/persist"
	"github.com/danielpatrickdp/forager/internal/synth"
	"github.com/danielpatrickdp/forager/internal/trend"
	"github.com/danielpatrickdp/forager/internal/vocab"
)

// #region types

// idleSleep is the pause after an empty synthesis (empty vocabulary).
const idleSleep = 50 * time.Millisecond

// Journal abstracts the iteration journal so the pool can be tested
// without a database.
type Journal interface {
	LogIteration(persist.Entry) error
}

// Pool bundles the shared stores and loop parameters. All fields must
// be set except Journal and Logger, which may be nil.
type Pool struct {
	Vocab    *vocab.Vocabulary
	Obs      *obs.Log
	Settings *synth.Settings
	Tracker  *trend.Tracker
	Synth    *synth.Synthesizer
	Learner  *learner.Learner
	Exec     *executor.Executor
	Journal  Journal

	Workers       int
	TunerInterval time.Duration
	OutputPreview int
	Logger        *zap.Logger

	seq atomic.Int64 // journal sequence, shared across workers
}

// #endregion types

// #region run

// Run launches the workers and the tuner and blocks until every one of
// them has stopped. Cancellation of ctx is the termination flag: sticky
// and observed at loop tops, inside semaphore waits, and inside the
// executor's poll loop.
func (p *Pool) Run(ctx context.Context) error {
	logger := p.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	// One permit per configured worker; each worker holds its permit
	// for its whole lifetime. Acquire(ctx) is the interruptible wait.
	sem := semaphore.NewWeighted(int64(p.Workers))

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < p.Workers; i++ {
		id := i
		g.Go(func() error {
			p.worker(ctx, sem, logger.Named("worker").With(zap.Int("worker", id)))
			return nil
		})
	}
	g.Go(func() error {
		p.tuner(ctx, logger.Named("tuner"))
		return nil
	})
	return g.Wait()
}

// #endregion run

// #region worker

// worker is one synthesize → execute → learn pipeline.
func (p *Pool) worker(ctx context.Context, sem *semaphore.Weighted, logger *zap.Logger) {
	if err := sem.Acquire(ctx, 1); err != nil {
		return // cancelled while waiting for admission
	}
	defer sem.Release(1)

	logger.Debug("worker started")
	defer logger.Debug("worker stopped")

	for ctx.Err() == nil {
		cmd := p.Synth.Synthesize()
		if len(cmd) == 0 {
			// Nothing to say yet; don't spin hot on an empty vocabulary.
			select {
			case <-ctx.Done():
			case <-time.After(idleSleep):
			}
			continue
		}

		cmdline := p.Vocab.CommandLine(cmd)
		if cmdline == "" {
			continue
		}

		start := time.Now()
		out, err := p.Exec.Execute(ctx, cmdline)
		if err != nil {
			// This iteration produced no output; the loop goes on.
			logger.Warn("execution failed", zap.String("command", cmdline), zap.Error(err))
			continue
		}

		res := p.Learner.Update(out, cmd)
		p.Tracker.Push(res.Reward)

		if p.Journal != nil {
			err := p.Journal.LogIteration(persist.Entry{
				Seq:         p.seq.Add(1),
				Command:     cmdline,
				Reward:      res.Reward,
				Redundant:   res.Redundant,
				BestScore:   res.BestScore,
				OutputBytes: len(out),
				Duration:    time.Since(start),
			})
			if err != nil {
				logger.Warn("journal write failed", zap.Error(err))
			}
		}

		logger.Info("iteration",
			zap.String("command", cmdline),
			zap.Int("reward", res.Reward),
			zap.Bool("redundant", res.Redundant),
			zap.Float64("avg", p.Tracker.Mean()),
			zap.Int("bytes", len(out)),
			zap.String("output", logging.Preview(out, p.OutputPreview)),
		)
	}
}

// #endregion worker

// #region tuner

// tuner periodically reads the trend verdict and nudges the synthesis
// length: up when learning is improving, down when it is falling off.
func (p *Pool) tuner(ctx context.Context, logger *zap.Logger) {
	ticker := time.NewTicker(p.TunerInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Debug("tuner stopped")
			return
		case <-ticker.C:
			switch p.Tracker.Verdict() {
			case 1:
				logger.Info("trend up, lengthening commands",
					zap.Int("length", p.Settings.AdjustLength(1)))
			case -1:
				logger.Info("trend down, shortening commands",
					zap.Int("length", p.Settings.AdjustLength(-1)))
			}
		}
	}
}

// #endregion tuner
