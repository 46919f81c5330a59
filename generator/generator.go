// Package generator fills the state table, one round of scorecards at a
// time, from the full scorecard back to the empty one.
package generator

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/domino14/yahtzee-ev/config"
	"github.com/domino14/yahtzee-ev/evaluator"
	"github.com/domino14/yahtzee-ev/evtable"
	"github.com/domino14/yahtzee-ev/scorecard"
	"github.com/domino14/yahtzee-ev/scoring"
	"github.com/domino14/yahtzee-ev/stats"
)

// Listener is told about every evaluated state. It is called from worker
// goroutines, concurrently, and must be safe for that.
type Listener interface {
	OnUnitDone(elapsed time.Duration)
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(elapsed time.Duration)

func (f ListenerFunc) OnUnitDone(elapsed time.Duration) {
	f(elapsed)
}

type unit struct {
	card   scorecard.Scorecard
	bucket int
}

type Generator struct {
	ectx             *evaluator.Context
	threads          int
	progressInterval time.Duration
	memoryFraction   float64

	completed atomic.Uint64
	report    *Report
}

func NewGenerator(cfg *config.Config, ectx *evaluator.Context) *Generator {
	return &Generator{
		ectx:             ectx,
		threads:          cfg.Threads,
		progressInterval: cfg.ProgressInterval,
		memoryFraction:   cfg.MemoryFraction,
	}
}

func (g *Generator) Threads() int {
	return g.threads
}

// Completed is the number of states evaluated so far in the current run.
func (g *Generator) Completed() uint64 {
	return g.completed.Load()
}

// Report describes the last successful run, or is nil.
func (g *Generator) Report() *Report {
	return g.report
}

// Generate computes every state's EV. Rounds run from 14 marked categories
// down to 0; all states of a round are independent of each other and only
// read states of earlier rounds, so a round is fanned out across the
// workers and fully drained before the next one starts.
//
// listener may be nil. Cancelling ctx aborts the run with an error; no
// partially filled table is returned.
func (g *Generator) Generate(ctx context.Context, listener Listener) (*evtable.Table, error) {
	g.report = nil
	if err := evtable.CheckMemory(g.memoryFraction); err != nil {
		return nil, err
	}
	table := evtable.New()
	if err := table.SeedTerminal(); err != nil {
		return nil, err
	}

	g.completed.Store(0)
	report := &Report{Threads: g.threads, TotalStates: evtable.NumStates}
	tstart := time.Now()

	stopProgress := g.startProgress()
	defer stopProgress()

	for round := scorecard.NumCategories - 1; round >= 0; round-- {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rr, err := g.runRound(ctx, table, round, listener)
		if err != nil {
			return nil, fmt.Errorf("round %d: %w", round, err)
		}
		n, mean, stdev := table.RoundSummary(round)
		rr.States = n
		rr.MeanEV = mean
		rr.StdevEV = stdev
		report.Rounds = append(report.Rounds, *rr)
		log.Info().Int("round", round).
			Int("units", rr.Units).
			Float64("elapsed-sec", rr.ElapsedSeconds).
			Float64("mean-unit-usec", rr.MeanUnitMicros).
			Float64("mean-ev", mean).
			Msg("round-done")
	}

	report.ElapsedSeconds = time.Since(tstart).Seconds()
	report.Checksum = fmt.Sprintf("%016x", table.Checksum())
	report.InitialEV = table.MustGet(scorecard.Empty, 0)
	g.report = report
	log.Info().Float64("elapsed-sec", report.ElapsedSeconds).
		Float64("initial-ev", report.InitialEV).
		Str("checksum", report.Checksum).
		Msg("generation-done")
	return table, nil
}

func (g *Generator) runRound(ctx context.Context, table *evtable.Table, round int, listener Listener) (*RoundReport, error) {
	cards := g.ectx.Catalog.ScorecardsOfSize(round)
	rr := &RoundReport{Round: round, Units: len(cards) * scoring.NumBuckets}
	rstart := time.Now()

	eg, gctx := errgroup.WithContext(ctx)
	units := make(chan unit, 1024)
	timings := make([]stats.Statistic, g.threads)

	eg.Go(func() error {
		defer close(units)
		for _, c := range cards {
			for b := 0; b < scoring.NumBuckets; b++ {
				select {
				case units <- unit{c, b}:
				case <-gctx.Done():
					return gctx.Err()
				}
			}
		}
		return nil
	})

	for t := 0; t < g.threads; t++ {
		eg.Go(func() error {
			ev := evaluator.New(g.ectx, table)
			for u := range units {
				start := time.Now()
				v, err := ev.Evaluate(u.card, u.bucket)
				if err != nil {
					return err
				}
				if err := table.Set(u.card, u.bucket, v); err != nil {
					return err
				}
				elapsed := time.Since(start)
				timings[t].Push(float64(elapsed.Microseconds()))
				g.completed.Add(1)
				if listener != nil {
					listener.OnUnitDone(elapsed)
				}
			}
			return nil
		})
	}

	// The barrier: nothing from the next round may start until every
	// state of this one is in the table.
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	var all stats.Statistic
	for i := range timings {
		all.Merge(&timings[i])
	}
	rr.ElapsedSeconds = time.Since(rstart).Seconds()
	rr.MeanUnitMicros = all.Mean()
	rr.StdevUnitMicros = all.Stdev()
	rr.StderrUnitMicros = all.StandardError()
	rr.MaxUnitMicros = all.Max()
	return rr, nil
}

// startProgress logs the cumulative count on a ticker until the returned
// func is called.
func (g *Generator) startProgress() func() {
	if g.progressInterval <= 0 {
		return func() {}
	}
	ticker := time.NewTicker(g.progressInterval)
	done := make(chan struct{})
	stopped := make(chan struct{})
	tstart := time.Now()
	go func() {
		defer close(stopped)
		for {
			select {
			case <-ticker.C:
				n := g.completed.Load()
				secs := time.Since(tstart).Seconds()
				log.Info().Uint64("completed", n).
					Int("total", evtable.NumStates).
					Float64("pct", 100*float64(n)/float64(evtable.NumStates)).
					Float64("states-per-sec", float64(n)/secs).
					Msg("progress")
			case <-done:
				return
			}
		}
	}()
	return func() {
		ticker.Stop()
		close(done)
		<-stopped
	}
}
