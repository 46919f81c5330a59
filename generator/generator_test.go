package generator

import (
	"bytes"
	"context"
	"errors"
	"math"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matryer/is"

	"github.com/domino14/yahtzee-ev/evaluator"
	"github.com/domino14/yahtzee-ev/evtable"
	"github.com/domino14/yahtzee-ev/scorecard"
	"github.com/domino14/yahtzee-ev/scoring"
	"github.com/domino14/yahtzee-ev/testhelpers"
)

var testContext = evaluator.NewContext()

func testGenerator(threads int) *Generator {
	cfg := *testhelpers.DefaultConfig
	cfg.Threads = threads
	cfg.ProgressInterval = 0
	cfg.MemoryFraction = 1
	return NewGenerator(&cfg, testContext)
}

func seeded(t *testing.T) *evtable.Table {
	is := is.New(t)
	tbl := evtable.New()
	is.NoErr(tbl.SeedTerminal())
	return tbl
}

func TestRoundMatchesSingleThreaded(t *testing.T) {
	is := is.New(t)
	round := scorecard.NumCategories - 1

	single := seeded(t)
	_, err := testGenerator(1).runRound(context.Background(), single, round, nil)
	is.NoErr(err)

	multi := seeded(t)
	var calls atomic.Int64
	g := testGenerator(4)
	rr, err := g.runRound(context.Background(), multi, round,
		ListenerFunc(func(time.Duration) { calls.Add(1) }))
	is.NoErr(err)

	units := scorecard.NumCategories * scoring.NumBuckets
	is.Equal(rr.Units, units)
	is.True(rr.StderrUnitMicros >= 0)
	is.True(rr.StderrUnitMicros <= rr.StdevUnitMicros)
	is.Equal(int(calls.Load()), units)
	is.Equal(g.Completed(), uint64(units))
	is.Equal(multi.Written(), single.Written())
	is.Equal(multi.Checksum(), single.Checksum())

	v, err := multi.Get(testhelpers.OnlyOpen(scorecard.Chance), 0)
	is.NoErr(err)
	is.True(math.Abs(v-testhelpers.OnlyChanceEV) < 1e-9)
}

func TestRoundNeedsPreviousRound(t *testing.T) {
	is := is.New(t)
	// round 13 reads round 14 states, which were never computed
	_, err := testGenerator(2).runRound(context.Background(), seeded(t), scorecard.NumCategories-2, nil)
	is.True(errors.Is(err, evtable.ErrMissingState))
}

func TestGenerateCancelled(t *testing.T) {
	is := is.New(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	g := testGenerator(2)
	// a report from an earlier run must not survive a failed one
	g.report = &Report{Threads: 2}
	tbl, err := g.Generate(ctx, nil)
	is.True(errors.Is(err, context.Canceled))
	is.Equal(tbl, nil)
	is.Equal(g.Report(), nil)
}

func TestGenerateFull(t *testing.T) {
	if testing.Short() {
		t.Skip("full table takes a while")
	}
	is := is.New(t)
	g := testGenerator(4)
	var calls atomic.Int64
	tbl, err := g.Generate(context.Background(),
		ListenerFunc(func(time.Duration) { calls.Add(1) }))
	is.NoErr(err)
	is.True(tbl.Complete())
	is.Equal(tbl.Written(), evtable.NumStates)
	// everything but the seeded terminal states goes through the workers
	is.Equal(int(calls.Load()), evtable.NumStates-scoring.NumBuckets)

	is.True(math.Abs(tbl.MustGet(scorecard.Empty, 0)-256.414214863009) < 1e-6)
	is.True(math.Abs(tbl.MustGet(scorecard.Empty, 63)-219.041269043534) < 1e-6)

	rep := g.Report()
	is.True(rep != nil)
	is.Equal(len(rep.Rounds), scorecard.NumCategories)
	is.Equal(rep.Rounds[len(rep.Rounds)-1].States, scoring.NumBuckets)
	is.Equal(rep.InitialEV, tbl.MustGet(scorecard.Empty, 0))

	var buf bytes.Buffer
	is.NoErr(rep.Write(&buf))
	back, err := ReadReport(&buf)
	is.NoErr(err)
	is.Equal(back.Checksum, rep.Checksum)
	is.Equal(len(back.Rounds), len(rep.Rounds))
}
