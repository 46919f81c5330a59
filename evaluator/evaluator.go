// Package evaluator computes the expected value of one game state by
// working backwards through the three rolls of a turn.
//
// A turn is a chain of five layers, each mapping per-hand values to
// per-hand values:
//
//	final rolls  -> keeps after roll 2 -> second rolls
//	             -> keeps after roll 1 -> first rolls
//
// Roll layers take the best keep (a max, the player's choice); keep layers
// average over the dice that get rerolled (an expectation). The state's EV
// is the expectation of the first-roll layer over a fresh five-dice roll.
package evaluator

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/domino14/yahtzee-ev/evtable"
	"github.com/domino14/yahtzee-ev/scorecard"
	"github.com/domino14/yahtzee-ev/scoring"
)

// Evaluator holds scratch space for the layers. It is not safe for
// concurrent use; give each worker its own.
type Evaluator struct {
	ctx   *Context
	table *evtable.Table

	final  []float64
	keep   []float64
	second []float64
	first  []float64
}

func New(ctx *Context, table *evtable.Table) *Evaluator {
	nrolls := len(ctx.Catalog.Rolls())
	return &Evaluator{
		ctx:    ctx,
		table:  table,
		final:  make([]float64, nrolls),
		keep:   make([]float64, len(ctx.Catalog.Keepers())),
		second: make([]float64, nrolls),
		first:  make([]float64, nrolls),
	}
}

// Evaluate returns the expected score still to come from state (s, bucket)
// under optimal play. Every state reachable by marking one more category
// must already be in the table.
func (e *Evaluator) Evaluate(s scorecard.Scorecard, bucket int) (float64, error) {
	if s.IsFull() {
		return 0, nil
	}
	if err := finalRollValues(e.ctx, e.table, s, bucket, e.final); err != nil {
		return 0, err
	}
	keepValues(e.ctx, e.final, e.keep)
	rollValues(e.ctx, e.keep, e.second)
	keepValues(e.ctx, e.second, e.keep)
	rollValues(e.ctx, e.keep, e.first)
	return floats.Dot(e.ctx.rollProbs, e.first), nil
}

// finalRollValues fills out[rollID] with the value of ending the turn on
// that roll: the best open category, counting its points, the upper bonus
// if this move earns it, and the EV of the state it leads to.
func finalRollValues(ctx *Context, table *evtable.Table, s scorecard.Scorecard, bucket int, out []float64) error {
	open := s.Unmarked()
	for rid := range out {
		best := math.Inf(-1)
		for _, c := range open {
			points := ctx.scores[c][rid]
			future, err := table.Get(s.Mark(c), scoring.NextBucket(c, points, bucket))
			if err != nil {
				return err
			}
			v := float64(points+scoring.BonusFor(c, points, bucket)) + future
			if v > best {
				best = v
			}
		}
		out[rid] = best
	}
	return nil
}

// keepValues fills out[keeperID] with the expected value of holding the
// keeper and rerolling the rest, given the value of each resulting roll.
func keepValues(ctx *Context, next []float64, out []float64) {
	for kid := range out {
		probs := ctx.remainderProbs[kid]
		ev := 0.0
		for i, rid := range ctx.Catalog.RollsFrom(kid) {
			ev += probs[i] * next[rid]
		}
		out[kid] = ev
	}
}

// rollValues fills out[rollID] with the value of the best keep available
// from that roll.
func rollValues(ctx *Context, keep []float64, out []float64) {
	for rid := range out {
		best := math.Inf(-1)
		for _, kid := range ctx.Catalog.KeepersOf(rid) {
			if keep[kid] > best {
				best = keep[kid]
			}
		}
		out[rid] = best
	}
}
