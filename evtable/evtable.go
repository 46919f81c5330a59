// Package evtable stores the expected remaining score of every game state.
package evtable

import (
	"encoding/binary"
	"errors"
	"fmt"
	"iter"
	"math"

	"github.com/cespare/xxhash"
	"github.com/pbnjay/memory"
	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/stat"

	"github.com/domino14/yahtzee-ev/scorecard"
	"github.com/domino14/yahtzee-ev/scoring"
)

const (
	bucketBits = 6
	bucketMask = 1<<bucketBits - 1

	// NumStates is the number of (scorecard, bucket) keys.
	NumStates = scorecard.NumScorecards * scoring.NumBuckets

	entrySize = 8
)

var (
	ErrMissingState   = errors.New("missing future state")
	ErrAlreadyWritten = errors.New("state already written")
	ErrBucketRange    = errors.New("upper bucket out of range")
	ErrBadValue       = errors.New("expected value must be a finite non-negative number")
	ErrNotEnoughMem   = errors.New("not enough memory for state table")
)

// unwritten marks a slot nobody has stored to yet. EVs are never NaN.
var unwritten = math.NaN()

// Key identifies one game state.
type Key struct {
	Scorecard scorecard.Scorecard
	Bucket    int
}

func (k Key) String() string {
	return fmt.Sprintf("%s/%d", k.Scorecard, k.Bucket)
}

func (k Key) index() int {
	return int(k.Scorecard)<<bucketBits | k.Bucket
}

func keyAt(idx int) Key {
	return Key{Scorecard: scorecard.Scorecard(idx >> bucketBits), Bucket: idx & bucketMask}
}

// Table is a flat array of EVs indexed by scorecard<<6 | bucket.
//
// Each slot is written exactly once. The table takes no locks: concurrent
// writers must target distinct keys, and a reader may only look at slots
// whose writes happened-before the read (the generator guarantees this by
// finishing a whole round before starting the next).
type Table struct {
	evs []float64
}

// New allocates a table with every slot unwritten.
func New() *Table {
	t := &Table{evs: make([]float64, NumStates)}
	for i := range t.evs {
		t.evs[i] = unwritten
	}
	log.Debug().Int("num-elems", NumStates).
		Int("estimated-total-memory-bytes", NumStates*entrySize).
		Msg("state-table-allocated")
	return t
}

// CheckMemory fails if the table would take more than fraction of the
// system's total memory.
func CheckMemory(fraction float64) error {
	totalMem := memory.TotalMemory()
	need := uint64(NumStates * entrySize)
	log.Debug().Uint64("total-system-memory-bytes", totalMem).
		Uint64("needed-bytes", need).
		Float64("fraction", fraction).
		Msg("state-table-memory-check")
	if totalMem == 0 {
		// unknown platform; let the allocation decide
		return nil
	}
	if float64(need) > fraction*float64(totalMem) {
		return fmt.Errorf("%w: need %d bytes, allowed %.0f of %d",
			ErrNotEnoughMem, need, fraction*float64(totalMem), totalMem)
	}
	return nil
}

func checkBucket(bucket int) error {
	if bucket < 0 || bucket > scoring.MaxBucket {
		return fmt.Errorf("%w: %d", ErrBucketRange, bucket)
	}
	return nil
}

// SeedTerminal stores zero for the full scorecard in every bucket: there
// is nothing left to score.
func (t *Table) SeedTerminal() error {
	for b := 0; b < scoring.NumBuckets; b++ {
		if err := t.Set(scorecard.Full, b, 0); err != nil {
			return err
		}
	}
	return nil
}

// Set stores the EV of a state. Writing a slot twice is an error.
func (t *Table) Set(s scorecard.Scorecard, bucket int, ev float64) error {
	if err := checkBucket(bucket); err != nil {
		return err
	}
	if math.IsNaN(ev) || math.IsInf(ev, 0) || ev < 0 {
		return fmt.Errorf("%w: %v", ErrBadValue, ev)
	}
	k := Key{s, bucket}
	idx := k.index()
	if !math.IsNaN(t.evs[idx]) {
		return fmt.Errorf("%w: %s", ErrAlreadyWritten, k)
	}
	t.evs[idx] = ev
	return nil
}

// Get returns the EV of a state, or ErrMissingState if it was never set.
func (t *Table) Get(s scorecard.Scorecard, bucket int) (float64, error) {
	if err := checkBucket(bucket); err != nil {
		return 0, err
	}
	k := Key{s, bucket}
	ev := t.evs[k.index()]
	if math.IsNaN(ev) {
		return 0, fmt.Errorf("%w: %s", ErrMissingState, k)
	}
	return ev, nil
}

// MustGet is Get for callers that treat a missing state as a bug.
func (t *Table) MustGet(s scorecard.Scorecard, bucket int) float64 {
	ev, err := t.Get(s, bucket)
	if err != nil {
		panic(err)
	}
	return ev
}

// Len is the number of keys the table can hold.
func (t *Table) Len() int {
	return len(t.evs)
}

// Written counts the slots that hold a value.
func (t *Table) Written() int {
	n := 0
	for _, ev := range t.evs {
		if !math.IsNaN(ev) {
			n++
		}
	}
	return n
}

// Complete reports whether every state has been stored.
func (t *Table) Complete() bool {
	return t.Written() == len(t.evs)
}

// All yields every written state in key order.
func (t *Table) All() iter.Seq2[Key, float64] {
	return func(yield func(Key, float64) bool) {
		for idx, ev := range t.evs {
			if math.IsNaN(ev) {
				continue
			}
			if !yield(keyAt(idx), ev) {
				return
			}
		}
	}
}

// Checksum hashes every slot in key order. Two tables with the same
// contents (including which slots are unwritten) have the same checksum.
func (t *Table) Checksum() uint64 {
	h := xxhash.New()
	var buf [entrySize]byte
	for _, ev := range t.evs {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(ev))
		h.Write(buf[:])
	}
	return h.Sum64()
}

// RoundValues returns the written EVs of all states with n marked
// categories, in key order.
func (t *Table) RoundValues(n int) []float64 {
	var vals []float64
	for k, ev := range t.All() {
		if k.Scorecard.Count() == n {
			vals = append(vals, ev)
		}
	}
	return vals
}

// RoundSummary returns the count, mean and standard deviation of the
// written EVs of states with n marks.
func (t *Table) RoundSummary(n int) (count int, mean, stdev float64) {
	vals := t.RoundValues(n)
	if len(vals) == 0 {
		return 0, 0, 0
	}
	if len(vals) == 1 {
		return 1, vals[0], 0
	}
	mean, stdev = stat.MeanStdDev(vals, nil)
	return len(vals), mean, stdev
}
