package evaluator

import (
	"errors"
	"math"
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/yahtzee-ev/evtable"
	"github.com/domino14/yahtzee-ev/scorecard"
	"github.com/domino14/yahtzee-ev/scoring"
	"github.com/domino14/yahtzee-ev/testhelpers"
)

const epsilon = 1e-9

var testContext = NewContext()

func fuzzyEqual(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

// lastRoundTable returns a table holding the terminal state and every
// state with exactly one open category.
func lastRoundTable(t *testing.T) *evtable.Table {
	is := is.New(t)
	tbl := evtable.New()
	is.NoErr(tbl.SeedTerminal())
	ev := New(testContext, tbl)
	for _, s := range testContext.Catalog.ScorecardsOfSize(scorecard.NumCategories - 1) {
		for b := 0; b < scoring.NumBuckets; b++ {
			v, err := ev.Evaluate(s, b)
			is.NoErr(err)
			is.NoErr(tbl.Set(s, b, v))
		}
	}
	return tbl
}

func TestFullScorecardIsWorthNothing(t *testing.T) {
	is := is.New(t)
	ev := New(testContext, evtable.New())
	v, err := ev.Evaluate(scorecard.Full, 17)
	is.NoErr(err)
	is.Equal(v, 0.0)
}

func TestMissingFutureState(t *testing.T) {
	is := is.New(t)
	tbl := evtable.New()
	is.NoErr(tbl.SeedTerminal())
	ev := New(testContext, tbl)
	// two open categories need the one-open states, which are not there yet
	_, err := ev.Evaluate(testhelpers.OnlyOpen(scorecard.Chance, scorecard.Yahtzee), 0)
	is.True(errors.Is(err, evtable.ErrMissingState))
}

func TestLastRoundValues(t *testing.T) {
	is := is.New(t)
	tbl := lastRoundTable(t)

	type tc struct {
		open   scorecard.Category
		bucket int
		ev     float64
	}
	cases := []tc{
		// Each die independently reaches its best face in three rolls:
		// holding 4s and up gives 14/3 per die.
		{scorecard.Chance, 63, 70.0 / 3},
		{scorecard.Chance, 0, 70.0 / 3},
		// 5 * (1 - (5/6)^3) sixes on average.
		{scorecard.Sixes, 0, 12.638888888889},
		{scorecard.Sixes, 60, 59.393615312945},
		{scorecard.Yahtzee, 0, 3.157512612230},
		{scorecard.LargeStraight, 0, 3.936581593879},
	}
	for _, c := range cases {
		got := tbl.MustGet(testhelpers.OnlyOpen(c.open), c.bucket)
		if !fuzzyEqual(got, c.ev) {
			t.Errorf("EV(only %v open, bucket %d) = %.12f, want %.12f", c.open, c.bucket, got, c.ev)
		}
	}
	is.Equal(tbl.Written(), (scorecard.NumCategories+1)*scoring.NumBuckets)
}

func TestBonusCountedOnce(t *testing.T) {
	is := is.New(t)
	tbl := lastRoundTable(t)
	// At 62 any single one crosses the threshold. Paying the bonus once
	// gives 50 * P(at least one 1) + E[ones score]; paying it twice would
	// put this near 95.
	got := tbl.MustGet(testhelpers.OnlyOpen(scorecard.Ones), 62)
	is.True(fuzzyEqual(got, 48.861207905538))

	// Already at the threshold the bonus is gone: only the face value is left.
	got = tbl.MustGet(testhelpers.OnlyOpen(scorecard.Ones), 63)
	is.True(fuzzyEqual(got, 5*(1-125.0/216)))
}

func TestTwoOpenCategories(t *testing.T) {
	is := is.New(t)
	tbl := lastRoundTable(t)
	ev := New(testContext, tbl)
	got, err := ev.Evaluate(testhelpers.OnlyOpen(scorecard.Chance, scorecard.Yahtzee), 0)
	is.NoErr(err)
	is.True(fuzzyEqual(got, 28.521189475046))
}

func TestEvaluatorIsRepeatable(t *testing.T) {
	is := is.New(t)
	tbl := lastRoundTable(t)
	ev := New(testContext, tbl)
	s := testhelpers.OnlyOpen(scorecard.Fours, scorecard.FullHouse)
	a, err := ev.Evaluate(s, 10)
	is.NoErr(err)
	// scratch buffers are reused; a different state in between must not leak
	_, err = ev.Evaluate(testhelpers.OnlyOpen(scorecard.Ones, scorecard.Twos), 0)
	is.NoErr(err)
	b, err := ev.Evaluate(s, 10)
	is.NoErr(err)
	is.Equal(a, b)
}
