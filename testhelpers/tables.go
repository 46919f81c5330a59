package testhelpers

import (
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/yahtzee-ev/config"
	"github.com/domino14/yahtzee-ev/evtable"
	"github.com/domino14/yahtzee-ev/scorecard"
	"github.com/domino14/yahtzee-ev/scoring"
)

var DefaultConfig = config.DefaultConfig()

// Known last-round values: the EV of a scorecard with only that category
// open, in upper bucket 0.
const (
	OnlyChanceEV  = 70.0 / 3
	OnlyYahtzeeEV = 3.157512612230
)

// OnlyOpen returns the scorecard with every category marked except open.
func OnlyOpen(open ...scorecard.Category) scorecard.Scorecard {
	return scorecard.Full &^ scorecard.New(open...)
}

// LastRoundTable returns a small table holding the terminal states plus
// the Chance-only and Yahtzee-only states in every bucket. Neither
// category touches the upper total, so the EV is the same in each bucket.
func LastRoundTable(t testing.TB) *evtable.Table {
	is := is.New(t)
	tbl := evtable.New()
	is.NoErr(tbl.SeedTerminal())
	for b := 0; b < scoring.NumBuckets; b++ {
		is.NoErr(tbl.Set(OnlyOpen(scorecard.Chance), b, OnlyChanceEV))
		is.NoErr(tbl.Set(OnlyOpen(scorecard.Yahtzee), b, OnlyYahtzeeEV))
	}
	return tbl
}
