package combinatorics

import (
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/yahtzee-ev/dice"
	"github.com/domino14/yahtzee-ev/scorecard"
)

var catalog = NewCatalog()

func TestCatalogSizes(t *testing.T) {
	is := is.New(t)
	is.Equal(len(catalog.Rolls()), NumRolls)
	is.Equal(len(catalog.Keepers()), NumKeepers)
	for i, r := range catalog.Rolls() {
		is.Equal(r.Size(), dice.MaxDice)
		id, ok := catalog.RollID(r)
		is.True(ok)
		is.Equal(id, i)
	}
	for i, k := range catalog.Keepers() {
		id, ok := catalog.KeeperID(k)
		is.True(ok)
		is.Equal(id, i)
	}
	_, ok := catalog.RollID(dice.MustNew(1, 2))
	is.True(!ok)
}

func TestKeepersOfDistinctRoll(t *testing.T) {
	is := is.New(t)
	id, _ := catalog.RollID(dice.MustNew(1, 2, 3, 4, 6))
	is.Equal(len(catalog.KeepersOf(id)), 32)
}

func TestKeepersOfRepeatedFaces(t *testing.T) {
	is := is.New(t)
	type tc struct {
		faces []int
		count int
	}
	// The number of distinct keeps is the product of (count+1) over faces.
	cases := []tc{
		{[]int{1, 1, 2, 3, 4}, 24},
		{[]int{2, 2, 3, 3, 3}, 12},
		{[]int{5, 5, 5, 5, 5}, 6},
		{[]int{6, 6, 1, 1, 2}, 18},
	}
	for _, c := range cases {
		id, ok := catalog.RollID(dice.MustNew(c.faces...))
		is.True(ok)
		keeps := catalog.KeepersOf(id)
		is.Equal(len(keeps), c.count)
		uniq := map[int]bool{}
		roll := catalog.Roll(id)
		for _, k := range keeps {
			uniq[k] = true
			is.True(roll.Contains(catalog.Keeper(k)))
		}
		is.Equal(len(uniq), c.count)
	}
}

func TestRollsFrom(t *testing.T) {
	is := is.New(t)
	// Holding n dice leaves C(10-n, 5) possible rolls.
	expected := map[int]int{0: 252, 1: 126, 2: 56, 3: 21, 4: 6, 5: 1}
	for id, k := range catalog.Keepers() {
		rolls := catalog.RollsFrom(id)
		is.Equal(len(rolls), expected[k.Size()])
		for _, r := range rolls {
			is.True(catalog.Roll(r).Contains(k))
		}
	}
}

func TestScorecardsOfSize(t *testing.T) {
	is := is.New(t)
	total := 0
	seen := map[scorecard.Scorecard]bool{}
	for n := 0; n <= scorecard.NumCategories; n++ {
		cards := catalog.ScorecardsOfSize(n)
		is.Equal(len(cards), Binomial(n))
		for _, s := range cards {
			is.Equal(s.Count(), n)
			is.True(!seen[s])
			seen[s] = true
		}
		total += len(cards)
	}
	is.Equal(total, scorecard.NumScorecards)
	is.Equal(catalog.ScorecardsOfSize(0), []scorecard.Scorecard{scorecard.Empty})
	is.Equal(catalog.ScorecardsOfSize(15), []scorecard.Scorecard{scorecard.Full})
	is.Equal(catalog.ScorecardsOfSize(16), nil)
}
