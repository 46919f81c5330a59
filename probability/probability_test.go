package probability

import (
	"math"
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/yahtzee-ev/combinatorics"
	"github.com/domino14/yahtzee-ev/dice"
)

const epsilon = 1e-12

func fuzzyEqual(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

func TestMultinomial(t *testing.T) {
	is := is.New(t)
	is.True(fuzzyEqual(Multinomial(dice.Dice{}), 1))
	is.True(fuzzyEqual(Multinomial(dice.MustNew(4)), 1.0/6))
	is.True(fuzzyEqual(Multinomial(dice.MustNew(1, 2)), 2.0/36))
	is.True(fuzzyEqual(Multinomial(dice.MustNew(3, 3)), 1.0/36))
	is.True(fuzzyEqual(Multinomial(dice.MustNew(6, 6, 6, 6, 6)), 1.0/7776))
	is.True(fuzzyEqual(Multinomial(dice.MustNew(1, 2, 3, 4, 5)), 120.0/7776))
	is.True(fuzzyEqual(Multinomial(dice.MustNew(1, 1, 2, 2, 3)), 30.0/7776))
}

func TestEveryHandSizeSumsToOne(t *testing.T) {
	is := is.New(t)
	for n := 0; n <= dice.MaxDice; n++ {
		sum := 0.0
		for _, d := range dice.Enumerate(n) {
			sum += Multinomial(d)
		}
		is.True(fuzzyEqual(sum, 1))
	}
}

func TestKeeperRemaindersSumToOne(t *testing.T) {
	is := is.New(t)
	cat := combinatorics.NewCatalog()
	tbl := NewTable(cat.Keepers())
	is.Equal(tbl.Len(), combinatorics.NumKeepers)
	for kid, k := range cat.Keepers() {
		sum := 0.0
		for _, rid := range cat.RollsFrom(kid) {
			sum += tbl.Probability(cat.Roll(rid).Sub(k))
		}
		is.True(fuzzyEqual(sum, 1))
	}
}

func TestTableMissFallsBack(t *testing.T) {
	is := is.New(t)
	tbl := NewTable(nil)
	is.Equal(tbl.Len(), 0)
	is.True(fuzzyEqual(tbl.Probability(dice.MustNew(2, 2)), 1.0/36))
	is.Equal(tbl.Len(), 0)
}
