// Package probability gives the chance of rolling a particular hand.
package probability

import (
	"math"

	"github.com/domino14/yahtzee-ev/dice"
)

var factorials = [dice.MaxDice + 1]float64{1, 1, 2, 6, 24, 120}

// Multinomial is the probability that rolling d.Size() fair dice produces
// exactly the hand d: n! / (c1! c2! ... c6!) / 6^n.
func Multinomial(d dice.Dice) float64 {
	n := d.Size()
	p := factorials[n]
	for _, c := range d {
		p /= factorials[c]
	}
	return p / math.Pow(dice.NumFaces, float64(n))
}

// Table memoizes Multinomial for a fixed set of hands. It is filled in
// NewTable and never written again, so concurrent reads are safe.
type Table struct {
	probs map[dice.Dice]float64
}

func NewTable(hands []dice.Dice) *Table {
	t := &Table{probs: make(map[dice.Dice]float64, len(hands))}
	for _, h := range hands {
		t.probs[h] = Multinomial(h)
	}
	return t
}

// Probability returns the chance of rolling exactly d with d.Size() dice.
// Hands the table was not built with are computed without being stored.
func (t *Table) Probability(d dice.Dice) float64 {
	if p, ok := t.probs[d]; ok {
		return p
	}
	return Multinomial(d)
}

func (t *Table) Len() int {
	return len(t.probs)
}
