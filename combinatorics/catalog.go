// Package combinatorics precomputes every dice outcome, keep choice and
// scorecard the generator iterates over, so that nothing is enumerated
// more than once per run.
package combinatorics

import (
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat/combin"

	"github.com/domino14/yahtzee-ev/dice"
	"github.com/domino14/yahtzee-ev/scorecard"
)

const (
	// NumRolls is the number of distinct five-dice outcomes.
	NumRolls = 252
	// NumKeepers is the number of distinct hands of zero to five dice.
	NumKeepers = 462
)

// Catalog is built once and is read-only afterwards; it is safe to share
// between goroutines.
//
// Rolls (five-dice hands) and keepers (hands of any size, including the
// empty and the full hand) each get a dense integer ID so that per-hand
// values can live in flat slices.
type Catalog struct {
	rolls   []dice.Dice
	keepers []dice.Dice

	rollIDs   map[dice.Dice]int
	keeperIDs map[dice.Dice]int

	// keepersOf[rollID] are the keeper IDs of every distinct subset of the roll.
	keepersOf [][]int
	// rollsFrom[keeperID] are the roll IDs of every roll containing the keeper.
	rollsFrom [][]int

	scorecards [scorecard.NumCategories + 1][]scorecard.Scorecard
}

func NewCatalog() *Catalog {
	c := &Catalog{
		rollIDs:   make(map[dice.Dice]int, NumRolls),
		keeperIDs: make(map[dice.Dice]int, NumKeepers),
	}
	c.rolls = dice.Enumerate(dice.MaxDice)
	for i, r := range c.rolls {
		c.rollIDs[r] = i
	}
	for n := 0; n <= dice.MaxDice; n++ {
		for _, k := range dice.Enumerate(n) {
			c.keeperIDs[k] = len(c.keepers)
			c.keepers = append(c.keepers, k)
		}
	}

	c.keepersOf = make([][]int, len(c.rolls))
	for i, r := range c.rolls {
		c.keepersOf[i] = lo.Map(keepSubsets(r), func(k dice.Dice, _ int) int {
			return c.keeperIDs[k]
		})
	}

	c.rollsFrom = make([][]int, len(c.keepers))
	for i, k := range c.keepers {
		c.rollsFrom[i] = lo.Map(reachableRolls(k), func(r dice.Dice, _ int) int {
			return c.rollIDs[r]
		})
	}

	for n := 0; n <= scorecard.NumCategories; n++ {
		c.scorecards[n] = scorecardsOfSize(n)
	}

	log.Debug().
		Int("rolls", len(c.rolls)).
		Int("keepers", len(c.keepers)).
		Int("keep-choices", lo.SumBy(c.keepersOf, func(ks []int) int { return len(ks) })).
		Msg("built-combinatorics-catalog")
	return c
}

// keepSubsets returns the distinct sub-hands of roll, including the empty
// hand and roll itself. Subsets that differ only in which of several equal
// dice were kept collapse into one.
func keepSubsets(roll dice.Dice) []dice.Dice {
	n := roll.Size()
	subsets := make([]dice.Dice, 0, 1<<n)
	for mask := 0; mask < 1<<n; mask++ {
		subsets = append(subsets, roll.Mask(mask))
	}
	return lo.Uniq(subsets)
}

// reachableRolls returns every five-dice roll that contains keepers, by
// rolling every possible hand of the remaining dice.
func reachableRolls(keepers dice.Dice) []dice.Dice {
	return lo.Map(dice.Enumerate(dice.MaxDice-keepers.Size()), func(rest dice.Dice, _ int) dice.Dice {
		return rest.Add(keepers)
	})
}

// scorecardsOfSize returns every scorecard with exactly n marked categories.
func scorecardsOfSize(n int) []scorecard.Scorecard {
	if n == 0 {
		return []scorecard.Scorecard{scorecard.Empty}
	}
	return lo.Map(combin.Combinations(scorecard.NumCategories, n), func(idxs []int, _ int) scorecard.Scorecard {
		var s scorecard.Scorecard
		for _, i := range idxs {
			s = s.Mark(scorecard.Category(i))
		}
		return s
	})
}

// Rolls returns all five-dice outcomes indexed by roll ID.
func (c *Catalog) Rolls() []dice.Dice {
	return c.rolls
}

// Keepers returns every hand of zero to five dice indexed by keeper ID.
func (c *Catalog) Keepers() []dice.Dice {
	return c.keepers
}

func (c *Catalog) Roll(id int) dice.Dice {
	return c.rolls[id]
}

func (c *Catalog) Keeper(id int) dice.Dice {
	return c.keepers[id]
}

// RollID returns the ID of a five-dice hand.
func (c *Catalog) RollID(d dice.Dice) (int, bool) {
	id, ok := c.rollIDs[d]
	return id, ok
}

// KeeperID returns the ID of a hand of up to five dice.
func (c *Catalog) KeeperID(d dice.Dice) (int, bool) {
	id, ok := c.keeperIDs[d]
	return id, ok
}

// KeepersOf lists the keeper IDs a player may hold after rolling rollID.
func (c *Catalog) KeepersOf(rollID int) []int {
	return c.keepersOf[rollID]
}

// RollsFrom lists the roll IDs that can follow holding keeperID.
func (c *Catalog) RollsFrom(keeperID int) []int {
	return c.rollsFrom[keeperID]
}

// ScorecardsOfSize returns every scorecard with n marked categories.
func (c *Catalog) ScorecardsOfSize(n int) []scorecard.Scorecard {
	if n < 0 || n > scorecard.NumCategories {
		return nil
	}
	return c.scorecards[n]
}

// Binomial is the expected number of scorecards with n marks.
func Binomial(n int) int {
	return combin.Binomial(scorecard.NumCategories, n)
}
