// Package scoring implements the category scoring rules and the upper
// section bookkeeping that decides the 50 point bonus.
package scoring

import (
	"fmt"

	"github.com/domino14/yahtzee-ev/dice"
	"github.com/domino14/yahtzee-ev/scorecard"
)

const (
	// BonusThreshold is the upper section total that earns UpperBonus.
	BonusThreshold = 63
	UpperBonus     = 50

	// MaxBucket is the largest stored upper total. Every total at or
	// above the threshold behaves the same, so they all share it.
	MaxBucket  = BonusThreshold
	NumBuckets = MaxBucket + 1

	SmallStraightScore = 15
	LargeStraightScore = 20
	YahtzeeBase        = 50
)

// Score returns the points roll earns in category c. It panics on a
// category outside the fifteen defined ones.
func Score(c scorecard.Category, roll dice.Dice) int {
	switch c {
	case scorecard.Ones, scorecard.Twos, scorecard.Threes,
		scorecard.Fours, scorecard.Fives, scorecard.Sixes:
		return roll.Count(c.Face()) * c.Face()
	case scorecard.OnePair:
		return onePair(roll)
	case scorecard.TwoPairs:
		return twoPairs(roll)
	case scorecard.ThreeOfAKind:
		return ofAKind(roll, 3)
	case scorecard.FourOfAKind:
		return ofAKind(roll, 4)
	case scorecard.SmallStraight:
		return straight(roll, 1, SmallStraightScore)
	case scorecard.LargeStraight:
		return straight(roll, 2, LargeStraightScore)
	case scorecard.FullHouse:
		return fullHouse(roll)
	case scorecard.Chance:
		return roll.Sum()
	case scorecard.Yahtzee:
		return yahtzee(roll)
	}
	panic(fmt.Sprintf("scoring: unhandled category %d", uint8(c)))
}

func onePair(roll dice.Dice) int {
	for f := dice.NumFaces; f >= 1; f-- {
		if roll.Count(f) >= 2 {
			return f * 2
		}
	}
	return 0
}

func twoPairs(roll dice.Dice) int {
	pairs, score := 0, 0
	for f := 1; f <= dice.NumFaces; f++ {
		if roll.Count(f) >= 2 {
			pairs++
			score += f * 2
		}
	}
	if pairs != 2 {
		return 0
	}
	return score
}

func ofAKind(roll dice.Dice, n int) int {
	for f := 1; f <= dice.NumFaces; f++ {
		if roll.Count(f) >= n {
			return f * n
		}
	}
	return 0
}

// straight scores five consecutive faces starting at low.
func straight(roll dice.Dice, low, points int) int {
	for f := low; f < low+5; f++ {
		if roll.Count(f) < 1 {
			return 0
		}
	}
	return points
}

func fullHouse(roll dice.Dice) int {
	two, three := 0, 0
	for f := 1; f <= dice.NumFaces; f++ {
		switch roll.Count(f) {
		case 2:
			two = f
		case 3:
			three = f
		}
	}
	if two == 0 || three == 0 {
		return 0
	}
	return two*2 + three*3
}

func yahtzee(roll dice.Dice) int {
	for f := 1; f <= dice.NumFaces; f++ {
		if roll.Count(f) == dice.MaxDice {
			return YahtzeeBase + f*dice.MaxDice
		}
	}
	return 0
}

// ClampBucket maps a raw upper section total onto its bucket.
func ClampBucket(raw int) int {
	return min(raw, MaxBucket)
}

// Transition describes marking category c with roll from upper bucket
// bucket: the points written in the box, the upper bonus earned by this
// move (UpperBonus only on the move that crosses the threshold, otherwise
// zero) and the bucket of the resulting state.
func Transition(c scorecard.Category, roll dice.Dice, bucket int) (points, bonus, next int) {
	points = Score(c, roll)
	return points, BonusFor(c, points, bucket), NextBucket(c, points, bucket)
}

// NextBucket is the bucket reached after scoring points in c.
func NextBucket(c scorecard.Category, points, bucket int) int {
	if !c.IsUpper() {
		return bucket
	}
	return ClampBucket(bucket + points)
}

// BonusFor returns UpperBonus if scoring points in c moves the upper total
// from below the threshold to at or above it.
func BonusFor(c scorecard.Category, points, bucket int) int {
	if bucket < BonusThreshold && NextBucket(c, points, bucket) >= BonusThreshold {
		return UpperBonus
	}
	return 0
}
