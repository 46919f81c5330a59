package scorecard

import (
	"errors"
	"fmt"
	"strings"
)

// Category is one of the fifteen boxes on the scorecard. The numeric value
// doubles as the category's bit position in a Scorecard and its character
// position in the exported bitstring.
type Category uint8

const (
	Ones Category = iota
	Twos
	Threes
	Fours
	Fives
	Sixes
	OnePair
	TwoPairs
	ThreeOfAKind
	FourOfAKind
	SmallStraight
	LargeStraight
	FullHouse
	Chance
	Yahtzee

	NumCategories = 15
)

var ErrUnknownCategory = errors.New("unknown category")

var categoryNames = [NumCategories]string{
	"Ones", "Twos", "Threes", "Fours", "Fives", "Sixes",
	"One Pair", "Two Pairs", "Three of a Kind", "Four of a Kind",
	"Small Straight", "Large Straight", "Full House", "Chance", "Yahtzee",
}

func (c Category) String() string {
	if !c.Valid() {
		return fmt.Sprintf("Category(%d)", uint8(c))
	}
	return categoryNames[c]
}

// IsUpper reports whether scoring c counts toward the upper-section bonus.
func (c Category) IsUpper() bool {
	return c <= Sixes
}

// Face is the die face an upper category counts.
func (c Category) Face() int {
	return int(c) + 1
}

func (c Category) Valid() bool {
	return c < NumCategories
}

// AllCategories lists the categories in scorecard order.
func AllCategories() []Category {
	cats := make([]Category, NumCategories)
	for i := range cats {
		cats[i] = Category(i)
	}
	return cats
}

func normalizeName(s string) string {
	r := strings.NewReplacer(" ", "", "_", "", "-", "")
	return strings.ToLower(r.Replace(s))
}

// ParseCategory accepts a category name in any case, with or without
// separators ("full house", "FULL_HOUSE" and "fullhouse" all work).
func ParseCategory(s string) (Category, error) {
	n := normalizeName(s)
	for i, name := range categoryNames {
		if normalizeName(name) == n {
			return Category(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}
