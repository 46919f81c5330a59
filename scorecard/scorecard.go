// Package scorecard holds the scoring categories and the set of categories
// a player has already used.
package scorecard

import (
	"errors"
	"fmt"
	"math/bits"

	"github.com/samber/lo"
)

// Scorecard is the set of marked categories, one bit per Category. It is a
// value type: Mark returns a new scorecard and never changes the receiver.
type Scorecard uint16

const (
	Empty Scorecard = 0
	Full  Scorecard = 1<<NumCategories - 1

	// NumScorecards is the number of distinct scorecards, empty through full.
	NumScorecards = 1 << NumCategories
)

var ErrBadScorecard = errors.New("bad scorecard string")

// New returns a scorecard with the given categories marked.
func New(marked ...Category) Scorecard {
	var s Scorecard
	for _, c := range marked {
		s = s.Mark(c)
	}
	return s
}

func (s Scorecard) Mark(c Category) Scorecard {
	return s | 1<<c
}

func (s Scorecard) IsMarked(c Category) bool {
	return s&(1<<c) != 0
}

// Count is the number of marked categories.
func (s Scorecard) Count() int {
	return bits.OnesCount16(uint16(s))
}

func (s Scorecard) IsFull() bool {
	return s&Full == Full
}

func (s Scorecard) Marked() []Category {
	return lo.Filter(AllCategories(), func(c Category, _ int) bool {
		return s.IsMarked(c)
	})
}

func (s Scorecard) Unmarked() []Category {
	return lo.Reject(AllCategories(), func(c Category, _ int) bool {
		return s.IsMarked(c)
	})
}

// String renders the scorecard as fifteen '0'/'1' characters, character i
// being category i. This is the key format of exported tables.
func (s Scorecard) String() string {
	b := make([]byte, NumCategories)
	for i := range b {
		if s.IsMarked(Category(i)) {
			b[i] = '1'
		} else {
			b[i] = '0'
		}
	}
	return string(b)
}

// Parse is the inverse of String.
func Parse(str string) (Scorecard, error) {
	if len(str) != NumCategories {
		return 0, fmt.Errorf("%w: want %d characters, got %d", ErrBadScorecard, NumCategories, len(str))
	}
	var s Scorecard
	for i := 0; i < NumCategories; i++ {
		switch str[i] {
		case '1':
			s = s.Mark(Category(i))
		case '0':
		default:
			return 0, fmt.Errorf("%w: %q", ErrBadScorecard, str)
		}
	}
	return s, nil
}
