// Package dice models a hand of up to five six-sided dice as a multiset.
package dice

import (
	"errors"
	"fmt"
	"strings"

	"lukechampine.com/frand"
)

const (
	NumFaces = 6
	MaxDice  = 5
)

var (
	ErrInvalidFace = errors.New("die face out of range")
	ErrTooManyDice = errors.New("too many dice")
)

// Dice holds a count per face value; index 0 is the number of ones.
// Because it is a plain array, two hands compare (and hash, as map keys)
// equal exactly when their face counts match, no matter what order the
// dice were rolled in.
type Dice [NumFaces]uint8

// New builds a hand from face values in any order.
func New(faces ...int) (Dice, error) {
	var d Dice
	if len(faces) > MaxDice {
		return d, fmt.Errorf("%w: %d", ErrTooManyDice, len(faces))
	}
	for _, f := range faces {
		if f < 1 || f > NumFaces {
			return Dice{}, fmt.Errorf("%w: %d", ErrInvalidFace, f)
		}
		d[f-1]++
	}
	return d, nil
}

// MustNew is like New but panics on invalid input.
func MustNew(faces ...int) Dice {
	d, err := New(faces...)
	if err != nil {
		panic(err)
	}
	return d
}

// Count returns how many dice show the given face.
func (d Dice) Count(face int) int {
	return int(d[face-1])
}

func (d Dice) Size() int {
	n := 0
	for _, c := range d {
		n += int(c)
	}
	return n
}

func (d Dice) Sum() int {
	s := 0
	for i, c := range d {
		s += (i + 1) * int(c)
	}
	return s
}

func (d Dice) Add(o Dice) Dice {
	for i, c := range o {
		d[i] += c
	}
	return d
}

// Sub removes o from d. o must be contained in d.
func (d Dice) Sub(o Dice) Dice {
	for i, c := range o {
		if c > d[i] {
			panic("invalid subtraction: " + o.String() + " from " + d.String())
		}
		d[i] -= c
	}
	return d
}

// Contains reports whether o is a sub-multiset of d.
func (d Dice) Contains(o Dice) bool {
	for i, c := range o {
		if c > d[i] {
			return false
		}
	}
	return true
}

// Faces lists the dice in ascending face order.
func (d Dice) Faces() []int {
	faces := make([]int, 0, MaxDice)
	for i, c := range d {
		for j := 0; j < int(c); j++ {
			faces = append(faces, i+1)
		}
	}
	return faces
}

// Mask returns the dice selected by the bits of mask, where bit i refers to
// the i-th die of Faces().
func (d Dice) Mask(mask int) Dice {
	var out Dice
	i := 0
	for face, c := range d {
		for j := 0; j < int(c); j++ {
			if mask&(1<<i) != 0 {
				out[face]++
			}
			i++
		}
	}
	return out
}

func (d Dice) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, f := range d.Faces() {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteByte(byte('0' + f))
	}
	sb.WriteByte(']')
	return sb.String()
}

// Parse reads a hand written as a run of face digits, e.g. "12234".
// Spaces and commas between digits are ignored.
func Parse(s string) (Dice, error) {
	faces := make([]int, 0, MaxDice)
	for _, r := range s {
		switch {
		case r == ' ' || r == ',':
			continue
		case r >= '0' && r <= '9':
			faces = append(faces, int(r-'0'))
		default:
			return Dice{}, fmt.Errorf("%w: %q", ErrInvalidFace, r)
		}
	}
	return New(faces...)
}

// Enumerate returns every distinct hand of exactly n dice, in a stable
// order (ascending count of ones first).
func Enumerate(n int) []Dice {
	if n < 0 || n > MaxDice {
		return nil
	}
	var out []Dice
	var cur Dice
	var rec func(face, left int)
	rec = func(face, left int) {
		if face == NumFaces-1 {
			cur[face] = uint8(left)
			out = append(out, cur)
			return
		}
		for c := 0; c <= left; c++ {
			cur[face] = uint8(c)
			rec(face+1, left-c)
		}
	}
	rec(0, n)
	return out
}

// Roll throws n fair dice.
func Roll(n int) Dice {
	var d Dice
	for i := 0; i < n; i++ {
		d[frand.Intn(NumFaces)]++
	}
	return d
}
