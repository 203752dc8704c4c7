/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package elo

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Score is the number of rounds won by each side of a match. Components are
// usually whole numbers but the bonus adjustment and averaged historical
// results produce fractional ones.
type Score struct {
	A float64
	B float64
}

func NewScore(a, b int) Score {
	return Score{A: float64(a), B: float64(b)}
}

func (s Score) Total() float64 {
	return s.A + s.B
}

func (s Score) Swap() Score {
	return Score{A: s.B, B: s.A}
}

// Validate reports ErrInvalidScore for negative or non-finite components and
// ErrDegenerateScore when no rounds were played.
func (s Score) Validate() error {
	for _, v := range []float64{s.A, s.B} {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %v", ErrInvalidScore, s)
		}
	}
	if s.Total() == 0 {
		return fmt.Errorf("%w: %v", ErrDegenerateScore, s)
	}
	return nil
}

// Fraction returns the share of rounds won by each side. sB is derived from
// sA so the pair always sums to one.
func (s Score) Fraction() (sA, sB float64, err error) {
	if err := s.Validate(); err != nil {
		return 0, 0, err
	}
	sA = s.A / s.Total()
	return sA, 1 - sA, nil
}

func (s Score) String() string {
	return fmt.Sprintf("%v-%v", strconv.FormatFloat(s.A, 'f', -1, 64),
		strconv.FormatFloat(s.B, 'f', -1, 64))
}

// ParseScore parses "3-1" (or "3:1") into a Score.
func ParseScore(s string) (Score, error) {
	sep := strings.IndexAny(s, "-:")
	if sep <= 0 || sep == len(s)-1 {
		return Score{}, fmt.Errorf("%w: cannot parse %q", ErrInvalidScore, s)
	}
	a, err := strconv.ParseFloat(strings.TrimSpace(s[:sep]), 64)
	if err != nil {
		return Score{}, fmt.Errorf("%w: cannot parse %q: %v", ErrInvalidScore, s, err)
	}
	b, err := strconv.ParseFloat(strings.TrimSpace(s[sep+1:]), 64)
	if err != nil {
		return Score{}, fmt.Errorf("%w: cannot parse %q: %v", ErrInvalidScore, s, err)
	}
	ret := Score{A: a, B: b}
	if err := ret.Validate(); err != nil {
		return Score{}, err
	}
	return ret, nil
}
