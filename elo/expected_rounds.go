/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package elo

import (
	"fmt"
	"math"
)

// ExpectedRounds is a speculative score line for display, e.g. "3-1".
type ExpectedRounds struct {
	A     int
	B     int
	Equal bool
}

func (r ExpectedRounds) String() string {
	if r.Equal {
		return "Equal"
	}
	return fmt.Sprintf("%d-%d", r.A, r.B)
}

// MapProbabilityToScore scales a pair of round win probabilities into the
// round budget of a format. BestOf puts the favored side exactly on the
// winning threshold and scales the other side by the same factor; Vendetta
// and AllRounds scale both sides by the rounds played. Exactly equal
// probabilities produce the Equal sentinel.
func MapProbabilityToScore(pA, pB float64, kind Kind,
	maxRounds int) (ExpectedRounds, error) {

	if maxRounds < 1 {
		return ExpectedRounds{}, fmt.Errorf("%w: %d", ErrInvalidRounds, maxRounds)
	}
	switch kind {
	case BestOf, AllRounds, Vendetta:
	default:
		return ExpectedRounds{}, fmt.Errorf("%w: %v", ErrUnknownFormat, kind)
	}
	if pA == pB {
		return ExpectedRounds{Equal: true}, nil
	}

	var a, b int
	switch kind {
	case AllRounds:
		// a tie is a legitimate all-rounds result, so collisions stand
		a = roundInt(pA * float64(maxRounds))
		b = roundInt(pB * float64(maxRounds))
	case BestOf:
		wins := winsRequired(maxRounds)
		if pA > pB {
			a = wins
			b = roundInt(pB * float64(wins) / pA)
			if a == b {
				b--
			}
		} else {
			b = wins
			a = roundInt(pA * float64(wins) / pB)
			if a == b {
				a--
			}
		}
	case Vendetta:
		played := float64(maxRounds - 1)
		a = roundInt(pA * played)
		b = roundInt(pB * played)
		if a == b {
			if pA > pB {
				a++
			} else {
				b++
			}
		}
	}

	return ExpectedRounds{A: a, B: b}, nil
}

// roundInt rounds half to even so that an exact .5 split cannot push both
// sides up past the round budget.
func roundInt(v float64) int {
	return int(math.RoundToEven(v))
}

// ExpectedRounds predicts the display score of a match between two ratings
// in format f.
func (e *Engine) ExpectedRounds(ratingA, ratingB float64,
	f Format) (ExpectedRounds, error) {

	pA, pB := e.Expected(ratingA, ratingB)
	return MapProbabilityToScore(pA, pB, f.Kind, f.Rounds)
}
