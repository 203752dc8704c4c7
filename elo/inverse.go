/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package elo

import (
	"fmt"
	"math"
)

// InferRating returns the rating implied by score against an opponent rated
// knownRating. score.A is the rounds won by the competitor being rated and
// score.B the rounds won by the known opponent.
//
// A clean sweep either way places the implied rating at infinity, which is
// reported as ErrIndeterminateInference.
func InferRating(knownRating float64, score Score, scale float64) (float64, error) {
	sA, _, err := score.Fraction()
	if err != nil {
		return 0, err
	}
	if sA == 0 || sA == 1 {
		return 0, fmt.Errorf("%w: %v", ErrIndeterminateInference, score)
	}

	return math.Round(-scale*math.Log10((1-sA)/sA) + knownRating), nil
}

func (e *Engine) Infer(knownRating float64, score Score) (float64, error) {
	return InferRating(knownRating, score, e.cfg.Scale)
}
