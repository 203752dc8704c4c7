/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package elo

import "math"

// ApplyBonus inflates the round count of each side that won a larger share of
// rounds than it was expected to. The multiplier is
// exp((actual/expected - 1) / divisor), so a side that merely meets its
// expectation is left untouched.
func ApplyBonus(ratingA, ratingB float64, score Score, scale,
	divisor float64) (Score, error) {

	sA, sB, err := score.Fraction()
	if err != nil {
		return Score{}, err
	}
	pA, pB := ExpectedScore(ratingA, ratingB, scale)

	return Score{
		A: score.A * bonusMultiplier(sA, pA, divisor),
		B: score.B * bonusMultiplier(sB, pB, divisor),
	}, nil
}

func bonusMultiplier(actual, expected, divisor float64) float64 {
	// expected only reaches 0 when 10^(gap/scale) overflows
	if expected <= 0 || actual <= expected {
		return 1
	}
	return math.Exp((actual/expected - 1) / divisor)
}

func (e *Engine) Bonus(ratingA, ratingB float64, score Score) (Score, error) {
	return ApplyBonus(ratingA, ratingB, score, e.cfg.Scale, e.cfg.BonusDivisor)
}
