/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package elo

import "math"

// UpdateRatings moves both ratings k times the gap between the actual share
// of rounds won and the expected share. New ratings are rounded half away
// from zero, which keeps the two changes equal and opposite for whole
// number inputs.
func UpdateRatings(ratingA, ratingB float64, score Score, k,
	scale float64) (newA, newB float64, err error) {

	sA, sB, err := score.Fraction()
	if err != nil {
		return 0, 0, err
	}
	pA, pB := ExpectedScore(ratingA, ratingB, scale)

	newA = math.Round(ratingA + k*(sA-pA))
	newB = math.Round(ratingB + k*(sB-pB))
	return newA, newB, nil
}

// Update applies a plain rating update with the engine's default K-factor.
func (e *Engine) Update(ratingA, ratingB float64, score Score) (newA, newB float64,
	err error) {

	return UpdateRatings(ratingA, ratingB, score, e.cfg.KFactor, e.cfg.Scale)
}

// Deltas returns the signed rating change of each side for a plain update.
func (e *Engine) Deltas(ratingA, ratingB float64, score Score) (int, int, error) {
	newA, newB, err := e.Update(ratingA, ratingB, score)
	if err != nil {
		return 0, 0, err
	}
	return delta(ratingA, newA), delta(ratingB, newB), nil
}

func delta(before, after float64) int {
	return int(math.Round(after - before))
}

// Outcome is the result of a supermatch: the bonus adjusted score and the
// ratings it produced.
type Outcome struct {
	NewA     float64
	NewB     float64
	DeltaA   int
	DeltaB   int
	Adjusted Score
}

// Supermatch applies the margin-of-victory bonus to score and then updates
// both ratings with step k. A non-positive k selects the engine default.
func (e *Engine) Supermatch(ratingA, ratingB float64, score Score,
	k float64) (Outcome, error) {

	if k <= 0 {
		k = e.cfg.KFactor
	}
	adjusted, err := e.Bonus(ratingA, ratingB, score)
	if err != nil {
		return Outcome{}, err
	}
	newA, newB, err := UpdateRatings(ratingA, ratingB, adjusted, k, e.cfg.Scale)
	if err != nil {
		return Outcome{}, err
	}

	return Outcome{
		NewA:     newA,
		NewB:     newB,
		DeltaA:   delta(ratingA, newA),
		DeltaB:   delta(ratingB, newB),
		Adjusted: adjusted,
	}, nil
}

// SupermatchFormat runs Supermatch with the K-factor of the given format.
func (e *Engine) SupermatchFormat(ratingA, ratingB float64, score Score,
	f Format) (Outcome, error) {

	return e.Supermatch(ratingA, ratingB, score, e.kFor(f))
}
