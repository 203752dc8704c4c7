/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package elo

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// Prediction holds the probability of each match result as a fraction.
type Prediction struct {
	WinA float64
	WinB float64
	Draw float64
}

// PredictWinProbabilities treats each round as an independent trial won by A
// with the single round expectancy and returns the chance that each side
// takes a majority of rounds. With an even number of rounds neither side may
// reach a majority; that remainder is the draw probability. With an odd
// number of rounds a draw is impossible and WinB is exactly 1-WinA.
func PredictWinProbabilities(ratingA, ratingB float64, rounds int,
	scale float64) (Prediction, error) {

	if rounds < 1 {
		return Prediction{}, fmt.Errorf("%w: %d", ErrInvalidRounds, rounds)
	}
	pA, pB := ExpectedScore(ratingA, ratingB, scale)
	threshold := float64(winsRequired(rounds) - 1)

	winA := majorityChance(rounds, pA, threshold)
	if rounds%2 == 1 {
		return Prediction{WinA: winA, WinB: 1 - winA}, nil
	}

	winB := majorityChance(rounds, pB, threshold)
	draw := 1 - winA - winB
	if draw < 0 {
		draw = 0
	}
	return Prediction{WinA: winA, WinB: winB, Draw: draw}, nil
}

// majorityChance is P(X > threshold) for X ~ Binomial(rounds, p).
func majorityChance(rounds int, p, threshold float64) float64 {
	b := distuv.Binomial{N: float64(rounds), P: p}
	return 1 - b.CDF(threshold)
}

func (e *Engine) Predict(ratingA, ratingB float64, rounds int) (Prediction, error) {
	return PredictWinProbabilities(ratingA, ratingB, rounds, e.cfg.Scale)
}

// Percent converts a probability to a percentage rounded to one decimal.
func Percent(p float64) float64 {
	return math.Round(p*1000) / 10
}

// Percentages returns WinA, WinB and Draw as display percentages.
func (p Prediction) Percentages() (winA, winB, draw float64) {
	return Percent(p.WinA), Percent(p.WinB), Percent(p.Draw)
}
