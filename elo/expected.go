/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package elo

import "math"

// ExpectedScore returns the probability that each side wins a single round.
func ExpectedScore(ratingA, ratingB, scale float64) (pA, pB float64) {
	// 1/(1+10^((b-a)/scale))
	exp := math.Pow(10, (ratingB-ratingA)/scale)
	pA = 1.0 / (1.0 + exp)
	return pA, 1 - pA
}

func (e *Engine) Expected(ratingA, ratingB float64) (pA, pB float64) {
	return ExpectedScore(ratingA, ratingB, e.cfg.Scale)
}
