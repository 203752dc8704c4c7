/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package elo

import (
	"math"
	"testing"
)

func TestExpectedScore_EqualRatings(t *testing.T) {
	for _, r := range []float64{-500, 0, 1000, 2750.5} {
		pA, pB := ExpectedScore(r, r, DefaultScale)
		if pA != 0.5 || pB != 0.5 {
			t.Fatalf("ExpectedScore(%v,%v): got (%v,%v) want (0.5,0.5)", r, r, pA, pB)
		}
	}
}

func TestExpectedScore_SumsToOne(t *testing.T) {
	pairs := [][2]float64{{1000, 1200}, {1500, 900}, {0, 3000}, {1234, 1233}}
	for _, scale := range []float64{400, 500} {
		for _, p := range pairs {
			pA, pB := ExpectedScore(p[0], p[1], scale)
			if math.Abs(pA+pB-1) > 1e-12 {
				t.Fatalf("ExpectedScore(%v,%v,%v): %v+%v != 1", p[0], p[1], scale, pA, pB)
			}
			if pA <= 0 || pA >= 1 {
				t.Fatalf("ExpectedScore(%v,%v,%v): pA %v outside (0,1)", p[0], p[1], scale, pA)
			}
		}
	}
}

func TestExpectedScore_ScaleGap(t *testing.T) {
	// a gap of one scale unit is 10:1 odds
	pA, _ := ExpectedScore(1400, 1000, 400)
	want := 10.0 / 11.0
	if math.Abs(pA-want) > 1e-12 {
		t.Fatalf("ExpectedScore(1400,1000): got %v want %v", pA, want)
	}

	flat, _ := ExpectedScore(1400, 1000, 500)
	if !(flat < pA) {
		t.Fatalf("larger scale should flatten the curve; got %v >= %v", flat, pA)
	}
}
