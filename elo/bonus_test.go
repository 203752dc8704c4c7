/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package elo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyBonus(t *testing.T) {
	t.Run("met expectation", func(t *testing.T) {
		adj, err := ApplyBonus(1000, 1000, NewScore(1, 1), DefaultScale, DefaultBonusDivisor)
		require.NoError(t, err)
		assert.Equal(t, NewScore(1, 1), adj)
	})

	t.Run("only the over-performer is boosted", func(t *testing.T) {
		adj, err := ApplyBonus(1000, 1000, NewScore(3, 1), DefaultScale, 3)
		require.NoError(t, err)
		// actual 0.75 against expected 0.5
		assert.InDelta(t, 3*math.Exp(0.5/3), adj.A, 1e-12)
		assert.Equal(t, 1.0, adj.B)
	})

	t.Run("divisor damps the bonus", func(t *testing.T) {
		two, err := ApplyBonus(1000, 1000, NewScore(3, 1), DefaultScale, 2)
		require.NoError(t, err)
		three, err := ApplyBonus(1000, 1000, NewScore(3, 1), DefaultScale, 3)
		require.NoError(t, err)
		assert.Greater(t, two.A, three.A)
	})

	t.Run("underdog upset", func(t *testing.T) {
		adj, err := ApplyBonus(1000, 1400, NewScore(2, 1), DefaultScale, 3)
		require.NoError(t, err)
		pA, _ := ExpectedScore(1000, 1400, DefaultScale)
		want := 2 * math.Exp(((2.0/3.0)/pA-1)/3)
		assert.InDelta(t, want, adj.A, 1e-9)
		assert.Equal(t, 1.0, adj.B)
	})

	t.Run("zero rounds are never inflated", func(t *testing.T) {
		adj, err := ApplyBonus(1000, 1000, NewScore(0, 3), DefaultScale, 3)
		require.NoError(t, err)
		assert.Equal(t, 0.0, adj.A)
		assert.Greater(t, adj.B, 3.0)
	})

	t.Run("degenerate score", func(t *testing.T) {
		_, err := ApplyBonus(1000, 1000, NewScore(0, 0), DefaultScale, 3)
		assert.ErrorIs(t, err, ErrDegenerateScore)
	})
}

func TestBonusMultiplierGuardsZeroExpectation(t *testing.T) {
	assert.Equal(t, 1.0, bonusMultiplier(1, 0, 3))
	assert.Equal(t, 1.0, bonusMultiplier(0.4, 0.5, 3))
	assert.Equal(t, 1.0, bonusMultiplier(0.5, 0.5, 3))
}
