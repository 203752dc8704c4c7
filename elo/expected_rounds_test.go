/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package elo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpectedRounds(t *testing.T) {
	e, err := NewEngine(DefaultConfig())
	require.NoError(t, err)

	tests := []struct {
		name   string
		a, b   float64
		format string
		want   string
	}{
		{"equal ratings", 1000, 1000, "Best of 5", "Equal"},
		{"equal ratings vendetta", 1250, 1250, "6 round Vendetta", "Equal"},
		{"heavy favorite", 1400, 1000, "Best of 5", "3-0"},
		{"underdog", 1000, 1200, "Best of 5", "1-3"},
		{"all rounds", 1200, 1000, "10 round Speculative", "8-2"},
		{"vendetta decider", 1050, 1000, "6 round Vendetta", "4-3"},
		{"vendetta decider for b", 1000, 1050, "6 round Vendetta", "3-4"},
		{"vendetta clear", 1200, 1000, "6 round Vendetta", "5-1"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			f, err := LookupFormat(test.format)
			require.NoError(t, err)
			got, err := e.ExpectedRounds(test.a, test.b, f)
			require.NoError(t, err)
			assert.Equal(t, test.want, got.String())
		})
	}
}

func TestMapProbabilityToScore_BestOfCollision(t *testing.T) {
	got, err := MapProbabilityToScore(0.52, 0.48, BestOf, 5)
	require.NoError(t, err)
	assert.Equal(t, ExpectedRounds{A: 3, B: 2}, got)

	got, err = MapProbabilityToScore(0.48, 0.52, BestOf, 5)
	require.NoError(t, err)
	assert.Equal(t, ExpectedRounds{A: 2, B: 3}, got)
}

func TestMapProbabilityToScore_HalfSplits(t *testing.T) {
	tests := []struct {
		name      string
		kind      Kind
		maxRounds int
		want      ExpectedRounds
	}{
		{"all rounds", AllRounds, 10, ExpectedRounds{A: 8, B: 2}},
		{"vendetta", Vendetta, 7, ExpectedRounds{A: 4, B: 2}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := MapProbabilityToScore(0.75, 0.25, test.kind, test.maxRounds)
			require.NoError(t, err)
			assert.Equal(t, test.want, got)
			played := test.maxRounds
			if test.kind == Vendetta {
				played--
			}
			assert.LessOrEqual(t, got.A+got.B, played)
		})
	}
}

func TestMapProbabilityToScore_Errors(t *testing.T) {
	_, err := MapProbabilityToScore(0.6, 0.4, BestOf, 0)
	assert.ErrorIs(t, err, ErrInvalidRounds)

	_, err = MapProbabilityToScore(0.6, 0.4, Kind(-1), 5)
	assert.ErrorIs(t, err, ErrUnknownFormat)
}
