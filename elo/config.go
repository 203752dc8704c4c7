/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */

// Package elo implements the armelo rating model: logistic win expectancy,
// score driven rating updates with a margin-of-victory bonus, rating
// inference from a single result, the mapping between slider values and
// round scores for each supermatch format, and binomial outcome prediction.
//
// Everything in this package is a pure computation over its arguments. An
// Engine only carries tuning constants and may be shared freely between
// goroutines.
package elo

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrDegenerateScore        = errors.New("score has no rounds played")
	ErrInvalidScore           = errors.New("score is negative or not finite")
	ErrIndeterminateInference = errors.New("a clean sweep does not determine a rating")
	ErrUnknownFormat          = errors.New("unknown match format")
	ErrInvalidRounds          = errors.New("round count must be at least 1")
	ErrInvalidConfig          = errors.New("invalid rating configuration")
)

const (
	DefaultScale        = 400.0
	DefaultKFactor      = 30.0
	DefaultBonusDivisor = 3.0
)

// Config holds the tunable constants of the rating model.
type Config struct {
	// Scale is the logistic contrast constant. A rating gap of Scale makes
	// the stronger side ten times as likely to win a round.
	Scale float64
	// KFactor is the update step used when a format does not carry its own.
	KFactor float64
	// BonusDivisor damps the margin-of-victory bonus; larger is smaller.
	BonusDivisor float64
}

func DefaultConfig() Config {
	return Config{
		Scale:        DefaultScale,
		KFactor:      DefaultKFactor,
		BonusDivisor: DefaultBonusDivisor,
	}
}

func (c Config) Validate() error {
	check := func(name string, v float64) error {
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			return fmt.Errorf("%w: %v must be positive and finite, got %v",
				ErrInvalidConfig, name, v)
		}
		return nil
	}
	if err := check("scale", c.Scale); err != nil {
		return err
	}
	if err := check("k-factor", c.KFactor); err != nil {
		return err
	}
	return check("bonus divisor", c.BonusDivisor)
}

// Engine binds the rating functions to one Config.
type Engine struct {
	cfg Config
}

func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{cfg: cfg}, nil
}

func (e *Engine) Config() Config {
	return e.cfg
}

// kFor returns the format's K-factor, or the engine default when the format
// does not specify one.
func (e *Engine) kFor(f Format) float64 {
	if f.KFactor > 0 {
		return f.KFactor
	}
	return e.cfg.KFactor
}
