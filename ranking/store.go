/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */

// Package ranking keeps the left and right arm ladders: it reads ratings
// from a Store, runs them through the elo engine, and records supermatch
// results in an append-only history that can be rolled back one match at a
// time.
package ranking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mikeb26/armelo/elo"
)

var (
	ErrNotFound       = errors.New("competitor not found")
	ErrDuplicate      = errors.New("competitor already exists")
	ErrSameCompetitor = errors.New("a competitor cannot face themselves")
	ErrInvalidName    = errors.New("competitor name is empty")
	ErrInvalidRating  = errors.New("rating must be positive")
	ErrNoHistory      = errors.New("no recorded matches")
)

// Arm selects one of the two independent rating tracks.
type Arm int

const (
	Right Arm = iota
	Left
)

func (a Arm) String() string {
	if a == Left {
		return "left"
	}
	return "right"
}

func ParseArm(s string) (Arm, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "right", "r", "":
		return Right, nil
	case "left", "l":
		return Left, nil
	}
	return Right, fmt.Errorf("unknown arm %q", s)
}

type Competitor struct {
	Name        string
	RightRating float64
	LeftRating  float64
}

func (c Competitor) Rating(arm Arm) float64 {
	if arm == Left {
		return c.LeftRating
	}
	return c.RightRating
}

// Standing is a row of a ladder. Competitors with the same rating share a
// rank and the next distinct rating takes the following rank.
type Standing struct {
	Rank   int
	Name   string
	Rating float64
}

// MatchRecord is one entry of the match history. RatingA and RatingB are
// the ratings before the match so that it can be undone.
type MatchRecord struct {
	ID        int64
	NameA     string
	NameB     string
	Arm       Arm
	Format    string
	RankA     int
	RankB     int
	RatingA   float64
	RatingB   float64
	ScoreA    float64
	ScoreB    float64
	DeltaA    int
	DeltaB    int
	CreatedAt time.Time
}

// MatchState is what a Store hands to an ApplyFunc: current ratings and
// competition ranks of both sides on the chosen arm.
type MatchState struct {
	RatingA float64
	RatingB float64
	RankA   int
	RankB   int
}

// ApplyFunc computes the result of a match from the stored state. The Store
// persists the returned record with rec.RatingA/B taken from state, and
// writes newA and newB as the competitors' ratings.
type ApplyFunc func(state MatchState) (rec MatchRecord, newA, newB float64, err error)

// Store persists competitors and match history. Implementations must run
// ApplyMatch and UndoLastMatch atomically so that concurrent submissions for
// the same competitor cannot interleave.
type Store interface {
	Competitor(ctx context.Context, name string) (*Competitor, error)
	Competitors(ctx context.Context) ([]Competitor, error)
	AddCompetitor(ctx context.Context, c Competitor) error
	RemoveCompetitor(ctx context.Context, name string) error
	Standings(ctx context.Context, arm Arm) ([]Standing, error)
	ApplyMatch(ctx context.Context, arm Arm, nameA, nameB string,
		apply ApplyFunc) (*MatchRecord, error)
	UndoLastMatch(ctx context.Context) (*MatchRecord, error)
	History(ctx context.Context, limit int) ([]MatchRecord, error)
}

// scoreRecord fills the score and delta fields of rec from a supermatch.
func scoreRecord(rec *MatchRecord, score elo.Score, out elo.Outcome) {
	rec.ScoreA = score.A
	rec.ScoreB = score.B
	rec.DeltaA = out.DeltaA
	rec.DeltaB = out.DeltaB
}
