/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package ranking

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/mikeb26/armelo/elo"
)

const DefaultClosestLimit = 15

type Service struct {
	store  Store
	engine *elo.Engine
	log    *logrus.Entry
}

func NewService(store Store, engine *elo.Engine, log *logrus.Entry) *Service {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Service{
		store:  store,
		engine: engine,
		log:    log.WithField("component", "ranking"),
	}
}

func (s *Service) Engine() *elo.Engine {
	return s.engine
}

func (s *Service) Leaderboard(ctx context.Context, arm Arm) ([]Standing, error) {
	standings, err := s.store.Standings(ctx, arm)
	if err != nil {
		return nil, fmt.Errorf("loading %v arm standings: %w", arm, err)
	}
	return standings, nil
}

// pair fetches two distinct competitors concurrently.
func (s *Service) pair(ctx context.Context, nameA,
	nameB string) (*Competitor, *Competitor, error) {

	nameA, nameB = strings.TrimSpace(nameA), strings.TrimSpace(nameB)
	if nameA == "" || nameB == "" {
		return nil, nil, ErrInvalidName
	}
	if nameA == nameB {
		return nil, nil, fmt.Errorf("%w: %v", ErrSameCompetitor, nameA)
	}

	var a, b *Competitor
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c, err := s.store.Competitor(ctx, nameA)
		if err != nil {
			return fmt.Errorf("loading %v: %w", nameA, err)
		}
		a = c
		return nil
	})
	g.Go(func() error {
		c, err := s.store.Competitor(ctx, nameB)
		if err != nil {
			return fmt.Errorf("loading %v: %w", nameB, err)
		}
		b = c
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	return a, b, nil
}

// Matchup is a pairing from ClosestMatches.
type Matchup struct {
	A          Standing
	B          Standing
	Gap        float64
	Prediction elo.Prediction
}

// ClosestMatches lists the pairings with the smallest rating gap on an arm,
// each with a prediction over the given number of rounds.
func (s *Service) ClosestMatches(ctx context.Context, arm Arm, limit,
	rounds int) ([]Matchup, error) {

	if limit <= 0 {
		limit = DefaultClosestLimit
	}
	standings, err := s.Leaderboard(ctx, arm)
	if err != nil {
		return nil, err
	}

	var matchups []Matchup
	for i := range standings {
		for j := range standings {
			a, b := standings[i], standings[j]
			if a.Name >= b.Name {
				continue
			}
			matchups = append(matchups, Matchup{
				A:   a,
				B:   b,
				Gap: math.Abs(a.Rating - b.Rating),
			})
		}
	}
	sort.Slice(matchups, func(i, j int) bool {
		if matchups[i].Gap != matchups[j].Gap {
			return matchups[i].Gap < matchups[j].Gap
		}
		if matchups[i].A.Name != matchups[j].A.Name {
			return matchups[i].A.Name < matchups[j].A.Name
		}
		return matchups[i].B.Name < matchups[j].B.Name
	})
	if len(matchups) > limit {
		matchups = matchups[:limit]
	}

	for i := range matchups {
		m := &matchups[i]
		m.Prediction, err = s.engine.Predict(m.A.Rating, m.B.Rating, rounds)
		if err != nil {
			return nil, err
		}
	}

	return matchups, nil
}

type Forecast struct {
	Arm        Arm
	NameA      string
	NameB      string
	RatingA    float64
	RatingB    float64
	Format     elo.Format
	Expected   elo.ExpectedRounds
	Prediction elo.Prediction
}

// Forecast predicts a supermatch between two ranked competitors.
func (s *Service) Forecast(ctx context.Context, arm Arm, nameA, nameB string,
	f elo.Format) (*Forecast, error) {

	if err := f.Validate(); err != nil {
		return nil, err
	}
	a, b, err := s.pair(ctx, nameA, nameB)
	if err != nil {
		return nil, err
	}

	ret := &Forecast{
		Arm:     arm,
		NameA:   a.Name,
		NameB:   b.Name,
		RatingA: a.Rating(arm),
		RatingB: b.Rating(arm),
		Format:  f,
	}
	ret.Expected, err = s.engine.ExpectedRounds(ret.RatingA, ret.RatingB, f)
	if err != nil {
		return nil, err
	}
	ret.Prediction, err = s.engine.Predict(ret.RatingA, ret.RatingB, f.Rounds)
	if err != nil {
		return nil, err
	}

	return ret, nil
}

// Preview is the would-be result of a supermatch that has not been recorded.
type Preview struct {
	RatingA float64
	RatingB float64
	Score   elo.Score
	Outcome elo.Outcome
}

func (s *Service) Preview(ctx context.Context, arm Arm, nameA, nameB string,
	f elo.Format, score elo.Score) (*Preview, error) {

	if err := f.Validate(); err != nil {
		return nil, err
	}
	a, b, err := s.pair(ctx, nameA, nameB)
	if err != nil {
		return nil, err
	}

	out, err := s.engine.SupermatchFormat(a.Rating(arm), b.Rating(arm), score, f)
	if err != nil {
		return nil, err
	}

	return &Preview{
		RatingA: a.Rating(arm),
		RatingB: b.Rating(arm),
		Score:   score,
		Outcome: out,
	}, nil
}

// Submit records a supermatch and updates both ratings.
func (s *Service) Submit(ctx context.Context, arm Arm, nameA, nameB string,
	f elo.Format, score elo.Score) (*MatchRecord, error) {

	if err := f.Validate(); err != nil {
		return nil, err
	}
	if err := score.Validate(); err != nil {
		return nil, err
	}
	nameA, nameB = strings.TrimSpace(nameA), strings.TrimSpace(nameB)
	if nameA == "" || nameB == "" {
		return nil, ErrInvalidName
	}
	if nameA == nameB {
		return nil, fmt.Errorf("%w: %v", ErrSameCompetitor, nameA)
	}

	rec, err := s.store.ApplyMatch(ctx, arm, nameA, nameB,
		func(st MatchState) (MatchRecord, float64, float64, error) {
			out, err := s.engine.SupermatchFormat(st.RatingA, st.RatingB, score, f)
			if err != nil {
				return MatchRecord{}, 0, 0, err
			}
			rec := MatchRecord{
				NameA:  nameA,
				NameB:  nameB,
				Arm:    arm,
				Format: f.Name,
				RankA:  st.RankA,
				RankB:  st.RankB,
			}
			scoreRecord(&rec, score, out)
			return rec, out.NewA, out.NewB, nil
		})
	if err != nil {
		return nil, fmt.Errorf("recording %v vs %v: %w", nameA, nameB, err)
	}

	s.log.WithFields(logrus.Fields{
		"arm":     arm.String(),
		"format":  f.Name,
		"score":   score.String(),
		"delta_a": rec.DeltaA,
		"delta_b": rec.DeltaB,
	}).Infof("armelo.submit: %v vs %v recorded", nameA, nameB)

	return rec, nil
}

// Undo reverts the most recent supermatch.
func (s *Service) Undo(ctx context.Context) (*MatchRecord, error) {
	rec, err := s.store.UndoLastMatch(ctx)
	if err != nil {
		return nil, fmt.Errorf("undoing last match: %w", err)
	}
	s.log.WithField("match_id", rec.ID).Infof("armelo.undo: %v vs %v reverted",
		rec.NameA, rec.NameB)
	return rec, nil
}

// ImpliedRating infers the rating of an unranked competitor from a score
// against a ranked one. score.A belongs to the unranked side.
func (s *Service) ImpliedRating(ctx context.Context, arm Arm, knownName string,
	score elo.Score) (float64, error) {

	known, err := s.store.Competitor(ctx, strings.TrimSpace(knownName))
	if err != nil {
		return 0, fmt.Errorf("loading %v: %w", knownName, err)
	}
	return s.engine.Infer(known.Rating(arm), score)
}

// Reference is one calibration result of a newcomer against a ranked
// opponent; Score.A is the newcomer's rounds.
type Reference struct {
	Opponent string
	Score    elo.Score
}

// Calibrate folds the rating implied by each reference into a running
// average. References that do not determine a rating are skipped.
func (s *Service) Calibrate(ctx context.Context, arm Arm,
	refs []Reference) (Calibration, error) {

	var cal Calibration
	for _, ref := range refs {
		implied, err := s.ImpliedRating(ctx, arm, ref.Opponent, ref.Score)
		if errors.Is(err, elo.ErrIndeterminateInference) {
			s.log.WithField("opponent", ref.Opponent).
				Debugf("armelo.calibrate: skipping %v", ref.Score)
			continue
		}
		if err != nil {
			return Calibration{}, err
		}
		cal.Add(implied)
	}
	return cal, nil
}

func (s *Service) AddCompetitor(ctx context.Context, name string, right,
	left float64) error {

	name = strings.TrimSpace(name)
	if name == "" {
		return ErrInvalidName
	}
	if !(right > 0) || !(left > 0) {
		return fmt.Errorf("%w: right %v left %v", ErrInvalidRating, right, left)
	}

	err := s.store.AddCompetitor(ctx, Competitor{
		Name:        name,
		RightRating: math.Round(right),
		LeftRating:  math.Round(left),
	})
	if err != nil {
		return fmt.Errorf("adding %v: %w", name, err)
	}
	s.log.Infof("armelo.add: %v joined (right %v, left %v)", name, right, left)
	return nil
}

func (s *Service) RemoveCompetitor(ctx context.Context, name string) error {
	if err := s.store.RemoveCompetitor(ctx, strings.TrimSpace(name)); err != nil {
		return fmt.Errorf("removing %v: %w", name, err)
	}
	s.log.Infof("armelo.remove: %v removed", name)
	return nil
}

// History returns up to limit records, newest first, optionally restricted to
// matches recorded at or after since. The store applies limit before the
// since filter, so Store.History must return the newest records first.
func (s *Service) History(ctx context.Context, limit int,
	since time.Time) ([]MatchRecord, error) {

	recs, err := s.store.History(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("loading history: %w", err)
	}
	if since.IsZero() {
		return recs, nil
	}

	filtered := recs[:0]
	for _, r := range recs {
		if !r.CreatedAt.Before(since) {
			filtered = append(filtered, r)
		}
	}
	return filtered, nil
}
