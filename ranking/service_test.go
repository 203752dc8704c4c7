/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package ranking

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikeb26/armelo/elo"
)

// memStore is a Store kept in memory for service tests.
type memStore struct {
	mu      sync.Mutex
	comps   map[string]Competitor
	history []MatchRecord
	nextID  int64
	now     time.Time
}

func newMemStore(comps ...Competitor) *memStore {
	m := &memStore{
		comps: make(map[string]Competitor),
		now:   time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	for _, c := range comps {
		m.comps[c.Name] = c
	}
	return m
}

func (m *memStore) Competitor(ctx context.Context, name string) (*Competitor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.comps[name]
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrNotFound, name)
	}
	return &c, nil
}

func (m *memStore) Competitors(ctx context.Context) ([]Competitor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ret []Competitor
	for _, c := range m.comps {
		ret = append(ret, c)
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i].Name < ret[j].Name })
	return ret, nil
}

func (m *memStore) AddCompetitor(ctx context.Context, c Competitor) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.comps[c.Name]; ok {
		return ErrDuplicate
	}
	m.comps[c.Name] = c
	return nil
}

func (m *memStore) RemoveCompetitor(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.comps[name]; !ok {
		return ErrNotFound
	}
	delete(m.comps, name)
	return nil
}

func (m *memStore) standings(arm Arm) []Standing {
	var ret []Standing
	for _, c := range m.comps {
		ret = append(ret, Standing{Name: c.Name, Rating: c.Rating(arm)})
	}
	sort.Slice(ret, func(i, j int) bool {
		if ret[i].Rating != ret[j].Rating {
			return ret[i].Rating > ret[j].Rating
		}
		return ret[i].Name < ret[j].Name
	})
	rank := 0
	for i := range ret {
		if i == 0 || ret[i].Rating != ret[i-1].Rating {
			rank++
		}
		ret[i].Rank = rank
	}
	return ret
}

func (m *memStore) Standings(ctx context.Context, arm Arm) ([]Standing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.standings(arm), nil
}

func (m *memStore) ApplyMatch(ctx context.Context, arm Arm, nameA, nameB string,
	apply ApplyFunc) (*MatchRecord, error) {

	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.comps[nameA]
	if !ok {
		return nil, ErrNotFound
	}
	b, ok := m.comps[nameB]
	if !ok {
		return nil, ErrNotFound
	}
	ranks := map[string]int{}
	for _, s := range m.standings(arm) {
		ranks[s.Name] = s.Rank
	}

	st := MatchState{RatingA: a.Rating(arm), RatingB: b.Rating(arm),
		RankA: ranks[nameA], RankB: ranks[nameB]}
	rec, newA, newB, err := apply(st)
	if err != nil {
		return nil, err
	}
	m.nextID++
	rec.ID = m.nextID
	rec.RatingA, rec.RatingB = st.RatingA, st.RatingB
	rec.CreatedAt = m.now.Add(time.Duration(m.nextID) * time.Hour)
	m.history = append(m.history, rec)

	setRating(&a, arm, newA)
	setRating(&b, arm, newB)
	m.comps[nameA], m.comps[nameB] = a, b
	return &rec, nil
}

func setRating(c *Competitor, arm Arm, r float64) {
	if arm == Left {
		c.LeftRating = r
	} else {
		c.RightRating = r
	}
}

func (m *memStore) UndoLastMatch(ctx context.Context) (*MatchRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.history) == 0 {
		return nil, ErrNoHistory
	}
	rec := m.history[len(m.history)-1]
	m.history = m.history[:len(m.history)-1]
	a, b := m.comps[rec.NameA], m.comps[rec.NameB]
	setRating(&a, rec.Arm, rec.RatingA)
	setRating(&b, rec.Arm, rec.RatingB)
	m.comps[rec.NameA], m.comps[rec.NameB] = a, b
	return &rec, nil
}

func (m *memStore) History(ctx context.Context, limit int) ([]MatchRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ret []MatchRecord
	for i := len(m.history) - 1; i >= 0 && len(ret) < limit; i-- {
		ret = append(ret, m.history[i])
	}
	return ret, nil
}

func newTestService(t *testing.T, comps ...Competitor) (*Service, *memStore,
	*test.Hook) {

	t.Helper()
	engine, err := elo.NewEngine(elo.DefaultConfig())
	require.NoError(t, err)
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	store := newMemStore(comps...)
	return NewService(store, engine, logrus.NewEntry(logger)), store, hook
}

func bestOf5(t *testing.T) elo.Format {
	t.Helper()
	f, err := elo.LookupFormat("Best of 5")
	require.NoError(t, err)
	return f
}

func TestSubmitAndUndo(t *testing.T) {
	ctx := context.Background()
	svc, store, hook := newTestService(t,
		Competitor{Name: "Alex", RightRating: 1000, LeftRating: 900},
		Competitor{Name: "Bo", RightRating: 1000, LeftRating: 1100},
	)

	rec, err := svc.Submit(ctx, Right, "Alex", "Bo", bestOf5(t), elo.NewScore(3, 1))
	require.NoError(t, err)
	assert.Equal(t, 36, rec.DeltaA)
	assert.Equal(t, -36, rec.DeltaB)
	assert.Equal(t, 1000.0, rec.RatingA)
	assert.Equal(t, "Best of 5", rec.Format)
	assert.Equal(t, 1, rec.RankA)
	assert.Equal(t, 1, rec.RankB)
	assert.NotNil(t, hook.LastEntry())

	alex, err := store.Competitor(ctx, "Alex")
	require.NoError(t, err)
	assert.Equal(t, 1036.0, alex.RightRating)
	assert.Equal(t, 900.0, alex.LeftRating, "left arm untouched")

	undone, err := svc.Undo(ctx)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, undone.ID)

	alex, err = store.Competitor(ctx, "Alex")
	require.NoError(t, err)
	bo, err := store.Competitor(ctx, "Bo")
	require.NoError(t, err)
	assert.Equal(t, 1000.0, alex.RightRating)
	assert.Equal(t, 1000.0, bo.RightRating)

	_, err = svc.Undo(ctx)
	assert.ErrorIs(t, err, ErrNoHistory)
}

func TestSubmitRejectsBadInput(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t,
		Competitor{Name: "Alex", RightRating: 1000, LeftRating: 1000})

	_, err := svc.Submit(ctx, Right, "Alex", "Alex", bestOf5(t), elo.NewScore(3, 0))
	assert.ErrorIs(t, err, ErrSameCompetitor)

	_, err = svc.Submit(ctx, Right, "Alex", "Nobody", bestOf5(t), elo.NewScore(3, 0))
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Submit(ctx, Right, "Alex", "Nobody", bestOf5(t), elo.NewScore(0, 0))
	assert.ErrorIs(t, err, elo.ErrDegenerateScore)

	_, err = svc.Submit(ctx, Right, "", "Alex", bestOf5(t), elo.NewScore(1, 0))
	assert.ErrorIs(t, err, ErrInvalidName)
}

func TestPreviewDoesNotWrite(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newTestService(t,
		Competitor{Name: "Alex", RightRating: 1000, LeftRating: 1000},
		Competitor{Name: "Bo", RightRating: 1000, LeftRating: 1000},
	)

	p, err := svc.Preview(ctx, Right, "Alex", "Bo", bestOf5(t), elo.NewScore(3, 1))
	require.NoError(t, err)
	assert.Equal(t, 36, p.Outcome.DeltaA)

	hist, err := store.History(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, hist)
}

func TestForecast(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t,
		Competitor{Name: "Alex", RightRating: 1000, LeftRating: 1400},
		Competitor{Name: "Bo", RightRating: 1000, LeftRating: 1000},
	)

	fc, err := svc.Forecast(ctx, Right, "Alex", "Bo", bestOf5(t))
	require.NoError(t, err)
	assert.True(t, fc.Expected.Equal)
	assert.InDelta(t, fc.Prediction.WinA, fc.Prediction.WinB, 1e-9)

	fc, err = svc.Forecast(ctx, Left, "Alex", "Bo", bestOf5(t))
	require.NoError(t, err)
	assert.Equal(t, "3-0", fc.Expected.String())
	assert.Greater(t, fc.Prediction.WinA, 0.9)

	_, err = svc.Forecast(ctx, Left, "Alex", "Bo", elo.Format{Name: "broken"})
	assert.ErrorIs(t, err, elo.ErrInvalidRounds)
}

func TestClosestMatches(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t,
		Competitor{Name: "A", RightRating: 1000, LeftRating: 1000},
		Competitor{Name: "B", RightRating: 1010, LeftRating: 1000},
		Competitor{Name: "C", RightRating: 1100, LeftRating: 1000},
		Competitor{Name: "D", RightRating: 1500, LeftRating: 1000},
	)

	ms, err := svc.ClosestMatches(ctx, Right, 3, 5)
	require.NoError(t, err)
	require.Len(t, ms, 3)
	got := []string{}
	for _, m := range ms {
		got = append(got, m.A.Name+m.B.Name)
	}
	assert.Equal(t, []string{"AB", "BC", "AC"}, got)
	assert.Equal(t, 10.0, ms[0].Gap)
	assert.Less(t, ms[0].Prediction.WinA, 0.5)

	all, err := svc.ClosestMatches(ctx, Left, 0, 5)
	require.NoError(t, err)
	assert.Len(t, all, 6)
}

func TestCalibrate(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t,
		Competitor{Name: "Known", RightRating: 1000, LeftRating: 1000})

	cal, err := svc.Calibrate(ctx, Right, []Reference{
		{Opponent: "Known", Score: elo.NewScore(3, 1)},
		{Opponent: "Known", Score: elo.NewScore(5, 0)},
		{Opponent: "Known", Score: elo.NewScore(1, 3)},
	})
	require.NoError(t, err)
	assert.Equal(t, Calibration{Rating: 1000, Refs: 2}, cal)

	_, err = svc.Calibrate(ctx, Right, []Reference{
		{Opponent: "Stranger", Score: elo.NewScore(1, 1)},
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAddAndRemoveCompetitor(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newTestService(t)

	require.NoError(t, svc.AddCompetitor(ctx, " Cy ", 1200.4, 1100))
	c, err := store.Competitor(ctx, "Cy")
	require.NoError(t, err)
	assert.Equal(t, 1200.0, c.RightRating)

	assert.ErrorIs(t, svc.AddCompetitor(ctx, "Cy", 1000, 1000), ErrDuplicate)
	assert.ErrorIs(t, svc.AddCompetitor(ctx, "  ", 1000, 1000), ErrInvalidName)
	assert.ErrorIs(t, svc.AddCompetitor(ctx, "Dee", 0, 1000), ErrInvalidRating)

	require.NoError(t, svc.RemoveCompetitor(ctx, "Cy"))
	assert.ErrorIs(t, svc.RemoveCompetitor(ctx, "Cy"), ErrNotFound)
}

func TestHistorySince(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newTestService(t,
		Competitor{Name: "Alex", RightRating: 1000, LeftRating: 1000},
		Competitor{Name: "Bo", RightRating: 1000, LeftRating: 1000},
	)
	for i := 0; i < 3; i++ {
		_, err := svc.Submit(ctx, Right, "Alex", "Bo", bestOf5(t), elo.NewScore(3, 2))
		require.NoError(t, err)
	}

	all, err := svc.History(ctx, 20, time.Time{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, int64(3), all[0].ID)

	recent, err := svc.History(ctx, 20, store.now.Add(2*time.Hour))
	require.NoError(t, err)
	assert.Len(t, recent, 2)

	// the limit keeps the newest matches, so the filter still sees them
	newest, err := svc.History(ctx, 1, store.now.Add(2*time.Hour))
	require.NoError(t, err)
	require.Len(t, newest, 1)
	assert.Equal(t, int64(3), newest[0].ID)
}

func TestParseArm(t *testing.T) {
	arm, err := ParseArm("LEFT")
	require.NoError(t, err)
	assert.Equal(t, Left, arm)
	assert.Equal(t, "left", arm.String())

	arm, err = ParseArm("")
	require.NoError(t, err)
	assert.Equal(t, Right, arm)

	_, err = ParseArm("leg")
	assert.Error(t, err)
}
