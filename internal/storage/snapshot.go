/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"
)

// Snapshot returns a consistent copy of the database file.
func (db *DB) Snapshot(ctx context.Context) ([]byte, error) {
	dir, err := os.MkdirTemp("", "armelo-snapshot")
	if err != nil {
		return nil, fmt.Errorf("failed to create snapshot dir: %w", err)
	}
	defer os.RemoveAll(dir)

	snapPath := filepath.Join(dir, "armelo.db")
	if _, err := db.conn.ExecContext(ctx, `VACUUM INTO ?`, snapPath); err != nil {
		return nil, fmt.Errorf("failed to snapshot database: %w", err)
	}
	data, err := os.ReadFile(snapPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	return data, nil
}

type exportCompetitor struct {
	Name        string  `json:"name"`
	RightRating float64 `json:"right_elo"`
	LeftRating  float64 `json:"left_elo"`
}

type exportMatch struct {
	ID        int64     `json:"id"`
	NameA     string    `json:"armwrestler1_name"`
	NameB     string    `json:"armwrestler2_name"`
	Arm       string    `json:"arm"`
	Format    string    `json:"selected_format"`
	RankA     int       `json:"armwrestler1_rank"`
	RankB     int       `json:"armwrestler2_rank"`
	RatingA   float64   `json:"armwrestler1_elo"`
	RatingB   float64   `json:"armwrestler2_elo"`
	ScoreA    float64   `json:"armwrestler1_score"`
	ScoreB    float64   `json:"armwrestler2_score"`
	DeltaA    int       `json:"armwrestler1_elo_diff"`
	DeltaB    int       `json:"armwrestler2_elo_diff"`
	CreatedAt time.Time `json:"created_at"`
}

type export struct {
	ExportedAt  time.Time          `json:"exported_at"`
	Competitors []exportCompetitor `json:"armwrestlers"`
	History     []exportMatch      `json:"history"`
}

// ExportJSON renders every competitor and the full match history as JSON.
func (db *DB) ExportJSON(ctx context.Context) ([]byte, error) {
	comps, err := db.Competitors(ctx)
	if err != nil {
		return nil, err
	}
	hist, err := db.History(ctx, math.MaxInt32)
	if err != nil {
		return nil, err
	}

	out := export{
		ExportedAt:  db.now().UTC().Truncate(time.Second),
		Competitors: make([]exportCompetitor, 0, len(comps)),
		History:     make([]exportMatch, 0, len(hist)),
	}
	for _, c := range comps {
		out.Competitors = append(out.Competitors, exportCompetitor(c))
	}
	for _, m := range hist {
		out.History = append(out.History, exportMatch{
			ID:        m.ID,
			NameA:     m.NameA,
			NameB:     m.NameB,
			Arm:       m.Arm.String(),
			Format:    m.Format,
			RankA:     m.RankA,
			RankB:     m.RankB,
			RatingA:   m.RatingA,
			RatingB:   m.RatingB,
			ScoreA:    m.ScoreA,
			ScoreB:    m.ScoreB,
			DeltaA:    m.DeltaA,
			DeltaB:    m.DeltaB,
			CreatedAt: m.CreatedAt,
		})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode export: %w", err)
	}
	return data, nil
}
