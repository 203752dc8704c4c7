/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mikeb26/armelo/ranking"
)

const (
	defaultHistoryLimit = 20

	historyColumns = `id, armwrestler1_name, armwrestler2_name, arm,
		selected_format, armwrestler1_rank, armwrestler2_rank,
		armwrestler1_elo, armwrestler2_elo, armwrestler1_score,
		armwrestler2_score, armwrestler1_elo_diff, armwrestler2_elo_diff,
		created_at`
)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMatch(row rowScanner) (*ranking.MatchRecord, error) {
	var rec ranking.MatchRecord
	var arm string
	var created int64
	err := row.Scan(&rec.ID, &rec.NameA, &rec.NameB, &arm, &rec.Format,
		&rec.RankA, &rec.RankB, &rec.RatingA, &rec.RatingB, &rec.ScoreA,
		&rec.ScoreB, &rec.DeltaA, &rec.DeltaB, &created)
	if err != nil {
		return nil, err
	}
	rec.Arm, err = ranking.ParseArm(arm)
	if err != nil {
		return nil, err
	}
	rec.CreatedAt = time.Unix(created, 0).UTC()
	return &rec, nil
}

func setRating(ctx context.Context, tx *sql.Tx, arm ranking.Arm, name string,
	rating float64) error {

	query := fmt.Sprintf(`UPDATE armwrestlers SET %s = ? WHERE name = ?`,
		ratingColumn(arm))
	if _, err := tx.ExecContext(ctx, query, rating, name); err != nil {
		return fmt.Errorf("failed to update %v: %w", name, err)
	}
	return nil
}

// ApplyMatch reads both competitors, hands their state to apply, and
// writes the resulting ratings plus a history row in one transaction.
func (db *DB) ApplyMatch(ctx context.Context, arm ranking.Arm, nameA,
	nameB string, apply ranking.ApplyFunc) (*ranking.MatchRecord, error) {

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	a, err := getCompetitor(ctx, tx, nameA)
	if err != nil {
		return nil, err
	}
	b, err := getCompetitor(ctx, tx, nameB)
	if err != nil {
		return nil, err
	}
	st := ranking.MatchState{
		RatingA: a.Rating(arm),
		RatingB: b.Rating(arm),
	}
	st.RankA, err = competitionRank(ctx, tx, arm, nameA)
	if err != nil {
		return nil, err
	}
	st.RankB, err = competitionRank(ctx, tx, arm, nameB)
	if err != nil {
		return nil, err
	}

	rec, newA, newB, err := apply(st)
	if err != nil {
		return nil, err
	}
	rec.RatingA, rec.RatingB = st.RatingA, st.RatingB
	rec.Arm = arm
	rec.CreatedAt = db.now().UTC().Truncate(time.Second)

	res, err := tx.ExecContext(ctx, `INSERT INTO history (armwrestler1_name,
		armwrestler2_name, arm, selected_format, armwrestler1_rank,
		armwrestler2_rank, armwrestler1_elo, armwrestler2_elo,
		armwrestler1_score, armwrestler2_score, armwrestler1_elo_diff,
		armwrestler2_elo_diff, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.NameA, rec.NameB, arm.String(), rec.Format, rec.RankA, rec.RankB,
		rec.RatingA, rec.RatingB, rec.ScoreA, rec.ScoreB, rec.DeltaA,
		rec.DeltaB, rec.CreatedAt.Unix())
	if err != nil {
		return nil, fmt.Errorf("failed to record match: %w", err)
	}
	rec.ID, err = res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to record match: %w", err)
	}

	if err := setRating(ctx, tx, arm, nameA, newA); err != nil {
		return nil, err
	}
	if err := setRating(ctx, tx, arm, nameB, newB); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit match: %w", err)
	}
	return &rec, nil
}

// UndoLastMatch restores the pre-match ratings of the newest history row
// and deletes it. A competitor removed since the match is skipped.
func (db *DB) UndoLastMatch(ctx context.Context) (*ranking.MatchRecord, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	rec, err := scanMatch(tx.QueryRowContext(ctx, `SELECT `+historyColumns+`
		FROM history ORDER BY id DESC LIMIT 1`))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ranking.ErrNoHistory
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read last match: %w", err)
	}

	if err := setRating(ctx, tx, rec.Arm, rec.NameA, rec.RatingA); err != nil {
		return nil, err
	}
	if err := setRating(ctx, tx, rec.Arm, rec.NameB, rec.RatingB); err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM history WHERE id = ?`,
		rec.ID); err != nil {
		return nil, fmt.Errorf("failed to delete match %v: %w", rec.ID, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit undo: %w", err)
	}
	return rec, nil
}

// History returns up to limit matches, newest first. limit <= 0 selects the
// default of 20.
func (db *DB) History(ctx context.Context,
	limit int) ([]ranking.MatchRecord, error) {

	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	rows, err := db.conn.QueryContext(ctx, `SELECT `+historyColumns+`
		FROM history ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	defer rows.Close()

	var ret []ranking.MatchRecord
	for rows.Next() {
		rec, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		ret = append(ret, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	return ret, nil
}
