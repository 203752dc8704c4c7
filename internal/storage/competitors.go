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
	"strings"

	"github.com/mikeb26/armelo/ranking"
)

var _ ranking.Store = (*DB)(nil)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// ratingColumn maps an arm to its column. The result is interpolated into
// SQL so it must only ever come from this switch.
func ratingColumn(arm ranking.Arm) string {
	if arm == ranking.Left {
		return "left_elo"
	}
	return "right_elo"
}

func getCompetitor(ctx context.Context, q querier,
	name string) (*ranking.Competitor, error) {

	var c ranking.Competitor
	err := q.QueryRowContext(ctx,
		`SELECT name, right_elo, left_elo FROM armwrestlers WHERE name = ?`,
		name).Scan(&c.Name, &c.RightRating, &c.LeftRating)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %v", ranking.ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get competitor %v: %w", name, err)
	}
	return &c, nil
}

func (db *DB) Competitor(ctx context.Context,
	name string) (*ranking.Competitor, error) {

	return getCompetitor(ctx, db.conn, name)
}

func (db *DB) Competitors(ctx context.Context) ([]ranking.Competitor, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT name, right_elo, left_elo FROM armwrestlers ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list competitors: %w", err)
	}
	defer rows.Close()

	var ret []ranking.Competitor
	for rows.Next() {
		var c ranking.Competitor
		if err := rows.Scan(&c.Name, &c.RightRating, &c.LeftRating); err != nil {
			return nil, fmt.Errorf("failed to scan competitor: %w", err)
		}
		ret = append(ret, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list competitors: %w", err)
	}
	return ret, nil
}

func (db *DB) AddCompetitor(ctx context.Context, c ranking.Competitor) error {
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO armwrestlers (name, right_elo, left_elo) VALUES (?, ?, ?)`,
		c.Name, c.RightRating, c.LeftRating)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %v", ranking.ErrDuplicate, c.Name)
		}
		return fmt.Errorf("failed to add competitor %v: %w", c.Name, err)
	}
	return nil
}

// RemoveCompetitor deletes the competitor. Their match history is kept.
func (db *DB) RemoveCompetitor(ctx context.Context, name string) error {
	res, err := db.conn.ExecContext(ctx,
		`DELETE FROM armwrestlers WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("failed to remove competitor %v: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to remove competitor %v: %w", name, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %v", ranking.ErrNotFound, name)
	}
	return nil
}

// Standings lists the ladder for arm, highest rating first, with dense
// ranks.
func (db *DB) Standings(ctx context.Context,
	arm ranking.Arm) ([]ranking.Standing, error) {

	col := ratingColumn(arm)
	query := fmt.Sprintf(`SELECT DENSE_RANK() OVER (ORDER BY %[1]s DESC),
		name, %[1]s FROM armwrestlers ORDER BY %[1]s DESC, name`, col)
	rows, err := db.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get %v standings: %w", arm, err)
	}
	defer rows.Close()

	var ret []ranking.Standing
	for rows.Next() {
		var s ranking.Standing
		if err := rows.Scan(&s.Rank, &s.Name, &s.Rating); err != nil {
			return nil, fmt.Errorf("failed to scan standing: %w", err)
		}
		ret = append(ret, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to get %v standings: %w", arm, err)
	}
	return ret, nil
}

// competitionRank is the 1224 style rank of name on arm at the time of the
// query.
func competitionRank(ctx context.Context, q querier, arm ranking.Arm,
	name string) (int, error) {

	col := ratingColumn(arm)
	query := fmt.Sprintf(`SELECT rnk FROM (
		SELECT name, RANK() OVER (ORDER BY %s DESC) AS rnk FROM armwrestlers
	) WHERE name = ?`, col)

	var rank int
	err := q.QueryRowContext(ctx, query, name).Scan(&rank)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%w: %v", ranking.ErrNotFound, name)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to rank %v: %w", name, err)
	}
	return rank, nil
}

func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
