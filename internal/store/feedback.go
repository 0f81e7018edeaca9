package store

import (
	"context"
	"database/sql"
	"fmt"
)

// RatingStats is the quantitative rating aggregation for one module
type RatingStats struct {
	Count   int64    `json:"count"`
	Average *float64 `json:"average"`
	R1      int64    `json:"r1"`
	R2      int64    `json:"r2"`
	R3      int64    `json:"r3"`
	R4      int64    `json:"r4"`
	R5      int64    `json:"r5"`
}

// ModuleRatingStats aggregates ratings for a module: count, average, and the
// 1..5 distribution.
func (d *DB) ModuleRatingStats(ctx context.Context, moduleID int64) (RatingStats, error) {
	conn, err := d.open(ctx)
	if err != nil {
		return RatingStats{}, err
	}
	defer func() { _ = conn.Close() }()

	var stats RatingStats
	err = conn.QueryRowContext(ctx, `
		SELECT
		  COUNT(rating),
		  AVG(rating),
		  COALESCE(SUM(CASE WHEN rating = 1 THEN 1 ELSE 0 END), 0),
		  COALESCE(SUM(CASE WHEN rating = 2 THEN 1 ELSE 0 END), 0),
		  COALESCE(SUM(CASE WHEN rating = 3 THEN 1 ELSE 0 END), 0),
		  COALESCE(SUM(CASE WHEN rating = 4 THEN 1 ELSE 0 END), 0),
		  COALESCE(SUM(CASE WHEN rating = 5 THEN 1 ELSE 0 END), 0)
		FROM student_module_completions
		WHERE module_id = :module_id AND rating IS NOT NULL`,
		sql.Named("module_id", moduleID)).Scan(
		&stats.Count, &stats.Average,
		&stats.R1, &stats.R2, &stats.R3, &stats.R4, &stats.R5)
	if err != nil {
		return RatingStats{}, fmt.Errorf("aggregate module %d ratings: %w", moduleID, err)
	}
	return stats, nil
}

// ModuleComments returns the non-empty feedback texts for a module
func (d *DB) ModuleComments(ctx context.Context, moduleID int64) ([]string, error) {
	conn, err := d.open(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = conn.Close() }()

	rows, err := conn.QueryContext(ctx, `
		SELECT feedback
		FROM student_module_completions
		WHERE module_id = :module_id AND feedback IS NOT NULL AND TRIM(feedback) <> ''`,
		sql.Named("module_id", moduleID))
	if err != nil {
		return nil, fmt.Errorf("fetch module %d comments: %w", moduleID, err)
	}
	defer func() { _ = rows.Close() }()

	var comments []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("fetch module %d comments: %w", moduleID, err)
	}
	return comments, nil
}

// ModuleName returns the name of a module, or ok=false when it doesn't exist
func (d *DB) ModuleName(ctx context.Context, moduleID int64) (string, bool, error) {
	conn, err := d.open(ctx)
	if err != nil {
		return "", false, err
	}
	defer func() { _ = conn.Close() }()

	var name string
	err = conn.QueryRowContext(ctx,
		"SELECT module_name FROM modules WHERE module_id = :module_id",
		sql.Named("module_id", moduleID)).Scan(&name)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("look up module %d: %w", moduleID, err)
	}
	return name, true, nil
}

// ModuleIDsWithCompletions returns the distinct module ids that have at
// least one completion record, in ascending order.
func (d *DB) ModuleIDsWithCompletions(ctx context.Context) ([]int64, error) {
	conn, err := d.open(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = conn.Close() }()

	rows, err := conn.QueryContext(ctx,
		"SELECT DISTINCT module_id FROM student_module_completions ORDER BY module_id")
	if err != nil {
		return nil, fmt.Errorf("list completed modules: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan module id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list completed modules: %w", err)
	}
	return ids, nil
}
