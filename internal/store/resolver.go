package store

import (
	"context"
	"database/sql"
	"fmt"
)

// ResolveModuleID finds a module id by a case-insensitive substring match on
// the module name. When several modules match, the lowest id wins.
// ok is false when nothing matches.
func (d *DB) ResolveModuleID(ctx context.Context, name string) (id int64, ok bool, err error) {
	return d.resolveID(ctx,
		"SELECT module_id FROM modules WHERE LOWER(module_name) LIKE '%' || LOWER(:name) || '%' ORDER BY module_id LIMIT 1",
		name)
}

// ResolveAssessmentID finds an assessment id by a case-insensitive substring
// match on the assessment name. When several assessments match, the lowest id
// wins. ok is false when nothing matches.
func (d *DB) ResolveAssessmentID(ctx context.Context, name string) (id int64, ok bool, err error) {
	return d.resolveID(ctx,
		"SELECT assessment_id FROM assessments WHERE LOWER(assessment_name) LIKE '%' || LOWER(:name) || '%' ORDER BY assessment_id LIMIT 1",
		name)
}

func (d *DB) resolveID(ctx context.Context, query, name string) (int64, bool, error) {
	conn, err := d.open(ctx)
	if err != nil {
		return 0, false, err
	}
	defer func() { _ = conn.Close() }()

	var id int64
	err = conn.QueryRowContext(ctx, query, sql.Named("name", name)).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("resolve name %q: %w", name, err)
	}
	return id, true, nil
}
