package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/groblegark/trellis/internal/model"
)

const bugColumns = `id, title, description, steps_to_reproduce, expected_behavior,
	actual_behavior, severity, status, browser, operating_system, screenshot_url,
	tags, project_id, page_url, reported_by, assigned_to, resolution, resolved_at,
	created_at, updated_at`

func queryCreateBugReport(ctx context.Context, db executor, b *model.BugReport) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO bug_reports (
			id, title, description, steps_to_reproduce, expected_behavior,
			actual_behavior, severity, status, browser, operating_system,
			screenshot_url, tags, project_id, page_url, reported_by,
			assigned_to, resolution, resolved_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`,
		b.ID, b.Title, b.Description,
		nullString(b.StepsToReproduce), nullString(b.ExpectedBehavior),
		nullString(b.ActualBehavior), string(b.Severity), string(b.Status),
		nullString(b.Browser), nullString(b.OperatingSystem),
		nullString(b.ScreenshotURL), jsonbStrings(b.Tags),
		nullString(b.ProjectID), nullString(b.PageURL),
		nullString(b.ReportedBy), nullString(b.AssignedTo),
		nullString(b.Resolution), nullTimePtr(b.ResolvedAt),
		b.CreatedAt, b.UpdatedAt,
	)
	return err
}

func queryGetBugReport(ctx context.Context, db executor, id string) (*model.BugReport, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+bugColumns+` FROM bug_reports WHERE id = $1`, id)
	b, err := scanBugReport(row)
	if err != nil {
		return nil, notFound(err)
	}
	return b, nil
}

func queryListBugReports(ctx context.Context, db executor, filter model.BugReportFilter) ([]*model.BugReport, error) {
	var conds []string
	var args []any
	nextArg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Status != "" {
		conds = append(conds, "status = "+nextArg(string(filter.Status)))
	}
	if filter.Severity != "" {
		conds = append(conds, "severity = "+nextArg(string(filter.Severity)))
	}
	if filter.ProjectID != "" {
		conds = append(conds, "project_id = "+nextArg(filter.ProjectID))
	}

	query := `SELECT ` + bugColumns + ` FROM bug_reports`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC"

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list bug reports: %w", err)
	}
	defer rows.Close()
	return scanBugReports(rows)
}

func queryUpdateBugReport(ctx context.Context, db executor, b *model.BugReport) error {
	return mustAffect(db.ExecContext(ctx, `
		UPDATE bug_reports SET
			title = $2,
			description = $3,
			steps_to_reproduce = $4,
			expected_behavior = $5,
			actual_behavior = $6,
			severity = $7,
			status = $8,
			browser = $9,
			operating_system = $10,
			screenshot_url = $11,
			tags = $12,
			project_id = $13,
			page_url = $14,
			assigned_to = $15,
			resolution = $16,
			resolved_at = $17,
			updated_at = NOW()
		WHERE id = $1`,
		b.ID, b.Title, b.Description,
		nullString(b.StepsToReproduce), nullString(b.ExpectedBehavior),
		nullString(b.ActualBehavior), string(b.Severity), string(b.Status),
		nullString(b.Browser), nullString(b.OperatingSystem),
		nullString(b.ScreenshotURL), jsonbStrings(b.Tags),
		nullString(b.ProjectID), nullString(b.PageURL),
		nullString(b.AssignedTo), nullString(b.Resolution), nullTimePtr(b.ResolvedAt),
	))
}

func queryDeleteBugReport(ctx context.Context, db executor, id string) error {
	return mustAffect(db.ExecContext(ctx, `DELETE FROM bug_reports WHERE id = $1`, id))
}

func queryGetBugReportStats(ctx context.Context, db executor) (*model.BugReportStats, error) {
	stats := &model.BugReportStats{
		ByStatus:   make(map[string]int),
		BySeverity: make(map[string]int),
	}

	rows, err := db.QueryContext(ctx,
		`SELECT status, severity, COUNT(*) FROM bug_reports GROUP BY status, severity`)
	if err != nil {
		return nil, fmt.Errorf("bug report stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var status, severity string
		var count int
		if err := rows.Scan(&status, &severity, &count); err != nil {
			return nil, fmt.Errorf("scan bug report stats: %w", err)
		}
		stats.Total += count
		stats.ByStatus[status] += count
		stats.BySeverity[severity] += count
	}
	return stats, rows.Err()
}
