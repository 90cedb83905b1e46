package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/groblegark/trellis/internal/model"
)

const contentColumns = `id, title, description, type, body, status, version,
	is_active, language, tags, notes, published_at, published_by, created_by,
	created_at, updated_at`

func queryCreateContent(ctx context.Context, db executor, c *model.Content) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO contents (
			id, title, description, type, body, status, version, is_active,
			language, tags, notes, published_at, published_by, created_by,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		c.ID, c.Title, nullString(c.Description), string(c.Type),
		jsonbBytes(c.Body), string(c.Status), nullString(c.Version),
		c.IsActive, c.Language, jsonbStrings(c.Tags), nullString(c.Notes),
		nullTimePtr(c.PublishedAt), nullString(c.PublishedBy), nullString(c.CreatedBy),
		c.CreatedAt, c.UpdatedAt,
	)
	return err
}

func queryGetContent(ctx context.Context, db executor, id string) (*model.Content, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+contentColumns+` FROM contents WHERE id = $1`, id)
	c, err := scanContent(row)
	if err != nil {
		return nil, notFound(err)
	}
	return c, nil
}

func queryListContent(ctx context.Context, db executor, filter model.ContentFilter) ([]*model.Content, error) {
	var conds []string
	var args []any
	nextArg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Type != "" {
		conds = append(conds, "type = "+nextArg(string(filter.Type)))
	}
	if filter.Status != "" {
		conds = append(conds, "status = "+nextArg(string(filter.Status)))
	}
	if filter.Language != "" {
		conds = append(conds, "language = "+nextArg(filter.Language))
	}
	if filter.IsActive != nil {
		conds = append(conds, "is_active = "+nextArg(*filter.IsActive))
	}

	query := `SELECT ` + contentColumns + ` FROM contents`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC"

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list content: %w", err)
	}
	defer rows.Close()
	return scanContents(rows)
}

// queryGetActiveContent returns the most recently updated published entry for
// a content type and language. The public site reads through this path only.
func queryGetActiveContent(ctx context.Context, db executor, contentType model.ContentType, language string) (*model.Content, error) {
	row := db.QueryRowContext(ctx, `
		SELECT `+contentColumns+` FROM contents
		WHERE type = $1 AND status = 'published' AND is_active = TRUE AND language = $2
		ORDER BY updated_at DESC
		LIMIT 1`, string(contentType), language)
	c, err := scanContent(row)
	if err != nil {
		return nil, notFound(err)
	}
	return c, nil
}

func queryUpdateContent(ctx context.Context, db executor, c *model.Content) error {
	return mustAffect(db.ExecContext(ctx, `
		UPDATE contents SET
			title = $2,
			description = $3,
			type = $4,
			body = $5,
			status = $6,
			version = $7,
			is_active = $8,
			language = $9,
			tags = $10,
			notes = $11,
			published_at = $12,
			published_by = $13,
			updated_at = NOW()
		WHERE id = $1`,
		c.ID, c.Title, nullString(c.Description), string(c.Type),
		jsonbBytes(c.Body), string(c.Status), nullString(c.Version),
		c.IsActive, c.Language, jsonbStrings(c.Tags), nullString(c.Notes),
		nullTimePtr(c.PublishedAt), nullString(c.PublishedBy),
	))
}

func queryDeleteContent(ctx context.Context, db executor, id string) error {
	return mustAffect(db.ExecContext(ctx, `DELETE FROM contents WHERE id = $1`, id))
}

func queryGetContentStats(ctx context.Context, db executor) (*model.ContentStats, error) {
	stats := &model.ContentStats{
		ByType:   make(map[string]int),
		ByStatus: make(map[string]int),
	}

	rows, err := db.QueryContext(ctx,
		`SELECT type, status, COUNT(*) FROM contents GROUP BY type, status`)
	if err != nil {
		return nil, fmt.Errorf("content stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var contentType, status string
		var count int
		if err := rows.Scan(&contentType, &status, &count); err != nil {
			return nil, fmt.Errorf("scan content stats: %w", err)
		}
		stats.Total += count
		stats.ByType[contentType] += count
		stats.ByStatus[status] += count
	}
	return stats, rows.Err()
}
