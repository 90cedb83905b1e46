package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/groblegark/trellis/internal/model"
	"github.com/groblegark/trellis/internal/store"
)

// executor is the interface satisfied by both *sql.DB and *sql.Tx.
type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// fieldColumns is the column list used for SELECT statements on project_fields.
const fieldColumns = `id, project_id, title, description, type, data, properties,
	is_required, is_unique, field_order, created_at, updated_at`

// notFound maps the driver's missing-row sentinel to store.ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

// mustAffect converts a zero-row write into store.ErrNotFound.
func mustAffect(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// --- Users ---

func queryUpsertUser(ctx context.Context, db executor, u *model.User) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO users (id, email, name, plan, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			email = EXCLUDED.email,
			name = EXCLUDED.name,
			plan = EXCLUDED.plan`,
		u.ID, u.Email, nullString(u.Name), string(u.Plan), u.CreatedAt,
	)
	return err
}

func queryGetUser(ctx context.Context, db executor, id string) (*model.User, error) {
	row := db.QueryRowContext(ctx,
		`SELECT id, email, name, plan, created_at FROM users WHERE id = $1`, id)
	u, err := scanUser(row)
	if err != nil {
		return nil, notFound(err)
	}
	return u, nil
}

func queryListUsers(ctx context.Context, db executor) ([]*model.User, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, email, name, plan, created_at FROM users ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()
	return scanUsers(rows)
}

func queryUpdateUser(ctx context.Context, db executor, u *model.User) error {
	return mustAffect(db.ExecContext(ctx, `
		UPDATE users SET email = $2, name = $3, plan = $4 WHERE id = $1`,
		u.ID, u.Email, nullString(u.Name), string(u.Plan),
	))
}

func queryDeleteUser(ctx context.Context, db executor, id string) error {
	return mustAffect(db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id))
}

func queryGetUserStats(ctx context.Context, db executor, id string) (*model.UserStats, error) {
	var stats model.UserStats
	err := db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM projects WHERE owner_id = $1),
			(SELECT COUNT(*) FROM project_records WHERE created_by = $1),
			(SELECT COUNT(*) FROM bug_reports WHERE reported_by = $1)`,
		id,
	).Scan(&stats.Projects, &stats.Records, &stats.BugReports)
	if err != nil {
		return nil, fmt.Errorf("user stats: %w", err)
	}
	return &stats, nil
}

// --- Projects ---

func queryCreateProject(ctx context.Context, db executor, p *model.Project) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO projects (id, owner_id, name, description, icon, color, is_public, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		p.ID, p.OwnerID, p.Name, nullString(p.Description),
		nullString(p.Icon), nullString(p.Color), p.IsPublic,
		p.CreatedAt, p.UpdatedAt,
	)
	return err
}

func queryGetProject(ctx context.Context, db executor, id string) (*model.Project, error) {
	row := db.QueryRowContext(ctx, `
		SELECT id, owner_id, name, description, icon, color, is_public, created_at, updated_at
		FROM projects WHERE id = $1`, id)
	p, err := scanProject(row)
	if err != nil {
		return nil, notFound(err)
	}
	return p, nil
}

func queryListProjects(ctx context.Context, db executor, ownerID string) ([]*model.Project, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, owner_id, name, description, icon, color, is_public, created_at, updated_at
		FROM projects WHERE owner_id = $1 ORDER BY created_at DESC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()
	return scanProjects(rows)
}

func queryUpdateProject(ctx context.Context, db executor, p *model.Project) error {
	return mustAffect(db.ExecContext(ctx, `
		UPDATE projects SET
			name = $2,
			description = $3,
			icon = $4,
			color = $5,
			is_public = $6,
			updated_at = NOW()
		WHERE id = $1`,
		p.ID, p.Name, nullString(p.Description),
		nullString(p.Icon), nullString(p.Color), p.IsPublic,
	))
}

func queryDeleteProject(ctx context.Context, db executor, id string) error {
	return mustAffect(db.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id))
}

// --- Field definitions ---

func queryCreateField(ctx context.Context, db executor, f *model.FieldDefinition) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO project_fields (
			id, project_id, title, description, type, data, properties,
			is_required, is_unique, field_order, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		f.ID, f.ProjectID, f.Title, nullString(f.Description), string(f.Type),
		jsonbBytes(f.Data), jsonbBytes(f.Properties),
		f.IsRequired, f.IsUnique, f.Order, f.CreatedAt, f.UpdatedAt,
	)
	return err
}

func queryGetField(ctx context.Context, db executor, id string) (*model.FieldDefinition, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+fieldColumns+` FROM project_fields WHERE id = $1`, id)
	f, err := scanField(row)
	if err != nil {
		return nil, notFound(err)
	}
	return f, nil
}

// queryListFields returns a project's schema ordered by field_order with
// creation time as the tie-break. A missing project is store.ErrNotFound; a
// project with no fields is an empty slice.
func queryListFields(ctx context.Context, db executor, projectID string) ([]*model.FieldDefinition, error) {
	var exists bool
	if err := db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM projects WHERE id = $1)`, projectID,
	).Scan(&exists); err != nil {
		return nil, fmt.Errorf("check project: %w", err)
	}
	if !exists {
		return nil, store.ErrNotFound
	}

	rows, err := db.QueryContext(ctx, `
		SELECT `+fieldColumns+` FROM project_fields
		WHERE project_id = $1
		ORDER BY field_order ASC, created_at ASC`, projectID)
	if err != nil {
		return nil, fmt.Errorf("list fields: %w", err)
	}
	defer rows.Close()
	return scanFields(rows)
}

func queryListFieldsByType(ctx context.Context, db executor, projectID string, fieldType model.FieldType) ([]*model.FieldDefinition, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT `+fieldColumns+` FROM project_fields
		WHERE project_id = $1 AND type = $2
		ORDER BY field_order ASC, created_at ASC`, projectID, string(fieldType))
	if err != nil {
		return nil, fmt.Errorf("list fields by type: %w", err)
	}
	defer rows.Close()
	return scanFields(rows)
}

func queryUpdateField(ctx context.Context, db executor, f *model.FieldDefinition) error {
	return mustAffect(db.ExecContext(ctx, `
		UPDATE project_fields SET
			title = $2,
			description = $3,
			type = $4,
			data = $5,
			properties = $6,
			is_required = $7,
			is_unique = $8,
			field_order = $9,
			updated_at = NOW()
		WHERE id = $1`,
		f.ID, f.Title, nullString(f.Description), string(f.Type),
		jsonbBytes(f.Data), jsonbBytes(f.Properties),
		f.IsRequired, f.IsUnique, f.Order,
	))
}

func queryDeleteField(ctx context.Context, db executor, id string) error {
	return mustAffect(db.ExecContext(ctx, `DELETE FROM project_fields WHERE id = $1`, id))
}

// --- Records ---

func queryCreateRecord(ctx context.Context, db executor, r *model.Record) error {
	data, err := json.Marshal(r.Data)
	if err != nil {
		return fmt.Errorf("marshal record data: %w", err)
	}
	_, err = db.ExecContext(ctx, `
		INSERT INTO project_records (id, project_id, record_data, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		r.ID, r.ProjectID, data, nullString(r.CreatedBy), r.CreatedAt, r.UpdatedAt,
	)
	return err
}

func queryGetRecord(ctx context.Context, db executor, id string) (*model.Record, error) {
	row := db.QueryRowContext(ctx, `
		SELECT id, project_id, record_data, created_by, created_at, updated_at
		FROM project_records WHERE id = $1`, id)
	r, err := scanRecord(row)
	if err != nil {
		return nil, notFound(err)
	}
	return r, nil
}

func queryListRecords(ctx context.Context, db executor, projectID string) ([]*model.Record, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, project_id, record_data, created_by, created_at, updated_at
		FROM project_records WHERE project_id = $1
		ORDER BY created_at DESC`, projectID)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

func queryUpdateRecord(ctx context.Context, db executor, r *model.Record) error {
	data, err := json.Marshal(r.Data)
	if err != nil {
		return fmt.Errorf("marshal record data: %w", err)
	}
	return mustAffect(db.ExecContext(ctx, `
		UPDATE project_records SET record_data = $2, updated_at = NOW() WHERE id = $1`,
		r.ID, data,
	))
}

func queryDeleteRecord(ctx context.Context, db executor, id string) error {
	return mustAffect(db.ExecContext(ctx, `DELETE FROM project_records WHERE id = $1`, id))
}

// --- Events ---

func queryRecordEvent(ctx context.Context, db executor, e *model.Event) error {
	return db.QueryRowContext(ctx, `
		INSERT INTO events (topic, entity_id, actor, payload, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, created_at`,
		e.Topic, e.EntityID, nullString(e.Actor), jsonbBytes(e.Payload),
	).Scan(&e.ID, &e.CreatedAt)
}

func queryGetEvents(ctx context.Context, db executor, entityID string) ([]*model.Event, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, topic, entity_id, actor, payload, created_at
		FROM events WHERE entity_id = $1 ORDER BY created_at ASC`, entityID)
	if err != nil {
		return nil, fmt.Errorf("get events: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}
