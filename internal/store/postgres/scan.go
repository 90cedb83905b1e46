package postgres

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/groblegark/trellis/internal/model"
)

// scannable is the interface satisfied by both *sql.Row and *sql.Rows.
type scannable interface {
	Scan(dest ...any) error
}

func scanUser(row scannable) (*model.User, error) {
	var u model.User
	var name sql.NullString
	var plan string

	err := row.Scan(&u.ID, &u.Email, &name, &plan, &u.CreatedAt)
	if err != nil {
		return nil, err
	}

	u.Name = name.String
	u.Plan = model.Plan(plan)
	return &u, nil
}

func scanUsers(rows *sql.Rows) ([]*model.User, error) {
	users := []*model.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func scanProject(row scannable) (*model.Project, error) {
	var p model.Project
	var (
		description sql.NullString
		icon        sql.NullString
		color       sql.NullString
	)

	err := row.Scan(
		&p.ID,
		&p.OwnerID,
		&p.Name,
		&description,
		&icon,
		&color,
		&p.IsPublic,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.Description = description.String
	p.Icon = icon.String
	p.Color = color.String
	return &p, nil
}

func scanProjects(rows *sql.Rows) ([]*model.Project, error) {
	projects := []*model.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// scanField scans a single row into a model.FieldDefinition.
// The row must contain columns in the order defined by fieldColumns.
func scanField(row scannable) (*model.FieldDefinition, error) {
	var f model.FieldDefinition
	var (
		description sql.NullString
		fieldType   string
		data        []byte
		properties  []byte
	)

	err := row.Scan(
		&f.ID,
		&f.ProjectID,
		&f.Title,
		&description,
		&fieldType,
		&data,
		&properties,
		&f.IsRequired,
		&f.IsUnique,
		&f.Order,
		&f.CreatedAt,
		&f.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	f.Description = description.String
	f.Type = model.FieldType(fieldType)
	if len(data) > 0 {
		f.Data = json.RawMessage(data)
	}
	if len(properties) > 0 {
		f.Properties = json.RawMessage(properties)
	}
	return &f, nil
}

func scanFields(rows *sql.Rows) ([]*model.FieldDefinition, error) {
	fields := []*model.FieldDefinition{}
	for rows.Next() {
		f, err := scanField(rows)
		if err != nil {
			return nil, fmt.Errorf("scan field: %w", err)
		}
		fields = append(fields, f)
	}
	return fields, rows.Err()
}

func scanRecord(row scannable) (*model.Record, error) {
	var r model.Record
	var (
		data      []byte
		createdBy sql.NullString
	)

	err := row.Scan(
		&r.ID,
		&r.ProjectID,
		&data,
		&createdBy,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(data) > 0 {
		if err := json.Unmarshal(data, &r.Data); err != nil {
			return nil, fmt.Errorf("unmarshal record data: %w", err)
		}
	}
	r.CreatedBy = createdBy.String
	return &r, nil
}

func scanRecords(rows *sql.Rows) ([]*model.Record, error) {
	records := []*model.Record{}
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// scanBugReport scans a single row into a model.BugReport.
// The row must contain columns in the order defined by bugColumns.
func scanBugReport(row scannable) (*model.BugReport, error) {
	var b model.BugReport
	var (
		steps      sql.NullString
		expected   sql.NullString
		actual     sql.NullString
		severity   string
		status     string
		browser    sql.NullString
		os         sql.NullString
		screenshot sql.NullString
		tags       []byte
		projectID  sql.NullString
		pageURL    sql.NullString
		reportedBy sql.NullString
		assignedTo sql.NullString
		resolution sql.NullString
		resolvedAt sql.NullTime
	)

	err := row.Scan(
		&b.ID,
		&b.Title,
		&b.Description,
		&steps,
		&expected,
		&actual,
		&severity,
		&status,
		&browser,
		&os,
		&screenshot,
		&tags,
		&projectID,
		&pageURL,
		&reportedBy,
		&assignedTo,
		&resolution,
		&resolvedAt,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	b.StepsToReproduce = steps.String
	b.ExpectedBehavior = expected.String
	b.ActualBehavior = actual.String
	b.Severity = model.BugSeverity(severity)
	b.Status = model.BugStatus(status)
	b.Browser = browser.String
	b.OperatingSystem = os.String
	b.ScreenshotURL = screenshot.String
	b.ProjectID = projectID.String
	b.PageURL = pageURL.String
	b.ReportedBy = reportedBy.String
	b.AssignedTo = assignedTo.String
	b.Resolution = resolution.String

	if resolvedAt.Valid {
		t := resolvedAt.Time
		b.ResolvedAt = &t
	}
	if len(tags) > 0 {
		if err := json.Unmarshal(tags, &b.Tags); err != nil {
			return nil, fmt.Errorf("unmarshal bug tags: %w", err)
		}
	}
	return &b, nil
}

func scanBugReports(rows *sql.Rows) ([]*model.BugReport, error) {
	reports := []*model.BugReport{}
	for rows.Next() {
		b, err := scanBugReport(rows)
		if err != nil {
			return nil, fmt.Errorf("scan bug report: %w", err)
		}
		reports = append(reports, b)
	}
	return reports, rows.Err()
}

// scanContent scans a single row into a model.Content.
// The row must contain columns in the order defined by contentColumns.
func scanContent(row scannable) (*model.Content, error) {
	var c model.Content
	var (
		description sql.NullString
		contentType string
		body        []byte
		status      string
		version     sql.NullString
		tags        []byte
		notes       sql.NullString
		publishedAt sql.NullTime
		publishedBy sql.NullString
		createdBy   sql.NullString
	)

	err := row.Scan(
		&c.ID,
		&c.Title,
		&description,
		&contentType,
		&body,
		&status,
		&version,
		&c.IsActive,
		&c.Language,
		&tags,
		&notes,
		&publishedAt,
		&publishedBy,
		&createdBy,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	c.Description = description.String
	c.Type = model.ContentType(contentType)
	c.Status = model.ContentStatus(status)
	c.Version = version.String
	c.Notes = notes.String
	c.PublishedBy = publishedBy.String
	c.CreatedBy = createdBy.String

	if len(body) > 0 {
		c.Body = json.RawMessage(body)
	}
	if publishedAt.Valid {
		t := publishedAt.Time
		c.PublishedAt = &t
	}
	if len(tags) > 0 {
		if err := json.Unmarshal(tags, &c.Tags); err != nil {
			return nil, fmt.Errorf("unmarshal content tags: %w", err)
		}
	}
	return &c, nil
}

func scanContents(rows *sql.Rows) ([]*model.Content, error) {
	contents := []*model.Content{}
	for rows.Next() {
		c, err := scanContent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan content: %w", err)
		}
		contents = append(contents, c)
	}
	return contents, rows.Err()
}

func scanEvent(row scannable) (*model.Event, error) {
	var e model.Event
	var (
		actor   sql.NullString
		payload []byte
	)

	err := row.Scan(&e.ID, &e.Topic, &e.EntityID, &actor, &payload, &e.CreatedAt)
	if err != nil {
		return nil, err
	}

	e.Actor = actor.String
	if len(payload) > 0 {
		e.Payload = json.RawMessage(payload)
	}
	return &e, nil
}

func scanEvents(rows *sql.Rows) ([]*model.Event, error) {
	events := []*model.Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// nullTimePtr converts a *time.Time to sql.NullTime; nil is null.
func nullTimePtr(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

// nullString converts a string to sql.NullString; empty string is null.
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// jsonbBytes converts json.RawMessage to a []byte suitable for JSONB columns.
func jsonbBytes(m json.RawMessage) []byte {
	if len(m) == 0 {
		return nil
	}
	return []byte(m)
}

// jsonbStrings marshals a string slice for a JSONB column; nil stays null.
func jsonbStrings(s []string) []byte {
	if len(s) == 0 {
		return nil
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil
	}
	return b
}
