package server

import (
	"context"
	"sort"

	"github.com/groblegark/trellis/internal/model"
	"github.com/groblegark/trellis/internal/store"
)

// mockStore is an in-memory store.Store for handler tests.
type mockStore struct {
	users    map[string]*model.User
	projects map[string]*model.Project
	fields   map[string]*model.FieldDefinition
	records  map[string]*model.Record
	bugs     map[string]*model.BugReport
	contents map[string]*model.Content
	events   []*model.Event

	// listRecordsErr, when non-nil, is returned by ListRecords (for testing
	// validator infrastructure failures).
	listRecordsErr error
}

func newMockStore() *mockStore {
	return &mockStore{
		users:    make(map[string]*model.User),
		projects: make(map[string]*model.Project),
		fields:   make(map[string]*model.FieldDefinition),
		records:  make(map[string]*model.Record),
		bugs:     make(map[string]*model.BugReport),
		contents: make(map[string]*model.Content),
	}
}

// Users

func (m *mockStore) UpsertUser(_ context.Context, user *model.User) error {
	m.users[user.ID] = user
	return nil
}

func (m *mockStore) GetUser(_ context.Context, id string) (*model.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return u, nil
}

func (m *mockStore) ListUsers(_ context.Context) ([]*model.User, error) {
	out := []*model.User{}
	for _, u := range m.users {
		out = append(out, u)
	}
	return out, nil
}

func (m *mockStore) UpdateUser(_ context.Context, user *model.User) error {
	if _, ok := m.users[user.ID]; !ok {
		return store.ErrNotFound
	}
	m.users[user.ID] = user
	return nil
}

func (m *mockStore) DeleteUser(_ context.Context, id string) error {
	if _, ok := m.users[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.users, id)
	return nil
}

func (m *mockStore) GetUserStats(_ context.Context, id string) (*model.UserStats, error) {
	stats := &model.UserStats{}
	for _, p := range m.projects {
		if p.OwnerID == id {
			stats.Projects++
		}
	}
	for _, r := range m.records {
		if r.CreatedBy == id {
			stats.Records++
		}
	}
	for _, b := range m.bugs {
		if b.ReportedBy == id {
			stats.BugReports++
		}
	}
	return stats, nil
}

// Projects

func (m *mockStore) CreateProject(_ context.Context, project *model.Project) error {
	m.projects[project.ID] = project
	return nil
}

func (m *mockStore) GetProject(_ context.Context, id string) (*model.Project, error) {
	p, ok := m.projects[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return p, nil
}

func (m *mockStore) ListProjects(_ context.Context, ownerID string) ([]*model.Project, error) {
	out := []*model.Project{}
	for _, p := range m.projects {
		if p.OwnerID == ownerID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *mockStore) UpdateProject(_ context.Context, project *model.Project) error {
	if _, ok := m.projects[project.ID]; !ok {
		return store.ErrNotFound
	}
	m.projects[project.ID] = project
	return nil
}

func (m *mockStore) DeleteProject(_ context.Context, id string) error {
	if _, ok := m.projects[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.projects, id)
	return nil
}

// Fields

func (m *mockStore) CreateField(_ context.Context, field *model.FieldDefinition) error {
	m.fields[field.ID] = field
	return nil
}

func (m *mockStore) GetField(_ context.Context, id string) (*model.FieldDefinition, error) {
	f, ok := m.fields[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return f, nil
}

func (m *mockStore) ListFields(_ context.Context, projectID string) ([]*model.FieldDefinition, error) {
	if _, ok := m.projects[projectID]; !ok {
		return nil, store.ErrNotFound
	}
	out := []*model.FieldDefinition{}
	for _, f := range m.fields {
		if f.ProjectID == projectID {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (m *mockStore) ListFieldsByType(_ context.Context, projectID string, fieldType model.FieldType) ([]*model.FieldDefinition, error) {
	out := []*model.FieldDefinition{}
	for _, f := range m.fields {
		if f.ProjectID == projectID && f.Type == fieldType {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

func (m *mockStore) UpdateField(_ context.Context, field *model.FieldDefinition) error {
	if _, ok := m.fields[field.ID]; !ok {
		return store.ErrNotFound
	}
	m.fields[field.ID] = field
	return nil
}

func (m *mockStore) DeleteField(_ context.Context, id string) error {
	if _, ok := m.fields[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.fields, id)
	return nil
}

// Records

func (m *mockStore) CreateRecord(_ context.Context, record *model.Record) error {
	m.records[record.ID] = record
	return nil
}

func (m *mockStore) GetRecord(_ context.Context, id string) (*model.Record, error) {
	r, ok := m.records[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return r, nil
}

func (m *mockStore) ListRecords(_ context.Context, projectID string) ([]*model.Record, error) {
	if m.listRecordsErr != nil {
		return nil, m.listRecordsErr
	}
	out := []*model.Record{}
	for _, r := range m.records {
		if r.ProjectID == projectID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *mockStore) UpdateRecord(_ context.Context, record *model.Record) error {
	if _, ok := m.records[record.ID]; !ok {
		return store.ErrNotFound
	}
	m.records[record.ID] = record
	return nil
}

func (m *mockStore) DeleteRecord(_ context.Context, id string) error {
	if _, ok := m.records[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.records, id)
	return nil
}

// Bug reports

func (m *mockStore) CreateBugReport(_ context.Context, report *model.BugReport) error {
	m.bugs[report.ID] = report
	return nil
}

func (m *mockStore) GetBugReport(_ context.Context, id string) (*model.BugReport, error) {
	b, ok := m.bugs[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return b, nil
}

func (m *mockStore) ListBugReports(_ context.Context, filter model.BugReportFilter) ([]*model.BugReport, error) {
	out := []*model.BugReport{}
	for _, b := range m.bugs {
		if filter.Status != "" && b.Status != filter.Status {
			continue
		}
		if filter.Severity != "" && b.Severity != filter.Severity {
			continue
		}
		if filter.ProjectID != "" && b.ProjectID != filter.ProjectID {
			continue
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *mockStore) UpdateBugReport(_ context.Context, report *model.BugReport) error {
	if _, ok := m.bugs[report.ID]; !ok {
		return store.ErrNotFound
	}
	m.bugs[report.ID] = report
	return nil
}

func (m *mockStore) DeleteBugReport(_ context.Context, id string) error {
	if _, ok := m.bugs[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.bugs, id)
	return nil
}

func (m *mockStore) GetBugReportStats(_ context.Context) (*model.BugReportStats, error) {
	stats := &model.BugReportStats{
		ByStatus:   make(map[string]int),
		BySeverity: make(map[string]int),
	}
	for _, b := range m.bugs {
		stats.Total++
		stats.ByStatus[b.Status.String()]++
		stats.BySeverity[b.Severity.String()]++
	}
	return stats, nil
}

// Content

func (m *mockStore) CreateContent(_ context.Context, content *model.Content) error {
	m.contents[content.ID] = content
	return nil
}

func (m *mockStore) GetContent(_ context.Context, id string) (*model.Content, error) {
	c, ok := m.contents[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return c, nil
}

func (m *mockStore) ListContent(_ context.Context, filter model.ContentFilter) ([]*model.Content, error) {
	out := []*model.Content{}
	for _, c := range m.contents {
		if filter.Type != "" && c.Type != filter.Type {
			continue
		}
		if filter.Status != "" && c.Status != filter.Status {
			continue
		}
		if filter.Language != "" && c.Language != filter.Language {
			continue
		}
		if filter.IsActive != nil && c.IsActive != *filter.IsActive {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *mockStore) GetActiveContent(_ context.Context, contentType model.ContentType, language string) (*model.Content, error) {
	var best *model.Content
	for _, c := range m.contents {
		if c.Type != contentType || c.Status != model.ContentPublished || !c.IsActive || c.Language != language {
			continue
		}
		if best == nil || c.UpdatedAt.After(best.UpdatedAt) {
			best = c
		}
	}
	if best == nil {
		return nil, store.ErrNotFound
	}
	return best, nil
}

func (m *mockStore) UpdateContent(_ context.Context, content *model.Content) error {
	if _, ok := m.contents[content.ID]; !ok {
		return store.ErrNotFound
	}
	m.contents[content.ID] = content
	return nil
}

func (m *mockStore) DeleteContent(_ context.Context, id string) error {
	if _, ok := m.contents[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.contents, id)
	return nil
}

func (m *mockStore) GetContentStats(_ context.Context) (*model.ContentStats, error) {
	stats := &model.ContentStats{
		ByType:   make(map[string]int),
		ByStatus: make(map[string]int),
	}
	for _, c := range m.contents {
		stats.Total++
		stats.ByType[c.Type.String()]++
		stats.ByStatus[c.Status.String()]++
	}
	return stats, nil
}

// Events

func (m *mockStore) RecordEvent(_ context.Context, event *model.Event) error {
	event.ID = int64(len(m.events) + 1)
	m.events = append(m.events, event)
	return nil
}

func (m *mockStore) GetEvents(_ context.Context, entityID string) ([]*model.Event, error) {
	out := []*model.Event{}
	for _, e := range m.events {
		if e.EntityID == entityID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *mockStore) RunInTransaction(ctx context.Context, fn func(tx store.Store) error) error {
	return fn(m)
}

func (m *mockStore) Close() error { return nil }
