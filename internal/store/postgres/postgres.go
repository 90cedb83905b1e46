// Package postgres implements the store.Store interface backed by PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"

	"github.com/groblegark/trellis/internal/model"
	"github.com/groblegark/trellis/internal/store"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// PostgresStore implements store.Store backed by a PostgreSQL database.
type PostgresStore struct {
	db *sql.DB
}

// Compile-time check that PostgresStore implements store.Store.
var _ store.Store = (*PostgresStore)(nil)

// New opens a connection to the PostgreSQL database at the given URL,
// configures the connection pool, and runs any pending migrations.
func New(databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

func runMigrations(db *sql.DB) error {
	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	dbDriver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migration db driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "postgres", dbDriver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}

// Close closes the underlying database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) UpsertUser(ctx context.Context, user *model.User) error {
	return queryUpsertUser(ctx, s.db, user)
}

func (s *PostgresStore) GetUser(ctx context.Context, id string) (*model.User, error) {
	return queryGetUser(ctx, s.db, id)
}

func (s *PostgresStore) ListUsers(ctx context.Context) ([]*model.User, error) {
	return queryListUsers(ctx, s.db)
}

func (s *PostgresStore) UpdateUser(ctx context.Context, user *model.User) error {
	return queryUpdateUser(ctx, s.db, user)
}

func (s *PostgresStore) DeleteUser(ctx context.Context, id string) error {
	return queryDeleteUser(ctx, s.db, id)
}

func (s *PostgresStore) GetUserStats(ctx context.Context, id string) (*model.UserStats, error) {
	return queryGetUserStats(ctx, s.db, id)
}

func (s *PostgresStore) CreateProject(ctx context.Context, project *model.Project) error {
	return queryCreateProject(ctx, s.db, project)
}

func (s *PostgresStore) GetProject(ctx context.Context, id string) (*model.Project, error) {
	return queryGetProject(ctx, s.db, id)
}

func (s *PostgresStore) ListProjects(ctx context.Context, ownerID string) ([]*model.Project, error) {
	return queryListProjects(ctx, s.db, ownerID)
}

func (s *PostgresStore) UpdateProject(ctx context.Context, project *model.Project) error {
	return queryUpdateProject(ctx, s.db, project)
}

func (s *PostgresStore) DeleteProject(ctx context.Context, id string) error {
	return queryDeleteProject(ctx, s.db, id)
}

func (s *PostgresStore) CreateField(ctx context.Context, field *model.FieldDefinition) error {
	return queryCreateField(ctx, s.db, field)
}

func (s *PostgresStore) GetField(ctx context.Context, id string) (*model.FieldDefinition, error) {
	return queryGetField(ctx, s.db, id)
}

func (s *PostgresStore) ListFields(ctx context.Context, projectID string) ([]*model.FieldDefinition, error) {
	return queryListFields(ctx, s.db, projectID)
}

func (s *PostgresStore) ListFieldsByType(ctx context.Context, projectID string, fieldType model.FieldType) ([]*model.FieldDefinition, error) {
	return queryListFieldsByType(ctx, s.db, projectID, fieldType)
}

func (s *PostgresStore) UpdateField(ctx context.Context, field *model.FieldDefinition) error {
	return queryUpdateField(ctx, s.db, field)
}

func (s *PostgresStore) DeleteField(ctx context.Context, id string) error {
	return queryDeleteField(ctx, s.db, id)
}

func (s *PostgresStore) CreateRecord(ctx context.Context, record *model.Record) error {
	return queryCreateRecord(ctx, s.db, record)
}

func (s *PostgresStore) GetRecord(ctx context.Context, id string) (*model.Record, error) {
	return queryGetRecord(ctx, s.db, id)
}

func (s *PostgresStore) ListRecords(ctx context.Context, projectID string) ([]*model.Record, error) {
	return queryListRecords(ctx, s.db, projectID)
}

func (s *PostgresStore) UpdateRecord(ctx context.Context, record *model.Record) error {
	return queryUpdateRecord(ctx, s.db, record)
}

func (s *PostgresStore) DeleteRecord(ctx context.Context, id string) error {
	return queryDeleteRecord(ctx, s.db, id)
}

func (s *PostgresStore) CreateBugReport(ctx context.Context, report *model.BugReport) error {
	return queryCreateBugReport(ctx, s.db, report)
}

func (s *PostgresStore) GetBugReport(ctx context.Context, id string) (*model.BugReport, error) {
	return queryGetBugReport(ctx, s.db, id)
}

func (s *PostgresStore) ListBugReports(ctx context.Context, filter model.BugReportFilter) ([]*model.BugReport, error) {
	return queryListBugReports(ctx, s.db, filter)
}

func (s *PostgresStore) UpdateBugReport(ctx context.Context, report *model.BugReport) error {
	return queryUpdateBugReport(ctx, s.db, report)
}

func (s *PostgresStore) DeleteBugReport(ctx context.Context, id string) error {
	return queryDeleteBugReport(ctx, s.db, id)
}

func (s *PostgresStore) GetBugReportStats(ctx context.Context) (*model.BugReportStats, error) {
	return queryGetBugReportStats(ctx, s.db)
}

func (s *PostgresStore) CreateContent(ctx context.Context, content *model.Content) error {
	return queryCreateContent(ctx, s.db, content)
}

func (s *PostgresStore) GetContent(ctx context.Context, id string) (*model.Content, error) {
	return queryGetContent(ctx, s.db, id)
}

func (s *PostgresStore) ListContent(ctx context.Context, filter model.ContentFilter) ([]*model.Content, error) {
	return queryListContent(ctx, s.db, filter)
}

func (s *PostgresStore) GetActiveContent(ctx context.Context, contentType model.ContentType, language string) (*model.Content, error) {
	return queryGetActiveContent(ctx, s.db, contentType, language)
}

func (s *PostgresStore) UpdateContent(ctx context.Context, content *model.Content) error {
	return queryUpdateContent(ctx, s.db, content)
}

func (s *PostgresStore) DeleteContent(ctx context.Context, id string) error {
	return queryDeleteContent(ctx, s.db, id)
}

func (s *PostgresStore) GetContentStats(ctx context.Context) (*model.ContentStats, error) {
	return queryGetContentStats(ctx, s.db)
}

func (s *PostgresStore) RecordEvent(ctx context.Context, event *model.Event) error {
	return queryRecordEvent(ctx, s.db, event)
}

func (s *PostgresStore) GetEvents(ctx context.Context, entityID string) ([]*model.Event, error) {
	return queryGetEvents(ctx, s.db, entityID)
}

// RunInTransaction begins a database transaction, creates a txStore that
// delegates to it, calls fn, and commits on success or rolls back on error.
func (s *PostgresStore) RunInTransaction(ctx context.Context, fn func(tx store.Store) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	txS := &txStore{tx: tx}
	if err := fn(txS); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// txStore implements store.Store using a *sql.Tx.
type txStore struct {
	tx *sql.Tx
}

// Compile-time check that txStore implements store.Store.
var _ store.Store = (*txStore)(nil)

func (s *txStore) UpsertUser(ctx context.Context, user *model.User) error {
	return queryUpsertUser(ctx, s.tx, user)
}

func (s *txStore) GetUser(ctx context.Context, id string) (*model.User, error) {
	return queryGetUser(ctx, s.tx, id)
}

func (s *txStore) ListUsers(ctx context.Context) ([]*model.User, error) {
	return queryListUsers(ctx, s.tx)
}

func (s *txStore) UpdateUser(ctx context.Context, user *model.User) error {
	return queryUpdateUser(ctx, s.tx, user)
}

func (s *txStore) DeleteUser(ctx context.Context, id string) error {
	return queryDeleteUser(ctx, s.tx, id)
}

func (s *txStore) GetUserStats(ctx context.Context, id string) (*model.UserStats, error) {
	return queryGetUserStats(ctx, s.tx, id)
}

func (s *txStore) CreateProject(ctx context.Context, project *model.Project) error {
	return queryCreateProject(ctx, s.tx, project)
}

func (s *txStore) GetProject(ctx context.Context, id string) (*model.Project, error) {
	return queryGetProject(ctx, s.tx, id)
}

func (s *txStore) ListProjects(ctx context.Context, ownerID string) ([]*model.Project, error) {
	return queryListProjects(ctx, s.tx, ownerID)
}

func (s *txStore) UpdateProject(ctx context.Context, project *model.Project) error {
	return queryUpdateProject(ctx, s.tx, project)
}

func (s *txStore) DeleteProject(ctx context.Context, id string) error {
	return queryDeleteProject(ctx, s.tx, id)
}

func (s *txStore) CreateField(ctx context.Context, field *model.FieldDefinition) error {
	return queryCreateField(ctx, s.tx, field)
}

func (s *txStore) GetField(ctx context.Context, id string) (*model.FieldDefinition, error) {
	return queryGetField(ctx, s.tx, id)
}

func (s *txStore) ListFields(ctx context.Context, projectID string) ([]*model.FieldDefinition, error) {
	return queryListFields(ctx, s.tx, projectID)
}

func (s *txStore) ListFieldsByType(ctx context.Context, projectID string, fieldType model.FieldType) ([]*model.FieldDefinition, error) {
	return queryListFieldsByType(ctx, s.tx, projectID, fieldType)
}

func (s *txStore) UpdateField(ctx context.Context, field *model.FieldDefinition) error {
	return queryUpdateField(ctx, s.tx, field)
}

func (s *txStore) DeleteField(ctx context.Context, id string) error {
	return queryDeleteField(ctx, s.tx, id)
}

func (s *txStore) CreateRecord(ctx context.Context, record *model.Record) error {
	return queryCreateRecord(ctx, s.tx, record)
}

func (s *txStore) GetRecord(ctx context.Context, id string) (*model.Record, error) {
	return queryGetRecord(ctx, s.tx, id)
}

func (s *txStore) ListRecords(ctx context.Context, projectID string) ([]*model.Record, error) {
	return queryListRecords(ctx, s.tx, projectID)
}

func (s *txStore) UpdateRecord(ctx context.Context, record *model.Record) error {
	return queryUpdateRecord(ctx, s.tx, record)
}

func (s *txStore) DeleteRecord(ctx context.Context, id string) error {
	return queryDeleteRecord(ctx, s.tx, id)
}

func (s *txStore) CreateBugReport(ctx context.Context, report *model.BugReport) error {
	return queryCreateBugReport(ctx, s.tx, report)
}

func (s *txStore) GetBugReport(ctx context.Context, id string) (*model.BugReport, error) {
	return queryGetBugReport(ctx, s.tx, id)
}

func (s *txStore) ListBugReports(ctx context.Context, filter model.BugReportFilter) ([]*model.BugReport, error) {
	return queryListBugReports(ctx, s.tx, filter)
}

func (s *txStore) UpdateBugReport(ctx context.Context, report *model.BugReport) error {
	return queryUpdateBugReport(ctx, s.tx, report)
}

func (s *txStore) DeleteBugReport(ctx context.Context, id string) error {
	return queryDeleteBugReport(ctx, s.tx, id)
}

func (s *txStore) GetBugReportStats(ctx context.Context) (*model.BugReportStats, error) {
	return queryGetBugReportStats(ctx, s.tx)
}

func (s *txStore) CreateContent(ctx context.Context, content *model.Content) error {
	return queryCreateContent(ctx, s.tx, content)
}

func (s *txStore) GetContent(ctx context.Context, id string) (*model.Content, error) {
	return queryGetContent(ctx, s.tx, id)
}

func (s *txStore) ListContent(ctx context.Context, filter model.ContentFilter) ([]*model.Content, error) {
	return queryListContent(ctx, s.tx, filter)
}

func (s *txStore) GetActiveContent(ctx context.Context, contentType model.ContentType, language string) (*model.Content, error) {
	return queryGetActiveContent(ctx, s.tx, contentType, language)
}

func (s *txStore) UpdateContent(ctx context.Context, content *model.Content) error {
	return queryUpdateContent(ctx, s.tx, content)
}

func (s *txStore) DeleteContent(ctx context.Context, id string) error {
	return queryDeleteContent(ctx, s.tx, id)
}

func (s *txStore) GetContentStats(ctx context.Context) (*model.ContentStats, error) {
	return queryGetContentStats(ctx, s.tx)
}

func (s *txStore) RecordEvent(ctx context.Context, event *model.Event) error {
	return queryRecordEvent(ctx, s.tx, event)
}

func (s *txStore) GetEvents(ctx context.Context, entityID string) ([]*model.Event, error) {
	return queryGetEvents(ctx, s.tx, entityID)
}

// RunInTransaction on a txStore reuses the existing transaction (no nesting).
func (s *txStore) RunInTransaction(ctx context.Context, fn func(tx store.Store) error) error {
	return fn(s)
}

// Close is a no-op for a transaction store; the parent store owns the connection.
func (s *txStore) Close() error {
	return nil
}
