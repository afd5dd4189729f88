package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"project-tracker/internal/errors"
	"project-tracker/internal/repository/sqldb/migrations"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Repository defines the interface for database operations
type Repository interface {
	// Projects
	CreateProject(ctx context.Context, project *Project) error
	GetProject(ctx context.Context, id int64) (*Project, error)
	ListProjects(ctx context.Context) ([]*Project, error)
	UpdateProject(ctx context.Context, project *Project) error
	DeleteProject(ctx context.Context, id int64) error

	// Tasks
	CreateTask(ctx context.Context, task *Task) error
	GetTask(ctx context.Context, id int64) (*Task, error)
	ListTasks(ctx context.Context) ([]*Task, error)
	UpdateTask(ctx context.Context, task *Task) error
	DeleteTask(ctx context.Context, id int64) error

	// Time logs
	CreateTimeLog(ctx context.Context, log *TimeLog) error
	GetTimeLog(ctx context.Context, id int64) (*TimeLog, error)
	ListTimeLogs(ctx context.Context) ([]*TimeLog, error)
	ListTimeLogsByTask(ctx context.Context, taskID int64) ([]*TimeLog, error)
	DeleteTimeLog(ctx context.Context, id int64) error

	// Invoices
	CreateInvoice(ctx context.Context, invoice *Invoice) error
	GetInvoice(ctx context.Context, id int64) (*Invoice, error)
	ListInvoices(ctx context.Context) ([]*Invoice, error)
	UpdateInvoice(ctx context.Context, invoice *Invoice) error
	DeleteInvoice(ctx context.Context, id int64) error

	// Timers
	StartTimer(ctx context.Context, timer *ActiveTimer) error
	GetActiveTimer(ctx context.Context, taskID int64) (*ActiveTimer, error)
	ListActiveTimers(ctx context.Context) ([]*ActiveTimer, error)
	CompleteTimer(ctx context.Context, taskID int64, log *TimeLog) error

	// Utility
	Close() error
}

// Options tunes per-call deadlines; zero values mean no extra deadline.
type Options struct {
	QueryTimeout time.Duration
	WriteTimeout time.Duration
}

// SQLRepository implements the Repository interface on database/sql
type SQLRepository struct {
	db      *sql.DB
	dialect Dialect
	opts    Options
}

// New creates a sqlite repository at dbPath (":memory:" for an in-memory database)
func New(dbPath string) (*SQLRepository, error) {
	return Open(SQLite, dbPath, Options{})
}

// Open creates a repository for the dialect and runs pending migrations
func Open(dialect Dialect, dsn string, opts Options) (*SQLRepository, error) {
	db, err := sql.Open(dialect.DriverName, dsn)
	if err != nil {
		return nil, errors.NewDatabaseError("open database", err)
	}

	if dialect.Name == SQLite.Name {
		// one connection: keeps ":memory:" databases shared and avoids SQLITE_BUSY
		db.SetMaxOpenConns(1)
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			db.Close()
			return nil, errors.NewDatabaseError("enable foreign keys", err)
		}
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.NewDatabaseError("connect", err)
	}

	if err := migrations.RunMigrations(db, dialect.Name, dialect.Rebind("?")); err != nil {
		db.Close()
		return nil, errors.NewDatabaseError("run migrations", err)
	}

	return &SQLRepository{db: db, dialect: dialect, opts: opts}, nil
}

// Dialect returns the SQL dialect in use
func (r *SQLRepository) Dialect() Dialect {
	return r.dialect
}

// Close closes the database connection
func (r *SQLRepository) Close() error {
	return r.db.Close()
}

func (r *SQLRepository) readCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.opts.QueryTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.opts.QueryTimeout)
}

func (r *SQLRepository) writeCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.opts.WriteTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.opts.WriteTimeout)
}

func (r *SQLRepository) q(query string) string {
	return r.dialect.Rebind(query)
}

const (
	projectColumns = `id, name, status, budget, start_date, end_date, client_id`
	taskSelect     = `
	SELECT t.id, t.title, t.project_id, t.priority, t.status, t.due_date, a.started_at
	FROM tasks t
	LEFT JOIN active_timers a ON a.task_id = t.id`
	timeLogColumns = `id, name, task_id, start_time, end_time, duration_ms, log_date`
	invoiceColumns = `id, name, amount, status, due_date, payment_date, client_id, project_id`
)

// CreateProject creates a new project
func (r *SQLRepository) CreateProject(ctx context.Context, project *Project) error {
	ctx, cancel := r.writeCtx(ctx)
	defer cancel()

	query := `
	INSERT INTO projects (name, status, budget, start_date, end_date, client_id)
	VALUES (?, ?, ?, ?, ?, ?)
	RETURNING id`

	id, err := InsertReturningID(ctx, r.db, r.q(query),
		project.Name, project.Status, project.Budget, project.StartDate, project.EndDate, project.ClientID)
	if err != nil {
		return err
	}
	project.ID = id
	return nil
}

// GetProject retrieves a project by ID
func (r *SQLRepository) GetProject(ctx context.Context, id int64) (*Project, error) {
	ctx, cancel := r.readCtx(ctx)
	defer cancel()

	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = ?`
	return QuerySingle(ctx, r.db, r.q(query), ScanProject, "project", fmt.Sprintf("%d", id), id)
}

// ListProjects retrieves all projects, newest first
func (r *SQLRepository) ListProjects(ctx context.Context) ([]*Project, error) {
	ctx, cancel := r.readCtx(ctx)
	defer cancel()

	query := `SELECT ` + projectColumns + ` FROM projects ORDER BY id DESC`
	return QueryMultiple(ctx, r.db, r.q(query), ScanProjects, "projects")
}

// UpdateProject updates an existing project
func (r *SQLRepository) UpdateProject(ctx context.Context, project *Project) error {
	ctx, cancel := r.writeCtx(ctx)
	defer cancel()

	query := `
	UPDATE projects
	SET name = ?, status = ?, budget = ?, start_date = ?, end_date = ?, client_id = ?
	WHERE id = ?`

	return ExecuteWithRowsAffected(ctx, r.db, r.q(query), "project", fmt.Sprintf("%d", project.ID),
		project.Name, project.Status, project.Budget, project.StartDate, project.EndDate, project.ClientID, project.ID)
}

// DeleteProject deletes a project by ID. Its tasks are left in place.
func (r *SQLRepository) DeleteProject(ctx context.Context, id int64) error {
	ctx, cancel := r.writeCtx(ctx)
	defer cancel()

	query := `DELETE FROM projects WHERE id = ?`
	return ExecuteWithRowsAffected(ctx, r.db, r.q(query), "project", fmt.Sprintf("%d", id), id)
}

// CreateTask creates a new task
func (r *SQLRepository) CreateTask(ctx context.Context, task *Task) error {
	ctx, cancel := r.writeCtx(ctx)
	defer cancel()

	query := `
	INSERT INTO tasks (title, project_id, priority, status, due_date)
	VALUES (?, ?, ?, ?, ?)
	RETURNING id`

	id, err := InsertReturningID(ctx, r.db, r.q(query),
		task.Title, task.ProjectID, task.Priority, task.Status, task.DueDate)
	if err != nil {
		return err
	}
	task.ID = id
	return nil
}

// GetTask retrieves a task by ID
func (r *SQLRepository) GetTask(ctx context.Context, id int64) (*Task, error) {
	ctx, cancel := r.readCtx(ctx)
	defer cancel()

	query := taskSelect + ` WHERE t.id = ?`
	return QuerySingle(ctx, r.db, r.q(query), ScanTask, "task", fmt.Sprintf("%d", id), id)
}

// ListTasks retrieves all tasks, newest first
func (r *SQLRepository) ListTasks(ctx context.Context) ([]*Task, error) {
	ctx, cancel := r.readCtx(ctx)
	defer cancel()

	query := taskSelect + ` ORDER BY t.id DESC`
	return QueryMultiple(ctx, r.db, r.q(query), ScanTasks, "tasks")
}

// UpdateTask updates an existing task
func (r *SQLRepository) UpdateTask(ctx context.Context, task *Task) error {
	ctx, cancel := r.writeCtx(ctx)
	defer cancel()

	query := `
	UPDATE tasks
	SET title = ?, project_id = ?, priority = ?, status = ?, due_date = ?
	WHERE id = ?`

	return ExecuteWithRowsAffected(ctx, r.db, r.q(query), "task", fmt.Sprintf("%d", task.ID),
		task.Title, task.ProjectID, task.Priority, task.Status, task.DueDate, task.ID)
}

// DeleteTask deletes a task by ID. Its time logs are kept; reports skip them.
func (r *SQLRepository) DeleteTask(ctx context.Context, id int64) error {
	ctx, cancel := r.writeCtx(ctx)
	defer cancel()

	query := `DELETE FROM tasks WHERE id = ?`
	return ExecuteWithRowsAffected(ctx, r.db, r.q(query), "task", fmt.Sprintf("%d", id), id)
}

// CreateTimeLog appends a time log
func (r *SQLRepository) CreateTimeLog(ctx context.Context, log *TimeLog) error {
	ctx, cancel := r.writeCtx(ctx)
	defer cancel()

	return r.insertTimeLog(ctx, r.db, log)
}

func (r *SQLRepository) insertTimeLog(ctx context.Context, q Querier, log *TimeLog) error {
	query := `
	INSERT INTO time_logs (name, task_id, start_time, end_time, duration_ms, log_date)
	VALUES (?, ?, ?, ?, ?, ?)
	RETURNING id`

	id, err := InsertReturningID(ctx, q, r.q(query),
		log.Name, log.TaskID, FormatTimeForDB(log.StartTime), FormatTimeForDB(log.EndTime),
		FormatInt64PtrForDB(log.DurationMs), log.LogDate)
	if err != nil {
		return err
	}
	log.ID = id
	return nil
}

// GetTimeLog retrieves a time log by ID
func (r *SQLRepository) GetTimeLog(ctx context.Context, id int64) (*TimeLog, error) {
	ctx, cancel := r.readCtx(ctx)
	defer cancel()

	query := `SELECT ` + timeLogColumns + ` FROM time_logs WHERE id = ?`
	return QuerySingle(ctx, r.db, r.q(query), ScanTimeLog, "time log", fmt.Sprintf("%d", id), id)
}

// ListTimeLogs retrieves every time log, newest start first
func (r *SQLRepository) ListTimeLogs(ctx context.Context) ([]*TimeLog, error) {
	ctx, cancel := r.readCtx(ctx)
	defer cancel()

	query := `SELECT ` + timeLogColumns + ` FROM time_logs ORDER BY start_time DESC, id DESC`
	return QueryMultiple(ctx, r.db, r.q(query), ScanTimeLogs, "time logs")
}

// ListTimeLogsByTask retrieves the time logs of one task, newest start first
func (r *SQLRepository) ListTimeLogsByTask(ctx context.Context, taskID int64) ([]*TimeLog, error) {
	ctx, cancel := r.readCtx(ctx)
	defer cancel()

	query := `SELECT ` + timeLogColumns + ` FROM time_logs WHERE task_id = ? ORDER BY start_time DESC, id DESC`
	return QueryMultiple(ctx, r.db, r.q(query), ScanTimeLogs, "time logs", taskID)
}

// DeleteTimeLog deletes a time log by ID
func (r *SQLRepository) DeleteTimeLog(ctx context.Context, id int64) error {
	ctx, cancel := r.writeCtx(ctx)
	defer cancel()

	query := `DELETE FROM time_logs WHERE id = ?`
	return ExecuteWithRowsAffected(ctx, r.db, r.q(query), "time log", fmt.Sprintf("%d", id), id)
}

// CreateInvoice creates a new invoice
func (r *SQLRepository) CreateInvoice(ctx context.Context, invoice *Invoice) error {
	ctx, cancel := r.writeCtx(ctx)
	defer cancel()

	query := `
	INSERT INTO invoices (name, amount, status, due_date, payment_date, client_id, project_id)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	RETURNING id`

	id, err := InsertReturningID(ctx, r.db, r.q(query),
		invoice.Name, invoice.Amount, invoice.Status, invoice.DueDate, invoice.PaymentDate, invoice.ClientID, invoice.ProjectID)
	if err != nil {
		return err
	}
	invoice.ID = id
	return nil
}

// GetInvoice retrieves an invoice by ID
func (r *SQLRepository) GetInvoice(ctx context.Context, id int64) (*Invoice, error) {
	ctx, cancel := r.readCtx(ctx)
	defer cancel()

	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = ?`
	return QuerySingle(ctx, r.db, r.q(query), ScanInvoice, "invoice", fmt.Sprintf("%d", id), id)
}

// ListInvoices retrieves all invoices, newest first
func (r *SQLRepository) ListInvoices(ctx context.Context) ([]*Invoice, error) {
	ctx, cancel := r.readCtx(ctx)
	defer cancel()

	query := `SELECT ` + invoiceColumns + ` FROM invoices ORDER BY id DESC`
	return QueryMultiple(ctx, r.db, r.q(query), ScanInvoices, "invoices")
}

// UpdateInvoice updates an existing invoice
func (r *SQLRepository) UpdateInvoice(ctx context.Context, invoice *Invoice) error {
	ctx, cancel := r.writeCtx(ctx)
	defer cancel()

	query := `
	UPDATE invoices
	SET name = ?, amount = ?, status = ?, due_date = ?, payment_date = ?, client_id = ?, project_id = ?
	WHERE id = ?`

	return ExecuteWithRowsAffected(ctx, r.db, r.q(query), "invoice", fmt.Sprintf("%d", invoice.ID),
		invoice.Name, invoice.Amount, invoice.Status, invoice.DueDate, invoice.PaymentDate,
		invoice.ClientID, invoice.ProjectID, invoice.ID)
}

// DeleteInvoice deletes an invoice by ID
func (r *SQLRepository) DeleteInvoice(ctx context.Context, id int64) error {
	ctx, cancel := r.writeCtx(ctx)
	defer cancel()

	query := `DELETE FROM invoices WHERE id = ?`
	return ExecuteWithRowsAffected(ctx, r.db, r.q(query), "invoice", fmt.Sprintf("%d", id), id)
}

// StartTimer records a running timer for a task. A task holds at most one
// timer; a second start fails with a validation error.
func (r *SQLRepository) StartTimer(ctx context.Context, timer *ActiveTimer) error {
	ctx, cancel := r.writeCtx(ctx)
	defer cancel()

	query := `INSERT INTO active_timers (task_id, started_at) VALUES (?, ?)`
	if _, err := r.db.ExecContext(ctx, r.q(query), timer.TaskID, FormatTimeForDB(timer.StartedAt)); err != nil {
		if IsUniqueViolation(err) {
			return errors.NewValidationError("a timer is already running for this task", err).
				WithContext("task_id", timer.TaskID)
		}
		return HandleDatabaseError("start timer", err)
	}
	return nil
}

// GetActiveTimer returns the running timer of a task
func (r *SQLRepository) GetActiveTimer(ctx context.Context, taskID int64) (*ActiveTimer, error) {
	ctx, cancel := r.readCtx(ctx)
	defer cancel()

	query := `SELECT task_id, started_at FROM active_timers WHERE task_id = ?`
	return QuerySingle(ctx, r.db, r.q(query), ScanActiveTimer, "active timer", fmt.Sprintf("%d", taskID), taskID)
}

// ListActiveTimers returns every running timer
func (r *SQLRepository) ListActiveTimers(ctx context.Context) ([]*ActiveTimer, error) {
	ctx, cancel := r.readCtx(ctx)
	defer cancel()

	query := `SELECT task_id, started_at FROM active_timers ORDER BY started_at ASC`
	return QueryMultiple(ctx, r.db, r.q(query), ScanActiveTimers, "active timers")
}

// CompleteTimer removes the task's running timer and appends log in one transaction
func (r *SQLRepository) CompleteTimer(ctx context.Context, taskID int64, log *TimeLog) error {
	ctx, cancel := r.writeCtx(ctx)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return HandleDatabaseError("begin transaction", err)
	}

	query := `DELETE FROM active_timers WHERE task_id = ?`
	if err := ExecuteWithRowsAffected(ctx, tx, r.q(query), "active timer", fmt.Sprintf("%d", taskID), taskID); err != nil {
		tx.Rollback()
		return err
	}

	if err := r.insertTimeLog(ctx, tx, log); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return HandleDatabaseError("commit transaction", err)
	}
	return nil
}
