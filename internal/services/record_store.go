package services

import (
	"context"
	"fmt"

	"project-tracker/internal/domain"
	"project-tracker/internal/repository/sqldb"
)

// sqlRecordStore adapts the SQL repository to RecordStore and TimerStore
type sqlRecordStore struct {
	repo   sqldb.Repository
	mapper *domain.Mapper
}

// SQLStore is both a RecordStore and a TimerStore
type SQLStore interface {
	RecordStore
	TimerStore
}

// NewSQLRecordStore wraps a SQL repository
func NewSQLRecordStore(repo sqldb.Repository) SQLStore {
	return &sqlRecordStore{
		repo:   repo,
		mapper: domain.NewMapper(),
	}
}

// FetchTasks returns every task with its running timer, newest first
func (s *sqlRecordStore) FetchTasks(ctx context.Context) ([]domain.Task, error) {
	rows, err := s.repo.ListTasks(ctx)
	if err != nil {
		return nil, err
	}
	return s.mapper.Task.FromDatabaseSlice(rows), nil
}

// FetchTask returns one task
func (s *sqlRecordStore) FetchTask(ctx context.Context, id int64) (*domain.Task, error) {
	row, err := s.repo.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}
	task := s.mapper.Task.FromDatabase(*row)
	return &task, nil
}

// FetchTimeLogs returns the logs of one task, newest start first
func (s *sqlRecordStore) FetchTimeLogs(ctx context.Context, taskID int64) ([]domain.TimeLog, error) {
	rows, err := s.repo.ListTimeLogsByTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	return s.mapper.TimeLog.FromDatabaseSlice(rows), nil
}

// FetchAllTimeLogs returns every log, newest start first
func (s *sqlRecordStore) FetchAllTimeLogs(ctx context.Context) ([]domain.TimeLog, error) {
	rows, err := s.repo.ListTimeLogs(ctx)
	if err != nil {
		return nil, err
	}
	return s.mapper.TimeLog.FromDatabaseSlice(rows), nil
}

// FetchProjects returns every project, newest first
func (s *sqlRecordStore) FetchProjects(ctx context.Context) ([]domain.Project, error) {
	rows, err := s.repo.ListProjects(ctx)
	if err != nil {
		return nil, err
	}
	return s.mapper.Project.FromDatabaseSlice(rows), nil
}

// FetchProject returns one project
func (s *sqlRecordStore) FetchProject(ctx context.Context, id int64) (*domain.Project, error) {
	row, err := s.repo.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}
	project := s.mapper.Project.FromDatabase(*row)
	return &project, nil
}

// CreateProject inserts a project
func (s *sqlRecordStore) CreateProject(ctx context.Context, project domain.Project) (*domain.Project, error) {
	row := s.mapper.Project.ToDatabase(project)
	if err := s.repo.CreateProject(ctx, &row); err != nil {
		return nil, err
	}
	created := s.mapper.Project.FromDatabase(row)
	return &created, nil
}

// UpdateProject writes every field of project
func (s *sqlRecordStore) UpdateProject(ctx context.Context, project domain.Project) (*domain.Project, error) {
	row := s.mapper.Project.ToDatabase(project)
	if err := s.repo.UpdateProject(ctx, &row); err != nil {
		return nil, err
	}
	updated := s.mapper.Project.FromDatabase(row)
	return &updated, nil
}

// DeleteProject removes a project; its tasks are kept
func (s *sqlRecordStore) DeleteProject(ctx context.Context, id int64) error {
	return s.repo.DeleteProject(ctx, id)
}

// CreateTask inserts a task
func (s *sqlRecordStore) CreateTask(ctx context.Context, task domain.Task) (*domain.Task, error) {
	row := s.mapper.Task.ToDatabase(task)
	if err := s.repo.CreateTask(ctx, &row); err != nil {
		return nil, err
	}
	created := s.mapper.Task.FromDatabase(row)
	return &created, nil
}

// UpdateTask writes every field of task and returns it with its timer state
func (s *sqlRecordStore) UpdateTask(ctx context.Context, task domain.Task) (*domain.Task, error) {
	row := s.mapper.Task.ToDatabase(task)
	if err := s.repo.UpdateTask(ctx, &row); err != nil {
		return nil, err
	}
	return s.FetchTask(ctx, task.ID)
}

// DeleteTask removes a task and its running timer; its logs are kept
func (s *sqlRecordStore) DeleteTask(ctx context.Context, id int64) error {
	return s.repo.DeleteTask(ctx, id)
}

// FetchInvoices returns every invoice, newest first
func (s *sqlRecordStore) FetchInvoices(ctx context.Context) ([]domain.Invoice, error) {
	rows, err := s.repo.ListInvoices(ctx)
	if err != nil {
		return nil, err
	}
	return s.mapper.Invoice.FromDatabaseSlice(rows), nil
}

// FetchInvoice returns one invoice
func (s *sqlRecordStore) FetchInvoice(ctx context.Context, id int64) (*domain.Invoice, error) {
	row, err := s.repo.GetInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	invoice := s.mapper.Invoice.FromDatabase(*row)
	return &invoice, nil
}

// CreateInvoice inserts an invoice
func (s *sqlRecordStore) CreateInvoice(ctx context.Context, invoice domain.Invoice) (*domain.Invoice, error) {
	row := s.mapper.Invoice.ToDatabase(invoice)
	if err := s.repo.CreateInvoice(ctx, &row); err != nil {
		return nil, err
	}
	created := s.mapper.Invoice.FromDatabase(row)
	return &created, nil
}

// UpdateInvoice writes every field of invoice
func (s *sqlRecordStore) UpdateInvoice(ctx context.Context, invoice domain.Invoice) (*domain.Invoice, error) {
	row := s.mapper.Invoice.ToDatabase(invoice)
	if err := s.repo.UpdateInvoice(ctx, &row); err != nil {
		return nil, err
	}
	updated := s.mapper.Invoice.FromDatabase(row)
	return &updated, nil
}

// DeleteInvoice removes an invoice
func (s *sqlRecordStore) DeleteInvoice(ctx context.Context, id int64) error {
	return s.repo.DeleteInvoice(ctx, id)
}

// CreateTimeLog appends a time log
func (s *sqlRecordStore) CreateTimeLog(ctx context.Context, log domain.TimeLog) (*domain.TimeLog, error) {
	row := s.mapper.TimeLog.ToDatabase(log)
	if err := s.repo.CreateTimeLog(ctx, &row); err != nil {
		return nil, err
	}
	created := s.mapper.TimeLog.FromDatabase(row)
	return &created, nil
}

// StartTimer records a running timer
func (s *sqlRecordStore) StartTimer(ctx context.Context, timer domain.ActiveTimer) error {
	row := s.mapper.ActiveTimer.ToDatabase(timer)
	return s.repo.StartTimer(ctx, &row)
}

// GetActiveTimer returns the running timer of a task
func (s *sqlRecordStore) GetActiveTimer(ctx context.Context, taskID int64) (*domain.ActiveTimer, error) {
	row, err := s.repo.GetActiveTimer(ctx, taskID)
	if err != nil {
		return nil, err
	}
	timer := s.mapper.ActiveTimer.FromDatabase(*row)
	return &timer, nil
}

// CompleteTimer stops the running timer and stores log in one transaction
func (s *sqlRecordStore) CompleteTimer(ctx context.Context, taskID int64, log domain.TimeLog) (*domain.TimeLog, error) {
	if log.TaskID != taskID {
		return nil, fmt.Errorf("time log task %d does not match timer task %d", log.TaskID, taskID)
	}
	row := s.mapper.TimeLog.ToDatabase(log)
	if err := s.repo.CompleteTimer(ctx, taskID, &row); err != nil {
		return nil, err
	}
	created := s.mapper.TimeLog.FromDatabase(row)
	return &created, nil
}
