package api

import (
	"context"
	"time"

	"project-tracker/internal/domain"
	"project-tracker/internal/services"
)

// TimerStatus describes the timer state of one task
type TimerStatus struct {
	Task    *domain.Task        `json:"task" yaml:"task"`
	Timer   *domain.ActiveTimer `json:"timer,omitempty" yaml:"timer,omitempty"`
	Elapsed time.Duration       `json:"elapsedNs" yaml:"elapsedNs"`
}

// IsRunning reports whether the task is being timed
func (s *TimerStatus) IsRunning() bool {
	return s != nil && s.Timer != nil
}

// BusinessAPI is the single entry point used by the CLI and the HTTP server
type BusinessAPI interface {
	// ========== Reports ==========

	// ProjectReport summarizes tracked time for the tasks of one project
	ProjectReport(ctx context.Context, projectID string) (*domain.ProjectTimeReport, error)

	// GlobalReport summarizes tracked time across every task
	GlobalReport(ctx context.Context) (*domain.GlobalTimeReport, error)

	// ========== Timers ==========

	StartTimer(ctx context.Context, taskID int64) (*domain.ActiveTimer, error)
	StopTimer(ctx context.Context, taskID int64) (*domain.TimeLog, error)
	TimerStatus(ctx context.Context, taskID int64) (*TimerStatus, error)

	// ========== Catalog ==========

	CreateProject(ctx context.Context, input services.ProjectInput) (*domain.Project, error)
	ListProjects(ctx context.Context) ([]domain.Project, error)
	GetProject(ctx context.Context, id int64) (*domain.Project, error)
	UpdateProject(ctx context.Context, id int64, update services.ProjectUpdate) (*domain.Project, error)
	DeleteProject(ctx context.Context, id int64) error

	CreateTask(ctx context.Context, input services.TaskInput) (*domain.Task, error)
	ListTasks(ctx context.Context, projectID string) ([]domain.Task, error)
	UpdateTask(ctx context.Context, id int64, update services.TaskUpdate) (*domain.Task, error)
	UpdateTaskStatus(ctx context.Context, id int64, status string) (*domain.Task, error)
	DeleteTask(ctx context.Context, id int64) error

	LogTime(ctx context.Context, taskID int64, start, end time.Time) (*domain.TimeLog, error)

	// ========== Invoices ==========

	// ListInvoices returns every invoice, or those of projectID when it is positive
	ListInvoices(ctx context.Context, projectID int64) ([]domain.Invoice, error)
	GetInvoice(ctx context.Context, id int64) (*domain.Invoice, error)
	CreateInvoice(ctx context.Context, input services.InvoiceInput) (*domain.Invoice, error)
	UpdateInvoice(ctx context.Context, id int64, update services.InvoiceUpdate) (*domain.Invoice, error)
	MarkInvoiceSent(ctx context.Context, id int64) (*domain.Invoice, error)
	// MarkInvoicePaid records payment on paidOn; a zero time means today
	MarkInvoicePaid(ctx context.Context, id int64, paidOn time.Time) (*domain.Invoice, error)
	DeleteInvoice(ctx context.Context, id int64) error

	// Close releases the underlying store
	Close() error
}
