package services

import (
	"context"
	"time"

	"project-tracker/internal/domain"
)

// TimeRecordStore is the read-only view reports are computed from.
// Log listings are ordered newest start first.
type TimeRecordStore interface {
	FetchTasks(ctx context.Context) ([]domain.Task, error)
	FetchTimeLogs(ctx context.Context, taskID int64) ([]domain.TimeLog, error)
	FetchAllTimeLogs(ctx context.Context) ([]domain.TimeLog, error)
}

// RecordStore adds catalog lookups and writes to TimeRecordStore
type RecordStore interface {
	TimeRecordStore
	InvoiceStore

	FetchProjects(ctx context.Context) ([]domain.Project, error)
	FetchProject(ctx context.Context, id int64) (*domain.Project, error)
	FetchTask(ctx context.Context, id int64) (*domain.Task, error)

	CreateProject(ctx context.Context, project domain.Project) (*domain.Project, error)
	UpdateProject(ctx context.Context, project domain.Project) (*domain.Project, error)
	DeleteProject(ctx context.Context, id int64) error

	CreateTask(ctx context.Context, task domain.Task) (*domain.Task, error)
	UpdateTask(ctx context.Context, task domain.Task) (*domain.Task, error)
	DeleteTask(ctx context.Context, id int64) error

	CreateTimeLog(ctx context.Context, log domain.TimeLog) (*domain.TimeLog, error)
}

// InvoiceStore persists invoices. Updates replace every field.
type InvoiceStore interface {
	FetchInvoices(ctx context.Context) ([]domain.Invoice, error)
	FetchInvoice(ctx context.Context, id int64) (*domain.Invoice, error)
	CreateInvoice(ctx context.Context, invoice domain.Invoice) (*domain.Invoice, error)
	UpdateInvoice(ctx context.Context, invoice domain.Invoice) (*domain.Invoice, error)
	DeleteInvoice(ctx context.Context, id int64) error
}

// TimerStore persists running timers. Stores without timer support pass nil.
type TimerStore interface {
	StartTimer(ctx context.Context, timer domain.ActiveTimer) error
	// GetActiveTimer returns a NotFound error when no timer is running
	GetActiveTimer(ctx context.Context, taskID int64) (*domain.ActiveTimer, error)
	// CompleteTimer removes the running timer and appends log atomically
	CompleteTimer(ctx context.Context, taskID int64, log domain.TimeLog) (*domain.TimeLog, error)
}

// ReportOptions tunes report generation
type ReportOptions struct {
	// RecentLogLimit caps ProjectTimeReport.TimeLogs
	RecentLogLimit int
	// FetchConcurrency bounds parallel per-task log fetches; 1 is sequential
	FetchConcurrency int
}

// ReportingService builds time reports from store snapshots
type ReportingService interface {
	BuildProjectReport(ctx context.Context, projectID string) (*domain.ProjectTimeReport, error)
	BuildGlobalReport(ctx context.Context) (*domain.GlobalTimeReport, error)
}

// TimerService starts and stops task timers
type TimerService interface {
	StartTimer(ctx context.Context, taskID int64) (*domain.ActiveTimer, error)
	StopTimer(ctx context.Context, taskID int64) (*domain.TimeLog, error)
	// GetActiveTimer returns nil when the task exists but is not being timed
	GetActiveTimer(ctx context.Context, taskID int64) (*domain.ActiveTimer, error)
}

// TaskInput holds the fields accepted when creating a task
type TaskInput struct {
	Title     string
	ProjectID string
	Priority  string
	Status    string
	DueDate   string
}

// ProjectInput holds the fields accepted when creating a project
type ProjectInput struct {
	Name      string
	Status    string
	Budget    float64
	StartDate string
	EndDate   string
	ClientID  int64
}

// ProjectUpdate holds the project fields to change; nil fields are kept
type ProjectUpdate struct {
	Name      *string
	Status    *string
	Budget    *float64
	StartDate *string
	EndDate   *string
	ClientID  *int64
}

// TaskUpdate holds the task fields to change; nil fields are kept
type TaskUpdate struct {
	Title     *string
	ProjectID *string
	Priority  *string
	Status    *string
	DueDate   *string
}

// CatalogService manages projects, tasks and manually logged time
type CatalogService interface {
	CreateProject(ctx context.Context, input ProjectInput) (*domain.Project, error)
	ListProjects(ctx context.Context) ([]domain.Project, error)
	GetProject(ctx context.Context, id int64) (*domain.Project, error)
	UpdateProject(ctx context.Context, id int64, update ProjectUpdate) (*domain.Project, error)
	DeleteProject(ctx context.Context, id int64) error

	CreateTask(ctx context.Context, input TaskInput) (*domain.Task, error)
	// ListTasks returns every task, or only those of projectID when it is non-empty
	ListTasks(ctx context.Context, projectID string) ([]domain.Task, error)
	GetTask(ctx context.Context, id int64) (*domain.Task, error)
	UpdateTask(ctx context.Context, id int64, update TaskUpdate) (*domain.Task, error)
	UpdateTaskStatus(ctx context.Context, id int64, status string) (*domain.Task, error)
	// DeleteTask removes the task and its running timer; logged time is kept
	DeleteTask(ctx context.Context, id int64) error

	LogTime(ctx context.Context, taskID int64, start, end time.Time) (*domain.TimeLog, error)
}

// InvoiceInput holds the fields accepted when creating an invoice
type InvoiceInput struct {
	Name        string
	Amount      float64
	Status      string
	DueDate     string
	PaymentDate string
	ClientID    int64
	ProjectID   int64
}

// InvoiceUpdate holds the invoice fields to change; nil fields are kept
type InvoiceUpdate struct {
	Name        *string
	Amount      *float64
	Status      *string
	DueDate     *string
	PaymentDate *string
	ClientID    *int64
	ProjectID   *int64
}

// InvoiceService manages invoices and their draft/sent/paid lifecycle
type InvoiceService interface {
	// ListInvoices returns every invoice, or only those of projectID when it is positive
	ListInvoices(ctx context.Context, projectID int64) ([]domain.Invoice, error)
	GetInvoice(ctx context.Context, id int64) (*domain.Invoice, error)
	CreateInvoice(ctx context.Context, input InvoiceInput) (*domain.Invoice, error)
	UpdateInvoice(ctx context.Context, id int64, update InvoiceUpdate) (*domain.Invoice, error)
	MarkSent(ctx context.Context, id int64) (*domain.Invoice, error)
	MarkPaid(ctx context.Context, id int64, paidOn time.Time) (*domain.Invoice, error)
	DeleteInvoice(ctx context.Context, id int64) error
}

// ServiceContainer manages all services and their dependencies
type ServiceContainer struct {
	Store            RecordStore
	ReportingService ReportingService
	TimerService     TimerService
	CatalogService   CatalogService
	InvoiceService   InvoiceService
}
