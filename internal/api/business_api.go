package api

import (
	"context"
	"fmt"
	"io"
	"time"

	"project-tracker/internal/config"
	"project-tracker/internal/domain"
	"project-tracker/internal/logging"
	"project-tracker/internal/services"
)

// businessAPIImpl implements BusinessAPI on top of the service container
type businessAPIImpl struct {
	services *services.ServiceContainer
	closer   io.Closer
	now      func() time.Time
}

// New opens the configured backend and wires every service on top of it
func New(cfg *config.Config, logger *logging.Logger) (BusinessAPI, error) {
	if logger == nil {
		logger = logging.Nop()
	}

	switch cfg.Backend.Kind {
	case config.BackendApper:
		client, err := config.CreateApperClient(cfg, logger)
		if err != nil {
			return nil, err
		}
		logger.Debug("using hosted record backend", logging.F("base_url", cfg.Backend.BaseURL))
		// the hosted backend has no timer table
		container := services.NewServiceContainer(cfg, client, nil, logger)
		return NewBusinessAPI(container, nil), nil

	case config.BackendSQL, "":
		repo, err := config.CreateRepository(cfg)
		if err != nil {
			return nil, err
		}
		logger.Debug("using sql repository", logging.F("driver", cfg.Database.Driver))
		store := services.NewSQLRecordStore(repo)
		container := services.NewServiceContainer(cfg, store, store, logger)
		return NewBusinessAPI(container, repo), nil

	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend.Kind)
	}
}

// NewBusinessAPI wraps an existing container; closer may be nil
func NewBusinessAPI(container *services.ServiceContainer, closer io.Closer) BusinessAPI {
	return &businessAPIImpl{
		services: container,
		closer:   closer,
		now:      time.Now,
	}
}

func (b *businessAPIImpl) ProjectReport(ctx context.Context, projectID string) (*domain.ProjectTimeReport, error) {
	return b.services.ReportingService.BuildProjectReport(ctx, projectID)
}

func (b *businessAPIImpl) GlobalReport(ctx context.Context) (*domain.GlobalTimeReport, error) {
	return b.services.ReportingService.BuildGlobalReport(ctx)
}

func (b *businessAPIImpl) StartTimer(ctx context.Context, taskID int64) (*domain.ActiveTimer, error) {
	return b.services.TimerService.StartTimer(ctx, taskID)
}

func (b *businessAPIImpl) StopTimer(ctx context.Context, taskID int64) (*domain.TimeLog, error) {
	return b.services.TimerService.StopTimer(ctx, taskID)
}

// TimerStatus combines the task with its running timer, if any
func (b *businessAPIImpl) TimerStatus(ctx context.Context, taskID int64) (*TimerStatus, error) {
	task, err := b.services.CatalogService.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	status := &TimerStatus{Task: task}
	if task.ActiveTimer != nil {
		status.Timer = task.ActiveTimer
		status.Elapsed = task.ActiveTimer.Elapsed(b.now())
	}
	return status, nil
}

func (b *businessAPIImpl) CreateProject(ctx context.Context, input services.ProjectInput) (*domain.Project, error) {
	return b.services.CatalogService.CreateProject(ctx, input)
}

func (b *businessAPIImpl) ListProjects(ctx context.Context) ([]domain.Project, error) {
	return b.services.CatalogService.ListProjects(ctx)
}

func (b *businessAPIImpl) GetProject(ctx context.Context, id int64) (*domain.Project, error) {
	return b.services.CatalogService.GetProject(ctx, id)
}

func (b *businessAPIImpl) UpdateProject(ctx context.Context, id int64, update services.ProjectUpdate) (*domain.Project, error) {
	return b.services.CatalogService.UpdateProject(ctx, id, update)
}

func (b *businessAPIImpl) DeleteProject(ctx context.Context, id int64) error {
	return b.services.CatalogService.DeleteProject(ctx, id)
}

func (b *businessAPIImpl) CreateTask(ctx context.Context, input services.TaskInput) (*domain.Task, error) {
	return b.services.CatalogService.CreateTask(ctx, input)
}

func (b *businessAPIImpl) ListTasks(ctx context.Context, projectID string) ([]domain.Task, error) {
	return b.services.CatalogService.ListTasks(ctx, projectID)
}

func (b *businessAPIImpl) UpdateTask(ctx context.Context, id int64, update services.TaskUpdate) (*domain.Task, error) {
	return b.services.CatalogService.UpdateTask(ctx, id, update)
}

func (b *businessAPIImpl) UpdateTaskStatus(ctx context.Context, id int64, status string) (*domain.Task, error) {
	return b.services.CatalogService.UpdateTaskStatus(ctx, id, status)
}

func (b *businessAPIImpl) DeleteTask(ctx context.Context, id int64) error {
	return b.services.CatalogService.DeleteTask(ctx, id)
}

func (b *businessAPIImpl) LogTime(ctx context.Context, taskID int64, start, end time.Time) (*domain.TimeLog, error) {
	return b.services.CatalogService.LogTime(ctx, taskID, start, end)
}

func (b *businessAPIImpl) ListInvoices(ctx context.Context, projectID int64) ([]domain.Invoice, error) {
	return b.services.InvoiceService.ListInvoices(ctx, projectID)
}

func (b *businessAPIImpl) GetInvoice(ctx context.Context, id int64) (*domain.Invoice, error) {
	return b.services.InvoiceService.GetInvoice(ctx, id)
}

func (b *businessAPIImpl) CreateInvoice(ctx context.Context, input services.InvoiceInput) (*domain.Invoice, error) {
	return b.services.InvoiceService.CreateInvoice(ctx, input)
}

func (b *businessAPIImpl) UpdateInvoice(ctx context.Context, id int64, update services.InvoiceUpdate) (*domain.Invoice, error) {
	return b.services.InvoiceService.UpdateInvoice(ctx, id, update)
}

func (b *businessAPIImpl) MarkInvoiceSent(ctx context.Context, id int64) (*domain.Invoice, error) {
	return b.services.InvoiceService.MarkSent(ctx, id)
}

func (b *businessAPIImpl) MarkInvoicePaid(ctx context.Context, id int64, paidOn time.Time) (*domain.Invoice, error) {
	if paidOn.IsZero() {
		paidOn = b.now()
	}
	return b.services.InvoiceService.MarkPaid(ctx, id, paidOn)
}

func (b *businessAPIImpl) DeleteInvoice(ctx context.Context, id int64) error {
	return b.services.InvoiceService.DeleteInvoice(ctx, id)
}

func (b *businessAPIImpl) Close() error {
	if b.closer == nil {
		return nil
	}
	return b.closer.Close()
}
