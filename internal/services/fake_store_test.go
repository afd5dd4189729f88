package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"project-tracker/internal/domain"
	"project-tracker/internal/errors"
)

// fakeStore is an in-memory RecordStore with per-call failure injection
type fakeStore struct {
	mu       sync.Mutex
	projects []domain.Project
	tasks    []domain.Task
	logs     []domain.TimeLog
	invoices []domain.Invoice
	nextID   int64

	tasksErr    error
	allLogsErr  error
	taskLogsErr map[int64]error

	inFlight    int32
	maxInFlight int32
	fetchDelay  time.Duration
}

func newFakeStore() *fakeStore {
	return &fakeStore{nextID: 1, taskLogsErr: map[int64]error{}}
}

func (f *fakeStore) addTask(id int64, title, projectID string, timer bool) domain.Task {
	task := domain.Task{ID: id, Title: title, ProjectID: projectID}
	if timer {
		task.ActiveTimer = &domain.ActiveTimer{TaskID: id, StartedAt: time.Now().Add(-time.Minute)}
	}
	f.tasks = append(f.tasks, task)
	return task
}

func (f *fakeStore) addLog(taskID int64, end time.Time, duration *int64) {
	f.logs = append(f.logs, domain.TimeLog{
		ID:         int64(len(f.logs) + 1),
		TaskID:     taskID,
		StartTime:  end.Add(-time.Hour),
		EndTime:    end,
		DurationMs: duration,
		Date:       end.UTC().Format(domain.DateLayout),
	})
}

func (f *fakeStore) FetchTasks(ctx context.Context) ([]domain.Task, error) {
	if f.tasksErr != nil {
		return nil, f.tasksErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Task(nil), f.tasks...), nil
}

func (f *fakeStore) FetchTimeLogs(ctx context.Context, taskID int64) ([]domain.TimeLog, error) {
	n := atomic.AddInt32(&f.inFlight, 1)
	defer atomic.AddInt32(&f.inFlight, -1)
	for {
		max := atomic.LoadInt32(&f.maxInFlight)
		if n <= max || atomic.CompareAndSwapInt32(&f.maxInFlight, max, n) {
			break
		}
	}
	if f.fetchDelay > 0 {
		time.Sleep(f.fetchDelay)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.taskLogsErr[taskID]; err != nil {
		return nil, err
	}
	var out []domain.TimeLog
	for _, log := range f.logs {
		if log.TaskID == taskID {
			out = append(out, log)
		}
	}
	sortNewestStart(out)
	return out, nil
}

func (f *fakeStore) FetchAllTimeLogs(ctx context.Context) ([]domain.TimeLog, error) {
	if f.allLogsErr != nil {
		return nil, f.allLogsErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := append([]domain.TimeLog(nil), f.logs...)
	sortNewestStart(out)
	return out, nil
}

func (f *fakeStore) FetchProjects(ctx context.Context) ([]domain.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Project(nil), f.projects...), nil
}

func (f *fakeStore) FetchProject(ctx context.Context, id int64) (*domain.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.projects {
		if p.ID == id {
			project := p
			return &project, nil
		}
	}
	return nil, errors.NewNotFoundError("project", fmt.Sprintf("%d", id))
}

func (f *fakeStore) FetchTask(ctx context.Context, id int64) (*domain.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tasks {
		if t.ID == id {
			task := t
			return &task, nil
		}
	}
	return nil, errors.NewNotFoundError("task", fmt.Sprintf("%d", id))
}

func (f *fakeStore) CreateProject(ctx context.Context, project domain.Project) (*domain.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	project.ID = f.nextID
	f.nextID++
	f.projects = append(f.projects, project)
	return &project, nil
}

func (f *fakeStore) CreateTask(ctx context.Context, task domain.Task) (*domain.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	task.ID = f.nextID
	f.nextID++
	f.tasks = append(f.tasks, task)
	return &task, nil
}

func (f *fakeStore) CreateTimeLog(ctx context.Context, log domain.TimeLog) (*domain.TimeLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	log.ID = f.nextID
	f.nextID++
	f.logs = append(f.logs, log)
	return &log, nil
}

func (f *fakeStore) UpdateProject(ctx context.Context, project domain.Project) (*domain.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.projects {
		if f.projects[i].ID == project.ID {
			f.projects[i] = project
			return &project, nil
		}
	}
	return nil, errors.NewNotFoundError("project", fmt.Sprintf("%d", project.ID))
}

func (f *fakeStore) DeleteProject(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.projects {
		if f.projects[i].ID == id {
			f.projects = append(f.projects[:i], f.projects[i+1:]...)
			return nil
		}
	}
	return errors.NewNotFoundError("project", fmt.Sprintf("%d", id))
}

func (f *fakeStore) UpdateTask(ctx context.Context, task domain.Task) (*domain.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.tasks {
		if f.tasks[i].ID == task.ID {
			task.ActiveTimer = f.tasks[i].ActiveTimer
			f.tasks[i] = task
			return &task, nil
		}
	}
	return nil, errors.NewNotFoundError("task", fmt.Sprintf("%d", task.ID))
}

func (f *fakeStore) DeleteTask(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.tasks {
		if f.tasks[i].ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return nil
		}
	}
	return errors.NewNotFoundError("task", fmt.Sprintf("%d", id))
}

func (f *fakeStore) FetchInvoices(ctx context.Context) ([]domain.Invoice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Invoice(nil), f.invoices...), nil
}

func (f *fakeStore) FetchInvoice(ctx context.Context, id int64) (*domain.Invoice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, inv := range f.invoices {
		if inv.ID == id {
			invoice := inv
			return &invoice, nil
		}
	}
	return nil, errors.NewNotFoundError("invoice", fmt.Sprintf("%d", id))
}

func (f *fakeStore) CreateInvoice(ctx context.Context, invoice domain.Invoice) (*domain.Invoice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	invoice.ID = f.nextID
	f.nextID++
	f.invoices = append(f.invoices, invoice)
	return &invoice, nil
}

func (f *fakeStore) UpdateInvoice(ctx context.Context, invoice domain.Invoice) (*domain.Invoice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.invoices {
		if f.invoices[i].ID == invoice.ID {
			f.invoices[i] = invoice
			return &invoice, nil
		}
	}
	return nil, errors.NewNotFoundError("invoice", fmt.Sprintf("%d", invoice.ID))
}

func (f *fakeStore) DeleteInvoice(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.invoices {
		if f.invoices[i].ID == id {
			f.invoices = append(f.invoices[:i], f.invoices[i+1:]...)
			return nil
		}
	}
	return errors.NewNotFoundError("invoice", fmt.Sprintf("%d", id))
}

func sortNewestStart(logs []domain.TimeLog) {
	sort.SliceStable(logs, func(a, b int) bool {
		return logs[a].StartTime.After(logs[b].StartTime)
	})
}
