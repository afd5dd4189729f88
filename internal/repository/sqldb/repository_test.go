package sqldb

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"project-tracker/internal/errors"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *SQLRepository {
	t.Helper()

	repo, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	return repo
}

func int64Ptr(v int64) *int64 {
	return &v
}

func createTask(t *testing.T, repo *SQLRepository, title, projectID string) *Task {
	t.Helper()

	task := &Task{Title: title, ProjectID: projectID, Priority: "medium", Status: "todo"}
	require.NoError(t, repo.CreateTask(context.Background(), task))
	return task
}

func TestOpen_FileDatabase(t *testing.T) {
	path := t.TempDir() + "/pt.db"

	repo, err := Open(SQLite, path, Options{QueryTimeout: time.Second, WriteTimeout: time.Second})
	require.NoError(t, err)
	createTask(t, repo, "Persisted", "1")
	require.NoError(t, repo.Close())

	reopened, err := New(path)
	require.NoError(t, err)
	defer reopened.Close()

	tasks, err := reopened.ListTasks(context.Background())
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Persisted", tasks[0].Title)
}

func TestProjects(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	project := &Project{Name: "Website", Status: "planning", Budget: 1500.5, ClientID: 9}
	require.NoError(t, repo.CreateProject(ctx, project))
	assert.Greater(t, project.ID, int64(0))

	got, err := repo.GetProject(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, project, got)

	second := &Project{Name: "App", Status: "active"}
	require.NoError(t, repo.CreateProject(ctx, second))

	projects, err := repo.ListProjects(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, "App", projects[0].Name, "newest first")

	got.Status = "active"
	got.Budget = 2000
	require.NoError(t, repo.UpdateProject(ctx, got))
	updated, err := repo.GetProject(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, "active", updated.Status)
	assert.Equal(t, 2000.0, updated.Budget)

	err = repo.UpdateProject(ctx, &Project{ID: 999, Name: "ghost"})
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))

	require.NoError(t, repo.DeleteProject(ctx, project.ID))
	_, err = repo.GetProject(ctx, project.ID)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))
}

func TestTasks(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	task := createTask(t, repo, "Design", "5")
	assert.Greater(t, task.ID, int64(0))

	got, err := repo.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Design", got.Title)
	assert.Equal(t, "5", got.ProjectID)
	assert.Nil(t, got.TimerStartedAt)

	got.Status = "in-progress"
	require.NoError(t, repo.UpdateTask(ctx, got))
	updated, err := repo.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "in-progress", updated.Status)

	err = repo.UpdateTask(ctx, &Task{ID: 999, Title: "ghost"})
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))

	require.NoError(t, repo.DeleteTask(ctx, task.ID))
	_, err = repo.GetTask(ctx, task.ID)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))
	assert.Contains(t, err.Error(), "not found")
}

func TestInvoices(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	invoice := &Invoice{Name: "Invoice 1", Amount: 480.25, Status: "draft", DueDate: "2024-07-01", ClientID: 3, ProjectID: 5}
	require.NoError(t, repo.CreateInvoice(ctx, invoice))
	assert.Greater(t, invoice.ID, int64(0))

	got, err := repo.GetInvoice(ctx, invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, invoice, got)

	second := &Invoice{Name: "Invoice 2", Amount: 10, Status: "draft", DueDate: "2024-08-01", ProjectID: 5}
	require.NoError(t, repo.CreateInvoice(ctx, second))

	invoices, err := repo.ListInvoices(ctx)
	require.NoError(t, err)
	require.Len(t, invoices, 2)
	assert.Equal(t, "Invoice 2", invoices[0].Name, "newest first")

	got.Status = "paid"
	got.PaymentDate = "2024-06-20"
	require.NoError(t, repo.UpdateInvoice(ctx, got))
	paid, err := repo.GetInvoice(ctx, invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, "paid", paid.Status)
	assert.Equal(t, "2024-06-20", paid.PaymentDate)

	err = repo.UpdateInvoice(ctx, &Invoice{ID: 999, Name: "ghost"})
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))

	require.NoError(t, repo.DeleteInvoice(ctx, invoice.ID))
	_, err = repo.GetInvoice(ctx, invoice.ID)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))
	err = repo.DeleteInvoice(ctx, invoice.ID)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))
}

func TestTimeLogs(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()
	task := createTask(t, repo, "Build", "1")
	other := createTask(t, repo, "Test", "1")

	base := time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)
	older := &TimeLog{Name: "older", TaskID: task.ID, StartTime: base, EndTime: base.Add(time.Hour), DurationMs: int64Ptr(3600000), LogDate: "2024-01-02"}
	newer := &TimeLog{Name: "newer", TaskID: task.ID, StartTime: base.Add(2 * time.Hour), EndTime: base.Add(3 * time.Hour), LogDate: "2024-01-02"}
	foreign := &TimeLog{Name: "other", TaskID: other.ID, StartTime: base.Add(time.Hour), EndTime: base.Add(90 * time.Minute), DurationMs: int64Ptr(1800000), LogDate: "2024-01-02"}
	for _, log := range []*TimeLog{older, newer, foreign} {
		require.NoError(t, repo.CreateTimeLog(ctx, log))
		assert.Greater(t, log.ID, int64(0))
	}

	got, err := repo.GetTimeLog(ctx, older.ID)
	require.NoError(t, err)
	assert.True(t, base.Equal(got.StartTime))
	require.NotNil(t, got.DurationMs)
	assert.Equal(t, int64(3600000), *got.DurationMs)

	byTask, err := repo.ListTimeLogsByTask(ctx, task.ID)
	require.NoError(t, err)
	require.Len(t, byTask, 2)
	assert.Equal(t, "newer", byTask[0].Name)
	assert.Nil(t, byTask[0].DurationMs, "missing duration stays NULL")

	all, err := repo.ListTimeLogs(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"newer", "other", "older"}, []string{all[0].Name, all[1].Name, all[2].Name})

	require.NoError(t, repo.DeleteTimeLog(ctx, foreign.ID))
	err = repo.DeleteTimeLog(ctx, foreign.ID)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))
}

func TestTimers(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()
	task := createTask(t, repo, "Timed", "2")
	started := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

	require.NoError(t, repo.StartTimer(ctx, &ActiveTimer{TaskID: task.ID, StartedAt: started}))
	err := repo.StartTimer(ctx, &ActiveTimer{TaskID: task.ID, StartedAt: started})
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeValidation), "second timer violates the primary key")
	assert.Contains(t, err.Error(), "a timer is already running for this task")

	withTimer, err := repo.GetTask(ctx, task.ID)
	require.NoError(t, err)
	require.NotNil(t, withTimer.TimerStartedAt)
	assert.True(t, started.Equal(*withTimer.TimerStartedAt))

	timers, err := repo.ListActiveTimers(ctx)
	require.NoError(t, err)
	require.Len(t, timers, 1)

	log := &TimeLog{TaskID: task.ID, StartTime: started, EndTime: started.Add(30 * time.Minute), DurationMs: int64Ptr(1800000), LogDate: "2024-03-01"}
	require.NoError(t, repo.CompleteTimer(ctx, task.ID, log))
	assert.Greater(t, log.ID, int64(0))

	_, err = repo.GetActiveTimer(ctx, task.ID)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))

	err = repo.CompleteTimer(ctx, task.ID, &TimeLog{TaskID: task.ID, StartTime: started, EndTime: started, LogDate: "2024-03-01"})
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))

	logs, err := repo.ListTimeLogsByTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Len(t, logs, 1, "failed completion must not append a log")
}

func TestDeleteTask_CascadesTimerKeepsLogs(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()
	task := createTask(t, repo, "Doomed", "3")
	now := time.Now().UTC()

	require.NoError(t, repo.StartTimer(ctx, &ActiveTimer{TaskID: task.ID, StartedAt: now}))
	require.NoError(t, repo.CreateTimeLog(ctx, &TimeLog{TaskID: task.ID, StartTime: now, EndTime: now, LogDate: "2024-01-01"}))
	require.NoError(t, repo.DeleteTask(ctx, task.ID))

	timers, err := repo.ListActiveTimers(ctx)
	require.NoError(t, err)
	assert.Empty(t, timers)

	logs, err := repo.ListTimeLogs(ctx)
	require.NoError(t, err)
	assert.Len(t, logs, 1)
}

func TestIsUniqueViolation(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()
	task := createTask(t, repo, "Keyed", "4")

	insert := `INSERT INTO active_timers (task_id, started_at) VALUES (?, ?)`
	_, err := repo.db.ExecContext(ctx, insert, task.ID, FormatTimeForDB(time.Now()))
	require.NoError(t, err)
	_, err = repo.db.ExecContext(ctx, insert, task.ID, FormatTimeForDB(time.Now()))
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err))

	// a foreign key failure is a constraint error but not a duplicate
	_, err = repo.db.ExecContext(ctx, insert, 9999, FormatTimeForDB(time.Now()))
	require.Error(t, err)
	assert.False(t, IsUniqueViolation(err))

	assert.False(t, IsUniqueViolation(stderrors.New("UNIQUE constraint failed")), "only driver errors qualify")
	assert.True(t, IsUniqueViolation(&pq.Error{Code: "23505"}))
	assert.False(t, IsUniqueViolation(&pq.Error{Code: "23503"}))
}
