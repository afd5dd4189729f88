package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"project-tracker/internal/config"
	"project-tracker/internal/domain"
	"project-tracker/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogService_CreateProject(t *testing.T) {
	svc := NewCatalogService(newFakeStore(), nil, nil)

	project, err := svc.CreateProject(context.Background(), ProjectInput{Name: "  Website  ", Budget: 250})
	require.NoError(t, err)
	assert.Equal(t, "Website", project.Name)
	assert.Equal(t, domain.DefaultProjectStatus, project.Status)
	assert.Equal(t, 250.0, project.Budget)

	_, err = svc.CreateProject(context.Background(), ProjectInput{Name: "  "})
	require.Error(t, err)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeValidation))
}

func TestCatalogService_CreateTask(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	svc := NewCatalogService(store, nil, nil)
	project, err := svc.CreateProject(ctx, ProjectInput{Name: "Website"})
	require.NoError(t, err)

	task, err := svc.CreateTask(ctx, TaskInput{Title: " Design ", ProjectID: project.Ref()})
	require.NoError(t, err)
	assert.Equal(t, "Design", task.Title)
	assert.Equal(t, domain.DefaultTaskPriority, task.Priority)
	assert.Equal(t, domain.DefaultTaskStatus, task.Status)

	task, err = svc.CreateTask(ctx, TaskInput{Title: "Ship", ProjectID: project.Ref(), Priority: "high", Status: "in-progress"})
	require.NoError(t, err)
	assert.Equal(t, "high", task.Priority)
	assert.Equal(t, "in-progress", task.Status)

	_, err = svc.CreateTask(ctx, TaskInput{Title: "Orphan", ProjectID: "404"})
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))

	_, err = svc.CreateTask(ctx, TaskInput{Title: strings.Repeat("x", 256), ProjectID: project.Ref()})
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeValidation))
}

func TestCatalogService_TitleLimitsFromConfig(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Validation.TaskTitleMaxLength = 5
	svc := NewCatalogService(newFakeStore(), cfg, nil)

	_, err := svc.CreateTask(context.Background(), TaskInput{Title: "Too long", ProjectID: "x"})
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeValidation))

	_, err = svc.CreateTask(context.Background(), TaskInput{Title: "Short", ProjectID: "x"})
	assert.NoError(t, err)
}

func TestCatalogService_ListTasks(t *testing.T) {
	store := newFakeStore()
	store.addTask(1, "A", "5", false)
	store.addTask(2, "B", "6", false)
	store.addTask(3, "C", " 5", false)
	svc := NewCatalogService(store, nil, nil)

	all, err := svc.ListTasks(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	filtered, err := svc.ListTasks(context.Background(), "5")
	require.NoError(t, err)
	require.Len(t, filtered, 2)
	assert.Equal(t, int64(1), filtered[0].ID)
	assert.Equal(t, int64(3), filtered[1].ID)
}

func TestCatalogService_GetTask(t *testing.T) {
	store := newFakeStore()
	store.addTask(1, "A", "5", false)
	svc := NewCatalogService(store, nil, nil)

	task, err := svc.GetTask(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "A", task.Title)

	_, err = svc.GetTask(context.Background(), 2)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))

	_, err = svc.GetTask(context.Background(), -1)
	assert.Error(t, err)
}

func TestCatalogService_LogTime(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	store.addTask(1, "A", "5", false)
	svc := NewCatalogService(store, nil, nil)

	start := time.Date(2024, 2, 29, 22, 0, 0, 0, time.UTC)
	log, err := svc.LogTime(ctx, 1, start, start.Add(45*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(45*60*1000), log.Duration())
	assert.Equal(t, "2024-02-29", log.Date)
	assert.True(t, strings.HasPrefix(log.Name, "Time Log "))

	_, err = svc.LogTime(ctx, 1, start, start.Add(-time.Minute))
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeValidation))

	_, err = svc.LogTime(ctx, 2, start, start.Add(time.Minute))
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))

	report, err := NewReportingService(store, ReportOptions{}, nil).BuildProjectReport(ctx, "5")
	require.NoError(t, err)
	assert.Equal(t, int64(45*60*1000), report.TotalTimeMs)
}

func TestCatalogService_UpdateProject(t *testing.T) {
	ctx := context.Background()
	svc := NewCatalogService(newFakeStore(), nil, nil)
	project, err := svc.CreateProject(ctx, ProjectInput{Name: "Website", Budget: 100})
	require.NoError(t, err)

	name := " Storefront "
	budget := 900.0
	updated, err := svc.UpdateProject(ctx, project.ID, ProjectUpdate{Name: &name, Budget: &budget})
	require.NoError(t, err)
	assert.Equal(t, "Storefront", updated.Name)
	assert.Equal(t, 900.0, updated.Budget)
	assert.Equal(t, domain.DefaultProjectStatus, updated.Status)

	empty := ""
	_, err = svc.UpdateProject(ctx, project.ID, ProjectUpdate{Name: &empty})
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeValidation))

	stored, err := svc.GetProject(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, "Storefront", stored.Name)

	_, err = svc.UpdateProject(ctx, 404, ProjectUpdate{Name: &name})
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))
}

func TestCatalogService_DeleteProjectKeepsTasks(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	svc := NewCatalogService(store, nil, nil)
	project, err := svc.CreateProject(ctx, ProjectInput{Name: "Website"})
	require.NoError(t, err)
	_, err = svc.CreateTask(ctx, TaskInput{Title: "Design", ProjectID: project.Ref()})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteProject(ctx, project.ID))

	_, err = svc.GetProject(ctx, project.ID)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))
	tasks, err := svc.ListTasks(ctx, project.Ref())
	require.NoError(t, err)
	assert.Len(t, tasks, 1)

	err = svc.DeleteProject(ctx, project.ID)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))
}

func TestCatalogService_UpdateTask(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	svc := NewCatalogService(store, nil, nil)
	first, err := svc.CreateProject(ctx, ProjectInput{Name: "Website"})
	require.NoError(t, err)
	second, err := svc.CreateProject(ctx, ProjectInput{Name: "App"})
	require.NoError(t, err)
	task, err := svc.CreateTask(ctx, TaskInput{Title: "Design", ProjectID: first.Ref()})
	require.NoError(t, err)

	tests := []struct {
		name      string
		update    TaskUpdate
		wantErr   bool
		errType   errors.ErrorType
		wantTitle string
	}{
		{name: "title only", update: TaskUpdate{Title: strPtr(" Layout ")}, wantTitle: "Layout"},
		{name: "move to existing project", update: TaskUpdate{ProjectID: strPtr(" " + second.Ref())}, wantTitle: "Layout"},
		{name: "move to missing project", update: TaskUpdate{ProjectID: strPtr("404")}, wantErr: true, errType: errors.ErrorTypeNotFound},
		{name: "blank title", update: TaskUpdate{Title: strPtr("  ")}, wantErr: true, errType: errors.ErrorTypeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			updated, err := svc.UpdateTask(ctx, task.ID, tt.update)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsErrorType(err, tt.errType))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantTitle, updated.Title)
		})
	}

	stored, err := svc.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, second.Ref(), stored.ProjectID)
	assert.Equal(t, domain.DefaultTaskPriority, stored.Priority)

	_, err = svc.UpdateTask(ctx, 404, TaskUpdate{Title: strPtr("x")})
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))
}

func TestCatalogService_UpdateTaskStatus(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	store.addTask(1, "A", "5", true)
	svc := NewCatalogService(store, nil, nil)

	task, err := svc.UpdateTaskStatus(ctx, 1, "done")
	require.NoError(t, err)
	assert.Equal(t, "done", task.Status)
	assert.NotNil(t, task.ActiveTimer)

	_, err = svc.UpdateTaskStatus(ctx, 1, "  ")
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeValidation))

	_, err = svc.UpdateTaskStatus(ctx, 2, "done")
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))
}

func TestCatalogService_DeleteTask(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	store.addTask(1, "A", "5", false)
	store.addLog(1, time.Now(), nil)
	svc := NewCatalogService(store, nil, nil)

	require.NoError(t, svc.DeleteTask(ctx, 1))

	_, err := svc.GetTask(ctx, 1)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))
	logs, err := store.FetchAllTimeLogs(ctx)
	require.NoError(t, err)
	assert.Len(t, logs, 1)

	err = svc.DeleteTask(ctx, 1)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))
	err = svc.DeleteTask(ctx, 0)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeValidation))
}

func strPtr(s string) *string { return &s }

func TestNewServiceContainer(t *testing.T) {
	cfg := config.NewConfig()
	store := newFakeStore()

	container := NewServiceContainer(cfg, store, nil, nil)
	require.NotNil(t, container)
	assert.NotNil(t, container.ReportingService)
	assert.NotNil(t, container.TimerService)
	assert.NotNil(t, container.CatalogService)
	assert.NotNil(t, container.InvoiceService)
	assert.Same(t, store, container.Store.(*fakeStore))
}
