package services

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"
	"time"

	"project-tracker/internal/domain"
	"project-tracker/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func ms(v int64) *int64 { return &v }

func TestBuildProjectReport_SingleLog(t *testing.T) {
	store := newFakeStore()
	store.addTask(1, "A", "5", false)
	store.addLog(1, baseTime, ms(3600000))

	svc := NewReportingService(store, ReportOptions{}, nil)
	report, err := svc.BuildProjectReport(context.Background(), "5")
	require.NoError(t, err)

	assert.Equal(t, int64(3600000), report.TotalTimeMs)
	assert.Equal(t, 0, report.ActiveTimers)
	assert.Equal(t, 1, report.TotalEntries)
	require.Len(t, report.TimeLogs, 1)
	assert.Equal(t, int64(1), report.TimeLogs[0].TaskID)
	assert.Equal(t, "A", report.TimeLogs[0].TaskTitle)
}

func TestBuildProjectReport_MissingDurationCountsAsZero(t *testing.T) {
	store := newFakeStore()
	store.addTask(1, "A", "5", false)
	store.addLog(1, baseTime, ms(1000))
	store.addLog(1, baseTime.Add(time.Hour), ms(2000))
	store.addLog(1, baseTime.Add(2*time.Hour), nil)

	svc := NewReportingService(store, ReportOptions{}, nil)
	report, err := svc.BuildProjectReport(context.Background(), "5")
	require.NoError(t, err)

	assert.Equal(t, int64(3000), report.TotalTimeMs)
	assert.Equal(t, 3, report.TotalEntries)
}

func TestBuildProjectReport_ProjectIDNormalization(t *testing.T) {
	store := newFakeStore()
	store.addTask(1, "Padded", " 5 ", false)
	store.addTask(2, "Other", "6", false)
	store.addLog(1, baseTime, ms(10))
	store.addLog(2, baseTime, ms(20))

	svc := NewReportingService(store, ReportOptions{}, nil)
	report, err := svc.BuildProjectReport(context.Background(), "5")
	require.NoError(t, err)

	assert.Equal(t, int64(10), report.TotalTimeMs)
	assert.Equal(t, "5", report.ProjectID)
}

func TestBuildProjectReport_NoMatchingTasks(t *testing.T) {
	store := newFakeStore()
	store.addTask(1, "A", "5", true)

	svc := NewReportingService(store, ReportOptions{}, nil)
	report, err := svc.BuildProjectReport(context.Background(), "99")
	require.NoError(t, err)

	assert.Zero(t, report.TotalTimeMs)
	assert.Zero(t, report.ActiveTimers)
	assert.Zero(t, report.TotalEntries)
	assert.NotNil(t, report.TimeLogs)
	assert.Empty(t, report.TimeLogs)
}

func TestBuildProjectReport_RecentLogsNewestFirstAndCapped(t *testing.T) {
	store := newFakeStore()
	store.addTask(1, "A", "5", false)
	store.addTask(2, "B", "5", false)
	for i := 0; i < 8; i++ {
		store.addLog(1, baseTime.Add(time.Duration(2*i)*time.Hour), ms(100))
		store.addLog(2, baseTime.Add(time.Duration(2*i+1)*time.Hour), ms(100))
	}

	svc := NewReportingService(store, ReportOptions{}, nil)
	report, err := svc.BuildProjectReport(context.Background(), "5")
	require.NoError(t, err)

	assert.Equal(t, 16, report.TotalEntries)
	assert.Equal(t, int64(1600), report.TotalTimeMs)
	require.Len(t, report.TimeLogs, domain.DefaultRecentLogLimit)
	for i := 1; i < len(report.TimeLogs); i++ {
		assert.False(t, report.TimeLogs[i].EndTime.After(report.TimeLogs[i-1].EndTime))
	}
	assert.Equal(t, baseTime.Add(15*time.Hour), report.TimeLogs[0].EndTime)
	assert.Equal(t, "B", report.TimeLogs[0].TaskTitle)
}

func TestBuildProjectReport_CustomLimit(t *testing.T) {
	store := newFakeStore()
	store.addTask(1, "A", "5", false)
	for i := 0; i < 5; i++ {
		store.addLog(1, baseTime.Add(time.Duration(i)*time.Hour), ms(1))
	}

	svc := NewReportingService(store, ReportOptions{RecentLogLimit: 3}, nil)
	report, err := svc.BuildProjectReport(context.Background(), "5")
	require.NoError(t, err)
	assert.Len(t, report.TimeLogs, 3)
	assert.Equal(t, 5, report.TotalEntries)
}

func TestBuildProjectReport_PerTaskFailureIsSkipped(t *testing.T) {
	store := newFakeStore()
	store.addTask(1, "Good", "5", false)
	store.addTask(2, "Broken", "5", true)
	store.addLog(1, baseTime, ms(500))
	store.addLog(2, baseTime, ms(700))
	store.taskLogsErr[2] = stderrors.New("connection reset")

	svc := NewReportingService(store, ReportOptions{}, nil)
	report, err := svc.BuildProjectReport(context.Background(), "5")
	require.NoError(t, err)

	assert.Equal(t, int64(500), report.TotalTimeMs)
	assert.Equal(t, 1, report.TotalEntries)
	assert.Equal(t, 0, report.ActiveTimers, "a skipped task contributes nothing")
	require.Len(t, report.TimeLogs, 1)
	assert.Equal(t, "Good", report.TimeLogs[0].TaskTitle)
}

func TestBuildProjectReport_FailedTaskTimerNotCounted(t *testing.T) {
	tests := []struct {
		name        string
		concurrency int
	}{
		{"sequential", 1},
		{"parallel", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			store.addTask(1, "Idle", "5", false)
			store.addTask(2, "Running but unreachable", "5", true)
			store.addTask(3, "Running", "5", true)
			store.addLog(1, baseTime, ms(1000))
			store.taskLogsErr[2] = stderrors.New("connection reset")

			svc := NewReportingService(store, ReportOptions{FetchConcurrency: tt.concurrency}, nil)
			report, err := svc.BuildProjectReport(context.Background(), "5")
			require.NoError(t, err)

			assert.Equal(t, 1, report.ActiveTimers)
			assert.Equal(t, int64(1000), report.TotalTimeMs)
			assert.Equal(t, 1, report.TotalEntries)
		})
	}
}

func TestBuildProjectReport_TaskFetchFailure(t *testing.T) {
	cause := stderrors.New("backend unavailable")
	store := newFakeStore()
	store.tasksErr = cause

	svc := NewReportingService(store, ReportOptions{}, nil)
	report, err := svc.BuildProjectReport(context.Background(), "5")

	assert.Nil(t, report)
	require.Error(t, err)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeFetch))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "failed to build project time report")

	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	operation, _ := appErr.GetContext("operation")
	assert.Equal(t, "project time report", operation)
	assert.Equal(t, "FETCH_FAILED", appErr.Code)
}

func TestBuildProjectReport_ConcurrencyDoesNotChangeOutput(t *testing.T) {
	build := func(concurrency int) (*domain.ProjectTimeReport, *fakeStore) {
		store := newFakeStore()
		store.fetchDelay = 2 * time.Millisecond
		for id := int64(1); id <= 12; id++ {
			store.addTask(id, fmt.Sprintf("Task %d", id), "5", id%4 == 0)
			// identical end times force the stable order to decide
			store.addLog(id, baseTime, ms(id*10))
		}
		store.taskLogsErr[7] = stderrors.New("timeout")

		svc := NewReportingService(store, ReportOptions{FetchConcurrency: concurrency}, nil)
		report, err := svc.BuildProjectReport(context.Background(), "5")
		require.NoError(t, err)
		return report, store
	}

	sequential, seqStore := build(1)
	parallel, parStore := build(4)

	assert.Equal(t, sequential, parallel)
	assert.Equal(t, int32(1), seqStore.maxInFlight)
	assert.LessOrEqual(t, parStore.maxInFlight, int32(4))
	assert.Equal(t, "Task 1", parallel.TimeLogs[0].TaskTitle)
}

func TestBuildGlobalReport(t *testing.T) {
	store := newFakeStore()
	store.addTask(1, "Small", "5", false)
	store.addTask(2, "Large", "6", false)
	store.addTask(3, "Idle", "5", false)
	store.addTask(4, "Running", "7", true)
	store.addLog(1, baseTime, ms(1000))
	store.addLog(2, baseTime, ms(5000))
	store.addLog(2, baseTime.Add(time.Hour), nil)

	svc := NewReportingService(store, ReportOptions{}, nil)
	report, err := svc.BuildGlobalReport(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(6000), report.TotalTimeMs)
	assert.Equal(t, 3, report.TotalEntries)
	assert.Equal(t, 1, report.ActiveTimers)

	require.Len(t, report.TaskBreakdown, 3)
	assert.Equal(t, domain.TaskTimeBreakdown{TaskID: 2, TaskTitle: "Large", ProjectID: "6", TotalTimeMs: 5000, EntryCount: 2}, report.TaskBreakdown[0])
	assert.Equal(t, int64(1), report.TaskBreakdown[1].TaskID)
	assert.Equal(t, int64(4), report.TaskBreakdown[2].TaskID)
	assert.True(t, report.TaskBreakdown[2].HasActiveTimer)
	assert.Zero(t, report.TaskBreakdown[2].TotalTimeMs)
}

func TestBuildGlobalReport_StableTies(t *testing.T) {
	store := newFakeStore()
	store.addTask(10, "First", "1", false)
	store.addTask(20, "Second", "1", false)
	store.addTask(30, "Third", "1", false)
	store.addLog(30, baseTime, ms(100))
	store.addLog(10, baseTime, ms(100))
	store.addLog(20, baseTime, ms(100))

	svc := NewReportingService(store, ReportOptions{}, nil)
	report, err := svc.BuildGlobalReport(context.Background())
	require.NoError(t, err)

	require.Len(t, report.TaskBreakdown, 3)
	assert.Equal(t, int64(10), report.TaskBreakdown[0].TaskID)
	assert.Equal(t, int64(20), report.TaskBreakdown[1].TaskID)
	assert.Equal(t, int64(30), report.TaskBreakdown[2].TaskID)
}

func TestBuildGlobalReport_DanglingLogs(t *testing.T) {
	store := newFakeStore()
	store.addTask(1, "Known", "1", false)
	store.addLog(1, baseTime, ms(100))
	store.addLog(404, baseTime, ms(900))

	svc := NewReportingService(store, ReportOptions{}, nil)
	report, err := svc.BuildGlobalReport(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(1000), report.TotalTimeMs)
	assert.Equal(t, 2, report.TotalEntries)
	require.Len(t, report.TaskBreakdown, 1)
	assert.Equal(t, int64(1), report.TaskBreakdown[0].TaskID)
}

func TestBuildGlobalReport_Empty(t *testing.T) {
	svc := NewReportingService(newFakeStore(), ReportOptions{}, nil)
	report, err := svc.BuildGlobalReport(context.Background())
	require.NoError(t, err)

	assert.Zero(t, report.TotalTimeMs)
	assert.NotNil(t, report.TaskBreakdown)
	assert.Empty(t, report.TaskBreakdown)
}

func TestBuildGlobalReport_FetchFailures(t *testing.T) {
	t.Run("tasks", func(t *testing.T) {
		store := newFakeStore()
		store.tasksErr = stderrors.New("down")

		_, err := NewReportingService(store, ReportOptions{}, nil).BuildGlobalReport(context.Background())
		require.Error(t, err)
		assert.True(t, errors.IsErrorType(err, errors.ErrorTypeFetch))
		assert.Contains(t, err.Error(), "failed to build global time report")
	})

	t.Run("time logs", func(t *testing.T) {
		store := newFakeStore()
		store.addTask(1, "A", "1", false)
		store.allLogsErr = errors.NewPermissionError("fetch", "time_log")

		_, err := NewReportingService(store, ReportOptions{}, nil).BuildGlobalReport(context.Background())
		require.Error(t, err)
		assert.True(t, errors.IsErrorType(err, errors.ErrorTypeFetch))
		assert.True(t, errors.IsErrorType(stderrors.Unwrap(err), errors.ErrorTypePermission))
	})
}
