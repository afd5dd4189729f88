package services

import (
	"context"
	"sort"
	"sync"

	"project-tracker/internal/domain"
	"project-tracker/internal/errors"
	"project-tracker/internal/logging"
)

// reportingServiceImpl implements the ReportingService interface
type reportingServiceImpl struct {
	store  TimeRecordStore
	opts   ReportOptions
	logger *logging.Logger
}

// NewReportingService creates a new ReportingService instance
func NewReportingService(store TimeRecordStore, opts ReportOptions, logger *logging.Logger) ReportingService {
	if opts.RecentLogLimit <= 0 {
		opts.RecentLogLimit = domain.DefaultRecentLogLimit
	}
	if opts.FetchConcurrency <= 0 {
		opts.FetchConcurrency = 1
	}
	if logger == nil {
		logger = logging.Nop()
	}

	return &reportingServiceImpl{
		store:  store,
		opts:   opts,
		logger: logger.With(logging.F("component", "reporting")),
	}
}

// taskLogs is the outcome of one per-task log fetch
type taskLogs struct {
	logs []domain.TimeLog
	err  error
}

// BuildProjectReport summarizes the tasks of one project. A task whose logs
// cannot be fetched is skipped entirely; only the task list fetch is fatal.
func (r *reportingServiceImpl) BuildProjectReport(ctx context.Context, projectID string) (*domain.ProjectTimeReport, error) {
	tasks, err := r.store.FetchTasks(ctx)
	if err != nil {
		return nil, reportFailure("project time report", "failed to build project time report", err)
	}

	var projectTasks []domain.Task
	for _, task := range tasks {
		if task.BelongsTo(projectID) {
			projectTasks = append(projectTasks, task)
		}
	}

	results := make([]taskLogs, len(projectTasks))
	r.forEachBounded(len(projectTasks), func(i int) {
		logs, err := r.store.FetchTimeLogs(ctx, projectTasks[i].ID)
		results[i] = taskLogs{logs: logs, err: err}
	})

	report := &domain.ProjectTimeReport{
		ProjectID: domain.NormalizeProjectID(projectID),
		TimeLogs:  []domain.TaskTimeLog{},
	}
	var annotated []domain.TaskTimeLog

	for i, task := range projectTasks {
		if results[i].err != nil {
			r.logger.Error("skipping task: time log fetch failed",
				logging.F("task_id", task.ID),
				logging.F("project_id", report.ProjectID),
				logging.F("error", results[i].err),
			)
			continue
		}

		// a skipped task contributes nothing, its timer included
		if task.HasActiveTimer() {
			report.ActiveTimers++
		}
		report.TotalEntries += len(results[i].logs)
		for _, log := range results[i].logs {
			report.TotalTimeMs += log.Duration()
			log.TaskID = task.ID
			annotated = append(annotated, domain.TaskTimeLog{TimeLog: log, TaskTitle: task.Title})
		}
	}

	sort.SliceStable(annotated, func(a, b int) bool {
		return annotated[a].EndTime.After(annotated[b].EndTime)
	})
	if len(annotated) > r.opts.RecentLogLimit {
		annotated = annotated[:r.opts.RecentLogLimit]
	}
	if annotated != nil {
		report.TimeLogs = annotated
	}

	r.logger.Debug("built project time report",
		logging.F("project_id", report.ProjectID),
		logging.F("tasks", len(projectTasks)),
		logging.F("entries", report.TotalEntries),
	)
	return report, nil
}

// taskTotals accumulates the logs of one task
type taskTotals struct {
	totalTimeMs int64
	entryCount  int
}

// BuildGlobalReport summarizes every task. Logs referencing unknown tasks
// count toward the totals but get no breakdown row.
func (r *reportingServiceImpl) BuildGlobalReport(ctx context.Context) (*domain.GlobalTimeReport, error) {
	tasks, err := r.store.FetchTasks(ctx)
	if err != nil {
		return nil, reportFailure("global time report", "failed to build global time report", err)
	}
	logs, err := r.store.FetchAllTimeLogs(ctx)
	if err != nil {
		return nil, reportFailure("global time report", "failed to build global time report", err)
	}

	report := &domain.GlobalTimeReport{
		TotalEntries:  len(logs),
		TaskBreakdown: []domain.TaskTimeBreakdown{},
	}

	totals := make(map[int64]*taskTotals)
	for _, log := range logs {
		report.TotalTimeMs += log.Duration()

		acc, ok := totals[log.TaskID]
		if !ok {
			acc = &taskTotals{}
			totals[log.TaskID] = acc
		}
		acc.totalTimeMs += log.Duration()
		acc.entryCount++
	}

	known := make(map[int64]bool, len(tasks))
	for _, task := range tasks {
		known[task.ID] = true

		var acc taskTotals
		if found := totals[task.ID]; found != nil {
			acc = *found
		}
		hasTimer := task.HasActiveTimer()
		if hasTimer {
			report.ActiveTimers++
		}

		if acc.totalTimeMs > 0 || hasTimer {
			report.TaskBreakdown = append(report.TaskBreakdown, domain.TaskTimeBreakdown{
				TaskID:         task.ID,
				TaskTitle:      task.Title,
				ProjectID:      task.ProjectID,
				TotalTimeMs:    acc.totalTimeMs,
				HasActiveTimer: hasTimer,
				EntryCount:     acc.entryCount,
			})
		}
	}

	for taskID, acc := range totals {
		if !known[taskID] {
			r.logger.Warn("time logs reference an unknown task",
				logging.F("task_id", taskID),
				logging.F("entries", acc.entryCount),
				logging.F("total_ms", acc.totalTimeMs),
			)
		}
	}

	sort.SliceStable(report.TaskBreakdown, func(a, b int) bool {
		return report.TaskBreakdown[a].TotalTimeMs > report.TaskBreakdown[b].TotalTimeMs
	})

	r.logger.Debug("built global time report",
		logging.F("tasks", len(tasks)),
		logging.F("entries", report.TotalEntries),
		logging.F("breakdown_rows", len(report.TaskBreakdown)),
	)
	return report, nil
}

// forEachBounded runs fn for 0..n-1 with at most FetchConcurrency calls in
// flight. fn writes to its own index, so no result ordering is lost.
func (r *reportingServiceImpl) forEachBounded(n int, fn func(i int)) {
	if r.opts.FetchConcurrency <= 1 || n <= 1 {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}

	sem := make(chan struct{}, r.opts.FetchConcurrency)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			fn(i)
		}(i)
	}
	wg.Wait()
}

// reportFailure wraps a top-level store failure as a fetch error; the cause
// stays in the chain.
func reportFailure(operation, message string, cause error) error {
	failure := errors.WrapError(cause, errors.ErrorTypeFetch, message).
		WithContext("operation", operation)
	failure.Code = "FETCH_FAILED"
	return failure
}
