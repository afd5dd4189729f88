package services

import (
	"context"
	"time"

	"project-tracker/internal/domain"
	"project-tracker/internal/errors"
	"project-tracker/internal/logging"
)

// timerServiceImpl implements the TimerService interface
type timerServiceImpl struct {
	store  RecordStore
	timers TimerStore
	logger *logging.Logger
	now    func() time.Time
}

// NewTimerService creates a new TimerService instance. A nil timers store
// makes every timer operation fail with a validation error.
func NewTimerService(store RecordStore, timers TimerStore, logger *logging.Logger) TimerService {
	if logger == nil {
		logger = logging.Nop()
	}
	return &timerServiceImpl{
		store:  store,
		timers: timers,
		logger: logger.With(logging.F("component", "timer")),
		now:    time.Now,
	}
}

// StartTimer starts timing a task
func (t *timerServiceImpl) StartTimer(ctx context.Context, taskID int64) (*domain.ActiveTimer, error) {
	task, err := t.requireTimerTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.HasActiveTimer() {
		return nil, errors.NewValidationError("a timer is already running for this task", nil).
			WithContext("task_id", taskID)
	}

	timer := domain.ActiveTimer{TaskID: taskID, StartedAt: t.now().UTC()}
	if err := t.timers.StartTimer(ctx, timer); err != nil {
		return nil, err
	}

	t.logger.Info("timer started", logging.F("task_id", taskID))
	return &timer, nil
}

// StopTimer stops a running timer and records the interval as a time log
func (t *timerServiceImpl) StopTimer(ctx context.Context, taskID int64) (*domain.TimeLog, error) {
	if _, err := t.requireTimerTask(ctx, taskID); err != nil {
		return nil, err
	}

	timer, err := t.timers.GetActiveTimer(ctx, taskID)
	if err != nil {
		return nil, err
	}

	log := domain.NewTimeLog(taskID, timer.StartedAt, t.now().UTC())
	created, err := t.timers.CompleteTimer(ctx, taskID, log)
	if err != nil {
		return nil, err
	}

	t.logger.Info("timer stopped",
		logging.F("task_id", taskID),
		logging.F("duration_ms", created.Duration()),
	)
	return created, nil
}

// GetActiveTimer returns the running timer, or nil when the task is idle
func (t *timerServiceImpl) GetActiveTimer(ctx context.Context, taskID int64) (*domain.ActiveTimer, error) {
	task, err := t.requireTimerTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	return task.ActiveTimer, nil
}

// requireTimerTask checks timer support and loads the task
func (t *timerServiceImpl) requireTimerTask(ctx context.Context, taskID int64) (*domain.Task, error) {
	if t.timers == nil {
		return nil, errors.NewValidationError("timers are not supported by the configured backend", nil)
	}
	if taskID <= 0 {
		return nil, errors.NewInvalidInputError("task_id", taskID, "must be a positive integer")
	}
	return t.store.FetchTask(ctx, taskID)
}
