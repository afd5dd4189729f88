package cli

import (
	"context"

	"github.com/dustin/go-humanize"

	"project-tracker/internal/api"
	"project-tracker/internal/errors"
	"project-tracker/internal/export"
)

// TimerCommand handles "timer start|stop|status"
type TimerCommand struct {
	app          *App
	businessAPI  api.BusinessAPI
	errorHandler *ErrorHandler
	action       string
}

// NewTimerCommand creates a timer handler for action start, stop or status
func NewTimerCommand(app *App, action string) *TimerCommand {
	return &TimerCommand{
		app:          app,
		businessAPI:  app.businessAPI,
		errorHandler: NewErrorHandler(),
		action:       action,
	}
}

// Execute runs the timer command
func (c *TimerCommand) Execute(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.NewInvalidInputError("command", "timer "+c.action, "usage: pt timer "+c.action+" <task-id>")
	}
	taskID, err := parseTaskID(args[0])
	if err != nil {
		return c.errorHandler.Handle(c.action+" timer", err)
	}

	switch c.action {
	case "start":
		return c.start(ctx, taskID)
	case "stop":
		return c.stop(ctx, taskID)
	case "status":
		return c.status(ctx, taskID)
	}
	return errors.NewInvalidInputError("command", "timer "+c.action, "unknown timer action")
}

func (c *TimerCommand) start(ctx context.Context, taskID int64) error {
	timer, err := c.businessAPI.StartTimer(ctx, taskID)
	if err != nil {
		return c.errorHandler.Handle("start timer", err)
	}
	c.app.printf("Started timer on task %d at %s\n", taskID, timer.StartedAt.Local().Format(c.app.config.Time.DisplayFormat))
	return nil
}

func (c *TimerCommand) stop(ctx context.Context, taskID int64) error {
	log, err := c.businessAPI.StopTimer(ctx, taskID)
	if err != nil {
		return c.errorHandler.Handle("stop timer", err)
	}
	c.app.printf("Stopped timer on task %d: %s logged\n", taskID, export.FormatDuration(log.Duration()))
	return nil
}

func (c *TimerCommand) status(ctx context.Context, taskID int64) error {
	status, err := c.businessAPI.TimerStatus(ctx, taskID)
	if err != nil {
		return c.errorHandler.Handle("get timer status", err)
	}
	if !status.IsRunning() {
		c.app.printf("No timer running on task %d (%s)\n", taskID, status.Task.Title)
		return nil
	}
	c.app.printf("Task %d (%s): running for %s, started %s\n",
		taskID,
		status.Task.Title,
		export.FormatDuration(status.Elapsed.Milliseconds()),
		humanize.RelTime(status.Timer.StartedAt, timeNow(), "ago", "from now"),
	)
	return nil
}
