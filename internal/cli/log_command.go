package cli

import (
	"context"
	"time"

	"project-tracker/internal/api"
	"project-tracker/internal/errors"
	"project-tracker/internal/export"
)

// LogAddOptions holds the flags of "log add"
type LogAddOptions struct {
	Start string
	End   string
}

// LogAddCommand handles "log add"
type LogAddCommand struct {
	app          *App
	businessAPI  api.BusinessAPI
	errorHandler *ErrorHandler
	opts         LogAddOptions
}

// NewLogAddCommand creates a new log add handler
func NewLogAddCommand(app *App, opts LogAddOptions) *LogAddCommand {
	return &LogAddCommand{
		app:          app,
		businessAPI:  app.businessAPI,
		errorHandler: NewErrorHandler(),
		opts:         opts,
	}
}

// Execute runs the log add command. Either a duration ending at --end (or
// now) or an explicit --start/--end pair describes the interval.
func (c *LogAddCommand) Execute(ctx context.Context, args []string) error {
	usage := errors.NewInvalidInputError("command", "log add", "usage: pt log add <task-id> [duration] [--start time] [--end time]")
	if len(args) < 1 || len(args) > 2 {
		return usage
	}

	taskID, err := parseTaskID(args[0])
	if err != nil {
		return c.errorHandler.Handle("log time", err)
	}

	start, end, err := c.interval(args[1:])
	if err != nil {
		return c.errorHandler.Handle("log time", err)
	}

	log, err := c.businessAPI.LogTime(ctx, taskID, start, end)
	if err != nil {
		return c.errorHandler.Handle("log time", err)
	}

	c.app.printf("Logged %s on task %d (%s)\n", export.FormatDuration(log.Duration()), taskID, log.Date)
	return nil
}

func (c *LogAddCommand) interval(rest []string) (time.Time, time.Time, error) {
	end := timeNow()
	if c.opts.End != "" {
		parsed, err := c.app.parseTimestamp("end", c.opts.End)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		end = parsed
	}

	if len(rest) == 1 {
		if c.opts.Start != "" {
			return time.Time{}, time.Time{}, errors.NewInvalidInputError("start", c.opts.Start, "cannot be combined with a duration")
		}
		d, err := parseTimeShorthand(rest[0])
		if err != nil {
			return time.Time{}, time.Time{}, errors.NewInvalidInputError("duration", rest[0], err.Error())
		}
		return end.Add(-d), end, nil
	}

	if c.opts.Start == "" {
		return time.Time{}, time.Time{}, errors.NewInvalidInputError("start", "", "a duration or --start is required")
	}
	start, err := c.app.parseTimestamp("start", c.opts.Start)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}
