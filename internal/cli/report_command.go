package cli

import (
	"context"
	"strings"

	"project-tracker/internal/api"
	"project-tracker/internal/errors"
	"project-tracker/internal/export"
)

// ReportCommand handles "report project <id>" and "report all"
type ReportCommand struct {
	app          *App
	businessAPI  api.BusinessAPI
	errorHandler *ErrorHandler
	global       bool
	format       string
}

// NewReportCommand creates a report handler; format falls back to the configured report format
func NewReportCommand(app *App, global bool, format string) *ReportCommand {
	if strings.TrimSpace(format) == "" {
		format = app.config.Display.ReportFormat
	}
	return &ReportCommand{
		app:          app,
		businessAPI:  app.businessAPI,
		errorHandler: NewErrorHandler(),
		global:       global,
		format:       format,
	}
}

// Execute runs the report command
func (c *ReportCommand) Execute(ctx context.Context, args []string) error {
	if _, err := export.ParseFormat(c.format); err != nil {
		return c.errorHandler.Handle("build report", err)
	}

	if c.global {
		if len(args) != 0 {
			return errors.NewInvalidInputError("command", "report all", "usage: pt report all")
		}
		report, err := c.businessAPI.GlobalReport(ctx)
		if err != nil {
			return c.errorHandler.Handle("build global report", err)
		}
		return export.WriteGlobalReport(c.app.out, report, c.format, c.app.exportOptions())
	}

	if len(args) != 1 || strings.TrimSpace(args[0]) == "" {
		return errors.NewInvalidInputError("command", "report project", "usage: pt report project <project-id>")
	}
	report, err := c.businessAPI.ProjectReport(ctx, args[0])
	if err != nil {
		return c.errorHandler.Handle("build project report", err)
	}
	return export.WriteProjectReport(c.app.out, report, c.format, c.app.exportOptions())
}
