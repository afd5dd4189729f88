package cli

import (
	"context"
	"strings"

	"github.com/dustin/go-humanize"

	"project-tracker/internal/api"
	"project-tracker/internal/errors"
	"project-tracker/internal/services"
)

// ProjectAddCommand handles "project add"
type ProjectAddCommand struct {
	app          *App
	businessAPI  api.BusinessAPI
	errorHandler *ErrorHandler
	input        services.ProjectInput
}

// NewProjectAddCommand creates a new project add handler; input carries flag values
func NewProjectAddCommand(app *App, input services.ProjectInput) *ProjectAddCommand {
	return &ProjectAddCommand{
		app:          app,
		businessAPI:  app.businessAPI,
		errorHandler: NewErrorHandler(),
		input:        input,
	}
}

// Execute runs the project add command
func (c *ProjectAddCommand) Execute(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return errors.NewInvalidInputError("command", "project add", "usage: pt project add \"project name\"")
	}

	input := c.input
	input.Name = strings.Join(args, " ")

	project, err := c.businessAPI.CreateProject(ctx, input)
	if err != nil {
		return c.errorHandler.Handle("create project", err)
	}

	c.app.printf("Created project %d: %s\n", project.ID, project.Name)
	return nil
}

// ProjectListCommand handles "project list"
type ProjectListCommand struct {
	app          *App
	businessAPI  api.BusinessAPI
	errorHandler *ErrorHandler
}

// NewProjectListCommand creates a new project list handler
func NewProjectListCommand(app *App) *ProjectListCommand {
	return &ProjectListCommand{
		app:          app,
		businessAPI:  app.businessAPI,
		errorHandler: NewErrorHandler(),
	}
}

// Execute runs the project list command
func (c *ProjectListCommand) Execute(ctx context.Context, args []string) error {
	projects, err := c.businessAPI.ListProjects(ctx)
	if err != nil {
		return c.errorHandler.Handle("list projects", err)
	}

	if len(projects) == 0 {
		c.app.printf("No projects found.\n")
		return nil
	}

	c.app.printf("%-6s %-30s %-12s %12s\n", "ID", "NAME", "STATUS", "BUDGET")
	for _, p := range projects {
		c.app.printf("%-6d %-30s %-12s %12s\n", p.ID, p.Name, p.Status, humanize.CommafWithDigits(p.Budget, 2))
	}
	return nil
}

// ProjectUpdateCommand handles "project update"
type ProjectUpdateCommand struct {
	app          *App
	businessAPI  api.BusinessAPI
	errorHandler *ErrorHandler
	update       services.ProjectUpdate
}

// NewProjectUpdateCommand creates a new project update handler; update holds
// only the flags that were set
func NewProjectUpdateCommand(app *App, update services.ProjectUpdate) *ProjectUpdateCommand {
	return &ProjectUpdateCommand{
		app:          app,
		businessAPI:  app.businessAPI,
		errorHandler: NewErrorHandler(),
		update:       update,
	}
}

// Execute runs the project update command
func (c *ProjectUpdateCommand) Execute(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.NewInvalidInputError("command", "project update", "usage: pt project update <project-id> [--name ...]")
	}
	id, err := parseID("project_id", args[0])
	if err != nil {
		return err
	}

	project, err := c.businessAPI.UpdateProject(ctx, id, c.update)
	if err != nil {
		return c.errorHandler.Handle("update project", err)
	}

	c.app.printf("Updated project %d: %s (%s)\n", project.ID, project.Name, project.Status)
	return nil
}

// ProjectDeleteCommand handles "project delete"
type ProjectDeleteCommand struct {
	app          *App
	businessAPI  api.BusinessAPI
	errorHandler *ErrorHandler
}

// NewProjectDeleteCommand creates a new project delete handler
func NewProjectDeleteCommand(app *App) *ProjectDeleteCommand {
	return &ProjectDeleteCommand{
		app:          app,
		businessAPI:  app.businessAPI,
		errorHandler: NewErrorHandler(),
	}
}

// Execute runs the project delete command
func (c *ProjectDeleteCommand) Execute(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.NewInvalidInputError("command", "project delete", "usage: pt project delete <project-id>")
	}
	id, err := parseID("project_id", args[0])
	if err != nil {
		return err
	}

	if err := c.businessAPI.DeleteProject(ctx, id); err != nil {
		return c.errorHandler.Handle("delete project", err)
	}

	c.app.printf("Deleted project %d\n", id)
	return nil
}
