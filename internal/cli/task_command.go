package cli

import (
	"context"
	"strings"

	"project-tracker/internal/api"
	"project-tracker/internal/domain"
	"project-tracker/internal/errors"
	"project-tracker/internal/services"
)

// TaskAddCommand handles "task add"
type TaskAddCommand struct {
	app          *App
	businessAPI  api.BusinessAPI
	errorHandler *ErrorHandler
	input        services.TaskInput
}

// NewTaskAddCommand creates a new task add handler; input carries flag values
func NewTaskAddCommand(app *App, input services.TaskInput) *TaskAddCommand {
	return &TaskAddCommand{
		app:          app,
		businessAPI:  app.businessAPI,
		errorHandler: NewErrorHandler(),
		input:        input,
	}
}

// Execute runs the task add command
func (c *TaskAddCommand) Execute(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return errors.NewInvalidInputError("command", "task add", "usage: pt task add --project <id> \"task title\"")
	}

	input := c.input
	input.Title = strings.Join(args, " ")

	task, err := c.businessAPI.CreateTask(ctx, input)
	if err != nil {
		return c.errorHandler.Handle("create task", err)
	}

	c.app.printf("Created task %d: %s (project %s)\n", task.ID, task.Title, task.ProjectID)
	return nil
}

// TaskListCommand handles "task list"
type TaskListCommand struct {
	app          *App
	businessAPI  api.BusinessAPI
	errorHandler *ErrorHandler
	projectID    string
}

// NewTaskListCommand creates a new task list handler; an empty projectID lists every task
func NewTaskListCommand(app *App, projectID string) *TaskListCommand {
	return &TaskListCommand{
		app:          app,
		businessAPI:  app.businessAPI,
		errorHandler: NewErrorHandler(),
		projectID:    projectID,
	}
}

// Execute runs the task list command
func (c *TaskListCommand) Execute(ctx context.Context, args []string) error {
	tasks, err := c.businessAPI.ListTasks(ctx, c.projectID)
	if err != nil {
		return c.errorHandler.Handle("list tasks", err)
	}

	if len(tasks) == 0 {
		c.app.printf("No tasks found.\n")
		return nil
	}

	c.app.printf("%-6s %-30s %-8s %-8s %-12s %s\n", "ID", "TITLE", "PROJECT", "PRIORITY", "STATUS", "TIMER")
	for _, t := range tasks {
		timer := ""
		if t.HasActiveTimer() {
			timer = "running"
		}
		c.app.printf("%-6d %-30s %-8s %-8s %-12s %s\n", t.ID, t.Title, t.ProjectID, t.Priority, t.Status, timer)
	}
	return nil
}

// TaskUpdateCommand handles "task update" and "task status"
type TaskUpdateCommand struct {
	app          *App
	businessAPI  api.BusinessAPI
	errorHandler *ErrorHandler
	update       services.TaskUpdate
	statusOnly   bool
}

// NewTaskUpdateCommand creates a new task update handler; update holds only
// the flags that were set
func NewTaskUpdateCommand(app *App, update services.TaskUpdate) *TaskUpdateCommand {
	return &TaskUpdateCommand{
		app:          app,
		businessAPI:  app.businessAPI,
		errorHandler: NewErrorHandler(),
		update:       update,
	}
}

// NewTaskStatusCommand creates a handler that takes the new status as its
// second argument
func NewTaskStatusCommand(app *App) *TaskUpdateCommand {
	cmd := NewTaskUpdateCommand(app, services.TaskUpdate{})
	cmd.statusOnly = true
	return cmd
}

// Execute runs the task update command
func (c *TaskUpdateCommand) Execute(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return errors.NewInvalidInputError("command", "task update", "usage: pt task update <task-id> [--title ...]")
	}
	id, err := parseTaskID(args[0])
	if err != nil {
		return err
	}

	var task *domain.Task
	if c.statusOnly {
		if len(args) != 2 {
			return errors.NewInvalidInputError("command", "task status", "usage: pt task status <task-id> <status>")
		}
		task, err = c.businessAPI.UpdateTaskStatus(ctx, id, args[1])
	} else {
		task, err = c.businessAPI.UpdateTask(ctx, id, c.update)
	}
	if err != nil {
		return c.errorHandler.Handle("update task", err)
	}

	c.app.printf("Updated task %d: %s [%s, %s] (project %s)\n", task.ID, task.Title, task.Priority, task.Status, task.ProjectID)
	return nil
}

// TaskDeleteCommand handles "task delete"
type TaskDeleteCommand struct {
	app          *App
	businessAPI  api.BusinessAPI
	errorHandler *ErrorHandler
}

// NewTaskDeleteCommand creates a new task delete handler
func NewTaskDeleteCommand(app *App) *TaskDeleteCommand {
	return &TaskDeleteCommand{
		app:          app,
		businessAPI:  app.businessAPI,
		errorHandler: NewErrorHandler(),
	}
}

// Execute runs the task delete command
func (c *TaskDeleteCommand) Execute(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.NewInvalidInputError("command", "task delete", "usage: pt task delete <task-id>")
	}
	id, err := parseTaskID(args[0])
	if err != nil {
		return err
	}

	if err := c.businessAPI.DeleteTask(ctx, id); err != nil {
		return c.errorHandler.Handle("delete task", err)
	}

	c.app.printf("Deleted task %d\n", id)
	return nil
}
