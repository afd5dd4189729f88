package services

import (
	"context"
	"strconv"
	"strings"
	"time"

	"project-tracker/internal/config"
	"project-tracker/internal/domain"
	"project-tracker/internal/errors"
	"project-tracker/internal/logging"
	"project-tracker/internal/validation"
)

// catalogServiceImpl implements the CatalogService interface
type catalogServiceImpl struct {
	store            RecordStore
	logger           *logging.Logger
	taskValidator    *validation.TaskValidator
	timeLogValidator *validation.TimeLogValidator
	projectValidator *validation.ProjectValidator
}

// NewCatalogService creates a new CatalogService instance. cfg may be nil
// to use the default validation limits.
func NewCatalogService(store RecordStore, cfg *config.Config, logger *logging.Logger) CatalogService {
	if logger == nil {
		logger = logging.Nop()
	}

	svc := &catalogServiceImpl{
		store:            store,
		logger:           logger.With(logging.F("component", "catalog")),
		taskValidator:    validation.NewTaskValidator(),
		timeLogValidator: validation.NewTimeLogValidator(),
		projectValidator: validation.NewProjectValidator(),
	}
	if cfg != nil {
		svc.taskValidator = validation.NewTaskValidatorWithConfig(cfg)
		svc.timeLogValidator = validation.NewTimeLogValidatorWithConfig(cfg)
	}
	return svc
}

// CreateProject validates and stores a new project
func (c *catalogServiceImpl) CreateProject(ctx context.Context, input ProjectInput) (*domain.Project, error) {
	project := domain.Project{
		Name:      strings.TrimSpace(input.Name),
		Status:    strings.TrimSpace(input.Status),
		Budget:    input.Budget,
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
		ClientID:  input.ClientID,
	}
	if project.Status == "" {
		project.Status = domain.DefaultProjectStatus
	}

	if err := c.projectValidator.ValidateProjectForCreation(project); err != nil {
		return nil, err
	}

	created, err := c.store.CreateProject(ctx, project)
	if err != nil {
		return nil, err
	}
	c.logger.Info("project created", logging.F("project_id", created.ID))
	return created, nil
}

// ListProjects returns every project
func (c *catalogServiceImpl) ListProjects(ctx context.Context) ([]domain.Project, error) {
	return c.store.FetchProjects(ctx)
}

// GetProject returns one project
func (c *catalogServiceImpl) GetProject(ctx context.Context, id int64) (*domain.Project, error) {
	if id <= 0 {
		return nil, errors.NewInvalidInputError("project_id", id, "must be a positive integer")
	}
	return c.store.FetchProject(ctx, id)
}

// UpdateProject applies the non-nil fields of update to an existing project
func (c *catalogServiceImpl) UpdateProject(ctx context.Context, id int64, update ProjectUpdate) (*domain.Project, error) {
	project, err := c.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		project.Name = strings.TrimSpace(*update.Name)
	}
	if update.Status != nil {
		project.Status = strings.TrimSpace(*update.Status)
	}
	if update.Budget != nil {
		project.Budget = *update.Budget
	}
	if update.StartDate != nil {
		project.StartDate = strings.TrimSpace(*update.StartDate)
	}
	if update.EndDate != nil {
		project.EndDate = strings.TrimSpace(*update.EndDate)
	}
	if update.ClientID != nil {
		project.ClientID = *update.ClientID
	}
	if project.Status == "" {
		project.Status = domain.DefaultProjectStatus
	}

	if err := c.projectValidator.ValidateProjectForUpdate(*project); err != nil {
		return nil, err
	}

	updated, err := c.store.UpdateProject(ctx, *project)
	if err != nil {
		return nil, err
	}
	c.logger.Info("project updated", logging.F("project_id", id))
	return updated, nil
}

// DeleteProject removes a project. Its tasks and their logged time are kept.
func (c *catalogServiceImpl) DeleteProject(ctx context.Context, id int64) error {
	if _, err := c.GetProject(ctx, id); err != nil {
		return err
	}
	if err := c.store.DeleteProject(ctx, id); err != nil {
		return err
	}
	c.logger.Info("project deleted", logging.F("project_id", id))
	return nil
}

// CreateTask validates and stores a new task with default priority and status
func (c *catalogServiceImpl) CreateTask(ctx context.Context, input TaskInput) (*domain.Task, error) {
	task := domain.NewTask(input.Title, input.ProjectID)
	if p := strings.TrimSpace(input.Priority); p != "" {
		task.Priority = p
	}
	if s := strings.TrimSpace(input.Status); s != "" {
		task.Status = s
	}
	task.DueDate = strings.TrimSpace(input.DueDate)

	if err := c.taskValidator.ValidateTaskForCreation(task); err != nil {
		return nil, err
	}

	if err := c.requireProject(ctx, task.ProjectID); err != nil {
		return nil, err
	}

	created, err := c.store.CreateTask(ctx, task)
	if err != nil {
		return nil, err
	}
	c.logger.Info("task created", logging.F("task_id", created.ID), logging.F("project_id", created.ProjectID))
	return created, nil
}

// ListTasks returns every task, optionally limited to one project
func (c *catalogServiceImpl) ListTasks(ctx context.Context, projectID string) ([]domain.Task, error) {
	tasks, err := c.store.FetchTasks(ctx)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(projectID) == "" {
		return tasks, nil
	}

	filtered := make([]domain.Task, 0, len(tasks))
	for _, task := range tasks {
		if task.BelongsTo(projectID) {
			filtered = append(filtered, task)
		}
	}
	return filtered, nil
}

// GetTask returns one task
func (c *catalogServiceImpl) GetTask(ctx context.Context, id int64) (*domain.Task, error) {
	if err := c.taskValidator.ValidateTaskID(id); err != nil {
		return nil, err
	}
	return c.store.FetchTask(ctx, id)
}

// UpdateTask applies the non-nil fields of update to an existing task
func (c *catalogServiceImpl) UpdateTask(ctx context.Context, id int64, update TaskUpdate) (*domain.Task, error) {
	task, err := c.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}
	previousProject := task.ProjectID

	if update.Title != nil {
		task.Title = strings.TrimSpace(*update.Title)
	}
	if update.ProjectID != nil {
		task.ProjectID = domain.NormalizeProjectID(*update.ProjectID)
	}
	if update.Priority != nil {
		task.Priority = strings.TrimSpace(*update.Priority)
	}
	if update.Status != nil {
		task.Status = strings.TrimSpace(*update.Status)
	}
	if update.DueDate != nil {
		task.DueDate = strings.TrimSpace(*update.DueDate)
	}
	if task.Priority == "" {
		task.Priority = domain.DefaultTaskPriority
	}
	if task.Status == "" {
		task.Status = domain.DefaultTaskStatus
	}

	if err := c.taskValidator.ValidateTaskForUpdate(*task); err != nil {
		return nil, err
	}
	if !task.BelongsTo(previousProject) {
		if err := c.requireProject(ctx, task.ProjectID); err != nil {
			return nil, err
		}
	}

	updated, err := c.store.UpdateTask(ctx, *task)
	if err != nil {
		return nil, err
	}
	c.logger.Info("task updated", logging.F("task_id", id), logging.F("project_id", updated.ProjectID))
	return updated, nil
}

// UpdateTaskStatus changes only the status of a task
func (c *catalogServiceImpl) UpdateTaskStatus(ctx context.Context, id int64, status string) (*domain.Task, error) {
	if err := c.taskValidator.ValidateTaskStatus(status); err != nil {
		return nil, err
	}
	return c.UpdateTask(ctx, id, TaskUpdate{Status: &status})
}

// DeleteTask removes a task. Logs already recorded against it stay in the
// store and keep counting toward the global report.
func (c *catalogServiceImpl) DeleteTask(ctx context.Context, id int64) error {
	if _, err := c.GetTask(ctx, id); err != nil {
		return err
	}
	if err := c.store.DeleteTask(ctx, id); err != nil {
		return err
	}
	c.logger.Info("task deleted", logging.F("task_id", id))
	return nil
}

// requireProject checks that a numeric project reference points at an
// existing project. Non-numeric references are not checked.
func (c *catalogServiceImpl) requireProject(ctx context.Context, projectID string) error {
	id, err := strconv.ParseInt(projectID, 10, 64)
	if err != nil {
		return nil
	}
	_, err = c.store.FetchProject(ctx, id)
	return err
}

// LogTime records a completed interval against a task
func (c *catalogServiceImpl) LogTime(ctx context.Context, taskID int64, start, end time.Time) (*domain.TimeLog, error) {
	if err := c.timeLogValidator.ValidateInterval(taskID, start, end); err != nil {
		return nil, err
	}
	if _, err := c.store.FetchTask(ctx, taskID); err != nil {
		return nil, err
	}

	created, err := c.store.CreateTimeLog(ctx, domain.NewTimeLog(taskID, start.UTC(), end.UTC()))
	if err != nil {
		return nil, err
	}
	c.logger.Info("time logged",
		logging.F("task_id", taskID),
		logging.F("duration_ms", created.Duration()),
	)
	return created, nil
}
