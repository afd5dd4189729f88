package validation

import (
	"strings"

	"project-tracker/internal/config"
	"project-tracker/internal/domain"
)

// TaskValidator provides validation for task operations
type TaskValidator struct {
	validator *Validator
}

// NewTaskValidator creates a task validator with default limits
func NewTaskValidator() *TaskValidator {
	return &TaskValidator{validator: NewValidator()}
}

// NewTaskValidatorWithConfig creates a task validator with configured limits
func NewTaskValidatorWithConfig(cfg *config.Config) *TaskValidator {
	return &TaskValidator{validator: NewValidatorWithConfig(cfg)}
}

// ValidateTaskTitle validates a title for creation or update
func (tv *TaskValidator) ValidateTaskTitle(title string) error {
	return tv.checkTitle(title).result()
}

func (tv *TaskValidator) checkTitle(title string) *ValidationError {
	ve := NewValidationError()
	trimmed := strings.TrimSpace(title)

	if !tv.validator.IsNonEmptyString(trimmed) {
		ve.AddRequiredError("title")
		return ve
	}

	if !tv.validator.IsValidTaskTitleLength(trimmed) {
		ve.AddInvalidLengthError("title", trimmed, tv.validator.TaskTitleMinLength(), tv.validator.TaskTitleMaxLength())
	}
	if !tv.validator.HasNoControlCharacters(trimmed) {
		ve.AddInvalidValueError("title", trimmed, "must not contain control characters")
	}
	return ve
}

// ValidateTaskForCreation validates a new task before it is sent to the store
func (tv *TaskValidator) ValidateTaskForCreation(task domain.Task) error {
	ve := tv.checkTitle(task.Title)

	if strings.TrimSpace(task.ProjectID) == "" {
		ve.AddRequiredError("projectId")
	}
	if !tv.validator.IsValidDate(task.DueDate) {
		ve.AddInvalidFormatError("dueDate", task.DueDate, domain.DateLayout)
	}

	return ve.result()
}

// ValidateTaskID validates a task ID
func (tv *TaskValidator) ValidateTaskID(id int64) error {
	ve := NewValidationError()
	if !tv.validator.IsValidID(id) {
		ve.AddInvalidValueError("taskId", id, "must be a positive integer")
	}
	return ve.result()
}

// ValidateTaskStatus validates a status change
func (tv *TaskValidator) ValidateTaskStatus(status string) error {
	ve := NewValidationError()
	trimmed := strings.TrimSpace(status)

	if trimmed == "" {
		ve.AddRequiredError("status")
	} else if !tv.validator.IsValidStringLength(trimmed, 1, 50) {
		ve.AddInvalidLengthError("status", trimmed, 1, 50)
	}
	return ve.result()
}

// ValidateTaskForUpdate validates a task after changes were applied
func (tv *TaskValidator) ValidateTaskForUpdate(task domain.Task) error {
	ve := NewValidationError()
	if !tv.validator.IsValidID(task.ID) {
		ve.AddInvalidValueError("taskId", task.ID, "must be a positive integer")
	}
	ve.Merge(tv.ValidateTaskForCreation(task))
	return ve.result()
}
