package validation

import (
	"strings"

	"project-tracker/internal/domain"
)

// ProjectValidator provides validation for project operations
type ProjectValidator struct {
	validator *Validator
}

// NewProjectValidator creates a project validator
func NewProjectValidator() *ProjectValidator {
	return &ProjectValidator{validator: NewValidator()}
}

// ValidateProjectForCreation validates a new project
func (pv *ProjectValidator) ValidateProjectForCreation(project domain.Project) error {
	ve := NewValidationError()
	name := strings.TrimSpace(project.Name)

	if name == "" {
		ve.AddRequiredError("name")
	} else if !pv.validator.IsValidStringLength(name, 1, 255) {
		ve.AddInvalidLengthError("name", name, 1, 255)
	}

	if project.Budget < 0 {
		ve.AddInvalidValueError("budget", project.Budget, "must not be negative")
	}
	if !pv.validator.IsValidDate(project.StartDate) {
		ve.AddInvalidFormatError("startDate", project.StartDate, domain.DateLayout)
	}
	if !pv.validator.IsValidDate(project.EndDate) {
		ve.AddInvalidFormatError("endDate", project.EndDate, domain.DateLayout)
	}
	// dates share one layout, so lexical order is chronological
	if project.StartDate != "" && project.EndDate != "" && project.EndDate < project.StartDate {
		ve.AddInvalidRangeError("dateRange", []string{project.StartDate, project.EndDate}, "end date must not be before start date")
	}

	return ve.result()
}

// ValidateProjectForUpdate validates a project after changes were applied
func (pv *ProjectValidator) ValidateProjectForUpdate(project domain.Project) error {
	ve := NewValidationError()
	if !pv.validator.IsValidID(project.ID) {
		ve.AddInvalidValueError("projectId", project.ID, "must be a positive integer")
	}
	ve.Merge(pv.ValidateProjectForCreation(project))
	return ve.result()
}
