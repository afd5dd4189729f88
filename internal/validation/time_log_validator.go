package validation

import (
	"fmt"
	"time"

	"project-tracker/internal/config"
	"project-tracker/internal/domain"
)

// TimeLogValidator provides validation for time log operations
type TimeLogValidator struct {
	validator *Validator
}

// NewTimeLogValidator creates a time log validator with default limits
func NewTimeLogValidator() *TimeLogValidator {
	return &TimeLogValidator{validator: NewValidator()}
}

// NewTimeLogValidatorWithConfig creates a time log validator with configured limits
func NewTimeLogValidatorWithConfig(cfg *config.Config) *TimeLogValidator {
	return &TimeLogValidator{validator: NewValidatorWithConfig(cfg)}
}

// ValidateInterval validates a manually logged interval
func (tv *TimeLogValidator) ValidateInterval(taskID int64, start, end time.Time) error {
	ve := NewValidationError()

	if !tv.validator.IsValidID(taskID) {
		ve.AddInvalidValueError("taskId", taskID, "must be a positive integer")
	}

	if start.IsZero() {
		ve.AddRequiredError("startTime")
	} else if !tv.validator.IsReasonableDate(start) {
		ve.AddInvalidValueError("startTime", start, "must be within reasonable date range")
	}
	if end.IsZero() {
		ve.AddRequiredError("endTime")
	}

	if !start.IsZero() && !end.IsZero() {
		if !tv.validator.IsValidTimeRange(start, end) {
			ve.AddInvalidRangeError("timeRange", map[string]time.Time{"start": start, "end": end}, "end time must not be before start time")
		} else if duration := end.Sub(start); !tv.validator.IsValidDuration(duration) {
			ve.AddInvalidValueError("duration", duration, fmt.Sprintf("must be at most %s", tv.validator.MaxDuration()))
		}
	}

	return ve.result()
}

// ValidateTimeLog validates a complete log before it is sent to the store
func (tv *TimeLogValidator) ValidateTimeLog(log domain.TimeLog) error {
	ve := NewValidationError()
	ve.Merge(tv.ValidateInterval(log.TaskID, log.StartTime, log.EndTime))

	if log.DurationMs != nil && *log.DurationMs < 0 {
		ve.AddInvalidValueError("durationMs", *log.DurationMs, "must not be negative")
	}
	if log.Date != "" && !tv.validator.IsValidDate(log.Date) {
		ve.AddInvalidFormatError("date", log.Date, domain.DateLayout)
	}

	return ve.result()
}
