package validation

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"project-tracker/internal/config"
	"project-tracker/internal/domain"
)

// Validator provides common validation utilities
type Validator struct {
	config *config.Config
}

// NewValidator creates a validator with default limits
func NewValidator() *Validator {
	return &Validator{}
}

// NewValidatorWithConfig creates a validator with configured limits
func NewValidatorWithConfig(cfg *config.Config) *Validator {
	return &Validator{config: cfg}
}

// IsNonEmptyString checks if a string is not empty after trimming whitespace
func (v *Validator) IsNonEmptyString(s string) bool {
	return strings.TrimSpace(s) != ""
}

// IsValidStringLength checks the trimmed length in characters
func (v *Validator) IsValidStringLength(s string, min, max int) bool {
	length := utf8.RuneCountInString(strings.TrimSpace(s))
	return length >= min && length <= max
}

// IsValidTaskTitleLength checks a title against the configured limits
func (v *Validator) IsValidTaskTitleLength(title string) bool {
	return v.IsValidStringLength(title, v.TaskTitleMinLength(), v.TaskTitleMaxLength())
}

// HasNoControlCharacters rejects newlines, tabs and other control characters
func (v *Validator) HasNoControlCharacters(s string) bool {
	for _, r := range s {
		if unicode.IsControl(r) {
			return false
		}
	}
	return true
}

// IsValidTimeRange checks that end is not before start
func (v *Validator) IsValidTimeRange(start, end time.Time) bool {
	return !end.Before(start)
}

// IsValidDuration checks a logged duration is non-negative and within the maximum
func (v *Validator) IsValidDuration(duration time.Duration) bool {
	return duration >= 0 && duration <= v.MaxDuration()
}

// IsValidID checks if a record ID is valid (positive)
func (v *Validator) IsValidID(id int64) bool {
	return id > 0
}

// IsValidDate checks an optional YYYY-MM-DD date; empty is valid
func (v *Validator) IsValidDate(s string) bool {
	if s == "" {
		return true
	}
	_, err := time.Parse(domain.DateLayout, s)
	return err == nil
}

// IsReasonableDate checks if a date is within reasonable bounds
func (v *Validator) IsReasonableDate(t time.Time) bool {
	now := time.Now()
	// Allow dates from 10 years ago to 1 year in the future
	return t.After(now.AddDate(-10, 0, 0)) && t.Before(now.AddDate(1, 0, 0))
}

// TaskTitleMinLength returns the configured minimum title length or default
func (v *Validator) TaskTitleMinLength() int {
	if v.config != nil {
		return v.config.Validation.TaskTitleMinLength
	}
	return 1
}

// TaskTitleMaxLength returns the configured maximum title length or default
func (v *Validator) TaskTitleMaxLength() int {
	if v.config != nil {
		return v.config.Validation.TaskTitleMaxLength
	}
	return 255
}

// MaxDuration returns the configured maximum log duration or default
func (v *Validator) MaxDuration() time.Duration {
	if v.config != nil {
		return v.config.Validation.MaxDuration
	}
	return 24 * time.Hour
}
