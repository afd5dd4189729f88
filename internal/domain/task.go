package domain

import (
	"strconv"
	"strings"
	"time"
)

// Task defaults applied when a record is created without them.
const (
	DefaultTaskPriority = "medium"
	DefaultTaskStatus   = "todo"
)

// Task represents a task in the domain model.
// This is a pure domain model without storage-specific concerns.
type Task struct {
	ID          int64        `json:"id" yaml:"id"`
	Title       string       `json:"title" yaml:"title"`
	ProjectID   string       `json:"projectId" yaml:"projectId"`
	Priority    string       `json:"priority,omitempty" yaml:"priority,omitempty"`
	Status      string       `json:"status,omitempty" yaml:"status,omitempty"`
	DueDate     string       `json:"dueDate,omitempty" yaml:"dueDate,omitempty"`
	ActiveTimer *ActiveTimer `json:"activeTimer,omitempty" yaml:"activeTimer,omitempty"`
}

// ActiveTimer marks a task that is currently being timed.
type ActiveTimer struct {
	TaskID    int64     `json:"taskId" yaml:"taskId"`
	StartedAt time.Time `json:"startedAt" yaml:"startedAt"`
}

// Elapsed returns how long the timer has been running at now.
func (a ActiveTimer) Elapsed(now time.Time) time.Duration {
	if now.Before(a.StartedAt) {
		return 0
	}
	return now.Sub(a.StartedAt)
}

// NewTask creates a new Task with defaults for priority and status.
func NewTask(title, projectID string) Task {
	return Task{
		Title:     strings.TrimSpace(title),
		ProjectID: NormalizeProjectID(projectID),
		Priority:  DefaultTaskPriority,
		Status:    DefaultTaskStatus,
	}
}

// HasActiveTimer reports whether the task's live timer state is set.
func (t Task) HasActiveTimer() bool {
	return t.ActiveTimer != nil
}

// BelongsTo compares project ids in their normalized string form.
func (t Task) BelongsTo(projectID string) bool {
	return NormalizeProjectID(t.ProjectID) == NormalizeProjectID(projectID)
}

// IsValid checks if the task has valid data.
func (t Task) IsValid() bool {
	return strings.TrimSpace(t.Title) != ""
}

// String returns the task title for display purposes.
func (t Task) String() string {
	return t.Title
}

// NormalizeProjectID trims whitespace and renders integer ids in base 10,
// so "5", " 5" and "005" all refer to the same project.
func NormalizeProjectID(id string) string {
	trimmed := strings.TrimSpace(id)
	if n, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
		return strconv.FormatInt(n, 10)
	}
	return trimmed
}
