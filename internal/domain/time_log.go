package domain

import (
	"fmt"
	"time"
)

// DateLayout is the calendar date format stored on every time log.
const DateLayout = "2006-01-02"

// TimeLog is one completed timer interval recorded against a task.
type TimeLog struct {
	ID         int64     `json:"id" yaml:"id"`
	Name       string    `json:"name,omitempty" yaml:"name,omitempty"`
	TaskID     int64     `json:"taskId" yaml:"taskId"`
	StartTime  time.Time `json:"startTime" yaml:"startTime"`
	EndTime    time.Time `json:"endTime" yaml:"endTime"`
	DurationMs *int64    `json:"durationMs" yaml:"durationMs"`
	Date       string    `json:"date" yaml:"date"`
}

// NewTimeLog builds a log for the interval [start, end] with a measured duration.
func NewTimeLog(taskID int64, start, end time.Time) TimeLog {
	duration := end.Sub(start).Milliseconds()
	if duration < 0 {
		duration = 0
	}
	return TimeLog{
		Name:       DefaultTimeLogName(end),
		TaskID:     taskID,
		StartTime:  start,
		EndTime:    end,
		DurationMs: &duration,
		Date:       start.UTC().Format(DateLayout),
	}
}

// DefaultTimeLogName names a log after the moment it was recorded.
func DefaultTimeLogName(at time.Time) string {
	return fmt.Sprintf("Time Log %d", at.UnixMilli())
}

// Duration returns the recorded duration in milliseconds; a missing
// duration counts as zero.
func (l TimeLog) Duration() int64 {
	if l.DurationMs == nil {
		return 0
	}
	return *l.DurationMs
}

// IsValid checks if the time log has valid data.
func (l TimeLog) IsValid() bool {
	if l.TaskID <= 0 || l.StartTime.IsZero() || l.EndTime.IsZero() {
		return false
	}
	if l.EndTime.Before(l.StartTime) {
		return false
	}
	return l.DurationMs == nil || *l.DurationMs >= 0
}

// Int64Ptr is a convenience for optional durations.
func Int64Ptr(v int64) *int64 {
	return &v
}
