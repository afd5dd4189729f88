package sqldb

import "time"

// Project is a row of the projects table
type Project struct {
	ID        int64
	Name      string
	Status    string
	Budget    float64
	StartDate string
	EndDate   string
	ClientID  int64
}

// Task is a row of the tasks table, joined with its active timer when one is running
type Task struct {
	ID             int64
	Title          string
	ProjectID      string
	Priority       string
	Status         string
	DueDate        string
	TimerStartedAt *time.Time // NULL when no timer is running
}

// TimeLog is a row of the time_logs table
type TimeLog struct {
	ID         int64
	Name       string
	TaskID     int64
	StartTime  time.Time
	EndTime    time.Time
	DurationMs *int64 // NULL for imported logs without a duration
	LogDate    string
}

// ActiveTimer is a row of the active_timers table
type ActiveTimer struct {
	TaskID    int64
	StartedAt time.Time
}

// Invoice is a row of the invoices table
type Invoice struct {
	ID          int64
	Name        string
	Amount      float64
	Status      string
	DueDate     string
	PaymentDate string
	ClientID    int64
	ProjectID   int64
}
