package domain

import (
	"project-tracker/internal/repository/sqldb"
)

// ProjectMapper handles conversion between domain and database Project models.
type ProjectMapper struct{}

// ToDatabase converts a domain Project to a database Project.
func (m *ProjectMapper) ToDatabase(p Project) sqldb.Project {
	return sqldb.Project{
		ID:        p.ID,
		Name:      p.Name,
		Status:    p.Status,
		Budget:    p.Budget,
		StartDate: p.StartDate,
		EndDate:   p.EndDate,
		ClientID:  p.ClientID,
	}
}

// FromDatabase converts a database Project to a domain Project.
func (m *ProjectMapper) FromDatabase(p sqldb.Project) Project {
	return Project{
		ID:        p.ID,
		Name:      p.Name,
		Status:    p.Status,
		Budget:    p.Budget,
		StartDate: p.StartDate,
		EndDate:   p.EndDate,
		ClientID:  p.ClientID,
	}
}

// FromDatabaseSlice converts database Projects to domain Projects.
func (m *ProjectMapper) FromDatabaseSlice(rows []*sqldb.Project) []Project {
	projects := make([]Project, len(rows))
	for i, row := range rows {
		projects[i] = m.FromDatabase(*row)
	}
	return projects
}

// TaskMapper handles conversion between domain and database Task models.
type TaskMapper struct{}

// ToDatabase converts a domain Task to a database Task. The active timer
// lives in its own table and is not carried over.
func (m *TaskMapper) ToDatabase(t Task) sqldb.Task {
	return sqldb.Task{
		ID:        t.ID,
		Title:     t.Title,
		ProjectID: NormalizeProjectID(t.ProjectID),
		Priority:  t.Priority,
		Status:    t.Status,
		DueDate:   t.DueDate,
	}
}

// FromDatabase converts a database Task to a domain Task.
func (m *TaskMapper) FromDatabase(t sqldb.Task) Task {
	task := Task{
		ID:        t.ID,
		Title:     t.Title,
		ProjectID: t.ProjectID,
		Priority:  t.Priority,
		Status:    t.Status,
		DueDate:   t.DueDate,
	}
	if t.TimerStartedAt != nil {
		task.ActiveTimer = &ActiveTimer{TaskID: t.ID, StartedAt: *t.TimerStartedAt}
	}
	return task
}

// FromDatabaseSlice converts database Tasks to domain Tasks.
func (m *TaskMapper) FromDatabaseSlice(rows []*sqldb.Task) []Task {
	tasks := make([]Task, len(rows))
	for i, row := range rows {
		tasks[i] = m.FromDatabase(*row)
	}
	return tasks
}

// TimeLogMapper handles conversion between domain and database TimeLog models.
type TimeLogMapper struct{}

// ToDatabase converts a domain TimeLog to a database TimeLog.
func (m *TimeLogMapper) ToDatabase(l TimeLog) sqldb.TimeLog {
	date := l.Date
	if date == "" {
		date = l.StartTime.UTC().Format(DateLayout)
	}
	return sqldb.TimeLog{
		ID:         l.ID,
		Name:       l.Name,
		TaskID:     l.TaskID,
		StartTime:  l.StartTime,
		EndTime:    l.EndTime,
		DurationMs: l.DurationMs,
		LogDate:    date,
	}
}

// FromDatabase converts a database TimeLog to a domain TimeLog.
func (m *TimeLogMapper) FromDatabase(l sqldb.TimeLog) TimeLog {
	return TimeLog{
		ID:         l.ID,
		Name:       l.Name,
		TaskID:     l.TaskID,
		StartTime:  l.StartTime,
		EndTime:    l.EndTime,
		DurationMs: l.DurationMs,
		Date:       l.LogDate,
	}
}

// FromDatabaseSlice converts database TimeLogs to domain TimeLogs.
func (m *TimeLogMapper) FromDatabaseSlice(rows []*sqldb.TimeLog) []TimeLog {
	logs := make([]TimeLog, len(rows))
	for i, row := range rows {
		logs[i] = m.FromDatabase(*row)
	}
	return logs
}

// ActiveTimerMapper handles conversion between domain and database timers.
type ActiveTimerMapper struct{}

// ToDatabase converts a domain ActiveTimer to a database ActiveTimer.
func (m *ActiveTimerMapper) ToDatabase(a ActiveTimer) sqldb.ActiveTimer {
	return sqldb.ActiveTimer{TaskID: a.TaskID, StartedAt: a.StartedAt}
}

// FromDatabase converts a database ActiveTimer to a domain ActiveTimer.
func (m *ActiveTimerMapper) FromDatabase(a sqldb.ActiveTimer) ActiveTimer {
	return ActiveTimer{TaskID: a.TaskID, StartedAt: a.StartedAt}
}

// InvoiceMapper handles conversion between domain and database Invoice models.
type InvoiceMapper struct{}

// ToDatabase converts a domain Invoice to a database Invoice.
func (m *InvoiceMapper) ToDatabase(i Invoice) sqldb.Invoice {
	return sqldb.Invoice{
		ID:          i.ID,
		Name:        i.Name,
		Amount:      i.Amount,
		Status:      i.Status,
		DueDate:     i.DueDate,
		PaymentDate: i.PaymentDate,
		ClientID:    i.ClientID,
		ProjectID:   i.ProjectID,
	}
}

// FromDatabase converts a database Invoice to a domain Invoice.
func (m *InvoiceMapper) FromDatabase(i sqldb.Invoice) Invoice {
	return Invoice{
		ID:          i.ID,
		Name:        i.Name,
		Amount:      i.Amount,
		Status:      i.Status,
		DueDate:     i.DueDate,
		PaymentDate: i.PaymentDate,
		ClientID:    i.ClientID,
		ProjectID:   i.ProjectID,
	}
}

// FromDatabaseSlice converts database Invoices to domain Invoices.
func (m *InvoiceMapper) FromDatabaseSlice(rows []*sqldb.Invoice) []Invoice {
	invoices := make([]Invoice, len(rows))
	for i, row := range rows {
		invoices[i] = m.FromDatabase(*row)
	}
	return invoices
}

// Mapper provides a unified interface for all mapping operations.
type Mapper struct {
	Project     *ProjectMapper
	Task        *TaskMapper
	TimeLog     *TimeLogMapper
	ActiveTimer *ActiveTimerMapper
	Invoice     *InvoiceMapper
}

// NewMapper creates a new Mapper instance with all sub-mappers.
func NewMapper() *Mapper {
	return &Mapper{
		Project:     &ProjectMapper{},
		Task:        &TaskMapper{},
		TimeLog:     &TimeLogMapper{},
		ActiveTimer: &ActiveTimerMapper{},
		Invoice:     &InvoiceMapper{},
	}
}
