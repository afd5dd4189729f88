package apper

import (
	"math"
	"strings"

	"project-tracker/internal/domain"
)

var (
	projectFields = []string{"Name", "status", "budget", "startDate", "endDate", "clientId"}
	taskFields    = []string{"Name", "title", "priority", "status", "dueDate", "projectId"}
	timeLogFields = []string{"Name", "task_id", "start_time", "end_time", "duration", "date"}
	invoiceFields = []string{"Name", "amount", "status", "dueDate", "paymentDate", "clientId", "projectId"}
)

// projectRecord is a project as the backend stores it
type projectRecord struct {
	ID        int64     `json:"Id,omitempty"`
	Name      string    `json:"Name"`
	Status    string    `json:"status,omitempty"`
	Budget    float64   `json:"budget"`
	StartDate string    `json:"startDate,omitempty"`
	EndDate   string    `json:"endDate,omitempty"`
	ClientID  RecordRef `json:"clientId"`
}

func (r projectRecord) toDomain() domain.Project {
	return domain.Project{
		ID:        r.ID,
		Name:      r.Name,
		Status:    r.Status,
		Budget:    r.Budget,
		StartDate: r.StartDate,
		EndDate:   r.EndDate,
		ClientID:  r.ClientID.Int64(),
	}
}

func projectFromDomain(p domain.Project) projectRecord {
	rec := projectRecord{
		ID:        p.ID,
		Name:      p.Name,
		Status:    p.Status,
		Budget:    p.Budget,
		StartDate: p.StartDate,
		EndDate:   p.EndDate,
	}
	if p.ClientID > 0 {
		rec.ClientID = RefInt(p.ClientID)
	}
	return rec
}

// taskRecord is a task as the backend stores it
type taskRecord struct {
	ID        int64     `json:"Id,omitempty"`
	Name      string    `json:"Name"`
	Title     string    `json:"title"`
	Priority  string    `json:"priority,omitempty"`
	Status    string    `json:"status,omitempty"`
	DueDate   string    `json:"dueDate,omitempty"`
	ProjectID RecordRef `json:"projectId"`
}

// toDomain converts the record; the backend keeps no timer state so
// ActiveTimer is always nil.
func (r taskRecord) toDomain() domain.Task {
	title := r.Title
	if strings.TrimSpace(title) == "" {
		title = r.Name
	}
	return domain.Task{
		ID:        r.ID,
		Title:     title,
		ProjectID: domain.NormalizeProjectID(r.ProjectID.ID),
		Priority:  r.Priority,
		Status:    r.Status,
		DueDate:   r.DueDate,
	}
}

func taskFromDomain(t domain.Task) taskRecord {
	return taskRecord{
		ID:        t.ID,
		Name:      t.Title,
		Title:     t.Title,
		Priority:  t.Priority,
		Status:    t.Status,
		DueDate:   t.DueDate,
		ProjectID: Ref(t.ProjectID),
	}
}

// timeLogRecord is a time log as the backend stores it
type timeLogRecord struct {
	ID        int64     `json:"Id,omitempty"`
	Name      string    `json:"Name"`
	TaskID    RecordRef `json:"task_id"`
	StartTime string    `json:"start_time"`
	EndTime   string    `json:"end_time"`
	Duration  *float64  `json:"duration"`
	Date      string    `json:"date"`
}

func (r timeLogRecord) toDomain() domain.TimeLog {
	log := domain.TimeLog{
		ID:        r.ID,
		Name:      r.Name,
		TaskID:    r.TaskID.Int64(),
		StartTime: parseTimestamp(r.StartTime),
		EndTime:   parseTimestamp(r.EndTime),
		Date:      r.Date,
	}
	if r.Duration != nil {
		log.DurationMs = domain.Int64Ptr(int64(math.Round(*r.Duration)))
	}
	return log
}

func timeLogFromDomain(l domain.TimeLog) timeLogRecord {
	name := l.Name
	if name == "" {
		name = domain.DefaultTimeLogName(l.EndTime)
	}
	rec := timeLogRecord{
		Name:      name,
		TaskID:    RefInt(l.TaskID),
		StartTime: formatTimestamp(l.StartTime),
		EndTime:   formatTimestamp(l.EndTime),
		Date:      l.Date,
	}
	if l.DurationMs != nil {
		d := float64(*l.DurationMs)
		rec.Duration = &d
	}
	return rec
}

// invoiceRecord is an invoice as the backend stores it
type invoiceRecord struct {
	ID          int64     `json:"Id,omitempty"`
	Name        string    `json:"Name"`
	Amount      float64   `json:"amount"`
	Status      string    `json:"status,omitempty"`
	DueDate     string    `json:"dueDate,omitempty"`
	PaymentDate string    `json:"paymentDate,omitempty"`
	ClientID    RecordRef `json:"clientId"`
	ProjectID   RecordRef `json:"projectId"`
}

func (r invoiceRecord) toDomain() domain.Invoice {
	return domain.Invoice{
		ID:          r.ID,
		Name:        r.Name,
		Amount:      r.Amount,
		Status:      r.Status,
		DueDate:     dateOnly(r.DueDate),
		PaymentDate: dateOnly(r.PaymentDate),
		ClientID:    r.ClientID.Int64(),
		ProjectID:   r.ProjectID.Int64(),
	}
}

func invoiceFromDomain(i domain.Invoice) invoiceRecord {
	rec := invoiceRecord{
		ID:          i.ID,
		Name:        i.Name,
		Amount:      i.Amount,
		Status:      i.Status,
		DueDate:     i.DueDate,
		PaymentDate: i.PaymentDate,
		ProjectID:   RefInt(i.ProjectID),
	}
	if i.ClientID > 0 {
		rec.ClientID = RefInt(i.ClientID)
	}
	return rec
}

// dateOnly reduces a backend timestamp to its calendar date
func dateOnly(s string) string {
	t := parseTimestamp(s)
	if t.IsZero() {
		return strings.TrimSpace(s)
	}
	return t.UTC().Format(domain.DateLayout)
}
