package sqldb

import (
	"database/sql"
)

// Scanner interface defines the common scanning behavior for both sql.Row and sql.Rows
type Scanner interface {
	Scan(dest ...interface{}) error
}

// Rows interface defines the common behavior for sql.Rows
type Rows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

// scanAll drains rows through scanOne
func scanAll[T any](rows Rows, scanOne func(Scanner) (*T, error)) ([]*T, error) {
	var results []*T
	for rows.Next() {
		item, err := scanOne(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return results, nil
}

// ScanProject scans a single project row
func ScanProject(scanner Scanner) (*Project, error) {
	project := &Project{}
	err := scanner.Scan(
		&project.ID,
		&project.Name,
		&project.Status,
		&project.Budget,
		&project.StartDate,
		&project.EndDate,
		&project.ClientID,
	)
	if err != nil {
		return nil, err
	}
	return project, nil
}

// ScanProjects scans multiple project rows
func ScanProjects(rows Rows) ([]*Project, error) {
	return scanAll(rows, ScanProject)
}

// ScanTask scans a single task row including the joined timer start
func ScanTask(scanner Scanner) (*Task, error) {
	task := &Task{}
	var startedAt sql.NullString

	err := scanner.Scan(
		&task.ID,
		&task.Title,
		&task.ProjectID,
		&task.Priority,
		&task.Status,
		&task.DueDate,
		&startedAt,
	)
	if err != nil {
		return nil, err
	}

	task.TimerStartedAt, err = ParseNullTimeFromDB(startedAt)
	if err != nil {
		return nil, err
	}
	return task, nil
}

// ScanTasks scans multiple task rows
func ScanTasks(rows Rows) ([]*Task, error) {
	return scanAll(rows, ScanTask)
}

// ScanTimeLog scans a single time log row
func ScanTimeLog(scanner Scanner) (*TimeLog, error) {
	log := &TimeLog{}
	var startTime, endTime string
	var duration sql.NullInt64

	err := scanner.Scan(
		&log.ID,
		&log.Name,
		&log.TaskID,
		&startTime,
		&endTime,
		&duration,
		&log.LogDate,
	)
	if err != nil {
		return nil, err
	}

	if log.StartTime, err = ParseTimeFromDB(startTime); err != nil {
		return nil, err
	}
	if log.EndTime, err = ParseTimeFromDB(endTime); err != nil {
		return nil, err
	}
	if duration.Valid {
		d := duration.Int64
		log.DurationMs = &d
	}

	return log, nil
}

// ScanTimeLogs scans multiple time log rows
func ScanTimeLogs(rows Rows) ([]*TimeLog, error) {
	return scanAll(rows, ScanTimeLog)
}

// ScanActiveTimer scans a single active timer row
func ScanActiveTimer(scanner Scanner) (*ActiveTimer, error) {
	timer := &ActiveTimer{}
	var startedAt string

	if err := scanner.Scan(&timer.TaskID, &startedAt); err != nil {
		return nil, err
	}

	var err error
	if timer.StartedAt, err = ParseTimeFromDB(startedAt); err != nil {
		return nil, err
	}
	return timer, nil
}

// ScanActiveTimers scans multiple active timer rows
func ScanActiveTimers(rows Rows) ([]*ActiveTimer, error) {
	return scanAll(rows, ScanActiveTimer)
}

// ScanInvoice scans a single invoice row
func ScanInvoice(scanner Scanner) (*Invoice, error) {
	invoice := &Invoice{}
	err := scanner.Scan(
		&invoice.ID,
		&invoice.Name,
		&invoice.Amount,
		&invoice.Status,
		&invoice.DueDate,
		&invoice.PaymentDate,
		&invoice.ClientID,
		&invoice.ProjectID,
	)
	if err != nil {
		return nil, err
	}
	return invoice, nil
}

// ScanInvoices scans multiple invoice rows
func ScanInvoices(rows Rows) ([]*Invoice, error) {
	return scanAll(rows, ScanInvoice)
}
