package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"project-tracker/internal/domain"
)

// projectReportCSV writes one row per recent log
func projectReportCSV(w io.Writer, report *domain.ProjectTimeReport, opts Options) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"Log ID", "Task ID", "Task", "Start", "End", "Duration (ms)", "Duration", "Date"}); err != nil {
		return err
	}

	for _, log := range report.TimeLogs {
		row := []string{
			strconv.FormatInt(log.ID, 10),
			strconv.FormatInt(log.TaskID, 10),
			log.TaskTitle,
			log.StartTime.Local().Format(opts.timeFormat()),
			log.EndTime.Local().Format(opts.timeFormat()),
			strconv.FormatInt(log.Duration(), 10),
			FormatDuration(log.Duration()),
			log.Date,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// globalReportCSV writes one row per breakdown entry
func globalReportCSV(w io.Writer, report *domain.GlobalTimeReport) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"Task ID", "Task", "Project ID", "Total (ms)", "Total", "Entries", "Active Timer"}); err != nil {
		return err
	}

	for _, row := range report.TaskBreakdown {
		record := []string{
			strconv.FormatInt(row.TaskID, 10),
			row.TaskTitle,
			row.ProjectID,
			strconv.FormatInt(row.TotalTimeMs, 10),
			FormatDuration(row.TotalTimeMs),
			strconv.Itoa(row.EntryCount),
			strconv.FormatBool(row.HasActiveTimer),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
