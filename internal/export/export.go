package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"project-tracker/internal/config"
	"project-tracker/internal/domain"
	"project-tracker/internal/errors"
)

// Options controls how reports are rendered
type Options struct {
	// TimeFormat is the layout used for timestamps in text and csv output
	TimeFormat string
	// RelativeTimes renders text timestamps as "3 hours ago"
	RelativeTimes bool
	// Now anchors relative times; zero means time.Now
	Now time.Time
}

func (o Options) timeFormat() string {
	if o.TimeFormat == "" {
		return time.RFC3339
	}
	return o.TimeFormat
}

func (o Options) now() time.Time {
	if o.Now.IsZero() {
		return time.Now()
	}
	return o.Now
}

// ParseFormat normalizes a format name
func ParseFormat(format string) (string, error) {
	f := strings.ToLower(strings.TrimSpace(format))
	switch f {
	case "":
		return config.FormatText, nil
	case config.FormatText, config.FormatJSON, config.FormatYAML, config.FormatCSV:
		return f, nil
	case "yml":
		return config.FormatYAML, nil
	}
	return "", errors.NewInvalidInputError("format", format, "must be one of text, json, yaml, csv")
}

// WriteProjectReport renders a project report in the given format
func WriteProjectReport(w io.Writer, report *domain.ProjectTimeReport, format string, opts Options) error {
	f, err := ParseFormat(format)
	if err != nil {
		return err
	}
	switch f {
	case config.FormatJSON:
		return writeJSON(w, report)
	case config.FormatYAML:
		return writeYAML(w, report)
	case config.FormatCSV:
		return projectReportCSV(w, report, opts)
	default:
		_, err := fmt.Fprint(w, projectReportText(report, opts))
		return err
	}
}

// WriteGlobalReport renders a global report in the given format
func WriteGlobalReport(w io.Writer, report *domain.GlobalTimeReport, format string, opts Options) error {
	f, err := ParseFormat(format)
	if err != nil {
		return err
	}
	switch f {
	case config.FormatJSON:
		return writeJSON(w, report)
	case config.FormatYAML:
		return writeYAML(w, report)
	case config.FormatCSV:
		return globalReportCSV(w, report)
	default:
		_, err := fmt.Fprint(w, globalReportText(report, opts))
		return err
	}
}

// FormatDuration renders milliseconds as hh:mm:ss
func FormatDuration(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	secs := ms / 1000
	h := secs / 3600
	m := (secs % 3600) / 60
	s := secs % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
