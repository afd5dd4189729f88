package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"project-tracker/internal/api"
	"project-tracker/internal/config"
	"project-tracker/internal/domain"
	"project-tracker/internal/errors"
	"project-tracker/internal/export"
	"project-tracker/internal/logging"
)

// Command is implemented by every command handler
type Command interface {
	Execute(ctx context.Context, args []string) error
}

// timeNow is a variable that can be replaced in tests
var timeNow = time.Now

// App holds what every command handler needs
type App struct {
	businessAPI api.BusinessAPI
	config      *config.Config
	logger      *logging.Logger
	out         io.Writer
}

// NewApp creates a new CLI application instance with dependency injection
func NewApp(businessAPI api.BusinessAPI, cfg *config.Config, logger *logging.Logger, out io.Writer) *App {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	if logger == nil {
		logger = logging.Nop()
	}
	if out == nil {
		out = os.Stdout
	}
	return &App{
		businessAPI: businessAPI,
		config:      cfg,
		logger:      logger,
		out:         out,
	}
}

// exportOptions renders reports the way the configuration asks for
func (a *App) exportOptions() export.Options {
	return export.Options{
		TimeFormat:    a.config.Time.DisplayFormat,
		RelativeTimes: a.config.Display.RelativeTimes,
		Now:           timeNow(),
	}
}

func (a *App) printf(format string, args ...interface{}) {
	fmt.Fprintf(a.out, format, args...)
}

var shorthandPattern = regexp.MustCompile(`^(\d+)(m|h|d|w)$`)

// parseTimeShorthand parses "30m", "2h", "1d", "1w" and falls back to
// Go duration syntax such as "1h30m".
func parseTimeShorthand(shorthand string) (time.Duration, error) {
	matches := shorthandPattern.FindStringSubmatch(shorthand)
	if matches == nil {
		d, err := time.ParseDuration(shorthand)
		if err != nil || d <= 0 {
			return 0, fmt.Errorf("invalid time format: %s", shorthand)
		}
		return d, nil
	}

	value, err := strconv.Atoi(matches[1])
	if err != nil {
		return 0, fmt.Errorf("invalid number in time format: %s", shorthand)
	}

	switch matches[2] {
	case "m":
		return time.Duration(value) * time.Minute, nil
	case "h":
		return time.Duration(value) * time.Hour, nil
	case "d":
		return time.Duration(value) * 24 * time.Hour, nil
	default:
		return time.Duration(value) * 7 * 24 * time.Hour, nil
	}
}

// parseTimestamp accepts RFC 3339 or the configured display format in local time
func (a *App) parseTimestamp(field, raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation(a.config.Time.DisplayFormat, raw, time.Local); err == nil {
		return t, nil
	}
	return time.Time{}, errors.NewInvalidInputError(field, raw, "expected RFC 3339 or "+a.config.Time.DisplayFormat)
}

// parseTaskID parses a positional task id
func parseTaskID(raw string) (int64, error) {
	return parseID("task_id", raw)
}

// parseID parses a positive record id; field names it in the error
func parseID(field, raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.NewInvalidInputError(field, raw, "must be a positive integer")
	}
	return id, nil
}

// parseDate parses a YYYY-MM-DD calendar date; empty means the zero time
func parseDate(field, raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(domain.DateLayout, raw)
	if err != nil {
		return time.Time{}, errors.NewInvalidInputError(field, raw, "expected "+domain.DateLayout)
	}
	return t, nil
}
