package server

import (
	"bytes"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"project-tracker/internal/config"
	"project-tracker/internal/errors"
	"project-tracker/internal/export"
)

var contentTypes = map[string]string{
	config.FormatJSON: echo.MIMEApplicationJSON,
	config.FormatYAML: "application/yaml",
	config.FormatCSV:  "text/csv",
	config.FormatText: echo.MIMETextPlainCharsetUTF8,
}

// reportFormat reads ?format=, defaulting to json
func reportFormat(c echo.Context) (string, error) {
	format := c.QueryParam("format")
	if strings.TrimSpace(format) == "" {
		return config.FormatJSON, nil
	}
	return export.ParseFormat(format)
}

func taskIDParam(c echo.Context) (int64, error) {
	return idParam(c, "task_id")
}

// idParam reads the :id path parameter; field names it in the error
func idParam(c echo.Context, field string) (int64, error) {
	raw := c.Param("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.NewInvalidInputError(field, raw, "must be a positive integer")
	}
	return id, nil
}

func (s *Server) handleProjectReport(c echo.Context) error {
	format, err := reportFormat(c)
	if err != nil {
		return err
	}

	report, err := s.api.ProjectReport(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	if format == config.FormatJSON {
		return c.JSON(http.StatusOK, report)
	}

	var buf bytes.Buffer
	if err := export.WriteProjectReport(&buf, report, format, s.exportOpts); err != nil {
		return err
	}
	return c.Blob(http.StatusOK, contentTypes[format], buf.Bytes())
}

func (s *Server) handleGlobalReport(c echo.Context) error {
	format, err := reportFormat(c)
	if err != nil {
		return err
	}

	report, err := s.api.GlobalReport(c.Request().Context())
	if err != nil {
		return err
	}
	if format == config.FormatJSON {
		return c.JSON(http.StatusOK, report)
	}

	var buf bytes.Buffer
	if err := export.WriteGlobalReport(&buf, report, format, s.exportOpts); err != nil {
		return err
	}
	return c.Blob(http.StatusOK, contentTypes[format], buf.Bytes())
}

func (s *Server) handleTimerStatus(c echo.Context) error {
	id, err := taskIDParam(c)
	if err != nil {
		return err
	}
	status, err := s.api.TimerStatus(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"taskId":  id,
		"running": status.IsRunning(),
		"timer":   status.Timer,
		"elapsed": status.Elapsed.Milliseconds(),
	})
}

func (s *Server) handleTimerStart(c echo.Context) error {
	id, err := taskIDParam(c)
	if err != nil {
		return err
	}
	timer, err := s.api.StartTimer(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, timer)
}

func (s *Server) handleTimerStop(c echo.Context) error {
	id, err := taskIDParam(c)
	if err != nil {
		return err
	}
	log, err := s.api.StopTimer(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, log)
}
