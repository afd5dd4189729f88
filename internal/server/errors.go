package server

import (
	stderrors "errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"project-tracker/internal/errors"
	"project-tracker/internal/logging"
	"project-tracker/internal/validation"
)

// errorResponse is the JSON body of every failed request
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// statusFor maps application errors onto HTTP status codes
func statusFor(err error) int {
	if validation.IsValidationError(err) {
		return http.StatusBadRequest
	}
	appErr, ok := errors.AsAppError(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch appErr.Type {
	case errors.ErrorTypeNotFound:
		return http.StatusNotFound
	case errors.ErrorTypeValidation, errors.ErrorTypeInvalidInput:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// handleError renders errors returned by handlers
func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var httpErr *echo.HTTPError
	if stderrors.As(err, &httpErr) {
		msg := http.StatusText(httpErr.Code)
		if m, ok := httpErr.Message.(string); ok {
			msg = m
		}
		c.JSON(httpErr.Code, errorResponse{Error: msg, Code: "HTTP_ERROR"})
		return
	}

	status := statusFor(err)
	if status >= http.StatusInternalServerError || errors.ShouldLogError(err) {
		s.logger.Error("request failed",
			logging.F("uri", c.Request().RequestURI),
			logging.F("error", err),
		)
	}

	msg := errors.GetUserMessage(err)
	if ve := validation.AsValidationError(err); ve != nil {
		msg = ve.GetUserFriendlyMessage()
	}
	c.JSON(status, errorResponse{Error: msg, Code: errors.GetErrorCode(err)})
}
