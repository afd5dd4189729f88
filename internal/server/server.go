package server

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"project-tracker/internal/api"
	"project-tracker/internal/config"
	"project-tracker/internal/export"
	"project-tracker/internal/logging"
)

// Server exposes reports, timers, catalog edits and invoices over HTTP
type Server struct {
	api        api.BusinessAPI
	logger     *logging.Logger
	exportOpts export.Options
	echo       *echo.Echo
}

// New creates a new server on top of businessAPI
func New(businessAPI api.BusinessAPI, cfg *config.Config, logger *logging.Logger) *Server {
	if logger == nil {
		logger = logging.Nop()
	}

	s := &Server{
		api:    businessAPI,
		logger: logger.With(logging.F("component", "http")),
	}
	if cfg != nil {
		s.exportOpts = export.Options{TimeFormat: cfg.Time.DisplayFormat}
	}

	s.setupEcho()
	return s
}

func (s *Server) setupEcho() {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = s.handleError

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(s.loggingMiddleware)

	e.GET("/health", s.handleHealth)

	v1 := e.Group("/api/v1")
	v1.GET("/time-report", s.handleGlobalReport)
	v1.GET("/projects/:id/time-report", s.handleProjectReport)
	v1.GET("/tasks/:id/timer", s.handleTimerStatus)
	v1.POST("/tasks/:id/timer/start", s.handleTimerStart)
	v1.POST("/tasks/:id/timer/stop", s.handleTimerStop)

	v1.GET("/projects/:id", s.handleGetProject)
	v1.PATCH("/projects/:id", s.handleUpdateProject)
	v1.DELETE("/projects/:id", s.handleDeleteProject)
	v1.PATCH("/tasks/:id", s.handleUpdateTask)
	v1.PUT("/tasks/:id/status", s.handleUpdateTaskStatus)
	v1.DELETE("/tasks/:id", s.handleDeleteTask)

	v1.GET("/invoices", s.handleListInvoices)
	v1.POST("/invoices", s.handleCreateInvoice)
	v1.GET("/invoices/:id", s.handleGetInvoice)
	v1.PATCH("/invoices/:id", s.handleUpdateInvoice)
	v1.DELETE("/invoices/:id", s.handleDeleteInvoice)
	v1.POST("/invoices/:id/send", s.handleSendInvoice)
	v1.POST("/invoices/:id/pay", s.handlePayInvoice)

	s.echo = e
}

// loggingMiddleware logs every request with its outcome
func (s *Server) loggingMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		req := c.Request()

		err := next(c)
		if err != nil {
			// resolve the status before logging it
			c.Error(err)
		}

		res := c.Response()
		s.logger.Info("HTTP request",
			logging.F("method", req.Method),
			logging.F("uri", req.RequestURI),
			logging.F("status", res.Status),
			logging.F("size", res.Size),
			logging.F("request_id", res.Header().Get(echo.HeaderXRequestID)),
			logging.F("duration", time.Since(start).String()),
		)
		return nil
	}
}

// Router returns the HTTP handler
func (s *Server) Router() http.Handler {
	return s.echo
}

// Start serves until Shutdown is called
func (s *Server) Start(addr string) error {
	s.logger.Info("server starting", logging.F("addr", addr))
	if err := s.echo.Start(addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
