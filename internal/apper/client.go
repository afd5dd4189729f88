// Package apper is a client for the hosted record backend. It implements the
// record-store contract over the backend's fetch/create/update/delete JSON
// endpoints.
package apper

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"project-tracker/internal/domain"
	"project-tracker/internal/errors"
	"project-tracker/internal/logging"

	"github.com/google/uuid"
)

// Request headers understood by the backend
const (
	HeaderProjectID = "X-Apper-Project-Id"
	HeaderPublicKey = "X-Apper-Public-Key"
	HeaderRequestID = "X-Request-Id"
)

// Config contains the backend connection settings
type Config struct {
	BaseURL    string
	ProjectID  string
	PublicKey  string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *logging.Logger
}

// Client talks to the hosted record backend
type Client struct {
	config     Config
	httpClient *http.Client
	logger     *logging.Logger
}

// APIError is a non-2xx response from the backend
type APIError struct {
	StatusCode int
	Message    string
	RequestID  string
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("apper API error (%d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("apper API error (%d)", e.StatusCode)
}

// IsAuthenticationError returns true if the credentials were rejected
func (e *APIError) IsAuthenticationError() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// NewClient creates a backend client
func NewClient(config Config) (*Client, error) {
	if strings.TrimSpace(config.BaseURL) == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if _, err := url.Parse(config.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if strings.TrimSpace(config.ProjectID) == "" {
		return nil, fmt.Errorf("project id is required")
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: config.Timeout}
	}
	logger := config.Logger
	if logger == nil {
		logger = logging.Nop()
	}

	return &Client{
		config:     config,
		httpClient: httpClient,
		logger:     logger.With(logging.F("component", "apper")),
	}, nil
}

// FetchProjects returns every project, newest first
func (c *Client) FetchProjects(ctx context.Context) ([]domain.Project, error) {
	records, err := fetch[projectRecord](ctx, c, TableProject, FetchParams{
		Fields:  Fields(projectFields...),
		OrderBy: []OrderBy{Desc("CreatedOn")},
	}).Unwrap()
	if err != nil {
		return nil, c.classify("projects", err)
	}

	projects := make([]domain.Project, len(records))
	for i, r := range records {
		projects[i] = r.toDomain()
	}
	return projects, nil
}

// FetchProject returns one project
func (c *Client) FetchProject(ctx context.Context, id int64) (*domain.Project, error) {
	records, err := fetch[projectRecord](ctx, c, TableProject, FetchParams{
		Fields: Fields(projectFields...),
		Where:  []Where{EqualTo("Id", id)},
	}).Unwrap()
	if err != nil {
		return nil, c.classify(fmt.Sprintf("project %d", id), err)
	}
	if len(records) == 0 {
		return nil, errors.NewNotFoundError("project", fmt.Sprintf("%d", id))
	}

	project := records[0].toDomain()
	return &project, nil
}

// FetchTasks returns every task, newest first
func (c *Client) FetchTasks(ctx context.Context) ([]domain.Task, error) {
	records, err := fetch[taskRecord](ctx, c, TableTask, FetchParams{
		Fields:  Fields(taskFields...),
		OrderBy: []OrderBy{Desc("CreatedOn")},
	}).Unwrap()
	if err != nil {
		return nil, c.classify("tasks", err)
	}

	tasks := make([]domain.Task, len(records))
	for i, r := range records {
		tasks[i] = r.toDomain()
	}
	return tasks, nil
}

// FetchTask returns one task
func (c *Client) FetchTask(ctx context.Context, id int64) (*domain.Task, error) {
	records, err := fetch[taskRecord](ctx, c, TableTask, FetchParams{
		Fields: Fields(taskFields...),
		Where:  []Where{EqualTo("Id", id)},
	}).Unwrap()
	if err != nil {
		return nil, c.classify(fmt.Sprintf("task %d", id), err)
	}
	if len(records) == 0 {
		return nil, errors.NewNotFoundError("task", fmt.Sprintf("%d", id))
	}

	task := records[0].toDomain()
	return &task, nil
}

// FetchTimeLogs returns the logs of one task, newest start first
func (c *Client) FetchTimeLogs(ctx context.Context, taskID int64) ([]domain.TimeLog, error) {
	records, err := fetch[timeLogRecord](ctx, c, TableTimeLog, FetchParams{
		Fields:  Fields(timeLogFields...),
		Where:   []Where{EqualTo("task_id", taskID)},
		OrderBy: []OrderBy{Desc("start_time")},
	}).Unwrap()
	if err != nil {
		return nil, c.classify(fmt.Sprintf("time logs for task %d", taskID), err)
	}
	return timeLogsToDomain(records), nil
}

// FetchAllTimeLogs returns every log, newest start first
func (c *Client) FetchAllTimeLogs(ctx context.Context) ([]domain.TimeLog, error) {
	records, err := fetch[timeLogRecord](ctx, c, TableTimeLog, FetchParams{
		Fields:  Fields(timeLogFields...),
		OrderBy: []OrderBy{Desc("start_time")},
	}).Unwrap()
	if err != nil {
		return nil, c.classify("time logs", err)
	}
	return timeLogsToDomain(records), nil
}

// CreateProject creates a project and returns it as stored
func (c *Client) CreateProject(ctx context.Context, project domain.Project) (*domain.Project, error) {
	rec, err := create(ctx, c, TableProject, projectFromDomain(project)).Unwrap()
	if err != nil {
		return nil, c.classify("create project", err)
	}
	created := rec.toDomain()
	return &created, nil
}

// CreateTask creates a task and returns it as stored
func (c *Client) CreateTask(ctx context.Context, task domain.Task) (*domain.Task, error) {
	rec, err := create(ctx, c, TableTask, taskFromDomain(task)).Unwrap()
	if err != nil {
		return nil, c.classify("create task", err)
	}
	created := rec.toDomain()
	return &created, nil
}

// CreateTimeLog appends a time log and returns it as stored
func (c *Client) CreateTimeLog(ctx context.Context, log domain.TimeLog) (*domain.TimeLog, error) {
	rec, err := create(ctx, c, TableTimeLog, timeLogFromDomain(log)).Unwrap()
	if err != nil {
		return nil, c.classify("create time log", err)
	}
	created := rec.toDomain()
	return &created, nil
}

// UpdateProject replaces a project's fields and returns it as stored
func (c *Client) UpdateProject(ctx context.Context, project domain.Project) (*domain.Project, error) {
	rec, err := update(ctx, c, TableProject, projectFromDomain(project)).Unwrap()
	if err != nil {
		return nil, c.classify(fmt.Sprintf("update project %d", project.ID), err)
	}
	updated := rec.toDomain()
	return &updated, nil
}

// DeleteProject deletes a project
func (c *Client) DeleteProject(ctx context.Context, id int64) error {
	if err := remove(ctx, c, TableProject, id); err != nil {
		return c.classifyDelete("project", id, err)
	}
	return nil
}

// UpdateTask replaces a task's fields and returns it as stored
func (c *Client) UpdateTask(ctx context.Context, task domain.Task) (*domain.Task, error) {
	rec, err := update(ctx, c, TableTask, taskFromDomain(task)).Unwrap()
	if err != nil {
		return nil, c.classify(fmt.Sprintf("update task %d", task.ID), err)
	}
	updated := rec.toDomain()
	return &updated, nil
}

// DeleteTask deletes a task; its time logs stay on the backend
func (c *Client) DeleteTask(ctx context.Context, id int64) error {
	if err := remove(ctx, c, TableTask, id); err != nil {
		return c.classifyDelete("task", id, err)
	}
	return nil
}

// FetchInvoices returns every invoice, newest first
func (c *Client) FetchInvoices(ctx context.Context) ([]domain.Invoice, error) {
	records, err := fetch[invoiceRecord](ctx, c, TableInvoice, FetchParams{
		Fields:  Fields(invoiceFields...),
		OrderBy: []OrderBy{Desc("CreatedOn")},
	}).Unwrap()
	if err != nil {
		return nil, c.classify("invoices", err)
	}

	invoices := make([]domain.Invoice, len(records))
	for i, r := range records {
		invoices[i] = r.toDomain()
	}
	return invoices, nil
}

// FetchInvoice returns one invoice
func (c *Client) FetchInvoice(ctx context.Context, id int64) (*domain.Invoice, error) {
	records, err := fetch[invoiceRecord](ctx, c, TableInvoice, FetchParams{
		Fields: Fields(invoiceFields...),
		Where:  []Where{EqualTo("Id", id)},
	}).Unwrap()
	if err != nil {
		return nil, c.classify(fmt.Sprintf("invoice %d", id), err)
	}
	if len(records) == 0 {
		return nil, errors.NewNotFoundError("invoice", fmt.Sprintf("%d", id))
	}

	invoice := records[0].toDomain()
	return &invoice, nil
}

// CreateInvoice creates an invoice and returns it as stored
func (c *Client) CreateInvoice(ctx context.Context, invoice domain.Invoice) (*domain.Invoice, error) {
	rec, err := create(ctx, c, TableInvoice, invoiceFromDomain(invoice)).Unwrap()
	if err != nil {
		return nil, c.classify("create invoice", err)
	}
	created := rec.toDomain()
	return &created, nil
}

// UpdateInvoice replaces an invoice's fields and returns it as stored
func (c *Client) UpdateInvoice(ctx context.Context, invoice domain.Invoice) (*domain.Invoice, error) {
	rec, err := update(ctx, c, TableInvoice, invoiceFromDomain(invoice)).Unwrap()
	if err != nil {
		return nil, c.classify(fmt.Sprintf("update invoice %d", invoice.ID), err)
	}
	updated := rec.toDomain()
	return &updated, nil
}

// DeleteInvoice deletes an invoice
func (c *Client) DeleteInvoice(ctx context.Context, id int64) error {
	if err := remove(ctx, c, TableInvoice, id); err != nil {
		return c.classifyDelete("invoice", id, err)
	}
	return nil
}

func timeLogsToDomain(records []timeLogRecord) []domain.TimeLog {
	logs := make([]domain.TimeLog, len(records))
	for i, r := range records {
		logs[i] = r.toDomain()
	}
	return logs
}

// fetch posts params to the table's fetch endpoint
func fetch[T any](ctx context.Context, c *Client, table string, params FetchParams) Result[[]T] {
	var env fetchEnvelope[T]
	if err := c.send(ctx, http.MethodPost, c.recordsPath(table)+"/fetch", params, &env); err != nil {
		return Fail[[]T](err)
	}
	if !env.Success {
		return Fail[[]T](backendFailure(env.Message, "fetch failed"))
	}
	if env.Data == nil {
		return Ok([]T{})
	}
	return Ok(env.Data)
}

// create posts a single new record
func create[T any](ctx context.Context, c *Client, table string, record T) Result[T] {
	return write(ctx, c, http.MethodPost, table, record, "create")
}

// update puts a single record carrying its Id
func update[T any](ctx context.Context, c *Client, table string, record T) Result[T] {
	return write(ctx, c, http.MethodPut, table, record, "update")
}

// write sends one record; any failed per-record result fails the call
func write[T any](ctx context.Context, c *Client, method, table string, record T, verb string) Result[T] {
	var env createEnvelope[T]
	body := CreateParams[T]{Records: []T{record}}
	if err := c.send(ctx, method, c.recordsPath(table), body, &env); err != nil {
		return Fail[T](err)
	}
	if !env.Success {
		return Fail[T](backendFailure(env.Message, verb+" failed"))
	}

	var written *T
	failed := 0
	var firstFailure string
	for _, res := range env.Results {
		if !res.Success {
			if failed == 0 {
				firstFailure = res.Message
			}
			failed++
			continue
		}
		if written == nil {
			written = res.Data
		}
	}
	if failed > 0 {
		c.logger.Error("backend rejected records", logging.F("table", table), logging.F("verb", verb), logging.F("failed", failed))
		return Fail[T](backendFailure(firstFailure, fmt.Sprintf("failed to %s %s", verb, table)))
	}
	if written == nil {
		return Fail[T](fmt.Errorf("backend returned no %sd record", verb))
	}
	return Ok(*written)
}

// errNothingDeleted marks a delete the backend accepted without removing a record
var errNothingDeleted = stderrors.New("no record deleted")

// remove deletes one record by id
func remove(ctx context.Context, c *Client, table string, id int64) error {
	var env createEnvelope[json.RawMessage]
	if err := c.send(ctx, http.MethodDelete, c.recordsPath(table), DeleteParams{RecordIds: []int64{id}}, &env); err != nil {
		return err
	}
	if !env.Success {
		return backendFailure(env.Message, "delete failed")
	}

	deleted := 0
	for _, res := range env.Results {
		if !res.Success {
			c.logger.Error("backend rejected delete", logging.F("table", table), logging.F("id", id))
			return backendFailure(res.Message, "failed to delete "+table)
		}
		deleted++
	}
	if deleted == 0 {
		return errNothingDeleted
	}
	return nil
}

func (c *Client) recordsPath(table string) string {
	return fmt.Sprintf("/projects/%s/records/%s", url.PathEscape(c.config.ProjectID), table)
}

func backendFailure(message, fallback string) error {
	if strings.TrimSpace(message) == "" {
		message = fallback
	}
	return stderrors.New(message)
}

// send writes body as JSON and decodes a 2xx response into out
func (c *Client) send(ctx context.Context, method, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(HeaderProjectID, c.config.ProjectID)
	if c.config.PublicKey != "" {
		req.Header.Set(HeaderPublicKey, c.config.PublicKey)
	}
	req.Header.Set(HeaderRequestID, requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	c.logger.Debug("backend request",
		logging.F("method", method),
		logging.F("path", path),
		logging.F("status", resp.StatusCode),
		logging.F("request_id", requestID),
		logging.F("elapsed", time.Since(start)),
	)

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode, RequestID: requestID}
		var env struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(data, &env) == nil && env.Message != "" {
			apiErr.Message = env.Message
		} else {
			apiErr.Message = strings.TrimSpace(string(data))
		}
		return apiErr
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// classify maps transport and backend failures onto application errors
func (c *Client) classify(operation string, err error) error {
	var apiErr *APIError
	if stderrors.As(err, &apiErr) && apiErr.IsAuthenticationError() {
		permErr := errors.NewPermissionError("fetch", operation)
		permErr.Cause = apiErr
		return permErr
	}
	if stderrors.Is(err, context.DeadlineExceeded) {
		return errors.NewTimeoutError(operation, c.config.Timeout.String())
	}
	return errors.NewFetchError(operation, err)
}

// classifyDelete reports a delete that removed nothing as not found
func (c *Client) classifyDelete(resource string, id int64, err error) error {
	if stderrors.Is(err, errNothingDeleted) {
		return errors.NewNotFoundError(resource, fmt.Sprintf("%d", id))
	}
	return c.classify(fmt.Sprintf("delete %s %d", resource, id), err)
}
