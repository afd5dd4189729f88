package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"project-tracker/internal/logging"
)

// Backend kinds select where records are read from and written to.
const (
	BackendSQL   = "sql"
	BackendApper = "apper"
)

// Report output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatCSV  = "csv"
)

// Config holds all configuration options for the project tracker
type Config struct {
	Database    DatabaseConfig
	Backend     BackendConfig
	Report      ReportConfig
	Logging     LoggingConfig
	Time        TimeConfig
	Validation  ValidationConfig
	Display     DisplayConfig
	Server      ServerConfig
	Application ApplicationConfig
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Driver         string        `env:"PT_DB_DRIVER"`
	DSN            string        `env:"PT_DB_DSN"`
	Dir            string        `env:"PT_DB_DIR"`
	Filename       string        `env:"PT_DB_FILENAME"`
	QueryTimeout   time.Duration `env:"PT_DB_QUERY_TIMEOUT"`
	WriteTimeout   time.Duration `env:"PT_DB_WRITE_TIMEOUT"`
	DirPermissions uint32        `env:"PT_DB_DIR_PERMISSIONS"`
}

// BackendConfig selects the record store and holds the hosted backend credentials
type BackendConfig struct {
	Kind      string        `env:"PT_BACKEND"`
	BaseURL   string        `env:"PT_APPER_BASE_URL"`
	ProjectID string        `env:"PT_APPER_PROJECT_ID"`
	PublicKey string        `env:"PT_APPER_PUBLIC_KEY"`
	Timeout   time.Duration `env:"PT_APPER_TIMEOUT"`
}

// ReportConfig tunes report generation
type ReportConfig struct {
	RecentLogLimit   int `env:"PT_REPORT_RECENT_LOGS"`
	FetchConcurrency int `env:"PT_REPORT_FETCH_CONCURRENCY"`
}

// LoggingConfig holds logger configuration
type LoggingConfig struct {
	Level   string `env:"PT_LOG_LEVEL"`
	File    string `env:"PT_LOG_FILE"`
	Console bool   `env:"PT_LOG_CONSOLE"`
}

// TimeConfig holds time formatting configuration
type TimeConfig struct {
	DisplayFormat string `env:"PT_TIME_DISPLAY_FORMAT"`
}

// ValidationConfig holds validation rules configuration
type ValidationConfig struct {
	TaskTitleMinLength int           `env:"PT_VALIDATION_TASK_TITLE_MIN"`
	TaskTitleMaxLength int           `env:"PT_VALIDATION_TASK_TITLE_MAX"`
	MaxDuration        time.Duration `env:"PT_VALIDATION_MAX_DURATION"`
}

// DisplayConfig holds display formatting configuration
type DisplayConfig struct {
	ReportFormat  string `env:"PT_REPORT_FORMAT"`
	RelativeTimes bool   `env:"PT_DISPLAY_RELATIVE_TIMES"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Addr string `env:"PT_SERVER_ADDR"`
}

// ApplicationConfig holds application-level configuration
type ApplicationConfig struct {
	Timeout time.Duration `env:"PT_APP_TIMEOUT"`
	Verbose bool          `env:"PT_APP_VERBOSE"`
}

// NewConfig creates a new configuration with sensible defaults
func NewConfig() *Config {
	homeDir, _ := os.UserHomeDir()

	return &Config{
		Database: DatabaseConfig{
			Driver:         "sqlite",
			Dir:            filepath.Join(homeDir, ".pt"),
			Filename:       "pt.db",
			QueryTimeout:   10 * time.Second,
			WriteTimeout:   5 * time.Second,
			DirPermissions: 0755,
		},
		Backend: BackendConfig{
			Kind:    BackendSQL,
			Timeout: 15 * time.Second,
		},
		Report: ReportConfig{
			RecentLogLimit:   10,
			FetchConcurrency: 1,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Time: TimeConfig{
			DisplayFormat: "2006-01-02 15:04:05",
		},
		Validation: ValidationConfig{
			TaskTitleMinLength: 1,
			TaskTitleMaxLength: 255,
			MaxDuration:        24 * time.Hour,
		},
		Display: DisplayConfig{
			ReportFormat:  FormatText,
			RelativeTimes: true,
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Application: ApplicationConfig{
			Timeout: 60 * time.Second,
		},
	}
}

// GetDatabasePath returns the full path to the sqlite database file
func (c *Config) GetDatabasePath() string {
	return filepath.Join(c.Database.Dir, c.Database.Filename)
}

// GetQueryTimeout returns the database query timeout
func (c *Config) GetQueryTimeout() time.Duration {
	return c.Database.QueryTimeout
}

// GetWriteTimeout returns the database write timeout
func (c *Config) GetWriteTimeout() time.Duration {
	return c.Database.WriteTimeout
}

// LoggerConfig builds the logger configuration. PT_DEBUG forces debug level.
func (c *Config) LoggerConfig() logging.Config {
	level := logging.ParseLevel(c.Logging.Level)
	if logging.DebugEnabled() || c.Application.Verbose {
		level = logging.DEBUG
	}
	return logging.Config{
		Level:    level,
		FilePath: c.Logging.File,
		Console:  c.Logging.Console,
	}
}

// LoadFromEnvironment loads configuration from environment variables.
// Unparseable values are ignored and the current value is kept.
func (c *Config) LoadFromEnvironment() error {
	// Database configuration
	if driver := os.Getenv("PT_DB_DRIVER"); driver != "" {
		c.Database.Driver = driver
	}
	if dsn := os.Getenv("PT_DB_DSN"); dsn != "" {
		c.Database.DSN = dsn
	}
	if dir := os.Getenv("PT_DB_DIR"); dir != "" {
		c.Database.Dir = dir
	}
	if filename := os.Getenv("PT_DB_FILENAME"); filename != "" {
		c.Database.Filename = filename
	}
	if timeout := os.Getenv("PT_DB_QUERY_TIMEOUT"); timeout != "" {
		c.Database.QueryTimeout = ParseDurationWithFallback(timeout, c.Database.QueryTimeout)
	}
	if timeout := os.Getenv("PT_DB_WRITE_TIMEOUT"); timeout != "" {
		c.Database.WriteTimeout = ParseDurationWithFallback(timeout, c.Database.WriteTimeout)
	}
	if perms := os.Getenv("PT_DB_DIR_PERMISSIONS"); perms != "" {
		c.Database.DirPermissions = ParseUint32WithFallback(perms, 8, c.Database.DirPermissions)
	}

	// Backend configuration
	if kind := os.Getenv("PT_BACKEND"); kind != "" {
		c.Backend.Kind = strings.ToLower(kind)
	}
	if url := os.Getenv("PT_APPER_BASE_URL"); url != "" {
		c.Backend.BaseURL = url
	}
	if id := os.Getenv("PT_APPER_PROJECT_ID"); id != "" {
		c.Backend.ProjectID = id
	}
	if key := os.Getenv("PT_APPER_PUBLIC_KEY"); key != "" {
		c.Backend.PublicKey = key
	}
	if timeout := os.Getenv("PT_APPER_TIMEOUT"); timeout != "" {
		c.Backend.Timeout = ParseDurationWithFallback(timeout, c.Backend.Timeout)
	}

	// Report configuration
	if limit := os.Getenv("PT_REPORT_RECENT_LOGS"); limit != "" {
		c.Report.RecentLogLimit = ParseIntWithFallback(limit, c.Report.RecentLogLimit)
	}
	if n := os.Getenv("PT_REPORT_FETCH_CONCURRENCY"); n != "" {
		c.Report.FetchConcurrency = ParseIntWithFallback(n, c.Report.FetchConcurrency)
	}

	// Logging configuration
	if level := os.Getenv("PT_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
	if file := os.Getenv("PT_LOG_FILE"); file != "" {
		c.Logging.File = file
	}
	if console := os.Getenv("PT_LOG_CONSOLE"); console != "" {
		c.Logging.Console = ParseBoolWithFallback(console, c.Logging.Console)
	}

	// Time configuration
	if format := os.Getenv("PT_TIME_DISPLAY_FORMAT"); format != "" {
		c.Time.DisplayFormat = format
	}

	// Validation configuration
	if minLen := os.Getenv("PT_VALIDATION_TASK_TITLE_MIN"); minLen != "" {
		c.Validation.TaskTitleMinLength = ParseIntWithFallback(minLen, c.Validation.TaskTitleMinLength)
	}
	if maxLen := os.Getenv("PT_VALIDATION_TASK_TITLE_MAX"); maxLen != "" {
		c.Validation.TaskTitleMaxLength = ParseIntWithFallback(maxLen, c.Validation.TaskTitleMaxLength)
	}
	if maxDur := os.Getenv("PT_VALIDATION_MAX_DURATION"); maxDur != "" {
		c.Validation.MaxDuration = ParseDurationWithFallback(maxDur, c.Validation.MaxDuration)
	}

	// Display configuration
	if format := os.Getenv("PT_REPORT_FORMAT"); format != "" {
		c.Display.ReportFormat = strings.ToLower(format)
	}
	if relative := os.Getenv("PT_DISPLAY_RELATIVE_TIMES"); relative != "" {
		c.Display.RelativeTimes = ParseBoolWithFallback(relative, c.Display.RelativeTimes)
	}

	// Server configuration
	if addr := os.Getenv("PT_SERVER_ADDR"); addr != "" {
		c.Server.Addr = addr
	}

	// Application configuration
	if timeout := os.Getenv("PT_APP_TIMEOUT"); timeout != "" {
		c.Application.Timeout = ParseDurationWithFallback(timeout, c.Application.Timeout)
	}
	if verbose := os.Getenv("PT_APP_VERBOSE"); verbose != "" {
		c.Application.Verbose = ParseBoolWithFallback(verbose, c.Application.Verbose)
	}

	return nil
}

// Validate validates the configuration and returns any errors
func (c *Config) Validate() error {
	// Backend selection
	switch c.Backend.Kind {
	case BackendSQL:
		if err := c.validateDatabase(); err != nil {
			return err
		}
	case BackendApper:
		if c.Backend.BaseURL == "" {
			return &ConfigError{Field: "backend.base_url", Message: "base URL is required for the apper backend"}
		}
		if c.Backend.ProjectID == "" {
			return &ConfigError{Field: "backend.project_id", Message: "project id is required for the apper backend"}
		}
		if c.Backend.Timeout <= 0 {
			return &ConfigError{Field: "backend.timeout", Message: "backend timeout must be positive"}
		}
	default:
		return &ConfigError{Field: "backend.kind", Message: "backend must be one of: sql, apper"}
	}

	// Report configuration
	if c.Report.RecentLogLimit < 1 {
		return &ConfigError{Field: "report.recent_log_limit", Message: "recent log limit must be at least 1"}
	}
	if c.Report.FetchConcurrency < 1 {
		return &ConfigError{Field: "report.fetch_concurrency", Message: "fetch concurrency must be at least 1"}
	}

	// Time configuration
	if c.Time.DisplayFormat == "" {
		return &ConfigError{Field: "time.display_format", Message: "display format cannot be empty"}
	}

	// Validation configuration
	if c.Validation.TaskTitleMinLength < 1 {
		return &ConfigError{Field: "validation.task_title_min_length", Message: "task title minimum length must be at least 1"}
	}
	if c.Validation.TaskTitleMaxLength < c.Validation.TaskTitleMinLength {
		return &ConfigError{Field: "validation.task_title_max_length", Message: "task title maximum length must be greater than minimum length"}
	}
	if c.Validation.MaxDuration <= 0 {
		return &ConfigError{Field: "validation.max_duration", Message: "max duration must be positive"}
	}

	// Display configuration
	switch c.Display.ReportFormat {
	case FormatText, FormatJSON, FormatYAML, FormatCSV:
	default:
		return &ConfigError{Field: "display.report_format", Message: "report format must be one of: text, json, yaml, csv"}
	}

	// Server configuration
	if c.Server.Addr == "" {
		return &ConfigError{Field: "server.addr", Message: "server address cannot be empty"}
	}

	// Application configuration
	if c.Application.Timeout <= 0 {
		return &ConfigError{Field: "application.timeout", Message: "application timeout must be positive"}
	}

	return nil
}

func (c *Config) validateDatabase() error {
	switch strings.ToLower(c.Database.Driver) {
	case "sqlite", "sqlite3":
		if c.Database.Dir == "" {
			return &ConfigError{Field: "database.dir", Message: "database directory cannot be empty"}
		}
		if c.Database.Filename == "" {
			return &ConfigError{Field: "database.filename", Message: "database filename cannot be empty"}
		}
	case "postgres", "postgresql":
		if c.Database.DSN == "" {
			return &ConfigError{Field: "database.dsn", Message: "a DSN is required for postgres"}
		}
	default:
		return &ConfigError{Field: "database.driver", Message: "unsupported database driver: " + c.Database.Driver}
	}

	if c.Database.QueryTimeout <= 0 {
		return &ConfigError{Field: "database.query_timeout", Message: "query timeout must be positive"}
	}
	if c.Database.WriteTimeout <= 0 {
		return &ConfigError{Field: "database.write_timeout", Message: "write timeout must be positive"}
	}
	return nil
}

// ConfigError represents a configuration validation error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}

// ParseDurationWithFallback parses a duration string with a fallback value
func ParseDurationWithFallback(s string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}
	return fallback
}

// ParseIntWithFallback parses an integer string with a fallback value
func ParseIntWithFallback(s string, fallback int) int {
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	return fallback
}

// ParseBoolWithFallback parses a boolean string with a fallback value
func ParseBoolWithFallback(s string, fallback bool) bool {
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return fallback
}

// ParseUint32WithFallback parses a uint32 string with a fallback value
func ParseUint32WithFallback(s string, base int, fallback uint32) uint32 {
	if u, err := strconv.ParseUint(s, base, 32); err == nil {
		return uint32(u)
	}
	return fallback
}
