package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"
	"time"
)

// Loader handles loading configuration from multiple sources
type Loader struct {
	config *Config
}

// NewLoader creates a new configuration loader
func NewLoader() *Loader {
	return &Loader{
		config: NewConfig(),
	}
}

// Load loads configuration using the cascading strategy:
// 1. Start with defaults
// 2. Override with the config file, if any
// 3. Override with environment variables
// 4. Override with command line flags (LoadWithOverrides)
func (l *Loader) Load() (*Config, error) {
	return l.LoadWithOverrides(nil)
}

// LoadWithOverrides loads configuration and applies command line overrides
func (l *Loader) LoadWithOverrides(overrides *ConfigOverrides) (*Config, error) {
	var explicitFile string
	if overrides != nil && overrides.ConfigFile != nil {
		explicitFile = *overrides.ConfigFile
	}

	if err := l.loadFile(explicitFile); err != nil {
		return nil, err
	}

	if err := l.config.LoadFromEnvironment(); err != nil {
		return nil, err
	}

	if overrides != nil {
		l.applyOverrides(l.config, overrides)
	}

	if err := l.config.Validate(); err != nil {
		return nil, err
	}

	return l.config, nil
}

// loadFile reads an explicit file (flag, then PT_CONFIG) and fails if it is
// missing; the default path is optional.
func (l *Loader) loadFile(explicit string) error {
	path := strings.TrimSpace(explicit)
	if path == "" {
		path = strings.TrimSpace(os.Getenv(ConfigFileEnvVar))
	}
	if path != "" {
		return l.config.LoadFromFile(path)
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return nil
	}
	if _, err := os.Stat(defaultPath); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return l.config.LoadFromFile(defaultPath)
}

// ConfigOverrides holds command line flag overrides
type ConfigOverrides struct {
	ConfigFile *string

	// Database overrides
	DBDriver       *string
	DBDSN          *string
	DBDir          *string
	DBFilename     *string
	DBQueryTimeout *time.Duration
	DBWriteTimeout *time.Duration

	// Backend overrides
	Backend *string

	// Report overrides
	RecentLogLimit   *int
	FetchConcurrency *int
	ReportFormat     *string

	// Logging overrides
	LogLevel *string
	LogFile  *string

	// Server overrides
	ServerAddr *string

	// Application overrides
	Timeout *time.Duration
	Verbose *bool
}

// applyOverrides applies command line overrides to the configuration
func (l *Loader) applyOverrides(config *Config, overrides *ConfigOverrides) {
	// Database overrides
	if overrides.DBDriver != nil {
		config.Database.Driver = *overrides.DBDriver
	}
	if overrides.DBDSN != nil {
		config.Database.DSN = *overrides.DBDSN
	}
	if overrides.DBDir != nil {
		config.Database.Dir = *overrides.DBDir
	}
	if overrides.DBFilename != nil {
		config.Database.Filename = *overrides.DBFilename
	}
	if overrides.DBQueryTimeout != nil {
		config.Database.QueryTimeout = *overrides.DBQueryTimeout
	}
	if overrides.DBWriteTimeout != nil {
		config.Database.WriteTimeout = *overrides.DBWriteTimeout
	}

	// Backend overrides
	if overrides.Backend != nil {
		config.Backend.Kind = strings.ToLower(*overrides.Backend)
	}

	// Report overrides
	if overrides.RecentLogLimit != nil {
		config.Report.RecentLogLimit = *overrides.RecentLogLimit
	}
	if overrides.FetchConcurrency != nil {
		config.Report.FetchConcurrency = *overrides.FetchConcurrency
	}
	if overrides.ReportFormat != nil {
		config.Display.ReportFormat = strings.ToLower(*overrides.ReportFormat)
	}

	// Logging overrides
	if overrides.LogLevel != nil {
		config.Logging.Level = *overrides.LogLevel
	}
	if overrides.LogFile != nil {
		config.Logging.File = *overrides.LogFile
	}

	// Server overrides
	if overrides.ServerAddr != nil {
		config.Server.Addr = *overrides.ServerAddr
	}

	// Application overrides
	if overrides.Timeout != nil {
		config.Application.Timeout = *overrides.Timeout
	}
	if overrides.Verbose != nil {
		config.Application.Verbose = *overrides.Verbose
	}
}
